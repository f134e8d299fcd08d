// Package report renders run reports for the CLI: a human-readable text
// form, a stable JSON form, and unified diffs for fix previews.
package report

import (
	"fmt"
	"io"

	"github.com/dustin/go-humanize/english"

	"github.com/styleguard/styleguard/internal/ast"
	"github.com/styleguard/styleguard/internal/color"
	"github.com/styleguard/styleguard/internal/diag"
	"github.com/styleguard/styleguard/internal/rule"
)

// TextFormatter renders one line per violation plus a run summary.
type TextFormatter struct {
	theme color.Theme
}

// NewTextFormatter creates a text formatter. useColor controls ANSI
// styling.
func NewTextFormatter(useColor bool) *TextFormatter {
	return &TextFormatter{theme: color.NewTheme(useColor)}
}

// Format writes the report. Lines look like
//
//	src/app.scss:3:5 [error] css.no-id-selector ID selectors are not allowed
//
// followed by a summary.
func (f *TextFormatter) Format(w io.Writer, report *diag.RunReport) error {
	for i := range report.Files {
		if err := f.formatFile(w, &report.Files[i]); err != nil {
			return err
		}
	}

	return f.formatSummary(w, report)
}

// reportedSource returns the bytes the file's violations are anchored
// in. After a fix pass the remaining violations carry spans into the
// fixed content, not the original.
func reportedSource(fr *diag.FileReport) []byte {
	if fr.Fixed != nil {
		return fr.Fixed
	}

	return fr.Source
}

func (f *TextFormatter) formatFile(w io.Writer, fr *diag.FileReport) error {
	if len(fr.Violations) == 0 && fr.AppliedFixes == 0 {
		return nil
	}

	li := ast.NewLineIndex(reportedSource(fr))

	for _, v := range fr.Violations {
		line, col := li.Position(v.Span.Start)

		sevStyle := f.theme.Warning
		if v.Severity == rule.SeverityError {
			sevStyle = f.theme.Error
		}

		_, err := fmt.Fprintf(w, "%s:%d:%d %s %s %s\n",
			f.theme.Path.Render(fr.Path), line, col,
			sevStyle.Render("["+string(v.Severity)+"]"),
			f.theme.RuleID.Render(v.RuleID),
			v.Message,
		)
		if err != nil {
			return err
		}
	}

	if fr.AppliedFixes > 0 {
		_, err := fmt.Fprintf(w, "%s %s\n",
			f.theme.Path.Render(fr.Path),
			f.theme.Fixed.Render(fmt.Sprintf("fixed %s", english.Plural(fr.AppliedFixes, "violation", ""))),
		)
		if err != nil {
			return err
		}
	}

	return nil
}

func (f *TextFormatter) formatSummary(w io.Writer, report *diag.RunReport) error {
	numErrors, warnings := report.Counts()

	summary := fmt.Sprintf("%s, %s in %s",
		english.Plural(numErrors, "error", ""),
		english.Plural(warnings, "warning", ""),
		english.Plural(len(report.Files), "file", ""),
	)

	applied := 0
	for i := range report.Files {
		applied += report.Files[i].AppliedFixes
	}

	if applied > 0 {
		summary += fmt.Sprintf(", %s applied", english.Plural(applied, "fix", "fixes"))
	}

	_, err := fmt.Fprintln(w, f.theme.Summary.Render(summary))

	return err
}

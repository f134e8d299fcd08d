package report

import (
	"io"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/pmezard/go-difflib/difflib"

	"github.com/styleguard/styleguard/internal/diag"
)

// DiffFormatter renders unified diffs of fixes without writing files.
type DiffFormatter struct{}

// NewDiffFormatter creates a diff formatter.
func NewDiffFormatter() *DiffFormatter {
	return &DiffFormatter{}
}

// Format writes one unified diff per fixed file. Files without applied
// fixes produce no output.
func (*DiffFormatter) Format(w io.Writer, report *diag.RunReport) error {
	for i := range report.Files {
		fr := &report.Files[i]
		if fr.Fixed == nil {
			continue
		}

		diff := difflib.UnifiedDiff{
			A:        difflib.SplitLines(string(fr.Source)),
			B:        difflib.SplitLines(string(fr.Fixed)),
			FromFile: fr.Path,
			ToFile:   fr.Path + " (fixed)",
			Context:  3,
		}

		text, err := difflib.GetUnifiedDiffString(diff)
		if err != nil {
			return errors.Wrapf(err, "diffing %s", fr.Path)
		}

		if _, err := io.WriteString(w, text); err != nil {
			return err
		}

		if !strings.HasSuffix(text, "\n") {
			if _, err := io.WriteString(w, "\n"); err != nil {
				return err
			}
		}
	}

	return nil
}

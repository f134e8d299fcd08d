package report

import (
	"encoding/json"
	"io"

	"github.com/cockroachdb/errors"

	"github.com/styleguard/styleguard/internal/ast"
	"github.com/styleguard/styleguard/internal/diag"
)

// jsonRun is the machine-readable report shape. Field order and contents
// are part of the output contract: two runs over identical input produce
// byte-identical JSON.
type jsonRun struct {
	Files   []jsonFile  `json:"files"`
	Summary jsonSummary `json:"summary"`
}

type jsonFile struct {
	Path        string          `json:"path"`
	ParseFailed bool            `json:"parseFailed,omitempty"`
	Fixed       bool            `json:"fixed,omitempty"`
	Violations  []jsonViolation `json:"violations"`
}

type jsonViolation struct {
	RuleID   string    `json:"ruleId"`
	Severity string    `json:"severity"`
	Message  string    `json:"message"`
	Range    jsonRange `json:"range"`
	Line     int       `json:"line"`
	Column   int       `json:"col"`
	Fixable  bool      `json:"fixable"`
}

type jsonRange struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

type jsonSummary struct {
	Errors       int `json:"errors"`
	Warnings     int `json:"warnings"`
	FixesApplied int `json:"fixesApplied"`
}

// JSONFormatter renders the report as indented JSON.
type JSONFormatter struct{}

// NewJSONFormatter creates a JSON formatter.
func NewJSONFormatter() *JSONFormatter {
	return &JSONFormatter{}
}

// Format writes the report as JSON.
func (*JSONFormatter) Format(w io.Writer, report *diag.RunReport) error {
	out := jsonRun{Files: make([]jsonFile, 0, len(report.Files))}

	for i := range report.Files {
		fr := &report.Files[i]
		li := ast.NewLineIndex(reportedSource(fr))

		jf := jsonFile{
			Path:        fr.Path,
			ParseFailed: fr.ParseFailed,
			Fixed:       fr.AppliedFixes > 0,
			Violations:  make([]jsonViolation, 0, len(fr.Violations)),
		}

		for _, v := range fr.Violations {
			line, col := li.Position(v.Span.Start)

			jf.Violations = append(jf.Violations, jsonViolation{
				RuleID:   v.RuleID,
				Severity: string(v.Severity),
				Message:  v.Message,
				Range:    jsonRange{Start: v.Span.Start, End: v.Span.End},
				Line:     line,
				Column:   col,
				Fixable:  v.Fixable(),
			})
		}

		out.Files = append(out.Files, jf)
		out.Summary.FixesApplied += fr.AppliedFixes
	}

	out.Summary.Errors, out.Summary.Warnings = report.Counts()

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")

	return errors.Wrap(enc.Encode(out), "encoding report")
}

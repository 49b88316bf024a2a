package validator

import (
	"encoding/json"
	"fmt"
	"io"
)

// Report is the wire form of a Result: every message rendered to its
// canonical string, grouped by severity.
type Report struct {
	Valid    bool     `json:"valid"`
	Errors   []string `json:"errors"`
	Warnings []string `json:"warnings"`
	Info     []string `json:"info"`
}

// BuildReport renders a Result into its serializable form. The slices are
// always non-nil so the JSON encoding carries empty arrays, not nulls.
func BuildReport(result *Result) Report {
	report := Report{
		Valid:    result.Valid,
		Errors:   make([]string, 0, len(result.Errors)),
		Warnings: make([]string, 0, len(result.Warnings)),
		Info:     make([]string, 0, len(result.Info)),
	}
	for _, m := range result.Errors {
		report.Errors = append(report.Errors, m.String())
	}
	for _, m := range result.Warnings {
		report.Warnings = append(report.Warnings, m.String())
	}
	for _, m := range result.Info {
		report.Info = append(report.Info, m.String())
	}
	return report
}

// PrettyReporter writes human-readable validation output.
type PrettyReporter struct {
	Writer io.Writer
}

// Report prints each message on its own line, severity-prefixed, followed by
// a one-line summary.
func (p *PrettyReporter) Report(source string, result *Result) {
	if source != "" {
		fmt.Fprintf(p.Writer, "%s:\n", source)
	}
	for _, m := range result.Errors {
		fmt.Fprintf(p.Writer, "  error: %s\n", m)
	}
	for _, m := range result.Warnings {
		fmt.Fprintf(p.Writer, "  warning: %s\n", m)
	}
	for _, m := range result.Info {
		fmt.Fprintf(p.Writer, "  info: %s\n", m)
	}

	if result.Valid {
		fmt.Fprintf(p.Writer, "  valid (%d warnings, %d info)\n", len(result.Warnings), len(result.Info))
	} else {
		fmt.Fprintf(p.Writer, "  invalid (%d errors, %d warnings, %d info)\n",
			len(result.Errors), len(result.Warnings), len(result.Info))
	}
}

// JSONReporter writes the Report form as indented JSON.
type JSONReporter struct {
	Writer io.Writer
}

func (j *JSONReporter) Report(result *Result) error {
	enc := json.NewEncoder(j.Writer)
	enc.SetIndent("", "  ")
	return enc.Encode(BuildReport(result))
}

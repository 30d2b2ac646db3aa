package batch

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"
)

// BatchReport summarizes one run. It is written as _batch_report.json at the
// XML tree root and formatted for the terminal by FormatBatchReport.
type BatchReport struct {
	StartedAt time.Time     `json:"started_at"`
	Duration  time.Duration `json:"duration_ns"`
	Workers   int           `json:"workers"`

	Total     int `json:"total"`
	OK        int `json:"ok"`
	XMLSyntax int `json:"xml_syntax_errors"`
	Unhandled int `json:"unhandled_errors"`
	Skipped   int `json:"skipped"`

	Results []TaskResult `json:"results"`
}

func newBatchReport(started time.Time, workers int, results []TaskResult) *BatchReport {
	report := &BatchReport{
		StartedAt: started,
		Duration:  time.Since(started),
		Workers:   workers,
		Total:     len(results),
		Results:   results,
	}
	for _, result := range results {
		switch result.Status {
		case StatusOK:
			report.OK++
		case StatusXMLSyntax:
			report.XMLSyntax++
		case StatusUnhandled:
			report.Unhandled++
		case StatusSkipped:
			report.Skipped++
		}
	}
	return report
}

// Write stores the report as JSON next to the artifacts.
func (r *BatchReport) Write(path string) error {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding batch report: %w", err)
	}
	return writeFile(path, data)
}

// ReadReport loads a previously written batch report.
func ReadReport(path string) (*BatchReport, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading batch report: %w", err)
	}
	var report BatchReport
	if err := json.Unmarshal(data, &report); err != nil {
		return nil, fmt.Errorf("parsing batch report: %w", err)
	}
	return &report, nil
}

// FormatBatchReport formats a report for terminal output.
func FormatBatchReport(report *BatchReport) string {
	var builder strings.Builder

	builder.WriteString("\nConversion Report\n")
	builder.WriteString(strings.Repeat("═", 60) + "\n")
	builder.WriteString(fmt.Sprintf("Files: %d | Workers: %d | Elapsed: %s\n",
		report.Total, report.Workers, report.Duration.Round(time.Millisecond)))
	builder.WriteString(fmt.Sprintf("Converted: %d | Syntax errors: %d | Unhandled: %d | Skipped: %d\n",
		report.OK, report.XMLSyntax, report.Unhandled, report.Skipped))
	builder.WriteString(strings.Repeat("─", 60) + "\n")

	for _, result := range report.Results {
		if result.Status == StatusOK {
			continue
		}
		status := string(result.Status)
		switch result.Status {
		case StatusXMLSyntax:
			status = "[XML]"
		case StatusUnhandled:
			status = "[FAIL]"
		case StatusSkipped:
			status = "[SKIP]"
		}
		line := fmt.Sprintf("  %-8s %-40s", status, result.Rel)
		if result.Error != "" {
			line += " " + result.Error
		}
		builder.WriteString(line + "\n")
	}

	return builder.String()
}

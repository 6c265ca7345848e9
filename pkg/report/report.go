package report

import (
	"bytes"
	"fmt"
	"io"
	"time"

	"github.com/google/renameio/v2"
)

// TimeLayout is the timestamp format used in reports and console headers.
const TimeLayout = "2006-01-02 15:04:05"

const (
	ResultsHeading = "=== ANALYSIS RESULTS ==="
	ErrorsHeading  = "=== ERRORS ==="
)

// Report summarizes one analysis run.
type Report struct {
	Name   string
	Path   string
	Time   time.Time
	Stdout string
	Stderr string
}

// WriteTo renders the report. The errors section is present only when
// Stderr is non-empty.
func (r *Report) WriteTo(w io.Writer) (int64, error) {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "Project Analysis: %s\n", r.Name)
	fmt.Fprintf(&buf, "Path: %s\n", r.Path)
	fmt.Fprintf(&buf, "Time: %s\n\n", r.Time.Format(TimeLayout))
	buf.WriteString(ResultsHeading + "\n")
	buf.WriteString(r.Stdout)
	if r.Stderr != "" {
		buf.WriteString("\n" + ErrorsHeading + "\n")
		buf.WriteString(r.Stderr)
	}
	return buf.WriteTo(w)
}

// WriteFile replaces filename with the rendered report. The file is written
// to a temporary sibling and renamed into place, so readers see either the
// previous report or the complete new one.
func WriteFile(r *Report, filename string) error {
	var buf bytes.Buffer
	if _, err := r.WriteTo(&buf); err != nil {
		return fmt.Errorf("failed to render report: %w", err)
	}

	if err := renameio.WriteFile(filename, buf.Bytes(), 0644); err != nil {
		return fmt.Errorf("failed to write file %s: %w", filename, err)
	}

	return nil
}

package report

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"FlowTagger/internal/model"
)

// TextWriter writes the report as a plain comma-separated text file:
//
//	Tag Counts:
//	Tag,Count
//	...
//	<blank line>
//	Port/Protocol Combination Counts:
//	Port,Protocol,Count
//	...
//
// It implements the model.Writer interface.
type TextWriter struct {
	path string
}

// NewTextWriter creates a text writer targeting the given output path.
func NewTextWriter(path string) model.Writer {
	return &TextWriter{path: path}
}

// Write creates (or overwrites) the destination file and serializes both
// aggregates. Intermediate directories are created as needed.
func (w *TextWriter) Write(report *model.Report) error {
	if dir := filepath.Dir(w.path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	file, err := os.Create(w.path)
	if err != nil {
		return fmt.Errorf("failed to create output file '%s': %w", w.path, err)
	}
	defer file.Close()

	cw := csv.NewWriter(file)

	write := func(record []string) error {
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("failed to write output row: %w", err)
		}
		return nil
	}

	if err := write([]string{"Tag Counts:"}); err != nil {
		return err
	}
	if err := write([]string{"Tag", "Count"}); err != nil {
		return err
	}
	for _, row := range report.TagCounts {
		if err := write([]string{row.Tag, strconv.FormatUint(row.Count, 10)}); err != nil {
			return err
		}
	}

	// Blank separator line between the two sections.
	if err := write([]string{}); err != nil {
		return err
	}

	if err := write([]string{"Port/Protocol Combination Counts:"}); err != nil {
		return err
	}
	if err := write([]string{"Port", "Protocol", "Count"}); err != nil {
		return err
	}
	for _, row := range report.PortProtoCounts {
		if err := write([]string{row.DstPort, row.Protocol, strconv.FormatUint(row.Count, 10)}); err != nil {
			return err
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("failed to flush output file '%s': %w", w.path, err)
	}

	return nil
}

// Package flowlog streams raw flow log lines from a file.
package flowlog

import (
	"bufio"
	"fmt"
	"os"
)

// maxLineSize bounds a single flow log line. Real v2 records are well under
// 1 KiB; this leaves headroom for extended formats.
const maxLineSize = 1024 * 1024

// Reader reads raw lines from a flow log file.
type Reader struct {
	file *os.File
}

// NewReader opens the flow log at the given path.
func NewReader(filePath string) (*Reader, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open flow log '%s': %w", filePath, err)
	}
	return &Reader{file: file}, nil
}

// Close closes the underlying file.
func (r *Reader) Close() error {
	return r.file.Close()
}

// ReadLines reads all lines from the flow log and sends them to the provided
// channel. It closes the channel when done and returns the first scan error,
// if any.
func (r *Reader) ReadLines(out chan<- string) error {
	defer close(out)

	scanner := bufio.NewScanner(r.file)
	scanner.Buffer(make([]byte, 64*1024), maxLineSize)
	for scanner.Scan() {
		out <- scanner.Text()
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("failed to read flow log: %w", err)
	}
	return nil
}

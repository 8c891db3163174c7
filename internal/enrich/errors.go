package enrich

import "fmt"

// MalformedReferenceError reports a reference table that cannot be loaded:
// a missing header row or a data row with too few columns. Reference tables
// are authoritative, so loading never proceeds past the first bad row.
type MalformedReferenceError struct {
	Source string
	Row    int // 1-based row number in the source, 0 when the whole source is bad
	Reason string
}

func (e *MalformedReferenceError) Error() string {
	if e.Row > 0 {
		return fmt.Sprintf("malformed reference %s: row %d: %s", e.Source, e.Row, e.Reason)
	}
	return fmt.Sprintf("malformed reference %s: %s", e.Source, e.Reason)
}

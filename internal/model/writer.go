package model

// Writer defines a generic interface for writing a finished report to a
// destination (text file, database, ...).
type Writer interface {
	// Write persists the report. It is called once per run, after both
	// aggregates are fully computed.
	Write(report *Report) error
}

package model

// Task defines a single, self-contained count task over the enriched record
// stream. This is the interface for the aggregation layer.
type Task interface {
	ProcessRecord(record *EnrichedRecord)
	Snapshot() interface{}
	Reset()
	Name() string
}

package model

// RawRecord holds the two fields extracted from a flow record before
// enrichment: the destination port token and the numeric protocol identifier.
type RawRecord struct {
	DstPort    string
	ProtocolID string
}

// EnrichedRecord is one flow record after protocol and tag resolution.
// DstPort keeps the casing of the input token; Protocol and Tag are
// lower-cased. Records are transient: they are produced per line and
// consumed immediately by the count tasks.
type EnrichedRecord struct {
	DstPort  string
	Protocol string
	Tag      string
}

// PortProtoKey is the composite key for the (destination port, protocol)
// aggregate. A struct key avoids any ambiguity around ordering or string
// concatenation of the two fields.
type PortProtoKey struct {
	DstPort  string
	Protocol string
}

// TagCount is one row of the tag aggregate.
type TagCount struct {
	Tag   string
	Count uint64
}

// PortProtoCount is one row of the (port, protocol) aggregate.
type PortProtoCount struct {
	DstPort  string
	Protocol string
	Count    uint64
}

// Report is the full result of a run: both aggregates, each in first-seen
// order. It is the payload handed to every writer.
type Report struct {
	TagCounts       []TagCount
	PortProtoCounts []PortProtoCount
}

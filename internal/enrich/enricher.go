package enrich

import (
	"fmt"
	"strings"

	"FlowTagger/internal/config"
	"FlowTagger/internal/model"
)

// Layout identifies which whitespace-delimited token of a raw flow log line
// holds the destination port and which holds the protocol number.
type Layout struct {
	DstPortIndex  int
	ProtocolIndex int
}

// DefaultLayout returns the standard version 2 flow record layout.
func DefaultLayout() Layout {
	return Layout{DstPortIndex: 6, ProtocolIndex: 7}
}

// NewLayout builds a Layout from config field definitions. The definitions
// must name both dstport and protocol_number, and every index must fall
// within the minimum field count.
func NewLayout(fields []config.FieldDef, minFields int) (Layout, error) {
	layout := Layout{DstPortIndex: -1, ProtocolIndex: -1}

	for _, field := range fields {
		if field.Index < 0 || field.Index >= minFields {
			return Layout{}, fmt.Errorf("layout field %q: index %d out of range [0, %d)", field.Name, field.Index, minFields)
		}
		switch field.Name {
		case config.FieldDstPort:
			layout.DstPortIndex = field.Index
		case config.FieldProtocolNumber:
			layout.ProtocolIndex = field.Index
		default:
			// Extra named fields are allowed; only the two we extract matter.
		}
	}

	if layout.DstPortIndex < 0 {
		return Layout{}, fmt.Errorf("layout missing required field %q", config.FieldDstPort)
	}
	if layout.ProtocolIndex < 0 {
		return Layout{}, fmt.Errorf("layout missing required field %q", config.FieldProtocolNumber)
	}

	return layout, nil
}

// Enricher resolves raw flow records to (port, protocol name, tag) using the
// loaded reference tables.
type Enricher struct {
	layout    Layout
	minFields int
	protocols *ProtocolMap
	lookup    *LookupTable
}

// NewEnricher creates an Enricher. minFields values below 1 fall back to the
// default minimum field count.
func NewEnricher(layout Layout, minFields int, protocols *ProtocolMap, lookup *LookupTable) *Enricher {
	if minFields < 1 {
		minFields = config.DefaultMinFields
	}
	return &Enricher{
		layout:    layout,
		minFields: minFields,
		protocols: protocols,
		lookup:    lookup,
	}
}

// EnrichLine splits a raw log line on whitespace runs and resolves it to an
// enriched record. Lines with fewer than the minimum number of tokens are
// skipped (ok=false); truncated lines are expected in real captures and are
// never an error.
func (e *Enricher) EnrichLine(line string) (*model.EnrichedRecord, bool) {
	tokens := strings.Fields(line)
	if len(tokens) < e.minFields {
		return nil, false
	}

	dstPort := strings.TrimSpace(tokens[e.layout.DstPortIndex])
	protocolID := strings.ToLower(strings.TrimSpace(tokens[e.layout.ProtocolIndex]))

	return e.enrich(dstPort, protocolID), true
}

// Enrich resolves a pre-extracted raw record, for sources that already yield
// (port, protocol id) pairs.
func (e *Enricher) Enrich(raw *model.RawRecord) *model.EnrichedRecord {
	return e.enrich(strings.TrimSpace(raw.DstPort), strings.ToLower(strings.TrimSpace(raw.ProtocolID)))
}

// enrich is the shared resolution path. The port keeps its original casing
// in the record while the lookup key is lower-cased.
func (e *Enricher) enrich(dstPort, protocolID string) *model.EnrichedRecord {
	protocol := strings.ToLower(e.protocols.Resolve(protocolID))
	tag := e.lookup.Resolve(strings.ToLower(dstPort), protocol)

	return &model.EnrichedRecord{
		DstPort:  dstPort,
		Protocol: protocol,
		Tag:      tag,
	}
}

// MinFields returns the minimum token count for a valid record.
func (e *Enricher) MinFields() int {
	return e.minFields
}

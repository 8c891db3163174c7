package enrich

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"

	"FlowTagger/internal/model"
)

// UntaggedTag is the sentinel tag returned for (port, protocol) pairs absent
// from the lookup table.
const UntaggedTag = "untagged"

// LookupTable maps (destination port, protocol name) pairs to a
// classification tag. Keys and tags are stored lower-cased. Immutable after
// load.
type LookupTable struct {
	tags map[model.PortProtoKey]string
}

// LoadLookupTable builds a LookupTable from a CSV file whose first row is a
// header and whose data rows carry [dstport, protocol, tag].
func LoadLookupTable(path string) (*LookupTable, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open lookup table: %w", err)
	}
	defer f.Close()

	return ReadLookupTable(f, path)
}

// ReadLookupTable reads lookup rows from r. source is used in error messages
// only.
func ReadLookupTable(r io.Reader, source string) (*LookupTable, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read lookup table %s: %w", source, err)
	}
	if len(rows) < 1 {
		return nil, &MalformedReferenceError{Source: source, Reason: "missing header row"}
	}

	tags := make(map[model.PortProtoKey]string, len(rows)-1)
	for i, row := range rows[1:] {
		if len(row) < 3 {
			return nil, &MalformedReferenceError{
				Source: source,
				Row:    i + 2,
				Reason: fmt.Sprintf("expected at least 3 columns, got %d", len(row)),
			}
		}
		key := model.PortProtoKey{
			DstPort:  strings.ToLower(strings.TrimSpace(row[0])),
			Protocol: strings.ToLower(strings.TrimSpace(row[1])),
		}
		// Duplicate keys collapse to a single tag, last occurrence wins.
		tags[key] = strings.ToLower(strings.TrimSpace(row[2]))
	}

	return &LookupTable{tags: tags}, nil
}

// Resolve returns the tag for a (port, protocol) pair, matching
// case-insensitively, or UntaggedTag when the pair is absent. It never
// fails.
func (t *LookupTable) Resolve(port, protocol string) string {
	key := model.PortProtoKey{
		DstPort:  strings.ToLower(port),
		Protocol: strings.ToLower(protocol),
	}
	if tag, ok := t.tags[key]; ok {
		return tag
	}
	return UntaggedTag
}

// Len returns the number of loaded lookup entries.
func (t *LookupTable) Len() int {
	return len(t.tags)
}

package enrich

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"
)

// UnknownProtocol is the sentinel name returned for protocol identifiers
// absent from the reference table.
const UnknownProtocol = "unknown"

// ProtocolMap maps numeric protocol identifiers (as strings, e.g. "6") to
// their IANA names (e.g. "TCP"). Immutable after load.
type ProtocolMap struct {
	names map[string]string
}

// LoadProtocolMap builds a ProtocolMap from a CSV file whose first row is a
// header and whose data rows carry [protocol_number, protocol_name, ...].
func LoadProtocolMap(path string) (*ProtocolMap, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open protocol reference: %w", err)
	}
	defer f.Close()

	return ReadProtocolMap(f, path)
}

// ReadProtocolMap reads protocol mappings from r. source is used in error
// messages only.
func ReadProtocolMap(r io.Reader, source string) (*ProtocolMap, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read protocol reference %s: %w", source, err)
	}
	if len(rows) < 1 {
		return nil, &MalformedReferenceError{Source: source, Reason: "missing header row"}
	}

	names := make(map[string]string, len(rows)-1)
	for i, row := range rows[1:] {
		if len(row) < 2 {
			return nil, &MalformedReferenceError{
				Source: source,
				Row:    i + 2,
				Reason: fmt.Sprintf("expected at least 2 columns, got %d", len(row)),
			}
		}
		number := strings.TrimSpace(row[0])
		name := strings.TrimSpace(row[1])
		// Later rows overwrite earlier ones.
		names[number] = name
	}

	return &ProtocolMap{names: names}, nil
}

// Resolve returns the name for a protocol identifier, or UnknownProtocol
// when the identifier is absent. It never fails.
func (m *ProtocolMap) Resolve(identifier string) string {
	if name, ok := m.names[identifier]; ok {
		return name
	}
	return UnknownProtocol
}

// Len returns the number of loaded mappings.
func (m *ProtocolMap) Len() int {
	return len(m.names)
}

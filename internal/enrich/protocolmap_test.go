package enrich

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeTempFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write temp file: %v", err)
	}
	return path
}

func TestLoadProtocolMap(t *testing.T) {
	path := writeTempFile(t, "protocols.csv",
		"Decimal,Keyword\n"+
			"1,ICMP\n"+
			" 6 , TCP \n"+
			"17,UDP\n")

	pm, err := LoadProtocolMap(path)
	if err != nil {
		t.Fatalf("LoadProtocolMap failed: %v", err)
	}

	if pm.Len() != 3 {
		t.Errorf("Expected 3 mappings, got %d", pm.Len())
	}
	if got := pm.Resolve("6"); got != "TCP" {
		t.Errorf("Expected whitespace-trimmed 'TCP' for id 6, got %q", got)
	}
	if got := pm.Resolve("17"); got != "UDP" {
		t.Errorf("Expected 'UDP' for id 17, got %q", got)
	}
}

func TestProtocolMap_UnknownIdentifier(t *testing.T) {
	pm, err := ReadProtocolMap(strings.NewReader("Decimal,Keyword\n6,TCP\n"), "test")
	if err != nil {
		t.Fatalf("ReadProtocolMap failed: %v", err)
	}

	if got := pm.Resolve("17"); got != UnknownProtocol {
		t.Errorf("Expected %q for absent identifier, got %q", UnknownProtocol, got)
	}
	if got := pm.Resolve(""); got != UnknownProtocol {
		t.Errorf("Expected %q for empty identifier, got %q", UnknownProtocol, got)
	}
}

func TestProtocolMap_DuplicateLastWins(t *testing.T) {
	pm, err := ReadProtocolMap(strings.NewReader("Decimal,Keyword\n6,TCP\n6,tcp-override\n"), "test")
	if err != nil {
		t.Fatalf("ReadProtocolMap failed: %v", err)
	}

	if got := pm.Resolve("6"); got != "tcp-override" {
		t.Errorf("Expected last occurrence to win, got %q", got)
	}
}

func TestProtocolMap_EmptySource(t *testing.T) {
	_, err := ReadProtocolMap(strings.NewReader(""), "test")
	if err == nil {
		t.Fatal("Expected error for empty source, got nil")
	}

	var refErr *MalformedReferenceError
	if !errors.As(err, &refErr) {
		t.Fatalf("Expected MalformedReferenceError, got %T: %v", err, err)
	}
}

func TestProtocolMap_ShortRow(t *testing.T) {
	_, err := ReadProtocolMap(strings.NewReader("Decimal,Keyword\n6,TCP\n17\n"), "test")
	if err == nil {
		t.Fatal("Expected error for short row, got nil")
	}

	var refErr *MalformedReferenceError
	if !errors.As(err, &refErr) {
		t.Fatalf("Expected MalformedReferenceError, got %T: %v", err, err)
	}
	if refErr.Row != 3 {
		t.Errorf("Expected error to identify row 3, got row %d", refErr.Row)
	}
}

func TestLoadProtocolMap_MissingFile(t *testing.T) {
	_, err := LoadProtocolMap(filepath.Join(t.TempDir(), "does-not-exist.csv"))
	if err == nil {
		t.Fatal("Expected error for missing file, got nil")
	}
}

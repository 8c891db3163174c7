package tally

import (
	"testing"

	"FlowTagger/internal/model"
)

func records() []*model.EnrichedRecord {
	return []*model.EnrichedRecord{
		{DstPort: "443", Protocol: "tcp", Tag: "web"},
		{DstPort: "23", Protocol: "tcp", Tag: "telnet"},
		{DstPort: "443", Protocol: "tcp", Tag: "web"},
		{DstPort: "53", Protocol: "udp", Tag: "untagged"},
	}
}

func TestTagCountTask(t *testing.T) {
	task := NewTagCountTask()
	for _, r := range records() {
		task.ProcessRecord(r)
	}

	rows, ok := task.Snapshot().([]model.TagCount)
	if !ok {
		t.Fatalf("Unexpected snapshot type: %T", task.Snapshot())
	}

	want := []model.TagCount{
		{Tag: "web", Count: 2},
		{Tag: "telnet", Count: 1},
		{Tag: "untagged", Count: 1},
	}
	if len(rows) != len(want) {
		t.Fatalf("Expected %d rows, got %d", len(want), len(rows))
	}
	// Rows come back in first-seen order.
	for i, row := range rows {
		if row != want[i] {
			t.Errorf("Row %d = %+v, want %+v", i, row, want[i])
		}
	}
}

func TestPortProtoTask(t *testing.T) {
	task := NewPortProtoTask()
	for _, r := range records() {
		task.ProcessRecord(r)
	}

	rows, ok := task.Snapshot().([]model.PortProtoCount)
	if !ok {
		t.Fatalf("Unexpected snapshot type: %T", task.Snapshot())
	}

	want := []model.PortProtoCount{
		{DstPort: "443", Protocol: "tcp", Count: 2},
		{DstPort: "23", Protocol: "tcp", Count: 1},
		{DstPort: "53", Protocol: "udp", Count: 1},
	}
	if len(rows) != len(want) {
		t.Fatalf("Expected %d rows, got %d", len(want), len(rows))
	}
	for i, row := range rows {
		if row != want[i] {
			t.Errorf("Row %d = %+v, want %+v", i, row, want[i])
		}
	}
}

func TestTotalsMatchRecordCount(t *testing.T) {
	tagTask := NewTagCountTask()
	portProtoTask := NewPortProtoTask()

	recs := records()
	for _, r := range recs {
		tagTask.ProcessRecord(r)
		portProtoTask.ProcessRecord(r)
	}

	// Every record contributes exactly once to each aggregate.
	if got := tagTask.Total(); got != uint64(len(recs)) {
		t.Errorf("Tag total = %d, want %d", got, len(recs))
	}
	if got := portProtoTask.Total(); got != uint64(len(recs)) {
		t.Errorf("Port/proto total = %d, want %d", got, len(recs))
	}
}

func TestReset(t *testing.T) {
	task := NewTagCountTask()
	task.ProcessRecord(&model.EnrichedRecord{DstPort: "443", Protocol: "tcp", Tag: "web"})
	task.Reset()

	rows := task.Snapshot().([]model.TagCount)
	if len(rows) != 0 {
		t.Errorf("Expected empty snapshot after reset, got %d rows", len(rows))
	}
	if task.Total() != 0 {
		t.Errorf("Expected zero total after reset, got %d", task.Total())
	}
}

// Package tally implements the two exact count tasks over the enriched
// record stream: tag frequency and (port, protocol) frequency. Both preserve
// first-seen insertion order so that reports are stable across runs.
package tally

import (
	"FlowTagger/internal/model"
)

// TagCountTask counts occurrences of each classification tag.
// It implements the model.Task interface.
type TagCountTask struct {
	counts map[string]uint64
	order  []string
}

// NewTagCountTask creates an empty tag count task.
func NewTagCountTask() *TagCountTask {
	return &TagCountTask{counts: make(map[string]uint64)}
}

// Name returns the name of the task.
func (t *TagCountTask) Name() string {
	return "tag_counts"
}

// ProcessRecord increments the count for the record's tag.
func (t *TagCountTask) ProcessRecord(record *model.EnrichedRecord) {
	if _, ok := t.counts[record.Tag]; !ok {
		t.order = append(t.order, record.Tag)
	}
	t.counts[record.Tag]++
}

// Snapshot returns a copy of the current counts as []model.TagCount in
// first-seen order.
func (t *TagCountTask) Snapshot() interface{} {
	rows := make([]model.TagCount, 0, len(t.order))
	for _, tag := range t.order {
		rows = append(rows, model.TagCount{Tag: tag, Count: t.counts[tag]})
	}
	return rows
}

// Reset clears the internal state of the task.
func (t *TagCountTask) Reset() {
	t.counts = make(map[string]uint64)
	t.order = nil
}

// Total returns the sum of all tag counts.
func (t *TagCountTask) Total() uint64 {
	var total uint64
	for _, c := range t.counts {
		total += c
	}
	return total
}

// PortProtoTask counts occurrences of each (destination port, protocol)
// combination. It implements the model.Task interface.
type PortProtoTask struct {
	counts map[model.PortProtoKey]uint64
	order  []model.PortProtoKey
}

// NewPortProtoTask creates an empty port/protocol count task.
func NewPortProtoTask() *PortProtoTask {
	return &PortProtoTask{counts: make(map[model.PortProtoKey]uint64)}
}

// Name returns the name of the task.
func (t *PortProtoTask) Name() string {
	return "port_proto_counts"
}

// ProcessRecord increments the count for the record's (port, protocol) key.
func (t *PortProtoTask) ProcessRecord(record *model.EnrichedRecord) {
	key := model.PortProtoKey{DstPort: record.DstPort, Protocol: record.Protocol}
	if _, ok := t.counts[key]; !ok {
		t.order = append(t.order, key)
	}
	t.counts[key]++
}

// Snapshot returns a copy of the current counts as []model.PortProtoCount in
// first-seen order.
func (t *PortProtoTask) Snapshot() interface{} {
	rows := make([]model.PortProtoCount, 0, len(t.order))
	for _, key := range t.order {
		rows = append(rows, model.PortProtoCount{
			DstPort:  key.DstPort,
			Protocol: key.Protocol,
			Count:    t.counts[key],
		})
	}
	return rows
}

// Reset clears the internal state of the task.
func (t *PortProtoTask) Reset() {
	t.counts = make(map[model.PortProtoKey]uint64)
	t.order = nil
}

// Total returns the sum of all combination counts.
func (t *PortProtoTask) Total() uint64 {
	var total uint64
	for _, c := range t.counts {
		total += c
	}
	return total
}

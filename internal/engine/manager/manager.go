package manager

import (
	"context"
	"fmt"
	"log"

	"FlowTagger/internal/config"
	"FlowTagger/internal/engine/tally"
	"FlowTagger/internal/enrich"
	"FlowTagger/internal/model"
	"FlowTagger/internal/report"
)

// Manager orchestrates one batch run: it owns the reference tables, the
// enricher, both count tasks and the configured writers.
type Manager struct {
	enricher *enrich.Enricher

	tagTask       *tally.TagCountTask
	portProtoTask *tally.PortProtoTask
	tasks         []model.Task

	writers []model.Writer

	processed uint64
	skipped   uint64
}

// NewManager loads the reference tables and builds tasks and writers from
// the config.
func NewManager(cfg *config.Config) (*Manager, error) {
	protocols, err := enrich.LoadProtocolMap(cfg.Paths.ProtocolFile)
	if err != nil {
		return nil, err
	}
	log.Printf("Loaded %d protocol mappings from '%s'", protocols.Len(), cfg.Paths.ProtocolFile)

	lookup, err := enrich.LoadLookupTable(cfg.Paths.LookupFile)
	if err != nil {
		return nil, err
	}
	log.Printf("Loaded %d lookup entries from '%s'", lookup.Len(), cfg.Paths.LookupFile)

	layout, err := enrich.NewLayout(cfg.Ingest.Layout, cfg.Ingest.MinFields)
	if err != nil {
		return nil, fmt.Errorf("invalid ingest layout: %w", err)
	}

	writers, err := createWriters(cfg)
	if err != nil {
		return nil, err
	}

	tagTask := tally.NewTagCountTask()
	portProtoTask := tally.NewPortProtoTask()

	return &Manager{
		enricher:      enrich.NewEnricher(layout, cfg.Ingest.MinFields, protocols, lookup),
		tagTask:       tagTask,
		portProtoTask: portProtoTask,
		tasks:         []model.Task{tagTask, portProtoTask},
		writers:       writers,
	}, nil
}

// createWriters builds all enabled writers from the config.
func createWriters(cfg *config.Config) ([]model.Writer, error) {
	writers := make([]model.Writer, 0, len(cfg.Writers))
	for _, writerDef := range cfg.Writers {
		if !writerDef.Enabled {
			continue
		}

		switch writerDef.Type {
		case "text":
			writers = append(writers, report.NewTextWriter(cfg.Paths.OutputFile))
		case "clickhouse":
			writer, err := report.NewClickHouseWriter(writerDef.ClickHouse)
			if err != nil {
				return nil, fmt.Errorf("failed to create writer type '%s': %w", writerDef.Type, err)
			}
			writers = append(writers, writer)
		default:
			log.Printf("Warning: unknown writer type '%s' in config, skipping.", writerDef.Type)
		}
	}
	if len(writers) == 0 {
		return nil, fmt.Errorf("no enabled writers configured")
	}
	return writers, nil
}

// Run consumes raw flow log lines until the channel closes or the context is
// cancelled. Lines below the minimum field count are skipped; every valid
// line contributes exactly once to each task.
func (m *Manager) Run(ctx context.Context, lines <-chan string) error {
	for line := range lines {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		record, ok := m.enricher.EnrichLine(line)
		if !ok {
			m.skipped++
			continue
		}
		m.process(record)
	}
	return nil
}

// RunRecords consumes pre-extracted raw records (e.g. from a packet capture)
// until the channel closes or the context is cancelled.
func (m *Manager) RunRecords(ctx context.Context, records <-chan *model.RawRecord) error {
	for raw := range records {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		m.process(m.enricher.Enrich(raw))
	}
	return nil
}

func (m *Manager) process(record *model.EnrichedRecord) {
	for _, task := range m.tasks {
		task.ProcessRecord(record)
	}
	m.processed++
}

// Report assembles the final report from the task snapshots.
func (m *Manager) Report() (*model.Report, error) {
	tagRows, ok := m.tagTask.Snapshot().([]model.TagCount)
	if !ok {
		return nil, fmt.Errorf("unexpected snapshot type from task '%s'", m.tagTask.Name())
	}
	portProtoRows, ok := m.portProtoTask.Snapshot().([]model.PortProtoCount)
	if !ok {
		return nil, fmt.Errorf("unexpected snapshot type from task '%s'", m.portProtoTask.Name())
	}

	return &model.Report{
		TagCounts:       tagRows,
		PortProtoCounts: portProtoRows,
	}, nil
}

// WriteReport assembles the report and hands it to every enabled writer.
// Writers run only after aggregation is complete, so a fatal error earlier
// in the run never produces partial output.
func (m *Manager) WriteReport() error {
	rep, err := m.Report()
	if err != nil {
		return err
	}
	for _, writer := range m.writers {
		if err := writer.Write(rep); err != nil {
			return err
		}
	}
	return nil
}

// Stats returns the number of processed and skipped lines.
func (m *Manager) Stats() (processed, skipped uint64) {
	return m.processed, m.skipped
}

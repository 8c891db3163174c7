package report

import (
	"context"
	"fmt"
	"log"
	"time"

	"FlowTagger/internal/config"
	"FlowTagger/internal/model"

	"github.com/ClickHouse/clickhouse-go/v2"
	"github.com/ClickHouse/clickhouse-go/v2/lib/driver"
)

const createTagTableStatement = `
CREATE TABLE IF NOT EXISTS flow_tag_counts (
    Timestamp DateTime,
    Tag       String,
    Count     UInt64
) ENGINE = MergeTree()
PARTITION BY toYYYYMM(Timestamp)
ORDER BY (Tag, Timestamp);
`

const createPortProtoTableStatement = `
CREATE TABLE IF NOT EXISTS flow_port_proto_counts (
    Timestamp DateTime,
    DstPort   String,
    Protocol  String,
    Count     UInt64
) ENGINE = MergeTree()
PARTITION BY toYYYYMM(Timestamp)
ORDER BY (DstPort, Protocol, Timestamp);
`

// ClickHouseWriter inserts both aggregates into ClickHouse tables.
// It implements the model.Writer interface.
type ClickHouseWriter struct {
	conn driver.Conn
}

// NewClickHouseWriter creates a new ClickHouse writer.
func NewClickHouseWriter(cfg config.ClickHouseConfig) (model.Writer, error) {
	conn, err := connect(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to clickhouse: %w", err)
	}

	if err := conn.Exec(context.Background(), createTagTableStatement); err != nil {
		return nil, fmt.Errorf("failed to create tag counts table: %w", err)
	}
	if err := conn.Exec(context.Background(), createPortProtoTableStatement); err != nil {
		return nil, fmt.Errorf("failed to create port/proto counts table: %w", err)
	}
	log.Println("Successfully connected to ClickHouse and ensured tables exist.")

	return &ClickHouseWriter{conn: conn}, nil
}

func connect(cfg config.ClickHouseConfig) (driver.Conn, error) {
	addr := fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)

	conn, err := clickhouse.Open(&clickhouse.Options{
		Addr: []string{addr},
		Auth: clickhouse.Auth{
			Database: cfg.Database,
			Username: cfg.Username,
			Password: cfg.Password,
		},
		Debug: false,
		Compression: &clickhouse.Compression{
			Method: clickhouse.CompressionLZ4,
		},
	})

	if err != nil {
		return nil, err
	}

	if err := conn.Ping(context.Background()); err != nil {
		return nil, fmt.Errorf("failed to ping clickhouse: %w", err)
	}

	return conn, nil
}

// Write inserts the report rows into both tables with a shared timestamp.
func (w *ClickHouseWriter) Write(report *model.Report) error {
	now := time.Now().UTC()

	batch, err := w.conn.PrepareBatch(context.Background(), "INSERT INTO flow_tag_counts")
	if err != nil {
		return fmt.Errorf("failed to prepare tag counts batch: %w", err)
	}
	for _, row := range report.TagCounts {
		if err := batch.Append(now, row.Tag, row.Count); err != nil {
			return fmt.Errorf("failed to append tag count to batch: %w", err)
		}
	}
	if len(report.TagCounts) > 0 {
		if err := batch.Send(); err != nil {
			return fmt.Errorf("failed to send tag counts batch: %w", err)
		}
	}

	batch, err = w.conn.PrepareBatch(context.Background(), "INSERT INTO flow_port_proto_counts")
	if err != nil {
		return fmt.Errorf("failed to prepare port/proto counts batch: %w", err)
	}
	for _, row := range report.PortProtoCounts {
		if err := batch.Append(now, row.DstPort, row.Protocol, row.Count); err != nil {
			return fmt.Errorf("failed to append port/proto count to batch: %w", err)
		}
	}
	if len(report.PortProtoCounts) > 0 {
		if err := batch.Send(); err != nil {
			return fmt.Errorf("failed to send port/proto counts batch: %w", err)
		}
	}

	log.Printf("Wrote %d tag rows and %d port/proto rows to ClickHouse",
		len(report.TagCounts), len(report.PortProtoCounts))
	return nil
}

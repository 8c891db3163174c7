package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"FlowTagger/internal/config"
	"FlowTagger/internal/engine/manager"
	"FlowTagger/internal/model"
	"FlowTagger/pkg/flowlog"
	"FlowTagger/pkg/pcap"
)

func main() {
	configPath := flag.String("config", "configs/config.yaml", "Path to configuration file")
	root := flag.String("root", "", "Root directory for input/output paths (overrides config)")
	pcapPath := flag.String("pcap", "", "Read records from a pcap capture instead of the flow log")
	flag.Parse()

	// 1. Load configuration. A missing config file is not an error: the
	// built-in defaults cover the conventional relative paths.
	var cfg *config.Config
	if _, err := os.Stat(*configPath); err == nil {
		cfg, err = config.LoadConfig(*configPath)
		if err != nil {
			log.Fatalf("Failed to load config: %v", err)
		}
		log.Println("Configuration loaded successfully.")
	} else {
		cfg = config.Default()
		log.Println("No config file found, using built-in defaults.")
	}
	if *root != "" {
		cfg.ApplyRoot(*root)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 2. Initialize the manager (loads both reference tables).
	managerImpl, err := manager.NewManager(cfg)
	if err != nil {
		log.Fatalf("Failed to create manager: %v", err)
	}
	log.Println("Manager initialized.")

	// 3. Run the pipeline from the selected source.
	if *pcapPath != "" {
		err = runPcap(ctx, managerImpl, *pcapPath)
	} else {
		err = runFlowLog(ctx, managerImpl, cfg.Paths.FlowLogFile)
	}
	if err != nil {
		log.Fatalf("Run failed: %v", err)
	}

	processed, skipped := managerImpl.Stats()
	log.Printf("Processed %d records, skipped %d malformed lines.", processed, skipped)

	// 4. Emit the report only after both aggregates are complete.
	if err := managerImpl.WriteReport(); err != nil {
		log.Fatalf("Failed to write report: %v", err)
	}
	log.Printf("Output successfully written to: %s", cfg.Paths.OutputFile)
}

func runFlowLog(ctx context.Context, m *manager.Manager, path string) error {
	reader, err := flowlog.NewReader(path)
	if err != nil {
		return err
	}
	defer reader.Close()
	log.Printf("Reading flow logs from '%s'...", path)

	lines := make(chan string, 1024)
	readErr := make(chan error, 1)
	go func() {
		readErr <- reader.ReadLines(lines)
	}()

	if err := m.Run(ctx, lines); err != nil {
		return err
	}
	return <-readErr
}

func runPcap(ctx context.Context, m *manager.Manager, path string) error {
	reader, err := pcap.NewReader(path)
	if err != nil {
		return err
	}
	defer reader.Close()
	log.Printf("Reading packets from '%s'...", path)

	records := make(chan *model.RawRecord, 1024)
	go reader.ReadRecords(records)

	return m.RunRecords(ctx, records)
}

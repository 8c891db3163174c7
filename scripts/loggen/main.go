package main

import (
	"bufio"
	"flag"
	"fmt"
	"log"
	"math/rand"
	"os"
	"time"
)

// Generates synthetic version 2 flow log lines (14 space-delimited fields)
// for testing the tagging pipeline.

var commonPorts = []int{22, 23, 25, 53, 80, 110, 143, 443, 993, 3389, 8080}
var protocols = []int{1, 6, 17}

func main() {
	outputFile := flag.String("o", "FlowLogsInput/flow_logs.csv", "Output flow log file path")
	lineCount := flag.Int("c", 1000, "Number of log lines to generate")
	flag.Parse()

	f, err := os.Create(*outputFile)
	if err != nil {
		log.Fatalf("Failed to create output file: %v", err)
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))

	log.Printf("Generating %d flow log lines into %s...", *lineCount, *outputFile)

	now := time.Now().Unix()
	for i := 0; i < *lineCount; i++ {
		srcIP := fmt.Sprintf("10.0.%d.%d", rng.Intn(256), rng.Intn(256))
		dstIP := fmt.Sprintf("198.51.100.%d", rng.Intn(256))
		srcPort := rng.Intn(65535-1024) + 1024
		dstPort := commonPorts[rng.Intn(len(commonPorts))]
		protocol := protocols[rng.Intn(len(protocols))]
		packets := rng.Intn(100) + 1
		bytes := packets * (rng.Intn(1400) + 50)
		start := now - int64(rng.Intn(3600))
		end := start + int64(rng.Intn(60))

		// version account-id interface-id srcaddr dstaddr srcport dstport
		// protocol packets bytes start end action log-status
		line := fmt.Sprintf("2 123456789012 eni-%08x %s %s %d %d %d %d %d %d %d ACCEPT OK\n",
			rng.Uint32(), srcIP, dstIP, srcPort, dstPort, protocol, packets, bytes, start, end)
		if _, err := w.WriteString(line); err != nil {
			log.Fatalf("Failed to write line: %v", err)
		}
	}

	if err := w.Flush(); err != nil {
		log.Fatalf("Failed to flush output: %v", err)
	}
	log.Printf("Done.")
}

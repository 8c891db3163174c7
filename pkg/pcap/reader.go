// Package pcap derives flow records from an offline packet capture, as an
// alternative ingest source to text flow logs.
package pcap

import (
	"fmt"
	"log"
	"strconv"

	"FlowTagger/internal/model"

	"github.com/google/gopacket"
	"github.com/google/gopacket/layers"
	"github.com/google/gopacket/pcap"
)

// Reader reads packets from a pcap file and turns each one into a
// (destination port, protocol number) record.
type Reader struct {
	handle *pcap.Handle
}

// NewReader creates a new pcap reader for the given file path.
func NewReader(filePath string) (*Reader, error) {
	handle, err := pcap.OpenOffline(filePath)
	if err != nil {
		return nil, err
	}
	return &Reader{handle: handle}, nil
}

// Close closes the pcap handle.
func (r *Reader) Close() {
	r.handle.Close()
}

// ReadRecords reads all packets from the capture and sends the derived
// records to the provided channel. It closes the channel when done.
// Packets that are not IPv4 TCP/UDP are skipped.
func (r *Reader) ReadRecords(out chan<- *model.RawRecord) {
	defer close(out)

	packetSource := gopacket.NewPacketSource(r.handle, r.handle.LinkType())
	skipped := 0
	for packet := range packetSource.Packets() {
		record, err := ParseRecord(packet.Data())
		if err != nil {
			skipped++
			continue
		}
		out <- record
	}
	if skipped > 0 {
		log.Printf("Skipped %d packets without an IPv4 TCP/UDP layer", skipped)
	}
}

// ParseRecord uses gopacket to decode a raw packet and extract the
// destination port and numeric protocol identifier.
func ParseRecord(data []byte) (*model.RawRecord, error) {
	packet := gopacket.NewPacket(data, layers.LayerTypeEthernet, gopacket.Default)

	ipLayer := packet.Layer(layers.LayerTypeIPv4)
	if ipLayer == nil {
		return nil, fmt.Errorf("not an IPv4 packet")
	}
	ip := ipLayer.(*layers.IPv4)

	var dstPort uint16
	if l := packet.Layer(layers.LayerTypeTCP); l != nil {
		dstPort = uint16(l.(*layers.TCP).DstPort)
	} else if l := packet.Layer(layers.LayerTypeUDP); l != nil {
		dstPort = uint16(l.(*layers.UDP).DstPort)
	} else {
		return nil, fmt.Errorf("not a TCP or UDP packet")
	}

	return &model.RawRecord{
		DstPort:    strconv.Itoa(int(dstPort)),
		ProtocolID: strconv.Itoa(int(ip.Protocol)),
	}, nil
}

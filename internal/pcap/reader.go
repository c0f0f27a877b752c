package pcap

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"

	"github.com/google/gopacket"
	"github.com/google/gopacket/layers"
	"github.com/google/gopacket/pcapgo"
)

// Format is the container format of a capture file.
type Format string

const (
	FormatPCAP   Format = "pcap"
	FormatPCAPNG Format = "pcapng"
)

const pcapngMagic = 0x0A0D0D0A

// packetReader is satisfied by both pcapgo readers.
type packetReader interface {
	gopacket.PacketDataSource
	LinkType() layers.LinkType
}

// DetectFormat inspects the first four bytes of a capture.
func DetectFormat(magic []byte) (Format, error) {
	if len(magic) < 4 {
		return "", fmt.Errorf("unknown magic: capture shorter than 4 bytes")
	}
	le := binary.LittleEndian.Uint32(magic)
	be := binary.BigEndian.Uint32(magic)
	switch {
	case le == pcapngMagic:
		return FormatPCAPNG, nil
	case le == 0xA1B2C3D4, be == 0xA1B2C3D4, le == 0xA1B23C4D, be == 0xA1B23C4D:
		return FormatPCAP, nil
	}
	return "", fmt.Errorf("unknown magic 0x%08X", be)
}

// openReader sniffs r and returns the matching pcapgo reader.
func openReader(r io.Reader) (packetReader, Format, error) {
	br := bufio.NewReaderSize(r, 64*1024)
	magic, err := br.Peek(4)
	if err != nil && len(magic) < 4 {
		return nil, "", fmt.Errorf("unknown magic: %w", err)
	}
	format, err := DetectFormat(magic)
	if err != nil {
		return nil, "", err
	}
	if format == FormatPCAPNG {
		ng, err := pcapgo.NewNgReader(br, pcapgo.DefaultNgReaderOptions)
		if err != nil {
			return nil, format, fmt.Errorf("read pcapng header: %w", err)
		}
		return ng, format, nil
	}
	pr, err := pcapgo.NewReader(br)
	if err != nil {
		return nil, format, fmt.Errorf("read pcap header: %w", err)
	}
	return pr, format, nil
}

package pcap

import (
	"strings"
	"testing"
)

// TestHexDump tests hex dump formatting
func TestHexDump(t *testing.T) {
	data := []byte{0x00, 0x01, 0x02, 0x03, 0x04, 0x05, 0x06, 0x07, 0x08, 0x09, 0x0A, 0x0B, 0x0C, 0x0D, 0x0E, 0x0F}

	dump := HexDump(data, 16)

	// Should contain offset
	if !strings.Contains(dump, "0000:") {
		t.Error("Hex dump should contain offset")
	}

	// Should contain hex bytes
	if !strings.Contains(dump, "00 01 02 03") {
		t.Error("Hex dump should contain hex bytes")
	}

	// Should contain ASCII representation
	if !strings.Contains(dump, "|") {
		t.Error("Hex dump should contain ASCII representation")
	}
}

func TestPreview(t *testing.T) {
	f := &Flow{Raw: []byte("\x1bE\x1b&l1O@PJL EOJ\r\n")}

	full := Preview(f, 0)
	if !strings.Contains(full, "|.E.&l1O@PJL EOJ.|") {
		t.Errorf("unexpected preview:\n%s", full)
	}

	short := Preview(f, 4)
	if !strings.Contains(short, "... 13 more bytes") {
		t.Errorf("short preview should note remaining bytes:\n%s", short)
	}
}

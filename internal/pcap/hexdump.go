package pcap

// Hex dump utilities for flow previews

import (
	"fmt"
	"strings"
)

// HexDump creates a hex dump of payload data
func HexDump(data []byte, width int) string {
	if width <= 0 {
		width = 16
	}

	var sb strings.Builder
	for i := 0; i < len(data); i += width {
		// Offset
		sb.WriteString(fmt.Sprintf("%04x: ", i))

		// Hex bytes
		for j := 0; j < width; j++ {
			if i+j < len(data) {
				sb.WriteString(fmt.Sprintf("%02x ", data[i+j]))
			} else {
				sb.WriteString("   ")
			}
		}

		// ASCII representation
		sb.WriteString(" |")
		for j := 0; j < width && i+j < len(data); j++ {
			b := data[i+j]
			if b >= 32 && b < 127 {
				sb.WriteByte(b)
			} else {
				sb.WriteByte('.')
			}
		}
		sb.WriteString("|\n")
	}

	return sb.String()
}

// Preview dumps at most max bytes of a flow's print data, noting how much
// was left out.
func Preview(f *Flow, max int) string {
	data := f.Payload()
	if max <= 0 || len(data) <= max {
		return HexDump(data, 16)
	}
	return HexDump(data[:max], 16) + fmt.Sprintf("... %d more bytes\n", len(data)-max)
}

package classify

import (
	"bytes"

	"github.com/tturner/pclscope/internal/pstream/tags"
)

var xlHeaderMarker = []byte(" HP-PCL XL")

const sniffWindow = 512

// Sniff guesses the dialect a stream starts in. Leading whitespace is
// ignored; anything unrecognised is assumed to be PCL.
func Sniff(data []byte) tags.Dialect {
	head := bytes.TrimLeft(data, " \t\r\n\f\x00")
	switch {
	case bytes.HasPrefix(head, uel), hasPJLPrefix(head):
		return tags.DialectPJL
	case isXLHeader(head):
		return tags.DialectPCLXL
	case bytes.HasPrefix(head, []byte("!R!")):
		return tags.DialectPrescribe
	case looksLikeHPGL2(head):
		return tags.DialectHPGL2
	}
	return tags.DialectPCL
}

func hasPJLPrefix(b []byte) bool {
	return len(b) >= 4 && bytes.EqualFold(b[:4], []byte("@PJL"))
}

// isXLHeader reports whether b starts with a PCL XL stream header: a binding
// byte followed by " HP-PCL XL".
func isXLHeader(b []byte) bool {
	if len(b) < 1+len(xlHeaderMarker) {
		return false
	}
	switch b[0] {
	case '(', ')', '\'':
		return bytes.HasPrefix(b[1:], xlHeaderMarker)
	}
	return false
}

// looksLikeHPGL2 accepts data with no escape characters near the start that
// opens with an IN or BP instruction.
func looksLikeHPGL2(b []byte) bool {
	window := b
	if len(window) > sniffWindow {
		window = window[:sniffWindow]
	}
	if bytes.IndexByte(window, esc) >= 0 || len(b) < 3 {
		return false
	}
	mn := bytes.ToUpper(b[:2])
	if !bytes.Equal(mn, []byte("IN")) && !bytes.Equal(mn, []byte("BP")) {
		return false
	}
	switch c := b[2]; {
	case c == ';', c == ' ', c == '\r', c == '\n', c == ',':
		return true
	case c >= '0' && c <= '9':
		return true
	}
	return false
}

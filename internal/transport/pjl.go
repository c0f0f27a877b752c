package transport

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// UEL is the PJL Universal Exit Language sequence.
const UEL = "\x1b%-12345X"

// ErrNoReadback is returned by queries on connections that cannot read
// replies from the printer.
var ErrNoReadback = errors.New("connection does not support reading printer replies")

// Commands sent by a status query.
var StatusCommands = []string{"INFO ID", "INFO STATUS"}

// BuildQuery wraps PJL commands in a UEL-delimited job. Commands are given
// without the "@PJL " prefix.
func BuildQuery(commands ...string) []byte {
	var b bytes.Buffer
	b.WriteString(UEL)
	b.WriteString("@PJL \r\n")
	for _, c := range commands {
		b.WriteString("@PJL ")
		b.WriteString(strings.TrimSpace(strings.TrimPrefix(c, "@PJL")))
		b.WriteString("\r\n")
	}
	b.WriteString(UEL)
	return b.Bytes()
}

// ReadResponses reads PJL replies until n form-feed terminated responses
// have arrived, the connection ends or ctx expires. Whatever was read is
// returned alongside any error.
func ReadResponses(ctx context.Context, r io.Reader, n int) ([]byte, error) {
	cr, ok := r.(ContextReader)
	if !ok {
		return nil, ErrNoReadback
	}
	var out []byte
	buf := make([]byte, 4096)
	for bytes.Count(out, []byte{'\f'}) < n {
		m, err := cr.ReadContext(ctx, buf)
		out = append(out, buf[:m]...)
		if errors.Is(err, io.EOF) {
			if len(out) == 0 {
				return out, io.ErrUnexpectedEOF
			}
			return out, nil
		}
		if err != nil {
			return out, err
		}
	}
	return out, nil
}

// SplitResponses splits raw replies at their form-feed terminators. A
// trailing unterminated reply is kept.
func SplitResponses(raw []byte) [][]byte {
	var out [][]byte
	for len(raw) > 0 {
		i := bytes.IndexByte(raw, '\f')
		if i < 0 {
			if len(bytes.TrimSpace(raw)) > 0 {
				out = append(out, raw)
			}
			break
		}
		out = append(out, raw[:i+1])
		raw = raw[i+1:]
		for len(raw) > 0 && (raw[0] == '\r' || raw[0] == '\n') {
			raw = raw[1:]
		}
	}
	return out
}

// Status is a printer's answer to INFO STATUS / USTATUS DEVICE, plus INFO ID.
type Status struct {
	ID      string
	Code    int
	Display string
	Online  bool
	Fields  map[string]string
}

// Category names the PJL status code group.
func (s Status) Category() string {
	switch {
	case s.Code == 0:
		return "unknown"
	case s.Code >= 10000 && s.Code < 11000:
		return "informational"
	case s.Code >= 11000 && s.Code < 12000:
		return "background paper loading"
	case s.Code >= 12000 && s.Code < 15000:
		return "background paper tray status"
	case s.Code >= 15000 && s.Code < 20000:
		return "output bin status"
	case s.Code >= 20000 && s.Code < 30000:
		return "PJL parser error"
	case s.Code >= 30000 && s.Code < 40000:
		return "auto-continuable condition"
	case s.Code >= 40000 && s.Code < 41000:
		return "operator intervention"
	case s.Code >= 41000 && s.Code < 42000:
		return "paper load request"
	case s.Code >= 42000 && s.Code < 50000:
		return "paper jam"
	case s.Code >= 50000 && s.Code < 60000:
		return "hardware error"
	}
	return "device specific"
}

// ParseStatus reads status fields from PJL replies. Unrecognised replies
// are ignored; an error is returned only when no status reply was found.
func ParseStatus(raw []byte) (*Status, error) {
	st := &Status{Fields: make(map[string]string)}
	found := false
	for _, resp := range SplitResponses(raw) {
		lines := strings.Split(strings.TrimRight(string(resp), "\f\r\n"), "\n")
		if len(lines) == 0 {
			continue
		}
		header := strings.ToUpper(strings.TrimSpace(lines[0]))
		body := lines[1:]
		switch {
		case strings.HasPrefix(header, "@PJL INFO ID"):
			if len(body) > 0 {
				st.ID = strings.Trim(strings.TrimSpace(body[0]), `"`)
			}
		case strings.HasPrefix(header, "@PJL INFO STATUS"), strings.HasPrefix(header, "@PJL USTATUS DEVICE"):
			found = true
			for _, line := range body {
				key, value, ok := strings.Cut(strings.TrimSpace(line), "=")
				if !ok {
					continue
				}
				key = strings.ToUpper(strings.TrimSpace(key))
				value = strings.Trim(strings.TrimSpace(value), `"`)
				st.Fields[key] = value
				switch key {
				case "CODE":
					st.Code, _ = strconv.Atoi(value)
				case "DISPLAY":
					st.Display = value
				case "ONLINE":
					st.Online = strings.EqualFold(value, "TRUE")
				}
			}
		}
	}
	if !found {
		return st, fmt.Errorf("no INFO STATUS reply in %d bytes", len(raw))
	}
	return st, nil
}

package classify

import (
	"bytes"
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/tturner/pclscope/internal/pstream/rowtype"
	"github.com/tturner/pclscope/internal/pstream/tags"
)

func (p *parser) stepPJL() {
	b := p.buf[p.pos]
	switch {
	case b == esc:
		p.pclEscape()
	case b == ' ' || b == '\t' || b == '\r' || b == '\n' || b == '\f' || b == 0:
		for p.pos < len(p.buf) {
			c := p.buf[p.pos]
			if c != ' ' && c != '\t' && c != '\r' && c != '\n' && c != '\f' && c != 0 {
				break
			}
			if c == '\f' {
				p.pjlReadback = false
			}
			p.pos++
		}
	case hasPJLPrefix(p.buf[p.pos:]):
		p.pjlLine()
	case p.isPJLResponseLine():
		p.pjlResponseLine()
	default:
		next := Sniff(p.buf[p.pos:])
		if next == tags.DialectPJL {
			next = tags.DialectPCL
		}
		if next == tags.DialectPrescribe {
			p.afterPrescribe = tags.DialectPCL
		}
		p.switchTo(next, "auto-detected")
	}
}

// readbackCommands are the PJL commands whose echoed header is followed by
// reply lines up to a form feed.
var readbackCommands = map[string]bool{
	"INFO":     true,
	"USTATUS":  true,
	"INQUIRE":  true,
	"DINQUIRE": true,
	"ECHO":     true,
	"FSQUERY":  true,
}

// isPJLResponseLine reports whether the current line is readback data such
// as "CODE=10001" or a quoted value. Only lines that start a line inside a
// readback reply qualify.
func (p *parser) isPJLResponseLine() bool {
	if !p.pjlReadback || (p.pos > 0 && p.buf[p.pos-1] != '\n') {
		return false
	}
	end := p.responseEnd(p.pos)
	line := p.buf[p.pos:end]
	if len(line) == 0 {
		return false
	}
	if line[0] == '"' {
		return true
	}
	eq := bytes.IndexByte(line, '=')
	if eq <= 0 {
		return false
	}
	for _, c := range line[:eq] {
		if !(isLetter(c) || (c >= '0' && c <= '9') || c == '_' || c == ':' || c == ' ') {
			return false
		}
	}
	return true
}

// responseEnd returns the end of a reply line: past the next LF, or at the
// first ESC or form feed before it.
func (p *parser) responseEnd(from int) int {
	end, _ := p.lineEnd(from)
	if i := bytes.IndexAny(p.buf[from:end], "\x1b\f"); i >= 0 {
		end = from + i
	}
	return end
}

func (p *parser) pjlResponseLine() {
	start := p.pos
	end := p.responseEnd(start)
	text := strings.TrimRight(string(p.buf[start:end]), "\r\n")
	p.emit(start, end, tags.DialectPJL, rowtype.PJLCommand, text, "Response data", nil)
	p.pos = end
}

func (p *parser) pjlLine() {
	start := p.pos
	end, found := p.lineEnd(start)
	if i := bytes.IndexByte(p.buf[start:end], esc); i >= 0 {
		end, found = start+i, false
	}
	line := strings.TrimRight(string(p.buf[start:end]), "\r\n")
	p.pos = end

	body := strings.TrimSpace(line[4:])
	command := body
	if i := strings.IndexAny(body, " \t"); i >= 0 {
		command = body[:i]
	}
	command = strings.ToUpper(command)
	p.pjlReadback = readbackCommands[command]

	d, ok := p.dict.LookupPJL(command)
	if !ok {
		p.emit(start, end, tags.DialectPJL, rowtype.MsgError, line, "Unrecognised PJL command "+command, nil)
		return
	}
	desc := d.Description
	switch d.Action {
	case tags.ActionEnterLanguage:
		lang := pjlVariable(body, "LANGUAGE")
		p.emit(start, end, tags.DialectPJL, rowtype.PJLCommand, line, fmt.Sprintf("%s: %s", desc, lang), d)
		p.enterLanguage(lang)
	case tags.ActionPMLPayload:
		p.emit(start, end, tags.DialectPJL, rowtype.PJLCommand, line, desc, d)
		p.pjlPML(start, line)
	default:
		p.emit(start, end, tags.DialectPJL, rowtype.PJLCommand, line, desc, d)
	}
	if !found {
		p.warnRow(end, end, "", "PJL line not terminated by LF")
	}
}

func (p *parser) enterLanguage(lang string) {
	norm := strings.ToUpper(strings.Trim(lang, `" `))
	switch norm {
	case "":
		p.warnRow(p.pos, p.pos, "", "ENTER without LANGUAGE")
		return
	case "PCL", "PCL5", "PCL5C", "PCL5E":
		p.resetPCL()
		p.switchTo(tags.DialectPCL, "PJL ENTER")
		return
	}
	if d, err := tags.ParseDialect(norm); err == nil && d != tags.DialectUnknown && d != tags.DialectPJL && d != tags.DialectPML {
		if d == tags.DialectPrescribe {
			p.afterPrescribe = tags.DialectPCL
		}
		p.switchTo(d, "PJL ENTER")
		return
	}
	p.comment(p.pos, fmt.Sprintf("Language %s is passed through without decoding", norm))
	p.opaque = norm
}

// pjlVariable extracts NAME=value from a PJL command body.
func pjlVariable(body, name string) string {
	upper := strings.ToUpper(body)
	i := strings.Index(upper, name)
	if i < 0 {
		return ""
	}
	rest := strings.TrimLeft(body[i+len(name):], " \t")
	if !strings.HasPrefix(rest, "=") {
		return ""
	}
	rest = strings.TrimLeft(rest[1:], " \t")
	if strings.HasPrefix(rest, `"`) {
		if j := strings.Index(rest[1:], `"`); j >= 0 {
			return rest[1 : j+1]
		}
		return rest[1:]
	}
	if j := strings.IndexAny(rest, " \t"); j >= 0 {
		return rest[:j]
	}
	return rest
}

func (p *parser) pjlPML(lineStart int, line string) {
	payload := pjlVariable(line[4:], "ASCIIHEX")
	if payload == "" {
		p.warnRow(lineStart, lineStart, "", "Device management command without ASCIIHEX payload")
		return
	}
	data, err := hex.DecodeString(strings.ReplaceAll(payload, " ", ""))
	if err != nil {
		p.emit(lineStart, lineStart, tags.DialectPML, rowtype.MsgError, payload, fmt.Sprintf("Invalid ASCIIHEX payload: %v", err), nil)
		return
	}
	p.decodePML(int64(lineStart), data)
}

package classify

import (
	"strings"

	"github.com/tturner/pclscope/internal/pstream/rowtype"
	"github.com/tturner/pclscope/internal/pstream/tags"
)

func (p *parser) stepPrescribe() {
	b := p.buf[p.pos]
	switch {
	case b == esc:
		p.pclEscape()
	case b <= 0x20 || b == ';':
		p.pos++
	case p.hasPrefix(prescribeStart):
		d, _ := p.dict.LookupPrescribe("!R!")
		p.emit(p.pos, p.pos+3, tags.DialectPrescribe, rowtype.PrescribeCommand, "!R!", describe(d, "Prescribe start"), d)
		p.pos += 3
	case isLetter(b):
		p.prescribeCommand()
	default:
		start := p.pos
		p.prescribeToSemicolon()
		p.errorRow(start, p.pos, strings.TrimSpace(string(p.buf[start:p.pos])), "Unexpected data in Prescribe stream")
	}
}

func (p *parser) prescribeCommand() {
	start := p.pos
	for p.pos < len(p.buf) && isLetter(p.buf[p.pos]) {
		p.pos++
	}
	name := strings.ToUpper(string(p.buf[start:p.pos]))
	p.prescribeToSemicolon()
	seq := strings.TrimSpace(string(p.buf[start:p.pos]))

	d, ok := p.dict.LookupPrescribe(name)
	if !ok {
		p.errorRow(start, p.pos, seq, "Unrecognised Prescribe command "+name)
		return
	}
	p.emit(start, p.pos, tags.DialectPrescribe, rowtype.PrescribeCommand, seq, d.Description, d)
	if d.Action == tags.ActionExitPrescribe {
		back := p.afterPrescribe
		if back == tags.DialectUnknown || back == tags.DialectPrescribe {
			back = tags.DialectPCL
		}
		p.switchTo(back, "Prescribe EXIT")
	}
}

// prescribeToSemicolon consumes parameters through the next ';' outside of
// quotes.
func (p *parser) prescribeToSemicolon() {
	var quote byte
	for p.pos < len(p.buf) {
		c := p.buf[p.pos]
		p.pos++
		switch {
		case quote != 0:
			if c == quote {
				quote = 0
			}
		case c == '\'' || c == '"':
			quote = c
		case c == ';':
			return
		}
	}
}

func describe(d *tags.Descriptor, fallback string) string {
	if d == nil {
		return fallback
	}
	return d.Description
}

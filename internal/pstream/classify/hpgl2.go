package classify

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/tturner/pclscope/internal/pstream/rowtype"
	"github.com/tturner/pclscope/internal/pstream/tags"
)

func isLetter(c byte) bool {
	return (c >= 'A' && c <= 'Z') || (c >= 'a' && c <= 'z')
}

func isHPGL2Separator(c byte) bool {
	return c <= 0x20 || c == ';' || c == ','
}

func (p *parser) stepHPGL2() {
	b := p.buf[p.pos]
	switch {
	case b == esc:
		p.pclEscape()
	case isHPGL2Separator(b):
		for p.pos < len(p.buf) && isHPGL2Separator(p.buf[p.pos]) && p.buf[p.pos] != esc {
			p.pos++
		}
	case isLetter(b):
		p.hpgl2Command()
	default:
		start := p.pos
		for p.pos < len(p.buf) && !isLetter(p.buf[p.pos]) && !isHPGL2Separator(p.buf[p.pos]) && p.buf[p.pos] != esc {
			p.pos++
		}
		p.errorRow(start, p.pos, string(p.buf[start:p.pos]), "Unexpected data in HP-GL/2 stream")
	}
}

func (p *parser) hpgl2Command() {
	start := p.pos
	if start+1 >= len(p.buf) || !isLetter(p.buf[start+1]) {
		p.errorRow(start, start+1, string(p.buf[start:start+1]), "Incomplete HP-GL/2 mnemonic")
		p.pos = start + 1
		return
	}
	mnemonic := strings.ToUpper(string(p.buf[start : start+2]))
	p.pos = start + 2

	d, ok := p.dict.LookupHPGL2(mnemonic)
	switch {
	case ok && d.Flags.Has(tags.FlagLabel):
		p.hpgl2Label(start, d)
		return
	case ok && d.Flags.Has(tags.FlagTermSet):
		p.hpgl2DefineTerminator(start, d)
		return
	case ok && d.Flags.Has(tags.FlagQuoted):
		p.skipQuoted()
	case mnemonic == "PE":
		p.toSemicolon()
	default:
		p.hpgl2Params()
	}

	seq := strings.TrimRight(string(p.buf[start:p.pos]), " \r\n\t")
	if !ok {
		p.errorRow(start, p.pos, seq, "Unrecognised HP-GL/2 command "+mnemonic)
		return
	}
	if mnemonic == "IN" || mnemonic == "DF" {
		p.labelTerm = etx
	}
	p.emit(start, p.pos, tags.DialectHPGL2, rowtype.HPGL2Command, seq, d.Description, d)
}

// hpgl2Params consumes parameter text up to and including ';', or up to the
// next mnemonic or escape.
func (p *parser) hpgl2Params() {
	for p.pos < len(p.buf) {
		c := p.buf[p.pos]
		if c == ';' {
			p.pos++
			return
		}
		if c == esc || isLetter(c) {
			return
		}
		p.pos++
	}
}

func (p *parser) toSemicolon() {
	i := bytes.IndexByte(p.buf[p.pos:], ';')
	if i < 0 {
		p.pos = len(p.buf)
		return
	}
	p.pos += i + 1
}

// skipQuoted consumes an optional quoted string and the parameters after it.
func (p *parser) skipQuoted() {
	for p.pos < len(p.buf) && p.buf[p.pos] == ' ' {
		p.pos++
	}
	if p.pos < len(p.buf) && p.buf[p.pos] == '"' {
		i := bytes.IndexByte(p.buf[p.pos+1:], '"')
		if i < 0 {
			p.pos = len(p.buf)
			return
		}
		p.pos += i + 2
	}
	p.hpgl2Params()
}

func (p *parser) hpgl2Label(start int, d *tags.Descriptor) {
	p.emit(start, p.pos, tags.DialectHPGL2, rowtype.HPGL2Command, "LB", d.Description, d)
	textStart := p.pos
	i := bytes.IndexByte(p.buf[textStart:], p.labelTerm)
	if i < 0 {
		if p.opts.IncludeText {
			p.emit(textStart, len(p.buf), tags.DialectHPGL2, rowtype.HPGL2Label, string(p.buf[textStart:]), "Label text", nil)
		}
		p.warnRow(len(p.buf), len(p.buf), "LB", fmt.Sprintf("Label not terminated by 0x%02X", p.labelTerm))
		p.pos = len(p.buf)
		return
	}
	end := textStart + i + 1
	if p.opts.IncludeText {
		p.emit(textStart, end, tags.DialectHPGL2, rowtype.HPGL2Label, string(p.buf[textStart:end-1]), "Label text", nil)
	}
	p.pos = end
}

// hpgl2DefineTerminator handles DT t[,mode][;]. A bare DT restores ETX.
func (p *parser) hpgl2DefineTerminator(start int, d *tags.Descriptor) {
	if p.pos >= len(p.buf) || p.buf[p.pos] == ';' {
		p.labelTerm = etx
		if p.pos < len(p.buf) {
			p.pos++
		}
	} else {
		p.labelTerm = p.buf[p.pos]
		p.pos++
		p.hpgl2Params()
	}
	seq := strings.TrimRight(string(p.buf[start:p.pos]), " \r\n\t")
	p.emit(start, p.pos, tags.DialectHPGL2, rowtype.HPGL2Command, seq,
		fmt.Sprintf("%s: 0x%02X", d.Description, p.labelTerm), d)
}

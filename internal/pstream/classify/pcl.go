package classify

import (
	"bytes"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/tturner/pclscope/internal/pstream/rowtype"
	"github.com/tturner/pclscope/internal/pstream/symsets"
	"github.com/tturner/pclscope/internal/pstream/tags"
)

var prescribeStart = []byte("!R!")

func (p *parser) stepPCL() {
	b := p.buf[p.pos]
	switch {
	case b == esc:
		p.pclEscape()
	case b < 0x20 || b == 0x7F:
		p.pclControl()
	case p.hasPrefix(prescribeStart):
		p.afterPrescribe = p.dialect
		p.switchTo(tags.DialectPrescribe, "!R!")
	default:
		p.pclText()
	}
}

func (p *parser) pclControl() {
	b := p.buf[p.pos]
	d, ok := p.dict.LookupControl(b)
	seq := "<" + tags.ControlMnemonic(b) + ">"
	if !ok {
		p.emit(p.pos, p.pos+1, tags.DialectPCL, rowtype.PCLControlCode, seq, "Control code (no action)", nil)
		p.pos++
		return
	}
	switch b {
	case 0x0E:
		p.shifted = true
	case 0x0F:
		p.shifted = false
	}
	p.emit(p.pos, p.pos+1, tags.DialectPCL, rowtype.PCLControlCode, seq, d.Description, d)
	p.pos++
}

// pclText consumes printable bytes up to the next control code, escape or
// Prescribe introducer.
func (p *parser) pclText() {
	start := p.pos
	end := start
	for end < len(p.buf) {
		c := p.buf[end]
		if c < 0x20 || c == 0x7F {
			break
		}
		if c == '!' && end > start && bytes.HasPrefix(p.buf[end:], prescribeStart) {
			break
		}
		end++
	}
	p.pos = end
	if !p.opts.IncludeText {
		return
	}
	set := p.primary
	if p.shifted {
		set = p.secondary
	}
	p.emit(start, end, tags.DialectPCL, rowtype.Text, set.DecodeString(p.buf[start:end]),
		fmt.Sprintf("Text, %d bytes, symbol set %s", end-start, set.ID), nil)
}

func isParamChar(c byte) bool { return c >= 0x21 && c <= 0x2F }
func isGroupChar(c byte) bool { return c >= 0x60 && c <= 0x7E }
func isFinalTerm(c byte) bool { return c >= 0x40 && c <= 0x5E }

// pclEscape handles every sequence introduced by ESC, in any dialect that
// accepts PCL escapes.
func (p *parser) pclEscape() {
	start := p.pos
	if start+1 >= len(p.buf) {
		p.warnRow(start, len(p.buf), "<Esc>", "Truncated escape sequence at end of data")
		p.pos = len(p.buf)
		return
	}
	c := p.buf[start+1]
	switch {
	case isParamChar(c):
		p.pclComplex()
	case c >= 0x30 && c <= 0x7E:
		p.pclSimple()
	default:
		d, _ := p.dict.LookupControl(esc)
		p.emit(start, start+1, tags.DialectPCL, rowtype.PCLControlCode, "<Esc>", "Escape not followed by a sequence", d)
		p.pos++
	}
}

func (p *parser) pclSimple() {
	start := p.pos
	c := p.buf[start+1]
	seq := "<Esc>" + string(rune(c))
	d, ok := p.dict.LookupSimple(c)
	if !ok {
		p.emit(start, start+2, tags.DialectPCL, rowtype.MsgError, seq, "Unrecognised escape sequence", nil)
		p.pos = start + 2
		return
	}
	p.emit(start, start+2, tags.DialectPCL, rowtype.PCLSimpleSeq, seq, d.Description, d)
	p.pos = start + 2
	if d.Action == tags.ActionReset {
		p.resetPCL()
		if p.dialect != tags.DialectPCL {
			p.switchTo(tags.DialectPCL, "printer reset")
		}
	}
}

// pclComplex parses ESC param [group] (value term)+, emitting one row per
// value/terminator pair of a combined sequence.
func (p *parser) pclComplex() {
	start := p.pos
	param := p.buf[start+1]
	i := start + 2
	var group byte
	if i < len(p.buf) && isGroupChar(p.buf[i]) {
		group = p.buf[i]
		i++
	}
	prefix := "<Esc>" + string(rune(param))
	if group != 0 {
		prefix += string(rune(group))
	}

	rowStart := start
	for {
		vstart := i
		if i < len(p.buf) && (p.buf[i] == '+' || p.buf[i] == '-') {
			i++
		}
		for i < len(p.buf) && p.buf[i] >= '0' && p.buf[i] <= '9' {
			i++
		}
		if i < len(p.buf) && p.buf[i] == '.' {
			i++
			for i < len(p.buf) && p.buf[i] >= '0' && p.buf[i] <= '9' {
				i++
			}
		}
		if i >= len(p.buf) {
			p.warnRow(rowStart, len(p.buf), prefix+string(p.buf[vstart:]), "Truncated escape sequence at end of data")
			p.pos = len(p.buf)
			return
		}
		term := p.buf[i]
		if !isFinalTerm(term) && !isGroupChar(term) {
			p.errorRow(rowStart, i, prefix+string(p.buf[vstart:i]), fmt.Sprintf("Invalid terminator 0x%02X in escape sequence", term))
			p.pos = i
			return
		}
		i++
		value := string(p.buf[vstart : i-1])
		upper := term
		if isGroupChar(term) {
			upper -= 0x20
		}

		p.pos = i
		p.pclParameter(rowStart, param, group, value, upper)
		if p.stop {
			return
		}
		i = p.pos
		if isFinalTerm(term) {
			return
		}
		rowStart = i
	}
}

// pclParameter emits the row for one value/terminator pair ending at p.pos
// and applies its action. Binary payloads advance p.pos past the data.
func (p *parser) pclParameter(rowStart int, param, group byte, value string, term byte) {
	seq := "<Esc>" + string(rune(param))
	if group != 0 {
		seq += string(rune(group))
	}
	seq += value + string(rune(term))
	end := p.pos

	d, ok := p.dict.LookupComplex(param, group, term)
	if !ok {
		p.emit(rowStart, end, tags.DialectPCL, rowtype.MsgError, seq, "Unrecognised escape sequence", nil)
		return
	}
	num := parseValue(value)
	desc := d.Description

	switch {
	case d.Flags.Has(tags.FlagValueIsSymSet):
		id := strings.TrimLeft(value, "+") + string(rune(term))
		desc = p.selectSymbolSet(param, id, d)
	case d.Flags.Has(tags.FlagBinaryData):
		desc = fmt.Sprintf("%s: %d bytes", d.Description, num)
	default:
		if name, ok := d.ValueName(num); ok {
			desc = fmt.Sprintf("%s: %s", d.Description, name)
		} else if value != "" {
			desc = fmt.Sprintf("%s: %s", d.Description, value)
		}
	}

	switch d.Action {
	case tags.ActionMacroControl:
		p.macroControl(rowStart, end, seq, desc, d, num)
	case tags.ActionUEL:
		p.emit(rowStart, end, tags.DialectPCL, rowtype.PCLComplexSeq, seq, desc, d)
		p.resetPCL()
		p.level = rowtype.LevelParent
		p.switchTo(tags.DialectPJL, "universal exit language")
	case tags.ActionEnterHPGL2:
		p.emit(rowStart, end, tags.DialectPCL, rowtype.PCLComplexSeq, seq, desc, d)
		p.switchTo(tags.DialectHPGL2, seq)
	case tags.ActionEnterPCL:
		p.emit(rowStart, end, tags.DialectPCL, rowtype.PCLComplexSeq, seq, desc, d)
		p.switchTo(tags.DialectPCL, seq)
	default:
		p.emit(rowStart, end, tags.DialectPCL, rowtype.PCLComplexSeq, seq, desc, d)
	}

	if d.Flags.Has(tags.FlagBinaryData) && num > 0 {
		p.binaryData(num)
	}
}

func (p *parser) selectSymbolSet(param byte, id string, d *tags.Descriptor) string {
	set, ok := symsets.ByID(id)
	if !ok {
		return fmt.Sprintf("%s: %s (not in map table)", d.Description, id)
	}
	if d.Action == tags.ActionSymSetSelect {
		if param == ')' {
			p.secondary = set
		} else {
			p.primary = set
		}
	}
	return fmt.Sprintf("%s: %s %s", d.Description, set.ID, set.Name)
}

// macroControl emits an ESC&f#X row. Rows after "start definition" are at
// macro level; the "stop definition" row itself is the last macro row.
func (p *parser) macroControl(rowStart, end int, seq, desc string, d *tags.Descriptor, num int64) {
	p.emit(rowStart, end, tags.DialectPCL, rowtype.PCLComplexSeq, seq, desc, d)
	switch num {
	case 0:
		if p.level == rowtype.LevelMacro {
			p.warnRow(end, end, seq, "Macro definition started inside a macro definition")
		}
		p.level = rowtype.LevelMacro
	case 1:
		if p.level != rowtype.LevelMacro {
			p.warnRow(end, end, seq, "Macro definition stopped while not defining a macro")
		}
		p.level = rowtype.LevelParent
	}
}

func (p *parser) binaryData(n int64) {
	start := p.pos
	avail := int64(len(p.buf) - start)
	if n > avail {
		p.emit(start, len(p.buf), tags.DialectPCL, rowtype.PCLBinaryData, "", fmt.Sprintf("Binary data, %d of %d bytes", avail, n), nil)
		p.warnRow(len(p.buf), len(p.buf), "", fmt.Sprintf("Binary data truncated: %d bytes missing", n-avail))
		p.pos = len(p.buf)
		return
	}
	end := start + int(n)
	p.emit(start, end, tags.DialectPCL, rowtype.PCLBinaryData, "", fmt.Sprintf("Binary data, %d bytes", n), nil)
	p.pos = end
}

// parseValue converts a PCL value field to an integer, truncating decimals
// and saturating at the int64 range. An empty field is zero.
func parseValue(s string) int64 {
	if s == "" || s == "+" || s == "-" {
		return 0
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil && !errors.Is(err, strconv.ErrRange) {
		return 0
	}
	switch {
	case math.IsNaN(f):
		return 0
	case f >= math.MaxInt64:
		return math.MaxInt64
	case f <= math.MinInt64:
		return math.MinInt64
	}
	return int64(f)
}

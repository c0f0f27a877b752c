package classify

import (
	"encoding/binary"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/tturner/pclscope/internal/pstream/rowtype"
	"github.com/tturner/pclscope/internal/pstream/tags"
)

const (
	xlAttrUByte  = 0xF8
	xlAttrUInt16 = 0xF9
	xlEmbed32    = 0xFA
	xlEmbed8     = 0xFB

	xlArrayPreview = 16
)

// xlValue remembers the most recent scalar so the following attribute can
// name an enumerated value.
type xlValue struct {
	set    bool
	scalar int64
}

func (p *parser) order() binary.ByteOrder {
	if p.xlBig {
		return binary.BigEndian
	}
	return binary.LittleEndian
}

func (p *parser) stepXL() {
	b := p.buf[p.pos]
	switch {
	case isXLHeader(p.buf[p.pos:]):
		p.xlStreamHeader()
	case b == esc && p.hasPrefix(uel):
		p.switchTo(tags.DialectPJL, "universal exit language")
	case b == xlAttrUByte || b == xlAttrUInt16:
		p.xlAttribute()
	case b == xlEmbed32 || b == xlEmbed8:
		p.xlEmbedded()
	default:
		if d, ok := p.dict.LookupXLWhitespace(b); ok {
			if p.opts.IncludeWhitespace {
				p.emit(p.pos, p.pos+1, tags.DialectPCLXL, rowtype.PCLXLWhitespace, d.Mnemonic, d.Description, d)
			}
			p.pos++
			return
		}
		if _, _, ok := tags.XLDataTypeInfo(b); ok {
			p.xlDataType()
			return
		}
		if d, ok := p.dict.LookupXLOperator(b); ok {
			p.emit(p.pos, p.pos+1, tags.DialectPCLXL, rowtype.PCLXLOperator, d.Mnemonic, d.Description, d)
			p.xlValue = xlValue{}
			p.pos++
			return
		}
		p.errorRow(p.pos, p.pos+1, fmt.Sprintf("0x%02X", b), "Unrecognised PCL XL tag")
		p.pos++
	}
}

func (p *parser) xlStreamHeader() {
	start := p.pos
	end, found := p.lineEnd(start)
	line := strings.TrimRight(string(p.buf[start:end]), "\r\n")
	p.pos = end

	var binding string
	switch p.buf[start] {
	case '(':
		p.xlBig = true
		binding = "big-endian binary binding"
	case ')':
		p.xlBig = false
		binding = "little-endian binary binding"
	case '\'':
		binding = "ASCII binding (not decoded)"
		p.emit(start, end, tags.DialectPCLXL, rowtype.PCLXLStreamHeader, line, "Stream header: "+binding, nil)
		p.opaque = "PCLXL-ASCII"
		return
	}
	p.emit(start, end, tags.DialectPCLXL, rowtype.PCLXLStreamHeader, line, "Stream header: "+binding, nil)
	p.xlValue = xlValue{}
	if !found {
		p.warnRow(end, end, "", "PCL XL stream header not terminated by LF")
	}
}

func (p *parser) xlDataType() {
	start := p.pos
	tag := p.buf[start]
	elem, shape, _ := tags.XLDataTypeInfo(tag)
	d, _ := p.dict.LookupXLDataType(tag)
	i := start + 1

	count := shape.Count()
	if shape == tags.XLArray {
		n, next, ok := p.xlArrayLength(i)
		if !ok && i < len(p.buf) && p.buf[i] != 0xC0 && p.buf[i] != 0xC1 {
			p.errorRow(start, i, mnemonic(d), fmt.Sprintf("Invalid PCL XL array length type 0x%02X", p.buf[i]))
			p.pos = i
			return
		}
		if !ok {
			p.warnRow(start, len(p.buf), mnemonic(d), "Truncated PCL XL array length")
			p.pos = len(p.buf)
			return
		}
		count, i = n, next
	}
	size := count * elem.Size()
	if i+size > len(p.buf) {
		p.warnRow(start, len(p.buf), mnemonic(d), fmt.Sprintf("Truncated PCL XL value: %d of %d bytes", len(p.buf)-i, size))
		p.pos = len(p.buf)
		return
	}
	data := p.buf[i : i+size]
	p.pos = i + size

	values := p.xlElements(elem, data, count)
	var text string
	switch shape {
	case tags.XLScalar:
		text = values[0]
		if elem != tags.XLReal32 {
			v, _ := strconv.ParseInt(text, 10, 64)
			p.xlValue = xlValue{set: true, scalar: v}
		} else {
			p.xlValue = xlValue{}
		}
	case tags.XLArray:
		p.xlValue = xlValue{}
		text = formatXLArray(elem, data, values, count)
	default:
		p.xlValue = xlValue{}
		text = "(" + strings.Join(values, ", ") + ")"
	}
	p.emit(start, p.pos, tags.DialectPCLXL, rowtype.PCLXLDataType, mnemonic(d)+" "+text, describe(d, "Data type"), d)
}

// xlArrayLength reads the ubyte or uint16 element count that follows an
// array tag.
func (p *parser) xlArrayLength(i int) (int, int, bool) {
	if i >= len(p.buf) {
		return 0, i, false
	}
	switch p.buf[i] {
	case 0xC0:
		if i+2 > len(p.buf) {
			return 0, i, false
		}
		return int(p.buf[i+1]), i + 2, true
	case 0xC1:
		if i+3 > len(p.buf) {
			return 0, i, false
		}
		return int(p.order().Uint16(p.buf[i+1:])), i + 3, true
	}
	return 0, i, false
}

func (p *parser) xlElements(elem tags.XLElement, data []byte, count int) []string {
	n := count
	if n > xlArrayPreview {
		n = xlArrayPreview
	}
	out := make([]string, n)
	order := p.order()
	size := elem.Size()
	for k := 0; k < n; k++ {
		b := data[k*size:]
		switch elem {
		case tags.XLUByte:
			out[k] = strconv.Itoa(int(b[0]))
		case tags.XLUInt16:
			out[k] = strconv.Itoa(int(order.Uint16(b)))
		case tags.XLUInt32:
			out[k] = strconv.FormatUint(uint64(order.Uint32(b)), 10)
		case tags.XLSInt16:
			out[k] = strconv.Itoa(int(int16(order.Uint16(b))))
		case tags.XLSInt32:
			out[k] = strconv.Itoa(int(int32(order.Uint32(b))))
		case tags.XLReal32:
			out[k] = strconv.FormatFloat(float64(math.Float32frombits(order.Uint32(b))), 'g', -1, 32)
		}
	}
	return out
}

// formatXLArray shows printable ubyte arrays as strings and other arrays as
// a bracketed list of the first elements.
func formatXLArray(elem tags.XLElement, data []byte, values []string, count int) string {
	if elem == tags.XLUByte && count > 0 && isPrintable(data) {
		return strconv.Quote(string(data))
	}
	s := "[" + strings.Join(values, " ")
	if count > len(values) {
		s += fmt.Sprintf(" ... (%d elements)", count)
	}
	return s + "]"
}

func isPrintable(data []byte) bool {
	for _, c := range data {
		if c < 0x20 || c > 0x7E {
			return false
		}
	}
	return true
}

func (p *parser) xlAttribute() {
	start := p.pos
	width := 2
	if p.buf[start] == xlAttrUInt16 {
		width = 3
	}
	if start+width > len(p.buf) {
		p.warnRow(start, len(p.buf), fmt.Sprintf("0x%02X", p.buf[start]), "Truncated PCL XL attribute id")
		p.pos = len(p.buf)
		return
	}
	id := int(p.buf[start+1])
	if width == 3 {
		id = int(p.order().Uint16(p.buf[start+1:]))
	}
	p.pos = start + width

	var d *tags.Descriptor
	ok := false
	if id < 256 {
		d, ok = p.dict.LookupXLAttribute(byte(id))
	}
	if !ok {
		p.errorRow(start, p.pos, fmt.Sprintf("attr %d", id), "Unrecognised PCL XL attribute")
		p.xlValue = xlValue{}
		return
	}
	desc := d.Description
	if p.xlValue.set {
		if name, ok := d.ValueName(p.xlValue.scalar); ok {
			desc = fmt.Sprintf("%s: %s", desc, name)
		}
	}
	p.xlValue = xlValue{}
	p.emit(start, p.pos, tags.DialectPCLXL, rowtype.PCLXLAttribute, d.Mnemonic, desc, d)
}

func (p *parser) xlEmbedded() {
	start := p.pos
	tag := p.buf[start]
	d, _ := p.dict.LookupXLEmbed(tag)
	hdr := 5
	if tag == xlEmbed8 {
		hdr = 2
	}
	if start+hdr > len(p.buf) {
		p.warnRow(start, len(p.buf), mnemonic(d), "Truncated PCL XL embedded data length")
		p.pos = len(p.buf)
		return
	}
	var n int
	if tag == xlEmbed8 {
		n = int(p.buf[start+1])
	} else {
		n = int(p.order().Uint32(p.buf[start+1:]))
	}
	end := start + hdr + n
	if end > len(p.buf) || end < start {
		p.emit(start, len(p.buf), tags.DialectPCLXL, rowtype.PCLXLEmbedData, mnemonic(d),
			fmt.Sprintf("Embedded data, %d of %d bytes", len(p.buf)-start-hdr, n), d)
		p.warnRow(len(p.buf), len(p.buf), "", "Embedded data truncated")
		p.pos = len(p.buf)
		return
	}
	p.emit(start, end, tags.DialectPCLXL, rowtype.PCLXLEmbedData, mnemonic(d), fmt.Sprintf("Embedded data, %d bytes", n), d)
	p.pos = end
}

func mnemonic(d *tags.Descriptor) string {
	if d == nil {
		return ""
	}
	return d.Mnemonic
}

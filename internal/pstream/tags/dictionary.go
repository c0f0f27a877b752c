package tags

import (
	"sort"
	"strings"
	"sync"
)

// Dictionary holds descriptors indexed by key. A Dictionary is not modified
// after construction; Overlay returns a new one.
type Dictionary struct {
	entries map[Key]*Descriptor
	sorted  []*Descriptor
}

// New builds a dictionary from descriptors. Later duplicates replace earlier ones.
func New(descs ...Descriptor) *Dictionary {
	d := &Dictionary{entries: make(map[Key]*Descriptor, len(descs))}
	for i := range descs {
		desc := descs[i]
		desc.Key = normalizeKey(desc.Key)
		d.entries[desc.Key] = &desc
	}
	d.sorted = make([]*Descriptor, 0, len(d.entries))
	for _, desc := range d.entries {
		d.sorted = append(d.sorted, desc)
	}
	sort.Slice(d.sorted, func(i, j int) bool {
		return d.sorted[i].Key.Less(d.sorted[j].Key)
	})
	return d
}

func normalizeKey(k Key) Key {
	if k.Kind.IsNamed() {
		k.Name = strings.ToUpper(strings.TrimSpace(k.Name))
	}
	return k
}

var (
	defaultOnce sync.Once
	defaultDict *Dictionary
)

// Default returns the shared built-in dictionary.
func Default() *Dictionary {
	defaultOnce.Do(func() {
		var all []Descriptor
		all = append(all, pclDescriptors()...)
		all = append(all, pclxlDescriptors()...)
		all = append(all, hpgl2Descriptors()...)
		all = append(all, pjlDescriptors()...)
		all = append(all, pmlDescriptors()...)
		all = append(all, prescribeDescriptors()...)
		defaultDict = New(all...)
	})
	return defaultDict
}

// Overlay returns a dictionary containing d's entries plus extra, with extra
// replacing built-ins on key collisions.
func (d *Dictionary) Overlay(extra []Descriptor) *Dictionary {
	if len(extra) == 0 {
		return d
	}
	merged := make([]Descriptor, 0, len(d.sorted)+len(extra))
	for _, desc := range d.sorted {
		merged = append(merged, *desc)
	}
	merged = append(merged, extra...)
	return New(merged...)
}

// Len returns the number of descriptors.
func (d *Dictionary) Len() int {
	return len(d.sorted)
}

// Lookup finds the descriptor for a key.
func (d *Dictionary) Lookup(k Key) (*Descriptor, bool) {
	desc, ok := d.entries[normalizeKey(k)]
	return desc, ok
}

// LookupControl finds a PCL control code.
func (d *Dictionary) LookupControl(b byte) (*Descriptor, bool) {
	return d.Lookup(Key{Dialect: DialectPCL, Kind: KindControlCode, A: b})
}

// LookupSimple finds a two-character escape sequence by its second byte.
func (d *Dictionary) LookupSimple(b byte) (*Descriptor, bool) {
	return d.Lookup(Key{Dialect: DialectPCL, Kind: KindSimpleSeq, A: b})
}

// LookupComplex finds a parameterised sequence. The terminator is matched
// upper case; entries registered with AnyTerminator catch the rest.
func (d *Dictionary) LookupComplex(param, group, term byte) (*Descriptor, bool) {
	if term >= 'a' && term <= 'z' {
		term -= 'a' - 'A'
	}
	if desc, ok := d.Lookup(Key{Dialect: DialectPCL, Kind: KindComplexSeq, A: param, B: group, C: term}); ok {
		return desc, true
	}
	return d.Lookup(Key{Dialect: DialectPCL, Kind: KindComplexSeq, A: param, B: group, C: AnyTerminator})
}

// LookupXLOperator finds a PCL XL operator tag.
func (d *Dictionary) LookupXLOperator(tag byte) (*Descriptor, bool) {
	return d.Lookup(Key{Dialect: DialectPCLXL, Kind: KindXLOperator, A: tag})
}

// LookupXLAttribute finds a PCL XL attribute by id.
func (d *Dictionary) LookupXLAttribute(id byte) (*Descriptor, bool) {
	return d.Lookup(Key{Dialect: DialectPCLXL, Kind: KindXLAttribute, A: id})
}

// LookupXLDataType finds a PCL XL data type tag.
func (d *Dictionary) LookupXLDataType(tag byte) (*Descriptor, bool) {
	return d.Lookup(Key{Dialect: DialectPCLXL, Kind: KindXLDataType, A: tag})
}

// LookupXLEmbed finds a PCL XL embedded-data tag.
func (d *Dictionary) LookupXLEmbed(tag byte) (*Descriptor, bool) {
	return d.Lookup(Key{Dialect: DialectPCLXL, Kind: KindXLEmbed, A: tag})
}

// LookupXLWhitespace finds a PCL XL whitespace tag.
func (d *Dictionary) LookupXLWhitespace(tag byte) (*Descriptor, bool) {
	return d.Lookup(Key{Dialect: DialectPCLXL, Kind: KindXLWhitespace, A: tag})
}

// LookupHPGL2 finds an HP-GL/2 command by mnemonic.
func (d *Dictionary) LookupHPGL2(mnemonic string) (*Descriptor, bool) {
	return d.Lookup(Key{Dialect: DialectHPGL2, Kind: KindHPGL2Command, Name: mnemonic})
}

// LookupPJL finds a PJL command by its first word ("" for a bare @PJL line).
func (d *Dictionary) LookupPJL(command string) (*Descriptor, bool) {
	return d.Lookup(Key{Dialect: DialectPJL, Kind: KindPJLCommand, Name: command})
}

// LookupPMLAction finds a PML action byte.
func (d *Dictionary) LookupPMLAction(b byte) (*Descriptor, bool) {
	return d.Lookup(Key{Dialect: DialectPML, Kind: KindPMLAction, A: b})
}

// LookupPMLDataType finds a PML data type by its type bits (header byte & 0xFC).
func (d *Dictionary) LookupPMLDataType(b byte) (*Descriptor, bool) {
	return d.Lookup(Key{Dialect: DialectPML, Kind: KindPMLDataType, A: b & 0xFC})
}

// LookupPrescribe finds a Prescribe command.
func (d *Dictionary) LookupPrescribe(command string) (*Descriptor, bool) {
	return d.Lookup(Key{Dialect: DialectPrescribe, Kind: KindPrescribeCommand, Name: command})
}

// All returns every descriptor sorted by key.
func (d *Dictionary) All() []*Descriptor {
	return d.sorted
}

// List returns descriptors for a dialect, optionally narrowed to one kind
// (KindUnknown matches every kind).
func (d *Dictionary) List(dialect Dialect, kind Kind) []*Descriptor {
	var out []*Descriptor
	for _, desc := range d.sorted {
		if dialect != DialectUnknown && desc.Key.Dialect != dialect {
			continue
		}
		if kind != KindUnknown && desc.Key.Kind != kind {
			continue
		}
		out = append(out, desc)
	}
	return out
}

// Search matches query against mnemonics, descriptions and rendered keys.
func (d *Dictionary) Search(query string) []*Descriptor {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return d.sorted
	}
	var out []*Descriptor
	for _, desc := range d.sorted {
		if strings.Contains(strings.ToLower(desc.Mnemonic), query) ||
			strings.Contains(strings.ToLower(desc.Description), query) ||
			strings.Contains(strings.ToLower(desc.Key.String()), query) {
			out = append(out, desc)
		}
	}
	return out
}

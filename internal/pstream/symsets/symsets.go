// Package symsets maps PCL symbol-set identifiers to the Unicode code points
// their bound 8-bit encodings represent, and checks font/symbol-set pairing
// through character collection bits.
package symsets

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"unicode/utf8"
)

// Type is the byte range a symbol set defines.
type Type uint8

const (
	Type7Bit Type = iota
	Type8Bit
	Type8BitPC
	Type16Bit
)

func (t Type) String() string {
	switch t {
	case Type7Bit:
		return "7-bit"
	case Type8Bit:
		return "8-bit"
	case Type8BitPC:
		return "8-bit PC"
	case Type16Bit:
		return "16-bit"
	}
	return fmt.Sprintf("Type(%d)", uint8(t))
}

// Index says how the set addresses glyphs.
type Index uint8

const (
	IndexBound Index = iota
	IndexMSL
	IndexUnicode
)

func (i Index) String() string {
	switch i {
	case IndexMSL:
		return "MSL"
	case IndexUnicode:
		return "Unicode"
	}
	return "bound"
}

// Range translates the bytes First..Last to CodePoint, CodePoint+1, ...
type Range struct {
	First     byte
	Last      byte
	CodePoint rune
}

// SymbolSet is one entry of the map table.
type SymbolSet struct {
	ID           string
	Kind1        uint16
	Name         string
	Type         Type
	Index        Index
	Requirements uint64
	Ranges       []Range
}

// Decode maps a byte to its code point.
func (s *SymbolSet) Decode(b byte) (rune, bool) {
	i := sort.Search(len(s.Ranges), func(i int) bool { return s.Ranges[i].Last >= b })
	if i < len(s.Ranges) && s.Ranges[i].First <= b {
		return s.Ranges[i].CodePoint + rune(b-s.Ranges[i].First), true
	}
	return utf8.RuneError, false
}

// DecodeString maps every byte, substituting U+FFFD for unmapped bytes.
func (s *SymbolSet) DecodeString(data []byte) string {
	var sb strings.Builder
	sb.Grow(len(data))
	for _, b := range data {
		r, _ := s.Decode(b)
		sb.WriteRune(r)
	}
	return sb.String()
}

// Mapped returns the number of bytes the set defines.
func (s *SymbolSet) Mapped() int {
	n := 0
	for _, r := range s.Ranges {
		n += int(r.Last-r.First) + 1
	}
	return n
}

// ParseID converts a PCL symbol set id such as "19U" into its kind-1 value
// (number*32 + letter-64).
func ParseID(id string) (uint16, error) {
	id = strings.TrimSpace(id)
	if len(id) < 2 {
		return 0, fmt.Errorf("symbol set id %q too short", id)
	}
	letter := id[len(id)-1]
	if letter >= 'a' && letter <= 'z' {
		letter -= 'a' - 'A'
	}
	if letter < 'A' || letter > 'Z' {
		return 0, fmt.Errorf("symbol set id %q: terminator %q is not a letter", id, letter)
	}
	num, err := strconv.ParseUint(id[:len(id)-1], 10, 16)
	if err != nil {
		return 0, fmt.Errorf("symbol set id %q: %w", id, err)
	}
	if num > 2047 {
		return 0, fmt.Errorf("symbol set id %q: number out of range", id)
	}
	return uint16(num)*32 + uint16(letter-64), nil
}

// FormatKind1 renders a kind-1 value back into its "numberLetter" form.
func FormatKind1(kind1 uint16) string {
	return fmt.Sprintf("%d%c", kind1/32, rune(kind1%32+64))
}

// ByID finds a symbol set by its PCL id.
func ByID(id string) (*SymbolSet, bool) {
	kind1, err := ParseID(id)
	if err != nil {
		return nil, false
	}
	return ByKind1(kind1)
}

// ByKind1 finds a symbol set by its kind-1 value.
func ByKind1(kind1 uint16) (*SymbolSet, bool) {
	table := load()
	s, ok := table.byKind1[kind1]
	return s, ok
}

// All returns every symbol set ordered by kind-1 value.
func All() []*SymbolSet {
	return load().sorted
}

// Default is the power-on primary symbol set, Roman-8.
func Default() *SymbolSet {
	s, _ := ByID("8U")
	return s
}

// compress folds a byte table into contiguous runs. Entries equal to
// utf8.RuneError are unmapped.
func compress(table *[256]rune) []Range {
	var out []Range
	for b := 0; b < 256; b++ {
		r := table[b]
		if r == utf8.RuneError {
			continue
		}
		if n := len(out); n > 0 {
			last := &out[n-1]
			if int(last.Last)+1 == b && last.CodePoint+rune(int(last.Last)-int(last.First))+1 == r {
				last.Last = byte(b)
				continue
			}
		}
		out = append(out, Range{First: byte(b), Last: byte(b), CodePoint: r})
	}
	return out
}

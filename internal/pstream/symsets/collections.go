package symsets

import (
	"math/bits"
	"strings"
)

// Character collection bits. A symbol set's requirement mask has a bit set
// for every collection it draws glyphs from; a font's complement mask has a
// bit clear for every collection it contains.
const (
	CollASCII uint64 = 1 << (63 - iota)
	CollLatin1
	CollLatin2
	CollLatin5
	CollCyrillic
	CollGreek
	CollEuro
	CollRoman8Extras
	CollPCExtensions
	CollBoxDrawing
	CollWindowsExtras
	CollMacExtras
	CollMath
	CollDingbats
)

var collectionNames = []struct {
	bit  uint64
	name string
}{
	{CollASCII, "ASCII"},
	{CollLatin1, "Latin 1"},
	{CollLatin2, "Latin 2"},
	{CollLatin5, "Latin 5"},
	{CollCyrillic, "Cyrillic"},
	{CollGreek, "Greek"},
	{CollEuro, "Euro"},
	{CollRoman8Extras, "Roman-8 extensions"},
	{CollPCExtensions, "PC extensions"},
	{CollBoxDrawing, "Box drawing"},
	{CollWindowsExtras, "Windows extensions"},
	{CollMacExtras, "Macintosh extensions"},
	{CollMath, "Math"},
	{CollDingbats, "Dingbats"},
}

// Compatible reports whether a font with the given complement can print
// every collection a symbol set requires.
func Compatible(fontComplement, setRequirement uint64) bool {
	return fontComplement&setRequirement == 0
}

// Missing returns the required collections the font lacks.
func Missing(fontComplement, setRequirement uint64) uint64 {
	return fontComplement & setRequirement
}

// CollectionNames lists the named collections set in mask, high bit first.
func CollectionNames(mask uint64) []string {
	var out []string
	for _, c := range collectionNames {
		if mask&c.bit != 0 {
			out = append(out, c.name)
		}
	}
	if rest := mask &^ namedMask(); rest != 0 {
		out = append(out, "reserved bits")
	}
	return out
}

func namedMask() uint64 {
	var m uint64
	for _, c := range collectionNames {
		m |= c.bit
	}
	return m
}

// ComplementFor builds the font complement mask for a font that contains
// exactly the given collections.
func ComplementFor(collections uint64) uint64 {
	return ^collections
}

// DescribeMask renders a mask as names, or "none".
func DescribeMask(mask uint64) string {
	if mask == 0 {
		return "none"
	}
	names := CollectionNames(mask)
	return strings.Join(names, ", ")
}

// CountCollections returns the number of bits set in mask.
func CountCollections(mask uint64) int {
	return bits.OnesCount64(mask)
}

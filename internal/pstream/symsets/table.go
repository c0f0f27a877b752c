package symsets

import (
	"sort"
	"sync"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
)

type mapTable struct {
	byKind1 map[uint16]*SymbolSet
	sorted  []*SymbolSet
}

var (
	tableOnce sync.Once
	table     *mapTable
)

type definition struct {
	id    string
	name  string
	typ   Type
	index Index
	req   uint64
	bytes func() *[256]rune
}

func fromCharmap(cm *charmap.Charmap) func() *[256]rune {
	return func() *[256]rune {
		var t [256]rune
		for b := 0; b < 256; b++ {
			r := cm.DecodeByte(byte(b))
			if b < 0x20 || b == 0x7F || unicode.IsControl(r) {
				r = utf8.RuneError
			}
			t[b] = r
		}
		return &t
	}
}

func asciiTable() *[256]rune {
	var t [256]rune
	for b := range t {
		t[b] = utf8.RuneError
		if b >= 0x20 && b < 0x7F {
			t[b] = rune(b)
		}
	}
	return &t
}

func latin1Identity() *[256]rune {
	t := asciiTable()
	for b := 0xA0; b < 0x100; b++ {
		t[b] = rune(b)
	}
	return t
}

var definitions = []definition{
	{"0U", "ASCII", Type7Bit, IndexBound, CollASCII, asciiTable},
	{"8U", "HP Roman-8", Type8Bit, IndexBound, CollASCII | CollLatin1 | CollRoman8Extras, roman8Table},
	{"0N", "ISO 8859-1 Latin 1", Type8Bit, IndexBound, CollASCII | CollLatin1, fromCharmap(charmap.ISO8859_1)},
	{"2N", "ISO 8859-2 Latin 2", Type8Bit, IndexBound, CollASCII | CollLatin2, fromCharmap(charmap.ISO8859_2)},
	{"5N", "ISO 8859-9 Latin 5", Type8Bit, IndexBound, CollASCII | CollLatin5, fromCharmap(charmap.ISO8859_9)},
	{"9N", "ISO 8859-15 Latin 9", Type8Bit, IndexBound, CollASCII | CollLatin1 | CollEuro, fromCharmap(charmap.ISO8859_15)},
	{"10N", "ISO 8859-5 Latin/Cyrillic", Type8Bit, IndexBound, CollASCII | CollCyrillic, fromCharmap(charmap.ISO8859_5)},
	{"12N", "ISO 8859-7 Latin/Greek", Type8Bit, IndexBound, CollASCII | CollGreek, fromCharmap(charmap.ISO8859_7)},
	{"10U", "PC-8", Type8BitPC, IndexBound, CollASCII | CollPCExtensions | CollBoxDrawing, fromCharmap(charmap.CodePage437)},
	{"12U", "PC-850 Multilingual", Type8BitPC, IndexBound, CollASCII | CollLatin1 | CollBoxDrawing, fromCharmap(charmap.CodePage850)},
	{"17U", "PC-852 Latin 2", Type8BitPC, IndexBound, CollASCII | CollLatin2 | CollBoxDrawing, fromCharmap(charmap.CodePage852)},
	{"19U", "Windows 3.1 Latin 1", Type8Bit, IndexBound, CollASCII | CollLatin1 | CollWindowsExtras, fromCharmap(charmap.Windows1252)},
	{"9E", "Windows 3.1 Latin 2", Type8Bit, IndexBound, CollASCII | CollLatin2 | CollWindowsExtras, fromCharmap(charmap.Windows1250)},
	{"9R", "Windows Latin/Cyrillic", Type8Bit, IndexBound, CollASCII | CollCyrillic | CollWindowsExtras, fromCharmap(charmap.Windows1251)},
	{"9G", "Windows Latin/Greek", Type8Bit, IndexBound, CollASCII | CollGreek | CollWindowsExtras, fromCharmap(charmap.Windows1253)},
	{"5T", "Windows 3.1 Latin 5", Type8Bit, IndexBound, CollASCII | CollLatin5 | CollWindowsExtras, fromCharmap(charmap.Windows1254)},
	{"12J", "MC Text", Type8Bit, IndexBound, CollASCII | CollLatin1 | CollMacExtras, fromCharmap(charmap.Macintosh)},
	{"18N", "Unicode", Type16Bit, IndexUnicode, 0, latin1Identity},
}

func load() *mapTable {
	tableOnce.Do(func() {
		t := &mapTable{byKind1: make(map[uint16]*SymbolSet, len(definitions))}
		for _, def := range definitions {
			kind1, err := ParseID(def.id)
			if err != nil {
				panic("symsets: bad built-in id " + def.id)
			}
			s := &SymbolSet{
				ID:           def.id,
				Kind1:        kind1,
				Name:         def.name,
				Type:         def.typ,
				Index:        def.index,
				Requirements: def.req,
				Ranges:       compress(def.bytes()),
			}
			t.byKind1[kind1] = s
			t.sorted = append(t.sorted, s)
		}
		sort.Slice(t.sorted, func(i, j int) bool { return t.sorted[i].Kind1 < t.sorted[j].Kind1 })
		table = t
	})
	return table
}

// roman8Upper lists the code points for Roman-8 bytes 0xA0..0xFF.
var roman8Upper = [96]rune{
	0x00A0, 0x00C0, 0x00C2, 0x00C8, 0x00CA, 0x00CB, 0x00CE, 0x00CF,
	0x00B4, 0x02CB, 0x02C6, 0x00A8, 0x02DC, 0x00D9, 0x00DB, 0x20A4,
	0x00AF, 0x00DD, 0x00FD, 0x00B0, 0x00C7, 0x00E7, 0x00D1, 0x00F1,
	0x00A1, 0x00BF, 0x00A4, 0x00A3, 0x00A5, 0x00A7, 0x0192, 0x00A2,
	0x00E2, 0x00EA, 0x00F4, 0x00FB, 0x00E1, 0x00E9, 0x00F3, 0x00FA,
	0x00E0, 0x00E8, 0x00F2, 0x00F9, 0x00E4, 0x00EB, 0x00F6, 0x00FC,
	0x00C5, 0x00EE, 0x00D8, 0x00C6, 0x00E5, 0x00ED, 0x00F8, 0x00E6,
	0x00C4, 0x00EC, 0x00D6, 0x00DC, 0x00C9, 0x00EF, 0x00DF, 0x00D4,
	0x00C1, 0x00C3, 0x00E3, 0x00D0, 0x00F0, 0x00CD, 0x00CC, 0x00D3,
	0x00D2, 0x00D5, 0x00F5, 0x0160, 0x0161, 0x00DA, 0x0178, 0x00FF,
	0x00DE, 0x00FE, 0x00B7, 0x00B5, 0x00B6, 0x00BE, 0x2014, 0x00BC,
	0x00BD, 0x00AA, 0x00BA, 0x00AB, 0x25A0, 0x00BB, 0x00B1, utf8.RuneError,
}

func roman8Table() *[256]rune {
	t := asciiTable()
	for i, r := range roman8Upper {
		t[0xA0+i] = r
	}
	return t
}

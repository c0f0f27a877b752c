package symsets

import (
	"testing"
	"unicode/utf8"
)

func TestParseID(t *testing.T) {
	cases := []struct {
		id   string
		want uint16
	}{
		{"8U", 277},
		{"0N", 14},
		{"19U", 629},
		{"10u", 341},
		{"18N", 590},
	}
	for _, tc := range cases {
		t.Run(tc.id, func(t *testing.T) {
			got, err := ParseID(tc.id)
			if err != nil {
				t.Fatalf("ParseID: %v", err)
			}
			if got != tc.want {
				t.Fatalf("ParseID(%q) = %d, want %d", tc.id, got, tc.want)
			}
		})
	}

	for _, bad := range []string{"", "U", "8", "8@", "x9U", "4000U"} {
		if _, err := ParseID(bad); err == nil {
			t.Errorf("ParseID(%q) should fail", bad)
		}
	}
}

func TestFormatKind1RoundTrip(t *testing.T) {
	for _, s := range All() {
		if got := FormatKind1(s.Kind1); got != s.ID {
			t.Errorf("FormatKind1(%d) = %q, want %q", s.Kind1, got, s.ID)
		}
	}
}

func TestAllSorted(t *testing.T) {
	sets := All()
	if len(sets) < 15 {
		t.Fatalf("expected at least 15 symbol sets, got %d", len(sets))
	}
	for i := 1; i < len(sets); i++ {
		if sets[i-1].Kind1 >= sets[i].Kind1 {
			t.Fatalf("not sorted at %d: %s then %s", i, sets[i-1].ID, sets[i].ID)
		}
	}
}

func TestDecodeRoman8(t *testing.T) {
	s := Default()
	if s == nil || s.ID != "8U" {
		t.Fatalf("Default() = %+v", s)
	}
	cases := []struct {
		b    byte
		want rune
	}{
		{'A', 'A'},
		{0xA1, 'À'},
		{0xB3, '°'},
		{0xBB, '£'},
		{0xC5, 'é'},
		{0xDE, 'ß'},
		{0xFC, '■'},
	}
	for _, tc := range cases {
		r, ok := s.Decode(tc.b)
		if !ok || r != tc.want {
			t.Errorf("Decode(0x%02X) = %q %v, want %q", tc.b, r, ok, tc.want)
		}
	}
	if _, ok := s.Decode(0xFF); ok {
		t.Error("0xFF is unmapped in Roman-8")
	}
	if _, ok := s.Decode(0x1B); ok {
		t.Error("control bytes are unmapped")
	}
}

func TestDecodeCharmapSets(t *testing.T) {
	cases := []struct {
		id   string
		b    byte
		want rune
	}{
		{"0N", 0xE9, 'é'},
		{"19U", 0x80, '€'},
		{"10U", 0x82, 'é'},
		{"9R", 0xC0, 'А'},
		{"12N", 0xE1, 'α'},
		{"9N", 0xA4, '€'},
	}
	for _, tc := range cases {
		t.Run(tc.id, func(t *testing.T) {
			s, ok := ByID(tc.id)
			if !ok {
				t.Fatalf("ByID(%q) not found", tc.id)
			}
			r, ok := s.Decode(tc.b)
			if !ok || r != tc.want {
				t.Fatalf("Decode(0x%02X) = %q %v, want %q", tc.b, r, ok, tc.want)
			}
		})
	}
}

func TestDecodeString(t *testing.T) {
	s, _ := ByID("0U")
	got := s.DecodeString([]byte{'H', 'i', 0xE9})
	want := "Hi" + string(utf8.RuneError)
	if got != want {
		t.Fatalf("DecodeString = %q, want %q", got, want)
	}
	if s.Mapped() != 95 {
		t.Errorf("ASCII maps %d bytes, want 95", s.Mapped())
	}
}

func TestCompress(t *testing.T) {
	var table [256]rune
	for i := range table {
		table[i] = utf8.RuneError
	}
	table[0x41] = 'A'
	table[0x42] = 'B'
	table[0x43] = 'Z'
	table[0x45] = 'E'
	ranges := compress(&table)
	if len(ranges) != 3 {
		t.Fatalf("compress produced %d ranges: %+v", len(ranges), ranges)
	}
	if ranges[0] != (Range{First: 0x41, Last: 0x42, CodePoint: 'A'}) {
		t.Errorf("first range = %+v", ranges[0])
	}
}

func TestByKind1Missing(t *testing.T) {
	if _, ok := ByKind1(1); ok {
		t.Error("kind1 1 should not exist")
	}
	if _, ok := ByID("nonsense"); ok {
		t.Error("bad id should not resolve")
	}
}

func TestCompatible(t *testing.T) {
	font := ComplementFor(CollASCII | CollLatin1 | CollRoman8Extras)
	roman8, _ := ByID("8U")
	if !Compatible(font, roman8.Requirements) {
		t.Errorf("font should cover Roman-8: missing %s", DescribeMask(Missing(font, roman8.Requirements)))
	}
	cyr, _ := ByID("9R")
	if Compatible(font, cyr.Requirements) {
		t.Error("font should not cover Cyrillic")
	}
	names := CollectionNames(Missing(font, cyr.Requirements))
	if len(names) != 2 || names[0] != "Cyrillic" || names[1] != "Windows extensions" {
		t.Errorf("missing names = %v", names)
	}
	if DescribeMask(0) != "none" {
		t.Error("empty mask should describe as none")
	}
	if CountCollections(CollASCII|CollGreek) != 2 {
		t.Error("CountCollections miscounted")
	}
}

package classify

import (
	"bytes"
	"context"
	"errors"
	"math"
	"math/rand"
	"strings"
	"testing"

	"github.com/tturner/pclscope/internal/pstream/rowtype"
	"github.com/tturner/pclscope/internal/pstream/stats"
	"github.com/tturner/pclscope/internal/pstream/tags"
)

func parse(t *testing.T, data string, opts Options) *Result {
	t.Helper()
	res, err := ParseBytes(context.Background(), []byte(data), opts)
	if err != nil {
		t.Fatalf("ParseBytes: %v", err)
	}
	return res
}

// dataRows returns rows that are not comments.
func dataRows(res *Result) []Row {
	return res.Filter(func(r Row) bool { return r.Type != rowtype.MsgComment })
}

func TestPCLBasicJob(t *testing.T) {
	res := parse(t, "\x1bE\x1b&l1o2AHello\r\n\x0c", DefaultOptions())
	rows := dataRows(res)

	want := []struct {
		typ rowtype.Type
		seq string
	}{
		{rowtype.PCLSimpleSeq, "<Esc>E"},
		{rowtype.PCLComplexSeq, "<Esc>&l1O"},
		{rowtype.PCLComplexSeq, "<Esc>&l2A"},
		{rowtype.Text, "Hello"},
		{rowtype.PCLControlCode, "<CR>"},
		{rowtype.PCLControlCode, "<LF>"},
		{rowtype.PCLControlCode, "<FF>"},
	}
	if len(rows) != len(want) {
		t.Fatalf("got %d rows, want %d: %+v", len(rows), len(want), rows)
	}
	for i, w := range want {
		if rows[i].Type != w.typ || rows[i].Sequence != w.seq {
			t.Errorf("row %d = %s %q, want %s %q", i, rows[i].Type, rows[i].Sequence, w.typ, w.seq)
		}
	}

	if !strings.Contains(rows[1].Description, "Landscape") {
		t.Errorf("orientation description = %q", rows[1].Description)
	}
	if !strings.Contains(rows[2].Description, "Letter") {
		t.Errorf("page size description = %q", rows[2].Description)
	}
	if rows[1].Offset != 2 || rows[1].Length != 5 {
		t.Errorf("first combined row offset/length = %d/%d", rows[1].Offset, rows[1].Length)
	}
	if rows[2].Offset != 7 || rows[2].Length != 2 {
		t.Errorf("second combined row offset/length = %d/%d", rows[2].Offset, rows[2].Length)
	}
	if res.Start != tags.DialectPCL {
		t.Errorf("start dialect = %s", res.Start)
	}
	if res.Errors != 0 || res.Warnings != 0 {
		t.Errorf("errors/warnings = %d/%d", res.Errors, res.Warnings)
	}
}

func TestPCLTextHiddenByDefault(t *testing.T) {
	res := parse(t, "Hello\x1bE", Options{})
	if res.Count(rowtype.Text) != 0 {
		t.Fatal("text rows should be omitted when IncludeText is false")
	}
	if len(res.Rows) != 1 || res.Rows[0].Offset != 5 {
		t.Fatalf("rows = %+v", res.Rows)
	}
}

func TestPCLSymbolSetSelection(t *testing.T) {
	res := parse(t, "\x1b(0N\xe9\x1b(10U\x82\x1bE\xe9", DefaultOptions())
	text := res.Filter(func(r Row) bool { return r.Type == rowtype.Text })
	if len(text) != 3 {
		t.Fatalf("got %d text rows", len(text))
	}
	if text[0].Sequence != "é" || !strings.Contains(text[0].Description, "0N") {
		t.Errorf("latin 1 text = %q (%s)", text[0].Sequence, text[0].Description)
	}
	if text[1].Sequence != "é" || !strings.Contains(text[1].Description, "10U") {
		t.Errorf("PC-8 text = %q (%s)", text[1].Sequence, text[1].Description)
	}
	// 0xE9 is U+00D5 in Roman-8 after the reset.
	if text[2].Sequence != "Õ" {
		t.Errorf("Roman-8 text = %q", text[2].Sequence)
	}

	sel := res.Filter(func(r Row) bool { return r.Sequence == "<Esc>(0N" })
	if len(sel) != 1 || !strings.Contains(sel[0].Description, "Latin 1") {
		t.Errorf("symbol set row = %+v", sel)
	}
}

func TestPCLUnknownSymbolSet(t *testing.T) {
	res := parse(t, "\x1b(99Q", Options{})
	if len(res.Rows) != 1 || !strings.Contains(res.Rows[0].Description, "not in map table") {
		t.Fatalf("rows = %+v", res.Rows)
	}
}

func TestPCLBinaryData(t *testing.T) {
	res := parse(t, "\x1b*b3WABC\x1bE", Options{})
	if len(res.Rows) != 3 {
		t.Fatalf("rows = %+v", res.Rows)
	}
	bin := res.Rows[1]
	if bin.Type != rowtype.PCLBinaryData || bin.Offset != 5 || bin.Length != 3 {
		t.Errorf("binary row = %+v", bin)
	}
	if res.Rows[2].Sequence != "<Esc>E" {
		t.Errorf("sequence after binary data = %q", res.Rows[2].Sequence)
	}
}

func TestPCLOversizedByteCount(t *testing.T) {
	res := parse(t, "\x1b*b99999999999999999999WABC", Options{})
	if len(res.Rows) != 3 {
		t.Fatalf("rows = %+v", res.Rows)
	}
	if d := res.Rows[0].Description; strings.Contains(d, "-") || !strings.Contains(d, "9223372036854775807 bytes") {
		t.Errorf("count description = %q", d)
	}
	bin := res.Rows[1]
	if bin.Type != rowtype.PCLBinaryData || bin.Offset != 24 || bin.Length != 3 {
		t.Errorf("binary row = %+v", bin)
	}
	if res.Rows[2].Type != rowtype.MsgWarning || res.Warnings != 1 {
		t.Errorf("truncation warning missing: %+v", res.Rows)
	}
	if text := res.Filter(func(r Row) bool { return r.Type == rowtype.Text }); len(text) != 0 {
		t.Errorf("payload classified as text: %+v", text)
	}
}

func TestParseValue(t *testing.T) {
	cases := []struct {
		in   string
		want int64
	}{
		{"", 0},
		{"-", 0},
		{"12", 12},
		{"+3.75", 3},
		{"-2.5", -2},
		{"99999999999999999999", math.MaxInt64},
		{"-99999999999999999999", math.MinInt64},
		{strings.Repeat("9", 400), math.MaxInt64},
		{"1.2.3", 0},
	}
	for _, tc := range cases {
		if got := parseValue(tc.in); got != tc.want {
			t.Errorf("parseValue(%q) = %d, want %d", tc.in, got, tc.want)
		}
	}
}

func TestPCLTruncations(t *testing.T) {
	cases := []struct {
		name     string
		data     string
		warnings int
	}{
		{"binary", "\x1b*b10WAB", 1},
		{"value", "\x1b&l1", 1},
		{"escape", "\x1b", 1},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			res := parse(t, tc.data, Options{})
			if res.Warnings != tc.warnings {
				t.Fatalf("warnings = %d, want %d: %+v", res.Warnings, tc.warnings, res.Rows)
			}
			last := res.Rows[len(res.Rows)-1]
			if last.Type != rowtype.MsgWarning {
				t.Errorf("last row = %s", last.Type)
			}
		})
	}
}

func TestPCLErrors(t *testing.T) {
	res := parse(t, "\x1b&q5Q", Options{})
	if res.Errors != 1 || res.Rows[0].Type != rowtype.MsgError || res.Rows[0].Sequence != "<Esc>&q5Q" {
		t.Fatalf("unknown sequence rows = %+v", res.Rows)
	}

	res = parse(t, "\x1b&l1\x01", Options{})
	if res.Errors != 1 || len(res.Rows) != 2 {
		t.Fatalf("invalid terminator rows = %+v", res.Rows)
	}
	if res.Rows[1].Type != rowtype.PCLControlCode || res.Rows[1].Offset != 4 {
		t.Errorf("byte after invalid sequence = %+v", res.Rows[1])
	}
}

func TestPCLMacroLevels(t *testing.T) {
	res := parse(t, "\x1b&f1Y\x1b&f0X\x0c\x1bE\x1b&f1X\x0c", Options{})
	want := []rowtype.Level{
		rowtype.LevelParent, // &f1Y
		rowtype.LevelParent, // &f0X
		rowtype.LevelMacro,  // FF
		rowtype.LevelMacro,  // ESC E
		rowtype.LevelMacro,  // &f1X
		rowtype.LevelParent, // FF
	}
	if len(res.Rows) != len(want) {
		t.Fatalf("rows = %+v", res.Rows)
	}
	for i, w := range want {
		if res.Rows[i].Level != w {
			t.Errorf("row %d (%s) level = %s, want %s", i, res.Rows[i].Sequence, res.Rows[i].Level, w)
		}
	}
}

func TestPCLStopMacroWithoutStart(t *testing.T) {
	res := parse(t, "\x1b&f1X", Options{})
	if res.Warnings != 1 {
		t.Fatalf("warnings = %d", res.Warnings)
	}
}

func TestHPGL2(t *testing.T) {
	res := parse(t, "\x1b%0BIN;SP1;PD100,200;LBHello\x03\x1b%0A", DefaultOptions())

	cmds := res.Filter(func(r Row) bool { return r.Type == rowtype.HPGL2Command })
	var seqs []string
	for _, r := range cmds {
		seqs = append(seqs, r.Sequence)
	}
	if got := strings.Join(seqs, " "); got != "IN; SP1; PD100,200; LB" {
		t.Fatalf("HP-GL/2 commands = %q", got)
	}
	labels := res.Filter(func(r Row) bool { return r.Type == rowtype.HPGL2Label })
	if len(labels) != 1 || labels[0].Sequence != "Hello" {
		t.Fatalf("labels = %+v", labels)
	}
	last := dataRows(res)
	if seq := last[len(last)-1].Sequence; seq != "<Esc>%0A" {
		t.Errorf("last row = %q", seq)
	}
	if res.Dialects[tags.DialectHPGL2] != 5 {
		t.Errorf("HP-GL/2 row count = %d", res.Dialects[tags.DialectHPGL2])
	}
}

func TestHPGL2LabelTerminator(t *testing.T) {
	res := parse(t, "DT*;LBABC*PU;", Options{Start: tags.DialectHPGL2, IncludeText: true})
	labels := res.Filter(func(r Row) bool { return r.Type == rowtype.HPGL2Label })
	if len(labels) != 1 || labels[0].Sequence != "ABC" {
		t.Fatalf("labels = %+v", labels)
	}
	cmds := res.Filter(func(r Row) bool { return r.Type == rowtype.HPGL2Command })
	if len(cmds) != 3 || cmds[2].Sequence != "PU;" {
		t.Fatalf("commands = %+v", cmds)
	}
	if !strings.Contains(cmds[0].Description, "0x2A") {
		t.Errorf("DT description = %q", cmds[0].Description)
	}
}

func TestHPGL2Sniff(t *testing.T) {
	res := parse(t, "IN;PU0,0;ZZ1;", Options{})
	if res.Start != tags.DialectHPGL2 {
		t.Fatalf("start = %s", res.Start)
	}
	if res.Errors != 1 {
		t.Errorf("unknown mnemonic errors = %d", res.Errors)
	}
}

func TestPJLEnterPCL(t *testing.T) {
	job := "\x1b%-12345X@PJL JOB NAME=\"t\"\r\n@PJL ENTER LANGUAGE=PCL\r\n\x1bE\x1b%-12345X@PJL EOJ\r\n\x1b%-12345X"
	res := parse(t, job, Options{})
	if res.Start != tags.DialectPJL {
		t.Fatalf("start = %s", res.Start)
	}
	pjl := res.Filter(func(r Row) bool { return r.Type == rowtype.PJLCommand })
	if len(pjl) != 3 {
		t.Fatalf("PJL rows = %+v", pjl)
	}
	if !strings.Contains(pjl[1].Description, "PCL") {
		t.Errorf("ENTER description = %q", pjl[1].Description)
	}
	reset := res.Filter(func(r Row) bool { return r.Sequence == "<Esc>E" })
	if len(reset) != 1 || reset[0].Dialect != tags.DialectPCL {
		t.Fatalf("reset rows = %+v", reset)
	}
	if res.Errors != 0 || res.Warnings != 0 {
		t.Errorf("errors/warnings = %d/%d: %+v", res.Errors, res.Warnings, res.Rows)
	}
}

func TestPJLResponseLines(t *testing.T) {
	res := parse(t, "@PJL INFO STATUS\r\nCODE=10001\r\nDISPLAY=\"Ready\"\r\nONLINE=TRUE\r\n\x0c", Options{})
	pjl := res.Filter(func(r Row) bool { return r.Type == rowtype.PJLCommand })
	if len(pjl) != 4 {
		t.Fatalf("PJL rows = %+v", res.Rows)
	}
	if pjl[1].Sequence != "CODE=10001" || pjl[1].Description != "Response data" {
		t.Errorf("response row = %+v", pjl[1])
	}
}

func TestPJLAssignmentOutsideReadback(t *testing.T) {
	res := parse(t, "\x1b%-12345X@PJL JOB\r\nName=value text\x1bE", Options{})
	if r := res.Filter(func(r Row) bool { return r.Description == "Response data" }); len(r) != 0 {
		t.Fatalf("assignment after JOB taken as reply data: %+v", r)
	}
	reset := res.Filter(func(r Row) bool { return r.Sequence == "<Esc>E" })
	if len(reset) != 1 || reset[0].Dialect != tags.DialectPCL {
		t.Fatalf("reset rows = %+v", res.Rows)
	}
	switched := res.Filter(func(r Row) bool {
		return r.Type == rowtype.MsgComment && strings.HasPrefix(r.Description, "Switch to PCL")
	})
	if len(switched) == 0 {
		t.Errorf("no switch to PCL: %+v", res.Rows)
	}
}

func TestPJLResponseEndsAtEscape(t *testing.T) {
	res := parse(t, "@PJL INFO STATUS\r\nCODE=10001\x1b%-12345X@PJL EOJ\r\n", Options{})
	resp := res.Filter(func(r Row) bool { return r.Description == "Response data" })
	if len(resp) != 1 || resp[0].Sequence != "CODE=10001" {
		t.Fatalf("response rows = %+v", resp)
	}
	if uels := res.Filter(func(r Row) bool { return r.Sequence == "<Esc>%-12345X" }); len(uels) != 1 {
		t.Errorf("UEL rows = %+v", res.Rows)
	}
	eoj := res.Filter(func(r Row) bool { return r.Sequence == "@PJL EOJ" })
	if len(eoj) != 1 {
		t.Errorf("EOJ rows = %+v", res.Rows)
	}
}

func TestPJLReadbackEndsAtFormFeed(t *testing.T) {
	res := parse(t, "@PJL INFO ID\r\n\"LaserJet\"\r\n\x0cCODE=1\r\n", Options{})
	resp := res.Filter(func(r Row) bool { return r.Description == "Response data" })
	if len(resp) != 1 || resp[0].Sequence != `"LaserJet"` {
		t.Fatalf("response rows = %+v", resp)
	}
}

func TestPJLUnknownCommand(t *testing.T) {
	res := parse(t, "@PJL FROBNICATE\r\n", Options{})
	if res.Errors != 1 {
		t.Fatalf("errors = %d", res.Errors)
	}
}

func TestPJLOpaqueLanguage(t *testing.T) {
	job := "\x1b%-12345X@PJL ENTER LANGUAGE=POSTSCRIPT\r\n%!PS\nshowpage\n\x1b%-12345X"
	res := parse(t, job, Options{})
	opaque := res.Filter(func(r Row) bool { return r.Type == rowtype.LanguageData })
	if len(opaque) != 1 || opaque[0].Sequence != "POSTSCRIPT" {
		t.Fatalf("opaque rows = %+v", res.Rows)
	}
	if opaque[0].Length != len("%!PS\nshowpage\n") {
		t.Errorf("opaque length = %d", opaque[0].Length)
	}
	uels := res.Filter(func(r Row) bool { return r.Sequence == "<Esc>%-12345X" })
	if len(uels) != 2 {
		t.Errorf("UEL rows = %d", len(uels))
	}
}

func TestPCLXL(t *testing.T) {
	var b bytes.Buffer
	b.WriteString("\x1b%-12345X@PJL ENTER LANGUAGE=PCLXL\r\n")
	b.WriteString(") HP-PCL XL;2;0;Comment\r\n")
	b.Write([]byte{0xC0, 0x01, 0xF8, 0x28})          // ubyte 1 Orientation
	b.Write([]byte{0x43})                            // BeginPage
	b.Write([]byte{0x20})                            // whitespace
	b.Write([]byte{0xD1, 0x10, 0x00, 0x20, 0x00})    // uint16_xy (16, 32)
	b.Write([]byte{0xC8, 0xC0, 0x03, 'a', 'b', 'c'}) // ubyte_array "abc"
	b.Write([]byte{0xFB, 0x02, 0xAA, 0xBB})          // embedded data
	b.Write([]byte{0xC5, 0x00, 0x00, 0xC0, 0x3F})    // real32 1.5
	b.Write([]byte{0x44})                            // EndPage
	b.WriteString("\x1b%-12345X")

	res, err := ParseBytes(context.Background(), b.Bytes(), Options{})
	if err != nil {
		t.Fatalf("ParseBytes: %v", err)
	}
	xl := res.Filter(func(r Row) bool { return r.Dialect == tags.DialectPCLXL && r.Type != rowtype.MsgComment })

	want := []struct {
		typ rowtype.Type
		seq string
	}{
		{rowtype.PCLXLStreamHeader, ") HP-PCL XL;2;0;Comment"},
		{rowtype.PCLXLDataType, "ubyte 1"},
		{rowtype.PCLXLAttribute, "Orientation"},
		{rowtype.PCLXLOperator, "BeginPage"},
		{rowtype.PCLXLDataType, "uint16_xy (16, 32)"},
		{rowtype.PCLXLDataType, `ubyte_array "abc"`},
		{rowtype.PCLXLEmbedData, "embedded_data_byte"},
		{rowtype.PCLXLDataType, "real32 1.5"},
		{rowtype.PCLXLOperator, "EndPage"},
	}
	if len(xl) != len(want) {
		t.Fatalf("got %d PCL XL rows: %+v", len(xl), xl)
	}
	for i, w := range want {
		if xl[i].Type != w.typ || xl[i].Sequence != w.seq {
			t.Errorf("row %d = %s %q, want %s %q", i, xl[i].Type, xl[i].Sequence, w.typ, w.seq)
		}
	}
	if !strings.Contains(xl[2].Description, "eLandscapeOrientation") {
		t.Errorf("attribute description = %q", xl[2].Description)
	}
	if xl[6].Length != 4 {
		t.Errorf("embedded row length = %d", xl[6].Length)
	}
	if res.Errors != 0 || res.Warnings != 0 {
		t.Errorf("errors/warnings = %d/%d: %+v", res.Errors, res.Warnings, res.Rows)
	}
}

func TestPCLXLBigEndianAndWhitespace(t *testing.T) {
	data := append([]byte("( HP-PCL XL;2;0\n"), 0xC1, 0x01, 0x02, 0x0A, 0x41)
	res, err := ParseBytes(context.Background(), data, Options{IncludeWhitespace: true})
	if err != nil {
		t.Fatal(err)
	}
	if res.Start != tags.DialectPCLXL {
		t.Fatalf("start = %s", res.Start)
	}
	if len(res.Rows) != 4 {
		t.Fatalf("rows = %+v", res.Rows)
	}
	if res.Rows[1].Sequence != "uint16 258" {
		t.Errorf("big-endian value = %q", res.Rows[1].Sequence)
	}
	if res.Rows[2].Type != rowtype.PCLXLWhitespace {
		t.Errorf("whitespace row = %s", res.Rows[2].Type)
	}
}

func TestPCLXLTruncatedAndUnknown(t *testing.T) {
	data := append([]byte(") HP-PCL XL;2;0\n"), 0x01, 0xC2, 0x01)
	res, err := ParseBytes(context.Background(), data, Options{})
	if err != nil {
		t.Fatal(err)
	}
	if res.Errors != 1 || res.Warnings != 1 {
		t.Fatalf("errors/warnings = %d/%d: %+v", res.Errors, res.Warnings, res.Rows)
	}
}

func TestPMLInsidePJL(t *testing.T) {
	payload := "8000" + "000401010304" + "040105" + "1005000E486921"
	res := parse(t, "@PJL DMINFO ASCIIHEX=\""+payload+"\"\r\n", Options{})
	pml := res.Filter(func(r Row) bool { return r.Dialect == tags.DialectPML })
	if len(pml) != 4 {
		t.Fatalf("PML rows = %+v", res.Rows)
	}
	if pml[0].Sequence != "GetReply" || !strings.Contains(pml[0].Description, "OK") {
		t.Errorf("action row = %+v", pml[0])
	}
	if pml[1].Description != "1.1.3.4" {
		t.Errorf("oid = %q", pml[1].Description)
	}
	if pml[2].Description != "5" {
		t.Errorf("enum = %q", pml[2].Description)
	}
	if pml[3].Description != `[0N] "Hi!"` {
		t.Errorf("string = %q", pml[3].Description)
	}
}

func TestPMLBadHex(t *testing.T) {
	res := parse(t, "@PJL DMCMD ASCIIHEX=\"zz\"\r\n", Options{})
	if res.Errors != 1 {
		t.Fatalf("errors = %d", res.Errors)
	}
}

func TestDecodePML(t *testing.T) {
	msg, err := DecodePML([]byte{0x04, 0x08, 0x02, 0xFF, 0xFE, 0x00})
	if err != nil {
		t.Fatal(err)
	}
	if msg.Reply || msg.HasStatus {
		t.Error("set request is not a reply")
	}
	if len(msg.Items) != 1 || !msg.Truncated {
		t.Fatalf("msg = %+v", msg)
	}
	if got := FormatPMLValue(msg.Items[0].Type, msg.Items[0].Data); got != "-2" {
		t.Errorf("signed value = %q", got)
	}

	msg, err = DecodePML([]byte{0x80})
	if err == nil || msg == nil {
		t.Fatal("reply without status should fail but return the action")
	}
	if _, err := DecodePML(nil); err == nil {
		t.Fatal("empty message should fail")
	}
	if got := FormatPMLValue(tags.PMLTypeErrorCode, []byte{0x83}); !strings.Contains(got, "Unknown object identifier") {
		t.Errorf("error code = %q", got)
	}
	if FormatPMLValue(tags.PMLTypeNull, nil) != "null" {
		t.Error("null value")
	}
}

func TestPrescribe(t *testing.T) {
	res := parse(t, "!R! RES; UNIT C; TEXT 'a;b'; EXIT;", DefaultOptions())
	if res.Start != tags.DialectPrescribe {
		t.Fatalf("start = %s", res.Start)
	}
	cmds := res.Filter(func(r Row) bool { return r.Type == rowtype.PrescribeCommand })
	var seqs []string
	for _, r := range cmds {
		seqs = append(seqs, r.Sequence)
	}
	if got := strings.Join(seqs, "|"); got != "!R!|RES;|UNIT C;|TEXT 'a;b';|EXIT;" {
		t.Fatalf("commands = %q", got)
	}
}

func TestPrescribeEmbeddedInPCLText(t *testing.T) {
	res := parse(t, "Hi!R!EXIT;Bye", DefaultOptions())
	text := res.Filter(func(r Row) bool { return r.Type == rowtype.Text })
	if len(text) != 2 || text[0].Sequence != "Hi" || text[1].Sequence != "Bye" {
		t.Fatalf("text rows = %+v", res.Rows)
	}
	if res.Count(rowtype.PrescribeCommand) != 2 {
		t.Errorf("prescribe rows = %d", res.Count(rowtype.PrescribeCommand))
	}
}

func TestMaxRows(t *testing.T) {
	res := parse(t, "\x1bE\x1bE\x1bE", Options{MaxRows: 2})
	if !res.Truncated || len(res.Rows) != 3 || res.Rows[2].Type != rowtype.MsgWarning {
		t.Fatalf("rows = %+v", res.Rows)
	}
}

func TestStatsAndOverlay(t *testing.T) {
	agg := stats.New()
	dict := tags.Default().Overlay([]tags.Descriptor{{
		Key:         tags.Key{Dialect: tags.DialectPCL, Kind: tags.KindComplexSeq, A: '&', B: 'q', C: 'Q'},
		Mnemonic:    "<Esc>&q#Q",
		Description: "Vendor private",
	}})
	res := parse(t, "\x1bE\x1b&q5Q\x1bE", Options{Stats: agg, Dictionary: dict})
	if res.Errors != 0 {
		t.Fatalf("overlay entry not used: %+v", res.Rows)
	}
	reset, _ := dict.LookupSimple('E')
	if got := agg.Count(reset.Key); got.Parent != 2 {
		t.Errorf("reset count = %+v", got)
	}
	if agg.Total() != 3 {
		t.Errorf("total = %d", agg.Total())
	}
}

func TestOptionErrors(t *testing.T) {
	ctx := context.Background()
	if _, err := ParseBytes(ctx, nil, Options{SymbolSet: "bogus"}); err == nil {
		t.Error("bad symbol set should fail")
	}
	if _, err := ParseBytes(ctx, nil, Options{MaxRows: -1}); err == nil {
		t.Error("negative max rows should fail")
	}
	if _, err := ParseBytes(ctx, nil, Options{Start: tags.DialectPML}); err == nil {
		t.Error("PML start should fail")
	}
}

func TestCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := ParseBytes(ctx, []byte("\x1bE"), Options{})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v", err)
	}
}

func TestParseReader(t *testing.T) {
	var done, total int64
	res, err := Parse(context.Background(), strings.NewReader("\x1bE"), Options{
		Progress: func(d, tt int64) { done, total = d, tt },
	})
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Rows) != 1 || res.Bytes != 2 {
		t.Fatalf("result = %+v", res)
	}
	if done != 2 || total != 2 {
		t.Errorf("progress = %d/%d", done, total)
	}
}

func TestRandomInputNeverStalls(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	starts := []tags.Dialect{tags.DialectUnknown, tags.DialectPCL, tags.DialectPCLXL, tags.DialectHPGL2, tags.DialectPJL, tags.DialectPrescribe}
	for i := 0; i < 200; i++ {
		data := make([]byte, rng.Intn(512))
		rng.Read(data)
		for _, start := range starts {
			res, err := ParseBytes(context.Background(), data, Options{Start: start, IncludeText: true, IncludeWhitespace: true})
			if err != nil {
				t.Fatalf("iteration %d start %s: %v", i, start, err)
			}
			covered := int64(0)
			for _, r := range res.Rows {
				if end := r.Offset + int64(r.Length); end > covered && r.Dialect != tags.DialectPML {
					covered = end
				}
			}
			if covered > int64(len(data)) {
				t.Fatalf("row past end of data: %d > %d", covered, len(data))
			}
		}
	}
}

func TestSniff(t *testing.T) {
	cases := []struct {
		data string
		want tags.Dialect
	}{
		{"\x1b%-12345X@PJL", tags.DialectPJL},
		{"\r\n@pjl job", tags.DialectPJL},
		{") HP-PCL XL;2;0", tags.DialectPCLXL},
		{"!R! RES;", tags.DialectPrescribe},
		{"IN;SP1;", tags.DialectHPGL2},
		{"\x1bE", tags.DialectPCL},
		{"plain text", tags.DialectPCL},
		{"", tags.DialectPCL},
	}
	for _, tc := range cases {
		if got := Sniff([]byte(tc.data)); got != tc.want {
			t.Errorf("Sniff(%q) = %s, want %s", tc.data, got, tc.want)
		}
	}
}

func TestRowHelpers(t *testing.T) {
	r := Row{Offset: 255, Raw: []byte{0x1b, 0x45, 0x00}}
	if r.OffsetString() != "000000FF" {
		t.Errorf("OffsetString = %q", r.OffsetString())
	}
	if r.Hex(0) != "1b4500" || r.Hex(2) != "1b45..." {
		t.Errorf("Hex = %q / %q", r.Hex(0), r.Hex(2))
	}
}

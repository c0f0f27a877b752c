package catalog

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/tturner/pclscope/internal/pstream/classify"
	"github.com/tturner/pclscope/internal/pstream/rowtype"
	"github.com/tturner/pclscope/internal/pstream/tags"
)

func TestLoadVendorCatalog(t *testing.T) {
	path := findVendorCatalogPath(t)

	file, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if file.Version != 1 {
		t.Errorf("expected version 1, got %d", file.Version)
	}
	if file.Name != "vendor" {
		t.Errorf("expected name 'vendor', got %q", file.Name)
	}
	if len(file.Entries) == 0 {
		t.Fatal("expected entries, got none")
	}

	e := file.Entries[0]
	if e.Dialect != tags.DialectPCL || e.Kind != tags.KindComplexSeq {
		t.Errorf("expected PCL complex_seq, got %s %s", e.Dialect, e.Kind)
	}
	if e.Param != '*' || e.Group != 'o' || e.Terminator != 'W' {
		t.Errorf("expected *oW, got %c%c%c", e.Param, e.Group, e.Terminator)
	}
	if !e.Flags.Has(tags.FlagBinaryData) {
		t.Errorf("expected binary_data flag, got %v", e.Flags.Names())
	}

	var sub *Entry
	for _, entry := range file.Entries {
		if entry.Kind == tags.KindControlCode {
			sub = entry
		}
	}
	if sub == nil || sub.Code != 0x1A {
		t.Fatalf("expected control code 0x1A entry, got %+v", sub)
	}
}

func TestCatalogValidation(t *testing.T) {
	path := findVendorCatalogPath(t)

	file, err := LoadAndValidate(path)
	if err != nil {
		t.Fatalf("LoadAndValidate failed: %v", err)
	}

	result := Check(file, tags.Default())
	if !result.IsValid() {
		t.Errorf("unexpected errors: %v", result.Errors)
	}
	found := false
	for _, w := range result.Warnings {
		if w.Key == "<Esc>*o#Q" && strings.Contains(w.Message, "replaces built-in") {
			found = true
		}
	}
	if !found {
		t.Errorf("expected override warning for <Esc>*o#Q, got %v", result.Warnings)
	}
}

func TestValidateErrors(t *testing.T) {
	valid := func() *Entry {
		return &Entry{
			Dialect:    tags.DialectPCL,
			Kind:       tags.KindComplexSeq,
			Param:      '&',
			Group:      'x',
			Terminator: 'Q',
			Mnemonic:   "Thing",
		}
	}

	tests := []struct {
		name    string
		file    File
		wantErr string
	}{
		{"ok", File{Version: 1, Entries: []*Entry{valid()}}, ""},
		{"version", File{Version: 2}, "unsupported catalog version"},
		{"missing dialect", File{Version: 1, Entries: []*Entry{{Kind: tags.KindPJLCommand, Name: "X", Mnemonic: "X"}}}, "missing dialect"},
		{"kind mismatch", File{Version: 1, Entries: []*Entry{{Dialect: tags.DialectPJL, Kind: tags.KindHPGL2Command, Name: "XX", Mnemonic: "XX"}}}, "does not belong"},
		{"missing mnemonic", File{Version: 1, Entries: []*Entry{func() *Entry { e := valid(); e.Mnemonic = ""; return e }()}}, "missing mnemonic"},
		{"bad param", File{Version: 1, Entries: []*Entry{func() *Entry { e := valid(); e.Param = 'A'; return e }()}}, "param 0x41"},
		{"bad terminator", File{Version: 1, Entries: []*Entry{func() *Entry { e := valid(); e.Terminator = '1'; return e }()}}, "terminator 0x31"},
		{"missing name", File{Version: 1, Entries: []*Entry{{Dialect: tags.DialectPJL, Kind: tags.KindPJLCommand, Mnemonic: "X"}}}, "missing name"},
		{"duplicate", File{Version: 1, Entries: []*Entry{
			{Dialect: tags.DialectPJL, Kind: tags.KindPJLCommand, Name: "lparm", Mnemonic: "a"},
			{Dialect: tags.DialectPJL, Kind: tags.KindPJLCommand, Name: "LPARM", Mnemonic: "b"},
		}}, "entries[1]: duplicate key"},
		{"lower-case terminator duplicate", File{Version: 1, Entries: []*Entry{
			valid(),
			func() *Entry { e := valid(); e.Terminator = 'q'; return e }(),
		}}, "duplicate key"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.file.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("expected error containing %q, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestCheckFlagErrors(t *testing.T) {
	file := &File{Version: 1, Entries: []*Entry{
		{Dialect: tags.DialectPJL, Kind: tags.KindPJLCommand, Name: "BLOB", Mnemonic: "BLOB", Flags: tags.FlagBinaryData},
		{Dialect: tags.DialectPrescribe, Kind: tags.KindPrescribeCommand, Name: "LBL", Mnemonic: "LBL", Description: "x", Flags: tags.FlagLabel},
	}}
	result := Check(file, nil)
	if len(result.Errors) != 2 {
		t.Fatalf("expected 2 errors, got %v", result.Errors)
	}
	if result.Errors[0].Field != "flags" {
		t.Errorf("expected flags field, got %q", result.Errors[0].Field)
	}
}

func TestSaveAndLoad(t *testing.T) {
	file := &File{
		Version: 1,
		Name:    "roundtrip",
		Entries: []*Entry{
			{Dialect: tags.DialectPCL, Kind: tags.KindComplexSeq, Param: '*', Group: 'o', Terminator: tags.AnyTerminator,
				Mnemonic: "Any", Description: "Any terminator", Action: tags.ActionFontSelect},
			{Dialect: tags.DialectPCL, Kind: tags.KindControlCode, Code: 0x1C, Mnemonic: "FS", Flags: tags.FlagObsolete},
			{Dialect: tags.DialectPCLXL, Kind: tags.KindXLAttribute, Code: 0xE0, Mnemonic: "VendorAttr",
				Values: map[int64]string{0: "Off", 1: "On"}},
		},
	}

	path := filepath.Join(t.TempDir(), "rt.yaml")
	if err := Save(path, file); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read saved file: %v", err)
	}
	if !strings.Contains(string(data), "0x1C") {
		t.Errorf("expected hex control code in YAML:\n%s", data)
	}

	loaded, err := LoadAndValidate(path)
	if err != nil {
		t.Fatalf("LoadAndValidate failed: %v", err)
	}
	if len(loaded.Entries) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(loaded.Entries))
	}
	if got := loaded.Entries[0]; got.Terminator != tags.AnyTerminator || got.Action != tags.ActionFontSelect {
		t.Errorf("entry 0 = %+v", got)
	}
	if got := loaded.Entries[1]; got.Code != 0x1C || !got.Flags.Has(tags.FlagObsolete) {
		t.Errorf("entry 1 = %+v", got)
	}
	if got := loaded.Entries[2]; got.Values[1] != "On" {
		t.Errorf("entry 2 values = %v", got.Values)
	}
}

func TestParseByte(t *testing.T) {
	tests := []struct {
		in      string
		want    byte
		wantErr bool
	}{
		{"", 0, false},
		{"0x1B", 0x1B, false},
		{"0Xff", 0xFF, false},
		{"&", '&', false},
		{"7", '7', false},
		{"27", 27, false},
		{"0x100", 0, true},
		{"abc", 0, true},
	}
	for _, tt := range tests {
		got, err := parseByte(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("parseByte(%q) error = %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("parseByte(%q) = 0x%02X, want 0x%02X", tt.in, got, tt.want)
		}
	}
}

func TestOverlayClassifies(t *testing.T) {
	path := findVendorCatalogPath(t)

	dict, err := Overlay(nil, path)
	if err != nil {
		t.Fatalf("Overlay failed: %v", err)
	}
	if dict.Len() <= tags.Default().Len() {
		t.Errorf("overlay did not add entries: %d <= %d", dict.Len(), tags.Default().Len())
	}
	if d, ok := dict.LookupPJL("jobattr"); !ok || d.Description != "Job attribute" {
		t.Errorf("LookupPJL(jobattr) = %v, %v", d, ok)
	}

	opts := classify.DefaultOptions()
	opts.Start = tags.DialectPCL
	opts.Dictionary = dict
	res, err := classify.ParseBytes(context.Background(), []byte("\x1b*o3Wabc\x1b*o-1Q"), opts)
	if err != nil {
		t.Fatalf("ParseBytes failed: %v", err)
	}
	if res.Errors != 0 {
		t.Fatalf("unexpected error rows: %+v", res.Rows)
	}
	if res.Count(rowtype.PCLBinaryData) != 1 {
		t.Errorf("expected one binary data row, got %+v", res.Rows)
	}
	last := res.Rows[len(res.Rows)-1]
	if last.Description != "Print quality mode: EconoMode draft" {
		t.Errorf("last row description = %q", last.Description)
	}

	if _, err := Overlay(nil, filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for missing catalog")
	}
}

func TestFind(t *testing.T) {
	_, filename, _, ok := runtime.Caller(0)
	if !ok {
		t.Fatal("failed to get caller info")
	}
	path, err := Find(filepath.Dir(filename), "vendor.yaml")
	if err != nil {
		t.Fatalf("Find failed: %v", err)
	}
	if filepath.Base(filepath.Dir(path)) != "catalogs" {
		t.Errorf("expected path under catalogs/, got %s", path)
	}
	if _, err := Find(t.TempDir(), "nope.yaml"); err == nil {
		t.Error("expected error for missing catalog")
	}
}

func findVendorCatalogPath(t *testing.T) string {
	t.Helper()

	_, filename, _, ok := runtime.Caller(0)
	if !ok {
		t.Fatal("failed to get caller info")
	}

	dir := filepath.Dir(filename)
	for i := 0; i < 5; i++ {
		candidate := filepath.Join(dir, "catalogs", "vendor.yaml")
		if _, err := os.Stat(candidate); err == nil {
			return candidate
		}
		dir = filepath.Dir(dir)
	}

	t.Fatal("vendor.yaml not found")
	return ""
}

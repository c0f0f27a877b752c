package config

import (
	stderrors "errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/tturner/pclscope/internal/errors"
	"github.com/tturner/pclscope/internal/logging"
	"github.com/tturner/pclscope/internal/pstream/tags"
)

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return CreateDefaultConfig()
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"defaults", func(*Config) {}, ""},
		{"bad dialect", func(c *Config) { c.Analysis.StartDialect = "postscript" }, "analysis.start_dialect"},
		{"pml start", func(c *Config) { c.Analysis.StartDialect = "pml" }, "only decoded inside PJL"},
		{"negative rows", func(c *Config) { c.Analysis.MaxRows = -1 }, "analysis.max_rows"},
		{"unknown symbol set", func(c *Config) { c.Analysis.SymbolSet = "99Q" }, "analysis.symbol_set"},
		{"empty catalog", func(c *Config) { c.Analysis.Catalogs = []string{" "} }, "analysis.catalogs[0]"},
		{"bad format", func(c *Config) { c.Output.Format = "xml" }, "output.format"},
		{"bad hex width", func(c *Config) { c.Output.HexWidth = 100 }, "output.hex_width"},
		{"bad log level", func(c *Config) { c.Logging.Level = "loud" }, "logging.level"},
		{"bad log format", func(c *Config) { c.Logging.Format = "xml" }, "logging.format"},
		{"printer without name", func(c *Config) { c.Printers[0].Name = "" }, "printers[0]: name is required"},
		{"printer without address", func(c *Config) { c.Printers[0].Address = "" }, "printers[0]: address is required"},
		{"tcp without port", func(c *Config) { c.Printers[0].Address = "10.0.0.1" }, "printers[0]: invalid address"},
		{"unknown driver", func(c *Config) { c.Printers[0].Driver = "lpd" }, "driver must be"},
		{"serial without baud", func(c *Config) {
			c.Printers = append(c.Printers, PrinterConfig{Name: "tty", Driver: DriverSerial, Address: "/dev/ttyS0"})
		}, "printers[1]: baud_rate"},
		{"bad usb id", func(c *Config) {
			c.Printers = append(c.Printers, PrinterConfig{Name: "usb", Driver: DriverUSB, Address: "hp-laserjet"})
		}, "printers[1]: usb address"},
		{"duplicate printer", func(c *Config) { c.Printers = append(c.Printers, c.Printers[0]) }, "duplicate name"},
		{"bad snmp version", func(c *Config) { c.SNMP.Version = "3" }, "snmp.version"},
		{"bad snmp port", func(c *Config) { c.SNMP.Port = 70000 }, "snmp.port"},
		{"bad capture port", func(c *Config) { c.Capture.Ports = []int{9100, 0} }, "capture.ports[1]"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			err := Validate(cfg)
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("Validate() error = %v, want containing %q", err, tt.wantErr)
			}
		})
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pclscope.yaml")
	content := `
analysis:
  start_dialect: pclxl
  include_text: false
  max_rows: 5000
  symbol_set: 0N
  catalogs: [catalogs/vendor.yaml]
output:
  format: json
printers:
  - name: office
    address: printer.local
  - name: plotter
    driver: serial
    address: /dev/ttyUSB0
  - name: desk
    driver: usb
    address: 03f0:2b17
    confirm: false
snmp:
  community: private
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := Load(path, false)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Analysis.Dialect() != tags.DialectPCLXL {
		t.Errorf("dialect = %v, want PCLXL", cfg.Analysis.Dialect())
	}
	if *cfg.Analysis.IncludeText {
		t.Error("include_text should be false")
	}
	if cfg.Analysis.MaxRows != 5000 || cfg.Analysis.SymbolSet != "0N" {
		t.Errorf("analysis = %+v", cfg.Analysis)
	}
	if cfg.Output.Format != "json" || !*cfg.Output.Color || cfg.Output.HexWidth != 16 {
		t.Errorf("output = %+v", cfg.Output)
	}

	office, ok := cfg.Printer("office")
	if !ok {
		t.Fatal("office printer missing")
	}
	if office.Driver != DriverTCP || office.Address != "printer.local:9100" || office.TimeoutMs != 5000 {
		t.Errorf("office = %+v", office)
	}
	plotter, _ := cfg.Printer("plotter")
	if plotter.BaudRate != 9600 {
		t.Errorf("plotter baud = %d, want 9600", plotter.BaudRate)
	}
	desk, _ := cfg.Printer("desk")
	if *desk.Confirm {
		t.Error("desk confirm should be false")
	}
	if _, ok := cfg.Printer("missing"); ok {
		t.Error("unexpected printer")
	}

	if cfg.SNMP.Community != "private" || cfg.SNMP.Version != "2c" || cfg.SNMP.Port != 161 {
		t.Errorf("snmp = %+v", cfg.SNMP)
	}
	if len(cfg.Capture.Ports) != 2 || cfg.Capture.Ports[0] != 9100 {
		t.Errorf("capture ports = %v", cfg.Capture.Ports)
	}
	if cfg.Logging.LogLevel() != logging.LogLevelInfo {
		t.Errorf("log level = %v", cfg.Logging.LogLevel())
	}
}

func TestLoadMissing(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing.yaml")

	_, err := Load(path, false)
	if err == nil {
		t.Fatal("expected error for missing file")
	}
	var ufe errors.UserFriendlyError
	if !stderrors.As(err, &ufe) {
		t.Fatalf("expected UserFriendlyError, got %T", err)
	}
	if !strings.Contains(ufe.Message, "missing.yaml") {
		t.Errorf("message = %q", ufe.Message)
	}
}

func TestLoadAutoCreate(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pclscope.yaml")

	cfg, err := Load(path, true)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("default config not written: %v", err)
	}
	if len(cfg.Printers) != 1 || cfg.Printers[0].Name != "lab" {
		t.Errorf("printers = %+v", cfg.Printers)
	}

	again, err := Load(path, false)
	if err != nil {
		t.Fatalf("reload failed: %v", err)
	}
	if again.Printers[0].Address != cfg.Printers[0].Address {
		t.Errorf("reloaded address %q != %q", again.Printers[0].Address, cfg.Printers[0].Address)
	}
}

func TestLoadInvalid(t *testing.T) {
	dir := t.TempDir()

	bad := filepath.Join(dir, "bad.yaml")
	if err := os.WriteFile(bad, []byte("analysis: [\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(bad, false); err == nil || !strings.Contains(err.Error(), "parse YAML") {
		t.Errorf("expected parse error, got %v", err)
	}

	invalid := filepath.Join(dir, "invalid.yaml")
	if err := os.WriteFile(invalid, []byte("output:\n  format: pdf\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(invalid, false); err == nil || !strings.Contains(err.Error(), "output.format") {
		t.Errorf("expected validation error, got %v", err)
	}
}

func TestLoadOrDefault(t *testing.T) {
	cfg, err := LoadOrDefault(filepath.Join(t.TempDir(), "none.yaml"))
	if err != nil {
		t.Fatalf("LoadOrDefault failed: %v", err)
	}
	if cfg.Output.Format != "text" {
		t.Errorf("format = %q", cfg.Output.Format)
	}
}

func TestParseUSBID(t *testing.T) {
	vid, pid, err := ParseUSBID("03f0:2B17")
	if err != nil || vid != 0x03F0 || pid != 0x2B17 {
		t.Errorf("ParseUSBID = %04x:%04x, %v", vid, pid, err)
	}
	if _, _, err := ParseUSBID("0x03f0:0x0517"); err != nil {
		t.Errorf("0x prefix should be accepted: %v", err)
	}
	for _, bad := range []string{"03f0", "zz:01", "03f0:12345"} {
		if _, _, err := ParseUSBID(bad); err == nil {
			t.Errorf("ParseUSBID(%q) should fail", bad)
		}
	}
}

func TestWithDefaultPort(t *testing.T) {
	tests := map[string]string{
		"10.0.0.1":       "10.0.0.1:9100",
		"10.0.0.1:515":   "10.0.0.1:515",
		"printer.local":  "printer.local:9100",
		"[fe80::1]:9100": "[fe80::1]:9100",
		"fe80::1":        "[fe80::1]:9100",
	}
	for in, want := range tests {
		if got := WithDefaultPort(in, 9100); got != want {
			t.Errorf("WithDefaultPort(%q) = %q, want %q", in, got, want)
		}
	}
}

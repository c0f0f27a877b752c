package config

// Configuration loading and validation for pclscope

import (
	"fmt"
	"net"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/tturner/pclscope/internal/errors"
	"github.com/tturner/pclscope/internal/logging"
	"github.com/tturner/pclscope/internal/pstream/symsets"
	"github.com/tturner/pclscope/internal/pstream/tags"
)

// DefaultPath is the configuration file looked up when --config is not given.
const DefaultPath = "pclscope.yaml"

// Printer drivers
const (
	DriverTCP    = "tcp"
	DriverSerial = "serial"
	DriverUSB    = "usb"
	DriverSSH    = "ssh"
)

// AnalysisConfig holds classifier defaults
type AnalysisConfig struct {
	StartDialect      string   `yaml:"start_dialect"` // "auto", "pcl", "pclxl", "hpgl2", "pjl", "prescribe"
	IncludeText       *bool    `yaml:"include_text,omitempty"`
	IncludeWhitespace bool     `yaml:"include_whitespace,omitempty"`
	MaxRows           int      `yaml:"max_rows,omitempty"` // 0 = unlimited
	SymbolSet         string   `yaml:"symbol_set"`         // power-on primary symbol set, e.g. "8U"
	Catalogs          []string `yaml:"catalogs,omitempty"` // YAML catalogs overlaid on the built-in dictionary
}

// OutputConfig controls report rendering
type OutputConfig struct {
	Format      string `yaml:"format"` // "text", "json" or "csv"
	Color       *bool  `yaml:"color,omitempty"`
	HexWidth    int    `yaml:"hex_width,omitempty"` // raw bytes shown per row in text output
	MetricsFile string `yaml:"metrics_file,omitempty"`
}

// LoggingConfig controls log verbosity and destination
type LoggingConfig struct {
	Level   string `yaml:"level,omitempty"`  // "silent","error","info","verbose","debug"
	Format  string `yaml:"format,omitempty"` // "text" or "json"
	LogFile string `yaml:"log_file,omitempty"`
}

// PrinterConfig names a printer reachable through one of the drivers
type PrinterConfig struct {
	Name      string `yaml:"name"`
	Driver    string `yaml:"driver"`  // "tcp", "serial", "usb" or "ssh"
	Address   string `yaml:"address"` // host[:port], device path, vid:pid, or [user@]host[:port][/queue]
	TimeoutMs int    `yaml:"timeout_ms,omitempty"`
	BaudRate  int    `yaml:"baud_rate,omitempty"` // serial only
	Confirm   *bool  `yaml:"confirm,omitempty"`   // ask before sending a job

	// ssh spool host only
	User            string `yaml:"user,omitempty"`
	KeyFile         string `yaml:"key_file,omitempty"`
	KnownHosts      string `yaml:"known_hosts,omitempty"`
	InsecureHostKey bool   `yaml:"insecure_host_key,omitempty"`
	Queue           string `yaml:"queue,omitempty"`
}

// SNMPConfig holds defaults for PML queries over SNMP
type SNMPConfig struct {
	Community string `yaml:"community"`
	Version   string `yaml:"version"` // "1" or "2c"
	Port      int    `yaml:"port"`
	TimeoutMs int    `yaml:"timeout_ms"`
	Retries   int    `yaml:"retries"`
}

// CaptureConfig controls print-data extraction from packet captures
type CaptureConfig struct {
	Ports []int `yaml:"ports"`
}

// Config represents the pclscope configuration file
type Config struct {
	Analysis AnalysisConfig  `yaml:"analysis"`
	Output   OutputConfig    `yaml:"output"`
	Logging  LoggingConfig   `yaml:"logging,omitempty"`
	Printers []PrinterConfig `yaml:"printers,omitempty"`
	SNMP     SNMPConfig      `yaml:"snmp"`
	Capture  CaptureConfig   `yaml:"capture"`
}

// CreateDefaultConfig creates a default configuration
func CreateDefaultConfig() *Config {
	cfg := &Config{
		Printers: []PrinterConfig{
			{
				Name:    "lab",
				Driver:  DriverTCP,
				Address: "192.168.1.50:9100",
			},
		},
	}
	applyDefaults(cfg)
	return cfg
}

// WriteDefaultConfig writes a default configuration to a file
func WriteDefaultConfig(path string) error {
	cfg := CreateDefaultConfig()
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal default config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write config file: %w", err)
	}
	return nil
}

// Load loads a configuration from a YAML file
// If the file doesn't exist and autoCreate is true, it will create a default config file
func Load(path string, autoCreate bool) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			if autoCreate {
				if err := WriteDefaultConfig(path); err != nil {
					return nil, fmt.Errorf("create default config: %w", err)
				}
				data, err = os.ReadFile(path)
				if err != nil {
					return nil, errors.WrapConfigError(
						fmt.Errorf("read created config file: %w", err),
						path,
					)
				}
			} else {
				return nil, errors.WrapConfigError(
					fmt.Errorf("config file not found: %s", path),
					path,
				)
			}
		} else {
			return nil, errors.WrapConfigError(
				fmt.Errorf("read config file: %w", err),
				path,
			)
		}
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, errors.WrapConfigError(fmt.Errorf("parse YAML: %w", err), path)
	}

	applyDefaults(&cfg)

	if err := Validate(&cfg); err != nil {
		return nil, errors.WrapConfigError(fmt.Errorf("validate config: %w", err), path)
	}

	return &cfg, nil
}

// LoadOrDefault loads path when it exists and otherwise returns defaults
// without touching the filesystem.
func LoadOrDefault(path string) (*Config, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return CreateDefaultConfig(), nil
	}
	return Load(path, false)
}

func applyDefaults(cfg *Config) {
	if cfg.Analysis.StartDialect == "" {
		cfg.Analysis.StartDialect = "auto"
	}
	cfg.Analysis.IncludeText = boolPtrDefault(cfg.Analysis.IncludeText, true)
	if cfg.Analysis.SymbolSet == "" {
		cfg.Analysis.SymbolSet = "8U"
	}

	if cfg.Output.Format == "" {
		cfg.Output.Format = "text"
	}
	cfg.Output.Color = boolPtrDefault(cfg.Output.Color, true)
	if cfg.Output.HexWidth == 0 {
		cfg.Output.HexWidth = 16
	}

	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "text"
	}

	for i := range cfg.Printers {
		p := &cfg.Printers[i]
		if p.Driver == "" {
			p.Driver = DriverTCP
		}
		if p.TimeoutMs == 0 {
			p.TimeoutMs = 5000
		}
		if p.Driver == DriverSerial && p.BaudRate == 0 {
			p.BaudRate = 9600
		}
		if p.Driver == DriverTCP && p.Address != "" {
			p.Address = WithDefaultPort(p.Address, 9100)
		}
		p.Confirm = boolPtrDefault(p.Confirm, true)
	}

	if cfg.SNMP.Community == "" {
		cfg.SNMP.Community = "public"
	}
	if cfg.SNMP.Version == "" {
		cfg.SNMP.Version = "2c"
	}
	if cfg.SNMP.Port == 0 {
		cfg.SNMP.Port = 161
	}
	if cfg.SNMP.TimeoutMs == 0 {
		cfg.SNMP.TimeoutMs = 2000
	}

	if len(cfg.Capture.Ports) == 0 {
		cfg.Capture.Ports = []int{9100, 515}
	}
}

func boolPtrDefault(value *bool, def bool) *bool {
	if value != nil {
		return value
	}
	v := def
	return &v
}

// WithDefaultPort appends port to a host that has none.
func WithDefaultPort(address string, port int) string {
	if _, _, err := net.SplitHostPort(address); err == nil {
		return address
	}
	return net.JoinHostPort(strings.Trim(address, "[]"), strconv.Itoa(port))
}

// Validate validates a configuration
func Validate(cfg *Config) error {
	if _, err := tags.ParseDialect(cfg.Analysis.StartDialect); err != nil {
		return fmt.Errorf("analysis.start_dialect: %w", err)
	}
	if d, _ := tags.ParseDialect(cfg.Analysis.StartDialect); d == tags.DialectPML {
		return fmt.Errorf("analysis.start_dialect: PML is only decoded inside PJL")
	}
	if cfg.Analysis.MaxRows < 0 {
		return fmt.Errorf("analysis.max_rows must be >= 0")
	}
	if _, ok := symsets.ByID(cfg.Analysis.SymbolSet); !ok {
		return fmt.Errorf("analysis.symbol_set: unknown symbol set %q", cfg.Analysis.SymbolSet)
	}
	for i, c := range cfg.Analysis.Catalogs {
		if strings.TrimSpace(c) == "" {
			return fmt.Errorf("analysis.catalogs[%d]: path is empty", i)
		}
	}

	switch cfg.Output.Format {
	case "text", "json", "csv":
	default:
		return fmt.Errorf("output.format must be 'text', 'json' or 'csv', got %q", cfg.Output.Format)
	}
	if cfg.Output.HexWidth < 0 || cfg.Output.HexWidth > 64 {
		return fmt.Errorf("output.hex_width must be between 0 and 64")
	}

	if _, err := logging.ParseLevel(cfg.Logging.Level); err != nil {
		return fmt.Errorf("logging.level: %w", err)
	}
	if cfg.Logging.Format != "text" && cfg.Logging.Format != "json" {
		return fmt.Errorf("logging.format must be 'text' or 'json', got %q", cfg.Logging.Format)
	}

	names := make(map[string]int)
	for i, p := range cfg.Printers {
		if err := validatePrinter(p, i); err != nil {
			return err
		}
		if prev, ok := names[p.Name]; ok {
			return fmt.Errorf("printers[%d]: duplicate name %q (first at printers[%d])", i, p.Name, prev)
		}
		names[p.Name] = i
	}

	if cfg.SNMP.Version != "1" && cfg.SNMP.Version != "2c" {
		return fmt.Errorf("snmp.version must be '1' or '2c', got %q", cfg.SNMP.Version)
	}
	if cfg.SNMP.Port <= 0 || cfg.SNMP.Port > 65535 {
		return fmt.Errorf("snmp.port must be between 1 and 65535")
	}
	if cfg.SNMP.TimeoutMs < 0 || cfg.SNMP.Retries < 0 {
		return fmt.Errorf("snmp.timeout_ms and snmp.retries must be >= 0")
	}

	for i, port := range cfg.Capture.Ports {
		if port <= 0 || port > 65535 {
			return fmt.Errorf("capture.ports[%d]: %d is not a valid TCP port", i, port)
		}
	}

	return nil
}

// validatePrinter validates a single printer entry
func validatePrinter(p PrinterConfig, index int) error {
	if p.Name == "" {
		return fmt.Errorf("printers[%d]: name is required", index)
	}
	if p.Address == "" {
		return fmt.Errorf("printers[%d]: address is required", index)
	}
	if p.TimeoutMs < 0 {
		return fmt.Errorf("printers[%d]: timeout_ms must be >= 0", index)
	}

	switch p.Driver {
	case DriverTCP:
		if _, _, err := net.SplitHostPort(p.Address); err != nil {
			return fmt.Errorf("printers[%d]: invalid address %q: %w", index, p.Address, err)
		}
	case DriverSerial:
		if p.BaudRate <= 0 {
			return fmt.Errorf("printers[%d]: baud_rate must be > 0", index)
		}
	case DriverUSB:
		if _, _, err := ParseUSBID(p.Address); err != nil {
			return fmt.Errorf("printers[%d]: %w", index, err)
		}
	case DriverSSH:
		if strings.ContainsAny(p.Address, " \t") {
			return fmt.Errorf("printers[%d]: invalid ssh address %q", index, p.Address)
		}
	default:
		return fmt.Errorf("printers[%d]: driver must be 'tcp', 'serial', 'usb' or 'ssh', got %q", index, p.Driver)
	}

	return nil
}

// ParseUSBID parses a "vid:pid" pair of hex ids such as "03f0:2b17".
func ParseUSBID(s string) (uint16, uint16, error) {
	vid, pid, ok := strings.Cut(s, ":")
	if !ok {
		return 0, 0, fmt.Errorf("usb address %q must be vid:pid", s)
	}
	v, err := strconv.ParseUint(strings.TrimPrefix(vid, "0x"), 16, 16)
	if err != nil {
		return 0, 0, fmt.Errorf("usb vendor id %q: %w", vid, err)
	}
	p, err := strconv.ParseUint(strings.TrimPrefix(pid, "0x"), 16, 16)
	if err != nil {
		return 0, 0, fmt.Errorf("usb product id %q: %w", pid, err)
	}
	return uint16(v), uint16(p), nil
}

// Printer returns the printer entry with the given name.
func (c *Config) Printer(name string) (*PrinterConfig, bool) {
	for i := range c.Printers {
		if c.Printers[i].Name == name {
			return &c.Printers[i], true
		}
	}
	return nil, false
}

// Dialect returns the configured start dialect; "auto" is DialectUnknown.
func (a AnalysisConfig) Dialect() tags.Dialect {
	d, _ := tags.ParseDialect(a.StartDialect)
	return d
}

// LogLevel returns the configured log level.
func (l LoggingConfig) LogLevel() logging.LogLevel {
	level, _ := logging.ParseLevel(l.Level)
	return level
}

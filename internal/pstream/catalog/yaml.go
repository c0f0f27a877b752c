package catalog

import (
	"fmt"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/tturner/pclscope/internal/pstream/tags"
)

// entryYAML is the YAML representation with string byte values.
type entryYAML struct {
	Dialect     string           `yaml:"dialect"`
	Kind        string           `yaml:"kind"`
	Code        string           `yaml:"code,omitempty"`
	Param       string           `yaml:"param,omitempty"`
	Group       string           `yaml:"group,omitempty"`
	Terminator  string           `yaml:"terminator,omitempty"`
	Name        string           `yaml:"name,omitempty"`
	Mnemonic    string           `yaml:"mnemonic"`
	Description string           `yaml:"description,omitempty"`
	Flags       []string         `yaml:"flags,omitempty"`
	Action      string           `yaml:"action,omitempty"`
	Values      map[int64]string `yaml:"values,omitempty"`
}

// UnmarshalYAML implements yaml.Unmarshaler for Entry.
func (e *Entry) UnmarshalYAML(value *yaml.Node) error {
	var raw entryYAML
	if err := value.Decode(&raw); err != nil {
		return err
	}

	dialect, err := tags.ParseDialect(raw.Dialect)
	if err != nil {
		return fmt.Errorf("dialect: %w", err)
	}
	var kind tags.Kind
	if raw.Kind != "" {
		if kind, err = tags.ParseKind(raw.Kind); err != nil {
			return fmt.Errorf("kind: %w", err)
		}
	}

	fields := []struct {
		name string
		src  string
	}{
		{"code", raw.Code},
		{"param", raw.Param},
		{"group", raw.Group},
		{"terminator", raw.Terminator},
	}
	var bytes [4]byte
	for i, f := range fields {
		v, err := parseByte(f.src)
		if err != nil {
			return fmt.Errorf("%s: %w", f.name, err)
		}
		bytes[i] = v
	}

	flags, err := tags.ParseFlags(raw.Flags)
	if err != nil {
		return fmt.Errorf("flags: %w", err)
	}
	action, err := tags.ParseAction(raw.Action)
	if err != nil {
		return fmt.Errorf("action: %w", err)
	}

	*e = Entry{
		Dialect:     dialect,
		Kind:        kind,
		Code:        bytes[0],
		Param:       bytes[1],
		Group:       bytes[2],
		Terminator:  bytes[3],
		Name:        raw.Name,
		Mnemonic:    raw.Mnemonic,
		Description: raw.Description,
		Flags:       flags,
		Action:      action,
		Values:      raw.Values,
	}

	return nil
}

// MarshalYAML implements yaml.Marshaler for Entry.
func (e Entry) MarshalYAML() (interface{}, error) {
	raw := entryYAML{
		Dialect:     e.Dialect.String(),
		Kind:        e.Kind.String(),
		Name:        e.Name,
		Mnemonic:    e.Mnemonic,
		Description: e.Description,
		Flags:       e.Flags.Names(),
		Values:      e.Values,
	}
	if e.Action != tags.ActionNone {
		raw.Action = e.Action.String()
	}
	switch {
	case e.Kind == tags.KindComplexSeq:
		raw.Param = formatByte(e.Param)
		if e.Group != 0 {
			raw.Group = formatByte(e.Group)
		}
		raw.Terminator = formatByte(e.Terminator)
	case !e.Kind.IsNamed():
		raw.Code = formatByte(e.Code)
	}
	return raw, nil
}

// parseByte accepts "0x1B" hex, a single character such as "&", or a
// decimal number of two or more digits.
func parseByte(s string) (byte, error) {
	if s == "" {
		return 0, nil
	}
	if strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X") {
		v, err := strconv.ParseUint(s[2:], 16, 8)
		if err != nil {
			return 0, fmt.Errorf("parse %q: %w", s, err)
		}
		return byte(v), nil
	}
	if len(s) == 1 {
		return s[0], nil
	}
	v, err := strconv.ParseUint(strings.TrimSpace(s), 10, 8)
	if err != nil {
		return 0, fmt.Errorf("parse %q: %w", s, err)
	}
	return byte(v), nil
}

func formatByte(b byte) string {
	if b > 0x20 && b < 0x7F {
		return string(rune(b))
	}
	return fmt.Sprintf("0x%02X", b)
}

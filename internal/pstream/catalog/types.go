// Package catalog loads YAML files of extra dictionary entries, such as
// vendor extensions or private escape sequences, and overlays them on the
// built-in tag dictionary.
package catalog

import (
	"fmt"
	"strings"

	"github.com/tturner/pclscope/internal/pstream/tags"
)

// Entry is one catalog descriptor. Byte-keyed kinds use Code (PCL complex
// sequences use Param, Group and Terminator instead); named kinds use Name.
type Entry struct {
	Dialect     tags.Dialect
	Kind        tags.Kind
	Code        byte
	Param       byte
	Group       byte
	Terminator  byte
	Name        string
	Mnemonic    string
	Description string
	Flags       tags.Flag
	Action      tags.Action
	Values      map[int64]string
}

// Key returns the dictionary key the entry occupies.
func (e *Entry) Key() tags.Key {
	k := tags.Key{Dialect: e.Dialect, Kind: e.Kind}
	switch {
	case e.Kind == tags.KindComplexSeq:
		k.A, k.B, k.C = e.Param, e.Group, upper(e.Terminator)
	case e.Kind.IsNamed():
		k.Name = strings.ToUpper(strings.TrimSpace(e.Name))
	default:
		k.A = e.Code
	}
	return k
}

// Descriptor converts the entry to a dictionary descriptor.
func (e *Entry) Descriptor() tags.Descriptor {
	return tags.Descriptor{
		Key:         e.Key(),
		Mnemonic:    e.Mnemonic,
		Description: e.Description,
		Flags:       e.Flags,
		Action:      e.Action,
		Values:      e.Values,
	}
}

func upper(b byte) byte {
	if b >= 'a' && b <= 'z' {
		return b - ('a' - 'A')
	}
	return b
}

// File represents a catalog YAML file.
type File struct {
	Version int      `yaml:"version"`
	Name    string   `yaml:"name"`
	Entries []*Entry `yaml:"entries"`
}

// Descriptors converts every entry.
func (f *File) Descriptors() []tags.Descriptor {
	out := make([]tags.Descriptor, 0, len(f.Entries))
	for _, e := range f.Entries {
		out = append(out, e.Descriptor())
	}
	return out
}

// Validate checks the catalog file for consistency.
func (f *File) Validate() error {
	if f.Version != 1 {
		return fmt.Errorf("unsupported catalog version: %d", f.Version)
	}

	keys := make(map[tags.Key]int)
	for i, e := range f.Entries {
		if e == nil {
			return fmt.Errorf("entries[%d]: empty entry", i)
		}
		if e.Dialect == tags.DialectUnknown {
			return fmt.Errorf("entries[%d]: missing dialect", i)
		}
		if e.Kind == tags.KindUnknown {
			return fmt.Errorf("entries[%d]: missing kind", i)
		}
		if e.Kind.Dialect() != e.Dialect {
			return fmt.Errorf("entries[%d]: kind %s does not belong to dialect %s", i, e.Kind, e.Dialect)
		}
		if e.Mnemonic == "" {
			return fmt.Errorf("entries[%d]: missing mnemonic", i)
		}
		if err := validateKey(e); err != nil {
			return fmt.Errorf("entries[%d]: %w", i, err)
		}

		k := e.Key()
		if prev, ok := keys[k]; ok {
			return fmt.Errorf("entries[%d]: duplicate key %s (first at entries[%d])", i, k, prev)
		}
		keys[k] = i
	}

	return nil
}

func validateKey(e *Entry) error {
	switch {
	case e.Kind == tags.KindComplexSeq:
		if e.Param < 0x21 || e.Param > 0x2F {
			return fmt.Errorf("param 0x%02X outside 0x21-0x2F", e.Param)
		}
		if e.Group != 0 && (e.Group < 0x60 || e.Group > 0x7E) {
			return fmt.Errorf("group 0x%02X outside 0x60-0x7E", e.Group)
		}
		t := upper(e.Terminator)
		if t != tags.AnyTerminator && (t < 0x40 || t > 0x5E) {
			return fmt.Errorf("terminator 0x%02X outside 0x40-0x5E", e.Terminator)
		}
	case e.Kind == tags.KindSimpleSeq:
		if e.Code < 0x30 || e.Code > 0x7E {
			return fmt.Errorf("code 0x%02X outside 0x30-0x7E", e.Code)
		}
	case e.Kind == tags.KindControlCode:
		if e.Code >= 0x20 && e.Code != 0x7F {
			return fmt.Errorf("code 0x%02X is not a control code", e.Code)
		}
	case e.Kind.IsNamed():
		if strings.TrimSpace(e.Name) == "" {
			return fmt.Errorf("missing name")
		}
	}
	return nil
}

// Package tags holds the static printer-language dictionaries: for every
// control code, escape sequence, operator, attribute and command the classifier
// recognises, a descriptor with its mnemonic, description and parse action.
package tags

import (
	"fmt"
	"strings"
)

// Dialect identifies a printer language.
type Dialect uint8

const (
	DialectUnknown Dialect = iota
	DialectPCL
	DialectPCLXL
	DialectHPGL2
	DialectPJL
	DialectPML
	DialectPrescribe
)

var dialectNames = map[Dialect]string{
	DialectUnknown:   "unknown",
	DialectPCL:       "PCL",
	DialectPCLXL:     "PCLXL",
	DialectHPGL2:     "HPGL2",
	DialectPJL:       "PJL",
	DialectPML:       "PML",
	DialectPrescribe: "Prescribe",
}

func (d Dialect) String() string {
	if name, ok := dialectNames[d]; ok {
		return name
	}
	return fmt.Sprintf("Dialect(%d)", uint8(d))
}

// Dialects returns the known dialects in display order.
func Dialects() []Dialect {
	return []Dialect{DialectPCL, DialectPCLXL, DialectHPGL2, DialectPJL, DialectPML, DialectPrescribe}
}

// ParseDialect resolves a dialect name. "auto" and "" yield DialectUnknown.
func ParseDialect(s string) (Dialect, error) {
	norm := strings.ToUpper(strings.NewReplacer("-", "", "/", "", " ", "", "_", "").Replace(strings.TrimSpace(s)))
	switch norm {
	case "", "AUTO":
		return DialectUnknown, nil
	case "PCL", "PCL5":
		return DialectPCL, nil
	case "PCLXL", "PCL6", "XL":
		return DialectPCLXL, nil
	case "HPGL2", "HPGL":
		return DialectHPGL2, nil
	case "PJL":
		return DialectPJL, nil
	case "PML":
		return DialectPML, nil
	case "PRESCRIBE":
		return DialectPrescribe, nil
	}
	return DialectUnknown, fmt.Errorf("unknown dialect %q", s)
}

// Kind is the descriptor family within a dialect.
type Kind uint8

const (
	KindUnknown Kind = iota
	KindControlCode
	KindSimpleSeq
	KindComplexSeq
	KindXLOperator
	KindXLAttribute
	KindXLDataType
	KindXLEmbed
	KindXLWhitespace
	KindHPGL2Command
	KindPJLCommand
	KindPMLAction
	KindPMLDataType
	KindPrescribeCommand
)

var kindNames = map[Kind]string{
	KindUnknown:          "unknown",
	KindControlCode:      "control_code",
	KindSimpleSeq:        "simple_seq",
	KindComplexSeq:       "complex_seq",
	KindXLOperator:       "xl_operator",
	KindXLAttribute:      "xl_attribute",
	KindXLDataType:       "xl_data_type",
	KindXLEmbed:          "xl_embed",
	KindXLWhitespace:     "xl_whitespace",
	KindHPGL2Command:     "hpgl2_command",
	KindPJLCommand:       "pjl_command",
	KindPMLAction:        "pml_action",
	KindPMLDataType:      "pml_data_type",
	KindPrescribeCommand: "prescribe_command",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("Kind(%d)", uint8(k))
}

// ParseKind resolves a kind from its catalog name.
func ParseKind(s string) (Kind, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for k, name := range kindNames {
		if name == s && k != KindUnknown {
			return k, nil
		}
	}
	return KindUnknown, fmt.Errorf("unknown kind %q", s)
}

// IsNamed reports whether descriptors of this kind are keyed by mnemonic
// rather than by byte values.
func (k Kind) IsNamed() bool {
	return k == KindHPGL2Command || k == KindPJLCommand || k == KindPrescribeCommand
}

// Key addresses a descriptor. Byte-keyed kinds use A/B/C (a PCL complex
// sequence is parameterised char, group char, upper-case terminator); named
// kinds use Name in upper case.
type Key struct {
	Dialect Dialect
	Kind    Kind
	A, B, C byte
	Name    string
}

// AnyTerminator in the C position matches every terminator of a
// parameterised sequence that has no specific entry.
const AnyTerminator = '#'

// String renders the key the way it appears in a stream.
func (k Key) String() string {
	switch k.Kind {
	case KindControlCode:
		return fmt.Sprintf("<%s>", controlMnemonic(k.A))
	case KindSimpleSeq:
		return fmt.Sprintf("<Esc>%c", k.A)
	case KindComplexSeq:
		var sb strings.Builder
		sb.WriteString("<Esc>")
		sb.WriteByte(k.A)
		if k.B != 0 {
			sb.WriteByte(k.B)
		}
		sb.WriteByte('#')
		if k.C != AnyTerminator {
			sb.WriteByte(k.C)
		}
		return sb.String()
	case KindXLAttribute:
		return fmt.Sprintf("0xF8%02X", k.A)
	case KindHPGL2Command, KindPrescribeCommand:
		return k.Name
	case KindPJLCommand:
		if k.Name == "" {
			return "@PJL"
		}
		return "@PJL " + k.Name
	}
	return fmt.Sprintf("0x%02X", k.A)
}

// Less orders keys by dialect, kind, bytes and name.
func (k Key) Less(o Key) bool {
	if k.Dialect != o.Dialect {
		return k.Dialect < o.Dialect
	}
	if k.Kind != o.Kind {
		return k.Kind < o.Kind
	}
	if k.A != o.A {
		return k.A < o.A
	}
	if k.B != o.B {
		return k.B < o.B
	}
	if k.C != o.C {
		return k.C < o.C
	}
	return k.Name < o.Name
}

// Flag carries per-descriptor parse hints.
type Flag uint16

const (
	// FlagBinaryData marks a sequence whose value counts the binary bytes
	// that follow it.
	FlagBinaryData Flag = 1 << iota
	FlagValueIsSymSet
	FlagObsolete
	FlagNonStandard
	FlagMacroControl
	// FlagLabel marks an HP-GL/2 command whose text runs to the label terminator.
	FlagLabel
	FlagTermSet
	FlagQuoted
)

// Has reports whether all bits in f2 are set.
func (f Flag) Has(f2 Flag) bool {
	return f&f2 == f2
}

// Action is what the classifier does after matching a descriptor.
type Action uint8

const (
	ActionNone Action = iota
	ActionReset
	ActionEnterHPGL2
	ActionEnterPCL
	ActionUEL
	ActionEnterLanguage
	ActionMacroControl
	ActionMacroID
	ActionSymSetSelect
	ActionFontSelect
	ActionPMLPayload
	ActionExitPrescribe
)

// Descriptor is one dictionary entry.
type Descriptor struct {
	Key         Key
	Mnemonic    string
	Description string
	Flags       Flag
	Action      Action
	// Values names enumerated parameter values.
	Values map[int64]string
}

// ValueName returns the name of an enumerated value, if known.
func (d *Descriptor) ValueName(v int64) (string, bool) {
	if d == nil || d.Values == nil {
		return "", false
	}
	name, ok := d.Values[v]
	return name, ok
}

// Display returns the form shown in listings: mnemonic when set, else the key.
func (d *Descriptor) Display() string {
	if d.Mnemonic != "" {
		return d.Mnemonic
	}
	return d.Key.String()
}

var controlNames = [...]string{
	"NUL", "SOH", "STX", "ETX", "EOT", "ENQ", "ACK", "BEL",
	"BS", "HT", "LF", "VT", "FF", "CR", "SO", "SI",
	"DLE", "DC1", "DC2", "DC3", "DC4", "NAK", "SYN", "ETB",
	"CAN", "EM", "SUB", "Esc", "FS", "GS", "RS", "US",
}

func controlMnemonic(b byte) string {
	if int(b) < len(controlNames) {
		return controlNames[b]
	}
	if b == 0x20 {
		return "SP"
	}
	if b == 0x7F {
		return "DEL"
	}
	return fmt.Sprintf("0x%02X", b)
}

// ControlMnemonic returns the ASCII mnemonic for a control byte, such as "FF".
func ControlMnemonic(b byte) string {
	return controlMnemonic(b)
}

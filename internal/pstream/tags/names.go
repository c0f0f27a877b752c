package tags

import (
	"fmt"
	"sort"
	"strings"
)

var flagNames = map[Flag]string{
	FlagBinaryData:    "binary_data",
	FlagValueIsSymSet: "value_is_symset",
	FlagObsolete:      "obsolete",
	FlagNonStandard:   "non_standard",
	FlagMacroControl:  "macro_control",
	FlagLabel:         "label",
	FlagTermSet:       "term_set",
	FlagQuoted:        "quoted",
}

// Names lists the catalog names of the set flags in bit order.
func (f Flag) Names() []string {
	var bits []Flag
	for bit := range flagNames {
		if f&bit != 0 {
			bits = append(bits, bit)
		}
	}
	sort.Slice(bits, func(i, j int) bool { return bits[i] < bits[j] })
	out := make([]string, len(bits))
	for i, bit := range bits {
		out[i] = flagNames[bit]
	}
	return out
}

// ParseFlags combines flag names into a Flag set.
func ParseFlags(names []string) (Flag, error) {
	var f Flag
	for _, name := range names {
		name = strings.ToLower(strings.TrimSpace(name))
		found := false
		for bit, n := range flagNames {
			if n == name {
				f |= bit
				found = true
				break
			}
		}
		if !found {
			return 0, fmt.Errorf("unknown flag %q", name)
		}
	}
	return f, nil
}

var actionNames = map[Action]string{
	ActionNone:          "none",
	ActionReset:         "reset",
	ActionEnterHPGL2:    "enter_hpgl2",
	ActionEnterPCL:      "enter_pcl",
	ActionUEL:           "uel",
	ActionEnterLanguage: "enter_language",
	ActionMacroControl:  "macro_control",
	ActionMacroID:       "macro_id",
	ActionSymSetSelect:  "symset_select",
	ActionFontSelect:    "font_select",
	ActionPMLPayload:    "pml_payload",
	ActionExitPrescribe: "exit_prescribe",
}

func (a Action) String() string {
	if name, ok := actionNames[a]; ok {
		return name
	}
	return fmt.Sprintf("Action(%d)", uint8(a))
}

// ParseAction resolves an action from its catalog name; "" is ActionNone.
func ParseAction(s string) (Action, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return ActionNone, nil
	}
	for a, name := range actionNames {
		if name == s {
			return a, nil
		}
	}
	return ActionNone, fmt.Errorf("unknown action %q", s)
}

var kindDialects = map[Kind]Dialect{
	KindControlCode:      DialectPCL,
	KindSimpleSeq:        DialectPCL,
	KindComplexSeq:       DialectPCL,
	KindXLOperator:       DialectPCLXL,
	KindXLAttribute:      DialectPCLXL,
	KindXLDataType:       DialectPCLXL,
	KindXLEmbed:          DialectPCLXL,
	KindXLWhitespace:     DialectPCLXL,
	KindHPGL2Command:     DialectHPGL2,
	KindPJLCommand:       DialectPJL,
	KindPMLAction:        DialectPML,
	KindPMLDataType:      DialectPML,
	KindPrescribeCommand: DialectPrescribe,
}

// Dialect returns the dialect descriptors of this kind belong to.
func (k Kind) Dialect() Dialect {
	return kindDialects[k]
}

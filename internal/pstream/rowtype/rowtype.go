// Package rowtype enumerates the kinds of rows produced when a print stream is
// classified, with the display colour used for each in the grid views.
package rowtype

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Type identifies the class of a classified row.
type Type int

const (
	Unknown Type = iota
	PCLControlCode
	PCLSimpleSeq
	PCLComplexSeq
	PCLBinaryData
	Text
	PCLXLStreamHeader
	PCLXLOperator
	PCLXLAttribute
	PCLXLDataType
	PCLXLEmbedData
	PCLXLWhitespace
	HPGL2Command
	HPGL2Label
	PJLCommand
	PMLSequence
	PrescribeCommand
	LanguageData
	MsgComment
	MsgWarning
	MsgError
)

// Level separates rows seen directly in the job from rows seen while a PCL
// macro is being defined.
type Level int

const (
	LevelParent Level = iota
	LevelMacro
)

func (l Level) String() string {
	if l == LevelMacro {
		return "macro"
	}
	return "parent"
}

type typeInfo struct {
	name  string
	color lipgloss.Color
}

var types = map[Type]typeInfo{
	Unknown:           {"Unknown", "#565f89"},
	PCLControlCode:    {"PCL control code", "#e0af68"},
	PCLSimpleSeq:      {"PCL simple sequence", "#7aa2f7"},
	PCLComplexSeq:     {"PCL complex sequence", "#7dcfff"},
	PCLBinaryData:     {"PCL binary data", "#414868"},
	Text:              {"Text", "#c0caf5"},
	PCLXLStreamHeader: {"PCL XL stream header", "#bb9af7"},
	PCLXLOperator:     {"PCL XL operator", "#9ece6a"},
	PCLXLAttribute:    {"PCL XL attribute", "#73daca"},
	PCLXLDataType:     {"PCL XL data type", "#2ac3de"},
	PCLXLEmbedData:    {"PCL XL embedded data", "#414868"},
	PCLXLWhitespace:   {"PCL XL whitespace", "#565f89"},
	HPGL2Command:      {"HP-GL/2 command", "#ff9e64"},
	HPGL2Label:        {"HP-GL/2 label", "#c0caf5"},
	PJLCommand:        {"PJL command", "#bb9af7"},
	PMLSequence:       {"PML sequence", "#9d7cd8"},
	PrescribeCommand:  {"Prescribe command", "#e0af68"},
	LanguageData:      {"Language data", "#414868"},
	MsgComment:        {"Comment", "#565f89"},
	MsgWarning:        {"Warning", "#e0af68"},
	MsgError:          {"Error", "#f7768e"},
}

// Name returns the display name of the row type.
func (t Type) Name() string {
	if info, ok := types[t]; ok {
		return info.name
	}
	return fmt.Sprintf("Type(%d)", int(t))
}

func (t Type) String() string {
	return t.Name()
}

// Color returns the grid colour for the row type.
func (t Type) Color() lipgloss.Color {
	if info, ok := types[t]; ok {
		return info.color
	}
	return types[Unknown].color
}

// IsMessage reports whether the row is a diagnostic rather than decoded data.
func (t Type) IsMessage() bool {
	return t == MsgComment || t == MsgWarning || t == MsgError
}

// All returns every row type in declaration order.
func All() []Type {
	out := make([]Type, 0, len(types))
	for t := Unknown; t <= MsgError; t++ {
		out = append(out, t)
	}
	return out
}

// Parse resolves a row type from its display name, ignoring case.
func Parse(name string) (Type, error) {
	name = strings.TrimSpace(name)
	for t, info := range types {
		if strings.EqualFold(info.name, name) {
			return t, nil
		}
	}
	return Unknown, fmt.Errorf("unknown row type %q", name)
}

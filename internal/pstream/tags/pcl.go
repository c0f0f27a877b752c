package tags

func ctl(b byte, desc string) Descriptor {
	return Descriptor{
		Key:         Key{Dialect: DialectPCL, Kind: KindControlCode, A: b},
		Mnemonic:    controlMnemonic(b),
		Description: desc,
	}
}

func simple(b byte, desc string, action Action) Descriptor {
	return Descriptor{
		Key:         Key{Dialect: DialectPCL, Kind: KindSimpleSeq, A: b},
		Mnemonic:    "<Esc>" + string(rune(b)),
		Description: desc,
		Action:      action,
	}
}

func seq(param, group, term byte, desc string) Descriptor {
	d := Descriptor{
		Key:         Key{Dialect: DialectPCL, Kind: KindComplexSeq, A: param, B: group, C: term},
		Description: desc,
	}
	d.Mnemonic = d.Key.String()
	return d
}

func (d Descriptor) with(flags Flag, action Action) Descriptor {
	d.Flags |= flags
	d.Action = action
	return d
}

func (d Descriptor) values(v map[int64]string) Descriptor {
	d.Values = v
	return d
}

func pclDescriptors() []Descriptor {
	return []Descriptor{
		ctl(0x00, "Null"),
		ctl(0x07, "Bell"),
		ctl(0x08, "Backspace"),
		ctl(0x09, "Horizontal tab"),
		ctl(0x0A, "Line feed"),
		ctl(0x0B, "Vertical tab"),
		ctl(0x0C, "Form feed"),
		ctl(0x0D, "Carriage return"),
		ctl(0x0E, "Shift out: select secondary font"),
		ctl(0x0F, "Shift in: select primary font"),
		ctl(0x1B, "Escape"),
		ctl(0x7F, "Delete"),

		simple('E', "Printer reset", ActionReset),
		simple('9', "Clear horizontal margins", ActionNone),
		simple('=', "Half line feed", ActionNone),
		simple('Y', "Display functions on", ActionNone),
		simple('Z', "Display functions off", ActionNone),
		simple('z', "Print self test", ActionNone),

		seq('%', 0, 'X', "Universal exit language / start of PJL").with(0, ActionUEL),
		seq('%', 0, 'A', "Enter PCL mode").with(0, ActionEnterPCL).values(map[int64]string{
			0: "Use previous PCL cursor position", 1: "Use current HP-GL/2 pen position"}),
		seq('%', 0, 'B', "Enter HP-GL/2 mode").with(0, ActionEnterHPGL2).values(map[int64]string{
			0: "Use previous HP-GL/2 pen position", 1: "Use current PCL cursor position",
			2: "Use previous pen position, HP-GL/2 stand-alone", 3: "Use current cursor position, HP-GL/2 stand-alone",
			-1: "Stand-alone plotter mode"}),

		// Job control.
		seq('&', 'l', 'X', "Number of copies"),
		seq('&', 'l', 'S', "Simplex/duplex print").values(map[int64]string{
			0: "Simplex", 1: "Duplex, long-edge binding", 2: "Duplex, short-edge binding"}),
		seq('&', 'l', 'U', "Left offset registration (decipoints)"),
		seq('&', 'l', 'Z', "Top offset registration (decipoints)"),
		seq('&', 'a', 'G', "Duplex page side selection").values(map[int64]string{
			0: "Next side", 1: "Front side", 2: "Back side"}),
		seq('&', 'l', 'T', "Job separation"),
		seq('&', 'l', 'G', "Output bin selection").values(map[int64]string{
			1: "Upper output bin", 2: "Lower output bin"}),
		seq('&', 'u', 'D', "Unit of measure (units per inch)"),

		// Page control.
		seq('&', 'l', 'A', "Page size").values(map[int64]string{
			1: "Executive", 2: "Letter", 3: "Legal", 6: "Ledger", 25: "A5", 26: "A4", 27: "A3",
			45: "JIS B5", 46: "JIS B4", 71: "Hagaki postcard", 72: "Oufuku-Hagaki postcard",
			80: "Monarch envelope", 81: "Commercial 10 envelope", 90: "International DL envelope",
			91: "International C5 envelope", 100: "International B5 envelope", 101: "Custom"}),
		seq('&', 'l', 'H', "Paper source").values(map[int64]string{
			0: "Eject page", 1: "Main tray", 2: "Manual feed", 3: "Manual envelope feed",
			4: "Alternate (lower) tray", 5: "Optional large paper source", 6: "Envelope feeder", 7: "Auto select",
			8: "Tray 1", 20: "High capacity input"}),
		seq('&', 'l', 'M', "Media type").values(map[int64]string{
			0: "Plain", 1: "Bond", 2: "Special", 3: "Glossy", 4: "Transparency"}),
		seq('&', 'l', 'O', "Logical page orientation").values(map[int64]string{
			0: "Portrait", 1: "Landscape", 2: "Reverse portrait", 3: "Reverse landscape"}),
		seq('&', 'a', 'P', "Print direction (degrees)"),
		seq('&', 'l', 'E', "Top margin (lines)"),
		seq('&', 'l', 'F', "Text length (lines)"),
		seq('&', 'a', 'L', "Left margin (columns)"),
		seq('&', 'a', 'M', "Right margin (columns)"),
		seq('&', 'l', 'L', "Perforation skip").values(map[int64]string{0: "Disable", 1: "Enable"}),
		seq('&', 'k', 'H', "Horizontal motion index (1/120 inch)"),
		seq('&', 'l', 'C', "Vertical motion index (1/48 inch)"),
		seq('&', 'l', 'D', "Line spacing (lines per inch)"),

		// Cursor positioning.
		seq('&', 'a', 'C', "Horizontal cursor position (columns)"),
		seq('&', 'a', 'H', "Horizontal cursor position (decipoints)"),
		seq('*', 'p', 'X', "Horizontal cursor position (PCL units)"),
		seq('&', 'a', 'R', "Vertical cursor position (rows)"),
		seq('&', 'a', 'V', "Vertical cursor position (decipoints)"),
		seq('*', 'p', 'Y', "Vertical cursor position (PCL units)"),
		seq('&', 'k', 'G', "Line termination").values(map[int64]string{
			0: "CR=CR, LF=LF, FF=FF", 1: "CR=CR+LF, LF=LF, FF=FF", 2: "CR=CR, LF=CR+LF, FF=CR+FF", 3: "CR=CR+LF, LF=CR+LF, FF=CR+FF"}),
		seq('&', 'f', 'S', "Push/pop cursor position").values(map[int64]string{0: "Push", 1: "Pop"}),
		seq('&', 's', 'C', "End-of-line wrap").values(map[int64]string{0: "Enable", 1: "Disable"}),
		seq('&', 'p', 'X', "Transparent print data").with(FlagBinaryData, ActionNone),

		// Font selection.
		seq('(', 0, AnyTerminator, "Primary symbol set").with(FlagValueIsSymSet, ActionSymSetSelect),
		seq(')', 0, AnyTerminator, "Secondary symbol set").with(FlagValueIsSymSet, ActionSymSetSelect),
		seq('(', 's', 'P', "Primary spacing").values(map[int64]string{0: "Fixed", 1: "Proportional"}),
		seq(')', 's', 'P', "Secondary spacing").values(map[int64]string{0: "Fixed", 1: "Proportional"}),
		seq('(', 's', 'H', "Primary pitch (characters per inch)"),
		seq(')', 's', 'H', "Secondary pitch (characters per inch)"),
		seq('&', 'k', 'S', "Pitch mode").values(map[int64]string{0: "10.0 cpi", 2: "16.5-16.7 cpi", 4: "12.0 cpi"}),
		seq('(', 's', 'V', "Primary height (points)"),
		seq(')', 's', 'V', "Secondary height (points)"),
		seq('(', 's', 'S', "Primary style").values(map[int64]string{
			0: "Upright, solid", 1: "Italic", 4: "Condensed", 5: "Condensed italic", 8: "Compressed", 24: "Expanded", 32: "Outline"}),
		seq(')', 's', 'S', "Secondary style"),
		seq('(', 's', 'B', "Primary stroke weight"),
		seq(')', 's', 'B', "Secondary stroke weight"),
		seq('(', 's', 'T', "Primary typeface family"),
		seq(')', 's', 'T', "Secondary typeface family"),
		seq('(', 0, 'X', "Primary font selection by ID").with(0, ActionFontSelect),
		seq(')', 0, 'X', "Secondary font selection by ID").with(0, ActionFontSelect),
		seq('(', 0, '@', "Primary font default").values(map[int64]string{3: "Default font"}),
		seq(')', 0, '@', "Secondary font default").values(map[int64]string{3: "Default font"}),
		seq('&', 'd', 'D', "Enable underline").values(map[int64]string{0: "Fixed", 3: "Floating"}),
		seq('&', 'd', '@', "Disable underline"),
		seq('&', 'p', 'C', "Palette control"),

		// Font management and soft fonts.
		seq('*', 'c', 'D', "Font ID"),
		seq('*', 'c', 'E', "Character code"),
		seq('*', 'c', 'F', "Font control").values(map[int64]string{
			0: "Delete all fonts", 1: "Delete all temporary fonts", 2: "Delete font ID",
			3: "Delete character code", 4: "Make font temporary", 5: "Make font permanent", 6: "Copy/assign current font"}),
		seq(')', 's', 'W', "Font header download").with(FlagBinaryData, ActionNone),
		seq('(', 's', 'W', "Character download").with(FlagBinaryData, ActionNone),
		seq('(', 'f', 'W', "Define symbol set").with(FlagBinaryData, ActionNone),
		seq('*', 'c', 'R', "Symbol set ID code"),
		seq('*', 'c', 'S', "Symbol set control"),

		// Macros.
		seq('&', 'f', 'Y', "Macro ID").with(0, ActionMacroID),
		seq('&', 'f', 'X', "Macro control").with(FlagMacroControl, ActionMacroControl).values(map[int64]string{
			0: "Start macro definition", 1: "Stop macro definition", 2: "Execute macro", 3: "Call macro",
			4: "Enable overlay", 5: "Disable overlay", 6: "Delete all macros", 7: "Delete temporary macros",
			8: "Delete macro ID", 9: "Make macro temporary", 10: "Make macro permanent"}),

		// Raster graphics.
		seq('*', 't', 'R', "Raster graphics resolution (dpi)"),
		seq('*', 'r', 'F', "Raster graphics presentation").values(map[int64]string{
			0: "Follow logical page orientation", 3: "Along physical page width"}),
		seq('*', 'r', 'S', "Source raster width (pixels)"),
		seq('*', 'r', 'T', "Source raster height (rows)"),
		seq('*', 'r', 'A', "Start raster graphics").values(map[int64]string{
			0: "At logical page left boundary", 1: "At current cursor position",
			2: "Scale mode, left boundary", 3: "Scale mode, current position"}),
		seq('*', 'b', 'M', "Set compression method").values(map[int64]string{
			0: "Unencoded", 1: "Run-length", 2: "TIFF", 3: "Delta row", 4: "Adaptive", 5: "Adaptive", 9: "Replacement delta row"}),
		seq('*', 'b', 'W', "Transfer raster data by row/block").with(FlagBinaryData, ActionNone),
		seq('*', 'b', 'V', "Transfer raster data by plane").with(FlagBinaryData, ActionNone),
		seq('*', 'b', 'Y', "Raster Y offset"),
		seq('*', 'r', 'B', "End raster graphics (obsolete form)").with(FlagObsolete, ActionNone),
		seq('*', 'r', 'C', "End raster graphics"),
		seq('*', 'g', 'W', "Configure raster data").with(FlagBinaryData, ActionNone),
		seq('*', 'v', 'W', "Configure image data").with(FlagBinaryData, ActionNone),
		seq('*', 'v', 'A', "Colour component one"),
		seq('*', 'v', 'B', "Colour component two"),
		seq('*', 'v', 'C', "Colour component three"),
		seq('*', 'v', 'I', "Assign colour index"),
		seq('*', 'v', 'S', "Foreground colour"),
		seq('*', 'r', 'U', "Simple colour").values(map[int64]string{
			-4: "4-plane CMYK", -3: "3-plane CMY", 1: "Single plane K", 3: "3-plane RGB"}),
		seq('*', 'o', 'Q', "Print mode"),

		// Rectangles and patterns.
		seq('*', 'c', 'A', "Rectangle width (PCL units)"),
		seq('*', 'c', 'H', "Rectangle width (decipoints)"),
		seq('*', 'c', 'B', "Rectangle height (PCL units)"),
		seq('*', 'c', 'V', "Rectangle height (decipoints)"),
		seq('*', 'c', 'P', "Fill rectangular area").values(map[int64]string{
			0: "Solid black", 1: "Erase", 2: "Shaded fill", 3: "Cross-hatch fill", 4: "User-defined pattern", 5: "Current pattern"}),
		seq('*', 'c', 'G', "Pattern ID / area fill ID"),
		seq('*', 'v', 'T', "Select current pattern").values(map[int64]string{
			0: "Solid black", 1: "Solid white", 2: "Shading pattern", 3: "Cross-hatch pattern", 4: "User-defined pattern"}),
		seq('*', 'v', 'N', "Source transparency mode").values(map[int64]string{0: "Transparent", 1: "Opaque"}),
		seq('*', 'v', 'O', "Pattern transparency mode").values(map[int64]string{0: "Transparent", 1: "Opaque"}),
		seq('*', 'c', 'W', "User-defined pattern").with(FlagBinaryData, ActionNone),
		seq('*', 'c', 'Q', "Pattern control"),
		seq('*', 'l', 'O', "Logical operation (ROP3)"),
		seq('*', 'p', 'R', "Pattern reference point").values(map[int64]string{0: "Rotate with print direction", 1: "Keep fixed"}),

		// Status readback and miscellaneous.
		seq('*', 's', 'T', "Set status readback location type"),
		seq('*', 's', 'U', "Set status readback location unit"),
		seq('*', 's', 'I', "Inquire status readback entity"),
		seq('*', 's', 'M', "Free space"),
		seq('&', 'r', 'F', "Flush all pages"),
		seq('*', 's', 'X', "Echo"),
		seq('&', 'n', 'W', "Alphanumeric ID").with(FlagBinaryData, ActionNone),
		seq('*', 'm', 'W', "Download dither matrix").with(FlagBinaryData, ActionNone),
		seq('*', 'l', 'W', "Colour lookup tables").with(FlagBinaryData, ActionNone),
		seq('*', 'i', 'W', "Viewing illuminant").with(FlagBinaryData, ActionNone),
		seq('&', 'b', 'W', "Configuration (I/O)").with(FlagBinaryData, ActionNone),
		seq('*', 't', 'J', "Render algorithm"),
		seq('*', 't', 'I', "Gamma correction"),
	}
}

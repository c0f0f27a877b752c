package tags

func prescribe(command, desc string) Descriptor {
	return Descriptor{
		Key:         Key{Dialect: DialectPrescribe, Kind: KindPrescribeCommand, Name: command},
		Mnemonic:    command,
		Description: desc,
	}
}

func prescribeDescriptors() []Descriptor {
	return []Descriptor{
		prescribe("!R!", "Start of Prescribe command sequence"),
		prescribe("EXIT", "Exit Prescribe mode").with(0, ActionExitPrescribe),
		prescribe("RES", "Reset"),
		prescribe("UNIT", "Set unit of measure"),
		prescribe("MZP", "Move to zero-relative position"),
		prescribe("MRP", "Move to relative position"),
		prescribe("MAP", "Move to absolute position"),
		prescribe("TEXT", "Print text").with(FlagQuoted, ActionNone),
		prescribe("FONT", "Change current font"),
		prescribe("SFNT", "Select font by typeface"),
		prescribe("SCS", "Set character spacing"),
		prescribe("SLS", "Set line spacing"),
		prescribe("SLM", "Set left margin"),
		prescribe("SRM", "Set right margin"),
		prescribe("STM", "Set top margin"),
		prescribe("SBM", "Set bottom margin"),
		prescribe("BOX", "Draw box"),
		prescribe("BLK", "Draw black block"),
		prescribe("DRP", "Draw line to relative position"),
		prescribe("DAP", "Draw line to absolute position"),
		prescribe("DZP", "Draw line to zero-relative position"),
		prescribe("SPD", "Set pen diameter"),
		prescribe("PAGE", "Eject page"),
		prescribe("COPY", "Set number of copies"),
		prescribe("CASS", "Select paper cassette"),
		prescribe("DUPX", "Duplex mode"),
		prescribe("FRPO", "Front panel parameter override"),
		prescribe("SPSZ", "Set paper size"),
		prescribe("SPO", "Set page orientation"),
		prescribe("BARC", "Draw bar code").with(FlagQuoted, ActionNone),
		prescribe("CMNT", "Comment").with(FlagQuoted, ActionNone),
		prescribe("SEM", "Set emulation mode"),
		prescribe("SIR", "Set image refinement"),
		prescribe("STAT", "Print status page"),
		prescribe("SCU", "Save current cursor position"),
		prescribe("RPP", "Return to pushed position"),
		prescribe("SCF", "Save current font"),
		prescribe("RVCO", "Reverse colour"),
		prescribe("SETF", "Set font"),
	}
}

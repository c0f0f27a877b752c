package tags

func gl(mnemonic, desc string) Descriptor {
	return Descriptor{
		Key:         Key{Dialect: DialectHPGL2, Kind: KindHPGL2Command, Name: mnemonic},
		Mnemonic:    mnemonic,
		Description: desc,
	}
}

func hpgl2Descriptors() []Descriptor {
	return []Descriptor{
		// Configuration and status group.
		gl("CO", "Comment").with(FlagQuoted, ActionNone),
		gl("DF", "Default values"),
		gl("IN", "Initialize"),
		gl("IP", "Input P1 and P2"),
		gl("IR", "Input relative P1 and P2"),
		gl("IW", "Input window"),
		gl("PG", "Advance full page"),
		gl("RO", "Rotate coordinate system"),
		gl("RP", "Replot"),
		gl("SC", "Scale"),

		// Vector group.
		gl("AA", "Arc absolute"),
		gl("AR", "Arc relative"),
		gl("AT", "Absolute arc three point"),
		gl("BR", "Bezier relative"),
		gl("BZ", "Bezier absolute"),
		gl("CI", "Circle"),
		gl("PA", "Plot absolute"),
		gl("PD", "Pen down"),
		gl("PE", "Polyline encoded"),
		gl("PR", "Plot relative"),
		gl("PU", "Pen up"),
		gl("RT", "Relative arc three point"),

		// Polygon group.
		gl("EA", "Edge rectangle absolute"),
		gl("EP", "Edge polygon"),
		gl("ER", "Edge rectangle relative"),
		gl("EW", "Edge wedge"),
		gl("FP", "Fill polygon"),
		gl("PM", "Polygon mode"),
		gl("RA", "Fill rectangle absolute"),
		gl("RR", "Fill rectangle relative"),
		gl("WG", "Fill wedge"),

		// Line and fill attributes group.
		gl("AC", "Anchor corner"),
		gl("FT", "Fill type"),
		gl("LA", "Line attributes"),
		gl("LT", "Line type"),
		gl("PW", "Pen width"),
		gl("RF", "Raster fill definition"),
		gl("SM", "Symbol mode"),
		gl("SP", "Select pen"),
		gl("UL", "User-defined line type"),
		gl("WU", "Pen width unit selection"),

		// Character group.
		gl("AD", "Alternate font definition"),
		gl("CF", "Character fill mode"),
		gl("CP", "Character plot"),
		gl("DI", "Absolute direction"),
		gl("DR", "Relative direction"),
		gl("DT", "Define label terminator").with(FlagTermSet, ActionNone),
		gl("DV", "Define variable text path"),
		gl("ES", "Extra space"),
		gl("FI", "Select primary font"),
		gl("FN", "Select secondary font"),
		gl("LB", "Label").with(FlagLabel, ActionNone),
		gl("LO", "Label origin"),
		gl("SA", "Select alternate font"),
		gl("SB", "Scalable or bitmap fonts"),
		gl("SD", "Standard font definition"),
		gl("SI", "Absolute character size"),
		gl("SL", "Character slant"),
		gl("SR", "Relative character size"),
		gl("SS", "Select standard font"),
		gl("TD", "Transparent data"),

		// Technical graphics and palette extensions.
		gl("CR", "Set colour range for relative colour data"),
		gl("MC", "Merge control"),
		gl("NP", "Number of pens"),
		gl("PC", "Pen colour assignment"),
		gl("PP", "Pixel placement"),
		gl("PS", "Plot size"),
		gl("QL", "Quality level"),
		gl("TR", "Transparency mode"),
		gl("ST", "Sort"),
		gl("MT", "Media type"),
		gl("BP", "Begin plot"),
		gl("CT", "Chord tolerance mode"),
		gl("EC", "Enable cutter"),
		gl("FR", "Frame advance"),
	}
}

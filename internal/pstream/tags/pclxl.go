package tags

// XLElement describes the element type of a PCL XL data type tag.
type XLElement uint8

const (
	XLUByte XLElement = iota
	XLUInt16
	XLUInt32
	XLSInt16
	XLSInt32
	XLReal32
)

// Size returns the encoded width of one element in bytes.
func (e XLElement) Size() int {
	switch e {
	case XLUByte:
		return 1
	case XLUInt16, XLSInt16:
		return 2
	}
	return 4
}

// XLShape is the arity of a PCL XL data type.
type XLShape uint8

const (
	XLScalar XLShape = iota
	XLArray
	XLPair
	XLBox
)

// Count returns the fixed element count for the shape; arrays return -1.
func (s XLShape) Count() int {
	switch s {
	case XLScalar:
		return 1
	case XLPair:
		return 2
	case XLBox:
		return 4
	}
	return -1
}

// XLDataTypeInfo returns the element type and shape for a data type tag.
func XLDataTypeInfo(tag byte) (XLElement, XLShape, bool) {
	elem := XLElement(tag & 0x07)
	if elem > XLReal32 {
		return 0, 0, false
	}
	switch tag & 0xF8 {
	case 0xC0:
		return elem, XLScalar, true
	case 0xC8:
		return elem, XLArray, true
	case 0xD0:
		return elem, XLPair, true
	case 0xE0:
		return elem, XLBox, true
	}
	return 0, 0, false
}

func xlOp(tag byte, name string) Descriptor {
	return Descriptor{
		Key:         Key{Dialect: DialectPCLXL, Kind: KindXLOperator, A: tag},
		Mnemonic:    name,
		Description: "Operator " + name,
	}
}

func xlAttr(id byte, name string, values map[int64]string) Descriptor {
	return Descriptor{
		Key:         Key{Dialect: DialectPCLXL, Kind: KindXLAttribute, A: id},
		Mnemonic:    name,
		Description: "Attribute " + name,
		Values:      values,
	}
}

func xlType(tag byte, name, desc string) Descriptor {
	return Descriptor{
		Key:         Key{Dialect: DialectPCLXL, Kind: KindXLDataType, A: tag},
		Mnemonic:    name,
		Description: desc,
	}
}

func xlTagged(kind Kind, tag byte, name, desc string) Descriptor {
	return Descriptor{
		Key:         Key{Dialect: DialectPCLXL, Kind: kind, A: tag},
		Mnemonic:    name,
		Description: desc,
	}
}

var (
	xlOrientation = map[int64]string{0: "ePortraitOrientation", 1: "eLandscapeOrientation",
		2: "eReversePortrait", 3: "eReverseLandscape", 4: "eDefaultOrientation"}
	xlMediaSize = map[int64]string{0: "eLetterPaper", 1: "eLegalPaper", 2: "eA4Paper", 3: "eExecPaper",
		4: "eLedgerPaper", 5: "eA3Paper", 6: "eCOM10Envelope", 7: "eMonarchEnvelope", 8: "eC5Envelope",
		9: "eDLEnvelope", 10: "eJB4Paper", 11: "eJB5Paper", 12: "eB5Envelope", 14: "eJPostcard",
		15: "eJDoublePostcard", 16: "eA5Paper", 17: "eA6Paper", 18: "eJB6Paper"}
	xlMediaSource = map[int64]string{0: "eDefaultSource", 1: "eAutoSelect", 2: "eManualFeed",
		3: "eMultiPurposeTray", 4: "eUpperCassette", 5: "eLowerCassette", 6: "eEnvelopeTray", 7: "eThirdCassette"}
	xlColorSpace = map[int64]string{0: "eBiLevel", 1: "eGray", 2: "eRGB", 5: "eCMY", 6: "eSRGB"}
	xlMeasure    = map[int64]string{0: "eInch", 1: "eMillimeter", 2: "eTenthsOfAMillimeter"}
	xlErrReport  = map[int64]string{0: "eNoReporting", 1: "eBackChannel", 2: "eErrorPage",
		3: "eBackChAndErrPage", 4: "eNWBackChannel", 5: "eNWErrorPage", 6: "eNWBackChAndErrPage"}
	xlDataOrg    = map[int64]string{0: "eBinaryHighByteFirst", 1: "eBinaryLowByteFirst"}
	xlSourceType = map[int64]string{0: "eDefaultDataSource"}
	xlCompress   = map[int64]string{0: "eNoCompression", 1: "eRLECompression", 2: "eJPEGCompression",
		3: "eDeltaRowCompression"}
	xlColorDepth   = map[int64]string{0: "e1Bit", 1: "e4Bit", 2: "e8Bit"}
	xlColorMapping = map[int64]string{0: "eDirectPixel", 1: "eIndexedPixel"}
	xlTxMode       = map[int64]string{0: "eOpaque", 1: "eTransparent"}
	xlFillMode     = map[int64]string{0: "eNonZeroWinding", 1: "eEvenOdd"}
	xlLineCap      = map[int64]string{0: "eButtCap", 1: "eRoundCap", 2: "eSquareCap", 3: "eTriangleCap"}
	xlLineJoin     = map[int64]string{0: "eMiterJoin", 1: "eRoundJoin", 2: "eBevelJoin", 3: "eNoJoin"}
	xlArcDirection = map[int64]string{0: "eClockWise", 1: "eCounterClockWise"}
	xlDuplexMode   = map[int64]string{0: "eDuplexHorizontalBinding", 1: "eDuplexVerticalBinding"}
	xlDuplexSide   = map[int64]string{0: "eFrontMediaSide", 1: "eBackMediaSide"}
	xlSimplexMode  = map[int64]string{0: "eSimplexFrontSide"}
	xlPersistence  = map[int64]string{0: "eTempPattern", 1: "ePagePattern", 2: "eSessionPattern"}
	xlClipMode     = map[int64]string{0: "eNonZeroWinding", 1: "eEvenOdd"}
	xlClipRegion   = map[int64]string{0: "eInterior", 1: "eExterior"}
	xlWritingMode  = map[int64]string{0: "eHorizontal", 1: "eVertical"}
	xlColorTreat   = map[int64]string{0: "eNoTreatment", 1: "eScreenMatch", 2: "eVivid"}
	xlPointType    = map[int64]string{0: "eUByte", 1: "eSByte", 2: "eUInt16", 3: "eSInt16"}
)

func pclxlDescriptors() []Descriptor {
	out := []Descriptor{
		xlTagged(KindXLWhitespace, 0x00, "Null", "Whitespace: null"),
		xlTagged(KindXLWhitespace, 0x09, "HT", "Whitespace: horizontal tab"),
		xlTagged(KindXLWhitespace, 0x0A, "LF", "Whitespace: line feed"),
		xlTagged(KindXLWhitespace, 0x0B, "VT", "Whitespace: vertical tab"),
		xlTagged(KindXLWhitespace, 0x0C, "FF", "Whitespace: form feed"),
		xlTagged(KindXLWhitespace, 0x0D, "CR", "Whitespace: carriage return"),
		xlTagged(KindXLWhitespace, 0x20, "Space", "Whitespace: space"),

		xlTagged(KindXLEmbed, 0xFA, "embedded_data", "Embedded data, uint32 length"),
		xlTagged(KindXLEmbed, 0xFB, "embedded_data_byte", "Embedded data, ubyte length"),

		xlType(0xC0, "ubyte", "Unsigned byte"),
		xlType(0xC1, "uint16", "Unsigned 16-bit integer"),
		xlType(0xC2, "uint32", "Unsigned 32-bit integer"),
		xlType(0xC3, "sint16", "Signed 16-bit integer"),
		xlType(0xC4, "sint32", "Signed 32-bit integer"),
		xlType(0xC5, "real32", "32-bit IEEE float"),
		xlType(0xC8, "ubyte_array", "Array of unsigned bytes"),
		xlType(0xC9, "uint16_array", "Array of unsigned 16-bit integers"),
		xlType(0xCA, "uint32_array", "Array of unsigned 32-bit integers"),
		xlType(0xCB, "sint16_array", "Array of signed 16-bit integers"),
		xlType(0xCC, "sint32_array", "Array of signed 32-bit integers"),
		xlType(0xCD, "real32_array", "Array of 32-bit floats"),
		xlType(0xD0, "ubyte_xy", "Unsigned byte pair"),
		xlType(0xD1, "uint16_xy", "Unsigned 16-bit pair"),
		xlType(0xD2, "uint32_xy", "Unsigned 32-bit pair"),
		xlType(0xD3, "sint16_xy", "Signed 16-bit pair"),
		xlType(0xD4, "sint32_xy", "Signed 32-bit pair"),
		xlType(0xD5, "real32_xy", "32-bit float pair"),
		xlType(0xE0, "ubyte_box", "Unsigned byte box"),
		xlType(0xE1, "uint16_box", "Unsigned 16-bit box"),
		xlType(0xE2, "uint32_box", "Unsigned 32-bit box"),
		xlType(0xE3, "sint16_box", "Signed 16-bit box"),
		xlType(0xE4, "sint32_box", "Signed 32-bit box"),
		xlType(0xE5, "real32_box", "32-bit float box"),
	}

	ops := []struct {
		tag  byte
		name string
	}{
		{0x41, "BeginSession"}, {0x42, "EndSession"}, {0x43, "BeginPage"}, {0x44, "EndPage"},
		{0x46, "VendorUnique"}, {0x47, "Comment"}, {0x48, "OpenDataSource"}, {0x49, "CloseDataSource"},
		{0x4A, "EchoComment"}, {0x4B, "Query"}, {0x4C, "Diagnostic3"},
		{0x4F, "BeginFontHeader"}, {0x50, "ReadFontHeader"}, {0x51, "EndFontHeader"},
		{0x52, "BeginChar"}, {0x53, "ReadChar"}, {0x54, "EndChar"}, {0x55, "RemoveFont"},
		{0x56, "SetCharAttributes"}, {0x57, "SetDefaultGS"}, {0x58, "SetColorTreatment"},
		{0x5B, "BeginStream"}, {0x5C, "ReadStream"}, {0x5D, "EndStream"}, {0x5E, "ExecStream"},
		{0x5F, "RemoveStream"}, {0x60, "PopGS"}, {0x61, "PushGS"}, {0x62, "SetClipReplace"},
		{0x63, "SetBrushSource"}, {0x64, "SetCharAngle"}, {0x65, "SetCharScale"}, {0x66, "SetCharShear"},
		{0x67, "SetClipIntersect"}, {0x68, "SetClipRectangle"}, {0x69, "SetClipToPage"},
		{0x6A, "SetColorSpace"}, {0x6B, "SetCursor"}, {0x6C, "SetCursorRel"}, {0x6D, "SetHalftoneMethod"},
		{0x6E, "SetFillMode"}, {0x6F, "SetFont"}, {0x70, "SetLineDash"}, {0x71, "SetLineCap"},
		{0x72, "SetLineJoin"}, {0x73, "SetMiterLimit"}, {0x74, "SetPageDefaultCTM"},
		{0x75, "SetPageOrigin"}, {0x76, "SetPageRotation"}, {0x77, "SetPageScale"},
		{0x78, "SetPaintTxMode"}, {0x79, "SetPenSource"}, {0x7A, "SetPenWidth"}, {0x7B, "SetROP"},
		{0x7C, "SetSourceTxMode"}, {0x7D, "SetCharBoldValue"}, {0x7E, "SetNeutralAxis"},
		{0x7F, "SetClipMode"}, {0x80, "SetPathToClip"}, {0x81, "SetCharSubMode"},
		{0x82, "BeginUserDefinedLineCap"}, {0x83, "EndUserDefinedLineCap"},
		{0x84, "CloseSubPath"}, {0x85, "NewPath"}, {0x86, "PaintPath"},
		{0x91, "ArcPath"}, {0x92, "SetColorTrapping"}, {0x93, "BezierPath"},
		{0x94, "SetAdaptiveHalftoning"}, {0x95, "BezierRelPath"}, {0x96, "Chord"}, {0x97, "ChordPath"},
		{0x98, "Ellipse"}, {0x99, "EllipsePath"}, {0x9B, "LinePath"}, {0x9D, "LineRelPath"},
		{0x9E, "Pie"}, {0x9F, "PiePath"}, {0xA0, "Rectangle"}, {0xA1, "RectanglePath"},
		{0xA2, "RoundRectangle"}, {0xA3, "RoundRectanglePath"}, {0xA8, "Text"}, {0xA9, "TextPath"},
		{0xB0, "BeginImage"}, {0xB1, "ReadImage"}, {0xB2, "EndImage"},
		{0xB3, "BeginRastPattern"}, {0xB4, "ReadRastPattern"}, {0xB5, "EndRastPattern"},
		{0xB6, "BeginScan"}, {0xB8, "EndScan"}, {0xB9, "ScanLineRel"},
	}
	for _, op := range ops {
		out = append(out, xlOp(op.tag, op.name))
	}

	out = append(out,
		xlAttr(2, "PaletteDepth", xlColorDepth),
		xlAttr(3, "ColorSpace", xlColorSpace),
		xlAttr(4, "NullBrush", nil),
		xlAttr(5, "NullPen", nil),
		xlAttr(6, "PaletteData", nil),
		xlAttr(8, "PatternSelectID", nil),
		xlAttr(9, "GrayLevel", nil),
		xlAttr(11, "RGBColor", nil),
		xlAttr(12, "PatternOrigin", nil),
		xlAttr(13, "NewDestinationSize", nil),
		xlAttr(14, "PrimaryArray", nil),
		xlAttr(15, "PrimaryDepth", xlColorDepth),
		xlAttr(17, "ColorimetricColorSpace", nil),
		xlAttr(18, "XYChromaticities", nil),
		xlAttr(19, "WhiteReferencePoint", nil),
		xlAttr(20, "CRGBMinMax", nil),
		xlAttr(21, "GammaGain", nil),
		xlAttr(29, "AllObjectTypes", nil),
		xlAttr(30, "TextObjects", nil),
		xlAttr(31, "VectorObjects", nil),
		xlAttr(32, "RasterObjects", nil),
		xlAttr(33, "DeviceMatrix", nil),
		xlAttr(34, "DitherMatrixDataType", nil),
		xlAttr(35, "DitherOrigin", nil),
		xlAttr(36, "MediaDestination", nil),
		xlAttr(37, "MediaSize", xlMediaSize),
		xlAttr(38, "MediaSource", xlMediaSource),
		xlAttr(39, "MediaType", nil),
		xlAttr(40, "Orientation", xlOrientation),
		xlAttr(41, "PageAngle", nil),
		xlAttr(42, "PageOrigin", nil),
		xlAttr(43, "PageScale", nil),
		xlAttr(44, "ROP3", nil),
		xlAttr(45, "TxMode", xlTxMode),
		xlAttr(47, "CustomMediaSize", nil),
		xlAttr(48, "CustomMediaSizeUnits", xlMeasure),
		xlAttr(49, "PageCopies", nil),
		xlAttr(50, "DitherMatrixSize", nil),
		xlAttr(51, "DitherMatrixDepth", xlColorDepth),
		xlAttr(52, "SimplexPageMode", xlSimplexMode),
		xlAttr(53, "DuplexPageMode", xlDuplexMode),
		xlAttr(54, "DuplexPageSide", xlDuplexSide),
		xlAttr(65, "ArcDirection", xlArcDirection),
		xlAttr(66, "BoundingBox", nil),
		xlAttr(67, "DashOffset", nil),
		xlAttr(68, "EllipseDimension", nil),
		xlAttr(69, "EndPoint", nil),
		xlAttr(70, "FillMode", xlFillMode),
		xlAttr(71, "LineCapStyle", xlLineCap),
		xlAttr(72, "LineJoinStyle", xlLineJoin),
		xlAttr(73, "MiterLength", nil),
		xlAttr(74, "LineDashStyle", nil),
		xlAttr(75, "PenWidth", nil),
		xlAttr(76, "Point", nil),
		xlAttr(77, "NumberOfPoints", nil),
		xlAttr(78, "SolidLine", nil),
		xlAttr(79, "StartPoint", nil),
		xlAttr(80, "PointType", xlPointType),
		xlAttr(81, "ControlPoint1", nil),
		xlAttr(82, "ControlPoint2", nil),
		xlAttr(83, "ClipRegion", xlClipRegion),
		xlAttr(84, "ClipMode", xlClipMode),
		xlAttr(98, "ColorDepth", xlColorDepth),
		xlAttr(99, "BlockHeight", nil),
		xlAttr(100, "ColorMapping", xlColorMapping),
		xlAttr(101, "CompressMode", xlCompress),
		xlAttr(102, "DestinationBox", nil),
		xlAttr(103, "DestinationSize", nil),
		xlAttr(104, "PatternPersistence", xlPersistence),
		xlAttr(105, "PatternDefineID", nil),
		xlAttr(107, "SourceHeight", nil),
		xlAttr(108, "SourceWidth", nil),
		xlAttr(109, "StartLine", nil),
		xlAttr(110, "PadBytesMultiple", nil),
		xlAttr(111, "BlockByteLength", nil),
		xlAttr(115, "NumberOfScanLines", nil),
		xlAttr(120, "ColorTreatment", xlColorTreat),
		xlAttr(129, "CommentData", nil),
		xlAttr(130, "DataOrg", xlDataOrg),
		xlAttr(134, "Measure", xlMeasure),
		xlAttr(136, "SourceType", xlSourceType),
		xlAttr(137, "UnitsPerMeasure", nil),
		xlAttr(138, "QueryKey", nil),
		xlAttr(139, "StreamName", nil),
		xlAttr(140, "StreamDataLength", nil),
		xlAttr(143, "ErrorReport", xlErrReport),
		xlAttr(145, "IOReadTimeOut", nil),
		xlAttr(161, "CharAngle", nil),
		xlAttr(162, "CharCode", nil),
		xlAttr(163, "CharDataSize", nil),
		xlAttr(164, "CharScale", nil),
		xlAttr(165, "CharShear", nil),
		xlAttr(166, "CharSize", nil),
		xlAttr(167, "FontHeaderLength", nil),
		xlAttr(168, "FontName", nil),
		xlAttr(169, "FontFormat", nil),
		xlAttr(170, "SymbolSet", nil),
		xlAttr(171, "TextData", nil),
		xlAttr(172, "CharSubModeArray", nil),
		xlAttr(173, "WritingMode", xlWritingMode),
		xlAttr(175, "XSpacingData", nil),
		xlAttr(176, "YSpacingData", nil),
		xlAttr(177, "CharBoldValue", nil),
	)
	return out
}

package tags

func pjl(command, desc string) Descriptor {
	return Descriptor{
		Key:         Key{Dialect: DialectPJL, Kind: KindPJLCommand, Name: command},
		Mnemonic:    command,
		Description: desc,
	}
}

func pjlDescriptors() []Descriptor {
	return []Descriptor{
		pjl("", "PJL prefix (no operation)"),
		pjl("COMMENT", "Comment"),
		pjl("ENTER", "Enter printer language").with(0, ActionEnterLanguage),
		pjl("JOB", "Start of job"),
		pjl("EOJ", "End of job"),
		pjl("DEFAULT", "Set default environment variable"),
		pjl("INITIALIZE", "Restore factory defaults"),
		pjl("RESET", "Reset current environment to defaults"),
		pjl("SET", "Set environment variable for the job"),
		pjl("INQUIRE", "Request current value of variable"),
		pjl("DINQUIRE", "Request default value of variable"),
		pjl("ECHO", "Echo string back to host"),
		pjl("INFO", "Request printer information"),
		pjl("USTATUS", "Enable unsolicited status"),
		pjl("USTATUSOFF", "Disable unsolicited status"),
		pjl("RDYMSG", "Set ready message"),
		pjl("OPMSG", "Display operator message (offline)"),
		pjl("STMSG", "Display status message and wait"),
		pjl("DMINFO", "Device management information request").with(0, ActionPMLPayload),
		pjl("DMCMD", "Device management command").with(0, ActionPMLPayload),
		pjl("FSAPPEND", "File system: append to file"),
		pjl("FSDELETE", "File system: delete file"),
		pjl("FSDIRLIST", "File system: list directory"),
		pjl("FSDOWNLOAD", "File system: download file"),
		pjl("FSINIT", "File system: initialise volume"),
		pjl("FSMKDIR", "File system: make directory"),
		pjl("FSQUERY", "File system: query entry"),
		pjl("FSUPLOAD", "File system: upload file"),
	}
}

func pml(b byte, name, desc string) Descriptor {
	return Descriptor{
		Key:         Key{Dialect: DialectPML, Kind: KindPMLAction, A: b},
		Mnemonic:    name,
		Description: desc,
	}
}

func pmlType(b byte, name, desc string) Descriptor {
	return Descriptor{
		Key:         Key{Dialect: DialectPML, Kind: KindPMLDataType, A: b},
		Mnemonic:    name,
		Description: desc,
	}
}

// PML data type codes, as found in the top six bits of a value header.
const (
	PMLTypeObjectID   byte = 0x00
	PMLTypeEnum       byte = 0x04
	PMLTypeSigned     byte = 0x08
	PMLTypeReal       byte = 0x0C
	PMLTypeString     byte = 0x10
	PMLTypeBinary     byte = 0x14
	PMLTypeErrorCode  byte = 0x18
	PMLTypeNull       byte = 0x1C
	PMLTypeCollection byte = 0x20
)

// PMLReplyBit is set on the action byte of every reply.
const PMLReplyBit byte = 0x80

// PMLStatus names the status byte that follows a reply action.
var PMLStatus = map[byte]string{
	0x00: "OK",
	0x01: "OK, end of supported objects",
	0x02: "OK, nearest legal value substituted",
	0x80: "Unknown request",
	0x81: "Buffer overflow",
	0x82: "Command execute error",
	0x83: "Unknown object identifier",
	0x84: "Object does not support requested action",
	0x85: "Invalid or unsupported value",
	0x86: "Past end of supported objects",
	0x87: "Action cannot be performed now",
	0x88: "Syntax error",
}

func pmlDescriptors() []Descriptor {
	return []Descriptor{
		pml(0x00, "GetRequest", "Get value of object"),
		pml(0x01, "GetNextRequest", "Get value of next object"),
		pml(0x02, "BlockRequest", "Get block of objects"),
		pml(0x03, "TrapRequest", "Request trap"),
		pml(0x04, "SetRequest", "Set value of object"),
		pml(0x05, "TrapDisable", "Disable trap"),
		pml(0x80, "GetReply", "Reply to get request"),
		pml(0x81, "GetNextReply", "Reply to get-next request"),
		pml(0x82, "BlockReply", "Reply to block request"),
		pml(0x83, "TrapReply", "Trap notification"),
		pml(0x84, "SetReply", "Reply to set request"),
		pml(0x85, "TrapDisableReply", "Reply to trap disable"),

		pmlType(PMLTypeObjectID, "ObjectIdentifier", "Object identifier"),
		pmlType(PMLTypeEnum, "Enumeration", "Enumerated value"),
		pmlType(PMLTypeSigned, "SignedInteger", "Signed integer"),
		pmlType(PMLTypeReal, "Real", "Real number"),
		pmlType(PMLTypeString, "String", "Symbol-set tagged string"),
		pmlType(PMLTypeBinary, "Binary", "Binary data"),
		pmlType(PMLTypeErrorCode, "ErrorCode", "Error code"),
		pmlType(PMLTypeNull, "NullValue", "Null value"),
		pmlType(PMLTypeCollection, "Collection", "Collection of values"),
	}
}

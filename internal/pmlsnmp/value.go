package pmlsnmp

import (
	"encoding/binary"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/gosnmp/gosnmp"

	"github.com/tturner/pclscope/internal/pstream/classify"
	"github.com/tturner/pclscope/internal/pstream/symsets"
	"github.com/tturner/pclscope/internal/pstream/tags"
)

// pmlUnknownObject is the PML status for an object the device does not have.
const pmlUnknownObject = 0x83

// Value is one PML object read over SNMP, re-expressed as a PML typed value.
type Value struct {
	OID     string
	SNMPOID string
	Name    string
	// Type is the PML data type byte, Data its PML encoding.
	Type    byte
	Data    []byte
	Text    string
	Missing bool
}

// TypeName returns the PML mnemonic of the value type.
func (v Value) TypeName() string {
	if d, ok := tags.Default().LookupPMLDataType(v.Type); ok {
		return d.Mnemonic
	}
	return fmt.Sprintf("0x%02X", v.Type)
}

// Decode converts an SNMP variable binding into a PML value.
func Decode(pdu gosnmp.SnmpPDU) Value {
	snmpOID := strings.TrimPrefix(pdu.Name, ".")
	v := Value{SNMPOID: snmpOID, OID: snmpOID}
	if oid, ok := FromSNMP(snmpOID); ok {
		v.OID = oid
	}
	v.Name = Known[v.OID]

	switch pdu.Type {
	case gosnmp.Integer:
		v.Type, v.Data = tags.PMLTypeSigned, encodeSigned(gosnmp.ToBigInt(pdu.Value).Int64())
	case gosnmp.Counter32, gosnmp.Gauge32, gosnmp.TimeTicks, gosnmp.Uinteger32, gosnmp.Counter64:
		v.Type, v.Data = tags.PMLTypeSigned, encodeSigned(int64(gosnmp.ToBigInt(pdu.Value).Uint64()))
	case gosnmp.OctetString:
		b, _ := pdu.Value.([]byte)
		v.Type, v.Data = octetType(b), b
	case gosnmp.ObjectIdentifier:
		s, _ := pdu.Value.(string)
		v.Type, v.Data = tags.PMLTypeObjectID, encodeOID(s)
		if v.Data == nil {
			v.Text = strings.TrimPrefix(s, ".")
		}
	case gosnmp.OpaqueFloat:
		f, _ := pdu.Value.(float32)
		v.Type, v.Data = tags.PMLTypeReal, binary.BigEndian.AppendUint32(nil, math.Float32bits(f))
	case gosnmp.OpaqueDouble:
		f, _ := pdu.Value.(float64)
		v.Type, v.Data = tags.PMLTypeReal, binary.BigEndian.AppendUint32(nil, math.Float32bits(float32(f)))
	case gosnmp.Null:
		v.Type = tags.PMLTypeNull
	case gosnmp.NoSuchObject, gosnmp.NoSuchInstance, gosnmp.EndOfMibView:
		v.Type, v.Data, v.Missing = tags.PMLTypeErrorCode, []byte{pmlUnknownObject}, true
	default:
		v.Type = tags.PMLTypeBinary
		if b, ok := pdu.Value.([]byte); ok {
			v.Data = b
		} else {
			v.Text = fmt.Sprint(pdu.Value)
		}
	}
	if v.Text == "" {
		v.Text = classify.FormatPMLValue(v.Type, v.Data)
	}
	return v
}

// octetType treats an octet string as a PML string when it starts with a
// known symbol set tag.
func octetType(b []byte) byte {
	if len(b) >= 2 {
		if _, ok := symsets.ByKind1(binary.BigEndian.Uint16(b)); ok {
			return tags.PMLTypeString
		}
	}
	return tags.PMLTypeBinary
}

// encodeSigned returns the shortest of the 4 or 8 byte big-endian forms.
func encodeSigned(n int64) []byte {
	if n >= math.MinInt32 && n <= math.MaxInt32 {
		return binary.BigEndian.AppendUint32(nil, uint32(int32(n)))
	}
	return binary.BigEndian.AppendUint64(nil, uint64(n))
}

// encodeOID packs each arc into one byte, or returns nil if an arc does
// not fit.
func encodeOID(s string) []byte {
	s = strings.TrimPrefix(s, ".")
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ".")
	out := make([]byte, len(parts))
	for i, p := range parts {
		n, err := strconv.ParseUint(p, 10, 8)
		if err != nil {
			return nil
		}
		out[i] = byte(n)
	}
	return out
}

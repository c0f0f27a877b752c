package classify

import (
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/tturner/pclscope/internal/pstream/rowtype"
	"github.com/tturner/pclscope/internal/pstream/symsets"
	"github.com/tturner/pclscope/internal/pstream/tags"
)

// PMLItem is one typed value of a PML message.
type PMLItem struct {
	Type byte
	Data []byte
	// Offset is the position of the item header within the message.
	Offset int
}

// Length returns the encoded size of the item including its header.
func (it PMLItem) Length() int {
	return 2 + len(it.Data)
}

// PMLMessage is a decoded PML request or reply.
type PMLMessage struct {
	Action    byte
	Reply     bool
	Status    byte
	HasStatus bool
	Items     []PMLItem
	// Truncated is set when the last item header claims more data than remains.
	Truncated bool
}

// DecodePML splits a PML message into its action, optional reply status and
// typed items. Each item header carries the type in its top six bits and
// the data length in the remaining ten.
func DecodePML(data []byte) (*PMLMessage, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("empty PML message")
	}
	msg := &PMLMessage{Action: data[0], Reply: data[0]&tags.PMLReplyBit != 0}
	i := 1
	if msg.Reply {
		if len(data) < 2 {
			return msg, fmt.Errorf("PML reply without status byte")
		}
		msg.Status = data[1]
		msg.HasStatus = true
		i = 2
	}
	for i < len(data) {
		if i+2 > len(data) {
			msg.Truncated = true
			break
		}
		typ := data[i] & 0xFC
		n := int(data[i]&0x03)<<8 | int(data[i+1])
		end := i + 2 + n
		if end > len(data) {
			msg.Items = append(msg.Items, PMLItem{Type: typ, Data: data[i+2:], Offset: i})
			msg.Truncated = true
			break
		}
		msg.Items = append(msg.Items, PMLItem{Type: typ, Data: data[i+2 : end], Offset: i})
		i = end
	}
	return msg, nil
}

// FormatPMLValue renders item data according to its PML type.
func FormatPMLValue(typ byte, data []byte) string {
	switch typ {
	case tags.PMLTypeObjectID:
		parts := make([]string, len(data))
		for i, b := range data {
			parts[i] = strconv.Itoa(int(b))
		}
		return strings.Join(parts, ".")
	case tags.PMLTypeEnum, tags.PMLTypeSigned:
		if v, ok := beSigned(data); ok {
			return strconv.FormatInt(v, 10)
		}
	case tags.PMLTypeReal:
		if len(data) == 4 {
			return strconv.FormatFloat(float64(math.Float32frombits(binary.BigEndian.Uint32(data))), 'g', -1, 32)
		}
	case tags.PMLTypeString:
		if len(data) < 2 {
			break
		}
		kind1 := binary.BigEndian.Uint16(data)
		set, ok := symsets.ByKind1(kind1)
		if !ok {
			return fmt.Sprintf("[%s] %q", symsets.FormatKind1(kind1), string(data[2:]))
		}
		return fmt.Sprintf("[%s] %q", set.ID, set.DecodeString(data[2:]))
	case tags.PMLTypeErrorCode:
		if len(data) == 1 {
			if name, ok := tags.PMLStatus[data[0]]; ok {
				return fmt.Sprintf("0x%02X %s", data[0], name)
			}
			return fmt.Sprintf("0x%02X", data[0])
		}
	case tags.PMLTypeNull:
		return "null"
	case tags.PMLTypeCollection:
		return fmt.Sprintf("collection, %d bytes", len(data))
	}
	return hex.EncodeToString(data)
}

func beSigned(data []byte) (int64, bool) {
	if len(data) == 0 || len(data) > 8 {
		return 0, false
	}
	var v uint64
	for _, b := range data {
		v = v<<8 | uint64(b)
	}
	shift := uint(64 - 8*len(data))
	return int64(v<<shift) >> shift, true
}

// decodePML emits rows for a PML message carried by the PJL line at offset.
func (p *parser) decodePML(offset int64, data []byte) {
	msg, err := DecodePML(data)
	if msg == nil {
		p.emitRaw(offset, data, tags.DialectPML, rowtype.MsgError, "", err.Error(), nil)
		return
	}

	action, ok := p.dict.LookupPMLAction(msg.Action)
	actionEnd := 1
	if msg.HasStatus {
		actionEnd = 2
	}
	if !ok {
		p.emitRaw(offset, data[:1], tags.DialectPML, rowtype.MsgError, fmt.Sprintf("0x%02X", msg.Action), "Unrecognised PML action", nil)
	} else {
		desc := action.Description
		if msg.HasStatus {
			status, known := tags.PMLStatus[msg.Status]
			if !known {
				status = "unknown status"
			}
			desc = fmt.Sprintf("%s: 0x%02X %s", desc, msg.Status, status)
		}
		p.emitRaw(offset, data[:actionEnd], tags.DialectPML, rowtype.PMLSequence, action.Mnemonic, desc, action)
	}
	if err != nil {
		p.emitRaw(offset, data, tags.DialectPML, rowtype.MsgWarning, "", err.Error(), nil)
		return
	}

	for _, it := range msg.Items {
		raw := data[it.Offset : it.Offset+it.Length()]
		d, ok := p.dict.LookupPMLDataType(it.Type)
		if !ok {
			p.emitRaw(offset, raw, tags.DialectPML, rowtype.MsgError, fmt.Sprintf("0x%02X", it.Type), "Unrecognised PML data type", nil)
			continue
		}
		p.emitRaw(offset, raw, tags.DialectPML, rowtype.PMLSequence, d.Mnemonic, FormatPMLValue(it.Type, it.Data), d)
	}
	if msg.Truncated {
		p.emitRaw(offset, nil, tags.DialectPML, rowtype.MsgWarning, "", "PML message truncated", nil)
	}
}

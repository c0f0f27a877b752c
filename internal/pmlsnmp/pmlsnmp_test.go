package pmlsnmp

import (
	"context"
	"errors"
	"net"
	"sort"
	"strings"
	"testing"

	"github.com/gosnmp/gosnmp"

	"github.com/tturner/pclscope/internal/config"
	cserrors "github.com/tturner/pclscope/internal/errors"
	"github.com/tturner/pclscope/internal/pstream/tags"
)

func TestToSNMP(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{"1.3.9.0", EnterpriseOID + ".1.3.9.0", false},
		{".1.3.9.0", EnterpriseOID + ".1.3.9.0", false},
		{EnterpriseOID + ".1.1.3.3.0", EnterpriseOID + ".1.1.3.3.0", false},
		{"", "", true},
		{"1..2", "", true},
		{"1.x", "", true},
	}
	for _, tt := range tests {
		got, err := ToSNMP(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ToSNMP(%q) err = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("ToSNMP(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestFromSNMP(t *testing.T) {
	if got, ok := FromSNMP("." + EnterpriseOID + ".1.4.4.7.0"); !ok || got != "1.4.4.7.0" {
		t.Errorf("FromSNMP = %q, %v", got, ok)
	}
	if _, ok := FromSNMP("1.3.6.1.2.1.1.1.0"); ok {
		t.Error("sysDescr should be outside the PML tree")
	}
}

func TestKnownOIDsOrdered(t *testing.T) {
	oids := KnownOIDs()
	if len(oids) != len(Known) {
		t.Fatalf("got %d oids, want %d", len(oids), len(Known))
	}
	if !sort.SliceIsSorted(oids, func(i, j int) bool { return lessOID(oids[i], oids[j]) }) {
		t.Errorf("not sorted: %v", oids)
	}
	// numeric, not lexical
	if !lessOID("1.1.2.20.0", "1.1.12.1.0") {
		t.Error("1.1.2 should sort before 1.1.12")
	}
}

func TestDecode(t *testing.T) {
	oid := "." + EnterpriseOID + ".1.3.9.0"
	tests := []struct {
		name     string
		pdu      gosnmp.SnmpPDU
		wantType byte
		wantText string
		missing  bool
	}{
		{"integer", gosnmp.SnmpPDU{Name: oid, Type: gosnmp.Integer, Value: 42}, tags.PMLTypeSigned, "42", false},
		{"negative", gosnmp.SnmpPDU{Name: oid, Type: gosnmp.Integer, Value: -3}, tags.PMLTypeSigned, "-3", false},
		{"counter", gosnmp.SnmpPDU{Name: oid, Type: gosnmp.Counter32, Value: uint(7)}, tags.PMLTypeSigned, "7", false},
		{"roman8 string", gosnmp.SnmpPDU{Name: oid, Type: gosnmp.OctetString, Value: []byte{0x01, 0x15, 'H', 'P'}}, tags.PMLTypeString, `[8U] "HP"`, false},
		{"binary", gosnmp.SnmpPDU{Name: oid, Type: gosnmp.OctetString, Value: []byte{0xFF, 0xFF, 0x01}}, tags.PMLTypeBinary, "ffff01", false},
		{"oid", gosnmp.SnmpPDU{Name: oid, Type: gosnmp.ObjectIdentifier, Value: ".1.3.9"}, tags.PMLTypeObjectID, "1.3.9", false},
		{"wide oid", gosnmp.SnmpPDU{Name: oid, Type: gosnmp.ObjectIdentifier, Value: ".1.3.6.1.4.1.11"}, tags.PMLTypeObjectID, "1.3.6.1.4.1.11", false},
		{"null", gosnmp.SnmpPDU{Name: oid, Type: gosnmp.Null}, tags.PMLTypeNull, "null", false},
		{"no such object", gosnmp.SnmpPDU{Name: oid, Type: gosnmp.NoSuchObject}, tags.PMLTypeErrorCode, "0x83 Unknown object identifier", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := Decode(tt.pdu)
			if v.OID != "1.3.9.0" || v.Name != "Paper jams" {
				t.Errorf("OID/Name = %q/%q", v.OID, v.Name)
			}
			if v.Type != tt.wantType {
				t.Errorf("Type = 0x%02X, want 0x%02X", v.Type, tt.wantType)
			}
			if v.Text != tt.wantText {
				t.Errorf("Text = %q, want %q", v.Text, tt.wantText)
			}
			if v.Missing != tt.missing {
				t.Errorf("Missing = %v", v.Missing)
			}
		})
	}
}

func TestDecodeOutsideTree(t *testing.T) {
	v := Decode(gosnmp.SnmpPDU{Name: ".1.3.6.1.2.1.1.5.0", Type: gosnmp.Integer, Value: 1})
	if v.OID != "1.3.6.1.2.1.1.5.0" || v.Name != "" {
		t.Errorf("got %+v", v)
	}
	if v.TypeName() != "SignedInteger" {
		t.Errorf("TypeName = %q", v.TypeName())
	}
}

func TestEncodeSigned(t *testing.T) {
	if got := encodeSigned(1); len(got) != 4 || got[3] != 1 {
		t.Errorf("encodeSigned(1) = %x", got)
	}
	if got := encodeSigned(1 << 40); len(got) != 8 {
		t.Errorf("encodeSigned(1<<40) = %x", got)
	}
}

func TestNewValidation(t *testing.T) {
	if _, err := New("", config.SNMPConfig{}, nil); err == nil {
		t.Error("empty target should fail")
	}
	if _, err := New("printer:notaport", config.SNMPConfig{}, nil); err == nil {
		t.Error("bad port should fail")
	}
	if _, err := New("printer", config.SNMPConfig{Version: "3"}, nil); err == nil {
		t.Error("v3 should be rejected")
	}
	c, err := New("printer:1161", config.SNMPConfig{Version: "1", TimeoutMs: 250}, nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if c.snmp.Port != 1161 || c.snmp.Version != gosnmp.Version1 || c.snmp.Community != "public" {
		t.Errorf("unexpected client config: port=%d version=%v community=%q", c.snmp.Port, c.snmp.Version, c.snmp.Community)
	}
}

// fakeAgent answers GET and GETNEXT for a fixed set of objects.
func fakeAgent(t *testing.T, objects map[string]gosnmp.SnmpPDU) string {
	t.Helper()
	conn, err := net.ListenPacket("udp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	t.Cleanup(func() { conn.Close() })

	var order []string
	for oid := range objects {
		order = append(order, oid)
	}
	sort.Slice(order, func(i, j int) bool { return lessOID(order[i], order[j]) })

	go func() {
		decoder := &gosnmp.GoSNMP{Version: gosnmp.Version2c}
		buf := make([]byte, 65535)
		for {
			n, addr, err := conn.ReadFrom(buf)
			if err != nil {
				return
			}
			req, err := decoder.SnmpDecodePacket(buf[:n])
			if err != nil {
				continue
			}
			var vars []gosnmp.SnmpPDU
			for _, v := range req.Variables {
				name := strings.TrimPrefix(v.Name, ".")
				switch req.PDUType {
				case gosnmp.GetNextRequest:
					next := gosnmp.SnmpPDU{Name: "." + name, Type: gosnmp.EndOfMibView}
					for _, oid := range order {
						if lessOID(name, oid) {
							next = objects[oid]
							next.Name = "." + oid
							break
						}
					}
					vars = append(vars, next)
				default:
					pdu, ok := objects[name]
					if !ok {
						pdu = gosnmp.SnmpPDU{Type: gosnmp.NoSuchObject}
					}
					pdu.Name = "." + name
					vars = append(vars, pdu)
				}
			}
			resp := &gosnmp.SnmpPacket{
				Version:   req.Version,
				Community: req.Community,
				PDUType:   gosnmp.GetResponse,
				RequestID: req.RequestID,
				Variables: vars,
			}
			out, err := resp.MarshalMsg()
			if err != nil {
				continue
			}
			conn.WriteTo(out, addr)
		}
	}()
	return conn.LocalAddr().String()
}

func testObjects() map[string]gosnmp.SnmpPDU {
	return map[string]gosnmp.SnmpPDU{
		EnterpriseOID + ".1.3.9.0":   {Type: gosnmp.Integer, Value: 12},
		EnterpriseOID + ".1.4.4.7.0": {Type: gosnmp.Integer, Value: 3456},
		EnterpriseOID + ".1.1.3.3.0": {Type: gosnmp.OctetString, Value: []byte{0x01, 0x15, 'C', 'N', '1', '2'}},
	}
}

func TestClientGet(t *testing.T) {
	addr := fakeAgent(t, testObjects())
	c, err := New(addr, config.SNMPConfig{Version: "2c", TimeoutMs: 1000}, nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	ctx := context.Background()
	if err := c.Connect(ctx); err != nil {
		t.Fatalf("Connect: %v", err)
	}
	defer c.Close()

	values, err := c.Get(ctx, "1.3.9.0", "1.1.3.3.0", "1.9.9.9.0")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if len(values) != 3 {
		t.Fatalf("got %d values, want 3", len(values))
	}
	if values[0].Text != "12" || values[0].Name != "Paper jams" {
		t.Errorf("values[0] = %+v", values[0])
	}
	if values[1].Type != tags.PMLTypeString || values[1].Text != `[8U] "CN12"` {
		t.Errorf("values[1] = %+v", values[1])
	}
	if !values[2].Missing {
		t.Errorf("values[2] should be missing: %+v", values[2])
	}
}

func TestClientWalkV1(t *testing.T) {
	addr := fakeAgent(t, testObjects())
	c, err := New(addr, config.SNMPConfig{Version: "1", TimeoutMs: 1000}, nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	ctx := context.Background()
	if err := c.Connect(ctx); err != nil {
		t.Fatalf("Connect: %v", err)
	}
	defer c.Close()

	values, err := c.Walk(ctx, "1.4")
	if err != nil {
		t.Fatalf("Walk: %v", err)
	}
	if len(values) != 1 || values[0].OID != "1.4.4.7.0" || values[0].Text != "3456" {
		t.Errorf("walk = %+v", values)
	}
}

func TestClientTimeoutIsFriendly(t *testing.T) {
	conn, err := net.ListenPacket("udp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	defer conn.Close()

	c, err := New(conn.LocalAddr().String(), config.SNMPConfig{TimeoutMs: 100}, nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	ctx := context.Background()
	if err := c.Connect(ctx); err != nil {
		t.Fatalf("Connect: %v", err)
	}
	defer c.Close()

	_, err = c.Get(ctx, "1.3.9.0")
	var ufe cserrors.UserFriendlyError
	if !errors.As(err, &ufe) {
		t.Fatalf("expected UserFriendlyError, got %T: %v", err, err)
	}
	if !strings.Contains(ufe.Message, "1.3.9.0") {
		t.Errorf("message = %q", ufe.Message)
	}
}

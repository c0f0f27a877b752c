// Package pmlsnmp reads HP Printer Management Language objects over SNMP,
// where they are exposed under the HP enterprise subtree.
package pmlsnmp

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// EnterpriseOID is the SNMP prefix of the PML object tree.
const EnterpriseOID = "1.3.6.1.4.1.11.2.3.9.4.2"

// Known names some commonly exposed PML objects.
var Known = map[string]string{
	"1.1.4.1.1":   "Total pages",
	"1.3.9.0":     "Paper jams",
	"1.4.1.1.0":   "Flatbed scan pages",
	"1.4.1.2.0":   "ADF scan pages",
	"1.4.1.3.0":   "Copy pages",
	"1.4.2.1.0":   "Fax pages sent",
	"1.4.2.2.0":   "Fax pages received",
	"1.4.4.6.0":   "Duplex sheets",
	"1.4.4.7.0":   "Color pages",
	"1.4.4.8.0":   "Monochrome pages",
	"1.1.3.3.0":   "Serial number",
	"1.1.2.10.0":  "Device model",
	"1.1.2.20.0":  "Firmware date code",
	"1.1.1.1.0":   "Device status",
	"1.1.2.1.0":   "Display text",
	"1.2.2.1.0":   "Page count since power on",
	"1.1.5.3.0":   "Total RAM",
	"1.1.12.1.0":  "Energy star timeout",
	"1.1.3.10.0":  "Asset number",
	"1.1.3.12.0":  "Device location",
	"1.1.3.13.0":  "Contact name",
	"1.4.3.5.4.0": "Toner level",
}

// KnownOIDs lists the PML OIDs in Known in numeric order.
func KnownOIDs() []string {
	oids := make([]string, 0, len(Known))
	for oid := range Known {
		oids = append(oids, oid)
	}
	sort.Slice(oids, func(i, j int) bool { return lessOID(oids[i], oids[j]) })
	return oids
}

// NormalizeOID validates a dotted OID and strips a leading dot.
func NormalizeOID(oid string) (string, error) {
	oid = strings.TrimPrefix(strings.TrimSpace(oid), ".")
	if oid == "" {
		return "", fmt.Errorf("empty OID")
	}
	for _, part := range strings.Split(oid, ".") {
		if _, err := strconv.ParseUint(part, 10, 32); err != nil {
			return "", fmt.Errorf("invalid OID %q", oid)
		}
	}
	return oid, nil
}

// ToSNMP maps a PML object identifier to its SNMP OID. An OID already under
// the enterprise prefix is returned normalised.
func ToSNMP(pml string) (string, error) {
	oid, err := NormalizeOID(pml)
	if err != nil {
		return "", err
	}
	if oid == EnterpriseOID || strings.HasPrefix(oid, EnterpriseOID+".") {
		return oid, nil
	}
	return EnterpriseOID + "." + oid, nil
}

// FromSNMP maps an SNMP OID back to the PML identifier; ok is false when
// the OID is outside the PML tree.
func FromSNMP(snmp string) (string, bool) {
	oid := strings.TrimPrefix(snmp, ".")
	if !strings.HasPrefix(oid, EnterpriseOID+".") {
		return "", false
	}
	return strings.TrimPrefix(oid, EnterpriseOID+"."), true
}

func lessOID(a, b string) bool {
	pa, pb := strings.Split(a, "."), strings.Split(b, ".")
	for i := 0; i < len(pa) && i < len(pb); i++ {
		x, _ := strconv.Atoi(pa[i])
		y, _ := strconv.Atoi(pb[i])
		if x != y {
			return x < y
		}
	}
	return len(pa) < len(pb)
}

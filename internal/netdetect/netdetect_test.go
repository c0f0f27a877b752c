package netdetect

import (
	"strings"
	"testing"
)

func TestIsGUIDName(t *testing.T) {
	tests := []struct {
		input    string
		expected bool
	}{
		{`\Device\NPF_{12345678-1234-1234-1234-123456789ABC}`, true},
		{`\Device\NPF_EthernetAdapter`, true},
		{`\Device\NPF_Eth`, false},
		{"eth0", false},
		{"en0", false},
		{"", false},
	}
	for _, tt := range tests {
		if got := isGUIDName(tt.input); got != tt.expected {
			t.Errorf("isGUIDName(%q) = %v, want %v", tt.input, got, tt.expected)
		}
	}
}

func TestLabel(t *testing.T) {
	tests := []struct {
		name string
		info Interface
		want string
	}{
		{"display name", Interface{Name: `\Device\NPF_{X}`, DisplayName: "Ethernet"}, "Ethernet"},
		{"description", Interface{Name: "eth0", DisplayName: "eth0", Description: "Intel PRO/1000"}, "Intel PRO/1000"},
		{"plain", Interface{Name: "eth0", DisplayName: "eth0"}, "eth0"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Label(tt.info); got != tt.want {
				t.Errorf("Label() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestAddressSummary(t *testing.T) {
	tests := []struct {
		addrs []string
		want  string
	}{
		{nil, "no addresses"},
		{[]string{"192.168.1.100"}, "192.168.1.100"},
		{[]string{"192.168.1.100", "fe80::1", "10.0.0.1"}, "192.168.1.100, fe80::1, 10.0.0.1"},
		{[]string{"192.168.1.100", "fe80::1", "10.0.0.1", "172.16.0.1", "8.8.8.8"}, "192.168.1.100, fe80::1, 10.0.0.1 (+2 more)"},
	}
	for _, tt := range tests {
		if got := AddressSummary(Interface{Addresses: tt.addrs}); got != tt.want {
			t.Errorf("AddressSummary(%v) = %q, want %q", tt.addrs, got, tt.want)
		}
	}
}

func TestPrinterHost(t *testing.T) {
	tests := map[string]string{
		"10.0.0.5":                  "10.0.0.5",
		"10.0.0.5:9100":             "10.0.0.5",
		"lp@spool.example.com/lab":  "spool.example.com",
		"lp@spool.example.com:22/q": "spool.example.com",
		"[fe80::1]:9100":            "fe80::1",
		"printer.local":             "printer.local",
	}
	for in, want := range tests {
		if got := PrinterHost(in); got != want {
			t.Errorf("PrinterHost(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestMatch(t *testing.T) {
	ifaces := []Interface{
		{Name: "eth0", DisplayName: "eth0"},
		{Name: `\Device\NPF_{ABC}`, DisplayName: "Ethernet 2", Description: "Realtek PCIe"},
	}
	if got := match(ifaces, "eth0"); got != "eth0" {
		t.Errorf("by name = %q", got)
	}
	if got := match(ifaces, "ethernet 2"); got != `\Device\NPF_{ABC}` {
		t.Errorf("by display name = %q", got)
	}
	if got := match(ifaces, "Realtek PCIe"); got != `\Device\NPF_{ABC}` {
		t.Errorf("by description = %q", got)
	}
	if got := match(ifaces, "wlan9"); got != "wlan9" {
		t.Errorf("unknown = %q", got)
	}
}

func TestResolveAutoNeedsAddress(t *testing.T) {
	_, err := Resolve("auto", "")
	if err == nil || !strings.Contains(err.Error(), "printer address") {
		t.Errorf("Resolve(auto, \"\") error = %v", err)
	}
}

func TestList(t *testing.T) {
	ifaces, err := List()
	if err != nil {
		t.Skipf("no pcap access: %v", err)
	}
	for _, i := range ifaces {
		if i.Name == "" || i.DisplayName == "" {
			t.Errorf("incomplete interface %+v", i)
		}
	}
}

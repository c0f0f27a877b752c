// Package netdetect picks the capture interface for print traffic: by
// name, by display name, or by the route to a printer.
package netdetect

import (
	"fmt"
	"net"
	"strings"

	"github.com/google/gopacket/pcap"
)

// Auto asks Resolve to use the interface that routes to the printer.
const Auto = "auto"

// Interface is a capture device.
type Interface struct {
	Name        string // pcap device name, e.g. "eth0" or "\Device\NPF_{GUID}"
	DisplayName string
	Description string
	Addresses   []string
	Up          bool
	Loopback    bool
}

// List returns every device pcap can open.
func List() ([]Interface, error) {
	devices, err := pcap.FindAllDevs()
	if err != nil {
		return nil, fmt.Errorf("find network devices: %w", err)
	}

	out := make([]Interface, 0, len(devices))
	for _, dev := range devices {
		info := Interface{Name: dev.Name, DisplayName: dev.Name, Description: dev.Description}
		for _, addr := range dev.Addresses {
			if addr.IP == nil {
				continue
			}
			info.Addresses = append(info.Addresses, addr.IP.String())
			if addr.IP.IsLoopback() {
				info.Loopback = true
			}
		}
		if iface, err := net.InterfaceByName(dev.Name); err == nil {
			info.Up = iface.Flags&net.FlagUp != 0
			if iface.Name != "" && iface.Name != dev.Name {
				info.DisplayName = iface.Name
			}
		}
		if info.Description != "" && isGUIDName(info.Name) {
			info.DisplayName = info.Description
		}
		out = append(out, info)
	}
	return out, nil
}

// isGUIDName matches Windows NPF device names.
func isGUIDName(name string) bool {
	return len(name) > 20 && (strings.Contains(name, "{") || strings.HasPrefix(name, "\\Device\\"))
}

// Label is the most readable name for i.
func Label(i Interface) string {
	if i.DisplayName != "" && i.DisplayName != i.Name {
		return i.DisplayName
	}
	if i.Description != "" && i.Description != i.Name {
		return i.Description
	}
	return i.Name
}

// AddressSummary lists up to three addresses of i.
func AddressSummary(i Interface) string {
	switch n := len(i.Addresses); {
	case n == 0:
		return "no addresses"
	case n <= 3:
		return strings.Join(i.Addresses, ", ")
	default:
		return strings.Join(i.Addresses[:3], ", ") + fmt.Sprintf(" (+%d more)", n-3)
	}
}

// Resolve maps an interface given on the command line to a pcap device
// name. Auto selects the interface routing to printerAddress; a display
// name is translated; anything else is returned unchanged.
func Resolve(name, printerAddress string) (string, error) {
	if strings.EqualFold(name, Auto) {
		if printerAddress == "" {
			return "", fmt.Errorf("--live auto needs a printer address")
		}
		return ForPrinter(printerAddress)
	}
	ifaces, err := List()
	if err != nil {
		return name, nil
	}
	return match(ifaces, name), nil
}

func match(ifaces []Interface, name string) string {
	for _, i := range ifaces {
		if i.Name == name {
			return name
		}
	}
	for _, i := range ifaces {
		if strings.EqualFold(i.DisplayName, name) || strings.EqualFold(i.Description, name) {
			return i.Name
		}
	}
	return name
}

// ForPrinter returns the interface that routes to a printer address in any
// of the network driver forms: host, host:port or [user@]host[:port][/queue].
func ForPrinter(address string) (string, error) {
	host := PrinterHost(address)
	ip := net.ParseIP(host)
	if ip == nil {
		ips, err := net.LookupIP(host)
		if err != nil {
			return "", fmt.Errorf("resolve printer host %q: %w", host, err)
		}
		if len(ips) == 0 {
			return "", fmt.Errorf("printer host %q has no addresses", host)
		}
		ip = ips[0]
		for _, cand := range ips {
			if cand.To4() != nil {
				ip = cand
				break
			}
		}
	}
	if ip.IsLoopback() {
		return loopbackInterface()
	}
	return routeInterface(ip)
}

// PrinterHost strips user, port and queue from a printer address.
func PrinterHost(address string) string {
	host := address
	if i := strings.LastIndex(host, "@"); i >= 0 {
		host = host[i+1:]
	}
	if i := strings.Index(host, "/"); i >= 0 {
		host = host[:i]
	}
	if h, _, err := net.SplitHostPort(host); err == nil {
		return h
	}
	return strings.Trim(host, "[]")
}

func loopbackInterface() (string, error) {
	ifaces, err := List()
	if err != nil {
		return "", err
	}
	for _, i := range ifaces {
		if i.Loopback {
			return i.Name, nil
		}
	}
	for _, name := range []string{"lo", "lo0", "Loopback Pseudo-Interface 1"} {
		for _, i := range ifaces {
			if i.Name == name {
				return name, nil
			}
		}
	}
	return "", fmt.Errorf("no loopback interface found")
}

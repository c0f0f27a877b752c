//go:build windows

package netdetect

import (
	"fmt"
	"net"
	"os/exec"
	"strconv"
	"strings"

	"github.com/google/gopacket/pcap"
)

// routeInterface asks Find-NetRoute for the interface index that reaches ip
// and maps it to the NPF device.
func routeInterface(ip net.IP) (string, error) {
	ps := fmt.Sprintf(`(Find-NetRoute -RemoteIPAddress '%s' | Select-Object -First 1).InterfaceIndex`, ip)
	output, err := exec.Command("powershell", "-NoProfile", "-Command", ps).Output()
	if err != nil {
		return "", fmt.Errorf("Find-NetRoute %s: %w", ip, err)
	}
	index, err := strconv.Atoi(strings.TrimSpace(string(output)))
	if err != nil {
		return "", fmt.Errorf("no route to printer %s", ip)
	}
	return deviceForIndex(index)
}

func deviceForIndex(index int) (string, error) {
	iface, err := net.InterfaceByIndex(index)
	if err != nil {
		return "", fmt.Errorf("interface %d: %w", index, err)
	}
	devices, err := pcap.FindAllDevs()
	if err != nil {
		return "", fmt.Errorf("find pcap devices: %w", err)
	}
	addrs, _ := iface.Addrs()
	for _, dev := range devices {
		if strings.Contains(strings.ToLower(dev.Description), strings.ToLower(iface.Name)) {
			return dev.Name, nil
		}
		for _, addr := range addrs {
			ipNet, ok := addr.(*net.IPNet)
			if !ok {
				continue
			}
			for _, da := range dev.Addresses {
				if da.IP != nil && da.IP.Equal(ipNet.IP) {
					return dev.Name, nil
				}
			}
		}
	}
	return "", fmt.Errorf("no capture device for interface %s", iface.Name)
}

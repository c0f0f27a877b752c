//go:build linux

package netdetect

import (
	"fmt"
	"net"
	"os/exec"
	"strings"
)

// routeInterface asks `ip route get` which device reaches ip.
func routeInterface(ip net.IP) (string, error) {
	output, err := exec.Command("ip", "route", "get", ip.String()).Output()
	if err != nil {
		return "", fmt.Errorf("ip route get %s: %w", ip, err)
	}
	return parseIPRoute(string(output), ip)
}

// parseIPRoute reads the dev field of
// "10.0.0.50 via 192.168.1.1 dev eth0 src 192.168.1.100 uid 1000".
func parseIPRoute(output string, ip net.IP) (string, error) {
	fields := strings.Fields(output)
	for i, field := range fields {
		if field == "dev" && i+1 < len(fields) {
			return fields[i+1], nil
		}
	}
	return "", fmt.Errorf("no route to printer %s", ip)
}

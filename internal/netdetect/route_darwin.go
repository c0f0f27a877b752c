//go:build darwin

package netdetect

import (
	"bufio"
	"fmt"
	"net"
	"os/exec"
	"strings"
)

// routeInterface asks `route -n get` which device reaches ip.
func routeInterface(ip net.IP) (string, error) {
	output, err := exec.Command("route", "-n", "get", ip.String()).Output()
	if err != nil {
		return "", fmt.Errorf("route get %s: %w", ip, err)
	}
	scanner := bufio.NewScanner(strings.NewReader(string(output)))
	for scanner.Scan() {
		name, ok := strings.CutPrefix(strings.TrimSpace(scanner.Text()), "interface:")
		if name = strings.TrimSpace(name); ok && name != "" {
			return name, nil
		}
	}
	return "", fmt.Errorf("no route to printer %s", ip)
}

//go:build !linux && !darwin && !windows

package netdetect

import (
	"fmt"
	"net"
)

func routeInterface(ip net.IP) (string, error) {
	return "", fmt.Errorf("route lookup for %s not supported on this platform, name the interface", ip)
}

// Package transport opens connections to printers over TCP, serial, USB or an
// SSH spool host, and moves print jobs and PJL queries across them.
package transport

import (
	"context"
	"fmt"
	"io"
	"sort"
	"sync"
	"time"
)

// Options configures how a driver opens a connection.
type Options struct {
	Timeout  time.Duration // Dial/open timeout
	BaudRate int           // Serial line speed

	// SSH spool host settings
	User               string
	KeyFile            string
	KnownHostsFile     string
	InsecureIgnoreHost bool
	Queue              string
}

// DefaultOptions returns sensible default options.
func DefaultOptions() Options {
	return Options{
		Timeout:  5 * time.Second,
		BaudRate: 9600,
	}
}

// Driver opens connections for one kind of printer attachment.
type Driver interface {
	Open(ctx context.Context, address string, opts Options) (io.ReadWriteCloser, error)
}

// DriverFunc adapts a function to a Driver.
type DriverFunc func(ctx context.Context, address string, opts Options) (io.ReadWriteCloser, error)

// Open calls f.
func (f DriverFunc) Open(ctx context.Context, address string, opts Options) (io.ReadWriteCloser, error) {
	return f(ctx, address, opts)
}

// ContextReader is implemented by connections whose reads honour context
// cancellation and deadlines.
type ContextReader interface {
	ReadContext(ctx context.Context, p []byte) (int, error)
}

// ContextWriter is implemented by connections whose writes honour context
// cancellation and deadlines.
type ContextWriter interface {
	WriteContext(ctx context.Context, p []byte) (int, error)
}

var (
	driversMu sync.RWMutex
	drivers   = make(map[string]Driver)
)

func init() {
	Register("tcp", DriverFunc(openTCP))
	Register("serial", DriverFunc(openSerial))
	Register("usb", DriverFunc(openUSB))
	Register("ssh", DriverFunc(openSSH))
}

// Register makes a driver available by name. It panics on a nil driver or a
// duplicate name.
func Register(name string, driver Driver) {
	driversMu.Lock()
	defer driversMu.Unlock()
	if driver == nil {
		panic("transport: Register driver is nil")
	}
	if _, dup := drivers[name]; dup {
		panic("transport: Register called twice for driver " + name)
	}
	drivers[name] = driver
}

// Drivers lists registered driver names in order.
func Drivers() []string {
	driversMu.RLock()
	defer driversMu.RUnlock()
	names := make([]string, 0, len(drivers))
	for name := range drivers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Open connects with the named driver.
func Open(ctx context.Context, name, address string, opts Options) (io.ReadWriteCloser, error) {
	driversMu.RLock()
	driver, ok := drivers[name]
	driversMu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("unknown driver %q", name)
	}
	return driver.Open(ctx, address, opts)
}

package transport

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/goburrow/serial"
)

// serialPoll bounds each blocking read so cancellation is noticed.
const serialPoll = 200 * time.Millisecond

type serialConn struct {
	serial.Port
}

func serialConfig(address string, opts Options) *serial.Config {
	baud := opts.BaudRate
	if baud <= 0 {
		baud = 9600
	}
	return &serial.Config{
		Address:  address,
		BaudRate: baud,
		DataBits: 8,
		StopBits: 1,
		Parity:   "N",
		Timeout:  serialPoll,
	}
}

func openSerial(ctx context.Context, address string, opts Options) (io.ReadWriteCloser, error) {
	if address == "" {
		return nil, fmt.Errorf("serial device path is required")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	port, err := serial.Open(serialConfig(address, opts))
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", address, err)
	}
	return &serialConn{Port: port}, nil
}

// ReadContext polls the port until data arrives or ctx ends.
func (c *serialConn) ReadContext(ctx context.Context, p []byte) (int, error) {
	for {
		n, err := c.Port.Read(p)
		if n > 0 || (err != nil && !errors.Is(err, serial.ErrTimeout)) {
			return n, err
		}
		if err := ctx.Err(); err != nil {
			return 0, err
		}
	}
}

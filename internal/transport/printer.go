package transport

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"time"

	"github.com/tturner/pclscope/internal/config"
	"github.com/tturner/pclscope/internal/errors"
	"github.com/tturner/pclscope/internal/logging"
)

// Printer is an open connection to a configured printer.
type Printer struct {
	Name    string
	Driver  string
	Address string
	Timeout time.Duration

	conn   io.ReadWriteCloser
	logger *logging.Logger
}

// OptionsFromConfig maps a printer entry to driver options.
func OptionsFromConfig(p config.PrinterConfig) Options {
	opts := DefaultOptions()
	if p.TimeoutMs > 0 {
		opts.Timeout = time.Duration(p.TimeoutMs) * time.Millisecond
	}
	if p.BaudRate > 0 {
		opts.BaudRate = p.BaudRate
	}
	opts.User = p.User
	opts.KeyFile = p.KeyFile
	opts.KnownHostsFile = p.KnownHosts
	opts.InsecureIgnoreHost = p.InsecureHostKey
	opts.Queue = p.Queue
	return opts
}

// Dial opens the printer described by p. Errors are user-facing.
func Dial(ctx context.Context, p config.PrinterConfig, logger *logging.Logger) (*Printer, error) {
	if logger == nil {
		logger = logging.Nop()
	}
	opts := OptionsFromConfig(p)
	address := p.Address
	if p.Driver == config.DriverTCP {
		address = config.WithDefaultPort(address, DefaultRawPort)
	}

	start := time.Now()
	conn, err := Open(ctx, p.Driver, address, opts)
	if err != nil {
		logger.LogTransfer("open", p.Driver, address, 0, time.Since(start), err)
		return nil, errors.WrapPrinterError(err, p.Driver, address)
	}
	logger.Verbose("connected to %s (%s %s) in %s", p.Name, p.Driver, address, time.Since(start).Round(time.Millisecond))
	return &Printer{
		Name:    p.Name,
		Driver:  p.Driver,
		Address: address,
		Timeout: opts.Timeout,
		conn:    conn,
		logger:  logger,
	}, nil
}

// NewPrinter wraps an existing connection.
func NewPrinter(name, driver, address string, conn io.ReadWriteCloser, logger *logging.Logger) *Printer {
	if logger == nil {
		logger = logging.Nop()
	}
	return &Printer{
		Name:    name,
		Driver:  driver,
		Address: address,
		Timeout: DefaultOptions().Timeout,
		conn:    conn,
		logger:  logger,
	}
}

// SendJob sends a print job read from r.
func (p *Printer) SendJob(ctx context.Context, r io.Reader, total int64, progress func(done, total int64)) (int64, error) {
	start := time.Now()
	n, err := Send(ctx, p.conn, r, total, progress)
	p.logger.LogTransfer("send", p.Driver, p.Address, n, time.Since(start), err)
	if err != nil {
		return n, errors.WrapPrinterError(err, p.Driver, p.Address)
	}
	return n, nil
}

// Query sends PJL commands and collects one reply per command. A reply
// timeout returns the partial replies with the error.
func (p *Printer) Query(ctx context.Context, commands ...string) ([]byte, error) {
	if _, ok := p.conn.(ContextReader); !ok {
		return nil, errors.WrapPrinterError(fmt.Errorf("%s driver: %w", p.Driver, ErrNoReadback), p.Driver, p.Address)
	}
	query := BuildQuery(commands...)
	p.logger.LogHex("PJL query", query)

	ctx, cancel := context.WithTimeout(ctx, p.Timeout)
	defer cancel()

	start := time.Now()
	if _, err := Send(ctx, p.conn, bytes.NewReader(query), int64(len(query)), nil); err != nil {
		p.logger.LogTransfer("query", p.Driver, p.Address, 0, time.Since(start), err)
		return nil, errors.WrapPrinterError(err, p.Driver, p.Address)
	}
	raw, err := ReadResponses(ctx, p.conn, len(commands))
	p.logger.LogTransfer("reply", p.Driver, p.Address, int64(len(raw)), time.Since(start), err)
	p.logger.LogHex("PJL reply", raw)
	if err != nil {
		return raw, errors.WrapPrinterError(fmt.Errorf("read PJL reply: %w", err), p.Driver, p.Address)
	}
	return raw, nil
}

// Status queries the printer's id and status.
func (p *Printer) Status(ctx context.Context) (*Status, []byte, error) {
	raw, err := p.Query(ctx, StatusCommands...)
	if err != nil && len(raw) == 0 {
		return nil, raw, err
	}
	st, perr := ParseStatus(raw)
	if perr != nil {
		if err != nil {
			return nil, raw, err
		}
		return nil, raw, perr
	}
	return st, raw, nil
}

// Close releases the connection.
func (p *Printer) Close() error {
	if p.conn == nil {
		return nil
	}
	err := p.conn.Close()
	p.conn = nil
	return err
}

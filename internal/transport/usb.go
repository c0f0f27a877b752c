package transport

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/google/gousb"
	"github.com/tturner/pclscope/internal/config"
)

// usbPrinter is a claimed printer-class interface with its bulk endpoints.
// Printers without a bulk IN endpoint are write-only.
type usbPrinter struct {
	mu     sync.Mutex
	input  *gousb.InEndpoint
	output *gousb.OutEndpoint
	done   func()
}

func openUSB(ctx context.Context, address string, opts Options) (io.ReadWriteCloser, error) {
	vid, pid, err := config.ParseUSBID(address)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	usbctx := gousb.NewContext()
	dev, err := usbctx.OpenDeviceWithVIDPID(gousb.ID(vid), gousb.ID(pid))
	if err != nil || dev == nil {
		usbctx.Close()
		if err == nil {
			err = fmt.Errorf("USB device %04x:%04x not found", vid, pid)
		}
		return nil, err
	}
	fail := func(err error) (io.ReadWriteCloser, error) {
		dev.Close()
		usbctx.Close()
		return nil, err
	}

	if err := dev.SetAutoDetach(true); err != nil {
		return fail(fmt.Errorf("set auto detach kernel driver: %w", err))
	}

	cfgNum, setting, ok := findPrinterInterface(dev.Desc)
	if !ok {
		return fail(fmt.Errorf("USB device %04x:%04x has no printer-class interface", vid, pid))
	}
	cfg, err := dev.Config(cfgNum)
	if err != nil {
		return fail(fmt.Errorf("select configuration %d: %w", cfgNum, err))
	}
	intf, err := cfg.Interface(setting.Number, setting.Alternate)
	if err != nil {
		cfg.Close()
		return fail(fmt.Errorf("claim interface %d: %w", setting.Number, err))
	}

	p := &usbPrinter{done: func() {
		intf.Close()
		cfg.Close()
		dev.Close()
		usbctx.Close()
	}}
	for _, ep := range setting.Endpoints {
		if ep.TransferType != gousb.TransferTypeBulk {
			continue
		}
		switch {
		case ep.Direction == gousb.EndpointDirectionOut && p.output == nil:
			p.output, err = intf.OutEndpoint(ep.Number)
		case ep.Direction == gousb.EndpointDirectionIn && p.input == nil:
			p.input, err = intf.InEndpoint(ep.Number)
		}
		if err != nil {
			p.done()
			return nil, fmt.Errorf("open endpoint %s: %w", ep, err)
		}
	}
	if p.output == nil {
		p.done()
		return nil, fmt.Errorf("USB printer %04x:%04x has no bulk OUT endpoint", vid, pid)
	}
	return p, nil
}

// findPrinterInterface picks the first printer-class alternate setting,
// preferring the bidirectional protocol.
func findPrinterInterface(desc *gousb.DeviceDesc) (int, gousb.InterfaceSetting, bool) {
	var best gousb.InterfaceSetting
	bestCfg, found := 0, false
	for num, cfg := range desc.Configs {
		for _, intf := range cfg.Interfaces {
			for _, alt := range intf.AltSettings {
				if alt.Class != gousb.ClassPrinter {
					continue
				}
				if !found || (alt.Protocol == 2 && best.Protocol != 2) {
					best, bestCfg, found = alt, num, true
				}
			}
		}
	}
	return bestCfg, best, found
}

func (p *usbPrinter) Write(b []byte) (int, error) {
	return p.WriteContext(context.Background(), b)
}

func (p *usbPrinter) WriteContext(ctx context.Context, b []byte) (int, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.output == nil {
		return 0, io.ErrClosedPipe
	}
	return p.output.WriteContext(ctx, b)
}

func (p *usbPrinter) Read(b []byte) (int, error) {
	return p.ReadContext(context.Background(), b)
}

func (p *usbPrinter) ReadContext(ctx context.Context, b []byte) (int, error) {
	p.mu.Lock()
	in := p.input
	p.mu.Unlock()
	if in == nil {
		return 0, fmt.Errorf("USB printer has no bulk IN endpoint")
	}
	return in.ReadContext(ctx, b)
}

func (p *usbPrinter) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.done != nil {
		p.done()
		p.done = nil
	}
	p.input, p.output = nil, nil
	return nil
}

// Package pcap pulls print jobs out of packet captures: TCP payloads sent to
// raw (9100) and LPD (515) printer ports, reassembled per connection.
package pcap

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/google/gopacket"
	"github.com/google/gopacket/layers"
	"github.com/google/gopacket/pcap"
	"github.com/google/gopacket/pcapgo"
)

// Printer ports extracted by default.
const (
	PortRaw uint16 = 9100
	PortLPD uint16 = 515
)

// DefaultPorts lists the ports extracted when none are configured.
func DefaultPorts() []uint16 { return []uint16{PortRaw, PortLPD} }

// Options controls extraction.
type Options struct {
	Ports []uint16
	// OnPacket, when set, is called with the running packet count.
	OnPacket func(packets int64, flows int)
	// Record, when set, receives every packet of a live capture that passed
	// the port filter, in pcap format.
	Record io.Writer
}

func (o Options) ports() map[uint16]bool {
	ports := o.Ports
	if len(ports) == 0 {
		ports = DefaultPorts()
	}
	m := make(map[uint16]bool, len(ports))
	for _, p := range ports {
		m[p] = true
	}
	return m
}

// Flow is the client-to-printer half of one TCP connection.
type Flow struct {
	SrcIP       string
	DstIP       string
	SrcPort     uint16
	DstPort     uint16
	First       time.Time
	Last        time.Time
	Packets     int
	Gaps        int
	Retransmits int
	// Raw is the reassembled TCP payload.
	Raw []byte
	// LPD is set for connections to the LPD port that decode as a job.
	LPD    *LPDJob
	LPDErr error
}

// Key identifies the flow as src:port->dst:port.
func (f *Flow) Key() string {
	return fmt.Sprintf("%s:%d->%s:%d", f.SrcIP, f.SrcPort, f.DstIP, f.DstPort)
}

// Name is a file-system safe form of the key.
func (f *Flow) Name() string {
	r := strings.NewReplacer(":", "_", "[", "", "]", "")
	return fmt.Sprintf("%s_%d-%s_%d", r.Replace(f.SrcIP), f.SrcPort, r.Replace(f.DstIP), f.DstPort)
}

// Payload is the print data: LPD data files when the flow decoded as an LPD
// job, otherwise the raw TCP payload.
func (f *Flow) Payload() []byte {
	if f.LPD != nil && len(f.LPD.DataFiles) > 0 {
		return f.LPD.Payload()
	}
	return f.Raw
}

// Result is the outcome of one extraction.
type Result struct {
	Format   Format
	LinkType layers.LinkType
	Packets  int64
	Flows    []*Flow
}

type flowState struct {
	flow   *Flow
	stream stream
}

type extractor struct {
	opts  Options
	ports map[uint16]bool
	flows map[string]*flowState
	order []*flowState
}

func newExtractor(opts Options) *extractor {
	return &extractor{opts: opts, ports: opts.ports(), flows: make(map[string]*flowState)}
}

func (e *extractor) packet(packet gopacket.Packet) {
	tcpLayer := packet.Layer(layers.LayerTypeTCP)
	if tcpLayer == nil {
		return
	}
	tcp, _ := tcpLayer.(*layers.TCP)
	if !e.ports[uint16(tcp.DstPort)] {
		return
	}
	netLayer := packet.NetworkLayer()
	if netLayer == nil {
		return
	}
	src, dst := netLayer.NetworkFlow().Endpoints()
	key := fmt.Sprintf("%s:%d->%s:%d", src, tcp.SrcPort, dst, tcp.DstPort)

	st, ok := e.flows[key]
	// A SYN on a flow that already carried data is a new connection
	// reusing the source port.
	if !ok || (tcp.SYN && len(st.stream.segments) > 0) {
		st = &flowState{flow: &Flow{
			SrcIP:   src.String(),
			DstIP:   dst.String(),
			SrcPort: uint16(tcp.SrcPort),
			DstPort: uint16(tcp.DstPort),
		}}
		e.flows[key] = st
		e.order = append(e.order, st)
	}

	var ts time.Time
	if md := packet.Metadata(); md != nil {
		ts = md.Timestamp
	}
	f := st.flow
	if f.First.IsZero() || ts.Before(f.First) {
		f.First = ts
	}
	if ts.After(f.Last) {
		f.Last = ts
	}
	f.Packets++
	st.stream.add(tcp.Seq, tcp.SYN, tcp.Payload)
}

func (e *extractor) finish() []*Flow {
	out := make([]*Flow, 0, len(e.order))
	for _, st := range e.order {
		f := st.flow
		f.Raw, f.Gaps, f.Retransmits = st.stream.reassemble()
		if len(f.Raw) == 0 {
			continue
		}
		if f.DstPort == PortLPD {
			f.LPD, f.LPDErr = ParseLPD(f.Raw)
		}
		out = append(out, f)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].First.Before(out[j].First) })
	return out
}

func (e *extractor) run(ctx context.Context, source *gopacket.PacketSource) (int64, error) {
	var packets int64
	for {
		if packets%1024 == 0 {
			if err := ctx.Err(); err != nil {
				return packets, err
			}
		}
		packet, err := source.NextPacket()
		if errors.Is(err, io.EOF) {
			return packets, nil
		}
		if err != nil {
			return packets, fmt.Errorf("read packet %d: %w", packets+1, err)
		}
		packets++
		e.packet(packet)
		if e.opts.OnPacket != nil {
			e.opts.OnPacket(packets, len(e.order))
		}
	}
}

// Extract reads a pcap or pcapng capture from r.
func Extract(ctx context.Context, r io.Reader, opts Options) (*Result, error) {
	reader, format, err := openReader(r)
	if err != nil {
		return nil, err
	}
	source := gopacket.NewPacketSource(reader, reader.LinkType())
	source.Lazy = true
	source.NoCopy = true

	e := newExtractor(opts)
	packets, err := e.run(ctx, source)
	res := &Result{Format: format, LinkType: reader.LinkType(), Packets: packets, Flows: e.finish()}
	if err != nil {
		return res, err
	}
	return res, nil
}

// ExtractFile opens path and extracts from it.
func ExtractFile(ctx context.Context, path string, opts Options) (*Result, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open capture: %w", err)
	}
	defer file.Close()
	return Extract(ctx, file, opts)
}

// BPFFilter builds a capture filter for traffic to the given ports.
func BPFFilter(ports []uint16) string {
	if len(ports) == 0 {
		ports = DefaultPorts()
	}
	parts := make([]string, len(ports))
	for i, p := range ports {
		parts[i] = fmt.Sprintf("tcp dst port %d", p)
	}
	return strings.Join(parts, " or ")
}

// Live captures on a network interface until ctx is cancelled, then returns
// the flows seen.
func Live(ctx context.Context, iface string, opts Options) (*Result, error) {
	handle, err := pcap.OpenLive(iface, 65535, false, 500*time.Millisecond)
	if err != nil {
		return nil, fmt.Errorf("open interface %s: %w", iface, err)
	}
	defer handle.Close()
	if err := handle.SetBPFFilter(BPFFilter(opts.Ports)); err != nil {
		return nil, fmt.Errorf("set BPF filter: %w", err)
	}

	var recorder *pcapgo.Writer
	if opts.Record != nil {
		recorder = pcapgo.NewWriter(opts.Record)
		if err := recorder.WriteFileHeader(65535, handle.LinkType()); err != nil {
			return nil, fmt.Errorf("write pcap header: %w", err)
		}
	}

	source := gopacket.NewPacketSource(handle, handle.LinkType())
	e := newExtractor(opts)
	var packets int64
	for {
		select {
		case <-ctx.Done():
			return &Result{LinkType: handle.LinkType(), Packets: packets, Flows: e.finish()}, nil
		default:
		}
		packet, err := source.NextPacket()
		if errors.Is(err, pcap.NextErrorTimeoutExpired) {
			continue
		}
		if errors.Is(err, io.EOF) {
			return &Result{LinkType: handle.LinkType(), Packets: packets, Flows: e.finish()}, nil
		}
		if err != nil {
			return nil, fmt.Errorf("capture on %s: %w", iface, err)
		}
		packets++
		if recorder != nil {
			if err := recorder.WritePacket(packet.Metadata().CaptureInfo, packet.Data()); err != nil {
				return nil, fmt.Errorf("record packet: %w", err)
			}
		}
		e.packet(packet)
		if opts.OnPacket != nil {
			opts.OnPacket(packets, len(e.order))
		}
	}
}

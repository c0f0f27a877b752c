package app

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	cserrors "github.com/tturner/pclscope/internal/errors"
	"github.com/tturner/pclscope/internal/metrics"
	"github.com/tturner/pclscope/internal/netdetect"
	"github.com/tturner/pclscope/internal/pcap"
	"github.com/tturner/pclscope/internal/progress"
	"github.com/tturner/pclscope/internal/report"
)

// ExtractOptions configures pcap-extract.
type ExtractOptions struct {
	ClassifyFlags
	// Inputs are capture files or directories searched for captures.
	Inputs []string
	// Live captures on this interface instead of reading files; "auto"
	// uses the interface that routes to Printer.
	Live     string
	Printer  string
	Duration time.Duration
	// SavePath records the filtered live packets to a pcap file.
	SavePath string
	Ports    []int
	OutDir   string
	// Preview dumps this many bytes of each flow.
	Preview     int
	Classify    bool
	MetricsFile string
}

func (e *Env) captureInterface(opts ExtractOptions) (string, error) {
	var address string
	if strings.EqualFold(opts.Live, netdetect.Auto) {
		p, err := e.ResolvePrinter(PrinterFlags{Printer: opts.Printer})
		if err != nil {
			return "", err
		}
		address = p.Address
	}
	iface, err := netdetect.Resolve(opts.Live, address)
	if err != nil {
		return "", cserrors.WrapCaptureError(err, opts.Live)
	}
	if iface != opts.Live {
		e.Logger.Info("capture interface %s for %s", iface, opts.Live)
	}
	return iface, nil
}

// ListInterfaces prints the capture devices.
func ListInterfaces(w io.Writer) error {
	ifaces, err := netdetect.List()
	if err != nil {
		return cserrors.WrapCaptureError(err, "interfaces")
	}
	for _, i := range ifaces {
		state := "down"
		if i.Up {
			state = "up"
		}
		if i.Loopback {
			state += ", loopback"
		}
		fmt.Fprintf(w, "%-24s %-28s %-14s %s\n", i.Name, netdetect.Label(i), state, netdetect.AddressSummary(i))
	}
	return nil
}

// ExtractPCAP pulls print jobs out of captures and reports each flow.
func ExtractPCAP(ctx context.Context, env *Env, opts ExtractOptions, stdout io.Writer) error {
	ports := opts.Ports
	if len(ports) == 0 {
		ports = env.Config.Capture.Ports
	}
	popts := pcap.Options{}
	for _, p := range ports {
		if p <= 0 || p > 65535 {
			return fmt.Errorf("invalid port %d", p)
		}
		popts.Ports = append(popts.Ports, uint16(p))
	}

	rec, err := env.newRecorder(opts.MetricsFile)
	if err != nil {
		return err
	}
	defer rec.close()

	if opts.Live != "" {
		iface, err := env.captureInterface(opts)
		if err != nil {
			return err
		}
		opts.Live = iface
		if opts.Duration > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, opts.Duration)
			defer cancel()
		}
		env.Logger.Info("capturing on %s (%s), interrupt to stop", opts.Live, pcap.BPFFilter(popts.Ports))
		popts.OnPacket = packetProgress("Capturing")
		if opts.SavePath != "" {
			f, err := os.Create(opts.SavePath)
			if err != nil {
				return fmt.Errorf("create capture file: %w", err)
			}
			defer f.Close()
			popts.Record = f
		}
		start := time.Now()
		res, err := pcap.Live(ctx, opts.Live, popts)
		rec.record(extractMetric("live:"+opts.Live, res, time.Since(start), err))
		if err != nil {
			return cserrors.WrapCaptureError(err, opts.Live)
		}
		return reportFlows(ctx, env, opts, "live-"+opts.Live, res, stdout)
	}

	files, err := collectCaptures(opts.Inputs)
	if err != nil {
		return err
	}
	for _, path := range files {
		popts.OnPacket = packetProgress("Reading " + filepath.Base(path))
		start := time.Now()
		res, err := pcap.ExtractFile(ctx, path, popts)
		rec.record(extractMetric(path, res, time.Since(start), err))
		if err != nil {
			return cserrors.WrapCaptureError(err, path)
		}
		env.Logger.Verbose("%s: %s, %d packets, %d flows", path, res.Format, res.Packets, len(res.Flows))
		if err := reportFlows(ctx, env, opts, strings.TrimSuffix(filepath.Base(path), filepath.Ext(path)), res, stdout); err != nil {
			return err
		}
	}
	return nil
}

func collectCaptures(inputs []string) ([]string, error) {
	if len(inputs) == 0 {
		return nil, fmt.Errorf("no capture files given")
	}
	var files []string
	for _, in := range inputs {
		info, err := os.Stat(in)
		if err != nil {
			return nil, fmt.Errorf("stat %s: %w", in, err)
		}
		if !info.IsDir() {
			files = append(files, in)
			continue
		}
		found, err := pcap.CollectPcapFiles(in)
		if err != nil {
			return nil, err
		}
		if len(found) == 0 {
			return nil, fmt.Errorf("no .pcap or .pcapng files under %s", in)
		}
		files = append(files, found...)
	}
	return files, nil
}

func packetProgress(label string) func(int64, int) {
	if !progress.IsTerminal(os.Stderr) {
		return nil
	}
	p := progress.NewSimpleProgress(label, "packets", 250*time.Millisecond)
	return func(packets int64, flows int) {
		p.Update(packets, fmt.Sprintf("%d flows", flows))
	}
}

func extractMetric(source string, res *pcap.Result, elapsed time.Duration, err error) metrics.Metric {
	m := metrics.Metric{
		Operation:  metrics.OperationExtract,
		Source:     source,
		Success:    err == nil,
		DurationMs: float64(elapsed.Microseconds()) / 1000,
	}
	if err != nil {
		m.Error = err.Error()
		return m
	}
	for _, f := range res.Flows {
		m.Bytes += int64(len(f.Payload()))
		m.Warnings += f.Gaps
	}
	m.Rows = len(res.Flows)
	return m
}

func reportFlows(ctx context.Context, env *Env, opts ExtractOptions, name string, res *pcap.Result, w io.Writer) error {
	fmt.Fprintf(w, "%s: %s packets, %d print flows\n", name, humanize.Comma(res.Packets), len(res.Flows))

	var paths []string
	if opts.OutDir != "" && len(res.Flows) > 0 {
		var err error
		paths, err = pcap.WriteFlows(opts.OutDir, name+"_", res.Flows)
		if err != nil {
			return err
		}
	}

	for i, f := range res.Flows {
		payload := f.Payload()
		fmt.Fprintf(w, "  %s  %d packets  %s", f.Key(), f.Packets, humanize.IBytes(uint64(len(payload))))
		if f.Gaps > 0 || f.Retransmits > 0 {
			fmt.Fprintf(w, "  gaps=%d retransmits=%d", f.Gaps, f.Retransmits)
		}
		fmt.Fprintln(w)
		if f.LPD != nil {
			names := make([]string, len(f.LPD.DataFiles))
			for j, df := range f.LPD.DataFiles {
				names[j] = df.Name
			}
			fmt.Fprintf(w, "    LPD queue %q, data files: %s\n", f.LPD.Queue, strings.Join(names, ", "))
		}
		if f.LPDErr != nil {
			fmt.Fprintf(w, "    LPD: %v\n", f.LPDErr)
		}
		if i < len(paths) {
			fmt.Fprintf(w, "    wrote %s\n", paths[i])
		}
		if opts.Preview > 0 {
			for _, line := range strings.Split(strings.TrimRight(pcap.Preview(f, opts.Preview), "\n"), "\n") {
				fmt.Fprintf(w, "    %s\n", line)
			}
		}
		if opts.Classify && len(payload) > 0 {
			copts, err := env.ClassifyOptions(opts.ClassifyFlags)
			if err != nil {
				return err
			}
			a, err := env.Classify(ctx, f.Name(), payload, copts, false)
			if err != nil {
				return err
			}
			r := report.FromResult(f.Name(), a.Result, nil, 0)
			parts := make([]string, 0, len(r.Dialects))
			for _, d := range report.SortedDialects(r.Dialects) {
				parts = append(parts, fmt.Sprintf("%s %d", d, r.Dialects[d]))
			}
			fmt.Fprintf(w, "    start %s, %d rows (%s), %d warnings, %d errors\n",
				r.Start, len(r.Rows), strings.Join(parts, ", "), r.Warnings, r.Errors)
		}
	}
	return nil
}

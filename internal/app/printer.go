package app

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/tturner/pclscope/internal/config"
	"github.com/tturner/pclscope/internal/metrics"
	"github.com/tturner/pclscope/internal/progress"
	"github.com/tturner/pclscope/internal/pstream/tags"
	"github.com/tturner/pclscope/internal/report"
	"github.com/tturner/pclscope/internal/transport"
	"github.com/tturner/pclscope/internal/tui"
)

// PrinterFlags select a printer by configured name or by driver and address.
type PrinterFlags struct {
	Printer   string
	Driver    string
	Address   string
	TimeoutMs int
}

// ResolvePrinter returns the printer to talk to. An explicit address wins
// over a configured name; with neither, a single configured printer is used.
func (e *Env) ResolvePrinter(f PrinterFlags) (config.PrinterConfig, error) {
	var p config.PrinterConfig
	switch {
	case f.Address != "":
		p = config.PrinterConfig{Name: f.Address, Driver: f.Driver, Address: f.Address, TimeoutMs: 5000}
		if p.Driver == "" {
			p.Driver = config.DriverTCP
		}
		confirm := true
		p.Confirm = &confirm
	case f.Printer != "":
		cp, ok := e.Config.Printer(f.Printer)
		if !ok {
			return p, fmt.Errorf("no printer named %q in %s", f.Printer, e.ConfigPath)
		}
		p = *cp
	case len(e.Config.Printers) == 1:
		p = e.Config.Printers[0]
	case len(e.Config.Printers) == 0:
		return p, fmt.Errorf("no printer given: use --address or add one to %s", e.ConfigPath)
	default:
		return p, fmt.Errorf("%d printers configured, choose one with --printer", len(e.Config.Printers))
	}
	if f.TimeoutMs > 0 {
		p.TimeoutMs = f.TimeoutMs
	}
	return p, nil
}

func (e *Env) printerNames() []string {
	names := make([]string, len(e.Config.Printers))
	for i, p := range e.Config.Printers {
		names[i] = p.Name
	}
	return names
}

// ConfirmFunc asks the user before a job is sent.
type ConfirmFunc func(req *tui.SendRequest, printers []string) (bool, error)

// SendOptions configures the send command.
type SendOptions struct {
	PrinterFlags
	ClassifyFlags
	Files []string
	// Yes skips the confirmation prompt.
	Yes         bool
	MetricsFile string
}

// Send transmits each file to the printer, asking first unless disabled.
func Send(ctx context.Context, env *Env, opts SendOptions, confirm ConfirmFunc, stdout io.Writer) error {
	if len(opts.Files) == 0 {
		return fmt.Errorf("no files to send")
	}
	if err := checkInputs(opts.Files); err != nil {
		return err
	}
	target, err := env.ResolvePrinter(opts.PrinterFlags)
	if err != nil {
		return err
	}
	rec, err := env.newRecorder(opts.MetricsFile)
	if err != nil {
		return err
	}
	defer rec.close()

	for _, file := range opts.Files {
		data, err := ReadInput(file, os.Stdin)
		if err != nil {
			return err
		}

		ask := !opts.Yes && (target.Confirm == nil || *target.Confirm)
		if ask {
			if confirm == nil {
				return fmt.Errorf("confirmation required: pass --yes to send without asking")
			}
			req := &tui.SendRequest{
				Printer:  target.Name,
				Address:  target.Address,
				File:     file,
				Size:     int64(len(data)),
				Dialects: env.dialectSummary(ctx, file, data, opts.ClassifyFlags),
			}
			ok, err := confirm(req, env.printerNames())
			if err != nil {
				return err
			}
			if !ok {
				fmt.Fprintf(stdout, "Skipped %s\n", file)
				continue
			}
			if req.Printer != target.Name {
				if target, err = env.ResolvePrinter(PrinterFlags{Printer: req.Printer}); err != nil {
					return err
				}
			}
		}

		if err := sendOne(ctx, env, target, file, data, opts.Progress, rec, stdout); err != nil {
			return err
		}
	}
	return nil
}

func sendOne(ctx context.Context, env *Env, target config.PrinterConfig, file string, data []byte, showProgress bool, rec *recorder, stdout io.Writer) error {
	p, err := transport.Dial(ctx, target, env.Logger)
	if err != nil {
		rec.record(metrics.Metric{Operation: metrics.OperationSend, Source: file, Target: target.Address, Error: err.Error()})
		return err
	}
	defer p.Close()

	var cb func(done, total int64)
	var bar *progress.ProgressBar
	if showProgress {
		bar = progress.ForTerminal(int64(len(data)), "Sending "+file)
		cb = bar.Callback()
	}
	start := time.Now()
	n, err := p.SendJob(ctx, bytes.NewReader(data), int64(len(data)), cb)
	elapsed := time.Since(start)
	if bar != nil {
		bar.Finish()
	}

	m := metrics.Metric{
		Operation:  metrics.OperationSend,
		Source:     file,
		Target:     target.Driver + ":" + target.Address,
		Bytes:      n,
		Success:    err == nil,
		DurationMs: float64(elapsed.Microseconds()) / 1000,
	}
	if err != nil {
		m.Error = err.Error()
	}
	rec.record(m)
	if err != nil {
		return err
	}
	fmt.Fprintf(stdout, "Sent %s (%s) to %s in %s\n", file, humanize.IBytes(uint64(n)), target.Name, elapsed.Round(time.Millisecond))
	return nil
}

// dialectSummary classifies data quietly and lists the languages found.
func (e *Env) dialectSummary(ctx context.Context, source string, data []byte, f ClassifyFlags) string {
	copts, err := e.ClassifyOptions(f)
	if err != nil {
		return ""
	}
	copts.IncludeText = false
	a, err := e.Classify(ctx, source, data, copts, false)
	if err != nil {
		return ""
	}
	var parts []string
	for _, d := range tags.Dialects() {
		if n := a.Result.Dialects[d]; n > 0 {
			parts = append(parts, fmt.Sprintf("%s %d", d, n))
		}
	}
	summary := strings.Join(parts, ", ")
	if a.Result.Errors > 0 {
		summary += fmt.Sprintf(" (%d error rows)", a.Result.Errors)
	}
	return summary
}

// StatusOptions configures the status command.
type StatusOptions struct {
	PrinterFlags
	// Commands replaces the status query with arbitrary PJL commands.
	Commands    []string
	Format      string
	Raw         bool
	Classify    bool
	MetricsFile string
}

// StatusReport is the JSON form of a status reply.
type StatusReport struct {
	Printer  string            `json:"printer"`
	Address  string            `json:"address"`
	ID       string            `json:"id,omitempty"`
	Code     int               `json:"code"`
	Category string            `json:"category"`
	Display  string            `json:"display,omitempty"`
	Online   bool              `json:"online"`
	Fields   map[string]string `json:"fields,omitempty"`
	Raw      string            `json:"raw,omitempty"`
}

// Status queries a printer over PJL and prints its reply.
func Status(ctx context.Context, env *Env, opts StatusOptions, stdout io.Writer) error {
	target, err := env.ResolvePrinter(opts.PrinterFlags)
	if err != nil {
		return err
	}
	rec, err := env.newRecorder(opts.MetricsFile)
	if err != nil {
		return err
	}
	defer rec.close()

	p, err := transport.Dial(ctx, target, env.Logger)
	if err != nil {
		return err
	}
	defer p.Close()

	start := time.Now()
	var (
		st  *transport.Status
		raw []byte
	)
	if len(opts.Commands) > 0 {
		raw, err = p.Query(ctx, opts.Commands...)
	} else {
		st, raw, err = p.Status(ctx)
	}
	m := metrics.Metric{
		Operation:  metrics.OperationStatus,
		Target:     target.Driver + ":" + target.Address,
		Bytes:      int64(len(raw)),
		Success:    err == nil,
		DurationMs: float64(time.Since(start).Microseconds()) / 1000,
	}
	if err != nil {
		m.Error = err.Error()
	}
	rec.record(m)
	if err != nil {
		return err
	}

	if st == nil {
		for _, resp := range transport.SplitResponses(raw) {
			fmt.Fprintln(stdout, strings.TrimRight(string(resp), "\f\r\n"))
		}
	} else if err := writeStatus(stdout, target, st, raw, opts); err != nil {
		return err
	}

	if opts.Classify {
		copts, err := env.ClassifyOptions(ClassifyFlags{Dialect: "pjl"})
		if err != nil {
			return err
		}
		a, err := env.Classify(ctx, target.Name, raw, copts, false)
		if err != nil {
			return err
		}
		fmt.Fprintln(stdout)
		r := report.FromResult(target.Name, a.Result, nil, 0)
		return report.WriteRowsText(stdout, r.Rows, report.TextOptions{Color: isTerminal(stdout)})
	}
	return nil
}

func writeStatus(w io.Writer, target config.PrinterConfig, st *transport.Status, raw []byte, opts StatusOptions) error {
	if opts.Format == FormatJSON {
		r := StatusReport{
			Printer:  target.Name,
			Address:  target.Address,
			ID:       st.ID,
			Code:     st.Code,
			Category: st.Category(),
			Display:  st.Display,
			Online:   st.Online,
			Fields:   st.Fields,
		}
		if opts.Raw {
			r.Raw = string(raw)
		}
		return report.WriteJSON(w, r)
	}

	fmt.Fprintf(w, "Printer:  %s (%s %s)\n", target.Name, target.Driver, target.Address)
	if st.ID != "" {
		fmt.Fprintf(w, "Model:    %s\n", st.ID)
	}
	fmt.Fprintf(w, "Status:   %d %s\n", st.Code, st.Category())
	if st.Display != "" {
		fmt.Fprintf(w, "Display:  %s\n", st.Display)
	}
	fmt.Fprintf(w, "Online:   %t\n", st.Online)
	keys := make([]string, 0, len(st.Fields))
	for k := range st.Fields {
		switch k {
		case "CODE", "DISPLAY", "ONLINE":
			continue
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(w, "%-9s %s\n", strings.ToLower(k)+":", st.Fields[k])
	}
	if opts.Raw {
		fmt.Fprintf(w, "\n%s", raw)
	}
	return nil
}

package app

import (
	"context"
	"encoding/hex"
	"fmt"
	"io"
	"net"
	"strings"
	"time"

	"github.com/tturner/pclscope/internal/metrics"
	"github.com/tturner/pclscope/internal/pmlsnmp"
	"github.com/tturner/pclscope/internal/pstream/classify"
	"github.com/tturner/pclscope/internal/pstream/tags"
	"github.com/tturner/pclscope/internal/report"
)

// PMLOptions configures pml-query.
type PMLOptions struct {
	// Target is host[:port]; when empty the printer's address host is used.
	Target  string
	Printer string
	OIDs    []string
	// Walk lists every object under this PML OID.
	Walk string
	// Known queries the built-in list of common objects.
	Known     bool
	Community string
	Version   string
	// Decode is a hex PML message decoded locally, no device involved.
	Decode      string
	Format      string
	MetricsFile string
}

// PMLValue is the JSON form of one object.
type PMLValue struct {
	OID     string `json:"oid"`
	Name    string `json:"name,omitempty"`
	Type    string `json:"type"`
	Value   string `json:"value"`
	Missing bool   `json:"missing,omitempty"`
}

// PMLQuery reads PML objects over SNMP, or decodes a captured PML message.
func PMLQuery(ctx context.Context, env *Env, opts PMLOptions, stdout io.Writer) error {
	if opts.Decode != "" {
		return decodePML(opts.Decode, opts.Format, stdout)
	}

	oids := opts.OIDs
	if opts.Known {
		oids = append(oids, pmlsnmp.KnownOIDs()...)
	}
	if len(oids) == 0 && opts.Walk == "" {
		return fmt.Errorf("give PML OIDs, --walk or --known")
	}

	target := opts.Target
	if target == "" {
		p, err := env.ResolvePrinter(PrinterFlags{Printer: opts.Printer})
		if err != nil {
			return err
		}
		target = hostOf(p.Address)
	}
	cfg := env.Config.SNMP
	if opts.Community != "" {
		cfg.Community = opts.Community
	}
	if opts.Version != "" {
		cfg.Version = opts.Version
	}

	rec, err := env.newRecorder(opts.MetricsFile)
	if err != nil {
		return err
	}
	defer rec.close()

	client, err := pmlsnmp.New(target, cfg, env.Logger)
	if err != nil {
		return err
	}
	if err := client.Connect(ctx); err != nil {
		return err
	}
	defer client.Close()

	start := time.Now()
	var values []pmlsnmp.Value
	if len(oids) > 0 {
		values, err = client.Get(ctx, oids...)
	}
	if err == nil && opts.Walk != "" {
		var walked []pmlsnmp.Value
		walked, err = client.Walk(ctx, opts.Walk)
		values = append(values, walked...)
	}
	m := metrics.Metric{
		Operation:  metrics.OperationPMLQuery,
		Target:     target,
		Rows:       len(values),
		Success:    err == nil,
		DurationMs: float64(time.Since(start).Microseconds()) / 1000,
	}
	for _, v := range values {
		m.Bytes += int64(len(v.Data))
		if v.Missing {
			m.Warnings++
		}
	}
	if err != nil {
		m.Error = err.Error()
	}
	rec.record(m)
	if err != nil {
		return err
	}
	return writePMLValues(stdout, values, opts.Format)
}

// hostOf strips the port from a printer address; non-network addresses are
// returned unchanged.
func hostOf(address string) string {
	if host, _, err := net.SplitHostPort(address); err == nil {
		return host
	}
	return address
}

func writePMLValues(w io.Writer, values []pmlsnmp.Value, format string) error {
	if format == FormatJSON {
		out := make([]PMLValue, len(values))
		for i, v := range values {
			out[i] = PMLValue{OID: v.OID, Name: v.Name, Type: v.TypeName(), Value: v.Text, Missing: v.Missing}
		}
		return report.WriteJSON(w, out)
	}
	width := 10
	for _, v := range values {
		width = max(width, len(v.OID))
	}
	for _, v := range values {
		name := v.Name
		if name == "" {
			name = "-"
		}
		fmt.Fprintf(w, "%-*s  %-26s %-16s %s\n", width, v.OID, name, v.TypeName(), v.Text)
	}
	return nil
}

func decodePML(text, format string, w io.Writer) error {
	clean := strings.NewReplacer(" ", "", ":", "", "\n", "").Replace(strings.TrimSpace(text))
	data, err := hex.DecodeString(clean)
	if err != nil {
		return fmt.Errorf("decode hex: %w", err)
	}
	msg, err := classify.DecodePML(data)
	if msg == nil {
		return err
	}

	action := fmt.Sprintf("0x%02X", msg.Action)
	if d, ok := tags.Default().LookupPMLAction(msg.Action); ok {
		action = d.Mnemonic
	}
	values := make([]PMLValue, 0, len(msg.Items))
	for _, it := range msg.Items {
		typ := fmt.Sprintf("0x%02X", it.Type)
		if d, ok := tags.Default().LookupPMLDataType(it.Type); ok {
			typ = d.Mnemonic
		}
		values = append(values, PMLValue{
			OID:   fmt.Sprintf("+%d", it.Offset),
			Type:  typ,
			Value: classify.FormatPMLValue(it.Type, it.Data),
		})
	}

	if format == FormatJSON {
		out := struct {
			Action    string     `json:"action"`
			Status    string     `json:"status,omitempty"`
			Items     []PMLValue `json:"items"`
			Truncated bool       `json:"truncated,omitempty"`
		}{Action: action, Items: values, Truncated: msg.Truncated}
		if msg.HasStatus {
			out.Status = pmlStatus(msg.Status)
		}
		return report.WriteJSON(w, out)
	}
	fmt.Fprintf(w, "Action: %s\n", action)
	if msg.HasStatus {
		fmt.Fprintf(w, "Status: %s\n", pmlStatus(msg.Status))
	}
	for _, v := range values {
		fmt.Fprintf(w, "  %-5s %-16s %s\n", v.OID, v.Type, v.Value)
	}
	if msg.Truncated {
		fmt.Fprintln(w, "  (truncated)")
	}
	return err
}

func pmlStatus(b byte) string {
	if name, ok := tags.PMLStatus[b]; ok {
		return fmt.Sprintf("0x%02X %s", b, name)
	}
	return fmt.Sprintf("0x%02X", b)
}

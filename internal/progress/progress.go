package progress

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/dustin/go-humanize"
	"golang.org/x/term"
)

// ProgressBar shows how far through a print stream classification is
type ProgressBar struct {
	mu          sync.Mutex
	total       int64
	current     int64
	startTime   time.Time
	lastUpdate  time.Time
	output      io.Writer
	enabled     bool
	bytes       bool
	description string
}

// NewProgressBar creates a new progress bar counting items
func NewProgressBar(total int64, description string) *ProgressBar {
	return &ProgressBar{
		total:       total,
		startTime:   time.Now(),
		lastUpdate:  time.Now(),
		output:      os.Stderr, // Use stderr so it doesn't interfere with stdout
		enabled:     true,
		description: description,
	}
}

// NewByteProgressBar creates a progress bar that renders sizes and rates
// in bytes
func NewByteProgressBar(total int64, description string) *ProgressBar {
	p := NewProgressBar(total, description)
	p.bytes = true
	return p
}

// ForTerminal returns a byte progress bar that is enabled only when stderr
// is a terminal
func ForTerminal(total int64, description string) *ProgressBar {
	p := NewByteProgressBar(total, description)
	if !IsTerminal(os.Stderr) {
		p.Disable()
	}
	return p
}

// IsTerminal reports whether f is attached to a terminal
func IsTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

// Disable disables the progress bar
func (p *ProgressBar) Disable() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.enabled = false
}

// Enable enables the progress bar
func (p *ProgressBar) Enable() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.enabled = true
}

// Enabled reports whether the bar renders
func (p *ProgressBar) Enabled() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.enabled
}

// Update adds n to the progress
func (p *ProgressBar) Update(n int64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.current += n
	p.render()
}

// Set sets the current progress
func (p *ProgressBar) Set(n int64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.current = n
	p.render()
}

// Callback adapts the bar to a func(done, total) progress hook. A changed
// total replaces the bar's total.
func (p *ProgressBar) Callback() func(done, total int64) {
	return func(done, total int64) {
		p.mu.Lock()
		defer p.mu.Unlock()
		if total > 0 {
			p.total = total
		}
		p.current = done
		p.render()
	}
}

// render draws the bar; callers hold p.mu
func (p *ProgressBar) render() {
	if !p.enabled {
		return
	}

	// Throttle updates to avoid too much output
	now := time.Now()
	if now.Sub(p.lastUpdate) < 100*time.Millisecond && p.current < p.total {
		return
	}
	p.lastUpdate = now

	var percent float64
	if p.total > 0 {
		percent = float64(p.current) / float64(p.total) * 100
	}

	elapsed := time.Since(p.startTime)

	var eta time.Duration
	var rate float64
	if p.current > 0 && elapsed > 0 {
		rate = float64(p.current) / elapsed.Seconds()
	}
	if rate > 0 && p.total > 0 {
		remaining := float64(p.total-p.current) / rate
		eta = time.Duration(remaining * float64(time.Second))
	}

	// Build progress bar (40 characters wide)
	barWidth := 40
	filled := int(float64(barWidth) * percent / 100)
	if filled > barWidth {
		filled = barWidth
	}

	bar := make([]byte, barWidth)
	for i := 0; i < filled; i++ {
		bar[i] = '='
	}
	if filled < barWidth {
		bar[filled] = '>'
		for i := filled + 1; i < barWidth; i++ {
			bar[i] = '-'
		}
	}

	counts := fmt.Sprintf("%d/%d", p.current, p.total)
	if p.bytes {
		counts = fmt.Sprintf("%s/%s", humanize.IBytes(uint64(p.current)), humanize.IBytes(uint64(p.total)))
	}

	output := "\r"
	if p.description != "" {
		output += p.description + " "
	}
	output += fmt.Sprintf("[%s] %s (%.1f%%) | Elapsed: %s", string(bar), counts, percent, formatDuration(elapsed))
	if p.bytes && rate > 0 {
		output += fmt.Sprintf(" | %s/s", humanize.IBytes(uint64(rate)))
	}
	if eta > 0 && p.current < p.total {
		output += fmt.Sprintf(" | ETA: %s", formatDuration(eta))
	}

	fmt.Fprint(p.output, output)
}

// Finish finishes the progress bar
func (p *ProgressBar) Finish() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.enabled {
		return
	}

	p.current = p.total
	p.lastUpdate = time.Time{}
	p.render()
	fmt.Fprint(p.output, "\n") // New line after completion
}

// formatDuration formats a duration in a human-readable way
func formatDuration(d time.Duration) string {
	if d < time.Second {
		return fmt.Sprintf("%dms", d.Milliseconds())
	}
	if d < time.Minute {
		return fmt.Sprintf("%.1fs", d.Seconds())
	}
	minutes := int(d.Minutes())
	seconds := int(d.Seconds()) % 60
	return fmt.Sprintf("%dm%ds", minutes, seconds)
}

// SimpleProgress counts items of unknown total, such as packets read from a
// capture
type SimpleProgress struct {
	output      io.Writer
	enabled     bool
	description string
	unit        string
	lastUpdate  time.Time
	interval    time.Duration
}

// NewSimpleProgress creates a new simple progress indicator
func NewSimpleProgress(description, unit string, updateInterval time.Duration) *SimpleProgress {
	return &SimpleProgress{
		output:      os.Stderr,
		enabled:     IsTerminal(os.Stderr),
		description: description,
		unit:        unit,
		lastUpdate:  time.Now(),
		interval:    updateInterval,
	}
}

// Update updates the progress with a count
func (s *SimpleProgress) Update(count int64, message string) {
	if !s.enabled {
		return
	}

	now := time.Now()
	if now.Sub(s.lastUpdate) < s.interval {
		return
	}
	s.lastUpdate = now

	output := fmt.Sprintf("\r%s %s", humanize.Comma(count), s.unit)
	if s.description != "" {
		output = fmt.Sprintf("\r%s: %s %s", s.description, humanize.Comma(count), s.unit)
	}

	if message != "" {
		output += fmt.Sprintf(" | %s", message)
	}

	fmt.Fprint(s.output, output)
}

// Finish finishes the progress indicator
func (s *SimpleProgress) Finish() {
	if !s.enabled {
		return
	}
	fmt.Fprint(s.output, "\n")
}

package metrics

// Per-run metrics for classification and printer I/O

import (
	"math"
	"sort"
	"strings"
	"sync"
	"time"
)

// OperationType names what a run did
type OperationType string

const (
	OperationClassify OperationType = "CLASSIFY"
	OperationExtract  OperationType = "EXTRACT"
	OperationSend     OperationType = "SEND"
	OperationStatus   OperationType = "STATUS"
	OperationPMLQuery OperationType = "PML_QUERY"
)

// Metric is one recorded run
type Metric struct {
	Timestamp  time.Time
	Operation  OperationType
	Source     string
	Target     string
	Bytes      int64
	Rows       int
	Warnings   int
	Errors     int
	Success    bool
	DurationMs float64
	Error      string
}

// Throughput returns bytes per second, or 0 when no time was measured.
func (m Metric) Throughput() float64 {
	if m.DurationMs <= 0 {
		return 0
	}
	return float64(m.Bytes) / (m.DurationMs / 1000)
}

// Sink collects and aggregates metrics
type Sink struct {
	mu      sync.RWMutex
	metrics []Metric
	summary *Summary
}

func newSummary() *Summary {
	return &Summary{
		DurationBuckets: make(map[string]int),
		ByOperation:     make(map[OperationType]*OperationStats),
	}
}

// Summary contains aggregated statistics
type Summary struct {
	TotalRuns       int
	SuccessfulRuns  int
	FailedRuns      int
	TimeoutCount    int
	ParseErrorRuns  int
	TotalBytes      int64
	TotalRows       int
	TotalWarnings   int
	TotalErrors     int
	MinDuration     float64
	MaxDuration     float64
	AvgDuration     float64
	P50Duration     float64
	P90Duration     float64
	P95Duration     float64
	P99Duration     float64
	DurationBuckets map[string]int
	ByOperation     map[OperationType]*OperationStats
}

// OperationStats contains statistics for a specific operation type
type OperationStats struct {
	Count       int
	Success     int
	Failed      int
	Bytes       int64
	MinDuration float64
	MaxDuration float64
	AvgDuration float64
	SumDuration float64
}

// NewSink creates a new metrics sink
func NewSink() *Sink {
	return &Sink{
		metrics: make([]Metric, 0),
		summary: newSummary(),
	}
}

// Record records a new metric
func (s *Sink) Record(m Metric) {
	if m.Timestamp.IsZero() {
		m.Timestamp = time.Now().UTC()
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	s.metrics = append(s.metrics, m)
	s.updateSummary(m)
}

// GetMetrics returns a copy of all recorded metrics
func (s *Sink) GetMetrics() []Metric {
	s.mu.RLock()
	defer s.mu.RUnlock()

	metrics := make([]Metric, len(s.metrics))
	copy(metrics, s.metrics)
	return metrics
}

// GetSummary returns a copy of the aggregated summary with percentiles filled in
func (s *Sink) GetSummary() *Summary {
	s.mu.RLock()
	defer s.mu.RUnlock()

	summary := *s.summary
	summary.DurationBuckets = make(map[string]int)
	summary.ByOperation = make(map[OperationType]*OperationStats, len(s.summary.ByOperation))
	for op, stats := range s.summary.ByOperation {
		cp := *stats
		summary.ByOperation[op] = &cp
	}

	durations := make([]float64, 0, len(s.metrics))
	for _, m := range s.metrics {
		if m.Success && m.DurationMs > 0 {
			durations = append(durations, m.DurationMs)
			incrementBucket(summary.DurationBuckets, m.DurationMs)
		}
	}
	p := computePercentiles(durations)
	summary.P50Duration = p[0]
	summary.P90Duration = p[1]
	summary.P95Duration = p[2]
	summary.P99Duration = p[3]

	return &summary
}

func (s *Sink) updateSummary(m Metric) {
	sum := s.summary
	sum.TotalRuns++
	sum.TotalBytes += m.Bytes
	sum.TotalRows += m.Rows
	sum.TotalWarnings += m.Warnings
	sum.TotalErrors += m.Errors
	if m.Errors > 0 {
		sum.ParseErrorRuns++
	}

	if m.Success {
		sum.SuccessfulRuns++
	} else {
		sum.FailedRuns++
		if strings.Contains(m.Error, "timeout") || strings.Contains(m.Error, "deadline exceeded") {
			sum.TimeoutCount++
		}
	}

	if m.Success && m.DurationMs > 0 {
		if sum.MinDuration == 0 || m.DurationMs < sum.MinDuration {
			sum.MinDuration = m.DurationMs
		}
		if m.DurationMs > sum.MaxDuration {
			sum.MaxDuration = m.DurationMs
		}
		total := sum.AvgDuration * float64(sum.SuccessfulRuns-1)
		sum.AvgDuration = (total + m.DurationMs) / float64(sum.SuccessfulRuns)
	}

	op, ok := sum.ByOperation[m.Operation]
	if !ok {
		op = &OperationStats{}
		sum.ByOperation[m.Operation] = op
	}
	op.Count++
	op.Bytes += m.Bytes
	if !m.Success {
		op.Failed++
		return
	}
	op.Success++
	if m.DurationMs > 0 {
		if op.MinDuration == 0 || m.DurationMs < op.MinDuration {
			op.MinDuration = m.DurationMs
		}
		if m.DurationMs > op.MaxDuration {
			op.MaxDuration = m.DurationMs
		}
		op.SumDuration += m.DurationMs
		op.AvgDuration = op.SumDuration / float64(op.Success)
	}
}

func incrementBucket(buckets map[string]int, value float64) {
	switch {
	case value < 10:
		buckets["lt_10ms"]++
	case value < 100:
		buckets["10_100ms"]++
	case value < 1000:
		buckets["100ms_1s"]++
	case value < 10000:
		buckets["1_10s"]++
	default:
		buckets["gt_10s"]++
	}
}

func computePercentiles(values []float64) [4]float64 {
	var result [4]float64
	if len(values) == 0 {
		return result
	}
	sort.Float64s(values)
	result[0] = percentile(values, 0.50)
	result[1] = percentile(values, 0.90)
	result[2] = percentile(values, 0.95)
	result[3] = percentile(values, 0.99)
	return result
}

func percentile(sorted []float64, p float64) float64 {
	if len(sorted) == 0 {
		return 0
	}
	rank := int(math.Ceil(p*float64(len(sorted)))) - 1
	if rank < 0 {
		rank = 0
	}
	if rank >= len(sorted) {
		rank = len(sorted) - 1
	}
	return sorted[rank]
}

package infra

import (
	"sync/atomic"
	"time"
)

// Metrics provides lightweight observability without external dependencies.
// Uses atomic operations for thread-safety.
type Metrics struct {
	// Counters
	requestsTotal    atomic.Uint64
	tradesApplied    atomic.Uint64
	reportsForwarded atomic.Uint64
	mirrorSyncs      atomic.Uint64
	mirrorFailures   atomic.Uint64
	errorsTotal      atomic.Uint64

	// Gauges
	wsClients atomic.Int32
}

// RecordRequest records one handled HTTP request.
func (m *Metrics) RecordRequest() {
	m.requestsTotal.Add(1)
}

// RecordTrade records one applied buy/sell trade.
func (m *Metrics) RecordTrade() {
	m.tradesApplied.Add(1)
}

// RecordReport records one forwarded moderation report.
func (m *Metrics) RecordReport() {
	m.reportsForwarded.Add(1)
}

// RecordMirrorSync records one completed mirror push.
func (m *Metrics) RecordMirrorSync() {
	m.mirrorSyncs.Add(1)
}

// RecordMirrorFailure records one failed mirror attempt.
func (m *Metrics) RecordMirrorFailure() {
	m.mirrorFailures.Add(1)
}

// RecordError records an error occurrence.
func (m *Metrics) RecordError() {
	m.errorsTotal.Add(1)
}

// IncrementWSClients increments the connected websocket client count.
func (m *Metrics) IncrementWSClients() {
	m.wsClients.Add(1)
}

// DecrementWSClients decrements the connected websocket client count.
func (m *Metrics) DecrementWSClients() {
	m.wsClients.Add(-1)
}

// MetricsSnapshot is a point-in-time view of all metrics.
type MetricsSnapshot struct {
	RequestsTotal    uint64    `json:"requests_total"`
	TradesApplied    uint64    `json:"trades_applied"`
	ReportsForwarded uint64    `json:"reports_forwarded"`
	MirrorSyncs      uint64    `json:"mirror_syncs"`
	MirrorFailures   uint64    `json:"mirror_failures"`
	ErrorsTotal      uint64    `json:"errors_total"`
	WSClients        int32     `json:"ws_clients"`
	Timestamp        time.Time `json:"timestamp"`
}

// Snapshot returns current metrics as a snapshot.
func (m *Metrics) Snapshot() MetricsSnapshot {
	return MetricsSnapshot{
		RequestsTotal:    m.requestsTotal.Load(),
		TradesApplied:    m.tradesApplied.Load(),
		ReportsForwarded: m.reportsForwarded.Load(),
		MirrorSyncs:      m.mirrorSyncs.Load(),
		MirrorFailures:   m.mirrorFailures.Load(),
		ErrorsTotal:      m.errorsTotal.Load(),
		WSClients:        m.wsClients.Load(),
		Timestamp:        time.Now(),
	}
}

// Reset clears all metrics (for testing).
func (m *Metrics) Reset() {
	m.requestsTotal.Store(0)
	m.tradesApplied.Store(0)
	m.reportsForwarded.Store(0)
	m.mirrorSyncs.Store(0)
	m.mirrorFailures.Store(0)
	m.errorsTotal.Store(0)
	m.wsClients.Store(0)
}

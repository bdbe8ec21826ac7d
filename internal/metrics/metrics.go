// Package metrics implements C6: the engine-level atomic counters for
// throughput and latency. Per-book volume/trade-count stay on the
// book itself (they are Book aggregate statistics per spec, not
// engine-global), so this package only covers the engine half.
package metrics

import "sync/atomic"

// Engine holds the engine-wide counters aggregated into
// PerformanceMetrics. All fields are atomic so Submit can update them
// without taking any book lock.
type Engine struct {
	ordersProcessed atomic.Uint64
	totalLatencyNs  atomic.Uint64
}

// RecordSubmit accounts for one processed submission taking the given
// duration.
func (e *Engine) RecordSubmit(latencyNs uint64) {
	e.ordersProcessed.Add(1)
	e.totalLatencyNs.Add(latencyNs)
}

func (e *Engine) OrdersProcessed() uint64 {
	return e.ordersProcessed.Load()
}

func (e *Engine) TotalLatencyNs() uint64 {
	return e.totalLatencyNs.Load()
}

// AverageLatencyNs returns total_latency_ns / orders_processed, or 0
// if no orders have been processed yet.
func (e *Engine) AverageLatencyNs() uint64 {
	processed := e.ordersProcessed.Load()
	if processed == 0 {
		return 0
	}
	return e.totalLatencyNs.Load() / processed
}

// Snapshot is the read-only view returned by Engine.PerformanceMetrics.
type Snapshot struct {
	OrdersProcessed  uint64
	AverageLatencyNs uint64
	TotalVolume      uint64
	TradeCount       uint64
}

package metrics

import (
	"sync/atomic"
	"time"
)

type Collector struct {
	totalRequests   atomic.Uint64
	errorRequests   atomic.Uint64
	totalDurationMs atomic.Uint64
	projections     atomic.Uint64
	exports         atomic.Uint64
	exportRows      atomic.Uint64
	importRows      atomic.Uint64
	storeReloads    atomic.Uint64
	loadFailures    atomic.Uint64
}

func New() *Collector {
	return &Collector{}
}

func (c *Collector) Record(status int, duration time.Duration) {
	c.totalRequests.Add(1)
	if status >= 500 {
		c.errorRequests.Add(1)
	}
	c.totalDurationMs.Add(uint64(duration.Milliseconds()))
}

func (c *Collector) Projection() {
	c.projections.Add(1)
}

func (c *Collector) Export(rows int) {
	c.exports.Add(1)
	c.exportRows.Add(uint64(rows))
}

func (c *Collector) Import(rows int) {
	c.importRows.Add(uint64(rows))
}

// StoreReload counts a reload and the sources that failed during it.
func (c *Collector) StoreReload(failedSources int) {
	c.storeReloads.Add(1)
	c.loadFailures.Add(uint64(failedSources))
}

func (c *Collector) Snapshot() map[string]any {
	total := c.totalRequests.Load()
	totalMs := c.totalDurationMs.Load()
	avg := float64(0)
	if total > 0 {
		avg = float64(totalMs) / float64(total)
	}
	return map[string]any{
		"requestsTotal":      total,
		"errorsTotal":        c.errorRequests.Load(),
		"avgDurationMs":      avg,
		"totalDurationMs":    totalMs,
		"matrixProjections":  c.projections.Load(),
		"matrixExports":      c.exports.Load(),
		"exportRowsTotal":    c.exportRows.Load(),
		"importRowsTotal":    c.importRows.Load(),
		"storeReloadsTotal":  c.storeReloads.Load(),
		"sourceFailureTotal": c.loadFailures.Load(),
	}
}

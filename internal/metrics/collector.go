package metrics

import (
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// PoolStatsCollector periodically samples pool statistics.
type PoolStatsCollector struct {
	pool    *pgxpool.Pool
	metrics *Metrics
	ticker  *time.Ticker
	done    chan struct{}
}

// NewPoolStatsCollector creates a collector sampling every interval.
func NewPoolStatsCollector(pool *pgxpool.Pool, metrics *Metrics, interval time.Duration) *PoolStatsCollector {
	return &PoolStatsCollector{
		pool:    pool,
		metrics: metrics,
		ticker:  time.NewTicker(interval),
		done:    make(chan struct{}),
	}
}

// Start begins collecting metrics
func (c *PoolStatsCollector) Start() {
	go func() {
		c.metrics.UpdatePoolStats(c.pool.Stat())

		for {
			select {
			case <-c.ticker.C:
				c.metrics.UpdatePoolStats(c.pool.Stat())
			case <-c.done:
				return
			}
		}
	}()
}

// Stop stops the collector
func (c *PoolStatsCollector) Stop() {
	c.ticker.Stop()
	close(c.done)
}

package metrics

import (
	"time"
)

// FleetSource is the view of the fleet the collector samples. Implemented
// by the supervisor.
type FleetSource interface {
	Count() int
}

// Collector periodically refreshes the fleet gauges.
type Collector struct {
	fleet  FleetSource
	stopCh chan struct{}
}

// NewCollector creates a new metrics collector
func NewCollector(fleet FleetSource) *Collector {
	return &Collector{
		fleet:  fleet,
		stopCh: make(chan struct{}),
	}
}

// Start begins collecting metrics
func (c *Collector) Start() {
	ticker := time.NewTicker(10 * time.Second)
	go func() {
		// Collect immediately on start
		c.collect()

		for {
			select {
			case <-ticker.C:
				c.collect()
			case <-c.stopCh:
				ticker.Stop()
				return
			}
		}
	}()
}

// Stop stops the collector
func (c *Collector) Stop() {
	close(c.stopCh)
}

func (c *Collector) collect() {
	UniversesTotal.Set(float64(c.fleet.Count()))
}

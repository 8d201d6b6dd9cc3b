package supervisor

import (
	"time"

	"github.com/rs/zerolog"

	"github.com/theyonatan/multiverse/pkg/log"
	"github.com/theyonatan/multiverse/pkg/metrics"
)

// DefaultPumpPeriod is how often the driver pumps the intent queues.
const DefaultPumpPeriod = 100 * time.Millisecond

// Driver periodically pumps the supervisor's intent processing. It is
// the single task expected to call ProcessIntents in production.
type Driver struct {
	supervisor *Supervisor
	period     time.Duration
	logger     zerolog.Logger
	stopCh     chan struct{}
	doneCh     chan struct{}
}

// NewDriver creates a driver. A non-positive period falls back to the
// default.
func NewDriver(sup *Supervisor, period time.Duration) *Driver {
	if period <= 0 {
		period = DefaultPumpPeriod
	}
	return &Driver{
		supervisor: sup,
		period:     period,
		logger:     log.WithComponent("driver"),
		stopCh:     make(chan struct{}),
		doneCh:     make(chan struct{}),
	}
}

// Start begins the pump loop.
func (d *Driver) Start() {
	go d.run()
}

// Stop stops the pump loop and waits for it to exit.
func (d *Driver) Stop() {
	close(d.stopCh)
	<-d.doneCh
}

func (d *Driver) run() {
	defer close(d.doneCh)

	ticker := time.NewTicker(d.period)
	defer ticker.Stop()

	d.logger.Info().Dur("period", d.period).Msg("Driver started")

	for {
		select {
		case <-ticker.C:
			timer := metrics.NewTimer()
			d.supervisor.ProcessIntents()
			timer.ObserveDuration(metrics.PumpDuration)
		case <-d.stopCh:
			d.logger.Info().Msg("Driver stopped")
			return
		}
	}
}

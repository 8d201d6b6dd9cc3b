package facade

import (
	"time"

	"github.com/theyonatan/multiverse/pkg/supervisor"
	"github.com/theyonatan/multiverse/pkg/types"
)

// Facade is the thin, synchronous-looking surface front-ends use to talk
// to the fleet. It is intended to be driven from a single task; it adds
// no locking of its own on top of the supervisor's.
type Facade struct {
	supervisor *supervisor.Supervisor
	busPeriod  time.Duration
}

// New wraps a supervisor. busPeriod is how long DriveOnce yields after a
// pump so the bus loop can fan the produced entries out.
func New(sup *supervisor.Supervisor, busPeriod time.Duration) *Facade {
	if busPeriod <= 0 {
		busPeriod = supervisor.DefaultPumpPeriod
	}
	return &Facade{supervisor: sup, busPeriod: busPeriod}
}

// Create spawns a universe. Returns supervisor.ErrNameTaken when the
// name is already registered.
func (f *Facade) Create(name string) error {
	return f.supervisor.Create(name)
}

// ListNames returns the names of all live universes.
func (f *Facade) ListNames() []string {
	return f.supervisor.List()
}

// SendCommand routes a command to a universe by name. Missing names are
// tolerated and logged, never surfaced as errors; the returned bool
// reports whether the name resolved.
func (f *Facade) SendCommand(name string, cmd types.Command) bool {
	return f.supervisor.SendCommand(name, cmd)
}

// DriveOnce pumps the supervisor's intent processing once and then
// yields for the bus period.
func (f *Facade) DriveOnce() {
	f.supervisor.ProcessIntents()
	time.Sleep(f.busPeriod)
}

// ShutdownAll gracefully terminates every universe.
func (f *Facade) ShutdownAll() {
	f.supervisor.ShutdownAll()
}

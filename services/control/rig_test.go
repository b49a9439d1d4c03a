package control

import (
	"testing"
	"time"

	"fanhead-go/services/hal"
	"fanhead-go/types"
)

// newTestRig builds a controller over the simulated board with a 1 ms tick
// and a 4-tick debounce settle. Tests drive the loop by calling Tick
// directly.
func newTestRig(t *testing.T) (*hal.SimBoard, *Controller) {
	t.Helper()
	sim := hal.NewSimBoard()
	ctl, err := New(sim.Board(), Config{
		TickPeriod: time.Millisecond,
		Settle:     4 * time.Millisecond,
	}, nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return sim, ctl
}

func tickN(ctl *Controller, n int) {
	for i := 0; i < n; i++ {
		ctl.Tick()
	}
}

// press simulates one full button press: held through the settle window,
// then released.
func press(ctl *Controller, pin *hal.SimPin) {
	pin.Set(true)
	tickN(ctl, 8)
	pin.Set(false)
	ctl.Tick()
}

// activate presses the activation button and runs the loop until the
// controller reports Ready.
func activate(t *testing.T, sim *hal.SimBoard, ctl *Controller) {
	t.Helper()
	press(ctl, sim.Activate)
	tickN(ctl, int(ServoTop)) // ample for any homing distance
	if st := ctl.Snapshot(); st.Status != types.StatusReady || !st.Ready {
		t.Fatalf("not ready after activation: %+v", st)
	}
}

// startRunning activates and starts the fan via the link.
func startRunning(t *testing.T, sim *hal.SimBoard, ctl *Controller) {
	t.Helper()
	activate(t, sim, ctl)
	sim.Wire.Exchange(types.CmdStart)
	ctl.Tick()
	if st := ctl.Snapshot(); !st.Running || st.Status != types.StatusRunning {
		t.Fatalf("not running after start: %+v", st)
	}
}

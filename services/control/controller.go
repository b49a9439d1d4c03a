// Package control implements the fan/servo head state machine: command
// decoding over the byte link, the three-tier fan drive, slew-limited servo
// positioning with Center homing, and the fixed-cadence loop that ties the
// buttons, outputs, and status byte together.
package control

import (
	"context"
	"sync"
	"time"

	"fanhead-go/bus"
	"fanhead-go/services/hal"
	"fanhead-go/types"
	"fanhead-go/x/mathx"
)

// Config holds the tunable timings.
type Config struct {
	// TickPeriod is the loop cadence. It is also the servo slew period:
	// the head travels one compare count per tick.
	TickPeriod time.Duration
	// Settle is the debounce hold-off after a recognized button press.
	Settle time.Duration
}

func DefaultConfig() Config {
	return Config{
		TickPeriod: 2 * time.Millisecond,
		Settle:     50 * time.Millisecond,
	}
}

// Controller owns the shared state and the claimed board resources. The
// link receive handler and the loop mutate the state under one mutex, so
// every multi-field transition is atomic with respect to the other context.
type Controller struct {
	mu  sync.Mutex
	st  state
	b   hal.Board
	cfg Config

	toggleBtn debouncer
	speedBtn  debouncer

	conn *bus.Connection // optional telemetry sink
	pub  published
}

// New configures the board outputs, centers the servo, parks the fan, and
// arms the link with the Idle status.
func New(b hal.Board, cfg Config, conn *bus.Connection) (*Controller, error) {
	if cfg.TickPeriod <= 0 {
		cfg.TickPeriod = DefaultConfig().TickPeriod
	}
	if cfg.Settle < 0 {
		cfg.Settle = 0
	}
	settle := int(mathx.CeilDiv(cfg.Settle, cfg.TickPeriod))

	c := &Controller{
		b:         b,
		cfg:       cfg,
		conn:      conn,
		toggleBtn: debouncer{settleTicks: settle},
		speedBtn:  debouncer{settleTicks: settle},
	}

	if err := b.FanPWM.Configure(FanHz, FanPWMTop); err != nil {
		return nil, err
	}
	if err := b.ServoPWM.Configure(ServoHz, ServoTop); err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.st.servoCur = ServoCenter
	c.st.servoTgt = ServoCenter
	c.b.ServoPWM.Set(uint16(c.st.servoCur))
	c.stopFan()
	c.st.status = types.StatusIdle
	c.publishDeltas()
	c.mu.Unlock()

	b.Link.SetHandler(c.handleLink)
	b.Link.Arm(byte(types.StatusIdle))
	return c, nil
}

// Run drives the loop at the configured cadence until ctx is cancelled.
func (c *Controller) Run(ctx context.Context) {
	tick := time.NewTicker(c.cfg.TickPeriod)
	defer tick.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-tick.C:
			c.Tick()
		}
	}
}

// Snapshot returns the current state document.
func (c *Controller) Snapshot() types.ControllerState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.stateDoc()
}

// Servo returns the commanded and target positions.
func (c *Controller) Servo() types.ServoValue {
	c.mu.Lock()
	defer c.mu.Unlock()
	return types.ServoValue{Current: c.st.servoCur, Target: c.st.servoTgt}
}

package control

// Fan carrier and duty table. The drive is inverted: a lower duty means
// more airflow.
const (
	fanPWMTop = 1999 // untyped, so the percentage maths below stays wide

	FanHz     uint64 = 8000
	FanPWMTop uint16 = fanPWMTop
)

// fanDuty maps a tier to its duty: 60%, 40%, 20% of top.
var fanDuty = [3]uint16{
	fanPWMTop * 60 / 100,
	fanPWMTop * 40 / 100,
	fanPWMTop * 20 / 100,
}

// fanDutyIdle parks the drive at full duty rather than merely disabling the
// channel, so the rotor does not coast.
const fanDutyIdle = FanPWMTop

// speedIndicators maps a tier to its cumulative indicator set
// (bit i drives Indicators[i]).
var speedIndicators = [3]uint8{0b001, 0b011, 0b111}

// applyFan drives duty and indicators together for the current tier.
// Caller holds mu.
func (c *Controller) applyFan() {
	c.b.FanPWM.Set(fanDuty[c.st.speed])
	c.setIndicators(speedIndicators[c.st.speed])
}

func (c *Controller) setIndicators(mask uint8) {
	for i, ind := range c.b.Indicators {
		ind.Set(mask&(1<<i) != 0)
	}
}

// startFan begins driving at tier 0. Caller holds mu.
func (c *Controller) startFan() {
	c.st.running = true
	c.st.speed = 0
	c.b.FanEnable.Set(true)
	c.applyFan()
}

// stopFan parks the drive and clears the indicators. Caller holds mu.
func (c *Controller) stopFan() {
	c.st.running = false
	c.st.speed = 0
	c.b.FanEnable.Set(false)
	c.b.FanPWM.Set(fanDutyIdle)
	c.setIndicators(0)
}

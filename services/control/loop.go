package control

import "fanhead-go/types"

// Tick runs one control-loop iteration: button edges, servo slew, status
// derivation, output drive. It takes the same critical section as the link
// handler, so a handler invocation either fully precedes or fully follows
// an iteration.
func (c *Controller) Tick() {
	c.mu.Lock()
	defer c.mu.Unlock()

	// Activation toggle.
	if c.toggleBtn.edge(c.b.ActivateBtn.Get()) {
		if c.st.activated {
			c.st.activated = false
			c.st.ready = false
			if c.st.running {
				c.stopFan()
			}
			c.st.homing = true
		} else {
			c.st.activated = true
			c.st.servoTgt = ServoCenter
			c.st.homing = true
		}
	}

	if c.st.running {
		// Speed button cycles tiers only while driving.
		if c.speedBtn.edge(c.b.SpeedBtn.Get()) {
			c.st.speed++
			if c.st.speed > 2 {
				c.st.speed = 0
			}
			c.applyFan()
		}
		c.stepServo(c.st.servoTgt)
		c.st.status = types.StatusRunning
	} else {
		// Return to Center while homing or while an activation is
		// pending; homing completes on arrival.
		if c.st.homing || c.st.activated {
			if c.stepServo(ServoCenter) {
				c.st.homing = false
			}
		}
		if c.st.activated && c.st.servoCur == ServoCenter {
			c.st.ready = true
			c.st.status = types.StatusReady
		} else {
			c.st.ready = false
			c.st.status = types.StatusIdle
		}
	}

	c.publishDeltas()
}

// stepServo moves the commanded position one count toward tgt and reports
// arrival. The one-count-per-tick bound is the slew limit.
func (c *Controller) stepServo(tgt types.Position) bool {
	cur := c.st.servoCur
	if cur == tgt {
		return true
	}
	if cur < tgt {
		cur++
	} else {
		cur--
	}
	c.st.servoCur = cur
	c.b.ServoPWM.Set(uint16(cur))
	return cur == tgt
}

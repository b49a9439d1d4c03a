package control

import (
	"fanhead-go/types"
	"fanhead-go/x/mathx"
)

// PositionForAngleByte maps a link angle byte (10..170, degrees) linearly
// onto the servo travel. Division truncates toward zero.
func PositionForAngleByte(b byte) types.Position {
	return types.Position(mathx.MapU16(
		uint16(b),
		uint16(types.CmdAngleMin), uint16(types.CmdAngleMax),
		uint16(ServoCCWMax), uint16(ServoCWMax),
	))
}

// handleLink decodes one received byte. It runs in the link receive context,
// must not block, and leaves the slow work (slew, status refresh) to the
// loop. The returned byte is armed for the next exchange and carries the
// status as last derived by the loop, so a peer always reads the
// pre-command status, at most one tick stale.
func (c *Controller) handleLink(rx byte) byte {
	c.mu.Lock()
	defer c.mu.Unlock()

	switch {
	case rx == types.CmdStop:
		if c.st.running {
			c.stopFan()
		}
		c.st.activated = false
		c.st.ready = false
		c.st.homing = true

	case rx >= types.CmdAngleMin && rx <= types.CmdAngleMax:
		// Angle writes are honored only while active and running;
		// otherwise silently discarded.
		if c.st.ready && c.st.running {
			c.st.servoTgt = PositionForAngleByte(rx)
		}

	case rx == types.CmdStart:
		if c.st.status == types.StatusReady {
			c.startFan()
		}

	default:
		// Poll or unrecognized byte: status echo only.
	}

	return byte(c.st.status)
}

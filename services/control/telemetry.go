package control

import (
	"fanhead-go/types"
	"fanhead-go/x/timex"
)

// published tracks the last documents put on the bus so the loop only
// publishes on change. Timestamps are zeroed for comparison.
type published struct {
	valid bool
	st    types.ControllerState
	fan   types.FanValue
	servo types.ServoValue
}

func (c *Controller) stateDoc() types.ControllerState {
	return types.ControllerState{
		Status:  c.st.status,
		Running: c.st.running,
		Ready:   c.st.ready,
		Homing:  c.st.homing,
		Speed:   c.st.speed,
	}
}

// publishDeltas emits retained telemetry for whatever changed since the
// last publication. Caller holds mu; bus sends never block.
func (c *Controller) publishDeltas() {
	if c.conn == nil {
		return
	}
	now := timex.NowMs()

	st := c.stateDoc()
	if !c.pub.valid || st != c.pub.st {
		c.pub.st = st
		doc := st
		doc.TS = now
		c.conn.Publish(c.conn.NewMessage(TopicState(), doc, true))
	}

	fan := types.FanValue{Level: c.st.speed, Duty: c.fanDutyNow()}
	if !c.pub.valid || fan != c.pub.fan {
		c.pub.fan = fan
		doc := fan
		doc.TS = now
		c.conn.Publish(c.conn.NewMessage(TopicFanValue(), doc, true))
	}

	// Servo positions change every tick mid-travel; report only target
	// changes and arrivals.
	servo := types.ServoValue{Current: c.st.servoCur, Target: c.st.servoTgt}
	arrived := servo.Current == servo.Target
	if !c.pub.valid || servo.Target != c.pub.servo.Target ||
		(arrived && c.pub.servo.Current != servo.Current) {
		c.pub.servo = servo
		doc := servo
		doc.TS = now
		c.conn.Publish(c.conn.NewMessage(TopicServoValue(), doc, true))
	}

	c.pub.valid = true
}

func (c *Controller) fanDutyNow() uint16 {
	if !c.st.running {
		return fanDutyIdle
	}
	return fanDuty[c.st.speed]
}

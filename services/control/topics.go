package control

import "fanhead-go/bus"

// Retained telemetry topics.

func TopicState() bus.Topic { return bus.T("fan", "state") }

func TopicFanValue() bus.Topic {
	return bus.T("fan", "cap", "io", "pwm", "fan", "value")
}

func TopicServoValue() bus.Topic {
	return bus.T("fan", "cap", "io", "servo", "head", "value")
}

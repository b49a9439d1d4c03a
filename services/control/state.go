package control

import "fanhead-go/types"

// Servo geometry, in compare counts on the 50 Hz servo timer.
const (
	ServoHz  uint64 = 50
	ServoTop uint16 = 4999

	ServoCCWMax types.Position = 140 // 10 degrees
	ServoCenter types.Position = 375 // 90 degrees
	ServoCWMax  types.Position = 610 // 170 degrees
)

// state is the single authoritative record shared by the link receive
// handler and the control loop. All access happens under Controller.mu so
// multi-field transitions are never observed half-written.
type state struct {
	running   bool
	activated bool // user has requested the system on
	ready     bool // activation complete: homed and centered
	homing    bool // servo must return to Center
	speed     types.Speed
	servoCur  types.Position
	servoTgt  types.Position
	status    types.Status // derived fresh every tick
}

package types

// ---- Command link protocol ----
//
// Half-duplex, one byte each way per exchange. The peer initiates; the byte
// it reads back is the one armed at the end of the previous exchange.

const (
	CmdPoll  byte = 0   // no-op, read status only
	CmdStop  byte = 200 // stop fan, clear activation, re-home servo
	CmdStart byte = 255 // start fan, honored only while status is Ready

	// CmdAngleMin..CmdAngleMax map linearly onto the servo travel.
	CmdAngleMin byte = 10
	CmdAngleMax byte = 170
)

// Status is the single byte reported to the peer.
type Status byte

const (
	StatusIdle    Status = 0   // off, or homing in progress
	StatusReady   Status = 111 // inactive, centered, awaiting start
	StatusRunning Status = 222 // fan driven
)

func (s Status) String() string {
	switch s {
	case StatusReady:
		return "ready"
	case StatusRunning:
		return "running"
	default:
		return "idle"
	}
}

// Speed is the fan tier (0..2). Higher tier means more airflow.
type Speed uint8

// Position is a servo compare value on the 50 Hz servo timer.
type Position uint16

// ---- Bus payloads (retained telemetry) ----

// ControllerState is the retained state document published on fan/state.
type ControllerState struct {
	Status  Status `json:"status"`
	Running bool   `json:"running"`
	Ready   bool   `json:"ready"`
	Homing  bool   `json:"homing"`
	Speed   Speed  `json:"speed"`
	TS      int64  `json:"ts_ms"`
}

// FanValue reports the current fan drive.
type FanValue struct {
	Level Speed  `json:"level"`
	Duty  uint16 `json:"duty"` // inverted drive: lower duty, more airflow
	TS    int64  `json:"ts_ms"`
}

// ServoValue reports the commanded servo position.
type ServoValue struct {
	Current Position `json:"current"`
	Target  Position `json:"target"`
	TS      int64    `json:"ts_ms"`
}

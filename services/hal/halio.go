// Package hal is the thin hardware shim consumed by the control core.
// The core only ever needs: read a digital input, write a digital output,
// drive a PWM channel, and exchange one byte at a time over the command
// link. Everything else (pin muxing, timer setup) stays behind OpenBoard.
package hal

// DigitalIn is a raw, non-debounced input (the two buttons).
type DigitalIn interface {
	Get() bool
}

// DigitalOut drives one indicator or enable line.
type DigitalOut interface {
	Set(level bool)
	Get() bool
}

// PWMOut is one claimed PWM channel with a logical resolution of [0..Top].
type PWMOut interface {
	// Configure sets the carrier frequency and logical top value.
	Configure(freqHz uint64, top uint16) error
	// Set drives the compare level in [0..Top].
	Set(level uint16)
	Top() uint16
}

// Link is the half-duplex one-byte command channel. The handler runs in the
// receive context and returns the byte armed for the next exchange; it must
// not block.
type Link interface {
	SetHandler(fn func(rx byte) (tx byte))
	// Arm preloads the response byte offered before the first handled
	// exchange.
	Arm(tx byte)
}

// Board groups the claimed resources the controller drives.
type Board struct {
	ActivateBtn DigitalIn
	SpeedBtn    DigitalIn

	Indicators [3]DigitalOut // cumulative speed indicators, low to high
	FanEnable  DigitalOut

	FanPWM   PWMOut // 8 kHz inverted-duty fan drive
	ServoPWM PWMOut // 50 Hz servo pulse channel

	Link Link
}

//go:build rp2040

package hal

import (
	"context"
	"sync"

	"machine"

	uartx "github.com/jangala-dev/tinygo-uartx/uartx"
	"tinygo.org/x/drivers/servo"

	"fanhead-go/errcode"
	"fanhead-go/x/mathx"
	"fanhead-go/x/timex"
)

// Pin plan (Pico). Buttons use external pulldowns and read active-high,
// matching the original control board.
const (
	pinSpeedBtn    = machine.GP14
	pinActivateBtn = machine.GP15

	pinLEDLow  = machine.GP2
	pinLEDMid  = machine.GP3
	pinLEDHigh = machine.GP4

	pinFanEnable = machine.GP17
	pinFanPWM    = machine.GP16
	pinServoPWM  = machine.GP18

	pinLinkTX = machine.GP0
	pinLinkRX = machine.GP1

	linkBaud = 115200
)

// -----------------------------------------------------------------------------
// GPIO
// -----------------------------------------------------------------------------

type rp2In struct{ p machine.Pin }

func (i rp2In) Get() bool { return i.p.Get() }

type rp2Out struct{ p machine.Pin }

func (o rp2Out) Set(level bool) { o.p.Set(level) }
func (o rp2Out) Get() bool      { return o.p.Get() }

// -----------------------------------------------------------------------------
// PWM
// -----------------------------------------------------------------------------

// pwmCtrl is the slice controller surface we need; machine.PWM0..PWM7
// satisfy it, and it is a superset of servo.PWM.
type pwmCtrl interface {
	Configure(cfg machine.PWMConfig) error
	Channel(pin machine.Pin) (uint8, error)
	Top() uint32
	Set(channel uint8, value uint32)
	SetPeriod(period uint64) error
}

// Select controller handle for a given slice number (0..7).
func pwmGroupBySlice(slice uint8) pwmCtrl {
	switch slice {
	case 0:
		return machine.PWM0
	case 1:
		return machine.PWM1
	case 2:
		return machine.PWM2
	case 3:
		return machine.PWM3
	case 4:
		return machine.PWM4
	case 5:
		return machine.PWM5
	case 6:
		return machine.PWM6
	default:
		return machine.PWM7
	}
}

// rp2PWM drives one channel of an RP2040 PWM slice with a logical
// resolution of [0..reqTop], scaled onto the hardware top.
type rp2PWM struct {
	mu     sync.Mutex
	pin    machine.Pin
	ctrl   pwmCtrl
	ch     uint8
	reqTop uint16
	hwTop  uint32
}

func newRP2PWM(pin machine.Pin) (*rp2PWM, error) {
	slice, err := machine.PWMPeripheral(pin)
	if err != nil {
		return nil, errcode.Unsupported
	}
	return &rp2PWM{pin: pin, ctrl: pwmGroupBySlice(slice)}, nil
}

func (p *rp2PWM) Configure(freqHz uint64, top uint16) error {
	top = mathx.Max(top, 1)
	period := timex.PeriodFromHz(uint32(mathx.Max(freqHz, 1)))
	if err := p.ctrl.Configure(machine.PWMConfig{Period: period}); err != nil {
		return errcode.Unsupported
	}
	p.pin.Configure(machine.PinConfig{Mode: machine.PinPWM})
	ch, err := p.ctrl.Channel(p.pin)
	if err != nil {
		return errcode.UnknownPin
	}
	p.mu.Lock()
	p.ch = ch
	p.reqTop = top
	p.hwTop = p.ctrl.Top()
	p.mu.Unlock()
	return nil
}

func (p *rp2PWM) Set(level uint16) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.hwTop == 0 || p.reqTop == 0 {
		return
	}
	level = mathx.Min(level, p.reqTop)
	// Scale from logical [0..reqTop] to hardware [0..hwTop].
	p.ctrl.Set(p.ch, (uint32(level)*p.hwTop)/uint32(p.reqTop))
}

func (p *rp2PWM) Top() uint16 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.reqTop
}

// rp2Servo adapts the drivers servo wrapper (fixed 50 Hz frame) to the
// compare-count PWMOut the controller expects.
type rp2Servo struct {
	mu  sync.Mutex
	s   servo.Servo
	top uint16
}

func (v *rp2Servo) Configure(_ uint64, top uint16) error {
	v.mu.Lock()
	v.top = mathx.Max(top, 1)
	v.mu.Unlock()
	return nil
}

func (v *rp2Servo) Set(level uint16) {
	v.mu.Lock()
	top := v.top
	v.mu.Unlock()
	if top == 0 {
		return
	}
	level = mathx.Min(level, top)
	// level counts on a 20 ms frame of (top+1) ticks; convert to the pulse
	// width in microseconds the servo driver wants.
	us := uint32(level) * 20000 / (uint32(top) + 1)
	v.s.SetMicroseconds(int16(us))
}

func (v *rp2Servo) Top() uint16 {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.top
}

// -----------------------------------------------------------------------------
// Command link (UART byte exchanges)
// -----------------------------------------------------------------------------

// rp2Link services one-byte exchanges over uartx. Each received byte is
// answered with the byte armed by the previous exchange, after which the
// handler arms the next one, mirroring the shift-register behaviour of the
// original SPI slave.
type rp2Link struct {
	mu      sync.Mutex
	u       *uartx.UART
	handler func(rx byte) byte
	armed   byte
}

func (l *rp2Link) SetHandler(fn func(rx byte) byte) {
	l.mu.Lock()
	l.handler = fn
	l.mu.Unlock()
}

func (l *rp2Link) Arm(tx byte) {
	l.mu.Lock()
	l.armed = tx
	l.mu.Unlock()
}

func (l *rp2Link) run(ctx context.Context) {
	buf := make([]byte, 1)
	for {
		n, err := l.u.RecvSomeContext(ctx, buf)
		if err != nil {
			return
		}
		if n == 0 {
			continue
		}
		l.mu.Lock()
		out := l.armed
		fn := l.handler
		l.mu.Unlock()

		_, _ = l.u.Write([]byte{out})

		if fn != nil {
			next := fn(buf[0])
			l.mu.Lock()
			l.armed = next
			l.mu.Unlock()
		}
	}
}

// -----------------------------------------------------------------------------
// Board assembly
// -----------------------------------------------------------------------------

// OpenBoard claims and configures the Pico resources for the controller.
func OpenBoard() (Board, error) {
	for _, p := range []machine.Pin{pinSpeedBtn, pinActivateBtn} {
		p.Configure(machine.PinConfig{Mode: machine.PinInputPulldown})
	}
	for _, p := range []machine.Pin{pinLEDLow, pinLEDMid, pinLEDHigh, pinFanEnable} {
		p.Configure(machine.PinConfig{Mode: machine.PinOutput})
		p.Set(false)
	}

	fan, err := newRP2PWM(pinFanPWM)
	if err != nil {
		return Board{}, err
	}

	servoSlice, err := machine.PWMPeripheral(pinServoPWM)
	if err != nil {
		return Board{}, errcode.Unsupported
	}
	sv, err := servo.New(pwmGroupBySlice(servoSlice), pinServoPWM)
	if err != nil {
		return Board{}, &errcode.E{C: errcode.Unsupported, Op: "servo", Err: err}
	}

	hw := uartx.UART0
	if err := hw.Configure(uartx.UARTConfig{
		BaudRate: linkBaud,
		TX:       pinLinkTX,
		RX:       pinLinkRX,
	}); err != nil {
		return Board{}, &errcode.E{C: errcode.Conflict, Op: "link", Err: err}
	}
	link := &rp2Link{u: hw}
	go link.run(context.Background())

	return Board{
		ActivateBtn: rp2In{pinActivateBtn},
		SpeedBtn:    rp2In{pinSpeedBtn},
		Indicators: [3]DigitalOut{
			rp2Out{pinLEDLow},
			rp2Out{pinLEDMid},
			rp2Out{pinLEDHigh},
		},
		FanEnable: rp2Out{pinFanEnable},
		FanPWM:    fan,
		ServoPWM:  &rp2Servo{s: sv},
		Link:      link,
	}, nil
}

package hal

import "sync"

// Host-side fakes. They back the controller in tests and in cmd/linksim,
// and stand in for the board when the firmware is built for the host.

// SimPin is a digital line usable as input or output.
type SimPin struct {
	mu    sync.Mutex
	level bool
}

func (p *SimPin) Set(level bool) {
	p.mu.Lock()
	p.level = level
	p.mu.Unlock()
}

func (p *SimPin) Get() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.level
}

// SimPWM records the configured carrier and the last driven level.
type SimPWM struct {
	mu         sync.Mutex
	freqHz     uint64
	top        uint16
	level      uint16
	configured bool
	sets       int
}

func (p *SimPWM) Configure(freqHz uint64, top uint16) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.freqHz = freqHz
	p.top = top
	p.configured = true
	return nil
}

func (p *SimPWM) Set(level uint16) {
	p.mu.Lock()
	if p.top != 0 && level > p.top {
		level = p.top
	}
	p.level = level
	p.sets++
	p.mu.Unlock()
}

func (p *SimPWM) Top() uint16 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.top
}

func (p *SimPWM) Level() uint16 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.level
}

func (p *SimPWM) FreqHz() uint64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.freqHz
}

func (p *SimPWM) Sets() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.sets
}

// SimLink models the shift-register behaviour of the real link: the byte the
// peer reads during exchange N is the one armed at the end of exchange N-1.
type SimLink struct {
	mu      sync.Mutex
	handler func(rx byte) byte
	armed   byte
}

func (l *SimLink) SetHandler(fn func(rx byte) byte) {
	l.mu.Lock()
	l.handler = fn
	l.mu.Unlock()
}

func (l *SimLink) Arm(tx byte) {
	l.mu.Lock()
	l.armed = tx
	l.mu.Unlock()
}

// Exchange performs one peer-initiated transfer: rx is shifted in, the
// previously armed byte is shifted out, and the handler arms the next one.
func (l *SimLink) Exchange(rx byte) byte {
	l.mu.Lock()
	out := l.armed
	fn := l.handler
	l.mu.Unlock()

	if fn != nil {
		next := fn(rx)
		l.mu.Lock()
		l.armed = next
		l.mu.Unlock()
	}
	return out
}

// SimBoard is a fully simulated Board with the fakes exposed for scripting.
type SimBoard struct {
	Activate *SimPin
	Speed    *SimPin
	LEDs     [3]*SimPin
	Enable   *SimPin
	Fan      *SimPWM
	Servo    *SimPWM
	Wire     *SimLink
}

func NewSimBoard() *SimBoard {
	return &SimBoard{
		Activate: &SimPin{},
		Speed:    &SimPin{},
		LEDs:     [3]*SimPin{{}, {}, {}},
		Enable:   &SimPin{},
		Fan:      &SimPWM{},
		Servo:    &SimPWM{},
		Wire:     &SimLink{},
	}
}

// Board returns the shim view the controller consumes.
func (s *SimBoard) Board() Board {
	return Board{
		ActivateBtn: s.Activate,
		SpeedBtn:    s.Speed,
		Indicators:  [3]DigitalOut{s.LEDs[0], s.LEDs[1], s.LEDs[2]},
		FanEnable:   s.Enable,
		FanPWM:      s.Fan,
		ServoPWM:    s.Servo,
		Link:        s.Wire,
	}
}

// IndicatorMask packs the three indicator levels into bits 0..2.
func (s *SimBoard) IndicatorMask() uint8 {
	var m uint8
	for i, led := range s.LEDs {
		if led.Get() {
			m |= 1 << i
		}
	}
	return m
}

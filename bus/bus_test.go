// bus/bus_test.go
package bus

import (
	"testing"
	"time"
)

const (
	TopicFan   = "fan"
	TopicState = "state"
)

func expectOneOf(t *testing.T, s *Subscription, want string) {
	t.Helper()
	select {
	case got := <-s.Channel():
		if got.Payload.(string) != want {
			t.Fatalf("expected payload %q, got %v", want, got.Payload)
		}
	case <-time.After(100 * time.Millisecond):
		t.Fatalf("timeout waiting for %q", want)
	}
}

func expectNoMessage(t *testing.T, s *Subscription) {
	t.Helper()
	select {
	case got := <-s.Channel():
		t.Fatalf("unexpected message: %v", got.Payload)
	case <-time.After(20 * time.Millisecond):
	}
}

func TestBasicPubSub(t *testing.T) {
	b := NewBus(4)
	conn := b.NewConnection("test")

	sub := conn.Subscribe(Topic{TopicFan, TopicState})

	msg := conn.NewMessage(Topic{TopicFan, TopicState}, "hello", false)
	conn.Publish(msg)

	expectOneOf(t, sub, "hello")
}

func TestRetainedMessage(t *testing.T) {
	b := NewBus(2)
	conn := b.NewConnection("test")

	msg := conn.NewMessage(Topic{TopicFan, TopicState}, "persist", true)
	conn.Publish(msg)

	sub := conn.Subscribe(Topic{TopicFan, TopicState})

	expectOneOf(t, sub, "persist")
}

func TestRetainedClear(t *testing.T) {
	b := NewBus(2)
	conn := b.NewConnection("test")

	conn.Publish(conn.NewMessage(Topic{TopicFan, TopicState}, "persist", true))
	conn.Publish(conn.NewMessage(Topic{TopicFan, TopicState}, nil, true))

	sub := conn.Subscribe(Topic{TopicFan, TopicState})
	expectNoMessage(t, sub)
}

// -----------------------------------------------------------------------------
// Wildcards
// -----------------------------------------------------------------------------

func TestWildcard_SingleLevel(t *testing.T) {
	b := NewBus(16)
	c := b.NewConnection("test")

	s1 := c.Subscribe(Topic{"a", "+", "c"})
	s2 := c.Subscribe(Topic{"a", "+", "+"})
	s3 := c.Subscribe(Topic{"a", "b", "+"})
	sNo := c.Subscribe(Topic{"a", "+", "d"})

	c.Publish(b.NewMessage(Topic{"a", "b", "c"}, "m1", false))

	expectOneOf(t, s1, "m1")
	expectOneOf(t, s2, "m1")
	expectOneOf(t, s3, "m1")
	expectNoMessage(t, sNo)

	c.Publish(b.NewMessage(Topic{"a", "x", "y"}, "m2", false))

	expectOneOf(t, s2, "m2")
	expectNoMessage(t, s1)
	expectNoMessage(t, s3)
	expectNoMessage(t, sNo)
}

func TestWildcard_MultiLevel(t *testing.T) {
	b := NewBus(16)
	c := b.NewConnection("test")

	sAll := c.Subscribe(Topic{"fan", "#"})

	c.Publish(b.NewMessage(Topic{"fan", "state"}, "m1", false))
	expectOneOf(t, sAll, "m1")

	c.Publish(b.NewMessage(Topic{"fan", "cap", "io", "servo", "value"}, "m2", false))
	expectOneOf(t, sAll, "m2")

	c.Publish(b.NewMessage(Topic{"other", "state"}, "m3", false))
	expectNoMessage(t, sAll)
}

func TestWildcard_RetainedDelivery(t *testing.T) {
	b := NewBus(16)
	c := b.NewConnection("test")

	c.Publish(b.NewMessage(Topic{"fan", "cap", "io", "pwm", "value"}, "duty", true))
	c.Publish(b.NewMessage(Topic{"fan", "state"}, "ready", true))

	s := c.Subscribe(Topic{"fan", "#"})

	got := map[string]bool{}
	for i := 0; i < 2; i++ {
		select {
		case m := <-s.Channel():
			got[m.Payload.(string)] = true
		case <-time.After(100 * time.Millisecond):
			t.Fatal("timeout collecting retained messages")
		}
	}
	if !got["duty"] || !got["ready"] {
		t.Fatalf("missing retained messages: %v", got)
	}
}

func TestDropOldestWhenFull(t *testing.T) {
	b := NewBus(1)
	c := b.NewConnection("test")

	s := c.Subscribe(Topic{"fan", "state"})
	c.Publish(b.NewMessage(Topic{"fan", "state"}, "first", false))
	c.Publish(b.NewMessage(Topic{"fan", "state"}, "second", false))

	expectOneOf(t, s, "second")
}

func TestUnsubscribe(t *testing.T) {
	b := NewBus(4)
	c := b.NewConnection("test")

	s := c.Subscribe(Topic{"fan", "state"})
	c.Unsubscribe(s)

	// Channel must be closed.
	if _, ok := <-s.Channel(); ok {
		t.Fatal("expected closed channel after unsubscribe")
	}

	// Publishing after unsubscribe must not panic.
	c.Publish(b.NewMessage(Topic{"fan", "state"}, "late", false))
}

package heartbeat

import (
	"context"
	"time"

	"fanhead-go/bus"
	"fanhead-go/services/control"
	"fanhead-go/types"
)

// Service prints a periodic status line from the retained controller state.
type Service struct {
	Interval time.Duration // 0 => 1s
}

func (s *Service) serviceLoop(ctx context.Context, conn *bus.Connection) {
	stateSub := conn.Subscribe(control.TopicState())
	defer conn.Unsubscribe(stateSub)

	iv := s.Interval
	if iv <= 0 {
		iv = time.Second
	}
	tick := time.NewTicker(iv)
	defer tick.Stop()

	var last types.ControllerState
	for {
		select {
		case <-ctx.Done():
			println("Info: heartbeat service stopping")
			return
		case t := <-tick.C:
			println("Info:", t.Format("15:04:05"),
				"status:", last.Status.String(),
				"speed:", int(last.Speed),
				"homing:", last.Homing)
		case msg := <-stateSub.Channel():
			if st, ok := msg.Payload.(types.ControllerState); ok {
				last = st
			}
		}
	}
}

// Start the heartbeat service.
func (s *Service) Start(ctx context.Context, conn *bus.Connection) error {
	go s.serviceLoop(ctx, conn)
	return nil
}

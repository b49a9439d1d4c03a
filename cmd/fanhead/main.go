// cmd/fanhead/main.go
package main

import (
	"context"
	"time"

	"fanhead-go/bus"
	"fanhead-go/services/control"
	"fanhead-go/services/hal"
	"fanhead-go/services/heartbeat"
)

func main() {
	// Allow USB CDC to enumerate before we print.
	time.Sleep(2 * time.Second)
	println("boot")

	ctx := context.Background()
	b := bus.NewBus(8)

	board, err := hal.OpenBoard()
	if err != nil {
		println("fatal: board open failed:", err.Error())
		return
	}

	ctl, err := control.New(board, control.DefaultConfig(), b.NewConnection("control"))
	if err != nil {
		println("fatal: controller init failed:", err.Error())
		return
	}

	hb := &heartbeat.Service{Interval: time.Second}
	_ = hb.Start(ctx, b.NewConnection("heartbeat"))

	ctl.Run(ctx)
}

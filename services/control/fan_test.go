package control

import "testing"

func TestFanDutyTable(t *testing.T) {
	want := [3]uint16{1199, 799, 399} // 60/40/20% of 1999, truncating
	if fanDuty != want {
		t.Fatalf("fanDuty = %v, want %v", fanDuty, want)
	}
	for i := 1; i < len(fanDuty); i++ {
		if fanDuty[i] >= fanDuty[i-1] {
			t.Fatalf("inverted drive violated: tier %d duty %d >= tier %d duty %d",
				i, fanDuty[i], i-1, fanDuty[i-1])
		}
	}
}

func TestIndicatorSetsAreCumulative(t *testing.T) {
	for i := 1; i < len(speedIndicators); i++ {
		prev, cur := speedIndicators[i-1], speedIndicators[i]
		if cur&prev != prev {
			t.Fatalf("tier %d mask %03b does not contain tier %d mask %03b",
				i, cur, i-1, prev)
		}
	}
}

func TestBootParksOutputs(t *testing.T) {
	sim, ctl := newTestRig(t)

	if sim.Fan.Level() != fanDutyIdle {
		t.Fatalf("fan duty = %d, want parked %d", sim.Fan.Level(), fanDutyIdle)
	}
	if sim.Enable.Get() {
		t.Fatal("fan enable driven at boot")
	}
	if sim.IndicatorMask() != 0 {
		t.Fatalf("indicators = %03b at boot", sim.IndicatorMask())
	}
	if got := sim.Servo.Level(); got != uint16(ServoCenter) {
		t.Fatalf("servo compare = %d, want Center %d", got, ServoCenter)
	}
	if v := ctl.Servo(); v.Current != ServoCenter || v.Target != ServoCenter {
		t.Fatalf("servo state %+v, want centered", v)
	}
}

func TestFanPWMConfiguredAtBoot(t *testing.T) {
	sim, _ := newTestRig(t)
	if sim.Fan.FreqHz() != FanHz || sim.Fan.Top() != FanPWMTop {
		t.Fatalf("fan PWM %d Hz top %d, want %d Hz top %d",
			sim.Fan.FreqHz(), sim.Fan.Top(), FanHz, FanPWMTop)
	}
	if sim.Servo.FreqHz() != ServoHz || sim.Servo.Top() != ServoTop {
		t.Fatalf("servo PWM %d Hz top %d, want %d Hz top %d",
			sim.Servo.FreqHz(), sim.Servo.Top(), ServoHz, ServoTop)
	}
}

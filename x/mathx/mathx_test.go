package mathx

import "testing"

func TestMapU16(t *testing.T) {
	cases := []struct {
		x, inMin, inMax, outMin, outMax, want uint16
	}{
		{10, 10, 170, 140, 610, 140},  // low boundary
		{170, 10, 170, 140, 610, 610}, // high boundary
		{90, 10, 170, 140, 610, 375},  // midpoint
		{11, 10, 170, 140, 610, 142},  // 1*470/160 = 2 (truncated)
		{5, 10, 170, 140, 610, 140},   // below range clamps
		{200, 10, 170, 140, 610, 610}, // above range clamps
		{7, 3, 3, 9, 99, 9},           // degenerate input range
	}
	for _, c := range cases {
		if got := MapU16(c.x, c.inMin, c.inMax, c.outMin, c.outMax); got != c.want {
			t.Errorf("MapU16(%d,[%d..%d]->[%d..%d]) = %d, want %d",
				c.x, c.inMin, c.inMax, c.outMin, c.outMax, got, c.want)
		}
	}
}

func TestMinMax(t *testing.T) {
	if got := Min(uint16(3), 7); got != 3 {
		t.Errorf("Min(3,7) = %d", got)
	}
	if got := Max(uint16(3), 7); got != 7 {
		t.Errorf("Max(3,7) = %d", got)
	}
	if got := Max(uint64(0), 1); got != 1 {
		t.Errorf("Max(0,1) = %d", got)
	}
}

func TestCeilDiv(t *testing.T) {
	if got := CeilDiv(50, 2); got != 25 {
		t.Errorf("CeilDiv(50,2) = %d", got)
	}
	if got := CeilDiv(51, 2); got != 26 {
		t.Errorf("CeilDiv(51,2) = %d", got)
	}
	if got := CeilDiv(50, 0); got != 0 {
		t.Errorf("CeilDiv(50,0) = %d", got)
	}
}

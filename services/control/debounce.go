package control

// debouncer recognizes one rising edge per physical press of a polled
// button. After a recognized press it holds off for settleTicks before
// reacting again, and the button must read released before the next press
// counts.
type debouncer struct {
	settleTicks int
	latched     bool
	cooldown    int
}

// edge consumes one per-tick sample and reports a debounced press.
func (d *debouncer) edge(pressed bool) bool {
	if d.cooldown > 0 {
		d.cooldown--
		return false
	}
	if !pressed {
		d.latched = false
		return false
	}
	if d.latched {
		return false
	}
	d.latched = true
	d.cooldown = d.settleTicks
	return true
}

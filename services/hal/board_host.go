//go:build !rp2040

package hal

// OpenBoard returns a fully simulated board on host builds, so the firmware
// binary runs (inert) off-target.
func OpenBoard() (Board, error) {
	return NewSimBoard().Board(), nil
}

package stellar

// fpsMeter measures frame rate from the render loop's own frame deltas.
// The reading refreshes every ~0.5 seconds so it stays legible.
type fpsMeter struct {
	frames  int
	elapsed float64
	fps     float64
}

// tick records one frame of dt seconds.
func (m *fpsMeter) tick(dt float64) {
	m.frames++
	m.elapsed += dt
	if m.elapsed < 0.5 {
		return
	}
	m.fps = float64(m.frames) / m.elapsed
	m.frames = 0
	m.elapsed = 0
}

// FPS returns the last completed measurement.
func (m *fpsMeter) FPS() float64 {
	return m.fps
}

func (m *fpsMeter) reset() {
	*m = fpsMeter{}
}

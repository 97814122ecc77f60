package stellar

import (
	"fmt"
	"time"
)

// Telemetry is a snapshot of engine state for hosts and the debug panel.
type Telemetry struct {
	FPS       float64
	Phase     Phase
	Progress  float64
	Pass      int
	Particles int
	Lines     int
	Flares    int
	DrawCalls int
	Paused    bool
	Active    bool

	// Errors and Warnings hold the most recent messages, oldest first.
	Errors   []string
	Warnings []string
	// ErrorCount and WarningCount count every message ever recorded.
	ErrorCount   int
	WarningCount int
}

// rolling is a capped message buffer that evicts the oldest entry.
type rolling struct {
	items []string
	max   int
	total int
}

func (r *rolling) push(msg string) {
	r.total++
	if r.max <= 0 {
		return
	}
	if len(r.items) >= r.max {
		copy(r.items, r.items[1:])
		r.items = r.items[:len(r.items)-1]
	}
	r.items = append(r.items, msg)
}

func (r *rolling) snapshot() []string {
	return append([]string(nil), r.items...)
}

// debugOverlay renders the on-canvas telemetry panel. The panel text is
// rebuilt at most once per refresh interval and redrawn from cache on
// every other frame.
type debugOverlay struct {
	enabled  bool
	refresh  time.Duration
	errors   rolling
	warnings rolling

	text        []string
	lastRefresh time.Time
	rebuilds    int
}

func newDebugOverlay(cfg DebugConfig) *debugOverlay {
	refresh := time.Duration(cfg.RefreshMS) * time.Millisecond
	if refresh <= 0 {
		refresh = 100 * time.Millisecond
	}
	return &debugOverlay{
		enabled:  cfg.Enabled,
		refresh:  refresh,
		errors:   rolling{max: cfg.MaxErrors},
		warnings: rolling{max: cfg.MaxWarnings},
	}
}

func (d *debugOverlay) addError(msg string)   { d.errors.push(msg) }
func (d *debugOverlay) addWarning(msg string) { d.warnings.push(msg) }

// fill copies the buffers into t.
func (d *debugOverlay) fill(t *Telemetry) {
	t.Errors = d.errors.snapshot()
	t.Warnings = d.warnings.snapshot()
	t.ErrorCount = d.errors.total
	t.WarningCount = d.warnings.total
}

const (
	debugLineHeight = 14
	debugPad        = 6
	debugCharWidth  = 7
)

// draw renders the panel in the top-left corner and returns the number of
// draw calls issued.
func (d *debugOverlay) draw(s Surface, now time.Time, t *Telemetry) int {
	if !d.enabled {
		return 0
	}
	if d.text == nil || now.Sub(d.lastRefresh) >= d.refresh {
		d.rebuild(t)
		d.lastRefresh = now
	}

	widest := 0
	for _, line := range d.text {
		widest = max(widest, len(line))
	}
	w := float64(widest*debugCharWidth + 2*debugPad)
	h := float64(len(d.text)*debugLineHeight + 2*debugPad)
	s.FillRect(0, 0, w, h, Color{0, 0, 0, 0.6})
	for i, line := range d.text {
		c := ColorWhite
		if len(line) > 2 && line[:2] == "E " {
			c = Color{1, 0.45, 0.45, 1}
		} else if len(line) > 2 && line[:2] == "W " {
			c = Color{1, 0.85, 0.4, 1}
		}
		s.DrawText(line, debugPad, float64(debugPad+i*debugLineHeight), c)
	}
	return 1 + len(d.text)
}

func (d *debugOverlay) rebuild(t *Telemetry) {
	d.rebuilds++
	paused := ""
	if t.Paused {
		paused = " [paused]"
	}
	d.text = append(d.text[:0],
		fmt.Sprintf("FPS: %.1f", t.FPS),
		fmt.Sprintf("phase: %s %3.0f%%%s", t.Phase, t.Progress*100, paused),
		fmt.Sprintf("particles: %d  lines: %d  flares: %d", t.Particles, t.Lines, t.Flares),
		fmt.Sprintf("draw calls: %d  pass: %d", t.DrawCalls, t.Pass),
	)
	for _, e := range d.errors.items {
		d.text = append(d.text, "E "+e)
	}
	for _, w := range d.warnings.items {
		d.text = append(d.text, "W "+w)
	}
}

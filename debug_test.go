package stellar

import (
	"fmt"
	"strings"
	"testing"
	"time"
)

func TestRollingEvictsOldest(t *testing.T) {
	r := rolling{max: 3}
	for i := range 5 {
		r.push(fmt.Sprint(i))
	}
	got := r.snapshot()
	if strings.Join(got, ",") != "2,3,4" {
		t.Errorf("items = %v, want [2 3 4]", got)
	}
	if r.total != 5 {
		t.Errorf("total = %d, want 5", r.total)
	}
	got[0] = "mutated"
	if r.items[0] != "2" {
		t.Error("snapshot aliases the buffer")
	}
}

func TestRollingZeroMax(t *testing.T) {
	r := rolling{}
	r.push("x")
	if len(r.snapshot()) != 0 || r.total != 1 {
		t.Errorf("items = %v total = %d", r.items, r.total)
	}
}

func TestDebugOverlayRefreshRateLimited(t *testing.T) {
	d := newDebugOverlay(DebugConfig{Enabled: true, RefreshMS: 100, MaxErrors: 2, MaxWarnings: 2})
	s := NewRecordingSurface(300, 200)
	now := time.Unix(0, 0)
	tel := &Telemetry{FPS: 60, Phase: PhaseBreathing, Progress: 0.5}

	for i := range 10 {
		d.draw(s, now.Add(time.Duration(i)*10*time.Millisecond), tel)
	}
	if d.rebuilds != 1 {
		t.Errorf("rebuilds = %d within one refresh window, want 1", d.rebuilds)
	}
	d.draw(s, now.Add(100*time.Millisecond), tel)
	if d.rebuilds != 2 {
		t.Errorf("rebuilds = %d after the window, want 2", d.rebuilds)
	}
	// Cached text is still drawn every frame.
	if s.Count(OpRect) != 11 {
		t.Errorf("panels = %d, want 11", s.Count(OpRect))
	}
}

func TestDebugOverlayContent(t *testing.T) {
	d := newDebugOverlay(DebugConfig{Enabled: true, MaxErrors: 2, MaxWarnings: 2})
	d.addError("particle.update[3]: boom")
	d.addWarning("no points")
	s := NewRecordingSurface(300, 200)
	tel := &Telemetry{FPS: 59.94, Phase: PhaseConstellation, Progress: 0.25, Paused: true, Particles: 12}
	n := d.draw(s, time.Unix(0, 0), tel)
	if n != len(s.Calls) {
		t.Errorf("returned %d calls, recorded %d", n, len(s.Calls))
	}
	var texts []string
	for _, c := range s.Calls {
		if c.Op == OpText {
			texts = append(texts, c.Text)
		}
	}
	joined := strings.Join(texts, "\n")
	for _, want := range []string{"FPS: 59.9", "constellation", "[paused]", "particles: 12", "E particle.update[3]: boom", "W no points"} {
		if !strings.Contains(joined, want) {
			t.Errorf("overlay missing %q:\n%s", want, joined)
		}
	}
	last := s.Calls[len(s.Calls)-1]
	if last.Color.G > 0.9 || last.Color.R < 0.9 {
		t.Errorf("warning color = %+v, want yellow", last.Color)
	}
}

func TestDebugOverlayDisabled(t *testing.T) {
	d := newDebugOverlay(DebugConfig{})
	s := NewRecordingSurface(10, 10)
	if n := d.draw(s, time.Unix(0, 0), &Telemetry{}); n != 0 || len(s.Calls) != 0 {
		t.Error("disabled overlay drew")
	}
	if d.refresh != 100*time.Millisecond {
		t.Errorf("default refresh = %v", d.refresh)
	}
}

func TestDebugOverlayFill(t *testing.T) {
	d := newDebugOverlay(DebugConfig{MaxErrors: 1, MaxWarnings: 1})
	d.addError("a")
	d.addError("b")
	d.addWarning("w")
	var tel Telemetry
	d.fill(&tel)
	if tel.ErrorCount != 2 || len(tel.Errors) != 1 || tel.Errors[0] != "b" {
		t.Errorf("errors = %v (%d)", tel.Errors, tel.ErrorCount)
	}
	if tel.WarningCount != 1 || tel.Warnings[0] != "w" {
		t.Errorf("warnings = %v (%d)", tel.Warnings, tel.WarningCount)
	}
}

package stellar

import "time"

// PhaseManager walks an ordered list of timed phases. It is driven by
// calls to Update from the render loop; all timing reads the injected
// Clock, so tests can step it with a ManualClock.
//
// When the current phase reaches progress 1 the manager restarts its phase
// clock at the current time and advances exactly one phase. A looping
// manager wraps back to the first phase; otherwise it enters PhaseComplete,
// holds progress at 1, and signals completion once after the grace delay.
type PhaseManager struct {
	clock  Clock
	phases []PhaseSpec
	loop   bool
	grace  time.Duration
	obs    Observer

	index    int // len(phases) once complete
	start    time.Time
	progress float64
	pass     int

	paused   bool
	pausedAt time.Time

	endedAt  time.Time // when the last phase reached progress 1
	signaled bool
}

// PhaseManagerOptions configures NewPhaseManager.
type PhaseManagerOptions struct {
	Phases []PhaseSpec
	Loop   bool
	// Grace is the delay between the final phase ending and the
	// sequence-complete signal.
	Grace    time.Duration
	Clock    Clock
	Observer Observer
}

// NewPhaseManager creates a manager positioned at the start of the first
// phase. A nil Clock uses SystemClock and a nil Observer ignores events.
func NewPhaseManager(opts PhaseManagerOptions) *PhaseManager {
	if opts.Clock == nil {
		opts.Clock = SystemClock{}
	}
	if opts.Observer == nil {
		opts.Observer = NopObserver{}
	}
	phases := make([]PhaseSpec, len(opts.Phases))
	copy(phases, opts.Phases)
	pm := &PhaseManager{
		clock:  opts.Clock,
		phases: phases,
		loop:   opts.Loop,
		grace:  opts.Grace,
		obs:    opts.Observer,
	}
	pm.start = pm.clock.Now()
	return pm
}

// Phase returns the current phase.
func (pm *PhaseManager) Phase() Phase {
	if pm.index >= len(pm.phases) {
		return PhaseComplete
	}
	return pm.phases[pm.index].Phase
}

// Progress returns the progress computed by the most recent Update.
func (pm *PhaseManager) Progress() float64 {
	return pm.progress
}

// Pass returns how many times a looping manager has wrapped.
func (pm *PhaseManager) Pass() int {
	return pm.pass
}

// Complete reports whether the sequence has reached PhaseComplete.
func (pm *PhaseManager) Complete() bool {
	return pm.index >= len(pm.phases)
}

// Paused reports whether the phase clock is paused.
func (pm *PhaseManager) Paused() bool {
	return pm.paused
}

// Update recomputes progress for the current phase and performs at most
// one transition. It returns the phase and progress the caller should
// render. While paused it returns the frozen state without side effects.
func (pm *PhaseManager) Update() (Phase, float64) {
	if pm.paused {
		return pm.Phase(), pm.progress
	}
	now := pm.clock.Now()

	if pm.Complete() {
		pm.progress = 1
		if !pm.signaled && !now.Before(pm.endedAt.Add(pm.grace)) {
			pm.signaled = true
			logger().Debug("sequence complete", "passes", pm.pass+1)
			pm.obs.OnSequenceComplete()
		}
		return PhaseComplete, 1
	}

	spec := pm.phases[pm.index]
	elapsed := now.Sub(pm.start)
	pm.progress = clamp01(float64(elapsed) / float64(spec.Duration()))
	pm.obs.OnPhaseUpdate(spec.Phase, pm.progress)
	if pm.progress < 1 {
		return spec.Phase, pm.progress
	}

	ended := pm.start.Add(spec.Duration())
	pm.start = now
	pm.progress = 0
	pm.index++
	if pm.index >= len(pm.phases) {
		if pm.loop {
			pm.index = 0
			pm.pass++
		} else {
			pm.endedAt = ended
			pm.progress = 1
		}
	}
	to := pm.Phase()
	logger().Debug("phase change", "from", spec.Phase, "to", to)
	pm.obs.OnPhaseChange(spec.Phase, to)
	return to, pm.progress
}

// Pause freezes the phase clock. Pausing twice is a no-op.
func (pm *PhaseManager) Pause() {
	if pm.paused {
		return
	}
	pm.paused = true
	pm.pausedAt = pm.clock.Now()
}

// Resume restarts the phase clock, shifting the phase start reference by
// the pause duration so no phase time is gained or lost. It returns the
// length of the pause.
func (pm *PhaseManager) Resume() time.Duration {
	if !pm.paused {
		return 0
	}
	pm.paused = false
	d := pm.clock.Now().Sub(pm.pausedAt)
	pm.start = pm.start.Add(d)
	if !pm.endedAt.IsZero() {
		pm.endedAt = pm.endedAt.Add(d)
	}
	return d
}

// Reset returns to the start of the first phase and unpauses.
func (pm *PhaseManager) Reset() {
	pm.index = 0
	pm.progress = 0
	pm.pass = 0
	pm.paused = false
	pm.signaled = false
	pm.endedAt = time.Time{}
	pm.start = pm.clock.Now()
}

// Elapsed returns the time spent in the current phase, excluding pauses.
func (pm *PhaseManager) Elapsed() time.Duration {
	now := pm.clock.Now()
	if pm.paused {
		now = pm.pausedAt
	}
	return now.Sub(pm.start)
}

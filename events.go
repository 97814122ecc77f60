package stellar

// Observer receives lifecycle and progress events from an engine. Hosts
// inject one at construction; the engine never publishes to a global bus.
// Callbacks run on the frame goroutine and must not block.
type Observer interface {
	// OnPhaseChange fires once per transition, including the transition
	// into PhaseComplete.
	OnPhaseChange(from, to Phase)

	// OnPhaseUpdate fires every frame the phase clock advances.
	OnPhaseUpdate(phase Phase, progress float64)

	// OnSequenceComplete fires once per pass of a non-looping sequence,
	// after the completion grace delay.
	OnSequenceComplete()
}

// NopObserver ignores every event.
type NopObserver struct{}

func (NopObserver) OnPhaseChange(Phase, Phase)   {}
func (NopObserver) OnPhaseUpdate(Phase, float64) {}
func (NopObserver) OnSequenceComplete()          {}

// ObserverFuncs adapts optional plain functions to Observer. Nil fields
// are skipped.
type ObserverFuncs struct {
	PhaseChange      func(from, to Phase)
	PhaseUpdate      func(phase Phase, progress float64)
	SequenceComplete func()
}

func (f ObserverFuncs) OnPhaseChange(from, to Phase) {
	if f.PhaseChange != nil {
		f.PhaseChange(from, to)
	}
}

func (f ObserverFuncs) OnPhaseUpdate(phase Phase, progress float64) {
	if f.PhaseUpdate != nil {
		f.PhaseUpdate(phase, progress)
	}
}

func (f ObserverFuncs) OnSequenceComplete() {
	if f.SequenceComplete != nil {
		f.SequenceComplete()
	}
}

// multiObserver fans events out to several observers in order.
type multiObserver []Observer

// Observers combines observers into one. Nil entries are dropped.
func Observers(obs ...Observer) Observer {
	var m multiObserver
	for _, o := range obs {
		if o != nil {
			m = append(m, o)
		}
	}
	if len(m) == 0 {
		return NopObserver{}
	}
	if len(m) == 1 {
		return m[0]
	}
	return m
}

func (m multiObserver) OnPhaseChange(from, to Phase) {
	for _, o := range m {
		o.OnPhaseChange(from, to)
	}
}

func (m multiObserver) OnPhaseUpdate(phase Phase, progress float64) {
	for _, o := range m {
		o.OnPhaseUpdate(phase, progress)
	}
}

func (m multiObserver) OnSequenceComplete() {
	for _, o := range m {
		o.OnSequenceComplete()
	}
}

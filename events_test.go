package stellar

import "testing"

type countingObserver struct {
	changes, updates, completes int
}

func (o *countingObserver) OnPhaseChange(Phase, Phase)   { o.changes++ }
func (o *countingObserver) OnPhaseUpdate(Phase, float64) { o.updates++ }
func (o *countingObserver) OnSequenceComplete()          { o.completes++ }

func TestObserversFanOut(t *testing.T) {
	a, b := &countingObserver{}, &countingObserver{}
	obs := Observers(a, nil, b)
	obs.OnPhaseChange(PhaseMaterialization, PhaseConstellation)
	obs.OnPhaseUpdate(PhaseConstellation, 0.5)
	obs.OnSequenceComplete()
	for i, o := range []*countingObserver{a, b} {
		if o.changes != 1 || o.updates != 1 || o.completes != 1 {
			t.Errorf("observer %d = %+v", i, *o)
		}
	}
}

func TestObserversCollapse(t *testing.T) {
	if _, ok := Observers().(NopObserver); !ok {
		t.Error("no observers should give NopObserver")
	}
	a := &countingObserver{}
	if Observers(nil, a) != Observer(a) {
		t.Error("single observer should be returned as is")
	}
}

func TestObserverFuncsSkipsNil(t *testing.T) {
	var got Phase
	f := ObserverFuncs{PhaseChange: func(_, to Phase) { got = to }}
	f.OnPhaseUpdate(PhaseBreathing, 0.1)
	f.OnSequenceComplete()
	f.OnPhaseChange(PhaseBreathing, PhaseDissolution)
	if got != PhaseDissolution {
		t.Errorf("got %s", got)
	}
}

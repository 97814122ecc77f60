package ecs

import (
	"github.com/phanxgames/stellar"

	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/features/events"
)

// PhaseChange is published once per phase transition.
type PhaseChange struct {
	From, To stellar.Phase
}

// PhaseUpdate is published every frame the phase clock advances.
type PhaseUpdate struct {
	Phase    stellar.Phase
	Progress float64
}

// SequenceComplete is published once when a non-looping sequence ends.
type SequenceComplete struct{}

var (
	// PhaseChangeEventType carries PhaseChange events.
	PhaseChangeEventType = events.NewEventType[PhaseChange]()
	// PhaseUpdateEventType carries PhaseUpdate events.
	PhaseUpdateEventType = events.NewEventType[PhaseUpdate]()
	// SequenceCompleteEventType carries SequenceComplete events.
	SequenceCompleteEventType = events.NewEventType[SequenceComplete]()
)

// DonburiOptions selects which events NewDonburiObserver publishes.
type DonburiOptions struct {
	// SkipUpdates drops per-frame PhaseUpdate events for hosts that only
	// care about transitions.
	SkipUpdates bool
}

type donburiObserver struct {
	world donburi.World
	opts  DonburiOptions
}

// NewDonburiObserver creates a stellar.Observer that publishes into world.
// Events are queued until the world's ProcessEvents runs.
func NewDonburiObserver(world donburi.World, opts ...DonburiOptions) stellar.Observer {
	o := &donburiObserver{world: world}
	if len(opts) > 0 {
		o.opts = opts[0]
	}
	return o
}

func (o *donburiObserver) OnPhaseChange(from, to stellar.Phase) {
	PhaseChangeEventType.Publish(o.world, PhaseChange{From: from, To: to})
}

func (o *donburiObserver) OnPhaseUpdate(phase stellar.Phase, progress float64) {
	if o.opts.SkipUpdates {
		return
	}
	PhaseUpdateEventType.Publish(o.world, PhaseUpdate{Phase: phase, Progress: progress})
}

func (o *donburiObserver) OnSequenceComplete() {
	SequenceCompleteEventType.Publish(o.world, SequenceComplete{})
}

// ProcessEvents delivers every queued stellar event in world to its
// subscribers.
func ProcessEvents(world donburi.World) {
	PhaseChangeEventType.ProcessEvents(world)
	PhaseUpdateEventType.ProcessEvents(world)
	SequenceCompleteEventType.ProcessEvents(world)
}

// Package ecs bridges stellar engine events into a [Donburi] world.
//
// [NewDonburiObserver] returns a stellar.Observer that publishes phase
// changes, phase progress and sequence completion as typed Donburi events.
// Subscribe to [PhaseChangeEventType], [PhaseUpdateEventType] or
// [SequenceCompleteEventType] in your ECS systems and call ProcessEvents
// once per frame to receive them.
//
// Usage:
//
//	obs := ecs.NewDonburiObserver(world)
//	ctrl, err := stellar.NewController(cfg, factory, stellar.EngineOptions{Observer: obs})
//
// [Donburi]: https://github.com/yohamta/donburi
package ecs

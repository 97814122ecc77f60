package stellar

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

// Action is a host command bound to a key.
type Action uint8

const (
	ActionTogglePause Action = iota
	ActionToggleDebug
)

func (a Action) String() string {
	switch a {
	case ActionTogglePause:
		return "toggle-pause"
	case ActionToggleDebug:
		return "toggle-debug"
	}
	return "unknown"
}

// KeyBindings maps keys to actions. Keys fire on the frame they are first
// pressed; injected keys fire one per frame ahead of real input.
type KeyBindings struct {
	Pause []ebiten.Key
	Debug []ebiten.Key

	injectQueue []ebiten.Key
}

// DefaultKeyBindings binds Space and P to pause and D to the debug overlay.
func DefaultKeyBindings() *KeyBindings {
	return &KeyBindings{
		Pause: []ebiten.Key{ebiten.KeySpace, ebiten.KeyP},
		Debug: []ebiten.Key{ebiten.KeyD},
	}
}

// lookup returns the action bound to key.
func (k *KeyBindings) lookup(key ebiten.Key) (Action, bool) {
	for _, b := range k.Pause {
		if b == key {
			return ActionTogglePause, true
		}
	}
	for _, b := range k.Debug {
		if b == key {
			return ActionToggleDebug, true
		}
	}
	return 0, false
}

// Poll returns the actions triggered this frame. justPressed reports real
// key presses; pass nil to consume injected keys only.
func (k *KeyBindings) Poll(justPressed func(ebiten.Key) bool) []Action {
	var out []Action
	if key, ok := k.popInjected(); ok {
		if a, ok := k.lookup(key); ok {
			out = append(out, a)
		}
		return out
	}
	if justPressed == nil {
		return nil
	}
	seen := [2]bool{}
	for _, keys := range [][]ebiten.Key{k.Pause, k.Debug} {
		for _, key := range keys {
			if !justPressed(key) {
				continue
			}
			a, _ := k.lookup(key)
			if !seen[a] {
				seen[a] = true
				out = append(out, a)
			}
		}
	}
	return out
}

// Update polls Ebitengine's keyboard state and applies the triggered
// actions to c.
func (k *KeyBindings) Update(c *Controller) {
	for _, a := range k.Poll(inpututil.IsKeyJustPressed) {
		Apply(c, a)
	}
}

// Apply performs a on c.
func Apply(c *Controller, a Action) {
	switch a {
	case ActionTogglePause:
		c.TogglePause()
	case ActionToggleDebug:
		c.ToggleDebug()
	}
}

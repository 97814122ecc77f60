package stellar

import "github.com/hajimehoshi/ebiten/v2"

// InjectKey queues a synthetic key press. Injected keys are consumed one
// per frame by Poll, before real keyboard input.
func (k *KeyBindings) InjectKey(key ebiten.Key) {
	k.injectQueue = append(k.injectQueue, key)
}

// PendingKeys returns the number of injected keys not yet consumed.
func (k *KeyBindings) PendingKeys() int {
	return len(k.injectQueue)
}

func (k *KeyBindings) popInjected() (ebiten.Key, bool) {
	if len(k.injectQueue) == 0 {
		return 0, false
	}
	key := k.injectQueue[0]
	copy(k.injectQueue, k.injectQueue[1:])
	k.injectQueue = k.injectQueue[:len(k.injectQueue)-1]
	return key, true
}

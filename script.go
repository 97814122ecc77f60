package stellar

import (
	"encoding/json"
	"fmt"

	"github.com/hajimehoshi/ebiten/v2"
)

// scriptStep is a single action in a run script.
type scriptStep struct {
	Action string `json:"action"`
	Label  string `json:"label,omitempty"`
	Key    string `json:"key,omitempty"`
	Width  int    `json:"width,omitempty"`
	Height int    `json:"height,omitempty"`
	Frames int    `json:"frames,omitempty"`
}

type script struct {
	Steps []scriptStep `json:"steps"`
}

// ScriptHost is what a ScriptRunner drives. Game implements it.
type ScriptHost interface {
	SetPaused(paused bool)
	ToggleDebug()
	Resize(w, h int)
	InjectKey(key ebiten.Key)
	PendingKeys() int
	Screenshot(label string)
}

// ScriptRunner sequences pause, resize, key and screenshot actions across
// frames for automated runs.
type ScriptRunner struct {
	steps     []scriptStep
	keys      []ebiten.Key // parsed key per step
	cursor    int
	waitCount int
	done      bool
}

var scriptActions = map[string]bool{
	"wait": true, "pause": true, "resume": true, "debug": true,
	"resize": true, "key": true, "screenshot": true,
}

// LoadScript parses a JSON run script such as
//
//	{"steps": [{"action": "wait", "frames": 60}, {"action": "screenshot", "label": "lines"}]}
func LoadScript(jsonData []byte) (*ScriptRunner, error) {
	var sc script
	if err := json.Unmarshal(jsonData, &sc); err != nil {
		return nil, fmt.Errorf("parse script: %w", err)
	}
	if len(sc.Steps) == 0 {
		return nil, fmt.Errorf("parse script: no steps")
	}
	r := &ScriptRunner{steps: sc.Steps, keys: make([]ebiten.Key, len(sc.Steps))}
	for i, st := range sc.Steps {
		if !scriptActions[st.Action] {
			return nil, fmt.Errorf("parse script: step %d: unknown action %q", i, st.Action)
		}
		switch st.Action {
		case "key":
			if err := r.keys[i].UnmarshalText([]byte(st.Key)); err != nil {
				return nil, fmt.Errorf("parse script: step %d: %w", i, err)
			}
		case "resize":
			if st.Width <= 0 || st.Height <= 0 {
				return nil, fmt.Errorf("parse script: step %d: resize needs width and height", i)
			}
		}
	}
	return r, nil
}

// Done reports whether every step has run.
func (r *ScriptRunner) Done() bool {
	return r.done
}

// Step advances the runner by one frame.
func (r *ScriptRunner) Step(h ScriptHost) {
	if r.done {
		return
	}
	// Let injected keys drain before moving on.
	if h.PendingKeys() > 0 {
		return
	}
	if r.waitCount > 0 {
		r.waitCount--
		return
	}
	if r.cursor >= len(r.steps) {
		r.done = true
		return
	}

	i := r.cursor
	st := r.steps[i]
	r.cursor++

	switch st.Action {
	case "wait":
		if st.Frames > 0 {
			r.waitCount = st.Frames - 1 // this frame counts as one
		}
	case "pause":
		h.SetPaused(true)
	case "resume":
		h.SetPaused(false)
	case "debug":
		h.ToggleDebug()
	case "resize":
		h.Resize(st.Width, st.Height)
	case "key":
		h.InjectKey(r.keys[i])
	case "screenshot":
		h.Screenshot(st.Label)
	}

	if r.cursor >= len(r.steps) && r.waitCount == 0 && h.PendingKeys() == 0 {
		r.done = true
	}
}

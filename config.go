package stellar

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/lucasb-eyer/go-colorful"
	"gopkg.in/yaml.v3"
)

// ErrInvalidConfig is wrapped by every Config.Validate failure.
var ErrInvalidConfig = errors.New("stellar: invalid config")

// PhaseSpec pairs a phase with its fixed duration.
type PhaseSpec struct {
	Phase      Phase `yaml:"phase" toml:"phase"`
	DurationMS int   `yaml:"durationMs" toml:"durationMs"`
}

// Duration returns the phase duration as a time.Duration.
func (s PhaseSpec) Duration() time.Duration {
	return time.Duration(s.DurationMS) * time.Millisecond
}

// StepKind selects the motion of one Breathing sub-window.
type StepKind uint8

const (
	StepExplode StepKind = iota // burst outward along the explosion vector
	StepReform                  // gather into an alternate formation
	StepSettle                  // return to the primary text target
)

var stepKindNames = [...]string{
	StepExplode: "explode",
	StepReform:  "reform",
	StepSettle:  "settle",
}

func (k StepKind) String() string {
	if int(k) < len(stepKindNames) {
		return stepKindNames[k]
	}
	return "unknown"
}

// MarshalText implements encoding.TextMarshaler.
func (k StepKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (k *StepKind) UnmarshalText(b []byte) error {
	for i, n := range stepKindNames {
		if n == strings.ToLower(string(b)) {
			*k = StepKind(i)
			return nil
		}
	}
	return fmt.Errorf("unknown breathing step %q", b)
}

// MarshalText implements encoding.TextMarshaler.
func (p Phase) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (p *Phase) UnmarshalText(b []byte) error {
	v, ok := ParsePhase(strings.ToLower(string(b)))
	if !ok || v == PhaseComplete {
		return fmt.Errorf("unknown phase %q", b)
	}
	*p = v
	return nil
}

// BreathStep is one sub-window of the Breathing phase. End is the phase
// progress at which the step finishes; the step starts where the previous
// one ended (or at 0).
type BreathStep struct {
	Kind StepKind `yaml:"kind" toml:"kind"`
	End  float64  `yaml:"end" toml:"end"`
	// Formation is the FormationResolver index for StepReform; with the
	// default resolver it indexes Config.Formations.
	Formation int `yaml:"formation" toml:"formation"`
}

// GlyphConfig controls text rasterization and layout.
type GlyphConfig struct {
	// Step is the sampling grid stride in pixels.
	Step int `yaml:"step" toml:"step"`
	// Threshold is the minimum alpha in (0,1) for a pixel to count as ink.
	Threshold float64 `yaml:"threshold" toml:"threshold"`
	// FontScale sizes the font as a fraction of the canvas width.
	FontScale   float64 `yaml:"fontScale" toml:"fontScale"`
	MinFontSize float64 `yaml:"minFontSize" toml:"minFontSize"`
	MaxFontSize float64 `yaml:"maxFontSize" toml:"maxFontSize"`
	LineSpacing float64 `yaml:"lineSpacing" toml:"lineSpacing"`
	// FontPath optionally points at a TTF/OTF file. Empty uses Go Regular.
	FontPath string `yaml:"fontPath" toml:"fontPath"`
}

// ParticleConfig controls per-particle motion. Radii are in pixels at a
// 600px reference canvas and scale with the shorter canvas side.
type ParticleConfig struct {
	BaseSize      float64 `yaml:"baseSize" toml:"baseSize"`
	EmphasisScale float64 `yaml:"emphasisScale" toml:"emphasisScale"`
	SpecialScale  float64 `yaml:"specialScale" toml:"specialScale"`

	// ExplodeEnd is the Materialization progress where the initial burst
	// hands over to the ease onto the target.
	ExplodeEnd    float64 `yaml:"explodeEnd" toml:"explodeEnd"`
	ExplodeRadius float64 `yaml:"explodeRadius" toml:"explodeRadius"`

	// DriftStart is the Constellation progress where particles begin to
	// drift outward ahead of Breathing.
	DriftStart  float64 `yaml:"driftStart" toml:"driftStart"`
	DriftRadius float64 `yaml:"driftRadius" toml:"driftRadius"`

	ShimmerAmplitude float64 `yaml:"shimmerAmplitude" toml:"shimmerAmplitude"`

	BurstRadius float64 `yaml:"burstRadius" toml:"burstRadius"`
	// OrbitRadius is the swirl radius for particles outside a formation,
	// as a fraction of the shorter canvas side.
	OrbitRadius float64 `yaml:"orbitRadius" toml:"orbitRadius"`
	// OrbitTurns must be a whole number so a swirl ends where it began.
	OrbitTurns int `yaml:"orbitTurns" toml:"orbitTurns"`

	DissolveRadius float64 `yaml:"dissolveRadius" toml:"dissolveRadius"`

	Breathing []BreathStep `yaml:"breathing" toml:"breathing"`
}

// LineConfig controls constellation lines.
type LineConfig struct {
	Width     float64 `yaml:"width" toml:"width"`
	GlowWidth float64 `yaml:"glowWidth" toml:"glowWidth"`
	// RevealStart and RevealEnd bound the Constellation sub-window over
	// which lines draw in.
	RevealStart float64 `yaml:"revealStart" toml:"revealStart"`
	RevealEnd   float64 `yaml:"revealEnd" toml:"revealEnd"`
	// Stagger delays each successive line's reveal by this much progress.
	Stagger     float64 `yaml:"stagger" toml:"stagger"`
	Bend        Range   `yaml:"bend" toml:"bend"`
	PulseSpeed  float64 `yaml:"pulseSpeed" toml:"pulseSpeed"`
	TravelSpeed float64 `yaml:"travelSpeed" toml:"travelSpeed"`
	TrailDots   int     `yaml:"trailDots" toml:"trailDots"`
	// MiniPerGlyph is the number of mini-constellation segments drawn
	// inside each emphasized character.
	MiniPerGlyph int `yaml:"miniPerGlyph" toml:"miniPerGlyph"`
}

// FlareConfig controls decorative burst flares.
type FlareConfig struct {
	Max        int `yaml:"max" toml:"max"`
	CooldownMS int `yaml:"cooldownMs" toml:"cooldownMs"`
	// Chance is the per-second spawn probability for one ready particle.
	Chance float64 `yaml:"chance" toml:"chance"`
	// Lifetime is in seconds.
	Lifetime Range `yaml:"lifetime" toml:"lifetime"`
	Speed    Range `yaml:"speed" toml:"speed"`
	Size     Range `yaml:"size" toml:"size"`
}

// EnvelopeConfig controls the scene-wide fade.
type EnvelopeConfig struct {
	FadeIn  float64 `yaml:"fadeIn" toml:"fadeIn"`
	FadeOut float64 `yaml:"fadeOut" toml:"fadeOut"`
}

// Palette holds hex colors ("#rrggbb").
type Palette struct {
	Background string `yaml:"background" toml:"background"`
	Particle   string `yaml:"particle" toml:"particle"`
	Emphasis   string `yaml:"emphasis" toml:"emphasis"`
	Special    string `yaml:"special" toml:"special"`
	Line       string `yaml:"line" toml:"line"`
	FlareFrom  string `yaml:"flareFrom" toml:"flareFrom"`
	FlareTo    string `yaml:"flareTo" toml:"flareTo"`
}

// DebugConfig controls the telemetry overlay.
type DebugConfig struct {
	Enabled     bool `yaml:"enabled" toml:"enabled"`
	RefreshMS   int  `yaml:"refreshMs" toml:"refreshMs"`
	MaxErrors   int  `yaml:"maxErrors" toml:"maxErrors"`
	MaxWarnings int  `yaml:"maxWarnings" toml:"maxWarnings"`
}

// Config is the full engine configuration. Hosts build one once (usually
// from DefaultConfig or LoadConfig) and pass it to NewController.
type Config struct {
	Text        string   `yaml:"text" toml:"text"`
	KeyWords    []string `yaml:"keyWords" toml:"keyWords"`
	SpecialWord string   `yaml:"specialWord" toml:"specialWord"`
	// Formations are alternate words assembled during Breathing reform
	// steps. Empty disables reformation; all particles swirl instead.
	Formations []string `yaml:"formations" toml:"formations"`

	Seed            uint64      `yaml:"seed" toml:"seed"`
	Loop            bool        `yaml:"loop" toml:"loop"`
	CompleteDelayMS int         `yaml:"completeDelayMs" toml:"completeDelayMs"`
	Phases          []PhaseSpec `yaml:"phases" toml:"phases"`

	Glyph    GlyphConfig    `yaml:"glyph" toml:"glyph"`
	Particle ParticleConfig `yaml:"particle" toml:"particle"`
	Line     LineConfig     `yaml:"line" toml:"line"`
	Flare    FlareConfig    `yaml:"flare" toml:"flare"`
	Envelope EnvelopeConfig `yaml:"envelope" toml:"envelope"`
	Palette  Palette        `yaml:"palette" toml:"palette"`
	Debug    DebugConfig    `yaml:"debug" toml:"debug"`
}

// DefaultConfig returns the configuration of the full "breathing" sequence.
func DefaultConfig() Config {
	return Config{
		Text:            "Reach\nfor the stars",
		KeyWords:        []string{"Reach", "stars"},
		SpecialWord:     "stars",
		Formations:      []string{"DREAM", "SHINE"},
		Seed:            1,
		Loop:            true,
		CompleteDelayMS: 500,
		Phases: []PhaseSpec{
			{PhaseMaterialization, 10000},
			{PhaseConstellation, 8000},
			{PhaseBreathing, 20000},
			{PhaseDissolution, 6000},
		},
		Glyph: GlyphConfig{
			Step:        4,
			Threshold:   0.5,
			FontScale:   0.12,
			MinFontSize: 10,
			MaxFontSize: 160,
			LineSpacing: 1.25,
		},
		Particle: ParticleConfig{
			BaseSize:         1.6,
			EmphasisScale:    1.4,
			SpecialScale:     1.8,
			ExplodeEnd:       0.2,
			ExplodeRadius:    60,
			DriftStart:       0.9,
			DriftRadius:      14,
			ShimmerAmplitude: 1.2,
			BurstRadius:      150,
			OrbitRadius:      0.3,
			OrbitTurns:       1,
			DissolveRadius:   260,
			Breathing: []BreathStep{
				{Kind: StepExplode, End: 0.2},
				{Kind: StepReform, End: 0.4, Formation: 0},
				{Kind: StepReform, End: 0.6, Formation: 1},
				{Kind: StepExplode, End: 0.8},
				{Kind: StepSettle, End: 1},
			},
		},
		Line: LineConfig{
			Width:        1,
			GlowWidth:    4,
			RevealStart:  0.1,
			RevealEnd:    0.6,
			Stagger:      0.04,
			Bend:         Range{-0.3, 0.3},
			PulseSpeed:   2,
			TravelSpeed:  0.35,
			TrailDots:    6,
			MiniPerGlyph: 3,
		},
		Flare: FlareConfig{
			Max:        64,
			CooldownMS: 400,
			Chance:     0.5,
			Lifetime:   Range{0.4, 0.9},
			Speed:      Range{20, 70},
			Size:       Range{1.5, 3},
		},
		Envelope: EnvelopeConfig{FadeIn: 0.25, FadeOut: 0.25},
		Palette: Palette{
			Background: "#05060f",
			Particle:   "#e8ecff",
			Emphasis:   "#9fd3ff",
			Special:    "#ffd27a",
			Line:       "#7fb8ff",
			FlareFrom:  "#ffb36b",
			FlareTo:    "#8a7bff",
		},
		Debug: DebugConfig{
			RefreshMS:   100,
			MaxErrors:   5,
			MaxWarnings: 5,
		},
	}
}

// LoadConfig reads a YAML (.yaml, .yml) or TOML (.toml) file and overlays
// it onto DefaultConfig. The result is validated.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("stellar: failed to read config: %w", err)
	}

	cfg := DefaultConfig()
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("stellar: failed to parse config %s: %w", path, err)
		}
	case ".toml":
		if _, err := toml.Decode(string(data), &cfg); err != nil {
			return Config{}, fmt.Errorf("stellar: failed to parse config %s: %w", path, err)
		}
	default:
		return Config{}, fmt.Errorf("stellar: unsupported config format %q", filepath.Ext(path))
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks ranges and cross-field constraints.
func (c *Config) Validate() error {
	if len(c.Phases) == 0 {
		return fmt.Errorf("%w: no phases", ErrInvalidConfig)
	}
	for i, p := range c.Phases {
		if p.DurationMS <= 0 {
			return fmt.Errorf("%w: phase %d (%s) duration must be positive", ErrInvalidConfig, i, p.Phase)
		}
		if p.Phase == PhaseComplete {
			return fmt.Errorf("%w: phase %d cannot be %s", ErrInvalidConfig, i, p.Phase)
		}
		if i > 0 && p.Phase <= c.Phases[i-1].Phase {
			return fmt.Errorf("%w: phase %d (%s) out of order", ErrInvalidConfig, i, p.Phase)
		}
	}
	if c.CompleteDelayMS < 0 {
		return fmt.Errorf("%w: completeDelayMs must not be negative", ErrInvalidConfig)
	}
	if c.Glyph.Step < 1 {
		return fmt.Errorf("%w: glyph step must be >= 1", ErrInvalidConfig)
	}
	if c.Glyph.Threshold <= 0 || c.Glyph.Threshold >= 1 {
		return fmt.Errorf("%w: glyph threshold must be in (0,1)", ErrInvalidConfig)
	}
	if c.Glyph.FontScale <= 0 || c.Glyph.MinFontSize <= 0 || c.Glyph.MaxFontSize < c.Glyph.MinFontSize {
		return fmt.Errorf("%w: invalid font sizing", ErrInvalidConfig)
	}
	if c.Particle.BaseSize <= 0 {
		return fmt.Errorf("%w: particle baseSize must be positive", ErrInvalidConfig)
	}
	for name, f := range map[string]float64{
		"particle.explodeEnd": c.Particle.ExplodeEnd,
		"particle.driftStart": c.Particle.DriftStart,
		"line.revealStart":    c.Line.RevealStart,
		"line.revealEnd":      c.Line.RevealEnd,
		"envelope.fadeIn":     c.Envelope.FadeIn,
		"envelope.fadeOut":    c.Envelope.FadeOut,
	} {
		if f < 0 || f > 1 {
			return fmt.Errorf("%w: %s must be in [0,1], got %v", ErrInvalidConfig, name, f)
		}
	}
	if c.Line.RevealEnd < c.Line.RevealStart {
		return fmt.Errorf("%w: line revealEnd before revealStart", ErrInvalidConfig)
	}
	if c.Particle.OrbitTurns < 0 {
		return fmt.Errorf("%w: particle orbitTurns must not be negative", ErrInvalidConfig)
	}
	prev := 0.0
	for i, s := range c.Particle.Breathing {
		if s.End <= prev || s.End > 1 {
			return fmt.Errorf("%w: breathing step %d end %v must increase within (0,1]", ErrInvalidConfig, i, s.End)
		}
		if s.Kind == StepReform && (s.Formation < 0 || s.Formation >= maxFormations) {
			return fmt.Errorf("%w: breathing step %d formation %d out of range", ErrInvalidConfig, i, s.Formation)
		}
		prev = s.End
	}
	if len(c.Particle.Breathing) > 0 && prev != 1 {
		return fmt.Errorf("%w: last breathing step must end at 1", ErrInvalidConfig)
	}
	if len(c.Formations) > maxFormations {
		return fmt.Errorf("%w: at most %d formations", ErrInvalidConfig, maxFormations)
	}
	if c.Flare.Max < 0 || c.Flare.CooldownMS < 0 {
		return fmt.Errorf("%w: flare max and cooldown must not be negative", ErrInvalidConfig)
	}
	if _, err := c.Palette.resolve(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	return nil
}

// palette is the parsed form of Palette.
type palette struct {
	background colorful.Color
	particle   colorful.Color
	emphasis   colorful.Color
	special    colorful.Color
	line       colorful.Color
	flareFrom  colorful.Color
	flareTo    colorful.Color
}

func (p Palette) resolve() (palette, error) {
	var out palette
	for _, f := range []struct {
		name string
		hex  string
		dst  *colorful.Color
	}{
		{"background", p.Background, &out.background},
		{"particle", p.Particle, &out.particle},
		{"emphasis", p.Emphasis, &out.emphasis},
		{"special", p.Special, &out.special},
		{"line", p.Line, &out.line},
		{"flareFrom", p.FlareFrom, &out.flareFrom},
		{"flareTo", p.FlareTo, &out.flareTo},
	} {
		c, err := colorful.Hex(f.hex)
		if err != nil {
			return palette{}, fmt.Errorf("palette %s: %w", f.name, err)
		}
		*f.dst = c
	}
	return out, nil
}

// toColor converts a colorful.Color to an opaque Color.
func toColor(c colorful.Color) Color {
	c = c.Clamped()
	return Color{c.R, c.G, c.B, 1}
}

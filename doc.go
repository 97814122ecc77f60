// Package stellar is a particle-text animation engine for [Ebitengine].
//
// Stellar rasterizes a string into a sparse cloud of point particles and
// drives them through four timed phases: Materialization, Constellation,
// Breathing and Dissolution. Curved constellation lines join the letters
// of key words, decorative flares burst during explosive moments, and the
// sequence either loops or completes once.
//
// # Quick start
//
// The simplest host is [Game], which opens a window and wires keyboard
// controls (Space or P pauses, D toggles the telemetry overlay):
//
//	cfg := stellar.DefaultConfig()
//	cfg.Text = "Reach\nfor the stars"
//	ctrl, err := stellar.NewController(cfg, stellar.NewEbitenSurfaceFactory(), stellar.EngineOptions{})
//	if err != nil {
//		log.Fatal(err)
//	}
//	log.Fatal(stellar.NewGame(ctrl, stellar.GameOptions{}).Run("stellar", 960, 600))
//
// # Lifecycle
//
// A [Controller] binds an [Engine] to a host [Container]. Init mounts a
// surface sized to the container and activates; Deactivate stops the loop
// and releases every particle, line and flare; Destroy also detaches the
// surface so Init can run again. Repeated calls are no-ops. A resize while
// active regenerates the layout from scratch.
//
// # Surfaces
//
// The engine only draws through the [Surface] interface. Implementations:
//
//   - [EbitenSurface]: an offscreen *ebiten.Image for windowed hosts
//   - [ImageSurface]: a CPU canvas on fogleman/gg for PNG output
//   - [TerminalSurface]: a half-block framebuffer presented with tcell
//   - [RecordingSurface]: records calls, for tests
//
// # Timing
//
// All timing reads an injected [Clock]. [ManualClock] makes runs exactly
// reproducible, which the offline renderer and the tests rely on. Pausing
// shifts the phase start reference by the pause duration, so paused time
// never counts toward a phase.
//
// # Events
//
// Hosts receive phase changes, per-frame progress and sequence completion
// through an [Observer] passed in [EngineOptions]. The ecs sub-module
// republishes them as Donburi events.
//
// # Configuration
//
// [Config] enumerates every tunable with documented defaults from
// [DefaultConfig]. [LoadConfig] overlays a YAML or TOML file.
//
// # Logging
//
// Stellar is silent by default. Pass a charmbracelet/log logger to
// [SetLogger] to see lifecycle, layout and per-entity failure messages.
//
// [Ebitengine]: https://ebitengine.org
package stellar

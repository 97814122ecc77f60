package cli

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/phanxgames/stellar"
)

const (
	defaultWidth  = 960
	defaultHeight = 600
)

// commonOpts holds the flags shared by every command.
type commonOpts struct {
	config string
	text   string
	width  int
	height int
	loop   bool
	debug  bool
	seed   uint64
}

func (o *commonOpts) register(cmd *cobra.Command, width, height int) {
	o.width, o.height = width, height
	f := cmd.Flags()
	f.StringVarP(&o.config, "config", "c", "", "config file (.yaml, .yml or .toml)")
	f.StringVarP(&o.text, "text", "t", "", `text to animate; "\n" starts a new line`)
	f.IntVar(&o.width, "width", width, "canvas width")
	f.IntVar(&o.height, "height", height, "canvas height")
	f.BoolVar(&o.loop, "loop", true, "loop the sequence instead of stopping after dissolution")
	f.BoolVar(&o.debug, "debug", false, "show the telemetry overlay")
	f.Uint64Var(&o.seed, "seed", 0, "layout seed (0 keeps the config value)")
}

// load builds the engine config: defaults, then the config file, then
// any flags set on cmd.
func (o *commonOpts) load(cmd *cobra.Command) (stellar.Config, error) {
	cfg := stellar.DefaultConfig()
	if o.config != "" {
		var err error
		if cfg, err = stellar.LoadConfig(o.config); err != nil {
			return stellar.Config{}, err
		}
	}
	flags := cmd.Flags()
	if flags.Changed("text") {
		cfg.Text = strings.ReplaceAll(o.text, `\n`, "\n")
	}
	if flags.Changed("loop") {
		cfg.Loop = o.loop
	}
	if flags.Changed("debug") {
		cfg.Debug.Enabled = o.debug
	}
	if o.seed != 0 {
		cfg.Seed = o.seed
	}
	return cfg, cfg.Validate()
}

package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
)

func newOptsCmd(o *commonOpts) *cobra.Command {
	cmd := &cobra.Command{Use: "x", RunE: func(*cobra.Command, []string) error { return nil }}
	o.register(cmd, 320, 240)
	return cmd
}

func TestCommonOptsDefaults(t *testing.T) {
	var o commonOpts
	cmd := newOptsCmd(&o)
	if err := cmd.ParseFlags(nil); err != nil {
		t.Fatal(err)
	}
	cfg, err := o.load(cmd)
	if err != nil {
		t.Fatal(err)
	}
	if o.width != 320 || o.height != 240 {
		t.Errorf("size = %dx%d, want 320x240", o.width, o.height)
	}
	if !cfg.Loop || cfg.Debug.Enabled {
		t.Errorf("loop=%v debug=%v, want defaults", cfg.Loop, cfg.Debug.Enabled)
	}
}

func TestCommonOptsFlagsOverride(t *testing.T) {
	var o commonOpts
	cmd := newOptsCmd(&o)
	if err := cmd.ParseFlags([]string{`--text=Hello\nWorld`, "--loop=false", "--debug", "--seed=9"}); err != nil {
		t.Fatal(err)
	}
	cfg, err := o.load(cmd)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Text != "Hello\nWorld" {
		t.Errorf("text = %q", cfg.Text)
	}
	if cfg.Loop {
		t.Error("loop should be false")
	}
	if !cfg.Debug.Enabled {
		t.Error("debug should be enabled")
	}
	if cfg.Seed != 9 {
		t.Errorf("seed = %d, want 9", cfg.Seed)
	}
}

func TestCommonOptsConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "stellar.yaml")
	if err := os.WriteFile(path, []byte("text: From file\nloop: false\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	var o commonOpts
	cmd := newOptsCmd(&o)
	if err := cmd.ParseFlags([]string{"--config", path, "--loop=true"}); err != nil {
		t.Fatal(err)
	}
	cfg, err := o.load(cmd)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Text != "From file" {
		t.Errorf("text = %q, want the file value", cfg.Text)
	}
	if !cfg.Loop {
		t.Error("--loop should override the file")
	}
}

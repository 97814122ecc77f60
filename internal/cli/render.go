package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/phanxgames/stellar"
)

// renderOpts holds the flags for the render command.
type renderOpts struct {
	commonOpts
	out    string // output directory
	frames int    // frames to write
	fps    int    // simulated frame rate
	every  int    // write every Nth frame
	skip   int    // frames simulated before the first write
}

// newRenderCmd writes PNG frames without opening a window. Time is
// simulated, so output is identical between runs.
func newRenderCmd() *cobra.Command {
	opts := renderOpts{out: "frames", frames: 120, fps: 30, every: 1}

	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render frames to PNG files",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.load(cmd)
			if err != nil {
				return err
			}
			logger := loggerFromContext(cmd.Context())
			start := time.Now()
			paths, err := renderFrames(cmd.Context(), cfg, opts)
			if err != nil {
				return err
			}
			logger.Infof("Wrote %d frames to %s (%s)", len(paths), opts.out, time.Since(start).Round(time.Millisecond))
			return nil
		},
	}
	opts.register(cmd, 600, 400)
	f := cmd.Flags()
	f.StringVarP(&opts.out, "out", "o", opts.out, "output directory")
	f.IntVar(&opts.frames, "frames", opts.frames, "number of frames to simulate after --skip")
	f.IntVar(&opts.fps, "fps", opts.fps, "simulated frames per second")
	f.IntVar(&opts.every, "every", opts.every, "write every Nth frame")
	f.IntVar(&opts.skip, "skip", 0, "frames to simulate before writing")
	return cmd
}

// renderFrames drives a controller on a manual clock and returns the
// paths it wrote.
func renderFrames(ctx context.Context, cfg stellar.Config, opts renderOpts) ([]string, error) {
	if opts.fps <= 0 || opts.frames < 0 || opts.every <= 0 {
		return nil, fmt.Errorf("invalid frame settings: fps=%d frames=%d every=%d", opts.fps, opts.frames, opts.every)
	}
	if err := os.MkdirAll(opts.out, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	clock := stellar.NewManualClock(time.Time{})
	ctrl, err := stellar.NewController(cfg, stellar.NewImageSurfaceFactory(), stellar.EngineOptions{Clock: clock})
	if err != nil {
		return nil, err
	}
	defer ctrl.Destroy()
	if err := ctrl.Init(stellar.NewBasicContainer(opts.width, opts.height)); err != nil {
		return nil, err
	}

	step := time.Second / time.Duration(opts.fps)
	var paths []string
	for i := -opts.skip; i < opts.frames; i++ {
		if err := ctx.Err(); err != nil {
			return paths, err
		}
		clock.Advance(step)
		ctrl.Tick()
		if i < 0 || i%opts.every != 0 {
			continue
		}
		surface, ok := ctrl.Surface().(*stellar.ImageSurface)
		if !ok {
			return paths, fmt.Errorf("unexpected surface %T", ctrl.Surface())
		}
		path := filepath.Join(opts.out, fmt.Sprintf("frame_%05d.png", i))
		if err := surface.SavePNG(path); err != nil {
			return paths, err
		}
		paths = append(paths, path)
	}
	return paths, nil
}

package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/phanxgames/stellar"
)

// newWindowCmd opens an Ebitengine window. Space or P pauses, D toggles
// the overlay.
func newWindowCmd() *cobra.Command {
	var opts commonOpts
	var scriptPath, shotDir string

	cmd := &cobra.Command{
		Use:   "window",
		Short: "Play the animation in a window",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.load(cmd)
			if err != nil {
				return err
			}
			logger := loggerFromContext(cmd.Context())

			ctrl, err := stellar.NewController(cfg, stellar.NewEbitenSurfaceFactory(), stellar.EngineOptions{
				Observer: stellar.ObserverFuncs{
					PhaseChange: func(from, to stellar.Phase) {
						logger.Debug("phase", "from", from, "to", to)
					},
					SequenceComplete: func() { logger.Info("sequence complete") },
				},
			})
			if err != nil {
				return err
			}

			gameOpts := stellar.GameOptions{ScreenshotDir: shotDir}
			if scriptPath != "" {
				data, err := os.ReadFile(scriptPath)
				if err != nil {
					return fmt.Errorf("failed to read script: %w", err)
				}
				if gameOpts.Script, err = stellar.LoadScript(data); err != nil {
					return err
				}
				gameOpts.ExitOnScriptDone = true
			}

			logger.Info("opening window", "id", ctrl.ID(), "width", opts.width, "height", opts.height)
			return stellar.NewGame(ctrl, gameOpts).Run("stellar", opts.width, opts.height)
		},
	}
	opts.register(cmd, defaultWidth, defaultHeight)
	cmd.Flags().StringVar(&scriptPath, "script", "", "JSON run script; the window closes when it finishes")
	cmd.Flags().StringVar(&shotDir, "screenshots", "screenshots", "directory for script screenshots")
	return cmd
}

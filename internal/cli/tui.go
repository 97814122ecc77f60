package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/spf13/cobra"

	"github.com/phanxgames/stellar"
)

// newTUICmd renders the animation in the terminal. Space or P pauses, D
// toggles the overlay, q or Esc quits.
func newTUICmd() *cobra.Command {
	var opts commonOpts
	var fps int

	cmd := &cobra.Command{
		Use:   "tui",
		Short: "Play the animation in the terminal",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.load(cmd)
			if err != nil {
				return err
			}
			screen, err := tcell.NewScreen()
			if err != nil {
				return fmt.Errorf("failed to open terminal: %w", err)
			}
			if err := screen.Init(); err != nil {
				return fmt.Errorf("failed to init terminal: %w", err)
			}
			defer screen.Fini()
			return runTUI(cmd.Context(), screen, cfg, fps)
		},
	}
	opts.register(cmd, 0, 0)
	cmd.Flags().IntVar(&fps, "fps", 30, "frames per second")
	return cmd
}

// tuiAction maps a terminal key event to a controller action. quit is
// true for q, Esc and Ctrl-C.
func tuiAction(ev *tcell.EventKey) (action stellar.Action, ok, quit bool) {
	switch ev.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return 0, false, true
	case tcell.KeyRune:
		switch ev.Rune() {
		case 'q', 'Q':
			return 0, false, true
		case ' ', 'p', 'P':
			return stellar.ActionTogglePause, true, false
		case 'd', 'D':
			return stellar.ActionToggleDebug, true, false
		}
	}
	return 0, false, false
}

// runTUI drives a controller on screen until ctx ends or the user quits.
func runTUI(ctx context.Context, screen tcell.Screen, cfg stellar.Config, fps int) error {
	if fps <= 0 {
		fps = 30
	}
	logger := loggerFromContext(ctx)
	cols, rows := screen.Size()
	container := stellar.NewBasicContainer(cols, rows*2)

	ctrl, err := stellar.NewController(cfg, stellar.NewTerminalSurfaceFactory(), stellar.EngineOptions{})
	if err != nil {
		return err
	}
	defer ctrl.Destroy()
	if err := ctrl.Init(container); err != nil {
		return err
	}
	logger.Debug("terminal", "id", ctrl.ID(), "cols", cols, "rows", rows)

	events := make(chan tcell.Event, 16)
	quit := make(chan struct{})
	go func() {
		for {
			ev := screen.PollEvent()
			if ev == nil {
				return
			}
			select {
			case events <- ev:
			case <-quit:
				return
			}
		}
	}()
	defer close(quit)

	ticker := time.NewTicker(time.Second / time.Duration(fps))
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev := <-events:
			switch ev := ev.(type) {
			case *tcell.EventResize:
				w, h := ev.Size()
				container.SetSize(w, h*2)
				screen.Sync()
			case *tcell.EventKey:
				a, ok, q := tuiAction(ev)
				if q {
					return nil
				}
				if ok {
					stellar.Apply(ctrl, a)
				}
			}
		case <-ticker.C:
			ctrl.Tick()
			if s, ok := ctrl.Surface().(*stellar.TerminalSurface); ok {
				s.Present(screen)
				screen.Show()
			}
		}
	}
}

package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	charmlog "github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/phanxgames/stellar"
)

var (
	version = "dev"
	commit  string
	date    string
)

// SetVersion sets the version information displayed by --version.
func SetVersion(v, c, d string) {
	version = v
	commit = c
	date = d
}

// Execute runs the stellar CLI with ctx.
func Execute(ctx context.Context) error {
	return newRootCmd(os.Stderr).ExecuteContext(ctx)
}

func newRootCmd(logOut io.Writer) *cobra.Command {
	var verbose bool

	root := &cobra.Command{
		Use:          "stellar",
		Short:        "Stellar animates text as a field of particles",
		Long:         `Stellar turns a line of text into particles that materialize, form constellations, breathe through alternate shapes and dissolve.`,
		Version:      version,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := charmlog.InfoLevel
			if verbose {
				level = charmlog.DebugLevel
			}
			l := newLogger(logOut, level)
			stellar.SetLogger(l.WithPrefix("stellar"))
			cmd.SetContext(withLogger(cmd.Context(), l))
		},
	}

	root.SetVersionTemplate(fmt.Sprintf("stellar %s\ncommit: %s\nbuilt: %s\n", version, commit, date))
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")

	root.AddCommand(newWindowCmd())
	root.AddCommand(newRenderCmd())
	root.AddCommand(newTUICmd())
	return root
}

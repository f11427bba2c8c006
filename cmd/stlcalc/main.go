package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/philipparndt/stlcalc/pkg/material"
	"github.com/philipparndt/stlcalc/version"
	"github.com/spf13/cobra"
)

// cli carries what every command shares
type cli struct {
	catalog *material.Catalog
	logger  *slog.Logger
	verbose bool
}

func newRootCmd(catalog *material.Catalog) *cobra.Command {
	c := &cli{catalog: catalog}

	rootCmd := &cobra.Command{
		Use:   "stlcalc",
		Short: "Calculate volume, mass and dimensions of STL models",
		Long: `stlcalc reads ASCII and binary STL (Stereolithography) files and reports
the enclosed volume, surface area, bounding-box dimensions, triangle count and
the estimated print mass for a filament material.`,
		Version:       version.GetVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := slog.LevelInfo
			if c.verbose {
				level = slog.LevelDebug
			}
			c.logger = slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))
		},
	}

	rootCmd.PersistentFlags().BoolVarP(&c.verbose, "verbose", "v", false, "Enable debug logging")

	rootCmd.AddCommand(
		newInfoCmd(c),
		newMaterialsCmd(c),
		newVersionCmd(),
		newCompletionCmd(),
	)
	return rootCmd
}

func main() {
	if err := newRootCmd(material.Default()).Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

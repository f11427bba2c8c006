package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"time"

	"github.com/philipparndt/stlcalc/internal/loader"
	"github.com/philipparndt/stlcalc/pkg/analysis"
	"github.com/philipparndt/stlcalc/pkg/material"
	"github.com/philipparndt/stlcalc/pkg/stl"
	"github.com/philipparndt/stlcalc/pkg/watcher"
	"github.com/spf13/cobra"
)

const watchDebounce = 500 * time.Millisecond

type infoOptions struct {
	material string
	density  float64
	inch     bool
	watch    bool
}

func newInfoCmd(c *cli) *cobra.Command {
	opts := &infoOptions{}

	cmd := &cobra.Command{
		Use:   "info [file]",
		Short: "Display volume, mass, area, dimensions and triangle count",
		Long: `Load an STL (or OpenSCAD) file and print its measurements.

Volume is reported in cm³ and area in cm², assuming the file is in millimetres.
The mass uses the density of --material, or --density when given.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runInfo(cmd, args[0], opts)
		},
	}

	cmd.Flags().StringVarP(&opts.material, "material", "m", "PLA", "Material id or name (see 'stlcalc materials')")
	cmd.Flags().Float64VarP(&opts.density, "density", "d", 0, "Custom density in g/cm³, overrides --material")
	cmd.Flags().BoolVar(&opts.inch, "inch", false, "Also report the volume in cubic inches")
	cmd.Flags().BoolVarP(&opts.watch, "watch", "w", false, "Reload and report again whenever the file changes")

	return cmd
}

func (c *cli) selectMaterial(cmd *cobra.Command, opts *infoOptions) (material.Entry, error) {
	if cmd.Flags().Changed("density") {
		return material.Entry{Name: "custom", Density: opts.density}, nil
	}
	return c.catalog.Resolve(opts.material)
}

func (c *cli) runInfo(cmd *cobra.Command, path string, opts *infoOptions) error {
	mat, err := c.selectMaterial(cmd, opts)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	out := cmd.OutOrStdout()
	engine := stl.NewEngine(stl.WithLogger(c.logger))

	src, err := loader.Resolve(ctx, path, c.logger)
	if err != nil {
		return err
	}
	defer func() { src.Close() }()

	if err := c.report(out, engine, src, mat, opts.inch); err != nil {
		if !opts.watch {
			return err
		}
		c.logger.Error("failed to analyze model", "path", path, "err", err)
	}

	if !opts.watch {
		return nil
	}

	fw, err := watcher.NewFileWatcher(watchDebounce, c.logger)
	if err != nil {
		return err
	}
	defer fw.Close()

	if err := fw.Watch(src.Watch...); err != nil {
		return err
	}
	c.logger.Info("watching for changes", "files", fw.Files())

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt)
	defer stop()

	err = fw.Run(ctx, func(changed string) {
		c.logger.Info("file changed, reloading", "path", changed)

		if src.IsOpenSCAD {
			next, err := loader.Resolve(ctx, path, c.logger)
			if err != nil {
				c.logger.Error("failed to render model", "path", path, "err", err)
				return
			}
			src.Close()
			src = next
			if err := fw.Watch(src.Watch...); err != nil {
				c.logger.Warn("failed to watch dependencies", "err", err)
			}
			c.logger.Debug("watching for changes", "files", fw.Files())
		}

		fmt.Fprintln(out)
		if err := c.report(out, engine, src, mat, opts.inch); err != nil {
			c.logger.Error("failed to analyze model", "path", path, "err", err)
		}
	})
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

// report loads the source into engine and prints its measurements.
func (c *cli) report(out io.Writer, engine *stl.Engine, src *loader.Source, mat material.Entry, inch bool) error {
	if err := engine.Load(src.STLPath); err != nil {
		return fmt.Errorf("error parsing STL file: %w", err)
	}

	result, err := analysis.Analyze(engine, mat)
	if err != nil {
		return fmt.Errorf("%s: %w", src.Path, err)
	}

	if src.IsOpenSCAD {
		fmt.Fprintf(out, "File: %s (rendered)\n", src.Path)
	} else {
		fmt.Fprintf(out, "File: %s\n", src.Path)
	}
	result.Print(out, inch)
	return nil
}

// Package loader turns a command-line input path into an STL file the
// engine can load, rendering OpenSCAD sources first.
package loader

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/philipparndt/stlcalc/pkg/openscad"
)

// Source is a resolved input
type Source struct {
	// Path is the file given on the command line
	Path string
	// STLPath is the file to load; a temporary file for OpenSCAD sources
	STLPath string
	// Watch lists the files whose changes require a reload
	Watch []string
	// IsOpenSCAD is true when STLPath was rendered from Path
	IsOpenSCAD bool
}

// Close removes the rendered temporary file, if any
func (s *Source) Close() error {
	if !s.IsOpenSCAD {
		return nil
	}
	if err := os.Remove(s.STLPath); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// Resolve prepares filePath for loading. .scad files are rendered to a
// temporary STL; any other extension is treated as STL, since the encoding
// is detected from the content.
func Resolve(ctx context.Context, filePath string, logger *slog.Logger) (*Source, error) {
	if logger == nil {
		logger = slog.Default()
	}

	if strings.ToLower(filepath.Ext(filePath)) != ".scad" {
		return &Source{Path: filePath, STLPath: filePath, Watch: []string{filePath}}, nil
	}

	absPath, err := filepath.Abs(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve path %s: %w", filePath, err)
	}
	renderer := openscad.NewRenderer(filepath.Dir(absPath))

	deps, err := renderer.ResolveDependencies(absPath)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve dependencies: %w", err)
	}

	tmp, err := os.CreateTemp("", "stlcalc_*.stl")
	if err != nil {
		return nil, fmt.Errorf("failed to create temporary file: %w", err)
	}
	tmp.Close()

	logger.Info("rendering OpenSCAD file", "path", filePath, "output", tmp.Name())
	if err := renderer.RenderToSTL(ctx, absPath, tmp.Name()); err != nil {
		os.Remove(tmp.Name())
		return nil, fmt.Errorf("failed to render OpenSCAD file: %w", err)
	}

	return &Source{
		Path:       filePath,
		STLPath:    tmp.Name(),
		Watch:      deps,
		IsOpenSCAD: true,
	}, nil
}

// Package openscad renders .scad sources to STL with the openscad binary.
package openscad

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"regexp"
	"strings"
)

// ErrNotInstalled is returned when the openscad binary cannot be found.
var ErrNotInstalled = errors.New("openscad not found in PATH; install it from https://openscad.org/")

// Matches: use <file.scad>, include <file.scad>, use <./file.scad>, etc.
var dependencyPattern = regexp.MustCompile(`^\s*(?:use|include)\s*<([^>]+)>`)

// Renderer handles OpenSCAD file rendering to STL
type Renderer struct {
	workDir string
	binary  string
}

// NewRenderer creates a renderer resolving relative paths against workDir.
func NewRenderer(workDir string) *Renderer {
	return &Renderer{
		workDir: workDir,
		binary:  "openscad",
	}
}

func (r *Renderer) abs(path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(r.workDir, path)
}

// RenderToSTL renders scadFile into outputFile
func (r *Renderer) RenderToSTL(ctx context.Context, scadFile, outputFile string) error {
	bin, err := exec.LookPath(r.binary)
	if err != nil {
		return ErrNotInstalled
	}

	cmd := exec.CommandContext(ctx, bin, "-o", outputFile, r.abs(scadFile))
	cmd.Dir = r.workDir

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		var msg strings.Builder
		fmt.Fprintf(&msg, "failed to render %s: %v", scadFile, err)
		if stderr.Len() > 0 {
			msg.WriteString("\nstderr: ")
			msg.WriteString(stderr.String())
		}
		if stdout.Len() > 0 {
			msg.WriteString("\nstdout: ")
			msg.WriteString(stdout.String())
		}
		return errors.New(msg.String())
	}

	return nil
}

// ResolveDependencies returns scadFile followed by every file it pulls in
// through use/include, transitively, as absolute paths without duplicates.
func (r *Renderer) ResolveDependencies(scadFile string) ([]string, error) {
	visited := make(map[string]bool)
	var deps []string

	if err := r.resolve(r.abs(scadFile), visited, &deps); err != nil {
		return nil, err
	}
	return deps, nil
}

func (r *Renderer) resolve(scadFile string, visited map[string]bool, deps *[]string) error {
	if visited[scadFile] {
		return nil
	}
	visited[scadFile] = true
	*deps = append(*deps, scadFile)

	direct, err := r.parseDependencies(scadFile)
	if err != nil {
		return err
	}
	for _, dep := range direct {
		if err := r.resolve(dep, visited, deps); err != nil {
			return err
		}
	}
	return nil
}

// parseDependencies lists the use/include targets of a single file
func (r *Renderer) parseDependencies(scadFile string) ([]string, error) {
	file, err := os.Open(scadFile)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", scadFile, err)
	}
	defer file.Close()

	var deps []string
	scadDir := filepath.Dir(scadFile)

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := scanner.Text()
		if strings.HasPrefix(strings.TrimSpace(line), "//") {
			continue
		}
		if m := dependencyPattern.FindStringSubmatch(line); m != nil {
			deps = append(deps, r.resolveDepPath(m[1], scadDir))
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading %s: %w", scadFile, err)
	}

	return deps, nil
}

// resolveDepPath prefers the including file's directory, then workDir.
func (r *Renderer) resolveDepPath(depPath, currentDir string) string {
	if filepath.IsAbs(depPath) {
		return filepath.Clean(depPath)
	}
	if strings.HasPrefix(depPath, "./") || strings.HasPrefix(depPath, "../") {
		return filepath.Clean(filepath.Join(currentDir, depPath))
	}

	local := filepath.Join(currentDir, depPath)
	if _, err := os.Stat(local); err == nil {
		return filepath.Clean(local)
	}
	return filepath.Clean(filepath.Join(r.workDir, depPath))
}

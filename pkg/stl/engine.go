package stl

import (
	"fmt"
	"io"
	"log/slog"
	"slices"
	"sync"

	"github.com/philipparndt/stlcalc/pkg/geometry"
)

// Engine holds one loaded mesh and computes measurements over it.
// Measurements use millimetre input and report cm³ / cm² / mm.
type Engine struct {
	mu     sync.Mutex
	mesh   *Mesh
	volume *float64 // cached cm³, reset by every load
	logger *slog.Logger
}

// Option configures an Engine
type Option func(*Engine)

// WithLogger sets the logger used for load diagnostics and mass warnings.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// NewEngine returns an engine with no mesh loaded.
func NewEngine(opts ...Option) *Engine {
	e := &Engine{
		mesh:   unloaded(),
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Load replaces the current mesh with the one decoded from path. On failure
// the engine is left unloaded.
func (e *Engine) Load(path string) error {
	mesh, err := Parse(path)
	e.replace(mesh, err)
	if err != nil {
		return err
	}

	e.logger.Debug("loaded STL file",
		"path", path,
		"encoding", mesh.Encoding.String(),
		"triangles", mesh.Count)
	return nil
}

// LoadReader is Load for an already opened stream.
func (e *Engine) LoadReader(r io.Reader) error {
	mesh, err := Decode(r)
	e.replace(mesh, err)
	if err != nil {
		return err
	}

	e.logger.Debug("loaded STL stream",
		"encoding", mesh.Encoding.String(),
		"triangles", mesh.Count)
	return nil
}

func (e *Engine) replace(mesh *Mesh, err error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.volume = nil
	if err != nil {
		e.mesh = unloaded()
		return
	}
	e.mesh = mesh
}

// Mesh returns a copy of the current mesh; the unloaded mesh has Count -1.
// Changes to the copy do not reach the engine or its cached volume.
func (e *Engine) Mesh() *Mesh {
	e.mu.Lock()
	defer e.mu.Unlock()

	m := *e.mesh
	m.Triangles = slices.Clone(e.mesh.Triangles)
	return &m
}

// Volume returns the enclosed volume in cm³. The result is cached until the
// next load. Inconsistent winding or open meshes give meaningless values,
// possibly negative; they are not reported as errors.
func (e *Engine) Volume() (float64, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.volumeLocked()
}

func (e *Engine) volumeLocked() (float64, error) {
	if !e.mesh.Loaded() {
		return 0, ErrMeshNotLoaded
	}
	if e.volume == nil {
		v := e.mesh.SignedVolume() / mm3PerCM3
		e.volume = &v
	}
	return *e.volume, nil
}

// Mass returns volume × density in grams for a density in g/cm³. A
// non-positive product yields -1 and ErrNonPositiveMass.
func (e *Engine) Mass(density float64) (float64, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	volume, err := e.volumeLocked()
	if err != nil {
		return 0, err
	}

	mass := volume * density
	if !(mass > 0) {
		e.logger.Warn("total mass could not be calculated",
			"volume_cm3", volume,
			"density", density)
		return -1, fmt.Errorf("%w: volume %g cm³ × density %g g/cm³ = %g",
			ErrNonPositiveMass, volume, density, mass)
	}
	return mass, nil
}

// Area returns the total surface area in cm².
func (e *Engine) Area() (float64, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.mesh.Loaded() {
		return 0, ErrMeshNotLoaded
	}
	return e.mesh.SurfaceArea() / mm2PerCM2, nil
}

// Dimensions returns the bounding-box extent as (length X, width Y, height Z)
// in the file's units, millimetres.
func (e *Engine) Dimensions() (geometry.Vector3, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.mesh.Loaded() {
		return geometry.Vector3{}, ErrMeshNotLoaded
	}
	bbox := e.mesh.BoundingBox()
	return bbox.Size(), nil
}

// Triangles returns the number of loaded triangles.
func (e *Engine) Triangles() (int, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.mesh.Loaded() {
		return 0, ErrMeshNotLoaded
	}
	return e.mesh.Count, nil
}

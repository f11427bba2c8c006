// Package material maps 3D printing filaments to their densities.
package material

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	"golang.org/x/text/cases"
)

var (
	// ErrUnknownMaterialID is returned when no entry has the requested id.
	ErrUnknownMaterialID = errors.New("unknown material id")
	// ErrUnknownMaterialName is returned when no entry has the requested name.
	ErrUnknownMaterialName = errors.New("unknown material name")
	// ErrInvalidIdentifier is returned for identifiers that are neither an
	// integer nor a string.
	ErrInvalidIdentifier = errors.New("invalid material identifier")
	// ErrInvalidCatalog is returned by NewCatalog for inconsistent entries.
	ErrInvalidCatalog = errors.New("invalid material catalog")
)

// Entry is a single material. Density is in g/cm³.
type Entry struct {
	ID      int
	Name    string
	Density float64
}

func (e Entry) String() string {
	return fmt.Sprintf("%d = %s", e.ID, e.Name)
}

// Catalog is an immutable lookup table. It is safe for concurrent use.
type Catalog struct {
	entries []Entry // sorted by ID
	byID    map[int]int
	byName  map[string]int // case-folded name -> index
}

// Default returns the built-in filament table.
func Default() *Catalog {
	c, err := NewCatalog(
		Entry{ID: 1, Name: "ABS", Density: 1.04},
		Entry{ID: 2, Name: "PLA", Density: 1.25},
		Entry{ID: 3, Name: "PETG", Density: 1.27},
		Entry{ID: 4, Name: "PETG-CF", Density: 1.25},
	)
	if err != nil {
		panic(err)
	}
	return c
}

// NewCatalog builds a catalog from entries. IDs must be positive and unique,
// names unique ignoring case, densities positive.
func NewCatalog(entries ...Entry) (*Catalog, error) {
	sorted := make([]Entry, len(entries))
	copy(sorted, entries)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].ID < sorted[j].ID
	})

	c := &Catalog{
		entries: sorted,
		byID:    make(map[int]int, len(sorted)),
		byName:  make(map[string]int, len(sorted)),
	}

	fold := cases.Fold()
	for i, e := range sorted {
		if e.ID <= 0 {
			return nil, fmt.Errorf("%w: id %d must be positive", ErrInvalidCatalog, e.ID)
		}
		if !(e.Density > 0) {
			return nil, fmt.Errorf("%w: density of %s must be positive, got %v", ErrInvalidCatalog, e.Name, e.Density)
		}
		if strings.TrimSpace(e.Name) == "" {
			return nil, fmt.Errorf("%w: material %d has no name", ErrInvalidCatalog, e.ID)
		}
		if _, dup := c.byID[e.ID]; dup {
			return nil, fmt.Errorf("%w: duplicate id %d", ErrInvalidCatalog, e.ID)
		}
		key := fold.String(e.Name)
		if _, dup := c.byName[key]; dup {
			return nil, fmt.Errorf("%w: duplicate name %q", ErrInvalidCatalog, e.Name)
		}
		c.byID[e.ID] = i
		c.byName[key] = i
	}

	return c, nil
}

// Density looks up the density for an integer id or a material name.
func (c *Catalog) Density(identifier any) (float64, error) {
	var (
		e   Entry
		err error
	)
	switch id := identifier.(type) {
	case int:
		e, err = c.ByID(id)
	case int8:
		e, err = c.ByID(int(id))
	case int16:
		e, err = c.ByID(int(id))
	case int32:
		e, err = c.ByID(int(id))
	case int64:
		e, err = c.ByID(int(id))
	case uint:
		e, err = c.byUnsignedID(uint64(id))
	case uint8:
		e, err = c.ByID(int(id))
	case uint16:
		e, err = c.ByID(int(id))
	case uint32:
		e, err = c.ByID(int(id))
	case uint64:
		e, err = c.byUnsignedID(id)
	case string:
		e, err = c.ByName(id)
	default:
		return 0, fmt.Errorf("%w: %v (%T)", ErrInvalidIdentifier, identifier, identifier)
	}
	if err != nil {
		return 0, err
	}
	return e.Density, nil
}

// byUnsignedID rejects ids that do not fit an int instead of letting them wrap.
func (c *Catalog) byUnsignedID(id uint64) (Entry, error) {
	if id > math.MaxInt {
		return Entry{}, fmt.Errorf("%w: %d", ErrUnknownMaterialID, id)
	}
	return c.ByID(int(id))
}

// ByID returns the entry with the given id.
func (c *Catalog) ByID(id int) (Entry, error) {
	i, ok := c.byID[id]
	if !ok {
		return Entry{}, fmt.Errorf("%w: %d", ErrUnknownMaterialID, id)
	}
	return c.entries[i], nil
}

// ByName returns the entry whose name matches, ignoring case.
func (c *Catalog) ByName(name string) (Entry, error) {
	// Casers keep state, so each lookup gets its own.
	i, ok := c.byName[cases.Fold().String(name)]
	if !ok {
		return Entry{}, fmt.Errorf("%w: %q", ErrUnknownMaterialName, name)
	}
	return c.entries[i], nil
}

// Resolve interprets a command-line value: decimal integers are ids,
// anything else is a name.
func (c *Catalog) Resolve(s string) (Entry, error) {
	s = strings.TrimSpace(s)
	if id, err := strconv.Atoi(s); err == nil {
		return c.ByID(id)
	}
	return c.ByName(s)
}

// List returns all entries in ascending id order.
func (c *Catalog) List() []Entry {
	out := make([]Entry, len(c.entries))
	copy(out, c.entries)
	return out
}

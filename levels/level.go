// Package levels holds named level designs and activates one at a time onto
// the tile grid.
package levels

import (
	"fmt"

	"github.com/milk9111/tileengine/atlas"
	"github.com/milk9111/tileengine/tilemap"
	"github.com/milk9111/tileengine/tilepath"
	"github.com/rs/zerolog/log"
)

// LevelNotFoundError reports an activation or lookup of an unknown level.
type LevelNotFoundError struct {
	Name string
}

func (e *LevelNotFoundError) Error() string {
	return fmt.Sprintf("levels: no level named %q", e.Name)
}

// DesignLengthError reports a design whose path count does not fill the grid.
type DesignLengthError struct {
	Name      string
	Got, Want int
}

func (e *DesignLengthError) Error() string {
	return fmt.Sprintf("levels: design %q has %d tile paths, want %d", e.Name, e.Got, e.Want)
}

// NonSquareGridError reports an activation onto a grid whose width and height
// differ. Design cells are indexed col + row*height, which only covers the
// design when both are equal.
type NonSquareGridError struct {
	Name          string
	Width, Height int
}

func (e *NonSquareGridError) Error() string {
	return fmt.Sprintf("levels: cannot activate %q on a %dx%d grid, width and height must match", e.Name, e.Width, e.Height)
}

// Level is a named, immutable set of tile paths covering the whole grid.
type Level struct {
	Name   string
	Width  int
	Height int

	design []string
	active bool
}

// NewLevel validates that lines holds exactly width*height tile paths.
func NewLevel(name string, lines []string, width, height int) (*Level, error) {
	if len(lines) != width*height {
		return nil, &DesignLengthError{Name: name, Got: len(lines), Want: width * height}
	}
	design := make([]string, len(lines))
	copy(design, lines)
	return &Level{Name: name, Width: width, Height: height, design: design}, nil
}

// Active reports whether the level is the one currently applied to the grid.
func (l *Level) Active() bool { return l.active }

// Path returns the tile path for grid cell (row, col).
//
// The index is col + row*Height; it equals the row-major index only while the
// grid is square.
func (l *Level) Path(row, col int) string {
	return l.design[col+row*l.Height]
}

// Design returns a copy of the level's tile paths.
func (l *Level) Design() []string {
	out := make([]string, len(l.design))
	copy(out, l.design)
	return out
}

// Set owns the loaded level designs for one grid. At most one level is active.
// A Set is not safe for concurrent use.
type Set struct {
	grid     *tilemap.Grid
	resolver tilepath.Resolver
	levels   []*Level
}

// NewSet creates an empty set applying levels to grid through resolver.
func NewSet(grid *tilemap.Grid, resolver tilepath.Resolver) *Set {
	return &Set{grid: grid, resolver: resolver}
}

// Add registers l, replacing any level with the same name. A replaced level
// that was active stays active in name but the grid is not refreshed until the
// next Activate.
func (s *Set) Add(l *Level) {
	for i, existing := range s.levels {
		if existing.Name == l.Name {
			l.active = existing.active
			s.levels[i] = l
			return
		}
	}
	s.levels = append(s.levels, l)
}

// Get returns the level called name.
func (s *Set) Get(name string) (*Level, error) {
	for _, l := range s.levels {
		if l.Name == name {
			return l, nil
		}
	}
	return nil, &LevelNotFoundError{Name: name}
}

// Names returns level names in load order.
func (s *Set) Names() []string {
	names := make([]string, len(s.levels))
	for i, l := range s.levels {
		names[i] = l.Name
	}
	return names
}

// Active returns the active level, or nil.
func (s *Set) Active() *Level {
	for _, l := range s.levels {
		if l.active {
			return l
		}
	}
	return nil
}

// Activate applies the named level to every grid tile. Every tile path is
// resolved before anything changes, so a failure leaves both the grid and the
// active flags untouched.
func (s *Set) Activate(name string) error {
	design, err := s.Get(name)
	if err != nil {
		return err
	}

	height, width := s.grid.Height(), s.grid.Width()
	if design.Width != width || design.Height != height {
		return &DesignLengthError{Name: name, Got: design.Width * design.Height, Want: width * height}
	}
	if width != height {
		return &NonSquareGridError{Name: name, Width: width, Height: height}
	}
	resolved := make([][][]*atlas.Region, height)
	for row := 0; row < height; row++ {
		resolved[row] = make([][]*atlas.Region, width)
		for col := 0; col < width; col++ {
			regions, err := tilepath.Resolve(s.resolver, design.Path(row, col))
			if err != nil {
				return fmt.Errorf("levels: activate %s: tile %d,%d: %w", name, col, row, err)
			}
			resolved[row][col] = regions
		}
	}

	for _, l := range s.levels {
		l.active = false
	}
	for row := 0; row < height; row++ {
		for col := 0; col < width; col++ {
			t, _ := s.grid.At(col, row)
			if err := t.SetLayers(resolved[row][col]); err != nil {
				return fmt.Errorf("levels: activate %s: tile %d,%d: %w", name, col, row, err)
			}
		}
	}
	design.active = true

	log.Debug().Str("level", name).Int("tiles", width*height).Msg("level activated")
	return nil
}

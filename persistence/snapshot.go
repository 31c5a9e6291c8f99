// Package persistence saves the live grid as tile paths and restores saved
// grids as level designs.
package persistence

import (
	"fmt"

	"github.com/milk9111/tileengine/atlas"
	"github.com/milk9111/tileengine/levels"
	"github.com/milk9111/tileengine/tilemap"
	"github.com/milk9111/tileengine/tilepath"
)

// UnencodableTileError reports a tile none of whose layers map back to a
// cached sprite.
type UnencodableTileError struct {
	X, Y int
}

func (e *UnencodableTileError) Error() string {
	return fmt.Sprintf("persistence: tile %d,%d has no cached sprite to encode", e.X, e.Y)
}

// Keyer maps a region back to its cache key. *atlas.Cache implements it.
type Keyer interface {
	Key(r *atlas.Region) (string, bool)
}

// Snapshot encodes every tile of grid as a tile path, laid out the way level
// designs are read. Layers without a cached sprite are skipped.
func Snapshot(grid *tilemap.Grid, cache Keyer) ([]string, error) {
	w, h := grid.Width(), grid.Height()
	if w != h {
		return nil, fmt.Errorf("persistence: snapshot needs a square grid, got %dx%d", w, h)
	}
	lines := make([]string, w*h)
	for row := 0; row < h; row++ {
		for col := 0; col < w; col++ {
			t, _ := grid.At(col, row)
			path, err := Encode(t, cache)
			if err != nil {
				return nil, err
			}
			lines[col+row*h] = path
		}
	}
	return lines, nil
}

// Encode returns the tile path describing t's current layers.
func Encode(t *tilemap.Tile, cache Keyer) (string, error) {
	keys := make([]string, 0, t.Len())
	for _, r := range t.Sprites() {
		if k, ok := cache.Key(r); ok {
			keys = append(keys, k)
		}
	}
	if len(keys) == 0 {
		return "", &UnencodableTileError{X: t.X(), Y: t.Y()}
	}
	return tilepath.FromKeys(keys)
}

// Restore loads snapshot name from store and registers it with set as a level
// of the same name.
func Restore(store Store, set *levels.Set, name string, width, height int) (*levels.Level, error) {
	lines, err := store.Load(name)
	if err != nil {
		return nil, err
	}
	lvl, err := levels.NewLevel(name, lines, width, height)
	if err != nil {
		return nil, err
	}
	set.Add(lvl)
	return lvl, nil
}

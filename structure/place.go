// Package structure stamps multi-tile structures onto the grid, adding one
// layer per covered tile on top of whatever the tile already shows.
package structure

import (
	"fmt"
	"strings"

	"github.com/milk9111/tileengine/atlas"
	"github.com/milk9111/tileengine/prefabs"
	"github.com/milk9111/tileengine/tilemap"
	"github.com/milk9111/tileengine/tilepath"
	"github.com/rs/zerolog/log"
)

// UnknownStructureError reports a kind with no footprint.
type UnknownStructureError struct {
	Kind prefabs.StructureKind
}

func (e *UnknownStructureError) Error() string {
	return fmt.Sprintf("structure: no footprint for %q", e.Kind)
}

// OutOfBoundsError reports a placement outside the world.
type OutOfBoundsError struct {
	X, Y          int
	Width, Height int
}

func (e *OutOfBoundsError) Error() string {
	return fmt.Sprintf("structure: cannot place at %d,%d outside of %dx%d world", e.X, e.Y, e.Width, e.Height)
}

// Cache is the sprite cache a Placer reads and writes through.
type Cache interface {
	tilepath.Resolver
	Key(r *atlas.Region) (string, bool)
}

// Placer places structures onto one grid. It is not safe for concurrent use.
type Placer struct {
	grid       *tilemap.Grid
	cache      Cache
	footprints map[prefabs.StructureKind]prefabs.Footprint
}

// NewPlacer creates a Placer. A nil footprint table uses the built-in one.
func NewPlacer(grid *tilemap.Grid, cache Cache, footprints map[prefabs.StructureKind]prefabs.Footprint) *Placer {
	if footprints == nil {
		footprints = prefabs.DefaultFootprints()
	}
	return &Placer{grid: grid, cache: cache, footprints: footprints}
}

// SetFootprints replaces the structure table.
func (p *Placer) SetFootprints(footprints map[prefabs.StructureKind]prefabs.Footprint) {
	p.footprints = footprints
}

// Footprint returns the footprint for kind.
func (p *Placer) Footprint(kind prefabs.StructureKind) (prefabs.Footprint, bool) {
	fp, ok := p.footprints[kind]
	return fp, ok
}

// Kinds returns the placeable structure kinds, sorted by name.
func (p *Placer) Kinds() []prefabs.StructureKind {
	return prefabs.SortedKinds(p.footprints)
}

type pending struct {
	tile    *tilemap.Tile
	regions []*atlas.Region
}

// Place stamps kind with its top-left tile at (x, y). Each covered tile keeps
// its existing layers and gains the structure's cell as a new top layer.
//
// The origin may sit on the far edge of the grid (x == width or y == height);
// such placements pass the origin check and then fail on the first tile.
// Every tile is computed before any is written, so an error leaves the grid
// unchanged.
func (p *Placer) Place(kind prefabs.StructureKind, x, y int) error {
	fp, ok := p.footprints[kind]
	if !ok {
		return &UnknownStructureError{Kind: kind}
	}

	w, h := p.grid.Width(), p.grid.Height()
	if x < 0 || y < 0 || x > w || y > h {
		return &OutOfBoundsError{X: x, Y: y, Width: w, Height: h}
	}

	updates := make([]pending, 0, fp.Width*fp.Height)
	for j := 0; j < fp.Height; j++ {
		for i := 0; i < fp.Width; i++ {
			t, ok := p.grid.At(x+i, y+j)
			if !ok {
				return &OutOfBoundsError{X: x + i, Y: y + j, Width: w, Height: h}
			}
			regions, err := p.stack(t, fp, atlas.Coord{X: i, Y: j})
			if err != nil {
				return fmt.Errorf("structure: place %s at %d,%d: %w", kind, x, y, err)
			}
			updates = append(updates, pending{tile: t, regions: regions})
		}
	}

	for _, u := range updates {
		if err := u.tile.SetLayers(u.regions); err != nil {
			return fmt.Errorf("structure: place %s at %d,%d: %w", kind, x, y, err)
		}
	}
	log.Debug().Str("kind", string(kind)).Int("x", x).Int("y", y).Msg("structure placed")
	return nil
}

// stack rebuilds t's tile path with the structure cell at offset appended and
// resolves it.
func (p *Placer) stack(t *tilemap.Tile, fp prefabs.Footprint, offset atlas.Coord) ([]*atlas.Region, error) {
	keys := make([]string, 0, t.Len()+1)
	for i, r := range t.Sprites() {
		key, ok := p.cache.Key(r)
		if !ok {
			log.Debug().Int("x", t.X()).Int("y", t.Y()).Int("layer", i).Msg("dropping layer with no cached sprite")
			continue
		}
		keys = append(keys, key)
	}

	top, err := p.cache.Sprite(fp.Atlas, fp.Origin.Add(offset))
	if err != nil {
		return nil, err
	}
	key, ok := p.cache.Key(top)
	if !ok {
		return nil, fmt.Errorf("sprite %s,%d,%d missing from cache", fp.Atlas, fp.Origin.X+offset.X, fp.Origin.Y+offset.Y)
	}
	keys = append(keys, key)

	segments := make([]string, len(keys))
	for i, k := range keys {
		ref, err := tilepath.ParseKey(k)
		if err != nil {
			return nil, err
		}
		segments[i] = ref.String()
	}
	path := strings.Join(segments, ":") + ":" + tilepath.Terminator
	return tilepath.Resolve(p.cache, path)
}

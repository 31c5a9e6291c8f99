package tilemap

import (
	"fmt"

	"github.com/milk9111/tileengine/atlas"
)

// InvalidLayerHeightError reports a request for fewer than one layer.
type InvalidLayerHeightError struct {
	Height int
}

func (e *InvalidLayerHeightError) Error() string {
	return fmt.Sprintf("tilemap: cannot set layer height to %d, must be at least 1", e.Height)
}

// Layer is one renderable sprite slot of a tile.
type Layer interface {
	SetSprite(r *atlas.Region)
	Sprite() *atlas.Region
	Release()
}

// LayerBackend creates layers for the tile at grid position (x, y).
type LayerBackend interface {
	NewLayer(x, y int) Layer
}

type memLayer struct {
	sprite *atlas.Region
}

func (l *memLayer) SetSprite(r *atlas.Region) { l.sprite = r }
func (l *memLayer) Sprite() *atlas.Region     { return l.sprite }
func (l *memLayer) Release()                  { l.sprite = nil }

// Tile is one grid cell holding a bottom-to-top stack of layers.
type Tile struct {
	// Solid marks tiles that block movement. The engine only stores it.
	Solid bool

	x, y    int
	backend LayerBackend
	layers  []Layer
}

// NewTile creates the tile at (x, y) with a single empty layer. backend may be
// nil for an in-memory tile.
func NewTile(x, y int, backend LayerBackend) *Tile {
	t := &Tile{x: x, y: y, backend: backend}
	t.setHeight(1)
	return t
}

func (t *Tile) X() int { return t.x }
func (t *Tile) Y() int { return t.y }

// Position returns the tile's world position. Rows grow downward, so y is
// negated.
func (t *Tile) Position() (float64, float64) {
	return float64(t.x), float64(-t.y)
}

// Len returns the number of layers.
func (t *Tile) Len() int { return len(t.layers) }

// Layers returns the tile's layer slots, bottom first.
func (t *Tile) Layers() []Layer { return t.layers }

// Sprites returns the region bound to each layer, bottom first. Unbound
// layers yield nil.
func (t *Tile) Sprites() []*atlas.Region {
	out := make([]*atlas.Region, len(t.layers))
	for i, l := range t.layers {
		out[i] = l.Sprite()
	}
	return out
}

// SetLayers resizes the stack to len(regions) and binds regions[i] to layer i.
// Layers that stay in range are reused.
func (t *Tile) SetLayers(regions []*atlas.Region) error {
	if len(regions) <= 0 {
		return &InvalidLayerHeightError{Height: len(regions)}
	}
	t.setHeight(len(regions))
	for i, r := range regions {
		t.layers[i].SetSprite(r)
	}
	return nil
}

func (t *Tile) setHeight(height int) {
	for len(t.layers) > height {
		last := len(t.layers) - 1
		t.layers[last].Release()
		t.layers[last] = nil
		t.layers = t.layers[:last]
	}
	for len(t.layers) < height {
		t.layers = append(t.layers, t.newLayer())
	}
}

func (t *Tile) newLayer() Layer {
	if t.backend == nil {
		return &memLayer{}
	}
	return t.backend.NewLayer(t.x, t.y)
}

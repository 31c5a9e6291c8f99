// Package atlas caches sprite atlases and the 16x16 cell regions cut from them.
//
// A Cache hands out exactly one *Region per (atlas, coord) pair, so a region
// pointer can be mapped back to the textual key that produced it.
package atlas

import (
	"errors"
	"fmt"
	"image"
	"sort"

	"github.com/milk9111/tileengine/common"
)

// ErrAtlasNotFound is returned by providers that have no resource for a name.
var ErrAtlasNotFound = errors.New("atlas not found")

// AtlasNotFoundError reports a sprite or load request for an unknown atlas.
type AtlasNotFoundError struct {
	Name string
	Err  error
}

func (e *AtlasNotFoundError) Error() string {
	if e.Err != nil && !errors.Is(e.Err, ErrAtlasNotFound) {
		return fmt.Sprintf("atlas: unable to find atlas %q: %v", e.Name, e.Err)
	}
	return fmt.Sprintf("atlas: unable to find atlas %q", e.Name)
}

func (e *AtlasNotFoundError) Unwrap() error { return e.Err }

func (e *AtlasNotFoundError) Is(target error) bool { return target == ErrAtlasNotFound }

// Image is a decoded atlas. *ebiten.Image and *image.RGBA both satisfy it.
type Image interface {
	Bounds() image.Rectangle
	SubImage(r image.Rectangle) image.Image
}

// Provider supplies atlas images by name.
type Provider interface {
	Atlas(name string) (Image, error)
}

// ProviderFunc adapts a function to Provider.
type ProviderFunc func(name string) (Image, error)

func (f ProviderFunc) Atlas(name string) (Image, error) { return f(name) }

// Coord is a cell position inside an atlas, in grid units.
type Coord struct {
	X, Y int
}

func (c Coord) Add(o Coord) Coord { return Coord{X: c.X + o.X, Y: c.Y + o.Y} }

// Region is one cell of an atlas. Compare regions by pointer.
type Region struct {
	Atlas string
	Coord Coord
	// Rect is the pixel rectangle inside the atlas image.
	Rect  image.Rectangle
	Pivot image.Point
	Image image.Image
}

// Key formats the memo key for a cell: "{atlas},{x},{y}".
func Key(atlasName string, c Coord) string {
	return fmt.Sprintf("%s,%d,%d", atlasName, c.X, c.Y)
}

// Rect returns the pixel rectangle of cell c in an atlas of the given pixel
// height. Atlas row 0 is the bottom row of the image.
func Rect(c Coord, atlasHeight int) image.Rectangle {
	x := c.X * common.TileSize
	y := atlasHeight - common.TileSize - c.Y*common.TileSize
	return image.Rect(x, y, x+common.TileSize, y+common.TileSize)
}

// Cache owns every loaded atlas and every region cut from them. Entries are
// never evicted. A Cache is not safe for concurrent use.
type Cache struct {
	provider Provider
	atlases  map[string]Image
	regions  map[string]*Region
	keys     map[*Region]string
}

// NewCache creates an empty cache. p may be nil, in which case only atlases
// registered with Add are known.
func NewCache(p Provider) *Cache {
	return &Cache{
		provider: p,
		atlases:  map[string]Image{},
		regions:  map[string]*Region{},
		keys:     map[*Region]string{},
	}
}

// Add registers an already decoded atlas under name.
func (c *Cache) Add(name string, img Image) {
	if name == "" || img == nil {
		return
	}
	c.atlases[name] = img
}

// Load returns the atlas called name, fetching it from the provider the first
// time it is requested.
func (c *Cache) Load(name string) (Image, error) {
	if img, ok := c.atlases[name]; ok {
		return img, nil
	}
	if c.provider == nil {
		return nil, &AtlasNotFoundError{Name: name}
	}
	img, err := c.provider.Atlas(name)
	if err != nil {
		return nil, &AtlasNotFoundError{Name: name, Err: err}
	}
	if img == nil {
		return nil, &AtlasNotFoundError{Name: name}
	}
	c.atlases[name] = img
	return img, nil
}

// LoadAll loads every named atlas, stopping at the first failure.
func (c *Cache) LoadAll(names []string) error {
	for _, name := range names {
		if _, err := c.Load(name); err != nil {
			return err
		}
	}
	return nil
}

// Sprite returns the canonical region for cell coord of atlas atlasName.
func (c *Cache) Sprite(atlasName string, coord Coord) (*Region, error) {
	key := Key(atlasName, coord)
	if r, ok := c.regions[key]; ok {
		return r, nil
	}

	img, err := c.Load(atlasName)
	if err != nil {
		return nil, err
	}

	rect := Rect(coord, img.Bounds().Dy()).Add(img.Bounds().Min)
	r := &Region{
		Atlas: atlasName,
		Coord: coord,
		Rect:  rect,
		Image: img.SubImage(rect),
	}
	c.regions[key] = r
	c.keys[r] = key
	return r, nil
}

// Key returns the memo key that produced r.
func (c *Cache) Key(r *Region) (string, bool) {
	if r == nil {
		return "", false
	}
	key, ok := c.keys[r]
	return key, ok
}

// Len reports the number of cached regions.
func (c *Cache) Len() int { return len(c.regions) }

// Atlases returns the names of loaded atlases in sorted order.
func (c *Cache) Atlases() []string {
	names := make([]string, 0, len(c.atlases))
	for name := range c.atlases {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

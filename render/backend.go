// Package render draws the tile grid with ebiten.
package render

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/milk9111/tileengine/atlas"
	"github.com/milk9111/tileengine/common"
	"github.com/milk9111/tileengine/tilemap"
	"golang.org/x/image/colornames"
)

// Layer is one drawable sprite slot of a tile.
type Layer struct {
	X, Y int

	region   *atlas.Region
	released bool
}

func (l *Layer) SetSprite(r *atlas.Region) { l.region = r }
func (l *Layer) Sprite() *atlas.Region     { return l.region }

func (l *Layer) Release() {
	l.region = nil
	l.released = true
}

// Released reports whether the tile dropped this layer.
func (l *Layer) Released() bool { return l.released }

// Backend creates ebiten layers for tiles. It implements tilemap.LayerBackend.
type Backend struct {
	live int
}

func NewBackend() *Backend { return &Backend{} }

func (b *Backend) NewLayer(x, y int) tilemap.Layer {
	b.live++
	return &trackedLayer{Layer: Layer{X: x, Y: y}, b: b}
}

// Live reports how many layers exist across all tiles.
func (b *Backend) Live() int { return b.live }

type trackedLayer struct {
	Layer
	b *Backend
}

func (l *trackedLayer) Release() {
	if !l.released {
		l.b.live--
	}
	l.Layer.Release()
}

// DrawOptions positions the grid on screen.
type DrawOptions struct {
	CamX, CamY float64
	Zoom       float64
	// ShowEmpty marks layers with no sprite using a magenta square.
	ShowEmpty bool
}

var missingImg *ebiten.Image

func missingImage() *ebiten.Image {
	if missingImg == nil {
		missingImg = ebiten.NewImage(common.TileSize, common.TileSize)
		missingImg.Fill(colornames.Magenta)
	}
	return missingImg
}

// DrawGrid draws every tile's layers bottom to top.
func DrawGrid(screen *ebiten.Image, grid *tilemap.Grid, opts DrawOptions) {
	if screen == nil || grid == nil {
		return
	}
	zoom := opts.Zoom
	if zoom <= 0 {
		zoom = 1
	}

	grid.Each(func(t *tilemap.Tile) {
		px := float64(t.X()*common.TileSize) - opts.CamX
		py := float64(t.Y()*common.TileSize) - opts.CamY
		for _, r := range t.Sprites() {
			img := layerImage(r)
			if img == nil {
				if !opts.ShowEmpty {
					continue
				}
				img = missingImage()
			}
			op := &ebiten.DrawImageOptions{}
			op.GeoM.Scale(zoom, zoom)
			op.GeoM.Translate(px*zoom, py*zoom)
			screen.DrawImage(img, op)
		}
	})
}

func layerImage(r *atlas.Region) *ebiten.Image {
	if r == nil || r.Image == nil {
		return nil
	}
	return ImageFor(atlas.Key(r.Atlas, r.Coord), r.Image)
}

// TileAt converts a screen position to grid coordinates.
func TileAt(sx, sy int, opts DrawOptions) (int, int) {
	zoom := opts.Zoom
	if zoom <= 0 {
		zoom = 1
	}
	wx := float64(sx)/zoom + opts.CamX
	wy := float64(sy)/zoom + opts.CamY
	x := int(wx) / common.TileSize
	y := int(wy) / common.TileSize
	if wx < 0 {
		x = -1
	}
	if wy < 0 {
		y = -1
	}
	return x, y
}

// Package tilemap holds the fixed tile grid and the layer stacks of its tiles.
package tilemap

// Grid is a fixed Height x Width array of tiles indexed [row][col]. It is
// created once and never resized.
type Grid struct {
	width, height int
	tiles         [][]*Tile
}

// NewGrid allocates every tile of a width x height grid, each with one empty
// layer.
func NewGrid(width, height int, backend LayerBackend) *Grid {
	tiles := make([][]*Tile, height)
	for row := range tiles {
		tiles[row] = make([]*Tile, width)
		for col := range tiles[row] {
			tiles[row][col] = NewTile(col, row, backend)
		}
	}
	return &Grid{width: width, height: height, tiles: tiles}
}

func (g *Grid) Width() int  { return g.width }
func (g *Grid) Height() int { return g.height }

// At returns the tile in column x, row y.
func (g *Grid) At(x, y int) (*Tile, bool) {
	if y < 0 || y >= len(g.tiles) || x < 0 || x >= len(g.tiles[y]) {
		return nil, false
	}
	return g.tiles[y][x], true
}

// Each calls fn for every tile in row-major order.
func (g *Grid) Each(fn func(t *Tile)) {
	for _, row := range g.tiles {
		for _, t := range row {
			fn(t)
		}
	}
}

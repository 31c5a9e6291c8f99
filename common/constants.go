package common

const (
	// TileSize is the edge length of one atlas cell in pixels.
	TileSize = 16

	// GridWidth and GridHeight are the static dimensions of the tile grid.
	GridWidth  = 10
	GridHeight = 10

	BaseWidth  = 640
	BaseHeight = 480
)

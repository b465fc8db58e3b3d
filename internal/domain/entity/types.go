// Package entity holds the stage data drawn and walked by the demo scenes.
package entity

// TileType represents the type of a tile
type TileType int

const (
	TileEmpty TileType = iota
	TileWall
	TileWater
)

// String returns the string representation of the tile type
func (t TileType) String() string {
	switch t {
	case TileEmpty:
		return "Empty"
	case TileWall:
		return "Wall"
	case TileWater:
		return "Water"
	default:
		return "Unknown"
	}
}

// ParseTileType maps a stage tileMapping type name to a TileType
func ParseTileType(name string) TileType {
	switch name {
	case "wall":
		return TileWall
	case "water":
		return TileWater
	default:
		return TileEmpty
	}
}

// Tile represents a single tile in the stage
type Tile struct {
	Type  TileType
	Solid bool
}

// Stage represents the current stage's tile data
type Stage struct {
	Width    int // In tiles
	Height   int // In tiles
	TileSize int
	Tiles    [][]Tile
	SpawnX   int
	SpawnY   int
}

// PixelWidth returns the stage width in pixels
func (s *Stage) PixelWidth() int {
	return s.Width * s.TileSize
}

// PixelHeight returns the stage height in pixels
func (s *Stage) PixelHeight() int {
	return s.Height * s.TileSize
}

// GetTile returns the tile at the given tile coordinates
func (s *Stage) GetTile(tx, ty int) Tile {
	if tx < 0 || tx >= s.Width || ty < 0 || ty >= s.Height {
		return Tile{Type: TileWall, Solid: true}
	}
	return s.Tiles[ty][tx]
}

// GetTileAtPixel returns the tile at the given pixel coordinates
func (s *Stage) GetTileAtPixel(px, py int) Tile {
	tx := floorDiv(px, s.TileSize)
	ty := floorDiv(py, s.TileSize)
	return s.GetTile(tx, ty)
}

// IsSolidAt checks if the tile at pixel coordinates is solid
func (s *Stage) IsSolidAt(px, py int) bool {
	return s.GetTileAtPixel(px, py).Solid
}

// BoxBlocked reports whether any corner of the w x h box at (x, y) is solid
func (s *Stage) BoxBlocked(x, y, w, h int) bool {
	return s.IsSolidAt(x, y) ||
		s.IsSolidAt(x+w-1, y) ||
		s.IsSolidAt(x, y+h-1) ||
		s.IsSolidAt(x+w-1, y+h-1)
}

// floorDiv rounds toward negative infinity so pixels left of the stage
// map to negative tiles
func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}

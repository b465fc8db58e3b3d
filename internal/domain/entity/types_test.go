package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// stageFromRows builds a stage from a text map: '#' wall, '~' water,
// anything else empty.
func stageFromRows(tileSize int, rows ...string) *Stage {
	s := &Stage{Width: len(rows[0]), Height: len(rows), TileSize: tileSize}
	for _, row := range rows {
		line := make([]Tile, len(row))
		for x, c := range row {
			switch c {
			case '#':
				line[x] = Tile{Type: TileWall, Solid: true}
			case '~':
				line[x] = Tile{Type: TileWater}
			}
		}
		s.Tiles = append(s.Tiles, line)
	}
	return s
}

func TestStage_Lookup(t *testing.T) {
	stage := stageFromRows(16,
		"#.#",
		"...",
		"#~#",
	)

	tests := []struct {
		name      string
		px, py    int
		wantType  TileType
		wantSolid bool
	}{
		{"inside corner wall", 8, 8, TileWall, true},
		{"first pixel of next tile", 16, 0, TileEmpty, false},
		{"last pixel of corner wall", 15, 15, TileWall, true},
		{"centre", 24, 24, TileEmpty, false},
		{"water is walkable", 24, 40, TileWater, false},
		{"one pixel left of the stage", -1, 20, TileWall, true},
		{"one pixel above the stage", 20, -1, TileWall, true},
		{"right of the stage", 48, 20, TileWall, true},
		{"below the stage", 20, 48, TileWall, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tile := stage.GetTileAtPixel(tt.px, tt.py)
			assert.Equal(t, tt.wantType, tile.Type)
			assert.Equal(t, tt.wantSolid, tile.Solid)
			assert.Equal(t, tt.wantSolid, stage.IsSolidAt(tt.px, tt.py))
		})
	}
}

func TestStage_GetTile_Edges(t *testing.T) {
	stage := stageFromRows(8, "..", "..")

	for _, c := range [][2]int{{-1, 0}, {0, -1}, {2, 0}, {0, 2}, {-5, -5}} {
		tile := stage.GetTile(c[0], c[1])
		assert.True(t, tile.Solid, "tile %v", c)
		assert.Equal(t, TileWall, tile.Type)
	}
	assert.False(t, stage.GetTile(1, 1).Solid)
}

func TestFloorDiv(t *testing.T) {
	assert.Equal(t, 0, floorDiv(15, 16))
	assert.Equal(t, 1, floorDiv(16, 16))
	assert.Equal(t, -1, floorDiv(-1, 16))
	assert.Equal(t, -1, floorDiv(-16, 16))
	assert.Equal(t, -2, floorDiv(-17, 16))
}

func TestTileType(t *testing.T) {
	assert.Equal(t, "Empty", TileEmpty.String())
	assert.Equal(t, "Wall", TileWall.String())
	assert.Equal(t, "Water", TileWater.String())
	assert.Equal(t, "Unknown", TileType(99).String())

	assert.Equal(t, TileWall, ParseTileType("wall"))
	assert.Equal(t, TileWater, ParseTileType("water"))
	assert.Equal(t, TileEmpty, ParseTileType("lava"))
}

func TestStage_PixelSize(t *testing.T) {
	stage := stageFromRows(16, "....", "....")
	assert.Equal(t, 64, stage.PixelWidth())
	assert.Equal(t, 32, stage.PixelHeight())
}

func TestStage_BoxBlocked(t *testing.T) {
	stage := stageFromRows(16,
		"#.#",
		"...",
		"#~#",
	)

	tests := []struct {
		name       string
		x, y, w, h int
		want       bool
	}{
		{"inside centre tile", 18, 18, 12, 12, false},
		{"touching the top-left wall", 14, 10, 12, 12, true},
		{"over water", 18, 34, 12, 12, false},
		{"leaving the stage", -4, 18, 8, 8, true},
		{"flush against a wall edge", 16, 0, 16, 16, false},
		{"straddling the open row", 15, 16, 16, 16, false},
		{"one pixel into the corner", 15, 15, 16, 16, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, stage.BoxBlocked(tt.x, tt.y, tt.w, tt.h))
		})
	}
}

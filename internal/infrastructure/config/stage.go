package config

import (
	"encoding/json"
	"fmt"
)

// StageConfig is the root config for stage JSON files
type StageConfig struct {
	ID          string                       `json:"id"`
	Name        string                       `json:"name"`
	Size        StageSizeConfig              `json:"size"`
	Background  BackgroundConfig             `json:"background"`
	PlayerSpawn PositionConfig               `json:"playerSpawn"`
	Layers      LayersConfig                 `json:"layers"`
	TileMapping map[string]TileMappingConfig `json:"tileMapping"`
}

type StageSizeConfig struct {
	Width    int `json:"width"`
	Height   int `json:"height"`
	TileSize int `json:"tileSize"`
}

type BackgroundConfig struct {
	Color string `json:"color"` // "#rrggbb"
}

type PositionConfig struct {
	X int `json:"x"`
	Y int `json:"y"`
}

type LayersConfig struct {
	Collision []string `json:"collision"`
}

type TileMappingConfig struct {
	Type  string `json:"type"`
	Solid bool   `json:"solid"`
}

// ParseStage decodes and validates a stage document
func ParseStage(data []byte) (*StageConfig, error) {
	var cfg StageConfig
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse stage: %w", err)
	}
	if cfg.Size.TileSize <= 0 {
		return nil, fmt.Errorf("stage %q: tileSize must be positive", cfg.ID)
	}
	if len(cfg.Layers.Collision) == 0 {
		return nil, fmt.Errorf("stage %q: empty collision layer", cfg.ID)
	}
	return &cfg, nil
}

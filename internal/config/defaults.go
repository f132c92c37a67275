package config

import (
	_ "embed"
)

//go:embed defaults/blockfall.yaml
var defaultBlockfallYAML []byte

//go:embed defaults/blockfall_classic.yaml
var defaultClassicYAML []byte

//go:embed defaults/blockfall.schema.json
var schemaJSON []byte

// Variant names, which double as config file base names.
const (
	VariantStandard = "blockfall"
	VariantClassic  = "blockfall_classic"
)

// DefaultBlockfallConfig returns the terminal-sized default: a 12x20 board
// falling one row every 400ms.
func DefaultBlockfallConfig() BlockfallConfig {
	return BlockfallConfig{
		Grid: GridConfig{
			Columns: 12,
			Rows:    20,
		},
		Timing: TimingConfig{
			FallIntervalMS: 400,
			SoftDropRepeat: 1,
		},
		Display: DisplayConfig{
			CellWidth: 2,
			ShowHelp:  true,
		},
	}
}

// DefaultClassicConfig returns the original 46x46 board.
func DefaultClassicConfig() BlockfallConfig {
	cfg := DefaultBlockfallConfig()
	cfg.Grid = GridConfig{Columns: 46, Rows: 46}
	cfg.Display.CellWidth = 1
	return cfg
}

// defaultsFor returns the hardcoded defaults and embedded YAML of a variant.
func defaultsFor(variant string) (BlockfallConfig, []byte) {
	if variant == VariantClassic {
		return DefaultClassicConfig(), defaultClassicYAML
	}
	return DefaultBlockfallConfig(), defaultBlockfallYAML
}

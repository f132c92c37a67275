// Package config loads the YAML game configuration, validating each file
// against an embedded JSON Schema before it is used.
package config

// BlockfallConfig contains all configuration for one Blockfall variant.
type BlockfallConfig struct {
	Grid    GridConfig    `yaml:"grid"`
	Timing  TimingConfig  `yaml:"timing"`
	Display DisplayConfig `yaml:"display"`
}

// GridConfig sets the board size in cells.
type GridConfig struct {
	Columns int `yaml:"columns"`
	Rows    int `yaml:"rows"`
}

// TimingConfig controls gravity and input repeat.
type TimingConfig struct {
	FallIntervalMS int `yaml:"fall_interval_ms"` // Delay between gravity steps
	SoftDropRepeat int `yaml:"soft_drop_repeat"` // Rows per soft drop key press
}

// DisplayConfig controls how the board is drawn.
type DisplayConfig struct {
	CellWidth int  `yaml:"cell_width"` // Terminal columns per board cell (1 or 2)
	ShowHelp  bool `yaml:"show_help"`  // Draw the key legend beside the board
}

// FallTicks converts the fall interval into simulation ticks at tickRate.
// It is never less than one tick.
func (c TimingConfig) FallTicks(tickRate int) int {
	return max(1, c.FallIntervalMS*tickRate/1000)
}

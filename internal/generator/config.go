package generator

// Config drives the synthetic city map generator.
type Config struct {
	Name string
	// Rows and Cols size the grid of street corners.
	Rows int
	Cols int
	// RemoveStreetChance drops grid streets that are not needed to keep the
	// city connected.
	RemoveStreetChance float64
	// ShortcutChance adds a diagonal street across a block.
	ShortcutChance float64
	// IsolatedNodes are appended with no connections at all.
	IsolatedNodes int
	Seed          int64
}

// DefaultConfig returns a small city suitable for local play and tests.
func DefaultConfig() Config {
	return Config{
		Name:               "city",
		Rows:               8,
		Cols:               8,
		RemoveStreetChance: 0.2,
		ShortcutChance:     0.1,
		IsolatedNodes:      2,
		Seed:               42,
	}
}

package config

func tuned(effect string, tune func(c *Config)) *Config {
	c := DefaultConfig()
	c.Effect = effect
	tune(c)
	return c
}

var Presets = map[string]map[string]*Config{
	"mesh": {
		"calm": tuned("mesh", func(c *Config) {
			c.Script = "dwell"
			c.Mesh.Repulsion = 1.0
			c.Mesh.Radius = 150
			c.Energy.RiseDuration = 0.8
			c.Energy.FallDuration = 2.5
		}),
		"storm": tuned("mesh", func(c *Config) {
			c.Script = "orbit"
			c.Mesh.Repulsion = 4.0
			c.Mesh.Radius = 280
			c.Mesh.Spring = 0.03
			c.Mesh.Friction = 0.94
			c.Theme = "ember"
		}),
		"terminal": tuned("mesh", func(c *Config) {
			c.FPS = 30
			c.Frames = 300
			c.Viewport = ViewportConfig{Width: 640, Height: 384}
			c.Mesh.Spacing = 32
			c.Mesh.Radius = 120
			c.Mesh.Buckets = 3
		}),
		"springy": tuned("mesh", func(c *Config) {
			c.Script = "sweep"
			c.Energy.Mode = "spring"
			c.Energy.Damping = 0.6
		}),
	},
	"hexgrid": {
		"sonar": tuned("hexgrid", func(c *Config) {
			c.Script = "sweep"
			c.HexGrid.HoverRadius = 200
			c.HexGrid.PulseProbability = 0.002
		}),
	},
	"circuit": {
		"rush": tuned("circuit", func(c *Config) {
			c.Script = "orbit"
			c.Circuit.Speed = 3
			c.Circuit.MaxTravelers = 80
			c.Circuit.TurnChance = 0.1
		}),
	},
}

// GetPreset returns a copy of the named preset, or nil.
func GetPreset(effect, preset string) *Config {
	effectPresets, ok := Presets[effect]
	if !ok {
		return nil
	}
	cfg, ok := effectPresets[preset]
	if !ok {
		return nil
	}
	return cfg.Clone()
}

func ListPresets(effect string) []string {
	effectPresets, ok := Presets[effect]
	if !ok {
		return nil
	}
	names := make([]string, 0, len(effectPresets))
	for name := range effectPresets {
		names = append(names, name)
	}
	return names
}

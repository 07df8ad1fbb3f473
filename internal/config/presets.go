package config

import (
	"sort"

	"github.com/san-kum/ridersim/internal/physics"
)

var Presets = map[string]physics.Params{
	"classic": physics.DefaultParams(),
	"floaty": {
		Iterations: 6, Gravity: 0.09, Hitbox: 10,
		Endurance: 0.45, Friction: 0.05, Acceleration: 0.1,
	},
	"heavy": {
		Iterations: 8, Gravity: 0.3, Hitbox: 10,
		Endurance: 0.3, Friction: 0.15, Acceleration: 0.08,
	},
}

func GetPreset(name string) (physics.Params, bool) {
	p, ok := Presets[name]
	return p, ok
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

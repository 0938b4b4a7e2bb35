// Package config loads the editor configuration from a TOML file.
package config

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/BurntSushi/toml"

	"github.com/solardaw/pianoroll"
)

type (
	Config struct {
		Engine EngineConfig `toml:"engine"`
		Grid   GridConfig   `toml:"grid"`
		Log    LogConfig    `toml:"log"`
	}

	EngineConfig struct {
		// Backend is one of "null", "synth" or "midi".
		Backend string `toml:"backend"`
		// MIDIPort names the output port for the midi backend; empty picks
		// the first available port.
		MIDIPort string `toml:"midi_port"`
	}

	GridConfig struct {
		Division      string  `toml:"division"`
		Snap          bool    `toml:"snap"`
		PixelsPerBeat float64 `toml:"pixels_per_beat"`
	}

	LogConfig struct {
		Level string `toml:"level"`
		File  string `toml:"file"`
	}
)

func Default() Config {
	g := pianoroll.DefaultGrid()
	return Config{
		Engine: EngineConfig{Backend: "synth"},
		Grid: GridConfig{
			Division:      g.Division.String(),
			Snap:          g.Snap,
			PixelsPerBeat: g.PixelsPerBeat,
		},
		Log: LogConfig{Level: "info"},
	}
}

// Load reads the configuration at path on top of the defaults. A missing
// file is not an error; unknown keys are.
func Load(path string) (Config, error) {
	cfg := Default()
	meta, err := toml.DecodeFile(path, &cfg)
	if errors.Is(err, fs.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return cfg, fmt.Errorf("read config %s: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return cfg, fmt.Errorf("config %s: unknown key %s", path, undecoded[0])
	}
	if err := cfg.validate(); err != nil {
		return cfg, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

func (c Config) validate() error {
	switch c.Engine.Backend {
	case "null", "synth", "midi":
	default:
		return fmt.Errorf("unknown engine backend %q", c.Engine.Backend)
	}
	if _, err := pianoroll.ParseDivision(c.Grid.Division); err != nil {
		return err
	}
	if c.Grid.PixelsPerBeat < pianoroll.MinPixelsPerBeat ||
		c.Grid.PixelsPerBeat > pianoroll.MaxPixelsPerBeat {
		return fmt.Errorf("pixels_per_beat %g out of range [%g, %g]",
			c.Grid.PixelsPerBeat, pianoroll.MinPixelsPerBeat, pianoroll.MaxPixelsPerBeat)
	}
	return nil
}

// MakeGrid builds the initial grid from the validated configuration.
func (c Config) MakeGrid() pianoroll.Grid {
	g := pianoroll.DefaultGrid()
	if d, err := pianoroll.ParseDivision(c.Grid.Division); err == nil {
		g.Division = d
	}
	g.Snap = c.Grid.Snap
	g.SetZoom(c.Grid.PixelsPerBeat)
	return g
}

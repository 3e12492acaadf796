package config

import (
	"encoding/json"
	"os"
	"path/filepath"
)

// Config seeds the metronome at startup. It is read once and never written
// back - runtime changes live and die with the session.
type Config struct {
	Tempo     int    `json:"tempo,omitempty"`
	MaxTempo  int    `json:"maxTempo,omitempty"` // tempo ceiling in BPM
	Beats     int    `json:"beats,omitempty"`
	ClockPort string `json:"clockPort,omitempty"` // substring matched against MIDI port names
}

// DefaultConfig returns a config with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Tempo:     100,
		MaxTempo:  300,
		Beats:     4,
		ClockPort: "clock",
	}
}

// ConfigDir returns the config directory path
func ConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "go-metronome"), nil
}

// ConfigPath returns the full path to config.json
func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.json"), nil
}

// Load reads the config from disk, or returns defaults if not found.
// Missing fields fall back to their defaults individually.
func Load() (*Config, error) {
	def := DefaultConfig()

	path, err := ConfigPath()
	if err != nil {
		return def, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return def, nil
		}
		return nil, err
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	if cfg.Tempo == 0 {
		cfg.Tempo = def.Tempo
	}
	if cfg.MaxTempo == 0 {
		cfg.MaxTempo = def.MaxTempo
	}
	if cfg.Beats == 0 {
		cfg.Beats = def.Beats
	}
	if cfg.ClockPort == "" {
		cfg.ClockPort = def.ClockPort
	}

	return &cfg, nil
}

package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	def := DefaultConfig()
	if cfg.Tempo != def.Tempo || cfg.MaxTempo != def.MaxTempo ||
		cfg.Beats != def.Beats || cfg.ClockPort != def.ClockPort {
		t.Errorf("got %+v, want defaults %+v", cfg, def)
	}
}

func TestLoadReadsFile(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	dir := filepath.Join(home, ".config", "go-metronome")
	if err := os.MkdirAll(dir, 0755); err != nil {
		t.Fatal(err)
	}
	data := []byte(`{"tempo": 140, "maxTempo": 220, "beats": 3, "clockPort": "boss db-90"}`)
	if err := os.WriteFile(filepath.Join(dir, "config.json"), data, 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Tempo != 140 || cfg.MaxTempo != 220 || cfg.Beats != 3 || cfg.ClockPort != "boss db-90" {
		t.Errorf("got %+v", cfg)
	}
}

func TestLoadFillsMissingFields(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	dir := filepath.Join(home, ".config", "go-metronome")
	if err := os.MkdirAll(dir, 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "config.json"), []byte(`{"tempo": 90}`), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Tempo != 90 {
		t.Errorf("tempo = %d, want 90", cfg.Tempo)
	}
	def := DefaultConfig()
	if cfg.MaxTempo != def.MaxTempo || cfg.Beats != def.Beats || cfg.ClockPort != def.ClockPort {
		t.Errorf("missing fields not defaulted: %+v", cfg)
	}
}

func TestLoadBadJSON(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	dir := filepath.Join(home, ".config", "go-metronome")
	if err := os.MkdirAll(dir, 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "config.json"), []byte(`{not json`), 0644); err != nil {
		t.Fatal(err)
	}

	if _, err := Load(); err == nil {
		t.Error("expected error for malformed config")
	}
}

package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoad_EmptyPathYieldsDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.GridSizeX != 16 || cfg.GridSizeZ != 16 {
		t.Fatalf("grid defaults %d/%d", cfg.GridSizeX, cfg.GridSizeZ)
	}
	if cfg.HistoryLimit != 1000 {
		t.Fatalf("history limit %d", cfg.HistoryLimit)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("defaults invalid: %v", err)
	}
}

func TestLoad_FileOverridesAndNormalizes(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "voxelforge.yaml")
	body := "grid_size_x: 32\ngrid_size_y: 24\nlog_level: debug\n"
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.GridSizeX != 32 || cfg.GridSizeY != 24 {
		t.Fatalf("grid %d/%d", cfg.GridSizeX, cfg.GridSizeY)
	}
	if cfg.GridSizeZ != 24 {
		t.Fatalf("grid_size_z should normalize to grid_size_y, got %d", cfg.GridSizeZ)
	}
	if cfg.LogLevel != "debug" {
		t.Fatalf("log level %s", cfg.LogLevel)
	}
}

func TestLoad_RejectsBadValues(t *testing.T) {
	dir := t.TempDir()
	cases := []string{
		"grid_size_x: -1\ngrid_size_y: 8\n",
		"grid_size_x: 8\ngrid_size_y: 8\ndefault_face_color: gray\n",
		"grid_size_x: 8\ngrid_size_y: 8\nlog_level: loud\n",
	}
	for i, body := range cases {
		path := filepath.Join(dir, "bad.yaml")
		if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
			t.Fatalf("write: %v", err)
		}
		if _, err := Load(path); err == nil {
			t.Fatalf("case %d accepted", i)
		}
	}
}

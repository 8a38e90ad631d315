package viz

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/cwbudde/algo-viz/stage/savgol"
)

func TestDefaultConfigValid(t *testing.T) {
	if err := DefaultConfig().Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
}

func TestValidateRejectsOutOfRange(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"fps too low", func(c *Config) { c.FPS = 1 }},
		{"window too short", func(c *Config) { c.WindowMillis = 1 }},
		{"alpha0 zero", func(c *Config) { c.Alpha0 = 0 }},
		{"alpha0 above one", func(c *Config) { c.Alpha0 = 1.5 }},
		{"alpha1 negative", func(c *Config) { c.Alpha1 = -0.1 }},
		{"savgol0 even window", func(c *Config) { c.Savgol0 = savgol.Config{WindowSize: 4, Degree: 2} }},
		{"savgol1 negative degree", func(c *Config) { c.Savgol1 = savgol.Config{WindowSize: 5, Degree: -1} }},
		{"db range inverted", func(c *Config) { c.MinDB, c.MaxDB = -20, -70 }},
		{"bins too few", func(c *Config) { c.Binning.Bins = 1 }},
		{"fmin zero", func(c *Config) { c.Binning.FMin = 0 }},
		{"band inverted", func(c *Config) { c.Binning.FMax = c.Binning.FMin }},
		{"gamma zero", func(c *Config) { c.Binning.Gamma = 0 }},
		{"levels too few", func(c *Config) { c.Levels = 2 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			if err := cfg.Validate(); err == nil {
				t.Fatal("Validate succeeded, want error")
			}
		})
	}
}

func TestLoadConfigOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	body := "fps: 30\nlevels: 24\nbinning:\n  bins: 12\n"
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.FPS != 30 || cfg.Levels != 24 || cfg.Binning.Bins != 12 {
		t.Fatalf("overrides not applied: %+v", cfg)
	}
	// Untouched keys keep their defaults.
	if cfg.WindowMillis != DefaultConfig().WindowMillis {
		t.Fatalf("window_ms=%d, want default %d", cfg.WindowMillis, DefaultConfig().WindowMillis)
	}
}

func TestLoadConfigRejectsUnknownKeys(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("fsp: 30\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := LoadConfig(path); err == nil {
		t.Fatal("LoadConfig succeeded on unknown key, want error")
	}
}

func TestLoadConfigRejectsInvalidValues(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("fps: 0\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := LoadConfig(path); err == nil {
		t.Fatal("LoadConfig succeeded on invalid fps, want error")
	}
}

func TestFindConfigOrder(t *testing.T) {
	dir := t.TempDir()
	if _, ok := FindConfig(dir); ok {
		t.Fatal("FindConfig found a file in an empty dir")
	}

	for _, name := range []string{"config", "config.yml", "config.yaml"} {
		if err := os.WriteFile(filepath.Join(dir, name), nil, 0o644); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}

	path, ok := FindConfig(dir)
	if !ok {
		t.Fatal("FindConfig found nothing")
	}
	if filepath.Base(path) != "config.yaml" {
		t.Fatalf("FindConfig=%s, want config.yaml first", path)
	}
}

package viz

import (
	"fmt"
	"math"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/cwbudde/algo-viz/stage/savgol"
)

// Config holds every tunable of the analysis chain. Zero values are not
// usable; start from [DefaultConfig]. Validation is eager and fatal: a
// value out of range is reported, never silently corrected.
type Config struct {
	// FPS is the tick rate the consumer will drive the pipeline at. The
	// framer stride is derived from it.
	FPS int `yaml:"fps"`
	// WindowMillis is the analysis window duration; the frame size is
	// derived from it and the source sample rate.
	WindowMillis int `yaml:"window_ms"`

	// Alpha0 smooths raw magnitude spectra, Alpha1 the normalized bars.
	Alpha0 float64 `yaml:"alpha0"`
	Alpha1 float64 `yaml:"alpha1"`

	// Savgol0 smooths spectra before binning, Savgol1 the bars after
	// normalization.
	Savgol0 savgol.Config `yaml:"savgol0"`
	Savgol1 savgol.Config `yaml:"savgol1"`

	// MinDB and MaxDB bound the decibel range mapped onto [0, 1].
	MinDB float64 `yaml:"min_db"`
	MaxDB float64 `yaml:"max_db"`

	// Binning shapes the spectrum-to-bar folding.
	Binning BinningConfig `yaml:"binning"`

	// Levels is the number of quantization steps above zero.
	Levels int `yaml:"levels"`
}

// BinningConfig is the user-facing subset of the binning stage
// configuration; input size and sample rate are filled in at build time.
type BinningConfig struct {
	Bins  int     `yaml:"bins"`
	FMin  float64 `yaml:"f_min"`
	FMax  float64 `yaml:"f_max"`
	Gamma float64 `yaml:"gamma"`
}

// DefaultConfig returns the settings the renderer ships with.
func DefaultConfig() Config {
	return Config{
		FPS:          60,
		WindowMillis: 40,
		Alpha0:       0.33,
		Alpha1:       0.6,
		Savgol0:      savgol.Config{WindowSize: 5, Degree: 3, Order: 0},
		Savgol1:      savgol.Config{WindowSize: 9, Degree: 3, Order: 0},
		MinDB:        -70,
		MaxDB:        -20,
		Binning: BinningConfig{
			Bins:  48,
			FMin:  42,
			FMax:  14000,
			Gamma: 2.3,
		},
		Levels: 48,
	}
}

// Validate reports the first out-of-range setting found.
func (c Config) Validate() error {
	if c.FPS <= 1 {
		return fmt.Errorf("viz: fps must be > 1: %d", c.FPS)
	}
	if c.WindowMillis <= 1 {
		return fmt.Errorf("viz: window duration must be > 1 ms: %d", c.WindowMillis)
	}
	if c.Alpha0 <= 0 || c.Alpha0 > 1 {
		return fmt.Errorf("viz: alpha0 must be in (0, 1]: %g", c.Alpha0)
	}
	if c.Alpha1 <= 0 || c.Alpha1 > 1 {
		return fmt.Errorf("viz: alpha1 must be in (0, 1]: %g", c.Alpha1)
	}
	if err := c.Savgol0.Validate(); err != nil {
		return fmt.Errorf("viz: savgol0: %w", err)
	}
	if err := c.Savgol1.Validate(); err != nil {
		return fmt.Errorf("viz: savgol1: %w", err)
	}
	if !isFinite(c.MinDB) || !isFinite(c.MaxDB) || c.MinDB >= c.MaxDB {
		return fmt.Errorf("viz: need finite min_db < max_db, got [%g, %g]", c.MinDB, c.MaxDB)
	}
	if c.Binning.Bins <= 1 {
		return fmt.Errorf("viz: bins must be > 1: %d", c.Binning.Bins)
	}
	if c.Binning.FMin <= 0 || !isFinite(c.Binning.FMax) || c.Binning.FMin >= c.Binning.FMax {
		return fmt.Errorf("viz: need 0 < f_min < f_max finite, got [%g, %g]",
			c.Binning.FMin, c.Binning.FMax)
	}
	if c.Binning.Gamma <= 0 || !isFinite(c.Binning.Gamma) {
		return fmt.Errorf("viz: gamma must be positive and finite: %g", c.Binning.Gamma)
	}
	if c.Levels <= 2 {
		return fmt.Errorf("viz: levels must be > 2: %d", c.Levels)
	}
	return nil
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// LoadConfig reads and validates a YAML config file. Unknown keys are
// rejected.
func LoadConfig(path string) (Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return Config{}, fmt.Errorf("viz: %w", err)
	}
	defer f.Close()

	cfg := DefaultConfig()
	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil {
		return Config{}, fmt.Errorf("viz: parse %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// FindConfig returns the first of config.yaml, config.yml, config found in
// dir, or ok=false when none exists.
func FindConfig(dir string) (string, bool) {
	for _, name := range []string{"config.yaml", "config.yml", "config"} {
		path := filepath.Join(dir, name)
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			return path, true
		}
	}
	return "", false
}

// Package config loads fitocr settings from the environment, an optional .env
// file and an optional TOML heuristics file.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"fitocr/pkg/extract"
	"fitocr/pkg/ocr"
)

// FileConfig represents the TOML configuration file.
type FileConfig struct {
	Extract ExtractConfig `toml:"extract"`
	OCR     OCRConfig     `toml:"ocr"`
}

// ExtractConfig overrides the extraction heuristics. Unset keys keep defaults.
type ExtractConfig struct {
	Variant            *string  `toml:"variant"`
	TotalKeywords      []string `toml:"total-keywords"`
	TrainingKeywords   []string `toml:"training-keywords"`
	ClockExclude       []string `toml:"clock-exclude"`
	Lookback           *int     `toml:"lookback"`
	ProximityWindow    *int     `toml:"proximity-window"`
	ClockWindow        *int     `toml:"clock-window"`
	CalorieFallbackMax *int     `toml:"calorie-fallback-max"`
	Arbitrate          *bool    `toml:"arbitrate"`
}

// OCRConfig overrides the Tesseract options.
type OCRConfig struct {
	Languages  []string `toml:"languages"`
	Preprocess *bool    `toml:"preprocess"`
	Threshold  *string  `toml:"threshold"`
	Whitelist  *string  `toml:"whitelist"`
}

// XDGConfigHome returns the XDG config home or a default fallback.
func XDGConfigHome() string {
	if v := os.Getenv("XDG_CONFIG_HOME"); v != "" {
		return v
	}
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return "."
	}
	return filepath.Join(home, ".config")
}

// DefaultConfigPath returns the default TOML config path.
func DefaultConfigPath() string {
	return filepath.Join(XDGConfigHome(), "fitocr", "config.toml")
}

// LoadConfig reads a TOML config from the given path. Missing file is not an error.
func LoadConfig(path string) (FileConfig, error) {
	if path == "" {
		return FileConfig{}, fmt.Errorf("config path is empty")
	}
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return FileConfig{}, nil
		}
		return FileConfig{}, fmt.Errorf("failed to stat config: %w", err)
	}
	var cfg FileConfig
	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return FileConfig{}, fmt.Errorf("failed to decode config: %w", err)
	}
	if undec := md.Undecoded(); len(undec) > 0 {
		return FileConfig{}, fmt.Errorf("unknown config keys: %v", undec)
	}
	return cfg, nil
}

// Apply layers the file values over base.
func (c ExtractConfig) Apply(base extract.Config) (extract.Config, error) {
	if c.Variant != nil {
		v, err := ParseVariant(*c.Variant)
		if err != nil {
			return base, err
		}
		base.Variant = v
	}
	if len(c.TotalKeywords) > 0 {
		base.TotalKeywords = c.TotalKeywords
	}
	if len(c.TrainingKeywords) > 0 {
		base.TrainingKeywords = c.TrainingKeywords
	}
	if c.ClockExclude != nil {
		base.ClockExclude = c.ClockExclude
	}
	for _, f := range []struct {
		name string
		src  *int
		dst  *int
	}{
		{"lookback", c.Lookback, &base.Lookback},
		{"proximity-window", c.ProximityWindow, &base.ProximityWindow},
		{"clock-window", c.ClockWindow, &base.ClockWindow},
		{"calorie-fallback-max", c.CalorieFallbackMax, &base.CalorieFallbackMax},
	} {
		if f.src == nil {
			continue
		}
		if *f.src < 0 {
			return base, fmt.Errorf("%s must be >= 0, got %d", f.name, *f.src)
		}
		*f.dst = *f.src
	}
	if c.Arbitrate != nil {
		base.Arbitrate = *c.Arbitrate
	}
	return base, nil
}

// Apply layers the file values over base.
func (c OCRConfig) Apply(base ocr.Options) (ocr.Options, error) {
	if len(c.Languages) > 0 {
		base.Languages = c.Languages
	}
	if c.Preprocess != nil {
		base.Preprocess = *c.Preprocess
	}
	if c.Threshold != nil {
		m, err := ocr.ParseThresholdMode(*c.Threshold)
		if err != nil {
			return base, err
		}
		base.Threshold = m
	}
	if c.Whitelist != nil {
		base.Whitelist = *c.Whitelist
	}
	return base, nil
}

// ParseVariant accepts "total"/"a" and "training"/"b".
func ParseVariant(s string) (extract.Variant, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "total", "a":
		return extract.VariantTotal, nil
	case "training", "b":
		return extract.VariantTraining, nil
	}
	return "", fmt.Errorf("unknown variant %q (want total or training)", s)
}

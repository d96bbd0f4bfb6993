// Package extract recovers workout fields from noisy OCR transcripts of
// fitness-tracker screenshots. Every function is pure over its transcript; an
// absent field is an empty string, never an error.
package extract

import (
	"regexp"
	"strings"
)

// Variant selects which duration labels a layout carries.
type Variant string

const (
	// VariantTotal reads only the total-time label; pause stays empty.
	VariantTotal Variant = "total"
	// VariantTraining also reads the training-time label, arbitrates the total
	// and derives the pause.
	VariantTraining Variant = "training"
)

// Config tunes the heuristics. The zero value is not useful; start from DefaultConfig.
type Config struct {
	Variant          Variant
	TotalKeywords    []string
	TrainingKeywords []string
	ClockExclude     []string
	Lookback         int
	ProximityWindow  int
	ClockWindow      int
	// CalorieFallbackMax bounds the largest-number layer; 0 disables it.
	CalorieFallbackMax int
	// Arbitrate keeps the larger of total time and the value before the
	// training label (VariantTraining only).
	Arbitrate bool
}

// DefaultConfig matches the Italian export layout the heuristics were tuned on.
func DefaultConfig() Config {
	return Config{
		Variant:            VariantTotal,
		TotalKeywords:      append([]string(nil), TotalTimeKeywords...),
		TrainingKeywords:   append([]string(nil), TrainingTimeKeywords...),
		ClockExclude:       append([]string(nil), ClockExcludeWords...),
		Lookback:           DefaultLookback,
		ProximityWindow:    DefaultProximityWindow,
		ClockWindow:        DefaultClockWindow,
		CalorieFallbackMax: DefaultCalorieFallbackMax,
		Arbitrate:          true,
	}
}

// Record is the per-image extraction result.
type Record struct {
	ClockTime    string `json:"clock_time" yaml:"clock_time"`
	TotalTime    string `json:"total_time" yaml:"total_time"`
	TrainingTime string `json:"training_time,omitempty" yaml:"training_time,omitempty"`
	Pause        string `json:"pause" yaml:"pause"`
	DistanceKM   string `json:"distance_km" yaml:"distance_km"`
	Calories     string `json:"calories" yaml:"calories"`
}

// Explanation exposes the intermediate candidates behind a Record.
type Explanation struct {
	Record        Record   `json:"record" yaml:"record"`
	Tokens        []string `json:"tokens" yaml:"tokens"`
	TotalRaw      string   `json:"total_raw" yaml:"total_raw"`
	PreLabelRaw   string   `json:"pre_label_raw,omitempty" yaml:"pre_label_raw,omitempty"`
	TrainingRaw   string   `json:"training_raw,omitempty" yaml:"training_raw,omitempty"`
	CalorieLayer  string   `json:"calorie_layer" yaml:"calorie_layer"`
	ClockFromText bool     `json:"clock_from_text" yaml:"clock_from_text"`
}

// Extractor applies a Config. It holds no mutable state and is safe for
// concurrent use.
type Extractor struct {
	cfg    Config
	layers []CalorieStrategy
	// trainingLabel finds the first training-time label for the arbiter.
	trainingLabel *regexp.Regexp
}

// New returns an Extractor for cfg, filling unset numeric fields with defaults.
func New(cfg Config) *Extractor {
	d := DefaultConfig()
	if cfg.Variant == "" {
		cfg.Variant = d.Variant
	}
	if len(cfg.TotalKeywords) == 0 {
		cfg.TotalKeywords = d.TotalKeywords
	}
	if len(cfg.TrainingKeywords) == 0 {
		cfg.TrainingKeywords = d.TrainingKeywords
	}
	if cfg.ClockExclude == nil {
		cfg.ClockExclude = d.ClockExclude
	}
	if cfg.Lookback <= 0 {
		cfg.Lookback = d.Lookback
	}
	if cfg.ProximityWindow <= 0 {
		cfg.ProximityWindow = d.ProximityWindow
	}
	if cfg.ClockWindow <= 0 {
		cfg.ClockWindow = d.ClockWindow
	}
	if cfg.CalorieFallbackMax < 0 {
		cfg.CalorieFallbackMax = 0
	}
	return &Extractor{
		cfg:           cfg,
		layers:        CalorieStrategies(cfg.CalorieFallbackMax),
		trainingLabel: labelPattern(cfg.TrainingKeywords),
	}
}

// Config returns the effective configuration.
func (e *Extractor) Config() Config { return e.cfg }

// WithVariant returns an Extractor sharing e's settings with another variant.
func (e *Extractor) WithVariant(v Variant) *Extractor {
	if v == "" || v == e.cfg.Variant {
		return e
	}
	cfg := e.cfg
	cfg.Variant = v
	return &Extractor{cfg: cfg, layers: e.layers, trainingLabel: e.trainingLabel}
}

// Extract builds the Record for one transcript.
func (e *Extractor) Extract(text string) Record {
	return e.Explain(text).Record
}

// Explain is Extract plus the candidates each field was chosen from.
func (e *Extractor) Explain(text string) Explanation {
	var ex Explanation
	if strings.TrimSpace(text) == "" {
		return ex
	}
	for t := range Tokens(text) {
		ex.Tokens = append(ex.Tokens, t.Raw)
	}

	// Tokens taken by a duration label are never read as the clock.
	claimed := make(map[int]bool)
	claim := func(t Token, ok bool) string {
		if !ok {
			return ""
		}
		claimed[t.Start] = true
		return t.Raw
	}

	total := claim(resolveLabeledToken(text, e.cfg.TotalKeywords, e.cfg.Lookback, e.cfg.ProximityWindow))
	ex.TotalRaw = total
	var training string
	if e.cfg.Variant == VariantTraining {
		training = claim(resolveLabeledToken(text, e.cfg.TrainingKeywords, e.cfg.Lookback, e.cfg.ProximityWindow))
		ex.TrainingRaw = training
		if e.cfg.Arbitrate && e.trainingLabel != nil {
			ex.PreLabelRaw = claim(preLabelToken(text, e.trainingLabel))
			total = Arbitrate(total, ex.PreLabelRaw)
		}
		ex.Record.Pause = Pause(total, training)
	}
	ex.Record.TotalTime = Canonical(total)
	ex.Record.TrainingTime = Canonical(training)

	ex.Record.ClockTime = clockTime(text, e.cfg.ClockExclude, e.cfg.ClockWindow, claimed)
	ex.ClockFromText = ex.Record.ClockTime != ""
	ex.Record.DistanceKM = Distance(text)
	ex.Record.Calories, ex.CalorieLayer = runCalories(text, e.layers)
	return ex
}

package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const trainingLayout = "07:42\nCorsa mattutina al parco comunale di Milano\nPercorso urbano\n" +
	"1:10:00\nTempo totale\n1:00:00\nTempo di allenamento\n8,4 km\n612 kcal"

func TestExtract_TrainingVariant(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Variant = VariantTraining
	got := New(cfg).Extract(trainingLayout)

	assert.Equal(t, Record{
		ClockTime:    "07:42",
		TotalTime:    "1:10:00",
		TrainingTime: "1:00:00",
		Pause:        "10:00",
		DistanceKM:   "8.4",
		Calories:     "612",
	}, got)
}

func TestExtract_TotalVariantLeavesPauseEmpty(t *testing.T) {
	got := New(DefaultConfig()).Extract(trainingLayout)
	assert.Equal(t, "1:10:00", got.TotalTime)
	assert.Empty(t, got.TrainingTime)
	assert.Empty(t, got.Pause)
	assert.Equal(t, "612", got.Calories)
}

func TestExtract_ArbiterKeepsLargerTotal(t *testing.T) {
	text := "45:00\nTempo totale\n1:05:00\nTempo in movimento"
	cfg := DefaultConfig()
	cfg.Variant = VariantTraining

	got := New(cfg).Extract(text)
	assert.Equal(t, "1:05:00", got.TotalTime)
	assert.Equal(t, "1:05:00", got.TrainingTime)
	assert.Equal(t, "0:00", got.Pause)

	cfg.Arbitrate = false
	got = New(cfg).Extract(text)
	assert.Equal(t, "45:00", got.TotalTime)
	assert.Empty(t, got.Pause, "training longer than total")
}

func TestExtract_ClockSkipsClaimedDurations(t *testing.T) {
	// The total value sits far from every exclude word and reads as a valid clock.
	text := "12:30\nSessione mattutina al parco comunale di Milano\nPercorso urbano\nTempo totale\n612 kcal"
	got := New(DefaultConfig()).Extract(text)
	assert.Equal(t, "12:30", got.TotalTime)
	assert.Empty(t, got.ClockTime, "a token holds one field at most")

	text = "07:05\nSessione mattutina al parco comunale di Milano\n12:30\nTempo totale"
	got = New(DefaultConfig()).Extract(text)
	assert.Equal(t, "12:30", got.TotalTime)
	assert.Equal(t, "07:05", got.ClockTime)
}

func TestExtract_TrainingVariantWithoutTotalLabel(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Variant = VariantTraining
	got := New(cfg).Extract("Corsa\n1:00:00\nTempo di allenamento\n5,2 km")

	assert.Empty(t, got.TotalTime)
	assert.Equal(t, "1:00:00", got.TrainingTime)
	assert.Empty(t, got.Pause)
	assert.Equal(t, "5.2", got.DistanceKM)
}

func TestExtract_EmptyTranscript(t *testing.T) {
	e := New(DefaultConfig())
	assert.Equal(t, Record{}, e.Extract(""))
	assert.Equal(t, Record{}, e.Extract(" \n\t "))
}

func TestExtract_Idempotent(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Variant = VariantTraining
	e := New(cfg)
	first := e.Extract(trainingLayout)
	for i := 0; i < 5; i++ {
		assert.Equal(t, first, e.Extract(trainingLayout))
	}
}

func TestExplain_ReportsCandidates(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Variant = VariantTraining
	ex := New(cfg).Explain(trainingLayout)

	require.Equal(t, []string{"07:42", "1:10:00", "1:00:00"}, ex.Tokens)
	assert.Equal(t, "1:10:00", ex.TotalRaw)
	assert.Equal(t, "1:00:00", ex.PreLabelRaw)
	assert.Equal(t, "1:00:00", ex.TrainingRaw)
	assert.Equal(t, "direct", ex.CalorieLayer)
	assert.True(t, ex.ClockFromText)
}

func TestNew_FillsDefaults(t *testing.T) {
	c := New(Config{CalorieFallbackMax: -1}).Config()
	assert.Equal(t, VariantTotal, c.Variant)
	assert.Equal(t, DefaultLookback, c.Lookback)
	assert.Equal(t, DefaultProximityWindow, c.ProximityWindow)
	assert.Equal(t, DefaultClockWindow, c.ClockWindow)
	assert.Equal(t, TotalTimeKeywords, c.TotalKeywords)
	assert.Equal(t, 0, c.CalorieFallbackMax)
}

func TestWithVariant(t *testing.T) {
	base := New(DefaultConfig())
	assert.Same(t, base, base.WithVariant(""))
	b := base.WithVariant(VariantTraining)
	assert.Equal(t, VariantTraining, b.Config().Variant)
	assert.Equal(t, VariantTotal, base.Config().Variant)
	assert.Equal(t, "10:00", b.Extract(trainingLayout).Pause)
}

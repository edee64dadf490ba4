package threshold_test

import (
	"errors"
	"math"
	"testing"

	"github.com/aretw0/eventdeck/pkg/domain"
	"github.com/aretw0/eventdeck/pkg/threshold"
	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name     string
		offset   float64
		zone     domain.Zone
		progress float64
		signed   float64
	}{
		{"zero", 0, domain.ZoneNeutral, 0, 0},
		{"leaning save", 60, domain.ZoneSaveLeaning, 0.5, 0.5},
		{"leaning skip", -30, domain.ZoneSkipLeaning, 0.25, -0.25},
		{"exactly at threshold saves", 120, domain.ZoneCommittedSave, 1, 1},
		{"exactly at negative threshold skips", -120, domain.ZoneCommittedSkip, 1, -1},
		{"past threshold clamps progress", 300, domain.ZoneCommittedSave, 1, 1},
		{"past negative threshold clamps progress", -1000, domain.ZoneCommittedSkip, 1, -1},
		{"NaN is neutral", math.NaN(), domain.ZoneNeutral, 0, 0},
		{"+Inf commits", math.Inf(1), domain.ZoneCommittedSave, 1, 1},
		{"-Inf commits", math.Inf(-1), domain.ZoneCommittedSkip, 1, -1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := threshold.Classify(tt.offset, 120)
			assert.Equal(t, tt.zone, got.Zone)
			assert.InDelta(t, tt.progress, got.Progress, 1e-9)
			assert.InDelta(t, tt.signed, got.Signed, 1e-9)
		})
	}
}

func TestClassify_NeverCommitsBelowThreshold(t *testing.T) {
	const limit = 120.0
	for x := -limit + 1e-6; x < limit; x += 0.37 {
		z := threshold.Classify(x, limit).Zone
		assert.False(t, z.Committed(), "offset %v classified %v", x, z)
	}
	eps := math.Nextafter(limit, 0)
	assert.Equal(t, domain.ZoneSaveLeaning, threshold.Classify(eps, limit).Zone)
	assert.Equal(t, domain.ZoneSkipLeaning, threshold.Classify(-eps, limit).Zone)
}

func TestClassify_Idempotent(t *testing.T) {
	for _, x := range []float64{-500, -120, -1, 0, 1, 119.999, 120, 500} {
		assert.Equal(t, threshold.Classify(x, 120), threshold.Classify(x, 120))
	}
}

func TestClassify_InvalidThresholdIsNeutral(t *testing.T) {
	for _, th := range []float64{0, -10, math.NaN(), math.Inf(1)} {
		assert.Equal(t, domain.ZoneNeutral, threshold.Classify(200, th).Zone)
	}
}

func TestValidate(t *testing.T) {
	assert.NoError(t, threshold.Validate(120))
	for _, th := range []float64{0, -1, math.NaN(), math.Inf(1)} {
		err := threshold.Validate(th)
		assert.True(t, errors.Is(err, domain.ErrInvalidThreshold), "threshold %v", th)
	}
}

func TestClassifier_Asymmetric(t *testing.T) {
	c := threshold.Classifier{Save: 100, Skip: 200}
	assert.NoError(t, c.Validate())

	assert.Equal(t, domain.ZoneCommittedSave, c.Classify(100).Zone)
	assert.Equal(t, domain.ZoneSkipLeaning, c.Classify(-150).Zone)
	assert.InDelta(t, -0.75, c.Classify(-150).Signed, 1e-9)
	assert.Equal(t, domain.ZoneCommittedSkip, c.Classify(-200).Zone)

	assert.Equal(t, threshold.Symmetric(120).Classify(42), threshold.Classify(42, 120))
	assert.Error(t, threshold.Classifier{Save: 1}.Validate())
}

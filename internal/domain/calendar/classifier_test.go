package calendar

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassify_ExactMatch(t *testing.T) {
	meta := Classify("Non-Farm Employment Change")
	assert.Equal(t, CategoryEmployment, meta.Category)
	assert.Equal(t, +1, meta.Polarity)
	assert.Equal(t, 10, meta.Weight)

	// Trimming and case do not matter for the exact table
	meta = Classify("  UNEMPLOYMENT RATE ")
	assert.Equal(t, CategoryEmployment, meta.Category)
	assert.Equal(t, -1, meta.Polarity)
	assert.Equal(t, 10, meta.Weight)
}

func TestClassify_ExactWinsOverPattern(t *testing.T) {
	// "Manufacturing PMI" is in the exact table with weight 7; a prefixed
	// variant only reaches the generic \bpmi\b pattern with weight 6
	exact := Classify("Manufacturing PMI")
	assert.Equal(t, CategoryPMI, exact.Category)
	assert.Equal(t, 7, exact.Weight)

	pattern := Classify("Spanish Manufacturing PMI")
	assert.Equal(t, CategoryPMI, pattern.Category)
	assert.Equal(t, +1, pattern.Polarity)
	assert.Equal(t, 6, pattern.Weight)
	assert.Less(t, pattern.Weight, exact.Weight)
}

func TestClassify_PatternPriority(t *testing.T) {
	// "ISM Manufacturing Prices PMI"-style names must hit the higher
	// priority ISM rule before the generic pmi rule
	meta := Classify("ISM Chicago PMI Index")
	assert.Equal(t, CategoryPMI, meta.Category)
	assert.Equal(t, 8, meta.Weight)

	// Interest rate patterns outrank everything
	meta = Classify("BOJ Interest Rate Decision")
	assert.Equal(t, CategoryInterestRate, meta.Category)
	assert.Equal(t, 10, meta.Weight)

	// CPI pattern applies to prefixed variants
	meta = Classify("French CPI m/m Flash")
	assert.Equal(t, CategoryInflation, meta.Category)
	assert.Equal(t, 9, meta.Weight)
}

func TestClassify_Default(t *testing.T) {
	meta := Classify("Crude Oil Inventories")
	assert.Equal(t, CategoryOther, meta.Category)
	assert.Equal(t, +1, meta.Polarity)
	assert.Equal(t, 1, meta.Weight)
}

func TestClassify_UnemploymentRateNegativePolarity(t *testing.T) {
	meta := Classify("Italian Unemployment Rate")
	assert.Equal(t, CategoryEmployment, meta.Category)
	assert.Equal(t, -1, meta.Polarity)
}

package normalize

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValue_Suffixes(t *testing.T) {
	tests := []struct {
		raw  string
		want float64
	}{
		{"223K", 223000},
		{"223k", 223000},
		{"1.5M", 1500000},
		{"-1.5M", -1500000},
		{"2B", 2000000000},
		{"-50B", -50000000000},
		{"1.2T", 1200000000000},
		{"0.5", 0.5},
		{"1,234", 1234},
		{"1,234.5K", 1234500},
	}

	for _, tt := range tests {
		got, ok := Value(tt.raw)
		assert.True(t, ok, "Value(%q) should parse", tt.raw)
		assert.InDelta(t, tt.want, got, 1e-9, "Value(%q)", tt.raw)
	}
}

func TestValue_Percent(t *testing.T) {
	got, ok := Value("2.5%")
	assert.True(t, ok)
	assert.InDelta(t, 0.025, got, 1e-12)

	got, ok = Value("-0.3%")
	assert.True(t, ok)
	assert.InDelta(t, -0.003, got, 1e-12)
}

func TestValue_ComparisonMarkerDiscarded(t *testing.T) {
	got, ok := Value("<0.1%")
	assert.True(t, ok)
	assert.InDelta(t, 0.001, got, 1e-12)

	got, ok = Value(">2.5K")
	assert.True(t, ok)
	assert.InDelta(t, 2500, got, 1e-9)
}

func TestValue_Invalid(t *testing.T) {
	for _, raw := range []string{"", "   ", "N/A", "abc", "1.2.3", "--5", "%", "K"} {
		_, ok := Value(raw)
		assert.False(t, ok, "Value(%q) should not parse", raw)
	}
}

func TestValuePtr(t *testing.T) {
	assert.Nil(t, ValuePtr(nil))

	empty := ""
	assert.Nil(t, ValuePtr(&empty))

	raw := "223K"
	got := ValuePtr(&raw)
	if assert.NotNil(t, got) {
		assert.InDelta(t, 223000, *got, 1e-9)
	}
}

func TestFormat(t *testing.T) {
	assert.Equal(t, "223.00K", Format(223000, 2, true))
	assert.Equal(t, "1.5M", Format(1500000, 1, true))
	assert.Equal(t, "-1.5M", Format(-1500000, 1, true))
	assert.Equal(t, "2.00B", Format(2e9, 2, true))
	assert.Equal(t, "1.20T", Format(1.2e12, 2, true))
	assert.Equal(t, "0.03", Format(0.025, 2, true))
	assert.Equal(t, "1500000.00", Format(1500000, 2, false))
}

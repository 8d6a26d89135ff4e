package calendar

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func f(v float64) *float64 { return &v }
func s(v string) *string   { return &v }

func TestSurprise(t *testing.T) {
	got := Surprise(f(300000), f(200000), +1)
	require.NotNil(t, got)
	assert.InDelta(t, 0.5, *got, 1e-9)

	// Negative polarity flips the sign
	got = Surprise(f(0.04), f(0.035), -1)
	require.NotNil(t, got)
	assert.InDelta(t, -0.142857142857, *got, 1e-9)

	// Negative forecast normalizes by absolute value
	got = Surprise(f(0.002), f(0.003), +1)
	require.NotNil(t, got)
	assert.InDelta(t, -1.0/3.0, *got, 1e-9)
}

func TestSurprise_Undefined(t *testing.T) {
	assert.Nil(t, Surprise(nil, f(0.003), +1))
	assert.Nil(t, Surprise(f(0.002), nil, +1))
	assert.Nil(t, Surprise(f(0.002), f(0), +1))
}

func TestNewEvent_NormalizesAndClassifies(t *testing.T) {
	date := time.Date(2026, time.January, 18, 0, 0, 0, 0, time.UTC)
	e := NewEvent(date, nil, "USD", ImpactHigh, "Non-Farm Employment Change",
		s("223K"), s("200K"), s("180K"))

	require.NotNil(t, e.Actual)
	assert.InDelta(t, 223000, *e.Actual, 1e-9)
	require.NotNil(t, e.Forecast)
	assert.InDelta(t, 200000, *e.Forecast, 1e-9)
	require.NotNil(t, e.Previous)
	assert.InDelta(t, 180000, *e.Previous, 1e-9)

	assert.Equal(t, CategoryEmployment, e.Category)
	assert.Equal(t, +1, e.Polarity)
	assert.Equal(t, 10, e.Weight)

	require.NotNil(t, e.Surprise)
	assert.InDelta(t, 0.115, *e.Surprise, 1e-9)

	// Raw strings survive the ingestion boundary
	require.NotNil(t, e.ActualRaw)
	assert.Equal(t, "223K", *e.ActualRaw)
}

func TestNewEvent_PendingActual(t *testing.T) {
	date := time.Date(2026, time.January, 18, 0, 0, 0, 0, time.UTC)
	e := NewEvent(date, nil, "EUR", ImpactMedium, "German ZEW Economic Sentiment",
		nil, s("15.2"), s("13.8"))

	assert.Nil(t, e.Actual)
	assert.Nil(t, e.Surprise)
	assert.False(t, e.HasActual())
}

func TestOccurredAt(t *testing.T) {
	date := time.Date(2026, time.January, 18, 0, 0, 0, 0, time.UTC)

	e := Event{Date: date}
	assert.Equal(t, time.Date(2026, time.January, 18, 0, 0, 0, 0, time.UTC), e.OccurredAt(time.UTC))

	tod := time.Date(0, time.January, 1, 8, 30, 0, 0, time.UTC)
	e = Event{Date: date, Time: &tod}
	assert.Equal(t, time.Date(2026, time.January, 18, 8, 30, 0, 0, time.UTC), e.OccurredAt(time.UTC))
}

func TestValidCurrency(t *testing.T) {
	assert.True(t, ValidCurrency("USD"))
	assert.True(t, ValidCurrency("EU"))
	assert.False(t, ValidCurrency("X"))
	assert.False(t, ValidCurrency("TOOLONG"))
	assert.False(t, ValidCurrency("US1"))
}

func TestFilterByImpact(t *testing.T) {
	events := []Event{
		{Name: "a", Impact: ImpactLow},
		{Name: "b", Impact: ImpactMedium},
		{Name: "c", Impact: ImpactHigh},
		{Name: "d", Impact: ImpactHoliday},
		{Name: "e", Impact: ImpactUnknown},
	}

	got := FilterByImpact(events, ImpactMedium)
	require.Len(t, got, 2)
	assert.Equal(t, "b", got[0].Name)
	assert.Equal(t, "c", got[1].Name)

	// Holiday/unknown floor means no filtering
	assert.Len(t, FilterByImpact(events, ImpactUnknown), 5)
}

func TestFilterByCurrency(t *testing.T) {
	events := []Event{
		{Name: "a", Currency: "USD"},
		{Name: "b", Currency: "eur"},
		{Name: "c", Currency: "GBP"},
	}

	got := FilterByCurrency(events, []string{"usd", "EUR"})
	require.Len(t, got, 2)
	assert.Equal(t, "a", got[0].Name)
	assert.Equal(t, "b", got[1].Name)

	assert.Len(t, FilterByCurrency(events, nil), 3)
}

func TestGroupByDay_FullyShaped(t *testing.T) {
	d2 := time.Date(2026, time.February, 2, 0, 0, 0, 0, time.UTC)
	month := GroupByDay(2026, time.February, []Event{{Name: "a", Date: d2}})

	require.Len(t, month.Days, 28)
	assert.Empty(t, month.Days[0].Events)
	require.Len(t, month.Days[1].Events, 1)
	assert.Equal(t, "a", month.Days[1].Events[0].Name)
	assert.Len(t, month.AllEvents(), 1)
}

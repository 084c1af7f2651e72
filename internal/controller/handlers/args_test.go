package handlers

import (
	"testing"

	"github.com/Freeeeeet/lessonmarket/internal/model"
	"github.com/Freeeeeet/lessonmarket/internal/schedule"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseArgs(t *testing.T) {
	args, err := ParseArgs(`2025-06-10  start=11:00 notes="bring a mat" Venue=Studio`)
	require.NoError(t, err)

	assert.Equal(t, []string{"2025-06-10"}, args.Positional)
	assert.Equal(t, map[string]string{
		"start": "11:00",
		"notes": "bring a mat",
		"venue": "Studio",
	}, args.Values)
}

func TestParseArgs_Errors(t *testing.T) {
	_, err := ParseArgs(`notes="open`)
	assert.ErrorIs(t, err, ErrBadArgs)

	_, err = ParseArgs(`=5`)
	assert.ErrorIs(t, err, ErrBadArgs)

	args, err := ParseArgs("")
	require.NoError(t, err)
	assert.Empty(t, args.Positional)
	assert.Empty(t, args.Values)
}

func TestCommandArgs(t *testing.T) {
	assert.Equal(t, "start=10:00 price=1", CommandArgs("/template  start=10:00 price=1"))
	assert.Equal(t, "", CommandArgs("/template"))
}

func TestApplyTemplateArgs(t *testing.T) {
	base := schedule.Template{
		Start:           schedule.MustClock("10:00"),
		DurationMinutes: 60,
		Capacity:        5,
		Price:           3000,
		DeadlineDays:    1,
		DeadlineTime:    schedule.MustClock("18:00"),
	}

	got, err := ApplyTemplateArgs(base, map[string]string{
		"start":         "09:30",
		"capacity":      "8",
		"discount":      "10",
		"deadline_time": "20:00",
		"venue":         "Room 2",
	})
	require.NoError(t, err)

	assert.Equal(t, schedule.MustClock("09:30"), got.Start)
	assert.Equal(t, 60, got.DurationMinutes, "untouched")
	assert.Equal(t, 8, got.Capacity)
	assert.Equal(t, 10, got.DiscountPercentage)
	assert.Equal(t, schedule.MustClock("20:00"), got.DeadlineTime)
	assert.Equal(t, "Room 2", got.VenueDetails)
}

func TestApplyTemplateArgs_Rejects(t *testing.T) {
	base := schedule.Template{}

	tests := []map[string]string{
		{"capacity": "many"},
		{"start": "25:00"},
		{"colour": "red"},
	}
	for _, values := range tests {
		got, err := ApplyTemplateArgs(base, values)
		assert.ErrorIs(t, err, ErrBadArgs)
		assert.Equal(t, base, got)
	}
}

func TestParseOverrides(t *testing.T) {
	o, err := ParseOverrides(map[string]string{"price": "0", "notes": ""})
	require.NoError(t, err)

	require.NotNil(t, o.Price)
	assert.Equal(t, 0, *o.Price)
	require.NotNil(t, o.Notes)
	assert.Equal(t, "", *o.Notes)
	assert.Nil(t, o.Start)
	assert.Nil(t, o.Capacity)
}

func TestParseLessonInput(t *testing.T) {
	in, err := ParseLessonInput(map[string]string{
		"title":    "Jazz piano",
		"category": "Music",
		"format":   "in_person",
		"type":     "monthly",
		"price":    "8000",
		"capacity": "4",
		"area":     "Shibuya",
	})
	require.NoError(t, err)

	assert.Equal(t, "Jazz piano", in.Title)
	assert.Equal(t, model.FormatInPerson, in.LocationType)
	assert.Equal(t, model.PricingMonthly, in.LessonType)
	assert.Equal(t, 8000, in.Price)
	assert.Equal(t, 4, in.Capacity)
	assert.Equal(t, 60, in.Duration, "default duration")
	assert.Nil(t, in.DiscountPercentage)

	_, err = ParseLessonInput(map[string]string{"title": "x", "rating": "5"})
	assert.ErrorIs(t, err, ErrBadArgs)
}

func TestParsePriceRange(t *testing.T) {
	lo, hi, err := ParsePriceRange("1000 5000")
	require.NoError(t, err)
	require.NotNil(t, lo)
	require.NotNil(t, hi)
	assert.Equal(t, 1000, *lo)
	assert.Equal(t, 5000, *hi)

	lo, hi, err = ParsePriceRange("- 3000")
	require.NoError(t, err)
	assert.Nil(t, lo)
	assert.Equal(t, 3000, *hi)

	lo, hi, err = ParsePriceRange("5000 1000")
	require.NoError(t, err)
	assert.Equal(t, 1000, *lo, "bounds are swapped when reversed")
	assert.Equal(t, 5000, *hi)

	lo, hi, err = ParsePriceRange("off")
	require.NoError(t, err)
	assert.Nil(t, lo)
	assert.Nil(t, hi)

	for _, bad := range []string{"", "1000", "abc 10", "-5 10"} {
		_, _, err := ParsePriceRange(bad)
		assert.ErrorIs(t, err, ErrBadArgs, bad)
	}
}

package formatting

import (
	"testing"
	"time"

	"github.com/Freeeeeet/lessonmarket/internal/model"
	"github.com/stretchr/testify/assert"
)

func TestFormatPrice(t *testing.T) {
	tests := []struct {
		yen      int
		expected string
	}{
		{0, "0円"},
		{999, "999円"},
		{1000, "1,000円"},
		{12500, "12,500円"},
		{1234567, "1,234,567円"},
		{-3000, "-3,000円"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, FormatPrice(tt.yen))
	}
}

func TestFormatLessonPrice(t *testing.T) {
	assert.Equal(t, "8,000円/мес", FormatLessonPrice(8000, model.PricingMonthly))
	assert.Equal(t, "3,000円", FormatLessonPrice(3000, model.PricingOneTime))
	assert.Equal(t, "30,000円 за курс", FormatLessonPrice(30000, model.PricingCourse))
}

func TestDiscount(t *testing.T) {
	ten := 10
	zero := 0

	assert.Equal(t, "", FormatDiscount(nil))
	assert.Equal(t, "", FormatDiscount(&zero))
	assert.Equal(t, "-10%", FormatDiscount(&ten))

	assert.Equal(t, 2700, DiscountedPrice(3000, &ten))
	assert.Equal(t, 3000, DiscountedPrice(3000, nil))
}

func TestFormatSlotTime(t *testing.T) {
	jst := time.FixedZone("JST", 9*60*60)
	start := time.Date(2025, 6, 10, 1, 0, 0, 0, time.UTC)
	end := start.Add(90 * time.Minute)

	assert.Equal(t, "Вт 10.06 10:00-11:30", FormatSlotTime(start, end, jst))
	assert.Equal(t, "10.06.2025 10:00", FormatDateTime(start, jst))
}

func TestFormatDuration(t *testing.T) {
	assert.Equal(t, "45 мин", FormatDuration(45))
	assert.Equal(t, "2 ч", FormatDuration(120))
	assert.Equal(t, "1 ч 30 мин", FormatDuration(90))
}

func TestStatusDisplay(t *testing.T) {
	assert.Equal(t, "🟢 Опубликовано", GetStatusDisplay(model.StatusPublished).String())
	assert.Equal(t, "❓", GetStatusDisplay(model.Status("bogus")).Emoji)
	assert.Equal(t, "❌", GetBookingStatusDisplay(model.BookingStatusCancelled).Emoji)
}

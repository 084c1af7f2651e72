package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTransition(t *testing.T) {
	tests := []struct {
		from, to Status
		ok       bool
	}{
		{StatusDraft, StatusPublished, true},
		{StatusDraft, StatusCancelled, true},
		{StatusDraft, StatusCompleted, false},
		{StatusPublished, StatusCompleted, true},
		{StatusPublished, StatusCancelled, true},
		{StatusPublished, StatusDraft, false},
		{StatusCancelled, StatusPublished, false},
		{StatusCompleted, StatusCancelled, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.from)+"->"+string(tt.to), func(t *testing.T) {
			got, err := Transition(tt.from, tt.to)
			if tt.ok {
				require.NoError(t, err)
				assert.Equal(t, tt.to, got)
				return
			}
			assert.ErrorIs(t, err, ErrInvalidTransition)
			assert.Equal(t, tt.from, got)
		})
	}

	assert.True(t, StatusCancelled.IsTerminal())
	assert.False(t, StatusPublished.IsTerminal())
	assert.False(t, Status("archived").Valid())
}

func validSlot() BookingSlot {
	start := time.Date(2025, 6, 10, 10, 0, 0, 0, time.UTC)
	return BookingSlot{
		ID:              1,
		DateTimeStart:   start,
		DateTimeEnd:     start.Add(time.Hour),
		BookingDeadline: start.Add(-24 * time.Hour),
		Capacity:        3,
		Status:          StatusPublished,
	}
}

func TestBookingSlot_IsBookable(t *testing.T) {
	s := validSlot()
	before := s.BookingDeadline.Add(-time.Hour)

	assert.True(t, s.IsBookable(before))
	assert.True(t, s.IsBookable(s.BookingDeadline), "deadline itself is inclusive")
	assert.False(t, s.IsBookable(s.BookingDeadline.Add(time.Minute)))

	s.CurrentParticipantsCount = 3
	assert.True(t, s.IsFull())
	assert.False(t, s.IsBookable(before))

	s = validSlot()
	s.Status = StatusDraft
	assert.False(t, s.IsBookable(before))
}

func TestBookingSlot_Validate(t *testing.T) {
	s := validSlot()
	require.NoError(t, s.Validate())

	s.DateTimeEnd = s.DateTimeStart
	assert.Error(t, s.Validate())

	s = validSlot()
	s.BookingDeadline = s.DateTimeStart.Add(time.Minute)
	assert.Error(t, s.Validate())

	s = validSlot()
	s.CurrentParticipantsCount = 4
	assert.Error(t, s.Validate())
}

func TestLesson_Validate(t *testing.T) {
	valid := Lesson{
		ID:           1,
		LocationType: FormatHybrid,
		LessonType:   PricingCourse,
		Status:       StatusPublished,
		Capacity:     2,
		Slots:        []BookingSlot{validSlot()},
	}
	require.NoError(t, valid.Validate())

	bad := valid
	bad.LocationType = "mars"
	assert.Error(t, bad.Validate())

	bad = valid
	discount := 120
	bad.DiscountPercentage = &discount
	assert.Error(t, bad.Validate())

	bad = valid
	bad.Slots = []BookingSlot{{ID: 9, Status: StatusPublished}}
	assert.Error(t, bad.Validate(), "invalid slot fails the lesson")

	assert.True(t, PricingMonthly.IsMonthly())
	assert.False(t, PricingCourse.IsMonthly())
}

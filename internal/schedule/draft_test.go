package schedule

import (
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Freeeeeet/lessonmarket/internal/model"
)

var jst = time.FixedZone("JST", 9*60*60)

func fixedNow(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func testTemplate() Template {
	return Template{
		Start:              MustClock("10:00"),
		DurationMinutes:    60,
		Capacity:           8,
		Price:              3000,
		DiscountPercentage: 10,
		DeadlineDays:       1,
		DeadlineTime:       MustClock("18:00"),
		Notes:              "bring a notebook",
		VenueDetails:       "Room 2",
	}
}

func newTestDraft(now time.Time) *Draft {
	return NewDraft(testTemplate(), jst, fixedNow(now))
}

func TestToggleDate_SynthesizesSlotFromTemplate(t *testing.T) {
	d := newTestDraft(time.Date(2025, 6, 1, 9, 0, 0, 0, jst))
	date := Date{Year: 2025, Month: time.June, Day: 10}

	require.True(t, d.ToggleDate(date))

	slot, ok := d.Slot(date)
	require.True(t, ok)
	assert.Equal(t, time.Date(2025, 6, 10, 10, 0, 0, 0, jst), slot.Start)
	assert.Equal(t, time.Date(2025, 6, 10, 11, 0, 0, 0, jst), slot.End)
	assert.Equal(t, time.Date(2025, 6, 9, 18, 0, 0, 0, jst), slot.Deadline)
	assert.Equal(t, 8, slot.Capacity)
	assert.Equal(t, 3000, slot.Price)
	assert.Equal(t, 10, slot.DiscountPercentage)
	assert.Equal(t, "bring a notebook", slot.Notes)
	assert.Equal(t, "Room 2", slot.VenueDetails)
}

func TestToggleDate_TwiceRestoresSelection(t *testing.T) {
	d := newTestDraft(time.Date(2025, 6, 1, 9, 0, 0, 0, jst))
	other := Date{Year: 2025, Month: time.June, Day: 3}
	date := Date{Year: 2025, Month: time.June, Day: 10}
	d.ToggleDate(other)

	before := d.Dates()
	require.True(t, d.ToggleDate(date))
	require.True(t, d.ToggleDate(date))

	assert.Equal(t, before, d.Dates())
	_, ok := d.Slot(date)
	assert.False(t, ok)
}

func TestToggleDate_PastDateIsNoop(t *testing.T) {
	d := newTestDraft(time.Date(2025, 6, 10, 9, 0, 0, 0, jst))

	assert.False(t, d.ToggleDate(Date{Year: 2025, Month: time.June, Day: 9}))
	assert.Equal(t, 0, d.Len())

	// сегодняшняя дата не считается прошедшей
	assert.True(t, d.ToggleDate(Date{Year: 2025, Month: time.June, Day: 10}))
	assert.Equal(t, 1, d.Len())
}

func TestToggleDate_TodayUsesDraftLocation(t *testing.T) {
	// 2025-06-09 20:00 UTC это уже 2025-06-10 в Токио
	d := NewDraft(testTemplate(), jst, fixedNow(time.Date(2025, 6, 9, 20, 0, 0, 0, time.UTC)))

	assert.False(t, d.ToggleDate(Date{Year: 2025, Month: time.June, Day: 9}))
	assert.True(t, d.ToggleDate(Date{Year: 2025, Month: time.June, Day: 10}))
}

func TestToggleWeekday_SelectsEverySundayOfMonth(t *testing.T) {
	d := newTestDraft(time.Date(2025, 5, 20, 9, 0, 0, 0, jst))

	changed := d.ToggleWeekday(time.Sunday, time.June, 2025)

	assert.Equal(t, 5, changed)
	assert.Equal(t, []Date{
		{2025, time.June, 1},
		{2025, time.June, 8},
		{2025, time.June, 15},
		{2025, time.June, 22},
		{2025, time.June, 29},
	}, d.Dates())
	assert.Len(t, d.Slots(), 5)
}

func TestToggleWeekday_SkipsPastDates(t *testing.T) {
	d := newTestDraft(time.Date(2025, 6, 16, 9, 0, 0, 0, jst))

	changed := d.ToggleWeekday(time.Sunday, time.June, 2025)

	assert.Equal(t, 2, changed)
	assert.Equal(t, []Date{{2025, time.June, 22}, {2025, time.June, 29}}, d.Dates())
}

func TestToggleWeekday_SecondToggleRemoves(t *testing.T) {
	d := newTestDraft(time.Date(2025, 5, 20, 9, 0, 0, 0, jst))
	keep := Date{Year: 2025, Month: time.June, Day: 3}
	d.ToggleDate(keep)

	d.ToggleWeekday(time.Sunday, time.June, 2025)
	changed := d.ToggleWeekday(time.Sunday, time.June, 2025)

	assert.Equal(t, 5, changed)
	assert.Equal(t, []Date{keep}, d.Dates())
}

func TestToggleWeekday_PartialSelectionAddsMissing(t *testing.T) {
	d := newTestDraft(time.Date(2025, 5, 20, 9, 0, 0, 0, jst))
	d.ToggleDate(Date{Year: 2025, Month: time.June, Day: 8})

	changed := d.ToggleWeekday(time.Sunday, time.June, 2025)

	assert.Equal(t, 4, changed)
	assert.Equal(t, 5, d.Len())
}

func TestToggleWeekday_WholeMonthInPast(t *testing.T) {
	d := newTestDraft(time.Date(2025, 8, 1, 9, 0, 0, 0, jst))

	assert.Equal(t, 0, d.ToggleWeekday(time.Monday, time.June, 2025))
	assert.Equal(t, 0, d.Len())
}

func TestApplyTemplateToAll(t *testing.T) {
	d := newTestDraft(time.Date(2025, 6, 1, 9, 0, 0, 0, jst))

	assert.False(t, d.ApplyTemplateToAll(), "nothing to apply without dates")

	a := Date{Year: 2025, Month: time.June, Day: 10}
	b := Date{Year: 2025, Month: time.June, Day: 12}
	d.ToggleDate(a)
	d.ToggleDate(b)

	price := 9999
	d.EditSlot(a, SlotOverrides{Price: &price})

	tpl := testTemplate()
	tpl.Start = MustClock("14:30")
	tpl.DurationMinutes = 90
	tpl.Price = 5000
	tpl.DeadlineDays = 2
	tpl.DeadlineTime = MustClock("12:00")
	tpl.Notes = "updated"
	d.SetTemplate(tpl)

	require.True(t, d.ApplyTemplateToAll())

	for _, slot := range d.Slots() {
		assert.Equal(t, 5000, slot.Price)
		assert.Equal(t, "updated", slot.Notes)
		assert.Equal(t, 14, slot.Start.Hour())
		assert.Equal(t, 30, slot.Start.Minute())
		assert.Equal(t, slot.Start.Add(90*time.Minute), slot.End)
		assert.Equal(t, slot.Date, DateOf(slot.Start, jst))
	}

	slotA, _ := d.Slot(a)
	assert.Equal(t, time.Date(2025, 6, 8, 12, 0, 0, 0, jst), slotA.Deadline)
}

func TestSetTemplate_DoesNotTouchExistingSlots(t *testing.T) {
	d := newTestDraft(time.Date(2025, 6, 1, 9, 0, 0, 0, jst))
	date := Date{Year: 2025, Month: time.June, Day: 10}
	d.ToggleDate(date)

	tpl := testTemplate()
	tpl.Price = 1
	d.SetTemplate(tpl)

	slot, _ := d.Slot(date)
	assert.Equal(t, 3000, slot.Price)
}

func TestEditSlot(t *testing.T) {
	d := newTestDraft(time.Date(2025, 6, 1, 9, 0, 0, 0, jst))
	date := Date{Year: 2025, Month: time.June, Day: 10}
	d.ToggleDate(date)

	start := MustClock("19:00")
	duration := 45
	capacity := 3
	venue := "Studio B"
	require.True(t, d.EditSlot(date, SlotOverrides{
		Start:           &start,
		DurationMinutes: &duration,
		Capacity:        &capacity,
		VenueDetails:    &venue,
	}))

	slot, _ := d.Slot(date)
	assert.Equal(t, time.Date(2025, 6, 10, 19, 0, 0, 0, jst), slot.Start)
	assert.Equal(t, time.Date(2025, 6, 10, 19, 45, 0, 0, jst), slot.End)
	assert.Equal(t, 3, slot.Capacity)
	assert.Equal(t, "Studio B", slot.VenueDetails)
	assert.Equal(t, 3000, slot.Price, "untouched fields keep their values")
}

func TestEditSlot_InsertsMissingSlot(t *testing.T) {
	d := newTestDraft(time.Date(2025, 6, 1, 9, 0, 0, 0, jst))
	date := Date{Year: 2025, Month: time.June, Day: 20}
	price := 100

	require.True(t, d.EditSlot(date, SlotOverrides{Price: &price}))

	assert.True(t, d.IsSelected(date))
	slot, _ := d.Slot(date)
	assert.Equal(t, 100, slot.Price)
	assert.Equal(t, 8, slot.Capacity)

	assert.False(t, d.EditSlot(Date{Year: 2025, Month: time.May, Day: 1}, SlotOverrides{Price: &price}))
}

func TestRemoveSlot(t *testing.T) {
	d := newTestDraft(time.Date(2025, 6, 1, 9, 0, 0, 0, jst))
	date := Date{Year: 2025, Month: time.June, Day: 10}
	d.ToggleDate(date)

	assert.True(t, d.RemoveSlot(date))
	assert.False(t, d.IsSelected(date))
	assert.False(t, d.RemoveSlot(date))
}

func TestWriteRecords(t *testing.T) {
	d := newTestDraft(time.Date(2025, 6, 1, 9, 0, 0, 0, jst))
	d.ToggleDate(Date{Year: 2025, Month: time.June, Day: 12})
	d.ToggleDate(Date{Year: 2025, Month: time.June, Day: 10})

	records := d.WriteRecords(42)

	require.Len(t, records, 2)
	assert.True(t, records[0].DateTimeStart.Before(records[1].DateTimeStart))
	for _, r := range records {
		assert.Equal(t, int64(42), r.LessonID)
		assert.Equal(t, 0, r.CurrentParticipantsCount)
		assert.Equal(t, model.StatusPublished, r.Status)
		assert.Equal(t, 8, r.Capacity)
	}
}

func TestDraft_SelectionMatchesSlotsUnderRandomOperations(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	d := newTestDraft(time.Date(2025, 6, 15, 9, 0, 0, 0, jst))

	for i := 0; i < 500; i++ {
		date := Date{Year: 2025, Month: time.June, Day: 1 + rng.Intn(30)}
		switch rng.Intn(5) {
		case 0, 1:
			d.ToggleDate(date)
		case 2:
			d.ToggleWeekday(time.Weekday(rng.Intn(7)), time.June, 2025)
		case 3:
			price := rng.Intn(10000)
			d.EditSlot(date, SlotOverrides{Price: &price})
		case 4:
			d.RemoveSlot(date)
		}

		dates := d.Dates()
		slots := d.Slots()
		require.Len(t, slots, len(dates))
		for j, slot := range slots {
			require.Equal(t, dates[j], slot.Date)
			require.False(t, d.IsPast(slot.Date))
			require.True(t, slot.End.After(slot.Start))
			require.False(t, slot.Deadline.After(slot.Start))
		}
	}
}

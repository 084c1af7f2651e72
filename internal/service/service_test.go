package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Freeeeeet/lessonmarket/internal/catalog"
	"github.com/Freeeeeet/lessonmarket/internal/model"
	"github.com/Freeeeeet/lessonmarket/internal/schedule"
)

type testEnv struct {
	store    *memStore
	cache    *memCache
	metrics  *countingMetrics
	now      time.Time
	users    *UserService
	catalog  *CatalogService
	lessons  *LessonService
	schedule *ScheduleService
	bookings *BookingService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	env := &testEnv{
		store:   newMemStore(),
		cache:   &memCache{},
		metrics: &countingMetrics{},
		now:     time.Date(2025, 6, 1, 9, 0, 0, 0, jst),
	}
	logger := zap.NewNop()
	now := func() time.Time { return env.now }
	repos := env.store.repos()

	env.users = NewUserService(memUsers{env.store}, logger)
	env.catalog = NewCatalogService(repos.Lessons, env.cache, time.Minute, catalog.NewEngine(jst, now), env.metrics, logger)
	env.lessons = NewLessonService(env.store, repos.Lessons, env.catalog, now, logger)
	env.schedule = NewScheduleService(env.store, repos.Lessons, repos.Slots, env.catalog, env.metrics, jst, now, logger)
	env.bookings = NewBookingService(env.store, repos.Lessons, repos.Bookings, env.catalog, env.metrics, now, logger)
	return env
}

func (e *testEnv) instructor(t *testing.T) *model.User {
	t.Helper()
	u, err := e.users.RegisterUser(context.Background(), 100, "sensei", "Aiko", "Tanaka", "ja")
	require.NoError(t, err)
	u, err = e.users.BecomeInstructor(context.Background(), 100)
	require.NoError(t, err)
	return u
}

func (e *testEnv) publishedLesson(instructorID int64, slots ...model.BookingSlot) *model.Lesson {
	return e.store.addLesson(model.Lesson{
		InstructorID: instructorID,
		Title:        "Piano",
		Category:     "music",
		LocationType: model.FormatOnline,
		LessonType:   model.PricingOneTime,
		Price:        3000,
		Duration:     60,
		Capacity:     4,
		Status:       model.StatusPublished,
		Slots:        slots,
	})
}

func openSlot(start time.Time, capacity int) model.BookingSlot {
	return model.BookingSlot{
		DateTimeStart:   start,
		DateTimeEnd:     start.Add(time.Hour),
		BookingDeadline: start.Add(-24 * time.Hour),
		Capacity:        capacity,
		Price:           3000,
		Status:          model.StatusPublished,
	}
}

func firstSlotID(t *testing.T, l *model.Lesson, store *memStore) int64 {
	t.Helper()
	for id, s := range store.slots {
		if s.LessonID == l.ID {
			return id
		}
	}
	t.Fatal("lesson has no slots")
	return 0
}

func TestUserService_RegisterTwiceUpdates(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	first, err := env.users.RegisterUser(ctx, 7, "old", "A", "", "en")
	require.NoError(t, err)

	second, err := env.users.RegisterUser(ctx, 7, "new", "A", "B", "en")
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, "new", second.Username)
	assert.Len(t, env.store.users, 1)
	assert.False(t, second.IsInstructor)
}

func TestUserService_BecomeInstructorUnknownUser(t *testing.T) {
	env := newTestEnv(t)
	_, err := env.users.BecomeInstructor(context.Background(), 404)
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestCatalogService_BrowseUsesCache(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	inst := env.instructor(t)
	env.publishedLesson(inst.ID)
	env.publishedLesson(inst.ID)
	env.store.addLesson(model.Lesson{InstructorID: inst.ID, Title: "Draft", LocationType: model.FormatOnline, LessonType: model.PricingOneTime, Capacity: 1, Status: model.StatusDraft})

	page, err := env.catalog.Browse(ctx, catalog.NewQuery())
	require.NoError(t, err)
	assert.Equal(t, 2, page.TotalItems)
	assert.Equal(t, 1, env.metrics.misses)
	assert.Equal(t, 0, env.metrics.hits)
	assert.Equal(t, 1, env.cache.sets)
	require.Len(t, page.Categories, 1)
	assert.Equal(t, "music", page.Categories[0].Name)
	assert.Equal(t, 2, page.Categories[0].Count)
	assert.Empty(t, page.Areas)

	page, err = env.catalog.Browse(ctx, catalog.NewQuery().WithKeyword("piano"))
	require.NoError(t, err)
	assert.Equal(t, 2, page.TotalItems)
	assert.Equal(t, 1, env.metrics.hits)
	assert.Equal(t, 1, env.cache.sets)
}

func TestCatalogService_CacheErrorFallsBackToDatabase(t *testing.T) {
	env := newTestEnv(t)
	env.cache.failGet = true
	env.publishedLesson(env.instructor(t).ID)

	page, err := env.catalog.Browse(context.Background(), catalog.NewQuery())
	require.NoError(t, err)
	assert.Equal(t, 1, page.TotalItems)
}

func TestCatalogService_SkipsInvalidRecords(t *testing.T) {
	env := newTestEnv(t)
	inst := env.instructor(t)
	env.publishedLesson(inst.ID)
	bad := env.publishedLesson(inst.ID)
	bad.LocationType = "teleport"

	page, err := env.catalog.Browse(context.Background(), catalog.NewQuery())
	require.NoError(t, err)
	assert.Equal(t, 1, page.TotalItems)
}

func TestCatalogService_LessonDetail(t *testing.T) {
	env := newTestEnv(t)
	inst := env.instructor(t)
	lesson := env.publishedLesson(inst.ID,
		openSlot(env.now.Add(72*time.Hour), 4),
		openSlot(env.now.Add(-2*time.Hour), 4),
	)

	got, upcoming, err := env.catalog.LessonDetail(context.Background(), lesson.ID)
	require.NoError(t, err)
	assert.Equal(t, lesson.ID, got.ID)
	require.Len(t, upcoming, 1)
	assert.Equal(t, jst, upcoming[0].DateTimeStart.Location())

	_, _, err = env.catalog.LessonDetail(context.Background(), 999)
	assert.ErrorIs(t, err, ErrLessonNotFound)
}

func TestLessonService_CreateLessonValidates(t *testing.T) {
	env := newTestEnv(t)
	inst := env.instructor(t)

	_, err := env.lessons.CreateLesson(context.Background(), inst, LessonInput{
		Title:        "Pottery",
		Category:     "art",
		LocationType: model.FormatInPerson,
		LessonType:   model.PricingCourse,
		Price:        8000,
		Duration:     90,
		Capacity:     6,
	})
	assert.ErrorIs(t, err, ErrInvalidLesson, "in person lesson needs an area")

	lesson, err := env.lessons.CreateLesson(context.Background(), inst, LessonInput{
		Title:         "Pottery",
		Category:      "art",
		LocationType:  model.FormatInPerson,
		LessonType:    model.PricingCourse,
		Price:         8000,
		Duration:      90,
		Capacity:      6,
		ClassroomArea: "Shibuya",
	})
	require.NoError(t, err)
	assert.Equal(t, model.StatusDraft, lesson.Status)

	learner := &model.User{ID: 55}
	_, err = env.lessons.CreateLesson(context.Background(), learner, LessonInput{})
	assert.ErrorIs(t, err, ErrNotInstructor)
}

func TestLessonService_ChangeStatus(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	inst := env.instructor(t)
	lesson := env.publishedLesson(inst.ID, openSlot(env.now.Add(72*time.Hour), 4))
	slotID := firstSlotID(t, lesson, env.store)

	booking, err := env.bookings.BookSlot(ctx, 9, slotID)
	require.NoError(t, err)

	_, err = env.lessons.ChangeStatus(ctx, inst.ID+1, lesson.ID, model.StatusCancelled)
	assert.ErrorIs(t, err, ErrNotLessonOwner)

	_, err = env.lessons.ChangeStatus(ctx, inst.ID, lesson.ID, model.StatusDraft)
	assert.ErrorIs(t, err, ErrInvalidTransition)

	updated, err := env.lessons.ChangeStatus(ctx, inst.ID, lesson.ID, model.StatusCancelled)
	require.NoError(t, err)
	assert.Equal(t, model.StatusCancelled, updated.Status)
	assert.Equal(t, model.StatusCancelled, env.store.slots[slotID].Status)
	assert.Equal(t, model.BookingStatusCancelled, env.store.bookings[booking.ID].Status)

	_, err = env.lessons.ChangeStatus(ctx, inst.ID, lesson.ID, model.StatusPublished)
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestLessonService_UpdateCapacity(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	inst := env.instructor(t)

	past := openSlot(env.now.Add(-72*time.Hour), 4)
	past.Status = model.StatusCompleted
	past.CurrentParticipantsCount = 4
	lesson := env.publishedLesson(inst.ID,
		openSlot(env.now.Add(48*time.Hour), 4),
		openSlot(env.now.Add(96*time.Hour), 4),
		past,
	)
	env.store.lessons[lesson.ID].CurrentParticipantsCount = 8

	var open []int64
	var completed int64
	for id, slot := range env.store.slots {
		if slot.Status.IsTerminal() {
			completed = id
			continue
		}
		slot.CurrentParticipantsCount = 2
		open = append(open, id)
	}
	require.Len(t, open, 2)

	// сумма записанных по занятию больше, но каждый открытый слот вмещает троих
	updated, err := env.lessons.UpdateCapacity(ctx, inst.ID, lesson.ID, 3)
	require.NoError(t, err)
	assert.Equal(t, 3, updated.Capacity)
	assert.Equal(t, 3, env.store.lessons[lesson.ID].Capacity)
	for _, id := range open {
		assert.Equal(t, 3, env.store.slots[id].Capacity)
	}
	assert.Equal(t, 4, env.store.slots[completed].Capacity)

	_, err = env.lessons.UpdateCapacity(ctx, inst.ID, lesson.ID, 1)
	assert.ErrorIs(t, err, ErrCapacityBelowParticipants)
	assert.Equal(t, 3, env.store.lessons[lesson.ID].Capacity)

	_, err = env.lessons.UpdateCapacity(ctx, inst.ID, lesson.ID, 0)
	assert.ErrorIs(t, err, ErrInvalidLesson)

	_, err = env.lessons.UpdateCapacity(ctx, 999, lesson.ID, 5)
	assert.ErrorIs(t, err, ErrNotLessonOwner)
}

func TestLessonService_UpdateCapacityRollsBackOnConcurrentBooking(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	inst := env.instructor(t)
	lesson := env.publishedLesson(inst.ID, openSlot(env.now.Add(48*time.Hour), 4))
	slotID := firstSlotID(t, lesson, env.store)
	env.store.slots[slotID].CurrentParticipantsCount = 1

	// после чтения занятия в слот успели записаться ещё двое
	lessons := memLessons{env.store}
	tx := txFunc(func(ctx context.Context, fn func(ctx context.Context, repos Repos) error) error {
		return env.store.InTx(ctx, func(ctx context.Context, repos Repos) error {
			repos.Lessons = lessonsThen{LessonRepository: lessons, after: func() {
				env.store.slots[slotID].CurrentParticipantsCount = 3
			}}
			return fn(ctx, repos)
		})
	})
	svc := NewLessonService(tx, lessons, env.catalog, func() time.Time { return env.now }, zap.NewNop())

	_, err := svc.UpdateCapacity(ctx, inst.ID, lesson.ID, 2)
	assert.ErrorIs(t, err, ErrCapacityBelowParticipants)
	assert.Equal(t, 4, env.store.lessons[lesson.ID].Capacity)
	assert.Equal(t, 4, env.store.slots[slotID].Capacity)
}

func TestLessonService_Reconcile(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	inst := env.instructor(t)
	lesson := env.publishedLesson(inst.ID, openSlot(env.now.Add(48*time.Hour), 4))
	slotID := firstSlotID(t, lesson, env.store)

	booking, err := env.bookings.BookSlot(ctx, 9, slotID)
	require.NoError(t, err)

	result, err := env.lessons.Reconcile(ctx)
	require.NoError(t, err)
	assert.True(t, result.Empty())

	env.now = env.now.Add(72 * time.Hour)
	result, err = env.lessons.Reconcile(ctx)
	require.NoError(t, err)
	assert.Len(t, result.Slots, 1)
	assert.Len(t, result.Lessons, 1)

	assert.Equal(t, model.StatusCompleted, env.store.slots[slotID].Status)
	assert.Equal(t, model.StatusCompleted, env.store.lessons[lesson.ID].Status)
	assert.Equal(t, model.BookingStatusCompleted, env.store.bookings[booking.ID].Status)
}

func TestScheduleService_NewDraftDefaults(t *testing.T) {
	env := newTestEnv(t)
	inst := env.instructor(t)
	lesson := env.publishedLesson(inst.ID)

	draft, err := env.schedule.NewDraft(context.Background(), inst.ID, lesson.ID)
	require.NoError(t, err)

	tpl := draft.Template()
	assert.Equal(t, schedule.MustClock("10:00"), tpl.Start)
	assert.Equal(t, 60, tpl.DurationMinutes)
	assert.Equal(t, 4, tpl.Capacity)
	assert.Equal(t, 3000, tpl.Price)
	assert.Equal(t, 1, tpl.DeadlineDays)
	assert.Equal(t, schedule.MustClock("18:00"), tpl.DeadlineTime)
	assert.Equal(t, jst, draft.Location())

	_, err = env.schedule.NewDraft(context.Background(), inst.ID+1, lesson.ID)
	assert.ErrorIs(t, err, ErrNotLessonOwner)
}

func TestScheduleService_UpdateTemplateRejectsInvalid(t *testing.T) {
	env := newTestEnv(t)
	inst := env.instructor(t)
	lesson := env.publishedLesson(inst.ID)
	draft, err := env.schedule.NewDraft(context.Background(), inst.ID, lesson.ID)
	require.NoError(t, err)

	bad := draft.Template()
	bad.DurationMinutes = 0
	err = env.schedule.UpdateTemplate(draft, bad)
	assert.ErrorIs(t, err, ErrInvalidTemplate)
	assert.Equal(t, 60, draft.Template().DurationMinutes)

	bad = draft.Template()
	bad.Start = schedule.Clock{Hour: 25}
	assert.ErrorIs(t, ValidateTemplate(bad), ErrInvalidTemplate)

	good := draft.Template()
	good.DurationMinutes = 90
	require.NoError(t, env.schedule.UpdateTemplate(draft, good))
	assert.Equal(t, 90, draft.Template().DurationMinutes)
}

func TestScheduleService_CommitPublishesDraftLesson(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	inst := env.instructor(t)
	lesson := env.store.addLesson(model.Lesson{
		InstructorID: inst.ID,
		Title:        "Yoga",
		LocationType: model.FormatOnline,
		LessonType:   model.PricingMonthly,
		Price:        8000,
		Duration:     45,
		Capacity:     10,
		Status:       model.StatusDraft,
	})

	draft, err := env.schedule.NewDraft(ctx, inst.ID, lesson.ID)
	require.NoError(t, err)

	_, err = env.schedule.Commit(ctx, inst.ID, lesson.ID, uuid.New(), draft)
	assert.ErrorIs(t, err, ErrNothingToCommit)

	draft.ToggleDate(schedule.Date{Year: 2025, Month: time.June, Day: 10})
	draft.ToggleDate(schedule.Date{Year: 2025, Month: time.June, Day: 3})

	n, err := env.schedule.Commit(ctx, inst.ID, lesson.ID, uuid.New(), draft)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Equal(t, 0, draft.Len())
	assert.Equal(t, model.StatusPublished, env.store.lessons[lesson.ID].Status)
	assert.Equal(t, 2, env.metrics.committed)
	assert.Equal(t, 1, env.cache.invalidated)

	stored, err := memLessons{env.store}.GetByID(ctx, lesson.ID)
	require.NoError(t, err)
	require.Len(t, stored.Slots, 2)
	first := stored.Slots[0]
	assert.Equal(t, time.Date(2025, 6, 3, 10, 0, 0, 0, jst), first.DateTimeStart)
	assert.Equal(t, time.Date(2025, 6, 3, 10, 45, 0, 0, jst), first.DateTimeEnd)
	assert.Equal(t, time.Date(2025, 6, 2, 18, 0, 0, 0, jst), first.BookingDeadline)
	assert.Equal(t, 0, first.CurrentParticipantsCount)
	assert.Equal(t, model.StatusPublished, first.Status)
}

func TestScheduleService_CommitSkipsExistingStarts(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	inst := env.instructor(t)
	lesson := env.publishedLesson(inst.ID, openSlot(time.Date(2025, 6, 10, 10, 0, 0, 0, jst), 4))

	draft, err := env.schedule.NewDraft(ctx, inst.ID, lesson.ID)
	require.NoError(t, err)
	draft.ToggleDate(schedule.Date{Year: 2025, Month: time.June, Day: 10})

	_, err = env.schedule.Commit(ctx, inst.ID, lesson.ID, uuid.New(), draft)
	assert.ErrorIs(t, err, ErrNothingToCommit)
	assert.Equal(t, 1, draft.Len(), "draft kept on failure")

	draft.ToggleDate(schedule.Date{Year: 2025, Month: time.June, Day: 11})
	n, err := env.schedule.Commit(ctx, inst.ID, lesson.ID, uuid.New(), draft)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestScheduleService_CommitRollsBackOnFailure(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	inst := env.instructor(t)
	lesson := env.publishedLesson(inst.ID)
	env.store.failCreateBatch = true

	draft, err := env.schedule.NewDraft(ctx, inst.ID, lesson.ID)
	require.NoError(t, err)
	draft.ToggleWeekday(time.Sunday, time.June, 2025)

	_, err = env.schedule.Commit(ctx, inst.ID, lesson.ID, uuid.New(), draft)
	require.Error(t, err)
	assert.Empty(t, env.store.slots)
	assert.Equal(t, 5, draft.Len())
}

func TestScheduleService_CommitRejectsInvalidSlot(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	inst := env.instructor(t)
	lesson := env.publishedLesson(inst.ID)

	draft, err := env.schedule.NewDraft(ctx, inst.ID, lesson.ID)
	require.NoError(t, err)

	zero := 0
	date := schedule.Date{Year: 2025, Month: time.June, Day: 10}
	draft.EditSlot(date, schedule.SlotOverrides{Capacity: &zero})

	_, err = env.schedule.Commit(ctx, inst.ID, lesson.ID, uuid.New(), draft)
	assert.ErrorIs(t, err, ErrInvalidTemplate)
	assert.Empty(t, env.store.slots)
}

func TestBookingService_BookSlot(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	inst := env.instructor(t)
	lesson := env.publishedLesson(inst.ID, openSlot(env.now.Add(72*time.Hour), 1))
	slotID := firstSlotID(t, lesson, env.store)

	booking, err := env.bookings.BookSlot(ctx, 9, slotID)
	require.NoError(t, err)
	assert.Equal(t, model.BookingStatusConfirmed, booking.Status)
	assert.Equal(t, model.PaymentStatusUnpaid, booking.PaymentStatus)
	assert.Equal(t, lesson.ID, booking.LessonID)
	assert.Equal(t, 1, env.store.slots[slotID].CurrentParticipantsCount)
	assert.Equal(t, 1, env.store.lessons[lesson.ID].CurrentParticipantsCount)
	assert.Equal(t, 1, env.metrics.booked)

	_, err = env.bookings.BookSlot(ctx, 9, slotID)
	assert.ErrorIs(t, err, ErrSlotFull)

	_, err = env.bookings.BookSlot(ctx, 10, 12345)
	assert.ErrorIs(t, err, ErrSlotNotFound)
}

func TestBookingService_BookSlotRejections(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	inst := env.instructor(t)

	closing := openSlot(env.now.Add(12*time.Hour), 4)
	past := openSlot(env.now.Add(-time.Hour), 4)
	draftSlot := openSlot(env.now.Add(72*time.Hour), 4)
	draftSlot.Status = model.StatusDraft

	env.publishedLesson(inst.ID, closing, past, draftSlot)

	byStart := func(start time.Time) int64 {
		for id, s := range env.store.slots {
			if s.DateTimeStart.Equal(start) {
				return id
			}
		}
		t.Fatal("slot not found")
		return 0
	}

	_, err := env.bookings.BookSlot(ctx, 9, byStart(closing.DateTimeStart))
	assert.ErrorIs(t, err, ErrBookingClosed)

	_, err = env.bookings.BookSlot(ctx, 9, byStart(past.DateTimeStart))
	assert.ErrorIs(t, err, ErrSlotUnavailable)

	_, err = env.bookings.BookSlot(ctx, 9, byStart(draftSlot.DateTimeStart))
	assert.ErrorIs(t, err, ErrSlotUnavailable)

	assert.Empty(t, env.store.bookings)
}

func TestBookingService_NoDoubleBooking(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	inst := env.instructor(t)
	lesson := env.publishedLesson(inst.ID, openSlot(env.now.Add(72*time.Hour), 4))
	slotID := firstSlotID(t, lesson, env.store)

	_, err := env.bookings.BookSlot(ctx, 9, slotID)
	require.NoError(t, err)

	_, err = env.bookings.BookSlot(ctx, 9, slotID)
	assert.ErrorIs(t, err, ErrAlreadyBooked)
	assert.Equal(t, 1, env.store.slots[slotID].CurrentParticipantsCount)
}

func TestBookingService_CancelAndPay(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	inst := env.instructor(t)
	lesson := env.publishedLesson(inst.ID, openSlot(env.now.Add(72*time.Hour), 4))
	slotID := firstSlotID(t, lesson, env.store)

	booking, err := env.bookings.BookSlot(ctx, 9, slotID)
	require.NoError(t, err)

	assert.ErrorIs(t, env.bookings.MarkPaid(ctx, booking.ID, 9), ErrNotLessonOwner)
	require.NoError(t, env.bookings.MarkPaid(ctx, booking.ID, inst.ID))
	assert.Equal(t, model.PaymentStatusPaid, env.store.bookings[booking.ID].PaymentStatus)

	assert.ErrorIs(t, env.bookings.CancelBooking(ctx, booking.ID, 77), ErrNoPermission)
	require.NoError(t, env.bookings.CancelBooking(ctx, booking.ID, 9))
	assert.Equal(t, model.BookingStatusCancelled, env.store.bookings[booking.ID].Status)
	assert.Equal(t, 0, env.store.slots[slotID].CurrentParticipantsCount)
	assert.Equal(t, 0, env.store.lessons[lesson.ID].CurrentParticipantsCount)

	assert.ErrorIs(t, env.bookings.CancelBooking(ctx, booking.ID, 9), ErrBookingNotActive)
	assert.ErrorIs(t, env.bookings.CancelBooking(ctx, 999, 9), ErrBookingNotFound)

	bookings, err := env.bookings.GetLearnerBookings(ctx, 9)
	require.NoError(t, err)
	require.Len(t, bookings, 1)
	assert.NotNil(t, bookings[0].Slot)
}

func TestBookingService_CancelBookingCancelledConcurrently(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	inst := env.instructor(t)
	lesson := env.publishedLesson(inst.ID, openSlot(env.now.Add(72*time.Hour), 4))
	slotID := firstSlotID(t, lesson, env.store)

	booking, err := env.bookings.BookSlot(ctx, 9, slotID)
	require.NoError(t, err)

	// инструктор отменил запись между проверкой и транзакцией ученика
	env.store.beforeTx = func() {
		env.store.bookings[booking.ID].Status = model.BookingStatusCancelled
	}

	assert.ErrorIs(t, env.bookings.CancelBooking(ctx, booking.ID, 9), ErrBookingNotActive)
	assert.Equal(t, 1, env.store.slots[slotID].CurrentParticipantsCount)
	assert.Equal(t, 1, env.store.lessons[lesson.ID].CurrentParticipantsCount)
}

func TestBookingService_BookSlotCountsSeatsPerSlot(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	inst := env.instructor(t)
	lesson := env.publishedLesson(inst.ID, openSlot(env.now.Add(72*time.Hour), 4))
	slotID := firstSlotID(t, lesson, env.store)
	// все места заняты в других слотах
	env.store.lessons[lesson.ID].CurrentParticipantsCount = 4

	_, err := env.bookings.BookSlot(ctx, 9, slotID)
	require.NoError(t, err)
	assert.Equal(t, 1, env.store.slots[slotID].CurrentParticipantsCount)
	assert.Equal(t, 5, env.store.lessons[lesson.ID].CurrentParticipantsCount)
}

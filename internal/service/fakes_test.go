package service

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/Freeeeeet/lessonmarket/internal/model"
	"github.com/Freeeeeet/lessonmarket/internal/repository"
)

var jst = time.FixedZone("JST", 9*60*60)

func fixedNow(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

// memStore общее in-memory хранилище для фейковых репозиториев
type memStore struct {
	nextID   int64
	users    map[int64]*model.User
	lessons  map[int64]*model.Lesson
	slots    map[int64]*model.BookingSlot
	bookings map[int64]*model.Booking

	failCreateBatch bool
	// beforeTx вызывается перед каждой транзакцией, имитируя конкурентную запись
	beforeTx func()
}

func newMemStore() *memStore {
	return &memStore{
		users:    make(map[int64]*model.User),
		lessons:  make(map[int64]*model.Lesson),
		slots:    make(map[int64]*model.BookingSlot),
		bookings: make(map[int64]*model.Booking),
	}
}

func (m *memStore) id() int64 {
	m.nextID++
	return m.nextID
}

func (m *memStore) addLesson(l model.Lesson) *model.Lesson {
	if l.ID == 0 {
		l.ID = m.id()
	}
	slots := l.Slots
	l.Slots = nil
	stored := l
	m.lessons[l.ID] = &stored
	for _, s := range slots {
		s.LessonID = l.ID
		m.addSlot(s)
	}
	return &stored
}

func (m *memStore) addSlot(s model.BookingSlot) *model.BookingSlot {
	if s.ID == 0 {
		s.ID = m.id()
	}
	stored := s
	m.slots[s.ID] = &stored
	return &stored
}

func (m *memStore) lessonWithSlots(l *model.Lesson) model.Lesson {
	out := *l
	out.Slots = nil
	for _, s := range m.slots {
		if s.LessonID == l.ID {
			out.Slots = append(out.Slots, *s)
		}
	}
	sort.Slice(out.Slots, func(i, j int) bool { return out.Slots[i].DateTimeStart.Before(out.Slots[j].DateTimeStart) })
	return out
}

func (m *memStore) snapshot() func() {
	lessons := make(map[int64]model.Lesson, len(m.lessons))
	for k, v := range m.lessons {
		lessons[k] = *v
	}
	slots := make(map[int64]model.BookingSlot, len(m.slots))
	for k, v := range m.slots {
		slots[k] = *v
	}
	bookings := make(map[int64]model.Booking, len(m.bookings))
	for k, v := range m.bookings {
		bookings[k] = *v
	}
	return func() {
		m.lessons = make(map[int64]*model.Lesson, len(lessons))
		for k, v := range lessons {
			v := v
			m.lessons[k] = &v
		}
		m.slots = make(map[int64]*model.BookingSlot, len(slots))
		for k, v := range slots {
			v := v
			m.slots[k] = &v
		}
		m.bookings = make(map[int64]*model.Booking, len(bookings))
		for k, v := range bookings {
			v := v
			m.bookings[k] = &v
		}
	}
}

func (m *memStore) repos() Repos {
	return Repos{Lessons: memLessons{m}, Slots: memSlots{m}, Bookings: memBookings{m}}
}

// InTx откатывает изменения, если fn вернула ошибку
func (m *memStore) InTx(ctx context.Context, fn func(ctx context.Context, repos Repos) error) error {
	if m.beforeTx != nil {
		m.beforeTx()
	}
	restore := m.snapshot()
	if err := fn(ctx, m.repos()); err != nil {
		restore()
		return err
	}
	return nil
}

type memUsers struct{ m *memStore }

func (r memUsers) Create(_ context.Context, user *model.User) error {
	user.ID = r.m.id()
	stored := *user
	r.m.users[user.ID] = &stored
	return nil
}

func (r memUsers) GetByTelegramID(_ context.Context, telegramID int64) (*model.User, error) {
	for _, u := range r.m.users {
		if u.TelegramID == telegramID {
			out := *u
			return &out, nil
		}
	}
	return nil, nil
}

func (r memUsers) GetByID(_ context.Context, id int64) (*model.User, error) {
	u, ok := r.m.users[id]
	if !ok {
		return nil, nil
	}
	out := *u
	return &out, nil
}

func (r memUsers) Update(_ context.Context, user *model.User) error {
	if _, ok := r.m.users[user.ID]; !ok {
		return errors.New("user not found")
	}
	stored := *user
	r.m.users[user.ID] = &stored
	return nil
}

func (r memUsers) SetInstructor(_ context.Context, userID int64, isInstructor bool) error {
	u, ok := r.m.users[userID]
	if !ok {
		return errors.New("user not found")
	}
	u.IsInstructor = isInstructor
	return nil
}

type memLessons struct{ m *memStore }

func (r memLessons) Create(_ context.Context, lesson *model.Lesson) error {
	lesson.ID = r.m.id()
	r.m.addLesson(*lesson)
	return nil
}

func (r memLessons) GetByID(_ context.Context, id int64) (*model.Lesson, error) {
	l, ok := r.m.lessons[id]
	if !ok {
		return nil, nil
	}
	out := r.m.lessonWithSlots(l)
	return &out, nil
}

func (r memLessons) ListPublished(_ context.Context) ([]model.Lesson, error) {
	var out []model.Lesson
	for _, l := range r.m.lessons {
		if l.Status == model.StatusPublished {
			out = append(out, r.m.lessonWithSlots(l))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r memLessons) ListByInstructor(_ context.Context, instructorID int64) ([]model.Lesson, error) {
	var out []model.Lesson
	for _, l := range r.m.lessons {
		if l.InstructorID == instructorID {
			out = append(out, r.m.lessonWithSlots(l))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

func (r memLessons) UpdateStatus(_ context.Context, id int64, status model.Status) error {
	l, ok := r.m.lessons[id]
	if !ok {
		return errors.New("lesson not found")
	}
	l.Status = status
	return nil
}

func (r memLessons) UpdateCapacity(_ context.Context, id int64, capacity int) error {
	l, ok := r.m.lessons[id]
	if !ok {
		return errors.New("lesson not found")
	}
	l.Capacity = capacity
	return nil
}

func (r memLessons) AddParticipants(_ context.Context, id int64, delta int) error {
	l, ok := r.m.lessons[id]
	if !ok {
		return errors.New("lesson not found")
	}
	l.CurrentParticipantsCount += delta
	if l.CurrentParticipantsCount < 0 {
		l.CurrentParticipantsCount = 0
	}
	return nil
}

type memSlots struct{ m *memStore }

func (r memSlots) CreateBatch(_ context.Context, records []model.SlotWriteRecord) ([]int64, error) {
	ids := make([]int64, 0, len(records))
	for i, rec := range records {
		if r.m.failCreateBatch && i == len(records)-1 {
			return nil, errors.New("insert failed")
		}
		discount := rec.DiscountPercentage
		s := r.m.addSlot(model.BookingSlot{
			LessonID:                 rec.LessonID,
			DateTimeStart:            rec.DateTimeStart,
			DateTimeEnd:              rec.DateTimeEnd,
			BookingDeadline:          rec.BookingDeadline,
			Capacity:                 rec.Capacity,
			CurrentParticipantsCount: rec.CurrentParticipantsCount,
			Price:                    rec.Price,
			DiscountPercentage:       &discount,
			Status:                   rec.Status,
			Notes:                    rec.Notes,
			VenueDetails:             rec.VenueDetails,
		})
		ids = append(ids, s.ID)
	}
	return ids, nil
}

func (r memSlots) GetByID(_ context.Context, id int64) (*model.BookingSlot, error) {
	s, ok := r.m.slots[id]
	if !ok {
		return nil, nil
	}
	out := *s
	return &out, nil
}

func (r memSlots) GetByIDForUpdate(ctx context.Context, id int64) (*model.BookingSlot, error) {
	return r.GetByID(ctx, id)
}

func (r memSlots) StartTimes(_ context.Context, lessonID int64) ([]time.Time, error) {
	var out []time.Time
	for _, s := range r.m.slots {
		if s.LessonID == lessonID && s.Status != model.StatusCancelled {
			out = append(out, s.DateTimeStart)
		}
	}
	return out, nil
}

func (r memSlots) UpdateStatus(_ context.Context, slotID int64, status model.Status) error {
	s, ok := r.m.slots[slotID]
	if !ok {
		return errors.New("slot not found")
	}
	s.Status = status
	return nil
}

func (r memSlots) UpdateOpenCapacity(_ context.Context, lessonID int64, capacity int) (int64, error) {
	var n int64
	for _, s := range r.m.slots {
		if s.LessonID == lessonID && !s.Status.IsTerminal() && s.CurrentParticipantsCount <= capacity {
			s.Capacity = capacity
			n++
		}
	}
	return n, nil
}

func (r memSlots) AddParticipants(_ context.Context, slotID int64, delta int) error {
	s, ok := r.m.slots[slotID]
	if !ok {
		return errors.New("slot not found")
	}
	next := s.CurrentParticipantsCount + delta
	if next < 0 || next > s.Capacity {
		return errors.New("slot not found or capacity exceeded")
	}
	s.CurrentParticipantsCount = next
	return nil
}

type memBookings struct{ m *memStore }

func (r memBookings) Create(_ context.Context, booking *model.Booking) error {
	booking.ID = r.m.id()
	stored := *booking
	r.m.bookings[booking.ID] = &stored
	return nil
}

func (r memBookings) GetByID(_ context.Context, id int64) (*model.Booking, error) {
	b, ok := r.m.bookings[id]
	if !ok {
		return nil, nil
	}
	out := *b
	return &out, nil
}

func (r memBookings) GetActive(_ context.Context, learnerID, slotID int64) (*model.Booking, error) {
	for _, b := range r.m.bookings {
		if b.LearnerID == learnerID && b.SlotID == slotID && b.IsActive() {
			out := *b
			return &out, nil
		}
	}
	return nil, nil
}

func (r memBookings) GetByLearnerID(_ context.Context, learnerID int64) ([]*model.Booking, error) {
	var out []*model.Booking
	for _, b := range r.m.bookings {
		if b.LearnerID == learnerID {
			copied := *b
			if s, ok := r.m.slots[b.SlotID]; ok {
				slot := *s
				copied.Slot = &slot
			}
			out = append(out, &copied)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r memBookings) CancelActive(_ context.Context, id int64) (bool, error) {
	b, ok := r.m.bookings[id]
	if !ok || !b.IsActive() {
		return false, nil
	}
	b.Status = model.BookingStatusCancelled
	return true, nil
}

func (r memBookings) UpdatePaymentStatus(_ context.Context, id int64, status model.PaymentStatus) error {
	b, ok := r.m.bookings[id]
	if !ok {
		return errors.New("booking not found")
	}
	b.PaymentStatus = status
	return nil
}

func (r memBookings) setBySlot(slotID int64, status model.BookingStatus) int64 {
	var n int64
	for _, b := range r.m.bookings {
		if b.SlotID == slotID && b.IsActive() {
			b.Status = status
			n++
		}
	}
	return n
}

func (r memBookings) CompleteBySlot(_ context.Context, slotID int64) (int64, error) {
	return r.setBySlot(slotID, model.BookingStatusCompleted), nil
}

func (r memBookings) CancelBySlot(_ context.Context, slotID int64) (int64, error) {
	return r.setBySlot(slotID, model.BookingStatusCancelled), nil
}

// memCache кеш в памяти с учётом обращений
type memCache struct {
	lessons     []model.Lesson
	stored      bool
	sets        int
	invalidated int
	failGet     bool
}

func (c *memCache) GetPublished(context.Context) ([]model.Lesson, error) {
	if c.failGet {
		return nil, errors.New("connection refused")
	}
	if !c.stored {
		return nil, repository.ErrCacheMiss
	}
	out := make([]model.Lesson, len(c.lessons))
	copy(out, c.lessons)
	return out, nil
}

func (c *memCache) SetPublished(_ context.Context, lessons []model.Lesson, _ time.Duration) error {
	c.lessons = lessons
	c.stored = true
	c.sets++
	return nil
}

func (c *memCache) Invalidate(context.Context) error {
	c.lessons = nil
	c.stored = false
	c.invalidated++
	return nil
}

// countingMetrics считает вызовы
type countingMetrics struct {
	NopMetrics
	hits, misses, committed, booked, cancelled int
}

func (c *countingMetrics) CacheHit()            { c.hits++ }
func (c *countingMetrics) CacheMiss()           { c.misses++ }
func (c *countingMetrics) SlotsCommitted(n int) { c.committed += n }
func (c *countingMetrics) BookingCreated()      { c.booked++ }
func (c *countingMetrics) BookingCancelled()    { c.cancelled++ }

type txFunc func(ctx context.Context, fn func(ctx context.Context, repos Repos) error) error

func (f txFunc) InTx(ctx context.Context, fn func(ctx context.Context, repos Repos) error) error {
	return f(ctx, fn)
}

// lessonsThen вызывает after сразу после чтения занятия
type lessonsThen struct {
	LessonRepository
	after func()
}

func (r lessonsThen) GetByID(ctx context.Context, id int64) (*model.Lesson, error) {
	lesson, err := r.LessonRepository.GetByID(ctx, id)
	r.after()
	return lesson, err
}

package schedule

import "time"

// Template общие настройки расписания, применяемые к выбранным датам
type Template struct {
	Start              Clock  `json:"start"`
	DurationMinutes    int    `json:"duration_minutes" validate:"gte=5,lte=720"`
	Capacity           int    `json:"capacity" validate:"gte=1,lte=1000"`
	Price              int    `json:"price" validate:"gte=0"`
	DiscountPercentage int    `json:"discount_percentage" validate:"gte=0,lte=100"`
	DeadlineDays       int    `json:"deadline_days" validate:"gte=0,lte=60"`
	DeadlineTime       Clock  `json:"deadline_time"`
	Notes              string `json:"notes" validate:"max=1000"`
	VenueDetails       string `json:"venue_details" validate:"max=500"`
}

// Slot ожидающий сохранения слот на конкретную дату
type Slot struct {
	Date               Date
	StartClock         Clock
	DurationMinutes    int
	Capacity           int
	Price              int
	DiscountPercentage int
	DeadlineDays       int
	DeadlineTime       Clock
	Notes              string
	VenueDetails       string

	// Вычисляемые поля, в зоне черновика
	Start    time.Time
	End      time.Time
	Deadline time.Time
}

// SlotOverrides частичные изменения одного слота
type SlotOverrides struct {
	Start              *Clock
	DurationMinutes    *int
	Capacity           *int
	Price              *int
	DiscountPercentage *int
	DeadlineDays       *int
	DeadlineTime       *Clock
	Notes              *string
	VenueDetails       *string
}

func slotFromTemplate(d Date, t Template, loc *time.Location) *Slot {
	s := &Slot{Date: d}
	s.applyTemplate(t)
	s.recompute(loc)
	return s
}

// applyTemplate переписывает все поля, кроме даты
func (s *Slot) applyTemplate(t Template) {
	s.StartClock = t.Start
	s.DurationMinutes = t.DurationMinutes
	s.Capacity = t.Capacity
	s.Price = t.Price
	s.DiscountPercentage = t.DiscountPercentage
	s.DeadlineDays = t.DeadlineDays
	s.DeadlineTime = t.DeadlineTime
	s.Notes = t.Notes
	s.VenueDetails = t.VenueDetails
}

func (s *Slot) merge(o SlotOverrides) {
	if o.Start != nil {
		s.StartClock = *o.Start
	}
	if o.DurationMinutes != nil {
		s.DurationMinutes = *o.DurationMinutes
	}
	if o.Capacity != nil {
		s.Capacity = *o.Capacity
	}
	if o.Price != nil {
		s.Price = *o.Price
	}
	if o.DiscountPercentage != nil {
		s.DiscountPercentage = *o.DiscountPercentage
	}
	if o.DeadlineDays != nil {
		s.DeadlineDays = *o.DeadlineDays
	}
	if o.DeadlineTime != nil {
		s.DeadlineTime = *o.DeadlineTime
	}
	if o.Notes != nil {
		s.Notes = *o.Notes
	}
	if o.VenueDetails != nil {
		s.VenueDetails = *o.VenueDetails
	}
}

func (s *Slot) recompute(loc *time.Location) {
	s.Start = s.Date.At(s.StartClock, loc)
	s.End = ComputeEndTime(s.Start, s.DurationMinutes)
	s.Deadline = ComputeDeadline(s.Start, s.DeadlineDays, s.DeadlineTime)
}

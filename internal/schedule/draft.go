package schedule

import (
	"sort"
	"time"

	"github.com/Freeeeeet/lessonmarket/internal/model"
)

// DefaultLocation зона по умолчанию, если черновику не передали свою
var DefaultLocation = time.FixedZone("JST", 9*60*60)

// Draft набор выбранных дат и слотов одного инструктора.
// Множество выбранных дат - это ключи slots, поэтому дата без слота
// и слот без даты невозможны.
type Draft struct {
	location *time.Location
	now      func() time.Time
	template Template
	slots    map[Date]*Slot
}

// NewDraft создаёт пустой черновик
func NewDraft(template Template, loc *time.Location, now func() time.Time) *Draft {
	if loc == nil {
		loc = DefaultLocation
	}
	if now == nil {
		now = time.Now
	}
	return &Draft{
		location: loc,
		now:      now,
		template: template,
		slots:    make(map[Date]*Slot),
	}
}

// Location зона, в которой считаются все времена черновика
func (d *Draft) Location() *time.Location {
	return d.location
}

// Template текущий шаблон
func (d *Draft) Template() Template {
	return d.template
}

// SetTemplate заменяет шаблон, существующие слоты не меняются
func (d *Draft) SetTemplate(t Template) {
	d.template = t
}

// Today текущая дата в зоне черновика
func (d *Draft) Today() Date {
	return DateOf(d.now(), d.location)
}

// IsPast проверяет, что дата строго раньше сегодняшней
func (d *Draft) IsPast(date Date) bool {
	return date.Before(d.Today())
}

// IsSelected проверяет, выбрана ли дата
func (d *Draft) IsSelected(date Date) bool {
	_, ok := d.slots[date]
	return ok
}

// ToggleDate выбирает или снимает выбор даты. Прошедшие даты игнорируются.
// Возвращает true, если состояние изменилось.
func (d *Draft) ToggleDate(date Date) bool {
	if d.IsPast(date) {
		return false
	}

	if _, ok := d.slots[date]; ok {
		delete(d.slots, date)
		return true
	}

	d.slots[date] = slotFromTemplate(date, d.template, d.location)
	return true
}

// ToggleWeekday раскрывает выбор дня недели на весь месяц.
// Если все подходящие непрошедшие даты уже выбраны - снимает их,
// иначе добавляет недостающие. Возвращает число изменённых дат.
func (d *Draft) ToggleWeekday(weekday time.Weekday, month time.Month, year int) int {
	var candidates []Date
	for _, date := range DaysIn(month, year) {
		if date.Weekday() == weekday && !d.IsPast(date) {
			candidates = append(candidates, date)
		}
	}

	if len(candidates) == 0 {
		return 0
	}

	allSelected := true
	for _, date := range candidates {
		if !d.IsSelected(date) {
			allSelected = false
			break
		}
	}

	changed := 0
	for _, date := range candidates {
		if allSelected {
			delete(d.slots, date)
			changed++
			continue
		}
		if !d.IsSelected(date) {
			d.slots[date] = slotFromTemplate(date, d.template, d.location)
			changed++
		}
	}

	return changed
}

// ApplyTemplateToAll переписывает все слоты из шаблона, оставляя только дату.
// Возвращает false, если применять не к чему.
func (d *Draft) ApplyTemplateToAll() bool {
	if len(d.slots) == 0 {
		return false
	}

	for _, s := range d.slots {
		s.applyTemplate(d.template)
		s.recompute(d.location)
	}
	return true
}

// EditSlot применяет частичные изменения к слоту даты.
// Если слота нет, создаёт его из шаблона (прошедшие даты игнорируются).
func (d *Draft) EditSlot(date Date, overrides SlotOverrides) bool {
	s, ok := d.slots[date]
	if !ok {
		if d.IsPast(date) {
			return false
		}
		s = slotFromTemplate(date, d.template, d.location)
		d.slots[date] = s
	}

	s.merge(overrides)
	s.recompute(d.location)
	return true
}

// RemoveSlot удаляет слот и снимает выбор даты
func (d *Draft) RemoveSlot(date Date) bool {
	if _, ok := d.slots[date]; !ok {
		return false
	}
	delete(d.slots, date)
	return true
}

// Clear снимает выбор всех дат
func (d *Draft) Clear() {
	d.slots = make(map[Date]*Slot)
}

// Len количество выбранных дат
func (d *Draft) Len() int {
	return len(d.slots)
}

// Slot возвращает копию слота даты
func (d *Draft) Slot(date Date) (Slot, bool) {
	s, ok := d.slots[date]
	if !ok {
		return Slot{}, false
	}
	return *s, true
}

// Dates выбранные даты по возрастанию
func (d *Draft) Dates() []Date {
	dates := make([]Date, 0, len(d.slots))
	for date := range d.slots {
		dates = append(dates, date)
	}
	sort.Slice(dates, func(i, j int) bool {
		return dates[i].Before(dates[j])
	})
	return dates
}

// Slots копии слотов по возрастанию даты
func (d *Draft) Slots() []Slot {
	dates := d.Dates()
	slots := make([]Slot, 0, len(dates))
	for _, date := range dates {
		slots = append(slots, *d.slots[date])
	}
	return slots
}

// WriteRecords собирает записи для сохранения, упорядоченные по началу
func (d *Draft) WriteRecords(lessonID int64) []model.SlotWriteRecord {
	slots := d.Slots()
	sort.SliceStable(slots, func(i, j int) bool {
		return slots[i].Start.Before(slots[j].Start)
	})

	records := make([]model.SlotWriteRecord, 0, len(slots))
	for _, s := range slots {
		records = append(records, model.SlotWriteRecord{
			LessonID:                 lessonID,
			DateTimeStart:            s.Start,
			DateTimeEnd:              s.End,
			BookingDeadline:          s.Deadline,
			Capacity:                 s.Capacity,
			CurrentParticipantsCount: 0,
			Price:                    s.Price,
			DiscountPercentage:       s.DiscountPercentage,
			VenueDetails:             s.VenueDetails,
			Notes:                    s.Notes,
			Status:                   model.StatusPublished,
		})
	}
	return records
}

package handlers

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"unicode"

	"github.com/Freeeeeet/lessonmarket/internal/model"
	"github.com/Freeeeeet/lessonmarket/internal/schedule"
	"github.com/Freeeeeet/lessonmarket/internal/service"
)

// ErrBadArgs неверные аргументы команды
var ErrBadArgs = errors.New("invalid command arguments")

// Args аргументы команды: позиционные и key=value
type Args struct {
	Positional []string
	Values     map[string]string
}

// ParseArgs разбирает строку вида `2025-06-10 start=11:00 notes="два слова"`.
// Значения в двойных кавычках могут содержать пробелы.
func ParseArgs(s string) (Args, error) {
	args := Args{Values: make(map[string]string)}

	var (
		token   strings.Builder
		inQuote bool
		started bool
	)
	flush := func() error {
		if !started {
			return nil
		}
		tok := token.String()
		token.Reset()
		started = false

		key, value, ok := strings.Cut(tok, "=")
		if !ok {
			args.Positional = append(args.Positional, tok)
			return nil
		}
		key = strings.ToLower(strings.TrimSpace(key))
		if key == "" {
			return fmt.Errorf("%w: empty key in %q", ErrBadArgs, tok)
		}
		args.Values[key] = value
		return nil
	}

	for _, r := range s {
		switch {
		case r == '"':
			inQuote = !inQuote
			started = true
		case unicode.IsSpace(r) && !inQuote:
			if err := flush(); err != nil {
				return Args{}, err
			}
		default:
			token.WriteRune(r)
			started = true
		}
	}
	if inQuote {
		return Args{}, fmt.Errorf("%w: unterminated quote", ErrBadArgs)
	}
	if err := flush(); err != nil {
		return Args{}, err
	}

	return args, nil
}

// CommandArgs текст после команды: "/template start=10:00" -> "start=10:00"
func CommandArgs(text string) string {
	_, rest, _ := strings.Cut(strings.TrimSpace(text), " ")
	return strings.TrimSpace(rest)
}

var templateKeys = []string{
	"start", "duration", "capacity", "price", "discount",
	"deadline_days", "deadline_time", "notes", "venue",
}

// ApplyTemplateArgs меняет поля шаблона по переданным ключам
func ApplyTemplateArgs(t schedule.Template, values map[string]string) (schedule.Template, error) {
	o, err := ParseOverrides(values)
	if err != nil {
		return t, err
	}

	if o.Start != nil {
		t.Start = *o.Start
	}
	if o.DurationMinutes != nil {
		t.DurationMinutes = *o.DurationMinutes
	}
	if o.Capacity != nil {
		t.Capacity = *o.Capacity
	}
	if o.Price != nil {
		t.Price = *o.Price
	}
	if o.DiscountPercentage != nil {
		t.DiscountPercentage = *o.DiscountPercentage
	}
	if o.DeadlineDays != nil {
		t.DeadlineDays = *o.DeadlineDays
	}
	if o.DeadlineTime != nil {
		t.DeadlineTime = *o.DeadlineTime
	}
	if o.Notes != nil {
		t.Notes = *o.Notes
	}
	if o.VenueDetails != nil {
		t.VenueDetails = *o.VenueDetails
	}
	return t, nil
}

// ParseOverrides собирает частичные изменения слота из key=value
func ParseOverrides(values map[string]string) (schedule.SlotOverrides, error) {
	var o schedule.SlotOverrides

	if err := rejectUnknown(values, templateKeys); err != nil {
		return o, err
	}

	var err error
	if o.Start, err = clockArg(values, "start"); err != nil {
		return o, err
	}
	if o.DurationMinutes, err = intArg(values, "duration"); err != nil {
		return o, err
	}
	if o.Capacity, err = intArg(values, "capacity"); err != nil {
		return o, err
	}
	if o.Price, err = intArg(values, "price"); err != nil {
		return o, err
	}
	if o.DiscountPercentage, err = intArg(values, "discount"); err != nil {
		return o, err
	}
	if o.DeadlineDays, err = intArg(values, "deadline_days"); err != nil {
		return o, err
	}
	if o.DeadlineTime, err = clockArg(values, "deadline_time"); err != nil {
		return o, err
	}
	o.Notes = stringArg(values, "notes")
	o.VenueDetails = stringArg(values, "venue")

	return o, nil
}

var lessonKeys = []string{
	"title", "description", "category", "subcategory", "format", "type",
	"price", "duration", "capacity", "discount", "area", "city",
}

// ParseLessonInput собирает новое занятие из key=value.
// По умолчанию: онлайн, разовое, 60 минут, одно место.
func ParseLessonInput(values map[string]string) (service.LessonInput, error) {
	in := service.LessonInput{
		LocationType: model.FormatOnline,
		LessonType:   model.PricingOneTime,
		Duration:     60,
		Capacity:     1,
	}

	if err := rejectUnknown(values, lessonKeys); err != nil {
		return in, err
	}

	in.Title = values["title"]
	in.Description = values["description"]
	in.Category = values["category"]
	in.Subcategory = values["subcategory"]
	in.ClassroomArea = values["area"]
	in.ClassroomCity = values["city"]
	if v, ok := values["format"]; ok {
		in.LocationType = model.LessonFormat(v)
	}
	if v, ok := values["type"]; ok {
		in.LessonType = model.PricingMode(v)
	}

	for key, dst := range map[string]*int{
		"price":    &in.Price,
		"duration": &in.Duration,
		"capacity": &in.Capacity,
	} {
		v, err := intArg(values, key)
		if err != nil {
			return in, err
		}
		if v != nil {
			*dst = *v
		}
	}

	discount, err := intArg(values, "discount")
	if err != nil {
		return in, err
	}
	in.DiscountPercentage = discount

	return in, nil
}

func rejectUnknown(values map[string]string, allowed []string) error {
	var unknown []string
	for key := range values {
		if !containsKey(allowed, key) {
			unknown = append(unknown, key)
		}
	}
	if len(unknown) == 0 {
		return nil
	}
	sort.Strings(unknown)
	return fmt.Errorf("%w: unknown keys %s", ErrBadArgs, strings.Join(unknown, ", "))
}

func containsKey(list []string, key string) bool {
	for _, k := range list {
		if k == key {
			return true
		}
	}
	return false
}

func intArg(values map[string]string, key string) (*int, error) {
	raw, ok := values[key]
	if !ok {
		return nil, nil
	}
	v, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return nil, fmt.Errorf("%w: %s must be a number", ErrBadArgs, key)
	}
	return &v, nil
}

func clockArg(values map[string]string, key string) (*schedule.Clock, error) {
	raw, ok := values[key]
	if !ok {
		return nil, nil
	}
	c, err := schedule.ParseClock(strings.TrimSpace(raw))
	if err != nil {
		return nil, fmt.Errorf("%w: %s must be HH:MM", ErrBadArgs, key)
	}
	return &c, nil
}

func stringArg(values map[string]string, key string) *string {
	raw, ok := values[key]
	if !ok {
		return nil
	}
	return &raw
}

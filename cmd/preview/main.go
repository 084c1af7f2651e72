package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/Freeeeeet/lessonmarket/internal/controller/preview"
	"github.com/Freeeeeet/lessonmarket/internal/schedule"
)

// Рисует превью месяца планировщика с тестовыми слотами, чтобы проверить вёрстку без бота
func main() {
	now := time.Now().In(schedule.DefaultLocation)
	month := flag.Int("month", int(now.Month()), "month to render")
	year := flag.Int("year", now.Year(), "year to render")
	out := flag.String("out", "schedule_preview.png", "output file")
	flag.Parse()

	draft := schedule.NewDraft(schedule.Template{
		Start:           schedule.MustClock("10:00"),
		DurationMinutes: 60,
		Capacity:        6,
		Price:           3500,
		DeadlineDays:    1,
		DeadlineTime:    schedule.MustClock("18:00"),
	}, schedule.DefaultLocation, time.Now)

	// вторники и четверги месяца, один слот с изменённым временем
	draft.ToggleWeekday(time.Tuesday, time.Month(*month), *year)
	draft.ToggleWeekday(time.Thursday, time.Month(*month), *year)
	if dates := draft.Dates(); len(dates) > 0 {
		start := schedule.MustClock("14:30")
		capacity := 3
		draft.EditSlot(dates[0], schedule.SlotOverrides{Start: &start, Capacity: &capacity})
	}

	data, err := preview.RenderMonth(draft, time.Month(*month), *year)
	if err != nil {
		fmt.Printf("Ошибка генерации: %v\n", err)
		os.Exit(1)
	}

	if err := os.WriteFile(*out, data, 0o644); err != nil {
		fmt.Printf("Ошибка сохранения: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("✅ Превью сохранено в %s (%d слотов)\n", *out, draft.Len())
}

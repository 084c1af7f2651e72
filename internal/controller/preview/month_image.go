package preview

import (
	"bytes"
	"fmt"
	"image/color"
	"time"

	"github.com/Freeeeeet/lessonmarket/internal/schedule"
	"github.com/fogleman/gg"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
)

// Константы размеров и отступов
const (
	imageWidth   = 980
	headerHeight = 70
	weekdayRow   = 30
	cellWidth    = imageWidth / 7
	cellHeight   = 110
	cellPadding  = 6
	slotBoxH     = 18.0
	cellRadius   = 6.0
	maxWeeks     = 6
	lineSpacing  = 1.2
)

// Цветовая схема
var (
	bgColor       = color.RGBA{245, 246, 248, 255}
	textColor     = color.RGBA{80, 85, 90, 220}
	pastDayColor  = color.RGBA{225, 225, 225, 255}
	freeDayColor  = color.RGBA{255, 255, 255, 255}
	todayBorder   = color.NRGBA{255, 99, 71, 200}
	selectedColor = color.RGBA{133, 193, 85, 220}
	slotTextColor = color.RGBA{20, 24, 28, 230}
	gridLineColor = color.NRGBA{200, 200, 200, 255}
)

var weekdayLabels = []string{"Mon", "Tue", "Wed", "Thu", "Fri", "Sat", "Sun"}

// RenderMonth рисует месяц черновика: выбранные даты с временем, местами и ценой.
// Возвращает PNG.
func RenderMonth(d *schedule.Draft, month time.Month, year int) ([]byte, error) {
	days := schedule.DaysIn(month, year)
	offset := (int(days[0].Weekday()) + 6) % 7
	weeks := (offset + len(days) + 6) / 7
	if weeks > maxWeeks {
		weeks = maxWeeks
	}

	height := headerHeight + weekdayRow + weeks*cellHeight + cellPadding
	dc := gg.NewContext(imageWidth, height)
	dc.SetColor(bgColor)
	dc.Clear()
	dc.SetFontFace(face())

	drawHeader(dc, d, month, year)
	drawWeekdays(dc)

	today := d.Today()
	for i, date := range days {
		pos := offset + i
		x := float64((pos % 7) * cellWidth)
		y := float64(headerHeight + weekdayRow + (pos/7)*cellHeight)
		drawDay(dc, d, date, date == today, x, y)
	}

	return encodeImage(dc)
}

func face() font.Face {
	return basicfont.Face7x13
}

// drawHeader рисует месяц и число выбранных дат
func drawHeader(dc *gg.Context, d *schedule.Draft, month time.Month, year int) {
	dc.SetColor(textColor)
	title := fmt.Sprintf("%04d-%02d  selected: %d", year, int(month), d.Len())
	dc.DrawStringAnchored(title, imageWidth/2, headerHeight/3, 0.5, 0.5)

	t := d.Template()
	subtitle := fmt.Sprintf("template %s  %d min  x%d  %d JPY", t.Start, t.DurationMinutes, t.Capacity, t.Price)
	dc.DrawStringAnchored(subtitle, imageWidth/2, headerHeight*2/3, 0.5, 0.5)
}

func drawWeekdays(dc *gg.Context) {
	dc.SetColor(textColor)
	for i, label := range weekdayLabels {
		x := float64(i*cellWidth) + cellWidth/2
		dc.DrawStringAnchored(label, x, headerHeight+weekdayRow/2, 0.5, 0.5)
	}
}

// drawDay рисует ячейку дня. Выбранный день показывает параметры своего слота.
func drawDay(dc *gg.Context, d *schedule.Draft, date schedule.Date, isToday bool, x, y float64) {
	w := float64(cellWidth - cellPadding)
	h := float64(cellHeight - cellPadding)
	x += cellPadding / 2
	y += cellPadding / 2

	switch {
	case d.IsPast(date):
		dc.SetColor(pastDayColor)
	default:
		dc.SetColor(freeDayColor)
	}
	dc.DrawRoundedRectangle(x, y, w, h, cellRadius)
	dc.Fill()

	dc.SetColor(gridLineColor)
	dc.DrawRoundedRectangle(x, y, w, h, cellRadius)
	dc.SetLineWidth(1)
	dc.Stroke()

	if isToday {
		dc.SetColor(todayBorder)
		dc.SetLineWidth(3)
		dc.DrawRoundedRectangle(x, y, w, h, cellRadius)
		dc.Stroke()
	}

	dc.SetColor(textColor)
	dc.DrawString(fmt.Sprintf("%d", date.Day), x+6, y+16)

	slot, ok := d.Slot(date)
	if !ok {
		return
	}

	boxY := y + 26
	dc.SetColor(selectedColor)
	dc.DrawRoundedRectangle(x+4, boxY, w-8, h-30, cellRadius)
	dc.Fill()

	loc := d.Location()
	lines := []string{
		fmt.Sprintf("%s-%s", slot.Start.In(loc).Format("15:04"), slot.End.In(loc).Format("15:04")),
		fmt.Sprintf("seats %d", slot.Capacity),
		fmt.Sprintf("%d JPY", slot.Price),
		fmt.Sprintf("until %s", slot.Deadline.In(loc).Format("01-02 15:04")),
	}

	dc.SetColor(slotTextColor)
	for i, line := range lines {
		dc.DrawString(line, x+10, boxY+slotBoxH*lineSpacing*float64(i)+16)
	}
}

// encodeImage кодирует изображение в PNG
func encodeImage(dc *gg.Context) ([]byte, error) {
	var buf bytes.Buffer
	if err := dc.EncodePNG(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

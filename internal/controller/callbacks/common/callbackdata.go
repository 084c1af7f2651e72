package common

// Форматы callback data, общие для экранов и роутера
const (
	Noop = "noop"

	// Выдача занятий
	BrowsePage     = "br_page:"   // br_page:2
	BrowseSort     = "br_sort:"   // br_sort:popular
	BrowseLocation = "br_loc:"    // br_loc:a (онлайн) или br_loc:b (очно)
	BrowseType     = "br_type:"   // br_type:a (помесячно) или br_type:b (разово)
	BrowseCategory = "br_cat:"    // br_cat:Музыка, br_cat:* - все
	BrowseSub      = "br_sub:"    // br_sub:Фортепиано
	BrowseArea     = "br_area:"   // br_area:Shibuya
	BrowseBucket   = "br_bucket:" // br_bucket:s_0_1000
	BrowseAllDates = "br_alldates"
	BrowseSearch   = "br_search"
	BrowseReset    = "br_reset"
	BrowseBack     = "br_back"

	AllCategories = "*"

	// Карточка занятия и запись
	ViewLesson    = "lesson:"     // lesson:123
	BookSlot      = "book:"       // book:456
	CancelBooking = "cancel_bkg:" // cancel_bkg:789

	// Планировщик инструктора
	PlanOpen     = "plan:"       // plan:123
	PlanDay      = "plan_day:"   // plan_day:2025-06-10
	PlanWeekday  = "plan_wd:"    // plan_wd:0..6, 0 - воскресенье
	PlanMonth    = "plan_month:" // plan_month:7:2025
	PlanApply    = "plan_apply"
	PlanPreview  = "plan_preview"
	PlanCommit   = "plan_commit"
	PlanTemplate = "plan_template"
	PlanClear    = "plan_clear"
	PlanClose    = "plan_close"

	// Управление занятиями
	MyLessons    = "my_lessons"
	LessonStatus = "lesson_status:" // lesson_status:123:published
)

// maxCallbackData ограничение Telegram на длину callback data в байтах
const maxCallbackData = 64

// FitsCallback проверяет, что callback data укладывается в ограничение Telegram
func FitsCallback(data string) bool {
	return len(data) <= maxCallbackData
}

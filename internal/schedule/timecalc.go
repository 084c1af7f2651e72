package schedule

import "time"

// ComputeEndTime возвращает start + durationMinutes в том же локальном
// представлении (арифметика по настенным часам зоны start, без UTC)
func ComputeEndTime(start time.Time, durationMinutes int) time.Time {
	return time.Date(
		start.Year(), start.Month(), start.Day(),
		start.Hour(), start.Minute()+durationMinutes, start.Second(), start.Nanosecond(),
		start.Location(),
	)
}

// ComputeDeadline возвращает дату start минус deadlineDays со временем deadlineTime.
// Результат не позже start.
func ComputeDeadline(start time.Time, deadlineDays int, deadlineTime Clock) time.Time {
	deadline := time.Date(
		start.Year(), start.Month(), start.Day()-deadlineDays,
		deadlineTime.Hour, deadlineTime.Minute, 0, 0,
		start.Location(),
	)
	if deadline.After(start) {
		return start
	}
	return deadline
}

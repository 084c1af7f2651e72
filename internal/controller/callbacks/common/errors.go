package common

import (
	"errors"

	"github.com/Freeeeeet/lessonmarket/internal/service"
)

// Общие ошибки для обработчиков
var (
	ErrNoMessage     = errors.New("no message in callback")
	ErrInvalidFormat = errors.New("invalid callback format")
	ErrNoDraft       = errors.New("no open schedule draft")
)

const genericErrorMessage = "❌ Произошла ошибка"

// ErrorMessage возвращает пользовательское сообщение для ошибки
func ErrorMessage(err error) string {
	switch {
	case errors.Is(err, service.ErrUserNotFound):
		return "❌ Пользователь не найден. Используйте /start"
	case errors.Is(err, service.ErrNotInstructor):
		return "❌ Эта функция доступна только инструкторам"
	case errors.Is(err, service.ErrLessonNotFound):
		return "❌ Занятие не найдено"
	case errors.Is(err, service.ErrNotLessonOwner), errors.Is(err, service.ErrNoPermission):
		return "❌ У вас нет доступа к этому занятию"
	case errors.Is(err, service.ErrLessonClosed):
		return "❌ Занятие закрыто для изменений"
	case errors.Is(err, service.ErrInvalidTransition):
		return "❌ Такой переход статуса невозможен"
	case errors.Is(err, service.ErrCapacityBelowParticipants):
		return "❌ Мест не может быть меньше, чем уже записано"
	case errors.Is(err, service.ErrInvalidLesson):
		return "❌ Проверьте данные занятия"
	case errors.Is(err, service.ErrInvalidTemplate):
		return "❌ Проверьте параметры расписания"
	case errors.Is(err, service.ErrNothingToCommit):
		return "❌ Нет новых дат для сохранения"
	case errors.Is(err, service.ErrSlotNotFound):
		return "❌ Слот не найден"
	case errors.Is(err, service.ErrSlotUnavailable):
		return "❌ На этот слот нельзя записаться"
	case errors.Is(err, service.ErrBookingClosed):
		return "❌ Запись на этот слот уже закрыта"
	case errors.Is(err, service.ErrSlotFull):
		return "❌ Все места заняты"
	case errors.Is(err, service.ErrAlreadyBooked):
		return "❌ Вы уже записаны на этот слот"
	case errors.Is(err, service.ErrBookingNotFound):
		return "❌ Запись не найдена"
	case errors.Is(err, service.ErrBookingNotActive):
		return "❌ Запись уже не активна"
	case errors.Is(err, ErrNoMessage):
		return "❌ Ошибка обработки сообщения"
	case errors.Is(err, ErrInvalidFormat):
		return "❌ Неверный формат данных"
	case errors.Is(err, ErrNoDraft):
		return "❌ Планировщик не открыт. Выберите занятие в /mylessons"
	default:
		return genericErrorMessage
	}
}

// IsUserError отличает ожидаемые отказы от сбоев, которые нужно логировать как ошибки
func IsUserError(err error) bool {
	return ErrorMessage(err) != genericErrorMessage
}

package service

import (
	"errors"

	"github.com/Freeeeeet/lessonmarket/internal/model"
)

var (
	ErrUserNotFound              = errors.New("user not found")
	ErrNotInstructor             = errors.New("user is not an instructor")
	ErrLessonNotFound            = errors.New("lesson not found")
	ErrNotLessonOwner            = errors.New("user is not the owner of this lesson")
	ErrLessonClosed              = errors.New("lesson is cancelled or completed")
	ErrInvalidTransition         = model.ErrInvalidTransition
	ErrCapacityBelowParticipants = errors.New("capacity below confirmed participants")
	ErrInvalidLesson             = errors.New("invalid lesson")
	ErrInvalidTemplate           = errors.New("invalid slot template")
	ErrNothingToCommit           = errors.New("no dates selected")
	ErrSlotNotFound              = errors.New("slot not found")
	ErrSlotUnavailable           = errors.New("slot is not open for booking")
	ErrBookingClosed             = errors.New("booking deadline has passed")
	ErrSlotFull                  = errors.New("slot is full")
	ErrAlreadyBooked             = errors.New("slot already booked by this learner")
	ErrBookingNotFound           = errors.New("booking not found")
	ErrBookingNotActive          = errors.New("booking is not active")
	ErrNoPermission              = errors.New("no permission for this booking")
)

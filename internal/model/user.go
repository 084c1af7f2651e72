package model

import "time"

type User struct {
	ID              int64     `json:"id"`
	TelegramID      int64     `json:"telegram_id"`
	Username        string    `json:"username"`
	FirstName       string    `json:"first_name"`
	LastName        string    `json:"last_name"`
	LanguageCode    string    `json:"language_code"`
	IsInstructor    bool      `json:"is_instructor"`
	IsVerified      bool      `json:"is_verified"`
	AverageRating   float64   `json:"average_rating"`
	ProfileImageURL string    `json:"profile_image_url"`
	CreatedAt       time.Time `json:"created_at"`
}

// DisplayName имя для показа в карточке занятия
func (u *User) DisplayName() string {
	if u.LastName == "" {
		return u.FirstName
	}
	return u.FirstName + " " + u.LastName
}

// InstructorSummary краткая карточка инструктора
func (u *User) InstructorSummary() Instructor {
	return Instructor{
		ID:              u.ID,
		Name:            u.DisplayName(),
		AverageRating:   u.AverageRating,
		IsVerified:      u.IsVerified,
		ProfileImageURL: u.ProfileImageURL,
	}
}

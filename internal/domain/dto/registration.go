package dto

import (
	"time"

	"github.com/mevent/event-manager/backend/internal/domain/entity"
)

type Registration struct {
	ID            uint      `json:"id"`
	UserID        uint      `json:"user"`
	EventID       uint      `json:"event"`
	EventTitle    string    `json:"event_title"`
	EventDate     string    `json:"event_date"`
	EventTime     string    `json:"event_time"`
	EventLocation string    `json:"event_location"`
	UserName      string    `json:"user_name"`
	Name          string    `json:"name"`
	Email         string    `json:"email"`
	Phone         string    `json:"phone"`
	StudentID     string    `json:"student_id"`
	RegisteredAt  time.Time `json:"registered_at"`
}

func NewRegistrationFromEntity(r entity.EventRegistration) Registration {
	return Registration{
		ID:            r.ID,
		UserID:        r.UserID,
		EventID:       r.EventID,
		EventTitle:    r.Event.Title,
		EventDate:     r.Event.Date,
		EventTime:     r.Event.Time,
		EventLocation: r.Event.Location,
		UserName:      r.User.Name,
		Name:          r.Name,
		Email:         r.Email,
		Phone:         r.Phone,
		StudentID:     r.StudentID,
		RegisteredAt:  r.RegisteredAt,
	}
}

type RegistrationInput struct {
	Name      string `json:"name"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	StudentID string `json:"student_id"`
}

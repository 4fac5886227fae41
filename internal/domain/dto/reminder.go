package dto

import (
	"time"

	"github.com/mevent/event-manager/backend/internal/domain/entity"
)

type Reminder struct {
	ID            uint      `json:"id"`
	UserID        uint      `json:"user"`
	EventID       uint      `json:"event"`
	EventTitle    string    `json:"event_title"`
	EventDate     string    `json:"event_date"`
	EventTime     string    `json:"event_time"`
	EventLocation string    `json:"event_location"`
	EventCategory string    `json:"event_category"`
	RemindAt      time.Time `json:"remind_at"`
	IsSent        bool      `json:"is_sent"`
	CreatedAt     time.Time `json:"created_at"`
}

func NewReminderFromEntity(r entity.Reminder) Reminder {
	return Reminder{
		ID:            r.ID,
		UserID:        r.UserID,
		EventID:       r.EventID,
		EventTitle:    r.Event.Title,
		EventDate:     r.Event.Date,
		EventTime:     r.Event.Time,
		EventLocation: r.Event.Location,
		EventCategory: r.Event.Category.Display(),
		RemindAt:      r.RemindAt.UTC(),
		IsSent:        r.IsSent,
		CreatedAt:     r.CreatedAt,
	}
}

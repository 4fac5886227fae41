package dto

import (
	"time"

	"github.com/mevent/event-manager/backend/internal/domain/entity"
)

type Event struct {
	ID              uint      `json:"id"`
	Title           string    `json:"title"`
	Description     string    `json:"description"`
	Date            string    `json:"date"`
	Time            string    `json:"time"`
	Location        string    `json:"location"`
	Category        string    `json:"category"`
	CategoryDisplay string    `json:"category_display"`
	CreatedBy       uint      `json:"created_by"`
	CreatedByName   string    `json:"created_by_name"`
	MaxParticipants int       `json:"max_participants"`
	RegisteredCount int64     `json:"registered_count"`
	IsFull          bool      `json:"is_full"`
	IsActive        bool      `json:"is_active"`
	IsRegistered    bool      `json:"is_registered"`
	HasReminder     bool      `json:"has_reminder"`
	CreatedAt       time.Time `json:"created_at"`
}

func NewEventFromEntity(event entity.Event, registered int64, isRegistered, hasReminder bool) Event {
	return Event{
		ID:              event.ID,
		Title:           event.Title,
		Description:     event.Description,
		Date:            event.Date,
		Time:            event.Time,
		Location:        event.Location,
		Category:        string(event.Category),
		CategoryDisplay: event.Category.Display(),
		CreatedBy:       event.CreatedByID,
		CreatedByName:   event.CreatedBy.Name,
		MaxParticipants: event.MaxParticipants,
		RegisteredCount: registered,
		IsFull:          registered >= int64(event.MaxParticipants),
		IsActive:        event.IsActive,
		IsRegistered:    isRegistered,
		HasReminder:     hasReminder,
		CreatedAt:       event.CreatedAt,
	}
}

// EventInput carries the writable event fields; nil pointers are left untouched
// on update.
type EventInput struct {
	Title           *string `json:"title"`
	Description     *string `json:"description"`
	Date            *string `json:"date"`
	Time            *string `json:"time"`
	Location        *string `json:"location"`
	Category        *string `json:"category"`
	MaxParticipants *int    `json:"max_participants"`
	IsActive        *bool   `json:"is_active"`
}

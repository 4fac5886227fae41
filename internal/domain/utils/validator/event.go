package validator

import (
	"time"
	"unicode/utf8"

	"github.com/mevent/event-manager/backend/internal/domain/entity"
)

func EventTitle(title string) bool {
	return utf8.RuneCountInString(title) >= 1 && utf8.RuneCountInString(title) <= 200
}

func EventDescription(description string) bool {
	return utf8.RuneCountInString(description) >= 1
}

func EventLocation(location string) bool {
	return utf8.RuneCountInString(location) >= 1 && utf8.RuneCountInString(location) <= 200
}

// EventDate accepts YYYY-MM-DD.
func EventDate(date string) bool {
	_, err := time.Parse(entity.DateLayout, date)
	return err == nil
}

// EventTime accepts HH:MM on a 24-hour clock.
func EventTime(clock string) bool {
	_, err := time.Parse(entity.TimeLayout, clock)
	return err == nil
}

func EventCategory(category string) bool {
	return entity.Category(category).Valid()
}

func MaxParticipants(maxParticipants int) bool {
	return maxParticipants >= 1
}

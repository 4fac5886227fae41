package entity

import (
	"fmt"
	"time"

	"github.com/mevent/event-manager/backend/internal/domain/utils/location"
)

const (
	DateLayout = "2006-01-02"
	TimeLayout = "15:04"
)

type Category string

const (
	CategoryAcademic Category = "academic"
	CategoryCultural Category = "cultural"
	CategorySports   Category = "sports"
	CategoryWorkshop Category = "workshop"
	CategorySeminar  Category = "seminar"
	CategoryOther    Category = "other"
)

var categoryNames = map[Category]string{
	CategoryAcademic: "Academic",
	CategoryCultural: "Cultural",
	CategorySports:   "Sports",
	CategoryWorkshop: "Workshop",
	CategorySeminar:  "Seminar",
	CategoryOther:    "Other",
}

func (c Category) Valid() bool {
	_, ok := categoryNames[c]
	return ok
}

// Display returns the human-readable category name.
func (c Category) Display() string {
	if name, ok := categoryNames[c]; ok {
		return name
	}
	return string(c)
}

// Event is a university event. Date and Time are naive values authored in the
// fixed civil zone described by location.LocalEventOffset.
type Event struct {
	ID              uint `gorm:"primaryKey"`
	CreatedAt       time.Time
	UpdatedAt       time.Time
	Title           string   `gorm:"not null"`
	Description     string   `gorm:"not null"`
	Date            string   `gorm:"type:varchar(10);not null;index"`
	Time            string   `gorm:"type:varchar(5);not null"`
	Location        string   `gorm:"not null"`
	Category        Category `gorm:"type:varchar(20);not null;default:other"`
	CreatedByID     uint     `gorm:"not null"`
	CreatedBy       User     `gorm:"constraint:OnDelete:CASCADE"`
	MaxParticipants int      `gorm:"not null;default:100"`
	IsActive        bool     `gorm:"not null;default:true"`
}

// LocalDate parses Date.
func (e *Event) LocalDate() (time.Time, error) {
	return time.Parse(DateLayout, e.Date)
}

// LocalClock parses Time.
func (e *Event) LocalClock() (time.Time, error) {
	return time.Parse(TimeLayout, e.Time)
}

// StartsAt returns the UTC instant the event starts at.
func (e *Event) StartsAt() (time.Time, error) {
	date, err := e.LocalDate()
	if err != nil {
		return time.Time{}, fmt.Errorf("event %d date %q: %w", e.ID, e.Date, err)
	}
	clock, err := e.LocalClock()
	if err != nil {
		return time.Time{}, fmt.Errorf("event %d time %q: %w", e.ID, e.Time, err)
	}
	return location.Resolve(date, clock, location.LocalEventOffset), nil
}

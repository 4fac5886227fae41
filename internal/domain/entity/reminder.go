package entity

import (
	"time"
)

// LeadTime is how long before an event's start a reminder fires.
type LeadTime string

const (
	LeadOneDay         LeadTime = "1_day"
	LeadTwelveHours    LeadTime = "12_hours"
	LeadSixHours       LeadTime = "6_hours"
	LeadThreeHours     LeadTime = "3_hours"
	LeadOneHour        LeadTime = "1_hour"
	LeadThirtyMinutes  LeadTime = "30_minutes"
	LeadFifteenMinutes LeadTime = "15_minutes"

	DefaultLeadTime = LeadOneDay
)

var leadTimes = map[LeadTime]struct {
	duration time.Duration
	display  string
}{
	LeadOneDay:         {24 * time.Hour, "1 Day Before"},
	LeadTwelveHours:    {12 * time.Hour, "12 Hours Before"},
	LeadSixHours:       {6 * time.Hour, "6 Hours Before"},
	LeadThreeHours:     {3 * time.Hour, "3 Hours Before"},
	LeadOneHour:        {time.Hour, "1 Hour Before"},
	LeadThirtyMinutes:  {30 * time.Minute, "30 Minutes Before"},
	LeadFifteenMinutes: {15 * time.Minute, "15 Minutes Before"},
}

// Duration reports the lead duration and whether l is a known option.
func (l LeadTime) Duration() (time.Duration, bool) {
	lt, ok := leadTimes[l]
	return lt.duration, ok
}

func (l LeadTime) Valid() bool {
	_, ok := leadTimes[l]
	return ok
}

func (l LeadTime) Display() string {
	if lt, ok := leadTimes[l]; ok {
		return lt.display
	}
	return string(l)
}

// Reminder is a user's request to be emailed before an event starts.
// RemindAt is stored in UTC; IsSent only ever moves from false to true once
// a delivery has succeeded.
type Reminder struct {
	ID        uint      `gorm:"primaryKey"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_reminders_user_event"`
	User      User      `gorm:"constraint:OnDelete:CASCADE"`
	EventID   uint      `gorm:"not null;uniqueIndex:idx_reminders_user_event"`
	Event     Event     `gorm:"constraint:OnDelete:CASCADE"`
	RemindAt  time.Time `gorm:"not null;index:idx_reminders_due,priority:2"`
	IsSent    bool      `gorm:"not null;default:false;index:idx_reminders_due,priority:1"`
	CreatedAt time.Time
}

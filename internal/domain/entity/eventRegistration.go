package entity

import "time"

type EventRegistration struct {
	ID           uint  `gorm:"primaryKey"`
	UserID       uint  `gorm:"not null;uniqueIndex:idx_registrations_user_event"`
	User         User  `gorm:"constraint:OnDelete:CASCADE"`
	EventID      uint  `gorm:"not null;uniqueIndex:idx_registrations_user_event;index"`
	Event        Event `gorm:"constraint:OnDelete:CASCADE"`
	Name         string
	Email        string
	Phone        string
	StudentID    string
	RegisteredAt time.Time `gorm:"autoCreateTime"`
}

package postgres

import (
	"context"
	"time"

	"github.com/mevent/event-manager/backend/internal/domain/dto"
	"github.com/mevent/event-manager/backend/internal/domain/entity"
	"gorm.io/gorm"
)

type EventStorage struct {
	db *gorm.DB
}

func NewEventStorage(db *gorm.DB) *EventStorage {
	return &EventStorage{
		db: db,
	}
}

// Create is a function that creates a new event in the database.
func (s *EventStorage) Create(ctx context.Context, event *entity.Event) (*entity.Event, error) {
	err := s.db.WithContext(ctx).Omit("CreatedBy").Create(event).Error
	return event, translate(err, "create event")
}

// Get is a function that gets an event from the database by id.
func (s *EventStorage) Get(ctx context.Context, id uint) (*entity.Event, error) {
	var event entity.Event
	err := s.db.WithContext(ctx).Preload("CreatedBy").Where("id = ?", id).First(&event).Error
	return &event, translate(err, "get event")
}

// GetActive is like Get but ignores deactivated events.
func (s *EventStorage) GetActive(ctx context.Context, id uint) (*entity.Event, error) {
	var event entity.Event
	err := s.db.WithContext(ctx).
		Preload("CreatedBy").
		Where("id = ? AND is_active = ?", id, true).
		First(&event).Error
	return &event, translate(err, "get active event")
}

// GetAllActive returns active events ordered by their local start.
func (s *EventStorage) GetAllActive(ctx context.Context) ([]entity.Event, error) {
	var events []entity.Event
	err := s.db.WithContext(ctx).
		Preload("CreatedBy").
		Where("is_active = ?", true).
		Order("date ASC, time ASC, id ASC").
		Find(&events).Error
	return events, err
}

// Update is a function that updates an event in the database.
func (s *EventStorage) Update(ctx context.Context, event *entity.Event) (*entity.Event, error) {
	err := s.db.WithContext(ctx).Omit("CreatedBy").Save(event).Error
	return event, translate(err, "update event")
}

// Delete is a function that deletes an event with its registrations and reminders.
func (s *EventStorage) Delete(ctx context.Context, id uint) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("event_id = ?", id).Delete(&entity.Reminder{}).Error; err != nil {
			return err
		}
		if err := tx.Where("event_id = ?", id).Delete(&entity.EventRegistration{}).Error; err != nil {
			return err
		}
		res := tx.Where("id = ?", id).Delete(&entity.Event{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return translate(gorm.ErrRecordNotFound, "delete event")
		}
		return nil
	})
}

// Count is a function that gets the count of events from the database.
func (s *EventStorage) Count(ctx context.Context) (int64, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&entity.Event{}).Count(&count).Error
	return count, err
}

func (s *EventStorage) CountActive(ctx context.Context) (int64, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&entity.Event{}).Where("is_active = ?", true).Count(&count).Error
	return count, err
}

func (s *EventStorage) CountCreatedSince(ctx context.Context, since time.Time) (int64, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&entity.Event{}).Where("created_at >= ?", since).Count(&count).Error
	return count, err
}

func (s *EventStorage) CountByCreator(ctx context.Context, userID uint) (int64, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&entity.Event{}).Where("created_by_id = ?", userID).Count(&count).Error
	return count, err
}

// GetRegistrationCounts returns every event with its registration count, newest
// date first and busier events first within a date.
func (s *EventStorage) GetRegistrationCounts(ctx context.Context) ([]dto.EventRegistrationCount, error) {
	var result []dto.EventRegistrationCount
	err := s.db.WithContext(ctx).
		Table("events").
		Select("events.id AS event_id, events.title, events.date, events.time, events.location, events.category, " +
			"events.max_participants, events.is_active, COUNT(event_registrations.id) AS registration_count").
		Joins("LEFT JOIN event_registrations ON event_registrations.event_id = events.id").
		Group("events.id").
		Order("events.date DESC, registration_count DESC").
		Scan(&result).Error
	return result, err
}

// GetTopByRegistrations returns at most limit events having at least one registration.
func (s *EventStorage) GetTopByRegistrations(ctx context.Context, limit int) ([]dto.EventRegistrationCount, error) {
	var result []dto.EventRegistrationCount
	err := s.db.WithContext(ctx).
		Table("events").
		Select("events.id AS event_id, events.title, events.date, COUNT(event_registrations.id) AS registration_count").
		Joins("JOIN event_registrations ON event_registrations.event_id = events.id").
		Group("events.id").
		Order("registration_count DESC, events.id ASC").
		Limit(limit).
		Scan(&result).Error
	return result, err
}

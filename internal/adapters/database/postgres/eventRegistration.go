package postgres

import (
	"context"
	"time"

	"github.com/mevent/event-manager/backend/internal/domain/entity"
	"gorm.io/gorm"
)

type EventRegistrationStorage struct {
	db *gorm.DB
}

func NewEventRegistrationStorage(db *gorm.DB) *EventRegistrationStorage {
	return &EventRegistrationStorage{
		db: db,
	}
}

func (s *EventRegistrationStorage) Create(ctx context.Context, registration *entity.EventRegistration) (*entity.EventRegistration, error) {
	err := s.db.WithContext(ctx).Omit("User", "Event").Create(registration).Error
	return registration, translate(err, "create registration")
}

func (s *EventRegistrationStorage) Get(ctx context.Context, eventID, userID uint) (*entity.EventRegistration, error) {
	var registration entity.EventRegistration
	err := s.db.WithContext(ctx).Where("event_id = ? AND user_id = ?", eventID, userID).First(&registration).Error
	return &registration, translate(err, "get registration")
}

func (s *EventRegistrationStorage) Delete(ctx context.Context, eventID, userID uint) error {
	res := s.db.WithContext(ctx).Where("event_id = ? AND user_id = ?", eventID, userID).Delete(&entity.EventRegistration{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return translate(gorm.ErrRecordNotFound, "delete registration")
	}
	return nil
}

func (s *EventRegistrationStorage) GetByUserID(ctx context.Context, userID uint) ([]entity.EventRegistration, error) {
	var registrations []entity.EventRegistration
	err := s.db.WithContext(ctx).
		Preload("Event").
		Preload("User").
		Where("user_id = ?", userID).
		Order("registered_at DESC").
		Find(&registrations).Error
	return registrations, err
}

func (s *EventRegistrationStorage) GetByEventID(ctx context.Context, eventID uint) ([]entity.EventRegistration, error) {
	var registrations []entity.EventRegistration
	err := s.db.WithContext(ctx).
		Preload("User").
		Where("event_id = ?", eventID).
		Order("registered_at DESC").
		Find(&registrations).Error
	return registrations, err
}

func (s *EventRegistrationStorage) CountByEventID(ctx context.Context, eventID uint) (int64, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&entity.EventRegistration{}).Where("event_id = ?", eventID).Count(&count).Error
	return count, err
}

// CountByEventIDs returns registration counts keyed by event id; events without
// registrations are absent from the map.
func (s *EventRegistrationStorage) CountByEventIDs(ctx context.Context, eventIDs []uint) (map[uint]int64, error) {
	counts := make(map[uint]int64, len(eventIDs))
	if len(eventIDs) == 0 {
		return counts, nil
	}

	var rows []struct {
		EventID uint
		Count   int64
	}
	err := s.db.WithContext(ctx).
		Model(&entity.EventRegistration{}).
		Select("event_id, COUNT(*) AS count").
		Where("event_id IN ?", eventIDs).
		Group("event_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	for _, row := range rows {
		counts[row.EventID] = row.Count
	}
	return counts, nil
}

func (s *EventRegistrationStorage) GetEventIDsByUserID(ctx context.Context, userID uint) ([]uint, error) {
	var ids []uint
	err := s.db.WithContext(ctx).Model(&entity.EventRegistration{}).Where("user_id = ?", userID).Pluck("event_id", &ids).Error
	return ids, err
}

func (s *EventRegistrationStorage) Count(ctx context.Context) (int64, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&entity.EventRegistration{}).Count(&count).Error
	return count, err
}

func (s *EventRegistrationStorage) CountSince(ctx context.Context, since time.Time) (int64, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&entity.EventRegistration{}).Where("registered_at >= ?", since).Count(&count).Error
	return count, err
}

func (s *EventRegistrationStorage) CountByUserID(ctx context.Context, userID uint) (int64, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&entity.EventRegistration{}).Where("user_id = ?", userID).Count(&count).Error
	return count, err
}

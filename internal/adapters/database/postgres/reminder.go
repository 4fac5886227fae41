package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/mevent/event-manager/backend/internal/domain/common/errorz"
	"github.com/mevent/event-manager/backend/internal/domain/entity"
	"gorm.io/gorm"
)

type ReminderStorage struct {
	db *gorm.DB
}

func NewReminderStorage(db *gorm.DB) *ReminderStorage {
	return &ReminderStorage{
		db: db,
	}
}

// Create stores a new reminder. A second reminder for the same user and event
// fails with errorz.ErrConflict.
func (s *ReminderStorage) Create(ctx context.Context, reminder *entity.Reminder) (*entity.Reminder, error) {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var exists int64
		err := tx.Model(&entity.Reminder{}).
			Where("user_id = ? AND event_id = ?", reminder.UserID, reminder.EventID).
			Count(&exists).Error
		if err != nil {
			return err
		}
		if exists > 0 {
			return gorm.ErrDuplicatedKey
		}
		return tx.Omit("User", "Event").Create(reminder).Error
	})
	return reminder, translate(err, "create reminder")
}

func (s *ReminderStorage) Get(ctx context.Context, userID, eventID uint) (*entity.Reminder, error) {
	var reminder entity.Reminder
	err := s.db.WithContext(ctx).
		Preload("Event").
		Where("user_id = ? AND event_id = ?", userID, eventID).
		First(&reminder).Error
	return &reminder, translate(err, "get reminder")
}

func (s *ReminderStorage) Delete(ctx context.Context, userID, eventID uint) error {
	res := s.db.WithContext(ctx).Where("user_id = ? AND event_id = ?", userID, eventID).Delete(&entity.Reminder{})
	if res.Error != nil {
		return fmt.Errorf("delete reminder: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return translate(gorm.ErrRecordNotFound, "delete reminder")
	}
	return nil
}

// GetPendingByUserID returns the user's unsent reminders with their events.
func (s *ReminderStorage) GetPendingByUserID(ctx context.Context, userID uint) ([]entity.Reminder, error) {
	var reminders []entity.Reminder
	err := s.db.WithContext(ctx).
		Preload("Event").
		Where("user_id = ? AND is_sent = ?", userID, false).
		Order("remind_at ASC, id ASC").
		Find(&reminders).Error
	return reminders, err
}

func (s *ReminderStorage) CountPendingByUserID(ctx context.Context, userID uint) (int64, error) {
	var count int64
	err := s.db.WithContext(ctx).
		Model(&entity.Reminder{}).
		Where("user_id = ? AND is_sent = ?", userID, false).
		Count(&count).Error
	return count, err
}

func (s *ReminderStorage) GetEventIDsByUserID(ctx context.Context, userID uint) ([]uint, error) {
	var ids []uint
	err := s.db.WithContext(ctx).Model(&entity.Reminder{}).Where("user_id = ?", userID).Pluck("event_id", &ids).Error
	return ids, err
}

// FindDue returns unsent reminders with remind_at at or before threshold, with user
// and event loaded, oldest first.
func (s *ReminderStorage) FindDue(ctx context.Context, threshold time.Time) ([]entity.Reminder, error) {
	var reminders []entity.Reminder
	err := s.db.WithContext(ctx).
		Preload("User").
		Preload("Event").
		Where("is_sent = ? AND remind_at <= ?", false, threshold.UTC()).
		Order("remind_at ASC, id ASC").
		Find(&reminders).Error
	return reminders, err
}

// MarkSent flips is_sent from false to true in a single conditional update.
//
// Exactly one caller can win for a given reminder; the others get
// errorz.ErrAlreadySent. A missing reminder yields errorz.ErrNotFound.
func (s *ReminderStorage) MarkSent(ctx context.Context, id uint) error {
	res := s.db.WithContext(ctx).
		Model(&entity.Reminder{}).
		Where("id = ? AND is_sent = ?", id, false).
		Update("is_sent", true)
	if res.Error != nil {
		return fmt.Errorf("mark reminder %d sent: %w", id, res.Error)
	}
	if res.RowsAffected > 0 {
		return nil
	}

	var exists int64
	if err := s.db.WithContext(ctx).Model(&entity.Reminder{}).Where("id = ?", id).Count(&exists).Error; err != nil {
		return fmt.Errorf("mark reminder %d sent: %w", id, err)
	}
	if exists == 0 {
		return fmt.Errorf("mark reminder %d sent: %w", id, errorz.ErrNotFound)
	}
	return fmt.Errorf("mark reminder %d sent: %w", id, errorz.ErrAlreadySent)
}

// MarkUnsent reverts a MarkSent whose delivery did not go through.
func (s *ReminderStorage) MarkUnsent(ctx context.Context, id uint) error {
	res := s.db.WithContext(ctx).
		Model(&entity.Reminder{}).
		Where("id = ? AND is_sent = ?", id, true).
		Update("is_sent", false)
	if res.Error != nil {
		return fmt.Errorf("mark reminder %d unsent: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("mark reminder %d unsent: %w", id, errorz.ErrNotFound)
	}
	return nil
}

package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/mevent/event-manager/backend/internal/domain/common/errorz"
	"github.com/mevent/event-manager/backend/internal/domain/entity"
	"github.com/mevent/event-manager/backend/internal/domain/utils/timing"
)

type ReminderStorage interface {
	Create(ctx context.Context, reminder *entity.Reminder) (*entity.Reminder, error)
	Get(ctx context.Context, userID, eventID uint) (*entity.Reminder, error)
	Delete(ctx context.Context, userID, eventID uint) error
	GetPendingByUserID(ctx context.Context, userID uint) ([]entity.Reminder, error)
	CountPendingByUserID(ctx context.Context, userID uint) (int64, error)
	GetEventIDsByUserID(ctx context.Context, userID uint) ([]uint, error)
}

type activeEventGetter interface {
	GetActive(ctx context.Context, id uint) (*entity.Event, error)
}

type ReminderService struct {
	reminderStorage ReminderStorage
	eventStorage    activeEventGetter

	now func() time.Time
}

func NewReminderService(reminderStorage ReminderStorage, eventStorage activeEventGetter) *ReminderService {
	return &ReminderService{
		reminderStorage: reminderStorage,
		eventStorage:    eventStorage,
		now:             time.Now,
	}
}

// Set creates a reminder for the user on an active event. An empty lead defaults
// to entity.DefaultLeadTime; an unknown one, a duplicate or a remind_at that is
// not in the future are validation errors.
func (s *ReminderService) Set(ctx context.Context, userID, eventID uint, lead entity.LeadTime) (*entity.Reminder, error) {
	event, err := s.eventStorage.GetActive(ctx, eventID)
	if err != nil {
		return nil, err
	}

	_, err = s.reminderStorage.Get(ctx, userID, eventID)
	switch {
	case err == nil:
		return nil, fmt.Errorf("%w: reminder already set for this event: %w", errorz.ErrValidation, errorz.ErrConflict)
	case !errors.Is(err, errorz.ErrNotFound):
		return nil, err
	}

	if lead == "" {
		lead = entity.DefaultLeadTime
	}
	if !lead.Valid() {
		return nil, fmt.Errorf("%w: invalid reminder timing %q", errorz.ErrValidation, lead)
	}

	start, err := event.StartsAt()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", errorz.ErrValidation, err)
	}
	remindAt := timing.RemindAt(start, lead).UTC()
	if !remindAt.After(s.now()) {
		return nil, fmt.Errorf("%w: reminder time has already passed", errorz.ErrValidation)
	}

	reminder, err := s.reminderStorage.Create(ctx, &entity.Reminder{
		UserID:   userID,
		EventID:  eventID,
		RemindAt: remindAt,
	})
	if err != nil {
		if errors.Is(err, errorz.ErrConflict) {
			return nil, fmt.Errorf("%w: %w", errorz.ErrValidation, err)
		}
		return nil, err
	}
	reminder.Event = *event
	return reminder, nil
}

func (s *ReminderService) Cancel(ctx context.Context, userID, eventID uint) error {
	return s.reminderStorage.Delete(ctx, userID, eventID)
}

func (s *ReminderService) GetPending(ctx context.Context, userID uint) ([]entity.Reminder, error) {
	return s.reminderStorage.GetPendingByUserID(ctx, userID)
}

func (s *ReminderService) CountPending(ctx context.Context, userID uint) (int64, error) {
	return s.reminderStorage.CountPendingByUserID(ctx, userID)
}

// EventIDs returns the ids of events the user has a reminder for, sent or not.
func (s *ReminderService) EventIDs(ctx context.Context, userID uint) ([]uint, error) {
	return s.reminderStorage.GetEventIDsByUserID(ctx, userID)
}

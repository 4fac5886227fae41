package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/mevent/event-manager/backend/internal/domain/common/errorz"
	"github.com/mevent/event-manager/backend/internal/domain/dto"
	"github.com/mevent/event-manager/backend/internal/domain/entity"
)

type EventRegistrationStorage interface {
	Create(ctx context.Context, registration *entity.EventRegistration) (*entity.EventRegistration, error)
	Get(ctx context.Context, eventID, userID uint) (*entity.EventRegistration, error)
	Delete(ctx context.Context, eventID, userID uint) error
	GetByUserID(ctx context.Context, userID uint) ([]entity.EventRegistration, error)
	CountByEventID(ctx context.Context, eventID uint) (int64, error)
	CountByUserID(ctx context.Context, userID uint) (int64, error)
}

type EventRegistrationService struct {
	registrationStorage EventRegistrationStorage
	eventStorage        activeEventGetter
}

func NewEventRegistrationService(registrationStorage EventRegistrationStorage, eventStorage activeEventGetter) *EventRegistrationService {
	return &EventRegistrationService{
		registrationStorage: registrationStorage,
		eventStorage:        eventStorage,
	}
}

// Register signs the user up for an active event. Contact fields left empty are
// taken from the user's account.
func (s *EventRegistrationService) Register(ctx context.Context, user entity.User, eventID uint, input dto.RegistrationInput) (*entity.EventRegistration, error) {
	event, err := s.eventStorage.GetActive(ctx, eventID)
	if err != nil {
		return nil, err
	}

	_, err = s.registrationStorage.Get(ctx, eventID, user.ID)
	switch {
	case err == nil:
		return nil, fmt.Errorf("%w: already registered for this event", errorz.ErrValidation)
	case !errors.Is(err, errorz.ErrNotFound):
		return nil, err
	}

	count, err := s.registrationStorage.CountByEventID(ctx, eventID)
	if err != nil {
		return nil, err
	}
	if count >= int64(event.MaxParticipants) {
		return nil, fmt.Errorf("%w: event is full", errorz.ErrValidation)
	}

	registration := entity.EventRegistration{
		UserID:    user.ID,
		EventID:   eventID,
		Name:      orDefault(input.Name, user.Name),
		Email:     orDefault(input.Email, user.Email),
		Phone:     strings.TrimSpace(input.Phone),
		StudentID: strings.TrimSpace(input.StudentID),
	}
	created, err := s.registrationStorage.Create(ctx, &registration)
	if err != nil {
		if errors.Is(err, errorz.ErrConflict) {
			return nil, fmt.Errorf("%w: %w", errorz.ErrValidation, err)
		}
		return nil, err
	}
	created.Event = *event
	created.User = user
	return created, nil
}

func (s *EventRegistrationService) Unregister(ctx context.Context, userID, eventID uint) error {
	return s.registrationStorage.Delete(ctx, eventID, userID)
}

func (s *EventRegistrationService) GetByUserID(ctx context.Context, userID uint) ([]entity.EventRegistration, error) {
	return s.registrationStorage.GetByUserID(ctx, userID)
}

func (s *EventRegistrationService) CountByUserID(ctx context.Context, userID uint) (int64, error) {
	return s.registrationStorage.CountByUserID(ctx, userID)
}

func orDefault(value, fallback string) string {
	if value = strings.TrimSpace(value); value != "" {
		return value
	}
	return fallback
}

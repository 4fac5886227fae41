package service

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/mevent/event-manager/backend/internal/domain/common/errorz"
	"github.com/mevent/event-manager/backend/internal/domain/dto"
	"github.com/mevent/event-manager/backend/internal/domain/entity"
	"github.com/mevent/event-manager/backend/internal/domain/utils/validator"
)

const defaultMaxParticipants = 100

type EventStorage interface {
	Create(ctx context.Context, event *entity.Event) (*entity.Event, error)
	Get(ctx context.Context, id uint) (*entity.Event, error)
	GetActive(ctx context.Context, id uint) (*entity.Event, error)
	GetAllActive(ctx context.Context) ([]entity.Event, error)
	Update(ctx context.Context, event *entity.Event) (*entity.Event, error)
	Delete(ctx context.Context, id uint) error
}

type eventRegistrationCounter interface {
	CountByEventID(ctx context.Context, eventID uint) (int64, error)
	CountByEventIDs(ctx context.Context, eventIDs []uint) (map[uint]int64, error)
	GetEventIDsByUserID(ctx context.Context, userID uint) ([]uint, error)
}

type reminderEventIDs interface {
	GetEventIDsByUserID(ctx context.Context, userID uint) ([]uint, error)
}

type EventService struct {
	eventStorage        EventStorage
	registrationStorage eventRegistrationCounter
	reminderStorage     reminderEventIDs
}

func NewEventService(
	eventStorage EventStorage,
	registrationStorage eventRegistrationCounter,
	reminderStorage reminderEventIDs,
) *EventService {
	return &EventService{
		eventStorage:        eventStorage,
		registrationStorage: registrationStorage,
		reminderStorage:     reminderStorage,
	}
}

// List returns active events annotated for the given user.
func (s *EventService) List(ctx context.Context, userID uint) ([]dto.Event, error) {
	events, err := s.eventStorage.GetAllActive(ctx)
	if err != nil {
		return nil, err
	}

	ids := make([]uint, 0, len(events))
	for _, event := range events {
		ids = append(ids, event.ID)
	}
	counts, err := s.registrationStorage.CountByEventIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	registered, err := s.registrationStorage.GetEventIDsByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	reminded, err := s.reminderStorage.GetEventIDsByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	result := make([]dto.Event, 0, len(events))
	for _, event := range events {
		result = append(result, dto.NewEventFromEntity(
			event,
			counts[event.ID],
			slices.Contains(registered, event.ID),
			slices.Contains(reminded, event.ID),
		))
	}
	return result, nil
}

// Get returns one active event annotated for the given user.
func (s *EventService) Get(ctx context.Context, id, userID uint) (*dto.Event, error) {
	event, err := s.eventStorage.GetActive(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.annotate(ctx, event, userID)
}

func (s *EventService) Create(ctx context.Context, creatorID uint, input dto.EventInput) (*dto.Event, error) {
	event := entity.Event{
		Category:        entity.CategoryOther,
		CreatedByID:     creatorID,
		MaxParticipants: defaultMaxParticipants,
		IsActive:        true,
	}
	for field, value := range map[string]*string{
		"title":       input.Title,
		"description": input.Description,
		"date":        input.Date,
		"time":        input.Time,
		"location":    input.Location,
	} {
		if value == nil || strings.TrimSpace(*value) == "" {
			return nil, fmt.Errorf("%w: %s is required", errorz.ErrValidation, field)
		}
	}
	if err := applyEventInput(&event, input); err != nil {
		return nil, err
	}

	created, err := s.eventStorage.Create(ctx, &event)
	if err != nil {
		return nil, err
	}
	return s.annotate(ctx, created, creatorID)
}

// Update applies the non-nil fields of input to the event, active or not.
func (s *EventService) Update(ctx context.Context, id, userID uint, input dto.EventInput) (*dto.Event, error) {
	event, err := s.eventStorage.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err = applyEventInput(event, input); err != nil {
		return nil, err
	}

	updated, err := s.eventStorage.Update(ctx, event)
	if err != nil {
		return nil, err
	}
	return s.annotate(ctx, updated, userID)
}

// Delete removes the event together with its registrations and reminders.
func (s *EventService) Delete(ctx context.Context, id uint) error {
	return s.eventStorage.Delete(ctx, id)
}

func (s *EventService) annotate(ctx context.Context, event *entity.Event, userID uint) (*dto.Event, error) {
	count, err := s.registrationStorage.CountByEventID(ctx, event.ID)
	if err != nil {
		return nil, err
	}
	registered, err := s.registrationStorage.GetEventIDsByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	reminded, err := s.reminderStorage.GetEventIDsByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	result := dto.NewEventFromEntity(
		*event,
		count,
		slices.Contains(registered, event.ID),
		slices.Contains(reminded, event.ID),
	)
	return &result, nil
}

func applyEventInput(event *entity.Event, input dto.EventInput) error {
	invalid := func(field string) error {
		return fmt.Errorf("%w: invalid %s", errorz.ErrValidation, field)
	}

	if input.Title != nil {
		title := strings.TrimSpace(*input.Title)
		if !validator.EventTitle(title) {
			return invalid("title")
		}
		event.Title = title
	}
	if input.Description != nil {
		if !validator.EventDescription(strings.TrimSpace(*input.Description)) {
			return invalid("description")
		}
		event.Description = *input.Description
	}
	if input.Date != nil {
		if !validator.EventDate(*input.Date) {
			return fmt.Errorf("%w: date must be YYYY-MM-DD", errorz.ErrValidation)
		}
		event.Date = *input.Date
	}
	if input.Time != nil {
		if !validator.EventTime(*input.Time) {
			return fmt.Errorf("%w: time must be HH:MM", errorz.ErrValidation)
		}
		event.Time = *input.Time
	}
	if input.Location != nil {
		location := strings.TrimSpace(*input.Location)
		if !validator.EventLocation(location) {
			return invalid("location")
		}
		event.Location = location
	}
	if input.Category != nil && *input.Category != "" {
		if !validator.EventCategory(*input.Category) {
			return invalid("category")
		}
		event.Category = entity.Category(*input.Category)
	}
	if input.MaxParticipants != nil {
		if !validator.MaxParticipants(*input.MaxParticipants) {
			return invalid("max_participants")
		}
		event.MaxParticipants = *input.MaxParticipants
	}
	if input.IsActive != nil {
		event.IsActive = *input.IsActive
	}
	return nil
}

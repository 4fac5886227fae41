package service

import (
	"context"
	"time"

	"github.com/mevent/event-manager/backend/internal/domain/dto"
	"github.com/mevent/event-manager/backend/internal/domain/entity"
)

const (
	recentWindow  = 7 * 24 * time.Hour
	topEventsSize = 10
)

type userCounter interface {
	Count(ctx context.Context) (int64, error)
	CountByRole(ctx context.Context, role entity.Role) (int64, error)
}

type eventCounter interface {
	Count(ctx context.Context) (int64, error)
	CountActive(ctx context.Context) (int64, error)
	CountCreatedSince(ctx context.Context, since time.Time) (int64, error)
	CountByCreator(ctx context.Context, userID uint) (int64, error)
	GetRegistrationCounts(ctx context.Context) ([]dto.EventRegistrationCount, error)
	GetTopByRegistrations(ctx context.Context, limit int) ([]dto.EventRegistrationCount, error)
}

type registrationCounter interface {
	Count(ctx context.Context) (int64, error)
	CountSince(ctx context.Context, since time.Time) (int64, error)
	CountByUserID(ctx context.Context, userID uint) (int64, error)
	GetByEventID(ctx context.Context, eventID uint) ([]entity.EventRegistration, error)
}

type pendingReminderCounter interface {
	CountPendingByUserID(ctx context.Context, userID uint) (int64, error)
}

type DashboardService struct {
	userStorage         userCounter
	eventStorage        eventCounter
	registrationStorage registrationCounter
	reminderStorage     pendingReminderCounter

	now func() time.Time
}

func NewDashboardService(
	userStorage userCounter,
	eventStorage eventCounter,
	registrationStorage registrationCounter,
	reminderStorage pendingReminderCounter,
) *DashboardService {
	return &DashboardService{
		userStorage:         userStorage,
		eventStorage:        eventStorage,
		registrationStorage: registrationStorage,
		reminderStorage:     reminderStorage,
		now:                 time.Now,
	}
}

// UserStats summarizes the caller's activity; admins also get their authored
// event count and the number of students.
func (s *DashboardService) UserStats(ctx context.Context, user entity.User) (*dto.UserStats, error) {
	var (
		stats dto.UserStats
		err   error
	)
	if stats.TotalEvents, err = s.eventStorage.CountActive(ctx); err != nil {
		return nil, err
	}
	if stats.MyRegistrations, err = s.registrationStorage.CountByUserID(ctx, user.ID); err != nil {
		return nil, err
	}
	if stats.MyReminders, err = s.reminderStorage.CountPendingByUserID(ctx, user.ID); err != nil {
		return nil, err
	}

	if user.IsAdmin() {
		created, err := s.eventStorage.CountByCreator(ctx, user.ID)
		if err != nil {
			return nil, err
		}
		students, err := s.userStorage.CountByRole(ctx, entity.Student)
		if err != nil {
			return nil, err
		}
		stats.EventsCreated = &created
		stats.TotalUsers = &students
	}
	return &stats, nil
}

func (s *DashboardService) AdminDashboard(ctx context.Context) (*dto.AdminDashboard, error) {
	var (
		stats dto.AdminStats
		err   error
	)
	since := s.now().Add(-recentWindow)

	if stats.TotalUsers, err = s.userStorage.Count(ctx); err != nil {
		return nil, err
	}
	if stats.TotalStudents, err = s.userStorage.CountByRole(ctx, entity.Student); err != nil {
		return nil, err
	}
	if stats.TotalAdmins, err = s.userStorage.CountByRole(ctx, entity.Admin); err != nil {
		return nil, err
	}
	if stats.TotalEvents, err = s.eventStorage.Count(ctx); err != nil {
		return nil, err
	}
	if stats.ActiveEvents, err = s.eventStorage.CountActive(ctx); err != nil {
		return nil, err
	}
	if stats.TotalRegistrations, err = s.registrationStorage.Count(ctx); err != nil {
		return nil, err
	}
	if stats.RecentRegistrations, err = s.registrationStorage.CountSince(ctx, since); err != nil {
		return nil, err
	}
	if stats.RecentEvents, err = s.eventStorage.CountCreatedSince(ctx, since); err != nil {
		return nil, err
	}

	counts, err := s.eventStorage.GetRegistrationCounts(ctx)
	if err != nil {
		return nil, err
	}
	details := make([]dto.EventRegistrationDetails, 0, len(counts))
	for _, c := range counts {
		registrations, err := s.registrationStorage.GetByEventID(ctx, c.EventID)
		if err != nil {
			return nil, err
		}
		views := make([]dto.Registration, 0, len(registrations))
		for _, r := range registrations {
			views = append(views, dto.NewRegistrationFromEntity(r))
		}
		details = append(details, dto.EventRegistrationDetails{
			EventRegistrationCount: c,
			IsFull:                 c.RegistrationCount >= int64(c.MaxParticipants),
			Registrations:          views,
		})
	}

	top, err := s.eventStorage.GetTopByRegistrations(ctx, topEventsSize)
	if err != nil {
		return nil, err
	}

	return &dto.AdminDashboard{
		Stats:                    stats,
		EventRegistrationDetails: details,
		TopEvents:                top,
	}, nil
}

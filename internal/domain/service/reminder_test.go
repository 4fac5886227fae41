package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/mevent/event-manager/backend/internal/domain/common/errorz"
	"github.com/mevent/event-manager/backend/internal/domain/entity"
)

func newTestReminderService(store *fakeReminders, events fakeEvents, now time.Time) *ReminderService {
	s := NewReminderService(store, events)
	s.now = func() time.Time { return now }
	return s
}

func TestReminderSet(t *testing.T) {
	t.Parallel()
	// 2025-01-20 10:00 local is 05:00 UTC.
	events := fakeEvents{1: testEvent(1, "2025-01-20", "10:00")}
	inactive := testEvent(2, "2025-01-20", "10:00")
	inactive.IsActive = false
	events[2] = inactive

	tests := []struct {
		name    string
		now     time.Time
		eventID uint
		lead    entity.LeadTime
		want    time.Time
		wantErr error
	}{
		{
			name:    "default lead",
			now:     time.Date(2025, 1, 18, 0, 0, 0, 0, time.UTC),
			eventID: 1,
			want:    time.Date(2025, 1, 19, 5, 0, 0, 0, time.UTC),
		},
		{
			name:    "fifteen minutes",
			now:     time.Date(2025, 1, 18, 0, 0, 0, 0, time.UTC),
			eventID: 1,
			lead:    entity.LeadFifteenMinutes,
			want:    time.Date(2025, 1, 20, 4, 45, 0, 0, time.UTC),
		},
		{
			name:    "unknown lead",
			now:     time.Date(2025, 1, 18, 0, 0, 0, 0, time.UTC),
			eventID: 1,
			lead:    "2_days",
			wantErr: errorz.ErrValidation,
		},
		{
			name:    "remind time equals now",
			now:     time.Date(2025, 1, 20, 4, 0, 0, 0, time.UTC),
			eventID: 1,
			lead:    entity.LeadOneHour,
			wantErr: errorz.ErrValidation,
		},
		{
			name:    "just in time",
			now:     time.Date(2025, 1, 20, 3, 59, 59, 0, time.UTC),
			eventID: 1,
			lead:    entity.LeadOneHour,
			want:    time.Date(2025, 1, 20, 4, 0, 0, 0, time.UTC),
		},
		{
			name:    "inactive event",
			now:     time.Date(2025, 1, 18, 0, 0, 0, 0, time.UTC),
			eventID: 2,
			wantErr: errorz.ErrNotFound,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			store := newFakeReminders()
			s := newTestReminderService(store, events, tt.now)

			reminder, err := s.Set(context.Background(), 10, tt.eventID, tt.lead)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("err = %v, want %v", err, tt.wantErr)
				}
				if len(store.reminders) != 0 {
					t.Fatal("a rejected reminder was stored")
				}
				return
			}
			if err != nil {
				t.Fatalf("Set: %v", err)
			}
			if !reminder.RemindAt.Equal(tt.want) || reminder.RemindAt.Location() != time.UTC {
				t.Fatalf("remind_at = %v, want %v (UTC)", reminder.RemindAt, tt.want)
			}
			if reminder.IsSent {
				t.Fatal("new reminder is already sent")
			}
		})
	}
}

func TestReminderSetDuplicate(t *testing.T) {
	t.Parallel()
	events := fakeEvents{1: testEvent(1, "2025-01-20", "10:00")}
	store := newFakeReminders()
	s := newTestReminderService(store, events, time.Date(2025, 1, 18, 0, 0, 0, 0, time.UTC))

	first, err := s.Set(context.Background(), 10, 1, entity.LeadOneHour)
	if err != nil {
		t.Fatalf("Set: %v", err)
	}

	_, err = s.Set(context.Background(), 10, 1, entity.LeadOneDay)
	if !errors.Is(err, errorz.ErrValidation) || !errors.Is(err, errorz.ErrConflict) {
		t.Fatalf("duplicate err = %v, want validation conflict", err)
	}
	if got := store.get(first.ID); !got.RemindAt.Equal(first.RemindAt) || len(store.reminders) != 1 {
		t.Fatalf("original reminder changed: %+v", got)
	}

	if _, err = s.Set(context.Background(), 11, 1, entity.LeadOneDay); err != nil {
		t.Fatalf("another user's reminder: %v", err)
	}
}

func TestReminderCancel(t *testing.T) {
	t.Parallel()
	events := fakeEvents{1: testEvent(1, "2025-01-20", "10:00")}
	store := newFakeReminders()
	s := newTestReminderService(store, events, time.Date(2025, 1, 18, 0, 0, 0, 0, time.UTC))

	if _, err := s.Set(context.Background(), 10, 1, ""); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if err := s.Cancel(context.Background(), 10, 1); err != nil {
		t.Fatalf("Cancel: %v", err)
	}
	if err := s.Cancel(context.Background(), 10, 1); !errors.Is(err, errorz.ErrNotFound) {
		t.Fatalf("second Cancel err = %v, want ErrNotFound", err)
	}
	count, err := s.CountPending(context.Background(), 10)
	if err != nil || count != 0 {
		t.Fatalf("CountPending = %d, %v; want 0", count, err)
	}
}

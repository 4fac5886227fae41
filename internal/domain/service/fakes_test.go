package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/mevent/event-manager/backend/internal/domain/common/errorz"
	"github.com/mevent/event-manager/backend/internal/domain/entity"
	"github.com/mevent/event-manager/backend/pkg/smtp"
)

type fakeReminders struct {
	mu        sync.Mutex
	nextID    uint
	reminders map[uint]*entity.Reminder
	markCalls int
}

func newFakeReminders(reminders ...entity.Reminder) *fakeReminders {
	f := &fakeReminders{reminders: make(map[uint]*entity.Reminder)}
	for i := range reminders {
		r := reminders[i]
		f.reminders[r.ID] = &r
		if r.ID > f.nextID {
			f.nextID = r.ID
		}
	}
	return f
}

func (f *fakeReminders) get(id uint) entity.Reminder {
	f.mu.Lock()
	defer f.mu.Unlock()
	return *f.reminders[id]
}

func (f *fakeReminders) Create(_ context.Context, reminder *entity.Reminder) (*entity.Reminder, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, r := range f.reminders {
		if r.UserID == reminder.UserID && r.EventID == reminder.EventID {
			return nil, fmt.Errorf("create reminder: %w", errorz.ErrConflict)
		}
	}
	f.nextID++
	reminder.ID = f.nextID
	stored := *reminder
	f.reminders[stored.ID] = &stored
	return reminder, nil
}

func (f *fakeReminders) Get(_ context.Context, userID, eventID uint) (*entity.Reminder, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, r := range f.reminders {
		if r.UserID == userID && r.EventID == eventID {
			found := *r
			return &found, nil
		}
	}
	return nil, fmt.Errorf("get reminder: %w", errorz.ErrNotFound)
}

func (f *fakeReminders) Delete(_ context.Context, userID, eventID uint) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for id, r := range f.reminders {
		if r.UserID == userID && r.EventID == eventID {
			delete(f.reminders, id)
			return nil
		}
	}
	return fmt.Errorf("delete reminder: %w", errorz.ErrNotFound)
}

func (f *fakeReminders) GetPendingByUserID(_ context.Context, userID uint) ([]entity.Reminder, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []entity.Reminder
	for _, r := range f.reminders {
		if r.UserID == userID && !r.IsSent {
			out = append(out, *r)
		}
	}
	return out, nil
}

func (f *fakeReminders) CountPendingByUserID(ctx context.Context, userID uint) (int64, error) {
	pending, err := f.GetPendingByUserID(ctx, userID)
	return int64(len(pending)), err
}

func (f *fakeReminders) GetEventIDsByUserID(_ context.Context, userID uint) ([]uint, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var ids []uint
	for _, r := range f.reminders {
		if r.UserID == userID {
			ids = append(ids, r.EventID)
		}
	}
	return ids, nil
}

func (f *fakeReminders) FindDue(_ context.Context, threshold time.Time) ([]entity.Reminder, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []entity.Reminder
	for _, r := range f.reminders {
		if !r.IsSent && !r.RemindAt.After(threshold) {
			out = append(out, *r)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].RemindAt.Equal(out[j].RemindAt) {
			return out[i].RemindAt.Before(out[j].RemindAt)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (f *fakeReminders) MarkSent(_ context.Context, id uint) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.markCalls++
	r, ok := f.reminders[id]
	switch {
	case !ok:
		return errorz.ErrNotFound
	case r.IsSent:
		return errorz.ErrAlreadySent
	}
	r.IsSent = true
	return nil
}

func (f *fakeReminders) MarkUnsent(_ context.Context, id uint) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	r, ok := f.reminders[id]
	if !ok || !r.IsSent {
		return errorz.ErrNotFound
	}
	r.IsSent = false
	return nil
}

type fakeMailer struct {
	mu     sync.Mutex
	sent   []smtp.Message
	failTo map[string]bool
}

var errMailboxUnavailable = errors.New("mailbox unavailable")

func (m *fakeMailer) Send(_ context.Context, msg smtp.Message) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failTo[msg.To] {
		return errMailboxUnavailable
	}
	m.sent = append(m.sent, msg)
	return nil
}

func (m *fakeMailer) messages() []smtp.Message {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]smtp.Message(nil), m.sent...)
}

type fakeEvents map[uint]entity.Event

func (f fakeEvents) GetActive(_ context.Context, id uint) (*entity.Event, error) {
	event, ok := f[id]
	if !ok || !event.IsActive {
		return nil, fmt.Errorf("get active event: %w", errorz.ErrNotFound)
	}
	return &event, nil
}

func testEvent(id uint, date, clock string) entity.Event {
	return entity.Event{
		ID:          id,
		Title:       fmt.Sprintf("Event %d", id),
		Description: "Talks and coffee",
		Date:        date,
		Time:        clock,
		Location:    "Main Hall",
		Category:    entity.CategorySeminar,
		IsActive:    true,
	}
}

func testUser(id uint) entity.User {
	return entity.User{
		ID:       id,
		Email:    fmt.Sprintf("user%d@uni.edu", id),
		Name:     fmt.Sprintf("User %d", id),
		Role:     entity.Student,
		IsActive: true,
	}
}

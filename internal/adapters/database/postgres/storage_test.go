package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/mevent/event-manager/backend/internal/domain/common/errorz"
	"github.com/mevent/event-manager/backend/internal/domain/entity"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         gormLogger.Default.LogMode(gormLogger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err = db.AutoMigrate(Migrations...); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, errDB := db.DB(); errDB == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}

type fixture struct {
	db        *gorm.DB
	users     *UserStorage
	events    *EventStorage
	reminders *ReminderStorage
	regs      *EventRegistrationStorage
}

func newFixture(t *testing.T) *fixture {
	db := openTestDB(t)
	return &fixture{
		db:        db,
		users:     NewUserStorage(db),
		events:    NewEventStorage(db),
		reminders: NewReminderStorage(db),
		regs:      NewEventRegistrationStorage(db),
	}
}

func (f *fixture) user(t *testing.T, email string) *entity.User {
	t.Helper()
	u, err := f.users.Create(context.Background(), &entity.User{
		Email:        email,
		Name:         strings.Split(email, "@")[0],
		PasswordHash: "x",
		Role:         entity.Student,
		IsActive:     true,
	})
	if err != nil {
		t.Fatalf("create user: %v", err)
	}
	return u
}

func (f *fixture) event(t *testing.T, creator uint, title string) *entity.Event {
	t.Helper()
	e, err := f.events.Create(context.Background(), &entity.Event{
		Title:           title,
		Description:     "desc",
		Date:            "2025-01-15",
		Time:            "23:40",
		Location:        "Main hall",
		Category:        entity.CategorySeminar,
		CreatedByID:     creator,
		MaxParticipants: 10,
		IsActive:        true,
	})
	if err != nil {
		t.Fatalf("create event: %v", err)
	}
	return e
}

func (f *fixture) reminder(t *testing.T, userID, eventID uint, at time.Time, sent bool) *entity.Reminder {
	t.Helper()
	r, err := f.reminders.Create(context.Background(), &entity.Reminder{UserID: userID, EventID: eventID, RemindAt: at})
	if err != nil {
		t.Fatalf("create reminder: %v", err)
	}
	if sent {
		if err = f.reminders.MarkSent(context.Background(), r.ID); err != nil {
			t.Fatalf("mark sent: %v", err)
		}
	}
	return r
}

func TestReminderFindDue(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	base := time.Date(2025, 1, 15, 17, 0, 0, 0, time.UTC)

	alice := f.user(t, "alice@uni.edu")
	bob := f.user(t, "bob@uni.edu")
	e1 := f.event(t, alice.ID, "Robotics seminar")
	e2 := f.event(t, alice.ID, "Chess finals")
	e3 := f.event(t, alice.ID, "Career fair")

	late := f.reminder(t, alice.ID, e1.ID, base.Add(40*time.Minute), false)
	early := f.reminder(t, bob.ID, e1.ID, base.Add(10*time.Minute), false)
	f.reminder(t, alice.ID, e2.ID, base.Add(5*time.Minute), true)
	f.reminder(t, bob.ID, e2.ID, base.Add(2*time.Hour), false)
	tie := f.reminder(t, bob.ID, e3.ID, base.Add(40*time.Minute), false)

	due, err := f.reminders.FindDue(ctx, base.Add(41*time.Minute))
	if err != nil {
		t.Fatalf("FindDue: %v", err)
	}

	want := []uint{early.ID, late.ID, tie.ID}
	if len(due) != len(want) {
		t.Fatalf("FindDue returned %d reminders, want %d", len(due), len(want))
	}
	for i, r := range due {
		if r.ID != want[i] {
			t.Fatalf("due[%d].ID = %d, want %d", i, r.ID, want[i])
		}
		if r.IsSent {
			t.Fatalf("due[%d] is already sent", i)
		}
		if r.User.Email == "" || r.Event.Title == "" {
			t.Fatalf("due[%d] missing preloaded user or event: %+v", i, r)
		}
	}

	due, err = f.reminders.FindDue(ctx, base)
	if err != nil {
		t.Fatalf("FindDue: %v", err)
	}
	if len(due) != 0 {
		t.Fatalf("expected nothing due at %v, got %d", base, len(due))
	}
}

func TestReminderCreateConflict(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	u := f.user(t, "carol@uni.edu")
	e := f.event(t, u.ID, "Hackathon")
	at := time.Date(2025, 1, 14, 18, 40, 0, 0, time.UTC)

	original := f.reminder(t, u.ID, e.ID, at, false)

	_, err := f.reminders.Create(ctx, &entity.Reminder{UserID: u.ID, EventID: e.ID, RemindAt: at.Add(time.Hour)})
	if !errors.Is(err, errorz.ErrConflict) {
		t.Fatalf("second Create error = %v, want ErrConflict", err)
	}

	got, err := f.reminders.Get(ctx, u.ID, e.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.ID != original.ID || !got.RemindAt.Equal(at) {
		t.Fatalf("original reminder changed: %+v", got)
	}
}

func TestReminderMarkSentIsConditional(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	u := f.user(t, "dave@uni.edu")
	e := f.event(t, u.ID, "Debate club")
	r := f.reminder(t, u.ID, e.ID, time.Now().Add(-time.Minute), false)

	if err := f.reminders.MarkSent(ctx, r.ID); err != nil {
		t.Fatalf("first MarkSent: %v", err)
	}
	if err := f.reminders.MarkSent(ctx, r.ID); !errors.Is(err, errorz.ErrAlreadySent) {
		t.Fatalf("second MarkSent error = %v, want ErrAlreadySent", err)
	}
	if err := f.reminders.MarkSent(ctx, r.ID+100); !errors.Is(err, errorz.ErrNotFound) {
		t.Fatalf("MarkSent on missing id error = %v, want ErrNotFound", err)
	}

	if err := f.reminders.MarkUnsent(ctx, r.ID); err != nil {
		t.Fatalf("MarkUnsent: %v", err)
	}
	pending, err := f.reminders.GetPendingByUserID(ctx, u.ID)
	if err != nil {
		t.Fatalf("GetPendingByUserID: %v", err)
	}
	if len(pending) != 1 || pending[0].ID != r.ID {
		t.Fatalf("expected reminder to be pending again, got %+v", pending)
	}
}

func TestReminderDelete(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	u := f.user(t, "erin@uni.edu")
	e := f.event(t, u.ID, "Film night")
	f.reminder(t, u.ID, e.ID, time.Now().Add(time.Hour), false)

	if err := f.reminders.Delete(ctx, u.ID, e.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if err := f.reminders.Delete(ctx, u.ID, e.ID); !errors.Is(err, errorz.ErrNotFound) {
		t.Fatalf("second Delete error = %v, want ErrNotFound", err)
	}
	count, err := f.reminders.CountPendingByUserID(ctx, u.ID)
	if err != nil {
		t.Fatalf("CountPendingByUserID: %v", err)
	}
	if count != 0 {
		t.Fatalf("pending count = %d, want 0", count)
	}
}

func TestEventDeleteRemovesDependents(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	u := f.user(t, "frank@uni.edu")
	e := f.event(t, u.ID, "Open day")
	f.reminder(t, u.ID, e.ID, time.Now().Add(time.Hour), false)
	if _, err := f.regs.Create(ctx, &entity.EventRegistration{UserID: u.ID, EventID: e.ID, Name: "Frank"}); err != nil {
		t.Fatalf("create registration: %v", err)
	}

	if err := f.events.Delete(ctx, e.ID); err != nil {
		t.Fatalf("Delete event: %v", err)
	}
	if _, err := f.events.Get(ctx, e.ID); !errors.Is(err, errorz.ErrNotFound) {
		t.Fatalf("Get deleted event error = %v, want ErrNotFound", err)
	}
	if _, err := f.reminders.Get(ctx, u.ID, e.ID); !errors.Is(err, errorz.ErrNotFound) {
		t.Fatalf("reminder survived event deletion: %v", err)
	}
	if n, _ := f.regs.Count(ctx); n != 0 {
		t.Fatalf("registrations left = %d, want 0", n)
	}
	if err := f.events.Delete(ctx, e.ID); !errors.Is(err, errorz.ErrNotFound) {
		t.Fatalf("second Delete error = %v, want ErrNotFound", err)
	}
}

func TestRegistrationCounts(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	admin := f.user(t, "admin@uni.edu")
	s1 := f.user(t, "s1@uni.edu")
	s2 := f.user(t, "s2@uni.edu")
	busy := f.event(t, admin.ID, "Busy")
	quiet := f.event(t, admin.ID, "Quiet")
	f.event(t, admin.ID, "Empty")

	for _, r := range []entity.EventRegistration{
		{UserID: s1.ID, EventID: busy.ID},
		{UserID: s2.ID, EventID: busy.ID},
		{UserID: s1.ID, EventID: quiet.ID},
	} {
		r := r
		if _, err := f.regs.Create(ctx, &r); err != nil {
			t.Fatalf("create registration: %v", err)
		}
	}

	if _, err := f.regs.Create(ctx, &entity.EventRegistration{UserID: s1.ID, EventID: busy.ID}); !errors.Is(err, errorz.ErrConflict) {
		t.Fatalf("duplicate registration error = %v, want ErrConflict", err)
	}

	counts, err := f.regs.CountByEventIDs(ctx, []uint{busy.ID, quiet.ID})
	if err != nil {
		t.Fatalf("CountByEventIDs: %v", err)
	}
	if counts[busy.ID] != 2 || counts[quiet.ID] != 1 {
		t.Fatalf("unexpected counts: %v", counts)
	}

	top, err := f.events.GetTopByRegistrations(ctx, 10)
	if err != nil {
		t.Fatalf("GetTopByRegistrations: %v", err)
	}
	if len(top) != 2 || top[0].EventID != busy.ID || top[0].RegistrationCount != 2 {
		t.Fatalf("unexpected top events: %+v", top)
	}

	all, err := f.events.GetRegistrationCounts(ctx)
	if err != nil {
		t.Fatalf("GetRegistrationCounts: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("GetRegistrationCounts returned %d rows, want 3", len(all))
	}
}

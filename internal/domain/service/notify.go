package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/mevent/event-manager/backend/internal/domain/common/errorz"
	"github.com/mevent/event-manager/backend/internal/domain/entity"
	"github.com/mevent/event-manager/backend/internal/domain/utils/calendar"
	"github.com/mevent/event-manager/backend/internal/domain/utils/location"
	"github.com/mevent/event-manager/backend/internal/domain/utils/timing"
	"github.com/mevent/event-manager/backend/pkg/logger/types"
	"github.com/mevent/event-manager/backend/pkg/smtp"
)

type dueReminderStorage interface {
	FindDue(ctx context.Context, threshold time.Time) ([]entity.Reminder, error)
	MarkSent(ctx context.Context, id uint) error
	MarkUnsent(ctx context.Context, id uint) error
}

type mailer interface {
	Send(ctx context.Context, msg smtp.Message) error
}

// DeliveryStatus is the outcome of one reminder within a pass.
type DeliveryStatus string

const (
	Delivered DeliveryStatus = "delivered"
	Failed    DeliveryStatus = "failed"
	// Skipped means another pass claimed the reminder first or it was cancelled
	// after selection.
	Skipped DeliveryStatus = "skipped"
	// Simulated is reported for every reminder of a dry run.
	Simulated DeliveryStatus = "simulated"
)

type DeliveryResult struct {
	Reminder entity.Reminder
	Status   DeliveryStatus
	Err      error
}

type PassOptions struct {
	Lookahead time.Duration
	DryRun    bool
}

type PassSummary struct {
	Selected  int
	Delivered int
	Failed    int
	Skipped   int
	Results   []DeliveryResult
}

// NotifyService finds due reminders and emails them.
type NotifyService struct {
	storage dueReminderStorage
	mailer  mailer
	logger  *types.Logger

	offset time.Duration
	now    func() time.Time
}

func NewNotifyService(
	logger *types.Logger,
	storage dueReminderStorage,
	mailer mailer,
) *NotifyService {
	return &NotifyService{
		storage: storage,
		mailer:  mailer,
		logger:  logger,
		offset:  location.LocalEventOffset,
		now:     time.Now,
	}
}

// SelectDue returns unsent reminders due at asOf+lookahead, oldest first.
func (s *NotifyService) SelectDue(ctx context.Context, asOf time.Time, lookahead time.Duration) ([]entity.Reminder, error) {
	return s.storage.FindDue(ctx, asOf.Add(lookahead))
}

// RunPass selects due reminders and delivers them one by one. A failing reminder
// never stops the pass; only a failed selection is returned as an error.
func (s *NotifyService) RunPass(ctx context.Context, asOf time.Time, opts PassOptions) (PassSummary, error) {
	due, err := s.SelectDue(ctx, asOf, opts.Lookahead)
	if err != nil {
		return PassSummary{}, fmt.Errorf("select due reminders: %w", err)
	}

	summary := PassSummary{
		Selected: len(due),
		Results:  make([]DeliveryResult, 0, len(due)),
	}
	if len(due) == 0 {
		s.logger.Debugf("No reminders due (as_of=%s)", asOf.UTC().Format(time.RFC3339))
		return summary, nil
	}
	s.logger.Infof("Found %d reminder(s) to send (dry_run=%t)", len(due), opts.DryRun)

	for _, reminder := range due {
		var result DeliveryResult
		if opts.DryRun {
			s.logger.Infof(
				"[DRY RUN] Would send reminder (reminder_id=%d, email=%s, event=%q)",
				reminder.ID, reminder.User.Email, reminder.Event.Title,
			)
			result = DeliveryResult{Reminder: reminder, Status: Simulated}
		} else {
			result = s.Deliver(ctx, reminder)
		}

		switch result.Status {
		case Delivered:
			summary.Delivered++
		case Failed:
			summary.Failed++
		case Skipped:
			summary.Skipped++
		}
		summary.Results = append(summary.Results, result)
	}

	if !opts.DryRun {
		s.logger.Infof("Reminder pass finished (sent=%d, failed=%d, skipped=%d)", summary.Delivered, summary.Failed, summary.Skipped)
	}
	return summary, nil
}

// Deliver claims the reminder, emails its owner and keeps the claim only when the
// email went out. A reminder already claimed by someone else, or deleted since it
// was selected, is Skipped.
func (s *NotifyService) Deliver(ctx context.Context, reminder entity.Reminder) DeliveryResult {
	if err := s.storage.MarkSent(ctx, reminder.ID); err != nil {
		if errors.Is(err, errorz.ErrAlreadySent) {
			s.logger.Debugf("Reminder already claimed (reminder_id=%d)", reminder.ID)
			return DeliveryResult{Reminder: reminder, Status: Skipped, Err: err}
		}
		if errors.Is(err, errorz.ErrNotFound) {
			s.logger.Infof("Reminder cancelled before delivery (reminder_id=%d)", reminder.ID)
			return DeliveryResult{Reminder: reminder, Status: Skipped, Err: err}
		}
		s.logger.Errorf("failed to claim reminder %d: %v", reminder.ID, err)
		return DeliveryResult{Reminder: reminder, Status: Failed, Err: err}
	}
	reminder.IsSent = true

	msg, err := s.compose(reminder)
	if err == nil {
		err = s.mailer.Send(ctx, msg)
	}
	if err != nil {
		err = fmt.Errorf("%w: %w", errorz.ErrDelivery, err)
		s.logger.Errorf(
			"Failed to send reminder (reminder_id=%d, email=%s, event=%q): %v",
			reminder.ID, reminder.User.Email, reminder.Event.Title, err,
		)
		if errUnmark := s.storage.MarkUnsent(context.WithoutCancel(ctx), reminder.ID); errUnmark != nil {
			s.logger.Errorf("failed to release reminder %d: %v", reminder.ID, errUnmark)
		} else {
			reminder.IsSent = false
		}
		return DeliveryResult{Reminder: reminder, Status: Failed, Err: err}
	}

	s.logger.Infof(
		"Sent reminder (reminder_id=%d, email=%s, event=%q)",
		reminder.ID, reminder.User.Email, reminder.Event.Title,
	)
	return DeliveryResult{Reminder: reminder, Status: Delivered}
}

func (s *NotifyService) compose(reminder entity.Reminder) (smtp.Message, error) {
	user := reminder.User
	event := reminder.Event

	start, err := event.StartsAt()
	if err != nil {
		return smtp.Message{}, err
	}
	now := s.now()
	local := location.ToLocal(start, s.offset)

	var body strings.Builder
	fmt.Fprintf(&body, "Hello %s,\n\n", user.Name)
	body.WriteString("This is a reminder about your upcoming event:\n\n")
	fmt.Fprintf(&body, "Event: %s\n", event.Title)
	fmt.Fprintf(&body, "Date & Time: %s at %s\n", local.Format("January 02, 2006"), local.Format("03:04 PM"))
	fmt.Fprintf(&body, "Location: %s\n", event.Location)
	fmt.Fprintf(&body, "Category: %s\n\n", event.Category.Display())
	fmt.Fprintf(&body, "The event is %s.\n\n", timing.Until(start.Sub(now)))
	fmt.Fprintf(&body, "Description:\n%s\n\n", event.Description)
	body.WriteString("We look forward to seeing you there!\n\n")
	body.WriteString("Best regards,\nEvent Manager Team")

	msg := smtp.Message{
		To:      user.Email,
		Subject: fmt.Sprintf("Reminder: %s - Event Manager", event.Title),
		Body:    body.String(),
	}

	ics, err := calendar.ExportEventToICS(event, start, now)
	if err != nil {
		s.logger.Warnf("failed to build calendar attachment for event %d: %v", event.ID, err)
	} else {
		msg.Attachments = append(msg.Attachments, smtp.Attachment{
			Name:        "event.ics",
			ContentType: "text/calendar; charset=utf-8; method=PUBLISH",
			Data:        ics,
		})
	}

	return msg, nil
}

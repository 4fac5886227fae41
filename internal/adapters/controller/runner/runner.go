package runner

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/mevent/event-manager/backend/internal/domain/common/errorz"
	"github.com/mevent/event-manager/backend/internal/domain/service"
)

type reminderEngine interface {
	RunPass(ctx context.Context, asOf time.Time, opts service.PassOptions) (service.PassSummary, error)
}

type Options struct {
	DryRun        bool
	MinutesBefore int
}

// Run performs one delivery pass at now and writes an operator report to w.
func Run(ctx context.Context, engine reminderEngine, w io.Writer, now time.Time, opts Options) (service.PassSummary, error) {
	if opts.MinutesBefore < 0 {
		return service.PassSummary{}, fmt.Errorf("minutes-before must not be negative, got %d", opts.MinutesBefore)
	}

	summary, err := engine.RunPass(ctx, now, service.PassOptions{
		Lookahead: time.Duration(opts.MinutesBefore) * time.Minute,
		DryRun:    opts.DryRun,
	})
	if err != nil {
		return summary, err
	}

	if summary.Selected == 0 {
		fmt.Fprintln(w, "No reminders to send at this time.")
		return summary, nil
	}
	fmt.Fprintf(w, "Found %d reminder(s) to send.\n", summary.Selected)

	for _, result := range summary.Results {
		email := result.Reminder.User.Email
		title := result.Reminder.Event.Title

		switch result.Status {
		case service.Simulated:
			fmt.Fprintf(w, "[DRY RUN] Would send reminder to %s for event: %s\n", email, title)
		case service.Delivered:
			fmt.Fprintf(w, "✓ Sent reminder to %s for event: %s\n", email, title)
		case service.Failed:
			fmt.Fprintf(w, "✗ Failed to send reminder to %s for event: %s: %v\n", email, title, result.Err)
		case service.Skipped:
			reason := "already sent"
			if errors.Is(result.Err, errorz.ErrNotFound) {
				reason = "cancelled"
			}
			fmt.Fprintf(w, "- Skipped reminder to %s for event: %s (%s)\n", email, title, reason)
		}
	}

	if !opts.DryRun {
		fmt.Fprintf(w, "\nSummary: sent=%d failed=%d\n", summary.Delivered, summary.Failed)
	}
	return summary, nil
}

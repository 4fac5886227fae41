package runner

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/mevent/event-manager/backend/internal/domain/common/errorz"
	"github.com/mevent/event-manager/backend/internal/domain/entity"
	"github.com/mevent/event-manager/backend/internal/domain/service"
)

type fakeEngine struct {
	got     service.PassOptions
	asOf    time.Time
	results []service.DeliveryResult
	err     error
}

func (e *fakeEngine) RunPass(_ context.Context, asOf time.Time, opts service.PassOptions) (service.PassSummary, error) {
	e.got = opts
	e.asOf = asOf
	if e.err != nil {
		return service.PassSummary{}, e.err
	}
	summary := service.PassSummary{Selected: len(e.results), Results: e.results}
	for _, r := range e.results {
		switch r.Status {
		case service.Delivered:
			summary.Delivered++
		case service.Failed:
			summary.Failed++
		case service.Skipped:
			summary.Skipped++
		}
	}
	return summary, nil
}

func result(email, title string, status service.DeliveryStatus, err error) service.DeliveryResult {
	return service.DeliveryResult{
		Reminder: entity.Reminder{
			User:  entity.User{Email: email},
			Event: entity.Event{Title: title},
		},
		Status: status,
		Err:    err,
	}
}

func TestRunNothingDue(t *testing.T) {
	t.Parallel()
	var out bytes.Buffer
	if _, err := Run(context.Background(), &fakeEngine{}, &out, time.Now(), Options{}); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if got := out.String(); got != "No reminders to send at this time.\n" {
		t.Fatalf("output = %q", got)
	}
}

func TestRunReport(t *testing.T) {
	t.Parallel()
	now := time.Date(2025, 1, 15, 12, 0, 0, 0, time.UTC)
	engine := &fakeEngine{results: []service.DeliveryResult{
		result("a@uni.edu", "Hackathon", service.Delivered, nil),
		result("b@uni.edu", "Hackathon", service.Failed, errors.New("smtp timeout")),
	}}

	var out bytes.Buffer
	summary, err := Run(context.Background(), engine, &out, now, Options{MinutesBefore: 10})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if engine.got.Lookahead != 10*time.Minute || engine.got.DryRun || !engine.asOf.Equal(now) {
		t.Fatalf("engine called with %+v at %v", engine.got, engine.asOf)
	}
	if summary.Delivered != 1 || summary.Failed != 1 {
		t.Fatalf("summary = %+v", summary)
	}

	want := []string{
		"Found 2 reminder(s) to send.",
		"✓ Sent reminder to a@uni.edu for event: Hackathon",
		"✗ Failed to send reminder to b@uni.edu for event: Hackathon: smtp timeout",
		"Summary: sent=1 failed=1",
	}
	for _, line := range want {
		if !strings.Contains(out.String(), line) {
			t.Fatalf("output is missing %q:\n%s", line, out.String())
		}
	}
}

func TestRunReportsSkipReasons(t *testing.T) {
	t.Parallel()
	engine := &fakeEngine{results: []service.DeliveryResult{
		result("a@uni.edu", "Hackathon", service.Skipped, errorz.ErrAlreadySent),
		result("b@uni.edu", "Hackathon", service.Skipped, errorz.ErrNotFound),
	}}

	var out bytes.Buffer
	summary, err := Run(context.Background(), engine, &out, time.Now(), Options{})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if summary.Failed != 0 || summary.Skipped != 2 {
		t.Fatalf("summary = %+v", summary)
	}
	want := []string{
		"- Skipped reminder to a@uni.edu for event: Hackathon (already sent)",
		"- Skipped reminder to b@uni.edu for event: Hackathon (cancelled)",
		"Summary: sent=0 failed=0",
	}
	for _, line := range want {
		if !strings.Contains(out.String(), line) {
			t.Fatalf("output is missing %q:\n%s", line, out.String())
		}
	}
}

func TestRunDryRunOmitsSummary(t *testing.T) {
	t.Parallel()
	engine := &fakeEngine{results: []service.DeliveryResult{
		result("a@uni.edu", "Hackathon", service.Simulated, nil),
	}}

	var out bytes.Buffer
	if _, err := Run(context.Background(), engine, &out, time.Now(), Options{DryRun: true}); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if !engine.got.DryRun {
		t.Fatal("dry run flag was not passed to the engine")
	}
	if !strings.Contains(out.String(), "[DRY RUN] Would send reminder to a@uni.edu for event: Hackathon") {
		t.Fatalf("output = %q", out.String())
	}
	if strings.Contains(out.String(), "Summary:") {
		t.Fatalf("dry run printed a summary:\n%s", out.String())
	}
}

func TestRunRejectsNegativeLookahead(t *testing.T) {
	t.Parallel()
	engine := &fakeEngine{}
	if _, err := Run(context.Background(), engine, &bytes.Buffer{}, time.Now(), Options{MinutesBefore: -1}); err == nil {
		t.Fatal("expected an error for a negative lookahead")
	}
}

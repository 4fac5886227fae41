package calendar

import (
	"strings"
	"testing"
	"time"

	"github.com/mevent/event-manager/backend/internal/domain/entity"
)

func TestExportEventToICS(t *testing.T) {
	t.Parallel()
	event := entity.Event{ID: 7, Title: "Robotics seminar", Description: "Bring a laptop", Location: "Lab 3"}
	start := time.Date(2025, 1, 15, 18, 40, 0, 0, time.UTC)

	data, err := ExportEventToICS(event, start, start.Add(-time.Hour))
	if err != nil {
		t.Fatalf("ExportEventToICS: %v", err)
	}

	out := string(data)
	for _, want := range []string{
		"BEGIN:VCALENDAR",
		"UID:event-7@event-manager",
		"SUMMARY:Robotics seminar",
		"LOCATION:Lab 3",
		"DTSTART:20250115T184000Z",
		"DTEND:20250115T194000Z",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("calendar missing %q:\n%s", want, out)
		}
	}
}

package calendar

import (
	"bytes"
	"fmt"
	"time"

	ics "github.com/arran4/golang-ical"
	"github.com/mevent/event-manager/backend/internal/domain/entity"
)

// DefaultDuration is used as the event length since events only carry a start.
const DefaultDuration = time.Hour

// ExportEventToICS converts an event starting at start (UTC) into an iCalendar
// (.ics) document suitable for attaching to an email.
func ExportEventToICS(event entity.Event, start time.Time, now time.Time) ([]byte, error) {
	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId("-//Event Manager//EN")
	cal.SetVersion("2.0")
	cal.SetCalscale("GREGORIAN")

	e := cal.AddEvent(fmt.Sprintf("event-%d@event-manager", event.ID))
	e.SetDtStampTime(now)
	e.SetCreatedTime(event.CreatedAt)
	e.SetModifiedAt(event.UpdatedAt)
	e.SetStartAt(start)
	e.SetEndAt(start.Add(DefaultDuration))
	e.SetSummary(event.Title)
	e.SetDescription(event.Description)
	e.SetLocation(event.Location)
	e.SetStatus(ics.ObjectStatusConfirmed)
	e.SetTimeTransparency(ics.TransparencyOpaque)
	e.SetClass(ics.ClassificationPublic)
	e.SetSequence(0)

	var buf bytes.Buffer
	if err := cal.SerializeTo(&buf); err != nil {
		return nil, fmt.Errorf("error serializing calendar: %w", err)
	}

	return buf.Bytes(), nil
}

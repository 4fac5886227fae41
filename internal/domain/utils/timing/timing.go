package timing

import (
	"fmt"
	"time"

	"github.com/mevent/event-manager/backend/internal/domain/entity"
)

// RemindAt returns the instant a reminder with the given lead time should fire for
// an event starting at eventStart. Unknown lead times fall back to the default.
func RemindAt(eventStart time.Time, lead entity.LeadTime) time.Time {
	d, ok := lead.Duration()
	if !ok {
		d, _ = entity.DefaultLeadTime.Duration()
	}
	return eventStart.Add(-d)
}

// Until renders how far away an event is, e.g. "3 hour(s) from now".
//
// The largest whole unit wins: days when at least a day remains, hours when at
// least an hour remains, minutes otherwise. Values are floored and negative
// durations are reported as zero minutes.
func Until(remaining time.Duration) string {
	switch {
	case remaining >= 24*time.Hour:
		return fmt.Sprintf("%d day(s) from now", remaining/(24*time.Hour))
	case remaining >= time.Hour:
		return fmt.Sprintf("%d hour(s) from now", remaining/time.Hour)
	case remaining > 0:
		return fmt.Sprintf("%d minute(s) from now", remaining/time.Minute)
	default:
		return "0 minute(s) from now"
	}
}

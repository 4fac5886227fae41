package location

import (
	"testing"
	"time"
)

func TestResolveSubtractsOffset(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name  string
		date  time.Time
		clock time.Time
		want  time.Time
	}{
		{
			name:  "late evening",
			date:  time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC),
			clock: time.Date(0, 1, 1, 23, 40, 0, 0, time.UTC),
			want:  time.Date(2025, 1, 15, 18, 40, 0, 0, time.UTC),
		},
		{
			name:  "crosses midnight backwards",
			date:  time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC),
			clock: time.Date(0, 1, 1, 2, 15, 0, 0, time.UTC),
			want:  time.Date(2025, 2, 28, 21, 15, 0, 0, time.UTC),
		},
		{
			name:  "ignores input locations",
			date:  time.Date(2025, 6, 10, 0, 0, 0, 0, time.FixedZone("x", -7*3600)),
			clock: time.Date(0, 1, 1, 9, 0, 0, 0, time.FixedZone("y", 3600)),
			want:  time.Date(2025, 6, 10, 4, 0, 0, 0, time.UTC),
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			got := Resolve(tt.date, tt.clock, LocalEventOffset)
			if !got.Equal(tt.want) {
				t.Fatalf("Resolve = %v, want %v", got, tt.want)
			}
			if got.Location() != time.UTC {
				t.Fatalf("Resolve location = %v, want UTC", got.Location())
			}
		})
	}
}

func TestResolveRoundTrip(t *testing.T) {
	t.Parallel()
	date := time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC)
	clock := time.Date(0, 1, 1, 23, 40, 0, 0, time.UTC)

	back := ToLocal(Resolve(date, clock, LocalEventOffset), LocalEventOffset)
	want := time.Date(2025, 1, 15, 23, 40, 0, 0, time.UTC)
	if !back.Equal(want) {
		t.Fatalf("round trip = %v, want %v", back, want)
	}
}

func TestLocationOffset(t *testing.T) {
	t.Parallel()
	_, offset := time.Date(2025, 7, 1, 12, 0, 0, 0, Location()).Zone()
	if time.Duration(offset)*time.Second != LocalEventOffset {
		t.Fatalf("zone offset = %ds, want %v", offset, LocalEventOffset)
	}
}

package reconcile

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GoEnrollSync/GoEnrollSync/internal/registry"
)

func TestNormalizePeriod(t *testing.T) {
	now := time.Date(2026, time.January, 15, 12, 0, 0, 0, time.UTC)

	testCases := []struct {
		name          string
		raw           *registry.ValidityPeriod
		wantStart     *time.Time
		wantEnd       *time.Time
		wantActiveNow bool
	}{
		{
			name:          "nil interval is an open window",
			raw:           nil,
			wantActiveNow: true,
		},
		{
			name:          "date start without end",
			raw:           &registry.ValidityPeriod{Start: "2025-08-01"},
			wantStart:     timePtr(time.Date(2025, time.August, 1, 0, 0, 0, 0, time.UTC)),
			wantActiveNow: true,
		},
		{
			name:          "date-time text is truncated to its date",
			raw:           &registry.ValidityPeriod{Start: "2025-08-01T09:30:00+02:00", End: strPtr("2026-06-30T15:45:00+02:00")},
			wantStart:     timePtr(time.Date(2025, time.August, 1, 0, 0, 0, 0, time.UTC)),
			wantEnd:       timePtr(time.Date(2026, time.June, 30, 23, 59, 59, 999000000, time.UTC)),
			wantActiveNow: true,
		},
		{
			name:          "end date is anchored to the last instant of its day",
			raw:           &registry.ValidityPeriod{Start: "2026-01-15", End: strPtr("2026-01-15")},
			wantStart:     timePtr(time.Date(2026, time.January, 15, 0, 0, 0, 0, time.UTC)),
			wantEnd:       timePtr(time.Date(2026, time.January, 15, 23, 59, 59, 999000000, time.UTC)),
			wantActiveNow: true,
		},
		{
			name:          "past window is inactive",
			raw:           &registry.ValidityPeriod{Start: "2023-08-01", End: strPtr("2024-06-30")},
			wantStart:     timePtr(time.Date(2023, time.August, 1, 0, 0, 0, 0, time.UTC)),
			wantEnd:       timePtr(time.Date(2024, time.June, 30, 23, 59, 59, 999000000, time.UTC)),
			wantActiveNow: false,
		},
		{
			name:          "malformed start degrades to a never-active window",
			raw:           &registry.ValidityPeriod{Start: "not-a-date"},
			wantStart:     &invalidStart,
			wantActiveNow: false,
		},
		{
			name:          "malformed end degrades to a never-active window",
			raw:           &registry.ValidityPeriod{Start: "2025-08-01", End: strPtr("soon")},
			wantStart:     timePtr(time.Date(2025, time.August, 1, 0, 0, 0, 0, time.UTC)),
			wantEnd:       &invalidEnd,
			wantActiveNow: false,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := NormalizePeriod(tc.raw)

			if tc.wantStart == nil {
				assert.Nil(t, got.Start)
			} else {
				require.NotNil(t, got.Start)
				assert.Equal(t, *tc.wantStart, *got.Start)
			}

			if tc.wantEnd == nil {
				assert.Nil(t, got.End)
			} else {
				require.NotNil(t, got.End)
				assert.Equal(t, *tc.wantEnd, *got.End)
			}

			assert.Equal(t, tc.wantActiveNow, got.ActiveAt(now))
		})
	}
}

func timePtr(t time.Time) *time.Time { return &t }

func TestNormalizePeriodIsDeterministic(t *testing.T) {
	raw := &registry.ValidityPeriod{Start: "2025-08-01T09:30:00+02:00", End: strPtr("2026-06-30")}

	first := NormalizePeriod(raw)
	second := NormalizePeriod(raw)

	assert.Equal(t, first, second)
}

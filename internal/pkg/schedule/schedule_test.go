package schedule

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func date(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

func TestGenerateDates(t *testing.T) {
	tests := []struct {
		name      string
		start     string
		end       string
		dayOfWeek string
		want      []string
	}{
		{
			name:      "mondays of january 2024",
			start:     "2024-01-01",
			end:       "2024-01-31",
			dayOfWeek: "Monday",
			want:      []string{"2024-01-01", "2024-01-08", "2024-01-15", "2024-01-22", "2024-01-29"},
		},
		{
			name:      "start date itself matches",
			start:     "2024-03-06",
			end:       "2024-03-06",
			dayOfWeek: "Wednesday",
			want:      []string{"2024-03-06"},
		},
		{
			name:      "no matching day in range",
			start:     "2024-03-04",
			end:       "2024-03-08",
			dayOfWeek: "Saturday",
			want:      nil,
		},
		{
			name:      "end before start",
			start:     "2024-01-31",
			end:       "2024-01-01",
			dayOfWeek: "Monday",
			want:      nil,
		},
		{
			name:      "unrecognized weekday name",
			start:     "2024-01-01",
			end:       "2024-01-31",
			dayOfWeek: "Funday",
			want:      nil,
		},
		{
			name:      "lowercase name is not matched",
			start:     "2024-01-01",
			end:       "2024-01-31",
			dayOfWeek: "monday",
			want:      nil,
		},
		{
			name:      "fridays across a month boundary",
			start:     "2024-02-26",
			end:       "2024-03-10",
			dayOfWeek: "Friday",
			want:      []string{"2024-03-01", "2024-03-08"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := GenerateDates(date(tt.start), date(tt.end), tt.dayOfWeek)

			// empty results must still be a real slice, not nil, so the
			// value stores as '{}' instead of NULL
			assert.NotNil(t, got)

			var gotStr []string
			for _, d := range got {
				gotStr = append(gotStr, d.Format("2006-01-02"))
			}
			assert.Equal(t, tt.want, gotStr)

			// ascending order
			for i := 1; i < len(got); i++ {
				assert.True(t, got[i].After(got[i-1]))
			}

			// same inputs, same output
			again := GenerateDates(date(tt.start), date(tt.end), tt.dayOfWeek)
			assert.Equal(t, got, again)
		})
	}
}

func TestGenerateDatesIgnoresTimeOfDay(t *testing.T) {
	start := time.Date(2024, 1, 1, 23, 30, 0, 0, time.UTC)
	end := time.Date(2024, 1, 8, 0, 15, 0, 0, time.UTC)

	got := GenerateDates(start, end, "Monday")
	assert.Len(t, got, 2)
	assert.Equal(t, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), got[0])
	assert.Equal(t, time.Date(2024, 1, 8, 0, 0, 0, 0, time.UTC), got[1])
}

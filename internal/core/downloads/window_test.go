package downloads

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestDayOf(t *testing.T) {
	loc := time.FixedZone("UTC-5", -5*60*60)

	require.Equal(t, d("2020-01-05"), DayOf(time.Date(2020, 1, 5, 13, 45, 12, 99, time.UTC)))
	require.Equal(t, d("2020-01-06"), DayOf(time.Date(2020, 1, 5, 22, 0, 0, 0, loc)))
}

func TestParseDay(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		want      time.Time
		wantError bool
	}{
		{name: "date", input: "2020-01-01", want: d("2020-01-01")},
		{name: "rfc3339", input: "2020-01-01T00:00:00Z", want: d("2020-01-01")},
		{name: "rfc3339 millis", input: "2016-04-12T00:00:00.000Z", want: d("2016-04-12")},
		{name: "space separated", input: "2020-01-01 00:00:00", want: d("2020-01-01")},
		{name: "padded", input: "  2020-01-01 ", want: d("2020-01-01")},
		{name: "empty invalid", input: "", wantError: true},
		{name: "garbage invalid", input: "yesterday", wantError: true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ParseDay(tc.input)
			if tc.wantError {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tc.want, got)
		})
	}
}

func TestComputeWindow(t *testing.T) {
	now := time.Date(2020, 1, 5, 13, 0, 0, 0, time.UTC)

	tests := []struct {
		name      string
		series    Series
		start     time.Time
		wantStart time.Time
		wantEnd   time.Time
	}{
		{
			name:      "empty series starts the day before configured start",
			start:     d("2020-01-01"),
			wantStart: d("2019-12-31"),
			wantEnd:   d("2020-01-04"),
		},
		{
			name: "non-empty series restarts from newest day",
			series: Series{
				{Day: d("2020-01-02"), Downloads: 2},
				{Day: d("2020-01-01"), Downloads: 1},
			},
			start:     d("2010-01-01"),
			wantStart: d("2020-01-02"),
			wantEnd:   d("2020-01-04"),
		},
		{
			name:      "future start collapses onto end",
			start:     d("2021-06-01"),
			wantStart: d("2020-01-04"),
			wantEnd:   d("2020-01-04"),
		},
		{
			name:      "series newer than yesterday collapses onto end",
			series:    Series{{Day: d("2020-01-05"), Downloads: 1}},
			start:     d("2010-01-01"),
			wantStart: d("2020-01-04"),
			wantEnd:   d("2020-01-04"),
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			w := ComputeWindow(tc.series, tc.start, now)
			require.Equal(t, tc.wantStart, w.Start)
			require.Equal(t, tc.wantEnd, w.End)
			require.False(t, w.Start.After(w.End))
		})
	}
}

func TestWindow_Days(t *testing.T) {
	w := Window{Start: d("2020-01-01"), End: d("2020-01-05")}
	require.Equal(t, []time.Time{d("2020-01-02"), d("2020-01-03"), d("2020-01-04")}, w.Days())
	require.False(t, w.Empty())

	adjacent := Window{Start: d("2020-01-04"), End: d("2020-01-05")}
	require.Empty(t, adjacent.Days())
	require.True(t, adjacent.Empty())

	collapsed := Window{Start: d("2020-01-05"), End: d("2020-01-05")}
	require.Empty(t, collapsed.Days())
	require.Equal(t, "2020-01-05 to 2020-01-05", collapsed.String())
}

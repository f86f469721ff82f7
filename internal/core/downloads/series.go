package downloads

import (
	"math"
	"sort"
	"strconv"
	"strings"
	"time"
)

// sampleKey is the structural identity of a sample. time.Time is not used
// directly because two equal instants may carry different locations.
type sampleKey struct {
	day       int64
	downloads int64
}

func keyOf(s Sample) sampleKey {
	return sampleKey{day: s.Day.Unix(), downloads: s.Downloads}
}

// Newest returns the most recent sample of the series.
func (s Series) Newest() (Sample, bool) {
	if len(s) == 0 {
		return Sample{}, false
	}
	return s[0], true
}

// Oldest returns the earliest sample of the series.
func (s Series) Oldest() (Sample, bool) {
	if len(s) == 0 {
		return Sample{}, false
	}
	return s[len(s)-1], true
}

// Total sums the downloads of every entry.
func (s Series) Total() int64 {
	var total int64
	for _, sample := range s {
		total += sample.Downloads
	}
	return total
}

// Latest collapses same-day entries into one, keeping the most recently merged
// count for each day. The result stays newest-first.
func (s Series) Latest() Series {
	out := make(Series, 0, len(s))
	for _, sample := range s {
		if n := len(out); n > 0 && out[n-1].Day.Equal(sample.Day) {
			out[n-1] = sample
			continue
		}
		out = append(out, sample)
	}
	return out
}

// Merge appends every incoming sample whose (Day, Downloads) pair is not
// already present, then re-sorts newest-first. A sample that shares a day with
// an existing entry but carries a different count is appended, not replaced.
// The input series is not modified.
func Merge(series Series, incoming []Sample) Series {
	out := make(Series, 0, len(series)+len(incoming))
	seen := make(map[sampleKey]struct{}, len(series)+len(incoming))

	for _, s := range series {
		k := keyOf(s)
		if _, dup := seen[k]; dup {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, s)
	}

	for _, s := range incoming {
		s.Day = DayOf(s.Day)
		k := keyOf(s)
		if _, dup := seen[k]; dup {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, s)
	}

	sortNewestFirst(out)
	return out
}

func sortNewestFirst(s Series) {
	sort.SliceStable(s, func(i, j int) bool {
		return s[i].Day.After(s[j].Day)
	})
}

// FromRaw coerces a decoded JSON value into a Series. raw is expected to be a
// list of {"day", "downloads"} objects; anything that cannot be read as a
// sample is dropped. FromRaw never fails: non-list input yields an empty series.
func FromRaw(raw any) Series {
	list, ok := raw.([]any)
	if !ok {
		if typed, isTyped := raw.([]map[string]any); isTyped {
			list = make([]any, len(typed))
			for i := range typed {
				list[i] = typed[i]
			}
		}
	}

	samples := make([]Sample, 0, len(list))
	for _, item := range list {
		rec, ok := item.(map[string]any)
		if !ok {
			continue
		}
		day, ok := parseRawDay(rec["day"])
		if !ok {
			continue
		}
		count, ok := parseRawCount(rec["downloads"])
		if !ok {
			continue
		}
		samples = append(samples, Sample{Day: day, Downloads: count})
	}
	return Merge(nil, samples)
}

// ToRaw renders a Series into the list shape accepted by FromRaw.
func ToRaw(series Series) []map[string]any {
	out := make([]map[string]any, 0, len(series))
	for _, s := range series {
		out = append(out, map[string]any{
			"day":       s.Day.UTC().Format(DayLayout),
			"downloads": s.Downloads,
		})
	}
	return out
}

func parseRawDay(v any) (time.Time, bool) {
	str, ok := v.(string)
	if !ok {
		return time.Time{}, false
	}
	day, err := ParseDay(str)
	if err != nil {
		return time.Time{}, false
	}
	return day, true
}

// parseRawCount accepts the numeric shapes produced by the JSON decoders in
// use (float64, json.Number-like strings, integers). float64(math.MaxInt64)
// rounds up to 2^63, so the float bound is exclusive.
func parseRawCount(v any) (int64, bool) {
	switch n := v.(type) {
	case float64:
		if n < 0 || n != math.Trunc(n) || n >= math.MaxInt64 {
			return 0, false
		}
		return int64(n), true
	case int:
		return int64(n), n >= 0
	case int64:
		return n, n >= 0
	case interface{ String() string }:
		return parseCountString(n.String())
	case string:
		return parseCountString(n)
	default:
		return 0, false
	}
}

func parseCountString(s string) (int64, bool) {
	n, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil || n < 0 {
		return 0, false
	}
	return n, true
}

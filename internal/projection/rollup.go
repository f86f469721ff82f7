package projection

import (
	"time"

	v1 "github.com/aevon-lab/download-stats/internal/api/v1"
	"github.com/aevon-lab/download-stats/internal/core/downloads"
)

// maxBuckets caps a single response. Coarser granularities cover longer spans.
const maxBuckets = 10000

// bucketCount returns how many buckets rollup would emit for r.
func bucketCount(r span, granularity string) int64 {
	if !r.start.Before(r.end) {
		return 0
	}
	switch granularity {
	case v1.GranularityTotal:
		return 1
	case v1.GranularityWeek:
		first := bucketStart(r.start, granularity)
		last := bucketStart(r.lastDay(), granularity)
		return daysBetween(first, last)/7 + 1
	case v1.GranularityMonth:
		first, last := r.start, r.lastDay()
		return int64(last.Year()-first.Year())*12 + int64(last.Month()-first.Month()) + 1
	default:
		return r.days()
	}
}

// bucketStart returns the first day of the bucket holding d.
// Weeks start on Monday.
func bucketStart(d time.Time, granularity string) time.Time {
	switch granularity {
	case v1.GranularityWeek:
		offset := (int(d.Weekday()) + 6) % 7
		return d.AddDate(0, 0, -offset)
	case v1.GranularityMonth:
		return time.Date(d.Year(), d.Month(), 1, 0, 0, 0, 0, time.UTC)
	default:
		return d
	}
}

// nextBucket returns the first day of the bucket after the one starting at b.
func nextBucket(b time.Time, granularity string) time.Time {
	switch granularity {
	case v1.GranularityWeek:
		return b.AddDate(0, 0, 7)
	case v1.GranularityMonth:
		return b.AddDate(0, 1, 0)
	default:
		return b.Add(day)
	}
}

// rollup groups daily counts into buckets covering r, oldest first.
// Buckets without samples are emitted with zero downloads, and the first and
// last bucket are clipped to r.
func rollup(daily downloads.Series, r span, granularity string) []v1.Bucket {
	if !r.start.Before(r.end) {
		return []v1.Bucket{}
	}

	if granularity == v1.GranularityTotal {
		return []v1.Bucket{{
			Start:     r.start.Format(downloads.DayLayout),
			End:       r.lastDay().Format(downloads.DayLayout),
			Downloads: daily.Total(),
		}}
	}

	sums := make(map[time.Time]int64)
	for _, s := range daily {
		sums[bucketStart(s.Day, granularity)] += s.Downloads
	}

	var buckets []v1.Bucket
	for b := bucketStart(r.start, granularity); b.Before(r.end); b = nextBucket(b, granularity) {
		first := maxTime(b, r.start)
		last := minTime(nextBucket(b, granularity), r.end).Add(-day)
		buckets = append(buckets, v1.Bucket{
			Start:     first.Format(downloads.DayLayout),
			End:       last.Format(downloads.DayLayout),
			Downloads: sums[b],
		})
	}
	return buckets
}

func minTime(a, b time.Time) time.Time {
	if a.Before(b) {
		return a
	}
	return b
}

func maxTime(a, b time.Time) time.Time {
	if a.After(b) {
		return a
	}
	return b
}

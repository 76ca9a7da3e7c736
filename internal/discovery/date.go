package discovery

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"event-discovery/internal/domain"
)

var dateLabel = regexp.MustCompile(`([0-9]+)年([0-9]+)月([0-9]+)日`)

// ParseDate reads a "2025年7月15日" label at midnight in loc. Anything after
// the first space (a time, a range end) is ignored. Out-of-range days roll
// over the way time.Date normalises them.
func ParseDate(label string, loc *time.Location) (time.Time, bool) {
	first, _, _ := strings.Cut(label, " ")
	m := dateLabel.FindStringSubmatch(first)
	if m == nil {
		return time.Time{}, false
	}
	year, err1 := strconv.Atoi(m[1])
	month, err2 := strconv.Atoi(m[2])
	day, err3 := strconv.Atoi(m[3])
	if err1 != nil || err2 != nil || err3 != nil {
		return time.Time{}, false
	}
	return time.Date(year, time.Month(month), day, 0, 0, 0, 0, loc), true
}

// EventDate is the event's calendar date, or now when the label is unreadable.
func EventDate(e domain.Event, now time.Time) time.Time {
	if d, ok := ParseDate(e.Date, now.Location()); ok {
		return d
	}
	return now
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// IsSameDay compares year, month and day.
func IsSameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

// IsThisWeek reports whether date falls in the Sunday-based week containing now.
func IsThisWeek(date, now time.Time) bool {
	weekStart := startOfDay(now).AddDate(0, 0, -int(now.Weekday()))
	weekEnd := weekStart.AddDate(0, 0, 7)
	return !date.Before(weekStart) && date.Before(weekEnd)
}

func IsThisMonth(date, now time.Time) bool {
	return date.Year() == now.Year() && date.Month() == now.Month()
}

// IsNextMonth compares against the first day of the following month so that
// day-of-month overflow (Jan 31 + 1 month) cannot skip a month.
func IsNextMonth(date, now time.Time) bool {
	next := time.Date(now.Year(), now.Month()+1, 1, 0, 0, 0, 0, now.Location())
	return date.Year() == next.Year() && date.Month() == next.Month()
}

// DateBucket is a named window relative to the moment of evaluation.
type DateBucket string

const (
	BucketToday     DateBucket = "today"
	BucketThisWeek  DateBucket = "this_week"
	BucketThisMonth DateBucket = "this_month"
	BucketNextMonth DateBucket = "next_month"
)

var bucketLabels = map[string]DateBucket{
	"today":      BucketToday,
	"this_week":  BucketThisWeek,
	"this_month": BucketThisMonth,
	"next_month": BucketNextMonth,
	"今天":         BucketToday,
	"本周":         BucketThisWeek,
	"本月":         BucketThisMonth,
	"下个月":        BucketNextMonth,
}

// ParseDateBucket accepts the API id or the sidebar label of a bucket.
func ParseDateBucket(s string) (DateBucket, bool) {
	b, ok := bucketLabels[strings.TrimSpace(s)]
	return b, ok
}

// Match evaluates the bucket. Unrecognised buckets match everything.
func (b DateBucket) Match(date, now time.Time) bool {
	switch b {
	case BucketToday:
		return IsSameDay(date, now)
	case BucketThisWeek:
		return IsThisWeek(date, now)
	case BucketThisMonth:
		return IsThisMonth(date, now)
	case BucketNextMonth:
		return IsNextMonth(date, now)
	default:
		return true
	}
}

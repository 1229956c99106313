// Package insights derives listing views from application records:
// filters, sort orders, and the summary figures shown next to the list.
package insights

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/dmitrijs2005/cvtrack/internal/models"
)

// Range names a preset date window.
type Range string

const (
	RangeAllTime  Range = "All Time"
	RangeLast7    Range = "Last 7 Days"
	RangeLast30   Range = "Last 30 Days"
	RangeLast90   Range = "Last 90 Days"
	RangeThisYear Range = "This Year"
	RangeCustom   Range = "Custom"
)

var ranges = []Range{RangeAllTime, RangeLast7, RangeLast30, RangeLast90, RangeThisYear, RangeCustom}

// ParseRange accepts a range name case-insensitively, or shorthands such as
// "7d", "30d", "90d", "year" and "all".
func ParseRange(s string) (Range, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "all":
		return RangeAllTime, nil
	case "7d":
		return RangeLast7, nil
	case "30d":
		return RangeLast30, nil
	case "90d":
		return RangeLast90, nil
	case "year":
		return RangeThisYear, nil
	}
	for _, r := range ranges {
		if strings.EqualFold(s, string(r)) {
			return r, nil
		}
	}
	return "", fmt.Errorf("unknown date range %q", s)
}

// Radar names an action-radar bucket.
type Radar string

const (
	RadarAll     Radar = "All"
	RadarRecent  Radar = "Recent"
	RadarStale   Radar = "Stale"
	RadarStalled Radar = "Stalled"
)

func ParseRadar(s string) (Radar, error) {
	for _, r := range []Radar{RadarAll, RadarRecent, RadarStale, RadarStalled} {
		if strings.EqualFold(strings.TrimSpace(s), string(r)) {
			return r, nil
		}
	}
	if strings.TrimSpace(s) == "" {
		return RadarAll, nil
	}
	return "", fmt.Errorf("unknown radar bucket %q", s)
}

// Filter selects records for a listing. Zero values disable each criterion.
type Filter struct {
	Status models.Status // empty or "All" for every status
	Search string        // substring of company or country, case-insensitive
	Range  Range
	From   time.Time // inclusive day bounds for RangeCustom
	To     time.Time
	Radar  Radar
}

// AgeDays is the number of whole days between the application date and now.
func AgeDays(a models.Application, now time.Time) (int, bool) {
	d, ok := a.ParsedDate()
	if !ok {
		return 0, false
	}
	return int(math.Round(startOfDay(now).Sub(d).Hours() / 24)), true
}

// InRadar reports whether a falls into bucket r.
func InRadar(a models.Application, r Radar, now time.Time) bool {
	if r == "" || r == RadarAll {
		return true
	}
	age, ok := AgeDays(a, now)
	if !ok {
		return false
	}
	switch r {
	case RadarRecent:
		return age <= 2
	case RadarStale:
		return a.Status == models.StatusUnknown && age >= 14 && age < 30
	case RadarStalled:
		return a.Status == models.StatusUnknown && age >= 30
	}
	return false
}

// Window returns the inclusive day bounds of the filter's range. ok is false
// when the range does not restrict dates.
func (f Filter) Window(now time.Time) (from, to time.Time, ok bool) {
	today := startOfDay(now)
	switch f.Range {
	case RangeLast7:
		return today.AddDate(0, 0, -6), today, true
	case RangeLast30:
		return today.AddDate(0, 0, -29), today, true
	case RangeLast90:
		return today.AddDate(0, 0, -89), today, true
	case RangeThisYear:
		return time.Date(today.Year(), 1, 1, 0, 0, 0, 0, today.Location()), today, true
	case RangeCustom:
		if f.From.IsZero() || f.To.IsZero() {
			return time.Time{}, time.Time{}, false
		}
		return startOfDay(f.From), startOfDay(f.To), true
	}
	return time.Time{}, time.Time{}, false
}

// Apply returns the records matching f, preserving input order.
func Apply(apps []models.Application, f Filter, now time.Time) []models.Application {
	from, to, windowed := f.Window(now)
	query := strings.ToLower(strings.TrimSpace(f.Search))

	out := make([]models.Application, 0, len(apps))
	for _, a := range apps {
		if !InRadar(a, f.Radar, now) {
			continue
		}
		if windowed {
			d, ok := a.ParsedDate()
			if !ok {
				continue
			}
			// Open-ended above for the presets so a future-dated entry still
			// shows up in "Last 7 Days".
			if d.Before(from) || (f.Range == RangeCustom && d.After(to)) {
				continue
			}
		}
		if query != "" &&
			!strings.Contains(strings.ToLower(a.Company), query) &&
			!strings.Contains(strings.ToLower(a.Country), query) {
			continue
		}
		if f.Status != "" && f.Status != "All" && a.Status != f.Status {
			continue
		}
		out = append(out, a)
	}
	return out
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.Local)
}

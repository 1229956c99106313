package insights

import (
	"sort"
	"time"

	"github.com/dmitrijs2005/cvtrack/internal/models"
)

type Summary struct {
	Total    int
	ByStatus map[models.Status]int
}

func Summarize(apps []models.Application) Summary {
	s := Summary{Total: len(apps), ByStatus: make(map[models.Status]int)}
	for _, a := range apps {
		s.ByStatus[a.Status]++
	}
	return s
}

// Funnel is the conversion funnel: everything applied, how many reached the
// interview stage, and how many were rejected.
type Funnel struct {
	Applied   int
	Interview int
	Rejected  int
}

func FunnelOf(apps []models.Application) Funnel {
	f := Funnel{Applied: len(apps)}
	for _, a := range apps {
		switch a.Status {
		case models.StatusInProcess:
			f.Interview++
		case models.StatusRejected:
			f.Rejected++
		}
	}
	return f
}

// DefaultTopCountries is how many countries the market view shows.
const DefaultTopCountries = 4

type CountryCount struct {
	Country string
	Count   int
}

// TopCountries returns the n most frequent countries, most frequent first,
// ties by name.
func TopCountries(apps []models.Application, n int) []CountryCount {
	counts := make(map[string]int)
	for _, a := range apps {
		counts[a.Country]++
	}
	out := make([]CountryCount, 0, len(counts))
	for c, k := range counts {
		out = append(out, CountryCount{Country: c, Count: k})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Country < out[j].Country
	})
	if n > 0 && len(out) > n {
		out = out[:n]
	}
	return out
}

type RadarCounts struct {
	Recent  int
	Stale   int
	Stalled int
}

func RadarOf(apps []models.Application, now time.Time) RadarCounts {
	var r RadarCounts
	for _, a := range apps {
		if InRadar(a, RadarRecent, now) {
			r.Recent++
		}
		if InRadar(a, RadarStale, now) {
			r.Stale++
		}
		if InRadar(a, RadarStalled, now) {
			r.Stalled++
		}
	}
	return r
}

type DayCount struct {
	Day   time.Time
	Count int
}

// Timeline counts applications per day over the filter's window, filling
// days without applications with zero. Without a window it spans the data,
// at least a week, or the last 30 days when there is no data.
func Timeline(apps []models.Application, f Filter, now time.Time) []DayCount {
	byDay := make(map[time.Time]int)
	var first, last time.Time
	for _, a := range apps {
		d, ok := a.ParsedDate()
		if !ok {
			continue
		}
		d = startOfDay(d)
		byDay[d]++
		if first.IsZero() || d.Before(first) {
			first = d
		}
		if last.IsZero() || d.After(last) {
			last = d
		}
	}

	from, to, ok := f.Window(now)
	switch {
	case ok:
	case len(byDay) > 0:
		from, to = first, last
		if to.Sub(from) < 7*24*time.Hour {
			from = to.AddDate(0, 0, -7)
		}
	default:
		to = startOfDay(now)
		from = to.AddDate(0, 0, -30)
	}

	var out []DayCount
	for d := from; !d.After(to); d = d.AddDate(0, 0, 1) {
		out = append(out, DayCount{Day: d, Count: byDay[d]})
	}
	return out
}

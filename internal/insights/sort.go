package insights

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/dmitrijs2005/cvtrack/internal/models"
)

type SortOrder string

const (
	SortLatest   SortOrder = "Latest First"
	SortEarliest SortOrder = "Earliest First"
	SortStatus   SortOrder = "Status"
	SortCompany  SortOrder = "Company A-Z"
)

// ParseSort accepts the display names or "latest", "earliest", "status",
// "company".
func ParseSort(s string) (SortOrder, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "latest", "latest first":
		return SortLatest, nil
	case "earliest", "earliest first":
		return SortEarliest, nil
	case "status":
		return SortStatus, nil
	case "company", "company a-z":
		return SortCompany, nil
	}
	return "", fmt.Errorf("unknown sort order %q", s)
}

func dateOf(a models.Application) time.Time {
	d, _ := a.ParsedDate()
	return d
}

// Sort orders apps in place. Ties fall back to the id.
func Sort(apps []models.Application, order SortOrder) {
	less := func(i, j int) (bool, bool) { return false, false }
	switch order {
	case SortLatest, SortEarliest:
		desc := order == SortLatest
		less = func(i, j int) (bool, bool) {
			a, b := apps[i], apps[j]
			if !a.LastUpdated.Equal(b.LastUpdated) {
				return a.LastUpdated.Before(b.LastUpdated) != desc, true
			}
			da, db := dateOf(a), dateOf(b)
			if !da.Equal(db) {
				return da.Before(db) != desc, true
			}
			return false, false
		}
	case SortStatus:
		less = func(i, j int) (bool, bool) {
			if apps[i].Status != apps[j].Status {
				return apps[i].Status < apps[j].Status, true
			}
			return false, false
		}
	case SortCompany:
		less = func(i, j int) (bool, bool) {
			a, b := strings.ToLower(apps[i].Company), strings.ToLower(apps[j].Company)
			if a != b {
				return a < b, true
			}
			return false, false
		}
	}

	sort.SliceStable(apps, func(i, j int) bool {
		if r, decided := less(i, j); decided {
			return r
		}
		return apps[i].ID < apps[j].ID
	})
}

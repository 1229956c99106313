//go:build !linux

package filex

import "time"

func creationTime(string) (time.Time, bool) {
	return time.Time{}, false
}

package source

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

var (
	relativeDateRe = regexp.MustCompile(`(\d+)(秒|分鐘|小時|日)前`)
	chineseDateRe  = regexp.MustCompile(`(\d{4})年(\d{1,2})月(\d{1,2})日\s+(\d{1,2}):(\d{1,2})`)
)

// ParseRelativeDate parses "5秒前", "5分鐘前", "5小時前", "5日前" relative to now, and the absolute
// "2024年5月11日 17:19" form in now's location. Returns false for anything else.
func ParseRelativeDate(s string, now time.Time) (time.Time, bool) {
	compact := strings.Join(strings.Fields(s), "")
	if m := relativeDateRe.FindStringSubmatch(compact); m != nil {
		qty, err := strconv.Atoi(m[1])
		if err != nil {
			return time.Time{}, false
		}
		switch m[2] {
		case "秒":
			return now.Add(-time.Duration(qty) * time.Second), true
		case "分鐘":
			return now.Add(-time.Duration(qty) * time.Minute), true
		case "小時":
			return now.Add(-time.Duration(qty) * time.Hour), true
		case "日":
			return now.AddDate(0, 0, -qty), true
		}
	}

	if m := chineseDateRe.FindStringSubmatch(s); m != nil {
		parts := make([]int, 5)
		for i := range parts {
			v, err := strconv.Atoi(m[i+1])
			if err != nil {
				return time.Time{}, false
			}
			parts[i] = v
		}
		return time.Date(parts[0], time.Month(parts[1]), parts[2], parts[3], parts[4], 0, 0, now.Location()), true
	}
	return time.Time{}, false
}

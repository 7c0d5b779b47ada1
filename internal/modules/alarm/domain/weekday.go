package domain

import (
	"fmt"
	"strings"
	"time"
)

// Weekday is one of the seven canonical English day names.
type Weekday string

const (
	Monday    Weekday = "Monday"
	Tuesday   Weekday = "Tuesday"
	Wednesday Weekday = "Wednesday"
	Thursday  Weekday = "Thursday"
	Friday    Weekday = "Friday"
	Saturday  Weekday = "Saturday"
	Sunday    Weekday = "Sunday"
)

// Week lists the canonical days Monday first, the order used for storage.
var Week = []Weekday{Monday, Tuesday, Wednesday, Thursday, Friday, Saturday, Sunday}

func WeekdayOf(t time.Time) Weekday {
	return Weekday(t.Weekday().String())
}

func (d Weekday) Valid() bool {
	for _, w := range Week {
		if w == d {
			return true
		}
	}
	return false
}

func (d Weekday) Short() string {
	return string(d)[:3]
}

// ParseWeekdays resolves day names, three-letter abbreviations and the
// shorthands daily, weekdays and weekends. The result is deduplicated and
// ordered Monday first.
func ParseWeekdays(inputs []string) ([]Weekday, error) {
	selected := map[Weekday]struct{}{}
	for _, raw := range inputs {
		for _, part := range strings.Split(raw, ",") {
			token := strings.ToLower(strings.TrimSpace(part))
			if token == "" {
				continue
			}
			days, err := resolveDayToken(token)
			if err != nil {
				return nil, err
			}
			for _, d := range days {
				selected[d] = struct{}{}
			}
		}
	}
	out := make([]Weekday, 0, len(selected))
	for _, d := range Week {
		if _, ok := selected[d]; ok {
			out = append(out, d)
		}
	}
	return out, nil
}

func resolveDayToken(token string) ([]Weekday, error) {
	switch token {
	case "daily", "everyday", "all":
		return Week, nil
	case "weekdays":
		return Week[:5], nil
	case "weekends":
		return Week[5:], nil
	}
	for _, d := range Week {
		name := strings.ToLower(string(d))
		if token == name || token == name[:3] {
			return []Weekday{d}, nil
		}
	}
	return nil, fmt.Errorf("unknown day %q", token)
}

// Package hours extracts weekly business hours from free-form text, such
// as a scraped website footer or a directory listing. Extraction is a
// heuristic classifier: it never fails, it reports a confidence score
// instead.
package hours

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
)

// Weekday indexes into WeekSchedule.Days. Monday is 0.
type Weekday int

const (
	Monday Weekday = iota
	Tuesday
	Wednesday
	Thursday
	Friday
	Saturday
	Sunday
)

var weekdayNames = [7]string{
	"monday", "tuesday", "wednesday", "thursday", "friday", "saturday", "sunday",
}

func (d Weekday) String() string {
	if d < Monday || d > Sunday {
		return "invalid"
	}
	return weekdayNames[d]
}

// DayHours is the resolved schedule for one day. Open and Close are 24h
// "HH:MM" strings; a closed day has Closed set and empty times.
type DayHours struct {
	Open   string `json:"open,omitempty"`
	Close  string `json:"close,omitempty"`
	Closed bool   `json:"closed"`
}

// WeekSchedule is a full week of resolved hours plus a confidence score:
// the fraction of days the text explicitly resolved. Days the text never
// mentions stay closed with empty times.
type WeekSchedule struct {
	Days       [7]DayHours `json:"days"`
	Confidence float64     `json:"confidence"`
}

// Pattern table, tried in priority order per segment.
var (
	// "5:30-11 PM", "9 AM to 5 PM", "17:30 – 23:00"
	timeRangeRe = regexp.MustCompile(
		`(?i)(\d{1,2})(?::(\d{2}))?\s*(am|pm|a\.m\.|p\.m\.)?\s*(?:-|–|—|to|until|till|thru|through)\s*(\d{1,2})(?::(\d{2}))?\s*(am|pm|a\.m\.|p\.m\.)?`)

	closedRe = regexp.MustCompile(`(?i)\bclosed\b`)

	// Day tokens, including abbreviations.
	dayRe = regexp.MustCompile(
		`(?i)\b(mondays?|mon|tuesdays?|tues?|wednesdays?|weds?|thursdays?|thur?s?|fridays?|fri|saturdays?|sat|sundays?|sun)\b`)

	// "Mon-Fri", "Monday through Friday"
	dayRangeRe = regexp.MustCompile(
		`(?i)\b(mondays?|mon|tuesdays?|tues?|wednesdays?|weds?|thursdays?|thur?s?|fridays?|fri|saturdays?|sat|sundays?|sun)\s*(?:-|–|—|to|through|thru)\s*(mondays?|mon|tuesdays?|tues?|wednesdays?|weds?|thursdays?|thur?s?|fridays?|fri|saturdays?|sat|sundays?|sun)\b`)

	// Whole-week keywords.
	everyDayRe = regexp.MustCompile(`(?i)\b(every\s*day|daily|7\s*days(?:\s*a\s*week)?|all\s*week)\b`)
	weekdaysRe = regexp.MustCompile(`(?i)\bweekdays\b`)
	weekendsRe = regexp.MustCompile(`(?i)\bweekends?\b`)
)

// Extract parses free-form text into a weekly schedule. It never returns
// an error; unmatched days stay closed and lower the confidence score.
func Extract(text string) WeekSchedule {
	var schedule WeekSchedule
	for i := range schedule.Days {
		schedule.Days[i] = DayHours{Closed: true}
	}

	if strings.TrimSpace(text) == "" {
		return schedule
	}

	resolved := make([]bool, 7)

	type span struct {
		start, end int
		days       []Weekday
	}

	var spans []span

	// Pass 1: day ranges claim their text first so "Mon-Fri" is not read
	// as two separate day mentions.
	claimed := make([]bool, len(text))
	for _, m := range dayRangeRe.FindAllStringSubmatchIndex(text, -1) {
		from, okFrom := parseDay(text[m[2]:m[3]])
		to, okTo := parseDay(text[m[4]:m[5]])
		if !okFrom || !okTo {
			continue
		}
		spans = append(spans, span{start: m[0], end: m[1], days: daySpan(from, to)})
		for i := m[0]; i < m[1]; i++ {
			claimed[i] = true
		}
	}

	// Pass 2: single day mentions.
	for _, m := range dayRe.FindAllStringIndex(text, -1) {
		if claimed[m[0]] {
			continue
		}
		day, ok := parseDay(text[m[0]:m[1]])
		if !ok {
			continue
		}
		spans = append(spans, span{start: m[0], end: m[1], days: []Weekday{day}})
	}

	// Pass 3: whole-week keywords.
	for _, m := range everyDayRe.FindAllStringIndex(text, -1) {
		spans = append(spans, span{start: m[0], end: m[1], days: daySpan(Monday, Sunday)})
	}
	for _, m := range weekdaysRe.FindAllStringIndex(text, -1) {
		spans = append(spans, span{start: m[0], end: m[1], days: daySpan(Monday, Friday)})
	}
	for _, m := range weekendsRe.FindAllStringIndex(text, -1) {
		spans = append(spans, span{start: m[0], end: m[1], days: daySpan(Saturday, Sunday)})
	}

	sort.Slice(spans, func(i, j int) bool { return spans[i].start < spans[j].start })

	// Each span owns the text up to the next span.
	for i, sp := range spans {
		segEnd := len(text)
		if i+1 < len(spans) {
			segEnd = spans[i+1].start
		}
		segment := text[sp.end:segEnd]

		hours, ok := parseSegment(segment)
		if !ok {
			continue
		}
		for _, day := range sp.days {
			schedule.Days[day] = hours
			resolved[day] = true
		}
	}

	count := 0
	for _, r := range resolved {
		if r {
			count++
		}
	}
	schedule.Confidence = float64(count) / 7

	return schedule
}

// parseSegment resolves the text following a day mention into hours.
func parseSegment(segment string) (DayHours, bool) {
	if m := timeRangeRe.FindStringSubmatch(segment); m != nil {
		openMeridiem := normalizeMeridiem(m[3])
		closeMeridiem := normalizeMeridiem(m[6])

		// A single trailing meridiem covers both times: "5:30-11 PM"
		// means 5:30 PM, not 5:30 AM.
		if openMeridiem == "" && closeMeridiem != "" {
			openMeridiem = closeMeridiem
		}
		if closeMeridiem == "" && openMeridiem != "" {
			closeMeridiem = openMeridiem
		}

		open := to24(atoi(m[1]), atoi(m[2]), openMeridiem)
		close := to24(atoi(m[4]), atoi(m[5]), closeMeridiem)

		// "11 AM - 2 AM"-style wraps are kept as-is; but an inferred
		// meridiem that puts close before open flips to the other half
		// of the day: "9-5 PM" is 9 AM to 5 PM.
		if m[3] == "" && openMeridiem == "pm" && open > close {
			open -= 12 * 60
		}

		return DayHours{Open: clock(open), Close: clock(close)}, true
	}

	if loc := closedRe.FindStringIndex(segment); loc != nil && loc[0] < 24 {
		return DayHours{Closed: true}, true
	}

	return DayHours{}, false
}

func parseDay(token string) (Weekday, bool) {
	switch strings.ToLower(strings.TrimRight(token, "s")) {
	case "monday", "mon":
		return Monday, true
	case "tuesday", "tue", "tues":
		return Tuesday, true
	case "wednesday", "wed":
		return Wednesday, true
	case "thursday", "thu", "thur", "thurs":
		return Thursday, true
	case "friday", "fri":
		return Friday, true
	case "saturday", "sat":
		return Saturday, true
	case "sunday", "sun":
		return Sunday, true
	default:
		return 0, false
	}
}

// daySpan expands an inclusive day range, wrapping across the week end so
// "Sat-Mon" covers Saturday, Sunday, Monday.
func daySpan(from, to Weekday) []Weekday {
	days := []Weekday{from}
	for d := from; d != to; {
		d = (d + 1) % 7
		days = append(days, d)
	}
	return days
}

func normalizeMeridiem(s string) string {
	s = strings.ToLower(strings.ReplaceAll(s, ".", ""))
	if s == "am" || s == "pm" {
		return s
	}
	return ""
}

// to24 converts to minutes since midnight.
func to24(hour, minute int, meridiem string) int {
	switch meridiem {
	case "pm":
		if hour != 12 {
			hour += 12
		}
	case "am":
		if hour == 12 {
			hour = 0
		}
	}
	return hour*60 + minute
}

func clock(minutes int) string {
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}

func atoi(s string) int {
	n := 0
	for _, c := range s {
		if c < '0' || c > '9' {
			return n
		}
		n = n*10 + int(c-'0')
	}
	return n
}

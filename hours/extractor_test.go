package hours

import "testing"

func TestExtract(t *testing.T) {
	tests := []struct {
		name       string
		text       string
		want       map[Weekday]DayHours
		resolved   int
		allClosed  bool
		unresolved []Weekday
	}{
		{
			name: "single day with trailing meridiem",
			text: "Monday 5:30-11 PM, Tuesday: Closed",
			want: map[Weekday]DayHours{
				Monday:  {Open: "17:30", Close: "23:00"},
				Tuesday: {Closed: true},
			},
			resolved:   2,
			unresolved: []Weekday{Wednesday, Thursday, Friday, Saturday, Sunday},
		},
		{
			name: "day range",
			text: "Mon-Fri 9am-5pm",
			want: map[Weekday]DayHours{
				Monday:    {Open: "09:00", Close: "17:00"},
				Tuesday:   {Open: "09:00", Close: "17:00"},
				Wednesday: {Open: "09:00", Close: "17:00"},
				Thursday:  {Open: "09:00", Close: "17:00"},
				Friday:    {Open: "09:00", Close: "17:00"},
			},
			resolved:   5,
			unresolved: []Weekday{Saturday, Sunday},
		},
		{
			name: "full week with weekend split",
			text: "Mon-Fri 9am-5pm, Sat 10am-4pm, Sun Closed",
			want: map[Weekday]DayHours{
				Monday:   {Open: "09:00", Close: "17:00"},
				Friday:   {Open: "09:00", Close: "17:00"},
				Saturday: {Open: "10:00", Close: "16:00"},
				Sunday:   {Closed: true},
			},
			resolved: 7,
		},
		{
			name: "every day keyword",
			text: "Open daily 11am-10pm",
			want: map[Weekday]DayHours{
				Monday: {Open: "11:00", Close: "22:00"},
				Sunday: {Open: "11:00", Close: "22:00"},
			},
			resolved: 7,
		},
		{
			name: "weekends keyword",
			text: "Brunch served weekends 10am - 2pm",
			want: map[Weekday]DayHours{
				Saturday: {Open: "10:00", Close: "14:00"},
				Sunday:   {Open: "10:00", Close: "14:00"},
			},
			resolved:   2,
			unresolved: []Weekday{Monday, Friday},
		},
		{
			name: "weekdays keyword",
			text: "Lunch weekdays 12 to 3 PM",
			want: map[Weekday]DayHours{
				Monday: {Open: "12:00", Close: "15:00"},
				Friday: {Open: "12:00", Close: "15:00"},
			},
			resolved: 5,
		},
		{
			name: "24 hour times with en dash",
			text: "Fri 17:30 – 23:30",
			want: map[Weekday]DayHours{
				Friday: {Open: "17:30", Close: "23:30"},
			},
			resolved: 1,
		},
		{
			name: "inferred meridiem flips open to morning",
			text: "Wednesday 9-5 PM",
			want: map[Weekday]DayHours{
				Wednesday: {Open: "09:00", Close: "17:00"},
			},
			resolved: 1,
		},
		{
			name: "day range wraps the week end",
			text: "Sat-Mon 10am-3pm",
			want: map[Weekday]DayHours{
				Saturday: {Open: "10:00", Close: "15:00"},
				Sunday:   {Open: "10:00", Close: "15:00"},
				Monday:   {Open: "10:00", Close: "15:00"},
			},
			resolved:   3,
			unresolved: []Weekday{Tuesday, Friday},
		},
		{
			name:      "empty input",
			text:      "",
			resolved:  0,
			allClosed: true,
		},
		{
			name:      "no schedule content",
			text:      "The best pizza in town since 1987.",
			resolved:  0,
			allClosed: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Extract(tt.text)

			wantConfidence := float64(tt.resolved) / 7
			if got.Confidence != wantConfidence {
				t.Errorf("confidence = %v, want %v", got.Confidence, wantConfidence)
			}

			for day, want := range tt.want {
				if got.Days[day] != want {
					t.Errorf("%s = %+v, want %+v", day, got.Days[day], want)
				}
			}

			// Days the text never mentions stay closed.
			for _, day := range tt.unresolved {
				if !got.Days[day].Closed || got.Days[day].Open != "" {
					t.Errorf("%s should be closed and empty, got %+v", day, got.Days[day])
				}
			}

			if tt.allClosed {
				for day, dh := range got.Days {
					if !dh.Closed {
						t.Errorf("%s should be closed, got %+v", Weekday(day), dh)
					}
				}
			}
		})
	}
}

func TestWeekdayString(t *testing.T) {
	if Monday.String() != "monday" || Sunday.String() != "sunday" {
		t.Errorf("unexpected weekday names: %s, %s", Monday, Sunday)
	}
	if Weekday(9).String() != "invalid" {
		t.Errorf("out-of-range weekday = %s, want invalid", Weekday(9))
	}
}

func TestParseDay(t *testing.T) {
	tests := []struct {
		token string
		day   Weekday
		ok    bool
	}{
		{"Monday", Monday, true},
		{"mondays", Monday, true},
		{"tues", Tuesday, true},
		{"Weds", Wednesday, true},
		{"thurs", Thursday, true},
		{"FRI", Friday, true},
		{"sat", Saturday, true},
		{"sun", Sunday, true},
		{"someday", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.token, func(t *testing.T) {
			day, ok := parseDay(tt.token)
			if ok != tt.ok || (ok && day != tt.day) {
				t.Errorf("parseDay(%q) = %v, %v; want %v, %v", tt.token, day, ok, tt.day, tt.ok)
			}
		})
	}
}

func TestDaySpan(t *testing.T) {
	span := daySpan(Saturday, Monday)
	want := []Weekday{Saturday, Sunday, Monday}
	if len(span) != len(want) {
		t.Fatalf("daySpan(sat, mon) = %v, want %v", span, want)
	}
	for i := range want {
		if span[i] != want[i] {
			t.Errorf("daySpan[%d] = %s, want %s", i, span[i], want[i])
		}
	}

	if single := daySpan(Wednesday, Wednesday); len(single) != 1 || single[0] != Wednesday {
		t.Errorf("daySpan(wed, wed) = %v, want [wednesday]", single)
	}
}

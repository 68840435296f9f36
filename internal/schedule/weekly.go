package schedule

import (
	"encoding/json"
	"strconv"
	"time"
)

// ISODay numbers weekdays 1 (Monday) through 7 (Sunday), matching the keys
// used in stored doctor schedules.
func ISODay(date time.Time) int {
	wd := int(date.Weekday())
	if wd == 0 {
		return 7
	}
	return wd
}

// DayHours is one weekday's configured working window. Either bound may be
// absent in the stored JSON; the engine substitutes the clinic default for a
// missing bound. A day with no DayHours at all is a day off.
type DayHours struct {
	Start *TimeOfDay
	End   *TimeOfDay
}

// WeeklySchedule maps ISO weekdays to optional working windows. The zero
// value has every day off, which is also how undecodable schedule data
// behaves: a doctor with no usable schedule is never available rather than
// an error.
type WeeklySchedule struct {
	days [7]*DayHours
}

// Day returns the configured hours for an ISO weekday (1..7), or nil when
// the doctor does not work that day.
func (s WeeklySchedule) Day(isoDay int) *DayHours {
	if isoDay < 1 || isoDay > 7 {
		return nil
	}
	return s.days[isoDay-1]
}

// SetDay configures working hours for an ISO weekday. Used by seeding and
// tests; stored schedules arrive through UnmarshalJSON.
func (s *WeeklySchedule) SetDay(isoDay int, hours DayHours) {
	if isoDay < 1 || isoDay > 7 {
		return
	}
	h := hours
	s.days[isoDay-1] = &h
}

// IsEmpty reports whether no weekday has an entry.
func (s WeeklySchedule) IsEmpty() bool {
	for _, d := range s.days {
		if d != nil {
			return false
		}
	}
	return true
}

type dayHoursJSON struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// UnmarshalJSON decodes the stored form {"1":{"start":"09:00","end":"17:00"},...}.
// Unknown keys and malformed bounds are skipped rather than rejected; a
// bound that fails to parse is treated as absent so the clinic default can
// apply.
func (s *WeeklySchedule) UnmarshalJSON(data []byte) error {
	var raw map[string]dayHoursJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	var days [7]*DayHours
	for key, entry := range raw {
		isoDay, err := strconv.Atoi(key)
		if err != nil || isoDay < 1 || isoDay > 7 {
			continue
		}

		var hours DayHours
		if t, err := ParseTimeOfDay(entry.Start); err == nil {
			hours.Start = &t
		}
		if t, err := ParseTimeOfDay(entry.End); err == nil {
			hours.End = &t
		}
		days[isoDay-1] = &hours
	}

	s.days = days
	return nil
}

// MarshalJSON emits the same keyed-object form the original system stores.
func (s WeeklySchedule) MarshalJSON() ([]byte, error) {
	raw := make(map[string]dayHoursJSON)
	for i, d := range s.days {
		if d == nil {
			continue
		}
		var entry dayHoursJSON
		if d.Start != nil {
			entry.Start = d.Start.String()
		}
		if d.End != nil {
			entry.End = d.End.String()
		}
		raw[strconv.Itoa(i+1)] = entry
	}
	return json.Marshal(raw)
}

// DecodeWeeklySchedule parses a stored schedule blob. Any decode failure
// yields the empty schedule: a doctor whose schedule cannot be read is
// simply never working.
func DecodeWeeklySchedule(data []byte) WeeklySchedule {
	var s WeeklySchedule
	if len(data) == 0 {
		return s
	}
	if err := json.Unmarshal(data, &s); err != nil {
		return WeeklySchedule{}
	}
	return s
}

package schedule

import (
	"encoding/json"
	"testing"
	"time"
)

func TestDecodeWeeklySchedule(t *testing.T) {
	data := []byte(`{"1":{"start":"09:00","end":"17:00"},"3":{"start":"10:00","end":"14:00"}}`)
	s := DecodeWeeklySchedule(data)

	mon := s.Day(1)
	if mon == nil || mon.Start == nil || mon.End == nil {
		t.Fatal("expected complete Monday entry")
	}
	if *mon.Start != MustTimeOfDay("09:00") || *mon.End != MustTimeOfDay("17:00") {
		t.Errorf("Monday = %s-%s, want 09:00-17:00", mon.Start, mon.End)
	}

	if s.Day(2) != nil {
		t.Error("Tuesday has no entry and should be a day off")
	}
	if s.Day(3) == nil {
		t.Error("Wednesday entry missing")
	}
	if s.Day(7) != nil {
		t.Error("Sunday has no entry and should be a day off")
	}
}

func TestDecodeWeeklySchedule_BadInputMeansNeverWorking(t *testing.T) {
	cases := map[string][]byte{
		"empty bytes":  nil,
		"empty object": []byte(`{}`),
		"not json":     []byte(`not json at all`),
		"wrong shape":  []byte(`[1,2,3]`),
	}

	for name, data := range cases {
		s := DecodeWeeklySchedule(data)
		if !s.IsEmpty() {
			t.Errorf("%s: expected empty schedule", name)
		}
	}
}

func TestDecodeWeeklySchedule_PartialBounds(t *testing.T) {
	// End present, start missing: the entry survives with a nil start so the
	// engine can substitute the clinic default.
	s := DecodeWeeklySchedule([]byte(`{"2":{"end":"15:00"}}`))

	tue := s.Day(2)
	if tue == nil {
		t.Fatal("Tuesday entry missing")
	}
	if tue.Start != nil {
		t.Errorf("expected nil start, got %s", tue.Start)
	}
	if tue.End == nil || *tue.End != MustTimeOfDay("15:00") {
		t.Error("expected end 15:00")
	}
}

func TestDecodeWeeklySchedule_IgnoresUnknownKeys(t *testing.T) {
	s := DecodeWeeklySchedule([]byte(`{"0":{"start":"09:00","end":"17:00"},"8":{"start":"09:00","end":"17:00"},"abc":{"start":"09:00","end":"17:00"}}`))
	if !s.IsEmpty() {
		t.Error("out-of-range day keys should be dropped")
	}
}

func TestWeeklyScheduleRoundTrip(t *testing.T) {
	var s WeeklySchedule
	start := MustTimeOfDay("09:00")
	end := MustTimeOfDay("13:00")
	s.SetDay(6, DayHours{Start: &start, End: &end})

	data, err := json.Marshal(s)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	decoded := DecodeWeeklySchedule(data)
	sat := decoded.Day(6)
	if sat == nil || sat.Start == nil || *sat.Start != start || sat.End == nil || *sat.End != end {
		t.Errorf("round trip lost Saturday hours, got %+v", sat)
	}
}

func TestISODay(t *testing.T) {
	// 2026-09-07 Monday through 2026-09-13 Sunday.
	for offset := 0; offset < 7; offset++ {
		date := time.Date(2026, 9, 7+offset, 0, 0, 0, 0, time.UTC)
		if got, want := ISODay(date), offset+1; got != want {
			t.Errorf("ISODay(%s) = %d, want %d", date.Weekday(), got, want)
		}
	}
}

package schedule

import "testing"

func TestParseTimeOfDay(t *testing.T) {
	cases := []struct {
		in      string
		want    TimeOfDay
		wantErr bool
	}{
		{"09:00", 9 * 60, false},
		{"00:00", 0, false},
		{"23:59", 23*60 + 59, false},
		{"16:30:00", 16*60 + 30, false},
		{"24:00", 0, true},
		{"09:60", 0, true},
		{"0900", 0, true},
		{"", 0, true},
		{"9:xx", 0, true},
	}

	for _, tc := range cases {
		got, err := ParseTimeOfDay(tc.in)
		if tc.wantErr {
			if err == nil {
				t.Errorf("ParseTimeOfDay(%q): expected error, got %v", tc.in, got)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseTimeOfDay(%q): unexpected error: %v", tc.in, err)
			continue
		}
		if got != tc.want {
			t.Errorf("ParseTimeOfDay(%q) = %d, want %d", tc.in, got, tc.want)
		}
	}
}

func TestTimeOfDayFormats(t *testing.T) {
	morning := MustTimeOfDay("09:05")
	if morning.String() != "09:05" {
		t.Errorf("String() = %q, want \"09:05\"", morning.String())
	}
	if morning.Display() != "9:05 AM" {
		t.Errorf("Display() = %q, want \"9:05 AM\"", morning.Display())
	}

	afternoon := MustTimeOfDay("16:30")
	if afternoon.Display() != "4:30 PM" {
		t.Errorf("Display() = %q, want \"4:30 PM\"", afternoon.Display())
	}

	midnight := MustTimeOfDay("00:00")
	if midnight.Display() != "12:00 AM" {
		t.Errorf("Display() = %q, want \"12:00 AM\"", midnight.Display())
	}
}

func TestTimeOfDayAdd(t *testing.T) {
	start := MustTimeOfDay("09:00")
	if got := start.Add(30); got != MustTimeOfDay("09:30") {
		t.Errorf("09:00 + 30min = %s, want 09:30", got)
	}
	if got := start.Add(90); got != MustTimeOfDay("10:30") {
		t.Errorf("09:00 + 90min = %s, want 10:30", got)
	}
}

func TestTimeWindowContains(t *testing.T) {
	win := TimeWindow{Start: MustTimeOfDay("09:00"), End: MustTimeOfDay("17:00")}

	if !win.Contains(MustTimeOfDay("09:00"), MustTimeOfDay("09:30")) {
		t.Error("interval at opening should be contained")
	}
	if !win.Contains(MustTimeOfDay("16:30"), MustTimeOfDay("17:00")) {
		t.Error("interval ending exactly at close should be contained")
	}
	if win.Contains(MustTimeOfDay("08:30"), MustTimeOfDay("09:00")) {
		t.Error("interval before opening should not be contained")
	}
	if win.Contains(MustTimeOfDay("16:45"), MustTimeOfDay("17:15")) {
		t.Error("interval past close should not be contained")
	}
}

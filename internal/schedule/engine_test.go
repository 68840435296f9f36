package schedule

import (
	"testing"
	"time"

	"github.com/google/uuid"
)

// ---------- Helpers ----------

var (
	testDoctor  = uuid.MustParse("11111111-1111-1111-1111-111111111111")
	otherDoctor = uuid.MustParse("22222222-2222-2222-2222-222222222222")
)

// 2026-09-07 is a Monday, 2026-09-13 a Sunday.
var (
	monday = time.Date(2026, 9, 7, 0, 0, 0, 0, time.UTC)
	sunday = time.Date(2026, 9, 13, 0, 0, 0, 0, time.UTC)
)

func testDefaults() Defaults {
	return Defaults{
		Window:              TimeWindow{Start: MustTimeOfDay("08:00"), End: MustTimeOfDay("18:00")},
		SlotDurationMinutes: 30,
	}
}

// weekdaySchedule returns Monday-Friday 09:00-17:00.
func weekdaySchedule() WeeklySchedule {
	var s WeeklySchedule
	start := MustTimeOfDay("09:00")
	end := MustTimeOfDay("17:00")
	for day := 1; day <= 5; day++ {
		s.SetDay(day, DayHours{Start: &start, End: &end})
	}
	return s
}

func booked(id uuid.UUID, doctorID uuid.UUID, date time.Time, start, end string, cancelled bool) BookedInterval {
	return BookedInterval{
		AppointmentID: id,
		DoctorID:      doctorID,
		Date:          date,
		Start:         MustTimeOfDay(start),
		End:           MustTimeOfDay(end),
		Cancelled:     cancelled,
	}
}

// ---------- Working day ----------

func TestIsWorkingDay(t *testing.T) {
	e := NewEngine(testDefaults())
	sched := weekdaySchedule()

	if !e.IsWorkingDay(sched, monday) {
		t.Error("expected Monday to be a working day")
	}
	if e.IsWorkingDay(sched, sunday) {
		t.Error("expected Sunday to be a day off")
	}
	if e.IsWorkingDay(WeeklySchedule{}, monday) {
		t.Error("empty schedule should have no working days")
	}
}

// ---------- Working hours ----------

func TestWithinWorkingHours(t *testing.T) {
	e := NewEngine(testDefaults())
	sched := weekdaySchedule()

	v := e.WithinWorkingHours(sched, monday, MustTimeOfDay("09:00"), MustTimeOfDay("09:30"))
	if !v.Available {
		t.Errorf("09:00-09:30 should be inside 09:00-17:00, got %s", v.Reason)
	}

	v = e.WithinWorkingHours(sched, monday, MustTimeOfDay("08:30"), MustTimeOfDay("09:00"))
	if v.Available || v.Reason != ReasonTooEarly {
		t.Errorf("expected too-early rejection, got %+v", v)
	}
	if v.Boundary != MustTimeOfDay("09:00") {
		t.Errorf("too-early boundary = %s, want 09:00", v.Boundary)
	}

	v = e.WithinWorkingHours(sched, monday, MustTimeOfDay("16:45"), MustTimeOfDay("17:15"))
	if v.Available || v.Reason != ReasonTooLate {
		t.Errorf("expected too-late rejection, got %+v", v)
	}
	if v.Boundary != MustTimeOfDay("17:00") {
		t.Errorf("too-late boundary = %s, want 17:00", v.Boundary)
	}
}

func TestWithinWorkingHours_DefaultsFillIncompleteDay(t *testing.T) {
	e := NewEngine(testDefaults())

	// Day entry exists but has no bounds: clinic defaults 08:00-18:00 apply.
	var sched WeeklySchedule
	sched.SetDay(1, DayHours{})

	v := e.WithinWorkingHours(sched, monday, MustTimeOfDay("08:00"), MustTimeOfDay("08:30"))
	if !v.Available {
		t.Errorf("expected clinic default window to apply, got %s: %s", v.Reason, v.Message())
	}

	v = e.WithinWorkingHours(sched, monday, MustTimeOfDay("07:30"), MustTimeOfDay("08:00"))
	if v.Available || v.Boundary != MustTimeOfDay("08:00") {
		t.Errorf("expected rejection at default opening time, got %+v", v)
	}
}

// ---------- Conflicts ----------

func TestHasConflict_Overlap(t *testing.T) {
	appt := booked(uuid.New(), testDoctor, monday, "10:00", "10:30", false)
	existing := []BookedInterval{appt}

	cases := []struct {
		name       string
		start, end string
		want       bool
	}{
		{"identical", "10:00", "10:30", true},
		{"contained", "10:10", "10:20", true},
		{"containing", "09:45", "10:45", true},
		{"overlap start", "09:45", "10:15", true},
		{"overlap end", "10:15", "10:45", true},
		{"touching before", "09:30", "10:00", false},
		{"touching after", "10:30", "11:00", false},
		{"disjoint", "14:00", "14:30", false},
	}

	for _, tc := range cases {
		got := HasConflict(existing, testDoctor, monday, MustTimeOfDay(tc.start), MustTimeOfDay(tc.end), nil)
		if got != tc.want {
			t.Errorf("%s: HasConflict(%s-%s) = %v, want %v", tc.name, tc.start, tc.end, got, tc.want)
		}
	}
}

func TestHasConflict_Symmetry(t *testing.T) {
	intervals := []TimeWindow{
		{MustTimeOfDay("09:00"), MustTimeOfDay("10:00")},
		{MustTimeOfDay("09:30"), MustTimeOfDay("10:30")},
		{MustTimeOfDay("10:00"), MustTimeOfDay("11:00")},
		{MustTimeOfDay("12:00"), MustTimeOfDay("12:15")},
	}

	for _, a := range intervals {
		for _, b := range intervals {
			if a.Overlaps(b) != b.Overlaps(a) {
				t.Errorf("overlap not symmetric for %v and %v", a, b)
			}
		}
	}
}

func TestHasConflict_IgnoresCancelledOtherDoctorsOtherDates(t *testing.T) {
	existing := []BookedInterval{
		booked(uuid.New(), testDoctor, monday, "10:00", "10:30", true),           // cancelled
		booked(uuid.New(), otherDoctor, monday, "10:00", "10:30", false),         // other doctor
		booked(uuid.New(), testDoctor, monday.AddDate(0, 0, 1), "10:00", "10:30", false), // other date
	}

	if HasConflict(existing, testDoctor, monday, MustTimeOfDay("10:00"), MustTimeOfDay("10:30"), nil) {
		t.Error("cancelled, other-doctor and other-date appointments should not conflict")
	}
}

func TestHasConflict_ExcludeAppointment(t *testing.T) {
	id := uuid.New()
	existing := []BookedInterval{booked(id, testDoctor, monday, "14:00", "14:30", false)}

	// Re-validating appointment #id's own unchanged slot: without exclusion
	// it conflicts with itself, with exclusion it does not.
	if !HasConflict(existing, testDoctor, monday, MustTimeOfDay("14:00"), MustTimeOfDay("14:30"), nil) {
		t.Error("expected self-conflict without exclusion")
	}
	if HasConflict(existing, testDoctor, monday, MustTimeOfDay("14:00"), MustTimeOfDay("14:30"), &id) {
		t.Error("expected no conflict when the appointment excludes itself")
	}
}

// ---------- CheckSlot ----------

func TestCheckSlot_Order(t *testing.T) {
	e := NewEngine(testDefaults())
	sched := weekdaySchedule()
	existing := []BookedInterval{booked(uuid.New(), testDoctor, monday, "10:00", "10:30", false)}

	// Sunday request fails with NotWorkingDay regardless of time.
	v := e.CheckSlot(sched, existing, SlotRequest{
		DoctorID: testDoctor, Date: sunday,
		Start: MustTimeOfDay("10:00"), End: MustTimeOfDay("10:30"),
	})
	if v.Available || v.Reason != ReasonNotWorkingDay {
		t.Errorf("Sunday: got %+v, want NotWorkingDay", v)
	}
	if v.Weekday != time.Sunday {
		t.Errorf("Sunday verdict weekday = %s", v.Weekday)
	}

	// Too-early beats conflict checks.
	v = e.CheckSlot(sched, existing, SlotRequest{
		DoctorID: testDoctor, Date: monday,
		Start: MustTimeOfDay("08:30"), End: MustTimeOfDay("09:00"),
	})
	if v.Reason != ReasonTooEarly {
		t.Errorf("expected ReasonTooEarly, got %s", v.Reason)
	}

	// Conflicting slot.
	v = e.CheckSlot(sched, existing, SlotRequest{
		DoctorID: testDoctor, Date: monday,
		Start: MustTimeOfDay("10:00"), End: MustTimeOfDay("10:30"),
	})
	if v.Reason != ReasonConflict {
		t.Errorf("expected ReasonConflict, got %s", v.Reason)
	}

	// Inverted interval is rejected defensively.
	v = e.CheckSlot(sched, existing, SlotRequest{
		DoctorID: testDoctor, Date: monday,
		Start: MustTimeOfDay("11:00"), End: MustTimeOfDay("10:00"),
	})
	if v.Reason != ReasonInvalidInterval {
		t.Errorf("expected ReasonInvalidInterval, got %s", v.Reason)
	}

	// Free slot on a working day.
	v = e.CheckSlot(sched, existing, SlotRequest{
		DoctorID: testDoctor, Date: monday,
		Start: MustTimeOfDay("11:00"), End: MustTimeOfDay("11:30"),
	})
	if !v.Available {
		t.Errorf("11:00-11:30 should be available, got %s: %s", v.Reason, v.Message())
	}
}

func TestCheckSlot_EditKeepingSameTime(t *testing.T) {
	e := NewEngine(testDefaults())
	sched := weekdaySchedule()
	id := uuid.New()
	existing := []BookedInterval{booked(id, testDoctor, monday, "14:00", "14:30", false)}

	req := SlotRequest{
		DoctorID: testDoctor, Date: monday,
		Start: MustTimeOfDay("14:00"), End: MustTimeOfDay("14:30"),
	}

	if v := e.CheckSlot(sched, existing, req); v.Reason != ReasonConflict {
		t.Errorf("without exclusion expected self-conflict, got %s", v.Reason)
	}

	req.ExcludeAppointmentID = &id
	if v := e.CheckSlot(sched, existing, req); !v.Available {
		t.Errorf("with exclusion expected available, got %s", v.Reason)
	}
}

// ---------- Slot generation ----------

func TestGenerateSlots_FullDay(t *testing.T) {
	e := NewEngine(testDefaults())
	sched := weekdaySchedule()

	slots := e.GenerateSlots(sched, nil, testDoctor, monday, 30)
	if len(slots) != 16 {
		t.Fatalf("expected 16 slots for 09:00-17:00 at 30min, got %d", len(slots))
	}
	if slots[0].Start != MustTimeOfDay("09:00") {
		t.Errorf("first slot starts at %s, want 09:00", slots[0].Start)
	}
	if last := slots[len(slots)-1]; last.Start != MustTimeOfDay("16:30") || last.End != MustTimeOfDay("17:00") {
		t.Errorf("last slot = %s-%s, want 16:30-17:00", last.Start, last.End)
	}
	if slots[0].Display != "9:00 AM" {
		t.Errorf("display label = %q, want \"9:00 AM\"", slots[0].Display)
	}

	for i := 1; i < len(slots); i++ {
		if slots[i].Start <= slots[i-1].Start {
			t.Fatal("slots are not in ascending time order")
		}
	}
}

func TestGenerateSlots_SkipsBookedSlot(t *testing.T) {
	e := NewEngine(testDefaults())
	sched := weekdaySchedule()
	existing := []BookedInterval{booked(uuid.New(), testDoctor, monday, "10:00", "10:30", false)}

	slots := e.GenerateSlots(sched, existing, testDoctor, monday, 30)
	if len(slots) != 15 {
		t.Fatalf("expected 15 slots with one booked, got %d", len(slots))
	}

	starts := make(map[TimeOfDay]bool)
	for _, s := range slots {
		starts[s.Start] = true
	}
	if starts[MustTimeOfDay("10:00")] {
		t.Error("10:00 slot should be omitted")
	}
	if !starts[MustTimeOfDay("09:30")] || !starts[MustTimeOfDay("10:30")] {
		t.Error("neighbouring 09:30 and 10:30 slots should remain")
	}
}

func TestGenerateSlots_CancelledDoesNotBlock(t *testing.T) {
	e := NewEngine(testDefaults())
	sched := weekdaySchedule()
	existing := []BookedInterval{booked(uuid.New(), testDoctor, monday, "10:00", "10:30", true)}

	slots := e.GenerateSlots(sched, existing, testDoctor, monday, 30)
	if len(slots) != 16 {
		t.Fatalf("cancelled appointment should not block, got %d slots", len(slots))
	}
}

func TestGenerateSlots_NonWorkingDayEmpty(t *testing.T) {
	e := NewEngine(testDefaults())

	if slots := e.GenerateSlots(weekdaySchedule(), nil, testDoctor, sunday, 30); len(slots) != 0 {
		t.Errorf("expected no slots on Sunday, got %d", len(slots))
	}
	if slots := e.GenerateSlots(WeeklySchedule{}, nil, testDoctor, monday, 30); len(slots) != 0 {
		t.Errorf("expected no slots with empty schedule, got %d", len(slots))
	}
}

func TestGenerateSlots_NoPartialTrailingSlot(t *testing.T) {
	e := NewEngine(testDefaults())

	// 09:00-10:15 at 30 minutes: 09:00 and 09:30 fit, 10:00-10:30 would
	// extend past closing and must not appear truncated.
	var sched WeeklySchedule
	start := MustTimeOfDay("09:00")
	end := MustTimeOfDay("10:15")
	sched.SetDay(1, DayHours{Start: &start, End: &end})

	slots := e.GenerateSlots(sched, nil, testDoctor, monday, 30)
	if len(slots) != 2 {
		t.Fatalf("expected 2 full slots, got %d", len(slots))
	}
	if last := slots[len(slots)-1]; last.End != MustTimeOfDay("10:00") {
		t.Errorf("last slot ends at %s, want 10:00", last.End)
	}
}

func TestGenerateSlots_Idempotent(t *testing.T) {
	e := NewEngine(testDefaults())
	sched := weekdaySchedule()
	existing := []BookedInterval{booked(uuid.New(), testDoctor, monday, "11:00", "11:30", false)}

	first := e.GenerateSlots(sched, existing, testDoctor, monday, 30)
	second := e.GenerateSlots(sched, existing, testDoctor, monday, 30)

	if len(first) != len(second) {
		t.Fatalf("repeated generation differs in length: %d vs %d", len(first), len(second))
	}
	for i := range first {
		if first[i] != second[i] {
			t.Fatalf("slot %d differs between runs: %+v vs %+v", i, first[i], second[i])
		}
	}
}

func TestGenerateSlots_ConsistentWithCheckSlot(t *testing.T) {
	e := NewEngine(testDefaults())
	sched := weekdaySchedule()
	existing := []BookedInterval{
		booked(uuid.New(), testDoctor, monday, "09:30", "10:00", false),
		booked(uuid.New(), testDoctor, monday, "13:00", "14:00", false),
	}

	for _, slot := range e.GenerateSlots(sched, existing, testDoctor, monday, 30) {
		v := e.CheckSlot(sched, existing, SlotRequest{
			DoctorID: testDoctor, Date: monday, Start: slot.Start, End: slot.End,
		})
		if !v.Available {
			t.Errorf("generated slot %s-%s fails CheckSlot: %s", slot.Start, slot.End, v.Reason)
		}
	}
}

func TestSlots_LazySequenceStopsEarly(t *testing.T) {
	e := NewEngine(testDefaults())
	sched := weekdaySchedule()

	var got []TimeSlot
	for slot := range e.Slots(sched, nil, testDoctor, monday, 30) {
		got = append(got, slot)
		if len(got) == 3 {
			break
		}
	}
	if len(got) != 3 {
		t.Fatalf("expected early break after 3 slots, got %d", len(got))
	}
	if got[2].Start != MustTimeOfDay("10:00") {
		t.Errorf("third slot starts at %s, want 10:00", got[2].Start)
	}
}

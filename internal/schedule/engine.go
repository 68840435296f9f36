package schedule

import (
	"fmt"
	"iter"
	"slices"
	"time"

	"github.com/google/uuid"
)

// Reason classifies why a requested slot was rejected, or ReasonAvailable
// when it was not. These are expected business outcomes, not errors; callers
// choose whether to show Message() to a patient or just log it.
type Reason int

const (
	ReasonAvailable Reason = iota
	ReasonInvalidInterval
	ReasonNotWorkingDay
	ReasonTooEarly
	ReasonTooLate
	ReasonConflict
)

func (r Reason) String() string {
	switch r {
	case ReasonAvailable:
		return "available"
	case ReasonInvalidInterval:
		return "invalid_interval"
	case ReasonNotWorkingDay:
		return "not_working_day"
	case ReasonTooEarly:
		return "before_working_hours"
	case ReasonTooLate:
		return "after_working_hours"
	case ReasonConflict:
		return "slot_conflict"
	default:
		return "unknown"
	}
}

// Availability is the engine's verdict on a single slot request.
type Availability struct {
	Available bool
	Reason    Reason
	Weekday   time.Weekday // set for ReasonNotWorkingDay
	Boundary  TimeOfDay    // set for ReasonTooEarly / ReasonTooLate
}

// Message renders the patient-facing explanation for the verdict.
func (a Availability) Message() string {
	switch a.Reason {
	case ReasonAvailable:
		return "time slot is available"
	case ReasonInvalidInterval:
		return "start time must be before end time"
	case ReasonNotWorkingDay:
		return fmt.Sprintf("the doctor does not work on %s, please select another date", a.Weekday)
	case ReasonTooEarly:
		return fmt.Sprintf("the selected time is before working hours starting at %s", a.Boundary.Display())
	case ReasonTooLate:
		return fmt.Sprintf("the selected time extends beyond working hours ending at %s", a.Boundary.Display())
	case ReasonConflict:
		return "this time slot is already booked, please select another time"
	default:
		return "time slot is not available"
	}
}

func available() Availability {
	return Availability{Available: true, Reason: ReasonAvailable}
}

// BookedInterval is the projection of an existing appointment the engine
// needs for conflict detection. Cancelled appointments free their slot and
// are skipped.
type BookedInterval struct {
	AppointmentID uuid.UUID
	DoctorID      uuid.UUID
	Date          time.Time
	Start         TimeOfDay
	End           TimeOfDay
	Cancelled     bool
}

// SlotRequest asks whether [Start, End) on Date is bookable for a doctor.
// ExcludeAppointmentID is set when re-validating an appointment being
// edited, so it does not conflict with itself.
type SlotRequest struct {
	DoctorID             uuid.UUID
	Date                 time.Time
	Start                TimeOfDay
	End                  TimeOfDay
	ExcludeAppointmentID *uuid.UUID
}

// TimeSlot is one offerable booking slot.
type TimeSlot struct {
	Start   TimeOfDay
	End     TimeOfDay
	Display string
}

// Defaults carries the clinic-wide configuration the engine falls back on:
// the open/close window used when a working day's stored hours are
// incomplete, and the slot length.
type Defaults struct {
	Window              TimeWindow
	SlotDurationMinutes int
}

// Engine computes slot availability from caller-supplied snapshots of a
// doctor's weekly schedule and existing bookings. It is pure: no I/O, no
// internal state, safe for concurrent use. Serialization of competing
// bookings is the storage layer's job; callers must re-run CheckSlot inside
// whatever lock or transaction guards the write.
type Engine struct {
	defaults Defaults
}

func NewEngine(defaults Defaults) Engine {
	return Engine{defaults: defaults}
}

// IsWorkingDay reports whether the schedule has an entry for the date's
// weekday. An absent entry always means the doctor is off that day.
func (e Engine) IsWorkingDay(sched WeeklySchedule, date time.Time) bool {
	return sched.Day(ISODay(date)) != nil
}

// dayWindow resolves the working window for a date. Missing start or end
// bounds on an otherwise-configured day fall back to the clinic defaults;
// a missing day entry yields no window at all.
func (e Engine) dayWindow(sched WeeklySchedule, date time.Time) (TimeWindow, bool) {
	hours := sched.Day(ISODay(date))
	if hours == nil {
		return TimeWindow{}, false
	}

	win := e.defaults.Window
	if hours.Start != nil {
		win.Start = *hours.Start
	}
	if hours.End != nil {
		win.End = *hours.End
	}
	return win, true
}

// WithinWorkingHours verifies that [start, end) lies inside the date's
// working window. The failure verdict carries the violated boundary so the
// message can reference it.
func (e Engine) WithinWorkingHours(sched WeeklySchedule, date time.Time, start, end TimeOfDay) Availability {
	win, ok := e.dayWindow(sched, date)
	if !ok {
		return Availability{Reason: ReasonNotWorkingDay, Weekday: date.Weekday()}
	}

	if start < win.Start {
		return Availability{Reason: ReasonTooEarly, Boundary: win.Start}
	}
	if end > win.End {
		return Availability{Reason: ReasonTooLate, Boundary: win.End}
	}
	return available()
}

// HasConflict reports whether [start, end) overlaps any non-cancelled
// appointment for the doctor on the date, skipping excludeID when given.
func HasConflict(booked []BookedInterval, doctorID uuid.UUID, date time.Time, start, end TimeOfDay, excludeID *uuid.UUID) bool {
	requested := TimeWindow{Start: start, End: end}

	for _, b := range booked {
		if b.Cancelled || b.DoctorID != doctorID || !sameDate(b.Date, date) {
			continue
		}
		if excludeID != nil && b.AppointmentID == *excludeID {
			continue
		}
		if requested.Overlaps(TimeWindow{Start: b.Start, End: b.End}) {
			return true
		}
	}
	return false
}

// CheckSlot composes the availability checks in order: interval sanity,
// working day, working hours, conflicts. It short-circuits at the first
// failure so callers get the most specific reason.
func (e Engine) CheckSlot(sched WeeklySchedule, booked []BookedInterval, req SlotRequest) Availability {
	if req.Start >= req.End {
		return Availability{Reason: ReasonInvalidInterval}
	}

	if !e.IsWorkingDay(sched, req.Date) {
		return Availability{Reason: ReasonNotWorkingDay, Weekday: req.Date.Weekday()}
	}

	if v := e.WithinWorkingHours(sched, req.Date, req.Start, req.End); !v.Available {
		return v
	}

	if HasConflict(booked, req.DoctorID, req.Date, req.Start, req.End, req.ExcludeAppointmentID) {
		return Availability{Reason: ReasonConflict}
	}

	return available()
}

// Slots yields the bookable slots for a doctor on a date in ascending time
// order. Starting at the day's opening time it steps by durationMinutes,
// emitting each candidate that CheckSlot accepts, and stops once a slot
// would extend past the closing time. Partial trailing slots are never
// emitted. The sequence is deterministic and restartable; nothing is
// cached or mutated.
func (e Engine) Slots(sched WeeklySchedule, booked []BookedInterval, doctorID uuid.UUID, date time.Time, durationMinutes int) iter.Seq[TimeSlot] {
	return func(yield func(TimeSlot) bool) {
		if durationMinutes <= 0 {
			durationMinutes = e.defaults.SlotDurationMinutes
		}
		if durationMinutes <= 0 {
			return
		}

		win, ok := e.dayWindow(sched, date)
		if !ok {
			return
		}

		for cur := win.Start; cur.Add(durationMinutes) <= win.End; cur = cur.Add(durationMinutes) {
			req := SlotRequest{
				DoctorID: doctorID,
				Date:     date,
				Start:    cur,
				End:      cur.Add(durationMinutes),
			}
			if !e.CheckSlot(sched, booked, req).Available {
				continue
			}
			if !yield(TimeSlot{Start: req.Start, End: req.End, Display: req.Start.Display()}) {
				return
			}
		}
	}
}

// GenerateSlots collects Slots into a slice for callers that want the whole
// day at once, such as the slot-listing endpoint.
func (e Engine) GenerateSlots(sched WeeklySchedule, booked []BookedInterval, doctorID uuid.UUID, date time.Time, durationMinutes int) []TimeSlot {
	return slices.Collect(e.Slots(sched, booked, doctorID, date, durationMinutes))
}

func sameDate(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

package booking

import (
	"time"

	"github.com/google/uuid"

	"github.com/clinicdesk/clinic-booking/internal/schedule"
)

type AppointmentStatus string

const (
	StatusPending   AppointmentStatus = "pending"
	StatusConfirmed AppointmentStatus = "confirmed"
	StatusCompleted AppointmentStatus = "completed"
	StatusCancelled AppointmentStatus = "cancelled"
)

type Specialty struct {
	ID          uuid.UUID
	Name        string
	Description *string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

type Doctor struct {
	ID          uuid.UUID
	Name        string
	SpecialtyID uuid.UUID
	Schedule    schedule.WeeklySchedule
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Appointment carries the patient's contact details inline; the public
// booking flow has no patient accounts, only a tracking code.
type Appointment struct {
	ID           uuid.UUID
	DoctorID     uuid.UUID
	Date         time.Time
	StartTime    schedule.TimeOfDay
	EndTime      schedule.TimeOfDay
	PatientName  string
	PatientEmail string
	PatientPhone string
	Notes        *string
	Status       AppointmentStatus
	TrackingCode string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Interval projects the appointment into the form the availability engine
// consumes.
func (a Appointment) Interval() schedule.BookedInterval {
	return schedule.BookedInterval{
		AppointmentID: a.ID,
		DoctorID:      a.DoctorID,
		Date:          a.Date,
		Start:         a.StartTime,
		End:           a.EndTime,
		Cancelled:     a.Status == StatusCancelled,
	}
}

type EventLog struct {
	ID            int64
	EventType     string
	AppointmentID *uuid.UUID
	Payload       []byte
	CreatedAt     time.Time
}

// AppointmentDetail is the hydrated view returned to handlers.
type AppointmentDetail struct {
	Appointment
	Doctor    *Doctor
	Specialty *Specialty
}

package booking

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/clinicdesk/clinic-booking/internal/schedule"
)

var (
	ErrSpecialtyNotFound   = errors.New("specialty not found")
	ErrDoctorNotFound      = errors.New("doctor not found")
	ErrAppointmentNotFound = errors.New("appointment not found")
	ErrSettingNotFound     = errors.New("setting not found")
)

// Repository contains all DB interactions needed by the service.
type Repository interface {
	ListSpecialties(ctx context.Context) ([]Specialty, error)
	GetSpecialtyByID(ctx context.Context, id uuid.UUID) (*Specialty, error)

	ListDoctorsBySpecialty(ctx context.Context, specialtyID uuid.UUID) ([]Doctor, error)
	GetDoctorByID(ctx context.Context, id uuid.UUID) (*Doctor, error)

	// Day snapshot for conflict checks; includes cancelled rows so the
	// engine's own filtering stays authoritative.
	ListAppointmentsForDay(ctx context.Context, doctorID uuid.UUID, date time.Time) ([]Appointment, error)

	GetAppointmentByID(ctx context.Context, id uuid.UUID) (*Appointment, error)
	GetAppointmentByTrackingCode(ctx context.Context, code string) (*Appointment, error)
	GetAppointmentDetail(ctx context.Context, id uuid.UUID) (*AppointmentDetail, error)

	CreateAppointment(ctx context.Context, appt Appointment) (*Appointment, error)
	UpdateAppointmentStatus(ctx context.Context, id uuid.UUID, from, to AppointmentStatus) (*Appointment, error)
	UpdateAppointmentTime(ctx context.Context, id uuid.UUID, date time.Time, start, end schedule.TimeOfDay) (*Appointment, error)

	// Completion worker
	FindFinishedConfirmed(ctx context.Context, now time.Time) ([]Appointment, error)

	// Clinic-wide settings, e.g. appointment_duration
	GetSettingInt(ctx context.Context, key string) (int, error)

	// Event logging
	InsertEvent(ctx context.Context, ev EventLog) error
}

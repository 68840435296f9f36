package api

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/clinicdesk/clinic-booking/internal/booking"
	"github.com/clinicdesk/clinic-booking/internal/schedule"
)

// BookingService is the slice of the booking service the handlers need.
// Tests substitute an in-memory implementation.
type BookingService interface {
	ListSpecialties(ctx context.Context) ([]booking.Specialty, error)
	ListDoctors(ctx context.Context, specialtyID uuid.UUID) ([]booking.Doctor, error)
	AvailableSlots(ctx context.Context, doctorID uuid.UUID, date time.Time) ([]schedule.TimeSlot, error)
	CreateAppointment(ctx context.Context, req booking.CreateRequest) (*booking.Appointment, error)
	GetAppointment(ctx context.Context, id uuid.UUID) (*booking.AppointmentDetail, error)
	Confirm(ctx context.Context, id uuid.UUID) (*booking.Appointment, error)
	Cancel(ctx context.Context, id uuid.UUID) (*booking.Appointment, error)
	Reschedule(ctx context.Context, id uuid.UUID, date time.Time, start schedule.TimeOfDay) (*booking.Appointment, error)
	TrackByCode(ctx context.Context, code string) (*booking.AppointmentDetail, error)
}

type RouterConfig struct {
	Service BookingService
	PgPool  *pgxpool.Pool
	Redis   *redis.Client
	Logger  zerolog.Logger
	Env     string
	Version string
}

func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	r.Use(RequestIDMiddleware)
	r.Use(LoggingMiddleware(cfg.Logger))

	// Health endpoints
	health := NewHealthHandler(cfg.PgPool, cfg.Redis, cfg.Env, cfg.Version)
	r.Get("/health/live", health.Liveness)
	r.Get("/health/ready", health.Readiness)

	// Public booking flow: specialty -> doctor -> slots -> appointment
	r.Get("/specialties", listSpecialtiesHandler(cfg.Service))
	r.Get("/specialties/{id}/doctors", listDoctorsHandler(cfg.Service))
	r.Get("/doctors/{id}/slots", listSlotsHandler(cfg.Service))

	r.Post("/appointments", createAppointmentHandler(cfg.Service))
	r.Get("/appointments/{id}", getAppointmentHandler(cfg.Service))
	r.Post("/appointments/{id}/confirm", confirmAppointmentHandler(cfg.Service))
	r.Post("/appointments/{id}/cancel", cancelAppointmentHandler(cfg.Service))
	r.Post("/appointments/{id}/reschedule", rescheduleAppointmentHandler(cfg.Service))

	// Patient tracking page backend
	r.Get("/track/{code}", trackAppointmentHandler(cfg.Service))

	return r
}

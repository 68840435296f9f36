package booking

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/clinicdesk/clinic-booking/internal/config"
	redisclient "github.com/clinicdesk/clinic-booking/internal/redis"
	"github.com/clinicdesk/clinic-booking/internal/schedule"
)

const (
	EventAppointmentCreated     = "APPOINTMENT_CREATED"
	EventAppointmentConfirmed   = "APPOINTMENT_CONFIRMED"
	EventAppointmentCancelled   = "APPOINTMENT_CANCELLED"
	EventAppointmentRescheduled = "APPOINTMENT_RESCHEDULED"
	EventAppointmentCompleted   = "APPOINTMENT_COMPLETED"
)

const settingAppointmentDuration = "appointment_duration"

var (
	ErrScheduleBusy            = errors.New("schedule is currently being booked, please retry")
	ErrInvalidStatusTransition = errors.New("invalid status transition")
	ErrMissingPatientName      = errors.New("patient name is required")
	ErrInvalidPatientEmail     = errors.New("patient email is invalid")
	ErrInvalidPatientPhone     = errors.New("patient phone is invalid")
)

// SlotUnavailableError carries the engine's verdict to the API layer so the
// patient sees the specific reason (day off, outside hours, already booked).
type SlotUnavailableError struct {
	Verdict schedule.Availability
}

func (e *SlotUnavailableError) Error() string {
	return e.Verdict.Message()
}

// Service wires the pure availability engine to storage and the per-schedule
// lock. All availability decisions are re-made inside the locked section;
// anything computed earlier (e.g. for the slot picker) is advisory only.
type Service struct {
	repo   Repository
	locker redisclient.Locker
	engine schedule.Engine
	cfg    config.Config
	log    zerolog.Logger
}

func NewService(repo Repository, locker redisclient.Locker, cfg config.Config, log zerolog.Logger) *Service {
	engine := schedule.NewEngine(schedule.Defaults{
		Window:              schedule.TimeWindow{Start: cfg.ClinicOpen, End: cfg.ClinicClose},
		SlotDurationMinutes: cfg.SlotDurationMinutes,
	})

	return &Service{
		repo:   repo,
		locker: locker,
		engine: engine,
		cfg:    cfg,
		log:    log.With().Str("component", "booking").Logger(),
	}
}

func (s *Service) ListSpecialties(ctx context.Context) ([]Specialty, error) {
	specs, err := s.repo.ListSpecialties(ctx)
	if err != nil {
		return nil, fmt.Errorf("list specialties: %w", err)
	}
	return specs, nil
}

func (s *Service) ListDoctors(ctx context.Context, specialtyID uuid.UUID) ([]Doctor, error) {
	if _, err := s.repo.GetSpecialtyByID(ctx, specialtyID); err != nil {
		if errors.Is(err, ErrSpecialtyNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("load specialty: %w", err)
	}

	doctors, err := s.repo.ListDoctorsBySpecialty(ctx, specialtyID)
	if err != nil {
		return nil, fmt.Errorf("list doctors: %w", err)
	}
	return doctors, nil
}

// slotDuration resolves the clinic-wide slot length: the settings row wins,
// the configured default backs it up. Changing the setting never rewrites
// the stored end times of existing appointments.
func (s *Service) slotDuration(ctx context.Context) int {
	d, err := s.repo.GetSettingInt(ctx, settingAppointmentDuration)
	if err != nil {
		if !errors.Is(err, ErrSettingNotFound) {
			s.log.Warn().Err(err).Msg("reading appointment_duration setting, using default")
		}
		return s.cfg.SlotDurationMinutes
	}
	if d <= 0 {
		return s.cfg.SlotDurationMinutes
	}
	return d
}

// AvailableSlots returns the bookable slots for a doctor on a date. A day
// the doctor does not work yields a SlotUnavailableError rather than a bare
// empty list, so the booking UI can tell the patient why.
func (s *Service) AvailableSlots(ctx context.Context, doctorID uuid.UUID, date time.Time) ([]schedule.TimeSlot, error) {
	doctor, err := s.repo.GetDoctorByID(ctx, doctorID)
	if err != nil {
		if errors.Is(err, ErrDoctorNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("load doctor: %w", err)
	}

	if !s.engine.IsWorkingDay(doctor.Schedule, date) {
		return nil, &SlotUnavailableError{Verdict: schedule.Availability{
			Reason:  schedule.ReasonNotWorkingDay,
			Weekday: date.Weekday(),
		}}
	}

	appts, err := s.repo.ListAppointmentsForDay(ctx, doctorID, date)
	if err != nil {
		return nil, fmt.Errorf("load day appointments: %w", err)
	}

	return s.engine.GenerateSlots(doctor.Schedule, intervals(appts), doctorID, date, s.slotDuration(ctx)), nil
}

// CreateRequest is a booking submission from the public flow. End time is
// derived from the clinic-wide slot duration, matching how slots were
// offered.
type CreateRequest struct {
	DoctorID     uuid.UUID
	Date         time.Time
	Start        schedule.TimeOfDay
	PatientName  string
	PatientEmail string
	PatientPhone string
	Notes        *string
}

func (r CreateRequest) validate() error {
	if strings.TrimSpace(r.PatientName) == "" {
		return ErrMissingPatientName
	}
	if !ValidEmail(r.PatientEmail) {
		return ErrInvalidPatientEmail
	}
	if !ValidPhone(r.PatientPhone) {
		return ErrInvalidPatientPhone
	}
	return nil
}

// CreateAppointment books a slot. The schedule lock serializes competing
// submissions for the same doctor and day, and the availability check runs
// again inside the critical section before anything is written.
func (s *Service) CreateAppointment(ctx context.Context, req CreateRequest) (*Appointment, error) {
	if err := req.validate(); err != nil {
		return nil, err
	}

	doctor, err := s.repo.GetDoctorByID(ctx, req.DoctorID)
	if err != nil {
		if errors.Is(err, ErrDoctorNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("load doctor: %w", err)
	}

	duration := s.slotDuration(ctx)
	end := req.Start.Add(duration)

	var created *Appointment

	err = s.locker.WithScheduleLock(ctx, req.DoctorID, req.Date, func(lockCtx context.Context) error {
		appts, err := s.repo.ListAppointmentsForDay(lockCtx, req.DoctorID, req.Date)
		if err != nil {
			return fmt.Errorf("load day appointments: %w", err)
		}

		verdict := s.engine.CheckSlot(doctor.Schedule, intervals(appts), schedule.SlotRequest{
			DoctorID: req.DoctorID,
			Date:     req.Date,
			Start:    req.Start,
			End:      end,
		})
		if !verdict.Available {
			return &SlotUnavailableError{Verdict: verdict}
		}

		now := time.Now()
		appt, err := s.repo.CreateAppointment(lockCtx, Appointment{
			ID:           uuid.New(),
			DoctorID:     req.DoctorID,
			Date:         req.Date,
			StartTime:    req.Start,
			EndTime:      end,
			PatientName:  strings.TrimSpace(req.PatientName),
			PatientEmail: strings.TrimSpace(req.PatientEmail),
			PatientPhone: strings.TrimSpace(req.PatientPhone),
			Notes:        req.Notes,
			Status:       StatusPending,
			TrackingCode: NewTrackingCode(s.cfg.TrackingCodePrefix, now),
		})
		if err != nil {
			return fmt.Errorf("create appointment: %w", err)
		}

		created = appt

		s.logEvent(lockCtx, appt.ID, EventAppointmentCreated, map[string]any{
			"doctor_id":  req.DoctorID.String(),
			"date":       req.Date.Format("2006-01-02"),
			"start_time": req.Start.String(),
		})

		return nil
	})

	if err != nil {
		if errors.Is(err, redisclient.ErrLockNotAcquired) {
			return nil, ErrScheduleBusy
		}
		return nil, err
	}

	return created, nil
}

// Reschedule moves an appointment to a new date and start time. The
// appointment excludes itself from the conflict check, so keeping the same
// slot is always valid.
func (s *Service) Reschedule(ctx context.Context, id uuid.UUID, date time.Time, start schedule.TimeOfDay) (*Appointment, error) {
	appt, err := s.repo.GetAppointmentByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("load appointment: %w", err)
	}

	if appt.Status != StatusPending && appt.Status != StatusConfirmed {
		return nil, ErrInvalidStatusTransition
	}

	doctor, err := s.repo.GetDoctorByID(ctx, appt.DoctorID)
	if err != nil {
		return nil, fmt.Errorf("load doctor: %w", err)
	}

	duration := s.slotDuration(ctx)
	end := start.Add(duration)

	var updated *Appointment

	err = s.locker.WithScheduleLock(ctx, appt.DoctorID, date, func(lockCtx context.Context) error {
		appts, err := s.repo.ListAppointmentsForDay(lockCtx, appt.DoctorID, date)
		if err != nil {
			return fmt.Errorf("load day appointments: %w", err)
		}

		verdict := s.engine.CheckSlot(doctor.Schedule, intervals(appts), schedule.SlotRequest{
			DoctorID:             appt.DoctorID,
			Date:                 date,
			Start:                start,
			End:                  end,
			ExcludeAppointmentID: &appt.ID,
		})
		if !verdict.Available {
			return &SlotUnavailableError{Verdict: verdict}
		}

		moved, err := s.repo.UpdateAppointmentTime(lockCtx, appt.ID, date, start, end)
		if err != nil {
			return fmt.Errorf("update appointment time: %w", err)
		}

		updated = moved

		s.logEvent(lockCtx, appt.ID, EventAppointmentRescheduled, map[string]any{
			"date":       date.Format("2006-01-02"),
			"start_time": start.String(),
		})

		return nil
	})

	if err != nil {
		if errors.Is(err, redisclient.ErrLockNotAcquired) {
			return nil, ErrScheduleBusy
		}
		return nil, err
	}

	return updated, nil
}

// Confirm moves a pending appointment to confirmed.
func (s *Service) Confirm(ctx context.Context, id uuid.UUID) (*Appointment, error) {
	appt, err := s.repo.UpdateAppointmentStatus(ctx, id, StatusPending, StatusConfirmed)
	if err != nil {
		if errors.Is(err, ErrAppointmentNotFound) {
			return nil, s.transitionError(ctx, id)
		}
		return nil, fmt.Errorf("confirm appointment: %w", err)
	}

	s.logEvent(ctx, appt.ID, EventAppointmentConfirmed, map[string]any{})
	return appt, nil
}

// Cancel releases the slot. Pending and confirmed appointments can be
// cancelled; completed ones cannot.
func (s *Service) Cancel(ctx context.Context, id uuid.UUID) (*Appointment, error) {
	appt, err := s.repo.GetAppointmentByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("load appointment: %w", err)
	}

	if appt.Status != StatusPending && appt.Status != StatusConfirmed {
		return nil, ErrInvalidStatusTransition
	}

	cancelled, err := s.repo.UpdateAppointmentStatus(ctx, id, appt.Status, StatusCancelled)
	if err != nil {
		if errors.Is(err, ErrAppointmentNotFound) {
			// Status changed under us between read and update.
			return nil, ErrInvalidStatusTransition
		}
		return nil, fmt.Errorf("cancel appointment: %w", err)
	}

	s.logEvent(ctx, cancelled.ID, EventAppointmentCancelled, map[string]any{})
	return cancelled, nil
}

// transitionError distinguishes "no such appointment" from "exists but not
// in the expected status" after a compare-and-set update matched no row.
func (s *Service) transitionError(ctx context.Context, id uuid.UUID) error {
	if _, err := s.repo.GetAppointmentByID(ctx, id); err != nil {
		return err
	}
	return ErrInvalidStatusTransition
}

// GetAppointment retrieves a fully hydrated appointment by ID.
func (s *Service) GetAppointment(ctx context.Context, id uuid.UUID) (*AppointmentDetail, error) {
	detail, err := s.repo.GetAppointmentDetail(ctx, id)
	if err != nil {
		if errors.Is(err, ErrAppointmentNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("get appointment: %w", err)
	}
	return detail, nil
}

// TrackByCode powers the public tracking page.
func (s *Service) TrackByCode(ctx context.Context, code string) (*AppointmentDetail, error) {
	appt, err := s.repo.GetAppointmentByTrackingCode(ctx, strings.ToUpper(strings.TrimSpace(code)))
	if err != nil {
		if errors.Is(err, ErrAppointmentNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("track appointment: %w", err)
	}
	return s.GetAppointment(ctx, appt.ID)
}

// CompleteFinished is called periodically by the completion worker: confirmed
// appointments whose end time has passed become completed.
func (s *Service) CompleteFinished(ctx context.Context, now time.Time) error {
	finished, err := s.repo.FindFinishedConfirmed(ctx, now)
	if err != nil {
		return fmt.Errorf("find finished appointments: %w", err)
	}

	for _, appt := range finished {
		_, err := s.repo.UpdateAppointmentStatus(ctx, appt.ID, StatusConfirmed, StatusCompleted)
		if err != nil && !errors.Is(err, ErrAppointmentNotFound) {
			s.log.Error().Err(err).Stringer("appointment_id", appt.ID).Msg("failed to complete appointment")
			continue
		}
		s.logEvent(ctx, appt.ID, EventAppointmentCompleted, map[string]any{
			"reason": "worker",
		})
	}

	return nil
}

func (s *Service) logEvent(ctx context.Context, appointmentID uuid.UUID, eventType string, payload map[string]any) {
	data, err := json.Marshal(payload)
	if err != nil {
		s.log.Error().Err(err).Str("event_type", eventType).Msg("failed to marshal event payload")
		data = nil
	}

	apptID := appointmentID

	ev := EventLog{
		EventType:     eventType,
		AppointmentID: &apptID,
		Payload:       data,
		CreatedAt:     time.Now(),
	}

	if err := s.repo.InsertEvent(ctx, ev); err != nil {
		s.log.Error().Err(err).Str("event_type", eventType).Stringer("appointment_id", appointmentID).Msg("failed to insert event log")
	}
}

func intervals(appts []Appointment) []schedule.BookedInterval {
	out := make([]schedule.BookedInterval, 0, len(appts))
	for _, a := range appts {
		out = append(out, a.Interval())
	}
	return out
}

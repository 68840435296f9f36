package api

import (
	"time"

	"github.com/google/uuid"
)

type SpecialtyResponse struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Description *string   `json:"description,omitempty"`
}

type DoctorResponse struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	SpecialtyID uuid.UUID `json:"specialty_id"`
}

type SlotResponse struct {
	Start   string `json:"start"`
	End     string `json:"end"`
	Display string `json:"display"`
}

type CreateAppointmentRequest struct {
	DoctorID     string  `json:"doctor_id"`
	Date         string  `json:"date"`       // YYYY-MM-DD
	StartTime    string  `json:"start_time"` // HH:MM
	PatientName  string  `json:"patient_name"`
	PatientEmail string  `json:"patient_email"`
	PatientPhone string  `json:"patient_phone"`
	Notes        *string `json:"notes,omitempty"`
}

type RescheduleAppointmentRequest struct {
	Date      string `json:"date"`       // YYYY-MM-DD
	StartTime string `json:"start_time"` // HH:MM
}

type AppointmentResponse struct {
	ID           uuid.UUID `json:"id"`
	DoctorID     uuid.UUID `json:"doctor_id"`
	Date         string    `json:"date"`
	StartTime    string    `json:"start_time"`
	EndTime      string    `json:"end_time"`
	PatientName  string    `json:"patient_name"`
	Status       string    `json:"status"`
	TrackingCode string    `json:"tracking_code"`
	CreatedAt    time.Time `json:"created_at"`
}

type AppointmentDetailResponse struct {
	AppointmentResponse
	DoctorName    string `json:"doctor_name,omitempty"`
	SpecialtyName string `json:"specialty_name,omitempty"`
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

package Models

import (
	"time"

	"gorm.io/gorm"
)

// Operational (calendar) statuses.
const (
	AppointmentStatusScheduled = "scheduled"
	AppointmentStatusConfirmed = "confirmed"
	AppointmentStatusCanceled  = "canceled"
)

// Clinical (outcome) statuses.
const (
	ClinicalStatusPending   = "pending"
	ClinicalStatusCompleted = "completed"
	ClinicalStatusNoShow    = "no_show"
	ClinicalStatusCanceled  = "canceled"
)

// AppointmentDurationMinutes is fixed for every session slot.
const AppointmentDurationMinutes = 40

// Appointment is the denormalized calendar entry kept in lockstep with a
// Session. Status tracks the calendar axis, ClinicalStatus the outcome axis.
type Appointment struct {
	gorm.Model
	Date            time.Time `json:"date"`
	TimeOfDay       string    `json:"time_of_day"` // "HH:MM"
	DurationMinutes int       `json:"duration_minutes"`
	Specialty       string    `json:"specialty"`
	Status          string    `json:"status"`
	ClinicalStatus  string    `json:"clinical_status"`
	PatientID       uint      `json:"patient_id"`
	DoctorID        uint      `json:"doctor_id"`
	SessionID       uint      `json:"session_id"`
}

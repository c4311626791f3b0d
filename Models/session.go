package Models

import (
	"time"

	"gorm.io/gorm"
)

const (
	SessionStatusScheduled = "scheduled"
	SessionStatusPending   = "pending"
	SessionStatusCompleted = "completed"
	SessionStatusCanceled  = "canceled"
)

func IsValidSessionStatus(value string) bool {
	switch value {
	case SessionStatusScheduled, SessionStatusPending, SessionStatusCompleted, SessionStatusCanceled:
		return true
	}
	return false
}

// Session is one scheduled occurrence inside a therapy package. Each session
// owns exactly one Appointment, created alongside it and kept in sync on
// every status change. ConfirmedAbsence only carries meaning while the
// session is canceled.
type Session struct {
	gorm.Model
	DateTime         time.Time `json:"date_time"`
	Label            string    `json:"label"` // e.g. "3/24"
	SessionType      string    `json:"session_type"`
	Price            float64   `json:"price"`
	PackageID        uint      `json:"package_id"`
	Status           string    `json:"status"`
	DoctorID         uint      `json:"doctor_id"`
	PatientID        uint      `json:"patient_id"`
	IsPaid           bool      `json:"is_paid"`
	PaymentMethod    string    `json:"payment_method"`
	AppointmentID    *uint     `json:"appointment_id" gorm:"default:null"`
	ConfirmedAbsence *bool     `json:"confirmed_absence" gorm:"default:null"`
	Notes            string    `json:"notes"`
}

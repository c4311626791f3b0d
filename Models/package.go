package Models

import "gorm.io/gorm"

// Session types offered by the clinic.
const (
	SessionTypeSpeechTherapy       = "speech_therapy"
	SessionTypeOccupationalTherapy = "occupational_therapy"
	SessionTypePsychology          = "psychology"
	SessionTypePhysiotherapy       = "physiotherapy"
)

const (
	PaymentTypeFull       = "full"
	PaymentTypePerSession = "per_session"
	PaymentTypePartial    = "partial"
)

const (
	PaymentMethodCash            = "cash"
	PaymentMethodInstantTransfer = "instant_transfer"
	PaymentMethodCard            = "card"
)

const (
	PackageStatusActive   = "active"
	PackageStatusFinished = "finished"
	PackageStatusCanceled = "canceled"
)

func IsValidSessionType(value string) bool {
	switch value {
	case SessionTypeSpeechTherapy, SessionTypeOccupationalTherapy, SessionTypePsychology, SessionTypePhysiotherapy:
		return true
	}
	return false
}

func IsValidPaymentType(value string) bool {
	switch value {
	case PaymentTypeFull, PaymentTypePerSession, PaymentTypePartial:
		return true
	}
	return false
}

func IsValidPaymentMethod(value string) bool {
	switch value {
	case PaymentMethodCash, PaymentMethodInstantTransfer, PaymentMethodCard:
		return true
	}
	return false
}

func IsValidPackageStatus(value string) bool {
	switch value {
	case PackageStatusActive, PackageStatusFinished, PackageStatusCanceled:
		return true
	}
	return false
}

// TherapyPackage is the billing and scheduling envelope for a course of
// recurring sessions. TotalSessions, SessionsDone, TotalPaid and Balance are
// materialized counters kept in sync transactionally; Reconcile recomputes
// them from the owned rows.
type TherapyPackage struct {
	gorm.Model
	PatientID       uint      `json:"patient_id"`
	DoctorID        uint      `json:"doctor_id"`
	SessionType     string    `json:"session_type"`
	DurationMonths  int       `json:"duration_months"`   // 1-12
	SessionsPerWeek int       `json:"sessions_per_week"` // 1-5
	TotalSessions   int       `json:"total_sessions"`
	SessionsDone    int       `json:"sessions_done"`
	SessionValue    float64   `json:"session_value"`
	PaymentType     string    `json:"payment_type"`
	PaymentMethod   string    `json:"payment_method"`
	Status          string    `json:"status"`
	TotalPaid       float64   `json:"total_paid"`
	Balance         float64   `json:"balance"`
	Sessions        []Session `json:"sessions" gorm:"foreignKey:PackageID"`
	Payments        []Payment `json:"payments" gorm:"foreignKey:PackageID"`
}

func (pkg *TherapyPackage) TotalValue() float64 {
	return pkg.SessionValue * float64(pkg.TotalSessions)
}

// RecomputeBalance keeps the balance invariant: never below zero even when
// the package is overpaid.
func (pkg *TherapyPackage) RecomputeBalance() {
	balance := pkg.TotalValue() - pkg.TotalPaid
	if balance < 0 {
		balance = 0
	}
	pkg.Balance = balance
}

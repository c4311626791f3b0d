package Models

import "gorm.io/gorm"

// Payment is an append-only ledger entry. Rows are never updated or deleted
// outside of the administrative package delete.
type Payment struct {
	gorm.Model
	PackageID uint    `json:"package_id"`
	SessionID *uint   `json:"session_id" gorm:"default:null"`
	Amount    float64 `json:"amount"`
	Method    string  `json:"method"`
	PatientID uint    `json:"patient_id"`
	DoctorID  uint    `json:"doctor_id"`
	Notes     string  `json:"notes"`
}

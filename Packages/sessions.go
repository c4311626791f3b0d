package Packages

import (
	"FonoInova/Models"
	"fmt"
	"log"
	"time"

	"gorm.io/gorm"
)

// SessionPatch is the closed set of fields an update may touch. DateTime is
// always required; the rest are optional.
type SessionPatch struct {
	DateTime         string  `json:"date_time"`
	Status           *string `json:"status"`
	ConfirmedAbsence *bool   `json:"confirmed_absence"`
	Notes            *string `json:"notes"`
	IsPaid           *bool   `json:"is_paid"`
	PaymentMethod    *string `json:"payment_method"`
}

var sessionDateLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04",
	"2006-01-02T15:04",
}

func parseSessionDate(value string) (time.Time, error) {
	for _, layout := range sessionDateLayouts {
		if parsed, err := time.Parse(layout, value); err == nil {
			return parsed, nil
		}
	}
	return time.Time{}, fmt.Errorf("unparseable session date %q", value)
}

// UpdateSession applies a patch to one session and, in the same transaction,
// keeps the parent package counters and the linked appointment consistent.
func (s *Service) UpdateSession(sessionID uint, patch SessionPatch) (*Models.Session, *Models.TherapyPackage, error) {
	if patch.DateTime == "" {
		return nil, nil, Models.NewValidationError("date_time", "session date is required")
	}
	newDate, err := parseSessionDate(patch.DateTime)
	if err != nil {
		return nil, nil, Models.NewValidationError("date_time", err.Error())
	}
	if patch.Status != nil && !Models.IsValidSessionStatus(*patch.Status) {
		return nil, nil, Models.NewValidationError("status", "unknown session status")
	}
	if patch.PaymentMethod != nil && !Models.IsValidPaymentMethod(*patch.PaymentMethod) {
		return nil, nil, Models.NewValidationError("payment_method", "unknown payment method")
	}

	tx := s.DB.Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()

	var session Models.Session
	if err := tx.First(&session, sessionID).Error; err != nil {
		tx.Rollback()
		if err == gorm.ErrRecordNotFound {
			return nil, nil, &Models.NotFoundError{Entity: "session", ID: sessionID}
		}
		return nil, nil, err
	}

	previousStatus := session.Status

	session.DateTime = newDate
	if patch.Status != nil {
		session.Status = *patch.Status
	}
	if patch.Notes != nil {
		session.Notes = *patch.Notes
	}
	if patch.IsPaid != nil {
		session.IsPaid = *patch.IsPaid
	}
	if patch.PaymentMethod != nil {
		session.PaymentMethod = *patch.PaymentMethod
	}

	// ConfirmedAbsence only exists while the session is canceled. Canceling
	// without the flag defaults it to false.
	if session.Status == Models.SessionStatusCanceled {
		confirmed := false
		if patch.ConfirmedAbsence != nil {
			confirmed = *patch.ConfirmedAbsence
		} else if session.ConfirmedAbsence != nil {
			confirmed = *session.ConfirmedAbsence
		}
		session.ConfirmedAbsence = &confirmed
	} else {
		session.ConfirmedAbsence = nil
	}

	var pkg Models.TherapyPackage
	crossesCompletedBoundary := (previousStatus == Models.SessionStatusCompleted) != (session.Status == Models.SessionStatusCompleted)
	if crossesCompletedBoundary {
		if session.PackageID == 0 {
			tx.Rollback()
			return nil, nil, &Models.DataIntegrityError{Detail: fmt.Sprintf("session %d has no package reference", session.ID)}
		}
		if err := tx.First(&pkg, session.PackageID).Error; err != nil {
			tx.Rollback()
			if err == gorm.ErrRecordNotFound {
				return nil, nil, &Models.DataIntegrityError{Detail: fmt.Sprintf("package %d of session %d is missing", session.PackageID, session.ID)}
			}
			return nil, nil, err
		}

		if session.Status == Models.SessionStatusCompleted {
			pkg.SessionsDone++
			if pkg.SessionsDone >= pkg.TotalSessions {
				pkg.Status = Models.PackageStatusFinished
			}
		} else {
			if pkg.SessionsDone > 0 {
				pkg.SessionsDone--
			}
			if pkg.Status == Models.PackageStatusFinished && pkg.SessionsDone < pkg.TotalSessions {
				pkg.Status = Models.PackageStatusActive
			}
		}

		if err := tx.Save(&pkg).Error; err != nil {
			log.Println(err)
			tx.Rollback()
			return nil, nil, err
		}
	} else if session.PackageID != 0 {
		if err := tx.First(&pkg, session.PackageID).Error; err != nil {
			tx.Rollback()
			return nil, nil, err
		}
	}

	if err := tx.Save(&session).Error; err != nil {
		log.Println(err)
		tx.Rollback()
		return nil, nil, err
	}

	if err := syncAppointment(tx, &session); err != nil {
		log.Println(err)
		tx.Rollback()
		return nil, nil, err
	}

	if err := tx.Commit().Error; err != nil {
		log.Println(err)
		tx.Rollback()
		return nil, nil, err
	}

	return &session, &pkg, nil
}

// syncAppointment derives both appointment status axes from the session and
// writes them through, creating the appointment if the session lost its
// calendar entry.
func syncAppointment(tx *gorm.DB, session *Models.Session) error {
	status := Models.AppointmentStatusScheduled
	clinical := Models.ClinicalStatusPending

	switch session.Status {
	case Models.SessionStatusCompleted:
		status = Models.AppointmentStatusConfirmed
		clinical = Models.ClinicalStatusCompleted
	case Models.SessionStatusCanceled:
		status = Models.AppointmentStatusCanceled
		clinical = Models.ClinicalStatusCanceled
		if session.ConfirmedAbsence != nil && *session.ConfirmedAbsence {
			clinical = Models.ClinicalStatusNoShow
		}
	}

	date := dayOf(session.DateTime)
	timeOfDay := session.DateTime.Format("15:04")

	if session.AppointmentID != nil {
		return tx.Model(&Models.Appointment{}).Where("id = ?", *session.AppointmentID).
			Updates(map[string]interface{}{
				"date":            date,
				"time_of_day":     timeOfDay,
				"status":          status,
				"clinical_status": clinical,
			}).Error
	}

	appointment := Models.Appointment{
		Date:            date,
		TimeOfDay:       timeOfDay,
		DurationMinutes: Models.AppointmentDurationMinutes,
		Specialty:       session.SessionType,
		Status:          status,
		ClinicalStatus:  clinical,
		PatientID:       session.PatientID,
		DoctorID:        session.DoctorID,
		SessionID:       session.ID,
	}
	if err := tx.Create(&appointment).Error; err != nil {
		return err
	}
	session.AppointmentID = &appointment.ID
	return tx.Model(&Models.Session{}).Where("id = ?", session.ID).Update("appointment_id", appointment.ID).Error
}

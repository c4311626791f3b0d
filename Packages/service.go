package Packages

import (
	"FonoInova/Models"
	"FonoInova/Scheduling"
	"fmt"
	"log"
	"regexp"
	"strconv"
	"time"

	"gorm.io/gorm"
)

// Service runs every multi-entity write of the package engine inside a
// single transaction on its DB handle.
type Service struct {
	DB *gorm.DB
}

func NewService(db *gorm.DB) *Service {
	return &Service{DB: db}
}

const dateLayout = "2006-01-02"

var timeOfDayPattern = regexp.MustCompile(`^([01][0-9]|2[0-3]):[0-5][0-9]$`)

// Clinic working hours, inclusive.
const (
	openingHour = 8
	closingHour = 19
)

type CreatePackageInput struct {
	PatientID       uint    `json:"patient_id"`
	DoctorID        uint    `json:"doctor_id"`
	SessionType     string  `json:"session_type"`
	DurationMonths  int     `json:"duration_months"`
	SessionsPerWeek int     `json:"sessions_per_week"`
	Date            string  `json:"date_time"` // "2006-01-02"
	Time            string  `json:"time"`      // "HH:MM"
	PaymentType     string  `json:"payment_type"`
	PaymentMethod   string  `json:"payment_method"`
	SessionValue    float64 `json:"session_value"`
	AmountPaid      float64 `json:"amount_paid"`
}

// validate is fail-fast: nothing is written while any field is off.
func (input *CreatePackageInput) validate() (time.Time, error) {
	fields := map[string]string{}

	if input.PatientID == 0 {
		fields["patient_id"] = "patient is required"
	}
	if input.DoctorID == 0 {
		fields["doctor_id"] = "doctor is required"
	}
	if !Models.IsValidSessionType(input.SessionType) {
		fields["session_type"] = "unknown session type"
	}
	if input.DurationMonths < 1 || input.DurationMonths > 12 {
		fields["duration_months"] = "duration must be between 1 and 12 months"
	}
	if input.SessionsPerWeek < 1 || input.SessionsPerWeek > 5 {
		fields["sessions_per_week"] = "sessions per week must be between 1 and 5"
	}
	if !Models.IsValidPaymentType(input.PaymentType) {
		fields["payment_type"] = "unknown payment type"
	}
	if input.SessionValue <= 0 {
		fields["session_value"] = "session value must be positive"
	}
	if input.AmountPaid > 0 && !Models.IsValidPaymentMethod(input.PaymentMethod) {
		fields["payment_method"] = "payment method is required for an initial payment"
	}
	if input.PaymentMethod != "" && !Models.IsValidPaymentMethod(input.PaymentMethod) {
		fields["payment_method"] = "unknown payment method"
	}

	var start time.Time
	if input.Date == "" {
		fields["date_time"] = "start date is required"
	}
	if !timeOfDayPattern.MatchString(input.Time) {
		fields["time"] = "time must match HH:MM"
	} else {
		hour, _ := strconv.Atoi(input.Time[:2])
		if hour < openingHour || hour > closingHour {
			fields["time"] = fmt.Sprintf("time must be between %02d:00 and %02d:59", openingHour, closingHour)
		}
	}

	if len(fields) == 0 {
		day, err := time.Parse(dateLayout, input.Date)
		if err != nil {
			fields["date_time"] = "start date must match YYYY-MM-DD"
		} else {
			hour, _ := strconv.Atoi(input.Time[:2])
			minute, _ := strconv.Atoi(input.Time[3:])
			start = time.Date(day.Year(), day.Month(), day.Day(), hour, minute, 0, 0, time.UTC)
			if Scheduling.IsWeekend(start) {
				fields["date_time"] = "packages cannot start on a weekend"
			}
		}
	}

	if len(fields) > 0 {
		return time.Time{}, &Models.ValidationError{Fields: fields}
	}
	return start, nil
}

// CreatePackage materializes the whole course in one transaction: the
// package row, every future session, one appointment per session, and the
// optional initial payment with its per-session allocation. Any failure
// rolls everything back.
func (s *Service) CreatePackage(input CreatePackageInput) (*Models.TherapyPackage, error) {
	start, err := input.validate()
	if err != nil {
		return nil, err
	}

	totalSessions := Scheduling.TotalSessionCount(input.DurationMonths, input.SessionsPerWeek)
	dates, err := Scheduling.GenerateSessionDates(start, totalSessions, input.SessionsPerWeek)
	if err != nil {
		return nil, Models.NewValidationError("date_time", err.Error())
	}

	tx := s.DB.Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()

	var patient Models.Patient
	if err := tx.First(&patient, input.PatientID).Error; err != nil {
		tx.Rollback()
		return nil, Models.NewValidationError("patient_id", "patient not found")
	}

	var doctor Models.Doctor
	if err := tx.First(&doctor, input.DoctorID).Error; err != nil {
		tx.Rollback()
		return nil, Models.NewValidationError("doctor_id", "doctor not found")
	}

	// Conflict check runs inside the transaction, before any appointment is
	// written, so two concurrent creations cannot both pass it.
	if err := s.checkScheduleConflicts(tx, &patient, &doctor, dates, input.Time); err != nil {
		tx.Rollback()
		return nil, err
	}

	pkg := Models.TherapyPackage{
		PatientID:       input.PatientID,
		DoctorID:        input.DoctorID,
		SessionType:     input.SessionType,
		DurationMonths:  input.DurationMonths,
		SessionsPerWeek: input.SessionsPerWeek,
		TotalSessions:   totalSessions,
		SessionValue:    input.SessionValue,
		PaymentType:     input.PaymentType,
		PaymentMethod:   input.PaymentMethod,
		Status:          Models.PackageStatusActive,
	}
	pkg.RecomputeBalance()

	if err := tx.Create(&pkg).Error; err != nil {
		log.Println(err)
		tx.Rollback()
		return nil, err
	}

	for index, date := range dates {
		session := Models.Session{
			DateTime:      date,
			Label:         fmt.Sprintf("%d/%d", index+1, totalSessions),
			SessionType:   input.SessionType,
			Price:         input.SessionValue,
			PackageID:     pkg.ID,
			Status:        Models.SessionStatusScheduled,
			DoctorID:      input.DoctorID,
			PatientID:     input.PatientID,
			PaymentMethod: input.PaymentMethod,
		}
		if err := tx.Create(&session).Error; err != nil {
			log.Println(err)
			tx.Rollback()
			return nil, err
		}

		appointment := Models.Appointment{
			Date:            dayOf(date),
			TimeOfDay:       input.Time,
			DurationMinutes: Models.AppointmentDurationMinutes,
			Specialty:       input.SessionType,
			Status:          Models.AppointmentStatusScheduled,
			ClinicalStatus:  Models.ClinicalStatusPending,
			PatientID:       input.PatientID,
			DoctorID:        input.DoctorID,
			SessionID:       session.ID,
		}
		if err := tx.Create(&appointment).Error; err != nil {
			log.Println(err)
			tx.Rollback()
			return nil, err
		}

		if err := tx.Model(&Models.Session{}).Where("id = ?", session.ID).Update("appointment_id", appointment.ID).Error; err != nil {
			log.Println(err)
			tx.Rollback()
			return nil, err
		}
	}

	if input.AmountPaid > 0 {
		if err := s.applyInitialPayment(tx, &pkg, input.AmountPaid, input.PaymentMethod); err != nil {
			tx.Rollback()
			return nil, err
		}
	}

	if err := tx.Commit().Error; err != nil {
		log.Println(err)
		tx.Rollback()
		return nil, err
	}

	var created Models.TherapyPackage
	if err := s.DB.Preload("Sessions", func(db *gorm.DB) *gorm.DB {
		return db.Order("sessions.date_time asc")
	}).Preload("Payments").First(&created, pkg.ID).Error; err != nil {
		return nil, err
	}
	return &created, nil
}

// checkScheduleConflicts looks for any existing appointment of the patient
// or the doctor on one of the generated slots.
func (s *Service) checkScheduleConflicts(tx *gorm.DB, patient *Models.Patient, doctor *Models.Doctor, dates []time.Time, timeOfDay string) error {
	days := make([]time.Time, len(dates))
	for i, date := range dates {
		days[i] = dayOf(date)
	}

	var conflicting Models.Appointment
	err := tx.Model(&Models.Appointment{}).
		Where("(patient_id = ? OR doctor_id = ?) AND time_of_day = ? AND date IN ?", patient.ID, doctor.ID, timeOfDay, days).
		First(&conflicting).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil
		}
		return err
	}

	partyName := doctor.Name
	if conflicting.PatientID == patient.ID {
		partyName = patient.Name
	}
	return &Models.SchedulingConflictError{
		PartyName: partyName,
		DateTime:  conflicting.Date,
		TimeOfDay: conflicting.TimeOfDay,
	}
}

// applyInitialPayment records the opening payment and marks the covered
// leading sessions as paid. This is the only path that allocates per-session
// paid flags; later ledger payments touch totals only.
func (s *Service) applyInitialPayment(tx *gorm.DB, pkg *Models.TherapyPackage, amount float64, method string) error {
	payment := Models.Payment{
		PackageID: pkg.ID,
		Amount:    amount,
		Method:    method,
		PatientID: pkg.PatientID,
		DoctorID:  pkg.DoctorID,
	}
	if err := tx.Create(&payment).Error; err != nil {
		log.Println(err)
		return err
	}

	pkg.TotalPaid += amount
	pkg.RecomputeBalance()
	if err := tx.Model(&Models.TherapyPackage{}).Where("id = ?", pkg.ID).
		Updates(map[string]interface{}{"total_paid": pkg.TotalPaid, "balance": pkg.Balance}).Error; err != nil {
		log.Println(err)
		return err
	}

	covered := Scheduling.SessionsCovered(amount, pkg.SessionValue, pkg.TotalSessions)
	if covered == 0 {
		return nil
	}

	var sessionIDs []uint
	if err := tx.Model(&Models.Session{}).Where("package_id = ?", pkg.ID).
		Order("date_time asc").Limit(covered).Pluck("id", &sessionIDs).Error; err != nil {
		log.Println(err)
		return err
	}
	if err := tx.Model(&Models.Session{}).Where("id IN ?", sessionIDs).Update("is_paid", true).Error; err != nil {
		log.Println(err)
		return err
	}
	return nil
}

func dayOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

package Packages

import (
	"testing"
	"time"

	"FonoInova/Models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestService(t *testing.T) (*Service, *Models.Patient, *Models.Doctor) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	Models.Migrate(db)

	patient := Models.Patient{Name: "Ana Souza", Phone: "+5511999990000", IsVerified: true}
	require.NoError(t, db.Create(&patient).Error)

	doctor := Models.Doctor{Name: "Dr. Carla Lima", Specialty: Models.SessionTypeSpeechTherapy}
	require.NoError(t, db.Create(&doctor).Error)

	return NewService(db), &patient, &doctor
}

func validInput(patientID, doctorID uint) CreatePackageInput {
	return CreatePackageInput{
		PatientID:       patientID,
		DoctorID:        doctorID,
		SessionType:     Models.SessionTypeSpeechTherapy,
		DurationMonths:  1,
		SessionsPerWeek: 2,
		Date:            "2026-03-02", // a Monday
		Time:            "10:00",
		PaymentType:     Models.PaymentTypePerSession,
		SessionValue:    100,
	}
}

func TestCreatePackageHappyPath(t *testing.T) {
	s, patient, doctor := newTestService(t)

	pkg, err := s.CreatePackage(validInput(patient.ID, doctor.ID))
	require.NoError(t, err)

	assert.Equal(t, 8, pkg.TotalSessions)
	assert.Equal(t, 0, pkg.SessionsDone)
	assert.Equal(t, Models.PackageStatusActive, pkg.Status)
	assert.Equal(t, float64(800), pkg.Balance)
	require.Len(t, pkg.Sessions, 8)

	assert.Equal(t, "1/8", pkg.Sessions[0].Label)
	assert.Equal(t, "8/8", pkg.Sessions[7].Label)

	var appointmentCount int64
	require.NoError(t, s.DB.Model(&Models.Appointment{}).Count(&appointmentCount).Error)
	assert.EqualValues(t, 8, appointmentCount)

	for _, session := range pkg.Sessions {
		require.NotNil(t, session.AppointmentID)
		assert.Equal(t, Models.SessionStatusScheduled, session.Status)
		assert.False(t, session.IsPaid)

		var appointment Models.Appointment
		require.NoError(t, s.DB.First(&appointment, *session.AppointmentID).Error)
		assert.Equal(t, Models.AppointmentStatusScheduled, appointment.Status)
		assert.Equal(t, Models.ClinicalStatusPending, appointment.ClinicalStatus)
		assert.Equal(t, Models.AppointmentDurationMinutes, appointment.DurationMinutes)
		assert.Equal(t, "10:00", appointment.TimeOfDay)
		assert.Equal(t, session.ID, appointment.SessionID)
	}
}

func TestCreatePackageValidationPersistsNothing(t *testing.T) {
	s, patient, doctor := newTestService(t)

	input := validInput(patient.ID, doctor.ID)
	input.Time = "25:00"

	_, err := s.CreatePackage(input)
	validation, ok := Models.IsValidationError(err)
	require.True(t, ok)
	assert.Contains(t, validation.Fields, "time")

	for _, model := range []interface{}{&Models.TherapyPackage{}, &Models.Session{}, &Models.Appointment{}, &Models.Payment{}} {
		var count int64
		require.NoError(t, s.DB.Model(model).Count(&count).Error)
		assert.Zero(t, count)
	}
}

func TestCreatePackageFieldValidation(t *testing.T) {
	s, patient, doctor := newTestService(t)

	input := validInput(patient.ID, doctor.ID)
	input.DurationMonths = 13
	input.SessionsPerWeek = 6
	input.SessionType = "acupuncture"
	input.AmountPaid = 100
	input.PaymentMethod = ""

	_, err := s.CreatePackage(input)
	validation, ok := Models.IsValidationError(err)
	require.True(t, ok)
	assert.Contains(t, validation.Fields, "duration_months")
	assert.Contains(t, validation.Fields, "sessions_per_week")
	assert.Contains(t, validation.Fields, "session_type")
	assert.Contains(t, validation.Fields, "payment_method")
}

func TestCreatePackageWeekendStartRejected(t *testing.T) {
	s, patient, doctor := newTestService(t)

	input := validInput(patient.ID, doctor.ID)
	input.Date = "2026-03-07" // a Saturday

	_, err := s.CreatePackage(input)
	validation, ok := Models.IsValidationError(err)
	require.True(t, ok)
	assert.Contains(t, validation.Fields, "date_time")
}

func TestCreatePackagePartialPaymentAllocation(t *testing.T) {
	s, patient, doctor := newTestService(t)

	input := validInput(patient.ID, doctor.ID)
	input.AmountPaid = 350
	input.PaymentMethod = Models.PaymentMethodCash

	pkg, err := s.CreatePackage(input)
	require.NoError(t, err)

	assert.Equal(t, float64(350), pkg.TotalPaid)
	assert.Equal(t, float64(450), pkg.Balance)
	require.Len(t, pkg.Payments, 1)
	assert.Equal(t, float64(350), pkg.Payments[0].Amount)

	// floor(350/100) = 3 leading sessions settled, in schedule order.
	require.Len(t, pkg.Sessions, 8)
	for i, session := range pkg.Sessions {
		assert.Equal(t, i < 3, session.IsPaid, "session %s", session.Label)
	}
}

func TestCreatePackageFullSettlement(t *testing.T) {
	s, patient, doctor := newTestService(t)

	input := validInput(patient.ID, doctor.ID)
	input.AmountPaid = 800
	input.PaymentMethod = Models.PaymentMethodCard

	pkg, err := s.CreatePackage(input)
	require.NoError(t, err)

	assert.Zero(t, pkg.Balance)
	for _, session := range pkg.Sessions {
		assert.True(t, session.IsPaid)
	}
}

func TestCreatePackageSchedulingConflict(t *testing.T) {
	s, patient, doctor := newTestService(t)

	_, err := s.CreatePackage(validInput(patient.ID, doctor.ID))
	require.NoError(t, err)

	var sessionsBefore int64
	require.NoError(t, s.DB.Model(&Models.Session{}).Count(&sessionsBefore).Error)

	// Same patient, doctor and slot: the second creation must short-circuit.
	_, err = s.CreatePackage(validInput(patient.ID, doctor.ID))
	require.Error(t, err)
	assert.True(t, Models.IsSchedulingConflictError(err))
	assert.Contains(t, err.Error(), patient.Name)

	// A different patient booking the same doctor at the same slot conflicts
	// on the doctor's side.
	other := Models.Patient{Name: "Bruno Dias", IsVerified: true}
	require.NoError(t, s.DB.Create(&other).Error)

	_, err = s.CreatePackage(validInput(other.ID, doctor.ID))
	require.Error(t, err)
	assert.True(t, Models.IsSchedulingConflictError(err))
	assert.Contains(t, err.Error(), doctor.Name)

	// Nothing new was written by the failed calls.
	var sessionsAfter int64
	require.NoError(t, s.DB.Model(&Models.Session{}).Count(&sessionsAfter).Error)
	assert.Equal(t, sessionsBefore, sessionsAfter)
}

func TestUpdateSessionCompleteAndRevert(t *testing.T) {
	s, patient, doctor := newTestService(t)

	input := validInput(patient.ID, doctor.ID)
	input.SessionsPerWeek = 1 // 4 sessions total

	pkg, err := s.CreatePackage(input)
	require.NoError(t, err)
	require.Len(t, pkg.Sessions, 4)

	completed := Models.SessionStatusCompleted
	for i, session := range pkg.Sessions {
		_, updatedPkg, err := s.UpdateSession(session.ID, SessionPatch{
			DateTime: session.DateTime.Format(time.RFC3339),
			Status:   &completed,
		})
		require.NoError(t, err)
		assert.Equal(t, i+1, updatedPkg.SessionsDone)
	}

	var finished Models.TherapyPackage
	require.NoError(t, s.DB.First(&finished, pkg.ID).Error)
	assert.Equal(t, Models.PackageStatusFinished, finished.Status)

	// The completed session's appointment is confirmed/completed.
	last := pkg.Sessions[3]
	var appointment Models.Appointment
	require.NoError(t, s.DB.First(&appointment, *last.AppointmentID).Error)
	assert.Equal(t, Models.AppointmentStatusConfirmed, appointment.Status)
	assert.Equal(t, Models.ClinicalStatusCompleted, appointment.ClinicalStatus)

	// Reverting the last session reopens the package.
	scheduled := Models.SessionStatusScheduled
	_, revertedPkg, err := s.UpdateSession(last.ID, SessionPatch{
		DateTime: last.DateTime.Format(time.RFC3339),
		Status:   &scheduled,
	})
	require.NoError(t, err)
	assert.Equal(t, 3, revertedPkg.SessionsDone)
	assert.Equal(t, Models.PackageStatusActive, revertedPkg.Status)
}

func TestUpdateSessionCancelDefaultsConfirmedAbsence(t *testing.T) {
	s, patient, doctor := newTestService(t)

	pkg, err := s.CreatePackage(validInput(patient.ID, doctor.ID))
	require.NoError(t, err)

	session := pkg.Sessions[0]
	canceled := Models.SessionStatusCanceled

	updated, _, err := s.UpdateSession(session.ID, SessionPatch{
		DateTime: session.DateTime.Format(time.RFC3339),
		Status:   &canceled,
	})
	require.NoError(t, err)
	require.NotNil(t, updated.ConfirmedAbsence)
	assert.False(t, *updated.ConfirmedAbsence)

	var appointment Models.Appointment
	require.NoError(t, s.DB.First(&appointment, *updated.AppointmentID).Error)
	assert.Equal(t, Models.AppointmentStatusCanceled, appointment.Status)
	assert.Equal(t, Models.ClinicalStatusCanceled, appointment.ClinicalStatus)
}

func TestUpdateSessionCancelWithConfirmedAbsence(t *testing.T) {
	s, patient, doctor := newTestService(t)

	pkg, err := s.CreatePackage(validInput(patient.ID, doctor.ID))
	require.NoError(t, err)

	session := pkg.Sessions[0]
	canceled := Models.SessionStatusCanceled
	confirmed := true

	updated, _, err := s.UpdateSession(session.ID, SessionPatch{
		DateTime:         session.DateTime.Format(time.RFC3339),
		Status:           &canceled,
		ConfirmedAbsence: &confirmed,
	})
	require.NoError(t, err)

	var appointment Models.Appointment
	require.NoError(t, s.DB.First(&appointment, *updated.AppointmentID).Error)
	assert.Equal(t, Models.ClinicalStatusNoShow, appointment.ClinicalStatus)

	// Leaving the canceled state clears the flag.
	scheduled := Models.SessionStatusScheduled
	updated, _, err = s.UpdateSession(session.ID, SessionPatch{
		DateTime: session.DateTime.Format(time.RFC3339),
		Status:   &scheduled,
	})
	require.NoError(t, err)
	assert.Nil(t, updated.ConfirmedAbsence)
}

func TestUpdateSessionReschedule(t *testing.T) {
	s, patient, doctor := newTestService(t)

	pkg, err := s.CreatePackage(validInput(patient.ID, doctor.ID))
	require.NoError(t, err)

	session := pkg.Sessions[0]
	newDate := time.Date(2026, 4, 1, 15, 30, 0, 0, time.UTC)

	updated, _, err := s.UpdateSession(session.ID, SessionPatch{
		DateTime: newDate.Format(time.RFC3339),
	})
	require.NoError(t, err)
	assert.True(t, updated.DateTime.Equal(newDate))

	var appointment Models.Appointment
	require.NoError(t, s.DB.First(&appointment, *updated.AppointmentID).Error)
	assert.Equal(t, "15:30", appointment.TimeOfDay)
	assert.Equal(t, 1, appointment.Date.Day())
	assert.Equal(t, time.April, appointment.Date.Month())
}

func TestUpdateSessionErrors(t *testing.T) {
	s, patient, doctor := newTestService(t)

	pkg, err := s.CreatePackage(validInput(patient.ID, doctor.ID))
	require.NoError(t, err)
	session := pkg.Sessions[0]

	_, _, err = s.UpdateSession(9999, SessionPatch{DateTime: "2026-04-01 10:00"})
	assert.True(t, Models.IsNotFoundError(err))

	_, _, err = s.UpdateSession(session.ID, SessionPatch{})
	_, ok := Models.IsValidationError(err)
	assert.True(t, ok)

	bad := "vanished"
	_, _, err = s.UpdateSession(session.ID, SessionPatch{DateTime: "2026-04-01 10:00", Status: &bad})
	_, ok = Models.IsValidationError(err)
	assert.True(t, ok)

	_, _, err = s.UpdateSession(session.ID, SessionPatch{DateTime: "not a date"})
	_, ok = Models.IsValidationError(err)
	assert.True(t, ok)
}

func TestRegisterPaymentUpdatesTotalsOnly(t *testing.T) {
	s, patient, doctor := newTestService(t)

	pkg, err := s.CreatePackage(validInput(patient.ID, doctor.ID))
	require.NoError(t, err)

	updated, err := s.RegisterPayment(pkg.ID, RegisterPaymentInput{
		Amount: 300,
		Method: Models.PaymentMethodInstantTransfer,
		Notes:  "second installment",
	})
	require.NoError(t, err)

	assert.Equal(t, float64(300), updated.TotalPaid)
	assert.Equal(t, float64(500), updated.Balance)
	require.Len(t, updated.Payments, 1)

	// Ledger payments never flip per-session paid flags; only the
	// creation-time allocation does.
	var paidCount int64
	require.NoError(t, s.DB.Model(&Models.Session{}).
		Where("package_id = ? AND is_paid = ?", pkg.ID, true).Count(&paidCount).Error)
	assert.Zero(t, paidCount)
}

func TestRegisterPaymentOverpaymentClampsBalance(t *testing.T) {
	s, patient, doctor := newTestService(t)

	pkg, err := s.CreatePackage(validInput(patient.ID, doctor.ID))
	require.NoError(t, err)

	updated, err := s.RegisterPayment(pkg.ID, RegisterPaymentInput{Amount: 1200, Method: Models.PaymentMethodCash})
	require.NoError(t, err)
	assert.Zero(t, updated.Balance)
	assert.Equal(t, float64(1200), updated.TotalPaid)
}

func TestRegisterPaymentValidation(t *testing.T) {
	s, patient, doctor := newTestService(t)

	pkg, err := s.CreatePackage(validInput(patient.ID, doctor.ID))
	require.NoError(t, err)

	_, err = s.RegisterPayment(pkg.ID, RegisterPaymentInput{Amount: 0, Method: Models.PaymentMethodCash})
	validation, ok := Models.IsValidationError(err)
	require.True(t, ok)
	assert.Contains(t, validation.Fields, "amount")

	_, err = s.RegisterPayment(pkg.ID, RegisterPaymentInput{Amount: 50, Method: "barter"})
	validation, ok = Models.IsValidationError(err)
	require.True(t, ok)
	assert.Contains(t, validation.Fields, "payment_method")

	_, err = s.RegisterPayment(9999, RegisterPaymentInput{Amount: 50, Method: Models.PaymentMethodCash})
	assert.True(t, Models.IsNotFoundError(err))
}

func TestReconcileRepairsDrift(t *testing.T) {
	s, patient, doctor := newTestService(t)

	input := validInput(patient.ID, doctor.ID)
	input.AmountPaid = 200
	input.PaymentMethod = Models.PaymentMethodCash

	pkg, err := s.CreatePackage(input)
	require.NoError(t, err)

	completed := Models.SessionStatusCompleted
	for _, session := range pkg.Sessions[:2] {
		_, _, err := s.UpdateSession(session.ID, SessionPatch{
			DateTime: session.DateTime.Format(time.RFC3339),
			Status:   &completed,
		})
		require.NoError(t, err)
	}

	// Corrupt the materialized counters.
	require.NoError(t, s.DB.Model(&Models.TherapyPackage{}).Where("id = ?", pkg.ID).
		Updates(map[string]interface{}{"sessions_done": 7, "total_paid": 0, "balance": 9999, "status": Models.PackageStatusFinished}).Error)

	repaired, err := s.Reconcile(pkg.ID)
	require.NoError(t, err)

	assert.Equal(t, 2, repaired.SessionsDone)
	assert.Equal(t, float64(200), repaired.TotalPaid)
	assert.Equal(t, float64(600), repaired.Balance)
	assert.Equal(t, Models.PackageStatusActive, repaired.Status)
}

func TestDeletePackageRemovesEverything(t *testing.T) {
	s, patient, doctor := newTestService(t)

	input := validInput(patient.ID, doctor.ID)
	input.AmountPaid = 100
	input.PaymentMethod = Models.PaymentMethodCash

	pkg, err := s.CreatePackage(input)
	require.NoError(t, err)

	require.NoError(t, s.DeletePackage(pkg.ID))

	for _, model := range []interface{}{&Models.TherapyPackage{}, &Models.Session{}, &Models.Appointment{}, &Models.Payment{}} {
		var count int64
		require.NoError(t, s.DB.Unscoped().Model(model).Count(&count).Error)
		assert.Zero(t, count)
	}

	assert.True(t, Models.IsNotFoundError(s.DeletePackage(pkg.ID)))
}

func TestUpdatePackageClosedFieldSet(t *testing.T) {
	s, patient, doctor := newTestService(t)

	pkg, err := s.CreatePackage(validInput(patient.ID, doctor.ID))
	require.NoError(t, err)

	canceled := Models.PackageStatusCanceled
	updated, err := s.UpdatePackage(pkg.ID, PackagePatch{Status: &canceled})
	require.NoError(t, err)
	assert.Equal(t, Models.PackageStatusCanceled, updated.Status)

	bogus := "archived"
	_, err = s.UpdatePackage(pkg.ID, PackagePatch{Status: &bogus})
	validation, ok := Models.IsValidationError(err)
	require.True(t, ok)
	assert.Contains(t, validation.Fields, "status")
}

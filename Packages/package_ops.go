package Packages

import (
	"FonoInova/Models"
	"log"

	"gorm.io/gorm"
)

// PackagePatch is the closed set of package fields a generic update may
// touch; everything else is owned by the engine.
type PackagePatch struct {
	Status        *string `json:"status"`
	PaymentMethod *string `json:"payment_method"`
	PaymentType   *string `json:"payment_type"`
}

func (s *Service) UpdatePackage(packageID uint, patch PackagePatch) (*Models.TherapyPackage, error) {
	fields := map[string]string{}
	if patch.Status != nil && !Models.IsValidPackageStatus(*patch.Status) {
		fields["status"] = "unknown package status"
	}
	if patch.PaymentMethod != nil && !Models.IsValidPaymentMethod(*patch.PaymentMethod) {
		fields["payment_method"] = "unknown payment method"
	}
	if patch.PaymentType != nil && !Models.IsValidPaymentType(*patch.PaymentType) {
		fields["payment_type"] = "unknown payment type"
	}
	if len(fields) > 0 {
		return nil, &Models.ValidationError{Fields: fields}
	}

	var pkg Models.TherapyPackage
	if err := s.DB.First(&pkg, packageID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, &Models.NotFoundError{Entity: "package", ID: packageID}
		}
		return nil, err
	}

	if patch.Status != nil {
		pkg.Status = *patch.Status
	}
	if patch.PaymentMethod != nil {
		pkg.PaymentMethod = *patch.PaymentMethod
	}
	if patch.PaymentType != nil {
		pkg.PaymentType = *patch.PaymentType
	}

	if err := s.DB.Save(&pkg).Error; err != nil {
		log.Println(err)
		return nil, err
	}
	return &pkg, nil
}

// DeletePackage hard-deletes the package and everything hanging off it:
// sessions, their appointments and the payment ledger. Administrative
// cleanup only.
func (s *Service) DeletePackage(packageID uint) error {
	tx := s.DB.Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()

	var pkg Models.TherapyPackage
	if err := tx.Preload("Sessions").First(&pkg, packageID).Error; err != nil {
		tx.Rollback()
		if err == gorm.ErrRecordNotFound {
			return &Models.NotFoundError{Entity: "package", ID: packageID}
		}
		return err
	}

	for _, session := range pkg.Sessions {
		if session.AppointmentID != nil {
			if err := tx.Unscoped().Delete(&Models.Appointment{}, "id = ?", *session.AppointmentID).Error; err != nil {
				log.Println(err)
				tx.Rollback()
				return err
			}
		}
	}

	if err := tx.Unscoped().Delete(&Models.Session{}, "package_id = ?", pkg.ID).Error; err != nil {
		log.Println(err)
		tx.Rollback()
		return err
	}

	if err := tx.Unscoped().Delete(&Models.Payment{}, "package_id = ?", pkg.ID).Error; err != nil {
		log.Println(err)
		tx.Rollback()
		return err
	}

	if err := tx.Unscoped().Delete(&Models.TherapyPackage{}, "id = ?", pkg.ID).Error; err != nil {
		log.Println(err)
		tx.Rollback()
		return err
	}

	if err := tx.Commit().Error; err != nil {
		log.Println(err)
		tx.Rollback()
		return err
	}

	return nil
}

// FetchPatientPackages returns a patient's packages with sessions and
// payments resolved, schedule order preserved.
func (s *Service) FetchPatientPackages(patientID uint) ([]Models.TherapyPackage, error) {
	var packages []Models.TherapyPackage
	err := s.DB.Preload("Sessions", func(db *gorm.DB) *gorm.DB {
		return db.Order("sessions.date_time asc")
	}).Preload("Payments").
		Where("patient_id = ?", patientID).
		Order("created_at desc").
		Find(&packages).Error
	if err != nil {
		return nil, err
	}
	return packages, nil
}

func (s *Service) FetchPackage(packageID uint) (*Models.TherapyPackage, error) {
	var pkg Models.TherapyPackage
	err := s.DB.Preload("Sessions", func(db *gorm.DB) *gorm.DB {
		return db.Order("sessions.date_time asc")
	}).Preload("Payments").
		First(&pkg, packageID).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, &Models.NotFoundError{Entity: "package", ID: packageID}
		}
		return nil, err
	}
	return &pkg, nil
}

package Packages

import (
	"FonoInova/Models"
	"log"

	"gorm.io/gorm"
)

// Reconcile recomputes the materialized package counters from the session
// and payment rows. Used to repair drift and as an oracle in tests.
func (s *Service) Reconcile(packageID uint) (*Models.TherapyPackage, error) {
	tx := s.DB.Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()

	var pkg Models.TherapyPackage
	if err := tx.First(&pkg, packageID).Error; err != nil {
		tx.Rollback()
		if err == gorm.ErrRecordNotFound {
			return nil, &Models.NotFoundError{Entity: "package", ID: packageID}
		}
		return nil, err
	}

	var completed int64
	if err := tx.Model(&Models.Session{}).
		Where("package_id = ? AND status = ?", pkg.ID, Models.SessionStatusCompleted).
		Count(&completed).Error; err != nil {
		tx.Rollback()
		return nil, err
	}

	var totalPaid float64
	if err := tx.Model(&Models.Payment{}).Where("package_id = ?", pkg.ID).
		Select("COALESCE(SUM(amount), 0)").Scan(&totalPaid).Error; err != nil {
		tx.Rollback()
		return nil, err
	}

	pkg.SessionsDone = int(completed)
	pkg.TotalPaid = totalPaid
	pkg.RecomputeBalance()

	// Canceled packages keep their status; the counter decides the rest.
	if pkg.Status != Models.PackageStatusCanceled {
		if pkg.SessionsDone >= pkg.TotalSessions {
			pkg.Status = Models.PackageStatusFinished
		} else {
			pkg.Status = Models.PackageStatusActive
		}
	}

	if err := tx.Save(&pkg).Error; err != nil {
		log.Println(err)
		tx.Rollback()
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		log.Println(err)
		tx.Rollback()
		return nil, err
	}

	return &pkg, nil
}

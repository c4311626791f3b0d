package Packages

import (
	"FonoInova/Models"
	"log"

	"gorm.io/gorm"
)

type RegisterPaymentInput struct {
	Amount float64 `json:"amount"`
	Method string  `json:"payment_method"`
	Notes  string  `json:"notes"`
}

// RegisterPayment appends a ledger entry and updates the package running
// totals. It deliberately does not re-run the per-session allocation; only
// the creation-time payment marks sessions paid.
func (s *Service) RegisterPayment(packageID uint, input RegisterPaymentInput) (*Models.TherapyPackage, error) {
	fields := map[string]string{}
	if input.Amount <= 0 {
		fields["amount"] = "amount must be positive"
	}
	if !Models.IsValidPaymentMethod(input.Method) {
		fields["payment_method"] = "unknown payment method"
	}
	if len(fields) > 0 {
		return nil, &Models.ValidationError{Fields: fields}
	}

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

	payment := Models.Payment{
		PackageID: pkg.ID,
		Amount:    input.Amount,
		Method:    input.Method,
		PatientID: pkg.PatientID,
		DoctorID:  pkg.DoctorID,
		Notes:     input.Notes,
	}
	if err := tx.Create(&payment).Error; err != nil {
		log.Println(err)
		tx.Rollback()
		return nil, err
	}

	pkg.TotalPaid += input.Amount
	pkg.RecomputeBalance()
	if err := tx.Model(&Models.TherapyPackage{}).Where("id = ?", pkg.ID).
		Updates(map[string]interface{}{"total_paid": pkg.TotalPaid, "balance": pkg.Balance}).Error; err != nil {
		log.Println(err)
		tx.Rollback()
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		log.Println(err)
		tx.Rollback()
		return nil, err
	}

	var updated Models.TherapyPackage
	if err := s.DB.Preload("Payments").First(&updated, pkg.ID).Error; err != nil {
		return nil, err
	}
	return &updated, nil
}

package Models

import (
	"math/rand"
	"time"

	"gorm.io/gorm"
)

type Patient struct {
	gorm.Model
	Name       string           `json:"name"`
	Phone      string           `json:"phone"`
	Gender     string           `json:"gender"`
	BirthDate  *time.Time       `json:"birth_date" gorm:"default:null"`
	Diagnosis  string           `json:"diagnosis"`
	Notes      string           `json:"notes"`
	OTP        string           `json:"otp"`
	IsVerified bool             `json:"is_verified"`
	Packages   []TherapyPackage `json:"packages" gorm:"foreignKey:PatientID"`
}

func (patient *Patient) GenerateOTPToken(count int) {
	var possibleCharacters = []rune("1234567890")

	token := make([]rune, count)
	for index := range token {
		token[index] = possibleCharacters[rand.Intn(len(possibleCharacters))]
	}
	patient.OTP = string(token)
}

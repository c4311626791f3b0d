package Controllers

import (
	"FonoInova/Models"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
)

func FetchPatients(c *gin.Context) {
	var patients []Models.Patient
	if err := Models.DB.Model(&Models.Patient{}).Find(&patients).Error; err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, patients)
}

func CreatePatient(c *gin.Context) {
	var input struct {
		Name      string `json:"name" binding:"required"`
		Phone     string `json:"phone"`
		Gender    string `json:"gender"`
		BirthDate string `json:"birth_date"` // "2006-01-02"
		Diagnosis string `json:"diagnosis"`
		Notes     string `json:"notes"`
	}

	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
		return
	}

	if input.Phone != "" && !strings.HasPrefix(input.Phone, "+") {
		input.Phone = "+55" + input.Phone
	}

	patient := Models.Patient{
		Name:       input.Name,
		Phone:      input.Phone,
		Gender:     input.Gender,
		Diagnosis:  input.Diagnosis,
		Notes:      input.Notes,
		IsVerified: true,
	}

	if input.BirthDate != "" {
		birthDate, err := time.Parse("2006-01-02", input.BirthDate)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: birth date must match YYYY-MM-DD"})
			return
		}
		patient.BirthDate = &birthDate
	}

	if err := Models.DB.Create(&patient).Error; err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Patient created successfully", "patient_id": patient.ID})
}

func UpdatePatient(c *gin.Context) {
	var input struct {
		ID        uint   `json:"id"`
		Name      string `json:"name"`
		Phone     string `json:"phone"`
		Gender    string `json:"gender"`
		Diagnosis string `json:"diagnosis"`
		Notes     string `json:"notes"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
		return
	}

	var patient Models.Patient
	if err := Models.DB.Model(&Models.Patient{}).Where("id = ?", input.ID).First(&patient).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Patient not found"})
		return
	}

	if input.Phone != "" && !strings.HasPrefix(input.Phone, "+") {
		input.Phone = "+55" + input.Phone
	}

	patient.Name = input.Name
	patient.Phone = input.Phone
	patient.Gender = input.Gender
	patient.Diagnosis = input.Diagnosis
	patient.Notes = input.Notes

	if err := Models.DB.Save(&patient).Error; err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Patient updated successfully"})
}

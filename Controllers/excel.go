package Controllers

import (
	"FonoInova/Models"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/360EntSecGroup-Skylar/excelize/v2"
	"github.com/gin-gonic/gin"
)

// ExportPackagesTable writes a package revenue sheet for the requested date
// range and streams the file back.
func ExportPackagesTable(c *gin.Context) {
	var input struct {
		DateFrom string `json:"date_from"`
		DateTo   string `json:"date_to"`
	}

	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, err)
		return
	}

	var packages []Models.TherapyPackage

	if input.DateFrom != "" && input.DateTo != "" {
		from, errFrom := time.Parse("2006-01-02", input.DateFrom)
		to, errTo := time.Parse("2006-01-02", input.DateTo)
		if errFrom != nil || errTo != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "dates must match YYYY-MM-DD"})
			return
		}
		if err := Models.DB.Model(&Models.TherapyPackage{}).
			Where("created_at BETWEEN ? AND ?", from, to.AddDate(0, 0, 1)).
			Find(&packages).Error; err != nil {
			c.JSON(http.StatusBadRequest, err)
			return
		}
	} else {
		if err := Models.DB.Model(&Models.TherapyPackage{}).Find(&packages).Error; err != nil {
			c.JSON(http.StatusBadRequest, err)
			return
		}
	}

	patientNames := map[uint]string{}
	for _, pkg := range packages {
		if _, ok := patientNames[pkg.PatientID]; ok {
			continue
		}
		var patient Models.Patient
		if err := Models.DB.First(&patient, pkg.PatientID).Error; err == nil {
			patientNames[pkg.PatientID] = patient.Name
		}
	}

	headers := map[string]string{
		"A1": "Date",
		"B1": "Patient",
		"C1": "Session Type",
		"D1": "Total Value",
		"E1": "Total Paid",
		"F1": "Balance",
		"G1": "Status",
	}
	file := excelize.NewFile()
	sheet := "Packages"
	file.NewSheet(sheet)
	file.DeleteSheet("Sheet1")
	for k, v := range headers {
		file.SetCellValue(sheet, k, v)
	}

	for i, pkg := range packages {
		rowCount := i + 2
		file.SetCellValue(sheet, fmt.Sprintf("A%v", rowCount), pkg.CreatedAt.Format("2006-01-02"))
		file.SetCellValue(sheet, fmt.Sprintf("B%v", rowCount), patientNames[pkg.PatientID])
		file.SetCellValue(sheet, fmt.Sprintf("C%v", rowCount), pkg.SessionType)
		file.SetCellValue(sheet, fmt.Sprintf("D%v", rowCount), pkg.TotalValue())
		file.SetCellValue(sheet, fmt.Sprintf("E%v", rowCount), pkg.TotalPaid)
		file.SetCellValue(sheet, fmt.Sprintf("F%v", rowCount), pkg.Balance)
		file.SetCellValue(sheet, fmt.Sprintf("G%v", rowCount), pkg.Status)
	}

	var filename string = "./Packages.xlsx"
	if err := file.SaveAs(filename); err != nil {
		log.Println(err)
	}
	c.File(filename)
}

package Controllers

import (
	"FonoInova/FirebaseMessaging"
	"FonoInova/Models"
	"FonoInova/Packages"
	"FonoInova/SSE"
	"fmt"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

func packageService() *Packages.Service {
	return Packages.NewService(Models.DB)
}

// respondPackageError maps the engine's error taxonomy onto HTTP codes:
// validation 400 (field-keyed), not found 404, scheduling conflict 409,
// anything else 500.
func respondPackageError(c *gin.Context, err error) {
	if validation, ok := Models.IsValidationError(err); ok {
		c.JSON(http.StatusBadRequest, gin.H{"errors": validation.Fields})
		return
	}
	if Models.IsNotFoundError(err) {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	if Models.IsSchedulingConflictError(err) {
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		return
	}
	if Models.IsDataIntegrityError(err) {
		log.Println(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	log.Println(err)
	c.JSON(http.StatusInternalServerError, gin.H{"error": "Something went wrong"})
}

func paramID(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("invalid %s", name)})
		return 0, false
	}
	return uint(id), true
}

func CreatePackage(c *gin.Context) {
	var input Packages.CreatePackageInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	pkg, err := packageService().CreatePackage(input)
	if err != nil {
		respondPackageError(c, err)
		return
	}

	c.JSON(http.StatusCreated, pkg)

	SSE.Broadcaster.Broadcast("refresh")
	notifyStaff("A Package Has Been Registered",
		fmt.Sprintf("Package of %d %s sessions registered with a total of %v",
			pkg.TotalSessions, pkg.SessionType, pkg.TotalValue()))
}

func FetchPackages(c *gin.Context) {
	patientParam := c.Query("patient_id")
	if patientParam == "" {
		patientParam = c.Query("patientId")
	}
	patientID, err := strconv.ParseUint(patientParam, 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "patient_id is required"})
		return
	}

	packages, err := packageService().FetchPatientPackages(uint(patientID))
	if err != nil {
		respondPackageError(c, err)
		return
	}

	type annotatedPackage struct {
		Models.TherapyPackage
		Remaining  int     `json:"remaining"`
		TotalValue float64 `json:"total_value"`
	}

	output := make([]annotatedPackage, 0, len(packages))
	for _, pkg := range packages {
		output = append(output, annotatedPackage{
			TherapyPackage: pkg,
			Remaining:      pkg.TotalSessions - pkg.SessionsDone,
			TotalValue:     pkg.TotalValue(),
		})
	}

	c.JSON(http.StatusOK, output)
}

func FetchPackage(c *gin.Context) {
	packageID, ok := paramID(c, "id")
	if !ok {
		return
	}

	pkg, err := packageService().FetchPackage(packageID)
	if err != nil {
		respondPackageError(c, err)
		return
	}

	var patient Models.Patient
	if err := Models.DB.First(&patient, pkg.PatientID).Error; err != nil {
		log.Println(err)
	}

	c.JSON(http.StatusOK, gin.H{
		"package":            pkg,
		"patient_name":       patient.Name,
		"patient_birth_date": patient.BirthDate,
	})
}

func UpdatePackage(c *gin.Context) {
	packageID, ok := paramID(c, "id")
	if !ok {
		return
	}

	var patch Packages.PackagePatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	pkg, err := packageService().UpdatePackage(packageID, patch)
	if err != nil {
		respondPackageError(c, err)
		return
	}

	c.JSON(http.StatusOK, pkg)
	SSE.Broadcaster.Broadcast("refresh")
}

func UpdatePackageSession(c *gin.Context) {
	if _, ok := paramID(c, "id"); !ok {
		return
	}
	sessionID, ok := paramID(c, "sessionId")
	if !ok {
		return
	}

	var patch Packages.SessionPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
		return
	}

	session, pkg, err := packageService().UpdateSession(sessionID, patch)
	if err != nil {
		if validation, ok := Models.IsValidationError(err); ok {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": validation.Error()})
			return
		}
		if Models.IsNotFoundError(err) {
			c.JSON(http.StatusNotFound, gin.H{"success": false, "error": err.Error()})
			return
		}
		log.Println(err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Something went wrong"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"session": session,
		"package": pkg,
	})
	SSE.Broadcaster.Broadcast("refresh")
}

func RegisterPackagePayment(c *gin.Context) {
	packageID, ok := paramID(c, "id")
	if !ok {
		return
	}

	var input Packages.RegisterPaymentInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	pkg, err := packageService().RegisterPayment(packageID, input)
	if err != nil {
		respondPackageError(c, err)
		return
	}

	c.JSON(http.StatusOK, pkg)

	SSE.Broadcaster.Broadcast("refresh")
	notifyStaff("A Payment Has Been Registered",
		fmt.Sprintf("Payment of %v received, outstanding balance is %v", input.Amount, pkg.Balance))
}

func ReconcilePackage(c *gin.Context) {
	packageID, ok := paramID(c, "id")
	if !ok {
		return
	}

	pkg, err := packageService().Reconcile(packageID)
	if err != nil {
		respondPackageError(c, err)
		return
	}

	c.JSON(http.StatusOK, pkg)
}

func DeletePackage(c *gin.Context) {
	packageID, ok := paramID(c, "id")
	if !ok {
		return
	}

	if err := packageService().DeletePackage(packageID); err != nil {
		respondPackageError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
	SSE.Broadcaster.Broadcast("refresh")
}

func notifyStaff(title, body string) {
	fcms, err := Models.GetStaffFCMs()
	if err != nil {
		log.Println(err)
		return
	}
	if len(fcms) > 0 {
		FirebaseMessaging.SendMessage(Models.NotificationRequest{Tokens: fcms, Title: title, Body: body})
	}
}

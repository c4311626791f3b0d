package Controllers

import (
	"FonoInova/Models"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
)

func GetDoctors(c *gin.Context) {
	var doctors []Models.Doctor
	if err := Models.DB.Model(&Models.Doctor{}).Find(&doctors).Error; err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, doctors)
}

// RegisterDoctor creates the staff account and its doctor profile together.
func RegisterDoctor(c *gin.Context) {
	var input struct {
		Username  string `json:"username" binding:"required"`
		Password  string `json:"password" binding:"required"`
		Phone     string `json:"phone"`
		Specialty string `json:"specialty"`
	}
	if err := c.ShouldBindBodyWith(&input, binding.JSON); err != nil {
		log.Println(err)
		c.String(http.StatusBadRequest, "Bad Request")
		c.Abort()
		return
	}

	if input.Specialty != "" && !Models.IsValidSessionType(input.Specialty) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown specialty"})
		return
	}

	user := Models.User{}
	user.Username = input.Username
	user.Password = input.Password
	user.Permission = 2
	_, err := user.SaveUser()

	if err != nil {
		log.Println(err)
		c.String(http.StatusBadRequest, "Failed To Register User")
		c.Abort()
		return
	}

	doctor := Models.Doctor{
		Name:      "Dr. " + input.Username,
		UserID:    user.ID,
		Phone:     input.Phone,
		Specialty: input.Specialty,
	}
	if err := Models.DB.Model(&Models.Doctor{}).Create(&doctor).Error; err != nil {
		log.Println(err)
		c.JSON(http.StatusBadRequest, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Registered Successfully"})
}

package main

import (
	"os"

	"FonoInova/CronJobs"
	"FonoInova/FirebaseMessaging"
	"FonoInova/Models"
	"FonoInova/Routes"
	"FonoInova/Whatsapp"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func main() {
	Models.ConnectDataBase()
	FirebaseMessaging.Setup()

	router := gin.Default()
	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"https://fonoinova.com.br", "http://localhost:3000"},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		AllowCredentials: true,
	},
	))
	Routes.ConfigRoutes(router)

	reminderService := CronJobs.NewSessionReminder(Models.DB)
	reminderService.StartReminderCron()

	go Whatsapp.Listen()

	port := os.Getenv("PORT")
	if port == "" {
		port = "3005"
	}
	router.Run(":" + port)
}

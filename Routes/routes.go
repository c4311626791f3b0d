package Routes

import (
	"FonoInova/Controllers"
	"FonoInova/Middleware"
	"FonoInova/SSE"

	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
)

func ConfigRoutes(router *gin.Engine) {
	// Gzip Compression
	router.Use(gzip.Gzip(gzip.BestSpeed))

	// Public routes
	public := router.Group("/api")
	{
		public.POST("/login", Controllers.Login)
		public.POST("/register", Controllers.Register)
		public.POST("/SaveFcmToken", Controllers.SaveFcmToken)
		public.GET("/GetDoctors", Controllers.GetDoctors)
	}

	// Authorized routes
	authorized := router.Group("/api")
	authorized.Use(Middleware.JwtAuthMiddleware())
	{
		// User-related routes
		authorized.GET("/user", Controllers.CurrentUser)

		// Package engine routes
		authorized.POST("/packages", Controllers.CreatePackage)
		authorized.GET("/packages", Controllers.FetchPackages)
		authorized.GET("/packages/:id", Controllers.FetchPackage)
		authorized.PATCH("/packages/:id", Controllers.UpdatePackage)
		authorized.DELETE("/packages/:id", Controllers.DeletePackage)
		authorized.PATCH("/packages/:id/sessions/:sessionId", Controllers.UpdatePackageSession)
		authorized.POST("/packages/:id/payments", Controllers.RegisterPackagePayment)
		authorized.POST("/packages/:id/reconcile", Controllers.ReconcilePackage)

		// Patient-related routes
		authorized.GET("/FetchPatients", Controllers.FetchPatients)
		authorized.POST("/CreatePatient", Controllers.CreatePatient)
		authorized.POST("/UpdatePatient", Controllers.UpdatePatient)

		// Doctor-related routes
		authorized.POST("/RegisterDoctor", Middleware.PermissionCheckAdmin(), Controllers.RegisterDoctor)

		// SSE (Server-Sent Events) route
		authorized.GET("/RequestSSE", SSE.RequestSSE)

		// Export-related routes
		authorized.POST("/ExportPackagesTable", Controllers.ExportPackagesTable)
	}
}

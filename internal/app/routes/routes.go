package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/mkaya/certportal/internal/app/controllers"
	"github.com/mkaya/certportal/internal/app/models/dto"
)

// SetupRouter configures all application routes
func SetupRouter(
	router *gin.Engine,
	generationController *controllers.GenerationController,
	portalController *controllers.PortalController,
	studentController *controllers.StudentController,
) {
	// API version group
	v1 := router.Group("/api/v1")

	// --- Administrative routes ---
	certificates := v1.Group("/certificates")
	{
		certificates.POST("/generate", generationController.Generate)
	}

	students := v1.Group("/students")
	{
		students.GET("", studentController.List)
		students.GET("/:id/certificates", studentController.GetCertificates)
		students.GET("/:id/packages", studentController.GetPackages)
		students.DELETE("/:id", studentController.Delete)
	}

	// --- Student portal routes (passwordless) ---
	portal := v1.Group("/portal")
	{
		portal.POST("/request-access", portalController.RequestAccess)
		portal.POST("/verify", portalController.VerifyToken)
		portal.GET("/packages/:id/download", portalController.Download)
	}

	// Health check endpoint (public)
	v1.GET("/health", func(c *gin.Context) {
		c.JSON(200, dto.APIResponse{
			Data: gin.H{"status": "ok"},
		})
	})
}

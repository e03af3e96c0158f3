package http

import (
	"os"
	"strings"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"go.ngs.io/perf-worksheet/internal/usecase"
)

// SetupRouter creates and configures the Gin router.
func SetupRouter(worksheetUC *usecase.WorksheetUseCase, baseURL string) *gin.Engine {
	router := gin.Default()

	// Setup CORS middleware.
	corsConfig := cors.DefaultConfig()

	// Get allowed origins from environment variable.
	// Default to allow all origins if not specified.
	allowedOrigins := os.Getenv("CORS_ALLOWED_ORIGINS")
	if allowedOrigins != "" {
		corsConfig.AllowOrigins = strings.Split(allowedOrigins, ",")
	} else {
		corsConfig.AllowAllOrigins = true
	}

	router.Use(cors.New(corsConfig))

	handler := NewHandler(worksheetUC, baseURL)

	v1 := router.Group("/v1")

	// Aircraft profiles.
	v1.GET("/aircraft", handler.ListAircraft)
	v1.GET("/aircraft/:id", handler.GetAircraft)

	// Worksheet state and derived figures.
	worksheet := v1.Group("/worksheet")
	worksheet.GET("", handler.GetWorksheet)
	worksheet.POST("/share", handler.ShareWorksheet)
	worksheet.GET("/calculations", handler.GetCalculations)

	// Stand-alone calculators.
	v1.GET("/altitudes", handler.GetAltitudes)
	v1.POST("/interpolate", handler.Interpolate)

	// Health check.
	router.GET("/health", handler.HealthCheck)

	return router
}

package api

import (
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/mailpane/core/internal/api/handlers"
	"github.com/mailpane/core/internal/api/middleware"
	"github.com/mailpane/core/internal/config"
	"github.com/mailpane/core/internal/database/models"
	"github.com/mailpane/core/internal/services"
	"gorm.io/gorm"
)

// SetupRouter initializes and returns the Gin router with all routes configured
func SetupRouter(db *gorm.DB, cfg *config.Config) *gin.Engine {
	router := gin.Default()

	router.Use(cors.New(cors.Config{
		AllowOrigins:     splitOrigins(cfg.CORSOrigins),
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", middleware.RequestIDHeader},
		ExposeHeaders:    []string{"Content-Length", middleware.RequestIDHeader},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// Initialize services
	logService := services.NewLogServiceWithLevel(db, cfg.LogLevel)
	emailService := services.NewEmailService(db, senderIdentity(cfg))

	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.RequestLogMiddleware(logService))

	// Initialize handlers
	emailHandler := handlers.NewEmailHandler(emailService, logService)

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// Email routes
	emails := router.Group("/emails")
	{
		emails.GET("", emailHandler.ListEmails)
		emails.POST("", emailHandler.CreateEmail)
		emails.GET("/:id", emailHandler.GetEmail)
		emails.PUT("/:id", emailHandler.UpdateEmail)
		emails.DELETE("/:id", emailHandler.DeleteEmail)
	}

	return router
}

// senderIdentity builds the outgoing-mail identity from configuration
func senderIdentity(cfg *config.Config) models.Contact {
	sender := models.Contact{
		Name:  cfg.SenderName,
		Email: cfg.SenderEmail,
	}
	if cfg.SenderAvatar != "" {
		avatar := cfg.SenderAvatar
		sender.Avatar = &avatar
	}
	return sender
}

func splitOrigins(origins string) []string {
	parts := strings.Split(origins, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			result = append(result, trimmed)
		}
	}
	if len(result) == 0 {
		return []string{"*"}
	}
	return result
}

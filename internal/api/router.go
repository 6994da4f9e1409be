package api

import (
	"github.com/bizkb/bizkb/internal/api/middleware"
	"github.com/bizkb/bizkb/internal/service"
	"github.com/gin-gonic/gin"
)

// RouterConfig holds configuration for the router
type RouterConfig struct {
	AllowOrigins []string
}

// SetupRouter sets up the Gin router
func SetupRouter(
	ingestService *service.IngestService,
	chatService *service.ChatService,
	statsService *service.StatsService,
	cfg RouterConfig,
) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	r.Use(middleware.CORS(cfg.AllowOrigins))

	// Health check
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	handler := NewHandler(ingestService, chatService, statsService)
	apiGroup := r.Group("/api")
	handler.RegisterRoutes(apiGroup)

	return r
}

package server

import (
	"net/url"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"ytbulkedit/infrastructure/realtime"
	httpHandler "ytbulkedit/interfaces/http"
	"ytbulkedit/interfaces/middleware"
)

// Handlers groups what the router mounts. Auth may be nil when no OAuth client is configured.
type Handlers struct {
	Bulk   httpHandler.IBulkHandler
	Health httpHandler.IHealthHandler
	Auth   httpHandler.IYouTubeAuthHandler
	Events *realtime.Hub
}

func InitiateRouter(h Handlers, secretKey string, allowedOrigins []string) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(cors.New(cors.Config{
		AllowOrigins:     allowedOrigins,
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Requested-With"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		AllowOriginFunc:  isLocalOrigin,
		MaxAge:           12 * time.Hour,
	}))

	router.GET("/healthz", h.Health.Healthz)

	// OAuth authentication routes
	if h.Auth != nil {
		router.GET("/auth/youtube", h.Auth.GetAuthURL)
		router.GET("/auth/youtube/callback", h.Auth.HandleCallback)
	}

	api := router.Group("api")
	api.Use(middleware.Auth(secretKey))
	{
		api.GET("/items", h.Bulk.ListItems)
		api.GET("/items/:id", h.Bulk.GetItem)
		api.POST("/preview", h.Bulk.Preview)
		api.POST("/dry-run", h.Bulk.DryRun)
		api.POST("/execute", h.Bulk.Execute)
		api.POST("/backup", h.Bulk.Backup)
		api.POST("/restore", h.Bulk.Restore)
		api.GET("/quota", h.Bulk.Quota)
		if h.Events != nil {
			api.GET("/events", h.Events.Serve)
		}
		if h.Auth != nil {
			api.GET("/youtube/oauth/status", h.Auth.Status)
		}
	}

	return router
}

// isLocalOrigin admits any port on the loopback hosts.
func isLocalOrigin(origin string) bool {
	u, err := url.Parse(origin)
	if err != nil {
		return false
	}
	switch u.Hostname() {
	case "localhost", "127.0.0.1", "::1":
		return u.Scheme == "http" || u.Scheme == "https"
	}
	return false
}

package server

import (
	"net/http"
	"time"

	httpHandler "github.com/FawadAli-1/xautomation-backend/interfaces/http"
	"github.com/FawadAli-1/xautomation-backend/interfaces/middleware"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func InitiateRouter(
	postHandler httpHandler.IPostHandler,
	allowedOrigins []string,
	secretKey string,
) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(cors.New(cors.Config{
		AllowOrigins:     allowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Requested-With"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	router.GET("/healthz", func(ctx *gin.Context) {
		ctx.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := router.Group("api")

	posts := api.Group("/posts")
	{
		posts.POST("/generate", postHandler.GeneratePost)
		posts.POST("/publish", postHandler.PublishPost)
		posts.POST("/schedule", postHandler.SchedulePost)
		posts.GET("/next-slot", postHandler.GetNextSlot)
	}

	// Admin utilities behind JWT: scheduled-post listing and the manual tick.
	admin := api.Group("/posts")
	admin.Use(middleware.Auth(secretKey))
	{
		admin.GET("/scheduled", postHandler.GetScheduledPosts)
		admin.POST("/process", postHandler.ProcessJobs)
	}

	return router
}

package api

import (
	"Shutter/internal/api/config"
	"Shutter/internal/api/middleware"
	"Shutter/internal/pkg/logger"
	"net/http"

	"github.com/gin-gonic/gin"
)

func SetupRouter(group *HandlersGroup) *gin.Engine {
	r := gin.New()
	_ = r.SetTrustedProxies([]string{"localhost"})

	// TraceId & Logger & CORS
	r.Use(middleware.TraceMiddleware())
	r.Use(middleware.AuditMiddleware())
	r.Use(middleware.CORSMiddleware(config.Cfg.Server.AllowedOrigins))
	logger.SetupGin(r)

	r.GET("/healthz", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	apiGroup := r.Group("/api")
	{
		apiGroup.GET("/ping", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{
				"code":    200,
				"message": "pong",
				"data":    nil,
			})
		})

		draftGroup := apiGroup.Group("/drafts")
		{
			draftGroup.POST("", group.DraftHandler.CreateDraft)
			draftGroup.GET("/:draft_id", group.DraftHandler.GetDraft)
			draftGroup.PUT("/:draft_id/metadata", group.DraftHandler.UpdateMetadata)
			draftGroup.PUT("/:draft_id/order", group.DraftHandler.ReorderMedia)
			draftGroup.DELETE("/:draft_id/media/:media_id", group.DraftHandler.RemoveMedia)
			draftGroup.POST("/:draft_id/share", group.DraftHandler.Share)
			draftGroup.POST("/:draft_id/retry", group.DraftHandler.Retry)
			draftGroup.POST("/:draft_id/abandon", group.DraftHandler.Abandon)
			draftGroup.GET("/:draft_id/progress", group.ProgressHandler.Connect)

			draftGroup.GET("/:draft_id/events", group.EventBoxHandler.GetEventList)
			draftGroup.GET("/:draft_id/events/unread", group.EventBoxHandler.GetUnreadCount)
			draftGroup.PUT("/:draft_id/events/read", group.EventBoxHandler.MarkAllRead)
		}

		postGroup := apiGroup.Group("/posts")
		{
			postGroup.GET("", group.PostHandler.LatestPost)
			postGroup.GET("/:post_id", group.PostHandler.GetPost)
			postGroup.DELETE("/:post_id", group.PostHandler.DeletePost)
		}
	}

	return r
}

package server

import (
	"github.com/gin-gonic/gin"
)

func (s *Server) SetUpRouter() *gin.Engine {
	router := gin.New()
	router.Use(RequestId())
	router.Use(Logger())
	router.Use(gin.Recovery())

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"message": "ok",
		})
	})

	router.GET("/video_feed", s.handleVideoFeed)

	apiV1 := router.Group("/api/v1")
	s.SetUpApiV1Router(apiV1)

	return router
}

func (s *Server) SetUpApiV1Router(apiV1 *gin.RouterGroup) {
	apiV1.POST("/upload", s.handleUpload)
	apiV1.GET("/session", s.handleSession)

	apiV1.GET("/records", s.handleRecentRecords)
	apiV1.GET("/decisions", s.handleRecentDecisions)
	apiV1.GET("/statistics", s.handleStatistics)
	apiV1.GET("/analytics/daily", s.handleDailyAnalytics)
	apiV1.POST("/export", s.handleExport)
}

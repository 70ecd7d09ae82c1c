package api

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/yt-insights/ideator/internal/logger"
)

// Server represents the API server
type Server struct {
	router   *gin.Engine
	youtube  *YouTubeAPI
	insights *InsightsHandler
	log      logger.Logger
}

// NewServer creates a new API server with CORS restricted to allowedOrigins.
func NewServer(youtubeAPI *YouTubeAPI, insights *InsightsHandler, allowedOrigins []string, log logger.Logger) *Server {
	router := gin.New()
	router.Use(gin.Recovery(), requestLogger(log))

	router.Use(cors.New(cors.Config{
		AllowOrigins:     allowedOrigins,
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Requested-With", "Pragma"},
		ExposeHeaders:    []string{"Content-Length", cacheHeader},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	server := &Server{
		router:   router,
		youtube:  youtubeAPI,
		insights: insights,
		log:      log,
	}

	server.setupRoutes()

	return server
}

// setupRoutes configures all the routes for the server
func (s *Server) setupRoutes() {
	s.router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status": "ok",
		})
	})

	// Channel endpoints
	s.router.GET("/channel/url", s.youtube.GetChannelByURL)
	s.router.GET("/channel/:id", s.youtube.GetChannelByID)
	s.router.GET("/channel/:id/videos", s.youtube.GetChannelVideos)

	// Insight endpoints
	s.router.GET("/channel/:id/insights", s.insights.GetChannelInsights)
	s.router.POST("/insights", s.insights.GenerateInsights)
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start starts the server on the specified port
func (s *Server) Start(port string) error {
	s.log.Info("Server starting", logger.String("port", port))
	return s.router.Run(":" + port)
}

// requestLogger logs one entry per request once it has been served.
func requestLogger(log logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		log.Info("Request served",
			logger.String("method", c.Request.Method),
			logger.String("path", c.FullPath()),
			logger.Int("status", c.Writer.Status()),
			logger.Duration("latency", time.Since(start)),
		)
	}
}

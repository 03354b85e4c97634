package router

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/ghostplan/matrix/internal/server/handlers"
)

// New wires the Gin engine with required routes and middlewares.
func New(handler *handlers.MatrixHandler, logger *zap.Logger) *gin.Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(zapLoggerMiddleware(logger))

	jobs := r.Group("/projects/:pid/jobs/:jid")
	{
		jobs.GET("/matrix", handler.GetMatrix)
		jobs.POST("/matrix/edit", handler.StartEdit)
		jobs.GET("/matrix/edit/:sid", handler.GetSessionView)
		jobs.PUT("/matrix/edit/:sid/cell", handler.SetCell)
		jobs.POST("/matrix/edit/:sid/paste", handler.Paste)
		jobs.POST("/matrix/edit/:sid/save", handler.Save)
		jobs.DELETE("/matrix/edit/:sid", handler.Cancel)
		jobs.POST("/items", handler.CreateItem)
	}

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	logger.Info("router initialized")

	return r
}

func zapLoggerMiddleware(logger *zap.Logger) gin.HandlerFunc {
	if logger == nil {
		logger = zap.NewNop()
	}

	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		logger.Info("request completed",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("duration", time.Since(start)),
			zap.String("client_ip", c.ClientIP()))
	}
}

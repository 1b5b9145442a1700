package router

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"review-digest/api/handlers"
	"review-digest/api/middleware"
	"review-digest/services"
)

// Deps are the services behind the routes. Runs may be nil when run records
// are not stored.
type Deps struct {
	Digest *services.DigestService
	Runs   *services.RunService
}

func New(deps Deps) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestTrace())

	// Health check
	r.GET("/health", func(c *gin.Context) {
		if _, err := deps.Digest.Clusters(c.Request.Context()); err != nil {
			c.JSON(http.StatusOK, gin.H{"status": "degraded", "digest": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// v1 routes
	api := r.Group("/api/v1")
	{
		api.GET("/digest", handlers.ListDigestHandler(deps.Digest))
		api.GET("/clusters", handlers.ListClustersHandler(deps.Digest))
		if deps.Runs != nil {
			api.GET("/runs", handlers.ListRunsHandler(deps.Runs))
		}
	}

	return r
}

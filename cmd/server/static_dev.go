//go:build !embed

package main

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// setupStaticFiles serves the dashboard page from ./web (development, no embedding)
func setupStaticFiles(router *gin.Engine, log *zap.Logger) {
	log.Info("Using local filesystem for frontend assets (development mode)", zap.String("dir", "./web"))

	router.StaticFile("/", "./web/index.html")

	router.NoRoute(func(c *gin.Context) {
		if strings.HasPrefix(c.Request.URL.Path, "/api") {
			c.JSON(http.StatusNotFound, gin.H{"error": "API endpoint not found"})
			return
		}
		c.File("./web/index.html")
	})
}

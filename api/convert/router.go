// Package convert exposes the XML→JSON conversion over HTTP.
package convert

import (
	"github.com/gin-gonic/gin"

	"github.com/irapidev/xml2json/middleware"
)

// Routers registers the conversion API on the engine.
func Routers(e *gin.Engine) {
	e.POST("/api/auth", authHandler)

	g := e.Group("/api", middleware.JWTMiddleWare)
	g.POST("/convert", convertBodyHandler)
	g.GET("/convert/url", convertURLHandler)
	g.GET("/convert/records", recordsHandler)
}

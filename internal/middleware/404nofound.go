package middleware

import (
	"github.com/haierkeys/fast-note-offline-client/pkg/app"
	"github.com/haierkeys/fast-note-offline-client/pkg/code"

	"github.com/gin-gonic/gin"
)

// NoFound 404 处理
func NoFound() gin.HandlerFunc {
	return func(c *gin.Context) {
		response := app.NewResponse(c)
		response.ToResponse(code.ErrorNotFound.WithDetails("route not found"))
		c.Abort()
	}
}

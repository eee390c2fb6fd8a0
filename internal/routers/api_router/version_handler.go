package api_router

import (
	"github.com/haierkeys/fast-note-offline-client/internal/app"
	pkgapp "github.com/haierkeys/fast-note-offline-client/pkg/app"
	"github.com/haierkeys/fast-note-offline-client/pkg/code"

	"github.com/gin-gonic/gin"
)

// VersionHandler 版本信息接口
type VersionHandler struct {
	app *app.App
}

// NewVersionHandler 创建版本接口处理器（注入 App Container）
func NewVersionHandler(appContainer *app.App) *VersionHandler {
	return &VersionHandler{app: appContainer}
}

// ClientVersion 返回客户端版本信息
func (h *VersionHandler) ClientVersion(c *gin.Context) {
	response := pkgapp.NewResponse(c)
	response.ToResponseData(code.Success, gin.H{
		"name":      app.Name,
		"version":   app.Version,
		"gitTag":    app.GitTag,
		"buildTime": app.BuildTime,
	})
}

package api_router

import (
	"github.com/haierkeys/fast-note-offline-client/internal/app"
	pkgapp "github.com/haierkeys/fast-note-offline-client/pkg/app"
	"github.com/haierkeys/fast-note-offline-client/pkg/code"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// SyncHandler 同步控制接口
type SyncHandler struct {
	app *app.App
}

// NewSyncHandler 创建同步控制接口处理器（注入 App Container）
func NewSyncHandler(appContainer *app.App) *SyncHandler {
	return &SyncHandler{app: appContainer}
}

// Trigger 手动触发一次同步
func (h *SyncHandler) Trigger(c *gin.Context) {
	response := pkgapp.NewResponse(c)

	result, err := h.app.Service.SyncTrigger(c.Request.Context())
	if err != nil {
		h.app.Logger().Warn("apiRouter.Sync.Trigger err: ", zap.Error(err))
		response.ToError(err)
		return
	}
	response.ToResponseData(code.Success, result)
}

// Stop 请求停止当前同步，在条目边界生效
func (h *SyncHandler) Stop(c *gin.Context) {
	response := pkgapp.NewResponse(c)
	h.app.Service.SyncStop()
	response.ToResponse(code.Success)
}

// Status 当前同步状态
func (h *SyncHandler) Status(c *gin.Context) {
	response := pkgapp.NewResponse(c)

	status, err := h.app.Service.SyncStatusNow(c.Request.Context())
	if err != nil {
		response.ToError(err)
		return
	}
	response.ToResponseData(code.Success, status)
}

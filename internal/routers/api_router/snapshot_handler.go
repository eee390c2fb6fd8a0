package api_router

import (
	"github.com/haierkeys/fast-note-offline-client/internal/app"
	pkgapp "github.com/haierkeys/fast-note-offline-client/pkg/app"
	"github.com/haierkeys/fast-note-offline-client/pkg/code"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// SnapshotHandler 数据导入导出接口
type SnapshotHandler struct {
	app *app.App
}

// NewSnapshotHandler 创建导入导出接口处理器（注入 App Container）
func NewSnapshotHandler(appContainer *app.App) *SnapshotHandler {
	return &SnapshotHandler{app: appContainer}
}

type snapshotParams struct {
	Path string `json:"path" form:"path" binding:"required"`
}

// Export 导出当前用户数据为 JSON 文件
func (h *SnapshotHandler) Export(c *gin.Context) {
	response := pkgapp.NewResponse(c)
	params := &snapshotParams{}
	if err := c.ShouldBind(params); err != nil {
		response.ToResponse(code.ErrorValidation.WithDetails(err.Error()))
		return
	}

	snapshot, err := h.app.Service.SnapshotExport(c.Request.Context(), params.Path)
	if err != nil {
		h.app.Logger().Error("apiRouter.Snapshot.Export err: ", zap.Error(err))
		response.ToError(err)
		return
	}
	response.ToResponseData(code.Success, gin.H{
		"path":   params.Path,
		"notes":  len(snapshot.Notes),
		"labels": len(snapshot.Labels),
	})
}

// Import 从 JSON 文件导入数据，单个事务内完成
func (h *SnapshotHandler) Import(c *gin.Context) {
	response := pkgapp.NewResponse(c)
	params := &snapshotParams{}
	if err := c.ShouldBind(params); err != nil {
		response.ToResponse(code.ErrorValidation.WithDetails(err.Error()))
		return
	}

	snapshot, err := h.app.Service.SnapshotImport(c.Request.Context(), params.Path)
	if err != nil {
		h.app.Logger().Error("apiRouter.Snapshot.Import err: ", zap.Error(err))
		response.ToError(err)
		return
	}
	response.ToResponseData(code.Success, gin.H{
		"path":   params.Path,
		"notes":  len(snapshot.Notes),
		"labels": len(snapshot.Labels),
	})
}

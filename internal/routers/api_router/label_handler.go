package api_router

import (
	"github.com/haierkeys/fast-note-offline-client/internal/app"
	"github.com/haierkeys/fast-note-offline-client/internal/service"
	pkgapp "github.com/haierkeys/fast-note-offline-client/pkg/app"
	"github.com/haierkeys/fast-note-offline-client/pkg/code"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// LabelHandler 标签接口
type LabelHandler struct {
	app *app.App
}

// NewLabelHandler 创建标签接口处理器（注入 App Container）
func NewLabelHandler(appContainer *app.App) *LabelHandler {
	return &LabelHandler{app: appContainer}
}

// Create 创建标签
func (h *LabelHandler) Create(c *gin.Context) {
	response := pkgapp.NewResponse(c)
	params := &service.LabelCreateParams{}
	if err := c.ShouldBind(params); err != nil {
		response.ToResponse(code.ErrorValidation.WithDetails(err.Error()))
		return
	}

	label, err := h.app.Service.LabelCreate(c.Request.Context(), params)
	if err != nil {
		h.app.Logger().Error("apiRouter.Label.Create err: ", zap.Error(err))
		response.ToError(err)
		return
	}
	response.ToResponseData(code.Success, label)
}

// Rename 重命名标签
func (h *LabelHandler) Rename(c *gin.Context) {
	response := pkgapp.NewResponse(c)
	id := c.Query("id")
	if id == "" {
		response.ToResponse(code.ErrorValidation.WithDetails("id is required"))
		return
	}
	params := &service.LabelRenameParams{}
	if err := c.ShouldBind(params); err != nil {
		response.ToResponse(code.ErrorValidation.WithDetails(err.Error()))
		return
	}

	label, err := h.app.Service.LabelRename(c.Request.Context(), id, params)
	if err != nil {
		h.app.Logger().Error("apiRouter.Label.Rename err: ", zap.Error(err))
		response.ToError(err)
		return
	}
	response.ToResponseData(code.Success, label)
}

// Delete 删除标签，笔记身上的关联一并移除
func (h *LabelHandler) Delete(c *gin.Context) {
	response := pkgapp.NewResponse(c)
	id := c.Query("id")
	if id == "" {
		response.ToResponse(code.ErrorValidation.WithDetails("id is required"))
		return
	}

	if err := h.app.Service.LabelDelete(c.Request.Context(), id); err != nil {
		h.app.Logger().Error("apiRouter.Label.Delete err: ", zap.Error(err))
		response.ToError(err)
		return
	}
	response.ToResponse(code.Success)
}

// List 获取标签列表
func (h *LabelHandler) List(c *gin.Context) {
	response := pkgapp.NewResponse(c)

	labels, err := h.app.Service.LabelList(c.Request.Context())
	if err != nil {
		response.ToError(err)
		return
	}
	response.ToResponseList(code.Success, labels, len(labels))
}

// Attach 给笔记挂标签
func (h *LabelHandler) Attach(c *gin.Context) {
	response := pkgapp.NewResponse(c)
	noteID := c.Query("noteId")
	labelID := c.Query("labelId")
	if noteID == "" || labelID == "" {
		response.ToResponse(code.ErrorValidation.WithDetails("noteId and labelId are required"))
		return
	}

	link, err := h.app.Service.NoteLabelAttach(c.Request.Context(), noteID, labelID)
	if err != nil {
		h.app.Logger().Error("apiRouter.Label.Attach err: ", zap.Error(err))
		response.ToError(err)
		return
	}
	response.ToResponseData(code.Success, link)
}

// Detach 从笔记移除标签
func (h *LabelHandler) Detach(c *gin.Context) {
	response := pkgapp.NewResponse(c)
	noteID := c.Query("noteId")
	labelID := c.Query("labelId")
	if noteID == "" || labelID == "" {
		response.ToResponse(code.ErrorValidation.WithDetails("noteId and labelId are required"))
		return
	}

	if err := h.app.Service.NoteLabelDetach(c.Request.Context(), noteID, labelID); err != nil {
		h.app.Logger().Error("apiRouter.Label.Detach err: ", zap.Error(err))
		response.ToError(err)
		return
	}
	response.ToResponse(code.Success)
}

// NoteLabels 获取笔记身上的标签
func (h *LabelHandler) NoteLabels(c *gin.Context) {
	response := pkgapp.NewResponse(c)
	noteID := c.Query("noteId")
	if noteID == "" {
		response.ToResponse(code.ErrorValidation.WithDetails("noteId is required"))
		return
	}

	labels, err := h.app.Service.NoteLabelList(c.Request.Context(), noteID)
	if err != nil {
		response.ToError(err)
		return
	}
	response.ToResponseList(code.Success, labels, len(labels))
}

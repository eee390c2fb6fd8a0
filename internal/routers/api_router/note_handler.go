// Package api_router 实现本地界面的 HTTP 处理器
package api_router

import (
	"github.com/haierkeys/fast-note-offline-client/internal/app"
	"github.com/haierkeys/fast-note-offline-client/internal/domain"
	"github.com/haierkeys/fast-note-offline-client/internal/service"
	pkgapp "github.com/haierkeys/fast-note-offline-client/pkg/app"
	"github.com/haierkeys/fast-note-offline-client/pkg/code"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// NoteHandler 笔记接口
type NoteHandler struct {
	app *app.App
}

// NewNoteHandler 创建笔记接口处理器（注入 App Container）
func NewNoteHandler(appContainer *app.App) *NoteHandler {
	return &NoteHandler{app: appContainer}
}

// Create 创建笔记
func (h *NoteHandler) Create(c *gin.Context) {
	response := pkgapp.NewResponse(c)
	params := &service.NoteCreateParams{}
	if err := c.ShouldBind(params); err != nil {
		response.ToResponse(code.ErrorValidation.WithDetails(err.Error()))
		return
	}

	note, err := h.app.Service.NoteCreate(c.Request.Context(), params)
	if err != nil {
		h.app.Logger().Error("apiRouter.Note.Create err: ", zap.Error(err))
		response.ToError(err)
		return
	}
	response.ToResponseData(code.Success, toNoteView(note))
}

// Update 更新笔记
func (h *NoteHandler) Update(c *gin.Context) {
	response := pkgapp.NewResponse(c)
	id := c.Query("id")
	if id == "" {
		response.ToResponse(code.ErrorValidation.WithDetails("id is required"))
		return
	}
	params := &service.NoteUpdateParams{}
	if err := c.ShouldBind(params); err != nil {
		response.ToResponse(code.ErrorValidation.WithDetails(err.Error()))
		return
	}

	note, err := h.app.Service.NoteUpdate(c.Request.Context(), id, params)
	if err != nil {
		h.app.Logger().Error("apiRouter.Note.Update err: ", zap.Error(err))
		response.ToError(err)
		return
	}
	response.ToResponseData(code.Success, toNoteView(note))
}

// Delete 删除笔记，permanent=true 时物理删除
func (h *NoteHandler) Delete(c *gin.Context) {
	response := pkgapp.NewResponse(c)
	id := c.Query("id")
	if id == "" {
		response.ToResponse(code.ErrorValidation.WithDetails("id is required"))
		return
	}
	permanent := c.Query("permanent") == "true"

	if err := h.app.Service.NoteDelete(c.Request.Context(), id, permanent); err != nil {
		h.app.Logger().Error("apiRouter.Note.Delete err: ", zap.Error(err))
		response.ToError(err)
		return
	}
	response.ToResponse(code.Success)
}

// Restore 把笔记移出回收站
func (h *NoteHandler) Restore(c *gin.Context) {
	response := pkgapp.NewResponse(c)
	id := c.Query("id")
	if id == "" {
		response.ToResponse(code.ErrorValidation.WithDetails("id is required"))
		return
	}

	note, err := h.app.Service.NoteRestore(c.Request.Context(), id)
	if err != nil {
		h.app.Logger().Error("apiRouter.Note.Restore err: ", zap.Error(err))
		response.ToError(err)
		return
	}
	response.ToResponseData(code.Success, toNoteView(note))
}

// Get 获取单条笔记
func (h *NoteHandler) Get(c *gin.Context) {
	response := pkgapp.NewResponse(c)
	id := c.Query("id")
	if id == "" {
		response.ToResponse(code.ErrorValidation.WithDetails("id is required"))
		return
	}

	note, err := h.app.Service.NoteGet(c.Request.Context(), id)
	if err != nil {
		response.ToError(err)
		return
	}
	response.ToResponseData(code.Success, toNoteView(note))
}

// List 获取笔记列表
func (h *NoteHandler) List(c *gin.Context) {
	response := pkgapp.NewResponse(c)

	filter := domain.NoteFilter{
		LabelID:        c.Query("labelId"),
		Keyword:        c.Query("keyword"),
		IncludeDeleted: c.Query("deleted") == "true",
	}
	if v := c.Query("archived"); v != "" {
		archived := v == "true"
		filter.Archived = &archived
	}

	notes, err := h.app.Service.NoteList(c.Request.Context(), filter)
	if err != nil {
		response.ToError(err)
		return
	}
	response.ToResponseList(code.Success, toNoteViews(notes), len(notes))
}

// Search 关键字检索
func (h *NoteHandler) Search(c *gin.Context) {
	response := pkgapp.NewResponse(c)
	keyword := c.Query("keyword")

	notes, err := h.app.Service.NoteSearch(c.Request.Context(), keyword)
	if err != nil {
		response.ToError(err)
		return
	}
	response.ToResponseList(code.Success, toNoteViews(notes), len(notes))
}

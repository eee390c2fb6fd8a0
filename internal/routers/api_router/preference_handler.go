package api_router

import (
	"github.com/haierkeys/fast-note-offline-client/internal/app"
	"github.com/haierkeys/fast-note-offline-client/internal/service"
	pkgapp "github.com/haierkeys/fast-note-offline-client/pkg/app"
	"github.com/haierkeys/fast-note-offline-client/pkg/code"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// PreferenceHandler 偏好接口，偏好只存本地
type PreferenceHandler struct {
	app *app.App
}

// NewPreferenceHandler 创建偏好接口处理器（注入 App Container）
func NewPreferenceHandler(appContainer *app.App) *PreferenceHandler {
	return &PreferenceHandler{app: appContainer}
}

// Set 写入偏好，同键覆盖
func (h *PreferenceHandler) Set(c *gin.Context) {
	response := pkgapp.NewResponse(c)
	params := &service.PreferenceSetParams{}
	if err := c.ShouldBind(params); err != nil {
		response.ToResponse(code.ErrorValidation.WithDetails(err.Error()))
		return
	}

	if err := h.app.Service.PreferenceSet(c.Request.Context(), params); err != nil {
		h.app.Logger().Error("apiRouter.Preference.Set err: ", zap.Error(err))
		response.ToError(err)
		return
	}
	response.ToResponse(code.Success)
}

// Get 读取单个偏好
func (h *PreferenceHandler) Get(c *gin.Context) {
	response := pkgapp.NewResponse(c)
	key := c.Query("key")
	if key == "" {
		response.ToResponse(code.ErrorValidation.WithDetails("key is required"))
		return
	}

	pref, err := h.app.Service.PreferenceGet(c.Request.Context(), key)
	if err != nil {
		response.ToError(err)
		return
	}
	response.ToResponseData(code.Success, pref)
}

// List 读取全部偏好
func (h *PreferenceHandler) List(c *gin.Context) {
	response := pkgapp.NewResponse(c)

	prefs, err := h.app.Service.PreferenceList(c.Request.Context())
	if err != nil {
		response.ToError(err)
		return
	}
	response.ToResponseList(code.Success, prefs, len(prefs))
}

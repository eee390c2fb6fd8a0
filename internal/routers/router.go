// Package routers 装配本地界面的 HTTP 路由
package routers

import (
	"time"

	"github.com/haierkeys/fast-note-offline-client/internal/app"
	"github.com/haierkeys/fast-note-offline-client/internal/middleware"
	"github.com/haierkeys/fast-note-offline-client/internal/routers/api_router"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// NewRouter 创建路由引擎
func NewRouter(appContainer *app.App) *gin.Engine {
	cfg := appContainer.Config()

	gin.SetMode(cfg.Server.RunMode)
	r := gin.New()

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := r.Group("/api")
	{
		api.Use(middleware.ContextTimeout(time.Duration(cfg.App.DefaultContextTimeout) * time.Second))
		api.Use(middleware.AccessLogWithLogger(appContainer.Logger()))
		api.Use(middleware.RecoveryWithLogger(appContainer.Logger()))

		// 创建 Handlers（注入 App Container）
		noteHandler := api_router.NewNoteHandler(appContainer)
		labelHandler := api_router.NewLabelHandler(appContainer)
		preferenceHandler := api_router.NewPreferenceHandler(appContainer)
		syncHandler := api_router.NewSyncHandler(appContainer)
		snapshotHandler := api_router.NewSnapshotHandler(appContainer)
		versionHandler := api_router.NewVersionHandler(appContainer)

		api.GET("/version", versionHandler.ClientVersion)

		api.POST("/note", noteHandler.Create)
		api.PUT("/note", noteHandler.Update)
		api.DELETE("/note", noteHandler.Delete)
		api.PUT("/note/restore", noteHandler.Restore)
		api.GET("/note", noteHandler.Get)
		api.GET("/notes", noteHandler.List)
		api.GET("/note/search", noteHandler.Search)

		api.POST("/label", labelHandler.Create)
		api.PUT("/label", labelHandler.Rename)
		api.DELETE("/label", labelHandler.Delete)
		api.GET("/labels", labelHandler.List)
		api.POST("/note-label", labelHandler.Attach)
		api.DELETE("/note-label", labelHandler.Detach)
		api.GET("/note-labels", labelHandler.NoteLabels)

		api.POST("/preference", preferenceHandler.Set)
		api.GET("/preference", preferenceHandler.Get)
		api.GET("/preferences", preferenceHandler.List)

		api.POST("/sync/trigger", syncHandler.Trigger)
		api.POST("/sync/stop", syncHandler.Stop)
		api.GET("/sync/status", syncHandler.Status)

		api.POST("/snapshot/export", snapshotHandler.Export)
		api.POST("/snapshot/import", snapshotHandler.Import)
	}

	r.NoRoute(middleware.NoFound())

	return r
}

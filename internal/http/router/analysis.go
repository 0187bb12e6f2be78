package router

import (
	"github.com/gin-gonic/gin"

	"orion.app/api/internal/http/handler"
)

func AnalysisRouter(rg *gin.RouterGroup, h *handler.AnalysisHandler) {
	rg.POST("/project/:projectId/analyze", h.Analyze)
	rg.POST("/project/:projectId/analyze-deep", h.AnalyzeDeep)
	rg.POST("/project/:projectId/analyze-async", h.AnalyzeAsync)
	rg.GET("/project/:projectId", h.ListByProject)
	rg.GET("/project/:projectId/stats", h.Stats)
	rg.GET("/project/:projectId/index", h.CodeIndex)
	rg.GET("/:id", h.GetByID)
	rg.GET("/:id/artifacts", h.Artifacts)
	rg.GET("/:id/decisions", h.Decisions)
	rg.PATCH("/decisions/:decisionId", h.UpdateDecision)
}

// ProgressRouter is mounted outside RequireAuth; the handler checks ?token= itself.
func ProgressRouter(rg *gin.RouterGroup, h *handler.ProgressHandler) {
	rg.GET("/project/:projectId/analyze/progress", h.Stream)
}

package handler

import (
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"orion.app/api/internal/http/dto"
	"orion.app/api/internal/service"
)

type AnalysisHandler struct {
	analyses service.AnalysisService
}

func NewAnalysisHandler(analyses service.AnalysisService) *AnalysisHandler {
	return &AnalysisHandler{analyses: analyses}
}

// Analyze runs a quick analysis synchronously and returns the stored record.
func (h *AnalysisHandler) Analyze(c *gin.Context) {
	userID, found := currentUser(c)
	if !found {
		return
	}
	projectID, valid := pathID(c, "projectId")
	if !valid {
		return
	}

	record, err := h.analyses.AnalyzeProject(c.Request.Context(), projectID, userID)
	if err != nil {
		failWith(c, err, "analyze project")
		return
	}
	ok(c, http.StatusOK, dto.ToAnalysisResponse(record))
}

func (h *AnalysisHandler) AnalyzeDeep(c *gin.Context) {
	userID, found := currentUser(c)
	if !found {
		return
	}
	projectID, valid := pathID(c, "projectId")
	if !valid {
		return
	}

	var req dto.AnalyzeDeepRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "invalid_request", "deepFiles is required")
		return
	}

	record, err := h.analyses.AnalyzeProjectDeep(c.Request.Context(), projectID, userID, req.DeepFiles)
	if err != nil {
		failWith(c, err, "analyze project")
		return
	}
	ok(c, http.StatusOK, dto.ToAnalysisResponse(record))
}

// AnalyzeAsync queues an analysis for the worker and returns immediately.
// Progress is reported over the progress stream.
func (h *AnalysisHandler) AnalyzeAsync(c *gin.Context) {
	userID, found := currentUser(c)
	if !found {
		return
	}
	projectID, valid := pathID(c, "projectId")
	if !valid {
		return
	}

	var req dto.AnalyzeAsyncRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		fail(c, http.StatusBadRequest, "invalid_request", "invalid request body")
		return
	}

	jobID, err := h.analyses.Enqueue(c.Request.Context(), projectID, userID, req.DeepFiles)
	if err != nil {
		failWith(c, err, "queue analysis")
		return
	}
	ok(c, http.StatusAccepted, dto.EnqueueResponse{
		JobID:     jobID,
		ProjectID: projectID,
		Status:    "queued",
	})
}

func (h *AnalysisHandler) ListByProject(c *gin.Context) {
	userID, found := currentUser(c)
	if !found {
		return
	}
	projectID, valid := pathID(c, "projectId")
	if !valid {
		return
	}

	var limit int32
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.ParseInt(raw, 10, 32)
		if err != nil {
			fail(c, http.StatusBadRequest, "invalid_request", "limit must be a number")
			return
		}
		limit = int32(parsed)
	}

	analyses, err := h.analyses.ListByProject(c.Request.Context(), projectID, userID, limit)
	if err != nil {
		failWith(c, err, "list analyses")
		return
	}
	ok(c, http.StatusOK, dto.ToAnalysisSummaries(analyses))
}

func (h *AnalysisHandler) GetByID(c *gin.Context) {
	userID, found := currentUser(c)
	if !found {
		return
	}
	analysisID, valid := pathID(c, "id")
	if !valid {
		return
	}

	record, err := h.analyses.GetByID(c.Request.Context(), analysisID, userID)
	if err != nil {
		failWith(c, err, "get analysis")
		return
	}
	ok(c, http.StatusOK, dto.ToAnalysisResponse(record))
}

func (h *AnalysisHandler) Stats(c *gin.Context) {
	userID, found := currentUser(c)
	if !found {
		return
	}
	projectID, valid := pathID(c, "projectId")
	if !valid {
		return
	}

	stats, err := h.analyses.Stats(c.Request.Context(), projectID, userID)
	if err != nil {
		failWith(c, err, "get analysis stats")
		return
	}
	ok(c, http.StatusOK, dto.ToStatsResponse(stats))
}

func (h *AnalysisHandler) CodeIndex(c *gin.Context) {
	userID, found := currentUser(c)
	if !found {
		return
	}
	projectID, valid := pathID(c, "projectId")
	if !valid {
		return
	}

	view, err := h.analyses.GetCodeIndex(c.Request.Context(), projectID, userID)
	if err != nil {
		failWith(c, err, "get code index")
		return
	}
	ok(c, http.StatusOK, dto.ToCodeIndexResponse(view))
}

func (h *AnalysisHandler) Artifacts(c *gin.Context) {
	userID, found := currentUser(c)
	if !found {
		return
	}
	analysisID, valid := pathID(c, "id")
	if !valid {
		return
	}

	artifacts, err := h.analyses.ListArtifacts(c.Request.Context(), analysisID, userID)
	if err != nil {
		failWith(c, err, "list artifacts")
		return
	}
	ok(c, http.StatusOK, dto.ToArtifactResponses(artifacts))
}

func (h *AnalysisHandler) Decisions(c *gin.Context) {
	userID, found := currentUser(c)
	if !found {
		return
	}
	analysisID, valid := pathID(c, "id")
	if !valid {
		return
	}

	decisions, err := h.analyses.ListDecisions(c.Request.Context(), analysisID, userID)
	if err != nil {
		failWith(c, err, "list decisions")
		return
	}
	ok(c, http.StatusOK, dto.ToDecisionResponses(decisions))
}

func (h *AnalysisHandler) UpdateDecision(c *gin.Context) {
	userID, found := currentUser(c)
	if !found {
		return
	}
	decisionID, valid := pathID(c, "decisionId")
	if !valid {
		return
	}

	var req dto.UpdateDecisionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "invalid_request", "status is required")
		return
	}

	decision, err := h.analyses.UpdateDecisionStatus(c.Request.Context(), decisionID, userID, req.Status)
	if err != nil {
		failWith(c, err, "update decision")
		return
	}
	ok(c, http.StatusOK, dto.ToDecisionResponse(decision))
}

package handler

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"orion.app/api/common/logger"
	"orion.app/api/internal/progress"
	"orion.app/api/internal/service"
)

const defaultKeepAlive = 15 * time.Second

type TokenVerifier interface {
	Verify(token string) (int64, error)
}

type ProgressSubscriber interface {
	Subscribe(ctx context.Context, projectID int64) (*progress.Subscription, error)
}

type ProgressHandler struct {
	analyses  service.AnalysisService
	broker    ProgressSubscriber
	tokens    TokenVerifier
	keepAlive time.Duration
}

func NewProgressHandler(analyses service.AnalysisService, broker ProgressSubscriber, tokens TokenVerifier, keepAlive time.Duration) *ProgressHandler {
	if keepAlive <= 0 {
		keepAlive = defaultKeepAlive
	}
	return &ProgressHandler{
		analyses:  analyses,
		broker:    broker,
		tokens:    tokens,
		keepAlive: keepAlive,
	}
}

// Stream serves progress events for one project as server-sent events until
// the client goes away. EventSource cannot send headers, so the bearer token
// arrives as ?token=.
func (h *ProgressHandler) Stream(c *gin.Context) {
	projectID, valid := pathID(c, "projectId")
	if !valid {
		return
	}

	userID, err := h.tokens.Verify(c.Query("token"))
	if err != nil {
		fail(c, http.StatusUnauthorized, "unauthorized", "not authenticated")
		return
	}

	ctx := logger.WithLogFields(c.Request.Context(), logger.LogFields{
		ProjectID: logger.Ptr(projectID),
		UserID:    logger.Ptr(userID),
		Component: "orion.http.progress",
	})

	if err := h.analyses.CheckProjectAccess(ctx, projectID, userID); err != nil {
		failWith(c, err, "subscribe to progress")
		return
	}

	sub, err := h.broker.Subscribe(ctx, projectID)
	if err != nil {
		failWith(c, err, "subscribe to progress")
		return
	}
	defer sub.Close()

	w := c.Writer
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")
	w.WriteHeader(http.StatusOK)
	w.Flush()

	slog.DebugContext(ctx, "progress stream opened")
	defer slog.DebugContext(ctx, "progress stream closed")

	ticker := time.NewTicker(h.keepAlive)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := fmt.Fprint(w, ": ping\n\n"); err != nil {
				return
			}
			w.Flush()
		case event, open := <-sub.Events():
			if !open {
				return
			}
			payload, err := json.Marshal(event)
			if err != nil {
				slog.WarnContext(ctx, "failed to encode progress event", "error", err)
				continue
			}
			if _, err := fmt.Fprintf(w, "data: %s\n\n", payload); err != nil {
				return
			}
			w.Flush()
		}
	}
}

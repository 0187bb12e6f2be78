package worker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"orion.app/api/common/logger"
	"orion.app/api/internal/model"
	"orion.app/api/internal/queue"
	"orion.app/api/internal/service"
)

// Runner executes analyses. service.AnalysisService implements it.
type Runner interface {
	AnalyzeProject(ctx context.Context, projectID, userID int64) (*model.Analysis, error)
	AnalyzeProjectDeep(ctx context.Context, projectID, userID int64, deepFiles []string) (*model.Analysis, error)
}

// Consumer is the subset of *queue.RedisConsumer the worker drives.
type Consumer interface {
	Read(ctx context.Context) ([]queue.Message, error)
	Ack(ctx context.Context, msg queue.Message) error
	Requeue(ctx context.Context, msg queue.Message, errMsg string) error
	SendDLQ(ctx context.Context, msg queue.Message, errMsg string) error
}

type Config struct {
	MaxAttempts  int
	ErrorBackoff time.Duration
}

type Worker struct {
	consumer Consumer
	runner   Runner
	cfg      Config

	stopCh    chan struct{}
	stoppedCh chan struct{}
}

func New(consumer Consumer, runner Runner, cfg Config) *Worker {
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = 3
	}
	if cfg.ErrorBackoff <= 0 {
		cfg.ErrorBackoff = time.Second
	}
	return &Worker{
		consumer:  consumer,
		runner:    runner,
		cfg:       cfg,
		stopCh:    make(chan struct{}),
		stoppedCh: make(chan struct{}),
	}
}

func (w *Worker) Run(ctx context.Context) error {
	defer close(w.stoppedCh)

	ctx = logger.WithLogFields(ctx, logger.LogFields{Component: "orion.worker"})
	slog.InfoContext(ctx, "worker started")

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-w.stopCh:
			slog.InfoContext(ctx, "worker stopping")
			return nil
		default:
			if err := w.processOneBatch(ctx); err != nil {
				slog.ErrorContext(ctx, "batch processing error", "error", err)
				select {
				case <-ctx.Done():
				case <-w.stopCh:
				case <-time.After(w.cfg.ErrorBackoff):
				}
			}
		}
	}
}

func (w *Worker) Stop() {
	close(w.stopCh)
	<-w.stoppedCh
}

func (w *Worker) processOneBatch(ctx context.Context) error {
	messages, err := w.consumer.Read(ctx)
	if err != nil {
		return fmt.Errorf("reading from stream: %w", err)
	}

	for _, msg := range messages {
		_ = w.Handle(ctx, msg)
	}
	return nil
}

// Handle processes one message and settles it: acked on success, requeued
// on a transient failure, or moved to the DLQ once attempts run out or the
// job can never succeed.
func (w *Worker) Handle(ctx context.Context, msg queue.Message) error {
	ctx = logger.WithLogFields(ctx, logger.LogFields{
		JobID:     logger.Ptr(msg.ID),
		ProjectID: logger.Ptr(msg.Job.ProjectID),
		UserID:    logger.Ptr(msg.Job.UserID),
	})

	if err := w.processMessageSafe(ctx, msg); err != nil {
		slog.ErrorContext(ctx, "analysis job failed",
			"error", err,
			"attempt", msg.Attempt)
		w.handleFailedMessage(ctx, msg, err)
		return err
	}
	return nil
}

func (w *Worker) processMessageSafe(ctx context.Context, msg queue.Message) (err error) {
	defer func() {
		if r := recover(); r != nil {
			slog.ErrorContext(ctx, "panic recovered in analysis job", "panic", r)
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	return w.processMessage(ctx, msg)
}

func (w *Worker) processMessage(ctx context.Context, msg queue.Message) error {
	job := msg.Job
	span := logger.StartSpanFromTraceID(ctx, msg.TraceID, "worker.analysis_job", trace.WithAttributes(
		attribute.Int64("project_id", job.ProjectID),
		attribute.Int("attempt", msg.Attempt),
		attribute.Int("deep_files", len(job.DeepFiles)),
	))
	defer span.End()
	ctx = span.Context()

	slog.InfoContext(ctx, "processing analysis job",
		"attempt", msg.Attempt,
		"deep_files", len(job.DeepFiles))

	start := time.Now()
	var (
		record *model.Analysis
		err    error
	)
	if len(job.DeepFiles) > 0 {
		record, err = w.runner.AnalyzeProjectDeep(ctx, job.ProjectID, job.UserID, job.DeepFiles)
	} else {
		record, err = w.runner.AnalyzeProject(ctx, job.ProjectID, job.UserID)
	}
	if err != nil {
		span.RecordError(err)
		return err
	}

	if err := w.consumer.Ack(ctx, msg); err != nil {
		// The analysis is stored; a redelivery would only produce a second record.
		slog.WarnContext(ctx, "failed to ack analysis job", "error", err)
	}

	slog.InfoContext(ctx, "analysis job completed",
		"analysis_id", record.ID,
		"duration_ms", time.Since(start).Milliseconds())
	return nil
}

func (w *Worker) handleFailedMessage(ctx context.Context, msg queue.Message, err error) {
	if isPermanent(err) || msg.Attempt >= w.cfg.MaxAttempts {
		slog.ErrorContext(ctx, "sending analysis job to DLQ",
			"attempts", msg.Attempt,
			"permanent", isPermanent(err))
		if dlqErr := w.consumer.SendDLQ(ctx, msg, err.Error()); dlqErr != nil {
			slog.ErrorContext(ctx, "failed to send to DLQ", "error", dlqErr)
		}
		return
	}

	slog.WarnContext(ctx, "requeuing analysis job", "attempt", msg.Attempt)
	if requeueErr := w.consumer.Requeue(ctx, msg, err.Error()); requeueErr != nil {
		slog.ErrorContext(ctx, "failed to requeue analysis job", "error", requeueErr)
	}
}

func isPermanent(err error) bool {
	return errors.Is(err, service.ErrProjectNotFound) ||
		errors.Is(err, service.ErrTooManyDeepFiles) ||
		errors.Is(err, service.ErrNoDeepFiles)
}

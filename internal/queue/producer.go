package queue

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/redis/go-redis/v9"
)

type Producer interface {
	Enqueue(ctx context.Context, job AnalysisJob) (string, error)
	Close() error
}

type redisProducer struct {
	client *redis.Client
	stream string
	logger *slog.Logger
}

func NewRedisProducer(client *redis.Client, stream string, logger *slog.Logger) Producer {
	if logger == nil {
		logger = slog.Default()
	}
	return &redisProducer{
		client: client,
		stream: stream,
		logger: logger,
	}
}

// Enqueue appends the job to the stream and returns the stream entry ID.
func (p *redisProducer) Enqueue(ctx context.Context, job AnalysisJob) (string, error) {
	values := JobValues(job, job.Attempt)

	id, err := p.client.XAdd(ctx, &redis.XAddArgs{
		Stream: p.stream,
		Values: values,
	}).Result()
	if err != nil {
		return "", fmt.Errorf("enqueue analysis job: %w", err)
	}

	p.logger.InfoContext(ctx, "enqueued analysis job",
		"job_id", id,
		"project_id", job.ProjectID,
		"deep_files", len(job.DeepFiles),
		"attempt", values["attempt"])
	return id, nil
}

func (p *redisProducer) Close() error {
	return p.client.Close()
}

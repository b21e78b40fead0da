package analysis

import (
	"context"
	"fmt"
	"log/slog"
	"time"
)

// Runner drives an analysis job from submission to a terminal status.
// It polls the provider on a fixed interval under a wall-clock ceiling;
// the loop repeats indefinitely for non-terminal statuses until the
// ceiling forcibly fails the run.
type Runner struct {
	client       Client
	features     []string
	pollInterval time.Duration
	timeout      time.Duration
	logger       *slog.Logger
}

// NewRunner creates a Runner with the given provider client and polling parameters.
func NewRunner(
	client Client,
	features []string,
	pollInterval time.Duration,
	timeout time.Duration,
	logger *slog.Logger,
) *Runner {
	return &Runner{
		client:       client,
		features:     features,
		pollInterval: pollInterval,
		timeout:      timeout,
		logger:       logger.With("system", "analysis"),
	}
}

// Run submits an analysis job for the document at key and polls until the
// job reaches a terminal status. On SUCCEEDED it returns the job identifier
// and the derived output prefix. On FAILED it returns ErrJobFailed without
// retrying. When the timeout ceiling elapses it returns ErrTimeout.
func (r *Runner) Run(ctx context.Context, key string) (*Result, error) {
	runCtx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	jobID, err := r.client.Submit(runCtx, SubmitRequest{
		DocumentKey:  key,
		OutputPrefix: key,
		Features:     r.features,
	})
	if err != nil {
		return nil, fmt.Errorf("submit analysis job for %s: %w", key, err)
	}

	r.logger.Info("analysis job submitted", "key", key, "job_id", jobID)

	for {
		status, err := r.client.Status(runCtx, jobID)
		if err != nil {
			if runCtx.Err() != nil {
				return nil, r.ceilingError(ctx, runCtx, jobID)
			}
			return nil, fmt.Errorf("poll analysis job %s: %w", jobID, err)
		}

		switch status {
		case StatusSucceeded:
			result := &Result{
				JobID:        jobID,
				OutputPrefix: OutputPrefix(key, jobID),
			}
			r.logger.Info(
				"analysis job succeeded",
				"job_id", jobID,
				"output_prefix", result.OutputPrefix,
			)
			return result, nil

		case StatusFailed:
			r.logger.Error("analysis job failed", "job_id", jobID, "code", FailureCode)
			return nil, fmt.Errorf("job %s: %w", jobID, ErrJobFailed)

		default:
			r.logger.Debug("analysis job in progress", "job_id", jobID, "status", status)
		}

		select {
		case <-runCtx.Done():
			return nil, r.ceilingError(ctx, runCtx, jobID)
		case <-time.After(r.pollInterval):
		}
	}
}

// ceilingError distinguishes the runner's own timeout from cancellation of
// the caller's context.
func (r *Runner) ceilingError(parent, run context.Context, jobID string) error {
	if parent.Err() != nil {
		return fmt.Errorf("poll analysis job %s: %w", jobID, parent.Err())
	}
	r.logger.Error("analysis job exceeded timeout", "job_id", jobID, "timeout", r.timeout)
	return fmt.Errorf("job %s after %v: %w", jobID, r.timeout, ErrTimeout)
}

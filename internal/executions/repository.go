package executions

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/scriptmark-labs/scriptmark/internal/workflow"
	"github.com/scriptmark-labs/scriptmark/pkg/pagination"
	"github.com/scriptmark-labs/scriptmark/pkg/query"
	"github.com/scriptmark-labs/scriptmark/pkg/repository"
	"github.com/scriptmark-labs/scriptmark/pkg/storage"
)

type repo struct {
	db         *sql.DB
	storage    storage.System
	runtime    *workflow.Runtime
	baseCtx    context.Context
	logger     *slog.Logger
	pagination pagination.Config
}

// New creates an execution repository implementing the System interface.
// baseCtx governs background workflow runs; it should be the lifecycle
// context so in-flight executions stop with the service.
func New(
	db *sql.DB,
	store storage.System,
	runtime *workflow.Runtime,
	baseCtx context.Context,
	logger *slog.Logger,
	pagination pagination.Config,
) System {
	return &repo{
		db:         db,
		storage:    store,
		runtime:    runtime,
		baseCtx:    baseCtx,
		logger:     logger.With("system", "executions"),
		pagination: pagination,
	}
}

func (r *repo) Handler() *Handler {
	return NewHandler(r, r.logger, r.pagination)
}

func (r *repo) List(
	ctx context.Context,
	page pagination.PageRequest,
	filters Filters,
) (*pagination.PageResult[Execution], error) {
	page.Normalize(r.pagination)

	qb := query.
		NewBuilder(projection, defaultSort).
		WhereSearch(page.Search, "ScriptsKey", "StandardAnswerKey")

	filters.Apply(qb)

	if len(page.Sort) > 0 {
		qb.OrderByFields(page.Sort)
	}

	countSQL, countArgs := qb.BuildCount()
	var total int
	if err := r.db.QueryRowContext(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, fmt.Errorf("count executions: %w", err)
	}

	pageSQL, pageArgs := qb.BuildPage(page.Page, page.PageSize)
	execs, err := repository.QueryMany(ctx, r.db, pageSQL, pageArgs, scanExecution)
	if err != nil {
		return nil, fmt.Errorf("query executions: %w", err)
	}

	result := pagination.NewPageResult(execs, total, page.Page, page.PageSize)
	return &result, nil
}

func (r *repo) Find(ctx context.Context, id uuid.UUID) (*Execution, error) {
	q, args := query.NewBuilder(projection).BuildSingle("ID", id)

	e, err := repository.QueryOne(ctx, r.db, q, args, scanExecution)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}
	return &e, nil
}

func (r *repo) Create(ctx context.Context, cmd CreateCommand) (*Execution, error) {
	if err := r.validate(ctx, cmd); err != nil {
		return nil, err
	}

	id := uuid.New()

	q := `
		INSERT INTO executions(id, scripts_key, standard_answer_key, skip_rotation)
		VALUES ($1, $2, $3, $4)
		RETURNING id, scripts_key, standard_answer_key, skip_rotation, status, error,
			scripts_job_id, standard_answer_job_id, marks_key, total_marks, max_marks,
			created_at, updated_at, completed_at`

	insertArgs := []any{
		id,
		cmd.ScriptsKey,
		cmd.StandardAnswerKey,
		cmd.SkipRotation,
	}

	e, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (Execution, error) {
		return repository.QueryOne(ctx, tx, q, insertArgs, scanExecution)
	})
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	r.logger.Info(
		"execution created",
		"id", e.ID,
		"scripts_key", e.ScriptsKey,
		"standard_answer_key", e.StandardAnswerKey,
	)

	go r.run(e)

	return &e, nil
}

func (r *repo) Delete(ctx context.Context, id uuid.UUID) error {
	exec, err := r.Find(ctx, id)
	if err != nil {
		return err
	}

	if !exec.Status.Terminal() {
		return ErrNotTerminal
	}

	_, err = repository.WithTx(ctx, r.db, func(tx *sql.Tx) (struct{}, error) {
		return struct{}{}, repository.ExecExpectOne(
			ctx, tx,
			"DELETE FROM executions WHERE id = $1",
			id,
		)
	})
	if err != nil {
		return repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	if exec.MarksKey != nil {
		if delErr := r.storage.Delete(ctx, *exec.MarksKey); delErr != nil {
			r.logger.Warn(
				"mark sheet delete failed after DB delete",
				"key", *exec.MarksKey,
				"error", delErr,
			)
		}
	}

	r.logger.Info("execution deleted", "id", id)
	return nil
}

func (r *repo) Marks(ctx context.Context, id uuid.UUID) (*storage.DownloadResult, error) {
	exec, err := r.Find(ctx, id)
	if err != nil {
		return nil, err
	}

	if exec.MarksKey == nil {
		return nil, ErrMarksNotReady
	}

	return r.storage.Download(ctx, *exec.MarksKey)
}

func (r *repo) validate(ctx context.Context, cmd CreateCommand) error {
	if cmd.ScriptsKey == "" {
		return fmt.Errorf("%w: scripts_key required", ErrInvalidInput)
	}
	if cmd.StandardAnswerKey == "" {
		return fmt.Errorf("%w: standard_answer_key required", ErrInvalidInput)
	}

	for _, key := range []string{cmd.ScriptsKey, cmd.StandardAnswerKey} {
		exists, err := r.storage.Exists(ctx, key)
		if err != nil {
			return fmt.Errorf("check source %s: %w", key, err)
		}
		if !exists {
			return fmt.Errorf("%w: %s", ErrSourceNotFound, key)
		}
	}

	return nil
}

// run drives the workflow for an accepted execution on the lifecycle
// context and records its outcome.
func (r *repo) run(e Execution) {
	ctx := r.baseCtx

	if err := r.markRunning(ctx, e.ID); err != nil {
		r.logger.Error("execution status update failed", "id", e.ID, "error", err)
		return
	}

	result, err := workflow.Execute(ctx, r.runtime, e.ID, workflow.Input{
		ScriptsKey:        e.ScriptsKey,
		StandardAnswerKey: e.StandardAnswerKey,
		SkipRotation:      e.SkipRotation,
	})
	if err != nil {
		if failErr := r.markFailed(ctx, e.ID, err); failErr != nil {
			r.logger.Error("execution failure record failed", "id", e.ID, "error", failErr)
		}
		return
	}

	if err := r.markSucceeded(ctx, e.ID, result); err != nil {
		r.logger.Error("execution completion record failed", "id", e.ID, "error", err)
	}
}

func (r *repo) markRunning(ctx context.Context, id uuid.UUID) error {
	return repository.ExecExpectOne(
		ctx, r.db,
		`UPDATE executions SET status = $2, updated_at = $3 WHERE id = $1`,
		id, StatusRunning, time.Now().UTC(),
	)
}

func (r *repo) markFailed(ctx context.Context, id uuid.UUID, runErr error) error {
	now := time.Now().UTC()
	return repository.ExecExpectOne(
		ctx, r.db,
		`UPDATE executions
		SET status = $2, error = $3, updated_at = $4, completed_at = $4
		WHERE id = $1`,
		id, StatusFailed, runErr.Error(), now,
	)
}

func (r *repo) markSucceeded(ctx context.Context, id uuid.UUID, result *workflow.Result) error {
	now := time.Now().UTC()
	return repository.ExecExpectOne(
		ctx, r.db,
		`UPDATE executions
		SET status = $2, scripts_job_id = $3, standard_answer_job_id = $4,
			marks_key = $5, total_marks = $6, max_marks = $7,
			updated_at = $8, completed_at = $8
		WHERE id = $1`,
		id,
		StatusSucceeded,
		result.Combined.Scripts.JobID,
		result.Combined.StandardAnswer.JobID,
		result.MarksKey,
		result.Marks.TotalMarks,
		result.Marks.MaxMarks,
		now,
	)
}

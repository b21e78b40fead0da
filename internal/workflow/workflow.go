// Package workflow implements the top-level marking orchestrator. Two
// structurally identical branches run concurrently, one for the submission
// scripts and one for the standard answer, each chaining orientation
// correction, document analysis, and result transform. A positional fan-in
// merges the branch outputs, mark generation scores the combined record,
// and an approval event is published for downstream consumers.
package workflow

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/scriptmark-labs/scriptmark/internal/marking"
	"github.com/scriptmark-labs/scriptmark/internal/notify"
)

// Slot positions for the fan-in merge; branch index determines the slot,
// never completion order.
const (
	slotScripts = iota
	slotStandardAnswer
	branchCount
)

// Execute runs the full marking workflow for an execution. Branch failures
// cancel the sibling branch and fail the execution; artifacts already
// written to storage are not compensated.
func Execute(ctx context.Context, rt *Runtime, executionID uuid.UUID, input Input) (*Result, error) {
	if err := validate(input); err != nil {
		return nil, err
	}

	rt.Logger.InfoContext(
		ctx, "execution started",
		"execution_id", executionID,
		"scripts_key", input.ScriptsKey,
		"standard_answer_key", input.StandardAnswerKey,
		"skip_rotation", input.SkipRotation,
	)

	combined, err := runBranches(ctx, rt, input)
	if err != nil {
		return nil, err
	}

	sheet := marking.Generate(
		combined.Scripts.Extract,
		combined.StandardAnswer.Extract,
		rt.MarksPerQuestion,
	)

	marksKey := MarksKey(executionID)
	if err := uploadMarks(ctx, rt, marksKey, sheet); err != nil {
		return nil, err
	}

	publishApproval(ctx, rt, executionID, marksKey, sheet)

	rt.Logger.InfoContext(
		ctx, "execution complete",
		"execution_id", executionID,
		"marks_key", marksKey,
		"total_marks", sheet.TotalMarks,
		"max_marks", sheet.MaxMarks,
	)

	return &Result{
		ExecutionID: executionID,
		Combined:    *combined,
		Marks:       sheet,
		MarksKey:    marksKey,
		CompletedAt: time.Now().UTC(),
	}, nil
}

func runBranches(ctx context.Context, rt *Runtime, input Input) (*Combined, error) {
	keys := [branchCount]string{
		slotScripts:        input.ScriptsKey,
		slotStandardAnswer: input.StandardAnswerKey,
	}

	var results [branchCount]BranchResult

	g, gctx := errgroup.WithContext(ctx)

	for slot, key := range keys {
		g.Go(func() error {
			result, err := runBranch(gctx, rt, key, input.SkipRotation)
			if err != nil {
				return fmt.Errorf("branch %s: %w", key, err)
			}

			results[slot] = *result
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return &Combined{
		Scripts:        results[slotScripts],
		StandardAnswer: results[slotStandardAnswer],
	}, nil
}

func runBranch(ctx context.Context, rt *Runtime, key string, skipRotation bool) (*BranchResult, error) {
	orientedKey, err := rt.Orienter.Orient(ctx, key, skipRotation)
	if err != nil {
		return nil, err
	}

	jobResult, err := rt.Analyzer.Run(ctx, orientedKey)
	if err != nil {
		return nil, err
	}

	extract, err := rt.Extractor.Extract(ctx, jobResult.OutputPrefix)
	if err != nil {
		return nil, err
	}

	return &BranchResult{
		SourceKey:    key,
		OrientedKey:  orientedKey,
		JobID:        jobResult.JobID,
		OutputPrefix: jobResult.OutputPrefix,
		Extract:      extract,
	}, nil
}

func uploadMarks(ctx context.Context, rt *Runtime, marksKey string, sheet *marking.MarkSheet) error {
	data, err := json.Marshal(sheet)
	if err != nil {
		return fmt.Errorf("encode mark sheet: %w", err)
	}

	if err := rt.Storage.Upload(ctx, marksKey, bytes.NewReader(data), "application/json"); err != nil {
		return fmt.Errorf("upload mark sheet: %w", err)
	}

	return nil
}

// publishApproval sends the approval event on a best-effort basis; the
// channel has no consumers in this service and must not fail a completed
// execution.
func publishApproval(
	ctx context.Context,
	rt *Runtime,
	executionID uuid.UUID,
	marksKey string,
	sheet *marking.MarkSheet,
) {
	event := notify.ApprovalEvent{
		ExecutionID: executionID,
		MarksKey:    marksKey,
		TotalMarks:  sheet.TotalMarks,
		MaxMarks:    sheet.MaxMarks,
		Percentage:  sheet.Percentage,
		GeneratedAt: sheet.GeneratedAt,
	}

	if err := rt.Publisher.Publish(ctx, event); err != nil {
		rt.Logger.WarnContext(
			ctx, "approval publish failed",
			"execution_id", executionID,
			"error", err,
		)
	}
}

func validate(input Input) error {
	if input.ScriptsKey == "" {
		return fmt.Errorf("%w: scripts_key required", ErrInvalidInput)
	}
	if input.StandardAnswerKey == "" {
		return fmt.Errorf("%w: standard_answer_key required", ErrInvalidInput)
	}
	return nil
}

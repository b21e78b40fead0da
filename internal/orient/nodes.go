package orient

import (
	"context"
	"fmt"
	"path/filepath"
	"runtime"
	"time"

	"github.com/JaimeStill/go-agents-orchestration/pkg/state"
	"golang.org/x/sync/errgroup"

	"github.com/scriptmark-labs/scriptmark/pkg/storage"
)

const (
	sourcePDF   = "source.pdf"
	orientedPDF = "oriented.pdf"
)

// RenderNode returns a state node that downloads the source PDF from object
// storage and renders all pages to PNG images in the temp directory.
func RenderNode(rt *Runtime) state.StateNode {
	return state.NewFunctionNode(func(ctx context.Context, s state.State) (state.State, error) {
		key, err := extractDocumentKey(s)
		if err != nil {
			return s, fmt.Errorf("render: %w", err)
		}

		tempDir, err := extractTempDir(s)
		if err != nil {
			return s, fmt.Errorf("render: %w", err)
		}

		pdfPath := filepath.Join(tempDir, sourcePDF)
		if err := storage.FetchToFile(ctx, rt.Storage, key, pdfPath); err != nil {
			return s, fmt.Errorf("render: %w: %w", ErrRenderFailed, err)
		}

		rendered, err := rt.Renderer.RenderPDF(ctx, pdfPath, tempDir)
		if err != nil {
			return s, fmt.Errorf("render: %w: %w", ErrRenderFailed, err)
		}

		pages := make([]PageImage, len(rendered))
		for i, p := range rendered {
			pages[i] = PageImage{Page: p}
		}

		rt.Logger.InfoContext(
			ctx, "render node complete",
			"key", key,
			"page_count", len(pages),
		)

		s = s.Set(KeyPages, pages)
		return s, nil
	})
}

// DetectNode returns a state node that checks each page image for rotation
// defects using bounded errgroup concurrency. Detected corrections are
// recorded on the page entries for the correct node to apply.
func DetectNode(rt *Runtime) state.StateNode {
	return state.NewFunctionNode(func(ctx context.Context, s state.State) (state.State, error) {
		pages, err := extractPages(s)
		if err != nil {
			return s, fmt.Errorf("detect: %w", err)
		}

		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(workerCount(len(pages)))

		for i := range pages {
			g.Go(func() error {
				if gctx.Err() != nil {
					return gctx.Err()
				}

				rotation, err := rt.Detector.Detect(gctx, pages[i].Page.Path)
				if err != nil {
					return fmt.Errorf("page %d: %w", pages[i].Page.Number, err)
				}

				pages[i].Rotation = rotation
				return nil
			})
		}

		if err := g.Wait(); err != nil {
			return s, fmt.Errorf("detect: %w: %w", ErrDetectFailed, err)
		}

		rt.Logger.InfoContext(
			ctx, "detect node complete",
			"page_count", len(pages),
			"defective", countDefective(pages),
		)

		s = s.Set(KeyPages, pages)
		return s, nil
	})
}

// CorrectNode returns a state node that rotates defective page images in
// place, then holds for the configured settle delay before reassembly.
func CorrectNode(rt *Runtime) state.StateNode {
	return state.NewFunctionNode(func(ctx context.Context, s state.State) (state.State, error) {
		pages, err := extractPages(s)
		if err != nil {
			return s, fmt.Errorf("correct: %w", err)
		}

		corrected := 0
		for _, p := range pages {
			if p.Rotation == 0 {
				continue
			}

			if err := RotateImageFile(p.Page.Path, p.Rotation); err != nil {
				return s, fmt.Errorf(
					"correct: %w: page %d: %w",
					ErrCorrectFailed, p.Page.Number, err,
				)
			}
			corrected++
		}

		rt.Logger.InfoContext(
			ctx, "correct node complete",
			"corrected", corrected,
			"settle_delay", rt.SettleDelay,
		)

		select {
		case <-ctx.Done():
			return s, fmt.Errorf("correct: %w", ctx.Err())
		case <-time.After(rt.SettleDelay):
		}

		return s, nil
	})
}

// AssembleNode returns a state node that recombines the page images
// (corrected or original) into a single PDF and uploads it to the
// derived output key.
func AssembleNode(rt *Runtime) state.StateNode {
	return state.NewFunctionNode(func(ctx context.Context, s state.State) (state.State, error) {
		key, err := extractDocumentKey(s)
		if err != nil {
			return s, fmt.Errorf("assemble: %w", err)
		}

		tempDir, err := extractTempDir(s)
		if err != nil {
			return s, fmt.Errorf("assemble: %w", err)
		}

		pages, err := extractPages(s)
		if err != nil {
			return s, fmt.Errorf("assemble: %w", err)
		}

		imagePaths := make([]string, len(pages))
		for i, p := range pages {
			imagePaths[i] = p.Page.Path
		}

		outPath := filepath.Join(tempDir, orientedPDF)
		if err := rt.Assembler.Assemble(ctx, imagePaths, outPath); err != nil {
			return s, fmt.Errorf("assemble: %w: %w", ErrAssembleFailed, err)
		}

		outputKey := OutputKey(key)
		if err := uploadFile(ctx, rt.Storage, outPath, outputKey); err != nil {
			return s, fmt.Errorf("assemble: %w: %w", ErrAssembleFailed, err)
		}

		rt.Logger.InfoContext(
			ctx, "assemble node complete",
			"key", key,
			"output_key", outputKey,
		)

		s = s.Set(KeyOutputKey, outputKey)
		return s, nil
	})
}

func countDefective(pages []PageImage) int {
	n := 0
	for _, p := range pages {
		if p.Rotation != 0 {
			n++
		}
	}
	return n
}

func workerCount(pageCount int) int {
	return max(min(runtime.NumCPU(), pageCount), 1)
}

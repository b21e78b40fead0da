// Package orient implements the orientation-correction pipeline. A source
// PDF is rendered to page images, each page is checked for rotation defects
// by a vision service, corrected pages are rotated in place, and the images
// are reassembled into a single output PDF in object storage. A skip flag
// bypasses detection and correction entirely.
package orient

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	gaoconfig "github.com/JaimeStill/go-agents-orchestration/pkg/config"
	"github.com/JaimeStill/go-agents-orchestration/pkg/state"

	"github.com/scriptmark-labs/scriptmark/internal/render"
	"github.com/scriptmark-labs/scriptmark/pkg/storage"
)

// State bag keys shared by pipeline nodes.
const (
	KeyDocumentKey  = "document_key"
	KeySkipRotation = "skip_rotation"
	KeyTempDir      = "temp_dir"
	KeyPages        = "pages"
	KeyOutputKey    = "output_key"
)

// PageImage pairs a rendered page with its detected rotation defect.
// Rotation is the clockwise correction in degrees still to be applied.
type PageImage struct {
	Page     render.Page
	Rotation int
}

// Runtime bundles the dependencies that pipeline nodes require.
type Runtime struct {
	Storage     storage.System
	Renderer    render.Renderer
	Detector    Detector
	Assembler   Assembler
	SettleDelay time.Duration
	Logger      *slog.Logger
}

// OutputKey derives the storage key for a pipeline's reassembled document.
func OutputKey(key string) string {
	return "oriented/" + key
}

// Execute runs the orientation-correction pipeline for the document at key.
// It builds the state graph (render → detect → correct → assemble, with a
// direct render → assemble edge when skipRotation is set), executes it, and
// returns the storage key of the reassembled PDF.
func Execute(ctx context.Context, rt *Runtime, key string, skipRotation bool) (string, error) {
	tempDir, err := os.MkdirTemp("", "scriptmark-orient-*")
	if err != nil {
		return "", fmt.Errorf("create temp directory: %w", err)
	}
	defer os.RemoveAll(tempDir)

	graph, err := buildGraph(rt)
	if err != nil {
		return "", fmt.Errorf("build graph: %w", err)
	}

	initialState := state.New(nil)
	initialState = initialState.Set(KeyDocumentKey, key)
	initialState = initialState.Set(KeySkipRotation, skipRotation)
	initialState = initialState.Set(KeyTempDir, tempDir)

	finalState, err := graph.Execute(ctx, initialState)
	if err != nil {
		return "", fmt.Errorf("execute graph: %w", err)
	}

	return extractOutputKey(finalState)
}

func buildGraph(rt *Runtime) (state.StateGraph, error) {
	cfg := gaoconfig.DefaultGraphConfig("scriptmark-orient")
	cfg.Observer = "noop"

	graph, err := state.NewGraph(cfg)
	if err != nil {
		return nil, err
	}

	if err := graph.AddNode("render", RenderNode(rt)); err != nil {
		return nil, err
	}

	if err := graph.AddNode("detect", DetectNode(rt)); err != nil {
		return nil, err
	}

	if err := graph.AddNode("correct", CorrectNode(rt)); err != nil {
		return nil, err
	}

	if err := graph.AddNode("assemble", AssembleNode(rt)); err != nil {
		return nil, err
	}

	// render → assemble (skip flag bypasses detection and correction)
	if err := graph.AddEdge("render", "assemble", skipRotation); err != nil {
		return nil, err
	}

	// render → detect (default path)
	if err := graph.AddEdge("render", "detect", state.Not(skipRotation)); err != nil {
		return nil, err
	}

	// detect → correct (unconditional)
	if err := graph.AddEdge("detect", "correct", nil); err != nil {
		return nil, err
	}

	// correct → assemble (unconditional)
	if err := graph.AddEdge("correct", "assemble", nil); err != nil {
		return nil, err
	}

	if err := graph.SetEntryPoint("render"); err != nil {
		return nil, err
	}

	if err := graph.SetExitPoint("assemble"); err != nil {
		return nil, err
	}

	return graph, nil
}

func skipRotation(s state.State) bool {
	val, ok := s.Get(KeySkipRotation)
	if !ok {
		return false
	}

	skip, ok := val.(bool)
	return ok && skip
}

func extractOutputKey(s state.State) (string, error) {
	val, ok := s.Get(KeyOutputKey)
	if !ok {
		return "", fmt.Errorf("missing %s in final state", KeyOutputKey)
	}

	key, ok := val.(string)
	if !ok {
		return "", fmt.Errorf("%s is not string", KeyOutputKey)
	}

	return key, nil
}

func extractPages(s state.State) ([]PageImage, error) {
	val, ok := s.Get(KeyPages)
	if !ok {
		return nil, fmt.Errorf("missing %s in state", KeyPages)
	}

	pages, ok := val.([]PageImage)
	if !ok {
		return nil, fmt.Errorf("%s is not []PageImage", KeyPages)
	}

	return pages, nil
}

func extractDocumentKey(s state.State) (string, error) {
	val, ok := s.Get(KeyDocumentKey)
	if !ok {
		return "", fmt.Errorf("missing %s in state", KeyDocumentKey)
	}

	key, ok := val.(string)
	if !ok {
		return "", fmt.Errorf("%s is not string", KeyDocumentKey)
	}

	return key, nil
}

func extractTempDir(s state.State) (string, error) {
	val, ok := s.Get(KeyTempDir)
	if !ok {
		return "", fmt.Errorf("missing %s in state", KeyTempDir)
	}

	dir, ok := val.(string)
	if !ok {
		return "", fmt.Errorf("%s is not string", KeyTempDir)
	}

	return dir, nil
}

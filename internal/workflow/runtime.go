package workflow

import (
	"context"
	"log/slog"

	"github.com/scriptmark-labs/scriptmark/internal/analysis"
	"github.com/scriptmark-labs/scriptmark/internal/marking"
	"github.com/scriptmark-labs/scriptmark/internal/notify"
	"github.com/scriptmark-labs/scriptmark/internal/orient"
	"github.com/scriptmark-labs/scriptmark/pkg/storage"
)

// Orienter runs the orientation-correction pipeline for a document,
// returning the storage key of the reassembled PDF.
type Orienter interface {
	Orient(ctx context.Context, key string, skipRotation bool) (string, error)
}

// Analyzer drives a document-analysis job to a terminal status.
type Analyzer interface {
	Run(ctx context.Context, key string) (*analysis.Result, error)
}

// Extractor transforms a completed job's output into a marking extract.
type Extractor interface {
	Extract(ctx context.Context, outputPrefix string) (*marking.Extract, error)
}

// Runtime bundles the dependencies the orchestrator requires.
// It is constructed by higher-level composition code from Infrastructure
// and domain systems.
type Runtime struct {
	Orienter         Orienter
	Analyzer         Analyzer
	Extractor        Extractor
	Storage          storage.System
	Publisher        notify.Publisher
	Logger           *slog.Logger
	MarksPerQuestion int
}

type orientSystem struct {
	rt *orient.Runtime
}

// NewOrienter adapts an orientation pipeline runtime to the Orienter interface.
func NewOrienter(rt *orient.Runtime) Orienter {
	return &orientSystem{rt: rt}
}

func (o *orientSystem) Orient(ctx context.Context, key string, skipRotation bool) (string, error) {
	return orient.Execute(ctx, o.rt, key, skipRotation)
}

type storeExtractor struct {
	store storage.System
}

// NewExtractor creates an Extractor that reads analysis results from object storage.
func NewExtractor(store storage.System) Extractor {
	return &storeExtractor{store: store}
}

func (e *storeExtractor) Extract(ctx context.Context, outputPrefix string) (*marking.Extract, error) {
	return marking.FetchExtract(ctx, e.store, outputPrefix)
}

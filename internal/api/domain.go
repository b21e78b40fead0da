package api

import (
	"fmt"

	"github.com/scriptmark-labs/scriptmark/internal/analysis"
	"github.com/scriptmark-labs/scriptmark/internal/config"
	"github.com/scriptmark-labs/scriptmark/internal/executions"
	"github.com/scriptmark-labs/scriptmark/internal/notify"
	"github.com/scriptmark-labs/scriptmark/internal/orient"
	"github.com/scriptmark-labs/scriptmark/internal/render"
	"github.com/scriptmark-labs/scriptmark/internal/workflow"
)

// Domain holds all domain systems that comprise the API.
type Domain struct {
	Executions executions.System
}

// NewDomain creates all domain systems from the API runtime.
func NewDomain(runtime *Runtime) (*Domain, error) {
	cfg := runtime.Config
	renderer := render.NewMagick()

	detector, err := orient.NewDetector(cfg.Orientation.Agent)
	if err != nil {
		return nil, fmt.Errorf("orientation detector: %w", err)
	}

	orientRuntime := &orient.Runtime{
		Storage:     runtime.Storage,
		Renderer:    renderer,
		Detector:    detector,
		Assembler:   orient.NewAssembler(),
		SettleDelay: cfg.Orientation.SettleDelayDuration(),
		Logger:      runtime.Logger,
	}

	runner := analysis.NewRunner(
		analysisClient(cfg, runtime, renderer),
		cfg.Analysis.Features,
		cfg.Analysis.PollIntervalDuration(),
		cfg.Analysis.TimeoutDuration(),
		runtime.Logger,
	)

	workflowRuntime := &workflow.Runtime{
		Orienter:         workflow.NewOrienter(orientRuntime),
		Analyzer:         runner,
		Extractor:        workflow.NewExtractor(runtime.Storage),
		Storage:          runtime.Storage,
		Publisher:        publisher(cfg, runtime),
		Logger:           runtime.Logger,
		MarksPerQuestion: cfg.Analysis.MarksPerQuestion,
	}

	executionsSystem := executions.New(
		runtime.Database.Connection(),
		runtime.Storage,
		workflowRuntime,
		runtime.Lifecycle.Context(),
		runtime.Logger,
		runtime.Pagination,
	)

	return &Domain{
		Executions: executionsSystem,
	}, nil
}

func analysisClient(cfg *config.Config, runtime *Runtime, renderer render.Renderer) analysis.Client {
	if cfg.Analysis.Provider == config.AnalysisProviderHTTP {
		return analysis.NewHTTPClient(cfg.Analysis.Endpoint, cfg.Analysis.APIKey, runtime.Logger)
	}
	return analysis.NewLocalEngine(runtime.Storage, renderer, runtime.Logger)
}

func publisher(cfg *config.Config, runtime *Runtime) notify.Publisher {
	if cfg.Notify.Enabled {
		return notify.NewWebhook(cfg.Notify.Endpoint, runtime.Logger)
	}
	return notify.NewNoop()
}

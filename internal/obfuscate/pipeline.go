// Package obfuscate orchestrates one transformation job end-to-end:
// resolve preset, apply protective wrappers, invoke the engine, persist
// the artifact.
package obfuscate

import (
	"context"
	"errors"
	"fmt"

	"code-armor/internal/domain"
	"code-armor/internal/preset"
	"code-armor/internal/storage"
	"code-armor/internal/wrap"
)

// Pipeline stages, used in error reporting.
const (
	StageRead    = "read"
	StagePreset  = "preset"
	StageWrap    = "wrap"
	StageEngine  = "engine"
	StagePersist = "persist"
)

// Request describes one job and its progress callback.
type Request struct {
	SourceFile string
	Preset     string
	Wrap       domain.WrapOptions
	OnProgress func(status string, percent int)
}

// Result references the persisted artifact. EffectivePreset records the
// preset actually used, which differs from the requested one whenever a
// password forced the strongest preset.
type Result struct {
	OutputName      string
	EffectivePreset string
}

// PipelineError is a stage-aware job failure.
type PipelineError struct {
	Stage   string
	Message string
	Err     error
}

// Error formats pipeline failures for events and logs.
func (e *PipelineError) Error() string {
	if e == nil {
		return ""
	}
	return fmt.Sprintf("%s: %s", e.Stage, e.Message)
}

// Unwrap exposes the underlying error for errors.Is / errors.As.
func (e *PipelineError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// IsNotFound reports whether a job failed because the referenced upload
// was missing.
func IsNotFound(err error) bool {
	return errors.Is(err, storage.ErrNotFound)
}

// Pipeline wires the preset registry, wrapper, engine, and storage into
// one runnable unit.
type Pipeline struct {
	presets *preset.Registry
	engine  Engine
	store   *storage.Store
}

// NewPipeline constructs the job pipeline.
func NewPipeline(presets *preset.Registry, engine Engine, store *storage.Store) *Pipeline {
	return &Pipeline{presets: presets, engine: engine, store: store}
}

// Run executes one job. Progress is reported as a fixed narrative with
// strictly non-decreasing percentages ending at 100 on success; any failure
// short-circuits with a stage-aware error and no success is ever reported
// for a partially persisted artifact.
func (p *Pipeline) Run(ctx context.Context, req Request) (Result, error) {
	emit(req.OnProgress, "Reading source", 10)
	source, err := p.store.ReadUpload(req.SourceFile)
	if err != nil {
		return Result{}, &PipelineError{
			Stage:   StageRead,
			Message: fmt.Sprintf("source file not available: %s", req.SourceFile),
			Err:     err,
		}
	}

	emit(req.OnProgress, "Resolving preset", 25)
	cfg := p.presets.Resolve(req.Preset)
	if wrap.ForcesStrongestPreset(req.Wrap) {
		cfg = p.presets.Resolve(preset.StrongestName)
	}

	emit(req.OnProgress, "Applying protection wrappers", 45)
	wrapped, err := wrap.Wrap(source, req.Wrap)
	if err != nil {
		return Result{}, &PipelineError{
			Stage:   StageWrap,
			Message: "failed to apply protection wrappers",
			Err:     err,
		}
	}

	emit(req.OnProgress, "Obfuscating", 60)
	raw, err := p.engine.Transform(ctx, wrapped, cfg.Render())
	if err != nil {
		return Result{}, &PipelineError{
			Stage:   StageEngine,
			Message: err.Error(),
			Err:     err,
		}
	}
	code := coerceCode(raw)
	if code == "" {
		return Result{}, &PipelineError{
			Stage:   StageEngine,
			Message: "engine returned an empty result",
		}
	}

	emit(req.OnProgress, "Writing artifact", 90)
	name, err := p.store.WriteArtifact(code)
	if err != nil {
		return Result{}, &PipelineError{
			Stage:   StagePersist,
			Message: "failed to persist artifact",
			Err:     err,
		}
	}

	emit(req.OnProgress, "Done", 100)
	return Result{OutputName: name, EffectivePreset: cfg.Preset}, nil
}

// emit forwards progress updates when a callback is configured.
func emit(cb func(status string, percent int), status string, percent int) {
	if cb != nil {
		cb(status, percent)
	}
}

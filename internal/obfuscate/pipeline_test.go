package obfuscate

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"code-armor/internal/domain"
	"code-armor/internal/preset"
	"code-armor/internal/storage"
)

// engineFunc adapts a function to the Engine interface.
type engineFunc func(ctx context.Context, source string, options map[string]any) (any, error)

// Transform delegates to the wrapped function.
func (f engineFunc) Transform(ctx context.Context, source string, options map[string]any) (any, error) {
	return f(ctx, source, options)
}

// newTestPipeline builds a pipeline over temp storage with the given engine.
func newTestPipeline(t *testing.T, engine Engine) (*Pipeline, *storage.Store) {
	t.Helper()
	root := t.TempDir()
	store := storage.New(filepath.Join(root, "uploads"), filepath.Join(root, "output"))
	if err := store.EnsureDirs(); err != nil {
		t.Fatalf("EnsureDirs() error = %v", err)
	}
	return NewPipeline(preset.NewRegistry(), engine, store), store
}

// uploadFixture places one upload and returns its name.
func uploadFixture(t *testing.T, store *storage.Store, content string) string {
	t.Helper()
	name, err := store.SaveUpload("a.js", strings.NewReader(content))
	if err != nil {
		t.Fatalf("SaveUpload() error = %v", err)
	}
	return name
}

// TestRunSuccessEmitsOrderedProgress checks the happy path narrative and
// artifact persistence.
func TestRunSuccessEmitsOrderedProgress(t *testing.T) {
	engine := engineFunc(func(ctx context.Context, source string, options map[string]any) (any, error) {
		return "OBFUSCATED:" + source, nil
	})
	pipeline, store := newTestPipeline(t, engine)
	upload := uploadFixture(t, store, "console.log('hi');")

	var percents []int
	result, err := pipeline.Run(context.Background(), Request{
		SourceFile: upload,
		Preset:     "balanced",
		OnProgress: func(status string, percent int) {
			if status == "" {
				t.Error("empty progress status")
			}
			percents = append(percents, percent)
		},
	})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if len(percents) == 0 || percents[len(percents)-1] != 100 {
		t.Fatalf("progress = %v, want terminal 100", percents)
	}
	for i := 1; i < len(percents); i++ {
		if percents[i] < percents[i-1] {
			t.Fatalf("progress not monotonic: %v", percents)
		}
	}

	if result.EffectivePreset != "balanced" {
		t.Fatalf("effective preset = %q, want balanced", result.EffectivePreset)
	}
	path, err := store.ArtifactPath(result.OutputName)
	if err != nil {
		t.Fatalf("artifact missing: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read artifact: %v", err)
	}
	if string(data) != "OBFUSCATED:console.log('hi');" {
		t.Fatalf("artifact content = %q", data)
	}
}

// TestRunMissingUploadFailsWithNotFound checks the not-found short-circuit.
func TestRunMissingUploadFailsWithNotFound(t *testing.T) {
	called := false
	engine := engineFunc(func(ctx context.Context, source string, options map[string]any) (any, error) {
		called = true
		return source, nil
	})
	pipeline, store := newTestPipeline(t, engine)

	var last int
	_, err := pipeline.Run(context.Background(), Request{
		SourceFile: "missing.js",
		OnProgress: func(status string, percent int) { last = percent },
	})
	if err == nil {
		t.Fatal("expected error")
	}
	if !IsNotFound(err) {
		t.Fatalf("IsNotFound(%v) = false", err)
	}
	var pErr *PipelineError
	if !errors.As(err, &pErr) || pErr.Stage != StageRead {
		t.Fatalf("stage = %v, want %s", err, StageRead)
	}
	if called {
		t.Fatal("engine must not run for a missing upload")
	}
	if last == 100 {
		t.Fatal("failed job must not reach 100")
	}

	entries, readErr := os.ReadDir(store.OutputDir())
	if readErr != nil {
		t.Fatalf("read output dir: %v", readErr)
	}
	if len(entries) != 0 {
		t.Fatalf("no artifact should exist, found %d", len(entries))
	}
}

// TestRunPasswordForcesStrongestPreset checks the silent override policy
// and that it is surfaced through the result.
func TestRunPasswordForcesStrongestPreset(t *testing.T) {
	var seen map[string]any
	engine := engineFunc(func(ctx context.Context, source string, options map[string]any) (any, error) {
		seen = options
		return source, nil
	})
	pipeline, store := newTestPipeline(t, engine)
	upload := uploadFixture(t, store, "run();")

	result, err := pipeline.Run(context.Background(), Request{
		SourceFile: upload,
		Preset:     "default",
		Wrap:       domain.WrapOptions{Password: "x"},
	})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if result.EffectivePreset != preset.StrongestName {
		t.Fatalf("effective preset = %q, want %q", result.EffectivePreset, preset.StrongestName)
	}
	if seen["selfDefending"] != true {
		t.Fatal("engine config should be the self-defending strongest preset")
	}
	if seen["stringArrayThreshold"] != 1.0 {
		t.Fatalf("stringArrayThreshold = %v, want 1.0", seen["stringArrayThreshold"])
	}
}

// TestRunWrapsSourceBeforeEngine checks the wrapper stage feeds the engine.
func TestRunWrapsSourceBeforeEngine(t *testing.T) {
	var engineInput string
	engine := engineFunc(func(ctx context.Context, source string, options map[string]any) (any, error) {
		engineInput = source
		return source, nil
	})
	pipeline, store := newTestPipeline(t, engine)
	upload := uploadFixture(t, store, "payload();")

	_, err := pipeline.Run(context.Background(), Request{
		SourceFile: upload,
		Wrap:       domain.WrapOptions{AntiTamper: true},
	})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if !strings.HasSuffix(engineInput, "payload();") {
		t.Fatal("wrapped source should end with the original payload")
	}
	if !strings.Contains(engineInput, "axios.interceptors.request") {
		t.Fatal("anti-tamper prologue missing from engine input")
	}
}

// TestRunEngineFailureShortCircuits checks engine errors become terminal.
func TestRunEngineFailureShortCircuits(t *testing.T) {
	engine := engineFunc(func(ctx context.Context, source string, options map[string]any) (any, error) {
		return nil, errors.New("parse error at line 3")
	})
	pipeline, store := newTestPipeline(t, engine)
	upload := uploadFixture(t, store, "broken(")

	_, err := pipeline.Run(context.Background(), Request{SourceFile: upload})
	if err == nil {
		t.Fatal("expected error")
	}
	var pErr *PipelineError
	if !errors.As(err, &pErr) || pErr.Stage != StageEngine {
		t.Fatalf("error = %v, want engine stage", err)
	}
	if !strings.Contains(pErr.Message, "parse error") {
		t.Fatalf("message = %q, want engine message carried through", pErr.Message)
	}
}

// TestRunAcceptsStructuredEngineResult checks the {code} result shape.
func TestRunAcceptsStructuredEngineResult(t *testing.T) {
	engine := engineFunc(func(ctx context.Context, source string, options map[string]any) (any, error) {
		return map[string]any{"code": "structured result"}, nil
	})
	pipeline, store := newTestPipeline(t, engine)
	upload := uploadFixture(t, store, "x();")

	result, err := pipeline.Run(context.Background(), Request{SourceFile: upload})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	path, err := store.ArtifactPath(result.OutputName)
	if err != nil {
		t.Fatalf("artifact missing: %v", err)
	}
	data, _ := os.ReadFile(path)
	if string(data) != "structured result" {
		t.Fatalf("artifact content = %q", data)
	}
}

// TestRunFreshConfigPerJob checks generator-valued options are not shared
// across jobs.
func TestRunFreshConfigPerJob(t *testing.T) {
	var dicts [][]string
	engine := engineFunc(func(ctx context.Context, source string, options map[string]any) (any, error) {
		if dict, ok := options["identifiersDictionary"].([]string); ok {
			dicts = append(dicts, dict)
		}
		return source, nil
	})
	pipeline, store := newTestPipeline(t, engine)
	upload := uploadFixture(t, store, "y();")

	for i := 0; i < 2; i++ {
		if _, err := pipeline.Run(context.Background(), Request{SourceFile: upload, Preset: "katakana"}); err != nil {
			t.Fatalf("Run() error = %v", err)
		}
	}
	if len(dicts) != 2 {
		t.Fatalf("dictionary configs = %d, want 2", len(dicts))
	}
	same := len(dicts[0]) == len(dicts[1])
	if same {
		identical := true
		for i := range dicts[0] {
			if dicts[0][i] != dicts[1][i] {
				identical = false
				break
			}
		}
		if identical {
			t.Fatal("two jobs received the same rendered dictionary")
		}
	}
}

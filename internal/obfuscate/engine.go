package obfuscate

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
)

// Engine is the external transformation boundary: source plus a rendered
// option set in, transformed source out. Implementations may return a plain
// string, a structured result exposing a code field, or anything else the
// pipeline can coerce; see coerceCode.
type Engine interface {
	Transform(ctx context.Context, source string, options map[string]any) (any, error)
}

// commandResult is an internal process execution response.
type commandResult struct {
	Stdout   string
	Stderr   string
	ExitCode int
}

// commandRunner abstracts process execution for testability.
type commandRunner interface {
	Run(ctx context.Context, name string, args ...string) (commandResult, error)
}

// execRunner executes commands via os/exec.
type execRunner struct{}

// Run executes one command and captures stdout/stderr and exit code.
func (r *execRunner) Run(ctx context.Context, name string, args ...string) (commandResult, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	var stdout bytes.Buffer
	var stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	result := commandResult{
		Stdout:   stdout.String(),
		Stderr:   stderr.String(),
		ExitCode: 0,
	}
	if err != nil {
		result.ExitCode = -1
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			result.ExitCode = exitErr.ExitCode()
		}
		return result, err
	}

	return result, nil
}

// CLIEngine shells out to the javascript-obfuscator CLI. Each invocation
// gets a private temp workspace holding the input source, the rendered
// option file, and the engine's output.
type CLIEngine struct {
	bin       string
	runner    commandRunner
	mkdirTemp func(dir, pattern string) (string, error)
	removeAll func(path string) error
	writeFile func(name string, data []byte, perm os.FileMode) error
	readFile  func(name string) ([]byte, error)
}

// NewCLIEngine constructs the production engine for the given binary.
func NewCLIEngine(bin string) *CLIEngine {
	return &CLIEngine{
		bin:       bin,
		runner:    &execRunner{},
		mkdirTemp: os.MkdirTemp,
		removeAll: os.RemoveAll,
		writeFile: os.WriteFile,
		readFile:  os.ReadFile,
	}
}

// Transform writes source and options to disk, runs the CLI, and returns
// the transformed source as a string.
func (e *CLIEngine) Transform(ctx context.Context, source string, options map[string]any) (any, error) {
	workDir, err := e.mkdirTemp("", "code-armor-*")
	if err != nil {
		return nil, fmt.Errorf("create engine workspace: %w", err)
	}
	defer func() { _ = e.removeAll(workDir) }()

	inPath := filepath.Join(workDir, "input.js")
	cfgPath := filepath.Join(workDir, "options.json")
	outPath := filepath.Join(workDir, "output.js")

	if err := e.writeFile(inPath, []byte(source), 0o600); err != nil {
		return nil, fmt.Errorf("stage engine input: %w", err)
	}
	cfgData, err := json.Marshal(options)
	if err != nil {
		return nil, fmt.Errorf("encode engine options: %w", err)
	}
	if err := e.writeFile(cfgPath, cfgData, 0o600); err != nil {
		return nil, fmt.Errorf("stage engine options: %w", err)
	}

	args := []string{inPath, "--config", cfgPath, "--output", outPath}
	result, runErr := e.runner.Run(ctx, e.bin, args...)
	if runErr != nil {
		msg := firstLine(result.Stderr)
		if msg == "" {
			msg = runErr.Error()
		}
		return nil, fmt.Errorf("engine exited with code %d: %s", result.ExitCode, msg)
	}

	out, err := e.readFile(outPath)
	if err != nil {
		return nil, fmt.Errorf("engine produced no output: %w", err)
	}
	return string(out), nil
}

// NewCLIEngineForTests constructs an engine with injectable dependencies.
func NewCLIEngineForTests(
	bin string,
	runner commandRunner,
	mkdirTemp func(dir, pattern string) (string, error),
	removeAll func(path string) error,
	writeFile func(name string, data []byte, perm os.FileMode) error,
	readFile func(name string) ([]byte, error),
) *CLIEngine {
	return &CLIEngine{
		bin:       bin,
		runner:    runner,
		mkdirTemp: mkdirTemp,
		removeAll: removeAll,
		writeFile: writeFile,
		readFile:  readFile,
	}
}

// firstLine trims command output to its first non-empty line.
func firstLine(s string) string {
	for _, line := range bytes.Split([]byte(s), []byte("\n")) {
		if len(bytes.TrimSpace(line)) > 0 {
			return string(bytes.TrimSpace(line))
		}
	}
	return ""
}

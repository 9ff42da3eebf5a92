// Package diagnostics validates the external tools and directories the
// service depends on. Checks only report; installing a missing engine is an
// operator concern.
package diagnostics

import (
	"fmt"
	"os"
	"os/exec"
	"time"

	"code-armor/internal/domain"
)

// Checker validates the engine toolchain and required filesystem paths.
type Checker struct {
	lookPath   func(string) (string, error)
	mkdirAll   func(string, os.FileMode) error
	createTemp func(string, string) (*os.File, error)
	remove     func(string) error
}

// NewChecker builds a checker using real OS dependencies.
func NewChecker() *Checker {
	return &Checker{
		lookPath:   exec.LookPath,
		mkdirAll:   os.MkdirAll,
		createTemp: os.CreateTemp,
		remove:     os.Remove,
	}
}

// Run executes all startup checks and returns a combined report.
func (c *Checker) Run(engineBin, uploadDir, outputDir string) domain.CheckReport {
	checks := []domain.CheckResult{
		c.checkTool("engine", engineBin, "Install the obfuscation engine CLI and ensure it is on PATH."),
		c.checkTool("node", "node", "Install Node.js; password-gated and anti-tamper output targets the node runtime."),
		c.checkWritableDir("upload_dir", "Upload directory", uploadDir),
		c.checkWritableDir("output_dir", "Output directory", outputDir),
	}

	hasFailures := false
	for _, check := range checks {
		if check.Status == domain.CheckStatusFail {
			hasFailures = true
			break
		}
	}

	return domain.CheckReport{
		CheckedAt:   time.Now().UTC(),
		HasFailures: hasFailures,
		Checks:      checks,
	}
}

// checkTool verifies a required CLI executable is on PATH.
func (c *Checker) checkTool(id, name, hint string) domain.CheckResult {
	path, err := c.lookPath(name)
	if err != nil {
		return domain.CheckResult{
			ID:      "tool_" + id,
			Name:    name,
			Status:  domain.CheckStatusFail,
			Message: fmt.Sprintf("Tool not found in PATH: %s", name),
			Hint:    hint,
		}
	}

	return domain.CheckResult{
		ID:      "tool_" + id,
		Name:    name,
		Status:  domain.CheckStatusPass,
		Message: fmt.Sprintf("Found at %s", path),
	}
}

// checkWritableDir validates directory existence and write access.
func (c *Checker) checkWritableDir(id, label, dir string) domain.CheckResult {
	result := domain.CheckResult{
		ID:   id,
		Name: label,
	}

	if dir == "" {
		result.Status = domain.CheckStatusFail
		result.Message = label + " is not configured."
		return result
	}

	if err := c.mkdirAll(dir, 0o755); err != nil {
		result.Status = domain.CheckStatusFail
		result.Message = fmt.Sprintf("Cannot create directory: %s", dir)
		result.Hint = "Choose a writable location or adjust filesystem permissions."
		return result
	}

	tmpFile, err := c.createTemp(dir, ".write-check-*")
	if err != nil {
		result.Status = domain.CheckStatusFail
		result.Message = fmt.Sprintf("Directory is not writable: %s", dir)
		result.Hint = "Choose a writable location or adjust filesystem permissions."
		return result
	}

	tmpPath := tmpFile.Name()
	_ = tmpFile.Close()
	_ = c.remove(tmpPath)

	result.Status = domain.CheckStatusPass
	result.Message = fmt.Sprintf("Writable directory: %s", dir)
	return result
}

// NewCheckerForTests creates a checker with injectable dependencies.
func NewCheckerForTests(
	lookPath func(string) (string, error),
	mkdirAll func(string, os.FileMode) error,
	createTemp func(string, string) (*os.File, error),
	remove func(string) error,
) *Checker {
	return &Checker{
		lookPath:   lookPath,
		mkdirAll:   mkdirAll,
		createTemp: createTemp,
		remove:     remove,
	}
}

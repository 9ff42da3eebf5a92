package domain

import "time"

// JobStatus tracks each pipeline stage for a single obfuscation job.
type JobStatus string

const (
	JobStatusPending     JobStatus = "pending"
	JobStatusReading     JobStatus = "reading"
	JobStatusWrapping    JobStatus = "wrapping"
	JobStatusObfuscating JobStatus = "obfuscating"
	JobStatusWriting     JobStatus = "writing"
	JobStatusDone        JobStatus = "done"
	JobStatusFailed      JobStatus = "failed"
)

// WrapOptions selects the protective layers applied before the engine runs.
// An empty Password means no gate.
type WrapOptions struct {
	AntiTamper bool
	Password   string
}

// Job is one client-initiated obfuscation request and its lifecycle state.
// EffectivePreset differs from Preset when a password forces the strongest
// preset.
type Job struct {
	ID              string    `json:"id"`
	SourceFile      string    `json:"sourceFile"`
	Preset          string    `json:"preset"`
	EffectivePreset string    `json:"effectivePreset"`
	Status          JobStatus `json:"status"`
	OutputName      string    `json:"outputName,omitempty"`
	StartedAt       time.Time `json:"startedAt"`
}

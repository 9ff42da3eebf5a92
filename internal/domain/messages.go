package domain

// MessageType classifies session channel frames in both directions.
type MessageType string

const (
	MessageTypeStart    MessageType = "start"
	MessageTypeProgress MessageType = "progress"
	MessageTypeDone     MessageType = "done"
	MessageTypeError    MessageType = "error"
)

// StartRequest is the inbound frame that launches one job.
// File is required; Preset is optional and case-insensitive.
type StartRequest struct {
	Type       MessageType `json:"type"`
	File       string      `json:"file"`
	Preset     string      `json:"preset,omitempty"`
	Password   string      `json:"password,omitempty"`
	AntiBypass bool        `json:"antibypass,omitempty"`
}

// ProgressMessage reports one step of the job narrative.
// Percent is non-decreasing within a job and ends at 100 on success.
type ProgressMessage struct {
	Type    MessageType `json:"type"`
	JobID   string      `json:"jobId"`
	Status  string      `json:"status"`
	Percent int         `json:"percent"`
}

// DoneMessage is the terminal success frame. Preset carries the effective
// preset actually used, which surfaces the password-forced override.
type DoneMessage struct {
	Type     MessageType `json:"type"`
	JobID    string      `json:"jobId"`
	Filename string      `json:"filename"`
	Download string      `json:"download"`
	Preset   string      `json:"preset"`
}

// ErrorMessage is the terminal failure frame for one job.
type ErrorMessage struct {
	Type    MessageType `json:"type"`
	JobID   string      `json:"jobId,omitempty"`
	Message string      `json:"message"`
}

package server

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"

	"code-armor/internal/domain"
	"code-armor/internal/jobs"
	"code-armor/internal/logging"
	"code-armor/internal/obfuscate"
	"code-armor/internal/stats"
)

// upgrader accepts any origin: the session protocol carries no credentials
// and artifacts are world-fetchable by name anyway.
var upgrader = websocket.Upgrader{
	ReadBufferSize:  4096,
	WriteBufferSize: 4096,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// handleSession upgrades the connection and serves the duplex job channel.
// Inbound frames are start requests; every job's events flow back to this
// connection only, in emission order, until the client disconnects.
func (s *Server) handleSession(c echo.Context) error {
	conn, err := upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		return err
	}

	outbox := jobs.NewOutbox(256)
	go writeFrames(conn, outbox)

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			// Client gone: stop accepting frames. Running jobs continue
			// and their remaining events are discarded by the outbox.
			outbox.Close()
			return nil
		}

		var req domain.StartRequest
		if err := json.Unmarshal(data, &req); err != nil {
			outbox.Push(domain.ErrorMessage{
				Type:    domain.MessageTypeError,
				Message: "malformed message: expected a JSON start request",
			})
			continue
		}
		if req.Type != domain.MessageTypeStart {
			outbox.Push(domain.ErrorMessage{
				Type:    domain.MessageTypeError,
				Message: "unsupported message type: " + string(req.Type),
			})
			continue
		}
		if req.File == "" {
			outbox.Push(domain.ErrorMessage{
				Type:    domain.MessageTypeError,
				Message: "field 'file' is required",
			})
			continue
		}

		s.startJob(outbox, req)
	}
}

// writeFrames drains the outbox onto the connection in FIFO order, then
// closes the connection once the outbox is done.
func writeFrames(conn *websocket.Conn, outbox *jobs.Outbox) {
	defer func() { _ = conn.Close() }()
	for frame := range outbox.Frames() {
		if err := conn.WriteJSON(frame.Payload); err != nil {
			return
		}
	}
}

// startJob launches one independent job goroutine for a start request.
// There is deliberately no queueing, cap, or cancellation.
func (s *Server) startJob(outbox *jobs.Outbox, req domain.StartRequest) {
	id := jobs.NewID()
	s.tracker.Start(domain.Job{
		ID:         id,
		SourceFile: req.File,
		Preset:     req.Preset,
		Status:     domain.JobStatusPending,
	})
	stats.JobsStarted.Inc()
	stats.JobsInFlight.Inc()

	go func() {
		defer stats.JobsInFlight.Dec()

		result, err := s.pipeline.Run(context.Background(), obfuscate.Request{
			SourceFile: req.File,
			Preset:     req.Preset,
			Wrap: domain.WrapOptions{
				AntiTamper: req.AntiBypass,
				Password:   req.Password,
			},
			OnProgress: func(status string, percent int) {
				_ = s.tracker.Transition(id, stageStatus(percent))
				outbox.Push(domain.ProgressMessage{
					Type:    domain.MessageTypeProgress,
					JobID:   id,
					Status:  status,
					Percent: percent,
				})
			},
		})
		if err != nil {
			stats.JobsFailed.Inc()
			_ = s.tracker.Transition(id, domain.JobStatusFailed)
			logging.L().Warn("job failed", "job", id, "file", req.File, "error", err)
			outbox.Push(domain.ErrorMessage{
				Type:    domain.MessageTypeError,
				JobID:   id,
				Message: err.Error(),
			})
			s.tracker.Finish(id)
			return
		}

		stats.JobsCompleted.Inc()
		s.tracker.SetOutput(id, result.OutputName, result.EffectivePreset)
		_ = s.tracker.Transition(id, domain.JobStatusDone)
		logging.L().Info("job done", "job", id, "artifact", result.OutputName, "preset", result.EffectivePreset)
		outbox.Push(domain.DoneMessage{
			Type:     domain.MessageTypeDone,
			JobID:    id,
			Filename: result.OutputName,
			Download: "/download/" + result.OutputName,
			Preset:   result.EffectivePreset,
		})
		s.tracker.Finish(id)
	}()
}

// stageStatus maps pipeline progress percentages onto job statuses.
func stageStatus(percent int) domain.JobStatus {
	switch {
	case percent < 45:
		return domain.JobStatusReading
	case percent < 60:
		return domain.JobStatusWrapping
	case percent < 90:
		return domain.JobStatusObfuscating
	default:
		return domain.JobStatusWriting
	}
}

// Package server exposes the HTTP surface: static client page, upload and
// download endpoints, catalog and status endpoints, and the websocket
// session channel driving the obfuscation pipeline.
package server

import (
	"errors"
	"io/fs"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"code-armor/internal/config"
	"code-armor/internal/diagnostics"
	"code-armor/internal/jobs"
	"code-armor/internal/logging"
	"code-armor/internal/obfuscate"
	"code-armor/internal/preset"
	"code-armor/internal/stats"
	"code-armor/internal/storage"
)

// Server wires the pipeline and its collaborators behind an echo instance.
type Server struct {
	cfg       config.Config
	echo      *echo.Echo
	pipeline  *obfuscate.Pipeline
	presets   *preset.Registry
	store     *storage.Store
	tracker   *jobs.Tracker
	collector *stats.Collector
	checker   *diagnostics.Checker
}

// New builds the server and registers all routes. assets holds the
// embedded client page; nil disables the static route.
func New(
	cfg config.Config,
	pipeline *obfuscate.Pipeline,
	presets *preset.Registry,
	store *storage.Store,
	tracker *jobs.Tracker,
	collector *stats.Collector,
	checker *diagnostics.Checker,
	assets fs.FS,
) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(middleware.Recover())
	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogStatus: true,
		LogMethod: true,
		LogURI:    true,
		LogError:  true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			if v.Error != nil {
				logging.L().Warn("request", "method", v.Method, "uri", v.URI, "status", v.Status, "error", v.Error)
				return nil
			}
			logging.L().Debug("request", "method", v.Method, "uri", v.URI, "status", v.Status)
			return nil
		},
	}))

	s := &Server{
		cfg:       cfg,
		echo:      e,
		pipeline:  pipeline,
		presets:   presets,
		store:     store,
		tracker:   tracker,
		collector: collector,
		checker:   checker,
	}

	if assets != nil {
		e.FileFS("/", "web/index.html", assets)
	}
	e.POST("/upload", s.handleUpload)
	e.GET("/download/:name", s.handleDownload)
	e.GET("/presets", s.handlePresets)
	e.GET("/jobs", s.handleJobs)
	e.GET("/stats", s.handleStats)
	e.GET("/diagnostics", s.handleDiagnostics)
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
	e.GET("/ws", s.handleSession)

	return s
}

// Start listens on the configured address until the server is shut down.
func (s *Server) Start() error {
	logging.L().Info("listening", "addr", s.cfg.Addr())
	return s.echo.Start(s.cfg.Addr())
}

// handleUpload accepts one multipart source file and stores it under a
// sanitized unique name.
func (s *Server) handleUpload(c echo.Context) error {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "multipart field 'file' is required"})
	}

	src, err := fileHeader.Open()
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "cannot read uploaded file"})
	}
	defer func() { _ = src.Close() }()

	name, err := s.store.SaveUpload(fileHeader.Filename, src)
	if err != nil {
		logging.L().Error("store upload", "error", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "failed to store upload"})
	}

	return c.JSON(http.StatusOK, map[string]string{"file": name})
}

// handleDownload serves one persisted artifact by name.
func (s *Server) handleDownload(c echo.Context) error {
	name := c.Param("name")
	path, err := s.store.ArtifactPath(name)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) || errors.Is(err, storage.ErrBadName) {
			return c.JSON(http.StatusNotFound, map[string]string{"error": "no such artifact"})
		}
		logging.L().Error("resolve artifact", "name", name, "error", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "failed to resolve artifact"})
	}
	return c.Attachment(path, name)
}

// handlePresets returns the preset catalog.
func (s *Server) handlePresets(c echo.Context) error {
	return c.JSON(http.StatusOK, s.presets.Names())
}

// handleJobs returns snapshots of all in-flight jobs.
func (s *Server) handleJobs(c echo.Context) error {
	return c.JSON(http.StatusOK, s.tracker.Snapshot())
}

// handleStats returns host metrics; the disk probe degrades to an absent
// field on failure.
func (s *Server) handleStats(c echo.Context) error {
	return c.JSON(http.StatusOK, s.collector.Snapshot())
}

// handleDiagnostics re-runs startup checks on demand.
func (s *Server) handleDiagnostics(c echo.Context) error {
	report := s.checker.Run(s.cfg.EngineBin, s.cfg.UploadDir, s.cfg.OutputDir)
	return c.JSON(http.StatusOK, report)
}

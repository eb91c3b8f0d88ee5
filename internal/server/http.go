package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/skypro1111/audio-cast-service/internal/config"
	"github.com/skypro1111/audio-cast-service/internal/library"
	"github.com/skypro1111/audio-cast-service/internal/metrics"
	"github.com/skypro1111/audio-cast-service/internal/notify"
	"github.com/skypro1111/audio-cast-service/internal/playback"
	"github.com/skypro1111/audio-cast-service/internal/publish"
)

const (
	serviceName    = "audio-cast-service"
	serviceVersion = "1.0.0"
)

// HTTPServer provides the HTTP control surface, observer WebSocket endpoint
// and monitoring endpoints
type HTTPServer struct {
	server   *http.Server
	logger   *slog.Logger
	manager  *playback.Manager
	library  *library.Library
	notifier *notify.Notifier
	metrics  *metrics.Metrics

	startTime time.Time
}

// NewHTTPServer creates the control API server
func NewHTTPServer(cfg config.HTTPConfig, logger *slog.Logger, manager *playback.Manager,
	lib *library.Library, notifier *notify.Notifier, m *metrics.Metrics) *HTTPServer {

	h := &HTTPServer{
		logger:    logger,
		manager:   manager,
		library:   lib,
		notifier:  notifier,
		metrics:   m,
		startTime: time.Now(),
	}

	mux := http.NewServeMux()
	h.setupRoutes(mux)

	h.server = &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Address, cfg.Port),
		Handler:      mux,
		ReadTimeout:  10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return h
}

// setupRoutes configures the control API routes
func (h *HTTPServer) setupRoutes(mux *http.ServeMux) {
	// Playback control
	mux.HandleFunc("/api/start", h.withMetrics("/api/start", h.handleStart))
	mux.HandleFunc("/api/stop", h.withMetrics("/api/stop", h.handleStop))
	mux.HandleFunc("/api/status", h.withMetrics("/api/status", h.handleStatus))

	// Sample library
	mux.HandleFunc("/api/files", h.withMetrics("/api/files", h.handleFiles))

	// Observer WebSocket endpoint
	mux.HandleFunc("/ws", h.handleWS)

	// Monitoring
	mux.HandleFunc("/health", h.withMetrics("/health", h.handleHealth))
	mux.Handle("/metrics", promhttp.Handler())

	// Root endpoint with API documentation
	mux.HandleFunc("/", h.withMetrics("/", h.handleRoot))
}

// withMetrics wraps an HTTP handler with metrics collection
func (h *HTTPServer) withMetrics(endpoint string, handler http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		startTime := time.Now()

		ww := &responseWriter{ResponseWriter: w, statusCode: 200}
		handler(ww, r)

		duration := time.Since(startTime).Seconds()
		statusCode := fmt.Sprintf("%d", ww.statusCode)

		h.metrics.RecordHTTPRequest(r.Method, endpoint, statusCode, duration)

		if ww.statusCode >= 400 {
			errorType := "client_error"
			if ww.statusCode >= 500 {
				errorType = "server_error"
			}
			h.metrics.RecordHTTPError(r.Method, endpoint, errorType)
		}
	}
}

// responseWriter wraps http.ResponseWriter to capture status code
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// Start starts the HTTP server
func (h *HTTPServer) Start() error {
	h.logger.Info("Starting HTTP control server",
		slog.String("address", h.server.Addr),
	)

	go func() {
		if err := h.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			h.logger.Error("HTTP server error", slog.String("error", err.Error()))
		}
	}()

	return nil
}

// Stop gracefully stops the HTTP server
func (h *HTTPServer) Stop(ctx context.Context) error {
	h.logger.Info("Stopping HTTP control server...")

	return h.server.Shutdown(ctx)
}

// startRequest is the control payload for /api/start
type startRequest struct {
	File string `json:"file"`
}

// acceptedResponse acknowledges an accepted control command
type acceptedResponse struct {
	Accepted bool `json:"accepted"`
}

// errorResponse carries the error taxonomy code and a message
type errorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// statusResponse is the /api/status payload
type statusResponse struct {
	Playing     bool    `json:"playing"`
	CurrentFile *string `json:"currentFile"`
	BytesSent   uint64  `json:"bytesSent"`
}

// handleStart implements the start command: select a sample source and
// begin streaming it
func (h *HTTPServer) handleStart(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req startRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.File == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{
			Error:   "bad_request",
			Message: "request body must be {\"file\": \"<name>\"}",
		})
		return
	}

	if err := h.manager.Start(r.Context(), req.File); err != nil {
		h.writeStartError(w, r, req.File, err)
		return
	}

	writeJSON(w, http.StatusOK, acceptedResponse{Accepted: true})
}

// writeStartError maps the playback error taxonomy onto HTTP status codes
func (h *HTTPServer) writeStartError(w http.ResponseWriter, r *http.Request, file string, err error) {
	h.logger.Warn("Start command failed",
		slog.String("file", file),
		slog.String("error", err.Error()),
	)

	var decodeErr *playback.DecodeError
	var transportErr *publish.TransportError

	switch {
	case errors.Is(err, playback.ErrNotFound):
		writeJSON(w, http.StatusNotFound, errorResponse{
			Error:   "not_found",
			Message: err.Error(),
		})
	case errors.As(err, &decodeErr):
		writeJSON(w, http.StatusUnprocessableEntity, errorResponse{
			Error:   "decode_error",
			Message: err.Error(),
		})
	case errors.As(err, &transportErr):
		writeJSON(w, http.StatusBadGateway, errorResponse{
			Error:   "transport_error",
			Message: err.Error(),
		})
	default:
		writeJSON(w, http.StatusInternalServerError, errorResponse{
			Error:   "internal_error",
			Message: err.Error(),
		})
	}
}

// handleStop implements the stop command; always succeeds
func (h *HTTPServer) handleStop(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	h.manager.Stop()
	writeJSON(w, http.StatusOK, acceptedResponse{Accepted: true})
}

// handleStatus implements the status query
func (h *HTTPServer) handleStatus(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	st := h.manager.Status()

	resp := statusResponse{
		Playing:   st.Playing,
		BytesSent: st.BytesSent,
	}
	if st.Playing {
		resp.CurrentFile = &st.CurrentFile
	}

	writeJSON(w, http.StatusOK, resp)
}

// handleFiles lists the sample library
func (h *HTTPServer) handleFiles(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	files, err := h.library.List()
	if err != nil {
		h.logger.Error("Failed to list library", slog.String("error", err.Error()))
		writeJSON(w, http.StatusInternalServerError, errorResponse{
			Error:   "internal_error",
			Message: "failed to list sample library",
		})
		return
	}

	h.metrics.SetLibraryFiles(len(files))

	writeJSON(w, http.StatusOK, map[string]any{
		"files": files,
		"count": len(files),
	})
}

// handleHealth implements the /health endpoint
func (h *HTTPServer) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	st := h.manager.Status()

	health := map[string]any{
		"status":    "healthy",
		"timestamp": time.Now().UTC(),
		"uptime":    time.Since(h.startTime).String(),
		"service": map[string]any{
			"name":    serviceName,
			"version": serviceVersion,
		},
		"components": map[string]any{
			"playback": map[string]any{
				"state":      st.State.String(),
				"bytes_sent": st.BytesSent,
			},
			"notifier": map[string]any{
				"observers": h.notifier.ObserverCount(),
			},
			"library": map[string]any{
				"files": h.library.Count(),
			},
		},
	}

	writeJSON(w, http.StatusOK, health)
}

// handleRoot implements the / endpoint with API documentation
func (h *HTTPServer) handleRoot(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}

	apiDoc := map[string]any{
		"service": serviceName,
		"version": serviceVersion,
		"endpoints": map[string]any{
			"GET /":            "API documentation",
			"POST /api/start":  "Start streaming a sample source ({\"file\": \"<name>\"})",
			"POST /api/stop":   "Stop the active playback session",
			"GET /api/status":  "Current playback status",
			"GET /api/files":   "List sample library contents",
			"GET /ws":          "Observer WebSocket (status events)",
			"GET /health":      "Service health check",
			"GET /metrics":     "Prometheus metrics",
		},
		"timestamp": time.Now().UTC(),
	}

	writeJSON(w, http.StatusOK, apiDoc)
}

// writeJSON writes a JSON response with the given status code
func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

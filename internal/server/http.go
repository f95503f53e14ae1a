package server

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/noman1228/RelayCtlr/internal/config"
	"github.com/noman1228/RelayCtlr/internal/relay"
	"github.com/noman1228/RelayCtlr/internal/watchdog"
)

// HTTPServer provides the status/config API.
type HTTPServer struct {
	server *http.Server
	logger *slog.Logger
	config *config.Config
	table  *relay.Table
	dog    *watchdog.Watchdog

	startTime time.Time
}

// NewHTTPServer creates the status API server.
func NewHTTPServer(cfg *config.Config, logger *slog.Logger, table *relay.Table, dog *watchdog.Watchdog) *HTTPServer {
	h := &HTTPServer{
		logger:    logger,
		config:    cfg,
		table:     table,
		dog:       dog,
		startTime: time.Now(),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/health", h.handleHealth)
	mux.HandleFunc("/api/config", h.handleConfig)
	mux.HandleFunc("/api/set", h.handleSet)
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/", h.handleRoot)

	h.server = &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.HTTP.Address, cfg.HTTP.Port),
		Handler:      mux,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	return h
}

// Start starts the HTTP server.
func (h *HTTPServer) Start() {
	h.logger.Info("starting HTTP status server", slog.String("address", h.server.Addr))
	go func() {
		if err := h.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			h.logger.Error("HTTP server error", slog.String("error", err.Error()))
		}
	}()
}

// Stop gracefully stops the HTTP server.
func (h *HTTPServer) Stop(ctx context.Context) error {
	h.logger.Info("stopping HTTP status server")
	return h.server.Shutdown(ctx)
}

// handleHealth implements the /health endpoint.
func (h *HTTPServer) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	status := h.dog.Check()
	health := map[string]interface{}{
		"status":    "healthy",
		"timestamp": time.Now().UTC(),
		"uptime":    time.Since(h.startTime).String(),
		"receiving": map[string]interface{}{
			"watchdog":       status.String(),
			"frames_decoded": h.dog.Counter(),
		},
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(health)
}

// relayInfo is one row of the /api/config relays array.
type relayInfo struct {
	Index int   `json:"index"`
	GPIO  uint8 `json:"gpio"`
	State bool  `json:"state"`
}

// handleConfig implements the /api/config endpoint consumed by the UI.
func (h *HTTPServer) handleConfig(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	states := h.table.Snapshot()
	relays := make([]relayInfo, 0, len(states))
	for i, on := range states {
		var gpio uint8
		if i < len(h.config.Relays.GPIOs) {
			gpio = h.config.Relays.GPIOs[i]
		}
		relays = append(relays, relayInfo{Index: i, GPIO: gpio, State: on})
	}

	payload := map[string]interface{}{
		"protocols":         "ArtNet / E1.31 / DDP",
		"channels":          h.table.Len(),
		"xlights_discovery": true,
		"universe":          h.config.DMX.Universe,
		"startChan":         h.config.DMX.StartChannel,
		"relays":            relays,
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(payload)
}

// handleSet implements manual relay control: POST relay=<n>&value=0|1.
func (h *HTTPServer) handleSet(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	idx, err := strconv.Atoi(r.PostFormValue("relay"))
	if err != nil || idx < 0 || idx >= h.table.Len() {
		http.Error(w, "Bad params", http.StatusBadRequest)
		return
	}
	value := r.PostFormValue("value")
	if value != "0" && value != "1" {
		http.Error(w, "Bad params", http.StatusBadRequest)
		return
	}

	h.table.Set(idx, value == "1")
	h.logger.Info("manual relay override",
		slog.Int("relay", idx),
		slog.String("value", value),
	)

	w.Header().Set("Content-Type", "text/plain")
	fmt.Fprint(w, "OK")
}

// handleRoot serves a short API index.
func (h *HTTPServer) handleRoot(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}

	apiDoc := map[string]interface{}{
		"service": "RelayCtlr",
		"endpoints": map[string]interface{}{
			"GET /":           "API documentation",
			"GET /health":     "Receiver health and watchdog status",
			"GET /api/config": "Device configuration and relay states",
			"POST /api/set":   "Manual relay override (relay=<n>&value=0|1)",
			"GET /metrics":    "Prometheus metrics",
		},
		"timestamp": time.Now().UTC(),
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(apiDoc)
}

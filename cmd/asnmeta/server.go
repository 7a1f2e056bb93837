// # cmd/asnmeta/server.go
package main

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// HealthStatus is the /health payload: always "up" once watch mode is
// running, with the shape of the latest scan attached.
type HealthStatus struct {
	Status   string    `json:"status"`
	LastScan time.Time `json:"last_scan"`
	Files    int       `json:"files"`
	Fields   int       `json:"fields"`
	Warnings int       `json:"warnings"`
}

// Health reports the state of the most recent scan.
func (a *App) Health() HealthStatus {
	a.mu.Lock()
	defer a.mu.Unlock()
	return HealthStatus{
		Status:   "up",
		LastScan: a.lastScan.At,
		Files:    a.lastScan.Files,
		Fields:   a.lastScan.Fields,
		Warnings: len(a.lastScan.Warnings),
	}
}

type ObservabilityServer struct {
	addr   string
	health func() HealthStatus
	server *http.Server
}

func NewObservabilityServer(addr string, health func() HealthStatus) *ObservabilityServer {
	return &ObservabilityServer{addr: addr, health: health}
}

func (s *ObservabilityServer) Start() error {
	mux := http.NewServeMux()

	// Prometheus metrics
	mux.Handle("/metrics", promhttp.Handler())

	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(s.health())
	})

	s.server = &http.Server{
		Addr:    s.addr,
		Handler: mux,
	}

	slog.Info("observability server starting", "addr", s.addr)

	go func() {
		if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("observability server failed", "error", err)
		}
	}()

	return nil
}

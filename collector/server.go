package collector

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var lastBatchUnix atomic.Int64

func setLastBatch(t time.Time) {
	lastBatchUnix.Store(t.Unix())
}

type healthResponse struct {
	Status         string `json:"status"`
	LastBatchEpoch int64  `json:"last_batch_epoch"`
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	resp := healthResponse{
		Status:         "ok",
		LastBatchEpoch: lastBatchUnix.Load(),
	}
	_ = json.NewEncoder(w).Encode(resp)
}

// StartServer serves /metrics and /health on the configured port.
func StartServer(port int) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/health", handleHealth)

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", port),
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	go func() {
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()
	log.Printf("server listening on %s", server.Addr)
	return server
}

// ShutdownServer drains the server with a bounded grace period.
func ShutdownServer(server *http.Server) {
	if server == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		log.Printf("server shutdown error: %v", err)
	}
}

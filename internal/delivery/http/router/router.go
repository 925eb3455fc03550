package router

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/user/esg-discovery/internal/delivery/http/handler"
	"github.com/user/esg-discovery/internal/delivery/http/middleware"
)

func New(h *handler.Handler) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /api/health", h.HandleHealthCheck)
	mux.HandleFunc("POST /api/discover", h.HandleSubmitDiscovery)
	mux.HandleFunc("GET /api/discover/status", h.HandleDiscoveryStatus)
	mux.HandleFunc("GET /api/results", h.HandleResults)
	mux.HandleFunc("GET /api/documents", h.HandleListDocuments)
	mux.HandleFunc("DELETE /api/documents", h.HandleDeleteDocument)
	mux.HandleFunc("PUT /api/hubs", h.HandleUpsertHub)

	// Prometheus metrics endpoint
	mux.Handle("/metrics", promhttp.Handler())

	var chainedHandler http.Handler = mux
	chainedHandler = middleware.Metrics(chainedHandler)
	chainedHandler = middleware.Logging(chainedHandler)

	return chainedHandler
}

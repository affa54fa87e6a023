package http

import (
	"context"
	"net/http"
	"time"

	"github.com/vinodismyname/mcpbigquery/internal/logger"
	"github.com/vinodismyname/mcpbigquery/pkg/version"
)

const readinessTimeout = 10 * time.Second

type healthBody struct {
	Status  string `json:"status"`
	Service string `json:"service"`
	Version string `json:"version"`
}

type readyBody struct {
	Status string `json:"status"`
	Detail string `json:"detail,omitempty"`
}

func (h *Handler) healthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, healthBody{Status: "ok", Service: h.appName, Version: version.Version()})
}

// readyz runs a trivial query against BigQuery.
func (h *Handler) readyz(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), readinessTimeout)
	defer cancel()

	if err := h.pinger.Ping(ctx); err != nil {
		logger.FromRequest(r).Error().Err(err).Msg("readiness check failed")
		writeJSON(w, http.StatusServiceUnavailable, readyBody{Status: "not_ready", Detail: err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, readyBody{Status: "ready"})
}

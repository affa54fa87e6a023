package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/vinodismyname/mcpbigquery/internal/auth"
	"github.com/vinodismyname/mcpbigquery/internal/bq"
	"github.com/vinodismyname/mcpbigquery/internal/logger"
	"github.com/vinodismyname/mcpbigquery/internal/policy"
	"github.com/vinodismyname/mcpbigquery/internal/runtime"
	"github.com/vinodismyname/mcpbigquery/pkg/validation"
)

// ErrInvalidBody is returned when the request body is not a JSON object of
// the expected shape.
var ErrInvalidBody = errors.New("invalid request body")

var errorStatusMap = map[error]int{
	ErrInvalidBody:             http.StatusBadRequest,
	validation.ErrValidation:   http.StatusBadRequest,
	bq.ErrInvalidArgument:      http.StatusBadRequest,
	bq.ErrUnavailable:          http.StatusServiceUnavailable,
	auth.ErrUnauthenticated:    http.StatusUnauthorized,
	policy.ErrPermissionDenied: http.StatusForbidden,
	runtime.ErrBusy:            http.StatusServiceUnavailable,
	context.DeadlineExceeded:   http.StatusGatewayTimeout,
}

func statusFromError(err error) int {
	for target, status := range errorStatusMap {
		if errors.Is(err, target) {
			return status
		}
	}
	return http.StatusInternalServerError
}

type errorBody struct {
	Detail string `json:"detail"`
}

// WriteError renders err as {"detail": ...} with the mapped status.
func WriteError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFromError(err)
	if status >= http.StatusInternalServerError {
		logger.FromRequest(r).Error().Err(err).Int("status", status).Msg("request failed")
	}
	writeJSON(w, status, errorBody{Detail: err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

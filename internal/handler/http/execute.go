package http

import (
	"fmt"
	"io"
	"net/http"

	"github.com/vinodismyname/mcpbigquery/internal/auth"
	"github.com/vinodismyname/mcpbigquery/internal/models"
)

// maxBodyBytes bounds the execute request body.
const maxBodyBytes = 10 << 20

func (h *Handler) execute(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		WriteError(w, r, fmt.Errorf("%w: %v", ErrInvalidBody, err))
		return
	}
	args, err := models.DecodeExecuteArgs(body)
	if err != nil {
		WriteError(w, r, fmt.Errorf("%w: %v", ErrInvalidBody, err))
		return
	}

	principal, _ := auth.PrincipalFromContext(r.Context())
	resp, err := h.executor.Execute(r.Context(), principal, args)
	if err != nil {
		WriteError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

package server

import (
	"encoding/json"
	"fmt"
	"net/http"
)

const (
	ContentType     = "Content-Type"
	ApplicationJson = "application/json"
	TextHtml        = "text/html; charset=utf-8"
)

type (
	ErrorResponse struct {
		Message string   `json:"message"`
		Details []string `json:"details,omitempty"`
	}

	ResponseWriter struct {
		LogErr func(format string, args ...interface{})
	}
)

func (rw *ResponseWriter) logError(err error) {
	if rw.LogErr != nil {
		rw.LogErr("%v", err)
	}
}

func (rw *ResponseWriter) WriteResponse(w http.ResponseWriter, data any) {
	w.Header().Set(ContentType, ApplicationJson)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		rw.logError(fmt.Errorf("failed to encode response data as json: %w", err))
	}
}

func (rw *ResponseWriter) InvalidParamResponse(w http.ResponseWriter, name string, err error) {
	rw.ErrorResponse(w, http.StatusBadRequest, fmt.Errorf("invalid parameter %q: %w", name, err))
}

func (rw *ResponseWriter) ErrorResponse(w http.ResponseWriter, code int, err error) {
	rw.writeError(w, code, ErrorResponse{Message: err.Error()})
}

func (rw *ResponseWriter) writeError(w http.ResponseWriter, code int, resp ErrorResponse) {
	w.Header().Set(ContentType, ApplicationJson)
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		rw.logError(fmt.Errorf("failed to encode error response as json: %w", err))
	}
}

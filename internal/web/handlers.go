package web

import (
	"errors"
	"io"
	"net/http"

	"github.com/prepline/prepline/internal/dispatch"
	"github.com/prepline/prepline/internal/logging"
)

// handleHealth reports process liveness.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleListOperations returns the supported operations in a stable order.
func (s *Server) handleListOperations(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"operations": dispatch.Operations(),
	})
}

// handleSubmitRequest runs one pipeline request and streams its messages
// back as newline-delimited JSON: a start acknowledgment followed by the
// terminal complete or error message.
func (s *Server) handleSubmitRequest(w http.ResponseWriter, r *http.Request) {
	logger := logging.FromContext(r.Context())

	body := http.MaxBytesReader(w, r.Body, s.cfg.Limits.MaxPayloadBytes)
	defer body.Close()

	raw, err := io.ReadAll(body)
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			writeError(w, http.StatusRequestEntityTooLarge, "request body exceeds payload limit")
			return
		}
		writeError(w, http.StatusBadRequest, "unable to read request body")
		return
	}

	var req dispatch.Request
	if err := jsonAPI.Unmarshal(raw, &req); err != nil {
		writeError(w, http.StatusBadRequest, "request body is not a valid request object")
		return
	}
	if req.Operation == "" {
		writeError(w, http.StatusBadRequest, "request is missing an operation")
		return
	}

	w.Header().Set("Content-Type", "application/x-ndjson")
	w.Header().Set("Cache-Control", "no-cache")
	w.WriteHeader(http.StatusOK)

	flusher, _ := w.(http.Flusher)
	encoder := jsonAPI.NewEncoder(w)

	s.dispatcher.Handle(r.Context(), req, func(msg dispatch.Message) {
		if err := encoder.Encode(msg); err != nil {
			logger.Error("message encode error", "error", err, "correlation_id", msg.CorrelationID)
			return
		}
		if flusher != nil {
			flusher.Flush()
		}
	})
}

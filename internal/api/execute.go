package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/jmadland/hearthcloud-core/internal/directory"
	"github.com/jmadland/hearthcloud-core/internal/engine"
)

// executeRequest is the body of a command execution call.
type executeRequest struct {
	Command   string         `json:"command"`
	Params    map[string]any `json:"params"`
	Challenge map[string]any `json:"challenge"`
}

// executeResponse reports a completed execution.
type executeResponse struct {
	Status string         `json:"status"`
	States map[string]any `json:"states"`
}

// executeErrorResponse reports a failed execution using the engine's
// wire-level error codes.
type executeErrorResponse struct {
	Status    string `json:"status"`
	ErrorCode string `json:"errorCode"`
}

// handleExecuteCommand runs a device command through the dispatcher.
//
// Successful commands return 200 with the post-execution states;
// commands that complete asynchronously return 202. Failures carry the
// engine error code so callers can distinguish challenges, offline
// devices, and device faults.
func (s *Server) handleExecuteCommand(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")
	deviceID := chi.URLParam(r, "deviceID")

	var req executeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid JSON body")
		return
	}
	if req.Command == "" {
		writeBadRequest(w, "command is required")
		return
	}

	outcome, err := s.dispatcher.Execute(r.Context(), userID, deviceID, engine.Command{
		ID:        engine.CommandID(req.Command),
		Params:    req.Params,
		Challenge: req.Challenge,
	})
	if err != nil {
		s.writeExecuteError(w, err)
		return
	}

	status := http.StatusOK
	if outcome.Status == engine.StatusPending {
		status = http.StatusAccepted
	}
	writeJSON(w, status, executeResponse{
		Status: string(outcome.Status),
		States: outcome.States,
	})
}

// writeExecuteError maps an execution failure onto an HTTP status and
// an engine error code payload.
func (s *Server) writeExecuteError(w http.ResponseWriter, err error) {
	code := engine.ErrorCode(err)

	var status int
	switch {
	case errors.Is(err, directory.ErrDeviceNotFound):
		status = http.StatusNotFound
	case errors.Is(err, engine.ErrInvalidParams):
		status = http.StatusBadRequest
	case errors.Is(err, engine.ErrAckNeeded),
		errors.Is(err, engine.ErrPinNeeded),
		errors.Is(err, engine.ErrChallengeFailedPinNeeded):
		// The command is valid but needs two-factor confirmation.
		status = http.StatusPreconditionRequired
	default:
		status = http.StatusUnprocessableEntity
	}

	if code == "hardError" {
		s.logger.Error("command execution failed", "error", err)
		status = http.StatusInternalServerError
	}

	writeJSON(w, status, executeErrorResponse{
		Status:    "ERROR",
		ErrorCode: code,
	})
}

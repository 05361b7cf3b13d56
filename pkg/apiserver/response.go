package apiserver

import (
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog"
)

// apiResponse mirrors graph-viz-backend/utils.APIResponse's envelope shape.
type apiResponse struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

func writeJSON(w http.ResponseWriter, logger zerolog.Logger, status int, v apiResponse) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Error().Err(err).Int("status", status).Msg("failed to encode JSON response")
	}
}

func writeSuccess(w http.ResponseWriter, logger zerolog.Logger, message string, data interface{}) {
	writeJSON(w, logger, http.StatusOK, apiResponse{Success: true, Message: message, Data: data})
}

func writeError(w http.ResponseWriter, logger zerolog.Logger, status int, message string, err error) {
	resp := apiResponse{Success: false, Message: message}
	if err != nil {
		resp.Error = err.Error()
	}
	writeJSON(w, logger, status, resp)
}

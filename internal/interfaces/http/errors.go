package httpinterface

import (
	"encoding/json"
	"errors"
	"net/http"

	log "github.com/sirupsen/logrus"
	"github.com/tdex-network/btc-session-daemon/internal/core/application"
	"github.com/tdex-network/btc-session-daemon/internal/infrastructure/pubsub"
)

var (
	// ErrMissingSessionService ...
	ErrMissingSessionService = errors.New("missing session service")
	// ErrInvalidAddress ...
	ErrInvalidAddress = errors.New("listening address must be in the form [host]:port")
	// ErrMethodNotAllowed ...
	ErrMethodNotAllowed = errors.New("method not allowed")
	// ErrInvalidRequestBody ...
	ErrInvalidRequestBody = errors.New("request body must be a valid JSON object")
	// ErrInvalidIndex ...
	ErrInvalidIndex = errors.New("index must be a non negative integer")
	// ErrWebhooksDisabled ...
	ErrWebhooksDisabled = errors.New("webhooks are not enabled")
)

type errorResponse struct {
	Error string `json:"error"`
}

func statusForError(err error) int {
	switch {
	case errors.Is(err, application.ErrInvalidInput),
		errors.Is(err, ErrInvalidRequestBody),
		errors.Is(err, ErrInvalidIndex),
		errors.Is(err, pubsub.ErrMissingEvent),
		errors.Is(err, pubsub.ErrInvalidEndpoint):
		return http.StatusBadRequest
	case errors.Is(err, application.ErrWalletConstruction):
		return http.StatusUnprocessableEntity
	case errors.Is(err, application.ErrWalletNotInitialized):
		return http.StatusConflict
	case errors.Is(err, pubsub.ErrSubscriptionNotFound),
		errors.Is(err, ErrWebhooksDisabled):
		return http.StatusNotFound
	case errors.Is(err, ErrMethodNotAllowed):
		return http.StatusMethodNotAllowed
	default:
		return http.StatusInternalServerError
	}
}

func writeError(w http.ResponseWriter, err error) {
	status := statusForError(err)
	if status == http.StatusInternalServerError {
		log.WithError(err).Error("request failed")
	}
	writeJSON(w, status, errorResponse{err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if body == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.WithError(err).Warn("failed to write response")
	}
}

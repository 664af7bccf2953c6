package handler

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"curricula/internal/auth"
	"curricula/internal/domain"
)

// errorResponse — единый конверт ошибки: {ok:false, error:"..."}.
type errorResponse struct {
	OK    bool   `json:"ok"`
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("Failed to encode response: %v", err)
	}
}

// writeError отображает доменные ошибки в HTTP-статусы.
// Всё, что не распознано, считается ошибкой хранилища (500).
func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError

	switch {
	case errors.Is(err, auth.ErrMissingToken), errors.Is(err, auth.ErrInvalidToken):
		status = http.StatusUnauthorized
	case errors.Is(err, auth.ErrForbidden):
		status = http.StatusForbidden
	case errors.Is(err, domain.ErrMissingTopicID),
		errors.Is(err, domain.ErrInvalidTopicID),
		errors.Is(err, domain.ErrInvalidDraft),
		errors.Is(err, domain.ErrBadSchemaVersion),
		errors.Is(err, domain.ErrNoDraftToPublish):
		status = http.StatusBadRequest
	case errors.Is(err, domain.ErrTopicNotFound):
		status = http.StatusNotFound
	case errors.Is(err, domain.ErrVersionConflict):
		status = http.StatusConflict
	}

	if status == http.StatusInternalServerError {
		log.Printf("Internal error: %v", err)
	}

	writeJSON(w, status, errorResponse{OK: false, Error: err.Error()})
}

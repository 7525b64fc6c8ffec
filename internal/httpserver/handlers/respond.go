package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/MrSnakeDoc/cookbook/internal/domain"
	"github.com/MrSnakeDoc/cookbook/internal/logger"
)

// maxBodyBytes caps request bodies; a recipe with a long method is far below it.
const maxBodyBytes = 1 << 20

var (
	errBadRequest      = errors.New("bad request")
	errPayloadTooLarge = errors.New("request body too large")
)

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError maps domain errors onto HTTP status codes.
func writeError(w http.ResponseWriter, log logger.Logger, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, errBadRequest), errors.Is(err, domain.ErrMissingID):
		status = http.StatusBadRequest
	case errors.Is(err, errPayloadTooLarge):
		status = http.StatusRequestEntityTooLarge
	case errors.Is(err, domain.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, domain.ErrOutOfRange):
		status = http.StatusConflict
	case errors.Is(err, domain.ErrPersistenceUnavailable):
		status = http.StatusServiceUnavailable
	case errors.Is(err, domain.ErrCorrupt):
		status = http.StatusInternalServerError
	}

	if status >= http.StatusInternalServerError {
		log.Error("request failed", logger.Int("status", status), logger.Error(err))
	}
	writeJSON(w, status, errorResponse{Error: err.Error()})
}

// decodeRecipe reads exactly one JSON recipe from the body. Anything after
// it other than whitespace is rejected.
func decodeRecipe(w http.ResponseWriter, r *http.Request) (domain.Recipe, error) {
	var rec domain.Recipe
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(&rec); err != nil {
		return domain.Recipe{}, bodyError(err)
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		if err != nil {
			return domain.Recipe{}, bodyError(err)
		}
		return domain.Recipe{}, fmt.Errorf("%w: invalid recipe body: unexpected data after the recipe", errBadRequest)
	}
	return rec, nil
}

func bodyError(err error) error {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		return fmt.Errorf("%w: limit is %d bytes", errPayloadTooLarge, tooLarge.Limit)
	}
	return fmt.Errorf("%w: invalid recipe body: %v", errBadRequest, err)
}

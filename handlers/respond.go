package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/kevinaaaquil/books-api/middleware"
	"go.uber.org/zap"
)

const maxBodyBytes = 1 << 20

var errEmptyBody = errors.New("empty body")

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// serverError logs err and answers 500 with msg only; driver details stay in the log.
func serverError(log *zap.Logger, w http.ResponseWriter, r *http.Request, msg string, err error) {
	log.Error(msg,
		zap.String("request_id", middleware.RequestID(r.Context())),
		zap.String("method", r.Method),
		zap.String("path", r.URL.Path),
		zap.Error(err),
	)
	writeError(w, http.StatusInternalServerError, msg)
}

// decodeJSON reads a single JSON value from the request body into dst.
// It returns errEmptyBody when the body has no content.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(dst)
	if errors.Is(err, io.EOF) {
		return errEmptyBody
	}
	return err
}

// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package handlers implements the JSON HTTP handlers of the feedback board
// API. Handlers translate requests into store calls and map the store's
// error kinds onto status codes.
package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-playground/validator/v10"

	"feedbackboard/internal/models"
)

// maxBodyBytes caps request bodies; every accepted body is a few short strings.
const maxBodyBytes = 64 << 10

// validate checks decoded request bodies. It caches struct metadata and is
// safe for concurrent use.
var validate = validator.New()

// Messages shared across handlers.
const (
	msgNotFound    = "Feedback not found."
	msgInvalidID   = "Invalid feedback ID format."
	msgInvalidBody = "Invalid request body."
)

// writeJSON encodes data as JSON and writes it with the given status code.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Error("json encode failed", "error", err)
	}
}

// writeMessage writes the API's {"message": ...} body.
func writeMessage(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"message": msg})
}

// decodeBody reads a JSON body into dst. An empty body decodes as an empty
// object, so missing fields are reported by validation. Malformed or
// oversized bodies and trailing data are rejected.
func decodeBody(w http.ResponseWriter, r *http.Request, dst any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return err
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return errors.New("unexpected data after JSON body")
	}
	return nil
}

// writeStoreError maps a store error onto a response. Unexpected errors are
// logged and reported with the operation's generic message.
func writeStoreError(w http.ResponseWriter, r *http.Request, err error, serverMsg string) {
	var ve *models.ValidationError
	switch {
	case errors.As(err, &ve):
		writeMessage(w, http.StatusBadRequest, ve.Message)
	case errors.Is(err, models.ErrInvalidID):
		writeMessage(w, http.StatusBadRequest, msgInvalidID)
	case errors.Is(err, models.ErrNotFound):
		writeMessage(w, http.StatusNotFound, msgNotFound)
	default:
		slog.Error("request failed",
			"method", r.Method,
			"path", r.URL.Path,
			"error", err,
		)
		writeMessage(w, http.StatusInternalServerError, serverMsg)
	}
}

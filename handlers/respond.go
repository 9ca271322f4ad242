package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/lugerh/TaskTree-API/auth"
	"github.com/lugerh/TaskTree-API/errs"
	"github.com/lugerh/TaskTree-API/logging"
)

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		logging.Logger.Errorf("Event ID: RESPONSE_ENCODE_FAILED, Description: Failed to encode response: %v", err)
	}
}

func writeMessage(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"message": message})
}

// writeError maps the error taxonomy to HTTP statuses. The two sub-kind
// exceptions keep the status codes the original API exposed: a share of an
// already-shared user answers 400 and a non-member 403.
func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, errs.ErrUnauthenticated):
		status = http.StatusUnauthorized
	case errors.Is(err, errs.ErrForbidden):
		status = http.StatusForbidden
	case errors.Is(err, errs.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, errs.ErrAlreadyShared):
		status = http.StatusBadRequest
	case errors.Is(err, errs.ErrUserNotInGroup):
		status = http.StatusForbidden
	case errors.Is(err, errs.ErrConflict):
		status = http.StatusConflict
	case errors.Is(err, errs.ErrInvalid):
		status = http.StatusBadRequest
	}

	if status == http.StatusInternalServerError {
		logging.Logger.Errorf("Event ID: REQUEST_FAILED, Description: %v", err)
	}
	writeMessage(w, status, err.Error())
}

// callerFrom pulls the authenticated caller resolved by the middleware.
func callerFrom(r *http.Request) (auth.Caller, error) {
	caller, ok := auth.CallerFrom(r.Context())
	if !ok {
		return auth.Caller{}, errs.Unauthenticated("caller identity not available")
	}
	return caller, nil
}

func decodeBody(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return errs.Invalid("invalid request payload")
	}
	return nil
}

// decodePatch rejects unknown fields so a misspelled patch key fails loudly
// instead of being silently dropped.
func decodePatch(raw json.RawMessage, v any) error {
	decoder := json.NewDecoder(bytes.NewReader(raw))
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(v); err != nil {
		return errs.Invalid("invalid patch payload")
	}
	return nil
}

func parseObjectID(hex, what string) (primitive.ObjectID, error) {
	id, err := primitive.ObjectIDFromHex(hex)
	if err != nil {
		return primitive.NilObjectID, errs.Invalid("invalid " + what + " format")
	}
	return id, nil
}

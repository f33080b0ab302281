package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/Dosada05/event-hub/services"
	"github.com/go-chi/chi/v5"
)

type jsonResponse map[string]interface{}

func getIDFromURL(r *http.Request, param string) (int, error) {
	raw := chi.URLParam(r, param)
	id, err := strconv.Atoi(raw)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid %s parameter: %q", param, raw)
	}
	return id, nil
}

func readJSON(w http.ResponseWriter, r *http.Request, dst interface{}) error {
	maxBytes := 1_048_576 // 1MB
	r.Body = http.MaxBytesReader(w, r.Body, int64(maxBytes))

	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()

	err := dec.Decode(dst)
	if err != nil {
		var syntaxError *json.SyntaxError
		var unmarshalTypeError *json.UnmarshalTypeError
		var invalidUnmarshalError *json.InvalidUnmarshalError

		switch {
		case errors.As(err, &syntaxError):
			return fmt.Errorf("body contains badly-formed JSON (at character %d)", syntaxError.Offset)
		case errors.Is(err, io.ErrUnexpectedEOF):
			return errors.New("body contains badly-formed JSON")
		case errors.As(err, &unmarshalTypeError):
			if unmarshalTypeError.Field != "" {
				return fmt.Errorf("body contains incorrect JSON type for field %q", unmarshalTypeError.Field)
			}
			return fmt.Errorf("body contains incorrect JSON type (at character %d)", unmarshalTypeError.Offset)
		case errors.Is(err, io.EOF):
			return errors.New("body must not be empty")
		case strings.HasPrefix(err.Error(), "json: unknown field "):
			fieldName := strings.TrimPrefix(err.Error(), "json: unknown field ")
			return fmt.Errorf("body contains unknown key %s", fieldName)
		case err.Error() == "http: request body too large":
			return fmt.Errorf("body must not be larger than %d bytes", maxBytes)
		case errors.As(err, &invalidUnmarshalError):
			panic(err)
		default:
			return err
		}
	}

	err = dec.Decode(&struct{}{})
	if !errors.Is(err, io.EOF) {
		return errors.New("body must only contain a single JSON value")
	}

	return nil
}

func writeJSON(w http.ResponseWriter, status int, data interface{}, headers http.Header) error {
	js, err := json.Marshal(data)
	if err != nil {
		return err
	}
	js = append(js, '\n')

	for key, value := range headers {
		w.Header()[key] = value
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, err = w.Write(js)
	return err
}

// failureResponse is the uniform shape for rejected mutations: a stable
// machine code plus a human message, never a bare 500 for business rules.
func failureResponse(w http.ResponseWriter, status int, code string, message string) {
	env := jsonResponse{
		"success":    false,
		"error_code": code,
		"error":      message,
	}
	if err := writeJSON(w, status, env, nil); err != nil {
		w.WriteHeader(http.StatusInternalServerError)
	}
}

func badRequestResponse(w http.ResponseWriter, err error) {
	failureResponse(w, http.StatusBadRequest, "badRequest", err.Error())
}

func unauthorizedResponse(w http.ResponseWriter, message string) {
	failureResponse(w, http.StatusUnauthorized, "unauthorized", message)
}

func serverErrorResponse(w http.ResponseWriter, r *http.Request, err error) {
	failureResponse(w, http.StatusInternalServerError, "internal",
		"the server encountered a problem and could not process your request")
}

// mapServiceErrorToHTTP преобразует ошибки сервисного слоя в HTTP-ответы со
// стабильным кодом: клиенты матчатся по error_code.
func mapServiceErrorToHTTP(w http.ResponseWriter, r *http.Request, err error) {
	code := services.ErrorCode(err)
	switch {
	case errors.Is(err, services.ErrEntryNotFound),
		errors.Is(err, services.ErrEventNotFound),
		errors.Is(err, services.ErrTeamNotFound),
		errors.Is(err, services.ErrMembershipNotFound):
		failureResponse(w, http.StatusNotFound, code, err.Error())

	case errors.Is(err, services.ErrNotMember),
		errors.Is(err, services.ErrOnlyCaptain),
		errors.Is(err, services.ErrRosterLocked):
		failureResponse(w, http.StatusForbidden, code, err.Error())

	case errors.Is(err, services.ErrBadSlot),
		errors.Is(err, services.ErrCannotMoveCaptain):
		failureResponse(w, http.StatusBadRequest, code, err.Error())

	case errors.Is(err, services.ErrMaxStarters),
		errors.Is(err, services.ErrCheckInNotOpen),
		errors.Is(err, services.ErrAlreadyForfeited):
		failureResponse(w, http.StatusConflict, code, err.Error())

	default:
		serverErrorResponse(w, r, err)
	}
}

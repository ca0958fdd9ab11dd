package apiexternal

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

var (
	ErrConnection      = errors.New("connection error")
	ErrBusy            = errors.New("please wait")
	ErrInvalidResponse = errors.New("invalid response from server")
	ErrNotFound        = errors.New("not found")
	ErrValidation      = errors.New("rejected by server")
	ErrUnauthorized    = errors.New("not authorized")
)

// ConnectionMessage is shown when the backend can not be reached.
const ConnectionMessage = "Connection error: could not reach the server"

// APIError is a non-2xx answer from the backend.
type APIError struct {
	Status int
	Detail string
}

func (e *APIError) Error() string {
	if e.Detail != "" {
		return e.Detail
	}
	return "server returned " + strconv.Itoa(e.Status)
}

// Is maps status codes onto the sentinel errors.
func (e *APIError) Is(target error) bool {
	switch target {
	case ErrNotFound:
		return e.Status == http.StatusNotFound
	case ErrValidation:
		return e.Status == http.StatusBadRequest || e.Status == http.StatusUnprocessableEntity
	case ErrUnauthorized:
		return e.Status == http.StatusUnauthorized || e.Status == http.StatusForbidden
	}
	return false
}

// parseDetail extracts the "detail" member of an error body. Validation
// errors carry a list of {msg} objects; their messages are joined.
func parseDetail(body []byte) string {
	var payload struct {
		Detail json.RawMessage `json:"detail"`
	}
	if len(body) == 0 || json.Unmarshal(body, &payload) != nil || len(payload.Detail) == 0 {
		return ""
	}
	var text string
	if json.Unmarshal(payload.Detail, &text) == nil {
		return strings.TrimSpace(text)
	}
	var items []struct {
		Msg string `json:"msg"`
	}
	if json.Unmarshal(payload.Detail, &items) == nil {
		msgs := make([]string, 0, len(items))
		for _, item := range items {
			if item.Msg != "" {
				msgs = append(msgs, item.Msg)
			}
		}
		return strings.Join(msgs, ". ")
	}
	return ""
}

// Message returns the text shown to the user for err: the backend detail
// when present, a connection message for transport failures, else fallback.
func Message(err error, fallback string) string {
	var apiErr *APIError
	switch {
	case err == nil:
		return ""
	case errors.As(err, &apiErr) && apiErr.Detail != "":
		return apiErr.Detail
	case errors.Is(err, ErrConnection):
		return ConnectionMessage
	}
	return fallback
}

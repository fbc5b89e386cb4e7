package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"sort"
	"strings"
)

// ErrorKind discriminates the error payload shapes the server can produce.
// The shape is decoded exactly once, at the API boundary; call sites switch
// on Kind instead of re-inspecting raw payloads.
type ErrorKind string

const (
	// ErrorKindField means the server rejected input with per-field messages
	ErrorKindField ErrorKind = "field"
	// ErrorKindDetail means the server returned a single detail message
	ErrorKindDetail ErrorKind = "detail"
	// ErrorKindNetwork means no response was received at all
	ErrorKindNetwork ErrorKind = "network"
	// ErrorKindServer means the server failed with a 5xx or an unparseable body
	ErrorKindServer ErrorKind = "server"
)

// Error is the tagged result of a failed API call
type Error struct {
	Kind   ErrorKind           `json:"kind"`
	Status int                 `json:"status,omitempty"` // HTTP status, 0 for network errors
	Detail string              `json:"detail,omitempty"`
	Fields map[string][]string `json:"fields,omitempty"`
}

func (e *Error) Error() string {
	switch e.Kind {
	case ErrorKindField:
		// Surface the first message of each field, in a stable order
		names := make([]string, 0, len(e.Fields))
		for name := range e.Fields {
			names = append(names, name)
		}
		sort.Strings(names)
		parts := make([]string, 0, len(names))
		for _, name := range names {
			if msgs := e.Fields[name]; len(msgs) > 0 {
				parts = append(parts, fmt.Sprintf("%s: %s", name, msgs[0]))
			}
		}
		return strings.Join(parts, "; ")
	case ErrorKindNetwork:
		if e.Detail != "" {
			return fmt.Sprintf("network error: %s", e.Detail)
		}
		return "network error: could not reach the server"
	case ErrorKindServer:
		return fmt.Sprintf("server error (%d)", e.Status)
	default:
		return e.Detail
	}
}

// detailPayload matches the {"detail": "..."} shape used for
// authentication and permission errors
type detailPayload struct {
	Detail string `json:"detail"`
}

// NetworkError wraps a transport failure where no response was received
func NetworkError(err error) *Error {
	detail := ""
	if err != nil {
		detail = err.Error()
	}
	return &Error{Kind: ErrorKindNetwork, Detail: detail}
}

// DecodeError converts a non-2xx response into a tagged Error.
// Validation failures arrive as {"field": ["msg", ...]}, everything else
// as {"detail": "..."}; bodies that match neither become server errors.
func DecodeError(status int, body []byte) *Error {
	if status >= http.StatusInternalServerError {
		return &Error{Kind: ErrorKindServer, Status: status}
	}

	var dp detailPayload
	if err := json.Unmarshal(body, &dp); err == nil && dp.Detail != "" {
		return &Error{Kind: ErrorKindDetail, Status: status, Detail: dp.Detail}
	}

	if fields := decodeFieldErrors(body); len(fields) > 0 {
		return &Error{Kind: ErrorKindField, Status: status, Fields: fields}
	}

	return &Error{Kind: ErrorKindServer, Status: status}
}

// decodeFieldErrors parses {"field": ["msg"]} payloads, tolerating single
// string values for compatibility with hand-written error responses.
func decodeFieldErrors(body []byte) map[string][]string {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(body, &raw); err != nil || len(raw) == 0 {
		return nil
	}

	fields := make(map[string][]string, len(raw))
	for name, value := range raw {
		var msgs []string
		if err := json.Unmarshal(value, &msgs); err == nil {
			fields[name] = msgs
			continue
		}
		var msg string
		if err := json.Unmarshal(value, &msg); err == nil {
			fields[name] = []string{msg}
			continue
		}
		return nil
	}
	return fields
}

package main

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Backend error payloads come in several shapes: a bare string, {"error": ...},
// {"detail": ...}, {"non_field_errors": [...]} or a field-keyed map. They are
// shown verbatim; these helpers only pick the most readable form.

// compactPayload renders the payload as single-line JSON.
func compactPayload(raw json.RawMessage, fallback string) string {
	if len(raw) == 0 {
		return fallback
	}
	var buf bytes.Buffer
	if err := json.Compact(&buf, raw); err != nil {
		return string(raw)
	}
	return buf.String()
}

// payloadText unwraps a bare string payload, otherwise falls back to compact JSON.
func payloadText(raw json.RawMessage, fallback string) string {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	return compactPayload(raw, fallback)
}

// payloadField returns obj[key] when the payload is an object carrying a
// non-empty value there.
func payloadField(raw json.RawMessage, key, fallback string) string {
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(raw, &obj); err != nil {
		return fallback
	}
	v, ok := obj[key]
	if !ok {
		return fallback
	}
	var s string
	if err := json.Unmarshal(v, &s); err == nil {
		if s == "" {
			return fallback
		}
		return s
	}
	if bytes.Equal(bytes.TrimSpace(v), []byte("null")) {
		return fallback
	}
	return compactPayload(v, fallback)
}

// firstNonFieldError picks the first entry of non_field_errors, if any.
func firstNonFieldError(raw json.RawMessage) (string, bool) {
	var obj struct {
		NonFieldErrors []json.RawMessage `json:"non_field_errors"`
	}
	if err := json.Unmarshal(raw, &obj); err != nil || len(obj.NonFieldErrors) == 0 {
		return "", false
	}
	first := obj.NonFieldErrors[0]
	var s string
	if err := json.Unmarshal(first, &s); err == nil {
		return s, true
	}
	return compactPayload(first, ""), true
}

// APIFailure is a call the backend answered but refused. Message is what the
// operator sees.
type APIFailure struct {
	Message string
}

func (e *APIFailure) Error() string { return e.Message }

func transportMessage(err error) string {
	return fmt.Sprintf("Request failed: %v", err)
}

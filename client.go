package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// ============================================================
// CLINIC API CLIENT
// ============================================================

// Result is the normalized outcome of one API call. Non-2xx is not an error.
type Result struct {
	OK     bool
	Status int
	Data   json.RawMessage
}

// Decode unmarshals Data into v.
func (r *Result) Decode(v interface{}) error {
	if len(r.Data) == 0 {
		return fmt.Errorf("empty response body (status %d)", r.Status)
	}
	if err := json.Unmarshal(r.Data, v); err != nil {
		return fmt.Errorf("parse response: %w", err)
	}
	return nil
}

type APIClient struct {
	baseURL *url.URL
	session *Session
	log     *ActivityLog
	http    *http.Client
}

func NewAPIClient(base string, timeout time.Duration, session *Session, activity *ActivityLog) (*APIClient, error) {
	u, err := url.Parse(strings.TrimRight(base, "/"))
	if err != nil {
		return nil, fmt.Errorf("invalid api url: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("invalid api url %q: scheme and host required", base)
	}
	return &APIClient{
		baseURL: u,
		session: session,
		log:     activity,
		http:    &http.Client{Timeout: timeout},
	}, nil
}

// Do sends one request. The bearer token is attached only while the session
// holds one; a 204 leaves Data empty.
func (c *APIClient) Do(ctx context.Context, method, path string, body interface{}) (*Result, error) {
	var reqJSON []byte
	var reqBody io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encode request: %w", err)
		}
		reqBody = bytes.NewReader(b)
		reqJSON = redactSecrets(b)
		log.Printf("📤 %s %s\n%s", method, path, string(reqJSON))
	} else {
		log.Printf("📤 %s %s", method, path)
	}

	logPath := c.PathFor(path)
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL.String()+path, reqBody)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if token := c.session.Token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		c.log.Record(method, logPath, 0, reqJSON, nil)
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		c.log.Record(method, logPath, resp.StatusCode, reqJSON, nil)
		return nil, fmt.Errorf("read body: %w", err)
	}
	log.Printf("📥 Response %d:\n%s", resp.StatusCode, string(respBody))

	var data json.RawMessage
	if resp.StatusCode != http.StatusNoContent {
		data = asJSON(respBody)
	}
	c.log.Record(method, logPath, resp.StatusCode, reqJSON, data)

	return &Result{
		OK:     resp.StatusCode >= 200 && resp.StatusCode < 300,
		Status: resp.StatusCode,
		Data:   data,
	}, nil
}

// PathFor is the request path as shown to the operator, e.g. /api/patients/.
func (c *APIClient) PathFor(path string) string {
	return c.baseURL.Path + path
}

// asJSON keeps valid JSON as-is and wraps anything else (an HTML error page,
// plain text) in a JSON string so it can still be shown verbatim.
func asJSON(body []byte) json.RawMessage {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 {
		return nil
	}
	if json.Valid(trimmed) {
		return json.RawMessage(trimmed)
	}
	b, _ := json.Marshal(string(trimmed))
	return b
}

var secretFields = []string{"password"}

// redactSecrets masks credential fields in the copy of a request body that is
// logged and recorded. The body actually sent is untouched.
func redactSecrets(body []byte) []byte {
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(body, &obj); err != nil {
		return body
	}
	masked := false
	for _, k := range secretFields {
		if _, ok := obj[k]; ok {
			obj[k] = json.RawMessage(`"***"`)
			masked = true
		}
	}
	if !masked {
		return body
	}
	out, err := json.Marshal(obj)
	if err != nil {
		return body
	}
	return out
}

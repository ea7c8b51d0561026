package transport

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
)

// Request describes one call against the Hermes API. Path is relative to the
// versioned API root, e.g. "documents/abc".
type Request struct {
	Method  string
	Path    string
	Query   url.Values
	Body    interface{}
	Headers map[string]string
}

// Response is a successful (status < 400) HTTP response with its body read.
type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
}

// Decode unmarshals the JSON body into v. An empty body leaves v untouched.
func (r *Response) Decode(v interface{}) error {
	if len(r.Body) == 0 {
		return nil
	}
	if err := json.Unmarshal(r.Body, v); err != nil {
		return fmt.Errorf("error decoding response body: %w", err)
	}
	return nil
}

package transport

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"strings"
	"syscall"

	"github.com/hashicorp-forge/hermes-client/pkg/errdefs"
)

// errorBody is the JSON error envelope Hermes returns.
type errorBody struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// errorMessage extracts a human-readable message from an error response,
// preferring the "error" field, then "message", then the raw text.
func errorMessage(statusCode int, body []byte) string {
	var eb errorBody
	if err := json.Unmarshal(body, &eb); err == nil {
		if eb.Error != "" {
			return eb.Error
		}
		if eb.Message != "" {
			return eb.Message
		}
	}
	if text := strings.TrimSpace(string(body)); text != "" {
		return text
	}
	return fmt.Sprintf("HTTP %d error", statusCode)
}

// statusError maps an HTTP error response onto the errdefs taxonomy.
func statusError(statusCode int, header http.Header, body []byte) error {
	msg := errorMessage(statusCode, body)

	switch statusCode {
	case http.StatusUnauthorized:
		return &errdefs.AuthError{
			Msg:        "Authentication failed: " + msg,
			StatusCode: statusCode,
			Body:       body,
		}
	case http.StatusForbidden:
		return &errdefs.AuthError{
			Msg:        "Permission denied: " + msg,
			StatusCode: statusCode,
			Body:       body,
		}
	case http.StatusNotFound:
		return &errdefs.NotFoundError{Msg: msg, Body: body}
	case http.StatusTooManyRequests:
		return &errdefs.RateLimitError{
			Msg:        msg,
			RetryAfter: retryAfter(header),
			Body:       body,
		}
	default:
		return &errdefs.APIError{Msg: msg, StatusCode: statusCode, Body: body}
	}
}

// retryAfter parses the Retry-After header as whole seconds. HTTP-date values
// and garbage yield zero.
func retryAfter(header http.Header) int {
	v := strings.TrimSpace(header.Get("Retry-After"))
	if v == "" {
		return 0
	}
	secs, err := strconv.Atoi(v)
	if err != nil || secs < 0 {
		return 0
	}
	return secs
}

type failureKind int

const (
	failureOther failureKind = iota
	failureTimeout
	failureConnection
)

// classify sorts a transport error into the retryable timeout and connection
// buckets or the non-retryable remainder.
func classify(err error) failureKind {
	if errors.Is(err, context.DeadlineExceeded) {
		return failureTimeout
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return failureTimeout
	}
	if errors.Is(err, syscall.ECONNREFUSED) ||
		errors.Is(err, syscall.ECONNRESET) ||
		errors.Is(err, syscall.EHOSTUNREACH) ||
		errors.Is(err, syscall.ENETUNREACH) {
		return failureConnection
	}
	var opErr *net.OpError
	if errors.As(err, &opErr) {
		return failureConnection
	}
	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return failureConnection
	}
	return failureOther
}

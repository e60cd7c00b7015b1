package scanner_client

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
)

// Kind records where a failure originated. It is kept for logs and metrics;
// callers render Detail and never need to switch on Kind.
type Kind int

const (
	// KindValidation is a local check that failed before any request was issued.
	KindValidation Kind = iota + 1
	// KindTransport means no usable response was received.
	KindTransport
	// KindServer is a non-2xx response.
	KindServer
	// KindDecode is a 2xx response whose body could not be parsed.
	KindDecode
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindTransport:
		return "transport"
	case KindServer:
		return "server"
	case KindDecode:
		return "decode"
	default:
		return "unknown"
	}
}

// Error is the single failure shape returned by every gateway and form validator.
type Error struct {
	Op         string // gateway operation, e.g. "list datasets"
	Kind       Kind
	StatusCode int    // HTTP status for KindServer, 0 otherwise
	Detail     string // human-readable message, always set
	Err        error  // underlying cause, may be nil
}

// Error implements the error interface and returns the display message.
func (e *Error) Error() string {
	return e.Detail
}

// Unwrap returns the underlying error.
func (e *Error) Unwrap() error {
	return e.Err
}

// NewValidationError builds an error for input rejected before the network.
func NewValidationError(op, detail string) *Error {
	return &Error{Op: op, Kind: KindValidation, Detail: detail}
}

// Normalize converts any error into *Error. Errors that already are *Error are
// returned unchanged; anything else gets the fallback detail.
func Normalize(err error, op, fallback string) *Error {
	if err == nil {
		return nil
	}
	var gwErr *Error
	if errors.As(err, &gwErr) {
		return gwErr
	}
	return &Error{Op: op, Kind: KindTransport, Detail: fallback, Err: err}
}

// Detail returns the display message of err, or fallback when err carries none.
func Detail(err error, fallback string) string {
	if err == nil {
		return ""
	}
	var gwErr *Error
	if errors.As(err, &gwErr) && gwErr.Detail != "" {
		return gwErr.Detail
	}
	return fallback
}

// serverDetail extracts a message from an error body. The backend replies with
// {"detail": "..."}, or a list of {"msg": ...} entries on request validation failures.
func serverDetail(body []byte) string {
	body = bytes.TrimSpace(body)
	if len(body) == 0 || body[0] != '{' {
		return ""
	}

	var envelope struct {
		Detail  json.RawMessage `json:"detail"`
		Message string          `json:"message"`
		Error   string          `json:"error"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil {
		return ""
	}

	if len(envelope.Detail) > 0 {
		var text string
		if err := json.Unmarshal(envelope.Detail, &text); err == nil && strings.TrimSpace(text) != "" {
			return strings.TrimSpace(text)
		}
		var items []struct {
			Msg string `json:"msg"`
			Loc []any  `json:"loc"`
		}
		if err := json.Unmarshal(envelope.Detail, &items); err == nil {
			msgs := make([]string, 0, len(items))
			for _, item := range items {
				if item.Msg != "" {
					msgs = append(msgs, item.Msg)
				}
			}
			if len(msgs) > 0 {
				return strings.Join(msgs, "; ")
			}
		}
	}
	if strings.TrimSpace(envelope.Message) != "" {
		return strings.TrimSpace(envelope.Message)
	}
	return strings.TrimSpace(envelope.Error)
}

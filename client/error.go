package client

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strings"
)

// Kind classifies API failures.
type Kind int

const (
	KindNetwork Kind = iota + 1
	KindUnauthorized
	KindValidation
	KindRequest
	KindServer
)

func (k Kind) String() string {
	switch k {
	case KindNetwork:
		return "network"
	case KindUnauthorized:
		return "unauthorized"
	case KindValidation:
		return "validation"
	case KindRequest:
		return "request"
	case KindServer:
		return "server"
	}
	return "unknown"
}

// Sentinels matched by errors.Is against any *Error of the same kind.
var (
	ErrNetwork      = errors.New("network error")
	ErrUnauthorized = errors.New("unauthorized")
	ErrValidation   = errors.New("validation failed")
	ErrRequest      = errors.New("request rejected")
	ErrServer       = errors.New("server error")
)

var kindSentinels = map[Kind]error{
	KindNetwork:      ErrNetwork,
	KindUnauthorized: ErrUnauthorized,
	KindValidation:   ErrValidation,
	KindRequest:      ErrRequest,
	KindServer:       ErrServer,
}

// Error is returned for every failed API call.
type Error struct {
	Kind       Kind
	StatusCode int
	Message    string
	// Fields holds per field messages of a validation failure.
	Fields map[string][]string
	Err    error
}

func (e *Error) Error() string {
	var sb strings.Builder
	sb.WriteString(e.Kind.String())
	if e.StatusCode != 0 {
		fmt.Fprintf(&sb, " (%d)", e.StatusCode)
	}
	if e.Message != "" {
		sb.WriteString(": ")
		sb.WriteString(e.Message)
	}
	if len(e.Fields) > 0 {
		names := make([]string, 0, len(e.Fields))
		for name := range e.Fields {
			names = append(names, name)
		}
		sort.Strings(names)
		sb.WriteString(" [")
		sb.WriteString(strings.Join(names, ", "))
		sb.WriteString("]")
	}
	if e.Err != nil {
		sb.WriteString(": ")
		sb.WriteString(e.Err.Error())
	}
	return sb.String()
}

func (e *Error) Unwrap() error {
	return e.Err
}

func (e *Error) Is(target error) bool {
	return kindSentinels[e.Kind] == target
}

// FieldError returns the first message reported for field.
func (e *Error) FieldError(field string) string {
	if messages := e.Fields[field]; len(messages) > 0 {
		return messages[0]
	}
	return ""
}

type errorBody struct {
	Message string              `json:"message"`
	Error   string              `json:"error"`
	Errors  map[string][]string `json:"errors"`
}

// responseError maps an HTTP failure to an Error.
func responseError(status int, data []byte) *Error {
	var body errorBody
	_ = json.Unmarshal(data, &body)
	message := body.Message
	if message == "" {
		message = body.Error
	}
	if message == "" {
		message = http.StatusText(status)
	}
	ret := &Error{StatusCode: status, Message: message, Fields: body.Errors}
	switch {
	case status == http.StatusUnauthorized:
		ret.Kind = KindUnauthorized
	case status == http.StatusUnprocessableEntity, status < 500 && len(body.Errors) > 0:
		ret.Kind = KindValidation
	case status < 500:
		ret.Kind = KindRequest
	default:
		ret.Kind = KindServer
	}
	return ret
}

// KindOf returns the kind of an API error, or 0.
func KindOf(err error) Kind {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.Kind
	}
	return 0
}

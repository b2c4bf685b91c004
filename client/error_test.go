package client

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResponseError(t *testing.T) {
	testCases := []struct {
		description string
		status      int
		body        string
		kind        Kind
		sentinel    error
		message     string
	}{
		{description: "unauthorized", status: http.StatusUnauthorized, body: `{"message":"Unauthenticated."}`, kind: KindUnauthorized, sentinel: ErrUnauthorized, message: "Unauthenticated."},
		{description: "validation", status: http.StatusUnprocessableEntity, body: `{"message":"invalid","errors":{"name":["required"]}}`, kind: KindValidation, sentinel: ErrValidation, message: "invalid"},
		{description: "bad request with field errors", status: http.StatusBadRequest, body: `{"errors":{"email":["taken"]}}`, kind: KindValidation, sentinel: ErrValidation, message: "Bad Request"},
		{description: "not found", status: http.StatusNotFound, body: ``, kind: KindRequest, sentinel: ErrRequest, message: "Not Found"},
		{description: "oauth style error", status: http.StatusForbidden, body: `{"error":"access_denied"}`, kind: KindRequest, sentinel: ErrRequest, message: "access_denied"},
		{description: "server", status: http.StatusBadGateway, body: `<html>`, kind: KindServer, sentinel: ErrServer, message: "Bad Gateway"},
	}
	for _, tc := range testCases {
		t.Run(tc.description, func(t *testing.T) {
			err := responseError(tc.status, []byte(tc.body))
			assert.Equal(t, tc.kind, err.Kind)
			assert.Equal(t, tc.status, err.StatusCode)
			assert.Equal(t, tc.message, err.Message)
			assert.True(t, errors.Is(err, tc.sentinel))
			assert.False(t, errors.Is(err, ErrNetwork))
			wrapped := fmt.Errorf("failed: %w", err)
			assert.Equal(t, tc.kind, KindOf(wrapped))
		})
	}
}

func TestError_Error(t *testing.T) {
	err := &Error{Kind: KindValidation, StatusCode: 422, Message: "invalid", Fields: map[string][]string{"b": {"x"}, "a": {"y"}}}
	assert.Equal(t, "validation (422): invalid [a, b]", err.Error())
	assert.Equal(t, "y", err.FieldError("a"))
	assert.Equal(t, "", err.FieldError("c"))

	cause := errors.New("dial tcp: refused")
	netErr := &Error{Kind: KindNetwork, Message: "request failed", Err: cause}
	assert.Equal(t, "network: request failed: dial tcp: refused", netErr.Error())
	assert.True(t, errors.Is(netErr, cause))
	assert.Equal(t, Kind(0), KindOf(cause))
}

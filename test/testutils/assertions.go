package testutils

import (
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Envelope mirrors the API response envelope with the payload left raw
type Envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data,omitempty"`
	Error   *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error,omitempty"`
	Message string `json:"message,omitempty"`
}

// HTTPAssertions provides HTTP-specific assertions
type HTTPAssertions struct {
	t *testing.T
}

// NewHTTPAssertions creates new HTTP assertions
func NewHTTPAssertions(t *testing.T) *HTTPAssertions {
	return &HTTPAssertions{t: t}
}

// Success asserts a successful envelope and decodes its data into target
func (ha *HTTPAssertions) Success(rec *httptest.ResponseRecorder, expectedCode int, target any) {
	ha.t.Helper()
	require.Equal(ha.t, expectedCode, rec.Code, rec.Body.String())

	var env Envelope
	require.NoError(ha.t, json.Unmarshal(rec.Body.Bytes(), &env))
	assert.True(ha.t, env.Success)
	if target != nil {
		require.NoError(ha.t, json.Unmarshal(env.Data, target))
	}
}

// ErrorCode asserts a failed envelope carrying the given error code
func (ha *HTTPAssertions) ErrorCode(rec *httptest.ResponseRecorder, expectedCode int, code string) {
	ha.t.Helper()
	require.Equal(ha.t, expectedCode, rec.Code, rec.Body.String())

	var env Envelope
	require.NoError(ha.t, json.Unmarshal(rec.Body.Bytes(), &env))
	assert.False(ha.t, env.Success)
	require.NotNil(ha.t, env.Error)
	assert.Equal(ha.t, code, env.Error.Code)
}

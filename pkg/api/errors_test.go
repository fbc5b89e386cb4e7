package api

import (
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeError_FieldErrors(t *testing.T) {
	body := []byte(`{"username": ["This field is required."], "password": ["Too short.", "Too common."]}`)

	apiErr := DecodeError(http.StatusBadRequest, body)

	require.Equal(t, ErrorKindField, apiErr.Kind)
	assert.Equal(t, http.StatusBadRequest, apiErr.Status)
	assert.Equal(t, []string{"This field is required."}, apiErr.Fields["username"])
	assert.Len(t, apiErr.Fields["password"], 2)
	// Error() surfaces the first message per field, fields sorted
	assert.Equal(t, "password: Too short.; username: This field is required.", apiErr.Error())
}

func TestDecodeError_FieldErrors_SingleString(t *testing.T) {
	apiErr := DecodeError(http.StatusBadRequest, []byte(`{"amount": "must be greater than zero"}`))

	require.Equal(t, ErrorKindField, apiErr.Kind)
	assert.Equal(t, []string{"must be greater than zero"}, apiErr.Fields["amount"])
}

func TestDecodeError_Detail(t *testing.T) {
	apiErr := DecodeError(http.StatusUnauthorized, []byte(`{"detail": "Token is invalid or expired"}`))

	require.Equal(t, ErrorKindDetail, apiErr.Kind)
	assert.Equal(t, http.StatusUnauthorized, apiErr.Status)
	assert.Equal(t, "Token is invalid or expired", apiErr.Error())
}

func TestDecodeError_Server(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   []byte
	}{
		{name: "5xx always server kind", status: http.StatusInternalServerError, body: []byte(`{"detail": "boom"}`)},
		{name: "unparseable body", status: http.StatusBadRequest, body: []byte(`<html>gateway</html>`)},
		{name: "empty body", status: http.StatusBadGateway, body: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			apiErr := DecodeError(tt.status, tt.body)
			assert.Equal(t, ErrorKindServer, apiErr.Kind)
			assert.Equal(t, tt.status, apiErr.Status)
		})
	}
}

func TestNetworkError(t *testing.T) {
	apiErr := NetworkError(errors.New("dial tcp: connection refused"))

	assert.Equal(t, ErrorKindNetwork, apiErr.Kind)
	assert.Equal(t, 0, apiErr.Status)
	assert.Contains(t, apiErr.Error(), "network error")
}

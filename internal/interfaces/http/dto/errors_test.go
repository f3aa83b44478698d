package dto

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetHTTPStatus(t *testing.T) {
	tests := []struct {
		code     string
		expected int
	}{
		{ErrCodeInternal, http.StatusInternalServerError},
		{ErrCodeBadRequest, http.StatusBadRequest},
		{ErrCodeValidation, http.StatusBadRequest},
		{ErrCodeUnauthorized, http.StatusUnauthorized},
		{ErrCodeForbidden, http.StatusForbidden},
		{ErrCodeTokenExpired, http.StatusUnauthorized},
		{ErrCodeTokenInvalid, http.StatusUnauthorized},
		{ErrCodeNotFound, http.StatusNotFound},
		{ErrCodeConflict, http.StatusConflict},
		{ErrCodeInvalidState, http.StatusUnprocessableEntity},
		{ErrCodeBusinessRule, http.StatusUnprocessableEntity},
		{"SOMETHING_ELSE", http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			assert.Equal(t, tt.expected, GetHTTPStatus(tt.code))
		})
	}
}

func TestDomainErrorStatus(t *testing.T) {
	assert.Equal(t, http.StatusNotFound, DomainErrorStatus("NOT_FOUND"))
	assert.Equal(t, http.StatusConflict, DomainErrorStatus("DUPLICATE_USERNAME"))
	assert.Equal(t, http.StatusUnauthorized, DomainErrorStatus("INVALID_CREDENTIALS"))
	assert.Equal(t, http.StatusForbidden, DomainErrorStatus("ACCOUNT_INACTIVE"))

	// Unmapped business codes surface as unprocessable entity
	assert.Equal(t, http.StatusUnprocessableEntity, DomainErrorStatus("INVALID_AMOUNT"))
	assert.Equal(t, http.StatusUnprocessableEntity, DomainErrorStatus("INSUFFICIENT_BALANCE"))
}

func TestNewSuccessResponse(t *testing.T) {
	resp := NewSuccessResponse(map[string]string{"name": "Edificio Central"})
	assert.True(t, resp.Success)
	assert.Nil(t, resp.Error)
	assert.Nil(t, resp.Meta)
	assert.NotNil(t, resp.Data)
}

func TestNewSuccessResponseWithMeta(t *testing.T) {
	t.Run("computes total pages with remainder", func(t *testing.T) {
		resp := NewSuccessResponseWithMeta([]int{1, 2, 3}, 25, 1, 10)
		require.NotNil(t, resp.Meta)
		assert.Equal(t, int64(25), resp.Meta.Total)
		assert.Equal(t, 1, resp.Meta.Page)
		assert.Equal(t, 10, resp.Meta.PageSize)
		assert.Equal(t, 3, resp.Meta.TotalPages)
	})

	t.Run("exact division", func(t *testing.T) {
		resp := NewSuccessResponseWithMeta([]int{}, 20, 2, 10)
		require.NotNil(t, resp.Meta)
		assert.Equal(t, 2, resp.Meta.TotalPages)
	})
}

func TestNewErrorResponse(t *testing.T) {
	resp := NewErrorResponse(ErrCodeNotFound, "Invoice not found")
	assert.False(t, resp.Success)
	require.NotNil(t, resp.Error)
	assert.Equal(t, ErrCodeNotFound, resp.Error.Code)
	assert.Equal(t, "Invoice not found", resp.Error.Message)
}

func TestNewErrorResponseWithRequestID(t *testing.T) {
	resp := NewErrorResponseWithRequestID(ErrCodeInternal, "boom", "req-123")
	require.NotNil(t, resp.Error)
	assert.Equal(t, "req-123", resp.Error.RequestID)
}

func TestResponseJSONShape(t *testing.T) {
	resp := NewErrorResponse(ErrCodeForbidden, "No permission for this module")
	raw, err := json.Marshal(resp)
	require.NoError(t, err)

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(raw, &decoded))
	assert.Equal(t, false, decoded["success"])
	assert.NotContains(t, decoded, "data", "empty data must be omitted")
	errObj, ok := decoded["error"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "ERR_FORBIDDEN", errObj["code"])
}

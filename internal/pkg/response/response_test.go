package response

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"castlebooking/internal/pkg/apperror"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type envelope struct {
	Success bool `json:"success"`
	Error   struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func render(t *testing.T, err error) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/x", nil)

	FromError(c, err)

	var body envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return w, body
}

func TestFromError_AppError(t *testing.T) {
	err := fmt.Errorf("wrap: %w", apperror.Forbidden("FORBIDDEN", "You do not have permission to modify this resource"))
	w, body := render(t, err)

	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.False(t, body.Success)
	assert.Equal(t, "FORBIDDEN", body.Error.Code)
}

func TestFromError_UnknownErrorIsHidden(t *testing.T) {
	w, body := render(t, errors.New("pq: connection refused"))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "INTERNAL_ERROR", body.Error.Code)
	assert.NotContains(t, body.Error.Message, "connection refused")
}

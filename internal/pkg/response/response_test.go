package response

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

func TestMessageMergesExtra(t *testing.T) {
	gin.SetMode(gin.TestMode)
	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	Message(c, http.StatusOK, "Login successful", gin.H{"user_id": "u1"})
	require.Equal(t, http.StatusOK, rec.Code)
	require.JSONEq(t, `{"message":"Login successful","user_id":"u1"}`, rec.Body.String())
}

func TestErrorAborts(t *testing.T) {
	gin.SetMode(gin.TestMode)
	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	Error(c, http.StatusUnauthorized, "Invalid credentials")
	require.True(t, c.IsAborted())
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	require.JSONEq(t, `{"error":"Invalid credentials"}`, rec.Body.String())
}

package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"Karma_Forum/internal/pkg"
)

func record(fn func(c *gin.Context)) (*httptest.ResponseRecorder, map[string]any) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	fn(c)

	var body map[string]any
	_ = json.Unmarshal(w.Body.Bytes(), &body)
	return w, body
}

func TestRespondOKEnvelope(t *testing.T) {
	w, body := record(func(c *gin.Context) {
		respondOK(c, http.StatusOK, gin.H{"state": "upvoted"})
	})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "success", body["status"])
	data, ok := body["data"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "upvoted", data["state"])
}

func TestRespondErrBusiness(t *testing.T) {
	w, body := record(func(c *gin.Context) {
		respondErr(c, pkg.ErrAlreadyVoted)
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "fail", body["status"])
	assert.Equal(t, pkg.ErrAlreadyVoted.Error(), body["message"])
}

func TestRespondErrCorrupted(t *testing.T) {
	// 数据损坏属于500档，但message保留便于排查
	w, body := record(func(c *gin.Context) {
		respondErr(c, pkg.ErrVoteCorrupted)
	})
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "error", body["status"])
	assert.Equal(t, pkg.ErrVoteCorrupted.Error(), body["message"])
}

func TestRespondErrUnexpected(t *testing.T) {
	// 非业务错误不泄漏内部细节
	w, body := record(func(c *gin.Context) {
		respondErr(c, errors.New("dial tcp: connection refused"))
	})
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "error", body["status"])
	assert.Equal(t, "internal server error", body["message"])
}

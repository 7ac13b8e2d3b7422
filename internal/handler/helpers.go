package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"

	"github.com/xxxsen/mdesign/internal/middleware"
	appErr "github.com/xxxsen/mdesign/internal/pkg/errors"
	"github.com/xxxsen/mdesign/internal/pkg/response"
)

const (
	msgInvalidRequest     = "invalid request"
	msgEmailExists        = "Email already exists"
	msgInvalidCredentials = "Invalid credentials"
	msgNotFound           = "not found"
	msgInternal           = "internal error"
)

// handleError maps service errors onto the wire contract: a conflict is a
// 400 like any other bad input, bad credentials are a 401.
func handleError(c *gin.Context, err error) {
	if err == nil {
		return
	}
	requestID, _ := c.Get(middleware.ContextRequestIDKey)
	logger := logutil.GetLogger(c.Request.Context()).With(
		zap.Any("request_id", requestID),
		zap.String("method", c.Request.Method),
		zap.String("path", c.Request.URL.Path),
	)
	switch {
	case errors.Is(err, appErr.ErrConflict):
		logger.Info("request rejected", zap.Error(err))
		response.Error(c, http.StatusBadRequest, msgEmailExists)
	case errors.Is(err, appErr.ErrUnauthorized):
		logger.Info("request rejected", zap.Error(err))
		response.Error(c, http.StatusUnauthorized, msgInvalidCredentials)
	case errors.Is(err, appErr.ErrInvalid):
		logger.Info("request rejected", zap.Error(err))
		response.Error(c, http.StatusBadRequest, msgInvalidRequest)
	case errors.Is(err, appErr.ErrNotFound):
		response.Error(c, http.StatusNotFound, msgNotFound)
	case errors.Is(err, appErr.ErrTooLarge):
		logger.Info("request rejected", zap.Error(err))
		response.Error(c, http.StatusRequestEntityTooLarge, err.Error())
	default:
		logger.Error("request failed", zap.Error(err))
		response.Error(c, http.StatusInternalServerError, msgInternal)
	}
}

func requestBaseURL(c *gin.Context) string {
	proto := c.GetHeader("X-Forwarded-Proto")
	if proto == "" {
		if c.Request.TLS != nil {
			proto = "https"
		} else {
			proto = "http"
		}
	}
	host := c.GetHeader("X-Forwarded-Host")
	if host == "" {
		host = c.Request.Host
	}
	return proto + "://" + host
}

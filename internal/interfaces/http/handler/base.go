package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/procurement/budget/internal/infrastructure/logger"
	"github.com/procurement/budget/internal/interfaces/http/dto"
	"github.com/procurement/budget/internal/interfaces/http/middleware"
	"go.uber.org/zap"
)

// BaseHandler provides common handler utilities
type BaseHandler struct{}

// Success sends a success envelope
func (h *BaseHandler) Success(c *gin.Context, data any) {
	c.JSON(http.StatusOK, dto.NewSuccessResponse(data))
}

// HandleError sends a failure envelope. Business and validation failures
// answer HTTP 200; the outcome is carried by success=false and the code.
func (h *BaseHandler) HandleError(c *gin.Context, err error) {
	if err == nil {
		return
	}

	resp := dto.FromError(err)
	code := resp.Errors[0].Code
	c.Set(middleware.ErrorCodeKey, code)

	log := logger.L(c.Request.Context())
	if code == dto.ErrorCode(dto.KindException) {
		log.Error("Request failed", zap.String("code", code), zap.Error(err))
	} else {
		log.Info("Request rejected", zap.String("code", code), zap.String("reason", resp.Errors[0].Message))
	}

	c.JSON(http.StatusOK, resp)
}

// requireQuery returns a required query parameter or a ParamError
func requireQuery(c *gin.Context, name string) (string, error) {
	value := c.Query(name)
	if value == "" {
		return "", &dto.ParamError{Name: name, Reason: "is required"}
	}
	return value, nil
}

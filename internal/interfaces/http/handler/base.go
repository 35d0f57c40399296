package handler

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/grocery/admin/internal/application/state"
	"github.com/grocery/admin/internal/domain/identity"
	"github.com/grocery/admin/internal/domain/shared"
	"github.com/grocery/admin/internal/infrastructure/logger"
	"github.com/grocery/admin/internal/interfaces/http/dto"
	"github.com/grocery/admin/internal/interfaces/http/middleware"
)

const msgUnexpected = "An unexpected error occurred"

// errorCodes maps sentinel errors to API codes; the first match wins
var errorCodes = []struct {
	target error
	code   string
}{
	{shared.ErrConfirmationRequired, dto.ErrCodeConfirmationRequired},
	{identity.ErrSessionNotFound, dto.ErrCodeSessionNotFound},
	{shared.ErrUnauthorized, dto.ErrCodeUnauthorized},
	{shared.ErrNotFound, dto.ErrCodeNotFound},
	{shared.ErrInvalidInput, dto.ErrCodeInvalidInput},
	{shared.ErrInvalidState, dto.ErrCodeInvalidState},
	{shared.ErrUpstreamUnavailable, dto.ErrCodeUpstreamUnavailable},
}

// BaseHandler provides common handler utilities
type BaseHandler struct{}

// getRequestID extracts the request ID from the context
func getRequestID(c *gin.Context) string {
	if id := c.GetString(logger.GinRequestIDKey); id != "" {
		return id
	}
	return c.GetHeader(middleware.RequestIDHeader)
}

// currentSession returns the session placed in the request by the auth middleware
func currentSession(c *gin.Context) *identity.Session {
	sess, _ := identity.SessionFrom(c.Request.Context())
	return sess
}

// Success sends a success response
func (h *BaseHandler) Success(c *gin.Context, data any) {
	c.JSON(http.StatusOK, dto.NewSuccessResponse(data))
}

// SuccessList sends a filtered list with its counts
func (h *BaseHandler) SuccessList(c *gin.Context, data any, total, count int, summary string) {
	c.JSON(http.StatusOK, dto.NewListResponse(data, total, count, summary))
}

// Created sends a 201 created response
func (h *BaseHandler) Created(c *gin.Context, data any) {
	c.JSON(http.StatusCreated, dto.NewSuccessResponse(data))
}

// NoContent sends a 204 no content response
func (h *BaseHandler) NoContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}

// Error sends an error response with the appropriate status code
func (h *BaseHandler) Error(c *gin.Context, statusCode int, code, message string) {
	requestID := getRequestID(c)
	if statusCode == http.StatusUnauthorized {
		c.JSON(statusCode, dto.NewUnauthorizedResponse(code, message, requestID))
		return
	}
	c.JSON(statusCode, dto.NewErrorResponseWithRequestID(code, message, requestID))
}

// BadRequest sends a 400 bad request response
func (h *BaseHandler) BadRequest(c *gin.Context, message string) {
	h.Error(c, http.StatusBadRequest, dto.ErrCodeBadRequest, message)
}

// Unauthorized sends a 401 response that points the dashboard at the login screen
func (h *BaseHandler) Unauthorized(c *gin.Context, message string) {
	h.Error(c, http.StatusUnauthorized, dto.ErrCodeUnauthorized, message)
}

// ValidationError sends a 400 validation error response with details
func (h *BaseHandler) ValidationError(c *gin.Context, err error) {
	middleware.HandleValidationError(c, err)
}

// HandleError converts service errors to HTTP responses. The message is the
// admin-facing one carried by the error, so the dashboard can show it as is.
func (h *BaseHandler) HandleError(c *gin.Context, err error) {
	if err == nil {
		return
	}

	code := errorCode(err)
	status := dto.GetHTTPStatus(code)
	message := state.Message(err, msgUnexpected)
	if status >= http.StatusInternalServerError {
		logger.L(c.Request.Context()).Error("Request failed",
			zap.String("code", code),
			zap.Error(err))
		if code == dto.ErrCodeInternal {
			message = msgUnexpected
		}
	}
	_ = c.Error(err)
	h.Error(c, status, code, message)
}

func errorCode(err error) string {
	for _, ec := range errorCodes {
		if errors.Is(err, ec.target) {
			return ec.code
		}
	}
	var domainErr *shared.DomainError
	if errors.As(err, &domainErr) {
		return dto.NormalizeErrorCode(domainErr.Code)
	}
	return dto.ErrCodeInternal
}

// BindJSON decodes and validates the body, writing the error response on failure
func (h *BaseHandler) BindJSON(c *gin.Context, obj any) bool {
	err := c.ShouldBindJSON(obj)
	if err == nil {
		return true
	}

	var (
		validationErrs validator.ValidationErrors
		syntaxErr      *json.SyntaxError
		typeErr        *json.UnmarshalTypeError
		tooLarge       *http.MaxBytesError
	)
	switch {
	case errors.As(err, &validationErrs):
		h.ValidationError(c, validationErrs)
	case errors.As(err, &tooLarge):
		h.Error(c, http.StatusRequestEntityTooLarge, dto.ErrCodeRequestTooLarge, "Request body exceeds maximum allowed size")
	case errors.As(err, &syntaxErr), errors.As(err, &typeErr), errors.Is(err, io.EOF), errors.Is(err, io.ErrUnexpectedEOF):
		h.Error(c, http.StatusBadRequest, dto.ErrCodeInvalidJSON, "Request body is not valid JSON")
	default:
		h.BadRequest(c, err.Error())
	}
	return false
}

// BindQuery decodes and validates the query string, writing the error response on failure
func (h *BaseHandler) BindQuery(c *gin.Context, obj any) bool {
	err := c.ShouldBindQuery(obj)
	if err == nil {
		return true
	}
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		h.ValidationError(c, validationErrs)
		return false
	}
	h.BadRequest(c, "Invalid query parameters")
	return false
}

// ObjectID returns the :id path parameter when it is a valid object ID
func (h *BaseHandler) ObjectID(c *gin.Context) (string, bool) {
	id := c.Param("id")
	if !primitive.IsValidObjectID(id) {
		h.Error(c, http.StatusBadRequest, dto.ErrCodeInvalidObjectID, "Invalid ID")
		return "", false
	}
	return id, true
}

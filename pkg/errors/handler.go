package errors

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

// ErrorResponse represents the API error response format
type ErrorResponse struct {
	Error     bool                   `json:"error"`
	Type      DomainErrorType        `json:"type"`
	Code      string                 `json:"code"`
	Message   string                 `json:"message"`
	Details   map[string]interface{} `json:"details,omitempty"`
	Errors    map[string][]string    `json:"errors,omitempty"`
	RequestID string                 `json:"request_id,omitempty"`
	Timestamp string                 `json:"timestamp"`
}

// ErrorHandler renders errors as JSON responses
type ErrorHandler struct {
	logger *zap.Logger
	debug  bool
}

// NewErrorHandler creates a new error handler
func NewErrorHandler(logger *zap.Logger, debug bool) *ErrorHandler {
	return &ErrorHandler{
		logger: logger,
		debug:  debug,
	}
}

// Handle processes an error and sends an HTTP response
func (h *ErrorHandler) Handle(w http.ResponseWriter, r *http.Request, err error) {
	if err == nil {
		return
	}

	requestID := middleware.GetReqID(r.Context())

	domainErr := AsDomainError(err)
	if domainErr == nil {
		h.logger.Error("Unhandled error",
			zap.Error(err),
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.String("request_id", requestID),
		)

		message := "An internal error occurred"
		if h.debug {
			message = err.Error()
		}
		h.sendJSON(w, http.StatusInternalServerError, ErrorResponse{
			Error:     true,
			Type:      DomainInternalError,
			Code:      "INTERNAL_ERROR",
			Message:   message,
			RequestID: requestID,
			Timestamp: timeNow().UTC().Format(time.RFC3339),
		})
		return
	}

	status := domainErr.StatusCode()
	response := ErrorResponse{
		Error:     true,
		Type:      domainErr.Type,
		Code:      domainErr.Code,
		Message:   domainErr.Message,
		Details:   domainErr.Details,
		RequestID: requestID,
		Timestamp: timeNow().UTC().Format(time.RFC3339),
	}

	var validationErrs *ValidationErrors
	if ve, ok := err.(*ValidationErrors); ok && len(ve.Errors) > 1 {
		validationErrs = ve
		response.Message = ve.Error()
		response.Errors = ve.ToMap()
	}

	h.logError(r, domainErr, status, validationErrs)
	h.sendJSON(w, status, response)
}

// HandleStatus sends an error response with a specific status code
func (h *ErrorHandler) HandleStatus(w http.ResponseWriter, r *http.Request, status int, message string) {
	errType := DomainValidationError
	if status >= 500 {
		errType = DomainInternalError
	} else if status == http.StatusNotFound {
		errType = DomainNotFoundError
	}

	h.logger.Warn("HTTP error",
		zap.String("method", r.Method),
		zap.String("path", r.URL.Path),
		zap.Int("status", status),
		zap.String("message", message),
	)

	h.sendJSON(w, status, ErrorResponse{
		Error:     true,
		Type:      errType,
		Code:      http.StatusText(status),
		Message:   message,
		RequestID: middleware.GetReqID(r.Context()),
		Timestamp: timeNow().UTC().Format(time.RFC3339),
	})
}

// logError logs a domain error with appropriate level
func (h *ErrorHandler) logError(r *http.Request, err *DomainError, status int, all *ValidationErrors) {
	fields := []zap.Field{
		zap.String("error_type", string(err.Type)),
		zap.String("error_code", err.Code),
		zap.String("method", r.Method),
		zap.String("path", r.URL.Path),
		zap.Int("status", status),
		zap.String("request_id", middleware.GetReqID(r.Context())),
	}

	if err.Cause != nil {
		fields = append(fields, zap.NamedError("cause", err.Cause))
	}
	if len(err.Details) > 0 {
		fields = append(fields, zap.Any("details", err.Details))
	}
	if all != nil {
		fields = append(fields, zap.Int("error_count", len(all.Errors)))
	}

	if status >= 500 {
		h.logger.Error(err.Message, fields...)
		return
	}
	h.logger.Warn(err.Message, fields...)
}

// sendJSON sends a JSON response
func (h *ErrorHandler) sendJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Error("Failed to encode error response", zap.Error(err))
	}
}

// Helper function for testing (can be mocked)
var timeNow = func() time.Time {
	return time.Now()
}

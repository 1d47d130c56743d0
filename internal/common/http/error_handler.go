package http

import (
	"context"
	"net/http"
	"strconv"

	"github.com/sleepr-io/sleepr/backend/internal/common/constants"
	commonerrors "github.com/sleepr-io/sleepr/backend/internal/common/errors"
	"github.com/sleepr-io/sleepr/backend/internal/common/httpmetrics"
	"github.com/sleepr-io/sleepr/backend/internal/common/logger"
	"github.com/sleepr-io/sleepr/backend/internal/observability/metrics"
)

type ErrorHandler struct {
	log *logger.Logger
}

func NewErrorHandler(log *logger.Logger) *ErrorHandler {
	return &ErrorHandler{log: log}
}

func (h *ErrorHandler) HandleError(w http.ResponseWriter, r *http.Request, err error) {
	if err == nil {
		return
	}

	ctx := r.Context()
	traceID := getTraceIDFromContext(ctx)

	if domainErr, ok := commonerrors.AsDomainError(err); ok {
		h.handleDomainError(w, r, domainErr)
		return
	}

	logFields := logger.Fields{
		"error":  err.Error(),
		"action": "unhandled_error",
	}
	if traceID != "" {
		logFields["trace_id"] = traceID
		w.Header().Set("X-Trace-ID", traceID)
	}

	h.log.WithFields(ctx, logFields).Errorf("unhandled error: %v", err)

	metrics.HTTPErrorsTotal.WithLabelValues(
		strconv.Itoa(http.StatusInternalServerError),
		httpmetrics.NormalizePath(r.URL.Path),
		r.Method,
	).Inc()

	WriteError(w, http.StatusInternalServerError, "internal server error")
}

func (h *ErrorHandler) handleDomainError(w http.ResponseWriter, r *http.Request, domainErr commonerrors.DomainError) {
	ctx := r.Context()
	traceID := getTraceIDFromContext(ctx)

	status := domainErr.HTTPStatus()
	message := domainErr.Message()

	logFields := logger.Fields{
		"error_code": domainErr.Code(),
		"category":   string(domainErr.Category()),
		"status":     status,
		"action":     "domain_error",
	}
	if traceID != "" {
		logFields["trace_id"] = traceID
		w.Header().Set("X-Trace-ID", traceID)
	}

	if h.log.ShouldLog(logger.DEBUG) {
		h.log.WithFields(ctx, logFields).Debugf("domain error: %s", domainErr.Error())
	}

	metrics.DomainErrorsTotal.WithLabelValues(
		string(domainErr.Category()),
		domainErr.Code(),
		strconv.Itoa(status),
	).Inc()

	metrics.HTTPErrorsTotal.WithLabelValues(
		strconv.Itoa(status),
		httpmetrics.NormalizePath(r.URL.Path),
		r.Method,
	).Inc()

	WriteErrorEnvelope(w, status, domainErr.Code(), message, nil, traceID)
}

func HandleError(w http.ResponseWriter, r *http.Request, err error, log *logger.Logger) {
	handler := NewErrorHandler(log)
	handler.HandleError(w, r, err)
}

// WriteUnauthorized records the specific failure reason in logs and metrics
// but always sends the same envelope, so callers cannot distinguish expired,
// revoked, and tampered tokens from the response alone.
func WriteUnauthorized(w http.ResponseWriter, r *http.Request, err error, log *logger.Logger) {
	ctx := r.Context()
	traceID := getTraceIDFromContext(ctx)

	code := CodeUnknown
	category := string(commonerrors.CategoryUnauthorized)
	if domainErr, ok := commonerrors.AsDomainError(err); ok {
		code = domainErr.Code()
		category = string(domainErr.Category())
	}

	logFields := logger.Fields{
		"error_code": code,
		"action":     "auth_failure",
	}
	if traceID != "" {
		logFields["trace_id"] = traceID
		w.Header().Set("X-Trace-ID", traceID)
	}
	log.WithFields(ctx, logFields).Warnf("authentication failure: %v", err)

	metrics.DomainErrorsTotal.WithLabelValues(
		category,
		code,
		strconv.Itoa(http.StatusUnauthorized),
	).Inc()

	metrics.HTTPErrorsTotal.WithLabelValues(
		strconv.Itoa(http.StatusUnauthorized),
		httpmetrics.NormalizePath(r.URL.Path),
		r.Method,
	).Inc()

	WriteErrorEnvelope(w, http.StatusUnauthorized, CodeUnauthorized, "authentication required", nil, traceID)
}

func getTraceIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	val := ctx.Value(constants.TraceIDKey)
	if val == nil {
		return ""
	}
	traceID, ok := val.(string)
	if !ok || traceID == "" {
		return ""
	}
	return traceID
}

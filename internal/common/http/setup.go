package http

import (
	"net/http"

	"github.com/sleepr-io/sleepr/backend/internal/common/constants"
	"github.com/sleepr-io/sleepr/backend/internal/common/httpmetrics"
	"github.com/sleepr-io/sleepr/backend/internal/common/logger"
)

// BuildBaseHandler wraps handler in the shared middleware stack: security
// headers, panic recovery, trace propagation, body limits, and per-service
// request metrics, outermost first.
func BuildBaseHandler(appName string, log *logger.Logger, handler http.Handler) http.Handler {
	metrics := httpmetrics.New(appName)
	recovery := RecoveryMiddleware(log)
	maxRequestSize := MaxRequestSizeMiddleware(constants.DefaultMaxRequestSize)

	return SecurityHeadersMiddleware(recovery(TraceIDMiddleware(maxRequestSize(metrics.Wrap(handler)))))
}

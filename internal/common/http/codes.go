package http

const (
	CodeUnknown             = "UNKNOWN"
	CodeMethodNotAllowed    = "METHOD_NOT_ALLOWED"
	CodeInvalidJSON         = "INVALID_JSON"
	CodeBadRequest          = "BAD_REQUEST"
	CodeInvalidPath         = "INVALID_PATH"
	CodeValidationFailed    = "VALIDATION_FAILED"
	CodeUnauthorized        = "UNAUTHORIZED"
	CodeMissingToken        = "MISSING_TOKEN"
	CodeInvalidToken        = "INVALID_TOKEN"
	CodeTokenRevoked        = "TOKEN_REVOKED"
	CodeMissingRefreshToken = "MISSING_REFRESH_TOKEN"
)

package service

import (
	"net/http"

	commonerrors "github.com/sleepr-io/sleepr/backend/internal/common/errors"
)

// All credential and token failures carry the same HTTP status and a
// deliberately uniform external message; the code distinguishes them for
// logs and metrics only.
var (
	ErrInvalidCredentials = commonerrors.NewDomainError(
		"INVALID_CREDENTIALS",
		commonerrors.CategoryUnauthorized,
		http.StatusUnauthorized,
		"invalid email or password",
	)

	ErrMissingToken = commonerrors.NewDomainError(
		"MISSING_TOKEN",
		commonerrors.CategoryUnauthorized,
		http.StatusUnauthorized,
		"authentication token required",
	)

	ErrInvalidToken = commonerrors.NewDomainError(
		"INVALID_TOKEN",
		commonerrors.CategoryUnauthorized,
		http.StatusUnauthorized,
		"authentication token is invalid or expired",
	)

	ErrTokenRevoked = commonerrors.NewDomainError(
		"TOKEN_REVOKED",
		commonerrors.CategoryUnauthorized,
		http.StatusUnauthorized,
		"authentication token has been revoked",
	)
)

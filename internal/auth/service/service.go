package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/sleepr-io/sleepr/backend/internal/auth/domain"
	"github.com/sleepr-io/sleepr/backend/internal/auth/revocation"
	"github.com/sleepr-io/sleepr/backend/internal/auth/token"
	"github.com/sleepr-io/sleepr/backend/internal/common/clock"
	"github.com/sleepr-io/sleepr/backend/internal/common/constants"
	commoncrypto "github.com/sleepr-io/sleepr/backend/internal/common/crypto"
	"github.com/sleepr-io/sleepr/backend/internal/common/logger"
	"github.com/sleepr-io/sleepr/backend/internal/observability/metrics"
	userdomain "github.com/sleepr-io/sleepr/backend/internal/user/domain"
	userrepo "github.com/sleepr-io/sleepr/backend/internal/user/repository"
)

// Blocklist is the slice of the revocation store the session manager needs.
type Blocklist interface {
	RevokeRecord(rec revocation.Record)
	IsRevoked(token string) bool
}

// UserDirectory resolves credentials to user records. Backed by the user
// repository in production, by a function-field mock in tests.
type UserDirectory interface {
	FindByEmail(ctx context.Context, email string) (userdomain.User, error)
}

// LoginNotifier delivers the "new login" alert. Failures are logged and
// never surfaced to the caller.
type LoginNotifier interface {
	SendLoginAlert(ctx context.Context, email string, at time.Time) error
}

// SessionManager owns the session lifecycle: login issues an access/refresh
// pair, refresh rotates the access token, logout blocklists whatever tokens
// the client still holds.
type SessionManager struct {
	users      UserDirectory
	hasher     commoncrypto.PasswordHasher
	codec      token.Codec
	blocklist  Blocklist
	notifier   LoginNotifier
	clock      clock.Clock
	log        *logger.Logger
	accessTTL  time.Duration
	refreshTTL time.Duration
}

func NewSessionManager(
	users UserDirectory,
	hasher commoncrypto.PasswordHasher,
	codec token.Codec,
	blocklist Blocklist,
	notifier LoginNotifier,
	clk clock.Clock,
	log *logger.Logger,
	accessTTL time.Duration,
	refreshTTL time.Duration,
) *SessionManager {
	return &SessionManager{
		users:      users,
		hasher:     hasher,
		codec:      codec,
		blocklist:  blocklist,
		notifier:   notifier,
		clock:      clk,
		log:        log,
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
	}
}

// Login authenticates the credentials and issues a fresh token pair. Bad
// email and bad password are indistinguishable to the caller.
func (m *SessionManager) Login(ctx context.Context, email, password string) (domain.TokenPair, error) {
	m.log.WithFields(ctx, logger.Fields{
		"email":  email,
		"action": "login_attempt",
	}).Info("login attempt")

	user, err := m.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, userrepo.ErrUserNotFound) {
			m.log.WithFields(ctx, logger.Fields{
				"email":  email,
				"action": "login_unknown_email",
			}).Warn("login failed: unknown email")
			return domain.TokenPair{}, ErrInvalidCredentials
		}
		return domain.TokenPair{}, err
	}

	if err := m.hasher.Compare(user.PasswordHash, password); err != nil {
		m.log.WithFields(ctx, logger.Fields{
			"email":  email,
			"action": "login_bad_password",
		}).Warn("login failed: password mismatch")
		return domain.TokenPair{}, ErrInvalidCredentials
	}

	principal := domain.Principal{ID: string(user.ID), Email: user.Email}

	pair, err := m.issuePair(principal)
	if err != nil {
		m.log.WithFields(ctx, logger.Fields{
			"email":  email,
			"action": "login_sign_failed",
		}).Errorf("login failed: token signing error: %v", err)
		return domain.TokenPair{}, err
	}

	metrics.AccessTokensIssued.Inc()
	metrics.RefreshTokensIssued.Inc()

	m.log.WithFields(ctx, logger.Fields{
		"email":   email,
		"user_id": string(user.ID),
		"action":  "login_success",
	}).Info("login succeeded")

	if m.notifier != nil {
		go m.notifyLogin(user.Email, m.clock.Now())
	}

	return pair, nil
}

// Refresh exchanges a live refresh token for a new access token. The
// blocklist is consulted before any cryptographic verification, so a revoked
// token fails with the revoked reason even when it would not parse.
func (m *SessionManager) Refresh(ctx context.Context, refreshToken string) (string, error) {
	if refreshToken == "" {
		return "", ErrMissingToken
	}

	if m.blocklist.IsRevoked(refreshToken) {
		m.log.WithFields(ctx, logger.Fields{
			"action": "refresh_revoked_token",
		}).Warn("refresh rejected: token is blocklisted")
		return "", ErrTokenRevoked
	}

	claims, err := m.codec.Verify(refreshToken)
	if err != nil {
		m.log.WithFields(ctx, logger.Fields{
			"action": "refresh_invalid_token",
		}).Warnf("refresh rejected: %v", err)
		return "", ErrInvalidToken.WithCause(err)
	}

	accessToken, err := m.codec.Sign(claims.Principal(), m.accessTTL)
	if err != nil {
		return "", err
	}

	metrics.AccessTokensIssued.Inc()

	m.log.WithFields(ctx, logger.Fields{
		"user_id": claims.UserID,
		"action":  "refresh_success",
	}).Info("access token rotated")

	return accessToken, nil
}

// Logout blocklists the supplied tokens for the rest of their lifetimes. A
// token that does not verify is skipped silently; logout itself never fails.
// The returned set records which tokens were actually revoked.
func (m *SessionManager) Logout(ctx context.Context, refreshToken, accessToken string) domain.RevokedSet {
	var revoked domain.RevokedSet

	revoked.RefreshToken = m.revokeIfValid(ctx, refreshToken, domain.TokenTypeRefresh)
	revoked.AccessToken = m.revokeIfValid(ctx, accessToken, domain.TokenTypeAccess)

	m.log.WithFields(ctx, logger.Fields{
		"refresh_revoked": revoked.RefreshToken,
		"access_revoked":  revoked.AccessToken,
		"action":          "logout",
	}).Info("logout processed")

	return revoked
}

// issuePair signs the access and refresh tokens concurrently. Both must
// succeed for the pair to be returned.
func (m *SessionManager) issuePair(principal domain.Principal) (domain.TokenPair, error) {
	var wg sync.WaitGroup
	var pair domain.TokenPair
	var accessErr, refreshErr error

	wg.Add(2)
	go func() {
		defer wg.Done()
		pair.AccessToken, accessErr = m.codec.Sign(principal, m.accessTTL)
	}()
	go func() {
		defer wg.Done()
		pair.RefreshToken, refreshErr = m.codec.Sign(principal, m.refreshTTL)
	}()
	wg.Wait()

	if accessErr != nil {
		return domain.TokenPair{}, accessErr
	}
	if refreshErr != nil {
		return domain.TokenPair{}, refreshErr
	}

	return pair, nil
}

func (m *SessionManager) revokeIfValid(ctx context.Context, tok string, tokenType domain.TokenType) bool {
	if tok == "" {
		return false
	}

	claims, err := m.codec.Verify(tok)
	if err != nil {
		m.log.WithFields(ctx, logger.Fields{
			"token_type": string(tokenType),
			"action":     "logout_skip_invalid",
		}).Debugf("logout skipping unverifiable token: %v", err)
		return false
	}

	m.blocklist.RevokeRecord(revocation.Record{
		Token:     tok,
		ExpiresAt: claims.ExpiresAt,
		UserID:    claims.UserID,
		TokenType: tokenType,
	})
	return true
}

func (m *SessionManager) notifyLogin(email string, at time.Time) {
	ctx, cancel := context.WithTimeout(context.Background(), constants.NotificationSendTimeout)
	defer cancel()

	if err := m.notifier.SendLoginAlert(ctx, email, at); err != nil {
		metrics.LoginNotificationsFailed.Inc()
		m.log.WithFields(ctx, logger.Fields{
			"email":  email,
			"action": "login_notification_failed",
		}).Warnf("login notification not delivered: %v", err)
	}
}

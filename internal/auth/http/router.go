package http

import (
	"context"
	"net/http"
	"time"

	"github.com/sleepr-io/sleepr/backend/internal/auth/guard"
	"github.com/sleepr-io/sleepr/backend/internal/auth/service"
	commonerrors "github.com/sleepr-io/sleepr/backend/internal/common/errors"
	commonhttp "github.com/sleepr-io/sleepr/backend/internal/common/http"
	"github.com/sleepr-io/sleepr/backend/internal/common/logger"
)

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

type logoutRequest struct {
	RefreshToken string `json:"refresh_token"`
	AccessToken  string `json:"access_token"`
}

type tokenPairResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

type accessTokenResponse struct {
	AccessToken string `json:"access_token"`
}

type messageResponse struct {
	Message string `json:"message"`
}

type Handler struct {
	sessions *service.SessionManager
	log      *logger.Logger
}

// NewHandler mounts the session-lifecycle routes. The three lifecycle
// endpoints are public by definition; gate registration happens in Mount so
// the bypass list and the mux can never drift apart.
func NewHandler(sessions *service.SessionManager, log *logger.Logger) *Handler {
	return &Handler{sessions: sessions, log: log}
}

func (h *Handler) Mount(mux *http.ServeMux, gate *guard.Gate) {
	mux.HandleFunc("/api/auth/login", h.login)
	mux.HandleFunc("/api/auth/refresh", h.refresh)
	mux.HandleFunc("/api/auth/logout", h.logout)

	gate.AllowPublic(http.MethodPost, "/api/auth/login")
	gate.AllowPublic(http.MethodPost, "/api/auth/refresh")
	gate.AllowPublic(http.MethodPost, "/api/auth/logout")
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		commonhttp.WriteErrorEnvelope(w, http.StatusMethodNotAllowed, commonhttp.CodeMethodNotAllowed, "method not allowed", nil, "")
		return
	}

	var req loginRequest
	if err := commonhttp.DecodeJSON(r, &req); err != nil {
		h.log.Warnf("login failed: invalid json: %v", err)
		commonhttp.WriteErrorEnvelope(w, http.StatusBadRequest, commonhttp.CodeInvalidJSON, "invalid json", nil, "")
		return
	}

	if details, err := commonhttp.ValidateStruct(req); err != nil {
		commonhttp.WriteErrorEnvelope(w, http.StatusBadRequest, commonhttp.CodeValidationFailed, "validation failed", details, "")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	pair, err := h.sessions.Login(ctx, req.Email, req.Password)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	commonhttp.WriteJSON(w, http.StatusOK, tokenPairResponse{
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
	})
}

func (h *Handler) refresh(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		commonhttp.WriteErrorEnvelope(w, http.StatusMethodNotAllowed, commonhttp.CodeMethodNotAllowed, "method not allowed", nil, "")
		return
	}

	var req refreshRequest
	if err := commonhttp.DecodeJSON(r, &req); err != nil {
		h.log.Warnf("refresh failed: invalid json: %v", err)
		commonhttp.WriteErrorEnvelope(w, http.StatusBadRequest, commonhttp.CodeInvalidJSON, "invalid json", nil, "")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	accessToken, err := h.sessions.Refresh(ctx, req.RefreshToken)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	commonhttp.WriteJSON(w, http.StatusOK, accessTokenResponse{AccessToken: accessToken})
}

// logout always answers 200: a client that wants out is out, whatever state
// its tokens are in.
func (h *Handler) logout(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		commonhttp.WriteErrorEnvelope(w, http.StatusMethodNotAllowed, commonhttp.CodeMethodNotAllowed, "method not allowed", nil, "")
		return
	}

	var req logoutRequest
	if err := commonhttp.DecodeJSON(r, &req); err != nil {
		h.log.Debugf("logout with undecodable body: %v", err)
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	h.sessions.Logout(ctx, req.RefreshToken, req.AccessToken)

	commonhttp.WriteJSON(w, http.StatusOK, messageResponse{Message: "Successfully logged out"})
}

// writeError collapses every credential and token failure into the shared
// opaque 401; anything else goes through the regular domain-error path.
func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	if de, ok := commonerrors.AsDomainError(err); ok && de.Category() == commonerrors.CategoryUnauthorized {
		commonhttp.WriteUnauthorized(w, r, err, h.log)
		return
	}
	commonhttp.HandleError(w, r, err, h.log)
}

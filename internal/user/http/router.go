package http

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/sleepr-io/sleepr/backend/internal/auth/guard"
	commonhttp "github.com/sleepr-io/sleepr/backend/internal/common/http"
	"github.com/sleepr-io/sleepr/backend/internal/common/logger"
	"github.com/sleepr-io/sleepr/backend/internal/user/domain"
	"github.com/sleepr-io/sleepr/backend/internal/user/service"
)

type createUserRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

type userResponse struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}

type Handler struct {
	users *service.UserService
	log   *logger.Logger
}

func NewHandler(users *service.UserService, log *logger.Logger) *Handler {
	return &Handler{users: users, log: log}
}

// Mount registers the user routes. Registration is public; listing requires
// a live bearer token.
func (h *Handler) Mount(mux *http.ServeMux, gate *guard.Gate) {
	mux.HandleFunc("/api/users", h.handleUsers)
	gate.AllowPublic(http.MethodPost, "/api/users")
}

func (h *Handler) handleUsers(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		h.create(w, r)
	case http.MethodGet:
		h.list(w, r)
	default:
		commonhttp.WriteErrorEnvelope(w, http.StatusMethodNotAllowed, commonhttp.CodeMethodNotAllowed, "method not allowed", nil, "")
	}
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var req createUserRequest
	if err := commonhttp.DecodeJSON(r, &req); err != nil {
		h.log.Warnf("create user failed: invalid json: %v", err)
		commonhttp.WriteErrorEnvelope(w, http.StatusBadRequest, commonhttp.CodeInvalidJSON, "invalid json", nil, "")
		return
	}

	if details, err := commonhttp.ValidateStruct(req); err != nil {
		commonhttp.WriteErrorEnvelope(w, http.StatusBadRequest, commonhttp.CodeValidationFailed, "validation failed", details, "")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	summary, err := h.users.CreateUser(ctx, service.CreateUserInput{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		commonhttp.HandleError(w, r, err, h.log)
		return
	}

	commonhttp.WriteJSON(w, http.StatusCreated, toUserResponse(summary))
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	limit := queryInt(r, "limit", 50)
	offset := queryInt(r, "offset", 0)

	summaries, err := h.users.ListUsers(ctx, limit, offset)
	if err != nil {
		commonhttp.HandleError(w, r, err, h.log)
		return
	}

	out := make([]userResponse, 0, len(summaries))
	for _, s := range summaries {
		out = append(out, toUserResponse(s))
	}
	commonhttp.WriteJSON(w, http.StatusOK, out)
}

func toUserResponse(s domain.Summary) userResponse {
	return userResponse{ID: string(s.ID), Email: s.Email, CreatedAt: s.CreatedAt}
}

func queryInt(r *http.Request, key string, def int) int {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return def
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return def
	}
	return n
}

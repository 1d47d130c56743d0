package guard

import (
	"context"
	"net/http"
	"strings"

	"github.com/sleepr-io/sleepr/backend/internal/auth/service"
	"github.com/sleepr-io/sleepr/backend/internal/auth/token"
	commonhttp "github.com/sleepr-io/sleepr/backend/internal/common/http"
	"github.com/sleepr-io/sleepr/backend/internal/common/logger"
)

type contextKey string

const claimsKey contextKey = "auth_claims"

// RevocationChecker is the read side of the blocklist; the gate never
// revokes, it only asks.
type RevocationChecker interface {
	IsRevoked(token string) bool
}

// Gate is the bearer-token middleware for protected routes. Routes
// registered as public bypass it entirely, before any header inspection.
type Gate struct {
	codec   token.Codec
	checker RevocationChecker
	log     *logger.Logger
	public  map[string]bool
}

func NewGate(codec token.Codec, checker RevocationChecker, log *logger.Logger) *Gate {
	return &Gate{
		codec:   codec,
		checker: checker,
		log:     log,
		public:  make(map[string]bool),
	}
}

// AllowPublic marks method+path combinations that skip authentication.
func (g *Gate) AllowPublic(method, path string) {
	g.public[method+" "+path] = true
}

func (g *Gate) isPublic(r *http.Request) bool {
	return g.public[r.Method+" "+r.URL.Path]
}

// Middleware authenticates every request that is not explicitly public. On
// success the verified claims travel down the chain via the request context.
func (g *Gate) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if g.isPublic(r) {
			next.ServeHTTP(w, r)
			return
		}

		raw, err := extractBearer(r)
		if err != nil {
			commonhttp.WriteUnauthorized(w, r, err, g.log)
			return
		}

		claims, err := g.codec.Verify(raw)
		if err != nil {
			commonhttp.WriteUnauthorized(w, r, service.ErrInvalidToken.WithCause(err), g.log)
			return
		}

		if g.checker.IsRevoked(raw) {
			commonhttp.WriteUnauthorized(w, r, service.ErrTokenRevoked, g.log)
			return
		}

		ctx := context.WithValue(r.Context(), claimsKey, claims)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// FromContext returns the claims the gate attached, if any.
func FromContext(ctx context.Context) (token.Claims, bool) {
	claims, ok := ctx.Value(claimsKey).(token.Claims)
	return claims, ok
}

func extractBearer(r *http.Request) (string, error) {
	header := r.Header.Get("Authorization")
	if header == "" {
		return "", service.ErrMissingToken
	}

	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || parts[1] == "" {
		return "", service.ErrMissingToken
	}

	return parts[1], nil
}

package domain

// Principal is the authenticated user reference embedded in every issued
// token. The full user record stays with the user directory; only the id
// travels in claims.
type Principal struct {
	ID    string
	Email string
}

type TokenPair struct {
	AccessToken  string
	RefreshToken string
}

// RevokedSet reports which of the two tokens passed to logout were actually
// added to the blocklist. Logout itself never fails; this is observability.
type RevokedSet struct {
	RefreshToken bool
	AccessToken  bool
}

type TokenType string

const (
	TokenTypeAccess  TokenType = "access"
	TokenTypeRefresh TokenType = "refresh"
)

package httpmetrics

import "testing"

func TestNormalizePath(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"", "/"},
		{"/api/auth/login", "/api/auth/login"},
		{"/api/reservations/550e8400-e29b-41d4-a716-446655440000", "/api/reservations/{param}"},
		{"/api/users/42", "/api/users/{param}"},
		{"/health", "/health"},
	}

	for _, tc := range cases {
		if got := NormalizePath(tc.in); got != tc.want {
			t.Errorf("NormalizePath(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

package notification

import (
	"strings"
	"testing"
)

func TestRenderEmail(t *testing.T) {
	html := renderEmail("New login detected", "Jan 15, 2026 12:00 UTC", "A new login was recorded.")

	for _, want := range []string{
		"New login detected",
		"Jan 15, 2026 12:00 UTC",
		"A new login was recorded.",
	} {
		if !strings.Contains(html, want) {
			t.Errorf("expected rendered email to contain %q", want)
		}
	}

	if strings.Contains(html, "{{") {
		t.Error("expected all placeholders to be substituted")
	}
}

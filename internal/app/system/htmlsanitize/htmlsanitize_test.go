package htmlsanitize_test

import (
	"strings"
	"testing"

	"github.com/dalemusser/lorehub/internal/app/system/htmlsanitize"
)

func TestContent_StripsScripts(t *testing.T) {
	in := `<p>Chapter one</p><script>alert("x")</script>`
	out := htmlsanitize.Content(in)

	if strings.Contains(out, "script") {
		t.Errorf("script tag survived sanitation: %q", out)
	}
	if !strings.Contains(out, "<p>Chapter one</p>") {
		t.Errorf("benign markup was removed: %q", out)
	}
}

func TestContent_KeepsFormatting(t *testing.T) {
	in := `<strong>bold</strong> and <em>italic</em>`
	out := htmlsanitize.Content(in)

	if out != in {
		t.Errorf("formatting markup altered: got %q, want %q", out, in)
	}
}

func TestContent_StripsEventHandlers(t *testing.T) {
	in := `<img src="x.png" onerror="alert(1)">`
	out := htmlsanitize.Content(in)

	if strings.Contains(out, "onerror") {
		t.Errorf("event handler survived sanitation: %q", out)
	}
}

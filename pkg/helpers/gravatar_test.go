package helpers

import (
	"strings"
	"testing"
)

func TestGravatarURL_Normalizes(t *testing.T) {
	a := GravatarURL("Someone@Example.COM")
	b := GravatarURL("  someone@example.com ")
	if a != b {
		t.Errorf("GravatarURL should normalize case and whitespace: %q != %q", a, b)
	}
}

func TestGravatarURL_Shape(t *testing.T) {
	u := GravatarURL("someone@example.com")
	if !strings.HasPrefix(u, "https://www.gravatar.com/avatar/") {
		t.Errorf("unexpected prefix: %q", u)
	}
	if !strings.HasSuffix(u, "?s=200&r=pg&d=mm") {
		t.Errorf("unexpected options: %q", u)
	}
}

package buildinfo

import (
	"strings"
	"testing"
)

func TestString(t *testing.T) {
	s := String()
	for _, want := range []string{"version: " + Version, "commit: " + Commit, "built: " + Date} {
		if !strings.Contains(s, want) {
			t.Errorf("String() missing %q", want)
		}
	}
}

func TestUserAgent(t *testing.T) {
	if got := UserAgent(); got != "treecharts/"+Version {
		t.Errorf("UserAgent() = %q", got)
	}
}

package sessions

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGenerateAdminPasswordShape(t *testing.T) {
	for i := 0; i < 100; i++ {
		pw := generateAdminPassword()
		assert.Len(t, pw, adminPasswordLength)
		for _, r := range pw {
			assert.True(t, strings.ContainsRune(adminPasswordCharset, r),
				"unexpected character %q in password %q", r, pw)
		}
	}
}

func TestGenerateAdminPasswordVaries(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 50; i++ {
		seen[generateAdminPassword()] = true
	}
	assert.Greater(t, len(seen), 1)
}

package security

import (
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateSecureTokenUniqueness(t *testing.T) {
	const n = 10000

	seen := make(map[string]bool, n)
	for i := 0; i < n; i++ {
		token := GenerateSecureToken("")
		require.True(t, strings.HasPrefix(token, "invitation_"), "token %q missing prefix", token)
		require.False(t, seen[token], "token collision after %d tokens", i)
		seen[token] = true
	}
}

func TestGenerateSecureTokenCustomPrefix(t *testing.T) {
	token := GenerateSecureToken("reminder_")
	assert.True(t, strings.HasPrefix(token, "reminder_"))
	// prefix + 16 random bytes hex encoded
	assert.Len(t, token, len("reminder_")+32)
}

func TestIsValidEmail(t *testing.T) {
	valid := []string{"a@b.co", "jordan.lee+tag@example.org", "x_y@sub.domain.io"}
	invalid := []string{"", "   ", "plainaddress", "@no-local.org", "user@", "user@domain", "user @domain.com"}

	for _, e := range valid {
		assert.Truef(t, IsValidEmail(e), "expected %q valid", e)
	}
	for _, e := range invalid {
		assert.Falsef(t, IsValidEmail(e), "expected %q invalid", e)
	}
}

func TestInvitationLimiterThreshold(t *testing.T) {
	limiter := NewInvitationLimiter(3, time.Hour)

	for i := 0; i < 3; i++ {
		res := limiter.Check("10.0.0.1")
		require.Truef(t, res.Allowed, "attempt %d should pass", i+1)
	}

	res := limiter.Check("10.0.0.1")
	assert.False(t, res.Allowed)
	assert.Greater(t, res.RetryAfter, time.Duration(0))

	// Other identifiers are unaffected.
	assert.True(t, limiter.Check("10.0.0.2").Allowed)
}

func TestInvitationLimiterConcurrentCheck(t *testing.T) {
	limiter := NewInvitationLimiter(50, time.Hour)

	var wg sync.WaitGroup
	var mu sync.Mutex
	allowed := 0

	for i := 0; i < 200; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if limiter.Check("shared").Allowed {
				mu.Lock()
				allowed++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	// check-and-increment is atomic: exactly the burst passes.
	assert.Equal(t, 50, allowed)
}

func TestValidateInvitationCreation(t *testing.T) {
	limiter := NewInvitationLimiter(1, time.Hour)

	res := ValidateInvitationCreation("session-1", "advisor@example.com", "ip-1", limiter)
	assert.True(t, res.IsValid)
	assert.Empty(t, res.Errors)

	// Second attempt trips the limiter; a bad email and blank session stack up.
	res = ValidateInvitationCreation("", "not-an-email", "ip-1", limiter)
	assert.False(t, res.IsValid)
	assert.Len(t, res.Errors, 3)
}

func TestValidateInvitationCreationWithoutLimiter(t *testing.T) {
	res := ValidateInvitationCreation("session-1", "advisor@example.com", "ip-1", nil)
	assert.True(t, res.IsValid)
}

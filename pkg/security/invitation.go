package security

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"regexp"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// DefaultTokenPrefix is used when no prefix is supplied to GenerateSecureToken.
const DefaultTokenPrefix = "invitation_"

var emailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

// IsValidEmail performs a syntactic email check.
func IsValidEmail(email string) bool {
	email = strings.TrimSpace(email)
	if email == "" || len(email) > 254 {
		return false
	}
	return emailPattern.MatchString(email)
}

// GenerateSecureToken returns a cryptographically random token with the given
// prefix (DefaultTokenPrefix when empty). 128 bits of entropy make collisions
// between calls practically impossible.
func GenerateSecureToken(prefix string) string {
	if prefix == "" {
		prefix = DefaultTokenPrefix
	}
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		// crypto/rand never fails on supported platforms
		panic(fmt.Sprintf("secure token generation: %v", err))
	}
	return prefix + hex.EncodeToString(b)
}

// RateLimitResult reports a limiter decision. RetryAfter is set only when the
// request was rejected.
type RateLimitResult struct {
	Allowed    bool
	RetryAfter time.Duration
}

type clientBucket struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// InvitationLimiter tracks invitation-creation attempts per client identifier
// inside a sliding window. Check is an atomic check-and-increment: two
// concurrent calls for the same identifier can never both pass a bucket with
// one token left.
type InvitationLimiter struct {
	mu      sync.Mutex
	clients map[string]*clientBucket
	max     int
	window  time.Duration
}

func NewInvitationLimiter(maxAttempts int, window time.Duration) *InvitationLimiter {
	l := &InvitationLimiter{
		clients: make(map[string]*clientBucket),
		max:     maxAttempts,
		window:  window,
	}
	go l.cleanupLoop()
	return l
}

// Check consumes one attempt for the identifier, reporting whether it was
// within the limit and how long to wait otherwise.
func (l *InvitationLimiter) Check(clientID string) RateLimitResult {
	l.mu.Lock()
	b, ok := l.clients[clientID]
	if !ok {
		b = &clientBucket{
			limiter: rate.NewLimiter(rate.Every(l.window/time.Duration(l.max)), l.max),
		}
		l.clients[clientID] = b
	}
	b.lastSeen = time.Now()
	l.mu.Unlock()

	res := b.limiter.Reserve()
	if !res.OK() {
		return RateLimitResult{Allowed: false, RetryAfter: l.window}
	}
	if delay := res.Delay(); delay > 0 {
		res.Cancel()
		return RateLimitResult{Allowed: false, RetryAfter: delay}
	}
	return RateLimitResult{Allowed: true}
}

func (l *InvitationLimiter) cleanupLoop() {
	expiry := l.window * 3
	if expiry < time.Minute {
		expiry = time.Minute
	}
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()
	for range ticker.C {
		l.mu.Lock()
		for id, b := range l.clients {
			if time.Since(b.lastSeen) > expiry {
				delete(l.clients, id)
			}
		}
		l.mu.Unlock()
	}
}

// ValidationResult aggregates invitation-creation check failures.
type ValidationResult struct {
	IsValid bool
	Errors  []string
}

// ValidateInvitationCreation composes the syntactic email check with the
// rate-limit check. A nil limiter skips rate limiting.
func ValidateInvitationCreation(sessionID, advisorEmail, clientID string, limiter *InvitationLimiter) ValidationResult {
	var errs []string

	if strings.TrimSpace(sessionID) == "" {
		errs = append(errs, "session id is required")
	}
	if !IsValidEmail(advisorEmail) {
		errs = append(errs, "advisor email is not a valid address")
	}
	if limiter != nil {
		if res := limiter.Check(clientID); !res.Allowed {
			errs = append(errs, fmt.Sprintf("too many invitation attempts, retry in %s", res.RetryAfter.Round(time.Second)))
		}
	}

	return ValidationResult{IsValid: len(errs) == 0, Errors: errs}
}

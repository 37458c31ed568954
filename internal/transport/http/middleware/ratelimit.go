package middleware

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"hrconsole/internal/transport/http/api"
)

const emailPeekLimit = 64 << 10

type keyFunc func(r *http.Request) string

type RateLimitOption func(*rateLimiter)

type window struct {
	hits  int
	until time.Time
}

// rateLimiter counts hits per key in fixed windows.
type rateLimiter struct {
	mu     sync.Mutex
	limit  int
	period time.Duration
	key    keyFunc
	seen   map[string]*window
	now    func() time.Time
}

func newRateLimiter(limit int, period time.Duration, key keyFunc) *rateLimiter {
	return &rateLimiter{
		limit:  limit,
		period: period,
		key:    key,
		seen:   make(map[string]*window),
		now:    time.Now,
	}
}

// RateLimit limits every request, keyed by the signed-in user or else the
// client address.
func RateLimit(limit int, period time.Duration, opts ...RateLimitOption) func(http.Handler) http.Handler {
	rl := newRateLimiter(limit, period, userOrAddress)
	for _, opt := range opts {
		opt(rl)
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if rl.admit(w, r) {
				next.ServeHTTP(w, r)
			}
		})
	}
}

// limitRule binds a set of mutating API routes to the limiters guarding them.
type limitRule struct {
	match    func(path string) bool
	limiters []*rateLimiter
}

// SensitiveRateLimit guards login and MFA calls per address and per email at
// a quarter of base, and the expensive console calls (imports, exports, store
// refresh, AI filtering) per user at half of base. Everything else passes.
func SensitiveRateLimit(base int, period time.Duration) func(http.Handler) http.Handler {
	signIn := max(base/4, 1)
	heavy := max(base/2, 1)
	rules := []limitRule{
		{
			match: func(p string) bool { return p == "/auth/login" || strings.HasPrefix(p, "/auth/mfa/") },
			limiters: []*rateLimiter{
				newRateLimiter(signIn, period, clientIPKey),
				newRateLimiter(signIn, period, emailOrAddress),
			},
		},
		{
			match: func(p string) bool {
				switch p {
				case "/skills/bulk-import", "/matrix/skills/export", "/matrix/certificates/export", "/matrix/refresh", "/ai/filter":
					return true
				}
				return false
			},
			limiters: []*rateLimiter{newRateLimiter(heavy, period, userOrAddress)},
		},
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if rule := ruleFor(rules, r); rule != nil {
				for _, rl := range rule.limiters {
					if !rl.admit(w, r) {
						return
					}
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}

func ruleFor(rules []limitRule, r *http.Request) *limitRule {
	switch r.Method {
	case http.MethodPost, http.MethodPut, http.MethodDelete:
	default:
		return nil
	}
	path := strings.TrimPrefix(strings.TrimSpace(r.URL.Path), "/api")
	for i := range rules {
		if rules[i].match(path) {
			return &rules[i]
		}
	}
	return nil
}

// admit records a hit and writes the 429 response when the key is over its
// limit. A non-positive limit disables the limiter.
func (rl *rateLimiter) admit(w http.ResponseWriter, r *http.Request) bool {
	if rl.limit <= 0 {
		return true
	}
	key := rl.key(r)
	if key == "" {
		key = clientIPKey(r)
	}

	now := rl.now()
	rl.mu.Lock()
	win := rl.seen[key]
	if win == nil || now.After(win.until) {
		win = &window{until: now.Add(rl.period)}
		rl.seen[key] = win
	}
	win.hits++
	hits, until := win.hits, win.until
	rl.mu.Unlock()

	resetIn := 0
	if left := until.Sub(now); left > 0 {
		resetIn = max(int(left.Seconds()), 1)
	}
	h := w.Header()
	h.Set("X-RateLimit-Limit", strconv.Itoa(rl.limit))
	h.Set("X-RateLimit-Remaining", strconv.Itoa(max(rl.limit-hits, 0)))
	h.Set("X-RateLimit-Reset", strconv.Itoa(resetIn))
	if hits <= rl.limit {
		return true
	}

	h.Set("Retry-After", strconv.Itoa(max(resetIn, 1)))
	zap.L().Warn("rate limit exceeded",
		zap.String("key", key),
		zap.String("method", r.Method),
		zap.String("path", r.URL.Path),
		zap.Int("limit", rl.limit),
	)
	api.Fail(w, http.StatusTooManyRequests, "rate_limited", "too many requests", GetRequestID(r.Context()))
	return false
}

func userOrAddress(r *http.Request) string {
	if user, ok := GetUser(r.Context()); ok && user.UserID != "" {
		return "user:" + user.UserID
	}
	return clientIPKey(r)
}

// emailOrAddress keys sign-in attempts by the email in the JSON body. The body
// is restored for the handler.
func emailOrAddress(r *http.Request) string {
	if email := peekEmail(r); email != "" {
		return "email:" + strings.ToLower(email)
	}
	return clientIPKey(r)
}

func peekEmail(r *http.Request) string {
	if r.Body == nil || !strings.Contains(strings.ToLower(r.Header.Get("Content-Type")), "application/json") {
		return ""
	}
	raw, err := io.ReadAll(io.LimitReader(r.Body, emailPeekLimit))
	if err != nil {
		return ""
	}
	r.Body = io.NopCloser(bytes.NewReader(raw))
	var body struct {
		Email string `json:"email"`
	}
	if json.Unmarshal(raw, &body) != nil {
		return ""
	}
	return strings.TrimSpace(body.Email)
}

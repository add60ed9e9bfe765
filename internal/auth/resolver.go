package auth

import (
	"errors"
	"os"
	"strings"
	"sync"
)

const (
	botTokenPrefix  = "xoxb-"
	userTokenPrefix = "xoxc-"
	cookiePrefix    = "xoxd-"
)

// Canonical, deterministic resolution failures (spec §4.1).
var (
	ErrMissingCookie = errors.New("SLACK_USER_TOKEN is set but SLACK_COOKIE_D is missing")
	ErrBadUserToken  = errors.New("SLACK_USER_TOKEN must start with \"xoxc-\"")
	ErrNoAuth        = errors.New("no auth configured: set SLACK_BOT_TOKEN or SLACK_USER_TOKEN + SLACK_COOKIE_D")
)

// Resolver derives and caches the active AuthConfig from the process
// environment. The first call to Resolve performs the derivation;
// subsequent calls return the cached value until Reset.
type Resolver struct {
	mu       sync.Mutex
	resolved bool
	cfg      Config
	err      error
}

// NewResolver returns an empty, unresolved Resolver.
func NewResolver() *Resolver {
	return &Resolver{}
}

// Resolve returns the cached AuthConfig, deriving it from the
// environment on first call. Ordering (spec §4.1):
//  1. SLACK_BOT_TOKEN non-empty -> Bot, even if user vars are also set.
//  2. SLACK_USER_TOKEN set -> must start "xoxc-" and SLACK_COOKIE_D
//     must be set -> User.
//  3. Otherwise -> ErrNoAuth.
func (r *Resolver) Resolve() (Config, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.resolved {
		return r.cfg, r.err
	}

	r.cfg, r.err = resolveFromEnv()
	r.resolved = true
	return r.cfg, r.err
}

// Reset clears the cached resolution so the next Resolve call re-reads
// the environment. Exists for tests only (spec §5 singletons).
func (r *Resolver) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.resolved = false
	r.cfg = Config{}
	r.err = nil
}

func resolveFromEnv() (Config, error) {
	if bot := os.Getenv("SLACK_BOT_TOKEN"); bot != "" {
		return Bot(bot), nil
	}

	if userToken := os.Getenv("SLACK_USER_TOKEN"); userToken != "" {
		if !strings.HasPrefix(userToken, userTokenPrefix) {
			return Config{}, ErrBadUserToken
		}
		cookie := os.Getenv("SLACK_COOKIE_D")
		if cookie == "" {
			return Config{}, ErrMissingCookie
		}
		return User(userToken, cookie), nil
	}

	return Config{}, ErrNoAuth
}

// Package slackclient holds the process-wide Slack API client bound to
// the currently active credentials (spec §4.3). Tool handlers must
// call Get() per call rather than cache the returned client — that is
// the only way a refresh's rebind becomes visible to the next call.
package slackclient

import (
	"net/http"

	"github.com/slack-go/slack"
	"github.com/zsxkib/slack-mcp-bridge/internal/auth"
)

// cookieTransport injects the session cookie Slack expects for
// xoxc-authenticated (user-mode) requests.
type cookieTransport struct {
	cookie string
	base   http.RoundTripper
}

func (t *cookieTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	r := req.Clone(req.Context())
	r.Header.Set("Cookie", "d="+t.cookie)
	base := t.base
	if base == nil {
		base = http.DefaultTransport
	}
	return base.RoundTrip(r)
}

// Holder owns the single active *slack.Client and the AuthConfig it
// was built from.
type Holder struct {
	mu      chanMutex
	client  *slack.Client
	httpCli *http.Client
	cfg     auth.Config
	have    bool
}

// chanMutex is a tiny mutual-exclusion primitive built on a buffered
// channel so Get/UpdateCredentials/Reset compose without risking a
// re-entrant sync.Mutex deadlock if a future caller nests calls.
type chanMutex chan struct{}

func newChanMutex() chanMutex {
	c := make(chanMutex, 1)
	c <- struct{}{}
	return c
}

func (c chanMutex) Lock()   { <-c }
func (c chanMutex) Unlock() { c <- struct{}{} }

// New returns an empty Holder; the client is constructed lazily.
func New() *Holder {
	return &Holder{mu: newChanMutex()}
}

// Get lazily constructs the client from cfg on first use and returns
// the cached client afterwards as long as cfg has the same auth mode,
// so credentials installed by UpdateCredentials win over the older
// token/cookie a caller may still pass in.
func (h *Holder) Get(cfg auth.Config) *slack.Client {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.have && h.cfg.Mode == cfg.Mode {
		return h.client
	}
	h.cfg = cfg
	h.httpCli = buildHTTPClient(cfg)
	h.client = slack.New(cfg.Token, slack.OptionHTTPClient(h.httpCli))
	h.have = true
	return h.client
}

// UpdateCredentials atomically replaces the active client and the
// cached user-mode AuthConfig after a successful refresh (spec §4.3,
// §4.6.3 step 6). The new config is always user mode.
func (h *Holder) UpdateCredentials(token, cookie string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	cfg := auth.User(token, cookie)
	h.cfg = cfg
	h.httpCli = buildHTTPClient(cfg)
	h.client = slack.New(cfg.Token, slack.OptionHTTPClient(h.httpCli))
	h.have = true
}

// Current returns the AuthConfig the active client was built from, and
// whether a client has been constructed yet.
func (h *Holder) Current() (auth.Config, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.cfg, h.have
}

// Reset drops the client. Tests only (spec §5 singletons).
func (h *Holder) Reset() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.client, h.httpCli, h.cfg, h.have = nil, nil, auth.Config{}, false
}

func buildHTTPClient(cfg auth.Config) *http.Client {
	if !cfg.IsUser() {
		return &http.Client{}
	}
	return &http.Client{Transport: &cookieTransport{cookie: cfg.Cookie}}
}

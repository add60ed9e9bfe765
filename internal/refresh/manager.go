package refresh

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/zsxkib/slack-mcp-bridge/internal/credstore"
)

// Status is the RefreshState.status field from spec §3.
type Status string

const (
	StatusIdle       Status = "idle"
	StatusInProgress Status = "in_progress"
)

// LastError mirrors spec §3's RefreshState.lastError shape.
type LastError struct {
	Code      Code
	Message   string
	Timestamp time.Time
	Attempt   int
	Retryable bool
}

// State is a read-only snapshot of RefreshState (spec §3). Snapshots
// are published under a lock so readers never see a torn write (spec
// §5 "Shared-resource policy").
type State struct {
	Status              Status
	LastAttempt         *time.Time
	LastSuccess         *time.Time
	LastError           *LastError
	ConsecutiveFailures int
	IsManualTrigger     bool
}

// Store is the slice of CredentialStore the manager needs.
type Store interface {
	Load() (credstore.Stored, error)
	Save(credstore.Stored) error
}

// Rebinder receives the new token/cookie pair after a successful
// refresh (spec §4.6.3 step 6 — SlackClientHolder.UpdateCredentials).
type Rebinder interface {
	UpdateCredentials(token, cookie string)
}

// ScrapeResult is what HTML-scraping the workspace home page yields.
type ScrapeResult struct {
	StatusCode int
	FinalURL   string
	Body       string
	SetCookie  []string
}

// Scraper performs the HTTP GET against https://<workspace>.slack.com
// described in spec §4.6.3 step 2 / §6.
type Scraper interface {
	Scrape(ctx context.Context, workspace, cookie string) (ScrapeResult, error)
}

// Validator confirms a token/cookie pair by calling Slack's auth.test
// (spec §4.6.3 step 5).
type Validator interface {
	AuthTest(ctx context.Context, token, cookie string) error
}

// Logger is the minimal diagnostic sink the manager writes through;
// satisfied by logging.RefreshLogger.
type Logger interface {
	Warn(msg string, fields map[string]any)
	Error(msg string, fields map[string]any)
}

// Manager drives one user-mode credential's refresh lifecycle (spec
// §4.6). The zero value is not usable; build with NewManager.
type Manager struct {
	store     Store
	rebinder  Rebinder
	scraper   Scraper
	validator Validator
	log       Logger
	now       func() time.Time

	status int32 // atomic: 0 = idle, 1 = in_progress

	mu    sync.RWMutex
	state State
}

// NewManager wires a Manager from its collaborators.
func NewManager(store Store, rebinder Rebinder, scraper Scraper, validator Validator, log Logger) *Manager {
	return &Manager{
		store:     store,
		rebinder:  rebinder,
		scraper:   scraper,
		validator: validator,
		log:       log,
		now:       time.Now,
		state:     State{Status: StatusIdle},
	}
}

// State returns a consistent snapshot of the manager's state.
func (m *Manager) State() State {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.state
}

// IsRefreshDue reports whether persisted credentials exist, are due
// for refresh given intervalDays, and load successfully. Any load
// failure yields false, matching spec §4.6.2 ("the scheduler silently
// skips").
func (m *Manager) IsRefreshDue(intervalDays int) bool {
	rec, err := m.store.Load()
	if err != nil {
		return false
	}
	last, err := time.Parse(time.RFC3339, rec.Metadata.LastRefreshed)
	if err != nil {
		return false
	}
	due := last.Add(time.Duration(intervalDays) * 24 * time.Hour)
	return !due.After(m.now())
}

// tryAcquire performs the idle -> in_progress CAS. Returns false
// immediately (without blocking) if a refresh is already in progress.
func (m *Manager) tryAcquire(isManual bool) bool {
	if !atomic.CompareAndSwapInt32(&m.status, 0, 1) {
		return false
	}
	now := m.now()
	m.mu.Lock()
	m.state.Status = StatusInProgress
	m.state.LastAttempt = &now
	m.state.IsManualTrigger = isManual
	m.mu.Unlock()
	return true
}

func (m *Manager) release() {
	atomic.StoreInt32(&m.status, 0)
}

func (m *Manager) finishSuccess() {
	now := m.now()
	m.mu.Lock()
	m.state.Status = StatusIdle
	m.state.LastSuccess = &now
	m.state.LastError = nil
	m.state.ConsecutiveFailures = 0
	m.state.IsManualTrigger = false
	m.mu.Unlock()
	m.release()
}

func (m *Manager) finishFailure(err *Error, attempt int) {
	now := m.now()
	m.mu.Lock()
	m.state.Status = StatusIdle
	m.state.LastError = &LastError{
		Code:      err.Code,
		Message:   err.Message,
		Timestamp: now,
		Attempt:   attempt,
		Retryable: err.Retryable(),
	}
	m.state.ConsecutiveFailures++
	m.state.IsManualTrigger = false
	m.mu.Unlock()
	m.release()
}

// Refresh performs exactly one refresh attempt (spec §4.6.1, §4.6.3),
// acquiring and releasing the in_progress state around that single
// attempt. A concurrent caller observes CodeRefreshInProgress
// immediately. Call Refresh directly only when you want a single,
// non-retried attempt; RefreshWithRetry holds the lock itself across
// its whole multi-attempt sequence and calls attempt directly, not
// Refresh.
func (m *Manager) Refresh(ctx context.Context, isManual bool) error {
	if !m.tryAcquire(isManual) {
		return newErr(CodeRefreshInProgress, "a refresh is already in progress")
	}

	err := m.attempt(ctx, isManual)
	if err == nil {
		m.finishSuccess()
		return nil
	}

	refErr, ok := err.(*Error)
	if !ok {
		refErr = newErr(CodeUnknown, err.Error())
	}
	m.finishFailure(refErr, 1)
	return refErr
}

// attempt runs the single-pass scrape -> extract -> validate -> persist
// -> rebind sequence from spec §4.6.3, leaving RefreshState untouched —
// the caller (Refresh / RefreshWithRetry) owns state transitions.
func (m *Manager) attempt(ctx context.Context, isManual bool) error {
	rec, err := m.store.Load()
	if err != nil {
		return newErr(CodeStorageError, fmt.Sprintf("cannot load current credentials: %v", err))
	}

	result, err := m.scraper.Scrape(ctx, rec.Credentials.Workspace, rec.Credentials.Cookie)
	if err != nil {
		return newErr(CodeNetworkError, err.Error())
	}

	switch {
	case result.StatusCode == 429:
		return newErr(CodeRateLimited, "workspace scrape was rate limited")
	case result.StatusCode == 401 || result.StatusCode == 403:
		return newErr(CodeSessionRevoked, fmt.Sprintf("workspace scrape returned %d", result.StatusCode))
	case result.StatusCode < 200 || result.StatusCode >= 300:
		return newErr(CodeNetworkError, fmt.Sprintf("workspace scrape returned %d", result.StatusCode))
	}

	if LooksLikeSignIn(result.FinalURL, result.Body) {
		return newErr(CodeSessionRevoked, "workspace scrape redirected to sign-in")
	}

	newCookie := ExtractCookie(result.SetCookie)
	if newCookie == "" {
		newCookie = rec.Credentials.Cookie
	}

	newToken := ExtractAPIToken(result.Body)
	if newToken == "" {
		return newErr(CodeInvalidResponse, "no api_token literal found in scrape response")
	}

	if err := m.validator.AuthTest(ctx, newToken, newCookie); err != nil {
		if se, ok := err.(*Error); ok {
			return se
		}
		msg := err.Error()
		if strings.Contains(msg, "invalid_auth") || strings.Contains(msg, "account_inactive") {
			return newErr(CodeSessionRevoked, msg)
		}
		return newErr(CodeInvalidResponse, msg)
	}

	source := credstore.SourceAutoRefresh
	if isManual {
		source = credstore.SourceManualRefresh
	}
	newRec := credstore.Stored{
		Version: 1,
		Credentials: credstore.Credentials{
			Token:     newToken,
			Cookie:    newCookie,
			Workspace: rec.Credentials.Workspace,
		},
		Metadata: credstore.Metadata{
			LastRefreshed: m.now().UTC().Format(time.RFC3339),
			RefreshCount:  rec.Metadata.RefreshCount + 1,
			Source:        source,
		},
	}

	if err := m.store.Save(newRec); err != nil {
		return newErr(CodeStorageError, fmt.Sprintf("cannot persist refreshed credentials: %v", err))
	}

	m.rebinder.UpdateCredentials(newToken, newCookie)
	return nil
}

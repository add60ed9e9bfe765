package namecache

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"golang.org/x/sync/singleflight"
)

// User is a cached Slack user, pre-resolved to a display name.
type User struct {
	ID          string
	DisplayName string
}

// RawUser is the subset of a Slack user object DisplayNameOf needs.
type RawUser struct {
	ID              string
	DisplayNameProf string // profile.display_name
	RealName        string
	Name            string
}

// DisplayNameOf applies the priority rule from spec §3 "CachedUser":
// profile.display_name (trimmed, non-empty) -> real_name -> name -> id.
func DisplayNameOf(u RawUser) string {
	if dn := strings.TrimSpace(u.DisplayNameProf); dn != "" {
		return dn
	}
	if u.RealName != "" {
		return u.RealName
	}
	if u.Name != "" {
		return u.Name
	}
	return u.ID
}

// UsersLister is the slice of the Slack API a UserCache needs: one
// call returning every user in the workspace (users.list, all pages).
type UsersLister interface {
	ListUsers(ctx context.Context) ([]RawUser, error)
}

// UserCache resolves Slack user IDs to "display (id)" strings.
type UserCache struct {
	lister UsersLister

	mu         sync.RWMutex
	byID       map[string]User
	populated  bool
	populateSF singleflight.Group
}

// NewUserCache returns an unpopulated cache backed by lister.
func NewUserCache(lister UsersLister) *UserCache {
	return &UserCache{lister: lister, byID: map[string]User{}}
}

// Resolve returns "display (id)", falling back to the raw id when the
// user is unknown.
func (c *UserCache) Resolve(ctx context.Context, id string) string {
	return fmt.Sprintf("%s (%s)", c.GetDisplayName(ctx, id), id)
}

// GetDisplayName returns the display name only, or id when unknown.
func (c *UserCache) GetDisplayName(ctx context.Context, id string) string {
	c.ensurePopulated(ctx)

	c.mu.RLock()
	defer c.mu.RUnlock()
	if u, ok := c.byID[id]; ok {
		return u.DisplayName
	}
	return id
}

// ResolveMany resolves a deduplicated batch of IDs to "display (id)".
func (c *UserCache) ResolveMany(ctx context.Context, ids []string) map[string]string {
	seen := map[string]struct{}{}
	out := map[string]string{}
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out[id] = c.Resolve(ctx, id)
	}
	return out
}

func (c *UserCache) ensurePopulated(ctx context.Context) {
	c.mu.RLock()
	done := c.populated
	c.mu.RUnlock()
	if done {
		return
	}

	_, _, _ = c.populateSF.Do("populate", func() (interface{}, error) {
		c.mu.RLock()
		done := c.populated
		c.mu.RUnlock()
		if done {
			return nil, nil
		}

		byID := map[string]User{}
		if raw, err := c.lister.ListUsers(ctx); err == nil {
			for _, u := range raw {
				byID[u.ID] = User{ID: u.ID, DisplayName: DisplayNameOf(u)}
			}
		}
		// On failure byID stays empty: the cache is best-effort and
		// serves raw-ID fallbacks indefinitely until Reset (spec §4.4).

		c.mu.Lock()
		c.byID = byID
		c.populated = true
		c.mu.Unlock()
		return nil, nil
	})
}

// Reset clears the cache. Tests only.
func (c *UserCache) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.byID = map[string]User{}
	c.populated = false
}

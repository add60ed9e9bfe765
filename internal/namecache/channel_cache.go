// Package namecache implements the lazily-populated, singleton-shared
// channel and user lookup caches (spec §4.4). Both caches collapse
// concurrent populate calls into a single in-flight Slack request via
// golang.org/x/sync/singleflight, matching the spec's "one populate
// per cache" concurrency invariant (§5).
package namecache

import (
	"context"
	"regexp"
	"strings"
	"sync"

	"golang.org/x/sync/singleflight"
)

var channelIDPattern = regexp.MustCompile(`^[CDG][A-Z0-9]+$`)

// Channel is a cached Slack channel.
type Channel struct {
	ID   string
	Name string
}

// ConversationsLister is the slice of the Slack API a ChannelCache
// needs: paginated conversations.list.
type ConversationsLister interface {
	ListConversationsPage(ctx context.Context, cursor string) (channels []Channel, nextCursor string, err error)
}

// ChannelCache resolves channel names to IDs, populating itself from
// Slack on first use.
type ChannelCache struct {
	lister ConversationsLister

	mu         sync.RWMutex
	byID       map[string]Channel
	byName     map[string]Channel
	populated  bool
	populateSF singleflight.Group
}

// NewChannelCache returns an unpopulated cache backed by lister.
func NewChannelCache(lister ConversationsLister) *ChannelCache {
	return &ChannelCache{
		lister: lister,
		byID:   map[string]Channel{},
		byName: map[string]Channel{},
	}
}

// ResolveChannelID resolves input to a channel ID. Inputs already
// shaped like a Slack conversation ID (C/D/G prefix) are returned
// unchanged without ever touching the cache or Slack. Otherwise the
// cache is populated (at most once across concurrent callers) and the
// lowercased, "#"-stripped name is looked up; an unresolved name is
// returned verbatim so private channels/DMs unknown to the cache still
// work (spec §4.4).
func (c *ChannelCache) ResolveChannelID(ctx context.Context, input string) string {
	if channelIDPattern.MatchString(input) {
		return input
	}

	c.ensurePopulated(ctx)

	name := strings.ToLower(strings.TrimPrefix(input, "#"))
	c.mu.RLock()
	defer c.mu.RUnlock()
	if ch, ok := c.byName[name]; ok {
		return ch.ID
	}
	return input
}

func (c *ChannelCache) ensurePopulated(ctx context.Context) {
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

		byID := map[string]Channel{}
		byName := map[string]Channel{}
		cursor := ""
		for {
			page, next, err := c.lister.ListConversationsPage(ctx, cursor)
			if err != nil {
				// Best-effort cache: seat what we have (possibly empty)
				// and let future resolves fall back to raw input.
				break
			}
			for _, ch := range page {
				byID[ch.ID] = ch
				byName[strings.ToLower(ch.Name)] = ch
			}
			if next == "" {
				break
			}
			cursor = next
		}

		c.mu.Lock()
		c.byID = byID
		c.byName = byName
		c.populated = true
		c.mu.Unlock()
		return nil, nil
	})
}

// Reset clears the cache. Tests only.
func (c *ChannelCache) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.byID = map[string]Channel{}
	c.byName = map[string]Channel{}
	c.populated = false
}

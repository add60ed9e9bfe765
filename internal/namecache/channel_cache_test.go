package namecache

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
)

type countingLister struct {
	calls int32
}

func (l *countingLister) ListConversationsPage(ctx context.Context, cursor string) ([]Channel, string, error) {
	atomic.AddInt32(&l.calls, 1)
	return []Channel{{ID: "C1", Name: "general"}, {ID: "D1", Name: "U123"}}, "", nil
}

func TestChannelCache_IDPassthrough(t *testing.T) {
	l := &countingLister{}
	c := NewChannelCache(l)
	assert.Equal(t, "C12345", c.ResolveChannelID(context.Background(), "C12345"))
	assert.Equal(t, int32(0), atomic.LoadInt32(&l.calls))
}

func TestChannelCache_ResolveByName(t *testing.T) {
	l := &countingLister{}
	c := NewChannelCache(l)
	assert.Equal(t, "C1", c.ResolveChannelID(context.Background(), "#General"))
	assert.Equal(t, "unknown-channel", c.ResolveChannelID(context.Background(), "unknown-channel"))
}

func TestChannelCache_PopulatesOnce(t *testing.T) {
	l := &countingLister{}
	c := NewChannelCache(l)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			c.ResolveChannelID(context.Background(), "#general")
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), atomic.LoadInt32(&l.calls))
}

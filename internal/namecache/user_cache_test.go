package namecache

import (
	"context"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
)

type countingUserLister struct {
	calls int32
	users []RawUser
	err   error
}

func (l *countingUserLister) ListUsers(ctx context.Context) ([]RawUser, error) {
	atomic.AddInt32(&l.calls, 1)
	return l.users, l.err
}

func TestDisplayNameOf_Priority(t *testing.T) {
	assert.Equal(t, "Ann", DisplayNameOf(RawUser{ID: "U1", DisplayNameProf: "  Ann  ", RealName: "Annie", Name: "ann"}))
	assert.Equal(t, "Annie", DisplayNameOf(RawUser{ID: "U1", RealName: "Annie", Name: "ann"}))
	assert.Equal(t, "ann", DisplayNameOf(RawUser{ID: "U1", Name: "ann"}))
	assert.Equal(t, "U1", DisplayNameOf(RawUser{ID: "U1"}))
}

func TestUserCache_ResolveAndFallback(t *testing.T) {
	l := &countingUserLister{users: []RawUser{{ID: "U1", RealName: "Annie"}}}
	c := NewUserCache(l)

	assert.Equal(t, "Annie (U1)", c.Resolve(context.Background(), "U1"))
	assert.Equal(t, "U2", c.GetDisplayName(context.Background(), "U2"))
	assert.Equal(t, int32(1), atomic.LoadInt32(&l.calls))
}

func TestUserCache_PopulateFailureServesFallback(t *testing.T) {
	l := &countingUserLister{err: assertErr{}}
	c := NewUserCache(l)
	assert.Equal(t, "U9", c.GetDisplayName(context.Background(), "U9"))
}

type assertErr struct{}

func (assertErr) Error() string { return "boom" }

func TestUserCache_ResolveMany(t *testing.T) {
	l := &countingUserLister{users: []RawUser{{ID: "U1", RealName: "Annie"}}}
	c := NewUserCache(l)
	out := c.ResolveMany(context.Background(), []string{"U1", "U1", "U2"})
	assert.Equal(t, "Annie (U1)", out["U1"])
	assert.Equal(t, "U2 (U2)", out["U2"])
	assert.Len(t, out, 2)
}

package tools

import (
	"context"
	"testing"
	"time"

	"github.com/slack-go/slack"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zsxkib/slack-mcp-bridge/internal/namecache"
)

func fixedNow() time.Time {
	return time.Date(2026, 7, 31, 12, 0, 0, 0, time.UTC)
}

func newTestHandlers(api *fakeSlackAPI) (*Handlers, *namecache.ChannelCache, *namecache.UserCache) {
	channels := namecache.NewChannelCache(api)
	users := namecache.NewUserCache(api)
	h := New(&Deps{
		Client:   api,
		Channels: channels,
		Users:    users,
		Now:      fixedNow,
	})
	return h, channels, users
}

func TestListChannels_DefaultsTypesAndStrips(t *testing.T) {
	api := &fakeSlackAPI{channels: []slack.Channel{
		{GroupConversation: slack.GroupConversation{Conversation: slack.Conversation{ID: "C1"}, Name: "general"}},
	}}
	h, _, _ := newTestHandlers(api)

	res := h.ListChannels(context.Background(), ListChannelsInput{})
	require.False(t, res.IsError)

	list, ok := res.StructuredContent.([]any)
	require.True(t, ok)
	require.Len(t, list, 1)
	entry := list[0].(map[string]any)
	assert.Equal(t, "C1", entry["id"])
	assert.Equal(t, "general", entry["name"])
}

func TestListChannels_RejectsBadType(t *testing.T) {
	h, _, _ := newTestHandlers(&fakeSlackAPI{})
	res := h.ListChannels(context.Background(), ListChannelsInput{Types: []string{"bogus"}})
	assert.True(t, res.IsError)
}

func TestGetChannelHistory_RestoresEmptyTextAndOmitsThreadId(t *testing.T) {
	api := &fakeSlackAPI{
		history: &slack.GetConversationHistoryResponse{
			Messages: []slack.Message{
				{Msg: slack.Msg{Timestamp: "1000.1", User: "U1", Text: ""}},
			},
		},
	}
	h, _, _ := newTestHandlers(api)

	res := h.GetChannelHistory(context.Background(), GetChannelHistoryInput{ChannelID: "C1"})
	require.False(t, res.IsError)

	list := res.StructuredContent.([]any)
	require.Len(t, list, 1)
	entry := list[0].(map[string]any)
	assert.Equal(t, "", entry["text"])
	_, hasThread := entry["threadId"]
	assert.False(t, hasThread)
}

func TestGetChannelHistory_ResolvesChannelNameAndDefaultsLimit(t *testing.T) {
	api := &fakeSlackAPI{
		channels: []slack.Channel{
			{GroupConversation: slack.GroupConversation{Conversation: slack.Conversation{ID: "C1"}, Name: "general"}},
		},
		history: &slack.GetConversationHistoryResponse{},
	}
	h, _, _ := newTestHandlers(api)

	res := h.GetChannelHistory(context.Background(), GetChannelHistoryInput{ChannelID: "general"})
	require.False(t, res.IsError)
	require.Equal(t, 1, api.historyCalls)
}

func TestGetChannelHistory_SchemaViolation(t *testing.T) {
	h, _, _ := newTestHandlers(&fakeSlackAPI{})
	res := h.GetChannelHistory(context.Background(), GetChannelHistoryInput{})
	assert.True(t, res.IsError)
}

func TestGetChannelHistory_MapsSlackError(t *testing.T) {
	api := &fakeSlackAPI{err: errFakeSlack}
	h, _, _ := newTestHandlers(api)

	res := h.GetChannelHistory(context.Background(), GetChannelHistoryInput{ChannelID: "C1"})
	require.True(t, res.IsError)
	assert.Contains(t, res.Content[0].Text, "channel_not_found")
}

func TestGetThreadReplies_Success(t *testing.T) {
	api := &fakeSlackAPI{
		replies: []slack.Message{
			{Msg: slack.Msg{Timestamp: "1000.1", User: "U1", Text: "root"}},
			{Msg: slack.Msg{Timestamp: "1000.2", User: "U2", Text: "reply", ThreadTimestamp: "1000.1"}},
		},
	}
	h, _, _ := newTestHandlers(api)

	res := h.GetThreadReplies(context.Background(), GetThreadRepliesInput{ChannelID: "C1", ThreadTimestamp: "1000.1"})
	require.False(t, res.IsError)
	list := res.StructuredContent.([]any)
	require.Len(t, list, 2)
	second := list[1].(map[string]any)
	assert.Equal(t, "1000.1", second["threadId"])
}

func TestListUsers_AppliesDisplayNamePriority(t *testing.T) {
	api := &fakeSlackAPI{users: []namecache.RawUser{
		{ID: "U1", DisplayNameProf: "Al"},
		{ID: "U2", RealName: "Bob Jones"},
	}}
	h, _, _ := newTestHandlers(api)

	res := h.ListUsers(context.Background())
	require.False(t, res.IsError)
	list := res.StructuredContent.([]any)
	require.Len(t, list, 2)
	assert.Equal(t, "Al", list[0].(map[string]any)["displayName"])
	assert.Equal(t, "Bob Jones", list[1].(map[string]any)["displayName"])
}

func TestGetUserProfile_FallsBackToIDWhenUnknown(t *testing.T) {
	api := &fakeSlackAPI{users: []namecache.RawUser{}}
	h, _, _ := newTestHandlers(api)

	res := h.GetUserProfile(context.Background(), GetUserProfileInput{UserID: "U9"})
	require.False(t, res.IsError)
	entry := res.StructuredContent.(map[string]any)
	assert.Equal(t, "U9", entry["displayName"])
}

func TestGetUserProfile_SchemaViolation(t *testing.T) {
	h, _, _ := newTestHandlers(&fakeSlackAPI{})
	res := h.GetUserProfile(context.Background(), GetUserProfileInput{})
	assert.True(t, res.IsError)
}

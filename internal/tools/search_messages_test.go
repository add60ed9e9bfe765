package tools

import (
	"context"
	"os"
	"testing"

	"github.com/slack-go/slack"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zsxkib/slack-mcp-bridge/internal/auth"
)

func newSearchHandlers(t *testing.T, api *fakeSlackAPI, bot bool) *Handlers {
	t.Helper()
	resolver := auth.NewResolver()
	os.Unsetenv("SLACK_BOT_TOKEN")
	os.Unsetenv("SLACK_USER_TOKEN")
	os.Unsetenv("SLACK_COOKIE_D")
	if bot {
		t.Setenv("SLACK_BOT_TOKEN", "xoxb-1")
	} else {
		t.Setenv("SLACK_USER_TOKEN", "xoxc-1")
		t.Setenv("SLACK_COOKIE_D", "xoxd-1")
	}

	h, _, _ := newTestHandlers(api)
	h.deps.Resolver = resolver
	return h
}

func TestSearchMessages_RejectsBotMode(t *testing.T) {
	h := newSearchHandlers(t, &fakeSlackAPI{}, true)
	res := h.SearchMessages(context.Background(), SearchMessagesInput{Query: "foo"})
	require.True(t, res.IsError)
	assert.Contains(t, res.Content[0].Text, "search_requires_user_token")
}

func TestSearchMessages_SchemaViolation(t *testing.T) {
	h := newSearchHandlers(t, &fakeSlackAPI{}, false)
	res := h.SearchMessages(context.Background(), SearchMessagesInput{})
	assert.True(t, res.IsError)
}

func TestSearchMessages_EnrichesThreadParentAndDedupes(t *testing.T) {
	api := &fakeSlackAPI{
		search: &slack.SearchMessages{
			Matches: []slack.SearchMessage{
				{Timestamp: "100.2", Channel: slack.CtxChannel{ID: "C1", Name: "general"}, User: "U1", Text: "reply one"},
				{Timestamp: "100.3", Channel: slack.CtxChannel{ID: "C1", Name: "general"}, User: "U1", Text: "reply two"},
			},
		},
		replies: []slack.Message{
			{Msg: slack.Msg{Timestamp: "100.1", User: "U2", Text: "the root message"}},
		},
	}
	h := newSearchHandlers(t, api, false)

	res := h.SearchMessages(context.Background(), SearchMessagesInput{Query: "foo"})
	require.False(t, res.IsError)

	list := res.StructuredContent.([]any)
	require.Len(t, list, 2)
	first := list[0].(map[string]any)
	assert.Equal(t, "100.1", first["threadId"])
	require.Contains(t, first, "threadParent")

	// Both matches share the same resolved parent; GetThreadReplies is
	// still called once per match (no way to know the parent without
	// fetching), but the second result omits the redundant enrichment.
	second := list[1].(map[string]any)
	_, hasParent := second["threadParent"]
	assert.False(t, hasParent)
	assert.Len(t, api.repliesCalls, 2)
}

func TestSearchMessages_FormatsDMChannel(t *testing.T) {
	assert.Equal(t, "DM: U1234ABCD (U1234ABCD)", formatSearchChannel("U1234ABCD", "U1234ABCD"))
	assert.Equal(t, "#general (C1)", formatSearchChannel("C1", "general"))
}

package tools

import (
	"context"
	"errors"

	"github.com/slack-go/slack"

	"github.com/zsxkib/slack-mcp-bridge/internal/namecache"
)

// fakeSlackAPI is a scripted SlackAPI for handler tests.
type fakeSlackAPI struct {
	channels []slack.Channel
	history  *slack.GetConversationHistoryResponse
	replies  []slack.Message
	users    []namecache.RawUser
	search   *slack.SearchMessages

	err error

	historyCalls int
	repliesCalls []slack.GetConversationRepliesParameters
}

func (f *fakeSlackAPI) ListChannels(ctx context.Context, types []string) ([]slack.Channel, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.channels, nil
}

func (f *fakeSlackAPI) ListConversationsPage(ctx context.Context, cursor string) ([]namecache.Channel, string, error) {
	if f.err != nil {
		return nil, "", f.err
	}
	out := make([]namecache.Channel, len(f.channels))
	for i, ch := range f.channels {
		out[i] = namecache.Channel{ID: ch.ID, Name: ch.Name}
	}
	return out, "", nil
}

func (f *fakeSlackAPI) GetChannelHistory(ctx context.Context, params slack.GetConversationHistoryParameters) (*slack.GetConversationHistoryResponse, error) {
	f.historyCalls++
	if f.err != nil {
		return nil, f.err
	}
	return f.history, nil
}

func (f *fakeSlackAPI) GetThreadReplies(ctx context.Context, params slack.GetConversationRepliesParameters) ([]slack.Message, bool, string, error) {
	f.repliesCalls = append(f.repliesCalls, params)
	if f.err != nil {
		return nil, false, "", f.err
	}
	return f.replies, false, "", nil
}

func (f *fakeSlackAPI) ListUsers(ctx context.Context) ([]namecache.RawUser, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.users, nil
}

func (f *fakeSlackAPI) SearchMessages(ctx context.Context, query string, params slack.SearchParameters) (*slack.SearchMessages, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.search, nil
}

var errFakeSlack = errors.New("channel_not_found")

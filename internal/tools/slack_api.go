package tools

import (
	"context"

	"github.com/slack-go/slack"

	"github.com/zsxkib/slack-mcp-bridge/internal/namecache"
)

// SlackAPI is the narrow surface Handlers call Slack through; backed
// by *slackapi.Client in production and fakeable in tests.
type SlackAPI interface {
	ListChannels(ctx context.Context, types []string) ([]slack.Channel, error)
	GetChannelHistory(ctx context.Context, params slack.GetConversationHistoryParameters) (*slack.GetConversationHistoryResponse, error)
	GetThreadReplies(ctx context.Context, params slack.GetConversationRepliesParameters) ([]slack.Message, bool, string, error)
	ListUsers(ctx context.Context) ([]namecache.RawUser, error)
	SearchMessages(ctx context.Context, query string, params slack.SearchParameters) (*slack.SearchMessages, error)
}

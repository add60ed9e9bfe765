package tools

import (
	"context"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/slack-go/slack"

	"github.com/zsxkib/slack-mcp-bridge/internal/auth"
	"github.com/zsxkib/slack-mcp-bridge/internal/credstore"
	"github.com/zsxkib/slack-mcp-bridge/internal/errlog"
	"github.com/zsxkib/slack-mcp-bridge/internal/namecache"
	"github.com/zsxkib/slack-mcp-bridge/internal/refresh"
	"github.com/zsxkib/slack-mcp-bridge/internal/slackapi"
)

var validate = validator.New()

// Deps is the dependency graph every handler closes over (spec §2's
// control/data flow: ToolHandler -> NameCaches -> SlackClientHolder ->
// FormatPipeline -> response). Built once in Bootstrap.
type Deps struct {
	Resolver  *auth.Resolver
	Client    SlackAPI
	Channels  *namecache.ChannelCache
	Users     *namecache.UserCache
	Scheduler *refresh.Scheduler
	Manager   *refresh.Manager
	Store     *credstore.Store
	ErrorLog  *errlog.Log
	Workspace string
	Enabled   bool
	Now       func() time.Time
}

func (d *Deps) now() time.Time {
	if d.Now != nil {
		return d.Now()
	}
	return time.Now()
}

// Handlers bundles every ToolHandler function, ready to register with
// an mcpadapter.Server (see cmd/slack-mcp-bridge/register.go).
type Handlers struct {
	deps *Deps
}

// New builds the Handlers bundle.
func New(deps *Deps) *Handlers {
	return &Handlers{deps: deps}
}

func (h *Handlers) currentAuth() auth.Config {
	cfg, err := h.deps.Resolver.Resolve()
	if err != nil {
		return auth.Config{}
	}
	return cfg
}

func validateInput(input any) error {
	return validate.Struct(input)
}

// ListChannelsInput is the list_channels tool's declared schema (spec
// §4.8 step 1).
type ListChannelsInput struct {
	Types []string `json:"types" validate:"omitempty,dive,oneof=public_channel private_channel mpim im"`
}

// ListChannels implements the list_channels tool.
func (h *Handlers) ListChannels(ctx context.Context, in ListChannelsInput) Result {
	if err := validateInput(in); err != nil {
		return schemaError(err.Error(), h.deps.ErrorLog)
	}

	types := in.Types
	if len(types) == 0 {
		types = []string{"public_channel", "private_channel"}
	}

	chans, err := h.deps.Client.ListChannels(ctx, types)
	if err != nil {
		return failure(slackapi.MapError(err, ""), h.deps.ErrorLog)
	}

	out := make([]map[string]any, len(chans))
	for i, c := range chans {
		out[i] = map[string]any{"id": c.ID, "name": c.Name}
	}

	stripped, err := toJSONValue(out)
	if err != nil {
		return failure(&slackapi.ToolError{Code: "internal_error", Message: err.Error()}, h.deps.ErrorLog)
	}
	return success(stripped)
}

// GetChannelHistoryInput is the get_channel_history tool's schema.
type GetChannelHistoryInput struct {
	ChannelID string `json:"channel_id" validate:"required"`
	Limit     int    `json:"limit" validate:"omitempty,gte=1,lte=1000"`
	Oldest    string `json:"oldest" validate:"omitempty"`
	Latest    string `json:"latest" validate:"omitempty"`
}

// GetChannelHistory implements the get_channel_history tool.
func (h *Handlers) GetChannelHistory(ctx context.Context, in GetChannelHistoryInput) Result {
	if err := validateInput(in); err != nil {
		return schemaError(err.Error(), h.deps.ErrorLog)
	}

	channelID := h.deps.Channels.ResolveChannelID(ctx, in.ChannelID)
	limit := in.Limit
	if limit == 0 {
		limit = 100
	}

	resp, err := h.deps.Client.GetChannelHistory(ctx, slack.GetConversationHistoryParameters{
		ChannelID: channelID,
		Limit:     limit,
		Oldest:    in.Oldest,
		Latest:    in.Latest,
	})
	if err != nil {
		return failure(slackapi.MapError(err, in.ChannelID), h.deps.ErrorLog)
	}

	now := h.deps.now()
	messages := make([]map[string]any, len(resp.Messages))
	for i, m := range resp.Messages {
		messages[i] = messageToMap(formatMessage(ctx, m, h.deps.Users, now))
	}

	stripped, err := toJSONValue(messages)
	if err != nil {
		return failure(&slackapi.ToolError{Code: "internal_error", Message: err.Error()}, h.deps.ErrorLog)
	}
	return success(restoreText(stripped))
}

// GetThreadRepliesInput is the get_thread_replies tool's schema.
type GetThreadRepliesInput struct {
	ChannelID       string `json:"channel_id" validate:"required"`
	ThreadTimestamp string `json:"thread_timestamp" validate:"required"`
}

// GetThreadReplies implements the get_thread_replies tool.
func (h *Handlers) GetThreadReplies(ctx context.Context, in GetThreadRepliesInput) Result {
	if err := validateInput(in); err != nil {
		return schemaError(err.Error(), h.deps.ErrorLog)
	}

	channelID := h.deps.Channels.ResolveChannelID(ctx, in.ChannelID)
	replies, _, _, err := h.deps.Client.GetThreadReplies(ctx, slack.GetConversationRepliesParameters{
		ChannelID: channelID,
		Timestamp: in.ThreadTimestamp,
	})
	if err != nil {
		return failure(slackapi.MapError(err, in.ThreadTimestamp), h.deps.ErrorLog)
	}

	now := h.deps.now()
	out := make([]map[string]any, len(replies))
	for i, m := range replies {
		out[i] = messageToMap(formatMessage(ctx, m, h.deps.Users, now))
	}

	stripped, err := toJSONValue(out)
	if err != nil {
		return failure(&slackapi.ToolError{Code: "internal_error", Message: err.Error()}, h.deps.ErrorLog)
	}
	return success(restoreText(stripped))
}

// ListUsers implements the list_users tool. No input.
func (h *Handlers) ListUsers(ctx context.Context) Result {
	raw, err := h.deps.Client.ListUsers(ctx)
	if err != nil {
		return failure(slackapi.MapError(err, ""), h.deps.ErrorLog)
	}

	out := make([]map[string]any, len(raw))
	for i, u := range raw {
		out[i] = map[string]any{
			"id":          u.ID,
			"displayName": namecache.DisplayNameOf(u),
		}
	}

	stripped, err := toJSONValue(out)
	if err != nil {
		return failure(&slackapi.ToolError{Code: "internal_error", Message: err.Error()}, h.deps.ErrorLog)
	}
	return success(stripped)
}

// GetUserProfileInput is the get_user_profile tool's schema.
type GetUserProfileInput struct {
	UserID string `json:"user_id" validate:"required"`
}

// GetUserProfile implements the get_user_profile tool.
func (h *Handlers) GetUserProfile(ctx context.Context, in GetUserProfileInput) Result {
	if err := validateInput(in); err != nil {
		return schemaError(err.Error(), h.deps.ErrorLog)
	}

	displayName := h.deps.Users.GetDisplayName(ctx, in.UserID)
	out := map[string]any{"id": in.UserID, "displayName": displayName}

	stripped, err := toJSONValue(out)
	if err != nil {
		return failure(&slackapi.ToolError{Code: "internal_error", Message: err.Error()}, h.deps.ErrorLog)
	}
	return success(stripped)
}

// messageToMap converts a formattedMessage into a plain map so it can
// be run back through Strip alongside the thread-parent enrichment,
// which doesn't fit the static struct shape.
func messageToMap(m formattedMessage) map[string]any {
	out := map[string]any{
		"id":   m.ID,
		"time": m.Time,
		"user": m.User,
		"text": m.Text,
	}
	if m.ThreadID != "" {
		out["threadId"] = m.ThreadID
	}
	if m.ReplyCount > 0 {
		out["replyCount"] = m.ReplyCount
	}
	if len(m.Reactions) > 0 {
		out["reactions"] = m.Reactions
	}
	return out
}

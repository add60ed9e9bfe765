package main

import (
	"context"
	"encoding/json"

	"github.com/zsxkib/slack-mcp-bridge/internal/mcpadapter"
	"github.com/zsxkib/slack-mcp-bridge/internal/tools"
)

// readOnly is the annotation combination every read tool shares (spec
// §6 "Annotation hints": read tools are read-only + idempotent).
var readOnly = mcpadapter.Descriptor{ReadOnly: true, Idempotent: true, OpenWorld: true}

// registerTools binds every ToolHandlers method to the MCP server with
// its declared input schema and annotation hints.
func registerTools(s *mcpadapter.Server, h *tools.Handlers) {
	listChannels := readOnly
	listChannels.Description = "List Slack channels visible to the bound token."
	listChannels.Params = []mcpadapter.ParamOption{
		mcpadapter.EnumArrayParam("types", "conversation types to include", []string{"public_channel", "private_channel", "mpim", "im"}),
	}
	s.RegisterTool("list_channels", listChannels, bindHandler(func(ctx context.Context, args map[string]any) (tools.Result, error) {
		in, err := tools.Bind[tools.ListChannelsInput](args)
		if err != nil {
			return tools.Result{}, err
		}
		return h.ListChannels(ctx, in), nil
	}))

	getChannelHistory := readOnly
	getChannelHistory.Description = "Fetch recent messages from a Slack channel."
	getChannelHistory.Params = []mcpadapter.ParamOption{
		mcpadapter.StringParam("channel_id", "channel id or name", true),
		mcpadapter.NumberParam("limit", "maximum messages to return (1-1000)", 1, 1000),
		mcpadapter.StringParam("oldest", "oldest message timestamp to include", false),
		mcpadapter.StringParam("latest", "latest message timestamp to include", false),
	}
	s.RegisterTool("get_channel_history", getChannelHistory, bindHandler(func(ctx context.Context, args map[string]any) (tools.Result, error) {
		in, err := tools.Bind[tools.GetChannelHistoryInput](args)
		if err != nil {
			return tools.Result{}, err
		}
		return h.GetChannelHistory(ctx, in), nil
	}))

	getThreadReplies := readOnly
	getThreadReplies.Description = "Fetch replies to a Slack thread."
	getThreadReplies.Params = []mcpadapter.ParamOption{
		mcpadapter.StringParam("channel_id", "channel id or name", true),
		mcpadapter.StringParam("thread_timestamp", "timestamp of the thread's parent message", true),
	}
	s.RegisterTool("get_thread_replies", getThreadReplies, bindHandler(func(ctx context.Context, args map[string]any) (tools.Result, error) {
		in, err := tools.Bind[tools.GetThreadRepliesInput](args)
		if err != nil {
			return tools.Result{}, err
		}
		return h.GetThreadReplies(ctx, in), nil
	}))

	listUsers := readOnly
	listUsers.Description = "List Slack workspace members."
	s.RegisterTool("list_users", listUsers, bindHandler(func(ctx context.Context, args map[string]any) (tools.Result, error) {
		return h.ListUsers(ctx), nil
	}))

	getUserProfile := readOnly
	getUserProfile.Description = "Resolve a Slack user id to its display name."
	getUserProfile.Params = []mcpadapter.ParamOption{
		mcpadapter.StringParam("user_id", "Slack user id", true),
	}
	s.RegisterTool("get_user_profile", getUserProfile, bindHandler(func(ctx context.Context, args map[string]any) (tools.Result, error) {
		in, err := tools.Bind[tools.GetUserProfileInput](args)
		if err != nil {
			return tools.Result{}, err
		}
		return h.GetUserProfile(ctx, in), nil
	}))

	searchMessages := readOnly
	searchMessages.Description = "Full-text search across the workspace (requires user-mode auth)."
	searchMessages.Params = []mcpadapter.ParamOption{
		mcpadapter.StringParam("query", "search query", true),
		mcpadapter.NumberParam("count", "maximum results to return (1-100)", 1, 100),
	}
	s.RegisterTool("search_messages", searchMessages, bindHandler(func(ctx context.Context, args map[string]any) (tools.Result, error) {
		in, err := tools.Bind[tools.SearchMessagesInput](args)
		if err != nil {
			return tools.Result{}, err
		}
		return h.SearchMessages(ctx, in), nil
	}))

	// refresh is idempotent (repeated triggers are safe to retry) but
	// not read-only, and it doesn't destroy anything (spec §6).
	refreshCredentials := mcpadapter.Descriptor{
		Description: "Manually trigger a session-credential refresh (user-mode auth only).",
		ReadOnly:    false,
		Destructive: false,
		Idempotent:  true,
		OpenWorld:   true,
	}
	s.RegisterTool("refresh_credentials", refreshCredentials, bindHandler(func(ctx context.Context, args map[string]any) (tools.Result, error) {
		return h.RefreshCredentials(ctx), nil
	}))
}

// bindHandler adapts a typed handler func into mcpadapter's
// ToolHandlerFunc shape, marshaling the result's structuredContent
// into the text block mcp-go's CallToolResult expects.
func bindHandler(fn func(ctx context.Context, args map[string]any) (tools.Result, error)) mcpadapter.ToolHandlerFunc {
	return func(ctx context.Context, args map[string]any) (string, any, bool) {
		res, err := fn(ctx, args)
		if err != nil {
			return "Error: schema_violation - " + err.Error(), nil, true
		}
		if res.IsError {
			text := ""
			if len(res.Content) > 0 {
				text = res.Content[0].Text
			}
			return text, nil, true
		}
		text := ""
		if len(res.Content) > 0 {
			text = res.Content[0].Text
		} else if b, err := json.Marshal(res.StructuredContent); err == nil {
			text = string(b)
		}
		return text, res.StructuredContent, false
	}
}

package tools

import (
	"context"
	"regexp"
	"strings"

	"github.com/slack-go/slack"

	"github.com/zsxkib/slack-mcp-bridge/internal/format"
	"github.com/zsxkib/slack-mcp-bridge/internal/slackapi"
)

// dmChannelPattern recognizes a channel name that is itself a user-id
// shaped string, per spec §3 FormattedSearchResult's "DM: name (Dxxx)"
// rule.
var dmChannelPattern = regexp.MustCompile(`^[UW][A-Z0-9]+$`)

// SearchMessagesInput is the search_messages tool's schema.
type SearchMessagesInput struct {
	Query string `json:"query" validate:"required"`
	Count int    `json:"count" validate:"omitempty,gte=1,lte=100"`
}

const maxThreadParentLen = 200

// SearchMessages implements the search_messages tool, including the
// thread-parent enrichment from spec §4.8 step 6. search.messages
// doesn't carry a thread timestamp directly, so the parent is
// discovered by asking conversations.replies for the match's own
// timestamp: Slack returns the thread starting at its parent whenever
// the queried timestamp belongs to one.
func (h *Handlers) SearchMessages(ctx context.Context, in SearchMessagesInput) Result {
	if err := validateInput(in); err != nil {
		return schemaError(err.Error(), h.deps.ErrorLog)
	}

	if !isSearchAvailable(h.currentAuth()) {
		return failure(&slackapi.ToolError{
			Code:    "search_requires_user_token",
			Message: "search is only available with user-mode authentication",
		}, h.deps.ErrorLog)
	}

	count := in.Count
	if count == 0 {
		count = 20
	}

	resp, err := h.deps.Client.SearchMessages(ctx, in.Query, slack.SearchParameters{Count: count})
	if err != nil {
		return failure(slackapi.MapError(err, in.Query), h.deps.ErrorLog)
	}

	now := h.deps.now()
	seenThreads := map[string]bool{}

	out := make([]map[string]any, 0, len(resp.Matches))
	for _, match := range resp.Matches {
		entry := map[string]any{
			"id":      match.Timestamp,
			"channel": formatSearchChannel(match.Channel.ID, match.Channel.Name),
			"user":    h.deps.Users.Resolve(ctx, match.User),
			"time":    format.RelativeTime(match.Timestamp, now),
			"text":    format.CleanMarkup(match.Text, func(id string) string { return h.deps.Users.GetDisplayName(ctx, id) }),
		}

		if parent := h.threadParent(ctx, match, seenThreads); parent != nil {
			entry["threadId"] = parent.timestamp
			entry["threadParent"] = map[string]any{
				"user": h.deps.Users.Resolve(ctx, parent.user),
				"time": format.RelativeTime(parent.timestamp, now),
				"text": truncate(format.CleanMarkup(parent.text, func(id string) string { return h.deps.Users.GetDisplayName(ctx, id) }), maxThreadParentLen),
			}
		}

		out = append(out, entry)
	}

	stripped, err := toJSONValue(out)
	if err != nil {
		return failure(&slackapi.ToolError{Code: "internal_error", Message: err.Error()}, h.deps.ErrorLog)
	}
	return success(restoreText(stripped))
}

type threadParentInfo struct {
	timestamp string
	user      string
	text      string
}

// threadParent resolves the thread parent for a search match, deduped
// by (channel, threadTs) across the result set (spec §4.8 step 6). Any
// failure is swallowed and nil returned — the field is omitted
// silently rather than failing the whole search.
func (h *Handlers) threadParent(ctx context.Context, match slack.SearchMessage, seen map[string]bool) *threadParentInfo {
	replies, _, _, err := h.deps.Client.GetThreadReplies(ctx, slack.GetConversationRepliesParameters{
		ChannelID: match.Channel.ID,
		Timestamp: match.Timestamp,
		Limit:     1,
	})
	if err != nil || len(replies) == 0 {
		return nil
	}

	parent := replies[0]
	if parent.Timestamp == match.Timestamp {
		// The match itself is the thread's root; nothing to enrich.
		return nil
	}

	key := match.Channel.ID + ":" + parent.Timestamp
	if seen[key] {
		return nil
	}
	seen[key] = true

	return &threadParentInfo{timestamp: parent.Timestamp, user: parent.User, text: parent.Text}
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "…"
}

func formatSearchChannel(id, name string) string {
	if dmChannelPattern.MatchString(name) {
		return "DM: " + name + " (" + id + ")"
	}
	return "#" + strings.TrimPrefix(name, "#") + " (" + id + ")"
}

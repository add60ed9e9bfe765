package tools

import (
	"context"
	"encoding/json"
	"time"

	"github.com/slack-go/slack"

	"github.com/zsxkib/slack-mcp-bridge/internal/format"
	"github.com/zsxkib/slack-mcp-bridge/internal/namecache"
)

// formattedMessage mirrors spec §3's FormattedMessage.
type formattedMessage struct {
	ID         string         `json:"id"`
	Time       string         `json:"time"`
	User       string         `json:"user"`
	Text       string         `json:"text"`
	ThreadID   string         `json:"threadId,omitempty"`
	ReplyCount int            `json:"replyCount,omitempty"`
	Reactions  map[string]int `json:"reactions,omitempty"`
}

// formatMessage applies the FormatPipeline (spec §4.5, §4.8 step 5) to
// one raw Slack message: timestamp, user resolution, markup cleaning,
// and reaction compaction. text is always set, possibly to ""; Strip
// later drops an empty text and restoreText reinstates it, per spec
// §4.5's "empty-stripping + required fields" note.
func formatMessage(ctx context.Context, m slack.Message, users *namecache.UserCache, now time.Time) formattedMessage {
	reactions := make([]format.Reaction, len(m.Reactions))
	for i, r := range m.Reactions {
		reactions[i] = format.Reaction{Name: r.Name, Count: r.Count, Users: r.Users}
	}

	out := formattedMessage{
		ID:        m.Timestamp,
		Time:      format.RelativeTime(m.Timestamp, now),
		User:      users.Resolve(ctx, m.User),
		Text:      format.CleanMarkup(m.Text, func(id string) string { return users.GetDisplayName(ctx, id) }),
		Reactions: format.CompactReactions(reactions),
	}
	if m.ThreadTimestamp != "" && m.ThreadTimestamp != m.Timestamp {
		out.ThreadID = m.ThreadTimestamp
	}
	if m.ReplyCount > 0 {
		out.ReplyCount = m.ReplyCount
	}
	return out
}

// toJSONValue round-trips v through encoding/json into the
// map[string]any/[]any/scalar shape format.Strip operates on, then
// strips empties (spec §4.5, §4.8 step 5).
func toJSONValue(v any) (any, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var generic any
	if err := json.Unmarshal(b, &generic); err != nil {
		return nil, err
	}
	return format.Strip(generic), nil
}

// restoreText walks a stripped message list and reinstates "text": ""
// on every entry per spec §4.5's explicit post-step, since Strip would
// otherwise have dropped an empty text field entirely.
func restoreText(v any) any {
	switch val := v.(type) {
	case map[string]any:
		if _, ok := val["id"]; ok {
			if _, hasText := val["text"]; !hasText {
				val["text"] = ""
			}
		}
		return val
	case []any:
		for _, item := range val {
			restoreText(item)
		}
		return val
	default:
		return val
	}
}

package slackapi

import (
	"context"
	"net/http"

	"github.com/slack-go/slack"

	"github.com/zsxkib/slack-mcp-bridge/internal/auth"
	"github.com/zsxkib/slack-mcp-bridge/internal/namecache"
)

// holder is the slice of slackclient.Holder this package needs. Kept
// local (rather than importing slackclient directly) to avoid a
// dependency cycle and to keep the seam mockable.
type holder interface {
	Get(cfg auth.Config) *slack.Client
}

// Client wraps the process-wide Slack client behind the narrow surface
// the tool handlers call. It re-resolves the active client on every
// call through holder.Get rather than caching a *slack.Client, so a
// refresh's rebind (spec §4.3, §5 "Singletons") is visible to the very
// next call without requiring callers to re-fetch it themselves.
type Client struct {
	holder   holder
	resolver *auth.Resolver
}

// New builds a Client bound to h (normally a *slackclient.Holder) and
// resolver, the shared AuthResolver whose current config seeds every
// Holder.Get call.
func New(h holder, resolver *auth.Resolver) *Client {
	return &Client{holder: h, resolver: resolver}
}

func (c *Client) api() *slack.Client {
	cfg, err := c.resolver.Resolve()
	if err != nil {
		cfg = auth.Config{}
	}
	return c.holder.Get(cfg)
}

// AuthTest confirms the client's currently-bound credentials are live.
func (c *Client) AuthTest(ctx context.Context) (*slack.AuthTestResponse, error) {
	return c.api().AuthTestContext(ctx)
}

// CredentialValidator builds throwaway slack.Client instances to run
// auth.test against a candidate token/cookie pair, independent of
// whatever credentials *Client itself is currently bound to. It
// satisfies refresh.Validator (spec §4.6.3 step 5).
type CredentialValidator struct{}

// AuthTest calls auth.test with token/cookie and returns any error
// slack-go/slack surfaces (invalid_auth, account_inactive, etc.) —
// the caller (refresh.Manager) classifies those itself: invalid_auth
// and account_inactive become SESSION_REVOKED, anything else
// INVALID_RESPONSE.
func (v *CredentialValidator) AuthTest(ctx context.Context, token, cookie string) error {
	httpClient := &http.Client{Transport: validatorCookieTransport{cookie: cookie}}
	cli := slack.New(token, slack.OptionHTTPClient(httpClient))
	_, err := cli.AuthTestContext(ctx)
	return err
}

// validatorCookieTransport mirrors slackclient.Holder's own cookie
// injection so a refresh's validation request looks exactly like a
// real tool call's (same Cookie header shape).
type validatorCookieTransport struct {
	cookie string
}

func (t validatorCookieTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	r := req.Clone(req.Context())
	r.Header.Set("Cookie", "d="+t.cookie)
	return http.DefaultTransport.RoundTrip(r)
}

// ListChannels returns every conversation of the given types the bound
// token can see, paging through conversations.list (the list_channels
// tool's direct use; the NameCaches populate goes through
// ListConversationsPage instead).
func (c *Client) ListChannels(ctx context.Context, types []string) ([]slack.Channel, error) {
	var all []slack.Channel
	cursor := ""
	for {
		params := &slack.GetConversationsParameters{
			Types:  types,
			Limit:  200,
			Cursor: cursor,
		}
		page, next, err := c.api().GetConversationsContext(ctx, params)
		if err != nil {
			return nil, err
		}
		all = append(all, page...)
		if next == "" {
			break
		}
		cursor = next
	}
	return all, nil
}

// ListConversationsPage satisfies namecache.ConversationsLister,
// adapting one conversations.list page into the cache's own Channel
// shape. The ChannelCache populate call indexes public channels only,
// at the spec's 1000-per-page size (spec §4.4) — distinct from the
// list_channels tool's ListChannels, which takes caller-supplied types.
func (c *Client) ListConversationsPage(ctx context.Context, cursor string) ([]namecache.Channel, string, error) {
	params := &slack.GetConversationsParameters{
		Types:  []string{"public_channel"},
		Limit:  1000,
		Cursor: cursor,
	}
	page, next, err := c.api().GetConversationsContext(ctx, params)
	if err != nil {
		return nil, "", err
	}
	out := make([]namecache.Channel, len(page))
	for i, ch := range page {
		out[i] = namecache.Channel{ID: ch.ID, Name: ch.Name}
	}
	return out, next, nil
}

// ListUsers satisfies namecache.UsersLister.
func (c *Client) ListUsers(ctx context.Context) ([]namecache.RawUser, error) {
	users, err := c.api().GetUsersContext(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]namecache.RawUser, len(users))
	for i, u := range users {
		out[i] = namecache.RawUser{
			ID:              u.ID,
			DisplayNameProf: u.Profile.DisplayName,
			RealName:        u.RealName,
			Name:            u.Name,
		}
	}
	return out, nil
}

// GetChannelHistory fetches a page of messages for a channel (spec's
// get_channel_history tool).
func (c *Client) GetChannelHistory(ctx context.Context, params slack.GetConversationHistoryParameters) (*slack.GetConversationHistoryResponse, error) {
	return c.api().GetConversationHistoryContext(ctx, &params)
}

// GetThreadReplies fetches replies to a thread parent (spec's
// get_thread_replies tool, and search's thread-parent enrichment).
func (c *Client) GetThreadReplies(ctx context.Context, params slack.GetConversationRepliesParameters) ([]slack.Message, bool, string, error) {
	return c.api().GetConversationRepliesContext(ctx, &params)
}

// SearchMessages runs search.messages (spec's search_messages tool;
// user-mode only per the capability rule in §4.8).
func (c *Client) SearchMessages(ctx context.Context, query string, params slack.SearchParameters) (*slack.SearchMessages, error) {
	return c.api().SearchMessagesContext(ctx, query, params)
}

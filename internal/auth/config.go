// Package auth resolves and holds the process's Slack authentication
// mode (spec §4.1, §3 "AuthConfig").
package auth

import "github.com/zsxkib/slack-mcp-bridge/internal/mask"

// Mode distinguishes the two AuthConfig constructors.
type Mode int

const (
	ModeBot Mode = iota
	ModeUser
)

// Config is the tagged AuthConfig variant. Exactly one of the two
// shapes is populated, selected by Mode; callers must switch on Mode,
// never infer it from which fields are non-empty.
type Config struct {
	Mode   Mode
	Token  string // xoxb-... (bot) or xoxc-... (user)
	Cookie string // xoxd-...; only set when Mode == ModeUser
}

// Bot builds a bot-mode AuthConfig.
func Bot(token string) Config { return Config{Mode: ModeBot, Token: token} }

// User builds a user-mode AuthConfig.
func User(token, cookie string) Config { return Config{Mode: ModeUser, Token: token, Cookie: cookie} }

// IsUser reports whether this config is user mode (session-cookie auth).
func (c Config) IsUser() bool { return c.Mode == ModeUser }

// String never leaks the live token/cookie.
func (c Config) String() string {
	if c.Mode == ModeBot {
		return "Bot{token=" + mask.Token(c.Token) + "}"
	}
	return "User{token=" + mask.Token(c.Token) + ", cookie=" + mask.Token(c.Cookie) + "}"
}

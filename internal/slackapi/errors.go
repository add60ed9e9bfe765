// Package slackapi wraps github.com/slack-go/slack behind the narrow
// interfaces the tool handlers and the refresh engine actually need,
// and centralizes Slack's error-code-to-ToolError mapping (spec §4.12,
// §7) so every handler shares one switch instead of repeating it.
package slackapi

import (
	"errors"
	"fmt"
	"strings"

	"github.com/slack-go/slack"
)

// ToolError is the structured failure shape every tool handler
// produces on error (spec §4.8, §7).
type ToolError struct {
	Code       string
	Message    string
	Retryable  bool
	RetryAfter int // seconds; zero when not applicable
}

func (e *ToolError) Error() string {
	msg := fmt.Sprintf("%s - %s", e.Code, e.Message)
	if e.RetryAfter > 0 {
		msg += fmt.Sprintf(". Please retry after %d seconds.", e.RetryAfter)
	}
	return msg
}

// codeMessages gives each mapped code a human-readable base message;
// MapError splices in the offending id where one is known.
var codeMessages = map[string]string{
	"rate_limited":     "Slack rate-limited this request",
	"invalid_auth":     "Slack rejected the current credentials",
	"missing_scope":    "the current token is missing a required scope",
	"channel_not_found": "channel %s was not found",
	"user_not_found":    "user %s was not found",
	"not_in_channel":    "the calling user is not a member of channel %s",
	"thread_not_found":  "thread %s was not found",
	"internal_error":    "Slack reported an internal error",
	"unknown_error":     "Slack returned an unrecognized error",
}

var retryableCodes = map[string]bool{
	"rate_limited":   true,
	"internal_error": true,
}

// MapError classifies err (typically a *slack.SlackErrorResponse or a
// *slack.RateLimitedError from slack-go/slack) into a ToolError.
// context, when non-empty, is spliced into the message as the
// offending channel/user/thread id (spec §7 "Context is spliced in").
func MapError(err error, context string) *ToolError {
	if err == nil {
		return nil
	}

	var rl *slack.RateLimitedError
	if errors.As(err, &rl) {
		return &ToolError{
			Code:       "rate_limited",
			Message:    codeMessages["rate_limited"],
			Retryable:  true,
			RetryAfter: int(rl.RetryAfter.Seconds()),
		}
	}

	code := classify(err)
	msg, ok := codeMessages[code]
	if !ok {
		code = "unknown_error"
		msg = codeMessages[code]
	}
	if strings.Contains(msg, "%s") {
		if context == "" {
			context = "unknown"
		}
		msg = fmt.Sprintf(msg, context)
	}

	return &ToolError{
		Code:      code,
		Message:   msg,
		Retryable: retryableCodes[code],
	}
}

// classify extracts Slack's wire-level error string (e.g. "channel_not_found")
// from the error returned by slack-go/slack, which typically surfaces it
// verbatim as the error's message.
func classify(err error) string {
	msg := err.Error()
	for code := range codeMessages {
		if strings.Contains(msg, code) {
			return code
		}
	}
	return "unknown_error"
}

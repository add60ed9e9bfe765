package refresh

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractAPIToken_QuotedJSONLiteral(t *testing.T) {
	body := `window.boot_data = {"api_token": "xoxc-111-222-333"};`
	assert.Equal(t, "xoxc-111-222-333", ExtractAPIToken(body))
}

func TestExtractAPIToken_UnquotedFallbackPattern(t *testing.T) {
	body := `var cfg = {api_token: xoxc-444-555-666, other: 1};`
	assert.Equal(t, "xoxc-444-555-666", ExtractAPIToken(body))
}

func TestExtractAPIToken_SingleQuotedFallbackPattern(t *testing.T) {
	body := `api_token:'xoxc-777-888-999'`
	assert.Equal(t, "xoxc-777-888-999", ExtractAPIToken(body))
}

func TestExtractAPIToken_PrefersQuotedPatternWhenBothPresent(t *testing.T) {
	body := `{"api_token":"xoxc-quoted-wins"} api_token: xoxc-should-not-be-used`
	assert.Equal(t, "xoxc-quoted-wins", ExtractAPIToken(body))
}

func TestExtractAPIToken_NoMatchReturnsEmpty(t *testing.T) {
	assert.Equal(t, "", ExtractAPIToken(`{"some_other_field": "value"}`))
}

func TestExtractCookie_FindsRotatedCookie(t *testing.T) {
	headers := []string{"d=xoxd-abc123; Path=/; HttpOnly"}
	assert.Equal(t, "xoxd-abc123", ExtractCookie(headers))
}

func TestExtractCookie_PreservesExpiresCommaWhileSplittingCookies(t *testing.T) {
	// A single Set-Cookie header value carrying two cookies joined by a
	// comma, where the first cookie's own Expires attribute also
	// contains a comma. Splitting naively on every comma would chop the
	// Expires date in half and/or miss the "d=" cookie.
	header := "d=xoxd-keep-me; Path=/; Expires=Wed, 21 Oct 2026 07:28:00 GMT, lang=en-US; Path=/"
	assert.Equal(t, "xoxd-keep-me", ExtractCookie([]string{header}))
}

func TestExtractCookie_SearchesAcrossMultipleHeaderValues(t *testing.T) {
	headers := []string{
		"lang=en-US; Path=/",
		"d=xoxd-second-header; Path=/",
	}
	assert.Equal(t, "xoxd-second-header", ExtractCookie(headers))
}

func TestExtractCookie_NoDCookieReturnsEmpty(t *testing.T) {
	headers := []string{"lang=en-US; Path=/", "session=abc; Path=/"}
	assert.Equal(t, "", ExtractCookie(headers))
}

func TestSplitCookieHeader_SingleCookieNoSplit(t *testing.T) {
	parts := splitCookieHeader("d=xoxd-onlyone; Path=/")
	assert.Equal(t, []string{"d=xoxd-onlyone; Path=/"}, parts)
}

func TestSplitCookieHeader_SplitsOnRealCookieBoundaryNotExpiresComma(t *testing.T) {
	header := "a=1; Expires=Wed, 21 Oct 2026 07:28:00 GMT, b=2"
	parts := splitCookieHeader(header)
	assert.Len(t, parts, 2)
	assert.Equal(t, "a=1; Expires=Wed, 21 Oct 2026 07:28:00 GMT", parts[0])
	assert.Equal(t, "b=2", parts[1])
}

func TestLooksLikeSignIn_DetectsSignInRedirectURL(t *testing.T) {
	assert.True(t, LooksLikeSignIn("https://acme.slack.com/signin?redir=%2F", ""))
	assert.True(t, LooksLikeSignIn("https://acme.slack.com/sign_in", ""))
}

func TestLooksLikeSignIn_DetectsSignInBodyMarkup(t *testing.T) {
	assert.True(t, LooksLikeSignIn("https://acme.slack.com/", `<form action="/signin">`))
	assert.True(t, LooksLikeSignIn("https://acme.slack.com/", "Sign in to Slack"))
}

func TestLooksLikeSignIn_WorkspaceHomeIsNotSignIn(t *testing.T) {
	assert.False(t, LooksLikeSignIn("https://acme.slack.com/", `<div id="client-ui"></div>`))
}

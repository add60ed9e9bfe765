package refresh

import (
	"regexp"
	"strings"
)

// apiTokenPatterns are tried in order; the first match wins (spec
// §4.6.3 step 4). Isolated here per spec §9's "Open question" note so
// the HTML-scrape contract can be updated without touching the state
// machine around it.
var apiTokenPatterns = []*regexp.Regexp{
	regexp.MustCompile(`"api_token"\s*:\s*"(xoxc-[^"]+)"`),
	regexp.MustCompile(`api_token\s*:\s*['"]?(xoxc-[^'",}\s]+)`),
}

// ExtractAPIToken returns the first xoxc- token found in body, or ""
// if none of the recognized patterns match.
func ExtractAPIToken(body string) string {
	for _, re := range apiTokenPatterns {
		if m := re.FindStringSubmatch(body); m != nil {
			return m[1]
		}
	}
	return ""
}

var (
	cookieSplitPattern = regexp.MustCompile(`,\s*[A-Za-z0-9_\-]+=`)
	dCookiePattern      = regexp.MustCompile(`(?:^|;\s*)d=(xoxd-[^;]+)`)
)

// splitCookieHeader splits a single raw Set-Cookie header value on a
// comma only where the comma is followed by "<name>=", so a comma
// embedded in an Expires date doesn't split one cookie in half.
func splitCookieHeader(h string) []string {
	locs := cookieSplitPattern.FindAllStringIndex(h, -1)
	if len(locs) == 0 {
		return []string{h}
	}
	parts := make([]string, 0, len(locs)+1)
	prev := 0
	for _, loc := range locs {
		parts = append(parts, h[prev:loc[0]])
		// loc[1] sits right after "name=" 's "="; back up to the
		// start of "name=" so it stays with the next part.
		nameStart := loc[0] + 1
		for nameStart < loc[1] && h[nameStart] == ' ' {
			nameStart++
		}
		prev = nameStart
	}
	parts = append(parts, h[prev:])
	return parts
}

// ExtractCookie finds a rotated "d=xoxd-..." cookie across one or more
// Set-Cookie header values (spec §4.6.3 step 3). Returns "" if no
// xoxd- value is present, in which case the caller should reuse the
// current cookie — Slack's sliding session doesn't always rotate it.
func ExtractCookie(setCookieHeaders []string) string {
	for _, header := range setCookieHeaders {
		for _, part := range splitCookieHeader(header) {
			if m := dCookiePattern.FindStringSubmatch(strings.TrimSpace(part)); m != nil {
				return m[1]
			}
		}
	}
	return ""
}

// signInIndicators are substrings in either the final URL or the body
// that mean Slack redirected to (or rendered) a sign-in page instead
// of the workspace home (spec §4.6.3 step 2).
var signInIndicators = []string{
	`action="/signin"`,
	`action="/sign_in"`,
	"You need to sign in",
	"Sign in to Slack",
}

// LooksLikeSignIn reports whether the final URL or response body
// indicates the session was rejected and Slack served a sign-in page.
func LooksLikeSignIn(finalURL, body string) bool {
	if strings.Contains(finalURL, "/signin") || strings.Contains(finalURL, "/sign_in") || strings.Contains(finalURL, "?redir=") {
		return true
	}
	for _, ind := range signInIndicators {
		if strings.Contains(body, ind) {
			return true
		}
	}
	return false
}

package format

import "strings"

// MentionResolver resolves a raw Slack user ID (without the "@"/"<@"
// decoration) to a display name. Implementations fall back to the raw
// ID for unknown users (spec §4.4 UserCache.getDisplayName contract).
type MentionResolver func(id string) string

// CleanMarkup runs the three Slack-markup cleanup passes in the order
// spec §4.5 requires: (a) link/channel tokens, (b) @mentions, (c) HTML
// entity decoding last, so entities embedded in a link label survive
// step (a) undecoded and only get unescaped once conversion is done.
func CleanMarkup(text string, resolve MentionResolver) string {
	if text == "" {
		return ""
	}
	out := convertTokens(text)
	out = resolveMentions(out, resolve)
	out = decodeEntities(out)
	return out
}

// convertTokens rewrites every <...> token except <@Uxxx> mentions:
//
//	<#C|n>    -> "#n"
//	<#C>      -> "#C"
//	<url|lbl> -> "[lbl](url)"
//	<url>     -> "url"
func convertTokens(s string) string {
	var b strings.Builder
	for {
		start := strings.IndexByte(s, '<')
		if start == -1 {
			b.WriteString(s)
			break
		}
		end := strings.IndexByte(s[start:], '>')
		if end == -1 {
			b.WriteString(s)
			break
		}
		end += start

		b.WriteString(s[:start])
		content := s[start+1 : end]

		switch {
		case strings.HasPrefix(content, "@U"):
			// Leave mention tokens untouched for the next pass.
			b.WriteByte('<')
			b.WriteString(content)
			b.WriteByte('>')
		case strings.HasPrefix(content, "#"):
			rest := content[1:]
			if i := strings.IndexByte(rest, '|'); i >= 0 {
				b.WriteByte('#')
				b.WriteString(rest[i+1:])
			} else {
				b.WriteByte('#')
				b.WriteString(rest)
			}
		default:
			if i := strings.IndexByte(content, '|'); i >= 0 {
				url, label := content[:i], content[i+1:]
				b.WriteByte('[')
				b.WriteString(label)
				b.WriteString("](")
				b.WriteString(url)
				b.WriteByte(')')
			} else {
				b.WriteString(content)
			}
		}

		s = s[end+1:]
	}
	return b.String()
}

func resolveMentions(s string, resolve MentionResolver) string {
	var b strings.Builder
	for {
		start := strings.Index(s, "<@")
		if start == -1 {
			b.WriteString(s)
			break
		}
		end := strings.IndexByte(s[start:], '>')
		if end == -1 {
			b.WriteString(s)
			break
		}
		end += start

		b.WriteString(s[:start])
		id := s[start+2 : end]
		if resolve != nil {
			b.WriteByte('@')
			b.WriteString(resolve(id))
		} else {
			b.WriteString(id)
		}
		s = s[end+1:]
	}
	return b.String()
}

// decodeEntities decodes the three Slack-relevant HTML entities. &lt;
// and &gt; are decoded before &amp; so "&amp;lt;" isn't double-decoded
// into "<".
func decodeEntities(s string) string {
	s = strings.ReplaceAll(s, "&lt;", "<")
	s = strings.ReplaceAll(s, "&gt;", ">")
	s = strings.ReplaceAll(s, "&amp;", "&")
	return s
}

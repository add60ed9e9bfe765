package format

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCleanMarkup(t *testing.T) {
	resolve := func(id string) string {
		if id == "U123" {
			return "alice"
		}
		return id
	}

	tests := []struct {
		name, in, want string
	}{
		{"empty", "", ""},
		{"channel with label", "see <#C1|general>", "see #general"},
		{"channel bare", "see <#C1>", "see #C1"},
		{"link with label", "go to <https://example.com|Example>", "go to [Example](https://example.com)"},
		{"bare url", "go to <https://example.com>", "go to https://example.com"},
		{"known mention", "hi <@U123>", "hi @alice"},
		{"unknown mention", "hi <@U999>", "hi @U999"},
		{"entities decode last", "<https://a|A &amp; B>", "[A & B](https://a)"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, CleanMarkup(tc.in, resolve))
		})
	}
}

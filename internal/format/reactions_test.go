package format

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCompactReactions(t *testing.T) {
	got := CompactReactions([]Reaction{
		{Name: "thumbsup", Count: 3, Users: []string{"U1", "U2", "U3"}},
		{Name: "", Count: 1},
		{Name: "eyes", Count: 1},
	})
	assert.Equal(t, map[string]int{"thumbsup": 3, "eyes": 1}, got)
}

func TestCompactReactions_Empty(t *testing.T) {
	assert.Nil(t, CompactReactions(nil))
	assert.Nil(t, CompactReactions([]Reaction{{Name: "", Count: 5}}))
}

package format

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStrip(t *testing.T) {
	in := map[string]any{
		"keep":      "hello",
		"empty":     "",
		"falsey":    false,
		"zero":      0,
		"nilField":  nil,
		"emptyList": []any{},
		"list":      []any{"a", "", "b"},
		"nested":    map[string]any{"inner": ""},
		"nestedOK":  map[string]any{"inner": "x"},
	}

	got := Strip(in).(map[string]any)

	assert.Equal(t, "hello", got["keep"])
	assert.Equal(t, false, got["falsey"])
	assert.Equal(t, 0, got["zero"])
	assert.NotContains(t, got, "empty")
	assert.NotContains(t, got, "nilField")
	assert.NotContains(t, got, "emptyList")
	assert.NotContains(t, got, "nested")
	assert.Equal(t, []any{"a", "b"}, got["list"])
	assert.Equal(t, map[string]any{"inner": "x"}, got["nestedOK"])
}

func TestStrip_Idempotent(t *testing.T) {
	in := map[string]any{
		"a": "",
		"b": map[string]any{"c": []any{"", nil}},
		"d": "keep",
	}
	once := Strip(in)
	twice := Strip(once)
	assert.Equal(t, once, twice)
}

// Package tools implements the seven ToolHandlers (spec §4.8, §4.9):
// thin adapters that validate input, check capability flags, resolve
// references via the name caches, call Slack, run the format
// pipeline, and return a uniform response shape.
package tools

import (
	"encoding/json"
	"fmt"

	"github.com/zsxkib/slack-mcp-bridge/internal/errlog"
	"github.com/zsxkib/slack-mcp-bridge/internal/slackapi"
)

// ContentBlock is one entry of a tool result's content array.
type ContentBlock struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// Result is the uniform shape every handler returns (spec §4.8, §6
// "Tool surface").
type Result struct {
	Content           []ContentBlock `json:"content"`
	StructuredContent any             `json:"structuredContent,omitempty"`
	IsError           bool            `json:"isError,omitempty"`
}

// success builds the uniform success envelope: the same stripped
// object serialized as both the text block and structuredContent.
func success(data any) Result {
	b, err := json.Marshal(data)
	if err != nil {
		return failure(&slackapi.ToolError{Code: "internal_error", Message: "failed to encode response"}, nil)
	}
	return Result{
		Content:           []ContentBlock{{Type: "text", Text: string(b)}},
		StructuredContent: data,
	}
}

// failure builds the uniform error envelope (spec §4.8, §7) and writes
// one ErrorLog entry, never letting a logging failure surface.
func failure(te *slackapi.ToolError, log *errlog.Log) Result {
	text := fmt.Sprintf("Error: %s", te.Error())
	if log != nil {
		log.Safe(errlog.Entry{
			Level:     errlog.LevelError,
			Component: "tools",
			Code:      te.Code,
			Message:   te.Message,
			Retryable: te.Retryable,
		})
	}
	return Result{
		Content: []ContentBlock{{Type: "text", Text: text}},
		IsError: true,
	}
}

// schemaError builds a tool-visible schema-violation failure (spec
// §4.8 step 1), distinct from a Slack-mapped error.
func schemaError(msg string, log *errlog.Log) Result {
	return failure(&slackapi.ToolError{Code: "schema_violation", Message: msg}, log)
}

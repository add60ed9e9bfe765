package tools

import "encoding/json"

// Bind decodes a tool call's raw JSON-RPC arguments into a typed input
// struct via its json tags. Used by the registration layer (see
// cmd/slack-mcp-bridge) to adapt mcpadapter's map[string]any arguments
// into each handler's declared Input type before validateInput runs.
func Bind[T any](args map[string]any) (T, error) {
	var out T
	b, err := json.Marshal(args)
	if err != nil {
		return out, err
	}
	if err := json.Unmarshal(b, &out); err != nil {
		return out, err
	}
	return out, nil
}

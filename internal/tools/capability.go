package tools

import "github.com/zsxkib/slack-mcp-bridge/internal/auth"

// isSearchAvailable implements the capability rule from spec §4.8:
// search requires active user-mode auth.
func isSearchAvailable(cfg auth.Config) bool {
	return cfg.IsUser()
}

// isRefreshAvailable implements the capability rule from spec §4.8:
// refresh requires user-mode auth, a configured workspace, and the
// enablement flag.
func isRefreshAvailable(cfg auth.Config, workspace string, enabled bool) bool {
	return cfg.IsUser() && workspace != "" && enabled
}

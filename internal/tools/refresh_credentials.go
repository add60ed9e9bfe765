package tools

import (
	"context"

	"github.com/zsxkib/slack-mcp-bridge/internal/refresh"
)

// RefreshCredentials implements the refresh_credentials tool (spec
// §4.9). No input.
func (h *Handlers) RefreshCredentials(ctx context.Context) Result {
	cfg := h.currentAuth()

	if !cfg.IsUser() {
		return success(map[string]any{
			"success": false,
			"error": map[string]any{
				"code":    string(refresh.CodeRefreshNotAvailable),
				"message": "refresh is only for user auth",
			},
		})
	}
	if !isRefreshAvailable(cfg, h.deps.Workspace, h.deps.Enabled) {
		return success(map[string]any{
			"success": false,
			"error": map[string]any{
				"code":    string(refresh.CodeRefreshNotAvailable),
				"message": "ensure SLACK_WORKSPACE is set",
			},
		})
	}

	err := h.deps.Scheduler.TriggerManual(ctx)
	if err == nil {
		st := h.deps.Manager.State()
		refreshedAt := ""
		if st.LastSuccess != nil {
			refreshedAt = st.LastSuccess.UTC().Format("2006-01-02T15:04:05Z07:00")
		}
		totalRefreshes := 0
		if rec, loadErr := h.deps.Store.Load(); loadErr == nil {
			totalRefreshes = rec.Metadata.RefreshCount
		}
		return success(map[string]any{
			"success":        true,
			"message":        "Credentials refreshed successfully",
			"refreshedAt":    refreshedAt,
			"totalRefreshes": totalRefreshes,
		})
	}

	refErr, ok := err.(*refresh.Error)
	if !ok {
		refErr = &refresh.Error{Code: refresh.CodeUnknown, Message: err.Error()}
	}
	return success(map[string]any{
		"success": false,
		"error": map[string]any{
			"code":      string(refErr.Code),
			"message":   refErr.Message,
			"retryable": refErr.Retryable(),
		},
	})
}

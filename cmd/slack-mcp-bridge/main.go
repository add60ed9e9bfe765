// Command slack-mcp-bridge is the process entrypoint: it resolves
// auth, loads or seeds persisted credentials, wires the refresh
// subsystem, registers the seven tools, and serves the tool protocol
// over stdio until the transport closes (spec §6).
package main

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/zsxkib/slack-mcp-bridge/internal/auth"
	"github.com/zsxkib/slack-mcp-bridge/internal/credstore"
	"github.com/zsxkib/slack-mcp-bridge/internal/errlog"
	"github.com/zsxkib/slack-mcp-bridge/internal/logging"
	"github.com/zsxkib/slack-mcp-bridge/internal/mcpadapter"
	"github.com/zsxkib/slack-mcp-bridge/internal/memory"
	"github.com/zsxkib/slack-mcp-bridge/internal/namecache"
	"github.com/zsxkib/slack-mcp-bridge/internal/refresh"
	"github.com/zsxkib/slack-mcp-bridge/internal/slackapi"
	"github.com/zsxkib/slack-mcp-bridge/internal/slackclient"
	"github.com/zsxkib/slack-mcp-bridge/internal/tools"
)

const serverVersion = "0.1.0"

func main() {
	logger := logging.New("slack-mcp-bridge")

	cfg, err := auth.LoadRefreshConfig()
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to load configuration")
	}

	errLog := errlog.New(cfg.ErrorLogPath)
	refreshLog := logging.RefreshLogger{Logger: logger}

	resolver := auth.NewResolver()
	authCfg, err := resolver.Resolve()
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to resolve Slack auth")
	}
	logger.Info().Str("auth", authCfg.String()).Msg("resolved Slack auth")

	store := credstore.New(cfg.CredentialsPath)
	seedCredentialStore(logger, store, authCfg, cfg.Workspace)

	holder := slackclient.New()
	if authCfg.IsUser() && store.Exists() {
		if rec, err := store.Load(); err == nil {
			holder.UpdateCredentials(rec.Credentials.Token, rec.Credentials.Cookie)
		} else {
			logger.Warn().Err(err).Msg("failed to load persisted credentials; using environment credentials")
		}
	}
	client := slackapi.New(holder, resolver)

	channels := namecache.NewChannelCache(client)
	users := namecache.NewUserCache(client)

	manager := refresh.NewManager(store, holder, refresh.NewHTTPScraper(), &slackapi.CredentialValidator{}, refreshLog)

	schedulerEnabled := authCfg.IsUser() && cfg.Workspace != "" && cfg.Enabled
	scheduler := refresh.NewScheduler(manager, cfg.IntervalDays, 0, schedulerEnabled, refreshLog)

	// The read-only memory listing stub (spec §4.11): constructed so a
	// future tool surface has something real to call into, but not
	// itself exposed as a tool — spec.md's seven tools don't include
	// one, and the Markdown indexer stays explicitly out of scope.
	_ = memory.NewDirStore(cfg.MemoryDir)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	scheduler.Start(ctx)
	defer scheduler.Stop()

	handlers := tools.New(&tools.Deps{
		Resolver:  resolver,
		Client:    client,
		Channels:  channels,
		Users:     users,
		Scheduler: scheduler,
		Manager:   manager,
		Store:     store,
		ErrorLog:  errLog,
		Workspace: cfg.Workspace,
		Enabled:   cfg.Enabled,
	})

	mcpServer := mcpadapter.New("slack-mcp-bridge", serverVersion)
	registerTools(mcpServer, handlers)

	logger.Info().Msg("serving Slack MCP bridge over stdio")
	if err := mcpServer.ServeStdio(); err != nil {
		logger.Fatal().Err(err).Msg("stdio transport closed with an error")
	}
}

// seedCredentialStore seeds the credential store from freshly-resolved
// environment variables the first time a user-mode bridge starts with
// no persisted record yet (spec §4.2's CreateInitial, referenced by
// §4.1's bootstrap narrative). Bot-mode auth never touches the store:
// there is nothing to refresh.
func seedCredentialStore(logger zerolog.Logger, store *credstore.Store, authCfg auth.Config, workspace string) {
	if !authCfg.IsUser() || store.Exists() {
		return
	}
	if workspace == "" {
		logger.Warn().Msg("user-mode auth configured but SLACK_WORKSPACE is unset; refresh will stay disabled")
		return
	}
	if _, err := store.CreateInitial(authCfg.Token, authCfg.Cookie, workspace); err != nil {
		logger.Warn().Err(err).Msg("failed to seed initial credential record")
	}
}

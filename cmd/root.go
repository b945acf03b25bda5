// Package cmd provides the CLI commands for the trailhead application.
package cmd

import (
	"context"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/adalundhe/trailhead/agents/curator"
	"github.com/adalundhe/trailhead/agents/guide"
	"github.com/adalundhe/trailhead/agents/scout"
	"github.com/adalundhe/trailhead/core/catalog"
	"github.com/adalundhe/trailhead/core/config"
	"github.com/adalundhe/trailhead/core/database"
	"github.com/adalundhe/trailhead/core/providers"
	"github.com/adalundhe/trailhead/core/search"
	"github.com/adalundhe/trailhead/core/session"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:   "trailhead",
	Short: "Trailhead - a conversational catalog of outdoor recreation towns",
	Long: `Trailhead maintains a catalog of outdoor recreation towns through a
conversational assistant: research new towns, review the prepared
records, and confirm them into a local SQLite catalog.`,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to the config file")
}

func newLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, nil))
}

func loadConfig() (*config.Manager, error) {
	manager := config.NewManager(configPath)
	if err := manager.Load(); err != nil {
		return nil, err
	}
	return manager, nil
}

// runtime bundles the wired components most commands need.
type runtime struct {
	cfg      *config.Config
	manager  *config.Manager
	pool     *database.Pool
	store    *catalog.Store
	provider providers.Provider
	logger   *slog.Logger
}

func (r *runtime) close() {
	if r.pool != nil {
		_ = r.pool.Close()
	}
	if r.manager != nil {
		_ = r.manager.Close()
	}
}

// newRuntime opens the catalog database and, when withProvider is set,
// resolves credentials and builds the completion gateway.
func newRuntime(ctx context.Context, withProvider bool) (*runtime, error) {
	manager, err := loadConfig()
	if err != nil {
		return nil, err
	}
	cfg := manager.Get()

	pool, err := database.OpenAndMigrate(ctx, cfg.Database.Path)
	if err != nil {
		_ = manager.Close()
		return nil, err
	}

	r := &runtime{
		cfg:     cfg,
		manager: manager,
		pool:    pool,
		store:   catalog.NewStore(pool),
		logger:  newLogger(),
	}

	if withProvider {
		apiKey, err := providers.ResolveAPIKey(cfg.LLM.Provider)
		if err != nil {
			r.close()
			return nil, err
		}
		provider, err := providers.New(providers.Config{
			Provider:  cfg.LLM.Provider,
			Model:     cfg.LLM.Model,
			APIKey:    apiKey,
			MaxTokens: cfg.LLM.MaxTokens,
			Timeout:   cfg.LLM.Timeout,
		})
		if err != nil {
			r.close()
			return nil, err
		}
		r.provider = provider
	}
	return r, nil
}

// newRouter wires the full conversational stack on top of a runtime.
func newRouter(r *runtime) (*guide.Router, *session.State, *session.History, error) {
	history := session.NewHistory(r.cfg.Session.HistoryWindow)

	var index *search.Index
	if idx, err := search.Open(r.cfg.Search.IndexPath); err == nil {
		index = idx
	} else {
		r.logger.Warn("search index unavailable", slog.String("error", err.Error()))
	}

	dbAgent := curator.New(curator.Config{
		Store:    r.store,
		Provider: r.provider,
		Search:   index,
		Logger:   r.logger,
	})
	researchAgent := scout.New(scout.Config{
		Provider: r.provider,
		Names:    r.store,
		History:  history,
		Logger:   r.logger,
	})
	router, err := guide.New(guide.Config{
		Curator:  dbAgent,
		Scout:    researchAgent,
		Provider: r.provider,
		History:  history,
		Logger:   r.logger,
	})
	if err != nil {
		return nil, nil, nil, err
	}
	return router, session.NewState(), history, nil
}

package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"mcpradar/internal/config"
	"mcpradar/internal/domain"
	"mcpradar/internal/infrastructure/apify"
	"mcpradar/internal/infrastructure/llm"
	"mcpradar/internal/infrastructure/reddit"
	"mcpradar/internal/infrastructure/rpcdb"
	"mcpradar/internal/infrastructure/storage"
	"mcpradar/internal/infrastructure/telegram"
	"mcpradar/internal/infrastructure/webfetch"
	"mcpradar/internal/ingest"
	"mcpradar/internal/logging"
	"mcpradar/internal/ports"
	"mcpradar/internal/usecase"
)

// Application wires configuration to use cases.
type Application struct {
	cfg    config.Config
	logger *slog.Logger

	Store  *storage.Store
	Runner *usecase.Runner
	Report *usecase.ReportBuilder
}

// New builds the full dependency graph. Nothing talks to the network here;
// credentials are checked by the commands that need them.
func New(cfg config.Config, logger *slog.Logger) *Application {
	if logger == nil {
		logger = logging.New(cfg.Logging.Level)
	}

	db := rpcdb.New(cfg.Database.ProxyURL, cfg.Database.AuthToken)
	store := storage.New(db, logger.With("component", "storage"))
	fetcher := webfetch.New(nil)
	analyzer := llm.New(cfg.LLM.APIKey, cfg.LLM.BaseURL, cfg.LLM.Model, logger.With("component", "llm"))

	registry := ingest.NewRegistry()
	registry.Register(usecase.NewBlogKind(
		store, store, analyzer, fetcher, logger.With("component", "pipeline.blogs")))
	registry.Register(usecase.NewLinkedInKind(
		store, store, analyzer,
		apify.New(cfg.Apify.Token, cfg.Apify.ActorID, logger.With("component", "apify")),
		logger.With("component", "pipeline.linkedin")))
	registry.Register(usecase.NewRedditKind(
		store, store, analyzer,
		reddit.New(fetcher, cfg.Reddit.PostLimit),
		logger.With("component", "pipeline.reddit")))

	return &Application{
		cfg:    cfg,
		logger: logger,
		Store:  store,
		Runner: usecase.NewRunner(registry, logger.With("component", "runner")),
		Report: usecase.NewReportBuilder(store),
	}
}

// EnsureSchema creates missing tables before any write path runs.
func (a *Application) EnsureSchema(ctx context.Context) error {
	return a.Store.EnsureSchema(ctx)
}

// Seed inserts every config-declared source, ignoring ones that exist.
func (a *Application) Seed(ctx context.Context) (int, error) {
	if err := a.EnsureSchema(ctx); err != nil {
		return 0, err
	}

	seeded := 0
	for kind, seeds := range map[domain.SourceKind][]config.SeedSource{
		domain.KindBlogs:    a.cfg.Seeds.Blogs,
		domain.KindLinkedIn: a.cfg.Seeds.LinkedInProfiles,
		domain.KindReddit:   a.cfg.Seeds.Subreddits,
	} {
		for _, seed := range seeds {
			src := domain.Source{
				ID:        uuid.NewString(),
				Kind:      kind,
				Name:      seed.Name,
				Address:   seed.Address,
				Authority: seed.Authority,
				Type:      domain.SourceType(seed.Type),
				Active:    true,
			}
			if err := a.Store.Seed(ctx, src); err != nil {
				return seeded, err
			}
			seeded++
		}
	}
	return seeded, nil
}

// Notifier returns the configured digest channel, or nil when Telegram is not
// set up.
func (a *Application) Notifier() ports.Notifier {
	tg := a.cfg.Notifications.Telegram
	if tg.BotToken == "" || tg.ChatID == "" {
		return nil
	}
	return telegram.NewNotifier(tg.BotToken, tg.ChatID)
}

// RequireLLMKey fails fast when the classifier credential is absent; a scrape
// without it would only waste fetches.
func (a *Application) RequireLLMKey() error {
	if a.cfg.LLM.APIKey == "" {
		return fmt.Errorf("OPENAI_API_KEY is required for scraping")
	}
	return nil
}

// RequireApifyToken fails fast for LinkedIn scrapes.
func (a *Application) RequireApifyToken() error {
	if a.cfg.Apify.Token == "" {
		return fmt.Errorf("APIFY_API_TOKEN is required for linkedin scraping")
	}
	return nil
}

// Logger exposes the root logger for command-level messages.
func (a *Application) Logger() *slog.Logger {
	return a.logger
}

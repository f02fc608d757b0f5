package cmd

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/oauth2"

	"ytbulkedit/domain/model"
	"ytbulkedit/domain/repository"
	"ytbulkedit/infrastructure/cache"
	youtubeclient "ytbulkedit/infrastructure/clients/youtube"
	"ytbulkedit/infrastructure/configuration"
	"ytbulkedit/infrastructure/filecsv"
	"ytbulkedit/infrastructure/logger"
	"ytbulkedit/infrastructure/persistence"
	"ytbulkedit/infrastructure/retry"
	"ytbulkedit/usecase"
)

const lockTimeout = 2 * time.Second

// app is the wiring shared by every command.
type app struct {
	cfg    *configuration.Config
	paths  model.Paths
	tokens *persistence.OAuthTokenRepository
	ledger *usecase.QuotaLedger
	engine *usecase.BatchEngine
	client repository.IYouTube

	lock *persistence.FileLock
	rdb  *redis.Client
}

type appOptions struct {
	// lock takes the state-directory lock. Commands that only read skip it.
	lock      bool
	publisher usecase.Publisher
}

func newApp(ctx context.Context, opts appOptions) (*app, error) {
	a := &app{cfg: cfg, paths: cfg.Paths()}
	a.tokens = persistence.NewOAuthTokenRepository(a.paths.Token)

	if opts.lock {
		a.lock = persistence.NewFileLock(a.paths.Lock)
		if err := a.lock.Lock(lockTimeout); err != nil {
			return nil, fmt.Errorf("state directory %s is in use by another ytbulkedit process: %w", cfg.Files.StateDir, err)
		}
	}

	a.ledger = usecase.NewQuotaLedger(persistence.NewQuotaRepository(a.paths.Quota), cfg.Quota.Costs, cfg.Quota.DailyLimit, nil)
	if err := a.ledger.Load(); err != nil {
		logger.GetLogger().WithField("error", err).Warn("Quota ledger unreadable, starting from zero")
	}

	client, err := newYouTube(ctx, cfg, a.tokens)
	if err != nil {
		a.Close()
		return nil, err
	}
	a.client = client

	itemStore, playlistStore, err := a.itemStores(ctx)
	if err != nil {
		a.Close()
		return nil, err
	}

	execCfg := usecase.ExecutorConfig{
		UpdatePacing:  cfg.Batch.UpdatePacing,
		RestorePacing: cfg.Batch.RestorePacing,
		Retry:         retry.Fixed(cfg.Batch.MaxRetries, cfg.Batch.RetryBackoff),
	}
	itemCache := usecase.NewItemCache(client, itemStore, playlistStore, a.ledger, execCfg.Retry, cfg.Cache.Freshness, nil)
	stores := usecase.Stores{
		Backups:   persistence.NewBackupRepository(),
		Plans:     persistence.NewPlanRepository(),
		Settings:  persistence.NewSettingsRepository(),
		CSV:       filecsv.NewStore(),
		UpdateLog: persistence.NewUpdateLogRepository(a.paths.UpdateLog),
	}
	a.engine = usecase.NewBatchEngine(client, a.ledger, itemCache, stores, opts.publisher, a.paths, execCfg, nil)
	return a, nil
}

func (a *app) itemStores(ctx context.Context) (repository.IItemStore, repository.IPlaylistIDStore, error) {
	if a.cfg.Cache.Backend != "redis" {
		return persistence.NewItemCacheRepository(a.paths.ItemCache), persistence.NewPlaylistIDRepository(a.paths.PlaylistID), nil
	}
	r := a.cfg.Redis
	rdb, err := cache.NewCache(ctx, r.Addr(), r.Username, r.Password, r.RedisDB())
	if err != nil {
		return nil, nil, err
	}
	a.rdb = rdb
	return cache.NewItemStore(rdb, r.KeyPrefix, nil), cache.NewPlaylistIDStore(rdb, r.KeyPrefix), nil
}

// Close releases the lock and the Redis connection.
func (a *app) Close() {
	if a.rdb != nil {
		_ = a.rdb.Close()
	}
	if a.lock != nil {
		if err := a.lock.Unlock(); err != nil {
			logger.GetLogger().WithField("error", err).Warn("Failed to release state lock")
		}
	}
}

// newYouTube returns nil without error when the account was never authorized.
func newYouTube(ctx context.Context, c *configuration.Config, tokens *persistence.OAuthTokenRepository) (repository.IYouTube, error) {
	ytCfg := configuration.GetYouTubeConfig(c)

	tok, err := tokens.GetToken()
	switch {
	case errors.Is(err, persistence.ErrNoToken):
		if ytCfg.AccessToken == "" && ytCfg.RefreshToken == "" {
			return nil, nil
		}
		tok = &oauth2.Token{
			AccessToken:  ytCfg.AccessToken,
			RefreshToken: ytCfg.RefreshToken,
			TokenType:    "Bearer",
			Expiry:       time.Now().Add(-1 * time.Minute), // Force refresh on first use
		}
	case err != nil:
		return nil, err
	}

	oauthCfg, err := youtubeclient.NewOAuthConfig(ytCfg.CredentialsFile, ytCfg.ClientID, ytCfg.ClientSecret, ytCfg.RedirectURL)
	if err != nil {
		return nil, err
	}
	client, err := youtubeclient.NewYouTubeClient(ctx, youtubeclient.NewHTTPClient(ctx, oauthCfg, tok, tokens))
	if err != nil {
		return nil, err
	}
	return client, nil
}

package usecase

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"ytbulkedit/domain/model"
	"ytbulkedit/domain/repository"
	"ytbulkedit/infrastructure/logger"
	"ytbulkedit/infrastructure/retry"
)

const (
	// PageSize is the largest page the platform returns for playlist items and video lookups.
	PageSize = 50
	// DefaultFreshness is how long a stored listing is served without a refresh.
	DefaultFreshness = 24 * time.Hour
	// maxPages bounds paging against a misbehaving next-page token.
	maxPages = 1000
)

// ItemCache serves the full uploads listing from a store and refills it from the platform when stale.
type ItemCache struct {
	youtube    repository.IYouTube
	items      repository.IItemStore
	playlistID repository.IPlaylistIDStore
	ledger     *QuotaLedger
	retryCfg   retry.Config
	freshness  time.Duration
	now        func() time.Time

	mu       sync.Mutex
	listedAt time.Time
}

// NewItemCache wires the cache. A zero freshness uses the default window.
func NewItemCache(yt repository.IYouTube, items repository.IItemStore, playlistID repository.IPlaylistIDStore,
	ledger *QuotaLedger, retryCfg retry.Config, freshness time.Duration, now func() time.Time) *ItemCache {
	if freshness <= 0 {
		freshness = DefaultFreshness
	}
	if now == nil {
		now = time.Now
	}
	return &ItemCache{
		youtube:    yt,
		items:      items,
		playlistID: playlistID,
		ledger:     ledger,
		retryCfg:   retryCfg,
		freshness:  freshness,
		now:        now,
	}
}

// Load returns the stored listing when fresh, otherwise pages and enriches the uploads playlist.
func (c *ItemCache) Load(ctx context.Context, forceRefresh bool) ([]*model.Item, error) {
	if !forceRefresh {
		items, savedAt, err := c.items.Load(ctx)
		switch {
		case err == nil && c.now().Sub(savedAt) < c.freshness:
			logger.GetLogger().WithFields(map[string]interface{}{"count": len(items), "savedAt": savedAt}).Debug("Serving item listing from cache")
			c.setListedAt(savedAt)
			return items, nil
		case err != nil && !errors.Is(err, repository.ErrCacheMiss):
			logger.GetLogger().WithField("error", err).Warn("Item cache unreadable, refreshing from platform")
		}
	}
	if c.youtube == nil {
		return nil, model.ErrNotConnected
	}

	playlistID, err := c.uploadsPlaylistID(ctx)
	if err != nil {
		return nil, err
	}

	items, err := c.fetchPlaylist(ctx, playlistID)
	if err != nil {
		return nil, err
	}
	if err := c.enrich(ctx, items); err != nil {
		return nil, err
	}

	SortByTitle(items)
	listedAt := c.now()
	if err := c.items.Save(ctx, items, listedAt); err != nil {
		return nil, fmt.Errorf("failed to save item cache: %w", err)
	}
	c.setListedAt(listedAt)
	logger.GetLogger().WithFields(map[string]interface{}{"count": len(items), "playlistId": playlistID}).Info("Item listing refreshed")
	return items, nil
}

// Save persists the mirror after a batch or an import. The listing keeps its original
// age, so local edits never postpone the next refresh.
func (c *ItemCache) Save(ctx context.Context, items []*model.Item) error {
	c.mu.Lock()
	listedAt := c.listedAt
	c.mu.Unlock()
	return c.items.Save(ctx, items, listedAt)
}

func (c *ItemCache) setListedAt(t time.Time) {
	c.mu.Lock()
	c.listedAt = t
	c.mu.Unlock()
}

func (c *ItemCache) uploadsPlaylistID(ctx context.Context) (string, error) {
	id, err := c.playlistID.Get(ctx)
	if err == nil && id != "" {
		return id, nil
	}
	if err != nil && !errors.Is(err, repository.ErrCacheMiss) {
		logger.GetLogger().WithField("error", err).Warn("Playlist id cache unreadable")
	}

	var channel *model.YouTubeChannel
	err = c.call(ctx, model.MethodChannelsList, func(ctx context.Context) error {
		var callErr error
		channel, callErr = c.youtube.GetMyChannel(ctx)
		return callErr
	})
	if err != nil {
		return "", fmt.Errorf("failed to resolve uploads playlist: %w", err)
	}
	if channel.UploadsPlaylistID == "" {
		return "", fmt.Errorf("channel %s has no uploads playlist", channel.ID)
	}
	if err := c.playlistID.Put(ctx, channel.UploadsPlaylistID); err != nil {
		logger.GetLogger().WithField("error", err).Warn("Failed to cache uploads playlist id")
	}
	return channel.UploadsPlaylistID, nil
}

func (c *ItemCache) fetchPlaylist(ctx context.Context, playlistID string) ([]*model.Item, error) {
	var items []*model.Item
	pageToken := ""
	for page := 0; page < maxPages; page++ {
		var resp *model.PlaylistPage
		err := c.call(ctx, model.MethodPlaylistItemsList, func(ctx context.Context) error {
			var callErr error
			resp, callErr = c.youtube.ListPlaylistItems(ctx, playlistID, pageToken, PageSize)
			return callErr
		})
		if err != nil {
			return nil, fmt.Errorf("failed to list playlist items: %w", err)
		}
		items = append(items, resp.Items...)
		if resp.NextPageToken == "" {
			break
		}
		pageToken = resp.NextPageToken
	}
	return items, nil
}

// enrich fills status, category, language and recording date in batches of PageSize.
func (c *ItemCache) enrich(ctx context.Context, items []*model.Item) error {
	byID := make(map[string]*model.Item, len(items))
	for _, it := range items {
		byID[it.ID] = it
	}
	for start := 0; start < len(items); start += PageSize {
		end := start + PageSize
		if end > len(items) {
			end = len(items)
		}
		ids := make([]string, 0, end-start)
		for _, it := range items[start:end] {
			ids = append(ids, it.ID)
		}

		var details []*model.Item
		err := c.call(ctx, model.MethodVideosList, func(ctx context.Context) error {
			var callErr error
			details, callErr = c.youtube.GetVideos(ctx, ids)
			return callErr
		})
		if err != nil {
			return fmt.Errorf("failed to enrich items: %w", err)
		}
		for _, d := range details {
			it, ok := byID[d.ID]
			if !ok {
				continue
			}
			if d.CategoryID != "" {
				it.CategoryID = d.CategoryID
			}
			if d.DefaultLanguage != "" {
				it.DefaultLanguage = d.DefaultLanguage
			}
			if d.PublishedAt != "" {
				it.PublishedAt = d.PublishedAt
			}
			if d.Tags != nil {
				it.Tags = d.Tags
			}
			it.Status = d.Status
			it.RecordingDate = d.RecordingDate
		}
	}
	return nil
}

func (c *ItemCache) call(ctx context.Context, method string, fn func(context.Context) error) error {
	return chargedCall(ctx, c.ledger, c.retryCfg, method, fn)
}

// chargedCall runs one costed read under the retry policy and charges it once it succeeds.
func chargedCall(ctx context.Context, ledger *QuotaLedger, cfg retry.Config, method string, fn func(context.Context) error) error {
	cfg.OnRetry = func(attempt int, err error, wait time.Duration) {
		logger.GetLogger().WithFields(map[string]interface{}{"method": method, "attempt": attempt, "wait": wait.String(), "error": err}).Warn("Transient platform error, retrying")
	}
	return retry.Do(ctx, cfg, model.IsTransient, func(ctx context.Context) error {
		err := fn(ctx)
		if err == nil {
			ledger.RecordUsage(method, 1)
		}
		return err
	})
}

// SortByTitle orders items case-insensitively by title, then by id.
func SortByTitle(items []*model.Item) {
	sort.SliceStable(items, func(i, j int) bool {
		a, b := strings.ToLower(items[i].Title), strings.ToLower(items[j].Title)
		if a != b {
			return a < b
		}
		return items[i].ID < items[j].ID
	})
}

// Search filters items by case-insensitive title substring or id substring.
func Search(items []*model.Item, term string) []*model.Item {
	out := make([]*model.Item, 0, len(items))
	for _, it := range items {
		if it.Matches(term) {
			out = append(out, it)
		}
	}
	return out
}

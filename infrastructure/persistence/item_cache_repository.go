package persistence

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"ytbulkedit/domain/model"
	"ytbulkedit/domain/repository"
	"ytbulkedit/infrastructure/logger"
)

// ItemCacheRepository keeps the item listing as a JSON array. The file's mtime is the listing time.
type ItemCacheRepository struct {
	path string
}

func NewItemCacheRepository(path string) *ItemCacheRepository {
	return &ItemCacheRepository{path: path}
}

func (r *ItemCacheRepository) Load(ctx context.Context) ([]*model.Item, time.Time, error) {
	info, err := os.Stat(r.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, time.Time{}, repository.ErrCacheMiss
	}
	if err != nil {
		return nil, time.Time{}, fmt.Errorf("failed to stat item cache: %w", err)
	}
	var items []*model.Item
	if err := readJSON(r.path, &items); err != nil {
		return nil, time.Time{}, err
	}
	for _, it := range items {
		it.Tags = normalizeLoadedTags(it.Tags)
	}
	return items, info.ModTime(), nil
}

func (r *ItemCacheRepository) Save(ctx context.Context, items []*model.Item, listedAt time.Time) error {
	if items == nil {
		items = []*model.Item{}
	}
	if err := writeJSONAtomic(r.path, items, ""); err != nil {
		return fmt.Errorf("failed to write item cache: %w", err)
	}
	if !listedAt.IsZero() {
		if err := os.Chtimes(r.path, listedAt, listedAt); err != nil {
			return fmt.Errorf("failed to stamp item cache: %w", err)
		}
	}
	logger.GetLogger().WithFields(map[string]interface{}{"path": r.path, "count": len(items)}).Debug("Item cache written")
	return nil
}

func (r *ItemCacheRepository) Invalidate(ctx context.Context) error {
	if err := os.Remove(r.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to remove item cache: %w", err)
	}
	return nil
}

// normalizeLoadedTags maps a JSON null to an empty list so callers never see nil tags.
func normalizeLoadedTags(tags []string) []string {
	if tags == nil {
		return []string{}
	}
	return tags
}

type playlistIDFile struct {
	PlaylistID string `json:"playlist_id"`
}

// PlaylistIDRepository caches the uploads playlist id as {"playlist_id": ...}.
type PlaylistIDRepository struct {
	path string
}

func NewPlaylistIDRepository(path string) *PlaylistIDRepository {
	return &PlaylistIDRepository{path: path}
}

func (r *PlaylistIDRepository) Get(ctx context.Context) (string, error) {
	var f playlistIDFile
	if err := readJSON(r.path, &f); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", repository.ErrCacheMiss
		}
		return "", err
	}
	if f.PlaylistID == "" {
		return "", repository.ErrCacheMiss
	}
	return f.PlaylistID, nil
}

func (r *PlaylistIDRepository) Put(ctx context.Context, playlistID string) error {
	return writeJSONAtomic(r.path, playlistIDFile{PlaylistID: playlistID}, "")
}

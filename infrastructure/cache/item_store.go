package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"ytbulkedit/domain/model"
	"ytbulkedit/domain/repository"
)

var (
	_ repository.IItemStore       = (*ItemStore)(nil)
	_ repository.IPlaylistIDStore = (*PlaylistIDStore)(nil)
)

// ItemStore keeps the item listing in Redis so several processes can share one mirror.
type ItemStore struct {
	rdb    redis.UniversalClient
	prefix string
	now    func() time.Time
}

type itemEnvelope struct {
	SavedAt time.Time     `json:"saved_at"`
	Items   []*model.Item `json:"items"`
}

func NewItemStore(rdb redis.UniversalClient, prefix string, now func() time.Time) *ItemStore {
	if now == nil {
		now = time.Now
	}
	return &ItemStore{rdb: rdb, prefix: prefix, now: now}
}

func (s *ItemStore) key() string { return s.prefix + ":items" }

func (s *ItemStore) Load(ctx context.Context) ([]*model.Item, time.Time, error) {
	raw, err := s.rdb.Get(ctx, s.key()).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, time.Time{}, repository.ErrCacheMiss
	}
	if err != nil {
		return nil, time.Time{}, fmt.Errorf("failed to read %s: %w", s.key(), err)
	}
	env, err := decodeItems(raw)
	if err != nil {
		return nil, time.Time{}, err
	}
	return env.Items, env.SavedAt, nil
}

func (s *ItemStore) Save(ctx context.Context, items []*model.Item, listedAt time.Time) error {
	if listedAt.IsZero() {
		listedAt = s.now()
	}
	raw, err := encodeItems(items, listedAt)
	if err != nil {
		return err
	}
	if err := s.rdb.Set(ctx, s.key(), raw, 0).Err(); err != nil {
		return fmt.Errorf("failed to write %s: %w", s.key(), err)
	}
	return nil
}

func (s *ItemStore) Invalidate(ctx context.Context) error {
	return s.rdb.Del(ctx, s.key()).Err()
}

func encodeItems(items []*model.Item, savedAt time.Time) ([]byte, error) {
	for _, it := range items {
		if it.Tags == nil {
			it.Tags = []string{}
		}
	}
	return json.Marshal(itemEnvelope{SavedAt: savedAt.UTC(), Items: items})
}

func decodeItems(raw []byte) (*itemEnvelope, error) {
	var env itemEnvelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, fmt.Errorf("corrupt item cache: %w", err)
	}
	return &env, nil
}

// PlaylistIDStore caches the uploads playlist id without expiry.
type PlaylistIDStore struct {
	rdb    redis.UniversalClient
	prefix string
}

func NewPlaylistIDStore(rdb redis.UniversalClient, prefix string) *PlaylistIDStore {
	return &PlaylistIDStore{rdb: rdb, prefix: prefix}
}

func (s *PlaylistIDStore) key() string { return s.prefix + ":playlist_id" }

func (s *PlaylistIDStore) Get(ctx context.Context) (string, error) {
	id, err := s.rdb.Get(ctx, s.key()).Result()
	if errors.Is(err, redis.Nil) || (err == nil && id == "") {
		return "", repository.ErrCacheMiss
	}
	return id, err
}

func (s *PlaylistIDStore) Put(ctx context.Context, playlistID string) error {
	return s.rdb.Set(ctx, s.key(), playlistID, 0).Err()
}

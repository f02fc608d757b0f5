package repository

import (
	"context"
	"errors"
	"time"

	"ytbulkedit/domain/model"
)

// ErrCacheMiss is returned by stores that hold nothing yet.
var ErrCacheMiss = errors.New("cache miss")

// IItemStore persists the whole item listing.
type IItemStore interface {
	// Load returns the stored items and when they were listed from the platform.
	Load(ctx context.Context) ([]*model.Item, time.Time, error)
	// Save stores items as listed at listedAt. A zero listedAt means now.
	Save(ctx context.Context, items []*model.Item, listedAt time.Time) error
	Invalidate(ctx context.Context) error
}

// IPlaylistIDStore caches the uploads playlist id. It never expires.
type IPlaylistIDStore interface {
	Get(ctx context.Context) (string, error)
	Put(ctx context.Context, playlistID string) error
}

// IQuotaStore persists the daily ledger entry. Load returns nil when nothing is stored.
type IQuotaStore interface {
	Load() (*model.QuotaEntry, error)
	Save(entry model.QuotaEntry) error
}

type IBackupStore interface {
	Write(path string, records []*model.BackupRecord) error
	Read(path string) ([]*model.BackupRecord, error)
}

type IPlanStore interface {
	Write(path string, plans []*model.ChangePlan) error
}

// IUpdateLog is the append-only result log.
type IUpdateLog interface {
	Append(lines []string) error
}

type ISettingsStore interface {
	Save(path string, rules model.RuleSet) error
	Load(path string) (model.RuleSet, error)
}

// ICSVStore reads and writes item selections as CSV.
type ICSVStore interface {
	Export(path string, rows []model.CSVRow) error
	Import(path string) ([]model.CSVRow, error)
}

package persistence

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"

	"ytbulkedit/domain/model"
	"ytbulkedit/domain/repository"
)

func TestItemCacheRepository_MissThenRoundTrip(t *testing.T) {
	ctx := context.Background()
	repo := NewItemCacheRepository(filepath.Join(t.TempDir(), "videos_cache.json"))

	_, _, err := repo.Load(ctx)
	require.ErrorIs(t, err, repository.ErrCacheMiss)

	items := []*model.Item{
		{ID: "a", Title: "A", Tags: []string{"x"}, Status: &model.ItemStatus{PrivacyStatus: "public"}},
		{ID: "b", Title: "B"},
	}
	before := time.Now().Add(-time.Second)
	require.NoError(t, repo.Save(ctx, items, time.Time{}))

	got, savedAt, err := repo.Load(ctx)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "public", got[0].Privacy())
	assert.Nil(t, got[1].Status)
	assert.Equal(t, []string{}, got[1].Tags)
	assert.True(t, savedAt.After(before))

	require.NoError(t, repo.Invalidate(ctx))
	_, _, err = repo.Load(ctx)
	assert.ErrorIs(t, err, repository.ErrCacheMiss)
}

func TestItemCacheRepository_SaveKeepsListingTime(t *testing.T) {
	ctx := context.Background()
	repo := NewItemCacheRepository(filepath.Join(t.TempDir(), "videos_cache.json"))
	listedAt := time.Now().Add(-20 * time.Hour).Truncate(time.Second)

	require.NoError(t, repo.Save(ctx, []*model.Item{{ID: "a", Title: "Edited"}}, listedAt))

	got, savedAt, err := repo.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Edited", got[0].Title)
	assert.True(t, listedAt.Equal(savedAt), "got %s", savedAt)
}

func TestItemCacheRepository_CorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "videos_cache.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	_, _, err := NewItemCacheRepository(path).Load(context.Background())
	assert.ErrorIs(t, err, ErrCorrupt)
}

func TestPlaylistIDRepository(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "playlist_id_cache.json")
	repo := NewPlaylistIDRepository(path)

	_, err := repo.Get(ctx)
	require.ErrorIs(t, err, repository.ErrCacheMiss)

	require.NoError(t, repo.Put(ctx, "UU123"))
	id, err := repo.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, "UU123", id)

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.JSONEq(t, `{"playlist_id":"UU123"}`, string(raw))
}

func TestQuotaRepository(t *testing.T) {
	path := filepath.Join(t.TempDir(), "quota_tracker.json")
	repo := NewQuotaRepository(path)

	entry, err := repo.Load()
	require.NoError(t, err)
	assert.Nil(t, entry)

	require.NoError(t, repo.Save(model.QuotaEntry{Date: "2024-05-02", Units: 150}))
	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.JSONEq(t, `{"date":"2024-05-02","units":150}`, string(raw))

	entry, err = repo.Load()
	require.NoError(t, err)
	assert.Equal(t, &model.QuotaEntry{Date: "2024-05-02", Units: 150}, entry)
}

func TestBackupRepository_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "backup.json")
	repo := NewBackupRepository()
	records := []*model.BackupRecord{{
		ID:               "a",
		Snippet:          model.BackupSnippet{Title: "T", Description: "D", Tags: []string{"x"}, CategoryID: "22"},
		Status:           &model.ItemStatus{PrivacyStatus: "private", Embeddable: true},
		RecordingDetails: model.RecordingDetails{RecordingDate: "2024-01-02T00:00:00Z"},
	}}

	require.NoError(t, repo.Write(path, records))
	got, err := repo.Read(path)
	require.NoError(t, err)
	assert.Equal(t, records, got)

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temp files must not be left behind")
}

func TestBackupRepository_MissingFile(t *testing.T) {
	_, err := NewBackupRepository().Read(filepath.Join(t.TempDir(), "backup.json"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestPlanRepository_WritesStructuredJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dry_run.json")
	plans := []*model.ChangePlan{
		{ID: "a", Changes: model.PlanChanges{Status: &model.StatusPatch{PrivacyStatus: model.StringPtr("unlisted")}}},
		{ID: "b", Thumbnail: "/tmp/t.png"},
	}

	require.NoError(t, NewPlanRepository().Write(path, plans))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.JSONEq(t, `[
		{"id":"a","changes":{"status":{"privacyStatus":"unlisted"}}},
		{"id":"b","changes":{},"thumbnail":"/tmp/t.png"}
	]`, string(raw))
}

func TestUpdateLogRepository_Appends(t *testing.T) {
	path := filepath.Join(t.TempDir(), "update_log.txt")
	repo := NewUpdateLogRepository(path)

	require.NoError(t, repo.Append([]string{"Updated a successfully"}))
	require.NoError(t, repo.Append([]string{"Error updating b: boom", "Updated c successfully"}))
	require.NoError(t, repo.Append(nil))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "Updated a successfully\nError updating b: boom\nUpdated c successfully\n", string(raw))
}

func TestSettingsRepository_JSONAndYAML(t *testing.T) {
	dir := t.TempDir()
	repo := NewSettingsRepository()
	rules := model.DefaultRuleSet()
	rules.Action = model.DescAppend
	rules.Footer = "Follow me"
	rules.UseRegex = true
	rules.Privacy = "unlisted"

	for _, name := range []string{"settings.json", "rules.yaml"} {
		path := filepath.Join(dir, name)
		require.NoError(t, repo.Save(path, rules))
		got, err := repo.Load(path)
		require.NoError(t, err, name)
		assert.Equal(t, rules, got, name)
	}

	raw, err := os.ReadFile(filepath.Join(dir, "settings.json"))
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"use_regex":1`)
}

func TestSettingsRepository_MissingKeysUseSentinels(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"action":"append","footer":"x"}`), 0o644))

	got, err := NewSettingsRepository().Load(path)
	require.NoError(t, err)
	assert.Equal(t, model.NoChange, got.Privacy)
	assert.Equal(t, model.NoChangeLabel, got.Category)
}

func TestOAuthTokenRepository_SaveLoadRotate(t *testing.T) {
	path := filepath.Join(t.TempDir(), "token.json")
	repo := NewOAuthTokenRepository(path)

	_, err := repo.GetToken()
	require.ErrorIs(t, err, ErrNoToken)

	tok := &oauth2.Token{AccessToken: "access", RefreshToken: "refresh", TokenType: "Bearer"}
	require.NoError(t, repo.UpsertToken(tok))
	got, err := repo.GetToken()
	require.NoError(t, err)
	assert.Equal(t, "refresh", got.RefreshToken)

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	require.NoError(t, repo.Rotate())
	_, err = repo.GetToken()
	assert.ErrorIs(t, err, ErrNoToken)
	bak, err := os.ReadFile(path + ".bak")
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(bak), "refresh"))
}

func TestFileLock_Exclusive(t *testing.T) {
	base := filepath.Join(t.TempDir(), ".ytbulkedit")
	first := NewFileLock(base)
	require.NoError(t, first.Lock(time.Second))
	assert.Equal(t, base+".lock", first.Path())

	second := NewFileLock(base)
	assert.ErrorIs(t, second.Lock(50*time.Millisecond), ErrLockTimeout)

	require.NoError(t, first.Unlock())
	require.NoError(t, second.Lock(time.Second))
	require.NoError(t, second.Unlock())
}

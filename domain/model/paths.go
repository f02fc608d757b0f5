package model

import "path/filepath"

// Paths locates every file the engine owns.
type Paths struct {
	ItemCache   string
	PlaylistID  string
	Quota       string
	Backup      string
	DryRun      string
	UpdateLog   string
	Settings    string
	Token       string
	Credentials string
	Lock        string
}

// DefaultPaths keeps the historical file names under dir.
func DefaultPaths(dir string) Paths {
	return Paths{
		ItemCache:   filepath.Join(dir, "videos_cache.json"),
		PlaylistID:  filepath.Join(dir, "playlist_id_cache.json"),
		Quota:       filepath.Join(dir, "quota_tracker.json"),
		Backup:      filepath.Join(dir, "backup.json"),
		DryRun:      filepath.Join(dir, "dry_run.json"),
		UpdateLog:   filepath.Join(dir, "update_log.txt"),
		Settings:    filepath.Join(dir, "settings.json"),
		Token:       filepath.Join(dir, "token.json"),
		Credentials: filepath.Join(dir, "credentials.json"),
		Lock:        filepath.Join(dir, ".ytbulkedit"),
	}
}

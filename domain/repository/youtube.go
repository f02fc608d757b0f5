package repository

import (
	"context"

	"ytbulkedit/domain/model"
)

// IYouTube defines the platform operations the batch engine needs.
// Implementations classify failures into the model error sentinels.
type IYouTube interface {
	// GetMyChannel reads the authenticated channel, including its uploads playlist id.
	GetMyChannel(ctx context.Context) (*model.YouTubeChannel, error)
	// ListPlaylistItems reads one page of a playlist.
	ListPlaylistItems(ctx context.Context, playlistID, pageToken string, pageSize int64) (*model.PlaylistPage, error)
	// GetVideos reads snippet, status and recording details for up to 50 ids.
	GetVideos(ctx context.Context, ids []string) ([]*model.Item, error)
	// GetSnapshots reads full pre-edit snapshots for up to 50 ids.
	GetSnapshots(ctx context.Context, ids []string) ([]*model.BackupRecord, error)
	// UpdateVideo sends the changed parts. base supplies the untouched fields of each part.
	UpdateVideo(ctx context.Context, base *model.Item, changes model.PlanChanges) error
	// SetThumbnail uploads an image file as the video's thumbnail.
	SetThumbnail(ctx context.Context, videoID, path string) error
}

package youtube

import (
	"context"
	"fmt"
	"net/http"
	"os"

	"google.golang.org/api/option"
	"google.golang.org/api/youtube/v3"

	"ytbulkedit/domain/model"
	"ytbulkedit/domain/repository"
)

const defaultCategoryID = "22"

var (
	listParts    = []string{"snippet", "contentDetails"}
	channelParts = []string{"snippet", "contentDetails"}
	detailParts  = []string{"snippet", "status", "recordingDetails"}
)

var _ repository.IYouTube = (*Client)(nil)

// Client represents YouTube API client
type Client struct {
	service *youtube.Service
}

// NewYouTubeClient creates a client that authenticates with the given HTTP client.
func NewYouTubeClient(ctx context.Context, httpClient *http.Client, opts ...option.ClientOption) (*Client, error) {
	opts = append([]option.ClientOption{option.WithHTTPClient(httpClient)}, opts...)
	service, err := youtube.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create YouTube service: %w", err)
	}
	return &Client{service: service}, nil
}

// GetMyChannel retrieves the authenticated user's channel
func (c *Client) GetMyChannel(ctx context.Context) (*model.YouTubeChannel, error) {
	resp, err := c.service.Channels.List(channelParts).Mine(true).Context(ctx).Do()
	if err != nil {
		return nil, classify(model.MethodChannelsList, "", err)
	}
	if len(resp.Items) == 0 {
		return nil, model.ErrNoChannel
	}

	ch := resp.Items[0]
	out := &model.YouTubeChannel{ID: ch.Id}
	if ch.Snippet != nil {
		out.Title = ch.Snippet.Title
	}
	if ch.ContentDetails != nil && ch.ContentDetails.RelatedPlaylists != nil {
		out.UploadsPlaylistID = ch.ContentDetails.RelatedPlaylists.Uploads
	}
	return out, nil
}

// ListPlaylistItems reads one page of a playlist. Items carry snippet fields only.
func (c *Client) ListPlaylistItems(ctx context.Context, playlistID, pageToken string, pageSize int64) (*model.PlaylistPage, error) {
	call := c.service.PlaylistItems.List(listParts).
		PlaylistId(playlistID).
		MaxResults(pageSize).
		Context(ctx)
	if pageToken != "" {
		call = call.PageToken(pageToken)
	}

	resp, err := call.Do()
	if err != nil {
		return nil, classify(model.MethodPlaylistItemsList, playlistID, err)
	}

	page := &model.PlaylistPage{NextPageToken: resp.NextPageToken, Items: make([]*model.Item, 0, len(resp.Items))}
	for _, pi := range resp.Items {
		it := &model.Item{CategoryID: defaultCategoryID, Tags: []string{}}
		if pi.ContentDetails != nil {
			it.ID = pi.ContentDetails.VideoId
			it.PublishedAt = pi.ContentDetails.VideoPublishedAt
		}
		if pi.Snippet != nil {
			it.Title = pi.Snippet.Title
			it.Description = pi.Snippet.Description
			if it.PublishedAt == "" {
				it.PublishedAt = pi.Snippet.PublishedAt
			}
			if it.ID == "" && pi.Snippet.ResourceId != nil {
				it.ID = pi.Snippet.ResourceId.VideoId
			}
		}
		if it.ID == "" {
			continue
		}
		page.Items = append(page.Items, it)
	}
	return page, nil
}

// GetVideos reads snippet, status and recording details for up to 50 ids.
func (c *Client) GetVideos(ctx context.Context, ids []string) ([]*model.Item, error) {
	videos, err := c.listVideos(ctx, ids)
	if err != nil {
		return nil, err
	}
	out := make([]*model.Item, 0, len(videos))
	for _, v := range videos {
		out = append(out, itemFromVideo(v))
	}
	return out, nil
}

// GetSnapshots reads the same parts as GetVideos and keeps them in backup form.
func (c *Client) GetSnapshots(ctx context.Context, ids []string) ([]*model.BackupRecord, error) {
	videos, err := c.listVideos(ctx, ids)
	if err != nil {
		return nil, err
	}
	out := make([]*model.BackupRecord, 0, len(videos))
	for _, v := range videos {
		out = append(out, snapshotFromVideo(v))
	}
	return out, nil
}

func (c *Client) listVideos(ctx context.Context, ids []string) ([]*youtube.Video, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	resp, err := c.service.Videos.List(detailParts).Id(ids...).MaxResults(int64(len(ids))).Context(ctx).Do()
	if err != nil {
		return nil, classify(model.MethodVideosList, "", err)
	}
	return resp.Items, nil
}

// UpdateVideo sends only the parts named by changes. Each part is sent complete, built from base.
func (c *Client) UpdateVideo(ctx context.Context, base *model.Item, changes model.PlanChanges) error {
	parts := changes.Parts()
	if len(parts) == 0 {
		return nil
	}
	if _, err := c.service.Videos.Update(parts, overlay(base, changes)).Context(ctx).Do(); err != nil {
		return classify(model.MethodVideosUpdate, base.ID, err)
	}
	return nil
}

// SetThumbnail uploads an image file as the video's custom thumbnail.
func (c *Client) SetThumbnail(ctx context.Context, videoID, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return &model.APIError{Op: model.MethodThumbnailsSet, ID: videoID, Message: err.Error()}
	}
	defer f.Close()

	if _, err := c.service.Thumbnails.Set(videoID).Media(f).Context(ctx).Do(); err != nil {
		return classify(model.MethodThumbnailsSet, videoID, err)
	}
	return nil
}

func itemFromVideo(v *youtube.Video) *model.Item {
	it := &model.Item{ID: v.Id, CategoryID: defaultCategoryID, Tags: []string{}}
	if s := v.Snippet; s != nil {
		it.Title = s.Title
		it.Description = s.Description
		if s.Tags != nil {
			it.Tags = append([]string{}, s.Tags...)
		}
		if s.CategoryId != "" {
			it.CategoryID = s.CategoryId
		}
		it.DefaultLanguage = s.DefaultLanguage
		it.PublishedAt = s.PublishedAt
	}
	if st := v.Status; st != nil {
		it.Status = statusFromVideo(st)
	}
	if rd := v.RecordingDetails; rd != nil {
		it.RecordingDate = rd.RecordingDate
	}
	return it
}

func snapshotFromVideo(v *youtube.Video) *model.BackupRecord {
	rec := &model.BackupRecord{ID: v.Id}
	if s := v.Snippet; s != nil {
		rec.Snippet = model.BackupSnippet{
			Title:           s.Title,
			Description:     s.Description,
			Tags:            append([]string(nil), s.Tags...),
			CategoryID:      s.CategoryId,
			DefaultLanguage: s.DefaultLanguage,
			ChannelID:       s.ChannelId,
			PublishedAt:     s.PublishedAt,
		}
	}
	if st := v.Status; st != nil {
		rec.Status = statusFromVideo(st)
	}
	if rd := v.RecordingDetails; rd != nil {
		rec.RecordingDetails.RecordingDate = rd.RecordingDate
	}
	return rec
}

func statusFromVideo(st *youtube.VideoStatus) *model.ItemStatus {
	return &model.ItemStatus{
		PrivacyStatus:           st.PrivacyStatus,
		License:                 st.License,
		Embeddable:              st.Embeddable,
		PublicStatsViewable:     st.PublicStatsViewable,
		SelfDeclaredMadeForKids: st.SelfDeclaredMadeForKids,
		MadeForKids:             st.MadeForKids,
		UploadStatus:            st.UploadStatus,
	}
}

// overlay builds the update body. The platform replaces whole parts, so every
// part named in changes starts from base and takes the patched fields on top.
func overlay(base *model.Item, changes model.PlanChanges) *youtube.Video {
	v := &youtube.Video{Id: base.ID}

	if p := changes.Snippet; p != nil {
		s := &youtube.VideoSnippet{
			Title:           base.Title,
			Description:     base.Description,
			Tags:            append([]string{}, base.Tags...),
			CategoryId:      base.CategoryID,
			DefaultLanguage: base.DefaultLanguage,
		}
		if p.Title != nil {
			s.Title = *p.Title
		}
		if p.Description != nil {
			s.Description = *p.Description
		}
		if p.Tags != nil {
			s.Tags = append([]string{}, (*p.Tags)...)
		}
		if p.CategoryID != nil {
			s.CategoryId = *p.CategoryID
		}
		if p.DefaultLanguage != nil {
			s.DefaultLanguage = *p.DefaultLanguage
		}
		if s.CategoryId == "" {
			s.CategoryId = defaultCategoryID
		}
		// An empty description or tag list must still clear the remote value.
		s.ForceSendFields = []string{"Description", "Tags"}
		v.Snippet = s
	}

	if p := changes.Status; p != nil {
		st := &youtube.VideoStatus{}
		// Booleans are force-sent only when known, so false never stands in for "unknown".
		var force []string
		if b := base.Status; b != nil {
			st.PrivacyStatus = b.PrivacyStatus
			st.License = b.License
			st.Embeddable = b.Embeddable
			st.PublicStatsViewable = b.PublicStatsViewable
			st.SelfDeclaredMadeForKids = b.SelfDeclaredMadeForKids
			force = []string{"Embeddable", "PublicStatsViewable", "SelfDeclaredMadeForKids"}
		}
		if p.PrivacyStatus != nil {
			st.PrivacyStatus = *p.PrivacyStatus
		}
		if p.License != nil {
			st.License = *p.License
		}
		if p.Embeddable != nil {
			st.Embeddable = *p.Embeddable
			force = appendOnce(force, "Embeddable")
		}
		if p.PublicStatsViewable != nil {
			st.PublicStatsViewable = *p.PublicStatsViewable
			force = appendOnce(force, "PublicStatsViewable")
		}
		if p.SelfDeclaredMadeForKids != nil {
			st.SelfDeclaredMadeForKids = *p.SelfDeclaredMadeForKids
			force = appendOnce(force, "SelfDeclaredMadeForKids")
		}
		st.ForceSendFields = force
		v.Status = st
	}

	if p := changes.RecordingDetails; p != nil {
		rd := &youtube.VideoRecordingDetails{RecordingDate: base.RecordingDate}
		if p.RecordingDate != nil {
			rd.RecordingDate = *p.RecordingDate
		}
		v.RecordingDetails = rd
	}
	return v
}

func appendOnce(list []string, field string) []string {
	for _, f := range list {
		if f == field {
			return list
		}
	}
	return append(list, field)
}

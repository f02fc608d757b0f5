package model

import (
	"strings"
	"time"
)

// Item is the local mirror of one uploaded video and the fields the bulk editor can change.
type Item struct {
	ID              string      `json:"id"`
	Title           string      `json:"title"`
	Description     string      `json:"description"`
	Tags            []string    `json:"tags"`
	CategoryID      string      `json:"categoryId"`
	DefaultLanguage string      `json:"defaultLanguage"`
	PublishedAt     string      `json:"publishedAt"`
	RecordingDate   string      `json:"recordingDate,omitempty"`
	Status          *ItemStatus `json:"status,omitempty"`
	LastUpdated     *time.Time  `json:"lastUpdated"`
}

// ItemStatus mirrors the platform's status part. Items that were never enriched have no status.
type ItemStatus struct {
	PrivacyStatus           string `json:"privacyStatus"`
	License                 string `json:"license,omitempty"`
	Embeddable              bool   `json:"embeddable"`
	PublicStatsViewable     bool   `json:"publicStatsViewable"`
	SelfDeclaredMadeForKids bool   `json:"selfDeclaredMadeForKids"`
	MadeForKids             bool   `json:"madeForKids,omitempty"`
	UploadStatus            string `json:"uploadStatus,omitempty"`
}

// YouTubeChannel is the authenticated channel.
type YouTubeChannel struct {
	ID                string `json:"id"`
	Title             string `json:"title"`
	UploadsPlaylistID string `json:"uploads_playlist_id"`
}

// PlaylistPage is one page of the uploads playlist.
type PlaylistPage struct {
	Items         []*Item
	NextPageToken string
}

// Privacy returns the privacy status or an empty string when the item was never enriched.
func (i *Item) Privacy() string {
	if i.Status == nil {
		return ""
	}
	return i.Status.PrivacyStatus
}

// Clone returns a deep copy so snapshots handed to readers never alias the live mirror.
func (i *Item) Clone() *Item {
	if i == nil {
		return nil
	}
	out := *i
	if i.Tags != nil {
		out.Tags = append([]string(nil), i.Tags...)
	}
	if i.Status != nil {
		st := *i.Status
		out.Status = &st
	}
	if i.LastUpdated != nil {
		t := *i.LastUpdated
		out.LastUpdated = &t
	}
	return &out
}

// Matches reports whether the term is a case-insensitive title substring or an id substring.
func (i *Item) Matches(term string) bool {
	if term == "" {
		return true
	}
	return strings.Contains(strings.ToLower(i.Title), strings.ToLower(term)) || strings.Contains(i.ID, term)
}

// ApplyChanges copies the fields that were actually sent onto the mirror.
// Fields absent from the payload keep their current values.
func (i *Item) ApplyChanges(c PlanChanges, now time.Time) {
	if s := c.Snippet; s != nil {
		if s.Title != nil {
			i.Title = *s.Title
		}
		if s.Description != nil {
			i.Description = *s.Description
		}
		if s.Tags != nil {
			i.Tags = append([]string(nil), (*s.Tags)...)
		}
		if s.CategoryID != nil {
			i.CategoryID = *s.CategoryID
		}
		if s.DefaultLanguage != nil {
			i.DefaultLanguage = *s.DefaultLanguage
		}
	}
	if st := c.Status; st != nil {
		if i.Status == nil {
			i.Status = &ItemStatus{}
		}
		if st.PrivacyStatus != nil {
			i.Status.PrivacyStatus = *st.PrivacyStatus
		}
		if st.License != nil {
			i.Status.License = *st.License
		}
		if st.Embeddable != nil {
			i.Status.Embeddable = *st.Embeddable
		}
		if st.PublicStatsViewable != nil {
			i.Status.PublicStatsViewable = *st.PublicStatsViewable
		}
		if st.SelfDeclaredMadeForKids != nil {
			i.Status.SelfDeclaredMadeForKids = *st.SelfDeclaredMadeForKids
		}
	}
	if r := c.RecordingDetails; r != nil && r.RecordingDate != nil {
		i.RecordingDate = *r.RecordingDate
	}
	if !c.IsEmpty() {
		t := now
		i.LastUpdated = &t
	}
}

package model

// BackupRecord is a pre-edit snapshot of one item using platform part names.
type BackupRecord struct {
	ID               string           `json:"id"`
	Snippet          BackupSnippet    `json:"snippet"`
	Status           *ItemStatus      `json:"status"`
	RecordingDetails RecordingDetails `json:"recordingDetails"`
}

type BackupSnippet struct {
	Title           string   `json:"title"`
	Description     string   `json:"description"`
	Tags            []string `json:"tags,omitempty"`
	CategoryID      string   `json:"categoryId,omitempty"`
	DefaultLanguage string   `json:"defaultLanguage,omitempty"`
	ChannelID       string   `json:"channelId,omitempty"`
	PublishedAt     string   `json:"publishedAt,omitempty"`
}

type RecordingDetails struct {
	RecordingDate string `json:"recordingDate,omitempty"`
}

// RestorePlan rebuilds the change plan that puts the item back to the snapshot.
func (b *BackupRecord) RestorePlan() *ChangePlan {
	tags := append([]string{}, b.Snippet.Tags...)
	snippet := &SnippetPatch{
		Title:       StringPtr(b.Snippet.Title),
		Description: StringPtr(b.Snippet.Description),
		Tags:        &tags,
	}
	if b.Snippet.CategoryID != "" {
		snippet.CategoryID = StringPtr(b.Snippet.CategoryID)
	}
	if b.Snippet.DefaultLanguage != "" {
		snippet.DefaultLanguage = StringPtr(b.Snippet.DefaultLanguage)
	}
	plan := &ChangePlan{ID: b.ID, Changes: PlanChanges{Snippet: snippet}}
	if st := b.Status; st != nil {
		plan.Changes.Status = &StatusPatch{
			Embeddable:              BoolPtr(st.Embeddable),
			PublicStatsViewable:     BoolPtr(st.PublicStatsViewable),
			SelfDeclaredMadeForKids: BoolPtr(st.SelfDeclaredMadeForKids),
		}
		if st.PrivacyStatus != "" {
			plan.Changes.Status.PrivacyStatus = StringPtr(st.PrivacyStatus)
		}
		if st.License != "" {
			plan.Changes.Status.License = StringPtr(st.License)
		}
	}
	if b.RecordingDetails.RecordingDate != "" {
		plan.Changes.RecordingDetails = &RecordingPatch{RecordingDate: StringPtr(b.RecordingDetails.RecordingDate)}
	}
	return plan
}

// Item rebuilds a mirror entry from the snapshot. It is used as the update base when the item is not cached.
func (b *BackupRecord) Item() *Item {
	it := &Item{
		ID:              b.ID,
		Title:           b.Snippet.Title,
		Description:     b.Snippet.Description,
		Tags:            append([]string(nil), b.Snippet.Tags...),
		CategoryID:      b.Snippet.CategoryID,
		DefaultLanguage: b.Snippet.DefaultLanguage,
		PublishedAt:     b.Snippet.PublishedAt,
		RecordingDate:   b.RecordingDetails.RecordingDate,
	}
	if b.Status != nil {
		st := *b.Status
		it.Status = &st
	}
	return it
}

package model

// ChangePlan is the minimal diff for one item. Untouched fields stay nil and are never sent.
type ChangePlan struct {
	ID        string      `json:"id"`
	Changes   PlanChanges `json:"changes"`
	Thumbnail string      `json:"thumbnail,omitempty"`
}

// PlanChanges groups the optional sub-payloads by platform part name.
type PlanChanges struct {
	Snippet          *SnippetPatch   `json:"snippet,omitempty"`
	Status           *StatusPatch    `json:"status,omitempty"`
	RecordingDetails *RecordingPatch `json:"recordingDetails,omitempty"`
}

// SnippetPatch uses pointer fields so an omitted field (nil) differs from an explicit empty value.
type SnippetPatch struct {
	Title           *string   `json:"title,omitempty"`
	Description     *string   `json:"description,omitempty"`
	Tags            *[]string `json:"tags,omitempty"`
	CategoryID      *string   `json:"categoryId,omitempty"`
	DefaultLanguage *string   `json:"defaultLanguage,omitempty"`
}

type StatusPatch struct {
	PrivacyStatus           *string `json:"privacyStatus,omitempty"`
	License                 *string `json:"license,omitempty"`
	Embeddable              *bool   `json:"embeddable,omitempty"`
	PublicStatsViewable     *bool   `json:"publicStatsViewable,omitempty"`
	SelfDeclaredMadeForKids *bool   `json:"selfDeclaredMadeForKids,omitempty"`
}

type RecordingPatch struct {
	RecordingDate *string `json:"recordingDate,omitempty"`
}

// IsEmpty reports whether no metadata call is needed.
func (c PlanChanges) IsEmpty() bool {
	return c.Snippet == nil && c.Status == nil && c.RecordingDetails == nil
}

// Parts lists the platform parts the update touches, in a stable order.
func (c PlanChanges) Parts() []string {
	parts := make([]string, 0, 3)
	if c.Snippet != nil {
		parts = append(parts, "snippet")
	}
	if c.Status != nil {
		parts = append(parts, "status")
	}
	if c.RecordingDetails != nil {
		parts = append(parts, "recordingDetails")
	}
	return parts
}

// HasWork reports whether the plan makes any call at all.
func (p *ChangePlan) HasWork() bool {
	return !p.Changes.IsEmpty() || p.Thumbnail != ""
}

func (s *StatusPatch) isEmpty() bool {
	return s.PrivacyStatus == nil && s.License == nil && s.Embeddable == nil &&
		s.PublicStatsViewable == nil && s.SelfDeclaredMadeForKids == nil
}

// NormalizeStatus drops an empty status patch so it is never sent.
func (c *PlanChanges) NormalizeStatus() {
	if c.Status != nil && c.Status.isEmpty() {
		c.Status = nil
	}
}

// StringPtr returns a pointer to a copy of s.
func StringPtr(s string) *string { return &s }

// BoolPtr returns a pointer to a copy of b.
func BoolPtr(b bool) *bool { return &b }

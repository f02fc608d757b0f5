package usecase

import (
	"fmt"
	"os"
	"strings"
	"time"

	"ytbulkedit/domain/model"
)

var (
	descriptionActions = []string{"", model.DescNone, model.DescAppend, model.DescPrepend, model.DescReplaceAll,
		model.DescFindReplace, model.DescTrim, model.DescReplaceAfter}
	trimModes    = []string{"", model.TrimNone, model.TrimBefore, model.TrimAfter}
	titleActions = []string{"", model.TitleNone, model.TitleAppend, model.TitlePrepend, model.TitleReplace}
	tagsActions  = []string{"", model.TagsNone, model.TagsAdd, model.TagsReplace, model.TagsRemove}
)

var recordingDateLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// ParseRecordingDate accepts an ISO-8601 date or date-time. A date-time without offset is taken as UTC.
func ParseRecordingDate(v string) (time.Time, error) {
	v = strings.TrimSpace(v)
	for _, layout := range recordingDateLayouts {
		if t, err := time.Parse(layout, v); err == nil {
			return t, nil
		}
	}
	return time.Time{}, &model.ValidationError{Field: "recording_date", Message: fmt.Sprintf("%q is not ISO 8601", v)}
}

func oneOf(v string, allowed []string) bool {
	for _, a := range allowed {
		if v == a {
			return true
		}
	}
	return false
}

// ValidateRules rejects a rule set before any network call.
func ValidateRules(rules model.RuleSet) error {
	if !oneOf(rules.Action, descriptionActions) {
		return &model.ValidationError{Field: "action", Message: fmt.Sprintf("unknown description action %q", rules.Action)}
	}
	if !oneOf(rules.TrimMode, trimModes) {
		return &model.ValidationError{Field: "trim_mode", Message: fmt.Sprintf("unknown trim mode %q", rules.TrimMode)}
	}
	if !oneOf(rules.TitleAction, titleActions) {
		return &model.ValidationError{Field: "title_action", Message: fmt.Sprintf("unknown title action %q", rules.TitleAction)}
	}
	if !oneOf(rules.TagsAction, tagsActions) {
		return &model.ValidationError{Field: "tags_action", Message: fmt.Sprintf("unknown tags action %q", rules.TagsAction)}
	}

	if rules.UseRegex {
		pattern := ""
		switch rules.Action {
		case model.DescFindReplace:
			pattern = rules.Find
		case model.DescTrim, model.DescReplaceAfter:
			pattern = rules.Keyword
		}
		if pattern != "" {
			if _, err := compileFold(pattern); err != nil {
				return err
			}
		}
	}

	if p := rules.PrivacyOverride(); p != "" && !oneOf(p, model.PrivacyStatuses) {
		return &model.ValidationError{Field: "privacy", Message: fmt.Sprintf("expected one of %s, got %q", strings.Join(model.PrivacyStatuses, ", "), p)}
	}
	if l := rules.LicenseOverride(); l != "" && !oneOf(l, model.Licenses) {
		return &model.ValidationError{Field: "license", Message: fmt.Sprintf("expected one of %s, got %q", strings.Join(model.Licenses, ", "), l)}
	}
	for _, fn := range []func() (*bool, error){rules.EmbeddableOverride, rules.PublicStatsOverride, rules.MadeForKidsOverride} {
		if _, err := fn(); err != nil {
			return err
		}
	}
	if !isUnsetCategory(rules.Category) {
		if _, ok := rules.CategoryOverride(); !ok {
			return &model.ValidationError{Field: "category", Message: fmt.Sprintf("unknown category %q", rules.Category)}
		}
	}
	if d := rules.RecordingDateOverride(); d != "" {
		if _, err := ParseRecordingDate(d); err != nil {
			return err
		}
	}
	if p := strings.TrimSpace(rules.ThumbnailPath); p != "" {
		info, err := os.Stat(p)
		if err != nil {
			return &model.ValidationError{Field: "thumbnail_path", Message: err.Error()}
		}
		if info.IsDir() {
			return &model.ValidationError{Field: "thumbnail_path", Message: fmt.Sprintf("%s is a directory", p)}
		}
	}
	return nil
}

func isUnsetCategory(v string) bool {
	v = strings.TrimSpace(v)
	return v == "" || v == model.NoChange || v == model.NoChangeLabel
}

// BuildPlan computes the minimal change plan for one item.
// Snippet is sent only when a snippet field changes; title and description are then always present.
func BuildPlan(item *model.Item, rules model.RuleSet) (*model.ChangePlan, error) {
	plan := &model.ChangePlan{ID: item.ID, Thumbnail: strings.TrimSpace(rules.ThumbnailPath)}

	title, titleChanged := NewTitle(item.Title, rules.TitleActionOrNone(), rules.TitleText)
	desc, descChanged, err := NewDescription(item.Description, rules.DescriptionAction(), rules.Footer,
		rules.Find, rules.Replace, rules.Keyword, rules.TrimMode, bool(rules.UseRegex))
	if err != nil {
		return nil, err
	}

	snippet := &model.SnippetPatch{}
	needSnippet := titleChanged || descChanged
	if rules.TagsActionOrNone() != model.TagsNone {
		tags, _ := NewTags(item.Tags, rules.TagsActionOrNone(), rules.TagsText)
		snippet.Tags = &tags
		needSnippet = true
	}
	if id, ok := rules.CategoryOverride(); ok {
		snippet.CategoryID = model.StringPtr(id)
		needSnippet = true
	}
	if lang := rules.LanguageOverride(); lang != "" {
		snippet.DefaultLanguage = model.StringPtr(lang)
		needSnippet = true
	}
	if needSnippet {
		snippet.Title = model.StringPtr(title)
		snippet.Description = model.StringPtr(desc)
		plan.Changes.Snippet = snippet
	}

	status := &model.StatusPatch{}
	if p := rules.PrivacyOverride(); p != "" {
		status.PrivacyStatus = model.StringPtr(p)
	}
	if l := rules.LicenseOverride(); l != "" {
		status.License = model.StringPtr(l)
	}
	if status.Embeddable, err = rules.EmbeddableOverride(); err != nil {
		return nil, err
	}
	if status.PublicStatsViewable, err = rules.PublicStatsOverride(); err != nil {
		return nil, err
	}
	if status.SelfDeclaredMadeForKids, err = rules.MadeForKidsOverride(); err != nil {
		return nil, err
	}
	plan.Changes.Status = status
	plan.Changes.NormalizeStatus()

	if raw := rules.RecordingDateOverride(); raw != "" {
		t, err := ParseRecordingDate(raw)
		if err != nil {
			return nil, err
		}
		plan.Changes.RecordingDetails = &model.RecordingPatch{RecordingDate: model.StringPtr(t.UTC().Format(time.RFC3339))}
	}
	return plan, nil
}

// BuildPlans validates the rule set once and builds a plan per item in selection order.
// Any error aborts the whole batch.
func BuildPlans(items []*model.Item, rules model.RuleSet) ([]*model.ChangePlan, error) {
	if err := ValidateRules(rules); err != nil {
		return nil, err
	}
	plans := make([]*model.ChangePlan, 0, len(items))
	for _, item := range items {
		plan, err := BuildPlan(item, rules)
		if err != nil {
			return nil, err
		}
		plans = append(plans, plan)
	}
	return plans, nil
}

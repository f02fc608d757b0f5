package usecase_test

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ytbulkedit/domain/model"
	"ytbulkedit/usecase"
)

func sampleItem() *model.Item {
	return &model.Item{
		ID:          "vid1",
		Title:       "Episode 1",
		Description: "Story\n--links--\nold links",
		Tags:        []string{"show", "episode"},
		CategoryID:  "22",
		Status:      &model.ItemStatus{PrivacyStatus: "private", License: "youtube", Embeddable: true},
	}
}

func TestBuildPlan_NoRulesMeansNoCalls(t *testing.T) {
	plan, err := usecase.BuildPlan(sampleItem(), model.DefaultRuleSet())
	require.NoError(t, err)
	assert.True(t, plan.Changes.IsEmpty())
	assert.False(t, plan.HasWork())
}

func TestBuildPlan_SnippetCarriesTitleAndDescription(t *testing.T) {
	rules := model.DefaultRuleSet()
	rules.Category = "Gaming"

	plan, err := usecase.BuildPlan(sampleItem(), rules)
	require.NoError(t, err)
	require.NotNil(t, plan.Changes.Snippet)
	assert.Equal(t, "Episode 1", *plan.Changes.Snippet.Title)
	assert.Equal(t, "Story\n--links--\nold links", *plan.Changes.Snippet.Description)
	assert.Equal(t, "20", *plan.Changes.Snippet.CategoryID)
	assert.Nil(t, plan.Changes.Snippet.Tags)
	assert.Nil(t, plan.Changes.Snippet.DefaultLanguage)
	assert.Nil(t, plan.Changes.Status)
	assert.Nil(t, plan.Changes.RecordingDetails)
}

func TestBuildPlan_TagsOnlyWhenActionSelected(t *testing.T) {
	rules := model.DefaultRuleSet()
	rules.TagsAction = model.TagsAdd
	rules.TagsText = "new"

	plan, err := usecase.BuildPlan(sampleItem(), rules)
	require.NoError(t, err)
	require.NotNil(t, plan.Changes.Snippet.Tags)
	assert.Equal(t, []string{"episode", "new", "show"}, *plan.Changes.Snippet.Tags)
}

func TestBuildPlan_StatusOnlyOverriddenFields(t *testing.T) {
	rules := model.DefaultRuleSet()
	rules.Privacy = "public"
	rules.MadeForKids = "false"

	plan, err := usecase.BuildPlan(sampleItem(), rules)
	require.NoError(t, err)
	assert.Nil(t, plan.Changes.Snippet)
	require.NotNil(t, plan.Changes.Status)

	raw, err := json.Marshal(plan.Changes.Status)
	require.NoError(t, err)
	assert.JSONEq(t, `{"privacyStatus":"public","selfDeclaredMadeForKids":false}`, string(raw))
}

func TestBuildPlan_RecordingDateIsNormalized(t *testing.T) {
	rules := model.DefaultRuleSet()
	rules.RecordingDate = "2024-03-01"

	plan, err := usecase.BuildPlan(sampleItem(), rules)
	require.NoError(t, err)
	require.NotNil(t, plan.Changes.RecordingDetails)
	assert.Equal(t, "2024-03-01T00:00:00Z", *plan.Changes.RecordingDetails.RecordingDate)
	assert.Equal(t, []string{"recordingDetails"}, plan.Changes.Parts())
}

func TestBuildPlan_ThumbnailOnly(t *testing.T) {
	rules := model.DefaultRuleSet()
	rules.ThumbnailPath = "thumb.png"

	plan, err := usecase.BuildPlan(sampleItem(), rules)
	require.NoError(t, err)
	assert.True(t, plan.Changes.IsEmpty())
	assert.True(t, plan.HasWork())
	assert.Equal(t, "thumb.png", plan.Thumbnail)
}

func TestBuildPlans_InvalidInputAbortsBatch(t *testing.T) {
	items := []*model.Item{sampleItem(), sampleItem()}

	tests := []struct {
		name  string
		apply func(r *model.RuleSet)
		field string
	}{
		{"bad regex", func(r *model.RuleSet) { r.Action = model.DescFindReplace; r.Find = "(["; r.UseRegex = true }, "regex"},
		{"bad date", func(r *model.RuleSet) { r.RecordingDate = "March 1st" }, "recording_date"},
		{"bad privacy", func(r *model.RuleSet) { r.Privacy = "friends" }, "privacy"},
		{"bad license", func(r *model.RuleSet) { r.License = "gpl" }, "license"},
		{"bad tristate", func(r *model.RuleSet) { r.Embeddable = "maybe" }, "embeddable"},
		{"bad category", func(r *model.RuleSet) { r.Category = "Cooking" }, "category"},
		{"bad action", func(r *model.RuleSet) { r.Action = "shuffle" }, "action"},
		{"missing thumbnail", func(r *model.RuleSet) { r.ThumbnailPath = filepath.Join(t.TempDir(), "nope.png") }, "thumbnail_path"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rules := model.DefaultRuleSet()
			tt.apply(&rules)

			plans, err := usecase.BuildPlans(items, rules)
			assert.Nil(t, plans)
			var ve *model.ValidationError
			require.True(t, errors.As(err, &ve), "got %v", err)
			assert.Equal(t, tt.field, ve.Field)
		})
	}
}

func TestBuildPlans_KeepsSelectionOrder(t *testing.T) {
	thumb := filepath.Join(t.TempDir(), "thumb.jpg")
	require.NoError(t, os.WriteFile(thumb, []byte("img"), 0o600))

	a, b := sampleItem(), sampleItem()
	a.ID, b.ID = "b-second", "a-first"
	rules := model.DefaultRuleSet()
	rules.ThumbnailPath = thumb

	plans, err := usecase.BuildPlans([]*model.Item{a, b}, rules)
	require.NoError(t, err)
	require.Len(t, plans, 2)
	assert.Equal(t, "b-second", plans[0].ID)
	assert.Equal(t, "a-first", plans[1].ID)
}

func TestParseRecordingDate(t *testing.T) {
	for _, in := range []string{"2024-01-02", "2024-01-02T10:00:00Z", "2024-01-02T10:00:00+02:00", "2024-01-02T10:00:00"} {
		_, err := usecase.ParseRecordingDate(in)
		assert.NoError(t, err, in)
	}
	_, err := usecase.ParseRecordingDate("02/01/2024")
	assert.Error(t, err)
}

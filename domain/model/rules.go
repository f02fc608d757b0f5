package model

import (
	"encoding/json"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// Description actions.
const (
	DescNone         = "none"
	DescAppend       = "append"
	DescPrepend      = "prepend"
	DescReplaceAll   = "replace_all"
	DescFindReplace  = "find_replace"
	DescTrim         = "trim"
	DescReplaceAfter = "replace_after"
)

// Trim directions.
const (
	TrimNone   = "none"
	TrimBefore = "before"
	TrimAfter  = "after"
)

// Title actions.
const (
	TitleNone    = "none"
	TitleAppend  = "append"
	TitlePrepend = "prepend"
	TitleReplace = "replace"
)

// Tag actions.
const (
	TagsNone    = "none"
	TagsAdd     = "add"
	TagsReplace = "replace"
	TagsRemove  = "remove"
)

// Unset sentinels as written by the settings file.
const (
	NoChange      = "no_change"
	NoChangeLabel = "No Change"
)

var (
	PrivacyStatuses = []string{"public", "private", "unlisted"}
	Licenses        = []string{"youtube", "creativeCommon"}
)

// Flag is a boolean persisted as 0 or 1. It also accepts JSON and YAML booleans.
type Flag bool

func (f Flag) MarshalJSON() ([]byte, error) {
	if f {
		return []byte("1"), nil
	}
	return []byte("0"), nil
}

func (f *Flag) UnmarshalJSON(data []byte) error {
	s := strings.Trim(strings.TrimSpace(string(data)), `"`)
	v, err := parseFlag(s)
	if err != nil {
		return err
	}
	*f = v
	return nil
}

func (f *Flag) UnmarshalYAML(node *yaml.Node) error {
	v, err := parseFlag(strings.TrimSpace(node.Value))
	if err != nil {
		return err
	}
	*f = v
	return nil
}

func (f Flag) MarshalYAML() (interface{}, error) {
	if f {
		return 1, nil
	}
	return 0, nil
}

func parseFlag(s string) (Flag, error) {
	switch strings.ToLower(s) {
	case "1", "true":
		return true, nil
	case "0", "false", "", "null":
		return false, nil
	}
	return false, fmt.Errorf("invalid flag value %q", s)
}

// RuleSet is one selection per editable field family. Its keys match the settings file.
type RuleSet struct {
	Action        string `json:"action" yaml:"action"`
	Footer        string `json:"footer" yaml:"footer"`
	Find          string `json:"find" yaml:"find"`
	Replace       string `json:"replace" yaml:"replace"`
	Keyword       string `json:"keyword" yaml:"keyword"`
	TrimMode      string `json:"trim_mode" yaml:"trim_mode"`
	UseRegex      Flag   `json:"use_regex" yaml:"use_regex"`
	TitleAction   string `json:"title_action" yaml:"title_action"`
	TitleText     string `json:"title_text" yaml:"title_text"`
	TagsAction    string `json:"tags_action" yaml:"tags_action"`
	TagsText      string `json:"tags_text" yaml:"tags_text"`
	Privacy       string `json:"privacy" yaml:"privacy"`
	License       string `json:"license" yaml:"license"`
	Embeddable    string `json:"embeddable" yaml:"embeddable"`
	PublicStats   string `json:"public_stats" yaml:"public_stats"`
	MadeForKids   string `json:"made_for_kids" yaml:"made_for_kids"`
	Category      string `json:"category" yaml:"category"`
	ThumbnailPath string `json:"thumbnail_path" yaml:"thumbnail_path"`
	Language      string `json:"language" yaml:"language"`
	RecordingDate string `json:"recording_date" yaml:"recording_date"`
}

// DefaultRuleSet returns a rule set that changes nothing.
func DefaultRuleSet() RuleSet {
	return RuleSet{
		Action:        DescNone,
		TrimMode:      TrimNone,
		TitleAction:   TitleNone,
		TagsAction:    TagsNone,
		Privacy:       NoChange,
		License:       NoChange,
		Embeddable:    NoChange,
		PublicStats:   NoChange,
		MadeForKids:   NoChange,
		Category:      NoChangeLabel,
		Language:      NoChangeLabel,
		RecordingDate: NoChangeLabel,
	}
}

// UnmarshalJSON fills missing keys with the unset sentinels.
func (r *RuleSet) UnmarshalJSON(data []byte) error {
	type plain RuleSet
	out := plain(DefaultRuleSet())
	if err := json.Unmarshal(data, &out); err != nil {
		return err
	}
	*r = RuleSet(out)
	return nil
}

func (r *RuleSet) UnmarshalYAML(node *yaml.Node) error {
	type plain RuleSet
	out := plain(DefaultRuleSet())
	if err := node.Decode(&out); err != nil {
		return err
	}
	*r = RuleSet(out)
	return nil
}

func isUnset(v string) bool {
	v = strings.TrimSpace(v)
	return v == "" || v == NoChange || v == NoChangeLabel
}

// PrivacyOverride returns the privacy override or "".
func (r RuleSet) PrivacyOverride() string {
	if isUnset(r.Privacy) {
		return ""
	}
	return r.Privacy
}

// LicenseOverride returns the license override or "".
func (r RuleSet) LicenseOverride() string {
	if isUnset(r.License) {
		return ""
	}
	return r.License
}

// LanguageOverride returns the default-language override or "".
func (r RuleSet) LanguageOverride() string {
	if isUnset(r.Language) {
		return ""
	}
	return strings.TrimSpace(r.Language)
}

// RecordingDateOverride returns the raw recording-date override or "".
func (r RuleSet) RecordingDateOverride() string {
	if isUnset(r.RecordingDate) {
		return ""
	}
	return strings.TrimSpace(r.RecordingDate)
}

// CategoryOverride resolves the category by display name or numeric id.
func (r RuleSet) CategoryOverride() (string, bool) {
	if isUnset(r.Category) {
		return "", false
	}
	return CategoryID(r.Category)
}

func (r RuleSet) EmbeddableOverride() (*bool, error)  { return tristate("embeddable", r.Embeddable) }
func (r RuleSet) PublicStatsOverride() (*bool, error) { return tristate("public_stats", r.PublicStats) }
func (r RuleSet) MadeForKidsOverride() (*bool, error) { return tristate("made_for_kids", r.MadeForKids) }

func tristate(field, v string) (*bool, error) {
	if isUnset(v) {
		return nil, nil
	}
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "true":
		return BoolPtr(true), nil
	case "false":
		return BoolPtr(false), nil
	}
	return nil, &ValidationError{Field: field, Message: fmt.Sprintf("expected true, false or %s, got %q", NoChange, v)}
}

// DescriptionAction normalizes an empty action to none.
func (r RuleSet) DescriptionAction() string {
	if strings.TrimSpace(r.Action) == "" {
		return DescNone
	}
	return r.Action
}

// TitleActionOrNone normalizes an empty title action to none.
func (r RuleSet) TitleActionOrNone() string {
	if strings.TrimSpace(r.TitleAction) == "" {
		return TitleNone
	}
	return r.TitleAction
}

// TagsActionOrNone normalizes an empty tags action to none.
func (r RuleSet) TagsActionOrNone() string {
	if strings.TrimSpace(r.TagsAction) == "" {
		return TagsNone
	}
	return r.TagsAction
}

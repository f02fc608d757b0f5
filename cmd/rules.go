package cmd

import (
	"github.com/spf13/cobra"

	"ytbulkedit/domain/model"
	"ytbulkedit/usecase"
)

// ruleFlags overlays command-line rule values on a rules file or the defaults.
type ruleFlags struct {
	file  string
	rules model.RuleSet
	regex bool
}

func (r *ruleFlags) register(cmd *cobra.Command) {
	f := cmd.Flags()
	f.StringVar(&r.file, "rules", "", "rules file (JSON, or YAML by extension)")
	f.StringVar(&r.rules.Action, "action", model.DescNone, "description action: none, append, prepend, replace_all, find_replace, trim, replace_after")
	f.StringVar(&r.rules.Footer, "footer", "", "text for append, prepend, replace_all and replace_after")
	f.StringVar(&r.rules.Find, "find", "", "text or pattern to find")
	f.StringVar(&r.rules.Replace, "replace", "", "replacement text")
	f.StringVar(&r.rules.Keyword, "keyword", "", "keyword for trim and replace_after")
	f.StringVar(&r.rules.TrimMode, "trim-mode", model.TrimNone, "trim direction: none, before, after")
	f.BoolVar(&r.regex, "regex", false, "treat find and keyword as regular expressions")
	f.StringVar(&r.rules.TitleAction, "title-action", model.TitleNone, "title action: none, append, prepend, replace")
	f.StringVar(&r.rules.TitleText, "title-text", "", "title text")
	f.StringVar(&r.rules.TagsAction, "tags-action", model.TagsNone, "tags action: none, add, replace, remove")
	f.StringVar(&r.rules.TagsText, "tags-text", "", "comma-separated tags")
	f.StringVar(&r.rules.Privacy, "privacy", model.NoChange, "public, private or unlisted")
	f.StringVar(&r.rules.License, "license", model.NoChange, "youtube or creativeCommon")
	f.StringVar(&r.rules.Embeddable, "embeddable", model.NoChange, "true or false")
	f.StringVar(&r.rules.PublicStats, "public-stats", model.NoChange, "true or false")
	f.StringVar(&r.rules.MadeForKids, "made-for-kids", model.NoChange, "true or false")
	f.StringVar(&r.rules.Category, "category", model.NoChangeLabel, "category display name")
	f.StringVar(&r.rules.ThumbnailPath, "thumbnail", "", "image file to set as thumbnail")
	f.StringVar(&r.rules.Language, "language", model.NoChangeLabel, "default language code")
	f.StringVar(&r.rules.RecordingDate, "recording-date", model.NoChangeLabel, "recording date (YYYY-MM-DD or RFC 3339)")
}

var ruleFlagNames = []string{
	"action", "footer", "find", "replace", "keyword", "trim-mode", "regex",
	"title-action", "title-text", "tags-action", "tags-text",
	"privacy", "license", "embeddable", "public-stats", "made-for-kids",
	"category", "thumbnail", "language", "recording-date",
}

// resolve returns the rules file (if any) with every explicitly set flag applied on top.
func (r *ruleFlags) resolve(cmd *cobra.Command, engine usecase.IBatchEngine) (model.RuleSet, error) {
	r.rules.UseRegex = model.Flag(r.regex)
	if r.file == "" {
		return r.rules, nil
	}
	base, err := engine.LoadSettings(r.file)
	if err != nil {
		return model.RuleSet{}, err
	}
	for _, name := range ruleFlagNames {
		if cmd.Flags().Changed(name) {
			applyRuleFlag(&base, &r.rules, name)
		}
	}
	return base, nil
}

func applyRuleFlag(dst, src *model.RuleSet, name string) {
	switch name {
	case "action":
		dst.Action = src.Action
	case "footer":
		dst.Footer = src.Footer
	case "find":
		dst.Find = src.Find
	case "replace":
		dst.Replace = src.Replace
	case "keyword":
		dst.Keyword = src.Keyword
	case "trim-mode":
		dst.TrimMode = src.TrimMode
	case "regex":
		dst.UseRegex = src.UseRegex
	case "title-action":
		dst.TitleAction = src.TitleAction
	case "title-text":
		dst.TitleText = src.TitleText
	case "tags-action":
		dst.TagsAction = src.TagsAction
	case "tags-text":
		dst.TagsText = src.TagsText
	case "privacy":
		dst.Privacy = src.Privacy
	case "license":
		dst.License = src.License
	case "embeddable":
		dst.Embeddable = src.Embeddable
	case "public-stats":
		dst.PublicStats = src.PublicStats
	case "made-for-kids":
		dst.MadeForKids = src.MadeForKids
	case "category":
		dst.Category = src.Category
	case "thumbnail":
		dst.ThumbnailPath = src.ThumbnailPath
	case "language":
		dst.Language = src.Language
	case "recording-date":
		dst.RecordingDate = src.RecordingDate
	}
}

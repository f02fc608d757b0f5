package usecase

import (
	"fmt"
	"strings"

	"ytbulkedit/domain/model"
)

// Preview renders the diff each selected item would receive, without touching the platform.
func Preview(items []*model.Item, rules model.RuleSet, ledger *QuotaLedger) ([]string, error) {
	if len(items) == 0 {
		return nil, model.ErrNoSelection
	}
	if err := ValidateRules(rules); err != nil {
		return nil, err
	}

	thumbnail := strings.TrimSpace(rules.ThumbnailPath)
	lines := []string{
		fmt.Sprintf("Estimated Quota Use: %d units (approximate)", ledger.Estimate(len(items), thumbnail != "")),
		"",
	}

	action := rules.DescriptionAction()
	for _, it := range items {
		lines = append(lines, fmt.Sprintf("%s (%s):", it.Title, it.ID))
		if a := rules.TitleActionOrNone(); a != model.TitleNone {
			title, _ := NewTitle(it.Title, a, rules.TitleText)
			lines = append(lines, "New Title: "+title)
		}
		if a := rules.TagsActionOrNone(); a != model.TagsNone {
			tags, _ := NewTags(it.Tags, a, rules.TagsText)
			lines = append(lines, "New Tags: "+strings.Join(tags, ", "))
		}

		desc, changed, err := NewDescription(it.Description, action, rules.Footer, rules.Find, rules.Replace,
			rules.Keyword, rules.TrimMode, bool(rules.UseRegex))
		if err != nil {
			return nil, err
		}
		lines = append(lines, "New Description: "+desc)
		if !changed && (action == model.DescTrim || action == model.DescFindReplace || action == model.DescReplaceAfter) {
			lines = append(lines, "(No change - keyword not found?)")
		}

		lines = append(lines, overrideLines(rules, thumbnail)...)
		lines = append(lines, "---", "")
	}
	return lines, nil
}

// overrideLines lists the scalar overrides. They are the same for every item.
func overrideLines(rules model.RuleSet, thumbnail string) []string {
	var out []string
	if id, ok := rules.CategoryOverride(); ok {
		out = append(out, "New Category: "+model.CategoryName(id))
	}
	if p := rules.PrivacyOverride(); p != "" {
		out = append(out, "New Privacy: "+p)
	}
	if l := rules.LicenseOverride(); l != "" {
		out = append(out, "New License: "+l)
	}
	if v, _ := rules.EmbeddableOverride(); v != nil {
		out = append(out, fmt.Sprintf("Embeddable: %t", *v))
	}
	if v, _ := rules.PublicStatsOverride(); v != nil {
		out = append(out, fmt.Sprintf("Public Stats Viewable: %t", *v))
	}
	if v, _ := rules.MadeForKidsOverride(); v != nil {
		out = append(out, fmt.Sprintf("Made For Kids: %t", *v))
	}
	if thumbnail != "" {
		out = append(out, "New Thumbnail: "+thumbnail)
	}
	if lang := rules.LanguageOverride(); lang != "" {
		out = append(out, "New Default Language: "+lang)
	}
	if rd := rules.RecordingDateOverride(); rd != "" {
		out = append(out, "New Recording Date: "+rd)
	}
	return out
}

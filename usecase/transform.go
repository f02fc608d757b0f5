package usecase

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"ytbulkedit/domain/model"
)

// Platform limits, counted in characters.
const (
	MaxDescriptionLength = 5000
	MaxTitleLength       = 100
	MaxTags              = 30
)

const (
	descriptionSeparator = "\n\n"
	titleSeparator       = " "
)

// NewDescription computes the new description for one action.
// A regex that does not compile is returned as an error and nothing is applied.
func NewDescription(current, action, footer, find, replace, keyword, trimMode string, useRegex bool) (string, bool, error) {
	out := current
	changed := false

	switch action {
	case model.DescAppend:
		out = current + descriptionSeparator + footer
		changed = true
	case model.DescPrepend:
		out = footer + descriptionSeparator + current
		changed = true
	case model.DescReplaceAll:
		out = footer
		changed = true
	case model.DescFindReplace:
		if find == "" {
			break
		}
		if useRegex {
			re, err := compileFold(find)
			if err != nil {
				return current, false, err
			}
			out = re.ReplaceAllString(current, replace)
		} else {
			out = strings.ReplaceAll(current, find, replace)
		}
		changed = out != current
	case model.DescTrim:
		if keyword == "" || trimMode == model.TrimNone || trimMode == "" {
			break
		}
		start, end, found, err := locate(current, keyword, useRegex)
		if err != nil {
			return current, false, err
		}
		if !found {
			break
		}
		switch trimMode {
		case model.TrimBefore:
			out = current[start:]
		case model.TrimAfter:
			out = current[:end]
		}
		changed = true
	case model.DescReplaceAfter:
		if keyword == "" {
			break
		}
		_, end, found, err := locate(current, keyword, useRegex)
		if err != nil {
			return current, false, err
		}
		if found {
			out = current[:end] + footer
			changed = true
		}
	}

	if t, cut := truncate(out, MaxDescriptionLength); cut {
		out = t
		changed = true
	}
	return out, changed, nil
}

// NewTitle applies a title action and enforces the title limit.
func NewTitle(current, action, text string) (string, bool) {
	out := current
	changed := false
	switch action {
	case model.TitleAppend:
		out = current + titleSeparator + text
		changed = true
	case model.TitlePrepend:
		out = text + titleSeparator + current
		changed = true
	case model.TitleReplace:
		out = text
		changed = true
	}
	if t, cut := truncate(out, MaxTitleLength); cut {
		out = t
		changed = true
	}
	return out, changed
}

// NewTags applies a tag action, then dedupes, sorts and caps the result.
// Normalization always runs, so applying the same action twice is stable.
func NewTags(current []string, action, text string) ([]string, bool) {
	out := append([]string(nil), current...)
	changed := false
	switch action {
	case model.TagsAdd:
		out = append(out, SplitTags(text)...)
		changed = true
	case model.TagsReplace:
		out = SplitTags(text)
		changed = true
	case model.TagsRemove:
		drop := make(map[string]struct{})
		for _, t := range SplitTags(text) {
			drop[t] = struct{}{}
		}
		kept := out[:0]
		for _, t := range out {
			if _, ok := drop[t]; !ok {
				kept = append(kept, t)
			}
		}
		out = kept
		changed = true
	}
	return NormalizeTags(out), changed
}

// SplitTags splits a comma-delimited list into trimmed, non-empty tokens.
func SplitTags(text string) []string {
	parts := strings.Split(text, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// NormalizeTags dedupes, sorts ascending and keeps at most MaxTags entries.
func NormalizeTags(tags []string) []string {
	seen := make(map[string]struct{}, len(tags))
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	sort.Strings(out)
	if len(out) > MaxTags {
		out = out[:MaxTags]
	}
	return out
}

func compileFold(pattern string) (*regexp.Regexp, error) {
	re, err := regexp.Compile("(?i)" + pattern)
	if err != nil {
		return nil, &model.ValidationError{Field: "regex", Message: fmt.Sprintf("%q: %v", pattern, err)}
	}
	return re, nil
}

// locate finds the first keyword match. Literal matching is case-sensitive, regex matching is not.
func locate(s, keyword string, useRegex bool) (start, end int, found bool, err error) {
	if useRegex {
		re, err := compileFold(keyword)
		if err != nil {
			return 0, 0, false, err
		}
		loc := re.FindStringIndex(s)
		if loc == nil {
			return 0, 0, false, nil
		}
		return loc[0], loc[1], true, nil
	}
	idx := strings.Index(s, keyword)
	if idx < 0 {
		return 0, 0, false, nil
	}
	return idx, idx + len(keyword), true, nil
}

// truncate cuts s to at most n characters.
func truncate(s string, n int) (string, bool) {
	if len(s) <= n {
		return s, false
	}
	count := 0
	for i := range s {
		if count == n {
			return s[:i], true
		}
		count++
	}
	return s, false
}

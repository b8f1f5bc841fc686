package pipeline

import (
	"regexp"
	"strings"
)

// PlatformRules holds the per-platform formatting constants.
type PlatformRules struct {
	CharacterLimit int
	MinHashtags    int
	MaxHashtags    int
	LineBreak      string
	ParagraphBreak string
}

var platformRules = map[Platform]PlatformRules{
	PlatformInstagram: {CharacterLimit: 2200, MinHashtags: 3, MaxHashtags: 30, LineBreak: "\n", ParagraphBreak: "\n\n"},
	PlatformTwitter:   {CharacterLimit: 280, MinHashtags: 1, MaxHashtags: 2, LineBreak: "\n", ParagraphBreak: "\n\n"},
	PlatformLinkedIn:  {CharacterLimit: 3000, MinHashtags: 3, MaxHashtags: 5, LineBreak: "\n", ParagraphBreak: "\n\n"},
	PlatformFacebook:  {CharacterLimit: 63206, MinHashtags: 1, MaxHashtags: 3, LineBreak: "\n", ParagraphBreak: "\n\n"},
}

// RulesFor returns the formatting constants for a platform, defaulting to
// Instagram for unknown values.
func RulesFor(p Platform) PlatformRules {
	if rules, ok := platformRules[p]; ok {
		return rules
	}
	return platformRules[PlatformInstagram]
}

// FormatOptions controls truncation behavior.
type FormatOptions struct {
	TruncateIfNeeded bool
	AddEllipsis      bool
}

const ellipsis = "..."

// Hashtags embedded in content. \p{Hebrew} keeps RTL campaign tags intact.
var hashtagPattern = regexp.MustCompile(`#[\w\p{Hebrew}]+`)

var excessNewlines = regexp.MustCompile(`\n{3,}`)

// FormatForPlatform post-processes content for a platform's character limit,
// hashtag convention, and line-break style. Hashtags already embedded in the
// content are not appended again (case-insensitive). When truncation is
// enabled the main content is cut, never the hashtags, and at least one
// character of content is always kept.
func FormatForPlatform(content string, platform Platform, hashtags []string, opts FormatOptions) string {
	rules := RulesFor(platform)

	content = normalizeLineBreaks(content, rules)

	// Case-insensitive registry of tags already present in the content.
	present := make(map[string]bool)
	for _, tag := range hashtagPattern.FindAllString(content, -1) {
		present[strings.ToLower(strings.TrimPrefix(tag, "#"))] = true
	}

	toAppend := make([]string, 0, len(hashtags))
	for _, tag := range hashtags {
		cleaned := strings.TrimSpace(strings.TrimLeft(tag, "#"))
		if cleaned == "" {
			continue
		}
		key := strings.ToLower(cleaned)
		if present[key] {
			continue
		}
		present[key] = true
		toAppend = append(toAppend, "#"+cleaned)
	}

	if len(toAppend) == 0 {
		if opts.TruncateIfNeeded && runeLen(content) > rules.CharacterLimit {
			content = truncateRunes(content, rules.CharacterLimit, opts.AddEllipsis)
		}
		return content
	}

	// Instagram convention is a hashtag block after a blank line; elsewhere
	// hashtags trail the content inline.
	separator := " "
	if platform == PlatformInstagram {
		separator = rules.ParagraphBreak
	}
	tagBlock := strings.Join(toAppend, " ")

	if opts.TruncateIfNeeded {
		total := runeLen(content) + runeLen(separator) + runeLen(tagBlock)
		if total > rules.CharacterLimit {
			budget := rules.CharacterLimit - runeLen(separator) - runeLen(tagBlock)
			if opts.AddEllipsis {
				budget -= len(ellipsis)
			}
			// Hashtags alone can exceed the limit; keep at least one
			// character of original content rather than going negative.
			if budget < 1 {
				budget = 1
			}
			if runeLen(content) > budget {
				content = strings.TrimRight(string([]rune(content)[:budget]), " \n")
				if opts.AddEllipsis {
					content += ellipsis
				}
			}
		}
	}

	return content + separator + tagBlock
}

// normalizeLineBreaks collapses runs of 3+ newlines to the platform's
// paragraph break, then maps single newlines to the platform's line break.
func normalizeLineBreaks(content string, rules PlatformRules) string {
	content = strings.ReplaceAll(content, "\r\n", "\n")
	content = excessNewlines.ReplaceAllString(content, rules.ParagraphBreak)
	if rules.LineBreak != "\n" {
		content = strings.ReplaceAll(content, "\n", rules.LineBreak)
	}
	return strings.TrimSpace(content)
}

func truncateRunes(s string, limit int, addEllipsis bool) string {
	if limit < 1 {
		limit = 1
	}
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	if addEllipsis && limit > len(ellipsis) {
		return strings.TrimRight(string(runes[:limit-len(ellipsis)]), " \n") + ellipsis
	}
	return string(runes[:limit])
}

func runeLen(s string) int {
	return len([]rune(s))
}

package pipeline

import (
	"strings"
	"testing"
	"unicode/utf8"
)

func TestFormatForPlatformTwitterLimit(t *testing.T) {
	content := strings.Repeat("go routines all the way down ", 20)
	got := FormatForPlatform(content, PlatformTwitter, []string{"golang", "concurrency"}, FormatOptions{TruncateIfNeeded: true, AddEllipsis: true})

	if n := utf8.RuneCountInString(got); n > 280 {
		t.Fatalf("formatted length %d exceeds twitter limit", n)
	}
	if !strings.Contains(got, "#golang") || !strings.Contains(got, "#concurrency") {
		t.Fatalf("hashtags must survive truncation: %q", got)
	}
	if !strings.Contains(got, "...") {
		t.Errorf("expected ellipsis on truncated content: %q", got)
	}
}

func TestFormatForPlatformHashtagDedup(t *testing.T) {
	content := "Big #Sale this weekend only"
	got := FormatForPlatform(content, PlatformTwitter, []string{"sale", "weekend"}, FormatOptions{})

	if strings.Count(strings.ToLower(got), "#sale") != 1 {
		t.Errorf("embedded #Sale should suppress appended #sale: %q", got)
	}
	if !strings.Contains(got, "#weekend") {
		t.Errorf("non-duplicate hashtag missing: %q", got)
	}
}

func TestFormatForPlatformInstagramBlock(t *testing.T) {
	got := FormatForPlatform("New drop.", PlatformInstagram, []string{"fashion", "ootd"}, FormatOptions{})
	if !strings.Contains(got, "New drop.\n\n#fashion #ootd") {
		t.Fatalf("instagram hashtags belong in a blank-line separated block: %q", got)
	}
}

func TestFormatForPlatformInlineElsewhere(t *testing.T) {
	got := FormatForPlatform("Shipping update.", PlatformLinkedIn, []string{"logistics"}, FormatOptions{})
	if got != "Shipping update. #logistics" {
		t.Fatalf("non-instagram hashtags trail inline: %q", got)
	}
}

func TestFormatForPlatformIdempotent(t *testing.T) {
	hashtags := []string{"coffee", "roastery"}
	once := FormatForPlatform("Fresh beans today.", PlatformInstagram, hashtags, FormatOptions{})
	twice := FormatForPlatform(once, PlatformInstagram, hashtags, FormatOptions{})
	if once != twice {
		t.Fatalf("formatting must be idempotent:\nonce:  %q\ntwice: %q", once, twice)
	}
}

func TestFormatForPlatformHashtagsExceedLimit(t *testing.T) {
	// Hashtag block alone is longer than the limit; at least one character of
	// content must survive.
	tags := make([]string, 0, 40)
	for i := 0; i < 40; i++ {
		tags = append(tags, strings.Repeat("x", 10)+string(rune('a'+i%26)))
	}
	got := FormatForPlatform("important announcement", PlatformTwitter, tags, FormatOptions{TruncateIfNeeded: true})
	if !strings.HasPrefix(got, "i") {
		t.Fatalf("content fully truncated away: %q", got[:min(40, len(got))])
	}
}

func TestFormatForPlatformHebrewHashtags(t *testing.T) {
	content := "מבצע השבוע #מבצע"
	got := FormatForPlatform(content, PlatformInstagram, []string{"מבצע", "חדש"}, FormatOptions{})
	if strings.Count(got, "#מבצע") != 1 {
		t.Errorf("embedded hebrew hashtag should dedup: %q", got)
	}
	if !strings.Contains(got, "#חדש") {
		t.Errorf("new hebrew hashtag missing: %q", got)
	}
}

func TestFormatForPlatformCollapsesNewlineRuns(t *testing.T) {
	got := FormatForPlatform("first\n\n\n\n\nsecond", PlatformInstagram, nil, FormatOptions{})
	if got != "first\n\nsecond" {
		t.Fatalf("newline runs should collapse to a paragraph break: %q", got)
	}
}

func TestFormatForPlatformEmptyAndBlankTags(t *testing.T) {
	got := FormatForPlatform("plain", PlatformFacebook, []string{"", "  ", "#"}, FormatOptions{})
	if got != "plain" {
		t.Fatalf("blank tags must not append separators: %q", got)
	}
}

func TestRulesForUnknownPlatform(t *testing.T) {
	if RulesFor("threads").CharacterLimit != platformRules[PlatformInstagram].CharacterLimit {
		t.Error("unknown platform should use instagram rules")
	}
}

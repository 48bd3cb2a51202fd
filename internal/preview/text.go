package preview

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

const ellipsis = "..."

var (
	hashtagPattern = regexp.MustCompile(`#[\p{L}\p{M}\p{N}_]+`)
	mentionPattern = regexp.MustCompile(`@[\p{L}\p{M}\p{N}_]+`)
	lineBreaks     = strings.NewReplacer("\r\n", "\n", "\r", "\n")
)

// ExtractHashtags returns the distinct hashtags of text in first-seen order.
func ExtractHashtags(text string) []string {
	return uniqueMatches(hashtagPattern, text)
}

// ExtractMentions returns the distinct mentions of text in first-seen order.
func ExtractMentions(text string) []string {
	return uniqueMatches(mentionPattern, text)
}

func uniqueMatches(pattern *regexp.Regexp, text string) []string {
	matches := pattern.FindAllString(text, -1)
	out := make([]string, 0, len(matches))
	seen := make(map[string]struct{}, len(matches))
	for _, m := range matches {
		if _, ok := seen[m]; ok {
			continue
		}
		seen[m] = struct{}{}
		out = append(out, m)
	}
	return out
}

// FormatText prepares text for the platform described by limits and reports
// whether it had to be cut to fit. The result never exceeds MaxTextLength runes.
func FormatText(text string, limits PlatformLimits) (string, bool) {
	formatted := lineBreaks.Replace(strings.TrimSpace(text))

	if limits.ReflowHashtags {
		if tags := ExtractHashtags(formatted); len(tags) > 0 {
			formatted = reflowHashtags(formatted, tags)
		}
	}

	return truncate(formatted, limits.MaxTextLength)
}

// reflowHashtags strips tags from the body and appends them as a trailing line.
func reflowHashtags(text string, tags []string) string {
	body := hashtagPattern.ReplaceAllString(text, "")

	lines := strings.Split(body, "\n")
	kept := make([]string, 0, len(lines))
	for _, line := range lines {
		line = strings.Join(strings.Fields(line), " ")
		if line == "" && (len(kept) == 0 || kept[len(kept)-1] == "") {
			continue
		}
		kept = append(kept, line)
	}

	tagLine := strings.Join(tags, " ")
	body = strings.TrimSpace(strings.Join(kept, "\n"))
	if body == "" {
		return tagLine
	}
	return body + "\n\n" + tagLine
}

func truncate(text string, maxRunes int) (string, bool) {
	if maxRunes < 0 || utf8.RuneCountInString(text) <= maxRunes {
		return text, false
	}
	runes := []rune(text)
	if maxRunes <= len(ellipsis) {
		return string(runes[:maxRunes]), true
	}
	return string(runes[:maxRunes-len(ellipsis)]) + ellipsis, true
}

package local

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// ExtractNameAndYear cleans a series or folder name and splits off its year.
// Everything after the first year or year range is dropped.
func ExtractNameAndYear(name string) (string, string) {
	if name == "" {
		return name, ""
	}

	formatted := name
	year := ""

	if yearMatches := yearRangeRe.FindStringSubmatch(formatted); len(yearMatches) > 1 {
		year = yearMatches[1]
		if yearIndex := strings.Index(formatted, year); yearIndex != -1 {
			formatted = strings.TrimRight(formatted[:yearIndex], " ([{-_")
		}
	}

	formatted = strings.NewReplacer(".", " ", "-", " ", "_", " ").Replace(formatted)
	formatted = encodingTagsRe.ReplaceAllString(formatted, "")
	formatted = strings.Join(strings.Fields(formatted), " ")

	return formatted, year
}

// ExtractShowNameFromPath extracts a series name from a file or folder name by
// cutting at the point where season or episode information starts.
func ExtractShowNameFromPath(name string, isFile bool) (showName, year string) {
	working := name
	if isFile {
		if ext := ExtractExtension(name); ext != "" {
			working = name[:len(name)-len(ext)]
		}
	}

	if idx := FindSeasonEpisodeIndex(working); idx > 0 {
		showName, year = ExtractNameAndYear(strings.TrimRight(working[:idx], ".-_ "))
		if showName != "" {
			return showName, year
		}
	}

	if _, isSeasonFolder := ExtractSeasonNumber(working); isSeasonFolder {
		if idx := findSeasonPatternIndex(working); idx > 0 {
			showName, year = ExtractNameAndYear(strings.TrimRight(working[:idx], ".-_ "))
			if showName != "" {
				return showName, year
			}
		}
		// A bare season folder names no series
		return "", ""
	}

	return ExtractNameAndYear(working)
}

// findSeasonPatternIndex finds where a season marker starts in the string
func findSeasonPatternIndex(s string) int {
	earliestIdx := -1
	for _, pattern := range []string{"Season", "season", "SEASON", "Сезон", "сезон", "S", "s"} {
		idx := strings.Index(s, pattern)
		if idx <= 0 || (earliestIdx != -1 && idx >= earliestIdx) {
			continue
		}
		if prev, _ := utf8.DecodeLastRuneInString(s[:idx]); unicode.IsLetter(prev) {
			continue
		}
		after := s[idx+len(pattern):]
		if after == "" {
			continue
		}
		if first := rune(after[0]); unicode.IsDigit(first) || unicode.IsSpace(first) {
			earliestIdx = idx
		}
	}
	return earliestIdx
}

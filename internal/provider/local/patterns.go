package local

import (
	"regexp"
	"strconv"
	"strings"
)

// Pattern compilation for media file parsing
var (
	// Kinopoisk ID tag: kp123 or kp-123 anywhere in a path
	kinopoiskIDRe = regexp.MustCompile(`(?i)kp-?(\d+)`)

	// Movie search names keep digits, Latin and Cyrillic letters and dashes
	movieNameRe  = regexp.MustCompile(`(?i)[^0-9ЁA-ZА-Я-]`)
	multiSpaceRe = regexp.MustCompile(` {2,}`)
	fourDigitsRe = regexp.MustCompile(`(?:^|[^0-9])([0-9]{4})(?:[^0-9]|$)`)

	// Season patterns
	seasonRe    = regexp.MustCompile(`(?i)\b(?:s|season|сезон)\.? *(\d+)\b`)
	seasonAltRe = regexp.MustCompile(`(?i)(?:^|[\s\.\-_])(?:s|season|сезон)[\s\.\-_]+(\d+)`)

	// Episode patterns
	seasonEpisodeRe       = regexp.MustCompile(`(?i)[sx]?(\d+)[ex](\d+)`)
	dottedSeasonEpisodeRe = regexp.MustCompile(`(?i)(?:^|[\s_\-\.])([0-9]{1,2})[\. _-]([0-9]{1,2})(?:[^0-9]|$)`)
	episodeNumberRe       = regexp.MustCompile(`(?:^|[\s\.\-_]|[Ee])(\d+)(?:[\s\.\-_]|$)`)
	episodePrefixRe       = regexp.MustCompile(`^e[\s\.\-_]*\d`)

	// File type patterns
	videoRe    = regexp.MustCompile(`(?i)\.(mp4|mkv|avi|mov|wmv|flv|webm|mpeg|mpg|m4v|3gp|vob|ts|mts|m2ts|rmvb|divx)$`)
	subtitleRe = regexp.MustCompile(`(?i)\.(srt|sub|idx|ass|ssa|smi|vtt|sbv|sami|usf|stl|dks|pjs|jss|psb|rt|scc|cap|sup|dfxp|ttml)$`)

	// Language pattern for subtitles
	langPattern = regexp.MustCompile(`(\.[a-zA-Z]{2,3}(?:[-_][a-zA-Z]{2,4})?)$`)

	// Year extraction for series folders
	yearRangeRe = regexp.MustCompile(`(?:^|[^\d])((19|20)\d{2})(?:[\s\-–—]+(?:19|20)\d{2})?(?:[^\d]|$)`)

	// Release tags that never belong to a title
	encodingTagsRe = regexp.MustCompile(`(?i)\b(?:HD|HDR|DV|x265|x264|H\.?264|H\.?265|HEVC|AVC|AAC|AC3|DD|DTS|FLAC|MP3|WEB-?DL|WEB-?Rip|BluRay|BDRip|DVDRip|HDTV|HDRip|720p|1080p|2160p|4K|UHD|SDR|10bit|8bit|PROPER|REPACK|iNTERNAL|LiMiTED|UNRATED|EXTENDED|DiRECTORS?\.?CUT|THEATRICAL|COMPLETE|SEASON|SERIES|MULTI|DUAL|DUBBED|SUBBED|SUB|RETAIL|NTSC|PAL|UNCUT|UNCENSORED)\b`)

	// Simple number pattern (for fallback season detection)
	simpleNumberRe = regexp.MustCompile(`^(\d+)|[\s\.\-_](\d+)(?:[\s\.\-_]|$)`)

	// Patterns to find where season/episode info starts
	seasonEpisodePatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)[sx]?\d+[ex]\d+`),                      // S01E01, 1x01, s1e1
		regexp.MustCompile(`(?i)[\s._-](?:s|season|сезон)[\s._-]*\d+`), // _Season_02, .Сезон.02
		regexp.MustCompile(`(?i)^(?:s|season|сезон)[\s._-]*\d+`),       // Season at start
		regexp.MustCompile(`\b\d{1,2}[\. _-]\d{1,2}\b`),                // Dotted format: 1.04
		regexp.MustCompile(`(?i)^[eE]\d+`),                             // Episode at start: E01
		regexp.MustCompile(`(?i)^Episode[\s._-]*\d+`),                  // Episode at start
	}
)

// IsVideo checks if the filename has a video extension
func IsVideo(filename string) bool {
	return videoRe.MatchString(filename)
}

// IsSubtitle checks if the filename has a subtitle extension
func IsSubtitle(filename string) bool {
	return subtitleRe.MatchString(filename)
}

// ExtractExtension extracts the file extension (handles both regular and subtitle files)
func ExtractExtension(filename string) string {
	if IsSubtitle(filename) {
		return extractSubtitleSuffix(filename)
	}
	return extractSimpleExtension(filename)
}

func extractSimpleExtension(filename string) string {
	if dotIndex := strings.LastIndex(filename, "."); dotIndex != -1 {
		return filename[dotIndex:]
	}
	return ""
}

// extractSubtitleSuffix keeps a language code in front of the subtitle extension
func extractSubtitleSuffix(filename string) string {
	subtitleMatch := subtitleRe.FindStringIndex(filename)
	if len(subtitleMatch) == 0 {
		return ""
	}
	beforeExt := filename[:subtitleMatch[0]]
	return langPattern.FindString(beforeExt) + filename[subtitleMatch[0]:]
}

// ExtractSeasonNumber extracts a season number from a string
func ExtractSeasonNumber(input string) (int, bool) {
	// Season 0 is valid (used for specials)
	if num, found := firstIntFromRegexps(input, seasonRe, seasonAltRe); found && num >= 0 {
		return num, true
	}

	// A bare number only counts when it is the whole name
	if matches := simpleNumberRe.FindStringSubmatch(input); len(matches) > 0 {
		for i := 1; i < len(matches); i++ {
			if matches[i] == "" {
				continue
			}
			num, err := strconv.Atoi(matches[i])
			if err != nil || (num >= 1900 && num <= 2100) {
				continue
			}
			if num <= 100 && strings.TrimSpace(input) == matches[i] {
				return num, true
			}
		}
	}

	return 0, false
}

// FindSeasonEpisodeIndex finds where season/episode information starts in a filename
func FindSeasonEpisodeIndex(filename string) int {
	earliestIndex := -1
	for _, pattern := range seasonEpisodePatterns {
		if matches := pattern.FindStringIndex(filename); matches != nil {
			if earliestIndex == -1 || matches[0] < earliestIndex {
				earliestIndex = matches[0]
			}
		}
	}
	return earliestIndex
}

func firstIntFromRegexps(input string, regexps ...*regexp.Regexp) (int, bool) {
	for _, re := range regexps {
		m := re.FindStringSubmatch(input)
		for i := 1; i < len(m); i++ {
			if m[i] == "" {
				continue
			}
			if n, err := strconv.Atoi(m[i]); err == nil {
				return n, true
			}
		}
	}
	return 0, false
}

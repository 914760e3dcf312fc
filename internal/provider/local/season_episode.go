package local

import (
	"strconv"
	"strings"
)

// seasonEpisodeFromString extracts season and episode numbers from a name-only
// string. Explicit S01E02 and 1x02 forms win over dotted 1.02 forms.
func seasonEpisodeFromString(input string) (int, int, bool) {
	if m := seasonEpisodeRe.FindStringSubmatch(input); len(m) >= 3 {
		season, err1 := strconv.Atoi(m[1])
		episode, err2 := strconv.Atoi(m[2])
		if err1 == nil && err2 == nil {
			return season, episode, true
		}
	}

	if m := dottedSeasonEpisodeRe.FindStringSubmatch(input); len(m) >= 3 {
		season, err1 := strconv.Atoi(m[1])
		episode, err2 := strconv.Atoi(m[2])
		if err1 == nil && err2 == nil && season > 0 && season <= 100 && episode > 0 && episode <= 300 {
			return season, episode, true
		}
	}

	return 0, 0, false
}

// SeasonEpisodeFromContext extracts season and episode numbers using the parse context.
// It falls back to episode-only matches and resolves season numbers from parent folders.
func SeasonEpisodeFromContext(ctx ParseContext) (int, int, bool) {
	workingName := ctx.WorkingName()

	if season, episode, ok := seasonEpisodeFromString(workingName); ok {
		return season, episode, true
	}
	if workingName != ctx.Name {
		if season, episode, ok := seasonEpisodeFromString(ctx.Name); ok {
			return season, episode, true
		}
	}

	episode, ok := firstIntFromRegexps(workingName, episodeNumberRe)
	if !ok && workingName != ctx.Name {
		episode, ok = firstIntFromRegexps(ctx.Name, episodeNumberRe)
	}
	if !ok {
		return 0, 0, false
	}

	if season, found := seasonFromParents(ctx); found {
		return season, episode, true
	}

	lower := strings.ToLower(workingName)
	if episode > 0 && (episodePrefixRe.MatchString(lower) || strings.Contains(lower, "episode") || strings.Contains(lower, "серия")) {
		return 0, episode, true
	}

	return 0, 0, false
}

// seasonFromParents inspects ancestor folder names for a season indicator
func seasonFromParents(ctx ParseContext) (int, bool) {
	for _, name := range ctx.ParentNames(3) {
		if season, found := ExtractSeasonNumber(name); found {
			return season, true
		}
	}
	return 0, false
}

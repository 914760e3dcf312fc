package local

import (
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// DetectID finds a kp123 or kp-123 tag anywhere in path
func DetectID(path string) (int64, bool) {
	m := kinopoiskIDRe.FindStringSubmatch(path)
	if len(m) < 2 {
		return 0, false
	}
	id, err := strconv.ParseInt(m[1], 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

// DetectMovie derives a search name and year from a movie file path. The
// year is the first four-digit group after the start of the name that falls
// in 1800..now+1; the name is what precedes it.
func DetectMovie(path string, now time.Time) (string, *int) {
	base := filepath.Base(path)
	if dot := strings.LastIndex(base, "."); dot > 0 {
		base = base[:dot]
	}
	return movieNameAndYear(base, now)
}

func movieNameAndYear(base string, now time.Time) (string, *int) {
	var year *int
	for _, m := range fourDigitsRe.FindAllStringSubmatchIndex(base, -1) {
		start, end := m[2], m[3]
		if start == 0 {
			continue
		}
		y, _ := strconv.Atoi(base[start:end])
		if y > 1800 && y <= now.Year()+1 {
			year = &y
			base = base[:start]
			break
		}
	}

	return cleanMovieName(base), year
}

// cleanMovieName keeps letters, digits and dashes, drops release tags and collapses spaces
func cleanMovieName(name string) string {
	name = movieNameRe.ReplaceAllString(name, " ")
	name = encodingTagsRe.ReplaceAllString(name, " ")
	name = multiSpaceRe.ReplaceAllString(name, " ")
	return strings.Trim(name, " -")
}

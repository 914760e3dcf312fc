package local

import (
	"os"

	"github.com/Digital-Shane/kinopoisk-meta/internal/provider"
)

// Detector encapsulates heuristics for identifying media kinds from local paths
type Detector struct {
	readDir func(string) ([]os.DirEntry, error)
}

// NewDetector creates a detector that inspects directory contents on disk
func NewDetector() *Detector {
	return &Detector{readDir: os.ReadDir}
}

// Detect resolves the most likely media kind for the provided context
func (d *Detector) Detect(ctx ParseContext) (Kind, error) {
	if ctx.Name == "" || ctx.Name == "." {
		return "", &provider.ProviderError{
			Provider: providerName,
			Code:     provider.CodeInvalidRequest,
			Message:  "path is required for detection",
		}
	}

	if ctx.IsFile {
		return d.detectFile(ctx)
	}
	return d.detectDirectory(ctx), nil
}

func (d *Detector) detectFile(ctx ParseContext) (Kind, error) {
	if !IsVideo(ctx.Name) && !IsSubtitle(ctx.Name) {
		return "", &provider.ProviderError{
			Provider: providerName,
			Code:     provider.CodeInvalidRequest,
			Message:  "unsupported file type: " + ctx.Name,
		}
	}

	if _, _, ok := SeasonEpisodeFromContext(ctx); ok {
		return KindEpisode, nil
	}
	return KindMovie, nil
}

func (d *Detector) detectDirectory(ctx ParseContext) Kind {
	if _, isSeason := ExtractSeasonNumber(ctx.Name); isSeason {
		return KindSeason
	}
	if d.isLikelySeriesDir(ctx.Path) {
		return KindSeries
	}
	// Default: treat as movie directory
	return KindMovie
}

// isLikelySeriesDir reports whether dir holds season folders or episode files
func (d *Detector) isLikelySeriesDir(dir string) bool {
	entries, err := d.readDir(dir)
	if err != nil {
		return false
	}
	for _, entry := range entries {
		if entry.IsDir() {
			if _, ok := ExtractSeasonNumber(entry.Name()); ok {
				return true
			}
			continue
		}
		child := NewParseContext(dir+string(os.PathSeparator)+entry.Name(), false)
		if !IsVideo(child.Name) {
			continue
		}
		if _, _, found := SeasonEpisodeFromContext(child); found {
			return true
		}
	}
	return false
}

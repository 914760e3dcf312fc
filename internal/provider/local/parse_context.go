package local

import (
	"os"
	"path/filepath"
	"strings"
)

// ParseContext captures precomputed details about a media path. Parsers use
// it to avoid re-running basic normalization work like extension removal and
// parent traversal.
type ParseContext struct {
	Path      string
	Name      string
	BaseName  string
	Extension string
	IsFile    bool
	IsDir     bool
	parents   []string
}

// NewParseContext builds a ParseContext for path. isDir says whether path is a directory.
func NewParseContext(path string, isDir bool) ParseContext {
	clean := filepath.Clean(path)
	ctx := ParseContext{
		Path:    path,
		Name:    filepath.Base(clean),
		IsDir:   isDir,
		IsFile:  !isDir,
		parents: parentNames(clean),
	}

	if ctx.IsFile {
		ctx.Extension = ExtractExtension(ctx.Name)
		ctx.BaseName = strings.TrimSuffix(ctx.Name, ctx.Extension)
	} else {
		ctx.BaseName = ctx.Name
	}

	return ctx
}

// Inspect builds a ParseContext, asking the filesystem whether path is a
// directory. Paths that do not exist are treated as files when they carry a
// media extension.
func Inspect(path string) ParseContext {
	if info, err := os.Stat(path); err == nil {
		return NewParseContext(path, info.IsDir())
	}
	name := filepath.Base(path)
	return NewParseContext(path, !IsVideo(name) && !IsSubtitle(name))
}

// WorkingName returns the file base name when there is an extension, otherwise the raw name
func (ctx ParseContext) WorkingName() string {
	if ctx.BaseName != "" {
		return ctx.BaseName
	}
	return ctx.Name
}

// ParentNames collects ancestor names, nearest first, up to the requested depth
func (ctx ParseContext) ParentNames(maxDepth int) []string {
	if maxDepth <= 0 || len(ctx.parents) == 0 {
		return nil
	}
	if maxDepth > len(ctx.parents) {
		maxDepth = len(ctx.parents)
	}
	return ctx.parents[:maxDepth]
}

// TitleAndYear derives cleaned title/year values using the working name
func (ctx ParseContext) TitleAndYear() (string, string) {
	return ExtractNameAndYear(ctx.WorkingName())
}

func parentNames(clean string) []string {
	var names []string
	dir := filepath.Dir(clean)
	for dir != "." && dir != string(filepath.Separator) && dir != filepath.VolumeName(dir)+string(filepath.Separator) {
		base := filepath.Base(dir)
		if base == "" || base == "." {
			break
		}
		names = append(names, base)
		next := filepath.Dir(dir)
		if next == dir {
			break
		}
		dir = next
	}
	return names
}

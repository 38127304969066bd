// Package ignore decides which paths under the input root are left out of
// the plan. Patterns use gitignore syntax, parsed by go-gitignore.
//
// A directory that matches is pruned by the planner: nothing beneath it is
// evaluated, so a later negation cannot re-include a file inside it.
package ignore

import (
	stderrors "errors"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/arthur-debert/homer/pkg/errors"
	"github.com/arthur-debert/homer/pkg/logging"
	gitignore "github.com/sabhiram/go-gitignore"
)

// DefaultFileName is the ignore file looked up when none is configured
const DefaultFileName = ".homerignore"

// Filter is the path predicate consumed by the planner
type Filter interface {
	// IsIgnored reports whether relPath (relative to the input root) is excluded
	IsIgnored(relPath string, isDir bool) bool
}

// PatternFilter matches relative paths against compiled gitignore patterns
type PatternFilter struct {
	matcher *gitignore.GitIgnore
	source  string
}

// FromLines compiles a filter from literal pattern lines
func FromLines(lines ...string) *PatternFilter {
	return &PatternFilter{
		matcher: gitignore.CompileIgnoreLines(lines...),
		source:  "<inline>",
	}
}

// None returns a filter that ignores nothing
func None() Filter {
	return nothingIgnored{}
}

type nothingIgnored struct{}

func (nothingIgnored) IsIgnored(string, bool) bool { return false }

// Load reads an ignore file. A missing file yields a filter that ignores
// nothing, unless required is set (the user named the file explicitly).
func Load(path string, required bool) (Filter, error) {
	logger := logging.GetLogger("ignore")

	if path == "" {
		return None(), nil
	}

	info, err := os.Stat(path)
	if err != nil {
		if stderrors.Is(err, fs.ErrNotExist) && !required {
			logger.Debug().Str("path", path).Msg("No ignore file, nothing will be ignored")
			return None(), nil
		}
		return nil, errors.Wrapf(err, errors.ErrIgnoreLoad, "cannot read ignore file %s", path).
			WithDetail("path", path)
	}
	if info.IsDir() {
		return nil, errors.Newf(errors.ErrIgnoreLoad, "ignore file %s is a directory", path).
			WithDetail("path", path)
	}

	matcher, err := gitignore.CompileIgnoreFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrIgnoreLoad, "cannot parse ignore file %s", path).
			WithDetail("path", path)
	}

	logger.Debug().Str("path", path).Msg("Loaded ignore patterns")
	return &PatternFilter{matcher: matcher, source: path}, nil
}

// IsIgnored implements Filter. Directories are also tested with a trailing
// slash so that directory-only patterns ("build/") match them.
func (f *PatternFilter) IsIgnored(relPath string, isDir bool) bool {
	if f == nil || f.matcher == nil {
		return false
	}

	rel := filepath.ToSlash(filepath.Clean(relPath))
	if rel == "." || rel == "" {
		return false
	}

	if f.matcher.MatchesPath(rel) {
		return true
	}
	return isDir && f.matcher.MatchesPath(rel+"/")
}

// Source returns where the patterns came from
func (f *PatternFilter) Source() string {
	return f.source
}

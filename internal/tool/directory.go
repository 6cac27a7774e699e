package tool

import (
	"context"
	"os"
	"sort"
	"strings"

	"codeagent/internal/config"
	"codeagent/internal/workspace"
)

// ListFilesRequest carries the arguments for list_files. Path is
// optional and defaults to the workspace root.
type ListFilesRequest struct {
	Path string `mapstructure:"path"`
}

// DirectoryTools implements the list_files capability.
type DirectoryTools struct {
	resolver *workspace.Resolver
	cfg      *config.Config
	ignore   *IgnoreMatcher
}

// NewDirectoryTools creates the directory listing handler. The ignore
// matcher may be nil, in which case no entries are filtered.
func NewDirectoryTools(resolver *workspace.Resolver, cfg *config.Config, ignore *IgnoreMatcher) *DirectoryTools {
	if resolver == nil {
		panic("resolver is required")
	}
	if cfg == nil {
		panic("cfg is required")
	}
	return &DirectoryTools{resolver: resolver, cfg: cfg, ignore: ignore}
}

// List returns the immediate children of a directory, one name per line.
// Directories carry a trailing separator so the model can tell them from
// files. The listing is not recursive.
func (t *DirectoryTools) List(ctx context.Context, req ListFilesRequest) (*Result, error) {
	path := req.Path
	if path == "" {
		path = "."
	}

	abs, err := t.resolver.Resolve(path)
	if err != nil {
		return nil, WrapError(KindPermissionDenied, err,
			"access denied: path %q is outside the allowed directory", path)
	}

	info, err := os.Stat(abs)
	if err != nil || !info.IsDir() {
		return nil, Errorf(KindNotFound, "path %q is not a directory or does not exist", path)
	}

	entries, err := os.ReadDir(abs)
	if err != nil {
		return nil, WrapError(KindUnexpectedFailure, err, "error listing directory %q: %v", path, err)
	}

	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		name := entry.Name()
		if t.cfg.Tools.ListRespectGitignore && t.ignore != nil {
			rel := name
			if path != "." {
				rel = strings.TrimSuffix(path, "/") + "/" + name
			}
			if t.ignore.Ignored(rel, entry.IsDir()) {
				continue
			}
		}
		if entry.IsDir() {
			name += string(os.PathSeparator)
		}
		names = append(names, name)
	}
	sort.Strings(names)

	return &Result{OK: true, Output: strings.Join(names, "\n")}, nil
}

package tool

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"codeagent/internal/config"
	"codeagent/internal/workspace"
)

// ReadFileRequest carries the arguments for read_file.
type ReadFileRequest struct {
	Path string `mapstructure:"path"`
}

func (r ReadFileRequest) Validate() error {
	if r.Path == "" {
		return fmt.Errorf("path is required")
	}
	return nil
}

// WriteFileRequest carries the arguments for write_file.
type WriteFileRequest struct {
	Path    string `mapstructure:"path"`
	Content string `mapstructure:"content"`
}

func (r WriteFileRequest) Validate() error {
	if r.Path == "" {
		return fmt.Errorf("path is required")
	}
	return nil
}

// FileTools implements the read_file and write_file capabilities. Every
// path argument is routed through the workspace resolver before any
// filesystem access; a denied path yields PermissionDenied and no
// mutation.
type FileTools struct {
	resolver *workspace.Resolver
	cfg      *config.Config
}

// NewFileTools creates the file capability handlers.
func NewFileTools(resolver *workspace.Resolver, cfg *config.Config) *FileTools {
	if resolver == nil {
		panic("resolver is required")
	}
	if cfg == nil {
		panic("cfg is required")
	}
	return &FileTools{resolver: resolver, cfg: cfg}
}

// Read returns the full contents of a regular file inside the workspace.
// Reads fail atomically: either the whole file is returned or an error.
func (t *FileTools) Read(ctx context.Context, req ReadFileRequest) (*Result, error) {
	abs, err := t.resolver.Resolve(req.Path)
	if err != nil {
		return nil, WrapError(KindPermissionDenied, err,
			"access denied: path %q is outside the allowed directory", req.Path)
	}

	info, err := os.Stat(abs)
	if err != nil {
		return nil, Errorf(KindNotFound, "path %q is not a file or does not exist", req.Path)
	}
	if !info.Mode().IsRegular() {
		return nil, Errorf(KindNotFound, "path %q is not a file or does not exist", req.Path)
	}
	if info.Size() > t.cfg.Tools.MaxFileSize {
		return nil, Errorf(KindUnexpectedFailure,
			"file %q is too large: %d bytes (limit %d)", req.Path, info.Size(), t.cfg.Tools.MaxFileSize)
	}

	data, err := os.ReadFile(abs)
	if err != nil {
		return nil, WrapError(KindUnexpectedFailure, err, "error reading file %q: %v", req.Path, err)
	}

	return &Result{OK: true, Output: string(data)}, nil
}

// Write creates or fully overwrites a file, creating parent directories
// as needed. There are no partial overwrites and no append semantics.
func (t *FileTools) Write(ctx context.Context, req WriteFileRequest) (*Result, error) {
	abs, err := t.resolver.Resolve(req.Path)
	if err != nil {
		return nil, WrapError(KindPermissionDenied, err,
			"access denied: path %q is outside the allowed directory", req.Path)
	}

	if int64(len(req.Content)) > t.cfg.Tools.MaxFileSize {
		return nil, Errorf(KindUnexpectedFailure,
			"content for %q is too large: %d bytes (limit %d)", req.Path, len(req.Content), t.cfg.Tools.MaxFileSize)
	}

	if err := os.MkdirAll(filepath.Dir(abs), 0o755); err != nil {
		return nil, WrapError(KindUnexpectedFailure, err, "error creating directories for %q: %v", req.Path, err)
	}

	if err := os.WriteFile(abs, []byte(req.Content), 0o644); err != nil {
		return nil, WrapError(KindUnexpectedFailure, err, "error writing to file %q: %v", req.Path, err)
	}

	return &Result{OK: true, Output: fmt.Sprintf("Successfully wrote to '%s'.", req.Path)}, nil
}

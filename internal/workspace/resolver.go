// Package workspace confines all filesystem access to a single allowed
// root, established once at process start.
package workspace

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Resolver proves that candidate paths are contained within the allowed
// root. It is a pure predicate over path strings plus symlink state; it
// never creates or mutates anything.
type Resolver struct {
	root string
}

// NewResolver creates a resolver for a canonical root produced by
// CanonicaliseRoot.
func NewResolver(root string) *Resolver {
	return &Resolver{root: root}
}

// CanonicaliseRoot canonicalises the allowed root by making it absolute
// and resolving symlinks. Returns an error if the path doesn't exist or
// isn't a directory.
func CanonicaliseRoot(root string) (string, error) {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return "", &RootError{Root: root, Cause: err}
	}

	resolved, err := filepath.EvalSymlinks(absRoot)
	if err != nil {
		return "", &RootError{Root: absRoot, Cause: err}
	}

	info, err := os.Stat(resolved)
	if err != nil {
		return "", &RootError{Root: resolved, Cause: err}
	}
	if !info.IsDir() {
		return "", &RootError{Root: resolved, Cause: fmt.Errorf("%w: %s", ErrNotADirectory, resolved)}
	}
	return resolved, nil
}

// Root returns the canonical allowed root.
func (r *Resolver) Root() string {
	return r.root
}

// Resolve canonicalizes a candidate path against the allowed root and
// returns its absolute form, or ErrOutsideRoot when the result escapes
// the root. The boundary is checked twice: lexically after cleaning, and
// again after symlink resolution, since a contained path string can still
// point outside the root through a link. Any canonicalization failure is
// treated as denial, never as silent permission.
func (r *Resolver) Resolve(path string) (string, error) {
	if r.root == "" {
		return "", ErrRootNotSet
	}

	var abs string
	if filepath.IsAbs(path) {
		abs = filepath.Clean(path)
	} else {
		abs = filepath.Clean(filepath.Join(r.root, path))
	}

	if !r.contains(abs) {
		return "", ErrOutsideRoot
	}

	resolved, err := resolveSymlinks(abs)
	if err != nil {
		return "", ErrOutsideRoot
	}
	if !r.contains(resolved) {
		return "", ErrOutsideRoot
	}

	return resolved, nil
}

// Rel resolves a path and returns it relative to the root, "" for the
// root itself. Used for user-facing messages.
func (r *Resolver) Rel(path string) (string, error) {
	abs, err := r.Resolve(path)
	if err != nil {
		return "", err
	}

	rel, err := filepath.Rel(r.root, abs)
	if err != nil {
		return "", ErrOutsideRoot
	}
	if rel == "." {
		return "", nil
	}
	return filepath.ToSlash(rel), nil
}

// contains reports whether abs is the root itself or a descendant of it.
func (r *Resolver) contains(abs string) bool {
	return abs == r.root || strings.HasPrefix(abs, r.root+string(filepath.Separator))
}

// resolveSymlinks canonicalizes abs even when the final components do not
// exist yet (write_file targets). It resolves the deepest existing
// ancestor and rejoins the remainder.
func resolveSymlinks(abs string) (string, error) {
	resolved, err := filepath.EvalSymlinks(abs)
	if err == nil {
		return resolved, nil
	}
	if !os.IsNotExist(err) {
		return "", err
	}

	dir := abs
	var tail []string
	for {
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", err
		}
		tail = append([]string{filepath.Base(dir)}, tail...)
		dir = parent

		resolved, rerr := filepath.EvalSymlinks(dir)
		if rerr == nil {
			return filepath.Join(append([]string{resolved}, tail...)...), nil
		}
		if !os.IsNotExist(rerr) {
			return "", rerr
		}
	}
}

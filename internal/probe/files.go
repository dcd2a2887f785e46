package probe

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// MaxFileReadBytes is the maximum number of bytes read from any file (10 MB).
// System configuration files are small; anything larger is not one.
const MaxFileReadBytes int64 = 10 * 1024 * 1024

// resolve maps an absolute probe path onto the context's filesystem root.
func (c *Context) resolve(path string) (string, error) {
	cleaned, err := validatePath(path)
	if err != nil {
		return "", err
	}
	if c.FSRoot == "" {
		return cleaned, nil
	}
	return filepath.Join(c.FSRoot, cleaned), nil
}

// FileExists reports whether a file or directory exists at the given path.
// Uses Lstat so dangling symlinks report as existing.
func (c *Context) FileExists(path string) (bool, error) {
	resolved, err := c.resolve(path)
	if err != nil {
		return false, err
	}

	_, err = os.Lstat(resolved)
	if err == nil {
		return true, nil
	}
	if os.IsNotExist(err) {
		return false, nil
	}
	return false, fmt.Errorf("cannot stat %q: %w", path, err)
}

// ReadFile reads a regular file with safety checks: path traversal
// prevention, regular-file-only after symlink resolution, and a bounded
// read. Uses open-then-fstat to avoid TOCTOU races.
func (c *Context) ReadFile(path string) ([]byte, error) {
	resolved, err := c.resolve(path)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(resolved)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("file not found: %s", path)
		}
		return nil, fmt.Errorf("cannot open %q: %w", path, err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("cannot stat %q: %w", path, err)
	}

	if !info.Mode().IsRegular() {
		return nil, fmt.Errorf("refusing to read non-regular file %q (mode: %s)", path, info.Mode().Type())
	}

	if info.Size() > MaxFileReadBytes {
		return nil, fmt.Errorf("file %q too large: %d bytes (max: %d)", path, info.Size(), MaxFileReadBytes)
	}

	limited := io.LimitReader(f, MaxFileReadBytes+1)
	data, err := io.ReadAll(limited)
	if err != nil {
		return nil, fmt.Errorf("error reading %q: %w", path, err)
	}

	if int64(len(data)) > MaxFileReadBytes {
		return nil, fmt.Errorf("file %q exceeded size limit during read", path)
	}

	return data, nil
}

// ReadDir lists a directory under the context's filesystem root.
func (c *Context) ReadDir(path string) ([]os.DirEntry, error) {
	resolved, err := c.resolve(path)
	if err != nil {
		return nil, err
	}
	return os.ReadDir(resolved)
}

// WalkRoot returns the real path of the context's filesystem root for
// checks that walk the tree themselves.
func (c *Context) WalkRoot() string {
	if c.FSRoot == "" {
		return "/"
	}
	return c.FSRoot
}

// validatePath checks that a probe path is safe to operate on.
// Rejects relative paths and traversal sequences.
func validatePath(path string) (string, error) {
	if path == "" {
		return "", fmt.Errorf("path must not be empty")
	}

	if !filepath.IsAbs(path) {
		return "", fmt.Errorf("path must be absolute, got %q", path)
	}

	cleaned := filepath.Clean(path)
	for _, part := range strings.Split(cleaned, string(filepath.Separator)) {
		if part == ".." {
			return "", fmt.Errorf("path traversal (..) not allowed in %q", path)
		}
	}

	return cleaned, nil
}

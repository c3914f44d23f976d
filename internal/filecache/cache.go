// Package filecache maps installer file descriptors onto local paths,
// streams them down from the network, and verifies their SHA-512 checksum.
package filecache

import (
	"context"
	"crypto/sha512"
	"encoding/hex"
	"fmt"
	"io"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"

	"go.etcd.io/bbolt"
	"go.uber.org/zap"

	"github.com/northlane-software/updatewing/internal/httperr"
	"github.com/northlane-software/updatewing/internal/release"
)

// Cache streams installer downloads into updatesPath and verifies them.
type Cache struct {
	updatesPath string
	httpClient  *http.Client
	logger      *zap.Logger
	ledger      *ledger
}

// New creates a Cache rooted at updatesPath. db is optional: when non-nil, a
// validation ledger bucket is created in it so validated status survives
// process restarts; when nil, ValidatedAgainst always reports false. Validate
// recomputes the checksum from the file on every call in both cases.
func New(updatesPath string, httpClient *http.Client, logger *zap.Logger, db *bbolt.DB) (*Cache, error) {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	c := &Cache{updatesPath: updatesPath, httpClient: httpClient, logger: logger}

	if db != nil {
		l, err := newLedger(db)
		if err != nil {
			return nil, fmt.Errorf("filecache: open validation ledger: %w", err)
		}
		c.ledger = l
	}

	return c, nil
}

// LocalPath returns the deterministic local path for file: updatesPath
// joined with the final path segment of file.URL.
func (c *Cache) LocalPath(file *release.FileDescriptor) string {
	return filepath.Join(c.updatesPath, basename(file.URL))
}

func basename(rawURL string) string {
	if idx := strings.IndexAny(rawURL, "?#"); idx != -1 {
		rawURL = rawURL[:idx]
	}
	name := path.Base(rawURL)
	if name == "" || name == "." || name == "/" {
		name = "download"
	}
	return name
}

// Exists reports whether file's local path is present on disk.
func (c *Cache) Exists(file *release.FileDescriptor) bool {
	_, err := os.Stat(c.LocalPath(file))
	return err == nil
}

// ValidatedAgainst reports whether the local copy of file has already been
// checksum-validated against this exact descriptor, according to the
// persisted ledger. It never touches the file system beyond the ledger
// lookup, so it is safe to call without re-hashing the download.
func (c *Cache) ValidatedAgainst(file *release.FileDescriptor) bool {
	if c.ledger == nil {
		return false
	}
	sum, ok := c.ledger.lookup(c.LocalPath(file))
	return ok && sum == release.NormalizeSHA512(file.SHA512)
}

// Download streams GET file.URL into the local cache, overwriting any
// existing file, and returns the local path. The body is written to a
// temporary file in the same directory and renamed into place only on
// success, so a failed or cancelled download never leaves a partial file at
// the canonical path. A successful download invalidates any prior
// validation record for this path.
func (c *Cache) Download(ctx context.Context, file *release.FileDescriptor) (string, error) {
	dest := c.LocalPath(file)
	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return "", fmt.Errorf("filecache: create updates directory: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, file.URL, nil)
	if err != nil {
		return "", fmt.Errorf("filecache: build request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("filecache: download %s: %w", file.URL, err)
	}
	defer resp.Body.Close()

	if !httperr.IsSuccess(resp.StatusCode) {
		return "", &httperr.StatusError{URL: file.URL, StatusCode: resp.StatusCode}
	}

	tmp, err := os.CreateTemp(filepath.Dir(dest), filepath.Base(dest)+".download-*")
	if err != nil {
		return "", fmt.Errorf("filecache: create temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName) // no-op once the rename below succeeds

	written, err := io.Copy(tmp, resp.Body)
	if err != nil {
		tmp.Close()
		return "", fmt.Errorf("filecache: write download body: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("filecache: close temp file: %w", err)
	}
	if written == 0 {
		return "", httperr.ErrEmptyBody
	}

	if err := os.Rename(tmpName, dest); err != nil {
		return "", fmt.Errorf("filecache: promote download: %w", err)
	}

	if c.ledger != nil {
		if err := c.ledger.clear(dest); err != nil {
			c.logger.Warn("failed to clear validation ledger entry", zap.String("path", dest), zap.Error(err))
		}
	}

	c.logger.Debug("downloaded installer", zap.String("url", file.URL), zap.String("path", dest))
	return dest, nil
}

// Validate computes the SHA-512 of file's local copy and compares it,
// case-insensitively, against file.SHA512. A missing local file returns
// false with no error. A successful match is recorded in the ledger (when
// one is configured) so later ValidatedAgainst calls can skip the hash.
func (c *Cache) Validate(file *release.FileDescriptor) (bool, error) {
	dest := c.LocalPath(file)
	f, err := os.Open(dest)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, fmt.Errorf("filecache: open %s: %w", dest, err)
	}
	defer f.Close()

	h := sha512.New()
	if _, err := io.Copy(h, f); err != nil {
		return false, fmt.Errorf("filecache: hash %s: %w", dest, err)
	}

	sum := hex.EncodeToString(h.Sum(nil))
	want := release.NormalizeSHA512(file.SHA512)
	match := sum == want

	if match && c.ledger != nil {
		if err := c.ledger.record(dest, want); err != nil {
			c.logger.Warn("failed to persist validation ledger entry", zap.String("path", dest), zap.Error(err))
		}
	}

	return match, nil
}

package filecache

import (
	"context"
	"crypto/sha512"
	"encoding/hex"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"go.etcd.io/bbolt"
	"go.uber.org/zap/zaptest"

	"github.com/northlane-software/updatewing/internal/release"
)

func checksumOf(t *testing.T, body []byte) string {
	t.Helper()
	sum := sha512.Sum512(body)
	return hex.EncodeToString(sum[:])
}

func openTestLedger(t *testing.T) *bbolt.DB {
	t.Helper()
	path := filepath.Join(t.TempDir(), "ledger.db")
	db, err := bbolt.Open(path, 0o600, nil)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestCache_DownloadAndValidate(t *testing.T) {
	body := []byte("installer-bytes")
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write(body)
	}))
	defer server.Close()

	file := &release.FileDescriptor{URL: server.URL + "/app-1.0.0.exe", SHA512: checksumOf(t, body)}

	cache, err := New(t.TempDir(), server.Client(), zaptest.NewLogger(t), nil)
	require.NoError(t, err)

	require.False(t, cache.Exists(file))

	path, err := cache.Download(context.Background(), file)
	require.NoError(t, err)
	require.True(t, cache.Exists(file))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, body, data)

	ok, err := cache.Validate(file)
	require.NoError(t, err)
	require.True(t, ok)
}

func TestCache_ValidateMissingFile(t *testing.T) {
	cache, err := New(t.TempDir(), http.DefaultClient, zaptest.NewLogger(t), nil)
	require.NoError(t, err)

	file := &release.FileDescriptor{URL: "https://example.com/missing.exe", SHA512: checksumOf(t, []byte("x"))}
	ok, err := cache.Validate(file)
	require.NoError(t, err)
	require.False(t, ok)
}

func TestCache_ValidateChecksumMismatch(t *testing.T) {
	body := []byte("installer-bytes")
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write(body)
	}))
	defer server.Close()

	file := &release.FileDescriptor{URL: server.URL + "/app.exe", SHA512: checksumOf(t, []byte("different"))}

	cache, err := New(t.TempDir(), server.Client(), zaptest.NewLogger(t), nil)
	require.NoError(t, err)

	_, err = cache.Download(context.Background(), file)
	require.NoError(t, err)

	ok, err := cache.Validate(file)
	require.NoError(t, err)
	require.False(t, ok)
}

func TestCache_DownloadFailureLeavesNoPartialFile(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	file := &release.FileDescriptor{URL: server.URL + "/app.exe", SHA512: checksumOf(t, []byte("x"))}
	cache, err := New(t.TempDir(), server.Client(), zaptest.NewLogger(t), nil)
	require.NoError(t, err)

	_, err = cache.Download(context.Background(), file)
	require.Error(t, err)
	require.False(t, cache.Exists(file))

	entries, err := os.ReadDir(cache.updatesPath)
	require.NoError(t, err)
	require.Empty(t, entries)
}

func TestCache_DownloadOverwritesExisting(t *testing.T) {
	calls := 0
	bodies := [][]byte{[]byte("v1"), []byte("v2-longer")}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write(bodies[calls])
		calls++
	}))
	defer server.Close()

	file := &release.FileDescriptor{URL: server.URL + "/app.exe", SHA512: checksumOf(t, bodies[1])}
	cache, err := New(t.TempDir(), server.Client(), zaptest.NewLogger(t), nil)
	require.NoError(t, err)

	_, err = cache.Download(context.Background(), file)
	require.NoError(t, err)
	_, err = cache.Download(context.Background(), file)
	require.NoError(t, err)

	data, err := os.ReadFile(cache.LocalPath(file))
	require.NoError(t, err)
	require.Equal(t, bodies[1], data)
}

func TestCache_LedgerPersistsValidationAcrossDownloads(t *testing.T) {
	body := []byte("installer-bytes")
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write(body)
	}))
	defer server.Close()

	file := &release.FileDescriptor{URL: server.URL + "/app.exe", SHA512: checksumOf(t, body)}
	db := openTestLedger(t)

	cache, err := New(t.TempDir(), server.Client(), zaptest.NewLogger(t), db)
	require.NoError(t, err)

	require.False(t, cache.ValidatedAgainst(file))

	_, err = cache.Download(context.Background(), file)
	require.NoError(t, err)

	ok, err := cache.Validate(file)
	require.NoError(t, err)
	require.True(t, ok)
	require.True(t, cache.ValidatedAgainst(file))

	// A fresh download clears the validation record.
	_, err = cache.Download(context.Background(), file)
	require.NoError(t, err)
	require.False(t, cache.ValidatedAgainst(file))
}

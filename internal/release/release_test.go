package release

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const validSHA512 = "961103aaf283cd90bfacb73e6cb97e2069bfa5bd9015b8f91ffd0bc1e8c791eb089e07a7df63a7da12dbb461b0777f5106819009f7a16bfaeff45f8ca941dab5"

func TestFileDescriptorValid(t *testing.T) {
	tests := []struct {
		name string
		file *FileDescriptor
		want bool
	}{
		{"nil", nil, false},
		{"valid", &FileDescriptor{URL: "https://example.com/a.exe", SHA512: validSHA512}, true},
		{"valid with whitespace checksum", &FileDescriptor{URL: "https://example.com/a.exe", SHA512: "  " + strings.ToUpper(validSHA512) + "  "}, true},
		{"empty url", &FileDescriptor{URL: "", SHA512: validSHA512}, false},
		{"non-http url", &FileDescriptor{URL: "ftp://example.com/a.exe", SHA512: validSHA512}, false},
		{"short checksum", &FileDescriptor{URL: "https://example.com/a.exe", SHA512: "abcd"}, false},
		{"missing checksum", &FileDescriptor{URL: "https://example.com/a.exe", SHA512: ""}, false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, tc.file.Valid())
		})
	}
}

func TestReleaseIsNew(t *testing.T) {
	current, err := ParseVersion("1.5.0")
	require.NoError(t, err)

	installable := Release{
		Version: mustVersion(t, "1.5.1"),
		File:    &FileDescriptor{URL: "https://example.com/a.exe", SHA512: validSHA512},
	}
	assert.True(t, installable.IsNew(current))

	notInstallable := Release{Version: mustVersion(t, "1.5.1")}
	assert.False(t, notInstallable.IsNew(current))

	notNewer := Release{
		Version: mustVersion(t, "1.4.9"),
		File:    &FileDescriptor{URL: "https://example.com/a.exe", SHA512: validSHA512},
	}
	assert.False(t, notNewer.IsNew(current))
}

func mustVersion(t *testing.T, s string) Version {
	t.Helper()
	v, err := ParseVersion(s)
	require.NoError(t, err)
	return v
}

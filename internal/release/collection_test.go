package release

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/northlane-software/updatewing/internal/feed"
)

func decodeFeed(t *testing.T, body string) *feed.Document {
	t.Helper()
	doc, err := feed.Decode(strings.NewReader(body))
	require.NoError(t, err)
	return doc
}

func TestNewCollection_CategorizesByName(t *testing.T) {
	doc := decodeFeed(t, `{
		"Categories": [
			{"Name": "Stable", "Releases": [{"Version": "1.5.0"}]},
			{"Name": "EARLYACCESS", "Releases": [{"Version": "1.6.0"}]},
			{"Name": "Beta", "Releases": null}
		]
	}`)

	col, err := NewCollection(doc, "EarlyAccess")
	require.NoError(t, err)
	require.Len(t, col.Releases, 2)

	assert.False(t, col.Releases[0].EarlyAccess)
	assert.True(t, col.Releases[1].EarlyAccess)
}

func TestNewCollection_NullReleasesSkipped(t *testing.T) {
	doc := decodeFeed(t, `{"Categories": [{"Name": "Stable", "Releases": null}]}`)

	col, err := NewCollection(doc, "EarlyAccess")
	require.NoError(t, err)
	assert.Empty(t, col.Releases)
}

func TestNewCollection_InvalidVersionErrors(t *testing.T) {
	doc := decodeFeed(t, `{"Categories": [{"Name": "Stable", "Releases": [{"Version": "not-a-version"}]}]}`)

	_, err := NewCollection(doc, "EarlyAccess")
	require.Error(t, err)
}

func TestNewCollection_PreservesFileAndChangeLog(t *testing.T) {
	doc := decodeFeed(t, `{
		"Categories": [
			{"Name": "Stable", "Releases": [
				{"Version": "1.5.0", "ChangeLog": ["fix", "", "  "], "File": {"Url": "https://example.com/a.exe", "Sha512CheckSum": "AB "}}
			]}
		]
	}`)

	col, err := NewCollection(doc, "EarlyAccess")
	require.NoError(t, err)
	require.Len(t, col.Releases, 1)

	rel := col.Releases[0]
	assert.Equal(t, []string{"fix"}, rel.ChangeLog)
	require.NotNil(t, rel.File)
	assert.Equal(t, "ab", rel.File.SHA512)
}

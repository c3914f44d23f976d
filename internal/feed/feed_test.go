package feed

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecode_ValidDocument(t *testing.T) {
	doc, err := Decode(strings.NewReader(`{
		"Categories": [
			{"Name": "Stable", "Releases": [
				{"Version": "1.5.0", "ChangeLog": ["fix a"], "File": {"Url": "https://example.com/a.exe", "Sha512CheckSum": "ab"}}
			]}
		]
	}`))
	require.NoError(t, err)
	require.Len(t, doc.Categories, 1)
	require.Len(t, doc.Categories[0].Releases, 1)
	assert.Equal(t, "1.5.0", doc.Categories[0].Releases[0].Version)
}

func TestDecode_EmptyBodyErrors(t *testing.T) {
	_, err := Decode(strings.NewReader(""))
	assert.Error(t, err)
}

func TestDecode_MalformedJSONErrors(t *testing.T) {
	_, err := Decode(strings.NewReader("{not json"))
	assert.Error(t, err)
}

func TestDecode_MissingCategoriesFieldErrors(t *testing.T) {
	_, err := Decode(strings.NewReader(`{}`))
	assert.Error(t, err)
}

func TestDecode_NullCategoriesFieldErrors(t *testing.T) {
	_, err := Decode(strings.NewReader(`{"Categories": null}`))
	assert.Error(t, err)
}

func TestDecode_NullReleasesListBecomesEmptySlice(t *testing.T) {
	doc, err := Decode(strings.NewReader(`{"Categories": [{"Name": "Stable", "Releases": null}]}`))
	require.NoError(t, err)
	assert.Empty(t, doc.Categories[0].Releases)
}

func TestDecode_NilChangeLogNormalizedToEmptySlice(t *testing.T) {
	doc, err := Decode(strings.NewReader(`{"Categories": [{"Name": "Stable", "Releases": [{"Version": "1.0.0"}]}]}`))
	require.NoError(t, err)
	assert.Equal(t, []string{}, doc.Categories[0].Releases[0].ChangeLog)
}

package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOptionalStates(t *testing.T) {
	var absent Optional[[]Artist]
	empty := Some([]Artist{})
	present := Some(NewArtists("Brooks"))

	assert.False(t, absent.IsSet())
	assert.True(t, empty.IsSet())
	v, ok := empty.Get()
	assert.True(t, ok)
	assert.Empty(t, v)
	assert.Len(t, present.OrElse(nil), 1)

	assert.Equal(t, "b", None[string]().Or(Some("b")).OrElse(""))
	assert.Equal(t, "a", Some("a").Or(Some("b")).OrElse(""))
}

func TestOptionalJSON(t *testing.T) {
	track := Track{Name: Some("Loop"), Duration: Some(0)}
	data, err := json.Marshal(track)
	require.NoError(t, err)
	assert.JSONEq(t, `{"name":"Loop","duration_ms":0}`, string(data))

	var decoded Track
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, Some(0), decoded.Duration)
	assert.False(t, decoded.ISRC.IsSet())
}

func TestAppendArtistsDeduplicatesByName(t *testing.T) {
	list := NewArtists("Martin Garrix", " martin garrix ", "Dallas K", "")
	assert.Equal(t, []string{"Martin Garrix", "Dallas K"}, ArtistNames(list))
}

func TestVersionsAddMergesSameLabel(t *testing.T) {
	var v Versions
	v = v.Add("Remix", NewArtists("Brooks")...)
	v = v.Add("remix", NewArtists("brooks", "Tiësto")...)
	v = v.Add("Edit")

	require.Len(t, v, 2)
	assert.Equal(t, []string{"Remix", "Edit"}, v.Labels())
	assert.Equal(t, []string{"Brooks", "Tiësto"}, ArtistNames(v[0].Artists))
}

func TestClassifyAlbum(t *testing.T) {
	tests := []struct {
		song, album string
		want        AlbumType
	}{
		{"Loop", "", AlbumTypeSingle},
		{"Loop", "Loop", AlbumTypeSingle},
		{"Loop", "Loop (Remixes) - EP", AlbumTypeEP},
		{"Loop", "Sentio", AlbumTypeAlbum},
		{"Loop", "Sentio - Single", AlbumTypeSingle},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ClassifyAlbum(tt.song, tt.album), tt.album)
	}
}

func TestMerge(t *testing.T) {
	filename := Track{
		Name:             Some("Loop"),
		Artists:          Some(NewArtists("Martin Garrix")),
		Duration:         Some(1000),
		OriginalFilename: "Martin Garrix - Loop",
	}
	tags := Track{
		Name:     Some("Loop (Brooks Remix)"),
		Artists:  Some(NewArtists("martin garrix", "Dallas K")),
		Versions: Some(Versions{}.Add("Remix", NewArtists("Brooks")...)),
		ISRC:     Some("USUG12204822"),
	}

	merged := tags.Merge(filename)
	assert.Equal(t, "Loop (Brooks Remix)", merged.Name.OrElse(""))
	assert.Equal(t, []string{"martin garrix", "Dallas K"}, ArtistNames(merged.Artists.OrElse(nil)))
	assert.Equal(t, 1000, merged.Duration.OrElse(0))
	assert.Equal(t, "USUG12204822", merged.ISRC.OrElse(""))
	assert.Equal(t, "Martin Garrix - Loop", merged.OriginalFilename)
	assert.False(t, merged.Featuring.IsSet())
}

func TestDisplayNameAndString(t *testing.T) {
	track := Track{
		Name:      Some("Loop"),
		Artists:   Some(NewArtists("Martin Garrix", "Dallas K")),
		Featuring: Some(NewArtists("Sasha Alex Sloan")),
		Versions:  Some(Versions{}.Add("Remix", NewArtists("Brooks")...)),
		Extended:  Some("Extended"),
	}

	assert.Equal(t, "Loop (Brooks Extended Remix)", track.DisplayName())
	assert.Equal(t, "Martin Garrix, Dallas K, Sasha Alex Sloan & Brooks - Loop (Brooks Extended Remix)", track.String())

	plain := Track{Name: Some("Loop"), Extended: Some("Original")}
	assert.Equal(t, "Loop (Original Mix)", plain.DisplayName())
}

func TestSearchStrings(t *testing.T) {
	track := Track{
		Name:             Some("Loop"),
		Artists:          Some(NewArtists("Martin Garrix", "Dallas K")),
		OriginalFilename: "Martin Garrix & Dallas K - Loop (Brooks Remix)",
	}
	assert.Equal(t, []string{
		"Martin Garrix & Dallas K - Loop (Brooks Remix)",
		"Martin Garrix & Dallas K Loop",
		"Martin Garrix Loop",
		"Loop",
	}, track.SearchStrings())

	single := Track{Name: Some("Loop"), Artists: Some(NewArtists("Brooks")), OriginalFilename: "Loop"}
	assert.Equal(t, []string{"Loop", "Brooks Loop"}, single.SearchStrings())

	assert.Empty(t, Track{}.SearchStrings())
}

func TestISRCValue(t *testing.T) {
	assert.Equal(t, Some("USUG12204822"), ISRCValue(" us-ug1-22-04822 "))
	assert.False(t, ISRCValue("  ").IsSet())
}

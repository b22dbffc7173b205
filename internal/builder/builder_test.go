package builder

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"music-tagger/internal/lexicon"
	"music-tagger/internal/models"
)

func TestBuildTagsWin(t *testing.T) {
	track := Build(Input{
		Filename: "martin garrix - loop (brooks remix)",
		Tags: Tags{
			Title:    "Loop (Brooks Remix) [Extended]",
			Artist:   "Martin Garrix & Dallas K feat. Sasha Alex Sloan",
			Album:    "Loop (Remixes) - EP",
			Duration: 200323,
			ISRC:     "usug12204822",
			Year:     "2022-03-04",
			Key:      "8A",
		},
	})

	assert.Equal(t, "Loop", track.Name.OrElse(""))
	assert.Equal(t, []string{"Martin Garrix", "Dallas K"}, models.ArtistNames(track.Artists.OrElse(nil)))
	assert.Equal(t, []string{"Sasha Alex Sloan"}, models.ArtistNames(track.Featuring.OrElse(nil)))
	assert.Equal(t, "Extended", track.Extended.OrElse(""))
	assert.Equal(t, "USUG12204822", track.ISRC.OrElse(""))
	assert.Equal(t, 200323, track.Duration.OrElse(0))
	assert.Equal(t, "2022", track.Year.OrElse(""))
	assert.Equal(t, lexicon.Key{Pitch: 9}, track.Key.OrElse(lexicon.Key{}))
	assert.Equal(t, "martin garrix - loop (brooks remix)", track.OriginalFilename)

	album, ok := track.Album.Get()
	require.True(t, ok)
	assert.Equal(t, models.AlbumTypeEP, album.Type)

	v, ok := track.Versions.OrElse(nil).Get("Remix")
	require.True(t, ok)
	assert.Equal(t, []string{"Brooks"}, models.ArtistNames(v.Artists))
}

func TestBuildFilenameOnly(t *testing.T) {
	track := Build(Input{Filename: "Calvin Harris - Feel So Close (with Dua Lipa)"})

	assert.Equal(t, "Feel So Close", track.Name.OrElse(""))
	assert.Equal(t, []string{"Calvin Harris"}, models.ArtistNames(track.Artists.OrElse(nil)))
	assert.Equal(t, []string{"Dua Lipa"}, models.ArtistNames(track.With.OrElse(nil)))
	assert.False(t, track.ISRC.IsSet())
	assert.False(t, track.Album.IsSet())
}

func TestBuildUnionsArtists(t *testing.T) {
	track := Build(Input{
		Filename: "Dallas K - Loop",
		Tags:     Tags{Artist: "Martin Garrix"},
	})
	assert.Equal(t, []string{"Martin Garrix", "Dallas K"}, models.ArtistNames(track.Artists.OrElse(nil)))
}

func TestBuildIgnoresUnparseableTags(t *testing.T) {
	track := Build(Input{
		Filename: "Artist - Title",
		Tags:     Tags{Year: "someday", Key: "??", ISRC: " "},
	})
	assert.False(t, track.Year.IsSet())
	assert.False(t, track.Key.IsSet())
	assert.False(t, track.ISRC.IsSet())
}

func TestBuildDashedTagTitle(t *testing.T) {
	for _, filename := range []string{"Cold Heart (PNAU Remix)", ""} {
		t.Run(filename, func(t *testing.T) {
			track := Build(Input{
				Filename: filename,
				Tags:     Tags{Title: "Cold Heart - PNAU Remix", Artist: "Elton John, Dua Lipa"},
			})

			assert.Equal(t, "Cold Heart", track.Name.OrElse(""))
			assert.Equal(t, []string{"Elton John", "Dua Lipa"}, models.ArtistNames(track.Artists.OrElse(nil)))
			v, ok := track.Versions.OrElse(nil).Get("Remix")
			require.True(t, ok)
			assert.Equal(t, []string{"PNAU"}, models.ArtistNames(v.Artists))
		})
	}

	track := Build(Input{Tags: Tags{Title: "Loop - Radio Edit", Artist: "Martin Garrix"}})
	assert.Equal(t, "Loop", track.Name.OrElse(""))
	assert.Equal(t, []string{"Martin Garrix"}, models.ArtistNames(track.Artists.OrElse(nil)))
	assert.True(t, track.Versions.IsSet())
}

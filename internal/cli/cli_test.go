package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"music-tagger/internal/database"
	"music-tagger/internal/identify"
	"music-tagger/internal/models"
)

func TestParseCommand(t *testing.T) {
	cmd := cmdParse()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"Martin Garrix & Dallas K feat. Sasha Alex Sloan - Loop (Brooks Remix) [Extended]"})
	require.NoError(t, cmd.Execute())

	got := out.String()
	assert.Contains(t, got, "Martin Garrix & Dallas K")
	assert.Contains(t, got, "Sasha Alex Sloan")
	assert.Contains(t, got, "Remix by Brooks")
	assert.Contains(t, got, "Loop")
}

func TestParseCommandTitleMode(t *testing.T) {
	cmd := cmdParse()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"--title", "The Business (Extended Mix)"})
	require.NoError(t, cmd.Execute())
	assert.Contains(t, out.String(), "Extended")
	assert.Contains(t, out.String(), "The Business")
}

func TestCompareCommand(t *testing.T) {
	cmd := cmdCompare()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"Martin Garrix & Dallas K - Loop", "Dallas K & Martin Garrix - LOOP"})
	require.NoError(t, cmd.Execute())

	got := out.String()
	assert.Contains(t, got, "title")
	assert.Contains(t, got, "n/a")
	assert.Contains(t, got, "1.00")

	assert.Error(t, cmdCompare().Args(cmdCompare(), []string{"only one"}))
}

func TestTrackRows(t *testing.T) {
	track := models.Track{
		Name:     models.Some("Loop"),
		Artists:  models.Some(models.NewArtists("Martin Garrix", "Dallas K")),
		Duration: models.Some(185_000),
		Album:    models.Some(models.Album{Name: "Loop", Type: models.AlbumTypeSingle}),
	}
	rows := trackRows(track)

	values := make(map[string]string)
	for _, r := range rows {
		values[r[0]] = r[1]
	}
	assert.Equal(t, "Loop", values["Name"])
	assert.Equal(t, "Martin Garrix & Dallas K", values["Artists"])
	assert.Equal(t, "3:05", values["Duration"])
	assert.Contains(t, values["Album"], "Loop (")
	assert.Equal(t, "Martin Garrix & Dallas K - Loop", values["Display"])
	assert.NotContains(t, values, "ISRC")
}

func TestCollectLocals(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "Martin Garrix - Animals.mp3"), nil, 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "cover.jpg"), nil, 0o644))
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "sub"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "sub", "Dallas K - Loop.flac"), nil, 0o644))

	locals, err := collectLocals([]string{dir, "Tiësto - Red Lights"}, zap.NewNop())
	require.NoError(t, err)
	require.Len(t, locals, 3)

	names := []string{locals[0].OriginalFilename, locals[1].OriginalFilename, locals[2].OriginalFilename}
	assert.ElementsMatch(t, []string{"Martin Garrix - Animals", "Dallas K - Loop", "Tiësto - Red Lights"}, names)
	assert.Equal(t, "Red Lights", locals[2].Name.OrElse(""))
}

func TestResultTable(t *testing.T) {
	items := []identify.Item{
		{Index: 0, Record: database.Identification{
			OriginalFilename: "Martin Garrix & Dallas K - Loop",
			Name:             "Loop",
			Artists:          "Martin Garrix & Dallas K",
			Platform:         "spotify",
			Outcome:          "FOUND",
			Ratio:            0.97,
		}, Cached: true},
		{Index: 1, Record: database.Identification{OriginalFilename: "Nobody - Nothing", Outcome: "NOT_FOUND"}},
		{Index: 2},
	}
	got := resultTable(items)
	assert.Contains(t, got, "0.97")
	assert.Contains(t, got, "spotify (cached)")
	assert.Contains(t, got, "NOT_FOUND")
	assert.Contains(t, got, "Nobody - Nothing")
}

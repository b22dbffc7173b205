package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"music-tagger/internal/models"
	"music-tagger/internal/parser"
)

func init() {
	cmdRoot.AddCommand(cmdYouTube(), cmdSpotify(), cmdCSV())
}

// listingCommand prints the tracks read by fetch, then identifies them
// unless --list is given.
func listingCommand(use, short string, fetch func(ctx context.Context, e *env, arg string) ([]models.Track, string, error)) *cobra.Command {
	cmd := &cobra.Command{
		Use:          use,
		Short:        short,
		SilenceUsage: true,
		Args:         cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := loadEnv()
			if err != nil {
				return err
			}
			defer e.logger.Sync() //nolint:errcheck

			tracks, title, err := fetch(cmd.Context(), e, args[0])
			if err != nil {
				return err
			}
			e.logger.Info("listing read", zap.String("title", title), zap.Int("tracks", len(tracks)))

			if list, _ := cmd.Flags().GetBool("list"); list {
				rows := make([][]string, 0, len(tracks))
				for i, t := range tracks {
					rows = append(rows, []string{fmt.Sprint(i + 1), t.ArtistString(), t.DisplayName(), t.ISRC.OrElse("")})
				}
				fmt.Fprintln(cmd.OutOrStdout(), title)
				fmt.Fprintln(cmd.OutOrStdout(), renderTable([]string{"#", "Artists", "Title", "ISRC"}, rows, []columnAlignment{alignRight}))
				return nil
			}
			return e.identify(cmd, tracks)
		},
	}
	cmd.Flags().BoolP("list", "l", false, "Only list the tracks")
	addIdentifyFlags(cmd)
	return cmd
}

func cmdYouTube() *cobra.Command {
	return listingCommand("youtube <url>", "Identify the tracks of a YouTube video or playlist",
		func(ctx context.Context, _ *env, url string) ([]models.Track, string, error) {
			return parser.NewYouTube().Tracks(ctx, url)
		})
}

func cmdSpotify() *cobra.Command {
	return listingCommand("spotify <url>", "Identify the tracks of a Spotify track, album or playlist",
		func(ctx context.Context, e *env, url string) ([]models.Track, string, error) {
			tracks, title, err := e.spotify(ctx).Tracks(ctx, url)
			if err != nil {
				return nil, "", err
			}
			// Catalog tracks carry no filename; identify them by their full credit.
			for i := range tracks {
				tracks[i].OriginalFilename = tracks[i].String()
			}
			return tracks, title, nil
		})
}

func cmdCSV() *cobra.Command {
	return listingCommand("csv <file>", "Identify the rows of a CSV export",
		func(_ context.Context, _ *env, path string) ([]models.Track, string, error) {
			f, err := os.Open(path)
			if err != nil {
				return nil, "", err
			}
			defer f.Close()
			tracks, err := parser.ReadCSV(f)
			return tracks, path, err
		})
}

package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"music-tagger/internal/extract"
	"music-tagger/internal/models"
)

func init() {
	cmdRoot.AddCommand(cmdParse())
}

func cmdParse() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "parse <string>...",
		Short: "Decompose filenames or titles into track fields",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			title, _ := cmd.Flags().GetBool("title")
			parse := extract.Parse
			if title {
				parse = extract.ParseTitle
			}

			for i, arg := range args {
				if i > 0 {
					fmt.Fprintln(cmd.OutOrStdout())
				}
				fmt.Fprintln(cmd.OutOrStdout(), arg)
				fmt.Fprintln(cmd.OutOrStdout(), parseTable(parse(arg)))
			}
			return nil
		},
	}
	cmd.Flags().BoolP("title", "t", false, "Treat input as a catalog title whose artists are credited separately")
	return cmd
}

func parseTable(t models.Track) string {
	return renderTable([]string{"Field", "Value"}, trackRows(t), nil)
}

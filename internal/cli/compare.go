package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"music-tagger/internal/extract"
	"music-tagger/internal/matcher"
)

func init() {
	cmdRoot.AddCommand(cmdCompare())
}

func cmdCompare() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "compare <a> <b>",
		Short: "Score how likely two strings name the same recording",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			tolerance, _ := cmd.Flags().GetInt("tolerance")
			scorer := matcher.DefaultScorer()
			if tolerance > 0 {
				scorer.DurationTolerance = tolerance
			}

			a, b := extract.Parse(args[0]), extract.Parse(args[1])
			breakdown := scorer.Breakdown(a, b)

			rows := make([][]string, 0, len(breakdown)+1)
			for _, rate := range breakdown {
				rows = append(rows, []string{string(rate.Field), formatRate(rate.Value)})
			}
			rows = append(rows, []string{"ratio", fmt.Sprintf("%.2f", breakdown.Ratio())})

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s\n%s\n", a, b)
			fmt.Fprintln(out, renderTable([]string{"Field", "Rate"}, rows, []columnAlignment{alignLeft, alignRight}))
			return nil
		},
	}
	cmd.Flags().Int("tolerance", 0, "Duration tolerance in milliseconds")
	return cmd
}

package command

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/askwhyharsh/silverlink/internal/activity"
	"github.com/askwhyharsh/silverlink/pkg/logger"
)

var sortFlag string

var activitiesCmd = &cobra.Command{
	Use:   "activities CATEGORY",
	Short: "List a category's activities in ranked order",
	Long: `List a category's activities from the catalog seed, ranked by
recent (newest first), popular (most members) or fill_ratio
(closest to capacity). Ties keep catalog order.`,
	Example: "  silverlink activities concerts --sort popular",
	Args:    cobra.ExactArgs(1),
	RunE:    listActivities,
}

func init() {
	activitiesCmd.Flags().StringVarP(&sortFlag, "sort", "s", string(activity.DefaultSortMode), "recent, popular or fill_ratio")
	rootCmd.AddCommand(activitiesCmd)
}

func listActivities(cmd *cobra.Command, args []string) error {
	mode, err := activity.ParseSortMode(sortFlag)
	if err != nil {
		return err
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	provider, err := loadCatalog(cfg)
	if err != nil {
		return err
	}

	ranking := activity.NewService(provider, nil, logger.NewNop())
	records, err := ranking.Rank(cmd.Context(), args[0], mode)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintf(w, "# %s\n", mode.Label())
	fmt.Fprintln(w, "ID\tTITLE\tDATE\tMEMBERS\tFILL")
	for _, r := range records {
		fmt.Fprintf(w, "%d\t%s\t%s\t%d/%d\t%.0f%%\n",
			r.ID, r.Title, r.Date, r.CurrentMembers, r.MaxMembers, activity.FillRatio(r)*100)
	}
	return w.Flush()
}

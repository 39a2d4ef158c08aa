package cli

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/mrcaqui/fit-proof-sub000/internal/daemon"
)

func init() {
	rootCmd.AddCommand(streakCmd)
	rootCmd.AddCommand(weeksCmd)
	rootCmd.AddCommand(summaryCmd)
}

var streakCmd = &cobra.Command{
	Use:   "streak <user>",
	Short: "Show a user's current streak",
	Args:  cobra.ExactArgs(1),
	RunE:  runStreak,
}

func runStreak(cmd *cobra.Command, args []string) error {
	d, err := daemon.New()
	if err != nil {
		return err
	}
	defer d.Close()

	sum, err := d.Profiles.Summary(args[0])
	if err != nil {
		return err
	}

	fmt.Printf("Current streak: %d days\n", sum.Streak.CurrentStreak)
	if len(sum.Streak.ShieldDays) > 0 {
		fmt.Printf("Protected days: %v\n", sum.Streak.ShieldDays)
	}
	if len(sum.Streak.RevivalDays) > 0 {
		fmt.Printf("Revival days:   %v\n", sum.Streak.RevivalDays)
	}
	return nil
}

var weeksCmd = &cobra.Command{
	Use:   "weeks <user>",
	Short: "Show a user's perfect-week count and token stock",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := daemon.New()
		if err != nil {
			return err
		}
		defer d.Close()

		sum, err := d.Profiles.Summary(args[0])
		if err != nil {
			return err
		}
		fmt.Printf("Perfect weeks: %d\n", sum.Profile.PerfectWeeks)
		fmt.Printf("Shield stock:  %d (used %d)\n",
			sum.Profile.ShieldStock, sum.Profile.ShieldsUsed)
		return nil
	},
}

var summaryCmd = &cobra.Command{
	Use:   "summary <user>",
	Short: "Show a user's full derived profile",
	Args:  cobra.ExactArgs(1),
	RunE:  runSummary,
}

func runSummary(cmd *cobra.Command, args []string) error {
	d, err := daemon.New()
	if err != nil {
		return err
	}
	defer d.Close()

	sum, err := d.Profiles.Summary(args[0])
	if err != nil {
		return err
	}
	p := sum.Profile

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "User\t%s\n", p.UserID)
	fmt.Fprintf(w, "Current streak\t%d\n", p.CurrentStreak)
	fmt.Fprintf(w, "Perfect weeks\t%d\n", p.PerfectWeeks)
	fmt.Fprintf(w, "Shield stock\t%d\n", p.ShieldStock)
	fmt.Fprintf(w, "Shields used\t%d\n", p.ShieldsUsed)
	fmt.Fprintf(w, "Revivals\t%d\n", p.RevivalCount)
	fmt.Fprintf(w, "Total days\t%d\n", p.TotalDays)
	fmt.Fprintf(w, "Total reps\t%d\n", p.TotalReps)
	return w.Flush()
}

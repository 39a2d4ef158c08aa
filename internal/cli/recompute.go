package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mrcaqui/fit-proof-sub000/internal/daemon"
)

func init() {
	rootCmd.AddCommand(recomputeCmd)
}

var recomputeCmd = &cobra.Command{
	Use:   "recompute [user]",
	Short: "Re-derive profile aggregates (all users when no argument)",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := daemon.New()
		if err != nil {
			return err
		}
		defer d.Close()

		if len(args) == 1 {
			p, err := d.Profiles.Recompute(args[0])
			if err != nil {
				return err
			}
			fmt.Printf("Recomputed %s: streak %d, perfect weeks %d, shields %d\n",
				p.UserID, p.CurrentStreak, p.PerfectWeeks, p.ShieldStock)
			return nil
		}

		if err := d.Profiles.RecomputeAll("cli"); err != nil {
			return err
		}
		fmt.Println("Recomputed all profiles")
		return nil
	},
}

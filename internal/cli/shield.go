package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/mrcaqui/fit-proof-sub000/internal/daemon"
)

func init() {
	shieldCmd.AddCommand(shieldApplyCmd)
	shieldCmd.AddCommand(shieldRemoveCmd)
	rootCmd.AddCommand(shieldCmd)
}

var shieldCmd = &cobra.Command{
	Use:   "shield",
	Short: "Spend or refund protection tokens",
}

var shieldApplyCmd = &cobra.Command{
	Use:   "apply <user> <date>",
	Short: "Protect a missed day with one token",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		target, err := time.Parse("2006-01-02", args[1])
		if err != nil {
			return fmt.Errorf("date must be YYYY-MM-DD: %w", err)
		}

		d, err := daemon.New()
		if err != nil {
			return err
		}
		defer d.Close()

		if err := d.Profiles.ApplyShield(args[0], target); err != nil {
			return err
		}
		fmt.Printf("Shield applied to %s\n", args[1])
		return nil
	},
}

var shieldRemoveCmd = &cobra.Command{
	Use:   "remove <user> <date>",
	Short: "Remove a shield and refund the token",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		target, err := time.Parse("2006-01-02", args[1])
		if err != nil {
			return fmt.Errorf("date must be YYYY-MM-DD: %w", err)
		}

		d, err := daemon.New()
		if err != nil {
			return err
		}
		defer d.Close()

		if err := d.Profiles.RemoveShield(args[0], target); err != nil {
			return err
		}
		fmt.Printf("Shield removed from %s, token refunded\n", args[1])
		return nil
	},
}

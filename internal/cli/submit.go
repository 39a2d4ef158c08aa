package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/mrcaqui/fit-proof-sub000/internal/daemon"
	"github.com/mrcaqui/fit-proof-sub000/internal/domain"
)

func init() {
	submitCmd.Flags().StringVar(&submitKind, "kind", "video", "Submission kind (video, comment)")
	submitCmd.Flags().IntVar(&submitReps, "reps", 0, "Rep count for video submissions")
	rootCmd.AddCommand(submitCmd)
	rootCmd.AddCommand(unsubmitCmd)
}

var (
	submitKind string
	submitReps int
)

var submitCmd = &cobra.Command{
	Use:   "submit <user> <date>",
	Short: "Record an approved submission for a date (YYYY-MM-DD)",
	Args:  cobra.ExactArgs(2),
	RunE:  runSubmit,
}

func runSubmit(cmd *cobra.Command, args []string) error {
	target, err := time.Parse("2006-01-02", args[1])
	if err != nil {
		return fmt.Errorf("date must be YYYY-MM-DD: %w", err)
	}

	d, err := daemon.New()
	if err != nil {
		return err
	}
	defer d.Close()

	sub, err := d.Profiles.ApproveSubmission(args[0], target, domain.Kind(submitKind), submitReps)
	if err != nil {
		return err
	}

	if sub.IsRevival {
		fmt.Printf("Approved %s for %s (revival)\n", sub.Kind, args[1])
	} else {
		fmt.Printf("Approved %s for %s\n", sub.Kind, args[1])
	}
	return nil
}

var unsubmitCmd = &cobra.Command{
	Use:   "unsubmit <user> <date>",
	Short: "Remove a submission record for a date",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := daemon.New()
		if err != nil {
			return err
		}
		defer d.Close()

		if err := d.Profiles.RemoveSubmission(args[0], args[1], domain.Kind(submitKind)); err != nil {
			return err
		}
		fmt.Printf("Removed %s submission for %s\n", submitKind, args[1])
		return nil
	},
}

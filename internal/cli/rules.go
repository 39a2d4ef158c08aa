package cli

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/mrcaqui/fit-proof-sub000/internal/daemon"
)

func init() {
	rulesCmd.AddCommand(rulesListCmd)
	rootCmd.AddCommand(rulesCmd)
}

var rulesCmd = &cobra.Command{
	Use:   "rules",
	Short: "Inspect rest-day rules, quota groups, and engine settings",
}

var rulesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List the stored configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := daemon.New()
		if err != nil {
			return err
		}
		defer d.Close()

		rules, err := d.Profiles.Rules()
		if err != nil {
			return err
		}
		groups, err := d.Profiles.Groups()
		if err != nil {
			return err
		}
		settings, err := d.Profiles.Settings()
		if err != nil {
			return err
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "RULE\tSCOPE\tREST\tFROM")
		for _, r := range rules {
			fmt.Fprintf(w, "%s\t%s\t%t\t%s\n",
				r.ID, r.Scope, r.RestDay, r.EffectiveFrom.Format("2006-01-02"))
		}
		w.Flush()

		fmt.Fprintln(w, "\nGROUP\tDAYS\tREQUIRED\tFROM")
		for _, g := range groups {
			fmt.Fprintf(w, "%s\t%v\t%d\t%s\n",
				g.ID, g.DaysOfWeek, g.RequiredCount, g.EffectiveFrom.Format("2006-01-02"))
		}
		w.Flush()

		fmt.Printf("\nShield condition: %s (every %d perfect weeks)\n",
			settings.ShieldCondition, settings.RequiredWeeks)
		return nil
	},
}

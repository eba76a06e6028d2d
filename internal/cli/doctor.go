package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/sshconnector/ssh-connector/internal/doctor"
)

func (a *app) newDoctorCmd() *cobra.Command {
	var jsonOut bool
	cmd := &cobra.Command{
		Use:   "doctor",
		Short: "Diagnose local ssh-connector issues",
		RunE: func(cmd *cobra.Command, args []string) error {
			report, err := doctor.Run(a.configPath)
			if err != nil {
				return err
			}
			if jsonOut {
				enc := json.NewEncoder(os.Stdout)
				enc.SetIndent("", "  ")
				if err := enc.Encode(report); err != nil {
					return err
				}
			} else {
				if len(report.Issues) == 0 {
					fmt.Println("no issues found")
					return nil
				}
				fmt.Printf("%-8s %-18s %-44s %s\n", "SEV", "CHECK", "TARGET", "MESSAGE")
				for _, issue := range report.Issues {
					fmt.Printf("%-8s %-18s %-44s %s\n", issue.Severity, issue.Check, issue.Target, issue.Message)
					if issue.Recommendation != "" {
						fmt.Printf("%-8s %-18s %-44s fix: %s\n", "", "", "", issue.Recommendation)
					}
				}
			}
			if report.HasHigh() {
				return fmt.Errorf("doctor found high severity issues")
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&jsonOut, "json", false, "output JSON")
	return cmd
}

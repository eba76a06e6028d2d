package cli

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"github.com/sshconnector/ssh-connector/internal/history"
	"github.com/sshconnector/ssh-connector/internal/ui"
	"github.com/sshconnector/ssh-connector/internal/util"
)

func (a *app) newListCmd() *cobra.Command {
	var recent bool
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List configured server groups and hosts",
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := a.store()
			if err != nil {
				return err
			}
			res := st.Load()
			reportWarnings(res.Warnings)

			stats, err := history.Stats()
			if err != nil {
				slog.Warn("failed to load connection history", "error", err)
			}
			// Document order unless --recent asks for activity order.
			var order map[string]history.HostStats
			if recent {
				order = stats
			}
			fmt.Printf("%-24s %-40s %s\n", "GROUP", "HOST", "LAST")
			for _, e := range ui.BuildPickEntries(res.Config.Groups, order) {
				fmt.Printf("%-24s %-40s %s\n", e.Group, e.Host, util.EmptyDash(lastSeen(stats[e.Host])))
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&recent, "recent", false, "order hosts by most recent connection")
	return cmd
}

// lastSeen renders the last connection time, empty for hosts that have never
// been connected to.
func lastSeen(st history.HostStats) string {
	if st.Count == 0 {
		return ""
	}
	return time.Unix(st.LastConnected, 0).Format("2006-01-02 15:04")
}

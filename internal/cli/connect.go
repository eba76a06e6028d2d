package cli

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/sshconnector/ssh-connector/internal/appconfig"
	"github.com/sshconnector/ssh-connector/internal/history"
	"github.com/sshconnector/ssh-connector/internal/model"
	"github.com/sshconnector/ssh-connector/internal/sshclient"
	"github.com/sshconnector/ssh-connector/internal/ui"
)

func (a *app) newConnectCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "connect <host>",
		Short: "Open an SSH session to a configured host",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			settings, err := appconfig.Load()
			if err != nil {
				return err
			}
			client := sshclient.New(settings)
			if err := client.EnsureBinary(); err != nil {
				return err
			}
			st, err := a.store()
			if err != nil {
				return err
			}
			res := st.Load()
			reportWarnings(res.Warnings)
			host, err := findHost(res.Config, args[0])
			if err != nil {
				return err
			}
			fmt.Printf("Connecting to %s as %s...\n", host, res.Config.Username)
			rec := &recordingConnector{client: client}
			return rec.Connect(res.Config.Username, host)
		},
	}
}

func (a *app) newPickCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "pick",
		Short: "Pick a host from a filterable list and connect",
		RunE: func(cmd *cobra.Command, args []string) error {
			settings, err := appconfig.Load()
			if err != nil {
				return err
			}
			client := sshclient.New(settings)
			if err := client.EnsureBinary(); err != nil {
				return err
			}
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
			entries := ui.BuildPickEntries(res.Config.Groups, stats)
			if len(entries) == 0 {
				return fmt.Errorf("no servers configured")
			}
			choice, err := ui.RunPicker(entries)
			if err != nil {
				return err
			}
			if choice == nil {
				return nil
			}
			fmt.Printf("Connecting to %s as %s...\n", choice.Host, res.Config.Username)
			rec := &recordingConnector{client: client}
			return rec.Connect(res.Config.Username, choice.Host)
		},
	}
}

func findHost(cfg *model.Config, host string) (string, error) {
	for _, g := range cfg.Groups {
		for _, h := range g.Hosts {
			if h == host {
				return h, nil
			}
		}
	}
	return "", fmt.Errorf("host not found: %s", host)
}

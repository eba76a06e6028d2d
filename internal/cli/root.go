// Package cli provides the command-line interface for ssh-connector.
package cli

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/sshconnector/ssh-connector/internal/appconfig"
	"github.com/sshconnector/ssh-connector/internal/config"
	"github.com/sshconnector/ssh-connector/internal/groups"
	"github.com/sshconnector/ssh-connector/internal/history"
	"github.com/sshconnector/ssh-connector/internal/sshclient"
	"github.com/sshconnector/ssh-connector/internal/ui"
)

// app carries state shared across subcommands, resolved from persistent flags.
type app struct {
	configPath string
}

// NewRootCommand creates the root cobra command. Running it without a
// subcommand starts the interactive menu.
func NewRootCommand() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:   "ssh-connector",
		Short: "Menu-driven SSH connection manager with GSSAPI credential delegation",
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runInteractive(cmd)
		},
	}
	root.PersistentFlags().StringVar(&a.configPath, "config", "", "path to the server group document (default ~/.ssh_connector/config.json)")

	root.AddCommand(
		a.newListCmd(),
		a.newConnectCmd(),
		a.newPickCmd(),
		a.newExportCmd(),
		a.newImportCmd(),
		a.newDoctorCmd(),
	)
	return root
}

func (a *app) store() (*config.Store, error) {
	if a.configPath != "" {
		return config.NewStore(a.configPath), nil
	}
	return config.DefaultStore()
}

// runInteractive loads everything the menu session needs and hands control to
// the controller until the user exits.
func (a *app) runInteractive(cmd *cobra.Command) error {
	settings, err := appconfig.Load()
	if err != nil {
		return err
	}
	st, err := a.store()
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	res := st.Load()
	for _, w := range res.Warnings {
		fmt.Fprintln(out, w)
	}
	if res.Created {
		fmt.Fprintf(out, "Created default configuration at %s\n", st.Path)
		fmt.Fprintln(out, "Please customize this file with your own server groups and servers")
	}

	reg := groups.NewRegistry(res.Config, st)
	screen := ui.NewScreen(cmd.InOrStdin(), out, reg.Username)
	ctrl := ui.NewController(screen, reg, st, &recordingConnector{client: sshclient.New(settings)})

	// Ctrl+C anywhere in the menu ends the program, not just the current
	// prompt.
	interrupts := make(chan os.Signal, 1)
	signal.Notify(interrupts, os.Interrupt)
	defer signal.Stop(interrupts)
	go func() {
		<-interrupts
		fmt.Fprintln(out, "\n\nProgram interrupted. Goodbye!")
		os.Exit(0)
	}()

	if err := ctrl.Run(); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

// reportWarnings prints document-healing notices on stderr, keeping stdout
// for each subcommand's own output.
func reportWarnings(warnings []string) {
	if len(warnings) == 0 {
		return
	}
	fmt.Fprintln(os.Stderr, "warnings:")
	for _, w := range warnings {
		fmt.Fprintf(os.Stderr, "  - %s\n", w)
	}
}

// recordingConnector wraps the ssh client so each completed session lands in
// the connection history. History failures never block a session.
type recordingConnector struct {
	client *sshclient.Client
}

func (r *recordingConnector) Connect(username, host string) error {
	if err := r.client.Connect(username, host); err != nil {
		return err
	}
	if err := history.Touch(host); err != nil {
		slog.Warn("failed to record connection history", "error", err)
	}
	return nil
}

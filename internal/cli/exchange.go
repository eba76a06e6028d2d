package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/sshconnector/ssh-connector/internal/config"
	"github.com/sshconnector/ssh-connector/internal/groups"
)

func (a *app) newExportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "export [path]",
		Short: "Export the configuration to a JSON file",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := a.store()
			if err != nil {
				return err
			}
			res := st.Load()
			reportWarnings(res.Warnings)
			var path string
			if len(args) == 1 {
				path = args[0]
			}
			if strings.TrimSpace(path) == "" {
				path, err = config.DefaultExportPath()
				if err != nil {
					return err
				}
			}
			if err := st.Export(res.Config, path); err != nil {
				return err
			}
			fmt.Printf("Configuration exported to %s\n", path)
			return nil
		},
	}
}

func (a *app) newImportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import <path>",
		Short: "Replace the configuration with a previously exported JSON file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := a.store()
			if err != nil {
				return err
			}
			// Validate before touching the current document.
			imported, err := st.Import(args[0])
			if err != nil {
				return err
			}
			res := st.Load()
			reportWarnings(res.Warnings)
			reg := groups.NewRegistry(res.Config, st)
			if err := reg.Replace(imported); err != nil {
				return err
			}
			fmt.Println("Configuration imported successfully")
			return nil
		},
	}
}

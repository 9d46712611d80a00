package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/azdohist/cli/internal/config"
)

// configCmd represents the config command
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage stored defaults",
	Long: `Manage the stored defaults in ~/.azdohist/config.yaml. Stored values
fill in --org, --project, and --token-file when the flags are omitted.

Examples:
  azdohist config set --org Acme --project Widgets
  azdohist config set --token-file ~/.azdohist/azdo.token
  azdohist config show`,
}

var configSetCmd = &cobra.Command{
	Use:   "set",
	Short: "Store default organization, project, or token file",
	RunE: func(cmd *cobra.Command, args []string) error {
		if organization == "" && project == "" && tokenFile == "" {
			return fmt.Errorf("nothing to store: pass --org, --project, or --token-file")
		}

		cfg, err := config.Load()
		if err != nil {
			return err
		}

		if organization != "" {
			cfg.Organization = organization
		}
		if project != "" {
			cfg.Project = project
		}
		if tokenFile != "" {
			cfg.TokenFile = tokenFile
		}

		if err := config.Save(cfg); err != nil {
			return fmt.Errorf("failed to save config: %w", err)
		}

		path, _ := config.Path()
		fmt.Printf("Defaults saved to %s\n", path)
		return nil
	},
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show stored defaults",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}

		fmt.Printf("Organization: %s\n", valueOrUnset(cfg.Organization))
		fmt.Printf("Project:      %s\n", valueOrUnset(cfg.Project))
		fmt.Printf("Token file:   %s\n", valueOrUnset(cfg.TokenFile))
		return nil
	},
}

func valueOrUnset(v string) string {
	if v == "" {
		return "(not set)"
	}
	return v
}

func init() {
	configCmd.AddCommand(configSetCmd, configShowCmd)
	rootCmd.AddCommand(configCmd)
}

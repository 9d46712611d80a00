package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/hashicorp/go-hclog"
	"github.com/spf13/cobra"

	"github.com/azdohist/cli/internal/auth"
	"github.com/azdohist/cli/internal/config"
	"github.com/azdohist/cli/internal/protect"
	"github.com/azdohist/cli/internal/rest"
)

var (
	// Command line flags
	organization string
	project      string
	token        string
	tokenFile    string
	dryRun       bool
	verbose      bool
	output       string

	version = "1.0.0" // This will be set during build
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "azdohist",
	Short: "azdohist - Query Azure DevOps change and test history",
	Long: `azdohist is a command-line client for the Azure DevOps REST API that
retrieves TFVC changeset history and test-result history.

Authentication uses a personal access token (PAT), supplied via --token,
an encrypted token file (--token-file, created with 'azdohist auth
create-token-file'), or an interactive prompt.`,
	SilenceUsage: true,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// newLogger builds the CLI logger; --verbose raises the level to Debug.
// Dry-run raises it to Info so the intended-request report is always
// visible: reporting the request is the whole point of the mode.
func newLogger() hclog.Logger {
	level := hclog.Warn
	if dryRun {
		level = hclog.Info
	}
	if verbose {
		level = hclog.Debug
	}
	return hclog.New(&hclog.LoggerOptions{
		Name:   "azdohist",
		Level:  level,
		Output: os.Stderr,
	})
}

// newRESTClient builds the dispatcher with the global dry-run and logging
// flags applied.
func newRESTClient() *rest.Client {
	client := rest.NewClient()
	client.DryRun = dryRun
	client.Logger = newLogger()
	return client
}

// resolveCredential builds a credential from the --token/--token-file flags,
// falling back to config file defaults and finally an interactive prompt.
func resolveCredential() (*auth.Credential, error) {
	resolvedTokenFile := tokenFile
	if token == "" {
		cfg, err := config.Load()
		if err != nil {
			return nil, err
		}
		// Stored defaults only apply when no explicit token is given.
		_, _, resolvedTokenFile = cfg.Resolve("", "", tokenFile)
	}

	src, err := auth.NewSource(token, resolvedTokenFile)
	if err != nil {
		return nil, err
	}

	return auth.BuildCredential(src, protect.NewAgeProtector(), nil)
}

// resolveScope fills organization and project from flags, env, and config.
func resolveScope() (string, string, error) {
	cfg, err := config.Load()
	if err != nil {
		return "", "", err
	}
	org, proj, _ := cfg.Resolve(organization, project, "")

	if org == "" {
		return "", "", fmt.Errorf("--org is required (or set AZDOHIST_ORG, or store it with a config file)")
	}
	if proj == "" {
		return "", "", fmt.Errorf("--project is required (or set AZDOHIST_PROJECT, or store it with a config file)")
	}
	return org, proj, nil
}

// printOutput prints the output in the specified format
func printOutput(data interface{}, format string) error {
	switch format {
	case "json":
		encoder := json.NewEncoder(os.Stdout)
		encoder.SetIndent("", "  ")
		return encoder.Encode(data)
	case "pretty", "":
		jsonBytes, err := json.MarshalIndent(data, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to format output: %w", err)
		}
		fmt.Println(string(jsonBytes))
		return nil
	default:
		return fmt.Errorf("unsupported output format: %s", format)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&organization, "org", "", "Azure DevOps organization name")
	rootCmd.PersistentFlags().StringVar(&project, "project", "", "Azure DevOps project name")
	rootCmd.PersistentFlags().StringVar(&token, "token", "", "Personal access token (mutually exclusive with --token-file)")
	rootCmd.PersistentFlags().StringVar(&tokenFile, "token-file", "", "Path to an encrypted token file")
	rootCmd.PersistentFlags().BoolVar(&dryRun, "dry-run", false, "Report the intended request without sending it")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
	rootCmd.PersistentFlags().StringVarP(&output, "output", "o", "pretty", "Output format (json, pretty)")

	versionCmd := &cobra.Command{
		Use:   "version",
		Short: "Print the version number of azdohist",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("azdohist v%s\n", version)
		},
	}

	rootCmd.AddCommand(versionCmd)
}

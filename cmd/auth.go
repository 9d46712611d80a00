package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/azdohist/cli/internal/auth"
	"github.com/azdohist/cli/internal/config"
	"github.com/azdohist/cli/internal/protect"
)

// authCmd represents the auth command
var authCmd = &cobra.Command{
	Use:   "auth",
	Short: "Manage Azure DevOps authentication",
	Long: `Manage the personal access token used to authenticate with Azure DevOps.

Examples:
  # Create an encrypted token file (prompts for the token)
  azdohist auth create-token-file ~/.azdohist/azdo.token

  # Check which credential source would be used
  azdohist auth status`,
}

var authCreateTokenFileCmd = &cobra.Command{
	Use:   "create-token-file <path>",
	Short: "Encrypt a personal access token to a file",
	Long: `Prompt for a personal access token and write it to <path>, encrypted
against a key bound to this user account and machine. The file cannot be
decrypted by other users or on other machines.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := args[0]

		if err := auth.CreateTokenFile(path, protect.NewAgeProtector(), nil); err != nil {
			return fmt.Errorf("failed to create token file: %w", err)
		}

		fmt.Printf("Token file written to %s\n", path)
		return nil
	},
}

var authStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show which credential source would be used",
	RunE: func(cmd *cobra.Command, args []string) error {
		resolvedTokenFile := tokenFile
		if token == "" {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			_, _, resolvedTokenFile = cfg.Resolve("", "", tokenFile)
		}

		src, err := auth.NewSource(token, resolvedTokenFile)
		if err != nil {
			return err
		}

		switch src.Kind {
		case auth.SourceToken:
			masked := src.Token
			if len(masked) > 8 {
				masked = masked[:4] + "..." + masked[len(masked)-4:]
			}
			fmt.Printf("Credential source: --token flag (%s)\n", masked)
		case auth.SourceTokenFile:
			fmt.Printf("Credential source: token file %s", src.TokenFile)
			if info, err := os.Stat(src.TokenFile); err != nil || !info.Mode().IsRegular() {
				fmt.Print(" (missing)")
			}
			fmt.Println()
		default:
			fmt.Println("Credential source: interactive prompt")
		}
		return nil
	},
}

func init() {
	authCmd.AddCommand(authCreateTokenFileCmd, authStatusCmd)
	rootCmd.AddCommand(authCmd)
}

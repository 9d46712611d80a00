package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/azdohist/cli/internal/azdo"
)

var (
	testHistoryName    string
	testHistoryGroupBy int
)

// testHistoryCmd retrieves test-result history
var testHistoryCmd = &cobra.Command{
	Use:   "testhistory",
	Short: "Get result history for an automated test",
	Long: `Retrieve the result history of an automated test by its fully
qualified name.

Examples:
  azdohist testhistory --org Acme --project Widgets --test-name NS.Class.Test
  azdohist testhistory --test-name NS.Class.Test --group-by 2 --output json`,
	RunE: func(cmd *cobra.Command, args []string) error {
		org, proj, err := resolveScope()
		if err != nil {
			return err
		}

		opts := azdo.TestHistoryOptions{
			Organization: org,
			Project:      proj,
			TestName:     testHistoryName,
			GroupBy:      testHistoryGroupBy,
		}

		cred, err := resolveCredential()
		if err != nil {
			return err
		}

		result, err := azdo.GetTestHistory(newRESTClient(), opts, cred)
		if err != nil {
			return fmt.Errorf("failed to get test history: %w", err)
		}
		if result == nil {
			return nil
		}

		return printOutput(result, output)
	},
}

func init() {
	testHistoryCmd.Flags().StringVar(&testHistoryName, "test-name", "", "Fully qualified automated test name")
	testHistoryCmd.Flags().IntVar(&testHistoryGroupBy, "group-by", 1, "Grouping mode for results")
	testHistoryCmd.MarkFlagRequired("test-name")

	rootCmd.AddCommand(testHistoryCmd)
}

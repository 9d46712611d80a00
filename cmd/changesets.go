package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/azdohist/cli/internal/azdo"
)

var (
	changesetsItemPath string
	changesetsFrom     string
	changesetsTo       string
)

// changesetsCmd retrieves TFVC changeset history
var changesetsCmd = &cobra.Command{
	Use:   "changesets",
	Short: "Get TFVC changeset history for an item path",
	Long: `Retrieve the TFVC changeset history for an item path. Without --from
and --to the window defaults to the last 24 hours.

Examples:
  azdohist changesets --org Acme --project Widgets --item-path '$/Widgets/src'
  azdohist changesets --item-path '$/Widgets/src' --from 2026-08-01T00:00:00 --to 2026-08-31T00:00:00
  azdohist changesets --item-path '$/Widgets/src' --dry-run`,
	RunE: func(cmd *cobra.Command, args []string) error {
		org, proj, err := resolveScope()
		if err != nil {
			return err
		}

		opts := azdo.ChangesetOptions{
			Organization: org,
			Project:      proj,
			ItemPath:     changesetsItemPath,
		}

		if changesetsFrom != "" {
			from, err := parseTimestamp(changesetsFrom)
			if err != nil {
				return fmt.Errorf("invalid --from value: %w", err)
			}
			opts.From = from
		}
		if changesetsTo != "" {
			to, err := parseTimestamp(changesetsTo)
			if err != nil {
				return fmt.Errorf("invalid --to value: %w", err)
			}
			opts.To = to
		}

		cred, err := resolveCredential()
		if err != nil {
			return err
		}

		result, err := azdo.GetChangesetHistory(newRESTClient(), opts, cred)
		if err != nil {
			return fmt.Errorf("failed to get changeset history: %w", err)
		}
		if result == nil {
			// Dry-run reports the request instead of returning data.
			return nil
		}

		return printOutput(result, output)
	},
}

// parseTimestamp accepts sortable ISO-8601 with or without a date-only form.
func parseTimestamp(value string) (time.Time, error) {
	for _, layout := range []string{"2006-01-02T15:04:05", "2006-01-02"} {
		if ts, err := time.ParseInLocation(layout, value, time.Local); err == nil {
			return ts, nil
		}
	}
	return time.Time{}, fmt.Errorf("expected YYYY-MM-DD or YYYY-MM-DDTHH:MM:SS, got %q", value)
}

func init() {
	changesetsCmd.Flags().StringVar(&changesetsItemPath, "item-path", "", "TFVC item path (e.g. $/Widgets/src)")
	changesetsCmd.Flags().StringVar(&changesetsFrom, "from", "", "Window start (default: 24 hours ago)")
	changesetsCmd.Flags().StringVar(&changesetsTo, "to", "", "Window end (default: now)")
	changesetsCmd.MarkFlagRequired("item-path")

	rootCmd.AddCommand(changesetsCmd)
}

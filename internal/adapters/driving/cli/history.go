package cli

import (
	"context"
	"errors"
	"time"

	"github.com/spf13/cobra"
)

var historyCmd = &cobra.Command{
	Use:   "history [item-uri]",
	Short: "Show recorded upload cycles",
	Long: `Prints the journal of upload cycles, newest first. With an item URI,
only cycles for that item are shown.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runHistory,
}

func init() {
	rootCmd.AddCommand(historyCmd)
}

func runHistory(cmd *cobra.Command, args []string) error {
	if uploadJournal == nil {
		return errors.New("upload journal not configured")
	}

	var itemURI string
	if len(args) > 0 {
		itemURI = args[0]
	}

	records, err := uploadJournal.History(context.Background(), itemURI)
	if err != nil {
		return err
	}

	if len(records) == 0 {
		cmd.Println("No upload cycles recorded.")
		return nil
	}

	for _, rec := range records {
		cmd.Printf("%s  %-9s  %3d uploaded  %2d batch(es)  %s\n",
			rec.StartedAt.Local().Format(time.DateTime),
			rec.Status, rec.Uploaded, rec.Chunks, rec.ItemURI)
		if rec.Error != "" {
			cmd.Printf("    error: %s\n", rec.Error)
		}
	}
	return nil
}

package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sindhuchary/alveo-uima/internal/adapters/driven/docfile"
)

var uploadCmd = &cobra.Command{
	Use:   "upload <file>...",
	Short: "Upload document annotations to the server",
	Long: `Runs one upload cycle per document file. Each file's annotations are
compared against the item's current remote set; only annotations not
already present are uploaded, in batches.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runUpload,
}

func init() {
	rootCmd.AddCommand(uploadCmd)
}

func runUpload(cmd *cobra.Command, args []string) error {
	if uploadService == nil {
		return errors.New("upload service not configured")
	}

	ctx := context.Background()

	for _, path := range args {
		doc, err := docfile.Load(path)
		if err != nil {
			return fmt.Errorf("load %s: %w", path, err)
		}

		report, err := uploadService.ProcessDocument(ctx, doc)
		if err != nil {
			return fmt.Errorf("upload %s: %w", path, err)
		}

		if report.Uploaded == 0 {
			cmd.Printf("%s: up to date (%d annotations considered)\n", path, report.Considered)
			continue
		}
		cmd.Printf("%s: uploaded %d of %d annotations in %d batch(es) to %s\n",
			path, report.Uploaded, report.Considered, report.Chunks, report.ItemURI)
	}

	return nil
}

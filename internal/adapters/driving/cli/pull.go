package cli

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/sindhuchary/alveo-uima/internal/adapters/driven/docfile"
	"github.com/sindhuchary/alveo-uima/internal/core/domain"
)

var pullDir string

var pullCmd = &cobra.Command{
	Use:   "pull <list-id>",
	Short: "Pull an item list as local document files",
	Long: `Walks a remote item list and writes each item as a document JSON file.
The files can be fed to annotation pipelines and uploaded back with
the upload command.`,
	Args: cobra.ExactArgs(1),
	RunE: runPull,
}

func init() {
	pullCmd.Flags().StringVarP(&pullDir, "dir", "d", ".", "directory to write document files into")
	rootCmd.AddCommand(pullCmd)
}

func runPull(cmd *cobra.Command, args []string) error {
	if readerService == nil {
		return errors.New("reader service not configured")
	}

	listID := args[0]
	if err := os.MkdirAll(pullDir, 0700); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	cmd.Printf("Pulling item list %s...\n", listID)

	ctx := context.Background()
	docsCh, errsCh := readerService.Documents(ctx, listID)

	// Poll progress every 500ms while documents stream in.
	ticker := time.NewTicker(500 * time.Millisecond)
	defer ticker.Stop()

	written := 0
	lastFetched := 0
	for docsCh != nil {
		select {
		case doc, ok := <-docsCh:
			if !ok {
				docsCh = nil
				continue
			}
			outPath := filepath.Join(pullDir, documentFileName(doc))
			if err := docfile.Save(outPath, doc); err != nil {
				return fmt.Errorf("write %s: %w", outPath, err)
			}
			written++
		case <-ticker.C:
			progress := readerService.Progress()
			if progress.Fetched > lastFetched {
				cmd.Printf("\rFetched %d of %d items", progress.Fetched, progress.Total)
				lastFetched = progress.Fetched
			}
		}
	}
	if lastFetched > 0 {
		cmd.Println()
	}

	if err := <-errsCh; err != nil {
		return fmt.Errorf("pull failed after %d item(s): %w", written, err)
	}

	cmd.Printf("Wrote %d document(s) to %s\n", written, pullDir)
	return nil
}

// documentFileName derives a file name from the item URI, falling
// back to the local document ID.
func documentFileName(doc *domain.Document) string {
	if u, err := url.Parse(doc.SourceURI); err == nil {
		if base := path.Base(u.Path); base != "" && base != "/" && base != "." {
			return strings.TrimSuffix(base, ".json") + ".json"
		}
	}
	return doc.ID + ".json"
}

package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/sindhuchary/alveo-uima/internal/adapters/driven/docfile"
	"github.com/sindhuchary/alveo-uima/internal/logger"
)

// watchSettleDelay is how long a file must stay quiet before it is
// uploaded. Pipelines write documents incrementally; uploading on the
// first write event would read a truncated file.
const watchSettleDelay = 500 * time.Millisecond

var watchCmd = &cobra.Command{
	Use:   "watch <dir>",
	Short: "Watch a directory and upload documents as they appear",
	Long: `Watches a directory for document JSON files written by annotation
pipelines and runs an upload cycle for each new or modified file.
Runs until interrupted.`,
	Args: cobra.ExactArgs(1),
	RunE: runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	if uploadService == nil {
		return errors.New("upload service not configured")
	}

	dir := args[0]
	info, err := os.Stat(dir)
	if err != nil {
		return err
	}
	if !info.IsDir() {
		return fmt.Errorf("%s is not a directory", dir)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(dir); err != nil {
		return fmt.Errorf("watch %s: %w", dir, err)
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	cmd.Printf("Watching %s for document files (Ctrl-C to stop)...\n", dir)

	// Debounce per path: a burst of write events collapses into one
	// upload after the file settles.
	pending := make(map[string]*time.Timer)
	uploads := make(chan string)

	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !event.Op.Has(fsnotify.Create) && !event.Op.Has(fsnotify.Write) {
				continue
			}
			if !strings.HasSuffix(event.Name, ".json") {
				continue
			}
			path := event.Name
			if timer, exists := pending[path]; exists {
				timer.Reset(watchSettleDelay)
				continue
			}
			pending[path] = time.AfterFunc(watchSettleDelay, func() {
				uploads <- path
			})

		case path := <-uploads:
			delete(pending, path)
			uploadWatchedFile(cmd, path)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Error("watch: %v", err)

		case <-sigCh:
			cmd.Println("\nStopping.")
			return nil
		}
	}
}

// uploadWatchedFile runs one upload cycle for a settled file. Failures
// are logged, not fatal: the watch must survive a bad file.
func uploadWatchedFile(cmd *cobra.Command, path string) {
	doc, err := docfile.Load(path)
	if err != nil {
		logger.Error("load %s: %v", filepath.Base(path), err)
		return
	}

	report, err := uploadService.ProcessDocument(context.Background(), doc)
	if err != nil {
		logger.Error("upload %s: %v", filepath.Base(path), err)
		return
	}

	if report.Uploaded == 0 {
		logger.Info("%s: up to date", filepath.Base(path))
		return
	}
	cmd.Printf("%s: uploaded %d annotation(s) in %d batch(es)\n",
		filepath.Base(path), report.Uploaded, report.Chunks)
}

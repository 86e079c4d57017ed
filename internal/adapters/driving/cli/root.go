// Package cli implements the alveo command-line interface. Commands
// are thin drivers over the core services; wiring happens in main via
// Configure before Execute runs.
package cli

import (
	"github.com/spf13/cobra"

	"github.com/sindhuchary/alveo-uima/internal/core/ports/driven"
	"github.com/sindhuchary/alveo-uima/internal/core/ports/driving"
	"github.com/sindhuchary/alveo-uima/internal/logger"
)

// version is set at build time via -ldflags.
var version = "dev"

// Services wired in by main. Commands check for nil so a partially
// configured binary fails with a clear message instead of panicking.
var (
	uploadService driving.AnnotationUploader
	readerService driving.ItemListReader
	uploadJournal driven.UploadJournal
	configStore   driven.ConfigStore
)

var verboseFlag bool

var rootCmd = &cobra.Command{
	Use:   "alveo",
	Short: "Synchronise pipeline annotations with an Alveo server",
	Long: `alveo bridges local annotation pipelines and a remote Alveo
annotation store. It uploads new annotations produced by a pipeline,
pulls item lists down as local documents, and keeps a journal of every
upload cycle.`,
	SilenceUsage: true,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logger.SetVerbose(verboseFlag)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verboseFlag, "verbose", "v", false, "enable verbose logging")
}

// Configure injects the wired services into the command tree.
func Configure(
	uploader driving.AnnotationUploader,
	reader driving.ItemListReader,
	journal driven.UploadJournal,
	config driven.ConfigStore,
) {
	uploadService = uploader
	readerService = reader
	uploadJournal = journal
	configStore = config
}

// SetVersion overrides the reported version.
func SetVersion(v string) {
	if v != "" {
		version = v
	}
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

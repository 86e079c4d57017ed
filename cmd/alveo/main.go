// Command alveo synchronises pipeline annotations with an Alveo
// annotation store.
package main

import (
	"fmt"
	"os"

	"github.com/sindhuchary/alveo-uima/internal/adapters/driven/alveo"
	configfile "github.com/sindhuchary/alveo-uima/internal/adapters/driven/config/file"
	"github.com/sindhuchary/alveo-uima/internal/adapters/driven/storage/sqlite"
	"github.com/sindhuchary/alveo-uima/internal/adapters/driving/cli"
	"github.com/sindhuchary/alveo-uima/internal/conversions"
	"github.com/sindhuchary/alveo-uima/internal/core/ports/driven"
	"github.com/sindhuchary/alveo-uima/internal/core/ports/driving"
	"github.com/sindhuchary/alveo-uima/internal/core/services"
	"github.com/sindhuchary/alveo-uima/internal/logger"
)

// version is injected at build time via -ldflags.
var version = "dev"

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	config, err := configfile.NewConfigStore(os.Getenv("ALVEO_CONFIG_DIR"))
	if err != nil {
		return fmt.Errorf("open config store: %w", err)
	}

	store, err := sqlite.NewStore(os.Getenv("ALVEO_DATA_DIR"))
	if err != nil {
		return fmt.Errorf("open journal store: %w", err)
	}
	defer store.Close()

	uploader, reader := buildServices(config, store.Journal())

	cli.SetVersion(version)
	cli.Configure(uploader, reader, store.Journal(), config)
	return cli.Execute()
}

// buildServices wires the core services from configuration. Missing
// server settings leave the services nil so commands that don't need
// them (config, history, version) still work.
func buildServices(config driven.ConfigStore, journal driven.UploadJournal) (driving.AnnotationUploader, driving.ItemListReader) {
	baseURL := config.GetString(cli.ConfigKeyBaseURL)
	apiKey := config.GetString(cli.ConfigKeyAPIKey)
	if envKey := os.Getenv("ALVEO_API_KEY"); envKey != "" {
		apiKey = envKey
	}

	client, err := alveo.NewClient(baseURL, apiKey)
	if err != nil {
		logger.Debug("alveo client not available: %v", err)
		return nil, nil
	}

	registry := conversions.NewRegistry()
	chain, err := registry.NewChainFromConfig(
		config.GetStringSlice(cli.ConfigKeyConverters),
		config.GetStringSlice(cli.ConfigKeyTypeURIFeatures),
		config.GetStringSlice(cli.ConfigKeyLabelFeatures),
	)
	if err != nil {
		logger.Debug("converter chain not available: %v", err)
		return nil, nil
	}

	filter := services.NewTypeFilter(config.GetStringSlice(cli.ConfigKeyUploadTypes))
	baseline := alveo.NewBaselineAdapter(false)

	uploader := services.NewUploadService(client, baseline, chain, filter, journal)
	reader := services.NewItemListService(client, alveo.NewBaselineAdapter(true))
	return uploader, reader
}

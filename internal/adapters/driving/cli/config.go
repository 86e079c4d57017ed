package cli

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"
)

// Config keys the commands understand. Other keys are stored as-is so
// converter-specific settings can live in the same file.
const (
	ConfigKeyBaseURL         = "alveo.base_url"
	ConfigKeyAPIKey          = "alveo.api_key"
	ConfigKeyUploadTypes     = "upload.types"
	ConfigKeyLabelFeatures   = "upload.label_features"
	ConfigKeyTypeURIFeatures = "upload.type_uri_features"
	ConfigKeyConverters      = "upload.converters"
)

// listValuedKeys are stored as TOML arrays; set splits their values
// on commas.
var listValuedKeys = map[string]bool{
	ConfigKeyUploadTypes:     true,
	ConfigKeyLabelFeatures:   true,
	ConfigKeyTypeURIFeatures: true,
	ConfigKeyConverters:      true,
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration",
	Long: `View and change settings such as the server address, API key, and
the upload type allow-list.`,
	RunE: runConfigShow,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current configuration",
	RunE:  runConfigShow,
}

var configGetCmd = &cobra.Command{
	Use:   "get <key>",
	Short: "Print one configuration value",
	Args:  cobra.ExactArgs(1),
	RunE:  runConfigGet,
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a configuration value",
	Long: `Sets a configuration value and persists it immediately.
List-valued keys (upload.types, upload.label_features,
upload.type_uri_features, upload.converters) take comma-separated
values.`,
	Args: cobra.ExactArgs(2),
	RunE: runConfigSet,
}

func init() {
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configGetCmd)
	configCmd.AddCommand(configSetCmd)
	rootCmd.AddCommand(configCmd)
}

func runConfigShow(cmd *cobra.Command, _ []string) error {
	if configStore == nil {
		return errors.New("config store not configured")
	}

	keys := []string{
		ConfigKeyBaseURL,
		ConfigKeyAPIKey,
		ConfigKeyUploadTypes,
		ConfigKeyLabelFeatures,
		ConfigKeyTypeURIFeatures,
		ConfigKeyConverters,
	}
	for _, key := range keys {
		cmd.Printf("%s = %s\n", key, formatConfigValue(key))
	}
	return nil
}

func runConfigGet(cmd *cobra.Command, args []string) error {
	if configStore == nil {
		return errors.New("config store not configured")
	}

	key := args[0]
	if _, ok := configStore.Get(key); !ok {
		return fmt.Errorf("key %s is not set", key)
	}
	cmd.Println(formatConfigValue(key))
	return nil
}

func runConfigSet(cmd *cobra.Command, args []string) error {
	if configStore == nil {
		return errors.New("config store not configured")
	}

	key, raw := args[0], args[1]
	var value any = raw
	if listValuedKeys[key] {
		value = splitConfigList(raw)
	}

	if err := configStore.Set(key, value); err != nil {
		return fmt.Errorf("set %s: %w", key, err)
	}
	cmd.Printf("%s = %s\n", key, formatConfigValue(key))
	return nil
}

func formatConfigValue(key string) string {
	if key == ConfigKeyAPIKey {
		if configStore.GetString(key) != "" {
			return "(set)"
		}
		return "(unset)"
	}
	if listValuedKeys[key] {
		vals := configStore.GetStringSlice(key)
		if len(vals) == 0 {
			return "(unset)"
		}
		sorted := append([]string(nil), vals...)
		sort.Strings(sorted)
		return strings.Join(sorted, ", ")
	}
	if v := configStore.GetString(key); v != "" {
		return v
	}
	return "(unset)"
}

func splitConfigList(raw string) []string {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

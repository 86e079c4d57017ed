package driven

// ConfigStore provides access to application configuration values.
// Keys use dot notation, e.g. "alveo.base_url".
type ConfigStore interface {
	// Get retrieves a configuration value by key.
	Get(key string) (any, bool)

	// GetString retrieves a string value, or "" when absent.
	GetString(key string) string

	// GetStringSlice retrieves a string slice value, or nil when absent.
	GetStringSlice(key string) []string

	// Set stores a value and persists it.
	Set(key string, value any) error

	// Load re-reads configuration from the backing store.
	Load() error
}

// Package file provides the TOML-backed configuration store. Settings
// such as the Alveo server address, API key, and upload type lists are
// persisted in the alveo config directory.
package file

// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
//   - Converter: converts one local annotation into canonical remote form
//   - ItemClient / Item / ItemList: access to the remote annotation store
//   - BaselineAdapter: reconstructs a remote item as a local document
//   - UploadJournal: per-cycle upload history persistence
//   - ConfigStore: application configuration
package driven

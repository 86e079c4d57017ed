// Package services contains the core behaviour of the uploader: the
// per-document synchronisation engine, the type eligibility filter
// and the item list reader. Services depend only on domain types and
// ports, never on adapters.
package services

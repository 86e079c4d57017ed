// Package driving defines the interfaces through which hosts drive
// the core: the per-document upload cycle and the item list reader.
//
// These are the "driving" or "primary" ports in hexagonal
// architecture; the CLI adapter consumes them.
package driving

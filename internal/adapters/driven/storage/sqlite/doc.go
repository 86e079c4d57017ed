// Package sqlite provides the SQLite-backed upload journal. The
// journal records the outcome of every upload cycle so operators can
// audit what was pushed to the annotation store and when.
package sqlite

// Package domain contains the core types of the annotation uploader:
// the local annotation model (type system, annotations, stores,
// documents), the canonical remote annotation value, and the domain
// error taxonomy. It has no dependencies on adapters or services.
package domain

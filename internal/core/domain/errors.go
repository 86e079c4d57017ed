package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// Configuration errors. Fatal at initialisation, never retried.

	// ErrMissingConfig indicates a mandatory configuration value
	// (server URL, API key) is absent.
	ErrMissingConfig = errors.New("missing configuration")

	// ErrInvalidServerAddress indicates the configured server URL
	// could not be parsed.
	ErrInvalidServerAddress = errors.New("invalid server address")

	// ErrNoEligibleTypes indicates the configured type allow-list
	// matched no types in the current type system. Distinct from an
	// absent allow-list, which makes every type eligible.
	ErrNoEligibleTypes = errors.New("no eligible annotation types")

	// Conversion errors.

	// ErrNotInitialized indicates a converter was used before being
	// bound to a type system. A programming error, always fatal.
	ErrNotInitialized = errors.New("converter not bound to a type system")

	// ErrUnsupportedAnnotationType is a converter's way of declining an
	// annotation so the next converter in the chain can try. It is
	// consumed inside the fallback chain and only surfaces when the
	// default converter itself declines.
	ErrUnsupportedAnnotationType = errors.New("unsupported annotation type")

	// Remote errors. Surfaced to the cycle's caller; retry policy
	// belongs to the surrounding driver.

	// ErrUnauthorized indicates the API key was rejected.
	ErrUnauthorized = errors.New("unauthorized API key")

	// ErrItemNotFound indicates the remote item does not exist.
	ErrItemNotFound = errors.New("item not found")

	// ErrUploadIntegrity indicates the server rejected an upload for
	// violating an integrity constraint.
	ErrUploadIntegrity = errors.New("upload integrity violation")

	// ErrInvalidAnnotation indicates the server rejected an annotation
	// as malformed.
	ErrInvalidAnnotation = errors.New("invalid annotation")

	// ErrMissingItemSource indicates a document carries no source URI,
	// so its remote counterpart cannot be resolved.
	ErrMissingItemSource = errors.New("document has no item source URI")
)

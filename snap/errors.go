package snap

import "errors"

// Errors of the serialization engine. Every failure is fatal for the pass
// that raised it; nothing is retried or recovered locally.
var (
	// ErrUnknownTag reports an explicit serialize tag that is not in the
	// registry. On decode an unknown tag is not an error: the raw envelope
	// is returned unchanged.
	ErrUnknownTag = errors.New("spritevault: unknown codec tag")

	// ErrMissingResource reports a resource id that resolves to nothing in
	// the pass's resource table.
	ErrMissingResource = errors.New("spritevault: missing resource")

	// ErrUnsupportedValue reports a non-primitive value with no matching
	// codec. Primitives pass through unwrapped; an opaque value cannot
	// survive a snapshot and is rejected at encode time.
	ErrUnsupportedValue = errors.New("spritevault: unsupported value")
)

package domain

import "errors"

// Error taxonomy for proof retrieval and construction. Adapters wrap these
// sentinels with context; callers match with errors.Is.
var (
	// ErrNotFound means the remote prover has no data for the requested
	// state or gindex. Retrying with a different recent block may succeed.
	ErrNotFound = errors.New("state or block not found")

	// ErrNetwork is a transport-level failure. Retry/backoff is up to the
	// caller.
	ErrNetwork = errors.New("network error")

	// ErrSerialization means a response body matched no known proof shape.
	ErrSerialization = errors.New("serialization error")

	// ErrInvalidProof means a response decoded but is semantically
	// malformed, e.g. a witness blob whose length is not a multiple of 32.
	ErrInvalidProof = errors.New("invalid proof")

	// ErrUnsupportedRange means the requested ancestry distance exceeds
	// the block_roots window. Such proofs need the historical-summaries
	// scheme instead.
	ErrUnsupportedRange = errors.New("ancestry distance exceeds historical roots window")

	// ErrInput means caller-supplied parameters could not be turned into a
	// valid request.
	ErrInput = errors.New("invalid input")
)

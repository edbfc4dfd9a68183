package sentinel

import "errors"

// Sentinel errors for infrastructure facts. Stores and resource clients return
// these (wrapped with the operation and cause) so callers can decide how to
// degrade without knowing which backend produced them.
//
// - ErrNotFound: entity does not exist in a local store
// - ErrUnavailable: a remote resource could not be fetched (transport, protocol,
//   decoding or a remote 404); always treated as absence by callers
// - ErrConflict: a write-once record already exists
// - ErrInvalidState: entity in wrong state for requested operation
var (
	ErrNotFound     = errors.New("not found")
	ErrUnavailable  = errors.New("unavailable")
	ErrConflict     = errors.New("conflict")
	ErrInvalidState = errors.New("invalid state")
)

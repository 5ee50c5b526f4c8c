package service

import "errors"

// Error taxonomy surfaced to callers. Handlers translate these to HTTP
// status codes; the services never retry.
var (
	// ErrValidation marks malformed input (empty or illegal names, bad
	// tags, missing ids). The caller must fix the request.
	ErrValidation = errors.New("validation failed")

	// ErrNotFound covers entities that are absent, foreign-owned, or
	// soft-deleted; callers cannot distinguish the three.
	ErrNotFound = errors.New("not found")

	// ErrCircularMove is returned when a folder move would make the folder
	// its own ancestor. The tree is left unmodified.
	ErrCircularMove = errors.New("cannot move a folder into itself or its descendants")

	// ErrConflict is returned when a create, rename, move, or restore would
	// collide with an existing live path for the same user.
	ErrConflict = errors.New("path already in use")
)

// Package repository defines error types that are reused across the
// persistence layer.  These sentinel values allow handlers to
// distinguish failure scenarios without inspecting SQL errors.
package repository

import "errors"

// ErrDraftNotFound is returned when a handoff token resolves to no
// stored draft, or only to one whose hold has already expired.
// Handlers should translate this into an HTTP 404 response.
var ErrDraftNotFound = errors.New("draft not found")

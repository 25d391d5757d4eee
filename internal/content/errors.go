package content

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned when a pack is absent or has no usable items.
	ErrNotFound = errors.New("pack not found")

	// ErrResourceMissing marks an item excluded because a required file
	// is absent.
	ErrResourceMissing = errors.New("resource missing")
)

// Exclusion describes an item left out of its pack.
type Exclusion struct {
	Pack   string
	Number int
	Err    error
}

func (e Exclusion) Error() string {
	return fmt.Sprintf("%s item %d excluded: %v", e.Pack, e.Number, e.Err)
}

func (e Exclusion) Unwrap() error { return e.Err }

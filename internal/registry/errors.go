package registry

import (
	"errors"
	"fmt"
)

// Registry errors
var (
	ErrDescriptorNotFound = errors.New("descriptor not found")
	ErrIllegalNesting     = errors.New("selection already running on this executor")
	ErrNilDescriptor      = errors.New("descriptor cannot be nil")
)

// NotFoundError reports the path that failed to resolve and the segment
// at which resolution stopped.
type NotFoundError struct {
	Path    string
	Segment string
}

func (e *NotFoundError) Error() string {
	if e.Segment == "" || e.Segment == e.Path {
		return fmt.Sprintf("%s: %q", ErrDescriptorNotFound, e.Path)
	}
	return fmt.Sprintf("%s: %q (unresolved segment %q)", ErrDescriptorNotFound, e.Path, e.Segment)
}

// Is matches ErrDescriptorNotFound.
func (e *NotFoundError) Is(target error) bool {
	return target == ErrDescriptorNotFound
}

func notFound(path, segment string) error {
	return &NotFoundError{Path: path, Segment: segment}
}

package cerr

import (
	"errors"
	"fmt"

	"github.com/joymec19/smart-scheduler/pkg/storage"
)

// The storage wrappers translate document-store failures into API errors.
// A missing document on read or delete becomes NotFound with the entity
// name in the message; every other storage failure is an opaque Internal
// so filesystem details never leak to clients. A rejected key is a bug in
// the caller's path construction and is also surfaced as Internal.

func WrapStorageReadError(entity string, err error) error {
	return wrapStorage("read", entity, err)
}

// WrapStorageWriteError always maps to Internal; writes never observe
// ErrNotFound because collections are created on demand.
func WrapStorageWriteError(entity string, err error) error {
	return wrapStorage("write", entity, err)
}

func WrapStorageDeleteError(entity string, err error) error {
	return wrapStorage("delete", entity, err)
}

func wrapStorage(op, entity string, err error) error {
	if errors.Is(err, storage.ErrNotFound) {
		return NewError(NotFound, fmt.Sprintf("%s not found", entity), err)
	}
	return NewError(Internal, "server error", fmt.Errorf("failed to %s %s: %w", op, entity, err))
}

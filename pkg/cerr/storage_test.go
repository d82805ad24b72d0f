package cerr

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/joymec19/smart-scheduler/pkg/storage"
)

func TestWrapStorageReadError(t *testing.T) {
	err := WrapStorageReadError("task", fmt.Errorf("tasks/t1.yaml: %w", storage.ErrNotFound))
	assert.True(t, IsCode(err, NotFound))
	assert.Contains(t, err.Error(), "task not found")

	err = WrapStorageReadError("task", errors.New("disk on fire"))
	assert.True(t, IsCode(err, Internal))
	assert.Contains(t, err.Error(), "server error")
}

func TestWrapStorageWriteError(t *testing.T) {
	err := WrapStorageWriteError("nudge", errors.New("permission denied"))
	assert.True(t, IsCode(err, Internal))
}

func TestWrapStorageDeleteError(t *testing.T) {
	err := WrapStorageDeleteError("note", fmt.Errorf("mental_notes/n1.yaml: %w", storage.ErrNotFound))
	assert.True(t, IsCode(err, NotFound))
	assert.Contains(t, err.Error(), "note not found")
}

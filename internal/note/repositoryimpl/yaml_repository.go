package repositoryimpl

import (
	"context"
	"fmt"
	"sort"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/joymec19/smart-scheduler/internal/note"
	"github.com/joymec19/smart-scheduler/pkg/cerr"
	"github.com/joymec19/smart-scheduler/pkg/storage"
)

const notesPrefix = "mental_notes"

type YAMLRepository struct {
	storage storage.Storage
}

func NewYAMLRepository(s storage.Storage) *YAMLRepository {
	return &YAMLRepository{storage: s}
}

var _ note.Repository = (*YAMLRepository)(nil)

func path(id string) string {
	return fmt.Sprintf("%s/%s.yaml", notesPrefix, id)
}

func (r *YAMLRepository) Create(ctx context.Context, n *note.Note) error {
	data, err := yaml.Marshal(n)
	if err != nil {
		return cerr.NewError(cerr.Internal, "server error", fmt.Errorf("failed to marshal note: %w", err))
	}
	if err := r.storage.Write(ctx, path(n.ID), data); err != nil {
		return cerr.WrapStorageWriteError("note", err)
	}
	return nil
}

func (r *YAMLRepository) Get(ctx context.Context, id string) (*note.Note, error) {
	data, err := r.storage.Read(ctx, path(id))
	if err != nil {
		return nil, cerr.WrapStorageReadError("note", err)
	}
	var n note.Note
	if err := yaml.Unmarshal(data, &n); err != nil {
		return nil, cerr.NewError(cerr.Internal, "server error", fmt.Errorf("failed to unmarshal note: %w", err))
	}
	return &n, nil
}

func (r *YAMLRepository) List(ctx context.Context, userID string, filter note.Filter) ([]*note.Note, error) {
	all, err := r.readAll(ctx)
	if err != nil {
		return nil, err
	}

	var out []*note.Note
	for _, n := range all {
		if n.UserID != userID {
			continue
		}
		if filter.Category != "" && n.Category != filter.Category {
			continue
		}
		if filter.Tag != "" && !hasTag(n, filter.Tag) {
			continue
		}
		out = append(out, n)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (r *YAMLRepository) Delete(ctx context.Context, id string) error {
	if err := r.storage.Delete(ctx, path(id)); err != nil {
		return cerr.WrapStorageDeleteError("note", err)
	}
	return nil
}

func (r *YAMLRepository) ListCreatedBetween(ctx context.Context, userID string, from, to time.Time) ([]*note.Note, error) {
	all, err := r.readAll(ctx)
	if err != nil {
		return nil, err
	}
	var out []*note.Note
	for _, n := range all {
		if n.UserID != userID {
			continue
		}
		if n.CreatedAt.Before(from) || n.CreatedAt.After(to) {
			continue
		}
		out = append(out, n)
	}
	return out, nil
}

func hasTag(n *note.Note, tag string) bool {
	for _, t := range n.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

func (r *YAMLRepository) readAll(ctx context.Context) ([]*note.Note, error) {
	paths, err := r.storage.List(ctx, notesPrefix)
	if err != nil {
		return nil, cerr.WrapStorageReadError("notes", err)
	}
	sort.Strings(paths)

	var all []*note.Note
	for _, p := range paths {
		data, err := r.storage.Read(ctx, p)
		if err != nil {
			continue
		}
		var n note.Note
		if err := yaml.Unmarshal(data, &n); err != nil {
			continue
		}
		all = append(all, &n)
	}
	return all, nil
}

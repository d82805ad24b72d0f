package repositoryimpl

import (
	"context"
	"fmt"
	"sort"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/joymec19/smart-scheduler/internal/nudge"
	"github.com/joymec19/smart-scheduler/pkg/cerr"
	"github.com/joymec19/smart-scheduler/pkg/storage"
)

const nudgesPrefix = "nudges"

type YAMLRepository struct {
	storage storage.Storage
}

func NewYAMLRepository(s storage.Storage) *YAMLRepository {
	return &YAMLRepository{storage: s}
}

var _ nudge.Repository = (*YAMLRepository)(nil)

func path(id string) string {
	return fmt.Sprintf("%s/%s.yaml", nudgesPrefix, id)
}

func (r *YAMLRepository) Create(ctx context.Context, n *nudge.Nudge) error {
	return r.write(ctx, n)
}

func (r *YAMLRepository) Get(ctx context.Context, id string) (*nudge.Nudge, error) {
	data, err := r.storage.Read(ctx, path(id))
	if err != nil {
		return nil, cerr.WrapStorageReadError("nudge", err)
	}
	var n nudge.Nudge
	if err := yaml.Unmarshal(data, &n); err != nil {
		return nil, cerr.NewError(cerr.Internal, "server error", fmt.Errorf("failed to unmarshal nudge: %w", err))
	}
	return &n, nil
}

func (r *YAMLRepository) Update(ctx context.Context, n *nudge.Nudge) error {
	exists, err := r.storage.Exists(ctx, path(n.ID))
	if err != nil {
		return cerr.WrapStorageWriteError("nudge", err)
	}
	if !exists {
		return cerr.NewError(cerr.NotFound, "nudge not found", nil)
	}
	return r.write(ctx, n)
}

func (r *YAMLRepository) ListTriggeredBetween(ctx context.Context, userID string, from, to time.Time) ([]*nudge.Nudge, error) {
	all, err := r.readAll(ctx)
	if err != nil {
		return nil, err
	}
	var out []*nudge.Nudge
	for _, n := range all {
		if n.UserID != userID || n.Status == nudge.StatusDismissed {
			continue
		}
		if n.TriggeredAt.Before(from) || n.TriggeredAt.After(to) {
			continue
		}
		out = append(out, n)
	}
	return out, nil
}

func (r *YAMLRepository) ListSurfaced(ctx context.Context, userID string, now time.Time) ([]*nudge.Nudge, error) {
	all, err := r.readAll(ctx)
	if err != nil {
		return nil, err
	}
	var out []*nudge.Nudge
	for _, n := range all {
		if n.UserID != userID {
			continue
		}
		if n.Status == nudge.StatusDismissed || n.Status == nudge.StatusActed {
			continue
		}
		if n.TriggeredAt.After(now) {
			continue
		}
		out = append(out, n)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].ImpactScore > out[j].ImpactScore
	})
	return out, nil
}

func (r *YAMLRepository) write(ctx context.Context, n *nudge.Nudge) error {
	data, err := yaml.Marshal(n)
	if err != nil {
		return cerr.NewError(cerr.Internal, "server error", fmt.Errorf("failed to marshal nudge: %w", err))
	}
	if err := r.storage.Write(ctx, path(n.ID), data); err != nil {
		return cerr.WrapStorageWriteError("nudge", err)
	}
	return nil
}

func (r *YAMLRepository) readAll(ctx context.Context) ([]*nudge.Nudge, error) {
	paths, err := r.storage.List(ctx, nudgesPrefix)
	if err != nil {
		return nil, cerr.WrapStorageReadError("nudges", err)
	}
	sort.Strings(paths)

	var all []*nudge.Nudge
	for _, p := range paths {
		data, err := r.storage.Read(ctx, p)
		if err != nil {
			continue
		}
		var n nudge.Nudge
		if err := yaml.Unmarshal(data, &n); err != nil {
			continue
		}
		all = append(all, &n)
	}
	return all, nil
}

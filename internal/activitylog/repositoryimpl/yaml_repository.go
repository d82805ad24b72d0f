package repositoryimpl

import (
	"context"
	"fmt"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/joymec19/smart-scheduler/internal/activitylog"
	"github.com/joymec19/smart-scheduler/pkg/cerr"
	"github.com/joymec19/smart-scheduler/pkg/storage"
)

const entriesPrefix = "task_activity_logs"

type YAMLRepository struct {
	storage storage.Storage
}

func NewYAMLRepository(s storage.Storage) *YAMLRepository {
	return &YAMLRepository{storage: s}
}

func path(id string) string {
	return fmt.Sprintf("%s/%s.yaml", entriesPrefix, id)
}

func (r *YAMLRepository) Append(ctx context.Context, e *activitylog.Entry) error {
	data, err := yaml.Marshal(e)
	if err != nil {
		return cerr.NewError(cerr.Internal, "server error", fmt.Errorf("failed to marshal activity entry: %w", err))
	}
	if err := r.storage.Write(ctx, path(e.ID), data); err != nil {
		return cerr.WrapStorageWriteError("activity entry", err)
	}
	return nil
}

func (r *YAMLRepository) ListRecentByTypes(ctx context.Context, userID string, types []activitylog.EventType, limit int) ([]*activitylog.Entry, error) {
	paths, err := r.storage.List(ctx, entriesPrefix)
	if err != nil {
		return nil, cerr.WrapStorageReadError("activity entries", err)
	}

	wanted := make(map[activitylog.EventType]bool, len(types))
	for _, t := range types {
		wanted[t] = true
	}

	var all []*activitylog.Entry
	for _, p := range paths {
		data, err := r.storage.Read(ctx, p)
		if err != nil {
			continue
		}
		var e activitylog.Entry
		if err := yaml.Unmarshal(data, &e); err != nil {
			continue
		}
		if e.UserID != userID {
			continue
		}
		if len(wanted) > 0 && !wanted[e.EventType] {
			continue
		}
		all = append(all, &e)
	}

	sort.Slice(all, func(i, j int) bool {
		return all[i].CreatedAt.After(all[j].CreatedAt)
	})
	if limit > 0 && len(all) > limit {
		all = all[:limit]
	}
	return all, nil
}

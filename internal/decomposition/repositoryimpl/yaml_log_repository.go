package repositoryimpl

import (
	"context"
	"fmt"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/joymec19/smart-scheduler/internal/decomposition"
	"github.com/joymec19/smart-scheduler/pkg/cerr"
	"github.com/joymec19/smart-scheduler/pkg/storage"
)

const logsPrefix = "decomposition_logs"

type YAMLLogRepository struct {
	storage storage.Storage
}

func NewYAMLLogRepository(s storage.Storage) *YAMLLogRepository {
	return &YAMLLogRepository{storage: s}
}

var _ decomposition.LogRepository = (*YAMLLogRepository)(nil)

func logPath(id string) string {
	return fmt.Sprintf("%s/%s.yaml", logsPrefix, id)
}

func (r *YAMLLogRepository) Create(ctx context.Context, log *decomposition.Log) error {
	return r.write(ctx, log)
}

func (r *YAMLLogRepository) Get(ctx context.Context, id string) (*decomposition.Log, error) {
	data, err := r.storage.Read(ctx, logPath(id))
	if err != nil {
		return nil, cerr.WrapStorageReadError("decomposition log", err)
	}
	var log decomposition.Log
	if err := yaml.Unmarshal(data, &log); err != nil {
		return nil, cerr.NewError(cerr.Internal, "server error", fmt.Errorf("failed to unmarshal decomposition log: %w", err))
	}
	return &log, nil
}

func (r *YAMLLogRepository) UpdateEdits(ctx context.Context, id string, edits []decomposition.Edit) (*decomposition.Log, error) {
	log, err := r.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	log.UserEdits = edits
	if err := r.write(ctx, log); err != nil {
		return nil, err
	}
	return log, nil
}

func (r *YAMLLogRepository) ListRecentWithEdits(ctx context.Context, userID string, limit int) ([]*decomposition.Log, error) {
	all, err := r.listByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	var out []*decomposition.Log
	for _, log := range all {
		if len(log.UserEdits) > 0 {
			out = append(out, log)
		}
	}
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *YAMLLogRepository) ListRecent(ctx context.Context, userID string, limit int) ([]*decomposition.Log, error) {
	all, err := r.listByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if limit > 0 && len(all) > limit {
		all = all[:limit]
	}
	return all, nil
}

// listByUser returns the user's logs newest first.
func (r *YAMLLogRepository) listByUser(ctx context.Context, userID string) ([]*decomposition.Log, error) {
	paths, err := r.storage.List(ctx, logsPrefix)
	if err != nil {
		return nil, cerr.WrapStorageReadError("decomposition logs", err)
	}
	sort.Strings(paths)

	var out []*decomposition.Log
	for _, p := range paths {
		data, err := r.storage.Read(ctx, p)
		if err != nil {
			continue
		}
		var log decomposition.Log
		if err := yaml.Unmarshal(data, &log); err != nil {
			continue
		}
		if log.UserID != userID {
			continue
		}
		out = append(out, &log)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (r *YAMLLogRepository) write(ctx context.Context, log *decomposition.Log) error {
	data, err := yaml.Marshal(log)
	if err != nil {
		return cerr.NewError(cerr.Internal, "server error", fmt.Errorf("failed to marshal decomposition log: %w", err))
	}
	if err := r.storage.Write(ctx, logPath(log.ID), data); err != nil {
		return cerr.WrapStorageWriteError("decomposition log", err)
	}
	return nil
}

package repositoryimpl

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/joymec19/smart-scheduler/internal/preference"
	"github.com/joymec19/smart-scheduler/pkg/cerr"
	"github.com/joymec19/smart-scheduler/pkg/storage"
)

const pathPrefix = "decomposition_preferences/"

type YAMLRepository struct {
	storage storage.Storage
}

func NewYAMLRepository(s storage.Storage) *YAMLRepository {
	return &YAMLRepository{storage: s}
}

var _ preference.Repository = (*YAMLRepository)(nil)

func (r *YAMLRepository) Get(ctx context.Context, userID string) (*preference.Preference, error) {
	data, err := r.storage.Read(ctx, r.path(userID))
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return preference.Default(userID), nil
		}
		return nil, cerr.WrapStorageReadError("preference", err)
	}
	var pref preference.Preference
	if err := yaml.Unmarshal(data, &pref); err != nil {
		return nil, cerr.NewError(cerr.Internal, "failed to unmarshal preference", err)
	}
	return &pref, nil
}

func (r *YAMLRepository) Upsert(ctx context.Context, pref *preference.Preference) error {
	pref.UpdatedAt = time.Now()
	data, err := yaml.Marshal(pref)
	if err != nil {
		return cerr.NewError(cerr.Internal, "failed to marshal preference", err)
	}
	if err := r.storage.Write(ctx, r.path(pref.UserID), data); err != nil {
		return cerr.WrapStorageWriteError("preference", err)
	}
	return nil
}

func (r *YAMLRepository) path(userID string) string {
	return fmt.Sprintf("%s%s.yaml", pathPrefix, userID)
}

package repositoryimpl

import (
	"context"
	"fmt"
	"sort"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/joymec19/smart-scheduler/internal/decomposition"
	"github.com/joymec19/smart-scheduler/internal/task"
	"github.com/joymec19/smart-scheduler/pkg/cerr"
	"github.com/joymec19/smart-scheduler/pkg/storage"
)

const templatesPrefix = "decomposition_templates"

type YAMLTemplateRepository struct {
	storage storage.Storage
}

func NewYAMLTemplateRepository(s storage.Storage) *YAMLTemplateRepository {
	return &YAMLTemplateRepository{storage: s}
}

var _ decomposition.TemplateRepository = (*YAMLTemplateRepository)(nil)

func templatePath(id string) string {
	return fmt.Sprintf("%s/%s.yaml", templatesPrefix, id)
}

func (r *YAMLTemplateRepository) Create(ctx context.Context, tpl *decomposition.Template) error {
	now := time.Now()
	tpl.CreatedAt = now
	tpl.UpdatedAt = now
	return r.write(ctx, tpl)
}

func (r *YAMLTemplateRepository) Update(ctx context.Context, tpl *decomposition.Template) error {
	exists, err := r.storage.Exists(ctx, templatePath(tpl.ID))
	if err != nil {
		return cerr.WrapStorageWriteError("template", err)
	}
	if !exists {
		return cerr.NewError(cerr.NotFound, "template not found", nil)
	}
	tpl.UpdatedAt = time.Now()
	return r.write(ctx, tpl)
}

func (r *YAMLTemplateRepository) Get(ctx context.Context, id string) (*decomposition.Template, error) {
	data, err := r.storage.Read(ctx, templatePath(id))
	if err != nil {
		return nil, cerr.WrapStorageReadError("template", err)
	}
	var tpl decomposition.Template
	if err := yaml.Unmarshal(data, &tpl); err != nil {
		return nil, cerr.NewError(cerr.Internal, "server error", fmt.Errorf("failed to unmarshal template: %w", err))
	}
	return &tpl, nil
}

func (r *YAMLTemplateRepository) FindUserTemplate(ctx context.Context, userID string, category task.Category, subType decomposition.SubType) (*decomposition.Template, error) {
	all, err := r.readAll(ctx)
	if err != nil {
		return nil, err
	}
	var candidates []*decomposition.Template
	for _, tpl := range all {
		if tpl.IsSystem || tpl.UserID != userID {
			continue
		}
		if tpl.Category != category || tpl.SubType != subType {
			continue
		}
		candidates = append(candidates, tpl)
	}
	if len(candidates) == 0 {
		return nil, nil
	}
	sort.Slice(candidates, func(i, j int) bool {
		return candidates[i].UsageCount > candidates[j].UsageCount
	})
	return candidates[0], nil
}

func (r *YAMLTemplateRepository) IncrementUsage(ctx context.Context, id string) error {
	tpl, err := r.Get(ctx, id)
	if err != nil {
		return err
	}
	tpl.UsageCount++
	return r.write(ctx, tpl)
}

func (r *YAMLTemplateRepository) write(ctx context.Context, tpl *decomposition.Template) error {
	data, err := yaml.Marshal(tpl)
	if err != nil {
		return cerr.NewError(cerr.Internal, "server error", fmt.Errorf("failed to marshal template: %w", err))
	}
	if err := r.storage.Write(ctx, templatePath(tpl.ID), data); err != nil {
		return cerr.WrapStorageWriteError("template", err)
	}
	return nil
}

func (r *YAMLTemplateRepository) readAll(ctx context.Context) ([]*decomposition.Template, error) {
	paths, err := r.storage.List(ctx, templatesPrefix)
	if err != nil {
		return nil, cerr.WrapStorageReadError("templates", err)
	}
	sort.Strings(paths)

	var all []*decomposition.Template
	for _, p := range paths {
		data, err := r.storage.Read(ctx, p)
		if err != nil {
			continue
		}
		var tpl decomposition.Template
		if err := yaml.Unmarshal(data, &tpl); err != nil {
			continue
		}
		all = append(all, &tpl)
	}
	return all, nil
}

package v1

import (
	"context"
	"database/sql"

	"github.com/swgwatch/swgwatch/app/core"
	"github.com/swgwatch/swgwatch/pkg/errors"
	"github.com/swgwatch/swgwatch/pkg/types"
)

// ResourceLogic is the plain read path over the resource table. Records
// come back as stored; freshening them is EnrichLogic's job.
type ResourceLogic struct {
	ctx  context.Context
	core *core.Core
}

func NewResourceLogic(ctx context.Context, core *core.Core) *ResourceLogic {
	return &ResourceLogic{
		ctx:  ctx,
		core: core,
	}
}

func (l *ResourceLogic) GetResource(id int64) (*types.PersistedResource, error) {
	resource, err := l.core.Store().ResourceStore().Get(l.ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, errors.New("ResourceLogic.GetResource.NotFound", errors.ERROR_NOT_FOUND, err).Code(404)
		}
		return nil, errors.New("ResourceLogic.GetResource.ResourceStore.Get", errors.ERROR_INTERNAL, err)
	}
	return resource, nil
}

func (l *ResourceLogic) GetResourceByName(name string) (*types.PersistedResource, error) {
	resource, err := l.core.Store().ResourceStore().GetByName(l.ctx, name)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, errors.New("ResourceLogic.GetResourceByName.NotFound", errors.ERROR_NOT_FOUND, err).Code(404)
		}
		return nil, errors.New("ResourceLogic.GetResourceByName.ResourceStore.GetByName", errors.ERROR_INTERNAL, err)
	}
	return resource, nil
}

func (l *ResourceLogic) ListResources(opts types.ListResourceOptions, page, pageSize uint64) ([]*types.PersistedResource, int64, error) {
	list, err := l.core.Store().ResourceStore().List(l.ctx, opts, page, pageSize)
	if err != nil && err != sql.ErrNoRows {
		return nil, 0, errors.New("ResourceLogic.ListResources.ResourceStore.List", errors.ERROR_INTERNAL, err)
	}

	total, err := l.core.Store().ResourceStore().Total(l.ctx, opts)
	if err != nil {
		return nil, 0, errors.New("ResourceLogic.ListResources.ResourceStore.Total", errors.ERROR_INTERNAL, err)
	}
	return list, total, nil
}

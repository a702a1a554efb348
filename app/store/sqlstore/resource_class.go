package sqlstore

import (
	"context"
	"time"

	sq "github.com/Masterminds/squirrel"

	"github.com/swgwatch/swgwatch/pkg/register"
	"github.com/swgwatch/swgwatch/pkg/types"
)

func init() {
	register.RegisterFunc[*Provider](RegisterKey{}, func(provider *Provider) {
		provider.stores.ResourceClassStore = NewResourceClassStore(provider)
	})
}

// ResourceClassStore handles the classification hierarchy table. Imports
// replace the whole tree, so the only write paths are DeleteAll + Create.
type ResourceClassStore struct {
	CommonFields
}

func NewResourceClassStore(provider SqlProviderAchieve) *ResourceClassStore {
	store := &ResourceClassStore{}
	store.SetProvider(provider)
	store.SetTable(types.TABLE_RESOURCE_CLASS)
	store.SetAllColumns("id", "numeric_id", "name", "parent_id", "depth",
		"recycled", "harvested", "ranges", "created_at")
	return store
}

func (s *ResourceClassStore) DeleteAll(ctx context.Context) error {
	query := sq.Delete(s.GetTable())

	queryString, args, err := query.ToSql()
	if err != nil {
		return ErrorSqlBuild(err)
	}

	_, err = s.GetMaster(ctx).Exec(queryString, args...)
	return err
}

func (s *ResourceClassStore) Create(ctx context.Context, data types.ResourceClassNode) error {
	if data.CreatedAt == 0 {
		data.CreatedAt = time.Now().Unix()
	}

	query := sq.Insert(s.GetTable()).
		Columns(s.GetAllColumns()...).
		Values(data.ID, data.NumericID, data.Name, data.ParentID, data.Depth,
			data.Recycled, data.Harvested, data.Ranges, data.CreatedAt)

	queryString, args, err := query.ToSql()
	if err != nil {
		return ErrorSqlBuild(err)
	}

	_, err = s.GetMaster(ctx).Exec(queryString, args...)
	return err
}

func (s *ResourceClassStore) Get(ctx context.Context, id string) (*types.ResourceClassNode, error) {
	var node types.ResourceClassNode
	query := sq.Select(s.GetAllColumns()...).
		From(s.GetTable()).
		Where(sq.Eq{"id": id})

	queryString, args, err := query.ToSql()
	if err != nil {
		return nil, ErrorSqlBuild(err)
	}

	if err = s.GetReplica(ctx).Get(&node, queryString, args...); err != nil {
		return nil, err
	}
	return &node, nil
}

func (s *ResourceClassStore) GetByNumericID(ctx context.Context, numericID int64) (*types.ResourceClassNode, error) {
	var node types.ResourceClassNode
	query := sq.Select(s.GetAllColumns()...).
		From(s.GetTable()).
		Where(sq.Eq{"numeric_id": numericID}).
		Limit(1)

	queryString, args, err := query.ToSql()
	if err != nil {
		return nil, ErrorSqlBuild(err)
	}

	if err = s.GetReplica(ctx).Get(&node, queryString, args...); err != nil {
		return nil, err
	}
	return &node, nil
}

func (s *ResourceClassStore) ListChildren(ctx context.Context, parentID string) ([]*types.ResourceClassNode, error) {
	var nodes []*types.ResourceClassNode
	query := sq.Select(s.GetAllColumns()...).
		From(s.GetTable()).
		Where(sq.Eq{"parent_id": parentID}).
		OrderBy("name ASC")

	queryString, args, err := query.ToSql()
	if err != nil {
		return nil, ErrorSqlBuild(err)
	}

	if err = s.GetReplica(ctx).Select(&nodes, queryString, args...); err != nil {
		return nil, err
	}
	return nodes, nil
}

func (s *ResourceClassStore) ListByNamePrefix(ctx context.Context, prefix string, limit uint64) ([]*types.ResourceClassNode, error) {
	var nodes []*types.ResourceClassNode
	query := sq.Select(s.GetAllColumns()...).
		From(s.GetTable()).
		Where(sq.Expr("lower(name) LIKE lower(?)", prefix+"%")).
		OrderBy("name ASC").
		Limit(limit)

	queryString, args, err := query.ToSql()
	if err != nil {
		return nil, ErrorSqlBuild(err)
	}

	if err = s.GetReplica(ctx).Select(&nodes, queryString, args...); err != nil {
		return nil, err
	}
	return nodes, nil
}

func (s *ResourceClassStore) ListByNameSubstring(ctx context.Context, sub string, limit uint64) ([]*types.ResourceClassNode, error) {
	var nodes []*types.ResourceClassNode
	query := sq.Select(s.GetAllColumns()...).
		From(s.GetTable()).
		Where(sq.Expr("lower(name) LIKE lower(?)", "%"+sub+"%")).
		Where(sq.Expr("lower(name) NOT LIKE lower(?)", sub+"%")).
		OrderBy("name ASC").
		Limit(limit)

	queryString, args, err := query.ToSql()
	if err != nil {
		return nil, ErrorSqlBuild(err)
	}

	if err = s.GetReplica(ctx).Select(&nodes, queryString, args...); err != nil {
		return nil, err
	}
	return nodes, nil
}

func (s *ResourceClassStore) Count(ctx context.Context) (int64, error) {
	var count int64
	query := sq.Select("COUNT(*)").From(s.GetTable())

	queryString, args, err := query.ToSql()
	if err != nil {
		return 0, ErrorSqlBuild(err)
	}

	if err = s.GetReplica(ctx).Get(&count, queryString, args...); err != nil {
		return 0, err
	}
	return count, nil
}

package sqlstore

import (
	"context"

	sq "github.com/Masterminds/squirrel"

	"github.com/swgwatch/swgwatch/pkg/register"
	"github.com/swgwatch/swgwatch/pkg/types"
)

func init() {
	register.RegisterFunc[*Provider](RegisterKey{}, func(provider *Provider) {
		provider.stores.CacheTimestampStore = NewCacheTimestampStore(provider)
	})
}

// CacheTimestampStore records the last successful sync per dataset for
// the freshness gate. One row per dataset key.
type CacheTimestampStore struct {
	CommonFields
}

func NewCacheTimestampStore(provider SqlProviderAchieve) *CacheTimestampStore {
	store := &CacheTimestampStore{}
	store.SetProvider(provider)
	store.SetTable(types.TABLE_CACHE_TIMESTAMP)
	store.SetAllColumns("dataset_key", "last_updated")
	return store
}

func (s *CacheTimestampStore) Get(ctx context.Context, datasetKey string) (*types.CacheTimestamp, error) {
	var entry types.CacheTimestamp
	query := sq.Select(s.GetAllColumns()...).
		From(s.GetTable()).
		Where(sq.Eq{"dataset_key": datasetKey})

	queryString, args, err := query.ToSql()
	if err != nil {
		return nil, ErrorSqlBuild(err)
	}

	if err = s.GetReplica(ctx).Get(&entry, queryString, args...); err != nil {
		return nil, err
	}
	return &entry, nil
}

func (s *CacheTimestampStore) Upsert(ctx context.Context, datasetKey string, lastUpdated int64) error {
	query := sq.Insert(s.GetTable()).
		Columns(s.GetAllColumns()...).
		Values(datasetKey, lastUpdated).
		Suffix("ON CONFLICT (dataset_key) DO UPDATE SET last_updated = EXCLUDED.last_updated")

	queryString, args, err := query.ToSql()
	if err != nil {
		return ErrorSqlBuild(err)
	}

	_, err = s.GetMaster(ctx).Exec(queryString, args...)
	return err
}

package sqlstore

import (
	"context"

	sq "github.com/Masterminds/squirrel"

	"github.com/swgwatch/swgwatch/pkg/register"
	"github.com/swgwatch/swgwatch/pkg/types"
)

func init() {
	register.RegisterFunc[*Provider](RegisterKey{}, func(provider *Provider) {
		provider.stores.TreeMetadataStore = NewTreeMetadataStore(provider)
	})
}

// TreeMetadataStore keeps a single diagnostics row describing the last
// hierarchy import.
type TreeMetadataStore struct {
	CommonFields
}

const treeMetadataRowID = 1

func NewTreeMetadataStore(provider SqlProviderAchieve) *TreeMetadataStore {
	store := &TreeMetadataStore{}
	store.SetProvider(provider)
	store.SetTable(types.TABLE_TREE_METADATA)
	store.SetAllColumns("id", "source_time", "node_count", "imported_at")
	return store
}

func (s *TreeMetadataStore) Upsert(ctx context.Context, data types.TreeMetadata) error {
	query := sq.Insert(s.GetTable()).
		Columns(s.GetAllColumns()...).
		Values(treeMetadataRowID, data.SourceTime, data.NodeCount, data.ImportedAt).
		Suffix("ON CONFLICT (id) DO UPDATE SET source_time = EXCLUDED.source_time, node_count = EXCLUDED.node_count, imported_at = EXCLUDED.imported_at")

	queryString, args, err := query.ToSql()
	if err != nil {
		return ErrorSqlBuild(err)
	}

	_, err = s.GetMaster(ctx).Exec(queryString, args...)
	return err
}

func (s *TreeMetadataStore) Get(ctx context.Context) (*types.TreeMetadata, error) {
	var meta types.TreeMetadata
	query := sq.Select(s.GetAllColumns()...).
		From(s.GetTable()).
		Where(sq.Eq{"id": treeMetadataRowID})

	queryString, args, err := query.ToSql()
	if err != nil {
		return nil, ErrorSqlBuild(err)
	}

	if err = s.GetReplica(ctx).Get(&meta, queryString, args...); err != nil {
		return nil, err
	}
	return &meta, nil
}

package sqlstore

import (
	"context"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/lib/pq"

	"github.com/swgwatch/swgwatch/pkg/register"
	"github.com/swgwatch/swgwatch/pkg/types"
)

func init() {
	register.RegisterFunc[*Provider](RegisterKey{}, func(provider *Provider) {
		provider.stores.ResourceStore = NewResourceStore(provider)
	})
}

// ResourceStore handles the harvestable resource table. Resources are
// never hard-deleted; the despawn sweep only flips state.
type ResourceStore struct {
	CommonFields
}

func NewResourceStore(provider SqlProviderAchieve) *ResourceStore {
	store := &ResourceStore{}
	store.SetProvider(provider)
	store.SetTable(types.TABLE_RESOURCE)
	store.SetAllColumns("id", "name", "type_label", "class_id", "class_path",
		"cr", "cd", "dr", "er", "fl", "hr", "ma", "oq", "pe", "sr", "ut",
		"planets", "is_spawned", "enter_at", "despawn_at", "last_enriched_at",
		"quality_score", "best_uses", "avg_concentration", "created_at", "updated_at")
	return store
}

func (s *ResourceStore) statValues(data types.PersistedResource) []interface{} {
	return []interface{}{
		data.CR, data.CD, data.DR, data.ER, data.FL, data.HR,
		data.MA, data.OQ, data.PE, data.SR, data.UT,
	}
}

func (s *ResourceStore) Create(ctx context.Context, data types.PersistedResource) error {
	if data.CreatedAt == 0 {
		data.CreatedAt = time.Now().Unix()
	}
	if data.UpdatedAt == 0 {
		data.UpdatedAt = data.CreatedAt
	}

	values := append([]interface{}{data.ID, data.Name, data.TypeLabel, data.ClassID, data.ClassPath},
		s.statValues(data)...)
	values = append(values, data.Planets, data.IsSpawned, data.EnterAt, data.DespawnAt,
		data.LastEnrichedAt, data.QualityScore, data.BestUses, data.AvgConcentration,
		data.CreatedAt, data.UpdatedAt)

	query := sq.Insert(s.GetTable()).
		Columns(s.GetAllColumns()...).
		Values(values...)

	queryString, args, err := query.ToSql()
	if err != nil {
		return ErrorSqlBuild(err)
	}

	_, err = s.GetMaster(ctx).Exec(queryString, args...)
	return err
}

// Update rewrites the snapshot-owned fields of an existing row. EnterAt
// and CreatedAt are preserved so history survives a respawn.
func (s *ResourceStore) Update(ctx context.Context, data types.PersistedResource) error {
	query := sq.Update(s.GetTable()).
		Set("name", data.Name).
		Set("type_label", data.TypeLabel).
		Set("class_id", data.ClassID).
		Set("class_path", data.ClassPath).
		Set("cr", data.CR).
		Set("cd", data.CD).
		Set("dr", data.DR).
		Set("er", data.ER).
		Set("fl", data.FL).
		Set("hr", data.HR).
		Set("ma", data.MA).
		Set("oq", data.OQ).
		Set("pe", data.PE).
		Set("sr", data.SR).
		Set("ut", data.UT).
		Set("planets", data.Planets).
		Set("is_spawned", data.IsSpawned).
		Set("despawn_at", data.DespawnAt).
		Set("quality_score", data.QualityScore).
		Set("best_uses", data.BestUses).
		Set("avg_concentration", data.AvgConcentration).
		Set("updated_at", time.Now().Unix()).
		Where(sq.Eq{"id": data.ID})

	queryString, args, err := query.ToSql()
	if err != nil {
		return ErrorSqlBuild(err)
	}

	_, err = s.GetMaster(ctx).Exec(queryString, args...)
	return err
}

func (s *ResourceStore) Get(ctx context.Context, id int64) (*types.PersistedResource, error) {
	var resource types.PersistedResource
	query := sq.Select(s.GetAllColumns()...).
		From(s.GetTable()).
		Where(sq.Eq{"id": id})

	queryString, args, err := query.ToSql()
	if err != nil {
		return nil, ErrorSqlBuild(err)
	}

	if err = s.GetReplica(ctx).Get(&resource, queryString, args...); err != nil {
		return nil, err
	}
	return &resource, nil
}

func (s *ResourceStore) GetByName(ctx context.Context, name string) (*types.PersistedResource, error) {
	var resource types.PersistedResource
	query := sq.Select(s.GetAllColumns()...).
		From(s.GetTable()).
		Where(sq.Expr("lower(name) = lower(?)", name)).
		Limit(1)

	queryString, args, err := query.ToSql()
	if err != nil {
		return nil, ErrorSqlBuild(err)
	}

	if err = s.GetReplica(ctx).Get(&resource, queryString, args...); err != nil {
		return nil, err
	}
	return &resource, nil
}

func (s *ResourceStore) ListSpawnedIDs(ctx context.Context) ([]int64, error) {
	var ids []int64
	query := sq.Select("id").
		From(s.GetTable()).
		Where(sq.Eq{"is_spawned": true})

	queryString, args, err := query.ToSql()
	if err != nil {
		return nil, ErrorSqlBuild(err)
	}

	if err = s.GetReplica(ctx).Select(&ids, queryString, args...); err != nil {
		return nil, err
	}
	return ids, nil
}

func (s *ResourceStore) DespawnMissing(ctx context.Context, keep []int64, at int64) (int64, error) {
	query := sq.Update(s.GetTable()).
		Set("is_spawned", false).
		Set("despawn_at", at).
		Set("updated_at", at).
		Where(sq.Eq{"is_spawned": true})

	// An empty keep set despawns every spawned row: an empty feed is never
	// read as "nothing changed".
	if len(keep) > 0 {
		query = query.Where(sq.Expr("NOT (id = ANY(?))", pq.Array(keep)))
	}

	queryString, args, err := query.ToSql()
	if err != nil {
		return 0, ErrorSqlBuild(err)
	}

	result, err := s.GetMaster(ctx).Exec(queryString, args...)
	if err != nil {
		return 0, err
	}
	affected, _ := result.RowsAffected()
	return affected, nil
}

func (s *ResourceStore) UpdateEnrichment(ctx context.Context, id int64, stats types.ResourceStats, qualityScore float64, at int64) error {
	query := sq.Update(s.GetTable()).
		Set("cr", stats.CR).
		Set("cd", stats.CD).
		Set("dr", stats.DR).
		Set("er", stats.ER).
		Set("fl", stats.FL).
		Set("hr", stats.HR).
		Set("ma", stats.MA).
		Set("oq", stats.OQ).
		Set("pe", stats.PE).
		Set("sr", stats.SR).
		Set("ut", stats.UT).
		Set("quality_score", qualityScore).
		Set("last_enriched_at", at).
		Set("updated_at", at).
		Where(sq.Eq{"id": id})

	queryString, args, err := query.ToSql()
	if err != nil {
		return ErrorSqlBuild(err)
	}

	_, err = s.GetMaster(ctx).Exec(queryString, args...)
	return err
}

func (s *ResourceStore) listQuery(opts types.ListResourceOptions) sq.SelectBuilder {
	query := sq.Select(s.GetAllColumns()...).From(s.GetTable())
	if opts.SpawnedOnly {
		query = query.Where(sq.Eq{"is_spawned": true})
	}
	if opts.ClassID != "" {
		query = query.Where(sq.Eq{"class_id": opts.ClassID})
	}
	if opts.NameLike != "" {
		query = query.Where(sq.Expr("lower(name) LIKE lower(?)", "%"+opts.NameLike+"%"))
	}
	return query
}

func (s *ResourceStore) List(ctx context.Context, opts types.ListResourceOptions, page, pageSize uint64) ([]*types.PersistedResource, error) {
	var resources []*types.PersistedResource
	query := s.listQuery(opts).OrderBy("enter_at DESC")
	if page > 0 && pageSize > 0 {
		query = query.Offset((page - 1) * pageSize).Limit(pageSize)
	}

	queryString, args, err := query.ToSql()
	if err != nil {
		return nil, ErrorSqlBuild(err)
	}

	if err = s.GetReplica(ctx).Select(&resources, queryString, args...); err != nil {
		return nil, err
	}
	return resources, nil
}

func (s *ResourceStore) Total(ctx context.Context, opts types.ListResourceOptions) (int64, error) {
	var total int64
	query := s.listQuery(opts)
	query = sq.Select("COUNT(*)").FromSelect(query, "t")

	queryString, args, err := query.ToSql()
	if err != nil {
		return 0, ErrorSqlBuild(err)
	}

	if err = s.GetReplica(ctx).Get(&total, queryString, args...); err != nil {
		return 0, err
	}
	return total, nil
}

func (s *ResourceStore) CountByClass(ctx context.Context) (map[string]int64, error) {
	query := sq.Select("type_label", "COUNT(*) AS total").
		From(s.GetTable()).
		Where(sq.Eq{"is_spawned": true}).
		GroupBy("type_label")

	queryString, args, err := query.ToSql()
	if err != nil {
		return nil, ErrorSqlBuild(err)
	}

	rows, err := s.GetReplica(ctx).Queryx(queryString, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := make(map[string]int64)
	for rows.Next() {
		var (
			label string
			total int64
		)
		if err := rows.Scan(&label, &total); err != nil {
			return nil, err
		}
		result[label] = total
	}
	return result, rows.Err()
}

func (s *ResourceStore) TopQuality(ctx context.Context, limit uint64) ([]*types.PersistedResource, error) {
	var resources []*types.PersistedResource
	query := sq.Select(s.GetAllColumns()...).
		From(s.GetTable()).
		Where(sq.Eq{"is_spawned": true}).
		OrderBy("quality_score DESC").
		Limit(limit)

	queryString, args, err := query.ToSql()
	if err != nil {
		return nil, ErrorSqlBuild(err)
	}

	if err = s.GetReplica(ctx).Select(&resources, queryString, args...); err != nil {
		return nil, err
	}
	return resources, nil
}

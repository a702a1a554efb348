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
		provider.stores.SaleStore = NewSaleStore(provider)
	})
}

// SaleStore handles extracted sale events. Inserts are idempotent per
// source mail, so retrying an extraction pass is harmless.
type SaleStore struct {
	CommonFields
}

func NewSaleStore(provider SqlProviderAchieve) *SaleStore {
	store := &SaleStore{}
	store.SetProvider(provider)
	store.SetTable(types.TABLE_SALE)
	store.SetAllColumns("id", "mail_id", "sold_at", "item_name", "buyer", "credits", "category", "tier", "created_at")
	return store
}

func (s *SaleStore) Create(ctx context.Context, data *types.SaleEvent) (bool, error) {
	if data.CreatedAt == 0 {
		data.CreatedAt = time.Now().Unix()
	}

	query := sq.Insert(s.GetTable()).
		Columns(s.GetAllColumns()...).
		Values(data.ID, data.MailID, data.SoldAt, data.ItemName, data.Buyer,
			data.Credits, data.Category, data.Tier, data.CreatedAt).
		Suffix("ON CONFLICT (mail_id) DO NOTHING")

	queryString, args, err := query.ToSql()
	if err != nil {
		return false, ErrorSqlBuild(err)
	}

	result, err := s.GetMaster(ctx).Exec(queryString, args...)
	if err != nil {
		return false, err
	}
	affected, _ := result.RowsAffected()
	return affected > 0, nil
}

func (s *SaleStore) GetByMailID(ctx context.Context, mailID int64) (*types.SaleEvent, error) {
	var sale types.SaleEvent
	query := sq.Select(s.GetAllColumns()...).
		From(s.GetTable()).
		Where(sq.Eq{"mail_id": mailID})

	queryString, args, err := query.ToSql()
	if err != nil {
		return nil, ErrorSqlBuild(err)
	}

	if err = s.GetReplica(ctx).Get(&sale, queryString, args...); err != nil {
		return nil, err
	}
	return &sale, nil
}

func (s *SaleStore) List(ctx context.Context, page, pageSize uint64) ([]*types.SaleEvent, error) {
	var sales []*types.SaleEvent
	query := sq.Select(s.GetAllColumns()...).
		From(s.GetTable()).
		OrderBy("sold_at DESC")
	if page > 0 && pageSize > 0 {
		query = query.Offset((page - 1) * pageSize).Limit(pageSize)
	}

	queryString, args, err := query.ToSql()
	if err != nil {
		return nil, ErrorSqlBuild(err)
	}

	if err = s.GetReplica(ctx).Select(&sales, queryString, args...); err != nil {
		return nil, err
	}
	return sales, nil
}

func (s *SaleStore) SummarizeByCategoryTier(ctx context.Context, limit uint64) ([]types.SaleSummary, error) {
	var summaries []types.SaleSummary
	query := sq.Select("category", "tier", "COUNT(*) AS count", "SUM(credits) AS sum_credits").
		From(s.GetTable()).
		GroupBy("category", "tier").
		OrderBy("sum_credits DESC").
		Limit(limit)

	queryString, args, err := query.ToSql()
	if err != nil {
		return nil, ErrorSqlBuild(err)
	}

	if err = s.GetReplica(ctx).Select(&summaries, queryString, args...); err != nil {
		return nil, err
	}
	return summaries, nil
}

func (s *SaleStore) TotalCredits(ctx context.Context) (int64, error) {
	var total int64
	query := sq.Select("COALESCE(SUM(credits), 0)").From(s.GetTable())

	queryString, args, err := query.ToSql()
	if err != nil {
		return 0, ErrorSqlBuild(err)
	}

	if err = s.GetReplica(ctx).Get(&total, queryString, args...); err != nil {
		return 0, err
	}
	return total, nil
}

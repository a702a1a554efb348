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
		provider.stores.MailStore = NewMailStore(provider)
	})
}

// MailStore handles the archived in-game mail table.
type MailStore struct {
	CommonFields
}

func NewMailStore(provider SqlProviderAchieve) *MailStore {
	store := &MailStore{}
	store.SetProvider(provider)
	store.SetTable(types.TABLE_MAIL)
	store.SetAllColumns("id", "message_id", "sender", "subject", "body", "sent_at", "created_at")
	return store
}

// Create inserts a mail, ignoring duplicates of the same source message.
// The bool reports whether a row was actually written.
func (s *MailStore) Create(ctx context.Context, data *types.GameMail) (bool, error) {
	if data.CreatedAt == 0 {
		data.CreatedAt = time.Now().Unix()
	}

	query := sq.Insert(s.GetTable()).
		Columns(s.GetAllColumns()...).
		Values(data.ID, data.MessageID, data.Sender, data.Subject, data.Body, data.SentAt, data.CreatedAt).
		Suffix("ON CONFLICT (message_id) DO NOTHING")

	queryString, args, err := query.ToSql()
	if err != nil {
		return false, ErrorSqlBuild(err)
	}

	result, err := s.GetMaster(ctx).Exec(queryString, args...)
	if err != nil {
		return false, err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected > 0, nil
}

func (s *MailStore) Get(ctx context.Context, id int64) (*types.GameMail, error) {
	var mail types.GameMail
	query := sq.Select(s.GetAllColumns()...).
		From(s.GetTable()).
		Where(sq.Eq{"id": id})

	queryString, args, err := query.ToSql()
	if err != nil {
		return nil, ErrorSqlBuild(err)
	}

	if err = s.GetReplica(ctx).Get(&mail, queryString, args...); err != nil {
		return nil, err
	}
	return &mail, nil
}

// ListUnprocessedSales left-anti-joins mails against sales on mail id, so
// a mail already converted once never comes back.
func (s *MailStore) ListUnprocessedSales(ctx context.Context, sender, subjectLike string, limit uint64) ([]*types.GameMail, error) {
	var mails []*types.GameMail

	saleTable := types.TABLE_SALE.Name()
	query := sq.Select(
		"m.id", "m.message_id", "m.sender", "m.subject", "m.body", "m.sent_at", "m.created_at").
		From(s.GetTable() + " m").
		LeftJoin(saleTable + " sa ON sa.mail_id = m.id").
		Where(sq.Eq{"m.sender": sender}).
		Where(sq.Expr("m.subject LIKE ?", subjectLike)).
		Where(sq.Expr("sa.id IS NULL")).
		OrderBy("m.sent_at ASC").
		Limit(limit)

	queryString, args, err := query.ToSql()
	if err != nil {
		return nil, ErrorSqlBuild(err)
	}

	if err = s.GetReplica(ctx).Select(&mails, queryString, args...); err != nil {
		return nil, err
	}
	return mails, nil
}

package v1

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/swgwatch/swgwatch/app/core"
	"github.com/swgwatch/swgwatch/pkg/errors"
	"github.com/swgwatch/swgwatch/pkg/types"
	"github.com/swgwatch/swgwatch/pkg/utils"
)

// MailLogic archives raw in-game mails so the sale extractor has a feed
// to work from. Duplicate submissions of the same source message are
// absorbed, re-uploading an archive is safe.
type MailLogic struct {
	ctx  context.Context
	core *core.Core
}

func NewMailLogic(ctx context.Context, core *core.Core) *MailLogic {
	return &MailLogic{
		ctx:  ctx,
		core: core,
	}
}

// IncomingMail is one mail as submitted by an archive upload.
type IncomingMail struct {
	MessageID string `json:"message_id" binding:"required"`
	Sender    string `json:"sender"`
	Subject   string `json:"subject"`
	Body      string `json:"body"`
	SentAt    int64  `json:"sent_at"`
}

// ImportMails stores a batch of archived mails and reports how many rows
// were newly written. Entries without a source message id are skipped.
func (l *MailLogic) ImportMails(batch []IncomingMail) (int64, error) {
	var created int64
	for _, in := range batch {
		if strings.TrimSpace(in.MessageID) == "" {
			continue
		}

		mail := &types.GameMail{
			ID:        utils.GenUniqID(),
			MessageID: in.MessageID,
			Sender:    in.Sender,
			Subject:   in.Subject,
			Body:      in.Body,
			SentAt:    in.SentAt,
		}
		if mail.SentAt == 0 {
			mail.SentAt = time.Now().Unix()
		}

		inserted, err := l.core.Store().MailStore().Create(l.ctx, mail)
		if err != nil {
			return created, errors.New("MailLogic.ImportMails.MailStore.Create", errors.ERROR_INTERNAL, err)
		}
		if inserted {
			created++
		}
	}

	if len(batch) > 0 {
		slog.Info("mail archive import finished",
			slog.Int("submitted", len(batch)),
			slog.Int64("created", created))
	}
	return created, nil
}

package v1

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestImportMailsDedupesByMessageID(t *testing.T) {
	c, p := newTestCore()
	logic := NewMailLogic(context.Background(), c)

	batch := []IncomingMail{
		{MessageID: "a-1", Sender: "SWG.ANH.auctioner", Subject: "Sale Complete", Body: "body one", SentAt: 1700000000},
		{MessageID: "a-2", Sender: "SWG.ANH.auctioner", Subject: "Sale Complete", Body: "body two", SentAt: 1700000100},
		{MessageID: "", Sender: "SWG.ANH.auctioner", Subject: "no source id", Body: "skipped"},
	}

	created, err := logic.ImportMails(batch)
	require.NoError(t, err)
	assert.EqualValues(t, 2, created)

	again, err := logic.ImportMails(batch)
	require.NoError(t, err)
	assert.EqualValues(t, 0, again)

	p.mails.mu.Lock()
	defer p.mails.mu.Unlock()
	assert.Len(t, p.mails.data, 2)
}

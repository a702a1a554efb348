package v1

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/swgwatch/swgwatch/pkg/types"
)

func TestParseSaleBodyAuction(t *testing.T) {
	body := "Your auction of [SEA] Mark II Booster has been sold to Demi'Urge MorningStar for 15000 credits"

	sale, ok := parseSaleBody(body)
	require.True(t, ok)
	assert.Equal(t, "Mark II Booster", sale.ItemName)
	assert.Equal(t, "Demi'Urge MorningStar", sale.Buyer)
	assert.EqualValues(t, 15000, sale.Credits)
	assert.Equal(t, "II", sale.Tier)
	assert.Equal(t, "Booster", sale.Category)
}

func TestParseSaleBodyVendor(t *testing.T) {
	body := "Vendor: Scrapheap Sally has sold Capacitor IV to Kessel Runner for 4200 credits"

	sale, ok := parseSaleBody(body)
	require.True(t, ok)
	assert.Equal(t, "Capacitor IV", sale.ItemName)
	assert.Equal(t, "Kessel Runner", sale.Buyer)
	assert.EqualValues(t, 4200, sale.Credits)
	assert.Equal(t, "IV", sale.Tier)
	assert.Equal(t, "Capacitor", sale.Category)
}

func TestParseSaleBodyColorWeapon(t *testing.T) {
	body := "Your auction of Green Turbo Blaster has been sold to Somebody for 100 credits"

	sale, ok := parseSaleBody(body)
	require.True(t, ok)
	assert.Equal(t, "Green Blaster", sale.Category)
	assert.Empty(t, sale.Tier)
}

func TestParseSaleBodyNoMatch(t *testing.T) {
	_, ok := parseSaleBody("Greetings pilot, your clan dues are overdue.")
	assert.False(t, ok)
}

func TestParseSaleBodyKeepsNullsForUnknownItem(t *testing.T) {
	body := "Your auction of Mysterious Trinket has been sold to Someone for 50 credits"

	sale, ok := parseSaleBody(body)
	require.True(t, ok)
	assert.Equal(t, "Mysterious Trinket", sale.ItemName)
	assert.Empty(t, sale.Tier)
	assert.Empty(t, sale.Category)
}

func archiveMail(t *testing.T, p *fakeProvider, mail types.GameMail) {
	t.Helper()
	_, err := p.mails.Create(context.Background(), &mail)
	require.NoError(t, err)
}

func TestExtractUnprocessedIdempotent(t *testing.T) {
	c, p := newTestCore()
	logic := NewSalesLogic(context.Background(), c)

	sender := c.Cfg().Sales.Sender
	archiveMail(t, p, types.GameMail{
		ID: 1, MessageID: "m-1", Sender: sender, Subject: "Sale Complete", SentAt: 1700000000,
		Body: "Your auction of [SEA] Mark II Booster has been sold to Demi'Urge MorningStar for 15000 credits",
	})
	archiveMail(t, p, types.GameMail{
		ID: 2, MessageID: "m-2", Sender: sender, Subject: "Sale Complete", SentAt: 1700000100,
		Body: "A message that is not about any sale at all",
	})
	archiveMail(t, p, types.GameMail{
		ID: 3, MessageID: "m-3", Sender: "someone-else", Subject: "Sale Complete", SentAt: 1700000200,
		Body: "Your auction of Thing has been sold to Buyer for 10 credits",
	})

	created, err := logic.ExtractUnprocessed()
	require.NoError(t, err)
	assert.EqualValues(t, 1, created)

	sale, err := p.sales.GetByMailID(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, "Mark II Booster", sale.ItemName)
	assert.EqualValues(t, 1700000000, sale.SoldAt)

	again, err := logic.ExtractUnprocessed()
	require.NoError(t, err)
	assert.EqualValues(t, 0, again)
}

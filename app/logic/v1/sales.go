package v1

import (
	"context"
	"log/slog"
	"regexp"
	"strconv"
	"strings"

	"github.com/swgwatch/swgwatch/app/core"
	"github.com/swgwatch/swgwatch/pkg/errors"
	"github.com/swgwatch/swgwatch/pkg/types"
	"github.com/swgwatch/swgwatch/pkg/utils"
)

// SalesLogic converts archived sale-notification mails into structured
// sale events. Extraction is idempotent: already-converted mails are
// excluded up front and inserts ignore conflicts on the mail id.
type SalesLogic struct {
	ctx  context.Context
	core *core.Core
}

func NewSalesLogic(ctx context.Context, core *core.Core) *SalesLogic {
	return &SalesLogic{
		ctx:  ctx,
		core: core,
	}
}

var (
	auctionSaleRe = regexp.MustCompile(`Your auction of (.+?) has been sold to (.+?) for (\d+) credits`)
	vendorSaleRe  = regexp.MustCompile(`Vendor: (?:.+?) has sold (.+?) to (.+?) for (\d+) credits`)

	// Item names arrive prefixed with guild or shop tags like "[SEA]".
	leadingTagRe = regexp.MustCompile(`^\s*(?:\[[^\]]*\]\s*)+`)
	tierTokenRe  = regexp.MustCompile(`\b(IV|V|I{1,3})\b`)
)

// tierSynonyms maps spelled-out grade phrases onto the roman tiers used
// everywhere else.
var tierSynonyms = map[string]string{
	"mark one":     "I",
	"mark two":     "II",
	"mark three":   "III",
	"mark four":    "IV",
	"mark five":    "V",
	"starter":      "I",
	"advanced":     "IV",
	"experimental": "V",
}

// saleCategories is checked in order; the first keyword found in the item
// name wins.
var saleCategories = []struct {
	keyword  string
	category string
	weapon   bool
}{
	{"booster", "Booster", false},
	{"reactor", "Reactor", false},
	{"engine", "Engine", false},
	{"shield", "Shield", false},
	{"capacitor", "Capacitor", false},
	{"droid interface", "Droid Interface", false},
	{"armor", "Armor", false},
	{"blaster", "Blaster", true},
	{"cannon", "Cannon", true},
	{"launcher", "Launcher", true},
	{"ordnance", "Ordnance", true},
}

var weaponColors = []string{"green", "red", "blue", "purple", "black", "white"}

type parsedSale struct {
	ItemName string
	Buyer    string
	Credits  int64
	Category string
	Tier     string
}

// ExtractUnprocessed converts all pending sale mails and reports how many
// sale rows were written. A body matching no known phrasing is counted
// and skipped, never an error.
func (l *SalesLogic) ExtractUnprocessed() (int64, error) {
	cfg := l.core.Cfg().Sales
	mails, err := l.core.Store().MailStore().ListUnprocessedSales(l.ctx, cfg.Sender, cfg.SubjectLike, uint64(cfg.BatchSize))
	if err != nil {
		return 0, errors.New("SalesLogic.ExtractUnprocessed.MailStore.ListUnprocessedSales", errors.ERROR_INTERNAL, err)
	}

	var created int64
	for _, mail := range mails {
		sale, ok := parseSaleBody(mail.Body)
		if !ok {
			l.core.Metrics().SalesExtractedInc("no_match")
			continue
		}

		event := &types.SaleEvent{
			ID:       utils.GenUniqID(),
			MailID:   mail.ID,
			SoldAt:   mail.SentAt,
			ItemName: sale.ItemName,
			Buyer:    sale.Buyer,
			Credits:  sale.Credits,
			Category: sale.Category,
			Tier:     sale.Tier,
		}
		inserted, err := l.core.Store().SaleStore().Create(l.ctx, event)
		if err != nil {
			return created, errors.New("SalesLogic.ExtractUnprocessed.SaleStore.Create", errors.ERROR_INTERNAL, err)
		}
		if inserted {
			created++
			l.core.Metrics().SalesExtractedInc("created")
		} else {
			l.core.Metrics().SalesExtractedInc("duplicate")
		}
	}

	if len(mails) > 0 {
		slog.Info("sale extraction pass finished",
			slog.Int("mails", len(mails)),
			slog.Int64("created", created))
	}
	return created, nil
}

// ListSales pages through extracted sale events, newest first.
func (l *SalesLogic) ListSales(page, pageSize uint64) ([]*types.SaleEvent, error) {
	sales, err := l.core.Store().SaleStore().List(l.ctx, page, pageSize)
	if err != nil {
		return nil, errors.New("SalesLogic.ListSales.SaleStore.List", errors.ERROR_INTERNAL, err)
	}
	return sales, nil
}

// parseSaleBody tries the auction phrasing first, then the vendor one.
// Category and tier may come back empty; the sale is still recorded.
func parseSaleBody(body string) (parsedSale, bool) {
	var sale parsedSale

	m := auctionSaleRe.FindStringSubmatch(body)
	if m == nil {
		m = vendorSaleRe.FindStringSubmatch(body)
	}
	if m == nil {
		return sale, false
	}

	sale.ItemName = stripLeadingTags(m[1])
	sale.Buyer = strings.TrimSpace(m[2])
	sale.Credits, _ = strconv.ParseInt(m[3], 10, 64)
	sale.Tier = deriveTier(sale.ItemName)
	sale.Category = deriveCategory(sale.ItemName)
	return sale, true
}

func stripLeadingTags(item string) string {
	return strings.TrimSpace(leadingTagRe.ReplaceAllString(item, ""))
}

func deriveTier(item string) string {
	if m := tierTokenRe.FindStringSubmatch(item); m != nil {
		return m[1]
	}
	lower := strings.ToLower(item)
	for phrase, tier := range tierSynonyms {
		if strings.Contains(lower, phrase) {
			return tier
		}
	}
	return ""
}

func deriveCategory(item string) string {
	lower := strings.ToLower(item)
	for _, entry := range saleCategories {
		if !strings.Contains(lower, entry.keyword) {
			continue
		}
		if entry.weapon {
			// Weapon listings carry a color grade that buyers shop by,
			// so it stays part of the category.
			for _, color := range weaponColors {
				if strings.Contains(lower, color) {
					return strings.ToUpper(color[:1]) + color[1:] + " " + entry.category
				}
			}
		}
		return entry.category
	}
	return ""
}

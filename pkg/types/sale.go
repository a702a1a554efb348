package types

import (
	"fmt"
	"strings"
)

// GameMail is one archived in-game mail message.
type GameMail struct {
	ID        int64  `json:"id" db:"id"`
	MessageID string `json:"message_id" db:"message_id"` // source archive id, unique
	Sender    string `json:"sender" db:"sender"`
	Subject   string `json:"subject" db:"subject"`
	Body      string `json:"body" db:"body"`
	SentAt    int64  `json:"sent_at" db:"sent_at"`
	CreatedAt int64  `json:"created_at" db:"created_at"`
}

// SaleEvent is a structured sale extracted from a mail body. Keyed by the
// source mail so the same message is never converted twice.
type SaleEvent struct {
	ID       int64  `json:"id" db:"id"`
	MailID   int64  `json:"mail_id" db:"mail_id"`
	SoldAt   int64  `json:"sold_at" db:"sold_at"`
	ItemName string `json:"item_name" db:"item_name"`
	Buyer    string `json:"buyer" db:"buyer"`
	Credits  int64  `json:"credits" db:"credits"`
	// Category and Tier are heuristic; either may be empty when no
	// pattern matched the item name.
	Category  string `json:"category" db:"category"`
	Tier      string `json:"tier" db:"tier"`
	CreatedAt int64  `json:"created_at" db:"created_at"`
}

// CategoryTier is the composite (category, tier) key used to bucket sales.
type CategoryTier struct {
	Category string
	Tier     string
}

func (k CategoryTier) String() string {
	return fmt.Sprintf("%s-%s", k.Category, k.Tier)
}

// ParseCategoryTier splits a "category-tier" token. The tier part is the
// segment after the last dash so category names may themselves contain dashes.
func ParseCategoryTier(s string) (CategoryTier, error) {
	idx := strings.LastIndex(s, "-")
	if idx <= 0 || idx == len(s)-1 {
		return CategoryTier{}, fmt.Errorf("invalid category-tier token: %q", s)
	}
	return CategoryTier{Category: s[:idx], Tier: s[idx+1:]}, nil
}

// SaleSummary aggregates sales for a category/tier bucket.
type SaleSummary struct {
	Category   string `json:"category" db:"category"`
	Tier       string `json:"tier" db:"tier"`
	Count      int64  `json:"count" db:"count"`
	SumCredits int64  `json:"sum_credits" db:"sum_credits"`
}

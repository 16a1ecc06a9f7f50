package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Share is one recorded redemption price of a unit of the pooled investment
// fund. The allocator reads the latest row by insertion order so a burst of
// allocations within one run all convert at the same valuation.
type Share struct {
	ID         int64           `json:"-"`
	ShareID    string          `json:"share_id"`
	GrantPrice decimal.Decimal `json:"grant_price"`
	CreatedAt  time.Time       `json:"created_at"`
}

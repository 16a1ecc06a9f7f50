/*
Copyright 2024 giv2giv Authors.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransitFund records money acknowledged as in flight between two custodial
// accounts, typically the settlement brokerage account and the payment
// gateway's holding account. It is created only off the back of a successful
// dispatch and therefore always carries a gateway transaction reference.
// Cleared flips to true once the gateway confirms final settlement.
type TransitFund struct {
	ID            int64           `json:"-"`
	TransitFundID string          `json:"transit_fund_id"`
	TransactionID string          `json:"transaction_id"`
	Source        string          `json:"source"`
	Destination   string          `json:"destination"`
	Amount        decimal.Decimal `json:"amount"`
	Cleared       bool            `json:"cleared"`
	CreatedAt     time.Time       `json:"created_at"`
}

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

// Package gateway talks to the external payment network that moves net grant
// amounts to charities. Calls are synchronous and network-bound; every failure
// is classified as either retryable (the network call itself could not
// complete) or terminal (the gateway refused the transfer), so callers never
// have to inspect transport errors themselves.
package gateway

import (
	"context"

	"github.com/shopspring/decimal"
)

// Gateway statuses this system normalizes. Anything else passes through
// verbatim as the grant status.
const (
	StatusProcessed = "processed"
	StatusPending   = "pending"
)

// TransactionDetail is the gateway's view of a submitted transfer.
type TransactionDetail struct {
	TransactionID string
	Status        string
	Fees          decimal.Decimal
}

// Client is the payment gateway contract required by the dispatch pipeline.
type Client interface {
	// Send submits an amount to a payee identity and returns the gateway's
	// transaction reference.
	Send(ctx context.Context, destination, memo string, amount decimal.Decimal) (string, error)
	// GetTransactionDetail fetches the status and fees of a prior send.
	GetTransactionDetail(ctx context.Context, transactionID string) (*TransactionDetail, error)
}

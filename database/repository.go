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

package database

import (
	"context"

	"github.com/giv2giv/giv2giv/model"
)

// IDataSource defines the interface for data source operations, grouping related functionalities.
type IDataSource interface {
	grant       // Interface for grant ledger operations
	transitFund // Interface for in-transit fund operations
	share       // Interface for share price reads
	directory   // Interface for read-only charity/endowment/donor lookups
}

// grant defines methods for the grant ledger.
type grant interface {
	CreateGrantBatch(ctx context.Context, drafts []model.GrantDraft) ([]model.Grant, error)                             // Persists one allocation batch atomically, skipping invalid drafts
	UpdateGrantStatus(ctx context.Context, grantID string, fromStatus string, update model.GrantStatusUpdate) error     // Conditionally advances a grant's status
	GetGrant(ctx context.Context, id string) (*model.Grant, error)                                                      // Retrieves a grant by ID
	GetGrantsByStatus(ctx context.Context, status string, limit, offset int) ([]model.Grant, error)                     // Retrieves grants in a given status, oldest first
	GetGrantsByEndowment(ctx context.Context, endowmentID string, limit, offset int) ([]model.Grant, error)             // Retrieves an endowment's grants
}

// transitFund defines methods for the in-transit fund ledger.
type transitFund interface {
	RecordTransitFund(ctx context.Context, fund *model.TransitFund) (*model.TransitFund, error) // Records money acknowledged as in flight
	MarkTransitFundCleared(ctx context.Context, transactionID string) error                     // Flips cleared once the gateway confirms settlement
	GetUnclearedTransitFunds(ctx context.Context) ([]model.TransitFund, error)                  // Retrieves funds still awaiting settlement confirmation
}

// share defines methods for share price reads.
type share interface {
	GetCurrentGrantPrice(ctx context.Context) (*model.Share, error) // Latest recorded share price by insertion order
}

// directory defines read-only lookups; this core never mutates these records.
type directory interface {
	GetCharityByID(ctx context.Context, id string) (*model.Charity, error)
	GetEndowmentByID(ctx context.Context, id string) (*model.Endowment, error)
	GetDonorByID(ctx context.Context, id string) (*model.Donor, error)
	GetEndowmentCharities(ctx context.Context, endowmentID string) ([]model.Charity, error) // Recipient charities in insertion order
}

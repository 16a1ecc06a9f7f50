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

package giv2giv

import (
	"context"

	"github.com/giv2giv/giv2giv/config"
	"github.com/giv2giv/giv2giv/database"
	"github.com/giv2giv/giv2giv/gateway"
	"github.com/giv2giv/giv2giv/model"
)

// Giv2Giv is the grant allocation and settlement service. It owns no
// transport: an upstream donation-processing workflow calls it directly.
type Giv2Giv struct {
	queue      *Queue
	datasource database.IDataSource
	gateway    gateway.Client
}

// NewGiv2Giv initializes the service with the provided datasource, wiring the
// payment gateway client and the dispatch retry queue from configuration.
func NewGiv2Giv(db database.IDataSource) (*Giv2Giv, error) {
	configuration, err := config.Fetch()
	if err != nil {
		return nil, err
	}
	newQueue := NewQueue(configuration)
	gatewayClient := gateway.NewDwollaClient(configuration)
	newGiv2Giv := &Giv2Giv{datasource: db, queue: newQueue, gateway: gatewayClient}
	return newGiv2Giv, nil
}

// CurrentGrantPrice returns the share valuation used to convert currency into
// share units at grant time.
func (g *Giv2Giv) CurrentGrantPrice(ctx context.Context) (*model.Share, error) {
	return g.datasource.GetCurrentGrantPrice(ctx)
}

func (g *Giv2Giv) GetGrant(ctx context.Context, id string) (*model.Grant, error) {
	return g.datasource.GetGrant(ctx, id)
}

func (g *Giv2Giv) GetGrantsByStatus(ctx context.Context, status string, limit, offset int) ([]model.Grant, error) {
	return g.datasource.GetGrantsByStatus(ctx, status, limit, offset)
}

func (g *Giv2Giv) GetUnclearedTransitFunds(ctx context.Context) ([]model.TransitFund, error) {
	return g.datasource.GetUnclearedTransitFunds(ctx)
}

// ConfirmTransitFundCleared is consumed by the settlement-confirmation
// process once the gateway reports final settlement for a transaction.
func (g *Giv2Giv) ConfirmTransitFundCleared(ctx context.Context, transactionID string) error {
	return g.datasource.MarkTransitFundCleared(ctx, transactionID)
}

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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/giv2giv/giv2giv/gateway"
	"github.com/giv2giv/giv2giv/internal/apierror"
	"github.com/giv2giv/giv2giv/model"
)

func TestConfirmTransitFundCleared(t *testing.T) {
	mockGrantsConfig()
	ds := newMockDataSource()
	ds.charities = []model.Charity{{CharityID: "cht_1", Name: "Water Trust", PayoutEmail: "water@example.org"}}
	grant := seedPendingGrant(ds, "cht_1")

	gw := &mockGateway{
		mockGetDetail: func(_ context.Context, transactionID string) (*gateway.TransactionDetail, error) {
			return &gateway.TransactionDetail{TransactionID: transactionID, Status: gateway.StatusPending}, nil
		},
	}
	g := newTestGiv2Giv(ds, gw)

	outcomes := g.DispatchGrants(context.Background(), []model.Grant{*grant})
	require.Len(t, outcomes, 1)
	require.NoError(t, outcomes[0].Err)

	uncleared, err := g.GetUnclearedTransitFunds(context.Background())
	require.NoError(t, err)
	require.Len(t, uncleared, 1)

	require.NoError(t, g.ConfirmTransitFundCleared(context.Background(), uncleared[0].TransactionID))

	uncleared, err = g.GetUnclearedTransitFunds(context.Background())
	require.NoError(t, err)
	assert.Empty(t, uncleared)

	// A second confirmation has nothing left to flip.
	err = g.ConfirmTransitFundCleared(context.Background(), outcomes[0].TransactionID)
	require.Error(t, err)
	assert.True(t, apierror.HasCode(err, apierror.ErrNotFound))
}

func TestGetGrantsByStatus(t *testing.T) {
	mockGrantsConfig()
	ds := newMockDataSource()
	seedPendingGrant(ds, "cht_1")
	settled := seedPendingGrant(ds, "cht_2")
	ds.grants[settled.GrantID].Status = model.StatusAccepted

	g := newTestGiv2Giv(ds, &mockGateway{})

	pending, err := g.GetGrantsByStatus(context.Background(), model.StatusPendingApproval, 10, 0)
	require.NoError(t, err)
	assert.Len(t, pending, 1)
}

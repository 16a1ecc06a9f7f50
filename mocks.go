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
	"time"

	"github.com/shopspring/decimal"

	"github.com/giv2giv/giv2giv/gateway"
	"github.com/giv2giv/giv2giv/internal/apierror"
	"github.com/giv2giv/giv2giv/model"
)

// mockDataSource is an in-memory stand-in for database.IDataSource used by
// pipeline tests. Function fields override individual behaviors; unset fields
// fall back to simple in-memory defaults.
type mockDataSource struct {
	charities    []model.Charity
	sharePrice   decimal.Decimal
	grants       map[string]*model.Grant
	transitFunds []model.TransitFund

	mockCreateGrantBatch  func(ctx context.Context, drafts []model.GrantDraft) ([]model.Grant, error)
	mockGetCurrentPrice   func(ctx context.Context) (*model.Share, error)
	mockUpdateGrantStatus func(ctx context.Context, grantID string, fromStatus string, update model.GrantStatusUpdate) error
	mockGetEndowment      func(ctx context.Context, id string) (*model.Endowment, error)
}

func newMockDataSource() *mockDataSource {
	return &mockDataSource{
		sharePrice: model.MustDecimal("10"),
		grants:     make(map[string]*model.Grant),
	}
}

func (m *mockDataSource) CreateGrantBatch(ctx context.Context, drafts []model.GrantDraft) ([]model.Grant, error) {
	if m.mockCreateGrantBatch != nil {
		return m.mockCreateGrantBatch(ctx, drafts)
	}
	created := make([]model.Grant, 0, len(drafts))
	for _, draft := range drafts {
		if err := draft.Validate(); err != nil {
			continue
		}
		grant := model.Grant{
			GrantID:          model.GenerateUUIDWithSuffix("grt"),
			CharityID:        draft.CharityID,
			EndowmentID:      draft.EndowmentID,
			DonorID:          draft.DonorID,
			SharesSubtracted: draft.SharesSubtracted,
			GrantAmount:      draft.GrantAmount,
			Giv2GivFee:       draft.Giv2GivFee,
			GrantType:        draft.GrantType,
			Status:           draft.Status,
			CreatedAt:        time.Now(),
		}
		m.grants[grant.GrantID] = &grant
		created = append(created, grant)
	}
	return created, nil
}

func (m *mockDataSource) UpdateGrantStatus(ctx context.Context, grantID string, fromStatus string, update model.GrantStatusUpdate) error {
	if m.mockUpdateGrantStatus != nil {
		return m.mockUpdateGrantStatus(ctx, grantID, fromStatus, update)
	}
	grant, ok := m.grants[grantID]
	if !ok {
		return apierror.NewAPIError(apierror.ErrNotFound, "grant not found", nil)
	}
	if grant.Status != fromStatus {
		return apierror.NewAPIError(apierror.ErrStaleGrant, "grant already dispatched", nil)
	}
	grant.Status = update.Status
	grant.TransactionID = update.TransactionID.String
	grant.TransactionFee = update.TransactionFee
	grant.NetAmount = update.NetAmount
	return nil
}

func (m *mockDataSource) GetGrant(_ context.Context, id string) (*model.Grant, error) {
	grant, ok := m.grants[id]
	if !ok {
		return nil, apierror.NewAPIError(apierror.ErrNotFound, "grant not found", nil)
	}
	copied := *grant
	return &copied, nil
}

func (m *mockDataSource) GetGrantsByStatus(_ context.Context, status string, _, _ int) ([]model.Grant, error) {
	var grants []model.Grant
	for _, grant := range m.grants {
		if grant.Status == status {
			grants = append(grants, *grant)
		}
	}
	return grants, nil
}

func (m *mockDataSource) GetGrantsByEndowment(_ context.Context, endowmentID string, _, _ int) ([]model.Grant, error) {
	var grants []model.Grant
	for _, grant := range m.grants {
		if grant.EndowmentID == endowmentID {
			grants = append(grants, *grant)
		}
	}
	return grants, nil
}

func (m *mockDataSource) RecordTransitFund(_ context.Context, fund *model.TransitFund) (*model.TransitFund, error) {
	if fund.TransactionID == "" {
		return nil, apierror.NewAPIError(apierror.ErrInvalidInput, "transit fund requires a transaction reference", nil)
	}
	fund.TransitFundID = model.GenerateUUIDWithSuffix("trf")
	fund.CreatedAt = time.Now()
	m.transitFunds = append(m.transitFunds, *fund)
	return fund, nil
}

func (m *mockDataSource) MarkTransitFundCleared(_ context.Context, transactionID string) error {
	for i := range m.transitFunds {
		if m.transitFunds[i].TransactionID == transactionID && !m.transitFunds[i].Cleared {
			m.transitFunds[i].Cleared = true
			return nil
		}
	}
	return apierror.NewAPIError(apierror.ErrNotFound, "no uncleared transit fund", nil)
}

func (m *mockDataSource) GetUnclearedTransitFunds(_ context.Context) ([]model.TransitFund, error) {
	var funds []model.TransitFund
	for _, fund := range m.transitFunds {
		if !fund.Cleared {
			funds = append(funds, fund)
		}
	}
	return funds, nil
}

func (m *mockDataSource) GetCurrentGrantPrice(ctx context.Context) (*model.Share, error) {
	if m.mockGetCurrentPrice != nil {
		return m.mockGetCurrentPrice(ctx)
	}
	return &model.Share{ShareID: "shr_mock", GrantPrice: m.sharePrice, CreatedAt: time.Now()}, nil
}

func (m *mockDataSource) GetCharityByID(_ context.Context, id string) (*model.Charity, error) {
	for i := range m.charities {
		if m.charities[i].CharityID == id {
			return &m.charities[i], nil
		}
	}
	return nil, apierror.NewAPIError(apierror.ErrNotFound, "charity not found", nil)
}

func (m *mockDataSource) GetEndowmentByID(ctx context.Context, id string) (*model.Endowment, error) {
	if m.mockGetEndowment != nil {
		return m.mockGetEndowment(ctx, id)
	}
	return &model.Endowment{EndowmentID: id, Name: "Mock Endowment"}, nil
}

func (m *mockDataSource) GetDonorByID(_ context.Context, id string) (*model.Donor, error) {
	return &model.Donor{DonorID: id, Name: "Mock Donor"}, nil
}

func (m *mockDataSource) GetEndowmentCharities(_ context.Context, _ string) ([]model.Charity, error) {
	return m.charities, nil
}

// mockGateway scripts gateway responses per test.
type mockGateway struct {
	sendCalls     int
	mockSend      func(ctx context.Context, destination, memo string, amount decimal.Decimal) (string, error)
	mockGetDetail func(ctx context.Context, transactionID string) (*gateway.TransactionDetail, error)
}

func (m *mockGateway) Send(ctx context.Context, destination, memo string, amount decimal.Decimal) (string, error) {
	m.sendCalls++
	if m.mockSend != nil {
		return m.mockSend(ctx, destination, memo, amount)
	}
	return "12345", nil
}

func (m *mockGateway) GetTransactionDetail(ctx context.Context, transactionID string) (*gateway.TransactionDetail, error) {
	if m.mockGetDetail != nil {
		return m.mockGetDetail(ctx, transactionID)
	}
	return &gateway.TransactionDetail{
		TransactionID: transactionID,
		Status:        gateway.StatusProcessed,
		Fees:          decimal.Zero,
	}, nil
}

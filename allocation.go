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

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel"

	"github.com/giv2giv/giv2giv/config"
	"github.com/giv2giv/giv2giv/model"
)

var tracer = otel.Tracer("Grant pipeline")

// AllocationResult is the outcome of splitting one donation event.
type AllocationResult struct {
	Grants   []model.Grant   `json:"grants"`
	Fee      decimal.Decimal `json:"fee"`
	Residual decimal.Decimal `json:"residual"`
}

// allocation holds the deterministic arithmetic of one batch. Every monetary
// step is truncated to two decimal places toward zero; share quantity alone
// keeps the exact division result, the database column being the authority on
// stored precision.
type allocation struct {
	HalfAmount       decimal.Decimal
	Fee              decimal.Decimal
	GrantPool        decimal.Decimal
	PerCharityAmount decimal.Decimal
	SharesPerCharity decimal.Decimal
}

// computeAllocation derives the per-charity amounts for a donation. Only half
// of a contribution is distributed now; the other half stays invested.
func computeAllocation(donationAmount, feeRate decimal.Decimal, charityCount int, sharePrice decimal.Decimal) allocation {
	half := model.Truncate2(donationAmount.Div(decimal.NewFromInt(2)))
	fee := model.Truncate2(half.Mul(feeRate))
	pool := model.Truncate2(half.Sub(fee))

	a := allocation{HalfAmount: half, Fee: fee, GrantPool: pool}
	if charityCount == 0 {
		return a
	}

	a.PerCharityAmount = model.Truncate2(pool.Div(decimal.NewFromInt(int64(charityCount))))
	a.SharesPerCharity = a.PerCharityAmount.Div(sharePrice)
	return a
}

// AllocatePassthruGrant converts one donation event into per-charity grants
// persisted in pending_approval, then dispatches each to the payment gateway.
// An endowment with no recipient charities is a legitimate no-op, not an
// error; the whole grant pool becomes residual.
func (g *Giv2Giv) AllocatePassthruGrant(ctx context.Context, donationAmount decimal.Decimal, endowmentID, donorID string) (*AllocationResult, error) {
	ctx, span := tracer.Start(ctx, "Allocating passthru grants")
	defer span.End()

	cnf, err := config.Fetch()
	if err != nil {
		return nil, err
	}

	// An unknown endowment is an error, not an empty allocation; only a real
	// endowment with no recipients is a legitimate no-op.
	if _, err := g.datasource.GetEndowmentByID(ctx, endowmentID); err != nil {
		return nil, err
	}

	charities, err := g.datasource.GetEndowmentCharities(ctx, endowmentID)
	if err != nil {
		return nil, err
	}

	if len(charities) == 0 {
		result := g.emptyAllocation(ctx, donationAmount, cnf.PassthruFeeRate())
		logrus.Infof("endowment %s has no recipient charities, leaving %s unallocated", endowmentID, result.Residual)
		return result, nil
	}

	// No valuation means no allocation; this is fatal before any row exists.
	share, err := g.datasource.GetCurrentGrantPrice(ctx)
	if err != nil {
		return nil, err
	}

	alloc := computeAllocation(donationAmount, cnf.PassthruFeeRate(), len(charities), share.GrantPrice)

	drafts := make([]model.GrantDraft, 0, len(charities))
	for _, charity := range charities {
		drafts = append(drafts, model.GrantDraft{
			CharityID:        charity.CharityID,
			EndowmentID:      endowmentID,
			DonorID:          donorID,
			SharesSubtracted: alloc.SharesPerCharity,
			GrantAmount:      alloc.PerCharityAmount,
			Giv2GivFee:       alloc.Fee,
			GrantType:        model.GrantTypePassThru,
			Status:           model.StatusPendingApproval,
		})
	}

	created, err := g.datasource.CreateGrantBatch(ctx, drafts)
	if err != nil {
		return nil, err
	}

	// The residual counts only what was actually persisted: a skipped draft's
	// amount stays accounted for as leftover instead of silently vanishing.
	totalPersisted := decimal.Zero
	for _, grant := range created {
		totalPersisted = totalPersisted.Add(grant.GrantAmount)
	}
	residual := alloc.GrantPool.Sub(totalPersisted)

	g.OnBatchComplete(ctx, alloc.Fee, residual)

	g.DispatchGrants(ctx, created)

	return &AllocationResult{Grants: created, Fee: alloc.Fee, Residual: residual}, nil
}

func (g *Giv2Giv) emptyAllocation(ctx context.Context, donationAmount, feeRate decimal.Decimal) *AllocationResult {
	alloc := computeAllocation(donationAmount, feeRate, 0, decimal.Zero)
	g.OnBatchComplete(ctx, alloc.Fee, alloc.GrantPool)
	return &AllocationResult{Grants: []model.Grant{}, Fee: alloc.Fee, Residual: alloc.GrantPool}
}

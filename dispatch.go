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
	"database/sql"
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/giv2giv/giv2giv/config"
	"github.com/giv2giv/giv2giv/gateway"
	"github.com/giv2giv/giv2giv/internal/apierror"
	"github.com/giv2giv/giv2giv/internal/notification"
	"github.com/giv2giv/giv2giv/model"
)

// defaultGrantMemo accompanies each transfer when no memo is configured.
const defaultGrantMemo = "Unrestricted grant from donors at giv2giv.org. Half of each donation goes directly to you, half is invested and granted later."

// DispatchOutcome is the tagged result of one grant's dispatch attempt.
// Dispatch never panics mid-batch; a failure is recorded here and the
// remaining grants in the batch are still attempted.
type DispatchOutcome struct {
	GrantID       string `json:"grant_id"`
	TransactionID string `json:"transaction_id,omitempty"`
	Status        string `json:"status"`
	Cleared       bool   `json:"cleared"`
	Err           error  `json:"-"`
}

// normalizeGatewayStatus maps the gateway's status vocabulary onto this
// system's. Unrecognized statuses pass through verbatim, uncleared.
func normalizeGatewayStatus(gatewayStatus string) (string, bool) {
	switch gatewayStatus {
	case gateway.StatusProcessed:
		return model.StatusAccepted, true
	case gateway.StatusPending:
		return model.StatusPendingAcceptance, false
	default:
		return gatewayStatus, false
	}
}

// DispatchGrants settles a batch sequentially, one grant at a time. A grant
// that fails with a retryable gateway error stays in pending_approval and is
// re-enqueued for the retry worker; nothing aborts the siblings.
func (g *Giv2Giv) DispatchGrants(ctx context.Context, grants []model.Grant) []DispatchOutcome {
	ctx, span := tracer.Start(ctx, "Dispatching grant batch")
	defer span.End()

	outcomes := make([]DispatchOutcome, 0, len(grants))
	for i := range grants {
		outcome := g.dispatchGrant(ctx, &grants[i])
		if outcome.Err != nil && apierror.IsRetryable(outcome.Err) && g.queue != nil {
			if err := g.queue.queueDispatchRetry(grants[i].GrantID); err != nil {
				notification.NotifyError(err)
			}
		}
		outcomes = append(outcomes, outcome)
	}
	return outcomes
}

// dispatchGrant submits one grant's net payable amount to the gateway and
// applies the normalized result. The conditional status update is the
// idempotency guard: raced dispatchers get STALE_GRANT and record nothing.
func (g *Giv2Giv) dispatchGrant(ctx context.Context, grant *model.Grant) DispatchOutcome {
	outcome := DispatchOutcome{GrantID: grant.GrantID, Status: grant.Status}

	cnf, err := config.Fetch()
	if err != nil {
		outcome.Err = err
		return outcome
	}

	charity, err := g.datasource.GetCharityByID(ctx, grant.CharityID)
	if err != nil {
		outcome.Err = err
		return outcome
	}

	// Payout identity comes from the charity's verified configuration, never
	// from an override. Without one the grant cannot leave pending_approval.
	if charity.PayoutEmail == "" {
		outcome.Err = apierror.NewAPIError(apierror.ErrPayoutIdentityMissing,
			fmt.Sprintf("Charity '%s' has no payout identity for grant '%s'", charity.CharityID, grant.GrantID), nil)
		notification.NotifyError(outcome.Err)
		return outcome
	}

	memo := cnf.Grants.GrantMemo
	if memo == "" {
		memo = defaultGrantMemo
	}

	netAmount := grant.NetPayable()

	transactionID, err := g.gateway.Send(ctx, charity.PayoutEmail, memo, netAmount)
	if err != nil {
		if apierror.HasCode(err, apierror.ErrPayoutIdentityMissing) {
			notification.NotifyError(err)
		}
		// An explicit refusal is terminal: the grant is marked failed so the
		// attempt stays attributable. The gateway produced no transaction, so
		// the dispatch fields stay null; only the status advances.
		if apierror.HasCode(err, apierror.ErrGatewayRejected) {
			update := model.GrantStatusUpdate{Status: model.StatusFailed}
			if updateErr := g.datasource.UpdateGrantStatus(ctx, grant.GrantID, model.StatusPendingApproval, update); updateErr != nil {
				notification.NotifyError(updateErr)
			} else {
				outcome.Status = model.StatusFailed
			}
		}
		outcome.Err = err
		return outcome
	}
	outcome.TransactionID = transactionID

	detail, err := g.gateway.GetTransactionDetail(ctx, transactionID)
	if err != nil {
		// Money may already be moving under transactionID. Re-sending would
		// risk a double payout, so this is an operator condition, not a retry.
		alert := apierror.NewAPIError(apierror.ErrPayoutIdentityMissing,
			fmt.Sprintf("Transfer '%s' for grant '%s' was sent but its detail lookup failed", transactionID, grant.GrantID), err)
		notification.NotifyError(alert)
		outcome.Err = alert
		return outcome
	}

	status, cleared := normalizeGatewayStatus(detail.Status)
	update := model.GrantStatusUpdate{
		Status:         status,
		TransactionID:  sql.NullString{String: transactionID, Valid: true},
		TransactionFee: decimal.NullDecimal{Decimal: detail.Fees, Valid: true},
		NetAmount:      decimal.NullDecimal{Decimal: netAmount, Valid: true},
	}

	err = g.datasource.UpdateGrantStatus(ctx, grant.GrantID, model.StatusPendingApproval, update)
	if err != nil {
		// On STALE_GRANT another dispatcher already settled this grant and
		// owns its transit fund record; recording another would double count.
		outcome.Err = err
		return outcome
	}

	outcome.Status = status
	outcome.Cleared = cleared

	_, err = g.datasource.RecordTransitFund(ctx, &model.TransitFund{
		TransactionID: transactionID,
		Source:        cnf.Grants.SettlementAccount,
		Destination:   cnf.Grants.GatewayAccount,
		Amount:        netAmount,
		Cleared:       cleared,
	})
	if err != nil {
		notification.NotifyError(err)
		outcome.Err = err
		return outcome
	}

	logrus.Infof("dispatched grant %s as transaction %s (%s)", grant.GrantID, transactionID, status)
	return outcome
}

// RetryPendingDispatch reloads a grant by id and re-runs dispatch if it is
// still awaiting one. Consumed by the retry worker; a grant that already left
// pending_approval is dropped silently so duplicate retry tasks are harmless.
func (g *Giv2Giv) RetryPendingDispatch(ctx context.Context, grantID string) error {
	grant, err := g.datasource.GetGrant(ctx, grantID)
	if err != nil {
		return err
	}
	if grant.Status != model.StatusPendingApproval {
		logrus.Infof("grant %s already in status %s, skipping retry", grantID, grant.Status)
		return nil
	}

	outcome := g.dispatchGrant(ctx, grant)
	if outcome.Err != nil && apierror.IsRetryable(outcome.Err) {
		return outcome.Err
	}
	return nil
}

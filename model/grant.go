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
	"database/sql"
	"encoding/json"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/shopspring/decimal"
)

const (
	// Grant statuses. A grant is created in StatusPendingApproval and is moved
	// exactly once by the dispatch pipeline; the remaining transitions belong to
	// the later reconciliation pass that consumes the same conditional update.
	StatusPendingApproval   = "pending_approval"
	StatusDenied            = "denied"
	StatusPendingAcceptance = "pending_acceptance"
	StatusAccepted          = "accepted"
	StatusReclaimed         = "reclaimed"
	StatusFailed            = "failed"
	StatusCanceled          = "canceled"

	GrantTypeEndowed  = "endowed"
	GrantTypePassThru = "pass_thru"
)

// ValidStatuses is the full status vocabulary a grant row may carry.
var ValidStatuses = []interface{}{
	StatusPendingApproval,
	StatusDenied,
	StatusPendingAcceptance,
	StatusAccepted,
	StatusReclaimed,
	StatusFailed,
	StatusCanceled,
}

// ValidGrantTypes is the grant funding-source vocabulary.
var ValidGrantTypes = []interface{}{GrantTypeEndowed, GrantTypePassThru}

// Grant is one promised or settled transfer to one charity, sourced from one
// donor's contribution to one endowment. Rows are never deleted; corrections
// appear as new rows with a different status.
type Grant struct {
	ID               int64                  `json:"-"`
	GrantID          string                 `json:"grant_id"`
	CharityID        string                 `json:"charity_id"`
	EndowmentID      string                 `json:"endowment_id"`
	DonorID          string                 `json:"donor_id"`
	SharesSubtracted decimal.Decimal        `json:"shares_subtracted"`
	GrantAmount      decimal.Decimal        `json:"grant_amount"`
	Giv2GivFee       decimal.Decimal        `json:"giv2giv_fee"`
	NetAmount        decimal.NullDecimal    `json:"net_amount,omitempty"`
	TransactionID    string                 `json:"transaction_id,omitempty"`
	TransactionFee   decimal.NullDecimal    `json:"transaction_fee,omitempty"`
	GrantType        string                 `json:"grant_type"`
	Status           string                 `json:"status"`
	CreatedAt        time.Time              `json:"created_at"`
	MetaData         map[string]interface{} `json:"meta_data,omitempty"`
}

// GrantDraft is the pre-persistence shape produced by the allocator. Identity
// and timestamps are assigned by the ledger on insert.
type GrantDraft struct {
	CharityID        string          `json:"charity_id"`
	EndowmentID      string          `json:"endowment_id"`
	DonorID          string          `json:"donor_id"`
	SharesSubtracted decimal.Decimal `json:"shares_subtracted"`
	GrantAmount      decimal.Decimal `json:"grant_amount"`
	Giv2GivFee       decimal.Decimal `json:"giv2giv_fee"`
	GrantType        string          `json:"grant_type"`
	Status           string          `json:"status"`
}

// GrantStatusUpdate carries the dispatch result applied to a grant by the
// ledger's conditional status update. The dispatch fields are nullable: a
// refusal the gateway never responded to advances only the status, leaving
// transaction reference, gateway fee and net amount unset.
type GrantStatusUpdate struct {
	Status         string              `json:"status"`
	TransactionID  sql.NullString      `json:"transaction_id"`
	TransactionFee decimal.NullDecimal `json:"transaction_fee"`
	NetAmount      decimal.NullDecimal `json:"net_amount"`
}

func nonNegative(value interface{}) error {
	d, _ := value.(decimal.Decimal)
	if d.IsNegative() {
		return validation.NewError("validation_negative_amount", "must be zero or positive")
	}
	return nil
}

// Validate enforces the creation invariants: status and grant type must come
// from the vocabularies, references must be present, amounts must not be
// negative. A draft that fails here is skipped by the batch insert.
func (draft GrantDraft) Validate() error {
	return validation.ValidateStruct(&draft,
		validation.Field(&draft.CharityID, validation.Required),
		validation.Field(&draft.EndowmentID, validation.Required),
		validation.Field(&draft.DonorID, validation.Required),
		validation.Field(&draft.Status, validation.Required, validation.In(ValidStatuses...)),
		validation.Field(&draft.GrantType, validation.Required, validation.In(ValidGrantTypes...)),
		validation.Field(&draft.GrantAmount, validation.By(nonNegative)),
		validation.Field(&draft.Giv2GivFee, validation.By(nonNegative)),
	)
}

// NetPayable is the amount actually submitted to the payment gateway.
func (grant *Grant) NetPayable() decimal.Decimal {
	return grant.GrantAmount.Sub(grant.Giv2GivFee)
}

func (grant *Grant) ToJSON() ([]byte, error) {
	return json.Marshal(grant)
}

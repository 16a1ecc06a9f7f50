package model

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestGenerateUUIDWithSuffix(t *testing.T) {
	module := "grt"
	id := GenerateUUIDWithSuffix(module)
	assert.Contains(t, id, module+"_")
}

func TestTruncate2(t *testing.T) {
	assert.True(t, MustDecimal("45.67").Equal(Truncate2(MustDecimal("45.679999"))))
	assert.True(t, MustDecimal("0").Equal(Truncate2(MustDecimal("0.009"))))
	assert.True(t, MustDecimal("16.66").Equal(Truncate2(MustDecimal("50").Div(decimal.NewFromInt(3)))))
}

func TestGrantDraft_Validate(t *testing.T) {
	draft := GrantDraft{
		CharityID:   "cha_123",
		EndowmentID: "edw_123",
		DonorID:     "dnr_123",
		GrantAmount: MustDecimal("15.00"),
		Giv2GivFee:  MustDecimal("5.00"),
		GrantType:   GrantTypePassThru,
		Status:      StatusPendingApproval,
	}
	assert.NoError(t, draft.Validate())
}

func TestGrantDraft_Validate_BadVocabulary(t *testing.T) {
	draft := GrantDraft{
		CharityID:   "cha_123",
		EndowmentID: "edw_123",
		DonorID:     "dnr_123",
		GrantType:   "matched",
		Status:      "approved",
	}
	err := draft.Validate()
	assert.Error(t, err)

	draft.GrantType = GrantTypePassThru
	draft.Status = ""
	assert.Error(t, draft.Validate())
}

func TestGrantDraft_Validate_NegativeAmount(t *testing.T) {
	draft := GrantDraft{
		CharityID:   "cha_123",
		EndowmentID: "edw_123",
		DonorID:     "dnr_123",
		GrantAmount: MustDecimal("-0.01"),
		GrantType:   GrantTypePassThru,
		Status:      StatusPendingApproval,
	}
	assert.Error(t, draft.Validate())
}

func TestGrant_NetPayable(t *testing.T) {
	grant := &Grant{
		GrantAmount: MustDecimal("45.00"),
		Giv2GivFee:  MustDecimal("5.00"),
	}
	assert.True(t, MustDecimal("40.00").Equal(grant.NetPayable()))
}

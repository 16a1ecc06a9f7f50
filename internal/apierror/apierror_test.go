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

package apierror_test

import (
	"errors"
	"testing"

	"github.com/giv2giv/giv2giv/internal/apierror"
	"github.com/stretchr/testify/assert"
)

func TestNewAPIError(t *testing.T) {
	details := "share table is empty"
	apiErr := apierror.NewAPIError(apierror.ErrNoPriceAvailable, "No share price recorded", details)

	assert.Equal(t, apierror.ErrNoPriceAvailable, apiErr.Code)
	assert.Equal(t, "No share price recorded", apiErr.Message)
	assert.Equal(t, details, apiErr.Details)
	assert.Equal(t, "NO_PRICE_AVAILABLE: No share price recorded", apiErr.Error())
}

func TestHasCode(t *testing.T) {
	err := apierror.NewAPIError(apierror.ErrStaleGrant, "Grant already dispatched", nil)
	assert.True(t, apierror.HasCode(err, apierror.ErrStaleGrant))
	assert.False(t, apierror.HasCode(err, apierror.ErrNotFound))
	assert.False(t, apierror.HasCode(errors.New("plain error"), apierror.ErrStaleGrant))
}

func TestIsRetryable(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected bool
	}{
		{
			name:     "gateway unreachable",
			err:      apierror.NewAPIError(apierror.ErrGatewayUnavailable, "Gateway timed out", nil),
			expected: true,
		},
		{
			name:     "gateway refused",
			err:      apierror.NewAPIError(apierror.ErrGatewayRejected, "Transfer refused", nil),
			expected: false,
		},
		{
			name:     "missing payout identity",
			err:      apierror.NewAPIError(apierror.ErrPayoutIdentityMissing, "No transaction id in response", nil),
			expected: false,
		},
		{
			name:     "plain error",
			err:      errors.New("boom"),
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, apierror.IsRetryable(tt.err))
		})
	}
}

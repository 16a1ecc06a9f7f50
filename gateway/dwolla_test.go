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

package gateway

import (
	"context"
	"errors"
	"testing"

	"github.com/jarcoal/httpmock"
	"github.com/stretchr/testify/assert"

	"github.com/giv2giv/giv2giv/config"
	"github.com/giv2giv/giv2giv/internal/apierror"
	"github.com/giv2giv/giv2giv/model"
)

func testClient() *DwollaClient {
	return NewDwollaClient(&config.Configuration{
		Gateway: config.GatewayConfig{
			ApiUrl:     "https://gateway.test",
			ApiKey:     "test-key",
			TimeoutSec: 5,
			MaxRetries: 1,
		},
	})
}

func TestSend_Success(t *testing.T) {
	httpmock.Activate()
	defer httpmock.DeactivateAndReset()

	httpmock.RegisterResponder("POST", "https://gateway.test/transactions/send",
		httpmock.NewStringResponder(200, `{"Success":true,"Message":"Success","Response":12345}`))

	client := testClient()
	id, err := client.Send(context.Background(), "charity@example.org", "unrestricted grant", model.MustDecimal("40.00"))
	assert.NoError(t, err)
	assert.Equal(t, "12345", id)
}

func TestSend_StringTransactionID(t *testing.T) {
	httpmock.Activate()
	defer httpmock.DeactivateAndReset()

	httpmock.RegisterResponder("POST", "https://gateway.test/transactions/send",
		httpmock.NewStringResponder(200, `{"Success":true,"Message":"Success","Response":"abc-789"}`))

	client := testClient()
	id, err := client.Send(context.Background(), "charity@example.org", "unrestricted grant", model.MustDecimal("40.00"))
	assert.NoError(t, err)
	assert.Equal(t, "abc-789", id)
}

func TestSend_Rejected(t *testing.T) {
	httpmock.Activate()
	defer httpmock.DeactivateAndReset()

	httpmock.RegisterResponder("POST", "https://gateway.test/transactions/send",
		httpmock.NewStringResponder(200, `{"Success":false,"Message":"Invalid destination","Response":null}`))

	client := testClient()
	_, err := client.Send(context.Background(), "nobody@example.org", "unrestricted grant", model.MustDecimal("40.00"))
	assert.Error(t, err)
	assert.True(t, apierror.HasCode(err, apierror.ErrGatewayRejected))
	assert.False(t, apierror.IsRetryable(err))
}

func TestSend_MalformedTransactionID(t *testing.T) {
	httpmock.Activate()
	defer httpmock.DeactivateAndReset()

	httpmock.RegisterResponder("POST", "https://gateway.test/transactions/send",
		httpmock.NewStringResponder(200, `{"Success":true,"Message":"Success","Response":{"unexpected":"shape"}}`))

	client := testClient()
	_, err := client.Send(context.Background(), "charity@example.org", "unrestricted grant", model.MustDecimal("40.00"))
	assert.Error(t, err)
	assert.True(t, apierror.HasCode(err, apierror.ErrPayoutIdentityMissing))
}

func TestSend_GatewayUnavailable(t *testing.T) {
	httpmock.Activate()
	defer httpmock.DeactivateAndReset()

	httpmock.RegisterResponder("POST", "https://gateway.test/transactions/send",
		httpmock.NewErrorResponder(errors.New("connection refused")))

	client := testClient()
	_, err := client.Send(context.Background(), "charity@example.org", "unrestricted grant", model.MustDecimal("40.00"))
	assert.Error(t, err)
	assert.True(t, apierror.HasCode(err, apierror.ErrGatewayUnavailable))
	assert.True(t, apierror.IsRetryable(err))

	// Transport failures are retried before surfacing.
	info := httpmock.GetCallCountInfo()
	assert.Equal(t, 2, info["POST https://gateway.test/transactions/send"])
}

func TestSend_ServerErrorIsRetriedThenUnavailable(t *testing.T) {
	httpmock.Activate()
	defer httpmock.DeactivateAndReset()

	httpmock.RegisterResponder("POST", "https://gateway.test/transactions/send",
		httpmock.NewStringResponder(503, `{}`))

	client := testClient()
	_, err := client.Send(context.Background(), "charity@example.org", "unrestricted grant", model.MustDecimal("40.00"))
	assert.Error(t, err)
	assert.True(t, apierror.HasCode(err, apierror.ErrGatewayUnavailable))
}

func TestSend_ClientErrorIsNotRetried(t *testing.T) {
	httpmock.Activate()
	defer httpmock.DeactivateAndReset()

	httpmock.RegisterResponder("POST", "https://gateway.test/transactions/send",
		httpmock.NewStringResponder(403, `{}`))

	client := testClient()
	_, err := client.Send(context.Background(), "charity@example.org", "unrestricted grant", model.MustDecimal("40.00"))
	assert.Error(t, err)
	assert.True(t, apierror.HasCode(err, apierror.ErrGatewayRejected))

	info := httpmock.GetCallCountInfo()
	assert.Equal(t, 1, info["POST https://gateway.test/transactions/send"])
}

func TestCall_UnencodablePayloadIsLocalFault(t *testing.T) {
	httpmock.Activate()
	defer httpmock.DeactivateAndReset()

	httpmock.RegisterResponder("POST", "https://gateway.test/transactions/send",
		httpmock.NewStringResponder(200, `{"Success":true,"Message":"Success","Response":12345}`))

	client := testClient()
	var env envelope
	err := client.call(context.Background(), "POST", "https://gateway.test/transactions/send",
		map[string]interface{}{"bad": make(chan int)}, &env)

	// A payload that cannot be serialized never reaches the gateway and must
	// not be reported as a gateway refusal.
	assert.Error(t, err)
	assert.True(t, apierror.HasCode(err, apierror.ErrInternalServer))
	assert.False(t, apierror.HasCode(err, apierror.ErrGatewayRejected))

	info := httpmock.GetCallCountInfo()
	assert.Equal(t, 0, info["POST https://gateway.test/transactions/send"])
}

func TestGetTransactionDetail(t *testing.T) {
	httpmock.Activate()
	defer httpmock.DeactivateAndReset()

	httpmock.RegisterResponder("GET", "https://gateway.test/transactions/12345",
		httpmock.NewStringResponder(200, `{"Success":true,"Message":"Success","Response":{"Status":"processed","Fees":0.25}}`))

	client := testClient()
	detail, err := client.GetTransactionDetail(context.Background(), "12345")
	assert.NoError(t, err)
	assert.Equal(t, "12345", detail.TransactionID)
	assert.Equal(t, StatusProcessed, detail.Status)
	assert.True(t, model.MustDecimal("0.25").Equal(detail.Fees))
}

func TestParseTransactionID(t *testing.T) {
	id, err := parseTransactionID([]byte(`98765`))
	assert.NoError(t, err)
	assert.Equal(t, "98765", id)

	id, err = parseTransactionID([]byte(`"tx-1"`))
	assert.NoError(t, err)
	assert.Equal(t, "tx-1", id)

	_, err = parseTransactionID(nil)
	assert.Error(t, err)

	_, err = parseTransactionID([]byte(`""`))
	assert.Error(t, err)
}

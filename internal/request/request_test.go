package request

import (
	"net/http"
	"testing"

	"github.com/jarcoal/httpmock"
	"github.com/stretchr/testify/assert"
)

func TestToJsonReq(t *testing.T) {
	payload := map[string]string{"destinationId": "charity@example.org"}
	buf, err := ToJsonReq(payload)
	assert.NoError(t, err)
	assert.JSONEq(t, `{"destinationId":"charity@example.org"}`, buf.String())
}

func TestCall(t *testing.T) {
	httpmock.Activate()
	defer httpmock.DeactivateAndReset()

	httpmock.RegisterResponder("POST", "https://gateway.test/transactions/send",
		httpmock.NewStringResponder(200, `{"Success":true,"Response":12345}`))

	req, err := http.NewRequest("POST", "https://gateway.test/transactions/send", nil)
	assert.NoError(t, err)

	var response map[string]interface{}
	resp, err := Call(req, &response)
	assert.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, true, response["Success"])
	assert.Equal(t, "application/json", req.Header.Get("Content-Type"))
}

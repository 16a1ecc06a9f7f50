package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/giv2giv/giv2giv/config"
	"github.com/giv2giv/giv2giv/internal/apierror"
	"github.com/giv2giv/giv2giv/internal/request"
)

// DwollaClient implements Client against a Dwolla-style transactions API.
type DwollaClient struct {
	apiURL     string
	apiKey     string
	timeout    time.Duration
	maxRetries uint64
}

// envelope is the gateway's standard response wrapper.
type envelope struct {
	Success  bool            `json:"Success"`
	Message  string          `json:"Message"`
	Response json.RawMessage `json:"Response"`
}

func NewDwollaClient(conf *config.Configuration) *DwollaClient {
	return &DwollaClient{
		apiURL:     conf.Gateway.ApiUrl,
		apiKey:     conf.Gateway.ApiKey,
		timeout:    time.Duration(conf.Gateway.TimeoutSec) * time.Second,
		maxRetries: uint64(conf.Gateway.MaxRetries),
	}
}

// Send submits amount to the payee's payout identity. Transport failures are
// retried with exponential backoff up to the configured attempt limit and then
// surface as GATEWAY_UNAVAILABLE; an explicit refusal is never retried.
func (c *DwollaClient) Send(ctx context.Context, destination, memo string, amount decimal.Decimal) (string, error) {
	payload := map[string]interface{}{
		"destinationId": destination,
		"amount":        amount.StringFixed(2),
		"notes":         memo,
	}

	var env envelope
	err := c.call(ctx, http.MethodPost, fmt.Sprintf("%s/transactions/send", c.apiURL), payload, &env)
	if err != nil {
		return "", err
	}

	if !env.Success {
		return "", apierror.NewAPIError(apierror.ErrGatewayRejected, fmt.Sprintf("Gateway refused transfer to %s", destination), env.Message)
	}

	transactionID, err := parseTransactionID(env.Response)
	if err != nil {
		return "", apierror.NewAPIError(apierror.ErrPayoutIdentityMissing, "Gateway response carried no usable transaction id", err)
	}

	return transactionID, nil
}

func (c *DwollaClient) GetTransactionDetail(ctx context.Context, transactionID string) (*TransactionDetail, error) {
	var env envelope
	err := c.call(ctx, http.MethodGet, fmt.Sprintf("%s/transactions/%s", c.apiURL, transactionID), nil, &env)
	if err != nil {
		return nil, err
	}

	if !env.Success {
		return nil, apierror.NewAPIError(apierror.ErrGatewayRejected, fmt.Sprintf("Gateway refused detail lookup for %s", transactionID), env.Message)
	}

	var raw struct {
		Status string          `json:"Status"`
		Fees   decimal.Decimal `json:"Fees"`
	}
	if err := json.Unmarshal(env.Response, &raw); err != nil {
		return nil, apierror.NewAPIError(apierror.ErrPayoutIdentityMissing, "Gateway detail response was malformed", err)
	}

	return &TransactionDetail{
		TransactionID: transactionID,
		Status:        raw.Status,
		Fees:          raw.Fees,
	}, nil
}

// call performs one logical gateway request. Each attempt gets its own bounded
// deadline; 5xx responses and transport errors are retried, 4xx responses are
// terminal.
func (c *DwollaClient) call(ctx context.Context, method, url string, payload interface{}, response *envelope) error {
	// Encoding happens before any network attempt: a payload that cannot be
	// serialized is a local fault, not a gateway refusal, and each retry
	// attempt gets a fresh reader over the same bytes.
	var encoded []byte
	if payload != nil {
		b, err := request.ToJsonReq(payload)
		if err != nil {
			return apierror.NewAPIError(apierror.ErrInternalServer, "Failed to encode gateway payload", err)
		}
		encoded = b.Bytes()
	}

	var terminal error

	operation := func() error {
		attemptCtx, cancel := context.WithTimeout(ctx, c.timeout)
		defer cancel()

		var body io.Reader
		if encoded != nil {
			body = bytes.NewReader(encoded)
		}
		req, err := http.NewRequestWithContext(attemptCtx, method, url, body)
		if err != nil {
			terminal = err
			return backoff.Permanent(err)
		}
		req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", c.apiKey))

		resp, err := request.Call(req, response)
		if err != nil {
			logrus.Warnf("gateway call %s %s failed: %v", method, url, err)
			return errors.Wrap(err, "gateway unreachable")
		}
		if resp.StatusCode >= 500 {
			return errors.Errorf("gateway returned status %d", resp.StatusCode)
		}
		if resp.StatusCode >= 400 {
			terminal = errors.Errorf("gateway returned status %d", resp.StatusCode)
			return backoff.Permanent(terminal)
		}
		return nil
	}

	policy := backoff.WithContext(backoff.WithMaxRetries(backoff.NewExponentialBackOff(), c.maxRetries), ctx)
	if err := backoff.Retry(operation, policy); err != nil {
		if terminal != nil {
			return apierror.NewAPIError(apierror.ErrGatewayRejected, "Gateway refused the request", terminal)
		}
		return apierror.NewAPIError(apierror.ErrGatewayUnavailable, "Gateway could not be reached", err)
	}
	return nil
}

// parseTransactionID accepts the numeric and string forms the gateway has been
// observed to return. An empty or non-scalar response is an error, never a
// silent success.
func parseTransactionID(raw json.RawMessage) (string, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return "", errors.New("empty gateway response")
	}

	var asNumber int64
	if err := json.Unmarshal(raw, &asNumber); err == nil {
		return strconv.FormatInt(asNumber, 10), nil
	}

	var asString string
	if err := json.Unmarshal(raw, &asString); err == nil && asString != "" {
		return asString, nil
	}

	return "", errors.Errorf("unparseable transaction id %q", string(raw))
}

package apierror

import (
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"
)

type ErrorCode string

const (
	ErrNotFound       ErrorCode = "NOT_FOUND"
	ErrConflict       ErrorCode = "CONFLICT"
	ErrBadRequest     ErrorCode = "BAD_REQUEST"
	ErrInvalidInput   ErrorCode = "INVALID_INPUT"
	ErrInternalServer ErrorCode = "INTERNAL_SERVER_ERROR"

	// Grant pipeline codes.
	ErrNoPriceAvailable      ErrorCode = "NO_PRICE_AVAILABLE"      // no share price recorded; allocation cannot proceed
	ErrStaleGrant            ErrorCode = "STALE_GRANT"             // grant already left its pre-dispatch status
	ErrGatewayUnavailable    ErrorCode = "GATEWAY_UNAVAILABLE"     // network-level failure, safe to retry
	ErrGatewayRejected       ErrorCode = "GATEWAY_REJECTED"        // gateway explicitly refused the transfer
	ErrPayoutIdentityMissing ErrorCode = "PAYOUT_IDENTITY_MISSING" // no usable payout identity or transaction reference
)

type APIError struct {
	Code    ErrorCode   `json:"code"`
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
}

func (e APIError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func NewAPIError(code ErrorCode, message string, details interface{}) APIError {
	logrus.Error(details)
	return APIError{
		Code:    code,
		Message: message,
		Details: details,
	}
}

// HasCode reports whether err is an APIError carrying the given code.
func HasCode(err error, code ErrorCode) bool {
	var apiErr APIError
	if errors.As(err, &apiErr) {
		return apiErr.Code == code
	}
	return false
}

// IsRetryable reports whether a dispatch error may be retried without risking
// a double settlement. Only transport-level gateway failures qualify.
func IsRetryable(err error) bool {
	return HasCode(err, ErrGatewayUnavailable)
}

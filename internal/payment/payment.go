// Package payment wraps the ZaloPay and Momo gateway create-payment APIs.
// Both clients sign requests with HMAC-SHA256 and return a pay URL the
// storefront redirects the customer to.
package payment

import "errors"

// Result is a gateway's handle for a created payment.
type Result struct {
	PayURL        string
	TransactionID string
}

// ErrGatewayRejected reports a well-formed request the gateway declined.
var ErrGatewayRejected = errors.New("payment: gateway rejected request")

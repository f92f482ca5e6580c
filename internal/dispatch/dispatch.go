// Package dispatch routes a payment-initiation request to the configured
// gateway and collapses every failure mode into a well-formed result. No
// fault escapes Dispatch: callers always get either Accepted or Rejected.
package dispatch

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"boostpay/internal/payments"
	"boostpay/internal/phone"

	"go.uber.org/zap"
)

const (
	// ReasonMissingFields is returned without contacting the gateway.
	ReasonMissingFields = "Missing fields"
	// ReasonServerError hides transport and integration faults from callers.
	ReasonServerError = "Server error"
)

// Result is the outcome of one provider call. Exactly one of the two shapes
// is populated: the accepted fields or the rejection fields.
type Result struct {
	Accepted        bool            `json:"accepted"`
	TrackingID      string          `json:"trackingId,omitempty"`
	Message         string          `json:"message,omitempty"`
	ProviderPayload json.RawMessage `json:"providerPayload,omitempty"`
	Reason          string          `json:"reason,omitempty"`
	HTTPStatus      int             `json:"httpStatus,omitempty"`
}

func accepted(trackingID, message string, payload json.RawMessage) Result {
	return Result{Accepted: true, TrackingID: trackingID, Message: message, ProviderPayload: payload}
}

func rejected(reason string, status int) Result {
	return Result{Reason: reason, HTTPStatus: status}
}

// Dispatcher performs the provider call for one submission at a time. The
// gateway is injected, so whether a call is live or simulated is decided once
// at construction, never mid-dispatch.
type Dispatcher struct {
	gateway payments.PaymentGateway
	logger  *zap.SugaredLogger
}

func New(gateway payments.PaymentGateway, logger *zap.SugaredLogger) *Dispatcher {
	return &Dispatcher{
		gateway: gateway,
		logger:  logger,
	}
}

// Dispatch validates the submission, normalizes the phone number and invokes
// the gateway. Reference fallback generation is the caller's job; an empty
// reference is a missing field here.
func (d *Dispatcher) Dispatch(ctx context.Context, rawPhone string, amount int64, reference string) (result Result) {
	defer func() {
		if r := recover(); r != nil {
			d.logger.Errorw("dispatch panic recovered", "panic", r)
			result = rejected(ReasonServerError, http.StatusInternalServerError)
		}
	}()

	rawPhone = strings.TrimSpace(rawPhone)
	reference = strings.TrimSpace(reference)

	if rawPhone == "" || amount == 0 || reference == "" {
		return rejected(ReasonMissingFields, http.StatusBadRequest)
	}

	normalized := phone.Normalize(rawPhone)

	d.logger.Infow("dispatching push payment", "phone", normalized, "amount", amount, "reference", reference)

	res, err := d.gateway.Push(ctx, payments.PushRequest{
		Amount:    amount,
		Phone:     normalized,
		Reference: reference,
	})
	if err != nil {
		var gwErr *payments.GatewayError
		if errors.As(err, &gwErr) {
			d.logger.Warnw("gateway declined push", "status", gwErr.StatusCode, "message", gwErr.Message)
			return rejected(gwErr.Message, gwErr.StatusCode)
		}
		d.logger.Errorw("gateway call failed", "error", err.Error())
		return rejected(ReasonServerError, http.StatusInternalServerError)
	}

	d.logger.Infow("push accepted", "trackingId", res.TrackingID)

	return accepted(res.TrackingID, res.Message, res.Raw)
}

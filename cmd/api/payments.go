package main

import (
	"net/http"

	"boostpay/internal/dispatch"
)

type pushPaymentRequest struct {
	Phone  string `json:"phone" validate:"required,kenyanphone"`
	Amount int64  `json:"amount" validate:"required,gt=0"`
	APIRef string `json:"apiRef" validate:"required"`
}

type pushPaymentResponse struct {
	OK         bool   `json:"ok"`
	Message    string `json:"message,omitempty"`
	TrackingID string `json:"trackingId,omitempty"`
	Data       any    `json:"data,omitempty"`
}

// POST /v1/payments/push
//
// One call per submission. Field presence is checked here; everything past
// that — normalization, gateway routing, fault collapsing — is the
// dispatcher's job, and its result maps one-to-one onto the response.
func (app *application) initiatePushHandler(w http.ResponseWriter, r *http.Request) {
	var payload pushPaymentRequest
	if err := readJSON(w, r, &payload); err != nil {
		writeJSONError(w, http.StatusBadRequest, dispatch.ReasonMissingFields)
		return
	}

	if err := Validate.Struct(payload); err != nil {
		writeJSONError(w, http.StatusBadRequest, dispatch.ReasonMissingFields)
		return
	}

	res := app.dispatcher.Dispatch(r.Context(), payload.Phone, payload.Amount, payload.APIRef)

	if !res.Accepted {
		writeJSONError(w, res.HTTPStatus, res.Reason)
		return
	}

	resp := pushPaymentResponse{
		OK:         true,
		Message:    res.Message,
		TrackingID: res.TrackingID,
	}
	if len(res.ProviderPayload) > 0 {
		resp.Data = res.ProviderPayload
	}

	if err := writeJSON(w, http.StatusOK, resp); err != nil {
		app.internalServerError(w, r, err)
	}
}

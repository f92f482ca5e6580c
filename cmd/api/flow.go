package main

import (
	"errors"
	"net/http"

	"boostpay/internal/flow"

	"github.com/go-chi/chi/v5"
)

type flowSessionResponse struct {
	SessionID string     `json:"sessionId"`
	State     flow.State `json:"state"`
}

type selectTierRequest struct {
	Amount int64 `json:"amount" validate:"required,gt=0"`
}

type enterDetailsRequest struct {
	IDNumber string `json:"idNumber"`
	Phone    string `json:"phone"`
}

// POST /v1/flow
func (app *application) createFlowHandler(w http.ResponseWriter, r *http.Request) {
	f := flow.New(app.catalog, app.dispatcher)
	id := app.sessions.Create(f)

	app.logger.Infow("flow session created", "session_id", id)

	if err := app.jsonResponse(w, http.StatusCreated, flowSessionResponse{SessionID: id, State: f.State()}); err != nil {
		app.internalServerError(w, r, err)
	}
}

// getFlow resolves the session from the URL, or writes a 404.
func (app *application) getFlow(w http.ResponseWriter, r *http.Request) (*flow.Flow, string, bool) {
	id := chi.URLParam(r, "sessionID")
	f, ok := app.sessions.Get(id)
	if !ok {
		app.notFoundResponse(w, r, errors.New("unknown flow session "+id))
		return nil, "", false
	}
	return f, id, true
}

// writeFlowError maps state-machine sentinels onto HTTP statuses.
func (app *application) writeFlowError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, flow.ErrNotSubmittable):
		app.unprocessableEntityResponse(w, r, err)
	case errors.Is(err, flow.ErrUnknownTier):
		app.badRequestResponse(w, r, err)
	case errors.Is(err, flow.ErrNotAllowed), errors.Is(err, flow.ErrSubmitting):
		app.conflictResponse(w, r, err)
	default:
		app.internalServerError(w, r, err)
	}
}

// GET /v1/flow/{sessionID}
func (app *application) getFlowHandler(w http.ResponseWriter, r *http.Request) {
	f, id, ok := app.getFlow(w, r)
	if !ok {
		return
	}

	if err := app.jsonResponse(w, http.StatusOK, flowSessionResponse{SessionID: id, State: f.State()}); err != nil {
		app.internalServerError(w, r, err)
	}
}

// POST /v1/flow/{sessionID}/select
func (app *application) selectTierHandler(w http.ResponseWriter, r *http.Request) {
	f, id, ok := app.getFlow(w, r)
	if !ok {
		return
	}

	var payload selectTierRequest
	if err := readJSON(w, r, &payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}
	if err := Validate.Struct(payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	if err := f.SelectTier(payload.Amount); err != nil {
		app.writeFlowError(w, r, err)
		return
	}

	if err := app.jsonResponse(w, http.StatusOK, flowSessionResponse{SessionID: id, State: f.State()}); err != nil {
		app.internalServerError(w, r, err)
	}
}

// POST /v1/flow/{sessionID}/details
func (app *application) enterDetailsHandler(w http.ResponseWriter, r *http.Request) {
	f, id, ok := app.getFlow(w, r)
	if !ok {
		return
	}

	var payload enterDetailsRequest
	if err := readJSON(w, r, &payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	if err := f.EnterDetails(payload.IDNumber, payload.Phone); err != nil {
		app.writeFlowError(w, r, err)
		return
	}

	if err := app.jsonResponse(w, http.StatusOK, flowSessionResponse{SessionID: id, State: f.State()}); err != nil {
		app.internalServerError(w, r, err)
	}
}

// POST /v1/flow/{sessionID}/submit
//
// Suspends on the dispatcher call; the rejected-vs-accepted outcome lands in
// the returned state, not in the HTTP status.
func (app *application) submitFlowHandler(w http.ResponseWriter, r *http.Request) {
	f, id, ok := app.getFlow(w, r)
	if !ok {
		return
	}

	if err := f.Submit(r.Context()); err != nil {
		app.writeFlowError(w, r, err)
		return
	}

	if err := app.jsonResponse(w, http.StatusOK, flowSessionResponse{SessionID: id, State: f.State()}); err != nil {
		app.internalServerError(w, r, err)
	}
}

// POST /v1/flow/{sessionID}/confirm
func (app *application) confirmFlowHandler(w http.ResponseWriter, r *http.Request) {
	f, id, ok := app.getFlow(w, r)
	if !ok {
		return
	}

	if err := f.Confirm(); err != nil {
		app.writeFlowError(w, r, err)
		return
	}

	if err := app.jsonResponse(w, http.StatusOK, flowSessionResponse{SessionID: id, State: f.State()}); err != nil {
		app.internalServerError(w, r, err)
	}
}

// POST /v1/flow/{sessionID}/cancel
//
// Works from either the entry screen or the review screen; both roads lead
// back to the dashboard.
func (app *application) cancelFlowHandler(w http.ResponseWriter, r *http.Request) {
	f, id, ok := app.getFlow(w, r)
	if !ok {
		return
	}

	err := f.Cancel()
	if errors.Is(err, flow.ErrNotAllowed) {
		err = f.CancelRequest()
	}
	if err != nil {
		app.writeFlowError(w, r, err)
		return
	}

	if err := app.jsonResponse(w, http.StatusOK, flowSessionResponse{SessionID: id, State: f.State()}); err != nil {
		app.internalServerError(w, r, err)
	}
}

// POST /v1/flow/{sessionID}/reset
func (app *application) resetFlowHandler(w http.ResponseWriter, r *http.Request) {
	f, id, ok := app.getFlow(w, r)
	if !ok {
		return
	}

	if err := f.ReturnToDashboard(); err != nil {
		app.writeFlowError(w, r, err)
		return
	}

	if err := app.jsonResponse(w, http.StatusOK, flowSessionResponse{SessionID: id, State: f.State()}); err != nil {
		app.internalServerError(w, r, err)
	}
}

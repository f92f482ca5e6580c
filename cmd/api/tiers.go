package main

import "net/http"

// GET /v1/tiers
func (app *application) listTiersHandler(w http.ResponseWriter, r *http.Request) {
	if err := app.jsonResponse(w, http.StatusOK, app.catalog); err != nil {
		app.internalServerError(w, r, err)
	}
}

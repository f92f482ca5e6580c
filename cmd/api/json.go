package main

import (
	"encoding/json"
	"net/http"

	"boostpay/internal/phone"

	"github.com/go-playground/validator/v10"
)

var Validate *validator.Validate

func init() {
	Validate = validator.New(validator.WithRequiredStructEnabled())

	// Register custom validation for Kenyan phone numbers: at least nine
	// digits once punctuation is stripped. Format is fixed up later by the
	// normalizer, so only the digit count matters here.
	Validate.RegisterValidation("kenyanphone", func(fl validator.FieldLevel) bool {
		return len(phone.Digits(fl.Field().String())) >= 9
	})
}

func writeJSON(w http.ResponseWriter, status int, data any) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	return json.NewEncoder(w).Encode(data)
}

// it parses body into Go struct.
func readJSON(w http.ResponseWriter, r *http.Request, data any) error {
	maxBytes := 1_048_578 //1mb
	r.Body = http.MaxBytesReader(w, r.Body, int64(maxBytes))

	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	return decoder.Decode(data)
}

func writeJSONError(w http.ResponseWriter, status int, message string) error {
	type envelope struct {
		OK    bool   `json:"ok"`
		Error string `json:"error"`
	}

	return writeJSON(w, status, &envelope{
		OK:    false,
		Error: message,
	})
}

func (app *application) jsonResponse(w http.ResponseWriter, status int, data any) error {
	type envelope struct {
		Data any `json:"data"`
	}
	return writeJSON(w, status, &envelope{Data: data})
}

// Package flow implements the screen state machine that walks a user from
// tier selection through detail capture, provider submission, review and
// success. One Flow instance backs one user session.
package flow

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"boostpay/internal/dispatch"
	"boostpay/internal/phone"
	"boostpay/internal/tiers"
)

// Screen is the single active screen of the flow. Exactly one value holds at
// any time; there are no independently-toggled screen flags.
type Screen int

const (
	Dashboard Screen = iota
	DetailEntry
	Review
	Success
)

func (s Screen) String() string {
	switch s {
	case Dashboard:
		return "dashboard"
	case DetailEntry:
		return "detail_entry"
	case Review:
		return "review"
	case Success:
		return "success"
	}
	return "unknown"
}

func (s Screen) MarshalJSON() ([]byte, error) {
	return []byte(`"` + s.String() + `"`), nil
}

var (
	ErrNotAllowed     = errors.New("flow: action not allowed on current screen")
	ErrSubmitting     = errors.New("flow: submission in flight")
	ErrUnknownTier    = errors.New("flow: tier not in catalog")
	ErrNotSubmittable = errors.New("flow: details incomplete")
)

// genericErrorMessage is what the user sees when a fault carries no
// presentable reason of its own.
const genericErrorMessage = "An error occurred"

// Dispatcher is the single call the flow makes outward. Both the in-process
// dispatcher and its HTTP client satisfy it.
type Dispatcher interface {
	Dispatch(ctx context.Context, rawPhone string, amount int64, reference string) dispatch.Result
}

// State is the source of truth for the UI. LastError is only meaningful
// while Screen == DetailEntry.
type State struct {
	SelectedTier tiers.TierOption `json:"selectedTier"`
	Screen       Screen           `json:"screen"`
	IDNumber     string           `json:"idNumber"`
	PhoneInput   string           `json:"phoneInput"`
	Submitting   bool             `json:"submitting"`
	LastError    string           `json:"lastError,omitempty"`
}

type Flow struct {
	mu         sync.Mutex
	catalog    []tiers.TierOption
	dispatcher Dispatcher
	state      State
	now        func() time.Time
}

// New starts a flow on the dashboard with the first catalog tier selected.
// The catalog must be non-empty.
func New(catalog []tiers.TierOption, dispatcher Dispatcher) *Flow {
	return &Flow{
		catalog:    catalog,
		dispatcher: dispatcher,
		state: State{
			SelectedTier: catalog[0],
			Screen:       Dashboard,
		},
		now: time.Now,
	}
}

// State returns a snapshot; mutating it does not touch the flow.
func (f *Flow) State() State {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

// SelectTier picks a catalog tier and opens the detail-entry screen.
// Entered fields survive reselection; only the stale error is cleared.
func (f *Flow) SelectTier(amount int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.state.Submitting {
		return ErrSubmitting
	}
	if f.state.Screen != Dashboard {
		return ErrNotAllowed
	}

	opt, ok := tiers.ByAmount(f.catalog, amount)
	if !ok {
		return ErrUnknownTier
	}

	f.state.SelectedTier = opt
	f.state.LastError = ""
	f.state.Screen = DetailEntry
	return nil
}

// EnterDetails captures the id number and phone input on the entry screen.
func (f *Flow) EnterDetails(idNumber, phoneInput string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.state.Screen != DetailEntry {
		return ErrNotAllowed
	}
	if f.state.Submitting {
		return ErrSubmitting
	}

	f.state.IDNumber = idNumber
	f.state.PhoneInput = phoneInput
	return nil
}

// Cancel closes the detail-entry screen without submitting.
func (f *Flow) Cancel() error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.state.Screen != DetailEntry {
		return ErrNotAllowed
	}
	if f.state.Submitting {
		return ErrSubmitting
	}

	// lastError only exists while the entry screen is open.
	f.state.LastError = ""
	f.state.Screen = Dashboard
	return nil
}

// Valid reports whether the captured details pass the submission predicate:
// trimmed id longer than 3 characters and at least 9 phone digits.
func (f *Flow) Valid() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return valid(f.state.IDNumber, f.state.PhoneInput)
}

func valid(idNumber, phoneInput string) bool {
	return len(strings.TrimSpace(idNumber)) > 3 && len(phone.Digits(phoneInput)) >= 9
}

// Submit runs the dispatcher call for the selected tier's fee. It is a
// guarded transition: nothing fires unless the machine is on the entry
// screen, idle, and the details are valid. The Submitting flag is set before
// the call and cleared on every exit path, including a recovered fault, so
// the machine can never stick mid-submission.
func (f *Flow) Submit(ctx context.Context) error {
	f.mu.Lock()
	if f.state.Screen != DetailEntry {
		f.mu.Unlock()
		return ErrNotAllowed
	}
	if f.state.Submitting {
		f.mu.Unlock()
		return ErrSubmitting
	}
	if !valid(f.state.IDNumber, f.state.PhoneInput) {
		f.mu.Unlock()
		return ErrNotSubmittable
	}

	f.state.Submitting = true
	f.state.LastError = ""

	phoneInput := f.state.PhoneInput
	reference := strings.TrimSpace(f.state.IDNumber)
	fee := f.state.SelectedTier.Fee
	f.mu.Unlock()

	if reference == "" {
		reference = fmt.Sprintf("ref-%d", f.now().UnixMilli())
	}

	// The lock is not held across the call; the Submitting flag is the
	// re-entrancy guard.
	var res dispatch.Result
	func() {
		defer func() {
			if r := recover(); r != nil {
				res = dispatch.Result{Reason: genericErrorMessage}
			}
		}()
		res = f.dispatcher.Dispatch(ctx, phoneInput, fee, reference)
	}()

	f.mu.Lock()
	defer f.mu.Unlock()

	f.state.Submitting = false

	if res.Accepted {
		f.state.Screen = Review
		return nil
	}

	reason := res.Reason
	if reason == "" {
		reason = genericErrorMessage
	}
	f.state.LastError = reason
	return nil
}

// Confirm acknowledges the review screen. No further provider call is made;
// payment completion is assumed, not verified.
func (f *Flow) Confirm() error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.state.Screen != Review {
		return ErrNotAllowed
	}

	f.state.Screen = Success
	return nil
}

// CancelRequest abandons the review screen and returns to the dashboard.
func (f *Flow) CancelRequest() error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.state.Screen != Review {
		return ErrNotAllowed
	}

	f.state.Screen = Dashboard
	return nil
}

// ReturnToDashboard restarts the flow: first catalog tier selected, fields
// and error cleared.
func (f *Flow) ReturnToDashboard() error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.state.Screen != Success {
		return ErrNotAllowed
	}

	f.state = State{
		SelectedTier: f.catalog[0],
		Screen:       Dashboard,
	}
	return nil
}

package flow_test

import (
	"context"
	"net/http"
	"testing"

	"boostpay/internal/dispatch"
	"boostpay/internal/flow"
	"boostpay/internal/payments"
	"boostpay/internal/tiers"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeDispatcher struct {
	calls  int
	result dispatch.Result
	during func()
	panics bool
}

func (d *fakeDispatcher) Dispatch(ctx context.Context, rawPhone string, amount int64, reference string) dispatch.Result {
	d.calls++
	if d.during != nil {
		d.during()
	}
	if d.panics {
		panic("dispatcher exploded")
	}
	return d.result
}

func acceptedResult() dispatch.Result {
	return dispatch.Result{Accepted: true, TrackingID: "MOCK-1", Message: "Mock STK push initiated"}
}

func TestInitialState(t *testing.T) {
	f := flow.New(tiers.Catalog, &fakeDispatcher{})

	st := f.State()
	require.Equal(t, flow.Dashboard, st.Screen)
	require.Equal(t, tiers.Catalog[0], st.SelectedTier)
	require.False(t, st.Submitting)
	require.Empty(t, st.LastError)
}

func TestSelectTier(t *testing.T) {
	f := flow.New(tiers.Catalog, &fakeDispatcher{})

	require.NoError(t, f.SelectTier(10000))

	st := f.State()
	require.Equal(t, flow.DetailEntry, st.Screen)
	require.Equal(t, int64(159), st.SelectedTier.Fee)

	t.Run("unknown amount rejected", func(t *testing.T) {
		f := flow.New(tiers.Catalog, &fakeDispatcher{})
		require.ErrorIs(t, f.SelectTier(4242), flow.ErrUnknownTier)
		require.Equal(t, flow.Dashboard, f.State().Screen)
	})
}

func TestValidityPredicate(t *testing.T) {
	cases := []struct {
		name   string
		id     string
		phone  string
		expect bool
	}{
		{"both valid", "12345678", "0712345678", true},
		{"empty id", "", "0712345678", false},
		{"short id", "123", "0712345678", false},
		{"id padded to length", " 123 ", "0712345678", false},
		{"short phone", "12345678", "123", false},
		{"no digits", "12345678", "abc", false},
		{"phone with punctuation", "12345678", "0712-345 678", true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f := flow.New(tiers.Catalog, &fakeDispatcher{})
			require.NoError(t, f.SelectTier(5000))
			require.NoError(t, f.EnterDetails(tc.id, tc.phone))
			require.Equal(t, tc.expect, f.Valid())
		})
	}
}

func TestSubmitInvalidDetailsIsNoOp(t *testing.T) {
	d := &fakeDispatcher{result: acceptedResult()}
	f := flow.New(tiers.Catalog, d)

	require.NoError(t, f.SelectTier(5000))
	require.NoError(t, f.EnterDetails("12345678", "abc"))

	require.ErrorIs(t, f.Submit(context.Background()), flow.ErrNotSubmittable)
	require.Zero(t, d.calls)
	require.Equal(t, flow.DetailEntry, f.State().Screen)
}

func TestSubmitAcceptedMovesToReview(t *testing.T) {
	d := &fakeDispatcher{result: acceptedResult()}
	f := flow.New(tiers.Catalog, d)

	require.NoError(t, f.SelectTier(10000))
	require.NoError(t, f.EnterDetails("12345678", "0712345678"))
	require.NoError(t, f.Submit(context.Background()))

	st := f.State()
	require.Equal(t, flow.Review, st.Screen)
	require.False(t, st.Submitting)
	require.Empty(t, st.LastError)
	require.Equal(t, 1, d.calls)
}

func TestSubmitRejectedStaysOnDetailEntry(t *testing.T) {
	d := &fakeDispatcher{result: dispatch.Result{Reason: "Insufficient balance", HTTPStatus: http.StatusPaymentRequired}}
	f := flow.New(tiers.Catalog, d)

	require.NoError(t, f.SelectTier(10000))
	require.NoError(t, f.EnterDetails("12345678", "0712345678"))
	require.NoError(t, f.Submit(context.Background()))

	st := f.State()
	require.Equal(t, flow.DetailEntry, st.Screen)
	require.Equal(t, "Insufficient balance", st.LastError)
	require.False(t, st.Submitting)
}

func TestSubmitWhileSubmittingIsNoOp(t *testing.T) {
	var f *flow.Flow
	d := &fakeDispatcher{result: acceptedResult()}
	d.during = func() {
		// Re-enter while the first submission is in flight: the Submitting
		// flag must block a second dispatch.
		require.ErrorIs(t, f.Submit(context.Background()), flow.ErrSubmitting)
	}
	f = flow.New(tiers.Catalog, d)

	require.NoError(t, f.SelectTier(10000))
	require.NoError(t, f.EnterDetails("12345678", "0712345678"))
	require.NoError(t, f.Submit(context.Background()))

	require.Equal(t, 1, d.calls)
	require.Equal(t, flow.Review, f.State().Screen)
}

func TestSubmitRecoversFromDispatcherPanic(t *testing.T) {
	d := &fakeDispatcher{panics: true}
	f := flow.New(tiers.Catalog, d)

	require.NoError(t, f.SelectTier(10000))
	require.NoError(t, f.EnterDetails("12345678", "0712345678"))

	require.NotPanics(t, func() {
		require.NoError(t, f.Submit(context.Background()))
	})

	st := f.State()
	require.Equal(t, flow.DetailEntry, st.Screen)
	require.Equal(t, "An error occurred", st.LastError)
	require.False(t, st.Submitting)
}

func TestSubmitClearsStaleError(t *testing.T) {
	d := &fakeDispatcher{result: dispatch.Result{Reason: "Insufficient balance", HTTPStatus: http.StatusPaymentRequired}}
	f := flow.New(tiers.Catalog, d)

	require.NoError(t, f.SelectTier(10000))
	require.NoError(t, f.EnterDetails("12345678", "0712345678"))
	require.NoError(t, f.Submit(context.Background()))
	require.Equal(t, "Insufficient balance", f.State().LastError)

	d.result = acceptedResult()
	require.NoError(t, f.Submit(context.Background()))

	st := f.State()
	require.Equal(t, flow.Review, st.Screen)
	require.Empty(t, st.LastError)
}

func TestCancelOnlyFromDetailEntry(t *testing.T) {
	f := flow.New(tiers.Catalog, &fakeDispatcher{})

	require.ErrorIs(t, f.Cancel(), flow.ErrNotAllowed)

	require.NoError(t, f.SelectTier(5000))
	require.NoError(t, f.Cancel())
	require.Equal(t, flow.Dashboard, f.State().Screen)
}

func TestEndToEndSimulated(t *testing.T) {
	d := dispatch.New(payments.NewSimulatedAdapter(0), zap.NewNop().Sugar())
	f := flow.New(tiers.Catalog, d)

	require.NoError(t, f.SelectTier(10000))
	require.NoError(t, f.EnterDetails("12345678", "0712345678"))
	require.NoError(t, f.Submit(context.Background()))

	st := f.State()
	require.Equal(t, flow.Review, st.Screen)
	require.Equal(t, "Ksh 159", tiers.FormatKsh(st.SelectedTier.Fee))
	require.Equal(t, "Ksh 10,000", tiers.FormatKsh(st.SelectedTier.Amount))

	require.NoError(t, f.Confirm())
	require.Equal(t, flow.Success, f.State().Screen)

	require.NoError(t, f.ReturnToDashboard())

	st = f.State()
	require.Equal(t, flow.Dashboard, st.Screen)
	require.Equal(t, tiers.Catalog[0], st.SelectedTier)
	require.Empty(t, st.IDNumber)
	require.Empty(t, st.PhoneInput)
	require.Empty(t, st.LastError)
}

func TestCancelRequestReturnsToDashboard(t *testing.T) {
	d := &fakeDispatcher{result: acceptedResult()}
	f := flow.New(tiers.Catalog, d)

	require.NoError(t, f.SelectTier(19000))
	require.NoError(t, f.EnterDetails("12345678", "0712345678"))
	require.NoError(t, f.Submit(context.Background()))
	require.Equal(t, flow.Review, f.State().Screen)

	require.NoError(t, f.CancelRequest())
	require.Equal(t, flow.Dashboard, f.State().Screen)
}

func TestReselectionKeepsFieldsClearsError(t *testing.T) {
	d := &fakeDispatcher{result: dispatch.Result{Reason: "Insufficient balance", HTTPStatus: http.StatusPaymentRequired}}
	f := flow.New(tiers.Catalog, d)

	require.NoError(t, f.SelectTier(10000))
	require.NoError(t, f.EnterDetails("12345678", "0712345678"))
	require.NoError(t, f.Submit(context.Background()))
	require.NoError(t, f.Cancel())

	require.NoError(t, f.SelectTier(19000))

	st := f.State()
	require.Equal(t, "12345678", st.IDNumber)
	require.Equal(t, "0712345678", st.PhoneInput)
	require.Empty(t, st.LastError)
}

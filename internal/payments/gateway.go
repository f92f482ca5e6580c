package payments

import "context"

// PaymentGateway is the single seam between the dispatcher and a payment
// provider. The live PayHero adapter and the simulated adapter both satisfy
// it, so either can be injected at startup or in tests.
type PaymentGateway interface {
	Push(ctx context.Context, req PushRequest) (PushResult, error)
}

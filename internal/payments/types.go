package payments

import (
	"encoding/json"
	"fmt"
)

// PushRequest asks the provider to prompt the given phone for a charge.
// Phone must already be in normalized international form.
type PushRequest struct {
	Amount    int64
	Phone     string
	Reference string
}

type PushResult struct {
	TrackingID string
	Message    string
	Raw        json.RawMessage // provider response body, untouched
}

// GatewayError is a provider-level decline: the gateway answered, but with a
// non-success status. Transport and decode failures are returned as plain
// errors instead.
type GatewayError struct {
	StatusCode int
	Message    string
}

func (e *GatewayError) Error() string {
	return fmt.Sprintf("gateway rejected request: http=%d message=%s", e.StatusCode, e.Message)
}

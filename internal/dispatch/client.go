package dispatch

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"strings"
)

// Client drives a dispatcher running in another process through its HTTP
// endpoint. It satisfies the same contract as Dispatcher.Dispatch, so a flow
// controller can be wired to either without caring which side of the network
// it sits on.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

func NewClient(baseURL string) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: http.DefaultClient,
	}
}

type pushPayload struct {
	Phone  string `json:"phone"`
	Amount int64  `json:"amount"`
	APIRef string `json:"apiRef"`
}

type pushEnvelope struct {
	OK         bool            `json:"ok"`
	Message    string          `json:"message"`
	TrackingID string          `json:"trackingId"`
	Data       json.RawMessage `json:"data"`
	Error      string          `json:"error"`
}

func (c *Client) Dispatch(ctx context.Context, rawPhone string, amount int64, reference string) Result {
	body, _ := json.Marshal(pushPayload{Phone: rawPhone, Amount: amount, APIRef: reference})

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/payments/push", bytes.NewBuffer(body))
	if err != nil {
		return rejected(ReasonServerError, http.StatusInternalServerError)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return rejected(ReasonServerError, http.StatusInternalServerError)
	}
	defer resp.Body.Close()

	var envelope pushEnvelope
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return rejected(ReasonServerError, http.StatusInternalServerError)
	}

	if resp.StatusCode != http.StatusOK || !envelope.OK {
		reason := envelope.Error
		if reason == "" {
			reason = ReasonServerError
		}
		return rejected(reason, resp.StatusCode)
	}

	return accepted(envelope.TrackingID, envelope.Message, envelope.Data)
}

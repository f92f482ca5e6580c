package payments

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const payHeroBaseURL = "https://backend.payhero.co.ke"

// PayHeroAdapter initiates M-Pesa STK pushes through PayHero's payments API.
type PayHeroAdapter struct {
	BasicAuthToken string
	ChannelID      int
	CallbackURL    string
	CustomerName   string
	baseURL        string
	httpClient     *http.Client
	now            func() time.Time
}

func NewPayHeroAdapter(token string, channelID int, callbackURL string) *PayHeroAdapter {
	return &PayHeroAdapter{
		BasicAuthToken: token,
		ChannelID:      channelID,
		CallbackURL:    callbackURL,
		CustomerName:   "Test User",
		baseURL:        payHeroBaseURL,
		httpClient:     http.DefaultClient,
		now:            time.Now,
	}
}

// WithBaseURL points the adapter at a different PayHero host. Used in tests.
func (p *PayHeroAdapter) WithBaseURL(base string) *PayHeroAdapter {
	p.baseURL = strings.TrimRight(base, "/")
	return p
}

func (p *PayHeroAdapter) paymentsURL() string {
	return p.baseURL + "/api/v2/payments"
}

func (p *PayHeroAdapter) Push(ctx context.Context, req PushRequest) (PushResult, error) {
	payload := map[string]any{
		"amount":             req.Amount,
		"phone_number":       req.Phone,
		"channel_id":         p.ChannelID,
		"provider":           "m-pesa",
		"external_reference": req.Reference,
		"customer_name":      p.CustomerName,
		"callback_url":       p.CallbackURL,
	}

	body, _ := json.Marshal(payload)

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, p.paymentsURL(), bytes.NewBuffer(body))
	if err != nil {
		return PushResult{}, fmt.Errorf("payhero build request: %w", err)
	}
	httpReq.Header.Set("Authorization", "Basic "+p.BasicAuthToken)
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := p.httpClient.Do(httpReq)
	if err != nil {
		return PushResult{}, fmt.Errorf("payhero push request: %w", err)
	}
	defer resp.Body.Close()

	raw, _ := io.ReadAll(resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		// PayHero error bodies are not consistent across failure modes;
		// try the message fields it is known to use.
		var failure struct {
			Message      string `json:"message"`
			ErrorMessage string `json:"error_message"`
		}
		_ = json.Unmarshal(raw, &failure)

		msg := failure.Message
		if msg == "" {
			msg = failure.ErrorMessage
		}
		if msg == "" {
			msg = "PayHero failed"
		}
		return PushResult{}, &GatewayError{StatusCode: resp.StatusCode, Message: msg}
	}

	var success struct {
		Reference         string `json:"reference"`
		CheckoutRequestID string `json:"CheckoutRequestID"`
	}
	if err := json.Unmarshal(raw, &success); err != nil {
		return PushResult{}, fmt.Errorf("payhero push decode: %w body=%s", err, string(raw))
	}

	trackingID := success.Reference
	if trackingID == "" {
		trackingID = success.CheckoutRequestID
	}
	if trackingID == "" {
		trackingID = fmt.Sprintf("PH-%d", p.now().UnixMilli())
	}

	return PushResult{
		TrackingID: trackingID,
		Message:    "STK push sent",
		Raw:        json.RawMessage(raw),
	}, nil
}

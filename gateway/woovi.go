// Package gateway holds the Woovi/OpenPix PIX client and the wire types
// shared with its webhook callbacks.
package gateway

import (
	"context"
	"fmt"

	"github.com/go-resty/resty/v2"
)

// Charge statuses reported by the gateway.
const (
	ChargeStatusCompleted = "COMPLETED"
	ChargeStatusExpired   = "EXPIRED"
)

// Webhook event names for charge expiry. The gateway has emitted both
// spellings depending on API version.
const (
	EventChargeExpired       = "OPENPIX:CHARGE_EXPIRED"
	EventChargeExpiredLegacy = "charge.expired"
)

// ChargeCustomer identifies the payer on a charge.
type ChargeCustomer struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// ChargeRequest is the payload for creating a PIX charge. Value is in
// centavos, as the gateway expects.
type ChargeRequest struct {
	CorrelationID string         `json:"correlationID"`
	Value         int64          `json:"value"`
	Comment       string         `json:"comment"`
	Customer      ChargeCustomer `json:"customer"`
	ExpiresIn     int            `json:"expiresIn"`
}

// Charge is the gateway's representation of a PIX charge.
type Charge struct {
	CorrelationID  string `json:"correlationID"`
	Status         string `json:"status"`
	Value          int64  `json:"value"`
	Comment        string `json:"comment"`
	BRCode         string `json:"brCode"`
	QRCodeImage    string `json:"qrCodeImage"`
	PixKey         string `json:"pixKey"`
	PaymentLinkURL string `json:"paymentLinkUrl"`
	GlobalID       string `json:"globalID"`
	ExpiresIn      int    `json:"expiresIn"`
}

type chargeResponse struct {
	Charge Charge `json:"charge"`
}

// WebhookCharge is the charge object nested in webhook callbacks. Value is in
// centavos.
type WebhookCharge struct {
	CorrelationID string `json:"correlationID"`
	Status        string `json:"status"`
	Value         int64  `json:"value"`
	TransactionID string `json:"transactionID"`
	GlobalID      string `json:"globalID"`
}

// WebhookPix carries the PIX transfer identifiers on a completion callback.
type WebhookPix struct {
	EndToEndID string `json:"endToEndId"`
}

// WebhookPayload is the body delivered by the gateway on charge events.
type WebhookPayload struct {
	Event  string         `json:"event"`
	Charge *WebhookCharge `json:"charge"`
	Pix    *WebhookPix    `json:"pix"`
}

// ExpiredEvent reports whether the payload describes an expired charge, under
// any of the gateway's event spellings.
func (p *WebhookPayload) ExpiredEvent() bool {
	if p.Event == EventChargeExpired || p.Event == EventChargeExpiredLegacy {
		return true
	}
	return p.Charge != nil && p.Charge.Status == ChargeStatusExpired
}

// Client calls the Woovi charge API.
type Client struct {
	http *resty.Client
}

// NewClient creates a gateway client. authToken goes into the Authorization
// header as-is (the gateway issues opaque app tokens).
func NewClient(baseURL, authToken string) *Client {
	http := resty.New().
		SetBaseURL(baseURL).
		SetHeader("Content-Type", "application/json").
		SetHeader("Authorization", authToken)

	return &Client{http: http}
}

// CreateCharge creates a PIX charge and returns the gateway's charge record
// with the BR code and QR image for the client to render.
func (c *Client) CreateCharge(ctx context.Context, req ChargeRequest) (*Charge, error) {
	var out chargeResponse

	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(req).
		SetResult(&out).
		Post("/charge")

	if err != nil {
		return nil, fmt.Errorf("failed to create charge %s: %w", req.CorrelationID, err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("charge %s rejected by gateway: status %d: %s",
			req.CorrelationID, resp.StatusCode(), resp.String())
	}

	return &out.Charge, nil
}

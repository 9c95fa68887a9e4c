package payment

import (
	"encoding/json"
	"fmt"
)

// Webhook event types we act on. Anything else is logged and ignored.
const (
	EventChargeSuccess        = "charge.success"
	EventSubscriptionCreate   = "subscription.create"
	EventSubscriptionDisable  = "subscription.disable"
	EventSubscriptionNotRenew = "subscription.not_renew"
)

// Envelope is the outer webhook payload. Data stays raw until the event type
// selects a concrete shape; fields are validated before any side effect.
type Envelope struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
}

// ChargeData is the payload of charge.* events.
type ChargeData struct {
	Reference string `json:"reference"`
	Amount    int64  `json:"amount"`
	Currency  string `json:"currency"`
	Status    string `json:"status"`
	Customer  struct {
		Email        string `json:"email"`
		CustomerCode string `json:"customer_code"`
	} `json:"customer"`
}

// SubscriptionData is the payload of subscription.* events.
type SubscriptionData struct {
	SubscriptionCode string `json:"subscription_code"`
	Status           string `json:"status"`
	Customer         struct {
		Email        string `json:"email"`
		CustomerCode string `json:"customer_code"`
	} `json:"customer"`
}

// ParseEvent decodes the webhook envelope. Callers must have verified the
// signature over the same raw bytes first.
func ParseEvent(body []byte) (*Envelope, error) {
	var env Envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, fmt.Errorf("decode webhook envelope: %w", err)
	}
	if env.Event == "" {
		return nil, fmt.Errorf("webhook envelope has no event type")
	}
	return &env, nil
}

// Charge decodes and validates the data object of a charge event.
func (e *Envelope) Charge() (*ChargeData, error) {
	var d ChargeData
	if err := json.Unmarshal(e.Data, &d); err != nil {
		return nil, fmt.Errorf("decode %s data: %w", e.Event, err)
	}
	if d.Reference == "" {
		return nil, fmt.Errorf("%s event has no reference", e.Event)
	}
	return &d, nil
}

// Subscription decodes and validates the data object of a subscription event.
func (e *Envelope) Subscription() (*SubscriptionData, error) {
	var d SubscriptionData
	if err := json.Unmarshal(e.Data, &d); err != nil {
		return nil, fmt.Errorf("decode %s data: %w", e.Event, err)
	}
	if d.SubscriptionCode == "" {
		return nil, fmt.Errorf("%s event has no subscription code", e.Event)
	}
	return &d, nil
}

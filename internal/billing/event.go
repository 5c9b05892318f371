// Package billing verifies and decodes payment provider webhook events.
package billing

import (
	"encoding/json"
	"fmt"
)

// EventCheckoutCompleted is the only event kind this subsystem acts on.
const EventCheckoutCompleted = "checkout.session.completed"

// Event is a decoded payment provider notification.
type Event struct {
	ID   string `json:"id"`
	Type string `json:"type"`
	Data struct {
		Object json.RawMessage `json:"object"`
	} `json:"data"`
}

// checkoutSession is the subset of the checkout object this subsystem reads.
type checkoutSession struct {
	CustomerDetails struct {
		Email string `json:"email"`
	} `json:"customer_details"`
}

// CheckoutEmail extracts the paying customer's email from a
// checkout-completed event.
func (e *Event) CheckoutEmail() (string, error) {
	var session checkoutSession
	if err := json.Unmarshal(e.Data.Object, &session); err != nil {
		return "", fmt.Errorf("decode checkout session: %w", err)
	}
	if session.CustomerDetails.Email == "" {
		return "", fmt.Errorf("checkout session has no customer email")
	}
	return session.CustomerDetails.Email, nil
}

// Verifier authenticates a raw webhook payload against its signature header
// and decodes the event.
type Verifier interface {
	VerifyAndDecode(payload []byte, sigHeader string) (*Event, error)
}

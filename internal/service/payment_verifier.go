package service

import (
	"errors"
	"fmt"
	"strings"

	"github.com/stripe/stripe-go/v72"
	"github.com/stripe/stripe-go/v72/client"
)

var ErrPaymentUnverified = errors.New("payment verification disabled")

type checkoutSessions interface {
	Get(id string, params *stripe.CheckoutSessionParams) (*stripe.CheckoutSession, error)
}

// PaymentCheck is what Stripe reports for a checkout session.
type PaymentCheck struct {
	SessionID   string
	Paid        bool
	AmountTotal int64
	Currency    string
}

// Amount formats AmountTotal, which Stripe reports in cents.
func (c *PaymentCheck) Amount() string {
	return fmt.Sprintf("%d.%02d", c.AmountTotal/100, c.AmountTotal%100)
}

// PaymentVerifier looks up Stripe checkout sessions returned on the payment
// success redirect. A verifier built without a key reports nothing.
type PaymentVerifier struct {
	sessions checkoutSessions
}

func NewPaymentVerifier(secretKey string) *PaymentVerifier {
	if secretKey == "" {
		return &PaymentVerifier{}
	}
	sc := &client.API{}
	sc.Init(secretKey, nil)
	return &PaymentVerifier{sessions: sc.CheckoutSessions}
}

func (v *PaymentVerifier) Enabled() bool {
	return v != nil && v.sessions != nil
}

func (v *PaymentVerifier) Verify(sessionID string) (*PaymentCheck, error) {
	if !v.Enabled() {
		return nil, ErrPaymentUnverified
	}
	sess, err := v.sessions.Get(sessionID, &stripe.CheckoutSessionParams{})
	if err != nil {
		return nil, err
	}
	return &PaymentCheck{
		SessionID:   sess.ID,
		Paid:        sess.PaymentStatus == stripe.CheckoutSessionPaymentStatusPaid,
		AmountTotal: sess.AmountTotal,
		Currency:    strings.ToUpper(string(sess.Currency)),
	}, nil
}

package domain

import (
	"context"
	"time"
)

// PaymentStatus is the settlement state of a payment-bearing record.
// swagger:model PaymentStatus
type PaymentStatus string

const (
	PaymentPending   PaymentStatus = "pending"
	PaymentCompleted PaymentStatus = "completed"
	PaymentFailed    PaymentStatus = "failed"
	PaymentCancelled PaymentStatus = "cancelled"
)

// PaymentState tracks a record's gateway order and settlement.
// swagger:model PaymentState
type PaymentState struct {
	OrderID         string        `json:"order_id,omitempty"`
	Method          string        `json:"method,omitempty"`
	Status          PaymentStatus `json:"status"`
	TransactionID   *string       `json:"transaction_id,omitempty"`
	TransactionDate *time.Time    `json:"transaction_date,omitempty"`
}

// PaymentOrder is the gateway's answer to an order creation request.
// swagger:model PaymentOrder
type PaymentOrder struct {
	OrderID          string `json:"order_id"`
	AmountMinorUnits int64  `json:"amount_minor_units"`
	Currency         string `json:"currency"`
}

// PaymentGateway asks the external processor to create an order for a given
// amount. The idempotency key is derived from the local record id so that a
// retried request for the same record does not create a duplicate remote order.
type PaymentGateway interface {
	CreateOrder(ctx context.Context, amountMinorUnits int64, currency, idempotencyKey string) (*PaymentOrder, error)
}

// CallbackVerifier authenticates a payment-completion callback. It returns
// false on any malformed input; callers treat false as "reject the callback"
// regardless of cause. This check is the sole authentication for callbacks.
type CallbackVerifier interface {
	Verify(orderID, paymentID, signature string) bool
}

// CompletedPayment is the outcome of a successful payment completion. Exactly
// one of Donation or Registration is set. AlreadyCompleted is true when a
// repeated callback found the record settled; repeats are safe no-ops.
type CompletedPayment struct {
	Donation         *Donation     `json:"donation,omitempty"`
	Registration     *Registration `json:"registration,omitempty"`
	AlreadyCompleted bool          `json:"already_completed"`
}

// PaymentService covers order creation and the reconciliation protocol.
type PaymentService interface {
	// CreateDonation creates the gateway order first, then persists the
	// donation as Pending with the order id attached.
	CreateDonation(ctx context.Context, in CreateDonationInput) (*Donation, error)
	// CreateRegistrationOrder creates (or reuses) a gateway order for a priced
	// event registration and attaches it to the record.
	CreateRegistrationOrder(ctx context.Context, registrationID string) (*PaymentOrder, error)
	// CompletePayment authenticates the callback and performs the one-time
	// Pending->Completed transition for the matching record. Repeated
	// callbacks for the same order succeed without re-applying side effects.
	CompletePayment(ctx context.Context, orderID, paymentID, signature string) (*CompletedPayment, error)
	// CancelRecurringDonation cancels a still-pending recurring donation.
	CancelRecurringDonation(ctx context.Context, donationID string, actor *Principal) (*Donation, error)
}

// CreateDonationInput carries the fields accepted when creating a donation.
// Amount is a decimal string; conversion to minor units happens once, with
// deterministic round-half-up, before the gateway is called.
type CreateDonationInput struct {
	Contact    Contact
	DonorRef   *string
	Amount     string
	Currency   string
	Program    string
	Recurrence Recurrence
}

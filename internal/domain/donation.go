package domain

import (
	"context"
	"time"
)

// Recurrence is the donation schedule.
// swagger:model Recurrence
type Recurrence string

const (
	RecurrenceOneTime   Recurrence = "one-time"
	RecurrenceMonthly   Recurrence = "monthly"
	RecurrenceQuarterly Recurrence = "quarterly"
	RecurrenceYearly    Recurrence = "yearly"
)

// Valid reports whether r is one of the known recurrence values.
func (r Recurrence) Valid() bool {
	switch r {
	case RecurrenceOneTime, RecurrenceMonthly, RecurrenceQuarterly, RecurrenceYearly:
		return true
	}
	return false
}

// Donation is a priced record following the same payment sub-protocol as
// priced registrations. It is created Pending with the gateway order id
// already attached, so an order always exists before the record is persisted.
// swagger:model Donation
type Donation struct {
	ID string `json:"id"`
	// DonorRef is an optional reference to an authenticated account.
	DonorRef *string `json:"donor_ref,omitempty"`
	Contact  Contact `json:"contact"`
	// AmountMinorUnits is the donation amount in the currency's minor units
	// (paise, cents). Amounts are never stored or transmitted as floats.
	AmountMinorUnits int64      `json:"amount_minor_units"`
	Currency         string     `json:"currency"`
	Program          string     `json:"program,omitempty"`
	Recurrence       Recurrence `json:"recurrence"`
	Payment          PaymentState `json:"payment"`
	// Status mirrors Payment.Status for top-level filtering.
	Status    PaymentStatus `json:"status"`
	CreatedAt time.Time     `json:"created_at"`
	UpdatedAt time.Time     `json:"updated_at"`
}

// NewDonation returns a Pending donation carrying the given gateway order id.
// ID is set by the repository on create.
func NewDonation(contact Contact, donorRef *string, amountMinorUnits int64, currency, program string, recurrence Recurrence, orderID string, now time.Time) *Donation {
	return &Donation{
		DonorRef:         donorRef,
		Contact:          contact,
		AmountMinorUnits: amountMinorUnits,
		Currency:         currency,
		Program:          program,
		Recurrence:       recurrence,
		Payment:          PaymentState{OrderID: orderID, Status: PaymentPending},
		Status:           PaymentPending,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
}

// DonationRepository defines storage operations for donations. Completion and
// cancellation are conditional single-statement updates.
type DonationRepository interface {
	Create(ctx context.Context, d *Donation) error
	GetByID(ctx context.Context, id string) (*Donation, error)
	GetByOrderID(ctx context.Context, orderID string) (*Donation, error)
	// CompleteByOrderID marks the donation completed only if it is still
	// pending. The bool reports whether this call performed the transition;
	// false with a nil error means the donation was already completed.
	CompleteByOrderID(ctx context.Context, orderID, paymentID string, at time.Time) (*Donation, bool, error)
	// CancelRecurring cancels a recurring donation only while it is still
	// pending; one-time or already-settled donations cannot be cancelled.
	CancelRecurring(ctx context.Context, id string, at time.Time) (*Donation, error)
}

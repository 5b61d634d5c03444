package services

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"communityhub/internal/domain"
)

type paymentService struct {
	donations     domain.DonationRepository
	registrations domain.RegistrationRepository
	gateway       domain.PaymentGateway
	verifier      domain.CallbackVerifier
	notifier      domain.Notifier
	logger        *slog.Logger
}

// NewPaymentService creates a PaymentService wiring the ledger repositories,
// the payment gateway, the callback verifier, and the notification collaborator.
func NewPaymentService(
	donations domain.DonationRepository,
	registrations domain.RegistrationRepository,
	gateway domain.PaymentGateway,
	verifier domain.CallbackVerifier,
	notifier domain.Notifier,
	logger *slog.Logger,
) domain.PaymentService {
	return &paymentService{
		donations:     donations,
		registrations: registrations,
		gateway:       gateway,
		verifier:      verifier,
		notifier:      notifier,
		logger:        logger,
	}
}

// CreateDonation creates the gateway order before persisting the donation, so
// a persisted Pending donation always carries its order id and no order is
// ever orphaned locally.
func (s *paymentService) CreateDonation(ctx context.Context, in domain.CreateDonationInput) (*domain.Donation, error) {
	if errs := validateDonationInput(in); len(errs) > 0 {
		return nil, fmt.Errorf("%w: %s", domain.ErrInvalidInput, strings.Join(errs, "; "))
	}
	recurrence := in.Recurrence
	if recurrence == "" {
		recurrence = domain.RecurrenceOneTime
	}
	minor, err := domain.ParseAmountMinorUnits(in.Amount, in.Currency)
	if err != nil {
		return nil, err
	}
	s.logger.Info("donation amount converted to minor units",
		"amount", in.Amount,
		"minor_units", minor,
		"currency", in.Currency,
	)

	receipt, err := newReceipt("don")
	if err != nil {
		return nil, fmt.Errorf("generate receipt: %w", err)
	}
	order, err := s.gateway.CreateOrder(ctx, minor, in.Currency, receipt)
	if err != nil {
		return nil, fmt.Errorf("create gateway order: %w", err)
	}

	now := time.Now().UTC()
	d := domain.NewDonation(in.Contact, in.DonorRef, minor, in.Currency, in.Program, recurrence, order.OrderID, now)
	if err := s.donations.Create(ctx, d); err != nil {
		return nil, fmt.Errorf("create donation: %w", err)
	}
	return d, nil
}

func validateDonationInput(in domain.CreateDonationInput) []string {
	var errs []string
	if strings.TrimSpace(in.Contact.FirstName) == "" {
		errs = append(errs, "first_name is required")
	}
	if strings.TrimSpace(in.Contact.Email) == "" {
		errs = append(errs, "email is required")
	}
	if in.Recurrence != "" && !in.Recurrence.Valid() {
		errs = append(errs, "recurrence is invalid")
	}
	return errs
}

// CreateRegistrationOrder creates a gateway order for a priced event
// registration. If an order is already attached the existing order is reused
// instead of creating a duplicate remote order.
func (s *paymentService) CreateRegistrationOrder(ctx context.Context, registrationID string) (*domain.PaymentOrder, error) {
	reg, err := s.registrations.GetByID(ctx, registrationID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get registration: %w", err)
	}
	if reg.Kind != domain.KindEvent || reg.Event == nil || reg.Payment == nil || reg.Event.TotalAmountMinorUnits <= 0 {
		return nil, fmt.Errorf("%w: registration is not payable", domain.ErrInvalidInput)
	}
	if reg.Payment.Status != domain.PaymentPending {
		return nil, domain.ErrInvalidTransition
	}
	if reg.Payment.OrderID != "" {
		return &domain.PaymentOrder{
			OrderID:          reg.Payment.OrderID,
			AmountMinorUnits: reg.Event.TotalAmountMinorUnits,
			Currency:         reg.Event.Currency,
		}, nil
	}

	// The idempotency key is derived from the record id: a client retry after
	// a timeout reuses the same key and therefore the same remote order.
	order, err := s.gateway.CreateOrder(ctx, reg.Event.TotalAmountMinorUnits, reg.Event.Currency, "reg_"+reg.ID)
	if err != nil {
		return nil, fmt.Errorf("create gateway order: %w", err)
	}
	if _, err := s.registrations.AttachPaymentOrder(ctx, reg.ID, order.OrderID); err != nil {
		if errors.Is(err, domain.ErrInvalidTransition) {
			// Lost a race with another order creation; return what is attached.
			current, getErr := s.registrations.GetByID(ctx, reg.ID)
			if getErr == nil && current.Payment != nil && current.Payment.OrderID != "" {
				return &domain.PaymentOrder{
					OrderID:          current.Payment.OrderID,
					AmountMinorUnits: current.Event.TotalAmountMinorUnits,
					Currency:         current.Event.Currency,
				}, nil
			}
		}
		return nil, fmt.Errorf("attach payment order: %w", err)
	}
	return order, nil
}

// CompletePayment is the reconciliation entry point for gateway callbacks.
// Gateways deliver callbacks at least once; the conditional update in the
// repository guarantees that concurrent or repeated callbacks for one order
// produce exactly one Completed transition and one notification.
func (s *paymentService) CompletePayment(ctx context.Context, orderID, paymentID, signature string) (*domain.CompletedPayment, error) {
	if !s.verifier.Verify(orderID, paymentID, signature) {
		s.logger.Warn("payment callback signature rejected", "order_id", orderID, "payment_id", paymentID)
		return nil, domain.ErrInvalidSignature
	}
	now := time.Now().UTC()

	d, won, err := s.donations.CompleteByOrderID(ctx, orderID, paymentID, now)
	if err == nil {
		if won {
			s.notifyPaymentCompleted(ctx, d.Contact, orderID, paymentID, d.AmountMinorUnits, d.Currency)
		}
		return &domain.CompletedPayment{Donation: d, AlreadyCompleted: !won}, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("complete donation: %w", err)
	}

	reg, won, err := s.registrations.CompletePaymentByOrderID(ctx, orderID, paymentID, now)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			s.logger.Warn("payment callback for unknown order", "order_id", orderID, "payment_id", paymentID)
			return nil, domain.ErrUnknownOrder
		}
		return nil, fmt.Errorf("complete registration payment: %w", err)
	}
	if won {
		amount := int64(0)
		currency := ""
		if reg.Event != nil {
			amount = reg.Event.TotalAmountMinorUnits
			currency = reg.Event.Currency
		}
		s.notifyPaymentCompleted(ctx, reg.Contact, orderID, paymentID, amount, currency)
	}
	return &domain.CompletedPayment{Registration: reg, AlreadyCompleted: !won}, nil
}

// notifyPaymentCompleted fires the notification collaborator at most once per
// completed order, best-effort. Failures are logged and never surfaced:
// financial state correctness outranks notification delivery.
func (s *paymentService) notifyPaymentCompleted(ctx context.Context, contact domain.Contact, orderID, paymentID string, amountMinorUnits int64, currency string) {
	notice := &domain.PaymentCompletedNotice{
		Email:            contact.Email,
		FirstName:        contact.FirstName,
		OrderID:          orderID,
		TransactionID:    paymentID,
		AmountMinorUnits: amountMinorUnits,
		Currency:         currency,
	}
	go func(ctx context.Context) {
		if err := s.notifier.PaymentCompleted(ctx, notice); err != nil {
			s.logger.Error("payment notification failed", "order_id", notice.OrderID, "err", err)
		}
	}(context.WithoutCancel(ctx))
}

func (s *paymentService) CancelRecurringDonation(ctx context.Context, donationID string, actor *domain.Principal) (*domain.Donation, error) {
	d, err := s.donations.GetByID(ctx, donationID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get donation: %w", err)
	}
	if d.DonorRef != nil && !actor.HasRole(domain.RoleAdmin) {
		if actor == nil || actor.UserID != *d.DonorRef {
			return nil, domain.ErrForbidden
		}
	}
	cancelled, err := s.donations.CancelRecurring(ctx, donationID, time.Now().UTC())
	if err != nil {
		if errors.Is(err, domain.ErrInvalidTransition) || errors.Is(err, domain.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("cancel donation: %w", err)
	}
	return cancelled, nil
}

// newReceipt returns a random idempotency key with the given prefix.
func newReceipt(prefix string) (string, error) {
	b := make([]byte, 12)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return prefix + "_" + hex.EncodeToString(b), nil
}

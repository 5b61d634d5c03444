package services

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"communityhub/internal/domain"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError}))
}

// mockDonationRepository enforces the same conditional-update semantics as the
// postgres repository, under a mutex, so races can be exercised in-process.
type mockDonationRepository struct {
	mu        sync.Mutex
	byOrderID map[string]*domain.Donation
	created   []*domain.Donation
	createErr error
}

func newMockDonationRepository() *mockDonationRepository {
	return &mockDonationRepository{byOrderID: make(map[string]*domain.Donation)}
}

func (m *mockDonationRepository) Create(ctx context.Context, d *domain.Donation) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.createErr != nil {
		return m.createErr
	}
	d.ID = "don-1"
	m.byOrderID[d.Payment.OrderID] = d
	m.created = append(m.created, d)
	return nil
}

func (m *mockDonationRepository) GetByID(ctx context.Context, id string) (*domain.Donation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, d := range m.byOrderID {
		if d.ID == id {
			return d, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *mockDonationRepository) GetByOrderID(ctx context.Context, orderID string) (*domain.Donation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	d, ok := m.byOrderID[orderID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return d, nil
}

func (m *mockDonationRepository) CompleteByOrderID(ctx context.Context, orderID, paymentID string, at time.Time) (*domain.Donation, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	d, ok := m.byOrderID[orderID]
	if !ok {
		return nil, false, domain.ErrNotFound
	}
	if d.Payment.Status != domain.PaymentPending {
		return d, false, nil
	}
	d.Payment.Status = domain.PaymentCompleted
	d.Payment.TransactionID = &paymentID
	d.Payment.TransactionDate = &at
	d.Status = domain.PaymentCompleted
	d.UpdatedAt = at
	return d, true, nil
}

func (m *mockDonationRepository) CancelRecurring(ctx context.Context, id string, at time.Time) (*domain.Donation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, d := range m.byOrderID {
		if d.ID != id {
			continue
		}
		if d.Payment.Status != domain.PaymentPending || d.Recurrence == domain.RecurrenceOneTime {
			return nil, domain.ErrInvalidTransition
		}
		d.Payment.Status = domain.PaymentCancelled
		d.Status = domain.PaymentCancelled
		return d, nil
	}
	return nil, domain.ErrNotFound
}

// mockRegistrationLedger implements domain.RegistrationRepository in memory,
// enforcing the repository's conditional-update semantics under a mutex.
type mockRegistrationLedger struct {
	mu    sync.Mutex
	byID  map[string]*domain.Registration
	byOrd map[string]*domain.Registration
}

func newMockRegistrationLedger() *mockRegistrationLedger {
	return &mockRegistrationLedger{
		byID:  make(map[string]*domain.Registration),
		byOrd: make(map[string]*domain.Registration),
	}
}

func (m *mockRegistrationLedger) Create(ctx context.Context, reg *domain.Registration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	reg.ID = "reg-1"
	m.byID[reg.ID] = reg
	return nil
}

func (m *mockRegistrationLedger) GetByID(ctx context.Context, id string) (*domain.Registration, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	reg, ok := m.byID[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return reg, nil
}

func (m *mockRegistrationLedger) List(ctx context.Context, f domain.RegistrationFilter, p domain.PaginationParams) ([]*domain.Registration, int, error) {
	return nil, 0, nil
}

func (m *mockRegistrationLedger) UpdateStatus(ctx context.Context, id string, from, to domain.Status, entry domain.StatusEntry) (*domain.Registration, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	reg, ok := m.byID[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	if reg.Status != from {
		return nil, domain.ErrInvalidTransition
	}
	reg.Status = to
	reg.StatusHistory = append(reg.StatusHistory, entry)
	reg.UpdatedAt = entry.Timestamp
	return reg, nil
}

func (m *mockRegistrationLedger) AttachPaymentOrder(ctx context.Context, id, orderID string) (*domain.Registration, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	reg, ok := m.byID[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	if reg.Payment == nil || reg.Payment.Status != domain.PaymentPending || reg.Payment.OrderID != "" {
		return nil, domain.ErrInvalidTransition
	}
	reg.Payment.OrderID = orderID
	m.byOrd[orderID] = reg
	return reg, nil
}

func (m *mockRegistrationLedger) GetByPaymentOrderID(ctx context.Context, orderID string) (*domain.Registration, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	reg, ok := m.byOrd[orderID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return reg, nil
}

func (m *mockRegistrationLedger) CompletePaymentByOrderID(ctx context.Context, orderID, paymentID string, at time.Time) (*domain.Registration, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	reg, ok := m.byOrd[orderID]
	if !ok {
		return nil, false, domain.ErrNotFound
	}
	if reg.Payment.Status != domain.PaymentPending {
		return reg, false, nil
	}
	reg.Payment.Status = domain.PaymentCompleted
	reg.Payment.TransactionID = &paymentID
	reg.Payment.TransactionDate = &at
	return reg, true, nil
}

type mockGateway struct {
	mu       sync.Mutex
	orderID  string
	err      error
	receipts []string
}

func (m *mockGateway) CreateOrder(ctx context.Context, amountMinorUnits int64, currency, idempotencyKey string) (*domain.PaymentOrder, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	m.receipts = append(m.receipts, idempotencyKey)
	return &domain.PaymentOrder{OrderID: m.orderID, AmountMinorUnits: amountMinorUnits, Currency: currency}, nil
}

func (m *mockGateway) calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.receipts)
}

// stubVerifier accepts exactly one signature string.
type stubVerifier struct {
	valid string
}

func (v *stubVerifier) Verify(orderID, paymentID, signature string) bool {
	return signature == v.valid && orderID != "" && paymentID != ""
}

// countingNotifier delivers each call onto a channel so tests can wait for
// the fire-and-forget goroutine without sleeping.
type countingNotifier struct {
	payments chan *domain.PaymentCompletedNotice
	statuses chan *domain.StatusChangedNotice
	err      error
}

func newCountingNotifier() *countingNotifier {
	return &countingNotifier{
		payments: make(chan *domain.PaymentCompletedNotice, 16),
		statuses: make(chan *domain.StatusChangedNotice, 16),
	}
}

func (n *countingNotifier) PaymentCompleted(ctx context.Context, notice *domain.PaymentCompletedNotice) error {
	n.payments <- notice
	return n.err
}

func (n *countingNotifier) RegistrationStatusChanged(ctx context.Context, notice *domain.StatusChangedNotice) error {
	n.statuses <- notice
	return n.err
}

func (n *countingNotifier) waitPayment(t *testing.T) *domain.PaymentCompletedNotice {
	t.Helper()
	select {
	case notice := <-n.payments:
		return notice
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for payment notification")
		return nil
	}
}

func (n *countingNotifier) assertNoMorePayments(t *testing.T) {
	t.Helper()
	select {
	case <-n.payments:
		t.Fatal("unexpected extra payment notification")
	case <-time.After(50 * time.Millisecond):
	}
}

func pendingDonation(orderID string) *domain.Donation {
	return domain.NewDonation(
		domain.Contact{FirstName: "Asha", LastName: "Rao", Email: "asha@example.com", Phone: "1"},
		nil, 50000, "INR", "general", domain.RecurrenceOneTime, orderID, time.Now().UTC(),
	)
}

func newTestPaymentService(donations *mockDonationRepository, regs *mockRegistrationLedger, gw *mockGateway, notifier *countingNotifier) domain.PaymentService {
	return NewPaymentService(donations, regs, gw, &stubVerifier{valid: "valid-sig"}, notifier, testLogger())
}

func TestPaymentService_CompletePayment_InvalidSignature(t *testing.T) {
	donations := newMockDonationRepository()
	d := pendingDonation("order_abc")
	donations.byOrderID["order_abc"] = d
	notifier := newCountingNotifier()
	svc := newTestPaymentService(donations, newMockRegistrationLedger(), &mockGateway{}, notifier)

	_, err := svc.CompletePayment(context.Background(), "order_abc", "pay_xyz", "tampered")
	if !errors.Is(err, domain.ErrInvalidSignature) {
		t.Fatalf("expected ErrInvalidSignature, got %v", err)
	}
	if d.Payment.Status != domain.PaymentPending {
		t.Errorf("record must remain pending, got %s", d.Payment.Status)
	}
	notifier.assertNoMorePayments(t)
}

func TestPaymentService_CompletePayment_UnknownOrder(t *testing.T) {
	notifier := newCountingNotifier()
	svc := newTestPaymentService(newMockDonationRepository(), newMockRegistrationLedger(), &mockGateway{}, notifier)

	_, err := svc.CompletePayment(context.Background(), "order_missing", "pay_xyz", "valid-sig")
	if !errors.Is(err, domain.ErrUnknownOrder) {
		t.Fatalf("expected ErrUnknownOrder, got %v", err)
	}
	notifier.assertNoMorePayments(t)
}

func TestPaymentService_CompletePayment_Donation(t *testing.T) {
	donations := newMockDonationRepository()
	donations.byOrderID["order_abc"] = pendingDonation("order_abc")
	notifier := newCountingNotifier()
	svc := newTestPaymentService(donations, newMockRegistrationLedger(), &mockGateway{}, notifier)

	res, err := svc.CompletePayment(context.Background(), "order_abc", "pay_xyz", "valid-sig")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if res.AlreadyCompleted {
		t.Error("first completion must not report already completed")
	}
	if res.Donation == nil || res.Donation.Payment.Status != domain.PaymentCompleted {
		t.Fatalf("expected completed donation, got %+v", res.Donation)
	}
	if res.Donation.Payment.TransactionID == nil || *res.Donation.Payment.TransactionID != "pay_xyz" {
		t.Errorf("expected transaction id pay_xyz, got %v", res.Donation.Payment.TransactionID)
	}
	notice := notifier.waitPayment(t)
	if notice.OrderID != "order_abc" || notice.TransactionID != "pay_xyz" {
		t.Errorf("unexpected notification: %+v", notice)
	}
	notifier.assertNoMorePayments(t)
}

func TestPaymentService_CompletePayment_Idempotent(t *testing.T) {
	donations := newMockDonationRepository()
	donations.byOrderID["order_abc"] = pendingDonation("order_abc")
	notifier := newCountingNotifier()
	svc := newTestPaymentService(donations, newMockRegistrationLedger(), &mockGateway{}, notifier)

	first, err := svc.CompletePayment(context.Background(), "order_abc", "pay_xyz", "valid-sig")
	if err != nil {
		t.Fatalf("first call: %v", err)
	}
	second, err := svc.CompletePayment(context.Background(), "order_abc", "pay_xyz", "valid-sig")
	if err != nil {
		t.Fatalf("second call: %v", err)
	}
	if first.AlreadyCompleted {
		t.Error("first call must perform the transition")
	}
	if !second.AlreadyCompleted {
		t.Error("second call must be a no-op")
	}
	if second.Donation.Payment.Status != domain.PaymentCompleted {
		t.Errorf("expected completed, got %s", second.Donation.Payment.Status)
	}
	notifier.waitPayment(t)
	notifier.assertNoMorePayments(t)
}

func TestPaymentService_CompletePayment_ConcurrentRace(t *testing.T) {
	donations := newMockDonationRepository()
	donations.byOrderID["order_abc"] = pendingDonation("order_abc")
	notifier := newCountingNotifier()
	svc := newTestPaymentService(donations, newMockRegistrationLedger(), &mockGateway{}, notifier)

	const callers = 8
	results := make(chan *domain.CompletedPayment, callers)
	var wg sync.WaitGroup
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			res, err := svc.CompletePayment(context.Background(), "order_abc", "pay_xyz", "valid-sig")
			if err != nil {
				t.Errorf("unexpected error: %v", err)
				return
			}
			results <- res
		}()
	}
	wg.Wait()
	close(results)

	winners := 0
	for res := range results {
		if !res.AlreadyCompleted {
			winners++
		}
	}
	if winners != 1 {
		t.Fatalf("expected exactly one winning completion, got %d", winners)
	}
	notifier.waitPayment(t)
	notifier.assertNoMorePayments(t)
}

func TestPaymentService_CompletePayment_Registration(t *testing.T) {
	regs := newMockRegistrationLedger()
	reg := &domain.Registration{
		ID:      "reg-1",
		Kind:    domain.KindEvent,
		Contact: domain.Contact{FirstName: "Asha", Email: "asha@example.com"},
		Status:  domain.StatusPending,
		Event:   &domain.EventDetails{EventRef: "e1", TotalAmountMinorUnits: 50000, Currency: "INR"},
		Payment: &domain.PaymentState{OrderID: "order_reg", Status: domain.PaymentPending},
	}
	regs.byID["reg-1"] = reg
	regs.byOrd["order_reg"] = reg
	notifier := newCountingNotifier()
	svc := newTestPaymentService(newMockDonationRepository(), regs, &mockGateway{}, notifier)

	res, err := svc.CompletePayment(context.Background(), "order_reg", "pay_xyz", "valid-sig")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if res.Registration == nil || res.Registration.Payment.Status != domain.PaymentCompleted {
		t.Fatalf("expected completed registration payment, got %+v", res.Registration)
	}
	notice := notifier.waitPayment(t)
	if notice.AmountMinorUnits != 50000 || notice.Currency != "INR" {
		t.Errorf("unexpected notification amount: %+v", notice)
	}
}

func TestPaymentService_CompletePayment_NotificationFailureDoesNotRevert(t *testing.T) {
	donations := newMockDonationRepository()
	donations.byOrderID["order_abc"] = pendingDonation("order_abc")
	notifier := newCountingNotifier()
	notifier.err = errors.New("smtp down")
	svc := newTestPaymentService(donations, newMockRegistrationLedger(), &mockGateway{}, notifier)

	res, err := svc.CompletePayment(context.Background(), "order_abc", "pay_xyz", "valid-sig")
	if err != nil {
		t.Fatalf("completion must not fail on notification error, got %v", err)
	}
	if res.Donation.Payment.Status != domain.PaymentCompleted {
		t.Errorf("expected completed, got %s", res.Donation.Payment.Status)
	}
	notifier.waitPayment(t)
}

func TestPaymentService_CreateDonation(t *testing.T) {
	donations := newMockDonationRepository()
	gw := &mockGateway{orderID: "order_new"}
	notifier := newCountingNotifier()
	svc := newTestPaymentService(donations, newMockRegistrationLedger(), gw, notifier)

	d, err := svc.CreateDonation(context.Background(), domain.CreateDonationInput{
		Contact:  domain.Contact{FirstName: "Asha", LastName: "Rao", Email: "asha@example.com", Phone: "1"},
		Amount:   "19.995",
		Currency: "INR",
		Program:  "education",
	})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if d.AmountMinorUnits != 2000 {
		t.Errorf("expected 2000 minor units (round-half-up), got %d", d.AmountMinorUnits)
	}
	if d.Payment.OrderID != "order_new" || d.Payment.Status != domain.PaymentPending {
		t.Errorf("expected pending donation with order attached, got %+v", d.Payment)
	}
	if d.Recurrence != domain.RecurrenceOneTime {
		t.Errorf("expected default one-time recurrence, got %s", d.Recurrence)
	}
	if gw.calls() != 1 {
		t.Errorf("expected one gateway call, got %d", gw.calls())
	}
	if len(donations.created) != 1 {
		t.Fatalf("expected donation persisted, got %d", len(donations.created))
	}
}

func TestPaymentService_CreateDonation_GatewayFailure(t *testing.T) {
	donations := newMockDonationRepository()
	gw := &mockGateway{err: domain.ErrGateway}
	svc := newTestPaymentService(donations, newMockRegistrationLedger(), gw, newCountingNotifier())

	_, err := svc.CreateDonation(context.Background(), domain.CreateDonationInput{
		Contact:  domain.Contact{FirstName: "Asha", Email: "asha@example.com"},
		Amount:   "10.00",
		Currency: "INR",
	})
	if !errors.Is(err, domain.ErrGateway) {
		t.Fatalf("expected ErrGateway, got %v", err)
	}
	if len(donations.created) != 0 {
		t.Fatal("no donation may be persisted when order creation fails")
	}
}

func TestPaymentService_CreateDonation_RejectsBadInput(t *testing.T) {
	gw := &mockGateway{orderID: "order_new"}
	svc := newTestPaymentService(newMockDonationRepository(), newMockRegistrationLedger(), gw, newCountingNotifier())

	tests := []struct {
		name  string
		in    domain.CreateDonationInput
		errIs error
	}{
		{"unsupported currency", domain.CreateDonationInput{
			Contact: domain.Contact{FirstName: "A", Email: "a@b.co"}, Amount: "10", Currency: "JPY",
		}, domain.ErrUnsupportedCurrency},
		{"zero amount", domain.CreateDonationInput{
			Contact: domain.Contact{FirstName: "A", Email: "a@b.co"}, Amount: "0", Currency: "INR",
		}, domain.ErrInvalidAmount},
		{"missing contact", domain.CreateDonationInput{Amount: "10", Currency: "INR"}, domain.ErrInvalidInput},
		{"bad recurrence", domain.CreateDonationInput{
			Contact: domain.Contact{FirstName: "A", Email: "a@b.co"}, Amount: "10", Currency: "INR",
			Recurrence: domain.Recurrence("weekly"),
		}, domain.ErrInvalidInput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.CreateDonation(context.Background(), tt.in)
			if !errors.Is(err, tt.errIs) {
				t.Fatalf("expected %v, got %v", tt.errIs, err)
			}
		})
	}
	if gw.calls() != 0 {
		t.Fatalf("gateway must not be called for rejected input, got %d calls", gw.calls())
	}
}

func TestPaymentService_CreateRegistrationOrder(t *testing.T) {
	regs := newMockRegistrationLedger()
	reg := &domain.Registration{
		ID:      "reg-1",
		Kind:    domain.KindEvent,
		Contact: domain.Contact{FirstName: "Asha", Email: "asha@example.com"},
		Status:  domain.StatusPending,
		Event:   &domain.EventDetails{EventRef: "e1", TotalAmountMinorUnits: 50000, Currency: "INR"},
		Payment: &domain.PaymentState{Status: domain.PaymentPending},
	}
	regs.byID["reg-1"] = reg
	gw := &mockGateway{orderID: "order_abc"}
	svc := newTestPaymentService(newMockDonationRepository(), regs, gw, newCountingNotifier())

	order, err := svc.CreateRegistrationOrder(context.Background(), "reg-1")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if order.OrderID != "order_abc" || order.AmountMinorUnits != 50000 {
		t.Fatalf("unexpected order: %+v", order)
	}
	if reg.Payment.OrderID != "order_abc" {
		t.Errorf("order id must be attached to the record, got %q", reg.Payment.OrderID)
	}
	if gw.receipts[0] != "reg_reg-1" {
		t.Errorf("idempotency key must derive from the record id, got %q", gw.receipts[0])
	}

	// A retry must reuse the attached order instead of creating a new one.
	again, err := svc.CreateRegistrationOrder(context.Background(), "reg-1")
	if err != nil {
		t.Fatalf("retry: %v", err)
	}
	if again.OrderID != "order_abc" {
		t.Errorf("expected reused order id, got %s", again.OrderID)
	}
	if gw.calls() != 1 {
		t.Errorf("expected single gateway call, got %d", gw.calls())
	}
}

func TestPaymentService_CreateRegistrationOrder_NotPayable(t *testing.T) {
	regs := newMockRegistrationLedger()
	regs.byID["reg-free"] = &domain.Registration{
		ID:     "reg-free",
		Kind:   domain.KindGeneral,
		Status: domain.StatusPending,
	}
	svc := newTestPaymentService(newMockDonationRepository(), regs, &mockGateway{}, newCountingNotifier())

	_, err := svc.CreateRegistrationOrder(context.Background(), "reg-free")
	if !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
	if _, err := svc.CreateRegistrationOrder(context.Background(), "reg-missing"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestPaymentService_CancelRecurringDonation(t *testing.T) {
	donations := newMockDonationRepository()
	donor := "user-1"
	d := pendingDonation("order_rec")
	d.ID = "don-rec"
	d.Recurrence = domain.RecurrenceMonthly
	d.DonorRef = &donor
	donations.byOrderID["order_rec"] = d
	svc := newTestPaymentService(donations, newMockRegistrationLedger(), &mockGateway{}, newCountingNotifier())

	// A different user may not cancel someone else's donation.
	_, err := svc.CancelRecurringDonation(context.Background(), "don-rec", &domain.Principal{UserID: "user-2"})
	if !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}

	cancelled, err := svc.CancelRecurringDonation(context.Background(), "don-rec", &domain.Principal{UserID: "user-1"})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if cancelled.Status != domain.PaymentCancelled {
		t.Errorf("expected cancelled, got %s", cancelled.Status)
	}

	// Cancelling again is an invalid transition.
	_, err = svc.CancelRecurringDonation(context.Background(), "don-rec", &domain.Principal{UserID: "user-1"})
	if !errors.Is(err, domain.ErrInvalidTransition) {
		t.Fatalf("expected ErrInvalidTransition, got %v", err)
	}
}

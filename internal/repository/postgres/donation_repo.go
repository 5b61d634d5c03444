package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/lib/pq"

	"communityhub/internal/domain"
)

type donationRepository struct {
	DB *sql.DB
}

// NewDonationRepository returns a DonationRepository backed by postgres.
func NewDonationRepository(db *sql.DB) domain.DonationRepository {
	return &donationRepository{
		DB: db,
	}
}

const donationColumns = `
	id, donor_ref, first_name, last_name, email, phone, address,
	amount_minor_units, currency, program, recurrence,
	order_id, method, payment_status, transaction_id, transaction_date,
	created_at, updated_at
`

// ErrDuplicateOrder is returned when a donation with the same gateway order id
// already exists. The order_id column carries a unique constraint.
var ErrDuplicateOrder = errors.New("duplicate payment order id")

func (r *donationRepository) Create(ctx context.Context, d *domain.Donation) error {
	query := `
		INSERT INTO donations (
			donor_ref, first_name, last_name, email, phone, address,
			amount_minor_units, currency, program, recurrence,
			order_id, payment_status, created_at, updated_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		RETURNING id
	`
	err := r.DB.QueryRowContext(ctx, query,
		d.DonorRef, d.Contact.FirstName, d.Contact.LastName, d.Contact.Email,
		d.Contact.Phone, d.Contact.Address,
		d.AmountMinorUnits, d.Currency, d.Program, d.Recurrence,
		d.Payment.OrderID, d.Payment.Status, d.CreatedAt, d.UpdatedAt,
	).Scan(&d.ID)
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == "23505" {
		return ErrDuplicateOrder
	}
	return err
}

func (r *donationRepository) GetByID(ctx context.Context, id string) (*domain.Donation, error) {
	query := `SELECT ` + donationColumns + ` FROM donations WHERE id = $1`
	d, err := scanDonation(r.DB.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return d, nil
}

func (r *donationRepository) GetByOrderID(ctx context.Context, orderID string) (*domain.Donation, error) {
	query := `SELECT ` + donationColumns + ` FROM donations WHERE order_id = $1`
	d, err := scanDonation(r.DB.QueryRowContext(ctx, query, orderID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return d, nil
}

// CompleteByOrderID only matches while the payment is still pending, so
// concurrent callbacks for the same order resolve to exactly one winner.
// The loser observes zero rows and returns the already-completed donation.
func (r *donationRepository) CompleteByOrderID(ctx context.Context, orderID, paymentID string, at time.Time) (*domain.Donation, bool, error) {
	query := `
		UPDATE donations
		SET payment_status = 'completed', transaction_id = $1, transaction_date = $2, updated_at = $2
		WHERE order_id = $3 AND payment_status = 'pending'
		RETURNING ` + donationColumns
	d, err := scanDonation(r.DB.QueryRowContext(ctx, query, paymentID, at, orderID))
	if err == nil {
		return d, true, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, false, err
	}
	existing, getErr := r.GetByOrderID(ctx, orderID)
	if getErr != nil {
		return nil, false, getErr
	}
	return existing, false, nil
}

func (r *donationRepository) CancelRecurring(ctx context.Context, id string, at time.Time) (*domain.Donation, error) {
	query := `
		UPDATE donations
		SET payment_status = 'cancelled', updated_at = $1
		WHERE id = $2 AND payment_status = 'pending' AND recurrence <> 'one-time'
		RETURNING ` + donationColumns
	d, err := scanDonation(r.DB.QueryRowContext(ctx, query, at, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			if _, getErr := r.GetByID(ctx, id); getErr != nil {
				return nil, getErr
			}
			return nil, domain.ErrInvalidTransition
		}
		return nil, err
	}
	return d, nil
}

func scanDonation(row rowScanner) (*domain.Donation, error) {
	d := &domain.Donation{}
	var donorRef, address sql.NullString
	var method, transactionID sql.NullString
	var transactionDate sql.NullTime
	err := row.Scan(
		&d.ID, &donorRef, &d.Contact.FirstName, &d.Contact.LastName,
		&d.Contact.Email, &d.Contact.Phone, &address,
		&d.AmountMinorUnits, &d.Currency, &d.Program, &d.Recurrence,
		&d.Payment.OrderID, &method, &d.Payment.Status,
		&transactionID, &transactionDate,
		&d.CreatedAt, &d.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if donorRef.Valid {
		d.DonorRef = &donorRef.String
	}
	if method.Valid {
		d.Payment.Method = method.String
	}
	if address.Valid {
		d.Contact.Address = &address.String
	}
	if transactionID.Valid {
		d.Payment.TransactionID = &transactionID.String
	}
	if transactionDate.Valid {
		d.Payment.TransactionDate = &transactionDate.Time
	}
	d.Status = d.Payment.Status
	return d, nil
}

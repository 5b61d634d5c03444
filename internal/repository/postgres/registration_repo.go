package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"communityhub/internal/domain"
)

type registrationRepository struct {
	DB *sql.DB
}

// NewRegistrationRepository returns a RegistrationRepository backed by postgres.
func NewRegistrationRepository(db *sql.DB) domain.RegistrationRepository {
	return &registrationRepository{
		DB: db,
	}
}

const registrationColumns = `
	id, kind, first_name, last_name, email, phone, address,
	status, status_history, owner_id, details,
	payment_order_id, payment_method, payment_status, transaction_id, transaction_date,
	created_at, updated_at
`

func (r *registrationRepository) Create(ctx context.Context, reg *domain.Registration) error {
	history, err := json.Marshal(reg.StatusHistory)
	if err != nil {
		return fmt.Errorf("marshal status history: %w", err)
	}
	details, err := marshalDetails(reg)
	if err != nil {
		return err
	}
	var orderID, method *string
	var paymentStatus *string
	if reg.Payment != nil {
		if reg.Payment.OrderID != "" {
			orderID = &reg.Payment.OrderID
		}
		if reg.Payment.Method != "" {
			method = &reg.Payment.Method
		}
		s := string(reg.Payment.Status)
		paymentStatus = &s
	}
	query := `
		INSERT INTO registrations (
			kind, first_name, last_name, email, phone, address,
			status, status_history, owner_id, details,
			payment_order_id, payment_method, payment_status,
			created_at, updated_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
		RETURNING id
	`
	return r.DB.QueryRowContext(ctx, query,
		reg.Kind, reg.Contact.FirstName, reg.Contact.LastName, reg.Contact.Email,
		reg.Contact.Phone, reg.Contact.Address,
		reg.Status, history, reg.OwnerID, details,
		orderID, method, paymentStatus,
		reg.CreatedAt, reg.UpdatedAt,
	).Scan(&reg.ID)
}

func (r *registrationRepository) GetByID(ctx context.Context, id string) (*domain.Registration, error) {
	query := `SELECT ` + registrationColumns + ` FROM registrations WHERE id = $1`
	reg, err := scanRegistration(r.DB.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return reg, nil
}

func (r *registrationRepository) List(ctx context.Context, filter domain.RegistrationFilter, p domain.PaginationParams) ([]*domain.Registration, int, error) {
	where := []string{"TRUE"}
	args := []interface{}{}
	n := 1
	if filter.Kind != "" {
		where = append(where, fmt.Sprintf("kind = $%d", n))
		args = append(args, filter.Kind)
		n++
	}
	if filter.Status != "" {
		where = append(where, fmt.Sprintf("status = $%d", n))
		args = append(args, filter.Status)
		n++
	}
	whereClause := strings.Join(where, " AND ")

	var total int
	countQuery := `SELECT COUNT(*) FROM registrations WHERE ` + whereClause
	if err := r.DB.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := fmt.Sprintf(`
		SELECT %s FROM registrations
		WHERE %s
		ORDER BY created_at DESC
		LIMIT $%d OFFSET $%d
	`, registrationColumns, whereClause, n, n+1)
	args = append(args, p.PageSize, p.Offset())
	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	regs := make([]*domain.Registration, 0)
	for rows.Next() {
		reg, err := scanRegistration(rows)
		if err != nil {
			return nil, 0, err
		}
		regs = append(regs, reg)
	}
	return regs, total, rows.Err()
}

// UpdateStatus performs the status write and the history append as a single
// conditional statement keyed on the expected current status, so no reader
// can observe one without the other.
func (r *registrationRepository) UpdateStatus(ctx context.Context, id string, from, to domain.Status, entry domain.StatusEntry) (*domain.Registration, error) {
	entryJSON, err := json.Marshal([]domain.StatusEntry{entry})
	if err != nil {
		return nil, fmt.Errorf("marshal status entry: %w", err)
	}
	query := `
		UPDATE registrations
		SET status = $1,
		    status_history = status_history || $2::jsonb,
		    updated_at = $3
		WHERE id = $4 AND status = $5
		RETURNING ` + registrationColumns
	reg, err := scanRegistration(r.DB.QueryRowContext(ctx, query, to, entryJSON, entry.Timestamp, id, from))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			// Either the record is gone or its status moved under us.
			if _, getErr := r.GetByID(ctx, id); getErr != nil {
				return nil, getErr
			}
			return nil, domain.ErrInvalidTransition
		}
		return nil, err
	}
	return reg, nil
}

func (r *registrationRepository) AttachPaymentOrder(ctx context.Context, id, orderID string) (*domain.Registration, error) {
	query := `
		UPDATE registrations
		SET payment_order_id = $1, updated_at = NOW()
		WHERE id = $2 AND payment_status = 'pending' AND payment_order_id IS NULL
		RETURNING ` + registrationColumns
	reg, err := scanRegistration(r.DB.QueryRowContext(ctx, query, orderID, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			if _, getErr := r.GetByID(ctx, id); getErr != nil {
				return nil, getErr
			}
			return nil, domain.ErrInvalidTransition
		}
		return nil, err
	}
	return reg, nil
}

func (r *registrationRepository) GetByPaymentOrderID(ctx context.Context, orderID string) (*domain.Registration, error) {
	query := `SELECT ` + registrationColumns + ` FROM registrations WHERE payment_order_id = $1`
	reg, err := scanRegistration(r.DB.QueryRowContext(ctx, query, orderID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return reg, nil
}

// CompletePaymentByOrderID is the linearization point for payment completion:
// the WHERE clause only matches while the payment is still pending, so exactly
// one of any number of concurrent callbacks performs the transition.
func (r *registrationRepository) CompletePaymentByOrderID(ctx context.Context, orderID, paymentID string, at time.Time) (*domain.Registration, bool, error) {
	query := `
		UPDATE registrations
		SET payment_status = 'completed', transaction_id = $1, transaction_date = $2, updated_at = $2
		WHERE payment_order_id = $3 AND payment_status = 'pending'
		RETURNING ` + registrationColumns
	reg, err := scanRegistration(r.DB.QueryRowContext(ctx, query, paymentID, at, orderID))
	if err == nil {
		return reg, true, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, false, err
	}
	existing, getErr := r.GetByPaymentOrderID(ctx, orderID)
	if getErr != nil {
		return nil, false, getErr
	}
	return existing, false, nil
}

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanRegistration(row rowScanner) (*domain.Registration, error) {
	reg := &domain.Registration{}
	var address, ownerID sql.NullString
	var history, details []byte
	var orderID, method, paymentStatus, transactionID sql.NullString
	var transactionDate sql.NullTime
	err := row.Scan(
		&reg.ID, &reg.Kind, &reg.Contact.FirstName, &reg.Contact.LastName,
		&reg.Contact.Email, &reg.Contact.Phone, &address,
		&reg.Status, &history, &ownerID, &details,
		&orderID, &method, &paymentStatus, &transactionID, &transactionDate,
		&reg.CreatedAt, &reg.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if address.Valid {
		reg.Contact.Address = &address.String
	}
	if ownerID.Valid {
		reg.OwnerID = &ownerID.String
	}
	if err := json.Unmarshal(history, &reg.StatusHistory); err != nil {
		return nil, fmt.Errorf("unmarshal status history: %w", err)
	}
	if err := unmarshalDetails(reg, details); err != nil {
		return nil, err
	}
	if paymentStatus.Valid {
		reg.Payment = &domain.PaymentState{
			OrderID: orderID.String,
			Method:  method.String,
			Status:  domain.PaymentStatus(paymentStatus.String),
		}
		if transactionID.Valid {
			reg.Payment.TransactionID = &transactionID.String
		}
		if transactionDate.Valid {
			reg.Payment.TransactionDate = &transactionDate.Time
		}
	}
	return reg, nil
}

func marshalDetails(reg *domain.Registration) ([]byte, error) {
	var payload interface{}
	switch reg.Kind {
	case domain.KindEvent:
		payload = reg.Event
	case domain.KindProgram:
		payload = reg.Program
	case domain.KindService:
		payload = reg.Service
	case domain.KindVolunteer:
		payload = reg.Volunteer
	default:
		payload = struct{}{}
	}
	b, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal details: %w", err)
	}
	return b, nil
}

func unmarshalDetails(reg *domain.Registration, details []byte) error {
	if len(details) == 0 {
		return nil
	}
	var err error
	switch reg.Kind {
	case domain.KindEvent:
		reg.Event = &domain.EventDetails{}
		err = json.Unmarshal(details, reg.Event)
	case domain.KindProgram:
		reg.Program = &domain.ProgramDetails{}
		err = json.Unmarshal(details, reg.Program)
	case domain.KindService:
		reg.Service = &domain.ServiceDetails{}
		err = json.Unmarshal(details, reg.Service)
	case domain.KindVolunteer:
		reg.Volunteer = &domain.VolunteerDetails{}
		err = json.Unmarshal(details, reg.Volunteer)
	}
	if err != nil {
		return fmt.Errorf("unmarshal details: %w", err)
	}
	return nil
}

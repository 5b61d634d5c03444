package domain

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"
)

// RegistrationKind discriminates the registration variants. It is fixed at
// creation and never changes for the lifetime of a record.
// swagger:model RegistrationKind
type RegistrationKind string

const (
	KindGeneral   RegistrationKind = "general"
	KindProgram   RegistrationKind = "program"
	KindEvent     RegistrationKind = "event"
	KindService   RegistrationKind = "service"
	KindVolunteer RegistrationKind = "volunteer"
)

// Valid reports whether k is one of the known registration kinds.
func (k RegistrationKind) Valid() bool {
	switch k {
	case KindGeneral, KindProgram, KindEvent, KindService, KindVolunteer:
		return true
	}
	return false
}

var emailRegex = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

// Contact holds the submitter's contact details, required for every kind.
// swagger:model Contact
type Contact struct {
	FirstName string  `json:"first_name"`
	LastName  string  `json:"last_name"`
	Email     string  `json:"email"`
	Phone     string  `json:"phone"`
	Address   *string `json:"address,omitempty"`
}

func (c Contact) validate() []string {
	var errs []string
	if strings.TrimSpace(c.FirstName) == "" {
		errs = append(errs, "first_name is required")
	}
	if strings.TrimSpace(c.LastName) == "" {
		errs = append(errs, "last_name is required")
	}
	if !emailRegex.MatchString(c.Email) {
		errs = append(errs, "email is invalid")
	}
	if strings.TrimSpace(c.Phone) == "" {
		errs = append(errs, "phone is required")
	}
	return errs
}

// EventDetails is the variant payload for event registrations. Priced events
// carry a total amount in minor units; zero means a free event.
// swagger:model EventDetails
type EventDetails struct {
	EventRef              string    `json:"event_ref"`
	EventDate             time.Time `json:"event_date"`
	Guests                int       `json:"guests"`
	TotalAmountMinorUnits int64     `json:"total_amount_minor_units"`
	Currency              string    `json:"currency,omitempty"`
}

// ProgramDetails is the variant payload for program registrations.
// swagger:model ProgramDetails
type ProgramDetails struct {
	ProgramRef        string `json:"program_ref"`
	SessionPreference string `json:"session_preference,omitempty"`
}

// ServiceDetails is the variant payload for service requests.
// swagger:model ServiceDetails
type ServiceDetails struct {
	ServiceType      string `json:"service_type"`
	Description      string `json:"description"`
	Urgency          string `json:"urgency,omitempty"`
	CompletionStatus string `json:"completion_status,omitempty"`
}

// VolunteerDetails is the variant payload for volunteer registrations.
// swagger:model VolunteerDetails
type VolunteerDetails struct {
	Skills          []string `json:"skills"`
	BackgroundCheck bool     `json:"background_check"`
}

// Registration is the polymorphic registration record. Exactly one of the
// variant payload pointers matching Kind is non-nil; the base fields and the
// status machine are identical across all variants.
// swagger:model Registration
type Registration struct {
	ID            string            `json:"id"`
	Kind          RegistrationKind  `json:"kind"`
	Contact       Contact           `json:"contact"`
	Status        Status            `json:"status"`
	StatusHistory []StatusEntry     `json:"status_history"`
	OwnerID       *string           `json:"owner_id,omitempty"`
	Event         *EventDetails     `json:"event,omitempty"`
	Program       *ProgramDetails   `json:"program,omitempty"`
	Service       *ServiceDetails   `json:"service,omitempty"`
	Volunteer     *VolunteerDetails `json:"volunteer,omitempty"`
	Payment       *PaymentState     `json:"payment,omitempty"`
	CreatedAt     time.Time         `json:"created_at"`
	UpdatedAt     time.Time         `json:"updated_at"`
}

// NewRegistration validates the contact and kind-specific payload and returns
// a Pending registration with its initial history entry. ID is set by the
// repository on create.
func NewRegistration(kind RegistrationKind, contact Contact, details RegistrationDetails, ownerID *string, now time.Time) (*Registration, error) {
	if !kind.Valid() {
		return nil, fmt.Errorf("%w: unknown kind %q", ErrInvalidInput, kind)
	}
	errs := contact.validate()
	errs = append(errs, details.validate(kind)...)
	if len(errs) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrInvalidInput, strings.Join(errs, "; "))
	}
	reg := &Registration{
		Kind:          kind,
		Contact:       contact,
		Status:        StatusPending,
		StatusHistory: []StatusEntry{NewStatusEntry(StatusPending, "created", now)},
		OwnerID:       ownerID,
		Event:         details.Event,
		Program:       details.Program,
		Service:       details.Service,
		Volunteer:     details.Volunteer,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if kind == KindEvent && details.Event.TotalAmountMinorUnits > 0 {
		reg.Payment = &PaymentState{Status: PaymentPending}
	}
	return reg, nil
}

// RegistrationDetails bundles the kind-specific payloads accepted at creation.
// Only the payload matching the kind is consulted; the rest must be nil.
type RegistrationDetails struct {
	Event     *EventDetails
	Program   *ProgramDetails
	Service   *ServiceDetails
	Volunteer *VolunteerDetails
}

func (d RegistrationDetails) validate(kind RegistrationKind) []string {
	var errs []string
	switch kind {
	case KindGeneral:
		// No variant payload.
	case KindEvent:
		if d.Event == nil {
			return []string{"event payload is required"}
		}
		if strings.TrimSpace(d.Event.EventRef) == "" {
			errs = append(errs, "event_ref is required")
		}
		if d.Event.EventDate.IsZero() {
			errs = append(errs, "event_date is required")
		}
		if d.Event.Guests < 0 {
			errs = append(errs, "guests must not be negative")
		}
		if d.Event.TotalAmountMinorUnits < 0 {
			errs = append(errs, "total_amount_minor_units must not be negative")
		}
		if d.Event.TotalAmountMinorUnits > 0 && !SupportedCurrency(d.Event.Currency) {
			errs = append(errs, "currency is not supported")
		}
	case KindProgram:
		if d.Program == nil {
			return []string{"program payload is required"}
		}
		if strings.TrimSpace(d.Program.ProgramRef) == "" {
			errs = append(errs, "program_ref is required")
		}
	case KindService:
		if d.Service == nil {
			return []string{"service payload is required"}
		}
		if strings.TrimSpace(d.Service.ServiceType) == "" {
			errs = append(errs, "service_type is required")
		}
		if strings.TrimSpace(d.Service.Description) == "" {
			errs = append(errs, "description is required")
		}
	case KindVolunteer:
		if d.Volunteer == nil {
			return []string{"volunteer payload is required"}
		}
		if len(d.Volunteer.Skills) == 0 {
			errs = append(errs, "skills is required")
		}
	}
	return errs
}

// RegistrationFilter narrows List queries. Zero values mean no filter.
type RegistrationFilter struct {
	Kind   RegistrationKind
	Status Status
}

// RegistrationRepository defines storage operations for registrations.
// UpdateStatus and CompletePaymentByOrderID are conditional single-statement
// updates; they are the only mutation paths after creation.
type RegistrationRepository interface {
	Create(ctx context.Context, reg *Registration) error
	GetByID(ctx context.Context, id string) (*Registration, error)
	List(ctx context.Context, filter RegistrationFilter, p PaginationParams) ([]*Registration, int, error)
	// UpdateStatus sets the status and appends the history entry in one atomic
	// write, only if the current status equals from. Returns ErrNotFound when
	// no row matched the id, ErrInvalidTransition when the row exists but its
	// status is no longer from.
	UpdateStatus(ctx context.Context, id string, from, to Status, entry StatusEntry) (*Registration, error)
	// AttachPaymentOrder records the gateway order id on a priced registration,
	// only if no order id is attached yet.
	AttachPaymentOrder(ctx context.Context, id, orderID string) (*Registration, error)
	GetByPaymentOrderID(ctx context.Context, orderID string) (*Registration, error)
	// CompletePaymentByOrderID marks the payment completed only if it is still
	// pending. The bool reports whether this call performed the transition;
	// false with a nil error means the record was already completed.
	CompletePaymentByOrderID(ctx context.Context, orderID, paymentID string, at time.Time) (*Registration, bool, error)
}

// RegistrationService defines the registration workflow operations.
type RegistrationService interface {
	Create(ctx context.Context, kind RegistrationKind, contact Contact, details RegistrationDetails, ownerID *string) (*Registration, error)
	GetByID(ctx context.Context, id string) (*Registration, error)
	List(ctx context.Context, filter RegistrationFilter, p PaginationParams) ([]*Registration, int, error)
	// Transition applies the status machine. Admin-only targets require the
	// actor to carry the admin role; self-service cancellation requires the
	// actor to own the record.
	Transition(ctx context.Context, id string, to Status, note string, actor *Principal) (*Registration, error)
}

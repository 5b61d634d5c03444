package domain

import (
	"errors"
	"testing"
	"time"
)

func validContact() Contact {
	return Contact{
		FirstName: "Asha",
		LastName:  "Rao",
		Email:     "asha@example.com",
		Phone:     "+91-9999999999",
	}
}

func validDetails(kind RegistrationKind) RegistrationDetails {
	switch kind {
	case KindEvent:
		return RegistrationDetails{Event: &EventDetails{
			EventRef:  "event-1",
			EventDate: time.Date(2026, 9, 1, 10, 0, 0, 0, time.UTC),
		}}
	case KindProgram:
		return RegistrationDetails{Program: &ProgramDetails{ProgramRef: "program-1"}}
	case KindService:
		return RegistrationDetails{Service: &ServiceDetails{ServiceType: "tutoring", Description: "weekly tutoring"}}
	case KindVolunteer:
		return RegistrationDetails{Volunteer: &VolunteerDetails{Skills: []string{"first-aid"}}}
	default:
		return RegistrationDetails{}
	}
}

func TestNewRegistration_AllKindsStartPending(t *testing.T) {
	now := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	kinds := []RegistrationKind{KindGeneral, KindProgram, KindEvent, KindService, KindVolunteer}
	for _, kind := range kinds {
		t.Run(string(kind), func(t *testing.T) {
			reg, err := NewRegistration(kind, validContact(), validDetails(kind), nil, now)
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if reg.Status != StatusPending {
				t.Errorf("expected status pending, got %s", reg.Status)
			}
			if len(reg.StatusHistory) != 1 {
				t.Fatalf("expected 1 history entry, got %d", len(reg.StatusHistory))
			}
			if reg.StatusHistory[0].Status != StatusPending {
				t.Errorf("expected pending history entry, got %s", reg.StatusHistory[0].Status)
			}
			if reg.StatusHistory[0].Note != "created" {
				t.Errorf("expected created note, got %q", reg.StatusHistory[0].Note)
			}
		})
	}
}

func TestNewRegistration_ValidationErrors(t *testing.T) {
	now := time.Now()
	tests := []struct {
		name    string
		kind    RegistrationKind
		contact Contact
		details RegistrationDetails
	}{
		{"unknown kind", RegistrationKind("membership"), validContact(), RegistrationDetails{}},
		{"missing email", KindGeneral, Contact{FirstName: "A", LastName: "B", Phone: "1"}, RegistrationDetails{}},
		{"bad email", KindGeneral, Contact{FirstName: "A", LastName: "B", Email: "not-an-email", Phone: "1"}, RegistrationDetails{}},
		{"event without payload", KindEvent, validContact(), RegistrationDetails{}},
		{"event without ref", KindEvent, validContact(), RegistrationDetails{Event: &EventDetails{EventDate: now}}},
		{"event without date", KindEvent, validContact(), RegistrationDetails{Event: &EventDetails{EventRef: "e"}}},
		{"priced event with bad currency", KindEvent, validContact(), RegistrationDetails{Event: &EventDetails{
			EventRef: "e", EventDate: now, TotalAmountMinorUnits: 100, Currency: "XYZ",
		}}},
		{"service without type", KindService, validContact(), RegistrationDetails{Service: &ServiceDetails{Description: "d"}}},
		{"service without description", KindService, validContact(), RegistrationDetails{Service: &ServiceDetails{ServiceType: "t"}}},
		{"volunteer without skills", KindVolunteer, validContact(), RegistrationDetails{Volunteer: &VolunteerDetails{}}},
		{"program without ref", KindProgram, validContact(), RegistrationDetails{Program: &ProgramDetails{}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewRegistration(tt.kind, tt.contact, tt.details, nil, now)
			if !errors.Is(err, ErrInvalidInput) {
				t.Fatalf("expected ErrInvalidInput, got %v", err)
			}
		})
	}
}

func TestNewRegistration_PricedEventGetsPendingPayment(t *testing.T) {
	details := RegistrationDetails{Event: &EventDetails{
		EventRef:              "event-1",
		EventDate:             time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC),
		TotalAmountMinorUnits: 50000,
		Currency:              "INR",
	}}
	reg, err := NewRegistration(KindEvent, validContact(), details, nil, time.Now())
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if reg.Payment == nil || reg.Payment.Status != PaymentPending {
		t.Fatalf("expected pending payment state, got %+v", reg.Payment)
	}
}

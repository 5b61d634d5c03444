package domain

import "context"

// RegistrationCount is an aggregate bucket of registrations by kind and status.
// swagger:model RegistrationCount
type RegistrationCount struct {
	Kind   RegistrationKind `json:"kind"`
	Status Status           `json:"status"`
	Count  int              `json:"count"`
}

// DonationTotal is an aggregate of donations by currency and payment status.
// swagger:model DonationTotal
type DonationTotal struct {
	Currency      string        `json:"currency"`
	Status        PaymentStatus `json:"status"`
	Count         int           `json:"count"`
	SumMinorUnits int64         `json:"sum_minor_units"`
}

// StatsOverview is the dashboard snapshot. It is a read-only projection
// computed on demand from storage, never in-process mutable state.
// swagger:model StatsOverview
type StatsOverview struct {
	Registrations []RegistrationCount `json:"registrations"`
	Donations     []DonationTotal     `json:"donations"`
}

// StatsRepository computes dashboard aggregates.
type StatsRepository interface {
	Overview(ctx context.Context) (*StatsOverview, error)
}

// StatsService exposes dashboard aggregates to the delivery layer.
type StatsService interface {
	Overview(ctx context.Context) (*StatsOverview, error)
}

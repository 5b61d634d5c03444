package postgres

import (
	"context"
	"database/sql"

	"communityhub/internal/domain"
)

type statsRepository struct {
	DB *sql.DB
}

// NewStatsRepository returns a StatsRepository backed by postgres. Aggregates
// are computed on demand; nothing is cached in process.
func NewStatsRepository(db *sql.DB) domain.StatsRepository {
	return &statsRepository{
		DB: db,
	}
}

func (r *statsRepository) Overview(ctx context.Context) (*domain.StatsOverview, error) {
	overview := &domain.StatsOverview{
		Registrations: []domain.RegistrationCount{},
		Donations:     []domain.DonationTotal{},
	}

	regQuery := `
		SELECT kind, status, COUNT(*)
		FROM registrations
		GROUP BY kind, status
		ORDER BY kind, status
	`
	rows, err := r.DB.QueryContext(ctx, regQuery)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var c domain.RegistrationCount
		if err := rows.Scan(&c.Kind, &c.Status, &c.Count); err != nil {
			return nil, err
		}
		overview.Registrations = append(overview.Registrations, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	donQuery := `
		SELECT currency, payment_status, COUNT(*), COALESCE(SUM(amount_minor_units), 0)
		FROM donations
		GROUP BY currency, payment_status
		ORDER BY currency, payment_status
	`
	donRows, err := r.DB.QueryContext(ctx, donQuery)
	if err != nil {
		return nil, err
	}
	defer donRows.Close()
	for donRows.Next() {
		var t domain.DonationTotal
		if err := donRows.Scan(&t.Currency, &t.Status, &t.Count, &t.SumMinorUnits); err != nil {
			return nil, err
		}
		overview.Donations = append(overview.Donations, t)
	}
	return overview, donRows.Err()
}

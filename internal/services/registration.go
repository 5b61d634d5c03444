package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"communityhub/internal/domain"
)

type registrationService struct {
	repo     domain.RegistrationRepository
	notifier domain.Notifier
	logger   *slog.Logger
}

// NewRegistrationService creates a RegistrationService with the given
// repository and notification collaborator.
func NewRegistrationService(repo domain.RegistrationRepository, notifier domain.Notifier, logger *slog.Logger) domain.RegistrationService {
	return &registrationService{
		repo:     repo,
		notifier: notifier,
		logger:   logger,
	}
}

func (s *registrationService) Create(ctx context.Context, kind domain.RegistrationKind, contact domain.Contact, details domain.RegistrationDetails, ownerID *string) (*domain.Registration, error) {
	reg, err := domain.NewRegistration(kind, contact, details, ownerID, time.Now().UTC())
	if err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, reg); err != nil {
		return nil, fmt.Errorf("create registration: %w", err)
	}
	return reg, nil
}

func (s *registrationService) GetByID(ctx context.Context, id string) (*domain.Registration, error) {
	reg, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get registration: %w", err)
	}
	return reg, nil
}

func (s *registrationService) List(ctx context.Context, filter domain.RegistrationFilter, p domain.PaginationParams) ([]*domain.Registration, int, error) {
	regs, total, err := s.repo.List(ctx, filter, p)
	if err != nil {
		return nil, 0, fmt.Errorf("list registrations: %w", err)
	}
	return regs, total, nil
}

// Transition applies the status machine. The status write and the history
// append are delegated to the repository as one conditional update keyed on
// the status observed here, so a concurrent transition loses cleanly with
// ErrInvalidTransition instead of overwriting history.
func (s *registrationService) Transition(ctx context.Context, id string, to domain.Status, note string, actor *domain.Principal) (*domain.Registration, error) {
	if !to.Valid() {
		return nil, fmt.Errorf("%w: unknown status %q", domain.ErrInvalidInput, to)
	}
	reg, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get registration: %w", err)
	}
	if !reg.Status.CanTransitionTo(to) {
		return nil, domain.ErrInvalidTransition
	}

	if note == "" {
		note = string(to)
	}
	if domain.RequiresAdmin(to) {
		if !actor.HasRole(domain.RoleAdmin) {
			return nil, domain.ErrForbidden
		}
		note = fmt.Sprintf("%s (by %s)", note, actor.UserID)
	} else if to == domain.StatusCancelled {
		// Self-service cancellation: the record owner or an admin. Records
		// without an owner (guest submissions) may be cancelled by anyone
		// holding the record id.
		if reg.OwnerID != nil && !actor.HasRole(domain.RoleAdmin) {
			if actor == nil || actor.UserID != *reg.OwnerID {
				return nil, domain.ErrForbidden
			}
		}
	}

	entry := domain.NewStatusEntry(to, note, time.Now().UTC())
	updated, err := s.repo.UpdateStatus(ctx, id, reg.Status, to, entry)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidTransition) || errors.Is(err, domain.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("update status: %w", err)
	}

	// Best-effort, at-most-once. A notification failure never reverts the
	// transition.
	notice := &domain.StatusChangedNotice{
		Email:          updated.Contact.Email,
		FirstName:      updated.Contact.FirstName,
		RegistrationID: updated.ID,
		Kind:           updated.Kind,
		Status:         updated.Status,
		Note:           note,
	}
	go func(ctx context.Context) {
		if err := s.notifier.RegistrationStatusChanged(ctx, notice); err != nil {
			s.logger.Error("status change notification failed", "registration_id", notice.RegistrationID, "err", err)
		}
	}(context.WithoutCancel(ctx))

	return updated, nil
}

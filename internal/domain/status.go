package domain

import "time"

// Status is the workflow state of a registration.
// swagger:model Status
type Status string

const (
	StatusPending   Status = "pending"
	StatusApproved  Status = "approved"
	StatusRejected  Status = "rejected"
	StatusCancelled Status = "cancelled"
	StatusCompleted Status = "completed"
)

// statusTransitions is the full transition table. Absent entries are illegal.
// Rejected, Cancelled, and Completed have no outgoing edges: they are terminal.
var statusTransitions = map[Status][]Status{
	StatusPending:  {StatusApproved, StatusRejected, StatusCancelled},
	StatusApproved: {StatusCompleted, StatusCancelled},
}

// Valid reports whether s is one of the known statuses.
func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusApproved, StatusRejected, StatusCancelled, StatusCompleted:
		return true
	}
	return false
}

// Terminal reports whether no further transition is allowed from s.
func (s Status) Terminal() bool {
	return len(statusTransitions[s]) == 0
}

// CanTransitionTo reports whether s -> next is a legal transition.
func (s Status) CanTransitionTo(next Status) bool {
	for _, t := range statusTransitions[s] {
		if t == next {
			return true
		}
	}
	return false
}

// adminOnlyTargets are transitions that only staff may perform. Self-service
// cancellation is the one non-admin transition.
var adminOnlyTargets = map[Status]bool{
	StatusApproved:  true,
	StatusRejected:  true,
	StatusCompleted: true,
}

// RequiresAdmin reports whether transitioning to target needs the admin role.
func RequiresAdmin(target Status) bool {
	return adminOnlyTargets[target]
}

// StatusEntry is one immutable audit record in a registration's history.
// The last entry always mirrors the registration's current status.
// swagger:model StatusEntry
type StatusEntry struct {
	Status    Status    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
	Note      string    `json:"note"`
}

// NewStatusEntry returns a StatusEntry with a server-assigned timestamp.
func NewStatusEntry(status Status, note string, at time.Time) StatusEntry {
	return StatusEntry{Status: status, Timestamp: at, Note: note}
}

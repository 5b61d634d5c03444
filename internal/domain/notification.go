package domain

import "context"

// Mailer defines the contract for sending emails (infrastructure port).
type Mailer interface {
	Send(to, subject, html, text string) error
}

// EmailTemplateRenderer renders email content from a named template with the given data.
type EmailTemplateRenderer interface {
	Render(templateName string, data any) (subject, htmlBody, textBody string, err error)
}

// PaymentCompletedNotice holds data for the payment receipt notification.
type PaymentCompletedNotice struct {
	Email            string
	FirstName        string
	OrderID          string
	TransactionID    string
	AmountMinorUnits int64
	Currency         string
}

// StatusChangedNotice holds data for the registration status change notification.
type StatusChangedNotice struct {
	Email          string
	FirstName      string
	RegistrationID string
	Kind           RegistrationKind
	Status         Status
	Note           string
}

// Notifier is the notification collaborator. Calls are at-most-once per state
// transition and best-effort: callers log failures and never roll back the
// transition that triggered them.
type Notifier interface {
	PaymentCompleted(ctx context.Context, n *PaymentCompletedNotice) error
	RegistrationStatusChanged(ctx context.Context, n *StatusChangedNotice) error
}

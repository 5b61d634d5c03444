package services

import (
	"context"
	"fmt"
	"log/slog"

	"communityhub/internal/domain"
)

type notificationService struct {
	mailer   domain.Mailer
	renderer domain.EmailTemplateRenderer
	logger   *slog.Logger
}

// NewNotificationService returns a Notifier that delivers notifications by
// email using the given Mailer and template renderer.
func NewNotificationService(mailer domain.Mailer, renderer domain.EmailTemplateRenderer, logger *slog.Logger) domain.Notifier {
	return &notificationService{mailer: mailer, renderer: renderer, logger: logger}
}

type paymentReceiptData struct {
	FirstName     string
	OrderID       string
	TransactionID string
	Amount        string
	Currency      string
}

// PaymentCompleted sends the payment receipt email using the "payment_receipt" template.
func (s *notificationService) PaymentCompleted(ctx context.Context, n *domain.PaymentCompletedNotice) error {
	if n == nil {
		return fmt.Errorf("payment completed notice is nil")
	}
	data := paymentReceiptData{
		FirstName:     n.FirstName,
		OrderID:       n.OrderID,
		TransactionID: n.TransactionID,
		Amount:        domain.FormatAmountMinorUnits(n.AmountMinorUnits, n.Currency),
		Currency:      n.Currency,
	}
	subject, htmlBody, textBody, err := s.renderer.Render("payment_receipt", data)
	if err != nil {
		return fmt.Errorf("failed to render payment_receipt template: %w", err)
	}
	if err := s.mailer.Send(n.Email, subject, htmlBody, textBody); err != nil {
		return fmt.Errorf("failed to send payment receipt: %w", err)
	}
	s.logger.Info("payment receipt sent", "email", n.Email, "order_id", n.OrderID)
	return nil
}

// RegistrationStatusChanged sends the status change email using the "status_changed" template.
func (s *notificationService) RegistrationStatusChanged(ctx context.Context, n *domain.StatusChangedNotice) error {
	if n == nil {
		return fmt.Errorf("status changed notice is nil")
	}
	subject, htmlBody, textBody, err := s.renderer.Render("status_changed", n)
	if err != nil {
		return fmt.Errorf("failed to render status_changed template: %w", err)
	}
	if err := s.mailer.Send(n.Email, subject, htmlBody, textBody); err != nil {
		return fmt.Errorf("failed to send status change email: %w", err)
	}
	s.logger.Info("status change email sent", "email", n.Email, "registration_id", n.RegistrationID)
	return nil
}

package controllers

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"communityhub/internal/delivery/http/helpers"
	"communityhub/internal/delivery/http/middleware"
	"communityhub/internal/domain"
)

// Payers never learn whether a rejected callback failed verification or
// matched no order.
const genericPaymentFailure = "payment could not be confirmed, please contact support"

type PaymentController struct {
	Logger  *slog.Logger
	Service domain.PaymentService
}

func NewPaymentController(logger *slog.Logger, svc domain.PaymentService) *PaymentController {
	return &PaymentController{
		Logger:  logger,
		Service: svc,
	}
}

// CreateDonationRequest is the request body for POST /donations.
// amount is a decimal string (e.g. "500.00"); it is converted to minor units
// exactly once, with deterministic round-half-up.
type CreateDonationRequest struct {
	Contact    domain.Contact    `json:"contact"`
	Amount     string            `json:"amount"`
	Currency   string            `json:"currency"`
	Program    string            `json:"program,omitempty"`
	Recurrence domain.Recurrence `json:"recurrence,omitempty"`
}

// Validate implements helpers.Validator.
func (r *CreateDonationRequest) Validate() []string {
	var errs []string
	if strings.TrimSpace(r.Amount) == "" {
		errs = append(errs, "amount is required")
	}
	if strings.TrimSpace(r.Currency) == "" {
		errs = append(errs, "currency is required")
	}
	return errs
}

// DonationSuccessResponse is the success envelope carrying a donation.
type DonationSuccessResponse struct {
	Data  *domain.Donation  `json:"data"`
	Error *helpers.APIError `json:"error"`
}

// CreateDonation godoc
// @Summary Create a donation
// @Description Creates a payment order with the gateway and persists a Pending donation carrying the order id. The returned order id is used for client-side checkout.
// @Tags payments
// @Accept json
// @Produce json
// @Param body body controllers.CreateDonationRequest true "Donation payload"
// @Success 201 {object} controllers.DonationSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request (invalid amount or unsupported currency)"
// @Failure 502 {object} helpers.APIResponse "error.code: bad_gateway (gateway failure, retryable)"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /donations [post]
func (c *PaymentController) CreateDonation(w http.ResponseWriter, r *http.Request) {
	var req CreateDonationRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	var donorRef *string
	if p, ok := middleware.PrincipalFromContext(r.Context()); ok {
		donorRef = &p.UserID
	}

	d, err := c.Service.CreateDonation(r.Context(), domain.CreateDonationInput{
		Contact:    req.Contact,
		DonorRef:   donorRef,
		Amount:     req.Amount,
		Currency:   req.Currency,
		Program:    req.Program,
		Recurrence: req.Recurrence,
	})
	if err != nil {
		c.writePaymentError(w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusCreated, d)
}

// CreateOrderRequest is the request body for POST /payments/order.
type CreateOrderRequest struct {
	RegistrationID string `json:"registration_id"`
}

// Validate implements helpers.Validator.
func (r *CreateOrderRequest) Validate() []string {
	if strings.TrimSpace(r.RegistrationID) == "" {
		return []string{"registration_id is required"}
	}
	return nil
}

// OrderSuccessResponse is the success envelope carrying a payment order.
type OrderSuccessResponse struct {
	Data  *domain.PaymentOrder `json:"data"`
	Error *helpers.APIError    `json:"error"`
}

// CreateOrder godoc
// @Summary Create a payment order for a priced registration
// @Description Creates (or reuses) a gateway order for a priced event registration and attaches it to the record. Retries after a gateway timeout are safe: the idempotency key derives from the registration id.
// @Tags payments
// @Accept json
// @Produce json
// @Param body body controllers.CreateOrderRequest true "Registration reference"
// @Success 200 {object} controllers.OrderSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 409 {object} helpers.APIResponse "error.code: conflict (payment already settled)"
// @Failure 502 {object} helpers.APIResponse "error.code: bad_gateway (gateway failure, retryable)"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /payments/order [post]
func (c *PaymentController) CreateOrder(w http.ResponseWriter, r *http.Request) {
	var req CreateOrderRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	order, err := c.Service.CreateRegistrationOrder(r.Context(), req.RegistrationID)
	if err != nil {
		c.writePaymentError(w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, order)
}

// PaymentCallbackRequest is the gateway's payment-completion callback body.
type PaymentCallbackRequest struct {
	OrderID   string `json:"razorpay_order_id"`
	PaymentID string `json:"razorpay_payment_id"`
	Signature string `json:"razorpay_signature"`
}

// Validate implements helpers.Validator.
func (r *PaymentCallbackRequest) Validate() []string {
	var errs []string
	if r.OrderID == "" {
		errs = append(errs, "razorpay_order_id is required")
	}
	if r.PaymentID == "" {
		errs = append(errs, "razorpay_payment_id is required")
	}
	if r.Signature == "" {
		errs = append(errs, "razorpay_signature is required")
	}
	return errs
}

// CompletedPaymentSuccessResponse is the success envelope for POST /payments/callback.
type CompletedPaymentSuccessResponse struct {
	Data  *domain.CompletedPayment `json:"data"`
	Error *helpers.APIError        `json:"error"`
}

// Callback godoc
// @Summary Payment-completion callback
// @Description Verifies the gateway signature and marks the matching Pending record Completed exactly once. Gateways deliver callbacks at least once; repeated callbacks for the same order succeed idempotently.
// @Tags payments
// @Accept json
// @Produce json
// @Param body body controllers.PaymentCallbackRequest true "Gateway callback fields"
// @Success 200 {object} controllers.CompletedPaymentSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request (signature rejected)"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found (no matching order)"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /payments/callback [post]
func (c *PaymentController) Callback(w http.ResponseWriter, r *http.Request) {
	var req PaymentCallbackRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	completed, err := c.Service.CompletePayment(r.Context(), req.OrderID, req.PaymentID, req.Signature)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidSignature):
			helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, genericPaymentFailure)
		case errors.Is(err, domain.ErrUnknownOrder):
			helpers.WriteJSONError(w, http.StatusNotFound, helpers.ErrCodeNotFound, genericPaymentFailure)
		default:
			c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
			helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, err.Error())
		}
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, completed)
}

// CancelDonation godoc
// @Summary Cancel a recurring donation
// @Description Cancels a recurring donation that is still pending. Only the donor or an admin may cancel.
// @Tags payments
// @Produce json
// @Security BearerAuth
// @Param id path string true "Donation ID"
// @Success 200 {object} controllers.DonationSuccessResponse
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 409 {object} helpers.APIResponse "error.code: conflict (not pending-recurring)"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /donations/{id}/cancel [post]
func (c *PaymentController) CancelDonation(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	actor, _ := middleware.PrincipalFromContext(r.Context())

	d, err := c.Service.CancelRecurringDonation(r.Context(), id, actor)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrNotFound):
			helpers.WriteJSONError(w, http.StatusNotFound, helpers.ErrCodeNotFound, "donation not found")
		case errors.Is(err, domain.ErrForbidden):
			helpers.WriteJSONError(w, http.StatusForbidden, helpers.ErrCodeForbidden, "forbidden")
		case errors.Is(err, domain.ErrInvalidTransition):
			helpers.WriteJSONError(w, http.StatusConflict, helpers.ErrCodeConflict, "donation cannot be cancelled")
		default:
			c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
			helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, err.Error())
		}
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, d)
}

// writePaymentError maps order-creation errors onto HTTP responses. Gateway
// failures are 502 and retryable by the client with the same idempotency key.
func (c *PaymentController) writePaymentError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		helpers.WriteJSONError(w, http.StatusNotFound, helpers.ErrCodeNotFound, "registration not found")
	case errors.Is(err, domain.ErrInvalidTransition):
		helpers.WriteJSONError(w, http.StatusConflict, helpers.ErrCodeConflict, "payment already settled")
	case errors.Is(err, domain.ErrUnsupportedCurrency), errors.Is(err, domain.ErrInvalidAmount), errors.Is(err, domain.ErrInvalidInput):
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, err.Error())
	case errors.Is(err, domain.ErrGateway):
		c.Logger.ErrorContext(r.Context(), "gateway order creation failed", "path", r.URL.Path, "err", err)
		helpers.WriteJSONError(w, http.StatusBadGateway, helpers.ErrCodeBadGateway, "payment gateway unavailable")
	default:
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, err.Error())
	}
}

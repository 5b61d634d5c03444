package controllers

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"communityhub/internal/delivery/http/helpers"
	"communityhub/internal/delivery/http/middleware"
	"communityhub/internal/domain"
)

type RegistrationController struct {
	Logger  *slog.Logger
	Service domain.RegistrationService
}

func NewRegistrationController(logger *slog.Logger, svc domain.RegistrationService) *RegistrationController {
	return &RegistrationController{
		Logger:  logger,
		Service: svc,
	}
}

// EventPayloadRequest is the event variant payload accepted at creation.
// total_amount is a decimal string; conversion to minor units happens once at
// this boundary with deterministic round-half-up.
type EventPayloadRequest struct {
	EventRef    string    `json:"event_ref"`
	EventDate   time.Time `json:"event_date"`
	Guests      int       `json:"guests"`
	TotalAmount string    `json:"total_amount,omitempty"`
	Currency    string    `json:"currency,omitempty"`
}

// CreateRegistrationRequest is the request body for POST /registrations/{kind}.
// Only the payload matching the path kind may be set.
type CreateRegistrationRequest struct {
	Contact   domain.Contact           `json:"contact"`
	Event     *EventPayloadRequest     `json:"event,omitempty"`
	Program   *domain.ProgramDetails   `json:"program,omitempty"`
	Service   *domain.ServiceDetails   `json:"service,omitempty"`
	Volunteer *domain.VolunteerDetails `json:"volunteer,omitempty"`
}

// Validate implements helpers.Validator.
func (r *CreateRegistrationRequest) Validate() []string {
	var errs []string
	if strings.TrimSpace(r.Contact.Email) == "" {
		errs = append(errs, "contact.email is required")
	}
	if r.Event != nil && r.Event.TotalAmount != "" && r.Event.Currency == "" {
		errs = append(errs, "event.currency is required when total_amount is set")
	}
	return errs
}

// RegistrationSuccessResponse is the success envelope carrying a single registration.
type RegistrationSuccessResponse struct {
	Data  *domain.Registration `json:"data"`
	Error *helpers.APIError    `json:"error"`
}

// Create godoc
// @Summary Create a registration
// @Description Creates a Pending registration of the given kind. Guest submissions are allowed; when a valid Bearer token is supplied the record is owned by the caller.
// @Tags registrations
// @Accept json
// @Produce json
// @Param kind path string true "Registration kind (general|program|event|service|volunteer)"
// @Param body body controllers.CreateRegistrationRequest true "Registration payload"
// @Success 201 {object} controllers.RegistrationSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /registrations/{kind} [post]
func (c *RegistrationController) Create(w http.ResponseWriter, r *http.Request) {
	kind := domain.RegistrationKind(r.PathValue("kind"))
	if !kind.Valid() {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "invalid registration kind")
		return
	}
	var req CreateRegistrationRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}

	details := domain.RegistrationDetails{
		Program:   req.Program,
		Service:   req.Service,
		Volunteer: req.Volunteer,
	}
	if req.Event != nil {
		ev := &domain.EventDetails{
			EventRef:  req.Event.EventRef,
			EventDate: req.Event.EventDate,
			Guests:    req.Event.Guests,
			Currency:  req.Event.Currency,
		}
		if req.Event.TotalAmount != "" {
			minor, err := domain.ParseAmountMinorUnits(req.Event.TotalAmount, req.Event.Currency)
			if err != nil {
				helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, err.Error())
				return
			}
			c.Logger.InfoContext(r.Context(), "event amount converted to minor units",
				"amount", req.Event.TotalAmount, "minor_units", minor, "currency", req.Event.Currency)
			ev.TotalAmountMinorUnits = minor
		}
		details.Event = ev
	}

	var ownerID *string
	if p, ok := middleware.PrincipalFromContext(r.Context()); ok {
		ownerID = &p.UserID
	}

	reg, err := c.Service.Create(r.Context(), kind, req.Contact, details, ownerID)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidInput) {
			helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, err.Error())
			return
		}
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, err.Error())
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusCreated, reg)
}

// Get godoc
// @Summary Get a registration by id
// @Description Returns the registration including its full status history. Owners see their own records; admins see all.
// @Tags registrations
// @Produce json
// @Security BearerAuth
// @Param id path string true "Registration ID"
// @Success 200 {object} controllers.RegistrationSuccessResponse
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /registrations/{id} [get]
func (c *RegistrationController) Get(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	p, ok := middleware.PrincipalFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}
	reg, err := c.Service.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			helpers.WriteJSONError(w, http.StatusNotFound, helpers.ErrCodeNotFound, "registration not found")
			return
		}
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, err.Error())
		return
	}
	if !p.HasRole(domain.RoleAdmin) && (reg.OwnerID == nil || *reg.OwnerID != p.UserID) {
		helpers.WriteJSONError(w, http.StatusForbidden, helpers.ErrCodeForbidden, "forbidden")
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, reg)
}

// ListRegistrationsResponse is the data object for GET /registrations.
type ListRegistrationsResponse struct {
	Items      []*domain.Registration `json:"items"`
	Pagination helpers.PaginationMeta `json:"pagination"`
}

// List godoc
// @Summary List registrations
// @Description Returns registrations filtered by kind and status, paginated. Admin only.
// @Tags registrations
// @Produce json
// @Security BearerAuth
// @Param kind query string false "Filter by kind"
// @Param status query string false "Filter by status"
// @Param page query int false "Page number"
// @Param page_size query int false "Page size"
// @Success 200 {object} helpers.APIResponse
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /registrations [get]
func (c *RegistrationController) List(w http.ResponseWriter, r *http.Request) {
	filter := domain.RegistrationFilter{
		Kind:   domain.RegistrationKind(r.URL.Query().Get("kind")),
		Status: domain.Status(r.URL.Query().Get("status")),
	}
	if filter.Kind != "" && !filter.Kind.Valid() {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "invalid kind filter")
		return
	}
	if filter.Status != "" && !filter.Status.Valid() {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "invalid status filter")
		return
	}
	p := helpers.ParsePagination(r)
	regs, total, err := c.Service.List(r.Context(), filter, p)
	if err != nil {
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, err.Error())
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, ListRegistrationsResponse{
		Items:      regs,
		Pagination: helpers.NewPaginationMeta(p.Page, p.PageSize, total),
	})
}

// UpdateStatusRequest is the request body for PUT /registrations/{id}/status.
type UpdateStatusRequest struct {
	Status domain.Status `json:"status"`
	Note   string        `json:"note,omitempty"`
}

// Validate implements helpers.Validator.
func (r *UpdateStatusRequest) Validate() []string {
	if !r.Status.Valid() {
		return []string{"status is invalid"}
	}
	return nil
}

// UpdateStatus godoc
// @Summary Transition a registration's status
// @Description Applies a status machine transition and appends an audit entry. Approve, reject, and complete require the admin role; cancel is self-service for the record owner.
// @Tags registrations
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Registration ID"
// @Param body body controllers.UpdateStatusRequest true "Target status and optional note"
// @Success 200 {object} controllers.RegistrationSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 409 {object} helpers.APIResponse "error.code: conflict (illegal transition)"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /registrations/{id}/status [put]
func (c *RegistrationController) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	var req UpdateStatusRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	actor, _ := middleware.PrincipalFromContext(r.Context())

	reg, err := c.Service.Transition(r.Context(), id, req.Status, req.Note, actor)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrNotFound):
			helpers.WriteJSONError(w, http.StatusNotFound, helpers.ErrCodeNotFound, "registration not found")
		case errors.Is(err, domain.ErrInvalidTransition):
			helpers.WriteJSONError(w, http.StatusConflict, helpers.ErrCodeConflict, "invalid status transition")
		case errors.Is(err, domain.ErrForbidden):
			helpers.WriteJSONError(w, http.StatusForbidden, helpers.ErrCodeForbidden, "forbidden")
		case errors.Is(err, domain.ErrInvalidInput):
			helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, err.Error())
		default:
			c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
			helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, err.Error())
		}
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, reg)
}

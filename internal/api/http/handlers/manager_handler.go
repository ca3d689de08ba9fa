package handlers

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/interpreteya/booking-service/internal/api/dto"
	"github.com/interpreteya/booking-service/internal/auth"
	"github.com/interpreteya/booking-service/internal/domain"
	"github.com/interpreteya/booking-service/internal/service"
	apperrors "github.com/interpreteya/booking-service/pkg/errorutil"
)

// ManagerHandler exposes the manager dashboard endpoints.
type ManagerHandler struct {
	accounts *service.AccountService
	bookings *service.BookingService
}

// NewManagerHandler constructs handler.
func NewManagerHandler(accountService *service.AccountService, bookingService *service.BookingService) *ManagerHandler {
	return &ManagerHandler{accounts: accountService, bookings: bookingService}
}

// PendingAccounts GET /manager/accounts/pending.
func (h *ManagerHandler) PendingAccounts(c *fiber.Ctx) error {
	accounts, err := h.accounts.ListPendingAccounts(c.Context(), parseInt(c.Query("limit"), 50))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": accountViews(accounts)})
}

// BlockedAccounts GET /manager/accounts/blocked.
func (h *ManagerHandler) BlockedAccounts(c *fiber.Ctx) error {
	accounts, err := h.accounts.ListBlockedAccounts(c.Context(), parseInt(c.Query("limit"), 50))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": accountViews(accounts)})
}

// ApproveAccount POST /manager/accounts/:id/approve.
func (h *ManagerHandler) ApproveAccount(c *fiber.Ctx) error {
	return h.decide(c, domain.AccountStatusApproved)
}

// RejectAccount POST /manager/accounts/:id/reject.
func (h *ManagerHandler) RejectAccount(c *fiber.Ctx) error {
	return h.decide(c, domain.AccountStatusRejected)
}

func (h *ManagerHandler) decide(c *fiber.Ctx, decision domain.AccountStatus) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("manager required")
	}
	account, err := h.accounts.Decide(c.Context(), principal.Session, c.Params("id"), decision)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.AccountView(account)})
}

// BlockAccount POST /manager/accounts/:id/block.
func (h *ManagerHandler) BlockAccount(c *fiber.Ctx) error {
	return h.setBlocked(c, true)
}

// UnblockAccount POST /manager/accounts/:id/unblock.
func (h *ManagerHandler) UnblockAccount(c *fiber.Ctx) error {
	return h.setBlocked(c, false)
}

func (h *ManagerHandler) setBlocked(c *fiber.Ctx, blocked bool) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("manager required")
	}
	account, err := h.accounts.SetBlocked(c.Context(), principal.Session, c.Params("id"), blocked)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.AccountView(account)})
}

// ListBookings GET /manager/bookings. Returns the filtered page plus counts
// over it for the dashboard header.
func (h *ManagerHandler) ListBookings(c *fiber.Ctx) error {
	bookings, stats, err := h.bookings.ListForManager(c.Context(), parseBookingQuery(c))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"data":  dto.BookingViews(bookings),
		"stats": stats,
	})
}

// SetBookingStatus PUT /manager/bookings/:id/status.
func (h *ManagerHandler) SetBookingStatus(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("manager required")
	}
	var req dto.SetBookingStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	booking, err := h.bookings.SetStatus(c.Context(), principal.Session, c.Params("id"), req.Status)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.BookingView(booking)})
}

// AssignBooking PUT /manager/bookings/:id/interpreter.
func (h *ManagerHandler) AssignBooking(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("manager required")
	}
	var req dto.AssignBookingRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if details := dto.Validate(req); details != nil {
		return apperrors.NewValidationError("interpreter_id required", details)
	}
	booking, err := h.bookings.Assign(c.Context(), principal.Session, c.Params("id"), req.InterpreterID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.BookingView(booking)})
}

// UnassignBooking DELETE /manager/bookings/:id/interpreter.
func (h *ManagerHandler) UnassignBooking(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("manager required")
	}
	booking, err := h.bookings.Unassign(c.Context(), principal.Session, c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.BookingView(booking)})
}

// ExportBookings GET /manager/bookings/export. Streams the current filter as
// a CSV download.
func (h *ManagerHandler) ExportBookings(c *fiber.Ctx) error {
	csvBytes, err := h.bookings.ExportCSV(c.Context(), parseBookingQuery(c))
	if err != nil {
		return err
	}
	filename := "bookings-" + time.Now().Format("2006-01-02") + ".csv"
	c.Set(fiber.HeaderContentType, "text/csv; charset=utf-8")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+filename+`"`)
	return c.Send(csvBytes)
}

func parseBookingQuery(c *fiber.Ctx) service.BookingListFilter {
	filter := service.BookingListFilter{}
	if statusStr := c.Query("status"); statusStr != "" {
		for _, part := range strings.Split(statusStr, ",") {
			filter.Statuses = append(filter.Statuses, domain.BookingStatus(strings.TrimSpace(part)))
		}
	}
	if st := c.Query("service_type"); st != "" {
		serviceType := domain.ServiceType(st)
		filter.ServiceType = &serviceType
	}
	filter.OnlyEmergencies = c.QueryBool("emergency")
	filter.OnlyPaid = c.QueryBool("paid")
	filter.ScheduledFrom = parseTime(c.Query("scheduled_from"))
	filter.ScheduledTo = parseTime(c.Query("scheduled_to"))

	page := parseInt(c.Query("page"), 1)
	pageSize := parseInt(c.Query("page_size"), 50)
	filter.Offset = (page - 1) * pageSize
	filter.Limit = pageSize
	return filter
}

func accountViews(accounts []domain.Account) []dto.AccountResponse {
	items := make([]dto.AccountResponse, 0, len(accounts))
	for i := range accounts {
		items = append(items, dto.AccountView(&accounts[i]))
	}
	return items
}

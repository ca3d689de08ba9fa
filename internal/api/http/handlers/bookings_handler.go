package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/interpreteya/booking-service/internal/api/dto"
	"github.com/interpreteya/booking-service/internal/auth"
	"github.com/interpreteya/booking-service/internal/service"
	apperrors "github.com/interpreteya/booking-service/pkg/errorutil"
)

// BookingsHandler manages the caller's own bookings.
type BookingsHandler struct {
	bookings *service.BookingService
	ratings  *service.RatingService
}

// NewBookingsHandler constructs handler.
func NewBookingsHandler(bookingService *service.BookingService, ratingService *service.RatingService) *BookingsHandler {
	return &BookingsHandler{bookings: bookingService, ratings: ratingService}
}

// Create POST /bookings.
func (h *BookingsHandler) Create(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("account required")
	}
	var req dto.CreateBookingRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if details := dto.Validate(req); details != nil {
		return apperrors.NewValidationError("invalid booking", details)
	}

	booking, err := h.bookings.Create(c.Context(), principal.Account, service.BookingCreateInput{
		ServiceType:            req.ServiceType,
		DurationMinutes:        req.DurationMinutes,
		ScheduledAt:            req.ScheduledAt,
		Note:                   req.Note,
		RequestedInterpreterID: req.RequestedInterpreterID,
	})
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": dto.BookingView(booking)})
}

// CreateEmergency POST /bookings/emergency. One tap: ten minutes of video
// call, right now.
func (h *BookingsHandler) CreateEmergency(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("account required")
	}
	booking, err := h.bookings.CreateEmergency(c.Context(), principal.Account)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": dto.BookingView(booking)})
}

// CreateUrgent POST /bookings/urgent.
func (h *BookingsHandler) CreateUrgent(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("account required")
	}
	var req dto.CreateUrgentRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if details := dto.Validate(req); details != nil {
		return apperrors.NewValidationError("invalid booking", details)
	}

	booking, err := h.bookings.CreateUrgent(c.Context(), principal.Account, service.UrgentCreateInput{
		ServiceType:            req.ServiceType,
		DurationMinutes:        req.DurationMinutes,
		Note:                   req.Note,
		RequestedInterpreterID: req.RequestedInterpreterID,
	})
	if err != nil {
		return err
	}
	if req.PayNow {
		paid, err := h.bookings.Pay(c.Context(), principal.Session, booking.ID)
		if err != nil {
			return err
		}
		booking = paid
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": dto.BookingView(booking)})
}

// List GET /bookings.
func (h *BookingsHandler) List(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("account required")
	}
	page := parseInt(c.Query("page"), 1)
	pageSize := parseInt(c.Query("page_size"), 20)
	bookings, err := h.bookings.ListOwn(c.Context(), principal.Session, pageSize, (page-1)*pageSize)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.BookingViews(bookings)})
}

// Get GET /bookings/:id.
func (h *BookingsHandler) Get(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("account required")
	}
	booking, err := h.bookings.GetOwn(c.Context(), principal.Session, c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.BookingView(booking)})
}

// Pay POST /bookings/:id/pay.
func (h *BookingsHandler) Pay(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("account required")
	}
	booking, err := h.bookings.Pay(c.Context(), principal.Session, c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.BookingView(booking)})
}

// Rate POST /bookings/:id/rating.
func (h *BookingsHandler) Rate(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("account required")
	}
	var req dto.CreateRatingRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if details := dto.Validate(req); details != nil {
		return apperrors.NewValidationError("stars between 1 and 5 required", details)
	}
	rating, err := h.ratings.RateBooking(c.Context(), principal.Session, c.Params("id"), req.Stars, req.Comment)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": dto.RatingView(rating)})
}
